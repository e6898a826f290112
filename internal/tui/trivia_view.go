package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/votoinformado/votoadmin/internal/api"
	"github.com/votoinformado/votoadmin/internal/reconcile"
)

type triviaLevel int

const (
	levelTopics triviaLevel = iota
	levelQuestions
	levelOptions
)

// Messages moving between trivia levels.
type openQuestionsMsg struct{ topicID string }
type openOptionsMsg struct{ questionID string }

// triviaView nests three levels: trivia topics, the questions of one topic,
// and the answer-option editor for one question.
type triviaView struct {
	app   *App
	level triviaLevel

	topics    *crudView[api.TriviaTopic]
	questions *crudView[api.TriviaQuestion]
	options   *optionsEditor

	topicID string
}

func newTriviaView(app *App) *triviaView {
	v := &triviaView{app: app}
	v.topics = newCrudView(app, triviaTopicSection(app.client))
	return v
}

func (v *triviaView) Init() tea.Cmd {
	return v.topics.Init()
}

func (v *triviaView) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case openQuestionsMsg:
		v.level = levelQuestions
		v.topicID = msg.topicID
		v.questions = newCrudView(v.app, triviaQuestionSection(v.app.client, msg.topicID))
		return v.questions.Init()
	case openOptionsMsg:
		v.level = levelOptions
		v.options = newOptionsEditor(v.app, msg.questionID)
		return v.options.Init()
	case tea.KeyMsg:
		if msg.String() == "esc" {
			switch v.level {
			case levelOptions:
				if cmd := v.options.Update(msg); cmd != nil {
					return cmd
				}
				v.level = levelQuestions
				v.options = nil
				return v.questions.reload()
			case levelQuestions:
				if cmd := v.questions.Update(msg); cmd != nil {
					return cmd
				}
				v.level = levelTopics
				v.questions = nil
				return v.topics.reload()
			default:
				return v.topics.Update(msg)
			}
		}
	}
	switch v.level {
	case levelOptions:
		return v.options.Update(msg)
	case levelQuestions:
		return v.questions.Update(msg)
	default:
		return v.topics.Update(msg)
	}
}

func (v *triviaView) View() string {
	switch v.level {
	case levelOptions:
		return v.options.View()
	case levelQuestions:
		return v.questions.View()
	default:
		return v.topics.View()
	}
}

func triviaTopicSection(client *api.Client) sectionSpec[api.TriviaTopic] {
	return sectionSpec[api.TriviaTopic]{
		title: "Trivias · Temas",
		columns: []table.Column{
			{Title: "Nombre", Width: 26},
			{Title: "Descripción", Width: 28},
			{Title: "Activo", Width: 6},
		},
		row: func(t api.TriviaTopic) table.Row {
			return table.Row{t.Nombre, t.Descripcion, boolMark(t.Activo)}
		},
		id:   func(t api.TriviaTopic) string { return t.ID },
		zero: func() api.TriviaTopic { return api.TriviaTopic{Activo: true} },
		list: client.ListTriviaTopics,
		create: func(ctx context.Context, t api.TriviaTopic, up *api.Upload) (api.TriviaTopic, error) {
			return client.CreateTriviaTopic(ctx, t, up)
		},
		update: func(ctx context.Context, id string, t api.TriviaTopic, up *api.Upload) (api.TriviaTopic, error) {
			return client.UpdateTriviaTopic(ctx, id, t, up)
		},
		remove: client.DeleteTriviaTopic,
		fields: []fieldSpec[api.TriviaTopic]{
			{label: "Nombre", get: func(t api.TriviaTopic) string { return t.Nombre }, set: func(t *api.TriviaTopic, v string) { t.Nombre = v }},
			{label: "Descripción", get: func(t api.TriviaTopic) string { return t.Descripcion }, set: func(t *api.TriviaTopic, v string) { t.Descripcion = v }},
			{label: "Imagen (ruta)", kind: fieldFile, part: "imagen", get: func(api.TriviaTopic) string { return "" }, set: func(*api.TriviaTopic, string) {}},
			{label: "Activo", kind: fieldBool, get: func(t api.TriviaTopic) string { return strconv.FormatBool(t.Activo) }, set: func(t *api.TriviaTopic, v string) { t.Activo = parseBool(v) }},
		},
		rowKeys: map[string]func(api.TriviaTopic) tea.Msg{
			"p": func(t api.TriviaTopic) tea.Msg { return openQuestionsMsg{topicID: t.ID} },
		},
		rowHint: "p → preguntas",
	}
}

func triviaQuestionSection(client *api.Client, topicID string) sectionSpec[api.TriviaQuestion] {
	return sectionSpec[api.TriviaQuestion]{
		title: "Trivias · Preguntas",
		columns: []table.Column{
			{Title: "Pregunta", Width: 44},
			{Title: "Orden", Width: 6},
		},
		row: func(q api.TriviaQuestion) table.Row {
			return table.Row{q.Texto, strconv.Itoa(q.Orden)}
		},
		id:   func(q api.TriviaQuestion) string { return q.ID },
		zero: func() api.TriviaQuestion { return api.TriviaQuestion{TemaID: topicID} },
		list: func(ctx context.Context) ([]api.TriviaQuestion, error) {
			return client.QuestionsByTopic(ctx, topicID)
		},
		create: func(ctx context.Context, q api.TriviaQuestion, _ *api.Upload) (api.TriviaQuestion, error) {
			q.TemaID = topicID
			return client.CreateQuestion(ctx, q)
		},
		update: func(ctx context.Context, id string, q api.TriviaQuestion, _ *api.Upload) (api.TriviaQuestion, error) {
			q.TemaID = topicID
			return client.UpdateQuestion(ctx, id, q)
		},
		remove: client.DeleteQuestion,
		fields: []fieldSpec[api.TriviaQuestion]{
			{label: "Texto", get: func(q api.TriviaQuestion) string { return q.Texto }, set: func(q *api.TriviaQuestion, v string) { q.Texto = v }},
			{label: "Orden", get: func(q api.TriviaQuestion) string { return strconv.Itoa(q.Orden) }, set: func(q *api.TriviaQuestion, v string) {
				if n, err := strconv.Atoi(v); err == nil {
					q.Orden = n
				}
			}},
		},
		rowKeys: map[string]func(api.TriviaQuestion) tea.Msg{
			"o": func(q api.TriviaQuestion) tea.Msg { return openOptionsMsg{questionID: q.ID} },
		},
		rowHint: "o → opciones",
	}
}

// optionsEditor edits the answer options of one question as a batch. All
// edits stay in a local draft until save, which reconciles the draft
// against the server row by row and reloads on success.
type optionsEditor struct {
	app        *App
	questionID string
	rec        *reconcile.Reconciler

	cursor   int
	input    textinput.Model
	editing  string // option id being renamed, "" when browsing
	adding   bool
	isSaving bool
	loaded   bool
	errText  string
}

type optionsLoadedMsg struct{ err error }

type optionsSavedMsg struct{ err error }

func newOptionsEditor(app *App, questionID string) *optionsEditor {
	input := textinput.New()
	input.Prompt = "Texto: "
	return &optionsEditor{
		app:        app,
		questionID: questionID,
		rec:        reconcile.New(app.client),
		input:      input,
	}
}

func (e *optionsEditor) Init() tea.Cmd {
	app := e.app
	rec := e.rec
	id := e.questionID
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), app.config.RequestTimeout())
		defer cancel()
		return optionsLoadedMsg{err: rec.Load(ctx, id)}
	}
}

func (e *optionsEditor) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case optionsLoadedMsg:
		if msg.err != nil {
			e.errText = requestErrText(msg.err)
			return banner(e.errText, true)
		}
		e.loaded = true
		e.errText = ""
		e.clampCursor()
		return consumed

	case optionsSavedMsg:
		e.isSaving = false
		if msg.err != nil {
			e.errText = requestErrText(msg.err)
			e.app.logError("Opciones · save failed: %v", msg.err)
			return banner("No se pudo guardar, el borrador se mantiene", true)
		}
		e.errText = ""
		e.clampCursor()
		return banner("Opciones guardadas", false)

	case tea.KeyMsg:
		if e.editing != "" || e.adding {
			return e.updateInput(msg)
		}
		return e.updateBrowse(msg)
	}
	return nil
}

func (e *optionsEditor) updateBrowse(msg tea.KeyMsg) tea.Cmd {
	rows := e.rec.Rows()
	switch msg.String() {
	case "esc":
		return nil // trivia view goes up a level
	case "up", "k":
		if e.cursor > 0 {
			e.cursor--
		}
		return consumed
	case "down", "j":
		if e.cursor < len(rows)-1 {
			e.cursor++
		}
		return consumed
	case "a":
		e.adding = true
		e.input.SetValue("")
		e.input.Focus()
		return textinput.Blink
	case "e":
		if e.cursor < len(rows) {
			e.editing = rows[e.cursor].ID
			e.input.SetValue(rows[e.cursor].Texto)
			e.input.Focus()
			return textinput.Blink
		}
		return consumed
	case " ", "c":
		if e.cursor < len(rows) {
			e.rec.SetSoleCorrect(rows[e.cursor].ID)
		}
		return consumed
	case "d":
		if e.cursor < len(rows) {
			e.rec.RemoveRow(rows[e.cursor].ID)
			e.clampCursor()
		}
		return consumed
	case "s":
		return e.save()
	}
	return consumed
}

func (e *optionsEditor) updateInput(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		e.adding = false
		e.editing = ""
		e.input.Blur()
		return consumed
	case "enter":
		text := strings.TrimSpace(e.input.Value())
		if e.adding {
			if _, err := e.rec.AddRow(text); err != nil {
				e.errText = "El texto de la opción no puede estar vacío"
				return consumed
			}
		} else if e.editing != "" {
			if text == "" {
				e.errText = "El texto de la opción no puede estar vacío"
				return consumed
			}
			e.rec.SetText(e.editing, text)
		}
		e.errText = ""
		e.adding = false
		e.editing = ""
		e.input.Blur()
		return consumed
	}
	var cmd tea.Cmd
	e.input, cmd = e.input.Update(msg)
	if cmd == nil {
		cmd = consumed
	}
	return cmd
}

func (e *optionsEditor) save() tea.Cmd {
	if e.isSaving || !e.loaded {
		return consumed
	}
	if e.rec.Plan().Empty() {
		return banner("Sin cambios que guardar", false)
	}
	e.isSaving = true
	app := e.app
	rec := e.rec
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), app.config.RequestTimeout())
		defer cancel()
		return optionsSavedMsg{err: rec.Save(ctx)}
	}
}

func (e *optionsEditor) clampCursor() {
	n := len(e.rec.Rows())
	if e.cursor >= n {
		e.cursor = n - 1
	}
	if e.cursor < 0 {
		e.cursor = 0
	}
}

func (e *optionsEditor) View() string {
	title := lipgloss.NewStyle().Bold(true).Render("Trivias · Opciones de respuesta")
	var lines []string
	lines = append(lines, title, "")
	rows := e.rec.Rows()
	if !e.loaded {
		lines = append(lines, "Cargando opciones...")
	} else if len(rows) == 0 {
		lines = append(lines, "Sin opciones. Pulse 'a' para agregar una.")
	}
	for i, row := range rows {
		marker := "  "
		if i == e.cursor && e.editing == "" && !e.adding {
			marker = "> "
		}
		correct := "( )"
		if row.Correcta {
			correct = "(✓)"
		}
		line := fmt.Sprintf("%s%s %s", marker, correct, row.Texto)
		if row.New {
			line += lipgloss.NewStyle().Foreground(lipgloss.Color("#4CAF50")).Render("  nuevo")
		}
		lines = append(lines, line)
	}
	if e.adding {
		lines = append(lines, "", "Nueva opción · "+e.input.View())
	} else if e.editing != "" {
		lines = append(lines, "", "Editar opción · "+e.input.View())
	}
	if e.isSaving {
		lines = append(lines, "", "Guardando...")
	}
	if e.errText != "" {
		lines = append(lines, "", lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Render(e.errText))
	}
	hint := lipgloss.NewStyle().Foreground(lipgloss.Color("#AAAAAA")).MarginTop(1).Render(
		"a → agregar    e → editar    Espacio → marcar correcta    d → quitar    s → guardar    Esc → volver")
	lines = append(lines, hint)
	return strings.Join(lines, "\n")
}
