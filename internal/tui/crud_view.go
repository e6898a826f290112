package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/votoinformado/votoadmin/internal/api"
)

type fieldKind int

const (
	fieldText fieldKind = iota
	fieldSecret
	fieldBool
	fieldChoice
	fieldFile
)

// fieldSpec describes one form field of a section. locked, when set,
// disables the field for particular records (the admin form uses it to
// keep an operator from demoting or deactivating their own account).
type fieldSpec[T any] struct {
	label   string
	kind    fieldKind
	get     func(T) string
	set     func(*T, string)
	choices []string
	locked  func(T) bool
	part    string // multipart part name for fieldFile
}

// sectionSpec wires one resource into the generic list/form/delete view.
type sectionSpec[T any] struct {
	title   string
	columns []table.Column
	row     func(T) table.Row
	id      func(T) string
	zero    func() T
	list    func(context.Context) ([]T, error)
	create  func(context.Context, T, *api.Upload) (T, error)
	update  func(context.Context, string, T, *api.Upload) (T, error)
	remove  func(context.Context, string) error

	fields []fieldSpec[T]

	// rowKeys maps extra list-mode keys to actions on the selected row.
	rowKeys map[string]func(T) tea.Msg
	// rowHint documents rowKeys in the footer.
	rowHint string
}

type crudMode int

const (
	modeList crudMode = iota
	modeForm
	modeConfirmDelete
)

type rowsLoadedMsg[T any] struct {
	rows []T
	err  error
}

type rowSavedMsg struct{ err error }

type rowDeletedMsg struct{ err error }

// crudView is the shared list + modal form + confirm-delete screen.
type crudView[T any] struct {
	app  *App
	spec sectionSpec[T]

	table table.Model
	rows  []T

	mode     crudMode
	isSaving bool

	// form state
	editing   T
	isNew     bool
	inputs    []textinput.Model
	boolVals  []bool
	choiceIdx []int
	focus     int
	formErr   string

	deleteID string
}

func newCrudView[T any](app *App, spec sectionSpec[T]) *crudView[T] {
	tbl := table.New(
		table.WithColumns(spec.columns),
		table.WithFocused(true),
		table.WithHeight(12),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.Bold(true).BorderBottom(true)
	styles.Selected = styles.Selected.Foreground(lipgloss.Color("#D64550")).Bold(true)
	tbl.SetStyles(styles)
	return &crudView[T]{app: app, spec: spec, table: tbl}
}

func (v *crudView[T]) ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), v.app.config.RequestTimeout())
}

func (v *crudView[T]) Init() tea.Cmd {
	return v.reload()
}

func (v *crudView[T]) reload() tea.Cmd {
	spec := v.spec
	newCtx := v.ctx
	return func() tea.Msg {
		ctx, cancel := newCtx()
		defer cancel()
		rows, err := spec.list(ctx)
		return rowsLoadedMsg[T]{rows: rows, err: err}
	}
}

func (v *crudView[T]) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case rowsLoadedMsg[T]:
		if msg.err != nil {
			v.app.logError("%s · load failed: %v", v.spec.title, msg.err)
			return banner(requestErrText(msg.err), true)
		}
		v.rows = msg.rows
		v.refreshTable()
		return consumed

	case rowSavedMsg:
		v.isSaving = false
		if msg.err != nil {
			v.formErr = requestErrText(msg.err)
			v.app.logError("%s · save failed: %v", v.spec.title, msg.err)
			return banner(v.formErr, true)
		}
		v.mode = modeList
		return tea.Batch(v.reload(), banner("Guardado correctamente", false))

	case rowDeletedMsg:
		v.isSaving = false
		v.mode = modeList
		if msg.err != nil {
			v.app.logError("%s · delete failed: %v", v.spec.title, msg.err)
			return banner(requestErrText(msg.err), true)
		}
		return tea.Batch(v.reload(), banner("Eliminado correctamente", false))

	case tea.KeyMsg:
		switch v.mode {
		case modeForm:
			return v.updateForm(msg)
		case modeConfirmDelete:
			return v.updateConfirm(msg)
		default:
			return v.updateList(msg)
		}
	}

	if v.mode == modeList {
		var cmd tea.Cmd
		v.table, cmd = v.table.Update(msg)
		return cmd
	}
	return nil
}

func (v *crudView[T]) updateList(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		return nil // shell navigates back
	case "r":
		return v.reload()
	case "n":
		v.openForm(v.spec.zero(), true)
		return consumed
	case "enter", "e":
		if row, ok := v.selectedRow(); ok {
			v.openForm(row, false)
		}
		return consumed
	case "d":
		if row, ok := v.selectedRow(); ok {
			v.deleteID = v.spec.id(row)
			v.mode = modeConfirmDelete
		}
		return consumed
	}
	if v.spec.rowKeys != nil {
		if action, ok := v.spec.rowKeys[msg.String()]; ok {
			if row, ok := v.selectedRow(); ok {
				m := action(row)
				return func() tea.Msg { return m }
			}
			return consumed
		}
	}
	var cmd tea.Cmd
	v.table, cmd = v.table.Update(msg)
	if cmd == nil {
		cmd = consumed
	}
	return cmd
}

func (v *crudView[T]) updateConfirm(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "y", "enter":
		if v.isSaving {
			return consumed
		}
		v.isSaving = true
		id := v.deleteID
		spec := v.spec
		newCtx := v.ctx
		return func() tea.Msg {
			ctx, cancel := newCtx()
			defer cancel()
			return rowDeletedMsg{err: spec.remove(ctx, id)}
		}
	case "n", "esc":
		v.mode = modeList
		return consumed
	}
	return consumed
}

func (v *crudView[T]) updateForm(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		v.mode = modeList
		v.formErr = ""
		return consumed
	case "tab", "down":
		v.moveFocus(1)
		return consumed
	case "shift+tab", "up":
		v.moveFocus(-1)
		return consumed
	case "enter":
		return v.save()
	case " ":
		if v.toggleFocused() {
			return consumed
		}
	}
	if v.focus < len(v.inputs) {
		field := v.spec.fields[v.focus]
		if field.kind == fieldText || field.kind == fieldSecret || field.kind == fieldFile {
			var cmd tea.Cmd
			v.inputs[v.focus], cmd = v.inputs[v.focus].Update(msg)
			if cmd == nil {
				cmd = consumed
			}
			return cmd
		}
	}
	return consumed
}

func (v *crudView[T]) selectedRow() (T, bool) {
	var zero T
	idx := v.table.Cursor()
	if idx < 0 || idx >= len(v.rows) {
		return zero, false
	}
	return v.rows[idx], true
}

func (v *crudView[T]) refreshTable() {
	rows := make([]table.Row, 0, len(v.rows))
	for _, r := range v.rows {
		rows = append(rows, v.spec.row(r))
	}
	v.table.SetRows(rows)
	if v.table.Cursor() >= len(rows) && len(rows) > 0 {
		v.table.SetCursor(len(rows) - 1)
	}
}

func (v *crudView[T]) openForm(record T, isNew bool) {
	v.editing = record
	v.isNew = isNew
	v.formErr = ""
	v.focus = 0
	v.inputs = make([]textinput.Model, len(v.spec.fields))
	v.boolVals = make([]bool, len(v.spec.fields))
	v.choiceIdx = make([]int, len(v.spec.fields))
	for i, field := range v.spec.fields {
		input := textinput.New()
		input.Prompt = ""
		input.CharLimit = 0
		switch field.kind {
		case fieldSecret:
			input.EchoMode = textinput.EchoPassword
			input.EchoCharacter = '•'
		case fieldBool:
			v.boolVals[i] = field.get(record) == "true"
		case fieldChoice:
			current := field.get(record)
			for ci, choice := range field.choices {
				if choice == current {
					v.choiceIdx[i] = ci
					break
				}
			}
		}
		if field.kind != fieldFile {
			input.SetValue(field.get(record))
		}
		v.inputs[i] = input
	}
	v.mode = modeForm
	v.focusField(0)
}

func (v *crudView[T]) fieldLocked(i int) bool {
	field := v.spec.fields[i]
	return field.locked != nil && field.locked(v.editing)
}

func (v *crudView[T]) moveFocus(delta int) {
	n := len(v.spec.fields)
	if n == 0 {
		return
	}
	for range v.spec.fields {
		v.focus = (v.focus + delta + n) % n
		if !v.fieldLocked(v.focus) {
			break
		}
	}
	v.focusField(v.focus)
}

func (v *crudView[T]) focusField(idx int) {
	for i := range v.inputs {
		if i == idx {
			v.inputs[i].Focus()
		} else {
			v.inputs[i].Blur()
		}
	}
}

// toggleFocused flips a bool field or cycles a choice field. Returns false
// for text fields so the space reaches the input.
func (v *crudView[T]) toggleFocused() bool {
	if v.focus >= len(v.spec.fields) || v.fieldLocked(v.focus) {
		return true
	}
	switch v.spec.fields[v.focus].kind {
	case fieldBool:
		v.boolVals[v.focus] = !v.boolVals[v.focus]
		return true
	case fieldChoice:
		n := len(v.spec.fields[v.focus].choices)
		if n > 0 {
			v.choiceIdx[v.focus] = (v.choiceIdx[v.focus] + 1) % n
		}
		return true
	}
	return false
}

func (v *crudView[T]) save() tea.Cmd {
	if v.isSaving {
		return consumed
	}
	record := v.editing
	var upload *api.Upload
	for i, field := range v.spec.fields {
		if v.fieldLocked(i) {
			continue
		}
		switch field.kind {
		case fieldBool:
			field.set(&record, fmt.Sprintf("%t", v.boolVals[i]))
		case fieldChoice:
			if len(field.choices) > 0 {
				field.set(&record, field.choices[v.choiceIdx[i]])
			}
		case fieldFile:
			path := strings.TrimSpace(v.inputs[i].Value())
			if path == "" {
				continue
			}
			f, err := os.Open(path)
			if err != nil {
				v.formErr = fmt.Sprintf("No se pudo abrir %s", path)
				return consumed
			}
			upload = &api.Upload{Field: field.part, Filename: filepath.Base(path), Reader: f}
		default:
			field.set(&record, strings.TrimSpace(v.inputs[i].Value()))
		}
	}
	v.isSaving = true
	v.formErr = ""

	spec := v.spec
	isNew := v.isNew
	id := spec.id(v.editing)
	newCtx := v.ctx
	return func() tea.Msg {
		ctx, cancel := newCtx()
		defer cancel()
		var err error
		if isNew {
			_, err = spec.create(ctx, record, upload)
		} else {
			_, err = spec.update(ctx, id, record, upload)
		}
		if upload != nil {
			if closer, ok := upload.Reader.(interface{ Close() error }); ok {
				_ = closer.Close()
			}
		}
		return rowSavedMsg{err: err}
	}
}

func (v *crudView[T]) View() string {
	title := lipgloss.NewStyle().Bold(true).Render(v.spec.title)
	switch v.mode {
	case modeForm:
		return title + "\n\n" + v.renderForm()
	case modeConfirmDelete:
		warn := lipgloss.NewStyle().Foreground(lipgloss.Color("#F7B801")).Render(
			"¿Eliminar el registro seleccionado? (y/n)")
		return title + "\n\n" + v.table.View() + "\n\n" + warn
	}
	hint := "n → nuevo    Enter → editar    d → eliminar    r → recargar    Esc → volver"
	if v.spec.rowHint != "" {
		hint = v.spec.rowHint + "    " + hint
	}
	footer := lipgloss.NewStyle().Foreground(lipgloss.Color("#AAAAAA")).MarginTop(1).Render(hint)
	return title + "\n\n" + v.table.View() + "\n" + footer
}

func (v *crudView[T]) renderForm() string {
	var lines []string
	header := "Editar registro"
	if v.isNew {
		header = "Nuevo registro"
	}
	lines = append(lines, header, "")
	for i, field := range v.spec.fields {
		marker := "  "
		if i == v.focus {
			marker = "> "
		}
		var value string
		switch field.kind {
		case fieldBool:
			value = "[ ]"
			if v.boolVals[i] {
				value = "[x]"
			}
		case fieldChoice:
			if len(field.choices) > 0 {
				value = field.choices[v.choiceIdx[i]]
			}
		default:
			value = v.inputs[i].View()
		}
		line := fmt.Sprintf("%s%s: %s", marker, field.label, value)
		if v.fieldLocked(i) {
			line = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666")).Render(line + "  (bloqueado)")
		}
		lines = append(lines, line)
	}
	if v.isSaving {
		lines = append(lines, "", "Guardando...")
	}
	if v.formErr != "" {
		lines = append(lines, "", lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Render(v.formErr))
	}
	hint := lipgloss.NewStyle().Foreground(lipgloss.Color("#AAAAAA")).MarginTop(1).Render(
		"Enter → guardar    Tab → siguiente campo    Espacio → alternar    Esc → cancelar")
	lines = append(lines, hint)
	return strings.Join(lines, "\n")
}

// requestErrText prefers the backend's own message, falling back to a
// generic one for transport failures.
func requestErrText(err error) string {
	if msg := api.ServerMessage(err); msg != "" {
		return msg
	}
	if api.IsUnauthorized(err) {
		return "Sesión expirada, vuelva a ingresar"
	}
	return "Error de conexión con el servidor"
}
