package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// loginResultMsg reports the outcome of a login attempt. The app shell
// handles success; the view only cares about failure.
type loginResultMsg struct {
	ok bool
}

// loginView collects credentials and drives the session store. While a
// submit is in flight further submits are ignored.
type loginView struct {
	app        *App
	email      textinput.Model
	password   textinput.Model
	focus      int
	submitting bool
	errText    string
}

func newLoginView(app *App) *loginView {
	email := textinput.New()
	email.Placeholder = "correo@ejemplo.pe"
	email.Prompt = "Email: "
	email.Focus()

	password := textinput.New()
	password.Placeholder = "contraseña"
	password.Prompt = "Contraseña: "
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	return &loginView{app: app, email: email, password: password}
}

func (v *loginView) Init() tea.Cmd {
	return textinput.Blink
}

func (v *loginView) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case loginResultMsg:
		v.submitting = false
		if !msg.ok {
			v.errText = "Credenciales inválidas o servidor no disponible"
		}
		return consumed
	case tea.KeyMsg:
		switch msg.String() {
		case "tab", "shift+tab", "up", "down":
			v.toggleFocus()
			return consumed
		case "enter":
			return v.submit()
		}
	}
	var cmds []tea.Cmd
	var cmd tea.Cmd
	v.email, cmd = v.email.Update(msg)
	cmds = append(cmds, cmd)
	v.password, cmd = v.password.Update(msg)
	cmds = append(cmds, cmd)
	return tea.Batch(cmds...)
}

func (v *loginView) toggleFocus() {
	if v.focus == 0 {
		v.focus = 1
		v.email.Blur()
		v.password.Focus()
	} else {
		v.focus = 0
		v.password.Blur()
		v.email.Focus()
	}
}

func (v *loginView) submit() tea.Cmd {
	if v.submitting {
		return consumed
	}
	email := strings.TrimSpace(v.email.Value())
	password := v.password.Value()
	if email == "" || password == "" {
		v.errText = "Ingrese email y contraseña"
		return consumed
	}
	v.submitting = true
	v.errText = ""
	app := v.app
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), app.config.RequestTimeout())
		defer cancel()
		return loginResultMsg{ok: app.session.Login(ctx, email, password)}
	}
}

func (v *loginView) View() string {
	title := lipgloss.NewStyle().Bold(true).Render("Iniciar sesión")
	lines := []string{title, "", v.email.View(), v.password.View()}
	if v.submitting {
		lines = append(lines, "", "Ingresando...")
	}
	if v.errText != "" {
		lines = append(lines, "", lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Render(v.errText))
	}
	hint := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#AAAAAA")).
		MarginTop(1).
		Render("Enter → ingresar    Tab → cambiar campo    Ctrl+C → salir")
	lines = append(lines, hint)
	return strings.Join(lines, "\n")
}
