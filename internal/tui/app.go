// internal/tui/app.go
//
// Terminal admin client for the Voto Informado electoral platform.
// Built on bubbletea's Elm architecture: state in the model, transitions
// in Update, rendering in View.

package tui

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/votoinformado/votoadmin/internal/api"
	"github.com/votoinformado/votoadmin/internal/config"
	"github.com/votoinformado/votoadmin/internal/guard"
	"github.com/votoinformado/votoadmin/internal/logbook"
	"github.com/votoinformado/votoadmin/internal/session"
)

// pageID names every navigable screen.
type pageID string

const (
	pageLogin          pageID = "login"
	pageDashboard      pageID = "dashboard"
	pageCandidates     pageID = "candidatos"
	pageParties        pageID = "partidos"
	pageTopics         pageID = "temas"
	pageProposals      pageID = "propuestas"
	pageSchedule       pageID = "cronograma"
	pageResources      pageID = "recursos"
	pageAdministrators pageID = "administradores"
	pageTrivia         pageID = "trivias"
	pageHistory        pageID = "historial"
)

const bannerLifetime = 3 * time.Second

// pageView is one screen of the app. Views receive every message while
// active and render into the main panel.
type pageView interface {
	Init() tea.Cmd
	Update(msg tea.Msg) tea.Cmd
	View() string
}

// Messages views use to talk to the app shell.

// bannerMsg requests a transient status banner. A new banner replaces the
// previous one immediately.
type bannerMsg struct {
	text  string
	isErr bool
}

type bannerExpireMsg struct{ id int }

// openPageMsg navigates to another page. arg carries context such as the
// candidate id for the history page.
type openPageMsg struct {
	page pageID
	arg  string
}

// goBackMsg returns to the dashboard.
type goBackMsg struct{}

// sessionReadyMsg fires once the persisted session has been restored.
type sessionReadyMsg struct{}

// loggedOutMsg fires after the session store has been cleared.
type loggedOutMsg struct{}

// App is the top-level bubbletea model.
type App struct {
	config  *config.Config
	session *session.Store
	guard   *guard.Guard
	client  *api.Client
	logbook *logbook.Logbook

	menu    list.Model
	spin    spinner.Model
	current pageView
	page    pageID

	statusMsg   string
	statusIsErr bool
	bannerSeq   int

	width  int
	height int
}

// menuItem implements list.Item for the dashboard sections.
type menuItem struct {
	title string
	desc  string
	page  pageID
}

func (i menuItem) Title() string       { return i.title }
func (i menuItem) Description() string { return i.desc }
func (i menuItem) FilterValue() string { return i.title }

// NewApp wires the shell around an initialized config, session store, API
// client and logbook. The store must already be bound to the client; lb may
// be nil when the log file could not be opened.
func NewApp(cfg *config.Config, store *session.Store, client *api.Client, lb *logbook.Logbook) *App {
	lb.Info("Session opened · api: %s", cfg.APIURL())

	menu := list.New(buildMenu(), list.NewDefaultDelegate(), 0, 0)
	menu.Title = "⚖ VOTO INFORMADO"
	menu.SetShowStatusBar(false)
	menu.SetFilteringEnabled(false)

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	app := &App{
		config:  cfg,
		session: store,
		guard:   guard.New(store),
		client:  client,
		logbook: lb,
		menu:    menu,
		spin:    spin,
		page:    pageDashboard,
	}
	return app
}

func buildMenu() []list.Item {
	return []list.Item{
		menuItem{title: "Candidatos", desc: "Perfiles, historial político y plan de gobierno", page: pageCandidates},
		menuItem{title: "Partidos", desc: "Partidos políticos y sus logos", page: pageParties},
		menuItem{title: "Temas", desc: "Temas de propuestas con su ícono", page: pageTopics},
		menuItem{title: "Propuestas", desc: "Propuestas por candidato y tema", page: pageProposals},
		menuItem{title: "Cronograma", desc: "Eventos del calendario electoral", page: pageSchedule},
		menuItem{title: "Trivias", desc: "Temas de trivia, preguntas y opciones", page: pageTrivia},
		menuItem{title: "Recursos", desc: "Recursos educativos", page: pageResources},
		menuItem{title: "Administradores", desc: "Cuentas con acceso al panel", page: pageAdministrators},
		menuItem{title: "Salir", desc: "Cerrar sesión y salir", page: ""},
	}
}

func (a *App) logInfo(format string, args ...any) {
	if a.logbook != nil {
		a.logbook.Info(format, args...)
	}
}

func (a *App) logError(format string, args ...any) {
	if a.logbook != nil {
		a.logbook.Error(format, args...)
	}
}

// Init restores the persisted session before the first navigation.
func (a *App) Init() tea.Cmd {
	restore := func() tea.Msg {
		a.session.Initialize()
		return sessionReadyMsg{}
	}
	return tea.Batch(restore, a.spin.Tick)
}

// navigate runs the guard for the requested page and either admits it,
// shows the loading screen, or falls back to login with the origin kept.
func (a *App) navigate(page pageID, arg string) tea.Cmd {
	decision := a.guard.Evaluate(string(page))
	switch decision.State {
	case guard.StateLoading:
		a.page = page
		a.current = nil
		return nil
	case guard.StateUnauthenticated:
		a.logInfo("Navigation to %s blocked · redirecting to login", page)
		a.page = pageLogin
		a.current = newLoginView(a)
		return a.current.Init()
	}
	a.page = page
	switch page {
	case pageDashboard:
		a.current = nil
		return nil
	case pageCandidates:
		a.current = newCrudView(a, candidateSection(a.client))
	case pageParties:
		a.current = newCrudView(a, partySection(a.client))
	case pageTopics:
		a.current = newCrudView(a, topicSection(a.client))
	case pageProposals:
		a.current = newCrudView(a, proposalSection(a.client))
	case pageSchedule:
		a.current = newCrudView(a, scheduleSection(a.client))
	case pageResources:
		a.current = newCrudView(a, resourceSection(a.client))
	case pageAdministrators:
		a.current = newCrudView(a, administratorSection(a.client, a.session))
	case pageTrivia:
		a.current = newTriviaView(a)
	case pageHistory:
		a.current = newHistoryView(a, arg)
	default:
		a.current = nil
		return nil
	}
	return a.current.Init()
}

// afterLogin resumes the navigation that triggered the login redirect.
func (a *App) afterLogin() tea.Cmd {
	target := pageDashboard
	if from := a.guard.CapturedFrom(); from != "" && from != string(pageLogin) {
		target = pageID(from)
	}
	a.guard.ClearCapturedFrom()
	return a.navigate(target, "")
}

func (a *App) showBanner(text string, isErr bool) tea.Cmd {
	a.bannerSeq++
	id := a.bannerSeq
	a.statusMsg = text
	a.statusIsErr = isErr
	return tea.Tick(bannerLifetime, func(time.Time) tea.Msg {
		return bannerExpireMsg{id: id}
	})
}

func (a *App) logout() tea.Cmd {
	return func() tea.Msg {
		a.session.Logout()
		return loggedOutMsg{}
	}
}

// Update is the app-level message loop.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.menu.SetSize(max(0, msg.Width-6), max(0, msg.Height-12))
		if a.current != nil {
			return a, a.current.Update(msg)
		}
		return a, nil

	case spinner.TickMsg:
		if a.session.Loading() {
			var cmd tea.Cmd
			a.spin, cmd = a.spin.Update(msg)
			return a, cmd
		}
		return a, nil

	case sessionReadyMsg:
		a.logInfo("Session restored · authenticated: %v", a.session.IsAuthenticated())
		return a, a.navigate(pageDashboard, "")

	case loggedOutMsg:
		a.logInfo("Session closed")
		return a, tea.Quit

	case bannerMsg:
		return a, a.showBanner(msg.text, msg.isErr)

	case bannerExpireMsg:
		if msg.id == a.bannerSeq {
			a.statusMsg = ""
			a.statusIsErr = false
		}
		return a, nil

	case openPageMsg:
		return a, a.navigate(msg.page, msg.arg)

	case goBackMsg:
		return a, a.navigate(pageDashboard, "")

	case loginResultMsg:
		if msg.ok {
			a.logInfo("Login succeeded")
			cmd := a.afterLogin()
			banner := a.showBanner("Sesión iniciada", false)
			return a, tea.Batch(cmd, banner)
		}
		if a.current != nil {
			return a, a.current.Update(msg)
		}
		return a, nil

	case tea.KeyMsg:
		key := msg.String()
		switch key {
		case "ctrl+c":
			return a, tea.Quit
		case "q":
			if a.page == pageDashboard {
				return a, a.logout()
			}
		case "esc":
			if a.page != pageDashboard && a.page != pageLogin {
				// Views consume esc for sub-levels; only navigate when
				// the active view declines it.
				if a.current != nil {
					if cmd := a.current.Update(msg); cmd != nil {
						return a, cmd
					}
				}
				return a, a.navigate(pageDashboard, "")
			}
		case "enter":
			if a.page == pageDashboard {
				return a, a.handleMenuSelection()
			}
		}
	}

	if a.page == pageDashboard {
		var cmd tea.Cmd
		a.menu, cmd = a.menu.Update(msg)
		return a, cmd
	}
	if a.current != nil {
		return a, a.current.Update(msg)
	}
	return a, nil
}

func (a *App) handleMenuSelection() tea.Cmd {
	item, ok := a.menu.SelectedItem().(menuItem)
	if !ok {
		return nil
	}
	if item.page == "" {
		a.logInfo("Menu · Salir selected")
		return a.logout()
	}
	a.logInfo("Menu · %s selected", item.title)
	return a.navigate(item.page, "")
}

// View renders the active page inside the app chrome.
func (a *App) View() string {
	width := a.width
	if width <= 0 {
		width = 100
	}

	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#D64550")).
		MarginBottom(1).
		Render("⚖ VOTO INFORMADO · PANEL DE ADMINISTRACIÓN")

	var content string
	if a.session.Loading() {
		content = a.spin.View() + " Restaurando sesión..."
	} else if a.page == pageDashboard {
		content = a.menu.View()
	} else if a.current != nil {
		content = a.current.View()
	}

	body := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#444444")).
		Padding(0, 1).
		Width(max(40, width-2)).
		Render(content)

	sections := []string{header, body}
	if logPanel := a.renderLogPanel(); logPanel != "" {
		sections = append(sections, logPanel)
	}
	sections = append(sections, a.renderFooter())
	return strings.Join(sections, "\n")
}

func (a *App) renderLogPanel() string {
	if a.logbook == nil {
		return ""
	}
	lines := a.logbook.Tail(6)
	if len(lines) == 0 {
		return ""
	}
	head := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#5B8DEF")).
		Render("LOG · " + filepath.Base(a.logbook.Path()))
	tail := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#AAAAAA")).
		Render(strings.Join(lines, "\n"))
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#444444")).
		Padding(0, 1).
		Render(head + "\n" + tail)
}

func (a *App) renderFooter() string {
	parts := []string{}
	if admin, ok := a.session.Admin(); ok {
		parts = append(parts, fmt.Sprintf("%s · %s", admin.Nombre, admin.Rol))
	}
	if a.statusMsg != "" {
		color := "#888888"
		if a.statusIsErr {
			color = "#FF6B6B"
		}
		parts = append(parts, lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(a.statusMsg))
	}
	if len(parts) == 0 {
		return ""
	}
	return lipgloss.NewStyle().MarginTop(1).Render(strings.Join(parts, "    "))
}

// banner wraps a message into a one-shot command views can batch.
func banner(text string, isErr bool) tea.Cmd {
	return func() tea.Msg { return bannerMsg{text: text, isErr: isErr} }
}

// consumed is returned by views that handled a key the shell would
// otherwise act on, such as esc inside a sub-level.
var consumed tea.Cmd = func() tea.Msg { return nil }

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
