package tui

import (
	"context"
	"strconv"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/votoinformado/votoadmin/internal/api"
)

// historyView lists one candidate's political history. Create and edit go
// through the same form.
type historyView struct {
	inner *crudView[api.HistoryEntry]
}

func newHistoryView(app *App, candidateID string) *historyView {
	return &historyView{inner: newCrudView(app, historySection(app.client, candidateID))}
}

func (v *historyView) Init() tea.Cmd { return v.inner.Init() }

func (v *historyView) Update(msg tea.Msg) tea.Cmd {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
		if cmd := v.inner.Update(msg); cmd != nil {
			return cmd
		}
		// Back to the candidate list rather than the dashboard.
		return func() tea.Msg { return openPageMsg{page: pageCandidates} }
	}
	return v.inner.Update(msg)
}

func (v *historyView) View() string { return v.inner.View() }

func historySection(client *api.Client, candidateID string) sectionSpec[api.HistoryEntry] {
	return sectionSpec[api.HistoryEntry]{
		title: "Historial político",
		columns: []table.Column{
			{Title: "Cargo", Width: 24},
			{Title: "Institución", Width: 24},
			{Title: "Inicio", Width: 6},
			{Title: "Fin", Width: 6},
		},
		row: func(h api.HistoryEntry) table.Row {
			fin := ""
			if h.AnoFin > 0 {
				fin = strconv.Itoa(h.AnoFin)
			}
			return table.Row{h.Cargo, h.Institucion, strconv.Itoa(h.AnoInicio), fin}
		},
		id:   func(h api.HistoryEntry) string { return h.ID },
		zero: func() api.HistoryEntry { return api.HistoryEntry{CandidatoID: candidateID} },
		list: func(ctx context.Context) ([]api.HistoryEntry, error) {
			return client.HistoryByCandidate(ctx, candidateID)
		},
		create: func(ctx context.Context, h api.HistoryEntry, _ *api.Upload) (api.HistoryEntry, error) {
			h.CandidatoID = candidateID
			return client.CreateHistoryEntry(ctx, h)
		},
		update: func(ctx context.Context, id string, h api.HistoryEntry, _ *api.Upload) (api.HistoryEntry, error) {
			h.CandidatoID = candidateID
			return client.UpdateHistoryEntry(ctx, id, h)
		},
		remove: client.DeleteHistoryEntry,
		fields: []fieldSpec[api.HistoryEntry]{
			{label: "Cargo", get: func(h api.HistoryEntry) string { return h.Cargo }, set: func(h *api.HistoryEntry, v string) { h.Cargo = v }},
			{label: "Institución", get: func(h api.HistoryEntry) string { return h.Institucion }, set: func(h *api.HistoryEntry, v string) { h.Institucion = v }},
			{label: "Año inicio", get: func(h api.HistoryEntry) string { return strconv.Itoa(h.AnoInicio) }, set: func(h *api.HistoryEntry, v string) {
				if n, err := strconv.Atoi(v); err == nil {
					h.AnoInicio = n
				}
			}},
			{label: "Año fin", get: func(h api.HistoryEntry) string {
				if h.AnoFin == 0 {
					return ""
				}
				return strconv.Itoa(h.AnoFin)
			}, set: func(h *api.HistoryEntry, v string) {
				if v == "" {
					h.AnoFin = 0
					return
				}
				if n, err := strconv.Atoi(v); err == nil {
					h.AnoFin = n
				}
			}},
		},
	}
}
