package tui

import (
	"context"
	"strconv"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/votoinformado/votoadmin/internal/api"
	"github.com/votoinformado/votoadmin/internal/session"
)

func boolMark(b bool) string {
	if b {
		return "✓"
	}
	return "✗"
}

func parseBool(s string) bool {
	b, _ := strconv.ParseBool(s)
	return b
}

func candidateSection(client *api.Client) sectionSpec[api.Candidate] {
	return sectionSpec[api.Candidate]{
		title: "Candidatos",
		columns: []table.Column{
			{Title: "Nombre", Width: 18},
			{Title: "Apellido", Width: 18},
			{Title: "Partido", Width: 14},
			{Title: "Activo", Width: 6},
		},
		row: func(c api.Candidate) table.Row {
			return table.Row{c.Nombre, c.Apellido, c.PartidoID, boolMark(c.Activo)}
		},
		id:   func(c api.Candidate) string { return c.ID },
		zero: func() api.Candidate { return api.Candidate{Activo: true} },
		list: client.ListCandidates,
		create: func(ctx context.Context, c api.Candidate, up *api.Upload) (api.Candidate, error) {
			return client.CreateCandidate(ctx, c, up)
		},
		update: func(ctx context.Context, id string, c api.Candidate, up *api.Upload) (api.Candidate, error) {
			return client.UpdateCandidate(ctx, id, c, up)
		},
		remove: client.DeleteCandidate,
		fields: []fieldSpec[api.Candidate]{
			{label: "Nombre", get: func(c api.Candidate) string { return c.Nombre }, set: func(c *api.Candidate, v string) { c.Nombre = v }},
			{label: "Apellido", get: func(c api.Candidate) string { return c.Apellido }, set: func(c *api.Candidate, v string) { c.Apellido = v }},
			{label: "Biografía", get: func(c api.Candidate) string { return c.Biografia }, set: func(c *api.Candidate, v string) { c.Biografia = v }},
			{label: "Partido (id)", get: func(c api.Candidate) string { return c.PartidoID }, set: func(c *api.Candidate, v string) { c.PartidoID = v }},
			{label: "Plan de gobierno", get: func(c api.Candidate) string { return c.PlanGobierno }, set: func(c *api.Candidate, v string) { c.PlanGobierno = v }},
			{label: "Foto (ruta)", kind: fieldFile, part: "foto", get: func(api.Candidate) string { return "" }, set: func(*api.Candidate, string) {}},
			{label: "Activo", kind: fieldBool, get: func(c api.Candidate) string { return strconv.FormatBool(c.Activo) }, set: func(c *api.Candidate, v string) { c.Activo = parseBool(v) }},
		},
		rowKeys: map[string]func(api.Candidate) tea.Msg{
			"h": func(c api.Candidate) tea.Msg { return openPageMsg{page: pageHistory, arg: c.ID} },
		},
		rowHint: "h → historial",
	}
}

func partySection(client *api.Client) sectionSpec[api.Party] {
	return sectionSpec[api.Party]{
		title: "Partidos",
		columns: []table.Column{
			{Title: "Nombre", Width: 30},
			{Title: "Logo", Width: 30},
		},
		row: func(p api.Party) table.Row {
			return table.Row{p.Nombre, client.ImageURL(p.LogoURL)}
		},
		id:   func(p api.Party) string { return p.ID },
		zero: func() api.Party { return api.Party{} },
		list: client.ListParties,
		create: func(ctx context.Context, p api.Party, up *api.Upload) (api.Party, error) {
			return client.CreateParty(ctx, p, up)
		},
		update: func(ctx context.Context, id string, p api.Party, up *api.Upload) (api.Party, error) {
			return client.UpdateParty(ctx, id, p, up)
		},
		remove: client.DeleteParty,
		fields: []fieldSpec[api.Party]{
			{label: "Nombre", get: func(p api.Party) string { return p.Nombre }, set: func(p *api.Party, v string) { p.Nombre = v }},
			{label: "Logo (ruta)", kind: fieldFile, part: "logo", get: func(api.Party) string { return "" }, set: func(*api.Party, string) {}},
		},
	}
}

func topicSection(client *api.Client) sectionSpec[api.Topic] {
	choices := make([]string, 0, len(iconChoices()))
	for _, icon := range iconChoices() {
		choices = append(choices, string(icon))
	}
	return sectionSpec[api.Topic]{
		title: "Temas",
		columns: []table.Column{
			{Title: "Nombre", Width: 26},
			{Title: "Ícono", Width: 20},
		},
		row: func(t api.Topic) table.Row {
			return table.Row{t.Nombre, iconGlyph(t.Icono) + " " + iconLabel(t.Icono)}
		},
		id:   func(t api.Topic) string { return t.ID },
		zero: func() api.Topic { return api.Topic{} },
		list: client.ListTopics,
		create: func(ctx context.Context, t api.Topic, _ *api.Upload) (api.Topic, error) {
			return client.CreateTopic(ctx, t)
		},
		update: func(ctx context.Context, id string, t api.Topic, _ *api.Upload) (api.Topic, error) {
			return client.UpdateTopic(ctx, id, t)
		},
		remove: client.DeleteTopic,
		fields: []fieldSpec[api.Topic]{
			{label: "Nombre", get: func(t api.Topic) string { return t.Nombre }, set: func(t *api.Topic, v string) { t.Nombre = v }},
			{label: "Ícono", kind: fieldChoice, choices: choices,
				get: func(t api.Topic) string { return string(t.Icono) },
				set: func(t *api.Topic, v string) { t.Icono = api.TopicIcon(v) }},
		},
	}
}

func proposalSection(client *api.Client) sectionSpec[api.Proposal] {
	return sectionSpec[api.Proposal]{
		title: "Propuestas",
		columns: []table.Column{
			{Title: "Título", Width: 30},
			{Title: "Candidato", Width: 14},
			{Title: "Tema", Width: 14},
		},
		row: func(p api.Proposal) table.Row {
			return table.Row{p.Titulo, p.CandidatoID, p.TemaID}
		},
		id:   func(p api.Proposal) string { return p.ID },
		zero: func() api.Proposal { return api.Proposal{} },
		list: client.ListProposals,
		create: func(ctx context.Context, p api.Proposal, _ *api.Upload) (api.Proposal, error) {
			return client.CreateProposal(ctx, p)
		},
		update: func(ctx context.Context, id string, p api.Proposal, _ *api.Upload) (api.Proposal, error) {
			return client.UpdateProposal(ctx, id, p)
		},
		remove: client.DeleteProposal,
		fields: []fieldSpec[api.Proposal]{
			{label: "Título", get: func(p api.Proposal) string { return p.Titulo }, set: func(p *api.Proposal, v string) { p.Titulo = v }},
			{label: "Descripción", get: func(p api.Proposal) string { return p.Descripcion }, set: func(p *api.Proposal, v string) { p.Descripcion = v }},
			{label: "Candidato (id)", get: func(p api.Proposal) string { return p.CandidatoID }, set: func(p *api.Proposal, v string) { p.CandidatoID = v }},
			{label: "Tema (id)", get: func(p api.Proposal) string { return p.TemaID }, set: func(p *api.Proposal, v string) { p.TemaID = v }},
		},
	}
}

func scheduleSection(client *api.Client) sectionSpec[api.ScheduleEvent] {
	return sectionSpec[api.ScheduleEvent]{
		title: "Cronograma electoral",
		columns: []table.Column{
			{Title: "Título", Width: 28},
			{Title: "Fecha", Width: 12},
			{Title: "Tipo", Width: 12},
			{Title: "Publicado", Width: 9},
		},
		row: func(e api.ScheduleEvent) table.Row {
			return table.Row{e.Titulo, e.Fecha, e.Tipo, boolMark(e.Publicado)}
		},
		id:   func(e api.ScheduleEvent) string { return e.ID },
		zero: func() api.ScheduleEvent { return api.ScheduleEvent{} },
		list: client.ListScheduleEvents,
		create: func(ctx context.Context, e api.ScheduleEvent, _ *api.Upload) (api.ScheduleEvent, error) {
			return client.CreateScheduleEvent(ctx, e)
		},
		update: func(ctx context.Context, id string, e api.ScheduleEvent, _ *api.Upload) (api.ScheduleEvent, error) {
			return client.UpdateScheduleEvent(ctx, id, e)
		},
		remove: client.DeleteScheduleEvent,
		fields: []fieldSpec[api.ScheduleEvent]{
			{label: "Título", get: func(e api.ScheduleEvent) string { return e.Titulo }, set: func(e *api.ScheduleEvent, v string) { e.Titulo = v }},
			{label: "Descripción", get: func(e api.ScheduleEvent) string { return e.Descripcion }, set: func(e *api.ScheduleEvent, v string) { e.Descripcion = v }},
			{label: "Fecha (AAAA-MM-DD)", get: func(e api.ScheduleEvent) string { return e.Fecha }, set: func(e *api.ScheduleEvent, v string) { e.Fecha = v }},
			{label: "Tipo", get: func(e api.ScheduleEvent) string { return e.Tipo }, set: func(e *api.ScheduleEvent, v string) { e.Tipo = v }},
			{label: "Publicado", kind: fieldBool, get: func(e api.ScheduleEvent) string { return strconv.FormatBool(e.Publicado) }, set: func(e *api.ScheduleEvent, v string) { e.Publicado = parseBool(v) }},
		},
	}
}

func resourceSection(client *api.Client) sectionSpec[api.Resource] {
	return sectionSpec[api.Resource]{
		title: "Recursos educativos",
		columns: []table.Column{
			{Title: "Título", Width: 28},
			{Title: "Tipo", Width: 10},
			{Title: "URL", Width: 26},
		},
		row: func(r api.Resource) table.Row {
			return table.Row{r.Titulo, r.Tipo, r.URL}
		},
		id:   func(r api.Resource) string { return r.ID },
		zero: func() api.Resource { return api.Resource{} },
		list: client.ListResources,
		create: func(ctx context.Context, r api.Resource, up *api.Upload) (api.Resource, error) {
			return client.CreateResource(ctx, r, up)
		},
		update: func(ctx context.Context, id string, r api.Resource, up *api.Upload) (api.Resource, error) {
			return client.UpdateResource(ctx, id, r, up)
		},
		remove: client.DeleteResource,
		fields: []fieldSpec[api.Resource]{
			{label: "Título", get: func(r api.Resource) string { return r.Titulo }, set: func(r *api.Resource, v string) { r.Titulo = v }},
			{label: "Descripción", get: func(r api.Resource) string { return r.Descripcion }, set: func(r *api.Resource, v string) { r.Descripcion = v }},
			{label: "URL", get: func(r api.Resource) string { return r.URL }, set: func(r *api.Resource, v string) { r.URL = v }},
			{label: "Tipo", get: func(r api.Resource) string { return r.Tipo }, set: func(r *api.Resource, v string) { r.Tipo = v }},
			{label: "Imagen (ruta)", kind: fieldFile, part: "imagen", get: func(api.Resource) string { return "" }, set: func(*api.Resource, string) {}},
		},
	}
}

// administratorSection keeps an operator from demoting or deactivating
// their own account: role and active are locked on the signed-in row.
func administratorSection(client *api.Client, store *session.Store) sectionSpec[api.Administrator] {
	isSelf := func(a api.Administrator) bool {
		me, ok := store.Admin()
		return ok && a.ID != "" && a.ID == me.ID
	}
	return sectionSpec[api.Administrator]{
		title: "Administradores",
		columns: []table.Column{
			{Title: "Nombre", Width: 20},
			{Title: "Email", Width: 26},
			{Title: "Rol", Width: 12},
			{Title: "Activo", Width: 6},
		},
		row: func(a api.Administrator) table.Row {
			return table.Row{a.Nombre, a.Email, a.Rol, boolMark(a.Activo)}
		},
		id:   func(a api.Administrator) string { return a.ID },
		zero: func() api.Administrator { return api.Administrator{Rol: api.RoleEditor, Activo: true} },
		list: client.ListAdministrators,
		create: func(ctx context.Context, a api.Administrator, _ *api.Upload) (api.Administrator, error) {
			return client.CreateAdministrator(ctx, a)
		},
		update: func(ctx context.Context, id string, a api.Administrator, _ *api.Upload) (api.Administrator, error) {
			return client.UpdateAdministrator(ctx, id, a)
		},
		remove: client.DeleteAdministrator,
		fields: []fieldSpec[api.Administrator]{
			{label: "Nombre", get: func(a api.Administrator) string { return a.Nombre }, set: func(a *api.Administrator, v string) { a.Nombre = v }},
			{label: "Email", get: func(a api.Administrator) string { return a.Email }, set: func(a *api.Administrator, v string) { a.Email = v }},
			{label: "Contraseña", kind: fieldSecret, get: func(api.Administrator) string { return "" }, set: func(a *api.Administrator, v string) { a.Password = v }},
			{label: "Rol", kind: fieldChoice, choices: []string{api.RoleEditor, api.RoleSuperadmin}, locked: isSelf,
				get: func(a api.Administrator) string { return a.Rol },
				set: func(a *api.Administrator, v string) { a.Rol = v }},
			{label: "Activo", kind: fieldBool, locked: isSelf,
				get: func(a api.Administrator) string { return strconv.FormatBool(a.Activo) },
				set: func(a *api.Administrator, v string) { a.Activo = parseBool(v) }},
		},
	}
}
