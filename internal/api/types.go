package api

// Wire types for the electoral-information REST API. JSON field names follow
// the backend contract, which is Spanish throughout.

// AdminProfile is the authenticated operator as returned by the login
// endpoint and stored alongside the session token.
type AdminProfile struct {
	ID     string `json:"admin_id"`
	Nombre string `json:"nombre"`
	Email  string `json:"email"`
	Rol    string `json:"rol"`
}

// Admin roles.
const (
	RoleEditor     = "editor"
	RoleSuperadmin = "superadmin"
)

// Administrator is a managed admin account. Password is write-only; an empty
// string means "do not change" on update.
type Administrator struct {
	ID       string `json:"admin_id,omitempty"`
	Nombre   string `json:"nombre"`
	Email    string `json:"email"`
	Password string `json:"password,omitempty"`
	Rol      string `json:"rol"`
	Activo   bool   `json:"esta_activo"`
}

// Candidate is an electoral candidate. FotoURL is a server-relative upload
// path; resolve it with Client.ImageURL before rendering.
type Candidate struct {
	ID           string `json:"candidato_id,omitempty"`
	Nombre       string `json:"nombre"`
	Apellido     string `json:"apellido"`
	Biografia    string `json:"biografia,omitempty"`
	PartidoID    string `json:"partido_id,omitempty"`
	PlanGobierno string `json:"plan_gobierno_completo,omitempty"`
	FotoURL      string `json:"foto_url,omitempty"`
	Activo       bool   `json:"esta_activo"`
}

// Party is a political party.
type Party struct {
	ID      string `json:"partido_id,omitempty"`
	Nombre  string `json:"nombre"`
	LogoURL string `json:"logo_url,omitempty"`
}

// TopicIcon enumerates the icon kinds a topic may carry. The backend stores
// the raw kind string; rendering goes through an exhaustive mapping in the
// TUI rather than a dynamically keyed lookup.
type TopicIcon string

const (
	IconEconomy     TopicIcon = "FaMoneyBillAlt"
	IconSecurity    TopicIcon = "FaLock"
	IconHealth      TopicIcon = "FaHeartbeat"
	IconEducation   TopicIcon = "FaBook"
	IconEnvironment TopicIcon = "FaLeaf"
)

// Topic is a policy topic proposals are grouped under.
type Topic struct {
	ID     string    `json:"tema_id,omitempty"`
	Nombre string    `json:"nombre_tema"`
	Icono  TopicIcon `json:"icono_url,omitempty"`
}

// Proposal links a candidate's proposal to a topic.
type Proposal struct {
	ID          string `json:"propuesta_id,omitempty"`
	Titulo      string `json:"titulo_propuesta"`
	Descripcion string `json:"descripcion,omitempty"`
	CandidatoID string `json:"candidato_id"`
	TemaID      string `json:"tema_id"`
}

// ScheduleEvent is one entry of the electoral timeline.
type ScheduleEvent struct {
	ID          string `json:"evento_id,omitempty"`
	Titulo      string `json:"titulo_evento"`
	Descripcion string `json:"descripcion,omitempty"`
	Fecha       string `json:"fecha_evento"`
	Tipo        string `json:"tipo_evento,omitempty"`
	Publicado   bool   `json:"esta_publicado"`
}

// Resource is an educational resource.
type Resource struct {
	ID          string `json:"recurso_id,omitempty"`
	Titulo      string `json:"titulo"`
	Descripcion string `json:"descripcion,omitempty"`
	URL         string `json:"url,omitempty"`
	Tipo        string `json:"tipo,omitempty"`
	ImagenURL   string `json:"imagen_url,omitempty"`
}

// TriviaTopic groups trivia questions.
type TriviaTopic struct {
	ID          string `json:"tema_id,omitempty"`
	Nombre      string `json:"nombre_tema"`
	Descripcion string `json:"descripcion,omitempty"`
	ImagenURL   string `json:"imagen_url,omitempty"`
	Activo      bool   `json:"esta_activo"`
}

// TriviaQuestion belongs to a trivia topic.
type TriviaQuestion struct {
	ID     string `json:"pregunta_id,omitempty"`
	TemaID string `json:"tema_id"`
	Texto  string `json:"texto_pregunta"`
	Orden  int    `json:"orden_visualizacion,omitempty"`
}

// AnswerOption is a child row of a trivia question. The backend only offers
// one-row-at-a-time create/update/delete for options; batched editing is the
// reconciler's job. Updates send only text and correctness; the question
// association never changes after create, so PreguntaID is omitted when
// empty rather than clearing it server-side.
type AnswerOption struct {
	ID         string `json:"opcion_id,omitempty"`
	PreguntaID string `json:"pregunta_id,omitempty"`
	Texto      string `json:"texto_opcion"`
	Correcta   bool   `json:"es_correcta"`
}

// HistoryEntry is one row of a candidate's political history.
type HistoryEntry struct {
	ID          string `json:"historial_id,omitempty"`
	CandidatoID string `json:"candidato_id"`
	Cargo       string `json:"cargo"`
	Institucion string `json:"institucion"`
	AnoInicio   int    `json:"ano_inicio"`
	AnoFin      int    `json:"ano_fin,omitempty"`
}

// LoginRequest is the body of POST /api/admins/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is the success payload of the login endpoint.
type LoginResponse struct {
	Token string       `json:"token"`
	Admin AdminProfile `json:"admin"`
}
