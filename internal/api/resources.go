package api

import (
	"context"
	"strconv"
)

// Endpoint roots of the backend REST surface.
const (
	pathLogin           = "/api/admins/login"
	pathCandidates      = "/api/candidatos"
	pathParties         = "/api/partidos"
	pathTopics          = "/api/temas"
	pathProposals       = "/api/propuestas"
	pathSchedule        = "/api/cronograma"
	pathResources       = "/api/recursos"
	pathAdministrators  = "/api/administradores"
	pathTriviaTopics    = "/api/trivias/temas"
	pathTriviaQuestions = "/api/trivias/preguntas"
	pathTriviaOptions   = "/api/trivias/opciones"
	pathHistory         = "/historial"
)

func list[T any](ctx context.Context, c *Client, path string) ([]T, error) {
	var out []T
	if err := c.getJSON(ctx, path, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func getByID[T any](ctx context.Context, c *Client, base, id string) (T, error) {
	var out T
	err := c.getJSON(ctx, base+"/"+id, &out)
	return out, err
}

func create[T any](ctx context.Context, c *Client, base string, in T) (T, error) {
	var out T
	err := c.postJSON(ctx, base, in, &out)
	return out, err
}

func update[T any](ctx context.Context, c *Client, base, id string, in T) (T, error) {
	var out T
	err := c.putJSON(ctx, base+"/"+id, in, &out)
	return out, err
}

// Login exchanges credentials for a token and admin profile. Any non-2xx
// response comes back as an *APIError.
func (c *Client) Login(ctx context.Context, email, password string) (LoginResponse, error) {
	var out LoginResponse
	err := c.postJSON(ctx, pathLogin, LoginRequest{Email: email, Password: password}, &out)
	return out, err
}

// Candidates.

func (c *Client) ListCandidates(ctx context.Context) ([]Candidate, error) {
	return list[Candidate](ctx, c, pathCandidates)
}

func (c *Client) GetCandidate(ctx context.Context, id string) (Candidate, error) {
	return getByID[Candidate](ctx, c, pathCandidates, id)
}

// CreateCandidate sends the candidate as a multipart form; photo may be nil.
func (c *Client) CreateCandidate(ctx context.Context, cand Candidate, photo *Upload) (Candidate, error) {
	var out Candidate
	err := c.sendMultipart(ctx, "POST", pathCandidates, candidateFields(cand), photo, &out)
	return out, err
}

func (c *Client) UpdateCandidate(ctx context.Context, id string, cand Candidate, photo *Upload) (Candidate, error) {
	var out Candidate
	err := c.sendMultipart(ctx, "PUT", pathCandidates+"/"+id, candidateFields(cand), photo, &out)
	return out, err
}

func (c *Client) DeleteCandidate(ctx context.Context, id string) error {
	return c.delete(ctx, pathCandidates+"/"+id)
}

// Parties.

func (c *Client) ListParties(ctx context.Context) ([]Party, error) {
	return list[Party](ctx, c, pathParties)
}

func (c *Client) GetParty(ctx context.Context, id string) (Party, error) {
	return getByID[Party](ctx, c, pathParties, id)
}

func (c *Client) CreateParty(ctx context.Context, p Party, logo *Upload) (Party, error) {
	var out Party
	err := c.sendMultipart(ctx, "POST", pathParties, map[string]string{"nombre": p.Nombre}, logo, &out)
	return out, err
}

func (c *Client) UpdateParty(ctx context.Context, id string, p Party, logo *Upload) (Party, error) {
	var out Party
	err := c.sendMultipart(ctx, "PUT", pathParties+"/"+id, map[string]string{"nombre": p.Nombre}, logo, &out)
	return out, err
}

// DeleteParty removes a party. The backend rejects the call with a conflict
// while candidates still reference the party; check IsConflict and surface
// the server message verbatim.
func (c *Client) DeleteParty(ctx context.Context, id string) error {
	return c.delete(ctx, pathParties+"/"+id)
}

// Topics.

func (c *Client) ListTopics(ctx context.Context) ([]Topic, error) {
	return list[Topic](ctx, c, pathTopics)
}

func (c *Client) CreateTopic(ctx context.Context, t Topic) (Topic, error) {
	return create(ctx, c, pathTopics, t)
}

func (c *Client) UpdateTopic(ctx context.Context, id string, t Topic) (Topic, error) {
	return update(ctx, c, pathTopics, id, t)
}

func (c *Client) DeleteTopic(ctx context.Context, id string) error {
	return c.delete(ctx, pathTopics+"/"+id)
}

// Proposals.

func (c *Client) ListProposals(ctx context.Context) ([]Proposal, error) {
	return list[Proposal](ctx, c, pathProposals)
}

func (c *Client) CreateProposal(ctx context.Context, p Proposal) (Proposal, error) {
	return create(ctx, c, pathProposals, p)
}

func (c *Client) UpdateProposal(ctx context.Context, id string, p Proposal) (Proposal, error) {
	return update(ctx, c, pathProposals, id, p)
}

func (c *Client) DeleteProposal(ctx context.Context, id string) error {
	return c.delete(ctx, pathProposals+"/"+id)
}

// Schedule (cronograma).

func (c *Client) ListScheduleEvents(ctx context.Context) ([]ScheduleEvent, error) {
	return list[ScheduleEvent](ctx, c, pathSchedule)
}

func (c *Client) CreateScheduleEvent(ctx context.Context, e ScheduleEvent) (ScheduleEvent, error) {
	return create(ctx, c, pathSchedule, e)
}

func (c *Client) UpdateScheduleEvent(ctx context.Context, id string, e ScheduleEvent) (ScheduleEvent, error) {
	return update(ctx, c, pathSchedule, id, e)
}

func (c *Client) DeleteScheduleEvent(ctx context.Context, id string) error {
	return c.delete(ctx, pathSchedule+"/"+id)
}

// Educational resources.

func (c *Client) ListResources(ctx context.Context) ([]Resource, error) {
	return list[Resource](ctx, c, pathResources)
}

func (c *Client) CreateResource(ctx context.Context, r Resource, image *Upload) (Resource, error) {
	var out Resource
	err := c.sendMultipart(ctx, "POST", pathResources, resourceFields(r), image, &out)
	return out, err
}

func (c *Client) UpdateResource(ctx context.Context, id string, r Resource, image *Upload) (Resource, error) {
	var out Resource
	err := c.sendMultipart(ctx, "PUT", pathResources+"/"+id, resourceFields(r), image, &out)
	return out, err
}

func (c *Client) DeleteResource(ctx context.Context, id string) error {
	return c.delete(ctx, pathResources+"/"+id)
}

// Administrators.

func (c *Client) ListAdministrators(ctx context.Context) ([]Administrator, error) {
	return list[Administrator](ctx, c, pathAdministrators)
}

func (c *Client) CreateAdministrator(ctx context.Context, a Administrator) (Administrator, error) {
	return create(ctx, c, pathAdministrators, a)
}

func (c *Client) UpdateAdministrator(ctx context.Context, id string, a Administrator) (Administrator, error) {
	return update(ctx, c, pathAdministrators, id, a)
}

func (c *Client) DeleteAdministrator(ctx context.Context, id string) error {
	return c.delete(ctx, pathAdministrators+"/"+id)
}

// Trivia topics.

func (c *Client) ListTriviaTopics(ctx context.Context) ([]TriviaTopic, error) {
	return list[TriviaTopic](ctx, c, pathTriviaTopics)
}

func (c *Client) CreateTriviaTopic(ctx context.Context, t TriviaTopic, image *Upload) (TriviaTopic, error) {
	var out TriviaTopic
	err := c.sendMultipart(ctx, "POST", pathTriviaTopics, triviaTopicFields(t), image, &out)
	return out, err
}

func (c *Client) UpdateTriviaTopic(ctx context.Context, id string, t TriviaTopic, image *Upload) (TriviaTopic, error) {
	var out TriviaTopic
	err := c.sendMultipart(ctx, "PUT", pathTriviaTopics+"/"+id, triviaTopicFields(t), image, &out)
	return out, err
}

func (c *Client) DeleteTriviaTopic(ctx context.Context, id string) error {
	return c.delete(ctx, pathTriviaTopics+"/"+id)
}

// Trivia questions.

func (c *Client) QuestionsByTopic(ctx context.Context, topicID string) ([]TriviaQuestion, error) {
	return list[TriviaQuestion](ctx, c, pathTriviaQuestions+"/tema/"+topicID)
}

func (c *Client) CreateQuestion(ctx context.Context, q TriviaQuestion) (TriviaQuestion, error) {
	return create(ctx, c, pathTriviaQuestions, q)
}

func (c *Client) UpdateQuestion(ctx context.Context, id string, q TriviaQuestion) (TriviaQuestion, error) {
	return update(ctx, c, pathTriviaQuestions, id, q)
}

func (c *Client) DeleteQuestion(ctx context.Context, id string) error {
	return c.delete(ctx, pathTriviaQuestions+"/"+id)
}

// Trivia answer options. These are the row-at-a-time endpoints the
// reconciler drives during a batched save.

func (c *Client) OptionsByQuestion(ctx context.Context, questionID string) ([]AnswerOption, error) {
	return list[AnswerOption](ctx, c, pathTriviaOptions+"/pregunta/"+questionID)
}

func (c *Client) CreateOption(ctx context.Context, o AnswerOption) (AnswerOption, error) {
	return create(ctx, c, pathTriviaOptions, o)
}

func (c *Client) UpdateOption(ctx context.Context, id string, o AnswerOption) (AnswerOption, error) {
	return update(ctx, c, pathTriviaOptions, id, o)
}

func (c *Client) DeleteOption(ctx context.Context, id string) error {
	return c.delete(ctx, pathTriviaOptions+"/"+id)
}

// Political history.

func (c *Client) HistoryByCandidate(ctx context.Context, candidateID string) ([]HistoryEntry, error) {
	return list[HistoryEntry](ctx, c, pathHistory+"/candidato/"+candidateID)
}

func (c *Client) CreateHistoryEntry(ctx context.Context, h HistoryEntry) (HistoryEntry, error) {
	return create(ctx, c, pathHistory, h)
}

func (c *Client) UpdateHistoryEntry(ctx context.Context, id string, h HistoryEntry) (HistoryEntry, error) {
	return update(ctx, c, pathHistory, id, h)
}

func (c *Client) DeleteHistoryEntry(ctx context.Context, id string) error {
	return c.delete(ctx, pathHistory+"/"+id)
}

func candidateFields(cand Candidate) map[string]string {
	return map[string]string{
		"nombre":                 cand.Nombre,
		"apellido":               cand.Apellido,
		"biografia":              cand.Biografia,
		"partido_id":             cand.PartidoID,
		"plan_gobierno_completo": cand.PlanGobierno,
		"esta_activo":            strconv.FormatBool(cand.Activo),
	}
}

func resourceFields(r Resource) map[string]string {
	return map[string]string{
		"titulo":      r.Titulo,
		"descripcion": r.Descripcion,
		"url":         r.URL,
		"tipo":        r.Tipo,
	}
}

func triviaTopicFields(t TriviaTopic) map[string]string {
	return map[string]string{
		"nombre_tema": t.Nombre,
		"descripcion": t.Descripcion,
		"esta_activo": strconv.FormatBool(t.Activo),
	}
}
