// Package reconcile maintains a local draft of a question's answer options
// and reconciles it against the backend's one-row-at-a-time endpoints on
// save. The operator edits the draft freely; Save computes deletions,
// updates and creations from the draft/original comparison and issues them
// sequentially, then reloads from the now-authoritative server state.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/votoinformado/votoadmin/internal/api"
)

// tempIDPrefix distinguishes client-local ids of unsaved rows from server ids.
const tempIDPrefix = "temp_"

// ErrEmptyText rejects draft rows whose text trims to nothing.
var ErrEmptyText = errors.New("reconcile: option text must not be empty")

// ErrNotLoaded rejects Save before a successful Load.
var ErrNotLoaded = errors.New("reconcile: draft not loaded")

// OptionAPI is the slice of the REST client the reconciler drives.
type OptionAPI interface {
	OptionsByQuestion(ctx context.Context, questionID string) ([]api.AnswerOption, error)
	CreateOption(ctx context.Context, o api.AnswerOption) (api.AnswerOption, error)
	UpdateOption(ctx context.Context, id string, o api.AnswerOption) (api.AnswerOption, error)
	DeleteOption(ctx context.Context, id string) error
}

// Row is one answer option in the draft.
type Row struct {
	ID       string
	Texto    string
	Correcta bool
	// New marks rows created locally that have never been persisted.
	New bool
}

// Plan is the three disjoint call sets one Save will issue, in order.
type Plan struct {
	Deletions []string
	Updates   []Row
	Creations []Row
}

// Empty reports whether the plan would issue no calls at all.
func (p Plan) Empty() bool {
	return len(p.Deletions) == 0 && len(p.Updates) == 0 && len(p.Creations) == 0
}

// Reconciler holds the original reference set and the draft working set for
// one question's options.
type Reconciler struct {
	client     OptionAPI
	questionID string
	original   []Row
	rows       []Row
	loaded     bool
	dirtyCheck bool
}

// Option customizes reconciler construction.
type Option func(*Reconciler)

// WithDirtyChecking skips update calls for rows whose text and correctness
// match the original. The default faithfully re-sends every non-new row.
func WithDirtyChecking() Option {
	return func(r *Reconciler) { r.dirtyCheck = true }
}

// New creates a reconciler over the given option endpoints.
func New(client OptionAPI, opts ...Option) *Reconciler {
	r := &Reconciler{client: client}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Load fetches the current server-side option set for the question and seeds
// both the original reference set and the draft with it. On failure the
// draft stays empty and the error is returned for the page banner.
func (r *Reconciler) Load(ctx context.Context, questionID string) error {
	options, err := r.client.OptionsByQuestion(ctx, questionID)
	if err != nil {
		return fmt.Errorf("reconcile: load options: %w", err)
	}
	rows := make([]Row, 0, len(options))
	for _, o := range options {
		rows = append(rows, Row{ID: o.ID, Texto: o.Texto, Correcta: o.Correcta})
	}
	r.questionID = questionID
	r.original = cloneRows(rows)
	r.rows = rows
	r.loaded = true
	return nil
}

// QuestionID returns the question the draft belongs to.
func (r *Reconciler) QuestionID() string { return r.questionID }

// Loaded reports whether a Load has succeeded.
func (r *Reconciler) Loaded() bool { return r.loaded }

// Rows returns a copy of the draft in display order.
func (r *Reconciler) Rows() []Row { return cloneRows(r.rows) }

// SetText updates the text of one draft row. Returns false when the id is
// not in the draft.
func (r *Reconciler) SetText(optionID, text string) bool {
	for i := range r.rows {
		if r.rows[i].ID == optionID {
			r.rows[i].Texto = text
			return true
		}
	}
	return false
}

// SetSoleCorrect marks the named row correct and clears the flag on every
// other draft row, synchronously. At most one correct answer is a UI
// invariant; the backend is not assumed to re-validate it.
func (r *Reconciler) SetSoleCorrect(optionID string) bool {
	found := false
	for i := range r.rows {
		r.rows[i].Correcta = r.rows[i].ID == optionID
		if r.rows[i].Correcta {
			found = true
		}
	}
	return found
}

// AddRow appends a new draft row with a temporary client-local id. Text that
// trims to empty is rejected.
func (r *Reconciler) AddRow(text string) (Row, error) {
	if strings.TrimSpace(text) == "" {
		return Row{}, ErrEmptyText
	}
	row := Row{
		ID:    tempIDPrefix + uuid.NewString(),
		Texto: text,
		New:   true,
	}
	r.rows = append(r.rows, row)
	return row, nil
}

// RemoveRow drops a row from the draft. No server call happens until Save.
func (r *Reconciler) RemoveRow(optionID string) bool {
	for i := range r.rows {
		if r.rows[i].ID == optionID {
			r.rows = append(r.rows[:i], r.rows[i+1:]...)
			return true
		}
	}
	return false
}

// IsTempID reports whether id was assigned locally by AddRow.
func IsTempID(id string) bool {
	return strings.HasPrefix(id, tempIDPrefix)
}

// Plan computes the three disjoint call sets from the draft/original
// comparison: deletions are original ids missing from the draft, updates are
// every non-new draft row (unconditionally, unless dirty checking is on),
// creations are the rows flagged new.
func (r *Reconciler) Plan() Plan {
	var plan Plan
	draftIDs := make(map[string]struct{}, len(r.rows))
	for _, row := range r.rows {
		if !row.New {
			draftIDs[row.ID] = struct{}{}
		}
	}
	for _, orig := range r.original {
		if _, ok := draftIDs[orig.ID]; !ok {
			plan.Deletions = append(plan.Deletions, orig.ID)
		}
	}
	for _, row := range r.rows {
		if row.New {
			plan.Creations = append(plan.Creations, row)
			continue
		}
		if r.dirtyCheck && r.unchanged(row) {
			continue
		}
		plan.Updates = append(plan.Updates, row)
	}
	return plan
}

// Save issues the plan sequentially: every deletion, then every update, then
// every creation, one call per row. After all calls complete the draft and
// original sets are reloaded from the server. On the first failure the save
// aborts where it stands: earlier calls have taken effect server-side, the
// draft is left untouched so the operator can retry, and no rollback is
// attempted. A retry recomputes the plan against the stale original, so
// already-completed deletes are naturally idempotent while a completed
// update or create may be re-issued.
func (r *Reconciler) Save(ctx context.Context) error {
	if !r.loaded {
		return ErrNotLoaded
	}
	plan := r.Plan()
	for _, id := range plan.Deletions {
		if err := r.client.DeleteOption(ctx, id); err != nil {
			return fmt.Errorf("reconcile: delete option %s: %w", id, err)
		}
	}
	for _, row := range plan.Updates {
		payload := api.AnswerOption{Texto: row.Texto, Correcta: row.Correcta}
		if _, err := r.client.UpdateOption(ctx, row.ID, payload); err != nil {
			return fmt.Errorf("reconcile: update option %s: %w", row.ID, err)
		}
	}
	for _, row := range plan.Creations {
		payload := api.AnswerOption{PreguntaID: r.questionID, Texto: row.Texto, Correcta: row.Correcta}
		if _, err := r.client.CreateOption(ctx, payload); err != nil {
			return fmt.Errorf("reconcile: create option: %w", err)
		}
	}
	return r.Load(ctx, r.questionID)
}

func (r *Reconciler) unchanged(row Row) bool {
	for _, orig := range r.original {
		if orig.ID == row.ID {
			return orig.Texto == row.Texto && orig.Correcta == row.Correcta
		}
	}
	return false
}

func cloneRows(rows []Row) []Row {
	if len(rows) == 0 {
		return nil
	}
	dup := make([]Row, len(rows))
	copy(dup, rows)
	return dup
}
