package reconcile

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/votoinformado/votoadmin/internal/api"
)

// fakeOptionAPI is an in-memory backend recording every call in order.
type fakeOptionAPI struct {
	server []api.AnswerOption
	calls  []string
	failOn string
	nextID int
}

func (f *fakeOptionAPI) maybeFail(call string) error {
	if f.failOn != "" && f.failOn == call {
		return fmt.Errorf("backend rejected %s", call)
	}
	return nil
}

func (f *fakeOptionAPI) OptionsByQuestion(_ context.Context, questionID string) ([]api.AnswerOption, error) {
	call := "load:" + questionID
	f.calls = append(f.calls, call)
	if err := f.maybeFail(call); err != nil {
		return nil, err
	}
	out := make([]api.AnswerOption, len(f.server))
	copy(out, f.server)
	return out, nil
}

func (f *fakeOptionAPI) CreateOption(_ context.Context, o api.AnswerOption) (api.AnswerOption, error) {
	call := "create:" + o.Texto
	f.calls = append(f.calls, call)
	if err := f.maybeFail(call); err != nil {
		return api.AnswerOption{}, err
	}
	f.nextID++
	o.ID = fmt.Sprintf("srv_%d", f.nextID)
	f.server = append(f.server, o)
	return o, nil
}

func (f *fakeOptionAPI) UpdateOption(_ context.Context, id string, o api.AnswerOption) (api.AnswerOption, error) {
	call := "update:" + id
	f.calls = append(f.calls, call)
	if err := f.maybeFail(call); err != nil {
		return api.AnswerOption{}, err
	}
	for i := range f.server {
		if f.server[i].ID == id {
			f.server[i].Texto = o.Texto
			f.server[i].Correcta = o.Correcta
			return f.server[i], nil
		}
	}
	return api.AnswerOption{}, fmt.Errorf("option %s not found", id)
}

func (f *fakeOptionAPI) DeleteOption(_ context.Context, id string) error {
	call := "delete:" + id
	f.calls = append(f.calls, call)
	if err := f.maybeFail(call); err != nil {
		return err
	}
	for i := range f.server {
		if f.server[i].ID == id {
			f.server = append(f.server[:i], f.server[i+1:]...)
			return nil
		}
	}
	// Deleting an id that is already gone stays quiet; retries depend on it.
	return nil
}

func seededAPI() *fakeOptionAPI {
	return &fakeOptionAPI{server: []api.AnswerOption{
		{ID: "1", PreguntaID: "q1", Texto: "A", Correcta: true},
		{ID: "2", PreguntaID: "q1", Texto: "B", Correcta: false},
	}}
}

func mustLoad(t *testing.T, r *Reconciler, questionID string) {
	t.Helper()
	if err := r.Load(context.Background(), questionID); err != nil {
		t.Fatalf("Load: %v", err)
	}
}

func TestLoadSeedsOriginalAndDraft(t *testing.T) {
	backend := seededAPI()
	r := New(backend)
	mustLoad(t, r, "q1")
	rows := r.Rows()
	if len(rows) != 2 || rows[0].Texto != "A" || !rows[0].Correcta {
		t.Fatalf("unexpected draft: %+v", rows)
	}
	if !r.Loaded() || r.QuestionID() != "q1" {
		t.Fatal("loaded state not recorded")
	}
}

func TestLoadFailureLeavesDraftEmpty(t *testing.T) {
	backend := &fakeOptionAPI{failOn: "load:q1"}
	r := New(backend)
	if err := r.Load(context.Background(), "q1"); err == nil {
		t.Fatal("expected load error")
	}
	if r.Loaded() || len(r.Rows()) != 0 {
		t.Fatal("failed load must leave the draft empty")
	}
}

func TestSpecScenarioDeleteUpdateCreate(t *testing.T) {
	backend := seededAPI()
	r := New(backend)
	mustLoad(t, r, "q1")

	added, err := r.AddRow("C")
	if err != nil {
		t.Fatalf("AddRow: %v", err)
	}
	if !IsTempID(added.ID) || !added.New {
		t.Fatalf("expected temp new row, got %+v", added)
	}
	if !r.RemoveRow("2") {
		t.Fatal("RemoveRow 2 failed")
	}
	if !r.SetText("1", "A2") {
		t.Fatal("SetText 1 failed")
	}

	backend.calls = nil
	if err := r.Save(context.Background()); err != nil {
		t.Fatalf("Save: %v", err)
	}
	want := []string{"delete:2", "update:1", "create:C", "load:q1"}
	if len(backend.calls) != len(want) {
		t.Fatalf("calls = %v, want %v", backend.calls, want)
	}
	for i := range want {
		if backend.calls[i] != want[i] {
			t.Fatalf("call %d = %q, want %q", i, backend.calls[i], want[i])
		}
	}

	// After reload the new original reflects the persisted rows with a
	// server-assigned id for the created one.
	rows := r.Rows()
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows after reload, got %+v", rows)
	}
	if rows[0].ID != "1" || rows[0].Texto != "A2" || !rows[0].Correcta {
		t.Fatalf("row 1 not updated: %+v", rows[0])
	}
	if IsTempID(rows[1].ID) || rows[1].Texto != "C" || rows[1].New {
		t.Fatalf("created row must carry a server id: %+v", rows[1])
	}
}

func TestUnchangedRowsAreStillUpdated(t *testing.T) {
	backend := seededAPI()
	r := New(backend)
	mustLoad(t, r, "q1")
	backend.calls = nil
	if err := r.Save(context.Background()); err != nil {
		t.Fatalf("Save: %v", err)
	}
	// No dirty tracking: every non-new row triggers exactly one update call
	// even though nothing changed.
	want := []string{"update:1", "update:2", "load:q1"}
	if len(backend.calls) != len(want) {
		t.Fatalf("calls = %v, want %v", backend.calls, want)
	}
	for i := range want {
		if backend.calls[i] != want[i] {
			t.Fatalf("call %d = %q, want %q", i, backend.calls[i], want[i])
		}
	}
}

func TestDirtyCheckingSkipsUnchangedRows(t *testing.T) {
	backend := seededAPI()
	r := New(backend, WithDirtyChecking())
	mustLoad(t, r, "q1")
	r.SetText("1", "A2")
	plan := r.Plan()
	if len(plan.Updates) != 1 || plan.Updates[0].ID != "1" {
		t.Fatalf("expected only the edited row updated, got %+v", plan.Updates)
	}
	if len(plan.Deletions) != 0 || len(plan.Creations) != 0 {
		t.Fatalf("unexpected plan: %+v", plan)
	}
}

func TestDirtyCheckingWithNoEditsIsEmptyPlan(t *testing.T) {
	backend := seededAPI()
	r := New(backend, WithDirtyChecking())
	mustLoad(t, r, "q1")
	if plan := r.Plan(); !plan.Empty() {
		t.Fatalf("expected empty plan, got %+v", plan)
	}
}

func TestSetSoleCorrectClearsSiblingsSynchronously(t *testing.T) {
	backend := seededAPI()
	r := New(backend)
	mustLoad(t, r, "q1")
	if !r.SetSoleCorrect("2") {
		t.Fatal("SetSoleCorrect failed")
	}
	rows := r.Rows()
	if rows[0].Correcta || !rows[1].Correcta {
		t.Fatalf("expected only row 2 correct, got %+v", rows)
	}
	// Selecting a freshly added row clears the previous choice too.
	added, _ := r.AddRow("C")
	r.SetSoleCorrect(added.ID)
	correct := 0
	for _, row := range r.Rows() {
		if row.Correcta {
			correct++
			if row.ID != added.ID {
				t.Fatalf("wrong row flagged correct: %+v", row)
			}
		}
	}
	if correct != 1 {
		t.Fatalf("expected exactly one correct row, got %d", correct)
	}
}

func TestAddThenRemoveProducesNoCalls(t *testing.T) {
	backend := seededAPI()
	r := New(backend)
	mustLoad(t, r, "q1")
	added, _ := r.AddRow("transient")
	if !r.RemoveRow(added.ID) {
		t.Fatal("RemoveRow failed")
	}
	plan := r.Plan()
	for _, c := range plan.Creations {
		if c.Texto == "transient" {
			t.Fatal("removed draft row must not be created")
		}
	}
	if len(plan.Deletions) != 0 {
		t.Fatalf("temp row must never be deleted server-side: %+v", plan.Deletions)
	}
}

func TestAddRowRejectsBlankText(t *testing.T) {
	r := New(seededAPI())
	if _, err := r.AddRow("   "); !errors.Is(err, ErrEmptyText) {
		t.Fatalf("expected ErrEmptyText, got %v", err)
	}
}

func TestSaveBeforeLoadIsRejected(t *testing.T) {
	r := New(seededAPI())
	if err := r.Save(context.Background()); !errors.Is(err, ErrNotLoaded) {
		t.Fatalf("expected ErrNotLoaded, got %v", err)
	}
}

func TestPartialFailureAbortsAndKeepsDraft(t *testing.T) {
	backend := seededAPI()
	r := New(backend)
	mustLoad(t, r, "q1")
	r.RemoveRow("2")
	r.SetText("1", "A2")
	r.AddRow("C")

	backend.failOn = "update:1"
	backend.calls = nil
	if err := r.Save(context.Background()); err == nil {
		t.Fatal("expected save to fail")
	}
	// The delete before the failing update already took effect; nothing
	// after it ran, and the draft was not resynchronized.
	want := []string{"delete:2", "update:1"}
	if len(backend.calls) != len(want) {
		t.Fatalf("calls = %v, want %v", backend.calls, want)
	}
	rows := r.Rows()
	if len(rows) != 2 || rows[0].Texto != "A2" || rows[1].Texto != "C" {
		t.Fatalf("draft must keep pending edits, got %+v", rows)
	}

	// Retrying recomputes the plan against the stale original: the already
	// completed delete is re-issued (idempotent on the backend) and the
	// sequence resumes.
	backend.failOn = ""
	backend.calls = nil
	if err := r.Save(context.Background()); err != nil {
		t.Fatalf("retry Save: %v", err)
	}
	wantRetry := []string{"delete:2", "update:1", "create:C", "load:q1"}
	for i := range wantRetry {
		if backend.calls[i] != wantRetry[i] {
			t.Fatalf("retry call %d = %q, want %q", i, backend.calls[i], wantRetry[i])
		}
	}
}
