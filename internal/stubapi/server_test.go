package stubapi

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/votoinformado/votoadmin/internal/api"
)

// bearer is a mutable token source for tests; the real client uses the
// session store here.
type bearer struct{ v string }

func (b *bearer) Token() string { return b.v }

func newTestBackend(t *testing.T) (*Server, *api.Client, *bearer) {
	t.Helper()
	store := NewStore()
	if _, err := store.SeedAdmin("Ana", "ana@voto.pe", "secreto123", api.RoleSuperadmin); err != nil {
		t.Fatalf("seed admin: %v", err)
	}
	srv := NewServer(Settings{}, WithStore(store))
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	token := &bearer{}
	client := api.New(ts.URL, api.WithTokenSource(token))
	return srv, client, token
}

func login(t *testing.T, client *api.Client, token *bearer) api.AdminProfile {
	t.Helper()
	resp, err := client.Login(context.Background(), "ana@voto.pe", "secreto123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	token.v = resp.Token
	return resp.Admin
}

func TestLoginIssuesTokenAndProfile(t *testing.T) {
	_, client, token := newTestBackend(t)
	admin := login(t, client, token)
	if token.v == "" {
		t.Fatal("expected a token")
	}
	if admin.Email != "ana@voto.pe" || admin.Rol != api.RoleSuperadmin {
		t.Fatalf("unexpected profile: %+v", admin)
	}
}

func TestLoginRejectsBadPassword(t *testing.T) {
	_, client, _ := newTestBackend(t)
	_, err := client.Login(context.Background(), "ana@voto.pe", "wrong")
	if !api.IsUnauthorized(err) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	_, client, _ := newTestBackend(t)
	_, err := client.ListCandidates(context.Background())
	if !api.IsUnauthorized(err) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestCandidateLifecycleWithPhotoUpload(t *testing.T) {
	_, client, token := newTestBackend(t)
	login(t, client, token)

	created, err := client.CreateCandidate(context.Background(), api.Candidate{
		Nombre:   "María",
		Apellido: "Quispe",
		Activo:   true,
	}, &api.Upload{Field: "foto", Filename: "maria.jpg", Reader: strings.NewReader("jpegdata")})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected server-assigned id")
	}
	if created.FotoURL != "/uploads/images/maria.jpg" {
		t.Fatalf("foto_url = %q", created.FotoURL)
	}

	created.Biografia = "Congresista 2016-2021"
	updated, err := client.UpdateCandidate(context.Background(), created.ID, created, nil)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Biografia != created.Biografia || !updated.Activo {
		t.Fatalf("update lost fields: %+v", updated)
	}

	if err := client.DeleteCandidate(context.Background(), created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	all, err := client.ListCandidates(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 0 {
		t.Fatalf("expected empty list, got %d", len(all))
	}
}

func TestPartyDeleteConflictWhenCandidatesRemain(t *testing.T) {
	srv, client, token := newTestBackend(t)
	login(t, client, token)

	party := srv.Store().parties.create(api.Party{Nombre: "Partido Andino"})
	srv.Store().candidates.create(api.Candidate{Nombre: "Luis", Apellido: "Rojas", PartidoID: party.ID})

	err := client.DeleteParty(context.Background(), party.ID)
	if !api.IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}
	want := "No se puede eliminar el partido porque tiene candidatos asociados"
	if got := api.ServerMessage(err); got != want {
		t.Fatalf("message = %q, want %q", got, want)
	}
	if _, ok := srv.Store().parties.get(party.ID); !ok {
		t.Fatal("party should survive a vetoed delete")
	}
}

func TestOptionsFilteredByQuestion(t *testing.T) {
	srv, client, token := newTestBackend(t)
	login(t, client, token)

	srv.Store().options.create(api.AnswerOption{PreguntaID: "q1", Texto: "A"})
	srv.Store().options.create(api.AnswerOption{PreguntaID: "q2", Texto: "B"})
	srv.Store().options.create(api.AnswerOption{PreguntaID: "q1", Texto: "C", Correcta: true})

	opts, err := client.OptionsByQuestion(context.Background(), "q1")
	if err != nil {
		t.Fatalf("list options: %v", err)
	}
	if len(opts) != 2 {
		t.Fatalf("expected 2 options, got %d", len(opts))
	}
	for _, o := range opts {
		if o.PreguntaID != "q1" {
			t.Fatalf("leaked option from %q", o.PreguntaID)
		}
	}
}

func TestOptionUpdateKeepsQuestionLink(t *testing.T) {
	srv, client, token := newTestBackend(t)
	login(t, client, token)

	created := srv.Store().options.create(api.AnswerOption{PreguntaID: "q1", Texto: "Arequipa"})

	// Option edits carry only text and correctness, never the question id.
	_, err := client.UpdateOption(context.Background(), created.ID, api.AnswerOption{Texto: "Cusco", Correcta: true})
	if err != nil {
		t.Fatalf("update option: %v", err)
	}

	opts, err := client.OptionsByQuestion(context.Background(), "q1")
	if err != nil {
		t.Fatalf("list options: %v", err)
	}
	if len(opts) != 1 {
		t.Fatalf("expected 1 option, got %d", len(opts))
	}
	if opts[0].Texto != "Cusco" || !opts[0].Correcta {
		t.Fatalf("update not applied: %+v", opts[0])
	}
	if opts[0].PreguntaID != "q1" {
		t.Fatalf("question link lost, got %q", opts[0].PreguntaID)
	}
}

func TestAdminPasswordNeverLeavesServer(t *testing.T) {
	_, client, token := newTestBackend(t)
	login(t, client, token)

	created, err := client.CreateAdministrator(context.Background(), api.Administrator{
		Nombre:   "Beto",
		Email:    "beto@voto.pe",
		Password: "clave-beto",
		Rol:      api.RoleEditor,
		Activo:   true,
	})
	if err != nil {
		t.Fatalf("create admin: %v", err)
	}
	if created.Password != "" {
		t.Fatal("password echoed back")
	}

	resp, err := client.Login(context.Background(), "beto@voto.pe", "clave-beto")
	if err != nil {
		t.Fatalf("new admin login: %v", err)
	}
	if resp.Admin.Rol != api.RoleEditor {
		t.Fatalf("rol = %q", resp.Admin.Rol)
	}
}

func TestInactiveAdminCannotLogin(t *testing.T) {
	_, client, token := newTestBackend(t)
	login(t, client, token)

	_, err := client.CreateAdministrator(context.Background(), api.Administrator{
		Nombre:   "Caro",
		Email:    "caro@voto.pe",
		Password: "clave-caro",
		Rol:      api.RoleEditor,
		Activo:   false,
	})
	if err != nil {
		t.Fatalf("create admin: %v", err)
	}
	_, err = client.Login(context.Background(), "caro@voto.pe", "clave-caro")
	if !api.IsUnauthorized(err) {
		t.Fatalf("expected unauthorized for inactive account, got %v", err)
	}
}

func TestTokenVerifyRejectsExpired(t *testing.T) {
	issuer := NewTokenIssuer([]byte("s"), time.Minute)
	base := time.Now().UTC()
	issuer.clock = func() time.Time { return base }
	tok, err := issuer.Issue("a1", api.RoleEditor)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if id, err := issuer.Verify(tok); err != nil || id != "a1" {
		t.Fatalf("verify = (%q, %v)", id, err)
	}
	issuer.clock = func() time.Time { return base.Add(2 * time.Minute) }
	if _, err := issuer.Verify(tok); err == nil {
		t.Fatal("expected expiry error")
	}
}

func TestStartAndShutdown(t *testing.T) {
	srv := NewServer(Settings{Port: 0})
	if err := srv.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	if srv.Addr() == "" {
		t.Fatal("expected a bound address")
	}
	if err := srv.Shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
	if srv.Addr() != "" {
		t.Fatal("address should clear after shutdown")
	}
}
