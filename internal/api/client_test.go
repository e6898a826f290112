package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestBearerAttachedPerRequest(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode([]Party{})
	}))
	defer srv.Close()

	c := New(srv.URL, WithTokenSource(StaticToken("tok-123")))
	if _, err := c.ListParties(context.Background()); err != nil {
		t.Fatalf("ListParties: %v", err)
	}
	if got != "Bearer tok-123" {
		t.Fatalf("expected bearer header, got %q", got)
	}
}

func TestEmptyTokenSendsNoHeader(t *testing.T) {
	var got string
	var hasHeader bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		_, hasHeader = r.Header["Authorization"]
		_ = json.NewEncoder(w).Encode([]Topic{})
	}))
	defer srv.Close()

	c := New(srv.URL, WithTokenSource(StaticToken("")))
	if _, err := c.ListTopics(context.Background()); err != nil {
		t.Fatalf("ListTopics: %v", err)
	}
	if hasHeader {
		t.Fatalf("expected no Authorization header, got %q", got)
	}
}

func TestConflictErrorCarriesServerMessage(t *testing.T) {
	const msg = "No se puede eliminar el partido porque tiene candidatos asociados"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
	}))
	defer srv.Close()

	c := New(srv.URL)
	err := c.DeleteParty(context.Background(), "p1")
	if err == nil {
		t.Fatal("expected conflict error")
	}
	if !IsConflict(err) {
		t.Fatalf("expected IsConflict, got %v", err)
	}
	if ServerMessage(err) != msg {
		t.Fatalf("expected server message %q, got %q", msg, ServerMessage(err))
	}
}

func TestUnauthorizedDetection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "token invalido"})
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.ListCandidates(context.Background())
	if !IsUnauthorized(err) {
		t.Fatalf("expected unauthorized error, got %v", err)
	}
}

func TestLoginDecodesTokenAndProfile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/admins/login" || r.Method != http.MethodPost {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		var req LoginRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Email != "ana@example.com" {
			t.Errorf("unexpected email %q", req.Email)
		}
		_ = json.NewEncoder(w).Encode(LoginResponse{
			Token: "issued-token",
			Admin: AdminProfile{ID: "a1", Nombre: "Ana", Email: req.Email, Rol: RoleSuperadmin},
		})
	}))
	defer srv.Close()

	c := New(srv.URL)
	resp, err := c.Login(context.Background(), "ana@example.com", "secret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if resp.Token != "issued-token" || resp.Admin.Rol != RoleSuperadmin {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestMultipartCandidateCreate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		if got := r.FormValue("nombre"); got != "Maria" {
			t.Errorf("expected nombre Maria, got %q", got)
		}
		if got := r.FormValue("esta_activo"); got != "true" {
			t.Errorf("expected esta_activo true, got %q", got)
		}
		file, header, err := r.FormFile("foto")
		if err != nil {
			t.Fatalf("missing foto part: %v", err)
		}
		defer file.Close()
		if header.Filename != "maria.jpg" {
			t.Errorf("unexpected filename %q", header.Filename)
		}
		_ = json.NewEncoder(w).Encode(Candidate{ID: "c1", Nombre: "Maria", FotoURL: "/uploads/images/maria.jpg"})
	}))
	defer srv.Close()

	c := New(srv.URL)
	created, err := c.CreateCandidate(context.Background(), Candidate{Nombre: "Maria", Apellido: "Lopez", Activo: true}, &Upload{
		Field:    "foto",
		Filename: "maria.jpg",
		Reader:   strings.NewReader("jpeg-bytes"),
	})
	if err != nil {
		t.Fatalf("CreateCandidate: %v", err)
	}
	if created.ID != "c1" {
		t.Fatalf("expected server id, got %+v", created)
	}
}

func TestImageURL(t *testing.T) {
	c := New("http://api.example")
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"absolute", "https://cdn.example/x.png", "https://cdn.example/x.png"},
		{"server relative", "/uploads/images/logo.png", "http://api.example/uploads/images/logo.png"},
		{"uploads prefix", "uploads/images/logo.png", "http://api.example/uploads/images/logo.png"},
		{"bare filename", "logo.png", "http://api.example/uploads/images/logo.png"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := c.ImageURL(tc.in); got != tc.want {
				t.Fatalf("ImageURL(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestOptionEndpointsUsePerQuestionPath(t *testing.T) {
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.Method+" "+r.URL.Path)
		switch r.Method {
		case http.MethodGet:
			_ = json.NewEncoder(w).Encode([]AnswerOption{{ID: "o1", PreguntaID: "q1", Texto: "A", Correcta: true}})
		default:
			_ = json.NewEncoder(w).Encode(AnswerOption{ID: "o2"})
		}
	}))
	defer srv.Close()

	c := New(srv.URL)
	ctx := context.Background()
	if _, err := c.OptionsByQuestion(ctx, "q1"); err != nil {
		t.Fatal(err)
	}
	if _, err := c.CreateOption(ctx, AnswerOption{PreguntaID: "q1", Texto: "B"}); err != nil {
		t.Fatal(err)
	}
	if _, err := c.UpdateOption(ctx, "o1", AnswerOption{Texto: "A2", Correcta: true}); err != nil {
		t.Fatal(err)
	}
	if err := c.DeleteOption(ctx, "o1"); err != nil {
		t.Fatal(err)
	}
	want := []string{
		"GET /api/trivias/opciones/pregunta/q1",
		"POST /api/trivias/opciones",
		"PUT /api/trivias/opciones/o1",
		"DELETE /api/trivias/opciones/o1",
	}
	for i, w := range want {
		if paths[i] != w {
			t.Fatalf("call %d = %q, want %q", i, paths[i], w)
		}
	}
}
