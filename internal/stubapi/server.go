package stubapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/votoinformado/votoadmin/internal/api"
)

// Settings configures the stub REST server.
type Settings struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	JWTSecret    string
	TokenTTL     time.Duration
}

// Address returns host:port, defaulting to loopback on an ephemeral port.
func (s Settings) Address() string {
	host := s.Host
	if host == "" {
		host = "127.0.0.1"
	}
	return fmt.Sprintf("%s:%d", host, s.Port)
}

// Server is an in-memory rendition of the electoral-information backend. It
// exists so the admin client can be developed and tested without the real
// deployment: same routes, same Spanish field names, same error envelopes.
type Server struct {
	settings Settings
	store    *Store
	issuer   *TokenIssuer
	logger   zerolog.Logger

	mu       sync.Mutex
	server   *http.Server
	listener net.Listener
}

// Option customizes server construction.
type Option func(*Server)

// WithLogger overrides the default discarded logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithStore supplies a pre-seeded store.
func WithStore(store *Store) Option {
	return func(s *Server) {
		if store != nil {
			s.store = store
		}
	}
}

// NewServer prepares a stub server using the provided settings.
func NewServer(settings Settings, opts ...Option) *Server {
	secret := settings.JWTSecret
	if secret == "" {
		secret = "votoadmin-dev-secret"
	}
	s := &Server{
		settings: settings,
		store:    NewStore(),
		issuer:   NewTokenIssuer([]byte(secret), settings.TokenTTL),
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Store exposes the backing store for seeding.
func (s *Server) Store() *Store { return s.store }

// Handler builds the full route table. Exposed separately from Start so tests
// can mount it on httptest.Server.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/admins/login", s.handleLogin)

	registerCRUD(mux, s, "/api/candidatos", s.store.candidates, nil)
	registerCRUD(mux, s, "/api/partidos", s.store.parties, s.store.deletePartyVeto)
	registerCRUD(mux, s, "/api/temas", s.store.topics, nil)
	registerCRUD(mux, s, "/api/propuestas", s.store.proposals, nil)
	registerCRUD(mux, s, "/api/cronograma", s.store.events, nil)
	registerCRUD(mux, s, "/api/recursos", s.store.resources, nil)
	registerCRUD(mux, s, "/api/trivias/temas", s.store.triviaTopics, nil)
	registerCRUD(mux, s, "/api/trivias/preguntas", s.store.questions, nil)
	registerCRUD(mux, s, "/api/trivias/opciones", s.store.options, nil)
	registerCRUD(mux, s, "/historial", s.store.history, nil)

	mux.HandleFunc("GET /api/trivias/preguntas/tema/{id}", s.protect(func(w http.ResponseWriter, r *http.Request) {
		temaID := r.PathValue("id")
		writeJSON(w, http.StatusOK, s.store.questions.list(func(q api.TriviaQuestion) bool {
			return q.TemaID == temaID
		}))
	}))
	mux.HandleFunc("GET /api/trivias/opciones/pregunta/{id}", s.protect(func(w http.ResponseWriter, r *http.Request) {
		preguntaID := r.PathValue("id")
		writeJSON(w, http.StatusOK, s.store.options.list(func(o api.AnswerOption) bool {
			return o.PreguntaID == preguntaID
		}))
	}))
	mux.HandleFunc("GET /historial/candidato/{id}", s.protect(func(w http.ResponseWriter, r *http.Request) {
		candidatoID := r.PathValue("id")
		writeJSON(w, http.StatusOK, s.store.history.list(func(h api.HistoryEntry) bool {
			return h.CandidatoID == candidatoID
		}))
	}))

	// Administrators carry write-only passwords, so they bypass registerCRUD.
	mux.HandleFunc("GET /api/administradores", s.protect(s.handleListAdmins))
	mux.HandleFunc("GET /api/administradores/{id}", s.protect(s.handleGetAdmin))
	mux.HandleFunc("POST /api/administradores", s.protect(s.handleCreateAdmin))
	mux.HandleFunc("PUT /api/administradores/{id}", s.protect(s.handleUpdateAdmin))
	mux.HandleFunc("DELETE /api/administradores/{id}", s.protect(s.handleDeleteAdmin))

	return s.logRequests(mux)
}

// Start binds the TCP listener and begins serving HTTP traffic.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return errors.New("stubapi: server already started")
	}
	addr := s.settings.Address()
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("stubapi: listen %s: %w", addr, err)
	}
	s.listener = listener
	server := &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  s.settings.ReadTimeout,
		WriteTimeout: s.settings.WriteTimeout,
	}
	if ctx != nil {
		server.BaseContext = func(net.Listener) context.Context { return ctx }
	}
	s.server = server
	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error().Err(err).Msg("serve error")
		}
	}()
	s.logger.Info().Str("addr", listener.Addr().String()).Msg("stub api listening")
	return nil
}

// Shutdown stops accepting new connections and drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.server == nil {
		return nil
	}
	if ctx == nil {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
	}
	if err := s.server.Shutdown(ctx); err != nil {
		return err
	}
	s.listener = nil
	s.server = nil
	return nil
}

// Addr returns the bound TCP address once the server has started.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req api.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "JSON inválido"})
		return
	}
	admin, ok := s.store.Authenticate(req.Email, req.Password)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Credenciales inválidas"})
		return
	}
	token, err := s.issuer.Issue(admin.ID, admin.Rol)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "no se pudo emitir el token"})
		return
	}
	writeJSON(w, http.StatusOK, api.LoginResponse{
		Token: token,
		Admin: api.AdminProfile{ID: admin.ID, Nombre: admin.Nombre, Email: admin.Email, Rol: admin.Rol},
	})
}

// protect rejects requests without a valid bearer token.
func (s *Server) protect(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if raw == "" || raw == r.Header.Get("Authorization") {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "token requerido"})
			return
		}
		if _, err := s.issuer.Verify(raw); err != nil {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "token inválido"})
			return
		}
		next(w, r)
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
