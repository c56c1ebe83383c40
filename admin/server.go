package admin

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/freeeve/daide-client/admin/auth"
	"github.com/freeeve/daide-client/admin/sessionlog"
)

// Server is the fleet's HTTP+WebSocket admin surface: spectator relay,
// admin auth, and the session audit log. cmd/fleet constructs one of
// these per process and drives it alongside one or more daide/client
// sessions.
type Server struct {
	Hub    *Hub
	PubSub *PubSub // nil if REDIS_URL fan-out is disabled
	Log    *sessionlog.Repo

	jwtMgr *auth.JWTManager
	google *auth.GoogleProvider
	zl     zerolog.Logger

	mux *http.ServeMux
}

// Config configures the admin surface.
type Config struct {
	JWTSecret          string
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
}

// NewServer wires a Hub, auth, and the optional Redis/Postgres
// collaborators into a routable admin surface. pubsub and log may be nil
// when REDIS_URL / DATABASE_URL are not configured; the spectator relay
// and auth routes still work without them.
func NewServer(cfg Config, pubsub *PubSub, log *sessionlog.Repo, zl zerolog.Logger) *Server {
	s := &Server{
		Hub:    NewHub(zl),
		PubSub: pubsub,
		Log:    log,
		jwtMgr: auth.NewJWTManager(cfg.JWTSecret),
		google: auth.NewGoogleProvider(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL),
		zl:     zl,
	}
	s.mux = s.routes()
	return s
}

// Handler returns the fully wrapped HTTP handler (routes plus logging and
// CORS middleware), ready to hand to an http.Server.
func (s *Server) Handler() http.Handler {
	return Chain(s.mux, Logger(s.zl), CORS)
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()
	authH := &authHandler{google: s.google, jwtMgr: s.jwtMgr, log: s.zl}
	wsH := NewWSHandler(s.Hub, s.jwtMgr, s.zl)

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSONBody(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("GET /auth/google/login", authH.googleLogin)
	mux.HandleFunc("GET /auth/google/callback", authH.googleCallback)
	mux.HandleFunc("GET /auth/dev", authH.devLogin)
	mux.HandleFunc("GET /admin/ws", wsH.ServeWS) // auth via ?token=, not the Bearer middleware
	mux.Handle("GET /admin/sessions", auth.Middleware(s.jwtMgr)(http.HandlerFunc(s.listSessions)))

	return mux
}

// listSessions serves the Postgres-backed audit log as JSON. Returns an
// empty list, not an error, when no audit database is configured.
func (s *Server) listSessions(w http.ResponseWriter, r *http.Request) {
	if s.Log == nil {
		writeJSONBody(w, http.StatusOK, []sessionlog.Summary{})
		return
	}
	sessions, err := s.Log.ListRecent(r.Context(), 100)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to list sessions")
		return
	}
	writeJSONBody(w, http.StatusOK, sessions)
}

// NewSessionRelay creates a Relay for sessionID wired to this server's hub
// and pub/sub, and starts a goroutine that re-broadcasts any pub/sub
// traffic for that session into local spectators. Call the returned
// cancel function when the session ends.
func (s *Server) NewSessionRelay(sessionID string) (relay *Relay, cancel func()) {
	relay = NewRelay(sessionID, s.Hub, s.PubSub)
	ctx, cancelFn := context.WithCancel(context.Background())
	if s.PubSub != nil {
		go s.PubSub.Subscribe(ctx, sessionID, s.Hub)
	}
	return relay, cancelFn
}
