// Package server provides tlexd, an HTTP REST server that compiles language
// tables into lexers, stores them, and runs them over input sent by clients.
//
//	POST   /login               - accepts the API key and returns a JWT.
//	POST   /lexers              - compile and store a language table (auth required)
//	GET    /lexers              - get info on all stored lexers
//	GET    /lexers/{id}         - get info on a lexer and its language table
//	DELETE /lexers/{id}         - delete a lexer (auth required)
//	POST   /lexers/{id}/tokens  - lex the given input with a stored lexer
//	GET    /info                - get version info on the server
//
// All paths are relative to /api/v1.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dekarrin/tunalex/server/api"
	"github.com/dekarrin/tunalex/server/dao"
	"github.com/dekarrin/tunalex/server/lexsvc"
	"go.uber.org/zap"
)

// Server is a tlexd server. The zero-value of a Server should not be used
// directly; call New() to get one ready for use.
type Server struct {
	cfg    Config
	db     dao.Store
	svc    *lexsvc.Service
	router http.Handler
	log    *zap.Logger
}

// New creates a new Server from cfg, which is filled with defaults and then
// validated. The configured database is connected to immediately. log may be
// nil.
func New(cfg Config, log *zap.Logger) (*Server, error) {
	if log == nil {
		log = zap.NewNop()
	}

	cfg = cfg.FillDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	keyHash, err := lexsvc.HashKey(cfg.APIKey)
	if err != nil {
		return nil, fmt.Errorf("hash API key: %w", err)
	}

	db, err := cfg.DB.Connect()
	if err != nil {
		return nil, err
	}

	svc := lexsvc.New(db, keyHash, log)

	a := api.API{
		Backend:     svc,
		UnauthDelay: cfg.UnauthDelay(),
		Secret:      cfg.TokenSecret,
		Log:         log,
	}

	return &Server{
		cfg:    cfg,
		db:     db,
		svc:    svc,
		router: newRouter(a),
		log:    log,
	}, nil
}

// Handler returns the handler that serves the REST API.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Service returns the backend that the server's API calls into.
func (s *Server) Service() *lexsvc.Service {
	return s.svc
}

// ListenAndServe listens on the configured address and port for HTTP REST
// client requests until ctx is done, at which point the server is shut down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	listenAddress := fmt.Sprintf("%s:%d", s.cfg.ListenAddress, s.cfg.Port)
	httpSrv := &http.Server{
		Addr:              listenAddress,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	shutdownErr := make(chan error, 1)
	go func() {
		<-ctx.Done()
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		shutdownErr <- httpSrv.Shutdown(shutCtx)
	}()

	s.log.Info("listening", zap.String("address", listenAddress), zap.String("db", s.cfg.DB.Type.String()))
	err := httpSrv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return <-shutdownErr
}

// Close closes the server's connection to the database.
func (s *Server) Close() error {
	return s.db.Close()
}
