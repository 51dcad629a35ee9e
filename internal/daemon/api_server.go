package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/julienschmidt/httprouter"

	"colophon/internal/api"
	"colophon/internal/config"
	"colophon/internal/services"
)

type apiServer struct {
	bind   string
	logger *slog.Logger
	daemon *Daemon

	manuscripts *api.ManuscriptService
	people      *api.PeopleService
	texts       *api.TextService

	listener net.Listener
	server   *http.Server
}

func newAPIServer(cfg *config.Config, d *Daemon, logger *slog.Logger) (*apiServer, error) {
	bind := strings.TrimSpace(cfg.Paths.APIBind)
	if bind == "" {
		return nil, nil
	}

	srv := &apiServer{
		bind:   bind,
		logger: logger.With("component", "api-server"),
		daemon: d,
	}
	srv.manuscripts, srv.people, srv.texts = d.Services()

	router := httprouter.New()
	auth := func(h httprouter.Handle) httprouter.Handle {
		return authMiddleware(cfg.Paths.APIToken, h)
	}

	router.GET("/api/status", srv.handleStatus)
	router.POST("/api/test-notify", auth(srv.handleTestNotification))

	router.GET("/api/journal/manuscripts", auth(srv.handleListManuscripts))
	router.POST("/api/journal/manuscripts", auth(srv.handleCreateManuscript))
	router.GET("/api/journal/manuscripts/:id", auth(srv.handleGetManuscript))
	router.DELETE("/api/journal/manuscripts/:id", auth(srv.handleDeleteManuscript))
	router.PUT("/api/journal/manuscripts/:id/receive-action", auth(srv.handleReceiveAction))
	router.GET("/api/journal/manuscripts/:id/actions", auth(srv.handleAvailableActions))
	router.GET("/api/journal/manuscripts/:id/similar", auth(srv.handleSimilarManuscripts))
	router.POST("/api/journal/manuscripts/:id/file", auth(srv.handleUploadFile))
	router.GET("/api/journal/manuscripts/:id/file", auth(srv.handleDownloadFile))

	router.GET("/api/journal/states", auth(srv.handleStates))
	router.GET("/api/journal/states/:state/manuscripts", auth(srv.handleManuscriptsByState))
	router.GET("/api/journal/actions", auth(srv.handleActions))
	router.GET("/api/journal/dashboard/columns", auth(srv.handleDashboardColumns))

	router.GET("/api/journal/people", auth(srv.handleListPeople))
	router.POST("/api/journal/people", auth(srv.handleCreatePerson))
	router.GET("/api/journal/people/:id", auth(srv.handleGetPerson))
	router.PUT("/api/journal/people/:id", auth(srv.handleUpdatePerson))
	router.DELETE("/api/journal/people/:id", auth(srv.handleDeletePerson))
	router.GET("/api/journal/masthead", auth(srv.handleMasthead))

	router.GET("/api/journal/texts", auth(srv.handleListTexts))
	router.POST("/api/journal/texts", auth(srv.handleCreateText))
	router.GET("/api/journal/texts/:title", auth(srv.handleGetText))
	router.PUT("/api/journal/texts/:title", auth(srv.handleUpdateText))
	router.DELETE("/api/journal/texts/:title", auth(srv.handleDeleteText))

	srv.server = &http.Server{
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return srv, nil
}

func (s *apiServer) start(ctx context.Context) error {
	if s == nil {
		return nil
	}
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.listener = listener

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("api server error", "error", err)
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	s.logger.Info("api server listening", "address", listener.Addr().String())
	return nil
}

func (s *apiServer) stop() {
	if s == nil {
		return
	}
	if s.server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}
	if s.listener != nil {
		_ = s.listener.Close()
		s.listener = nil
	}
}

func (s *apiServer) addr() string {
	if s == nil || s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

func (s *apiServer) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}

// writeError maps domain errors onto HTTP statuses.
func (s *apiServer) writeError(w http.ResponseWriter, err error) {
	status := services.HTTPStatus(err)
	if status >= 500 {
		s.logger.Error("request failed", "error", err)
	}
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}

func decodeBody(r *http.Request, dst any) error {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return services.Wrap(services.ErrValidation, "api-server", "decode", "malformed request body", err)
	}
	return nil
}
