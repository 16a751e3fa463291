package web

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"golang.org/x/sync/errgroup"

	"github.com/agrolink/farm-service-backend/web/handlers"
	"github.com/agrolink/farm-service-backend/web/middleware"
)

const shutdownTimeout = 5 * time.Second

// Server wraps the HTTP server for the JSON API.
type Server struct {
	srv *http.Server
}

func New(svc *Service, addr string, logger *log.Logger) *Server {
	return &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           Handler(svc, logger),
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Handler builds the routed and middleware-wrapped handler for the API.
// Exposed separately so tests can drive the full stack without a listener.
func Handler(svc *Service, logger *log.Logger) http.Handler {
	router := mux.NewRouter()

	api := handlers.NewAPIHandlers(handlers.Dependencies{
		Logger: logger,
		App:    svc,
	})
	api.RegisterRoutes(router)

	return middleware.Chain(router,
		middleware.RequestID,
		middleware.CORS,
		middleware.RequestLogger(logger),
	)
}

// Start serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Start(ctx context.Context) error {
	egroup, ctx := errgroup.WithContext(ctx)

	egroup.Go(func() error {
		err := s.srv.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}

		return err
	})

	egroup.Go(func() error {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		return s.srv.Shutdown(shutdownCtx)
	})

	return egroup.Wait()
}
