package myhttp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"rider/internal/config"
	"rider/internal/mylogger"
	"rider/internal/rider-service/adapters/driven/bm"
	"rider/internal/rider-service/adapters/driven/db"
	"rider/internal/rider-service/adapters/driven/places"
	"rider/internal/rider-service/adapters/driven/store"
	"rider/internal/rider-service/adapters/driver/myhttp/handle"
	"rider/internal/rider-service/adapters/driver/myhttp/middleware"
	"rider/internal/rider-service/adapters/driver/myhttp/web"
	"rider/internal/rider-service/adapters/driver/myhttp/ws"
	"rider/internal/rider-service/core/ports"
	"rider/internal/rider-service/core/services"
)

const (
	WaitTime  = 10
	gcPeriod  = 10 * time.Minute
	readLimit = 10 * time.Second
)

type Server struct {
	mux        *http.ServeMux
	handler    http.Handler
	cfg        *config.Config
	srv        *http.Server
	mylog      mylogger.Logger
	store      ports.ISessionRepo
	mb         ports.IRideRequestPublisher
	dispatcher *ws.Dispatcher
	ctx        context.Context
	appCtx     context.Context
	mu         sync.Mutex
	wg         sync.WaitGroup
}

func NewServer(ctx, appCtx context.Context, mylog mylogger.Logger, cfg *config.Config) *Server {
	s := &Server{
		ctx:    ctx,
		appCtx: appCtx,
		cfg:    cfg,
		mylog:  mylog,
		mux:    http.NewServeMux(),
	}

	return s
}

// Run initializes routes and starts listening. It returns when the server stops.
func (s *Server) Run() error {
	mylog := s.mylog.Action("server_started")

	if err := s.initStore(); err != nil {
		return err
	}
	mylog.Info("Session store ready", "store", s.cfg.Session.Store)

	if err := s.initBroker(); err != nil {
		return err
	}

	if err := s.Configure(); err != nil {
		return err
	}

	s.mu.Lock()
	s.srv = &http.Server{
		Addr:              fmt.Sprintf(":%v", s.cfg.Srv.RiderServicePort),
		Handler:           s.handler,
		ReadHeaderTimeout: readLimit,
	}
	s.mu.Unlock()

	mylog = mylog.WithGroup("details").With("port", s.cfg.Srv.RiderServicePort)

	mylog.Info("server is running")
	return s.startHTTPServer()
}

func (s *Server) initStore() error {
	switch s.cfg.Session.Store {
	case config.StorePostgres:
		conn, err := db.New(s.appCtx, s.cfg.DB, s.mylog)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		repo, err := db.NewSessionRepo(s.appCtx, conn, s.cfg.Session.TTL)
		if err != nil {
			conn.Close()
			return err
		}
		s.store = repo
		s.mylog.Info("Successful database connection")

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			repo.RunPurge(s.appCtx, gcPeriod, s.mylog)
		}()

	default:
		bs, err := store.Open(s.cfg.Session.BadgerPath, s.cfg.Session.TTL, s.mylog)
		if err != nil {
			return fmt.Errorf("failed to open session store: %w", err)
		}
		s.store = bs

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			bs.RunGC(s.appCtx, gcPeriod)
		}()
	}
	return nil
}

// initBroker connects to RabbitMQ when enabled. A broker that is down at
// start only costs the ride.requested events.
func (s *Server) initBroker() error {
	if !s.cfg.RabbitMq.Enabled {
		s.mb = bm.NewNoop(s.mylog)
		return nil
	}

	mb, err := bm.New(s.appCtx, *s.cfg.RabbitMq, s.mylog)
	if err != nil {
		s.mylog.Error("failed to connect to rabbitmq, events disabled", err)
		s.mb = bm.NewNoop(s.mylog)
		return nil
	}
	s.mb = mb
	s.mylog.Info("Successful message broker connection")
	return nil
}

// Stop provides a programmatic shutdown. Accepts a context for timeout control.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.mylog.Info("Shutting down HTTP server...")

	if s.srv != nil {
		shutdownCtx, cancel := context.WithTimeout(ctx, WaitTime*time.Second)
		defer cancel()

		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			s.mylog.Error("Failed to shut down HTTP server gracefully", err)
			return fmt.Errorf("http server shutdown: %w", err)
		}
	}

	if s.dispatcher != nil {
		s.dispatcher.CloseAll()
	}

	s.wg.Wait()

	if s.mb != nil {
		if err := s.mb.Close(); err != nil {
			s.mylog.Error("Failed to close message broker", err)
		}
	}

	if s.store != nil {
		if err := s.store.Close(); err != nil {
			s.mylog.Error("Failed to close session store", err)
			return fmt.Errorf("store close: %w", err)
		}
		s.mylog.Info("Session store closed")
	}

	s.mylog.Info("HTTP server shut down gracefully")
	return nil
}

func (s *Server) startHTTPServer() error {
	errCh := make(chan error, 1)

	go func() {
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		} else {
			errCh <- nil
		}
	}()

	select {
	case <-s.ctx.Done():
		return nil
	case err := <-errCh:
		return err
	}
}

// Configure builds services and handlers on top of the store and broker
// and registers the routes.
func (s *Server) Configure() error {
	loc, err := time.LoadLocation(s.cfg.App.Timezone)
	if err != nil {
		return fmt.Errorf("load timezone: %w", err)
	}

	renderer, err := web.NewRenderer()
	if err != nil {
		return err
	}

	// services
	provider := places.NewGoogleClient(s.cfg.Places, nil)
	placeService := services.NewPlaceService(s.mylog, provider, s.cfg.Places.Timeout)
	suggestionService := services.NewSuggestionService(s.mylog, placeService)
	composer := services.NewComposer(s.cfg.Messaging.BaseURL, s.cfg.Messaging.Recipient, loc)
	localeService := services.NewLocaleService()
	formService := services.NewFormService(s.mylog, s.store, suggestionService, composer, s.mb)

	// handlers
	placeHandler := handle.NewPlaceHandler(placeService, s.mylog)
	formHandler := handle.NewFormHandler(formService, localeService, renderer,
		web.AdsConfig{Client: s.cfg.App.AdsClient, Slot: s.cfg.App.AdsSlot}, s.mylog)
	localeHandler := handle.NewLocaleHandler(localeService)
	healthHandler := handle.NewHealthHandler(s.store, s.mb)

	sessionMiddleware, err := middleware.NewSessionMiddleware(s.cfg.Session.Secret, s.cfg.Session.TTL, s.cfg.Session.Secure)
	if err != nil {
		return err
	}

	s.dispatcher = ws.NewDispatcher(s.appCtx, s.mylog, formService)

	// Register routes
	s.mux.Handle("GET /{$}", sessionMiddleware.Wrap(formHandler.Index()))
	s.mux.Handle("GET /api/place", placeHandler.Autocomplete())
	s.mux.Handle("POST /form/location/{field}", sessionMiddleware.Wrap(formHandler.UpdateLocation()))
	s.mux.Handle("POST /form/select/{field}", sessionMiddleware.Wrap(formHandler.SelectSuggestion()))
	s.mux.Handle("POST /form/schedule", sessionMiddleware.Wrap(formHandler.SetSchedule()))
	s.mux.Handle("POST /form/vehicle", sessionMiddleware.Wrap(formHandler.SetVehicleType()))
	s.mux.Handle("POST /form/submit", sessionMiddleware.Wrap(formHandler.Submit()))
	s.mux.Handle("POST /locale", localeHandler.Choose())
	s.mux.Handle("GET /healthz", healthHandler.Health())
	s.mux.Handle("GET /static/", web.StaticHandler())

	// websocket routes
	s.mux.Handle("GET /ws/suggestions", sessionMiddleware.Wrap(s.dispatcher.WsHandler()))

	s.handler = middleware.Logging(s.mylog, s.mux)
	return nil
}
