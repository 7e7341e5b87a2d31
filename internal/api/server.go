// Package api provides the HTTP REST API server for Inspectra Core.
//
// It exposes panel, device registry and inspection lifecycle operations
// to user interfaces (web frontend, mobile field apps).
//
// The server follows the same lifecycle pattern as other infrastructure
// components:
//
//	server, err := api.New(deps)
//	server.Start(ctx)
//	defer server.Close()
//
// Thread Safety: All methods are safe for concurrent use from multiple goroutines.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/inspectra/inspectra-core/internal/device"
	"github.com/inspectra/inspectra-core/internal/infrastructure/config"
	"github.com/inspectra/inspectra-core/internal/infrastructure/database"
	"github.com/inspectra/inspectra-core/internal/infrastructure/influxdb"
	"github.com/inspectra/inspectra-core/internal/infrastructure/logging"
	"github.com/inspectra/inspectra-core/internal/infrastructure/mqtt"
	"github.com/inspectra/inspectra-core/internal/inspection"
	"github.com/inspectra/inspectra-core/internal/panel"
)

// gracefulShutdownTimeout is the maximum time to wait for in-flight requests
// to complete during shutdown.
const gracefulShutdownTimeout = 10 * time.Second

// Deps holds the dependencies required by the API server.
type Deps struct {
	Config      config.APIConfig
	Logger      *logging.Logger
	DB          *database.DB
	Panels      panel.Repository
	Devices     device.Repository
	Reconciler  *device.Reconciler
	Inspections *inspection.Service
	MQTT        *mqtt.Client     // Optional: nil disables event publishing
	Influx      *influxdb.Client // Optional: nil disables metrics
	Version     string
}

// Server is the HTTP API server for Inspectra Core.
//
// It manages the HTTP listener, routes and middleware. The server is
// created with New() and started with Start().
type Server struct {
	cfg         config.APIConfig
	logger      *logging.Logger
	db          *database.DB
	panels      panel.Repository
	devices     device.Repository
	reconciler  *device.Reconciler
	inspections *inspection.Service
	mqtt        *mqtt.Client
	influx      *influxdb.Client
	version     string
	server      *http.Server
}

// New creates a new API server with the given dependencies.
//
// The server is not started until Start() is called. MQTT and InfluxDB
// are optional; everything else is required.
func New(deps Deps) (*Server, error) {
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if deps.DB == nil {
		return nil, fmt.Errorf("database is required")
	}
	if deps.Panels == nil {
		return nil, fmt.Errorf("panel repository is required")
	}
	if deps.Devices == nil {
		return nil, fmt.Errorf("device repository is required")
	}
	if deps.Reconciler == nil {
		return nil, fmt.Errorf("device reconciler is required")
	}
	if deps.Inspections == nil {
		return nil, fmt.Errorf("inspection service is required")
	}

	return &Server{
		cfg:         deps.Config,
		logger:      deps.Logger,
		db:          deps.DB,
		panels:      deps.Panels,
		devices:     deps.Devices,
		reconciler:  deps.Reconciler,
		inspections: deps.Inspections,
		mqtt:        deps.MQTT,
		influx:      deps.Influx,
		version:     deps.Version,
	}, nil
}

// Start begins listening for HTTP connections.
//
// It builds the router and launches the HTTP listener in a background
// goroutine. The server can be stopped with Close().
func (s *Server) Start(_ context.Context) error {
	router := s.buildRouter()

	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port),
		Handler:           router,
		ReadTimeout:       time.Duration(s.cfg.Timeouts.Read) * time.Second,
		ReadHeaderTimeout: time.Duration(s.cfg.Timeouts.Read) * time.Second,
		WriteTimeout:      time.Duration(s.cfg.Timeouts.Write) * time.Second,
		IdleTimeout:       time.Duration(s.cfg.Timeouts.Idle) * time.Second,
	}

	go func() {
		var err error
		if s.cfg.TLS.Enabled {
			s.logger.Info("API server starting with TLS",
				"address", s.server.Addr,
				"cert", s.cfg.TLS.CertFile,
			)
			err = s.server.ListenAndServeTLS(s.cfg.TLS.CertFile, s.cfg.TLS.KeyFile)
		} else {
			err = s.server.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("API server error", "error", err)
		}
	}()

	return nil
}

// Close gracefully shuts down the API server.
//
// It waits up to 10 seconds for in-flight requests to complete,
// then forcefully closes remaining connections.
func (s *Server) Close() error {
	if s.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()

	s.logger.Info("API server shutting down")
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down API server: %w", err)
	}
	return nil
}

// HealthCheck verifies the API server is running and responsive.
func (s *Server) HealthCheck(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("api health check: %w", ctx.Err())
	default:
	}

	if s.server == nil {
		return fmt.Errorf("api server not started")
	}

	return nil
}
