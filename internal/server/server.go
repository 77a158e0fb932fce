package server

import (
	"context"
	"net/http"
	"sync"

	"skycutout/internal/config"
	"skycutout/internal/cutout"
	"skycutout/internal/logger"
	"skycutout/internal/metrics"
	"skycutout/internal/reports"
	"skycutout/internal/resolver"
	"skycutout/internal/storage"
)

// Server wires the resolver, the cutout client, the report generator
// and the storage backend behind the HTTP routes.
type Server struct {
	Config       *config.Config
	Resolver     *resolver.Client
	Cutout       *cutout.Client
	Generator    *reports.Generator
	Orchestrator *reports.StorageOrchestrator
	Storage      storage.StorageClient

	// Only one cutout fetch at a time; concurrent requests get 409
	fetchMutex sync.Mutex
}

// NewServer creates a server instance with the storage backend selected
// by the configured storage mode.
func NewServer(ctx context.Context, cfg *config.Config) (*Server, error) {
	storageClient, err := storage.NewStorageClient(ctx, storage.DeploymentMode(cfg.StorageMode), cfg)
	if err != nil {
		return nil, err
	}

	logger.Infof("Storage mode: %s", cfg.StorageMode)

	generator := reports.NewGenerator()

	return &Server{
		Config:       cfg,
		Resolver:     resolver.New(cfg.ResolverURLs(), cfg.HTTPTimeout()),
		Cutout:       cutout.New(cfg.CutoutURL, cfg.HTTPTimeout()),
		Generator:    generator,
		Orchestrator: reports.NewStorageOrchestrator(generator, storageClient),
		Storage:      storageClient,
	}, nil
}

// SetupRoutes configures the HTTP routes
func (s *Server) SetupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", s.HandleHealth)
	mux.HandleFunc("/version", s.HandleVersion)
	mux.HandleFunc("/resolve", s.HandleResolve)
	mux.HandleFunc("/cutout", s.HandleCutout)
	mux.HandleFunc("/cutouts", s.HandleListCutouts)
	mux.HandleFunc("/gallery", s.HandleGallery)
	mux.HandleFunc("/files/", s.HandleFileProxy)
	mux.Handle("/metrics", metrics.Handler())

	// Root path last, it catches everything else
	mux.HandleFunc("/", s.HandleRoot)

	return mux
}

// Close cleans up server resources
func (s *Server) Close() error {
	if s.Storage != nil {
		return s.Storage.Close()
	}
	return nil
}
