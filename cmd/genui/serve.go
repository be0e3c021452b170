package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/genui-dev/genui/pkg/manifest"
	"github.com/genui-dev/genui/pkg/registry"
	"github.com/genui-dev/genui/pkg/renderer"
	"github.com/genui-dev/genui/pkg/stream"
	"github.com/genui-dev/genui/pkg/widget"
	"github.com/genui-dev/genui/pkg/widgets"
)

// serveConfig is read from the environment.
type serveConfig struct {
	// Addr is the listen address.
	Addr string `env:"GENUI_ADDR" envDefault:":8090"`

	// MaxComponents caps entries per render pass.
	MaxComponents int `env:"GENUI_MAX_COMPONENTS" envDefault:"50"`

	// ReadTimeout bounds request reads.
	ReadTimeout time.Duration `env:"GENUI_READ_TIMEOUT" envDefault:"30s"`

	// MaxManifestBytes bounds the accepted manifest payload size.
	MaxManifestBytes int64 `env:"GENUI_MAX_MANIFEST_BYTES" envDefault:"1048576"`
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the render and event-stream server",
		Long: `Serve accepts manifests on POST /render, renders them with the
built-in widgets, and broadcasts interaction, data-change, and render
lifecycle events to WebSocket subscribers on /events. Prometheus
metrics are exposed on /metrics.

Configuration comes from the environment: GENUI_ADDR,
GENUI_MAX_COMPONENTS, GENUI_READ_TIMEOUT, GENUI_MAX_MANIFEST_BYTES.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := env.ParseAs[serveConfig]()
			if err != nil {
				return fmt.Errorf("parse environment: %w", err)
			}

			logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

			reg := registry.New(registry.WithLogger(logger))
			if err := widgets.RegisterBuiltins(reg); err != nil {
				return err
			}

			hub := stream.NewHub(logger)
			defer hub.Close()
			streamSrv := stream.NewServer(hub, stream.WithLogger(logger))

			host := widget.NewHeadlessHost()
			opts := append(streamSrv.RendererOptions(),
				renderer.WithLogger(logger),
				renderer.WithMaxComponents(cfg.MaxComponents),
				renderer.WithMetrics(renderer.NewMetrics()),
				renderer.WithTracing("genui"),
			)
			r := renderer.New(reg, host, opts...)
			defer r.Close()

			router := chi.NewRouter()
			router.Use(chimw.RequestID, chimw.Recoverer)
			router.Post("/render", handleRender(r, logger, cfg.MaxManifestBytes))
			router.Mount("/", streamSrv.Handler())

			srv := &http.Server{
				Addr:        cfg.Addr,
				Handler:     router,
				ReadTimeout: cfg.ReadTimeout,
			}

			logger.Info("genui server listening", "addr", cfg.Addr)
			if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}
}

// handleRender accepts a manifest payload and runs one render pass. The
// batch-failure policy surfaces as 422 with the failing entry identified;
// invalid manifests render nothing and report zero components.
func handleRender(r *renderer.Renderer, logger *slog.Logger, maxBytes int64) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		data, err := io.ReadAll(io.LimitReader(req.Body, maxBytes))
		if err != nil {
			http.Error(w, "read body: "+err.Error(), http.StatusBadRequest)
			return
		}
		m, err := manifest.Parse(data)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		if err := r.RenderAll(req.Context(), m); err != nil {
			var rerr *renderer.RenderError
			if errors.As(err, &rerr) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnprocessableEntity)
				json.NewEncoder(w).Encode(map[string]any{
					"componentId":   rerr.ComponentID,
					"componentType": rerr.ComponentType,
					"error":         rerr.Err.Error(),
				})
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if stats := r.LastStats(); stats != nil {
			json.NewEncoder(w).Encode(stats)
			return
		}
		// Empty or version-mismatched manifest: rendered nothing.
		json.NewEncoder(w).Encode(map[string]any{"totalComponents": 0})
	}
}
