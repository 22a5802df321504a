package health

import (
	"context"
	"net"
	"net/http"
	"strings"
	"time"

	"hype_signal/internal/models"
	"hype_signal/internal/modules/config"
	"hype_signal/internal/modules/health/service"
	"hype_signal/internal/notify"
	"hype_signal/pkg/logger"

	"github.com/bytedance/sonic"
	"go.uber.org/fx"
)

const maxPostBody = 64 << 10

type Config struct {
	Addr string // например ":8080"
}

func NewConfig(cfg *config.Config) Config {
	return Config{Addr: cfg.Service.StatusAddr}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := sonic.Marshal(v)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func NewMux(state *service.State, reporter notify.PositionsReporter, posts chan models.RawPost) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /livez", func(w http.ResponseWriter, r *http.Request) {
		// liveness: процесс жив
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	mux.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		// readiness: пайплайн запущен
		if !state.Ready() {
			http.Error(w, "not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, state.Snapshot())
	})

	mux.HandleFunc("GET /positions", func(w http.ResponseWriter, r *http.Request) {
		summary, err := reporter.Summary(r.Context())
		if err != nil {
			logger.Error("[HEALTH] positions summary failed: %v", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, summary)
	})

	mux.HandleFunc("POST /posts", func(w http.ResponseWriter, r *http.Request) {
		var post models.RawPost
		dec := sonic.ConfigDefault.NewDecoder(http.MaxBytesReader(w, r.Body, maxPostBody))
		if err := dec.Decode(&post); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid post: " + err.Error()})
			return
		}
		post.ID = strings.TrimSpace(post.ID)
		if post.ID == "" || strings.TrimSpace(post.Text) == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "id and text are required"})
			return
		}

		select {
		case posts <- post:
			writeJSON(w, http.StatusAccepted, map[string]string{"status": "queued", "id": post.ID})
		default:
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "queue is full"})
		}
	})

	return mux
}

func RunHTTP(lc fx.Lifecycle, cfg Config, mux *http.ServeMux) {
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", cfg.Addr)
			if err != nil {
				return err
			}
			logger.Info("[HEALTH] listening on %s", ln.Addr())
			go func() { _ = srv.Serve(ln) }()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}

func Module() fx.Option {
	return fx.Module("health",
		fx.Provide(
			service.NewState,
			NewConfig,
			NewMux,
		),
		fx.Invoke(RunHTTP),
	)
}
