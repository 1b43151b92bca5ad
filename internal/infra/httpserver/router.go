package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	appai "github.com/bryanwahyu/brainscan-api/internal/application/ai"
	"github.com/bryanwahyu/brainscan-api/internal/middleware"
)

// FileField is the multipart field carrying the scan image.
const FileField = "file"

const maxMemory = 32 << 20

var errMissingUpload = errors.New("file field is required")

type Router struct {
	aiSvc  *appai.Service
	logger *slog.Logger
}

func NewRouter(aiSvc *appai.Service, logger *slog.Logger, checkers map[string]middleware.HealthChecker) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Router{aiSvc: aiSvc, logger: logger}
	mux := chi.NewRouter()

	mux.Use(middleware.RequestID)
	mux.Use(middleware.LoggingMiddleware(logger))
	mux.Use(middleware.MetricsMiddleware)
	mux.Use(openCORS())

	mux.Get("/health", middleware.LivenessHandler)
	mux.Get("/ready", middleware.HealthHandler(checkers))
	mux.Get("/metrics", middleware.MetricsHandler)

	mux.Post("/analyze-brain-scan", r.wrap(r.handleAnalyze))

	return mux
}

// openCORS allows every origin, method and header, with credentials. The
// origin is reflected rather than sent as "*" so browsers accept credentials.
func openCORS() func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowOriginFunc: func(r *http.Request, origin string) bool { return true },
		AllowedMethods: []string{
			http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPut,
			http.MethodPatch, http.MethodDelete, http.MethodOptions,
		},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
		MaxAge:           600,
	})
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if err := h(w, req); err != nil {
			if errors.Is(err, errMissingUpload) {
				http.Error(w, errMissingUpload.Error(), http.StatusUnprocessableEntity)
				return
			}
			r.logger.ErrorContext(req.Context(), "request failed",
				"path", req.URL.Path,
				"request_id", middleware.GetRequestID(req.Context()),
				"error", err,
			)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		}
	}
}

// POST /analyze-brain-scan
// multipart/form-data with one file field "file". Bytes are forwarded as-is.
func (r *Router) handleAnalyze(w http.ResponseWriter, req *http.Request) error {
	if err := req.ParseMultipartForm(maxMemory); err != nil {
		return fmt.Errorf("%w: %v", errMissingUpload, err)
	}
	file, _, err := req.FormFile(FileField)
	if err != nil {
		return fmt.Errorf("%w: %v", errMissingUpload, err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return fmt.Errorf("read upload: %w", err)
	}

	out, err := r.aiSvc.Analyze(req.Context(), data)
	if err != nil {
		middleware.IncrementAnalysesFailed()
		return err
	}
	middleware.IncrementAnalyses()
	if out.Fallback {
		middleware.IncrementAnalysesFallback()
	}

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(out.Result)
}
