package httpserver

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/Archi470/Todo-Mobile-Application/internal/server/httpserver/handler"
	"github.com/Archi470/Todo-Mobile-Application/internal/telemetry/logger"
	"github.com/Archi470/Todo-Mobile-Application/internal/telemetry/metric"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Handler *handler.Handler
	Logger  logger.Logger

	// Metrics, when set, records HTTP metrics and is served at MetricsPath.
	Metrics     *metric.Registry
	MetricsPath string

	CORSAllowedOrigins []string

	// RateLimit is per client IP; zero disables limiting.
	RateLimit float64
	RateBurst int
}

// NewRouter creates the HTTP router with all routes and middleware.
//
// Order: Recover -> CORS -> RequestID -> RateLimit -> mux (Audit -> Auth -> handler).
func NewRouter(cfg *RouterConfig) http.Handler {
	log := cfg.Logger
	if log == nil {
		log = logger.Discard()
	}
	h := cfg.Handler

	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		handler.WriteDetail(w, http.StatusNotFound, "Not Found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		handler.WriteDetail(w, http.StatusMethodNotAllowed, "Method Not Allowed")
	})
	r.Use(mux.MiddlewareFunc(Audit(log, cfg.Metrics)))

	r.HandleFunc("/", h.Root).Methods(http.MethodGet)
	r.HandleFunc("/auth/signup", h.Signup).Methods(http.MethodPost)
	r.HandleFunc("/auth/login", h.Login).Methods(http.MethodPost)
	if cfg.Metrics != nil && cfg.MetricsPath != "" {
		r.Handle(cfg.MetricsPath, cfg.Metrics.Handler()).Methods(http.MethodGet)
	}

	api := r.NewRoute().Subrouter()
	api.Use(mux.MiddlewareFunc(Auth(h.Tokens())))
	api.HandleFunc("/me", h.Me).Methods(http.MethodGet)
	api.HandleFunc("/todos", h.ListTodos).Methods(http.MethodGet)
	api.HandleFunc("/todos", h.CreateTodo).Methods(http.MethodPost)
	api.HandleFunc("/todos/{"+handler.TodoIDVar+"}", h.PatchTodo).Methods(http.MethodPatch)
	api.HandleFunc("/todos/{"+handler.TodoIDVar+"}", h.DeleteTodo).Methods(http.MethodDelete)

	middlewares := []Middleware{Recover(log), CORS(cfg.CORSAllowedOrigins), RequestID()}
	if cfg.RateLimit > 0 {
		middlewares = append(middlewares, RateLimit(cfg.RateLimit, cfg.RateBurst))
	}
	return Chain(r, middlewares...)
}
