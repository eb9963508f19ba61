package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/foro/internal/foro/service"
	"github.com/aussiebroadwan/foro/internal/foro/store"
	"github.com/aussiebroadwan/foro/pkg/httpx"
	"github.com/aussiebroadwan/foro/pkg/slogx"

	_ "github.com/aussiebroadwan/foro/api/foro" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	metrics      *httpx.Metrics

	store          store.Store
	ForumService   *service.ForumService
	SessionService *service.SessionService

	// CookieSecure marks the session cookie Secure.
	CookieSecure bool
}

func NewRouter(
	buildVersion string,
	st store.Store,
	metrics *httpx.Metrics,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		logger:       logger,
		metrics:      metrics,
		store:        st,
	}

	// Metrics must wrap the mux directly so it sees the matched pattern.
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}
	if metrics != nil {
		r.middlewares = append(r.middlewares, metrics.Middleware)
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerForum()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title						Foro de Cine Independiente API
//	@version					0.1.0
//	@description				JSON endpoints of the forum. Pages are server rendered HTML and are not described here.
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/foro
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:5000
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	SessionCookie
//	@in							cookie
//	@name						foro_session
//	@description				Session cookie set by POST /login.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

// maxBodyBytes caps form and JSON request bodies alike.
const maxBodyBytes = 1 << 20

// page wraps h with the body cap and session resolution followed by mws.
func (r *Router) page(h http.Handler, mws ...httpx.Middleware) http.Handler {
	return httpx.Chain(h, append([]httpx.Middleware{httpx.LimitBody(maxBodyBytes), r.withSession}, mws...)...)
}

// api is page for JSON endpoints.
func (r *Router) api(h http.Handler) http.Handler {
	return httpx.Chain(h, httpx.LimitBody(maxBodyBytes), r.withAPISession)
}

func (r *Router) registerAuth() {
	h := &AuthHandler{
		ForumService:   r.ForumService,
		SessionService: r.SessionService,
		CookieSecure:   r.CookieSecure,
	}

	r.Mux.Handle("GET /registro", r.page(http.HandlerFunc(h.RegisterForm), redirectIfAuthenticated))
	r.Mux.Handle("POST /registro", r.page(http.HandlerFunc(h.Register), redirectIfAuthenticated))
	r.Mux.Handle("GET /login", r.page(http.HandlerFunc(h.LoginForm), redirectIfAuthenticated))
	r.Mux.Handle("POST /login", r.page(http.HandlerFunc(h.Login), redirectIfAuthenticated))
	r.Mux.Handle("GET /logout", r.page(http.HandlerFunc(h.Logout), requireLogin))
}

func (r *Router) registerForum() {
	h := &ForumHandler{ForumService: r.ForumService}

	r.Mux.Handle("GET /{$}", r.page(http.HandlerFunc(h.Index)))
	r.Mux.Handle("GET /crear_hilo", r.page(http.HandlerFunc(h.NewThreadForm), requireLogin))
	r.Mux.Handle("POST /crear_hilo", r.page(http.HandlerFunc(h.CreateThread), requireLogin))
	r.Mux.Handle("GET /hilo/{id}", r.page(http.HandlerFunc(h.Thread)))
	r.Mux.Handle("POST /hilo/{id}", r.page(http.HandlerFunc(h.Comment)))

	r.Mux.Handle("POST /comentario_ajax/{id}", r.api(&CommentAJAXHandler{ForumService: r.ForumService}))

	r.Mux.Handle("GET /static/", staticHandler())

	// Anything else gets the HTML 404 page.
	r.Mux.Handle("/", r.page(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		renderError(w, req, http.StatusNotFound)
	})))
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.store))
	if r.metrics != nil {
		r.Mux.Handle("GET /metrics", r.metrics.Handler())
	}
}
