package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/tenantry/internal/account/metrics"
	"github.com/aussiebroadwan/tenantry/internal/account/service"
	"github.com/aussiebroadwan/tenantry/internal/account/store"
	"github.com/aussiebroadwan/tenantry/pkg/httpx"
	"github.com/aussiebroadwan/tenantry/pkg/slogx"

	_ "github.com/aussiebroadwan/tenantry/api/account" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// SessionCookie configures the cookie that carries the session token.
type SessionCookie struct {
	Name   string
	Secure bool
}

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store    store.Store
	Workflow *service.Workflow
	Metrics  *metrics.Metrics

	Cookie SessionCookie

	// AppURL is where OAuth callbacks send the browser once signed in.
	AppURL string
}

func NewRouter(buildVersion string, st store.Store, m *metrics.Metrics, logger *slog.Logger) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		Metrics:      m,
		logger:       logger,
		Cookie:       SessionCookie{Name: "tenantry_session", Secure: true},
	}

	// Metrics stays innermost: the mux records r.Pattern on the request it
	// is handed, and the outer middlewares replace the request.
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		r.authenticate,
		m.Middleware,
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerSessions()
	r.registerOAuth()
	r.registerInvites()
	r.registerBusiness()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Tenantry Account Service API
//	@version		0.1.0
//	@description	Multi-tenant account layer: sign-up, OAuth sign-in, businesses, memberships and invitations.
//	@description
//	@description				Sessions are EdDSA-signed JWTs, accepted from the session cookie or a Bearer header.
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/tenantry
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Session token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerSessions() {
	h := &SessionHandler{Workflow: r.Workflow, Cookie: r.Cookie}

	// Credential endpoints - strict rate limit by IP + submitted email
	r.Mux.Handle("POST /v1/signup",
		httpx.Chain(http.HandlerFunc(h.HandleSignUp),
			httpx.RateLimitByIPAndJSONField(httpx.StrictLimit, "email"),
		),
	)
	r.Mux.Handle("POST /v1/login",
		httpx.Chain(http.HandlerFunc(h.HandleLogin),
			httpx.RateLimitByIPAndJSONField(httpx.StrictLimit, "email"),
		),
	)
	r.Mux.Handle("POST /v1/logout", http.HandlerFunc(h.HandleLogout))

	r.Mux.Handle("GET /v1/session",
		httpx.Chain(http.HandlerFunc(h.HandleStatus),
			requireSession,
			httpx.RateLimitByUser(httpx.PublicLimit),
		),
	)

	// POST /password - strict rate limit by user
	r.Mux.Handle("POST /v1/password",
		httpx.Chain(http.HandlerFunc(h.HandleSetPassword),
			requireSession,
			httpx.RateLimitByUser(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerOAuth() {
	h := &OAuthHandler{Workflow: r.Workflow, Cookie: r.Cookie, AppURL: r.AppURL}

	r.Mux.Handle("GET /v1/oauth/{provider}/start",
		httpx.Chain(http.HandlerFunc(h.HandleStart),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("GET /v1/oauth/{provider}/callback",
		httpx.Chain(http.HandlerFunc(h.HandleCallback),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerInvites() {
	h := &InviteHandler{Workflow: r.Workflow, Cookie: r.Cookie}

	// POST /invite - moderate rate limit by user (sends mail)
	r.Mux.Handle("POST /v1/invite",
		httpx.Chain(http.HandlerFunc(h.HandleSend),
			requireSession,
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)

	// GET /invite/{token} - public lookup
	r.Mux.Handle("GET /v1/invite/{token}",
		httpx.Chain(http.HandlerFunc(h.HandleFetch),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)

	r.Mux.Handle("POST /v1/invite/{token}/accept",
		httpx.Chain(http.HandlerFunc(h.HandleAccept),
			requireSession,
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)

	// POST /invite/{token}/claim - creates an account, strict by IP
	r.Mux.Handle("POST /v1/invite/{token}/claim",
		httpx.Chain(http.HandlerFunc(h.HandleClaim),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	r.Mux.Handle("GET /v1/business/invites",
		httpx.Chain(http.HandlerFunc(h.HandleList),
			requireSession,
			httpx.RateLimitByUser(httpx.PublicLimit),
		),
	)
	r.Mux.Handle("DELETE /v1/business/invites/{id}",
		httpx.Chain(http.HandlerFunc(h.HandleRevoke),
			requireSession,
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerBusiness() {
	h := &BusinessHandler{Workflow: r.Workflow}

	r.Mux.Handle("POST /v1/onboarding/company",
		httpx.Chain(http.HandlerFunc(h.HandleOnboarding),
			requireSession,
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("GET /v1/business",
		httpx.Chain(http.HandlerFunc(h.HandleGet),
			requireSession,
			httpx.RateLimitByUser(httpx.PublicLimit),
		),
	)
	r.Mux.Handle("PATCH /v1/business",
		httpx.Chain(http.HandlerFunc(h.HandleUpdate),
			requireSession,
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerSystem() {
	// Probes are not rate limited; monitoring may poll frequently.
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.store))
	r.Mux.Handle("GET /metrics", r.Metrics.Handler())
}
