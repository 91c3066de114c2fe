package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/assetdocs/accessd/internal/access/service"
	"github.com/assetdocs/accessd/internal/access/store"
	"github.com/assetdocs/accessd/pkg/httpx"
	"github.com/assetdocs/accessd/pkg/jwtx"
	"github.com/assetdocs/accessd/pkg/slogx"

	_ "github.com/assetdocs/accessd/api/access" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// OTPCooldownLimit throttles step-up code issuance to one request per minute
// per caller. The 60s resend cooldown lives here, not in the challenge
// primitive, which always invalidates and replaces.
var OTPCooldownLimit = httpx.RateLimitConfig{
	RequestsPerWindow: 1,
	Window:            time.Minute,
	Burst:             1,
}

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	signer         jwtx.Signer
	verifier       jwtx.Verifier
	buildVersion   string
	internalSecret string
	startTime      time.Time
	logger         *slog.Logger

	store              store.Store
	SessionService     *service.SessionService
	InviteService      *service.InviteService
	ContributorService *service.ContributorService
	StepUpService      *service.StepUpService
	AlertService       *service.AlertService
	TwoFactorService   *service.TwoFactorService
}

func NewRouter(
	signer jwtx.Signer,
	verifier jwtx.Verifier,
	buildVersion string,
	internalSecret string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:            http.NewServeMux(),
		signer:         signer,
		verifier:       verifier,
		buildVersion:   buildVersion,
		internalSecret: internalSecret,
		startTime:      time.Now(),
		store:          st,
		logger:         logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerContributors()
	r.registerStepUp()
	r.registerTwoFactor()
	r.registerAlerts()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Access Service API
//	@version		0.1.0
//	@description	Delegated-access authorization and step-up verification service: contributor roles and
//	@description	invitations, phone one-time-code challenges before sensitive actions, and security alerts
//	@description	on authentication-relevant account changes.
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
//	@description				Session JWT. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	h := &AuthHandler{SessionService: r.SessionService}

	// Credential endpoints get the strict limit keyed by IP to slow down
	// brute force.
	r.Mux.Handle("POST /v1/auth/login",
		httpx.Chain(http.HandlerFunc(h.HandleLogin),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /v1/auth/setup",
		httpx.Chain(http.HandlerFunc(h.HandleSetup),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	r.Mux.Handle("POST /v1/auth/password",
		httpx.Chain(http.HandlerFunc(h.HandlePasswordChange),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByUser(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /v1/auth/email",
		httpx.Chain(http.HandlerFunc(h.HandleEmailChange),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByUser(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerContributors() {
	inviteHandler := &InviteHandler{InviteService: r.InviteService}
	contribHandler := &ContributorsHandler{ContributorService: r.ContributorService}

	r.Mux.Handle("POST /v1/contributors/invite",
		httpx.Chain(inviteHandler,
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("GET /v1/contributors",
		httpx.Chain(http.HandlerFunc(contribHandler.HandleList),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("POST /v1/contributors/{id}/revoke",
		httpx.Chain(http.HandlerFunc(contribHandler.HandleRevoke),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerStepUp() {
	h := &StepUpHandler{StepUpService: r.StepUpService}

	// Issue gets both the strict limit and the one-per-minute resend
	// cooldown, keyed by the authenticated user.
	r.Mux.Handle("POST /v1/stepup/issue",
		httpx.Chain(http.HandlerFunc(h.HandleIssue),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByUser(OTPCooldownLimit),
		),
	)
	r.Mux.Handle("POST /v1/stepup/verify",
		httpx.Chain(http.HandlerFunc(h.HandleVerify),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByUser(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerTwoFactor() {
	h := &TwoFactorHandler{TwoFactorService: r.TwoFactorService}

	r.Mux.Handle("POST /v1/2fa/enroll",
		httpx.Chain(http.HandlerFunc(h.HandleEnroll),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("POST /v1/2fa/verify",
		httpx.Chain(http.HandlerFunc(h.HandleVerify),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByUser(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /v1/2fa/disable",
		httpx.Chain(http.HandlerFunc(h.HandleDisable),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByUser(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerAlerts() {
	alertsHandler := &AlertsHandler{
		AlertService: r.AlertService,
		Secret:       r.internalSecret,
	}
	notificationsHandler := &NotificationsHandler{AlertService: r.AlertService}

	// Service-to-service, authenticated by shared secret rather than a
	// session.
	r.Mux.Handle("POST /internal/v1/alerts",
		httpx.Chain(alertsHandler,
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /v1/notifications",
		httpx.Chain(notificationsHandler,
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.signer),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
}
