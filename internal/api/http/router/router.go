package router

import (
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/BasheerRaj/cliniva-backend-sub008/config"
	"github.com/BasheerRaj/cliniva-backend-sub008/internal/api/http/handler"
	"github.com/BasheerRaj/cliniva-backend-sub008/internal/api/http/middleware"
	"github.com/BasheerRaj/cliniva-backend-sub008/internal/service/appointment"
	"github.com/BasheerRaj/cliniva-backend-sub008/internal/service/auth"
	"github.com/BasheerRaj/cliniva-backend-sub008/internal/service/capacity"
	"github.com/BasheerRaj/cliniva-backend-sub008/internal/service/catalog"
	"github.com/BasheerRaj/cliniva-backend-sub008/internal/service/clinic"
	"github.com/BasheerRaj/cliniva-backend-sub008/internal/service/user"
	"github.com/BasheerRaj/cliniva-backend-sub008/internal/store"
	"github.com/BasheerRaj/cliniva-backend-sub008/pkg/authorize"
	pasetotoken "github.com/BasheerRaj/cliniva-backend-sub008/pkg/paseto"
)

// Module provides the Router to the fx graph.
var Module = fx.Module("router", fx.Provide(NewRouter))

type Params struct {
	fx.In

	Cfg            *config.Config
	Redis          *redis.Client
	Auth           authorize.IAuthorization
	DB             *store.Store
	AuthSvc        auth.Service
	UserSvc        user.Service
	ClinicSvc      clinic.Service
	CatalogSvc     catalog.Service
	AppointmentSvc appointment.Service
	CapacitySvc    capacity.Service
	PasetoMgr      *pasetotoken.Manager
}

type Router struct {
	p Params
}

func NewRouter(p Params) *Router {
	return &Router{p: p}
}

func (r *Router) Register(app *fiber.App) {
	// 1. Health & Metrics
	r.registerSystemRoutes(app)

	// 2. Middlewares
	authRequired := middleware.AuthRequired(r.p.PasetoMgr, r.p.Redis)
	clinicCtx := middleware.ClinicContext(r.p.DB)
	clinicHeader := middleware.ClinicHeader(r.p.DB)

	requirePerm := func(res authorize.Resource, act authorize.Action) fiber.Handler {
		return middleware.RequirePermission(r.p.Auth, res, act)
	}

	// 3. Handlers
	authH := handler.NewAuthHandler(r.p.AuthSvc)
	userH := handler.NewUserHandler(r.p.UserSvc)
	clinicH := handler.NewClinicHandler(r.p.ClinicSvc, r.p.CapacitySvc)
	serviceH := handler.NewServiceHandler(r.p.CatalogSvc)
	appointmentH := handler.NewAppointmentHandler(r.p.AppointmentSvc)

	api := app.Group("/api/v1")

	// 4. Delegate to sub-files
	r.registerAuthRoutes(api, authH, authRequired)
	r.registerUserRoutes(api, userH, authRequired, requirePerm)
	r.registerClinicRoutes(api, clinicH, userH, authRequired, clinicCtx, requirePerm)
	r.registerServiceRoutes(api, serviceH, authRequired, clinicHeader, requirePerm)
	r.registerAppointmentRoutes(api, appointmentH, authRequired, clinicHeader, requirePerm)
}

func (r *Router) registerSystemRoutes(app *fiber.App) {
	app.Get(healthcheck.LivenessEndpoint, healthcheck.New())
	app.Get(healthcheck.ReadinessEndpoint, healthcheck.New(healthcheck.Config{
		Probe: func(c fiber.Ctx) bool { return authorize.IsPolicyHealthy() },
	}))
	app.Get(healthcheck.StartupEndpoint, healthcheck.New())

	if r.p.Cfg.Observability.Enabled && r.p.Cfg.Observability.Metrics.Enabled {
		path := r.p.Cfg.Observability.Metrics.Path
		if path == "" {
			path = "/metrics"
		}
		app.Get(path, adaptor.HTTPHandler(promhttp.Handler()))
	}
}
