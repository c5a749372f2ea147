package app

import (
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/BasheerRaj/cliniva-backend-sub008/config"
	"github.com/BasheerRaj/cliniva-backend-sub008/internal/service/appointment"
	"github.com/BasheerRaj/cliniva-backend-sub008/internal/service/auth"
	"github.com/BasheerRaj/cliniva-backend-sub008/internal/service/capacity"
	"github.com/BasheerRaj/cliniva-backend-sub008/internal/service/catalog"
	"github.com/BasheerRaj/cliniva-backend-sub008/internal/service/clinic"
	"github.com/BasheerRaj/cliniva-backend-sub008/internal/service/user"
	"github.com/BasheerRaj/cliniva-backend-sub008/internal/store"
	"github.com/BasheerRaj/cliniva-backend-sub008/pkg/authorize"
	"github.com/BasheerRaj/cliniva-backend-sub008/pkg/email"
	pasetotoken "github.com/BasheerRaj/cliniva-backend-sub008/pkg/paseto"
)

// ServiceModule provides all application service dependencies.
var ServiceModule = fx.Module("services",
	fx.Provide(
		ProvideCapacityService,
		ProvideCatalogService,
		ProvideAppointmentService,
		ProvideClinicService,
		ProvideAuthService,
		ProvideUserService,
		ProvidePasetoManager,
	),
)

func ProvideCapacityService(db *store.Store, cfg *config.Config) capacity.Service {
	return capacity.New(db, cfg.Capacity)
}

func ProvideCatalogService(db *store.Store) catalog.Service {
	return catalog.New(db)
}

func ProvideAppointmentService(db *store.Store, emailClient *email.Client) appointment.Service {
	return appointment.New(db, emailClient)
}

func ProvideClinicService(db *store.Store, emailClient *email.Client, cap capacity.Service) clinic.Service {
	return clinic.New(db, emailClient, cap)
}

func ProvideAuthService(
	db *store.Store,
	rdb *redis.Client,
	paseto *pasetotoken.Manager,
	authz authorize.IAuthorization,
	cfg *config.Config,
) auth.Service {
	return auth.New(db, rdb, paseto, authz, cfg)
}

func ProvideUserService(db *store.Store, authz authorize.IAuthorization, cap capacity.Service) user.Service {
	return user.New(db, authz, cap)
}

func ProvidePasetoManager(cfg *config.Config) (*pasetotoken.Manager, error) {
	return pasetotoken.NewPasetoManager(cfg)
}
