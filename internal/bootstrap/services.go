package bootstrap

import (
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/raborimet/crm-api/config"
	jwtadapter "github.com/raborimet/crm-api/internal/adapters/jwt"
	redisadapter "github.com/raborimet/crm-api/internal/adapters/redis"
	"github.com/raborimet/crm-api/internal/data"
	"github.com/raborimet/crm-api/internal/service"
)

// ServiceContainer holds all application services.
type ServiceContainer struct {
	Auth      *service.AuthService
	Clients   *service.ClientService
	Projects  *service.ProjectService
	Quotes    *service.QuoteService
	Materials *service.MaterialService
	Dashboard *service.DashboardService
	Reports   *service.ReportService
}

// ServiceDeps groups dependencies for service initialization.
type ServiceDeps struct {
	Config      *config.AppConfig
	Pool        *pgxpool.Pool
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// repositories groups the data adapters backing service ports.
type repositories struct {
	Users     *data.UserRepo
	Clients   *data.ClientRepo
	Projects  *data.ProjectRepo
	Quotes    *data.QuoteRepo
	Materials *data.MaterialRepo
	Stats     *data.StatsRepo
}

func buildRepositories(pool *pgxpool.Pool) *repositories {
	return &repositories{
		Users:     data.NewUserRepo(pool),
		Clients:   data.NewClientRepo(pool),
		Projects:  data.NewProjectRepo(pool),
		Quotes:    data.NewQuoteRepo(pool),
		Materials: data.NewMaterialRepo(pool),
		Stats:     data.NewStatsRepo(pool),
	}
}

// NewServices builds the full service graph.
func NewServices(deps *ServiceDeps) (*ServiceContainer, error) {
	repos := buildRepositories(deps.Pool)

	issuer, err := jwtadapter.NewIssuer(jwtadapter.Options{
		Secret: []byte(deps.Config.Auth.JWTSecret),
		TTL:    deps.Config.Auth.TokenTTL,
		Issuer: deps.Config.Auth.Issuer,
	})
	if err != nil {
		return nil, err
	}
	revoker := redisadapter.NewRevocationList(deps.RedisClient)

	auth := service.NewAuthService(service.AuthServiceOptions{
		Users:      repos.Users,
		Issuer:     issuer,
		Revoker:    revoker,
		BcryptCost: deps.Config.Auth.BcryptCost,
	})
	clients := service.NewClientService(service.ClientServiceOptions{
		Clients:  repos.Clients,
		Projects: repos.Projects,
	})
	projects := service.NewProjectService(service.ProjectServiceOptions{
		Projects: repos.Projects,
		Clients:  repos.Clients,
	})
	quotes := service.NewQuoteService(service.QuoteServiceOptions{
		Quotes:  repos.Quotes,
		Clients: repos.Clients,
	})
	materials := service.NewMaterialService(service.MaterialServiceOptions{
		Materials: repos.Materials,
	})
	dashboard := service.NewDashboardService(service.DashboardServiceOptions{
		Clients:   repos.Clients,
		Projects:  repos.Projects,
		Quotes:    repos.Quotes,
		Materials: repos.Materials,
		Stats:     repos.Stats,
	})
	reports := service.NewReportService(service.ReportServiceOptions{
		Clients:  repos.Clients,
		Projects: repos.Projects,
		Quotes:   repos.Quotes,
		Stats:    repos.Stats,
	})

	return &ServiceContainer{
		Auth:      auth,
		Clients:   clients,
		Projects:  projects,
		Quotes:    quotes,
		Materials: materials,
		Dashboard: dashboard,
		Reports:   reports,
	}, nil
}
