package routes

import (
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"pest-erp/internal/listeners"
	"pest-erp/internal/lists"
	"pest-erp/internal/repositories"
	"pest-erp/internal/services"
	"pest-erp/pkg/config"
	"pest-erp/pkg/eventbus"
	applogger "pest-erp/pkg/logger"
	"pest-erp/pkg/middleware"
	"pest-erp/pkg/service"
)

// Deps - внешние подключения. Storage и Redis равны nil в режиме FIXTURES_ONLY.
type Deps struct {
	Storage *pgxpool.Pool
	Redis   *redis.Client
	Bus     *eventbus.Bus
	JWT     service.JWTService
}

func InitRouter(e *echo.Echo, deps Deps, loggers *applogger.Loggers, cfg *config.Config) {
	loggers.Main.Info("InitRouter: Начало создания маршрутов")

	// --- 0. ОБЩИЕ КОМПОНЕНТЫ ---
	api := e.Group("/api", middleware.InjectLogger(loggers.Main))
	authMW := middleware.NewAuthMiddleware(deps.JWT, loggers.Auth)
	registry := lists.Default()
	fixtureStore := lists.NewFixtureStore()

	// --- 1. РЕПОЗИТОРИИ ---
	fixtureSource := repositories.NewFixtureRowSource(fixtureStore)
	var storageSource repositories.RowSource
	if deps.Storage != nil {
		storageSource = repositories.NewPostgresRowSource(deps.Storage, loggers.List)
	} else {
		loggers.Main.Warn("InitRouter: Postgres не подключён, серверные списки читаются из фикстур")
	}
	var cacheRepo repositories.CacheRepositoryInterface
	if deps.Redis != nil {
		cacheRepo = repositories.NewRedisCacheRepository(deps.Redis)
	}
	optionRepo := repositories.NewOptionRepository(deps.Storage, fixtureStore, cacheRepo, cfg.List.OptionsCacheTTL, loggers.List)

	// --- 2. СЕРВИСЫ И СЛУШАТЕЛИ ---
	listService := services.NewListService(registry, fixtureSource, storageSource, optionRepo, deps.Bus, cfg.List, loggers.List)
	if deps.Bus != nil {
		listeners.NewAuditListener(registry, optionRepo, loggers.Export).Register(deps.Bus)
	}

	// --- 3. РОУТЕРЫ ---
	secureGroup := api.Group("", authMW.Auth)

	runListRouter(secureGroup, listService, cfg, loggers.List)
	runMenuRouter(secureGroup, listService, loggers.Main)
	runFormRouter(secureGroup, loggers.Main, authMW)

	loggers.Main.Info("INIT_ROUTER: Создание маршрутов завершено", zap.Int("lists", len(registry.All())))
}
