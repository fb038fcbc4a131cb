package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"narada_backend/internal/config"
	"narada_backend/internal/controller"
	"narada_backend/internal/repository"
	"narada_backend/internal/service"
	"narada_backend/internal/util"
	"narada_backend/pkg/configwatcher"
	"narada_backend/pkg/database"
	"narada_backend/pkg/logger"
	"narada_backend/pkg/monitoring"
	"narada_backend/pkg/ratelimit"
	"narada_backend/pkg/security"
	"narada_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const sweepInterval = time.Minute

// completionBackend is what the app needs from the AI client: answers for
// the generators and a probe for the deep health check.
type completionBackend interface {
	service.Completer
	controller.Pinger
}

type App struct {
	Config *config.Config
	Router *gin.Engine
	DB     *gorm.DB
	Redis  *redis.Client

	configDir       string
	ctx             context.Context
	cancel          context.CancelFunc
	services        *services
	tracer          *sdktrace.TracerProvider
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user         *repository.UserRepository
	profile      *repository.ProfileRepository
	settings     *repository.SettingsRepository
	faq          *repository.FAQRepository
	conversation *repository.ConversationRepository
}

type services struct {
	auth         *service.AuthService
	user         *service.UserService
	faq          *service.FAQService
	settings     *service.SettingsService
	conversation *service.ConversationService
	dashboard    *service.DashboardService
	answer       *service.AnswerService
	ai           completionBackend

	demoLimiter *ratelimit.Limiter
	demoMemory  *ratelimit.MemoryStore // nil when counters live in Redis
}

type controllers struct {
	auth         *controller.AuthController
	user         *controller.UserController
	faq          *controller.FAQController
	settings     *controller.SettingsController
	conversation *controller.ConversationController
	dashboard    *controller.DashboardController
	answer       *controller.AnswerController
	health       *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) applyConfig(cfg *config.Config) {
	for _, cb := range a.configCallbacks {
		cb(cfg)
	}
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:         repository.NewUserRepository(db),
		profile:      repository.NewProfileRepository(db),
		settings:     repository.NewSettingsRepository(db),
		faq:          repository.NewFAQRepository(db),
		conversation: repository.NewConversationRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, db *gorm.DB, rdb *redis.Client, ai completionBackend) *services {
	s := &services{ai: ai}

	s.auth = service.NewAuthService(db, repos.user, repos.profile, repos.settings, cfg)
	s.user = service.NewUserService(repos.user, repos.profile)
	s.faq = service.NewFAQService(repos.faq)
	s.settings = service.NewSettingsService(repos.settings)
	s.conversation = service.NewConversationService(repos.conversation)
	s.dashboard = service.NewDashboardService(repos.faq, repos.settings, repos.conversation, repos.profile)
	s.answer = service.NewAnswerService(repos.settings, repos.faq, ai)

	demo := cfg.RateLimit.Demo
	policy := ratelimit.Policy{Limit: demo.MaxRequests, Window: demo.Window()}

	var store ratelimit.Store
	if demo.Store == "redis" && rdb != nil {
		store = ratelimit.NewRedisStore(rdb, "")
	} else {
		s.demoMemory = ratelimit.NewMemoryStore()
		store = s.demoMemory
	}
	s.demoLimiter = ratelimit.New(store, policy)

	a.RegisterConfigCallback(func(c *config.Config) {
		s.demoLimiter.SetPolicy(ratelimit.Policy{
			Limit:  c.RateLimit.Demo.MaxRequests,
			Window: c.RateLimit.Demo.Window(),
		})
	})

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		auth:         controller.NewAuthController(s.auth),
		user:         controller.NewUserController(s.user),
		faq:          controller.NewFAQController(s.faq),
		settings:     controller.NewSettingsController(s.settings),
		conversation: controller.NewConversationController(s.conversation),
		dashboard:    controller.NewDashboardController(s.dashboard),
		answer:       controller.NewAnswerController(s.answer),
		health:       controller.NewHealthController(db, rdb, s.ai),
	}
}

func (a *App) setupMiddlewares(ctx context.Context, router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if cfg.RateLimit.MaxRequests > 0 && window > 0 {
		router.Use(security.RateLimiter(ctx, cfg.RateLimit.MaxRequests, window))
	}

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// startBackgroundTasks drops expired demo windows so the in-memory table
// does not grow with every visitor ever seen.
func (a *App) startBackgroundTasks(ctx context.Context, s *services) {
	if s.demoMemory == nil {
		return
	}
	go func() {
		ticker := time.NewTicker(sweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := s.demoMemory.Sweep(); n > 0 {
					logger.Log.Debug("Swept demo rate limit windows", zap.Int("removed", n))
				}
			}
		}
	}()
}

// build wires repositories, services, controllers and routes onto an open
// database. NewApp calls it after connecting; tests call it with sqlite.
func build(cfg *config.Config, db *gorm.DB, rdb *redis.Client, ai completionBackend) *App {
	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}
	app.ctx, app.cancel = context.WithCancel(context.Background())

	repos := app.initRepositories(db)
	app.services = app.initServices(repos, cfg, db, rdb, ai)
	ctrls := app.initControllers(app.services, db, rdb)

	monitoring.Init()
	util.RegisterValidators()

	gin.SetMode(cfg.Server.Mode)
	router := gin.New()
	if err := router.SetTrustedProxies(cfg.Server.TrustedProxies); err != nil {
		logger.Log.Error("Invalid trusted proxies", zap.Error(err))
	}
	router.Use(gin.Logger(), gin.Recovery())
	app.Router = router

	app.setupMiddlewares(app.ctx, router, cfg)
	app.registerRoutes(router, ctrls, app.services, cfg)

	return app
}

func NewApp(cfg *config.Config, configDir string) *App {
	logger.InitLogger(cfg)
	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	if cfg.Server.Mode != gin.ReleaseMode || cfg.ForceMigrate {
		if err := database.Migrate(db); err != nil {
			logger.Log.Fatal("Failed to migrate database", zap.Error(err))
		}
	}
	if cfg.MigrateOnly {
		return &App{Config: cfg, DB: db}
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
	}

	ai := service.NewAIService(cfg.AI)

	app := build(cfg, db, rdb, ai)
	app.configDir = configDir
	app.RegisterConfigCallback(func(c *config.Config) {
		ai.ApplyConfig(c.AI)
	})

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer(tracing.ServiceName, cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracer = tp
	}

	return app
}

// Close stops the background goroutines started for this app.
func (a *App) Close() {
	if a.cancel != nil {
		a.cancel()
	}
}

func (a *App) Run() {
	ctx := a.ctx
	defer a.Close()

	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	a.startBackgroundTasks(ctx, a.services)

	if a.configDir != "" {
		go func() {
			if err := configwatcher.Watch(ctx, a.configDir, a.applyConfig); err != nil {
				logger.Log.Error("Config watcher stopped", zap.Error(err))
			}
		}()
	}

	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")
	a.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	if a.tracer != nil {
		if err := a.tracer.Shutdown(shutdownCtx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.Redis != nil {
		a.Redis.Close()
	}

	log.Println("Server exiting")
}
