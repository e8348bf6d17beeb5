package app

import (
	"context"
	"evaluation_backend/internal/config"
	"evaluation_backend/internal/controller"
	"evaluation_backend/internal/model"
	"evaluation_backend/internal/repository"
	"evaluation_backend/internal/service"
	"evaluation_backend/internal/util"
	"evaluation_backend/pkg/configwatcher"
	"evaluation_backend/pkg/database"
	"evaluation_backend/pkg/docstore"
	"evaluation_backend/pkg/logger"
	"evaluation_backend/pkg/monitoring"
	"evaluation_backend/pkg/security"
	"evaluation_backend/pkg/tracing"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config *config.Config
	Router *gin.Engine
	DB     *gorm.DB
	Redis  *redis.Client
	Store  docstore.Store

	services        *services
	tracer          *sdktrace.TracerProvider
	mu              sync.Mutex
	configCallbacks []func(*config.Config)
}

type repositories struct {
	employee   *repository.EmployeeRepository
	evaluation *repository.EvaluationRepository
	answer     *repository.AnswerRepository
}

type services struct {
	auth       *service.AuthService
	storage    *service.StorageService
	employee   *service.EmployeeService
	evaluation *service.EvaluationService
	answer     *service.AnswerService
	dashboard  *service.DashboardService
	profile    *service.ProfileService
	report     *service.ReportService
}

type controllers struct {
	auth       *controller.AuthController
	employee   *controller.EmployeeController
	evaluation *controller.EvaluationController
	answer     *controller.AnswerController
	dashboard  *controller.DashboardController
	profile    *controller.ProfileController
	report     *controller.ReportController
	health     *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.configCallbacks = append(a.configCallbacks, callback)
}

// applyConfig 配置热加载后依次执行回调
func (a *App) applyConfig(cfg *config.Config) {
	a.mu.Lock()
	callbacks := append([]func(*config.Config){}, a.configCallbacks...)
	a.mu.Unlock()

	for _, cb := range callbacks {
		cb(cfg)
	}
}

func (a *App) initStore(ctx context.Context, cfg *config.Config) (docstore.Store, error) {
	var store docstore.Store
	switch cfg.DocStore.Type {
	case config.DocStoreMySQL:
		db, err := database.InitDB(&cfg.Database, cfg.Server.Mode)
		if err != nil {
			return nil, err
		}
		a.DB = db
		sqlStore, err := docstore.NewSQLStore(db)
		if err != nil {
			return nil, err
		}
		store = sqlStore
	case config.DocStoreMemory:
		logger.Log.Warn("Using in-memory document store, data is lost on restart")
		store = docstore.NewMemoryStore()
	default:
		store = docstore.NewJSONBinStore(cfg.DocStore.BaseURL, cfg.DocStore.MasterKey, cfg.DocStore.Bins(), cfg.DocStore.Timeout())
	}

	logger.Log.Info("Document store initialized", zap.String("type", cfg.DocStore.Type))
	return docstore.Instrument(store), nil
}

func (a *App) initLocker(ctx context.Context, cfg *config.Config) (docstore.Locker, error) {
	if !cfg.Redis.Enabled {
		return docstore.NewLocalLocker(), nil
	}
	rdb, err := database.InitRedis(ctx, &cfg.Redis)
	if err != nil {
		return nil, err
	}
	a.Redis = rdb
	return docstore.NewRedisLocker(rdb), nil
}

func (a *App) initRepositories(store docstore.Store, locker docstore.Locker) *repositories {
	return &repositories{
		employee:   repository.NewEmployeeRepository(store, locker),
		evaluation: repository.NewEvaluationRepository(store, locker),
		answer:     repository.NewAnswerRepository(store, locker),
	}
}

func (a *App) initServices(r *repositories, cfg *config.Config) *services {
	storageService := service.NewStorageService(cfg)
	employeeService := service.NewEmployeeService(r.employee)
	evaluationService := service.NewEvaluationService(r.evaluation)
	answerService := service.NewAnswerService(r.answer, evaluationService)

	return &services{
		auth:       service.NewAuthService(r.employee, cfg),
		storage:    storageService,
		employee:   employeeService,
		evaluation: evaluationService,
		answer:     answerService,
		dashboard:  service.NewDashboardService(answerService, evaluationService, cfg.Dashboard),
		profile:    service.NewProfileService(employeeService, answerService),
		report:     service.NewReportService(evaluationService, answerService, storageService),
	}
}

func (a *App) initControllers(s *services, store docstore.Store) *controllers {
	return &controllers{
		auth:       controller.NewAuthController(s.auth),
		employee:   controller.NewEmployeeController(s.employee),
		evaluation: controller.NewEvaluationController(s.evaluation),
		answer:     controller.NewAnswerController(s.answer),
		dashboard:  controller.NewDashboardController(s.dashboard),
		profile:    controller.NewProfileController(s.profile),
		report:     controller.NewReportController(s.report),
		health:     controller.NewHealthController(store),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.RequestID())
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	if cfg.RateLimit.MaxRequests > 0 && cfg.RateLimit.WindowMinutes > 0 {
		router.Use(security.RateLimiter(cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute))
	}

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// build 在已准备好的存储之上组装服务与路由
func build(cfg *config.Config, store docstore.Store, locker docstore.Locker) *App {
	app := &App{Config: cfg, Store: store}

	repos := app.initRepositories(store, locker)
	app.services = app.initServices(repos, cfg)
	controllers := app.initControllers(app.services, store)

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	app.Router = router

	app.setupMiddlewares(router, cfg)
	app.registerRoutes(router, controllers, cfg)

	if cfg.Storage.Type == util.StorageLocal {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	app.RegisterConfigCallback(func(newCfg *config.Config) {
		logger.ApplyMode(newCfg.Server.Mode)
		app.services.dashboard.SetQuestions(newCfg.Dashboard)
	})

	return app
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	logger.Log.Info("Logger initialized successfully")

	// 监控初始化
	monitoring.Init()

	ctx := context.Background()
	shell := &App{}
	store, err := shell.initStore(ctx, cfg)
	if err != nil {
		logger.Log.Fatal("Failed to initialize document store", zap.Error(err))
	}
	locker, err := shell.initLocker(ctx, cfg)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
	}

	app := build(cfg, store, locker)
	app.DB = shell.DB
	app.Redis = shell.Redis

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer(tracing.ServiceName, cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracer = tp
	}

	return app
}

// BootstrapAdmin 创建管理员账号，用户名已存在时跳过
func (a *App) BootstrapAdmin(ctx context.Context, name, email, username, password string) error {
	_, err := a.services.employee.Create(ctx, service.CreateEmployeeInput{
		Name:     name,
		Email:    email,
		Position: "Administrador",
		Username: username,
		Password: password,
		Role:     model.RoleAdmin,
	})
	if err != nil {
		return err
	}
	logger.Log.Info("Admin account created", zap.String("username", username))
	return nil
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	watchCtx, stopWatch := context.WithCancel(context.Background())
	defer stopWatch()
	if a.Config.Path != "" {
		watcher := configwatcher.New(a.Config.Path, a.applyConfig)
		go func() {
			if err := watcher.Run(watchCtx); err != nil {
				logger.Log.Error("Config watcher stopped", zap.Error(err))
			}
		}()
	}

	// 启动服务器
	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	if a.tracer != nil {
		if err := a.tracer.Shutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.Redis != nil {
		a.Redis.Close()
	}

	logger.Log.Info("Server exiting")
}
