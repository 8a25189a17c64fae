package container

import (
	"context"
	"fmt"
	"time"

	"gallery-backend/internal/config"
	infraCache "gallery-backend/internal/infrastructure/cache"
	"gallery-backend/internal/infrastructure/database"
	"gallery-backend/internal/infrastructure/metrics"
	"gallery-backend/internal/infrastructure/storage"
	"gallery-backend/pkg/cache"
	"gallery-backend/pkg/jwt"
	"gallery-backend/pkg/logger"

	// Girl domain
	"gallery-backend/internal/domains/girl"
	girlHandler "gallery-backend/internal/domains/girl/handler"
	girlRepo "gallery-backend/internal/domains/girl/repository"
	girlService "gallery-backend/internal/domains/girl/service"

	// Post domain
	"gallery-backend/internal/domains/post"
	postHandler "gallery-backend/internal/domains/post/handler"
	postRepo "gallery-backend/internal/domains/post/repository"
	postService "gallery-backend/internal/domains/post/service"

	// User domain
	"gallery-backend/internal/domains/user"
	userHandler "gallery-backend/internal/domains/user/handler"
	userRepo "gallery-backend/internal/domains/user/repository"
	userService "gallery-backend/internal/domains/user/service"
)

// ========================================
// CONTAINER STRUCT
// ========================================

// Container chứa toàn bộ dependencies của application
type Container struct {
	// ========================================
	// INFRASTRUCTURE LAYER
	// ========================================
	Config     *config.Config
	DB         *database.MongoDB
	Cache      cache.Cache
	Redis      *infraCache.RedisCache // nil khi chạy bằng memory cache
	Metrics    *metrics.Metrics
	JWTManager *jwt.Manager

	// Storage provider theo domain (đã bọc Instrument)
	GirlStorage storage.Provider
	PostStorage storage.Provider
	UserStorage storage.Provider

	// ========================================
	// REPOSITORY LAYER
	// ========================================
	GirlRepo girl.Repository
	PostRepo post.Repository
	UserRepo user.Repository

	// ========================================
	// SERVICE LAYER
	// ========================================
	GirlService girl.Service
	PostService post.Service
	UserService user.Service

	// ========================================
	// HANDLER LAYER
	// ========================================
	GirlHandler *girlHandler.GirlHandler
	PostHandler *postHandler.PostHandler
	UserHandler *userHandler.UserHandler
}

// ========================================
// CONSTRUCTOR: BUILD CONTAINER
// ========================================

// NewContainer build dependency graph theo thứ tự:
// config → infrastructure (Mongo, cache, storage) → repositories → services → handlers
func NewContainer(ctx context.Context) (*Container, error) {
	c := &Container{}

	// STEP 1: LOAD CONFIGURATION
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg
	logger.Init(cfg.App.Environment, cfg.App.LogLevel)
	logger.Info("Config loaded", map[string]interface{}{"environment": cfg.App.Environment})

	// STEP 2: CONNECT MONGODB (retry + indexes)
	c.DB = database.NewMongoDB(cfg.Database)
	if err := c.DB.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	logger.Info("MongoDB connected", map[string]interface{}{"database": cfg.Database.Database})

	// STEP 3: CACHE, Redis lỗi thì fallback memory
	c.initCache(ctx)

	// STEP 4: METRICS + JWT
	c.Metrics = metrics.New()
	c.JWTManager = jwt.NewManager(cfg.JWT.Secret, time.Duration(cfg.JWT.AccessTokenExpiry)*time.Minute)

	// STEP 5: STORAGE PROVIDERS
	if err := c.initStorage(ctx); err != nil {
		return nil, fmt.Errorf("failed to init storage: %w", err)
	}

	// STEP 6-8: REPOSITORIES → SERVICES → HANDLERS
	c.initRepositories()
	c.initServices()
	c.initHandlers()

	logger.Info("Container initialized", nil)
	return c, nil
}

// ========================================
// PRIVATE INITIALIZATION METHODS
// ========================================

func (c *Container) initCache(ctx context.Context) {
	rc := infraCache.NewRedisCache(c.Config.Redis.Host, c.Config.Redis.Password, c.Config.Redis.DB)
	if err := rc.Connect(ctx); err != nil {
		// Redis không critical, cache chỉ để tăng tốc đọc
		logger.Warn("Redis unavailable, using in-memory cache", map[string]interface{}{
			"addr":  c.Config.Redis.Host,
			"error": err.Error(),
		})
		_ = rc.Close()
		c.Cache = cache.NewMemoryCache()
		return
	}
	c.Redis = rc
	c.Cache = rc
}

// initStorage tạo mỗi provider đúng một lần, domain nào dùng provider nào do config chọn
func (c *Container) initStorage(ctx context.Context) error {
	images := storage.NewImageProcessor(c.Config.Storage.ImageMaxDimension)
	built := map[string]storage.Provider{}

	get := func(name string) (storage.Provider, error) {
		if p, ok := built[name]; ok {
			return p, nil
		}
		p, err := c.newProvider(ctx, name, images)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		p = storage.Instrument(p, c.Metrics.ObserveStorage)
		built[name] = p
		logger.Info("Storage provider ready", map[string]interface{}{"provider": name})
		return p, nil
	}

	var err error
	if c.GirlStorage, err = get(c.Config.Storage.Girls); err != nil {
		return err
	}
	if c.PostStorage, err = get(c.Config.Storage.Posts); err != nil {
		return err
	}
	if c.UserStorage, err = get(c.Config.Storage.Users); err != nil {
		return err
	}
	return nil
}

func (c *Container) newProvider(ctx context.Context, name string, images *storage.ImageProcessor) (storage.Provider, error) {
	switch name {
	case config.ProviderS3:
		s3, err := storage.NewS3Storage(c.Config.S3, images)
		if err != nil {
			return nil, err
		}
		if err := s3.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		return s3, nil
	case config.ProviderCloudinary:
		return storage.NewCloudinaryStorage(c.Config.Cloudinary)
	case config.ProviderMega:
		return storage.NewMegaStorage(c.Config.Mega, images)
	default:
		return nil, fmt.Errorf("unknown storage provider %q", name)
	}
}

func (c *Container) initRepositories() {
	db := c.DB.DB

	c.GirlRepo = girlRepo.NewMongoRepository(db)
	// Post populate girl summary qua girl repository
	c.PostRepo = postRepo.NewMongoRepository(db, c.GirlRepo)
	c.UserRepo = userRepo.NewMongoRepository(db)
}

func (c *Container) initServices() {
	c.GirlService = girlService.NewGirlService(
		c.GirlRepo,
		c.GirlStorage,
		c.Cache,
		c.Config.Cache.GirlTTL,
		c.Metrics.ObserveCache,
	)

	// Cross-domain: post service cập nhật posts counter của girl
	c.PostService = postService.NewPostService(c.PostRepo, c.GirlRepo, c.PostStorage)

	c.UserService = userService.NewUserService(
		c.UserRepo,
		c.UserStorage,
		c.JWTManager,
		c.Cache,
		userService.Options{
			MaxLoginAttempts: c.Config.Auth.MaxLoginAttempts,
			LoginLockout:     c.Config.Auth.LoginLockout,
			TokenTTL:         time.Duration(c.Config.JWT.AccessTokenExpiry) * time.Minute,
		},
	)
}

func (c *Container) initHandlers() {
	c.GirlHandler = girlHandler.NewGirlHandler(c.GirlService)
	c.PostHandler = postHandler.NewPostHandler(c.PostService)
	c.UserHandler = userHandler.NewUserHandler(c.UserService)
}

// ========================================
// HEALTH + CLEANUP
// ========================================

// HealthCheck ping Mongo và Redis (nếu có), kết quả theo từng component
func (c *Container) HealthCheck(ctx context.Context) map[string]string {
	status := map[string]string{"database": "healthy", "cache": "healthy"}
	if err := c.DB.HealthCheck(ctx); err != nil {
		status["database"] = "unhealthy"
	}
	if err := c.Cache.Ping(ctx); err != nil {
		status["cache"] = "unhealthy"
	}
	if c.Redis == nil {
		status["cache"] = "memory"
	}
	return status
}

// Cleanup đóng tất cả connections khi shutdown
func (c *Container) Cleanup(ctx context.Context) {
	if c.DB != nil {
		if err := c.DB.Close(ctx); err != nil {
			logger.Error("Failed to close MongoDB", err)
		}
	}
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			logger.Error("Failed to close Redis", err)
		}
	}
	logger.Info("Cleanup completed", nil)
}
