package di

import (
	"context"
	"fmt"
	"time"

	"linetask/application/serviceimpl"
	"linetask/domain/ports"
	"linetask/domain/repositories"
	"linetask/domain/services"
	"linetask/infrastructure/lineapi"
	"linetask/infrastructure/postgres"
	redispkg "linetask/infrastructure/redis"
	"linetask/infrastructure/storage"
	"linetask/interfaces/api/handlers"
	"linetask/pkg/config"
	"linetask/pkg/logger"
	"linetask/pkg/scheduler"

	"gorm.io/gorm"
)

type Container struct {
	// Configuration
	Config *config.Config

	// Infrastructure
	DB             *gorm.DB
	RedisClient    *redispkg.Client  // webhook event dedup (optional)
	Storage        ports.StoragePort // Port/Adapter pattern
	Messenger      ports.MessengerPort
	EventScheduler scheduler.EventScheduler

	// Repositories
	UserRepository      repositories.UserRepository
	GroupRepository     repositories.GroupRepository
	TaskRepository      repositories.TaskRepository
	FileRepository      repositories.FileRepository
	KPIRepository       repositories.KPIRepository
	RecurringRepository repositories.RecurringRepository

	// Services
	UserService        services.UserService
	GroupService       services.GroupService
	WorkflowService    services.WorkflowService
	KPIService         services.KPIService
	RecurringService   services.RecurringService
	MaintenanceService services.MaintenanceService
	FileService        services.FileService
}

func NewContainer() *Container {
	return &Container{}
}

func (c *Container) Initialize() error {
	if err := c.initConfig(); err != nil {
		return err
	}

	if err := c.initLogger(); err != nil {
		return err
	}

	if err := c.initInfrastructure(); err != nil {
		return err
	}

	if err := c.initRepositories(); err != nil {
		return err
	}

	if err := c.initServices(); err != nil {
		return err
	}

	if err := c.initScheduler(); err != nil {
		return err
	}

	return nil
}

func (c *Container) initConfig() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	c.Config = cfg
	logger.Info("Configuration loaded")
	return nil
}

func (c *Container) initLogger() error {
	logConfig := logger.Config{
		Level:      c.Config.Log.Level,
		Format:     c.Config.Log.Format,
		Output:     c.Config.Log.Output,
		FilePath:   c.Config.Log.FilePath,
		MaxSize:    c.Config.Log.MaxSize,
		MaxBackups: c.Config.Log.MaxBackups,
		MaxAge:     c.Config.Log.MaxAge,
		Compress:   c.Config.Log.Compress,
	}

	if err := logger.Init(logConfig); err != nil {
		return err
	}

	logger.Info("Logger initialized",
		"level", c.Config.Log.Level,
		"format", c.Config.Log.Format,
		"output", c.Config.Log.Output,
	)
	return nil
}

func (c *Container) initInfrastructure() error {
	// Database
	dbConfig := postgres.DatabaseConfig{
		Host:     c.Config.Database.Host,
		Port:     c.Config.Database.Port,
		User:     c.Config.Database.User,
		Password: c.Config.Database.Password,
		DBName:   c.Config.Database.DBName,
		SSLMode:  c.Config.Database.SSLMode,
	}

	db, err := postgres.NewDatabase(dbConfig)
	if err != nil {
		return err
	}
	c.DB = db
	logger.Info("Database connected", "host", c.Config.Database.Host, "db", c.Config.Database.DBName)

	if err := postgres.Migrate(db); err != nil {
		return err
	}
	logger.Info("Database migrated")

	// Redis (optional - webhook dedup fails open without it)
	if c.Config.Redis.URL != "" {
		redisClient, err := redispkg.NewClient(redispkg.Config{
			URL:      c.Config.Redis.URL,
			Password: c.Config.Redis.Password,
			DB:       c.Config.Redis.DB,
		})
		if err != nil {
			logger.Warn("Redis client initialization failed (webhook dedup disabled)", "error", err)
		} else {
			c.RedisClient = redisClient
			logger.Info("Redis client initialized", "url", c.Config.Redis.URL)
		}
	}

	// LINE Messaging API client
	c.Messenger = lineapi.NewClient(lineapi.Config{
		ChannelSecret:      c.Config.Line.ChannelSecret,
		ChannelAccessToken: c.Config.Line.ChannelAccessToken,
	})
	logger.Info("LINE messenger client initialized")

	// Storage (Port/Adapter pattern)
	if err := c.initStorage(); err != nil {
		return err
	}

	return nil
}

// initStorage สร้าง storage adapter ตาม config
func (c *Container) initStorage() error {
	switch c.Config.Storage.Type {
	case "s3":
		// S3-Compatible Storage (MinIO / Cloudflare R2)
		s3Config := storage.S3StorageConfig{
			Endpoint:  c.Config.Storage.S3.Endpoint,
			AccessKey: c.Config.Storage.S3.AccessKey,
			SecretKey: c.Config.Storage.S3.SecretKey,
			Bucket:    c.Config.Storage.S3.Bucket,
			UseSSL:    c.Config.Storage.S3.UseSSL,
			Region:    c.Config.Storage.S3.Region,
			PublicURL: c.Config.Storage.S3.PublicURL,
		}
		s3Storage, err := storage.NewS3Storage(s3Config)
		if err != nil {
			return fmt.Errorf("failed to initialize S3 storage: %w", err)
		}
		c.Storage = s3Storage
		logger.Info("S3 Storage initialized",
			"endpoint", c.Config.Storage.S3.Endpoint,
			"bucket", c.Config.Storage.S3.Bucket,
		)

	default:
		localConfig := storage.LocalStorageConfig{
			BasePath: c.Config.Storage.BasePath,
			BaseURL:  c.Config.Storage.BaseURL,
		}
		localStorage, err := storage.NewLocalStorage(localConfig)
		if err != nil {
			return fmt.Errorf("failed to initialize local storage: %w", err)
		}
		c.Storage = localStorage
		logger.Info("Local Storage initialized", "path", c.Config.Storage.BasePath)
	}

	return nil
}

func (c *Container) initRepositories() error {
	c.UserRepository = postgres.NewUserRepository(c.DB)
	c.GroupRepository = postgres.NewGroupRepository(c.DB)
	c.TaskRepository = postgres.NewTaskRepository(c.DB)
	c.FileRepository = postgres.NewFileRepository(c.DB)
	c.KPIRepository = postgres.NewKPIRepository(c.DB)
	c.RecurringRepository = postgres.NewRecurringRepository(c.DB)
	logger.Info("Repositories initialized")
	return nil
}

func (c *Container) initServices() error {
	c.UserService = serviceimpl.NewUserService(
		c.UserRepository,
		c.Messenger,
		serviceimpl.AuthConfig{
			JWTSecret: c.Config.JWT.Secret,
			TokenTTL:  c.Config.JWT.TokenTTL,
		},
	)
	c.GroupService = serviceimpl.NewGroupService(c.GroupRepository)
	c.FileService = serviceimpl.NewFileService(c.FileRepository, c.TaskRepository, c.Storage)

	c.KPIService = serviceimpl.NewKPIService(
		c.KPIRepository,
		c.TaskRepository,
		c.UserRepository,
		serviceimpl.KPIConfig{
			PointsOnTime:       c.Config.KPI.PointsOnTime,
			PointsExtended:     c.Config.KPI.PointsExtended,
			PointsLate:         c.Config.KPI.PointsLate,
			PointsAutoApproved: c.Config.KPI.PointsAutoApproved,
		},
	)

	// Workflow ต้องมา KPI + File ก่อน (บันทึกคะแนนและแนบไฟล์ตอนเปลี่ยน state)
	c.WorkflowService = serviceimpl.NewWorkflowService(
		c.TaskRepository,
		c.UserRepository,
		c.GroupRepository,
		c.FileRepository,
		c.KPIService,
		c.FileService,
		serviceimpl.WorkflowConfig{
			AutoCompleteOnApprove:      c.Config.Workflow.AutoCompleteOnApprove,
			ExtensionRequestWindow:     c.Config.Workflow.ExtensionRequestWindow,
			DefaultRejectExtensionDays: c.Config.Workflow.DefaultRejectExtensionDays,
		},
	)

	// Recurring spawn งานผ่าน WorkflowService ต้องมาทีหลัง
	c.RecurringService = serviceimpl.NewRecurringService(
		c.RecurringRepository,
		c.TaskRepository,
		c.GroupRepository,
		c.UserRepository,
		c.WorkflowService,
	)

	c.MaintenanceService = serviceimpl.NewMaintenanceService(
		c.TaskRepository,
		c.WorkflowService,
	)

	logger.Info("Services initialized")
	return nil
}

func (c *Container) initScheduler() error {
	c.EventScheduler = scheduler.NewEventScheduler()
	c.EventScheduler.Start()

	ctx := context.Background()

	if err := c.EventScheduler.AddJob("overdue-sweep", c.Config.Scheduler.OverdueSweepCron, func() {
		swept, err := c.WorkflowService.SweepOverdue(ctx)
		if err != nil {
			logger.Error("Overdue sweep failed", "error", err)
			return
		}
		if swept > 0 {
			logger.Info("Overdue sweep completed", "swept", swept)
		}
	}); err != nil {
		return err
	}

	if err := c.EventScheduler.AddJob("recurring-tick", c.Config.Scheduler.RecurringTickCron, func() {
		run, err := c.RecurringService.GenerateDue(ctx, time.Now())
		if err != nil {
			logger.Error("Recurring generation failed", "error", err)
			return
		}
		if run.Created > 0 {
			logger.Info("Recurring generation completed", "created", run.Created, "skipped", run.Skipped)
		}
	}); err != nil {
		return err
	}

	if err := c.EventScheduler.AddJob("kpi-resync", c.Config.Scheduler.KPIResyncCron, func() {
		result, err := c.KPIService.Resync(ctx)
		if err != nil {
			logger.Error("KPI resync failed", "error", err)
			return
		}
		if result.Created > 0 {
			logger.Info("KPI resync backfilled records", "scanned", result.Scanned, "created", result.Created)
		}
	}); err != nil {
		return err
	}

	return nil
}

func (c *Container) Cleanup() error {
	logger.Info("Starting cleanup...")

	if c.EventScheduler != nil && c.EventScheduler.IsRunning() {
		c.EventScheduler.Stop()
	}

	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			logger.Warn("Failed to close Redis connection", "error", err)
		} else {
			logger.Info("Redis connection closed")
		}
	}

	if c.DB != nil {
		sqlDB, err := c.DB.DB()
		if err == nil {
			if err := sqlDB.Close(); err != nil {
				logger.Warn("Failed to close database connection", "error", err)
			} else {
				logger.Info("Database connection closed")
			}
		}
	}

	logger.Info("Cleanup completed")
	return nil
}

func (c *Container) GetConfig() *config.Config {
	return c.Config
}

func (c *Container) GetHandlerServices() *handlers.Services {
	return &handlers.Services{
		UserService:        c.UserService,
		GroupService:       c.GroupService,
		WorkflowService:    c.WorkflowService,
		KPIService:         c.KPIService,
		RecurringService:   c.RecurringService,
		MaintenanceService: c.MaintenanceService,
		FileService:        c.FileService,
		Messenger:          c.Messenger,
		Redis:              c.RedisClient,
		Config:             c.Config,
	}
}
