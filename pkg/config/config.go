package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Log       LogConfig
	Line      LineConfig
	Storage   StorageConfig
	Workflow  WorkflowConfig
	KPI       KPIConfig
	Scheduler SchedulerConfig
}

type AppConfig struct {
	Name string
	Port string
	Env  string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// RedisConfig สำหรับ webhook event dedup
type RedisConfig struct {
	URL      string // redis://localhost:6379
	Password string
	DB       int

	// EventDedupTTL คือช่วงเวลาที่จำ webhook event id (กัน redelivery)
	EventDedupTTL time.Duration
}

type JWTConfig struct {
	Secret   string
	TokenTTL time.Duration
}

type LogConfig struct {
	Level      string // debug, info, warn, error
	Format     string // json, text
	Output     string // stdout, file, both
	FilePath   string // logs/linetask.log
	MaxSize    int    // MB
	MaxBackups int    // จำนวน backup files
	MaxAge     int    // วัน
	Compress   bool   // บีบอัด backup
}

// LineConfig สำหรับ LINE Messaging API
type LineConfig struct {
	ChannelSecret      string
	ChannelAccessToken string
}

type StorageConfig struct {
	Type     string // local, s3
	BasePath string // สำหรับ local: ./uploads
	BaseURL  string // URL สำหรับเข้าถึงไฟล์ (เช่น http://localhost:8080/files)

	// S3-Compatible Storage (MinIO / Cloudflare R2)
	S3 S3Config
}

type S3Config struct {
	Endpoint  string // minio:9000 หรือ xxx.r2.cloudflarestorage.com
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool   // false สำหรับ MinIO local, true สำหรับ R2
	Region    string // auto สำหรับ R2
	PublicURL string // URL สำหรับเข้าถึงไฟล์ public (optional)
}

// WorkflowConfig ปรับพฤติกรรม task state machine
type WorkflowConfig struct {
	AutoCompleteOnApprove      bool
	ExtensionRequestWindow     time.Duration
	DefaultRejectExtensionDays int
}

// KPIConfig คือคะแนนต่อ completion type
type KPIConfig struct {
	PointsOnTime       int
	PointsExtended     int
	PointsLate         int
	PointsAutoApproved int
}

// SchedulerConfig คือ cron expressions ของ background jobs
type SchedulerConfig struct {
	OverdueSweepCron  string
	RecurringTickCron string
	KPIResyncCron     string
}

func LoadConfig() (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		// ไม่ error ถ้าไม่มี .env file (ใช้ environment variables แทน)
	}

	logMaxSize, _ := strconv.Atoi(getEnv("LOG_MAX_SIZE", "100"))
	logMaxBackups, _ := strconv.Atoi(getEnv("LOG_MAX_BACKUPS", "5"))
	logMaxAge, _ := strconv.Atoi(getEnv("LOG_MAX_AGE", "30"))
	logCompress := getEnv("LOG_COMPRESS", "true") == "true"

	s3UseSSL := getEnv("S3_USE_SSL", "false") == "true"
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	dedupTTL := getDurationEnv("WEBHOOK_DEDUP_TTL", time.Hour)
	tokenTTL := getDurationEnv("JWT_TOKEN_TTL", 24*time.Hour)

	autoComplete := getEnv("WORKFLOW_AUTO_COMPLETE_ON_APPROVE", "true") == "true"
	extensionWindow := getDurationEnv("WORKFLOW_EXTENSION_WINDOW", 24*time.Hour)
	rejectDays, _ := strconv.Atoi(getEnv("WORKFLOW_REJECT_EXTENSION_DAYS", "1"))

	pointsOnTime, _ := strconv.Atoi(getEnv("KPI_POINTS_ON_TIME", "10"))
	pointsExtended, _ := strconv.Atoi(getEnv("KPI_POINTS_EXTENDED", "7"))
	pointsLate, _ := strconv.Atoi(getEnv("KPI_POINTS_LATE", "5"))
	pointsAuto, _ := strconv.Atoi(getEnv("KPI_POINTS_AUTO_APPROVED", "8"))

	config := &Config{
		App: AppConfig{
			Name: getEnv("APP_NAME", "LineTask"),
			Port: getEnv("APP_PORT", "8080"),
			Env:  getEnv("APP_ENV", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			DBName:   getEnv("DB_NAME", "linetask"),
			SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		},
		Redis: RedisConfig{
			URL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			Password:      getEnv("REDIS_PASSWORD", ""),
			DB:            redisDB,
			EventDedupTTL: dedupTTL,
		},
		JWT: JWTConfig{
			Secret:   getEnv("JWT_SECRET", "your-secret-key"),
			TokenTTL: tokenTTL,
		},
		Log: LogConfig{
			Level:      getEnv("LOG_LEVEL", "info"),
			Format:     getEnv("LOG_FORMAT", "json"),
			Output:     getEnv("LOG_OUTPUT", "both"),
			FilePath:   getEnv("LOG_FILE", "logs/linetask.log"),
			MaxSize:    logMaxSize,
			MaxBackups: logMaxBackups,
			MaxAge:     logMaxAge,
			Compress:   logCompress,
		},
		Line: LineConfig{
			ChannelSecret:      getEnv("LINE_CHANNEL_SECRET", ""),
			ChannelAccessToken: getEnv("LINE_CHANNEL_ACCESS_TOKEN", ""),
		},
		Storage: StorageConfig{
			Type:     getEnv("STORAGE_TYPE", "local"),
			BasePath: getEnv("STORAGE_BASE_PATH", "./uploads"),
			BaseURL:  getEnv("STORAGE_BASE_URL", "http://localhost:8080/files"),
			S3: S3Config{
				Endpoint:  getEnv("S3_ENDPOINT", "localhost:9000"),
				AccessKey: getEnv("S3_ACCESS_KEY", "minioadmin"),
				SecretKey: getEnv("S3_SECRET_KEY", "minioadmin"),
				Bucket:    getEnv("S3_BUCKET", "attachments"),
				UseSSL:    s3UseSSL,
				Region:    getEnv("S3_REGION", "auto"),
				PublicURL: getEnv("S3_PUBLIC_URL", ""),
			},
		},
		Workflow: WorkflowConfig{
			AutoCompleteOnApprove:      autoComplete,
			ExtensionRequestWindow:     extensionWindow,
			DefaultRejectExtensionDays: rejectDays,
		},
		KPI: KPIConfig{
			PointsOnTime:       pointsOnTime,
			PointsExtended:     pointsExtended,
			PointsLate:         pointsLate,
			PointsAutoApproved: pointsAuto,
		},
		Scheduler: SchedulerConfig{
			OverdueSweepCron:  getEnv("SCHEDULER_OVERDUE_SWEEP_CRON", "*/5 * * * *"),
			RecurringTickCron: getEnv("SCHEDULER_RECURRING_TICK_CRON", "*/10 * * * *"),
			KPIResyncCron:     getEnv("SCHEDULER_KPI_RESYNC_CRON", "30 3 * * *"),
		},
	}

	return config, nil
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return d
}

// IsDevelopment ตรวจสอบว่าเป็น development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development"
}

// IsProduction ตรวจสอบว่าเป็น production mode
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}
