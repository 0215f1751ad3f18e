package handlers

import (
	"linetask/domain/ports"
	"linetask/domain/services"
	"linetask/infrastructure/redis"
	"linetask/pkg/config"
)

// Services contains all the services needed for handlers
type Services struct {
	UserService        services.UserService
	GroupService       services.GroupService
	WorkflowService    services.WorkflowService
	KPIService         services.KPIService
	RecurringService   services.RecurringService
	MaintenanceService services.MaintenanceService
	FileService        services.FileService
	Messenger          ports.MessengerPort
	Redis              *redis.Client
	Config             *config.Config
}

// Handlers contains all HTTP handlers
type Handlers struct {
	AuthHandler        *AuthHandler
	TaskHandler        *TaskHandler
	GroupHandler       *GroupHandler
	FileHandler        *FileHandler
	KPIHandler         *KPIHandler
	RecurringHandler   *RecurringHandler
	MaintenanceHandler *MaintenanceHandler
	WebhookHandler     *WebhookHandler
}

// NewHandlers creates a new instance of Handlers with all dependencies
func NewHandlers(services *Services) *Handlers {
	return &Handlers{
		AuthHandler:        NewAuthHandler(services.UserService),
		TaskHandler:        NewTaskHandler(services.WorkflowService),
		GroupHandler:       NewGroupHandler(services.GroupService, services.WorkflowService),
		FileHandler:        NewFileHandler(services.FileService),
		KPIHandler:         NewKPIHandler(services.KPIService),
		RecurringHandler:   NewRecurringHandler(services.RecurringService),
		MaintenanceHandler: NewMaintenanceHandler(services.MaintenanceService, services.KPIService, services.RecurringService, services.WorkflowService),
		WebhookHandler: NewWebhookHandler(
			services.Messenger,
			services.Redis,
			services.UserService,
			services.GroupService,
			services.WorkflowService,
			services.Config.Redis.EventDedupTTL,
		),
	}
}
