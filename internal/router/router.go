package router

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"project-tracker-api/internal/domain"
	"project-tracker-api/internal/handler"
	"project-tracker-api/internal/metrics"
	"project-tracker-api/internal/middleware"
	"project-tracker-api/internal/notification"
	"project-tracker-api/internal/repository"
	"project-tracker-api/internal/response"
	"project-tracker-api/internal/service"
	"project-tracker-api/internal/storage"
)

// maxMultipartMemory bounds the in-memory part of multipart forms; larger files spill to disk
const maxMultipartMemory = 32 << 20

// Config holds router configuration
type Config struct {
	DB             *gorm.DB
	Logger         *zap.Logger
	JWTSecret      string
	BasePath       string
	AllowedOrigins []string
	Metrics        *metrics.Metrics
	Store          storage.Store
	Redis          *redis.Client

	// Optional. A nil Dispatcher drops notifications; a nil Subscriber disables the websocket stream.
	Dispatcher notification.Dispatcher
	Subscriber notification.Subscriber
	// Optional. When nil an uncached PerformanceService is built.
	Performance service.PerformanceService
}

// Setup sets up the router with all routes
func Setup(cfg Config) *gin.Engine {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = metrics.New()
	}

	r := gin.New()
	r.MaxMultipartMemory = maxMultipartMemory

	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	r.Use(middleware.Metrics(cfg.Metrics))

	// Prometheus metrics endpoint, reachable with and without the base path
	metricsHandler := gin.WrapH(promhttp.Handler())
	r.GET("/metrics", metricsHandler)
	if cfg.BasePath != "" && cfg.BasePath != "/" {
		r.GET(cfg.BasePath+"/metrics", metricsHandler)
	}

	// Swagger documentation, outside the authenticated group
	r.GET(strings.TrimRight(cfg.BasePath, "/")+"/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	healthHandler := handler.NewHealthHandler(cfg.DB, cfg.Redis)
	r.GET("/health", healthHandler.Health)
	r.GET("/ready", healthHandler.Ready)

	// Initialize repositories
	taskRepo := repository.NewTaskRepository(cfg.DB)
	bugRepo := repository.NewBugRepository(cfg.DB)
	projectRepo := repository.NewProjectRepository(cfg.DB)
	userRepo := repository.NewUserRepository(cfg.DB)
	commentRepo := repository.NewCommentRepository(cfg.DB)
	attachmentRepo := repository.NewAttachmentRepository(cfg.DB)
	activityRepo := repository.NewActivityLogRepository(cfg.DB)
	notificationRepo := repository.NewNotificationRepository(cfg.DB)

	// Initialize services
	workflow := service.NewWorkflow(
		repository.NewTransactor(cfg.DB),
		attachmentRepo,
		cfg.Store,
		service.NewActivityLogger(activityRepo),
		cfg.Dispatcher,
		cfg.Metrics,
		cfg.Logger,
	)
	projectService := service.NewProjectService(workflow, projectRepo)
	taskService := service.NewTaskService(workflow, taskRepo, projectRepo, userRepo)
	bugService := service.NewBugService(workflow, bugRepo, taskRepo, projectRepo)
	commentService := service.NewCommentService(workflow, commentRepo, taskRepo)
	attachmentService := service.NewAttachmentService(workflow)
	activityService := service.NewActivityService(activityRepo)
	notificationService := service.NewNotificationService(notificationRepo)
	performanceService := cfg.Performance
	if performanceService == nil {
		performanceService = service.NewPerformanceService(
			repository.NewPerformanceRepository(cfg.DB),
			userRepo,
			nil,
			cfg.Logger,
		)
	}

	// Initialize handlers
	projectHandler := handler.NewProjectHandler(projectService)
	taskHandler := handler.NewTaskHandler(taskService)
	bugHandler := handler.NewBugHandler(bugService)
	commentHandler := handler.NewCommentHandler(commentService)
	attachmentHandler := handler.NewAttachmentHandler(attachmentService)
	activityHandler := handler.NewActivityHandler(activityService)
	performanceHandler := handler.NewPerformanceHandler(performanceService)
	notificationHandler := handler.NewNotificationHandler(
		notificationService,
		cfg.Subscriber,
		middleware.OriginAllowed(cfg.AllowedOrigins),
		cfg.Logger,
	)

	managerOnly := middleware.RequireRoles(domain.RoleManager)
	bugReporters := middleware.RequireRoles(domain.RoleQA, domain.RoleManager)

	// API routes group (authenticated)
	api := r.Group(cfg.BasePath)
	api.Use(middleware.Auth(cfg.JWTSecret))

	projects := api.Group("/projects")
	{
		projects.POST("", managerOnly, projectHandler.CreateProject)
		projects.GET("", projectHandler.ListProjects)
		projects.GET("/:id", projectHandler.GetProject)
		projects.PUT("/:id", managerOnly, projectHandler.UpdateProject)
		projects.GET("/:id/tasks", taskHandler.ListProjectTasks)
	}

	tasks := api.Group("/tasks")
	{
		tasks.POST("", managerOnly, taskHandler.CreateTask)
		tasks.GET("/:id", taskHandler.GetTask)
		tasks.PUT("/:id", managerOnly, taskHandler.UpdateTask)
		tasks.PATCH("/:id/status", taskHandler.UpdateTaskStatus)
		tasks.GET("/:id/bugs", bugHandler.ListTaskBugs)
		tasks.POST("/:id/comments", commentHandler.CreateComment)
		tasks.GET("/:id/comments", commentHandler.ListComments)
		tasks.DELETE("/:id/attachments/:attachmentId", attachmentHandler.DeleteAttachment(domain.EntityTypeTask))
	}

	bugs := api.Group("/bugs")
	{
		bugs.POST("", bugReporters, bugHandler.CreateBug)
		bugs.GET("/:id", bugHandler.GetBug)
		bugs.PUT("/:id", bugReporters, bugHandler.UpdateBug)
		bugs.PATCH("/:id/status", bugHandler.UpdateBugStatus)
		bugs.DELETE("/:id/attachments/:attachmentId", attachmentHandler.DeleteAttachment(domain.EntityTypeBug))
	}

	api.DELETE("/comments/:id/attachments/:attachmentId", attachmentHandler.DeleteAttachment(domain.EntityTypeComment))
	api.GET("/attachments/:id/download", attachmentHandler.DownloadAttachment)

	perf := api.Group("/performance")
	{
		perf.GET("", managerOnly, performanceHandler.GetTeamReport)
		perf.GET("/users/:id", performanceHandler.GetUserPerformance)
	}

	api.GET("/activity-logs", managerOnly, activityHandler.ListActivityLogs)

	notifications := api.Group("/notifications")
	{
		notifications.GET("", notificationHandler.ListNotifications)
		notifications.PATCH("/:id/read", notificationHandler.MarkAsRead)
		notifications.GET("/ws", notificationHandler.Stream)
	}

	r.NoRoute(func(c *gin.Context) {
		response.SendError(c, http.StatusNotFound, response.ErrCodeNotFound, "Route not found")
	})

	return r
}
