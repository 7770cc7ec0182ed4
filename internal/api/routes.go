package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	_ "github.com/mautops/survey-gin/docs"
	"github.com/mautops/survey-gin/internal/config"
	"github.com/mautops/survey-gin/internal/service"
	"github.com/mautops/survey-gin/internal/websocket"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

// Dependencies 路由依赖
type Dependencies struct {
	Config    *config.Config
	DB        *gorm.DB // 内存存储时为 nil
	Hub       *websocket.Hub
	Schedules service.ScheduleService
	Blocks    service.BlockService
	Drafts    service.DraftService
	Templates service.TemplateService
	Backups   *service.BackupService // 为 nil 时不注册备份路由
	Count     func() int             // 调查计划数量,用于健康检查
}

// SetupRoutes 配置路由
func SetupRoutes(deps Dependencies) *gin.Engine {
	cfg := deps.Config
	if cfg == nil {
		cfg = config.Default()
	}

	router := gin.New()

	// 中间件
	router.Use(gin.Recovery())
	router.Use(RequestIDMiddleware())
	if cfg.Tracing.Enabled {
		router.Use(TracingMiddleware(cfg.Tracing))
	}
	router.Use(RequestLogMiddleware())
	router.Use(SecurityHeadersMiddleware(config.IsProduction(cfg)))
	router.Use(CORSMiddleware(cfg.CORS))
	router.Use(I18nMiddleware())
	router.Use(RequestContextMiddleware())
	router.Use(ErrorHandlerMiddleware())

	// 健康检查
	healthController := NewHealthController(deps.DB, deps.Count)
	router.GET("/health", healthController.Check)

	// Prometheus 指标端点
	router.GET("/metrics", MetricsHandler)

	// WebSocket 路由,推送调查计划变更
	if deps.Hub != nil {
		router.GET("/ws/schedules", websocket.WebSocketHandler(deps.Hub))
	}

	// Swagger UI 路由
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler,
		ginSwagger.URL("/swagger/doc.json"),
	))

	// API v1 路由组
	v1 := router.Group("/api/v1")
	v1.Use(RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
	{
		scheduleController := NewScheduleController(deps.Schedules)
		blockController := NewBlockController(deps.Blocks)
		draftController := NewDraftController(deps.Drafts, deps.Templates)
		templateController := NewTemplateController(deps.Templates)

		// 调查计划路由
		schedules := v1.Group("/schedules")
		{
			schedules.GET("", scheduleController.List)
			schedules.POST("", scheduleController.Create)
			schedules.GET("/:id", scheduleController.Get)
			schedules.PUT("/:id", scheduleController.Update)
			schedules.DELETE("/:id", scheduleController.Delete)
			schedules.POST("/:id/clone", scheduleController.Clone)
			schedules.GET("/:id/audit-logs", scheduleController.History)

			// 区块路由
			schedules.GET("/:id/blocks", blockController.List)
			schedules.POST("/:id/blocks", blockController.Create)
			schedules.GET("/:id/blocks/:blockId", blockController.Get)
			schedules.PUT("/:id/blocks/:blockId", blockController.Update)
			schedules.DELETE("/:id/blocks/:blockId", blockController.Delete)
			schedules.POST("/:id/blocks/:blockId/move", blockController.Move)

			// 草稿入口
			schedules.POST("/:id/drafts", draftController.Open)
			schedules.POST("/:id/blocks/:blockId/drafts", draftController.OpenForBlock)
		}

		// 区块草稿路由
		drafts := v1.Group("/drafts")
		{
			drafts.GET("/:draftId", draftController.Get)
			drafts.DELETE("/:draftId", draftController.Discard)
			drafts.PUT("/:draftId/metadata", draftController.SetMetadata)
			drafts.PUT("/:draftId/method", draftController.ChooseMethod)
			drafts.PUT("/:draftId/item", draftController.SetItem)
			drafts.POST("/:draftId/item/rules", draftController.AddRule)
			drafts.DELETE("/:draftId/item/rules/:key", draftController.RemoveRule)
			drafts.POST("/:draftId/item/options", draftController.AddOption)
			drafts.DELETE("/:draftId/item/options/:index", draftController.RemoveOption)
			drafts.POST("/:draftId/items", draftController.AddItem)
			drafts.DELETE("/:draftId/items/:itemId", draftController.RemoveItem)
			drafts.POST("/:draftId/commit", draftController.Commit)
		}

		// 模板路由
		templates := v1.Group("/templates")
		{
			templates.GET("", templateController.List)
			templates.GET("/categories", templateController.Categories)
			templates.GET("/:id", templateController.Get)
		}

		// 备份路由
		if deps.Backups != nil {
			backupController := NewBackupController(deps.Backups)
			backups := v1.Group("/backups")
			{
				backups.POST("", backupController.CreateBackup)
				backups.GET("", backupController.ListBackups)
				backups.POST("/:filename/restore", backupController.RestoreBackup)
				backups.DELETE("/:filename", backupController.DeleteBackup)
			}
		}
	}

	// 未匹配的路由返回 JSON 格式的 404
	router.NoRoute(func(c *gin.Context) {
		Error(c, http.StatusNotFound, T(c, "error.not_found"), c.Request.URL.Path)
	})

	return router
}
