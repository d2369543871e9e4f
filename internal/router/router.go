package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"contenta_dev_v1/internal/controller"
	"contenta_dev_v1/internal/middleware"

	_ "contenta_dev_v1/docs"
)

// Controllers 控制器集合
type Controllers struct {
	Generate *controller.GenerateController
	Output   *controller.OutputController
	Settings *controller.SettingsController
	Usage    *controller.UsageController
}

// Options 路由配置
type Options struct {
	Logger           *zap.Logger
	CORSOrigins      []string
	RequireAuth      bool
	GenerateCooldown time.Duration
	CooldownLimiter  *middleware.CooldownLimiter // 非空时优先使用，便于外部定期清理
	Metrics          http.Handler
	ExportDir        string // 本地存储目录，非空时挂载到 /exports
}

// SetupRouter 创建 gin 引擎并注册所有路由
func SetupRouter(ctls *Controllers, opts Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(opts.Logger))

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowOrigins = opts.CORSOrigins
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization", middleware.HeaderRequestID)
	corsCfg.ExposeHeaders = []string{"Content-Disposition", "Retry-After", middleware.HeaderRequestID}
	if len(corsCfg.AllowOrigins) == 0 {
		corsCfg.AllowAllOrigins = true
	}
	r.Use(cors.New(corsCfg))

	// 运维接口
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if opts.Metrics != nil {
		r.GET("/metrics", gin.WrapH(opts.Metrics))
	}
	// 访问 http://localhost:8080/swagger/index.html 即可查看
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	if opts.ExportDir != "" {
		r.Static("/exports", opts.ExportDir)
	}

	auth := middleware.OptionalAuth()
	if opts.RequireAuth {
		auth = middleware.JWTAuth()
	}
	limiter := opts.CooldownLimiter
	if limiter == nil {
		limiter = middleware.NewCooldownLimiter(opts.GenerateCooldown)
	}
	cooldown := middleware.GenerateCooldown(limiter)

	api := r.Group("/api", auth)
	{
		// 生成
		api.POST("/generate", cooldown, ctls.Generate.Generate)
		api.POST("/vision", cooldown, ctls.Generate.Vision)

		// 历史记录
		outputs := api.Group("/outputs")
		{
			outputs.GET("", ctls.Output.ListOutputs)
			outputs.DELETE("", ctls.Output.ClearOutputs)
			outputs.GET("/favorites", ctls.Output.ListFavorites)
			outputs.GET("/:id", ctls.Output.GetOutput)
			outputs.DELETE("/:id", ctls.Output.RemoveOutput)
			outputs.POST("/:id/favorite", ctls.Output.ToggleFavorite)

			// 导出
			outputs.GET("/:id/export", ctls.Output.ExportOutput)
			outputs.POST("/:id/publish", ctls.Output.PublishOutput)
			outputs.GET("/:id/preview", ctls.Output.PreviewOutput)
		}

		api.GET("/settings", ctls.Settings.GetSettings)
		api.PUT("/settings", ctls.Settings.SaveSettings)
		api.GET("/usage", ctls.Usage.GetUsage)
	}

	return r
}
