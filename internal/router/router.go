package router

import (
	"github.com/fanli-next/internal/config"
	adminhandlers "github.com/fanli-next/internal/http/handlers/admin"
	"github.com/fanli-next/internal/logger"
	"github.com/fanli-next/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	adminHandler := adminhandlers.New(c)

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	// API 路由组
	apiV1 := r.Group("/api/v1")
	{
		admin := apiV1.Group("/admin")
		{
			// 登录接口（无需鉴权）
			admin.POST("/login", adminHandler.AdminLogin)

			// 需要鉴权的接口
			authorized := admin.Use(JWTAuthMiddleware(cfg.JWT.SecretKey, c.AdminRepo))
			{
				// 管理员
				authorized.GET("/profile", adminHandler.GetAdminProfile)
				authorized.PUT("/password", adminHandler.UpdateAdminPassword)

				// 返利合同
				authorized.GET("/contracts", adminHandler.GetAdminContracts)
				authorized.GET("/contracts/:id", adminHandler.GetAdminContract)
				authorized.POST("/contracts", adminHandler.CreateAdminContract)
				authorized.PUT("/contracts/:id", adminHandler.UpdateAdminContract)
				authorized.PUT("/contracts/:id/scales", adminHandler.ReplaceContractScales)

				// 主数据
				authorized.GET("/provision-methods", adminHandler.GetProvisionMethods)
				authorized.POST("/provision-methods", adminHandler.CreateProvisionMethod)
				authorized.PUT("/provision-methods/:code", adminHandler.UpdateProvisionMethod)
				authorized.GET("/document-types", adminHandler.GetDocumentTypes)
				authorized.POST("/document-types", adminHandler.CreateDocumentType)
				authorized.GET("/articles", adminHandler.GetAdminArticles)
				authorized.POST("/articles", adminHandler.CreateAdminArticle)
				authorized.POST("/exchange-rates", adminHandler.CreateExchangeRate)

				// 采购单据
				authorized.GET("/purchases", adminHandler.GetAdminPurchases)
				authorized.GET("/purchases/:id", adminHandler.GetAdminPurchase)
				authorized.POST("/purchases", adminHandler.CreateAdminPurchase)
				authorized.POST("/purchases/:id/validate", adminHandler.ValidateAdminPurchase)

				// 结算
				authorized.POST("/settlement/run", adminHandler.RunSettlement)
				authorized.GET("/settlement/runs", adminHandler.GetSettlementRuns)
				authorized.GET("/settlement/runs/:run_id", adminHandler.GetSettlementRun)
				authorized.GET("/settlement/records", adminHandler.GetSettlementRecords)
				authorized.GET("/settlement/records/:id", adminHandler.GetSettlementRecord)
			}
		}
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}
