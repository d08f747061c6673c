package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"gatepass-nexus/backend/config"
	"gatepass-nexus/backend/internal/api/handler"
	"gatepass-nexus/backend/internal/api/middleware"
	"gatepass-nexus/backend/internal/model"
	"gatepass-nexus/backend/pkg/jwt"
)

// Setup 初始化并返回 Gin 路由引擎
// limiter 可为 nil，此时写接口不限流
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, limiter middleware.RateLimiter, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Server.MaxBodyBytes))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	officers := middleware.RoleAuth(model.RoleAdmin, model.RoleSecurityOfficer)
	admin := middleware.RoleAuth(model.RoleAdmin)
	limited := middleware.RateLimit(limiter, cfg.Server.RateLimit.Limit, cfg.Server.RateLimit.Window)

	// ── API v1（全部需要认证）──
	v1 := r.Group("/api/v1")
	v1.Use(middleware.JWTAuth(jwtMgr))
	{
		// 当前用户
		v1.GET("/me", h.Profile.GetMe)
		v1.GET("/me/notices", h.Profile.ListNotices)
		v1.GET("/profiles", h.Profile.ListProfiles)
		v1.GET("/departments", h.Profile.ListDepartments)
		v1.GET("/dashboard", h.Analytics.Dashboard)

		// 出门条
		gatepasses := v1.Group("/gatepasses")
		{
			gatepasses.POST("", limited, h.Gatepass.CreateGatepass)
			gatepasses.GET("", h.Gatepass.ListGatepasses)
			gatepasses.POST("/exit", officers, limited, h.Gatepass.ConfirmExit)
			gatepasses.GET("/:id", h.Gatepass.GetGatepass) // 本人或安保（Service 层鉴权）
			gatepasses.PUT("/:id/approve", officers, limited, h.Gatepass.ApproveGatepass)
			gatepasses.PUT("/:id/reject", officers, limited, h.Gatepass.RejectGatepass)
		}

		// 访客
		visitors := v1.Group("/visitors", officers)
		{
			visitors.POST("", limited, h.Visitor.RegisterVisitor)
			visitors.GET("", h.Visitor.ListVisitors)
			visitors.GET("/:id", h.Visitor.GetVisitor)
			visitors.PUT("/:id/check-in", limited, h.Visitor.CheckIn)
			visitors.PUT("/:id/check-out", limited, h.Visitor.CheckOut)
		}

		// 资产
		assets := v1.Group("/assets", admin)
		{
			assets.POST("", limited, h.Asset.AddAsset)
			assets.GET("", h.Asset.ListAssets)
			assets.GET("/available", h.Asset.ListAvailableAssets)
			assets.GET("/:id", h.Asset.GetAsset)
			assets.POST("/:id/assign", limited, h.Asset.AssignAsset)
			assets.PUT("/:id/status", limited, h.Asset.SetAssetStatus)
			assets.GET("/:id/assignments", h.Asset.ListAssignments)
		}
		v1.PUT("/assignments/:id/return", admin, limited, h.Asset.ReturnAsset)

		// 员工
		employees := v1.Group("/employees", admin)
		{
			employees.POST("", limited, h.Employee.AddEmployee)
			employees.GET("", h.Employee.ListEmployees)
			employees.GET("/:id", h.Employee.GetEmployee)
			employees.GET("/:id/assets", h.Employee.ListEmployeeAssets)
		}

		// 消息
		communications := v1.Group("/communications")
		{
			communications.POST("", limited, h.Communication.SendCommunication)
			communications.GET("/inbox", h.Communication.Inbox)
			communications.GET("/sent", h.Communication.Sent)
			communications.GET("/unread-count", h.Communication.UnreadCount)
			communications.PUT("/:id/read", h.Communication.MarkRead)
		}

		// 报表
		reports := v1.Group("/reports")
		{
			reports.GET("/gatepasses.xlsx", admin, h.Report.ExportGatepasses)
			reports.GET("/exits.ics", officers, h.Report.ExitCalendar)
		}

		// 实时推送（SSE）
		v1.GET("/stream/:table", h.Stream.Stream)
	}

	return r
}
