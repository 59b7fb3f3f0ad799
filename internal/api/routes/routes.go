// server/internal/api/routes/routes.go
package routes

import (
	"net/http"
	"time"

	"inbound-wms-api-server/config"
	"inbound-wms-api-server/internal/api/handlers"
	"inbound-wms-api-server/internal/api/middleware"
	"inbound-wms-api-server/internal/auth"
	"inbound-wms-api-server/internal/i18n"
	"inbound-wms-api-server/internal/repository"
	"inbound-wms-api-server/internal/socket"
	"inbound-wms-api-server/internal/ui"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Dependencies là các thành phần đã khởi tạo trong main và được truyền vào router.
type Dependencies struct {
	Config   config.Config
	Logger   *zap.Logger
	Service  *handlers.InboundService
	Users    repository.UserRepository
	Tokens   *auth.TokenManager
	Hub      *socket.Hub
	Uploader handlers.AttachmentUploader
	Bundle   *i18n.Bundle
}

// SetupRouter nhận vào các thành phần phụ thuộc và thiết lập các route
func SetupRouter(deps Dependencies) *gin.Engine {
	router := gin.New()
	router.HandleMethodNotAllowed = true

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = deps.Config.CORS.AllowOrigins
	if len(corsConfig.AllowOrigins) == 0 {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	corsConfig.MaxAge = 12 * time.Hour

	localeRouter := middleware.NewLocaleRouter(deps.Config.Locale.Supported, deps.Config.Locale.Default, deps.Config.Locale.CookieName)

	// Đăng ký ở mức engine để middleware chạy cả với route không khớp (404/405).
	router.Use(
		middleware.RequestLogger(deps.Logger),
		middleware.Recovery(deps.Logger),
		cors.New(corsConfig),
		localeRouter.Middleware(),
	)

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "route not found"})
	})
	router.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"success": false, "error": "method not allowed"})
	})

	router.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	router.StaticFS(middleware.StaticPrefix, ui.StaticFiles())

	// Khởi tạo các handlers
	inboundHandler := &handlers.InboundHandler{Service: deps.Service}
	statusHandler := &handlers.InboundStatusHandler{Service: deps.Service, Uploader: deps.Uploader}
	userHandler := &handlers.UserHandler{Users: deps.Users, Tokens: deps.Tokens}
	webSocketHandler := &handlers.WebSocketHandler{Hub: deps.Hub, Tokens: deps.Tokens, Logger: deps.Logger}
	uiHandler := &handlers.UIHandler{
		Service:    deps.Service,
		Bundle:     deps.Bundle,
		CookieName: localeRouter.CookieName,
		Locales:    localeRouter.Supported,
	}

	api := router.Group(middleware.APIPrefix)
	{
		api.GET("/ws", webSocketHandler.ServeWs)

		authRoutes := api.Group("/auth")
		{
			authRoutes.POST("/login", userHandler.Login)
			authRoutes.GET("/me", middleware.Authenticate(deps.Tokens), userHandler.Me)
		}

		// Các endpoint yêu cầu nhập hàng không yêu cầu xác thực.
		api.GET("/inbound-requests", inboundHandler.GetAllInboundRequests)
		api.POST("/inbound-requests", inboundHandler.CreateInboundRequest)

		status := api.Group("/inbound-status/:id")
		{
			status.GET("", statusHandler.GetInboundStatus)
			status.PATCH("", statusHandler.UpdateInboundStatus)
			status.DELETE("", statusHandler.DeleteInboundRequest)
			status.GET("/history", statusHandler.GetStatusHistory)
			status.POST("/attachments",
				middleware.Authenticate(deps.Tokens),
				middleware.Authorize(auth.RoleSuperAdmin, auth.RoleAdmin, auth.RoleWorker),
				statusHandler.UploadAttachment)
		}
	}

	// Giao diện quản trị; locale đã được middleware kiểm tra và gắn vào context.
	pages := router.Group("/:locale", localeRouter.RequireLocale())
	{
		pages.GET("", uiHandler.Home)
		pages.GET("/inbound", uiHandler.ListInbound)
		pages.POST("/inbound", uiHandler.CreateInbound)
		pages.POST("/inbound/:id/status", uiHandler.ChangeStatus)
		pages.POST("/inbound/:id/delete", uiHandler.DeleteInbound)
		pages.GET("/activity", uiHandler.Activity)
		pages.GET("/lang/:code", uiHandler.SwitchLanguage)
	}

	return router
}
