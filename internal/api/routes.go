package api

import (
	"net/http"

	"github.com/mehrbod2002/horizon/internal/config"
	"github.com/mehrbod2002/horizon/internal/middleware"
	"github.com/mehrbod2002/horizon/internal/models"
	"github.com/mehrbod2002/horizon/internal/service"
	"github.com/mehrbod2002/horizon/internal/ws"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func SetupRoutes(r *gin.Engine, cfg *config.Config, admin *models.AdminAccount, authService service.AuthService, userService service.UserService, bankingService service.BankingService, logService service.LogService, wsHandler *ws.WebSocketHandler, log *logrus.Logger) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	userHandler := NewUserHandler(authService, logService, cfg, log)
	bankingHandler := NewBankingHandler(bankingService, authService, log)
	logHandler := NewLogHandler(logService, log)
	adminHandler := NewAdminHandler(admin, cfg, userService, log)
	overviewHandler := NewOverviewHandler(userService, logService, log)

	userAuth := middleware.UserAuthMiddleware(cfg, authService)

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true, "status": "ok"})
	})

	v1 := r.Group("/api/v1")
	{
		v1.POST("/auth/register", userHandler.Register)
		v1.POST("/auth/login", userHandler.Login)
		v1.POST("/admin/login", adminHandler.AdminLogin)

		user := v1.Group("/").Use(userAuth)
		{
			user.POST("/auth/logout", userHandler.Logout)
			user.GET("/me", userHandler.GetMe)
			user.PUT("/me", userHandler.UpdateMe)
			user.POST("/accounts/link", bankingHandler.LinkBankAccount)
			user.GET("/accounts/:id/balance", bankingHandler.GetAccountBalance)
			user.POST("/funding-sources", bankingHandler.CreateFundingSource)
			user.POST("/transfers", bankingHandler.TransferFunds)
			user.GET("/transactions", bankingHandler.GetTransactions)
		}

		adminGroup := v1.Group("/admin").Use(middleware.AdminAuthMiddleware(cfg))
		{
			adminGroup.GET("/overview", overviewHandler.GetOverview)
			adminGroup.GET("/users", adminHandler.GetAllUsers)
			adminGroup.GET("/logs", logHandler.GetAllLogs)
			adminGroup.GET("/logs/user/:user_id", logHandler.GetLogsByUser)
		}
	}

	r.GET("/ws", userAuth, wsHandler.HandleConnection)
}
