package routes

import (
	"github.com/AgusMolinaCode/CryptoMovers_Api.git/internal/middleware"
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(router *gin.Engine, hub *middleware.Hub) {
	router.GET("/health", middleware.Health)
	router.POST("/login", middleware.AdminLogin)

	router.GET("/movers", middleware.GetMovers)
	router.GET("/runs", middleware.GetRuns)
	router.GET("/workbook", middleware.DownloadWorkbook)
	router.GET("/workbook/:sheet", middleware.GetWorkbookSheet)
	router.GET("/ws", hub.ServeWS)

	// Rutas de admin
	admin := router.Group("/")
	admin.Use(middleware.AdminAuth())
	{
		admin.POST("/runs", middleware.TriggerRun)
	}
}
