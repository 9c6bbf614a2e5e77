package http

import (
	"tasktracker/internal/adapter/http/handlers"
	"tasktracker/internal/adapter/http/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, healthHandler *handlers.HealthHandler, taskHandler *handlers.TaskHandler, serveWS gin.HandlerFunc) {
	api := r.Group("/")
	api.Use(middleware.LanguageMiddleware())
	{
		api.GET("/health", healthHandler.CheckHealth)
		api.GET("/health/report", healthHandler.CheckHealthReport)
		api.GET("/tasks", taskHandler.ListTasks)
		api.POST("/tasks", taskHandler.CreateTask)
		api.GET("/tasks/:id", taskHandler.GetTask)
		api.PUT("/tasks/:id", taskHandler.UpdateTaskStatus)
		api.DELETE("/tasks/:id", taskHandler.DeleteTask)
	}

	if serveWS != nil {
		r.GET("/ws", serveWS)
	}
}
