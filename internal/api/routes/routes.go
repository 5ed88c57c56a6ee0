package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Natenyt/AI-Powered-Government-System/internal/api/handlers"
	"github.com/Natenyt/AI-Powered-Government-System/internal/api/middleware"
)

type Deps struct {
	Routing *handlers.RoutingHandler
	WS      *handlers.WSHandler

	APIKeyHash string
	JWTSecret  string
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Intake callers (API key)
	ai := r.Group("/ai")
	ai.Use(middleware.APIKey(d.APIKeyHash))

	ai.POST("/precheck", d.Routing.Precheck)
	ai.POST("/messages/:message_id/process", d.Routing.Process)
	ai.POST("/messages/:message_id/enqueue", d.Routing.Enqueue)
	ai.GET("/messages/:message_id/results", d.Routing.Results)

	// Department dashboards (JWT)
	if d.WS != nil {
		staff := r.Group("/ws")
		staff.Use(middleware.JWTAuth(d.JWTSecret), middleware.RequireStaff())
		staff.GET("/department/:department_id", middleware.RequireDepartmentScope("department_id"), d.WS.DepartmentFeed)
	}
}
