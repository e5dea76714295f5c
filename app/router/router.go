package router

import (
	"agentconsole/app/handler"
	"agentconsole/app/middleware"

	"github.com/gin-gonic/gin"
)

// Router Router
type Router struct {
	agentFormHandler *handler.AgentFormHandler
	apiKey           string
}

// NewRouter creates a new Router. An empty apiKey disables authentication.
func NewRouter(agentFormHandler *handler.AgentFormHandler, apiKey string) *Router {
	return &Router{
		agentFormHandler: agentFormHandler,
		apiKey:           apiKey,
	}
}

// Setup sets up routes
func (r *Router) Setup(engine *gin.Engine) {
	engine.Use(middleware.RequestID())
	engine.Use(middleware.Recovery())
	engine.Use(middleware.Logger())

	api := engine.Group("/api/v1")
	api.Use(middleware.AuthMiddleware(r.apiKey))
	{
		// Agent create/edit form pages
		form := api.Group("/operator/agent/form")
		{
			form.POST("/pages", r.agentFormHandler.CreatePage)                             // Mount page (?action=create|edit&id=)
			form.GET("/pages/:page_id", r.agentFormHandler.GetPage)                        // Form view
			form.PATCH("/pages/:page_id", r.agentFormHandler.UpdateFields)                 // Field changes
			form.PUT("/pages/:page_id/config-file", r.agentFormHandler.UploadConfigFile)   // Select config file
			form.DELETE("/pages/:page_id/config-file", r.agentFormHandler.RemoveConfigFile) // Remove config file
			form.POST("/pages/:page_id/submit", r.agentFormHandler.Submit)                 // Submit
			form.POST("/pages/:page_id/cancel", r.agentFormHandler.Cancel)                 // Cancel
		}
	}

	// Health check
	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
}
