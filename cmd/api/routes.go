package main

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// registerRoutes sets up all API endpoints
func (app *App) registerRoutes() {
	// Health check endpoint
	app.router.GET("/ping", app.handlePing)

	// Form session endpoints
	app.router.POST("/sessions", app.handleCreateSession)
	app.router.GET("/sessions/:id", app.handleGetSession)
	app.router.DELETE("/sessions/:id", app.handleDeleteSession)
	app.router.PATCH("/sessions/:id/fields", app.handleEditField)
	app.router.POST("/sessions/:id/categories/:category", app.handleToggleCategory)
	app.router.POST("/sessions/:id/images", app.handleAddImages)
	app.router.DELETE("/sessions/:id/images/:index", app.handleRemoveImage)
	app.router.POST("/sessions/:id/locate", app.handleLocate)
	app.router.POST("/sessions/:id/autofill", app.handleAutofill)
	app.router.POST("/sessions/:id/submit", app.handleSubmit)

	// Image previews
	app.router.GET("/previews/:id", app.handleGetPreview)

	// Persisted centers
	app.router.GET("/centers", app.handleListCenters)
	app.router.GET("/centers/:id", app.handleGetCenter)

	// Swagger documentation
	app.router.GET("/swagger/*any", func(c *gin.Context) {
		path := c.Param("any")
		if path == "/" {
			c.Redirect(301, "/swagger/index.html")
			return
		}
		ginSwagger.WrapHandler(swaggerFiles.Handler)(c)
	})
}
