package app

import (
	"github.com/maharshi-myriadsolutionz/kanlad/internal/config"
	"github.com/maharshi-myriadsolutionz/kanlad/internal/handlers"
	"github.com/maharshi-myriadsolutionz/kanlad/internal/service"
	"github.com/maharshi-myriadsolutionz/kanlad/internal/web"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/swaggo/swag"

	_ "github.com/maharshi-myriadsolutionz/kanlad/docs"
)

// Setup registers all routes on the given engine.
func Setup(r *gin.Engine, cfg config.Config, svc *service.BoardService) {
	web.Register(r)

	r.GET("/about", aboutHandler(cfg))
	r.GET("/health", healthHandler(cfg))
	r.GET("/version", versionHandler(cfg))
	r.GET("/swagger-doc.json", swaggerDocHandler())
	r.GET("/swagger", func(c *gin.Context) { c.Redirect(302, "/swagger/index.html") })
	r.GET("/swagger/*any", ginSwagger.WrapHandler(
		swaggerFiles.Handler,
		ginSwagger.URL("/swagger-doc.json"),
		ginSwagger.DefaultModelsExpandDepth(-1),
	))

	boardHandler := handlers.NewBoardHandler(svc)
	registerBoardRoutes(r, boardHandler)
}

func aboutHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{
			"service": "kanlad board API",
			"version": cfg.App.Version,
			"env":     cfg.App.Env,
			"store":   cfg.DB.Driver,
			"cache":   cfg.Redis.Enabled(),
			"docs":    "/swagger/index.html",
			"spec":    "/swagger-doc.json",
			"health":  "/health",
		})
	}
}

func healthHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true, "env": cfg.App.Env})
	}
}

func versionHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{"version": cfg.App.Version})
	}
}

func swaggerDocHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		doc, err := swag.ReadDoc("swagger")
		if err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}
		c.Data(200, "application/json; charset=utf-8", []byte(doc))
	}
}

func registerBoardRoutes(r gin.IRouter, h *handlers.BoardHandler) {
	r.GET("/board", h.Board)
	r.POST("/columns", h.CreateColumn)
	r.DELETE("/columns/:id", h.DeleteColumn)
	r.DELETE("/columns/:id/tasks", h.DeleteColumnTasks)
	r.POST("/tasks", h.CreateTask)
	r.POST("/tasks/move", h.MoveTask)
	r.POST("/tasks/rename", h.RenameTask)
	r.POST("/tasks/description", h.SetTaskDescription)
	r.POST("/tasks/reorder", h.ReorderTasks)
}
