package http

import (
	"github.com/gin-gonic/gin"
	"github.com/legolas182/NatureGlow/internal/adapter/http/middleware"
	"github.com/legolas182/NatureGlow/internal/logging"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Handlers struct {
	Orders     *OrderHandler
	Products   *ProductHandler
	Categories *CategoryHandler
	Users      *UserHandler
}

func NewRouter(h Handlers, auth *middleware.Auth) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.Metrics())
	r.Use(middleware.Logging(logging.New("http")))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")

	users := api.Group("/users")
	{
		users.POST("/register", h.Users.Register)
		users.POST("/login", h.Users.Login)
		users.GET("/profile", auth.Authenticate(), h.Users.Profile)
		users.PUT("/profile", auth.Authenticate(), h.Users.UpdateProfile)

		admin := users.Group("", auth.Authenticate(), auth.RequireAdmin())
		{
			admin.GET("", h.Users.List)
			admin.GET("/:id", h.Users.GetByID)
			admin.POST("", h.Users.Create)
			admin.PUT("/:id", h.Users.Update)
			admin.DELETE("/:id", h.Users.Delete)
		}
	}

	categories := api.Group("/categories")
	{
		categories.GET("", h.Categories.List)
		categories.GET("/:id", h.Categories.GetByID)

		admin := categories.Group("", auth.Authenticate(), auth.RequireAdmin())
		{
			admin.POST("", h.Categories.Create)
			admin.PUT("/:id", h.Categories.Update)
			admin.DELETE("/:id", h.Categories.Delete)
			admin.PATCH("/:id/toggle-status", h.Categories.ToggleStatus)
		}
	}

	products := api.Group("/products")
	{
		products.GET("", auth.Optional(), h.Products.List)
		products.GET("/:id", h.Products.GetByID)

		admin := products.Group("", auth.Authenticate(), auth.RequireAdmin())
		{
			admin.POST("", h.Products.Create)
			admin.PUT("/:id", h.Products.Update)
			admin.DELETE("/:id", h.Products.Delete)
			admin.PATCH("/:id/stock", h.Products.AdjustStock)
			admin.PATCH("/:id/toggle-status", h.Products.ToggleStatus)
		}
	}

	orders := api.Group("/orders", auth.Authenticate())
	{
		orders.POST("", h.Orders.Create)
		orders.GET("", h.Orders.List)
		orders.GET("/:id", h.Orders.GetByID)
		orders.POST("/:id/cancel", h.Orders.Cancel)
		orders.PUT("/:id/status", auth.RequireAdmin(), h.Orders.UpdateStatus)
		orders.DELETE("/:id", auth.RequireAdmin(), h.Orders.Delete)
	}

	return r
}
