package handlers

import (
	portssvc "github.com/GokhanYmn/NakitAkisGrafana/internal/core/ports/services"
	"github.com/GokhanYmn/NakitAkisGrafana/internal/platform/config"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes sets up all application routes, injecting dependencies
// using interfaces.
func RegisterRoutes(r *gin.Engine, cfg *config.Config, services *portssvc.ServiceContainer) {
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	api := r.Group("/api")
	registerTlrefRoutes(api, services.Reconciler, services.Ledger)
	registerGrafanaRoutes(api, services.Series)
}
