package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/selectmedia/invoicing/internal/infrastructure/logger"
	"github.com/selectmedia/invoicing/internal/interfaces/http/middleware"
)

// RouteRegistrar is implemented by handlers that attach their routes to
// a router group
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// New builds the gin engine with the shared middleware chain and
// registers every handler at the root group
func New(log *zap.Logger, registrars ...RouteRegistrar) *gin.Engine {
	engine := gin.New()
	engine.Use(
		middleware.RequestID(),
		logger.GinMiddleware(log),
		logger.Recovery(log),
	)

	root := engine.Group("/")
	for _, r := range registrars {
		r.RegisterRoutes(root)
	}

	return engine
}
