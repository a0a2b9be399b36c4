package http

import (
	"takeout_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

// Module is implemented by each domain package that serves HTTP routes. The
// router mounts every module listed in App.Modules and knows nothing about
// the endpoints behind them.
type Module interface {
	// Name identifies the module in registration logs.
	Name() string
	// RegisterRoutes mounts the module's endpoints on the shared groups.
	RegisterRoutes(ctx *RouterContext)
}

// RouterContext is what RegisterRoutes gets to mount against.
type RouterContext struct {
	// Engine is the root engine, for modules needing engine-level access.
	Engine *gin.Engine
	// V1 is the /api/v1 group all routes hang off.
	V1 *gin.RouterGroup
	// IntakeLimiter guards the public intake endpoint per client IP.
	IntakeLimiter *httpkit.IPRateLimiter
}
