package router

import "github.com/gin-gonic/gin"

// Module is a feature unit (accounts, recovery, debug) that attaches its
// routes and per-route rate limits to the shared /api group.
type Module interface {
	Register(rg *gin.RouterGroup)
}
