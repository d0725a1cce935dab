package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Hammad55553/account-service/internal/container"
	handlers "github.com/Hammad55553/account-service/internal/interface/http"
	"github.com/Hammad55553/account-service/internal/interface/middleware"
)

// RecoveryModule registers the password recovery routes. Both endpoints are
// public; the request endpoint gets the tightest limit since it sends email.
type RecoveryModule struct {
	Handler *handlers.RecoveryHandler
}

func NewRecoveryModule(h *handlers.RecoveryHandler) *RecoveryModule {
	return &RecoveryModule{Handler: h}
}

func (m *RecoveryModule) Register(rg *gin.RouterGroup) {
	requestLimiter := middleware.RateLimit(container.GetRedis(), 5, time.Minute, middleware.KeyByIPAndPath(), nil)
	confirmLimiter := middleware.RateLimit(container.GetRedis(), 30, time.Minute, middleware.KeyByIPAndPath(), nil)

	rg.POST("/recovery/request", requestLimiter, m.Handler.Request)
	rg.POST("/recovery/confirm", confirmLimiter, m.Handler.Confirm)
}
