// controllers/srv.go
package controllers

import (
	"net/http"
	"strings"
	"time"

	"Gin_postgres_redis_asset_tool/app"
	"Gin_postgres_redis_asset_tool/lifecycle"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Srv struct {
	Loans       *lifecycle.LoanService
	Damage      *lifecycle.DamageService
	Maintenance *lifecycle.MaintenanceService
	Log         *zap.Logger
}

func GetSrv(a *app.App) *Srv {
	log := a.Log
	if log == nil {
		log = zap.NewNop()
	}
	deps := lifecycle.Deps{
		Store:  a.Store,
		Locker: a.Locker,
		Logger: log,
		Retry:  a.RetryOptions(),
	}
	return &Srv{
		Loans:       lifecycle.NewLoanService(deps),
		Damage:      lifecycle.NewDamageService(deps),
		Maintenance: lifecycle.NewMaintenanceService(deps),
		Log:         log.Named("handlers"),
	}
}

// --- helpers ---

func statusFor(k lifecycle.Kind) int {
	switch k {
	case lifecycle.KindNotFound:
		return http.StatusNotFound
	case lifecycle.KindValidation:
		return http.StatusBadRequest
	case lifecycle.KindConflict, lifecycle.KindInvalidState:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// fail 统一错误输出：业务错误带 code，其他一律 500
func (s *Srv) fail(c *gin.Context, err error) {
	if e, ok := lifecycle.AsError(err); ok {
		c.JSON(statusFor(e.Kind), app.H{"error": e.Msg, "code": e.Code})
		return
	}
	s.Log.Error("unexpected error",
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.Error(err))
	c.JSON(http.StatusInternalServerError, app.H{"error": "internal error", "code": "internal"})
}

func badRequest(c *gin.Context, code, msg string) {
	c.JSON(http.StatusBadRequest, app.H{"error": msg, "code": code})
}

func actingUser(c *gin.Context) (string, bool) {
	uid, ok := app.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, app.H{"error": "unauthorized"})
	}
	return uid, ok
}

// parseTime accepts RFC 3339 or a bare date (midnight UTC).
func parseTime(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	return time.Parse(time.DateOnly, v)
}
