package app

import (
	"context"
	"errors"
	"net/http"

	"Gin_postgres_redis_asset_tool/lifecycle"
	"Gin_postgres_redis_asset_tool/session"

	"github.com/gin-gonic/gin"
)

const AppSessionCookie = "app_session"

// CtxUserID is the gin context key holding the acting user's id.
const CtxUserID = "userID"

// SessionReader looks up sessions issued by the auth service.
type SessionReader interface {
	Get(ctx context.Context, id string) (*session.AppSession, error)
	Delete(ctx context.Context, id string) error
}

func AuthRequired(sessions SessionReader, store lifecycle.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		ck, err := c.Request.Cookie(AppSessionCookie)
		if err != nil || ck.Value == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "unauthorized"})
			return
		}
		as, err := sessions.Get(c.Request.Context(), ck.Value)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "invalid session"})
			return
		}

		// 确认用户仍存在；是否 active 交给业务规则判断
		err = store.View(c.Request.Context(), func(tx lifecycle.Tx) error {
			_, err := tx.FindUser(as.UserID)
			return err
		})
		if errors.Is(err, lifecycle.ErrNoRecord) {
			_ = sessions.Delete(c.Request.Context(), ck.Value)
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "unauthorized"})
			return
		}
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, H{"error": "session lookup failed"})
			return
		}
		c.Set(CtxUserID, as.UserID)
		c.Next()
	}
}

// UserID returns the acting user set by AuthRequired.
func UserID(c *gin.Context) (string, bool) {
	v, ok := c.Get(CtxUserID)
	if !ok {
		return "", false
	}
	uid, _ := v.(string)
	return uid, uid != ""
}
