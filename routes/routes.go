package routes

import (
	"net/http"
	"strings"

	"Gin_postgres_redis_asset_tool/app"
	"Gin_postgres_redis_asset_tool/controllers"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, a *app.App) {
	// 控制器与依赖
	s := controllers.GetSrv(a)
	loanCtl := controllers.NewLoanRequestController(s)
	damageCtl := controllers.NewDamageReportController(s)
	maintCtl := controllers.NewMaintenanceRecordController(s)
	assetCtl := controllers.NewAssetController(s)

	authMW := app.AuthRequired(a.Sessions, a.Store)
	secureCookie := a.Config != nil && strings.HasPrefix(a.Config.Server.WebOrigin, "https://")

	r.GET("/healthz", func(c *app.Ctx) { c.JSON(http.StatusOK, app.H{"ok": true}) })

	// 登出：删 Redis 会话，Cookie 置空
	r.POST("/api/logout", authMW, func(c *app.Ctx) {
		if ck, err := c.Request.Cookie(app.AppSessionCookie); err == nil && ck.Value != "" {
			_ = a.Sessions.Delete(c.Request.Context(), ck.Value)
		}
		http.SetCookie(c.Writer, &http.Cookie{
			Name:     app.AppSessionCookie,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
			Secure:   secureCookie,
		})
		c.JSON(http.StatusOK, app.H{"ok": true})
	})

	api := r.Group("/api", authMW)

	// ------------------------------
	// 借用申请
	// ------------------------------
	loans := api.Group("/loan-requests")
	{
		loans.POST("", loanCtl.Create)
		loans.GET("", loanCtl.List) // ?userId=&assetId=&status=
		loans.GET("/:id", loanCtl.Get)
		loans.PATCH("/:id", loanCtl.Update)
	}
	api.GET("/users/:id/loan-history", loanCtl.UserHistory)

	// ------------------------------
	// 损坏报告
	// ------------------------------
	damage := api.Group("/damage-reports")
	{
		damage.POST("", damageCtl.Create)
		damage.GET("", damageCtl.List)
		damage.PATCH("/:id", damageCtl.Update)
	}

	// ------------------------------
	// 维护记录
	// ------------------------------
	maint := api.Group("/maintenance-records")
	{
		maint.POST("", maintCtl.Create)
		maint.GET("", maintCtl.List)
		maint.PATCH("/:id", maintCtl.Update)
	}

	assets := api.Group("/assets")
	{
		assets.GET("/:id", assetCtl.Get)
		assets.GET("/:id/availability", assetCtl.Availability)
	}
}
