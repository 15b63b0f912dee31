package controllers

import (
	"net/http"

	"Gin_postgres_redis_asset_tool/app"

	"github.com/gin-gonic/gin"
)

type AssetController struct{ *Srv }

func NewAssetController(s *Srv) *AssetController { return &AssetController{Srv: s} }

func (ac *AssetController) Get(c *gin.Context) {
	a, err := ac.Loans.GetAsset(c.Request.Context(), c.Param("id"))
	if err != nil {
		ac.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

// 汇总：该时间段是否可借 ?from=&to=&excludeId=
func (ac *AssetController) Availability(c *gin.Context) {
	from, err := parseTime(c.Query("from"))
	if err != nil {
		badRequest(c, "invalid_query", "from must be RFC 3339 or YYYY-MM-DD")
		return
	}
	to, err := parseTime(c.Query("to"))
	if err != nil {
		badRequest(c, "invalid_query", "to must be RFC 3339 or YYYY-MM-DD")
		return
	}
	if !from.Before(to) {
		badRequest(c, "invalid_date_range", "to must be after from")
		return
	}
	id := c.Param("id")
	busy, err := ac.Loans.HasConflict(c.Request.Context(), id, from, to, c.Query("excludeId"))
	if err != nil {
		ac.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"assetId": id, "from": from, "to": to, "available": !busy})
}
