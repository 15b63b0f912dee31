package controllers

import (
	"net/http"
	"strconv"

	"Gin_postgres_redis_asset_tool/app"
	"Gin_postgres_redis_asset_tool/lifecycle"
	"Gin_postgres_redis_asset_tool/models"

	"github.com/gin-gonic/gin"
)

type DamageReportController struct{ *Srv }

func NewDamageReportController(s *Srv) *DamageReportController {
	return &DamageReportController{Srv: s}
}

func (dc *DamageReportController) Create(c *gin.Context) {
	uid, ok := actingUser(c)
	if !ok {
		return
	}
	var in struct {
		AssetID       string          `json:"assetId" binding:"required"`
		LoanRequestID *string         `json:"loanRequestId"`
		Description   string          `json:"description" binding:"required"`
		Photos        []string        `json:"photos"`
		Severity      models.Severity `json:"severity" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid_body", err.Error())
		return
	}

	dr, err := dc.Damage.CreateDamageReport(c.Request.Context(), lifecycle.NewDamageReport{
		AssetID:       in.AssetID,
		ReportedBy:    uid,
		LoanRequestID: in.LoanRequestID,
		Description:   in.Description,
		Photos:        in.Photos,
		Severity:      in.Severity,
	})
	if err != nil {
		dc.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, dr)
}

// 解决 / 重新打开 / 补充处理说明
func (dc *DamageReportController) Update(c *gin.Context) {
	uid, ok := actingUser(c)
	if !ok {
		return
	}
	var patch lifecycle.DamagePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, "invalid_body", err.Error())
		return
	}
	dr, err := dc.Damage.UpdateDamageReport(c.Request.Context(), c.Param("id"), patch, uid)
	if err != nil {
		dc.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dr)
}

// 列表：?assetId=&reportedBy=&severity=&isResolved=
func (dc *DamageReportController) List(c *gin.Context) {
	f := lifecycle.DamageFilter{
		AssetID:    c.Query("assetId"),
		ReportedBy: c.Query("reportedBy"),
	}
	if v := c.Query("severity"); v != "" {
		sev, err := models.ParseSeverity(v)
		if err != nil {
			dc.fail(c, lifecycle.ErrInvalidSeverity)
			return
		}
		f.Severity = &sev
	}
	if v := c.Query("isResolved"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			badRequest(c, "invalid_query", "isResolved must be a boolean")
			return
		}
		f.IsResolved = &b
	}
	ds, err := dc.Damage.ListDamageReports(c.Request.Context(), f)
	if err != nil {
		dc.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"items": ds})
}
