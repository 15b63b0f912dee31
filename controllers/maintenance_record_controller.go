package controllers

import (
	"net/http"
	"time"

	"Gin_postgres_redis_asset_tool/app"
	"Gin_postgres_redis_asset_tool/lifecycle"
	"Gin_postgres_redis_asset_tool/models"

	"github.com/gin-gonic/gin"
)

type MaintenanceRecordController struct{ *Srv }

func NewMaintenanceRecordController(s *Srv) *MaintenanceRecordController {
	return &MaintenanceRecordController{Srv: s}
}

func (mc *MaintenanceRecordController) Create(c *gin.Context) {
	uid, ok := actingUser(c)
	if !ok {
		return
	}
	var in struct {
		AssetID         string                 `json:"assetId" binding:"required"`
		MaintenanceType models.MaintenanceType `json:"maintenanceType" binding:"required"`
		Description     string                 `json:"description" binding:"required"`
		ScheduledDate   time.Time              `json:"scheduledDate"`
		Cost            *float64               `json:"cost"`
		PerformedBy     *string                `json:"performedBy"`
		Notes           *string                `json:"notes"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid_body", err.Error())
		return
	}

	mr, err := mc.Maintenance.CreateMaintenanceRecord(c.Request.Context(), lifecycle.NewMaintenanceRecord{
		AssetID:         in.AssetID,
		MaintenanceType: in.MaintenanceType,
		Description:     in.Description,
		ScheduledDate:   in.ScheduledDate,
		Cost:            in.Cost,
		PerformedBy:     in.PerformedBy,
		Notes:           in.Notes,
		CreatedBy:       uid,
	})
	if err != nil {
		mc.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, mr)
}

func (mc *MaintenanceRecordController) Update(c *gin.Context) {
	if _, ok := actingUser(c); !ok {
		return
	}
	var patch lifecycle.MaintenancePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, "invalid_body", err.Error())
		return
	}
	mr, err := mc.Maintenance.UpdateMaintenanceRecord(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		mc.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, mr)
}

// 列表：?assetId=&status=
func (mc *MaintenanceRecordController) List(c *gin.Context) {
	f := lifecycle.MaintenanceFilter{AssetID: c.Query("assetId")}
	if v := c.Query("status"); v != "" {
		st, err := models.ParseMaintenanceStatus(v)
		if err != nil {
			mc.fail(c, lifecycle.ErrInvalidStatus)
			return
		}
		f.Status = &st
	}
	ms, err := mc.Maintenance.ListMaintenanceRecords(c.Request.Context(), f)
	if err != nil {
		mc.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"items": ms})
}
