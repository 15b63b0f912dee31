package controllers

import (
	"net/http"
	"time"

	"Gin_postgres_redis_asset_tool/app"
	"Gin_postgres_redis_asset_tool/lifecycle"
	"Gin_postgres_redis_asset_tool/models"

	"github.com/gin-gonic/gin"
)

type LoanRequestController struct{ *Srv }

func NewLoanRequestController(s *Srv) *LoanRequestController {
	return &LoanRequestController{Srv: s}
}

// 提交借用申请；不传 userId 时默认当前登录用户
func (lc *LoanRequestController) Create(c *gin.Context) {
	uid, ok := actingUser(c)
	if !ok {
		return
	}
	var in struct {
		AssetID    string    `json:"assetId" binding:"required"`
		UserID     string    `json:"userId"`
		Purpose    string    `json:"purpose" binding:"required"`
		BorrowDate time.Time `json:"borrowDate"`
		ReturnDate time.Time `json:"returnDate"`
		Notes      *string   `json:"notes"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid_body", err.Error())
		return
	}
	if in.UserID == "" {
		in.UserID = uid
	}

	lr, err := lc.Loans.CreateLoanRequest(c.Request.Context(), lifecycle.NewLoanRequest{
		AssetID:    in.AssetID,
		UserID:     in.UserID,
		Purpose:    in.Purpose,
		BorrowDate: in.BorrowDate,
		ReturnDate: in.ReturnDate,
		Notes:      in.Notes,
	})
	if err != nil {
		lc.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, lr)
}

// 审批 / 拒绝 / 交接 / 归还，都走这一个入口
func (lc *LoanRequestController) Update(c *gin.Context) {
	uid, ok := actingUser(c)
	if !ok {
		return
	}
	var patch lifecycle.LoanPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, "invalid_body", err.Error())
		return
	}
	lr, err := lc.Loans.UpdateLoanRequest(c.Request.Context(), c.Param("id"), patch, uid)
	if err != nil {
		lc.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, lr)
}

func (lc *LoanRequestController) Get(c *gin.Context) {
	lr, err := lc.Loans.GetLoanRequest(c.Request.Context(), c.Param("id"))
	if err != nil {
		lc.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, lr)
}

// 列表：?userId=&assetId=&status=
func (lc *LoanRequestController) List(c *gin.Context) {
	f := lifecycle.LoanFilter{
		UserID:  c.Query("userId"),
		AssetID: c.Query("assetId"),
	}
	if v := c.Query("status"); v != "" {
		st, err := models.ParseLoanStatus(v)
		if err != nil {
			lc.fail(c, lifecycle.ErrInvalidStatus)
			return
		}
		f.Statuses = []models.LoanStatus{st}
	}
	ls, err := lc.Loans.ListLoanRequests(c.Request.Context(), f)
	if err != nil {
		lc.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"items": ls})
}

func (lc *LoanRequestController) UserHistory(c *gin.Context) {
	h, err := lc.Loans.GetUserLoanHistory(c.Request.Context(), c.Param("id"))
	if err != nil {
		lc.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, h)
}
