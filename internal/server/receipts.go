package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/reciptera/reciptera/internal/common"
	"github.com/reciptera/reciptera/internal/currency"
	"github.com/reciptera/reciptera/internal/entity"
	"github.com/reciptera/reciptera/internal/repository"
)

type createReceiptRequest struct {
	MerchantName string   `json:"merchant_name"`
	Amount       float64  `json:"amount"`
	ReceiptDate  string   `json:"receipt_date"`
	Tax          *float64 `json:"tax,omitempty"`
	IsBusiness   bool     `json:"is_business"`
	Notes        string   `json:"notes"`
	FilePath     string   `json:"file_path,omitempty"`
}

func (s *Server) handleCreateReceipt(c *gin.Context) {
	pid, err := profileID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	var req createReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, common.InvalidInputError("invalid JSON body"))
		return
	}

	v := common.NewValidator().
		Field("merchant_name", req.MerchantName, common.Required, common.MaxLength(200)).
		Field("receipt_date", req.ReceiptDate, common.Required, common.ISODate)
	if err := v.Err(); err != nil {
		respondError(c, err)
		return
	}
	if req.Amount <= 0 {
		respondError(c, common.InvalidInputError("amount must be positive"))
		return
	}

	date, err := time.Parse("2006-01-02", req.ReceiptDate)
	if err != nil {
		respondError(c, common.InvalidInputError("receipt_date must be a real date"))
		return
	}

	rec, err := s.receipts.Create(c.Request.Context(), &entity.Receipt{
		ProfileID:    pid,
		MerchantName: req.MerchantName,
		Amount:       req.Amount,
		ReceiptDate:  date,
		Tax:          req.Tax,
		IsBusiness:   req.IsBusiness,
		Notes:        req.Notes,
		FilePath:     req.FilePath,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rec)
}

func (s *Server) handleListReceipts(c *gin.Context) {
	pid, err := profileID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	recs, err := s.receipts.ListByProfile(c.Request.Context(), pid, filterFromQuery(c))
	if err != nil {
		respondError(c, err)
		return
	}
	if recs == nil {
		recs = []*entity.Receipt{}
	}
	c.JSON(http.StatusOK, gin.H{"receipts": recs})
}

func (s *Server) handleGetReceipt(c *gin.Context) {
	pid, err := profileID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, common.InvalidInputError("receipt id must be a UUID"))
		return
	}

	rec, err := s.receipts.GetByID(c.Request.Context(), pid, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

type statsResponse struct {
	*repository.Stats
	TotalDisplay string `json:"total_display,omitempty"`
}

func (s *Server) handleReceiptStats(c *gin.Context) {
	pid, err := profileID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	stats, err := s.receipts.Stats(c.Request.Context(), pid)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := statsResponse{Stats: stats}
	if currency.Supported(s.currency) {
		if disp, err := currency.Format(stats.TotalAmount, s.currency); err == nil {
			resp.TotalDisplay = disp
		}
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleDeleteReceipt(c *gin.Context) {
	pid, err := profileID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, common.InvalidInputError("receipt id must be a UUID"))
		return
	}

	if err := s.receipts.Delete(c.Request.Context(), pid, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func filterFromQuery(c *gin.Context) repository.ReceiptFilter {
	var f repository.ReceiptFilter
	if y, err := strconv.Atoi(c.Query("year")); err == nil {
		f.Year = y
	}
	if m, err := strconv.Atoi(c.Query("month")); err == nil {
		f.Month = m
	}
	f.Search = c.Query("q")
	return f
}
