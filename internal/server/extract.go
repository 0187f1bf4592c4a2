package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/reciptera/reciptera/internal/common"
	"github.com/reciptera/reciptera/internal/extraction"
)

// Keep a bounded number of extraction cycles addressable for edit telemetry;
// the oldest is forgotten once the cap is reached.
const maxTrackedCycles = 4096

type extractRequest struct {
	RawText string `json:"raw_text"`
}

type extractResponse struct {
	CycleID  uuid.UUID        `json:"cycle_id"`
	Merchant extraction.Field `json:"merchant"`
	Amount   extraction.Field `json:"amount"`
	Date     extraction.Field `json:"date"`
	Tax      extraction.Field `json:"tax"`
}

func (s *Server) handleExtract(c *gin.Context) {
	var req extractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, common.InvalidInputError("invalid JSON body"))
		return
	}

	res := s.engine.Extract(req.RawText)
	cycle := s.editLog.NewCycle(res)
	s.trackCycle(cycle)

	c.JSON(http.StatusOK, extractResponse{
		CycleID:  cycle.ID(),
		Merchant: res.Merchant,
		Amount:   res.Amount,
		Date:     res.Date,
		Tax:      res.Tax,
	})
}

type recordEditRequest struct {
	CycleID string `json:"cycle_id"`
	Field   string `json:"field"`
	Final   string `json:"final"`
}

func (s *Server) handleRecordEdit(c *gin.Context) {
	var req recordEditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, common.InvalidInputError("invalid JSON body"))
		return
	}

	v := common.NewValidator().
		Field("cycle_id", req.CycleID, common.Required, common.UUID).
		Field("field", req.Field, common.Required)
	if err := v.Err(); err != nil {
		respondError(c, err)
		return
	}

	field := extraction.FieldKind(req.Field)
	switch field {
	case extraction.FieldMerchant, extraction.FieldAmount, extraction.FieldDate, extraction.FieldTax:
	default:
		respondError(c, common.InvalidInputErrorf("unknown field %q", req.Field))
		return
	}

	cycleID, _ := uuid.Parse(req.CycleID)
	cycle := s.lookupCycle(cycleID)
	if cycle == nil {
		respondError(c, common.NotFoundError("unknown extraction cycle"))
		return
	}

	cycle.RecordEdit(field, req.Final)
	c.JSON(http.StatusAccepted, gin.H{"status": "recorded"})
}

func (s *Server) trackCycle(cycle *extraction.Cycle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.cycleOrder) >= maxTrackedCycles {
		oldest := s.cycleOrder[0]
		s.cycleOrder = s.cycleOrder[1:]
		delete(s.cycles, oldest)
	}
	s.cycleOrder = append(s.cycleOrder, cycle.ID())
	s.cycles[cycle.ID()] = cycle
}

func (s *Server) lookupCycle(id uuid.UUID) *extraction.Cycle {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cycles[id]
}
