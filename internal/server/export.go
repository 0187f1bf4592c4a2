package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) handleExportCSV(c *gin.Context) {
	pid, err := profileID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	out, err := s.exporter.ReceiptsCSV(c.Request.Context(), pid, filterFromQuery(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="receipts.csv"`)
	c.Data(http.StatusOK, "text/csv", out)
}

func (s *Server) handleExportXLSX(c *gin.Context) {
	pid, err := profileID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	out, err := s.exporter.ReceiptsXLSX(c.Request.Context(), pid, filterFromQuery(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="receipts.xlsx"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", out)
}
