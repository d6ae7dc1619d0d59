// README: Valuation handlers for the basic and extended scoring variants.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"valora/internal/modules/scoring"
)

type ValuationHandler struct {
	scoring *scoring.Service
}

func NewValuationHandler(svc *scoring.Service) *ValuationHandler {
	return &ValuationHandler{scoring: svc}
}

// Basic scores units by distance, wait and slack.
func (h *ValuationHandler) Basic(c *gin.Context) {
	var req scoring.BasicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}
	job, units := req.Input()
	results, err := h.scoring.Evaluate(c.Request.Context(), scoring.VariantBasic, job, units)
	if err != nil {
		writeScoringError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, scoring.NewBasicValuations(results))
}

// Extended adds org unit compatibility and the event bonus, and reports distance in meters.
func (h *ValuationHandler) Extended(c *gin.Context) {
	var req scoring.ExtendedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}
	job, units := req.Input()
	results, err := h.scoring.Evaluate(c.Request.Context(), scoring.VariantExtended, job, units)
	if err != nil {
		writeScoringError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, scoring.NewExtendedValuations(results))
}
