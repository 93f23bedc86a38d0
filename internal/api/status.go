package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"eksfiller/internal/model"
)

const appVersion = "1.0.0"

type statusResponse struct {
	Version         string              `json:"version"`
	FileLoaded      bool                `json:"fileLoaded"`
	FileName        string              `json:"fileName,omitempty"`
	AvailableMonths []model.Month       `json:"availableMonths"`
	Customer        *model.CustomerInfo `json:"customer,omitempty"`
	RuleCount       int                 `json:"ruleCount"`
	AdvisorEnabled  bool                `json:"advisorEnabled"`
}

// GetStatus Systemstatus: geladene Datei, Monate, Regelanzahl
// GET /api/status
func (h *Handler) GetStatus(c *gin.Context) {
	h.mu.Lock()
	defer h.mu.Unlock()

	resp := statusResponse{
		Version:        appVersion,
		FileLoaded:     h.table != nil,
		FileName:       h.fileName,
		RuleCount:      h.rules.Len(),
		AdvisorEnabled: h.advisor != nil,
	}
	if h.table != nil {
		resp.AvailableMonths = h.table.AvailableMonths
		resp.Customer = h.table.Customer
	}

	c.JSON(http.StatusOK, resp)
}

// ListMonths verfügbare Monate der geladenen BWA
// GET /api/months
func (h *Handler) ListMonths(c *gin.Context) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.table == nil {
		c.JSON(http.StatusOK, gin.H{"availableMonths": []model.Month{}})
		return
	}
	c.JSON(http.StatusOK, gin.H{"availableMonths": h.table.AvailableMonths})
}
