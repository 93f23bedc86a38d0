package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"eksfiller/internal/mapping"
	"eksfiller/internal/model"
)

type extractRequest struct {
	StartMonth string `json:"startMonth"`
	EndMonth   string `json:"endMonth"`
	Quick      string `json:"quick"` // Q1..Q4, H1, H2, FULL; hat Vorrang
}

type extractResponse struct {
	Months            []model.Month                `json:"months"`
	Results           map[string]model.FieldResult `json:"results"`
	AverageConfidence float64                      `json:"averageConfidence"`
}

// Extract wendet das aktive Regelwerk auf die geladene Tabelle an.
// Nicht auflösbare Zeitraumangaben fallen still auf die ersten sechs
// verfügbaren Monate zurück; fehlende Treffer sind Null-Serien, keine
// Fehler.
// POST /api/extract
func (h *Handler) Extract(c *gin.Context) {
	var req extractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ungültiges Anfrageformat"})
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.table == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "keine BWA geladen"})
		return
	}

	months := h.resolveMonthsLocked(req)
	engine := mapping.NewEngine(h.rules)
	results := engine.Extract(h.table, months)

	c.JSON(http.StatusOK, extractResponse{
		Months:            months,
		Results:           results,
		AverageConfidence: mapping.AverageConfidence(results),
	})
}

// resolveMonthsLocked löst Schnellauswahl oder Monatspaar in die aktive
// Monatsfolge auf. Kennungen werden normalisiert, "jan" zählt wie "JAN";
// h.mu muss gehalten werden
func (h *Handler) resolveMonthsLocked(req extractRequest) []model.Month {
	start, _ := model.ParseMonth(req.StartMonth)
	end, _ := model.ParseMonth(req.EndMonth)
	if s, e, ok := mapping.ResolveQuick(req.Quick); ok {
		start, end = s, e
	}
	return mapping.ResolvePeriod(start, end, h.table.AvailableMonths)
}
