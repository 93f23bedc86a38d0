package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"eksfiller/internal/advisor"
	"eksfiller/internal/mapping"
	"eksfiller/internal/model"
)

// ListUnmapped Konten mit Werten ohne Regelzuordnung (höchstens fünf,
// nach Summe der Absolutwerte)
// GET /api/unmapped
func (h *Handler) ListUnmapped(c *gin.Context) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.table == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "keine BWA geladen"})
		return
	}

	accounts := mapping.FindUnmapped(h.table, h.rules)
	c.JSON(http.StatusOK, gin.H{"accounts": accounts})
}

type suggestResponse struct {
	Accounts    []model.UnmappedAccount `json:"accounts"`
	Suggestions []advisor.Suggestion    `json:"suggestions"`
	Status      string                  `json:"status"`
}

// Suggest holt Zuordnungsvorschläge des Sprachmodells für die nicht
// zugeordneten Konten. Fehler des Dienstes werden zu einem Statustext;
// die Extraktion ist davon vollständig entkoppelt.
// POST /api/suggest
func (h *Handler) Suggest(c *gin.Context) {
	h.mu.Lock()
	if h.table == nil {
		h.mu.Unlock()
		c.JSON(http.StatusConflict, gin.H{"error": "keine BWA geladen"})
		return
	}
	accounts := mapping.FindUnmapped(h.table, h.rules)
	fields := h.rules.TargetFields()
	adv := h.advisor
	h.mu.Unlock()

	resp := suggestResponse{Accounts: accounts}

	if adv == nil {
		resp.Status = "Vorschlagsdienst nicht konfiguriert"
		c.JSON(http.StatusOK, resp)
		return
	}
	if len(accounts) == 0 {
		resp.Status = "alle Konten zugeordnet"
		c.JSON(http.StatusOK, resp)
		return
	}

	suggestions, err := adv.Suggest(c.Request.Context(), accounts, fields)
	if err != nil {
		resp.Status = "Vorschlagsdienst nicht erreichbar: " + err.Error()
		c.JSON(http.StatusOK, resp)
		return
	}

	resp.Suggestions = suggestions
	resp.Status = "ok"
	c.JSON(http.StatusOK, resp)
}
