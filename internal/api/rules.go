package api

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"eksfiller/internal/store"
)

// ListRules aktives Regelwerk in stabiler Reihenfolge
// GET /api/rules
func (h *Handler) ListRules(c *gin.Context) {
	h.mu.Lock()
	rules := h.rules.Rules()
	h.mu.Unlock()

	c.JSON(http.StatusOK, gin.H{"rules": rules})
}

type upsertRuleRequest struct {
	TargetField string `json:"targetField"`
	Reference   string `json:"reference"`
	Description string `json:"description"`
}

// UpsertRule ersetzt oder ergänzt die Regel eines Zielfeldes durch eine
// Direktregel. Wirkt sofort für den nächsten Extraktionslauf und wird
// persistiert.
// POST /api/rules
func (h *Handler) UpsertRule(c *gin.Context) {
	var req upsertRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ungültiges Anfrageformat"})
		return
	}
	if req.TargetField == "" || req.Reference == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "targetField und reference sind Pflichtfelder"})
		return
	}

	h.mu.Lock()
	h.rules.Upsert(req.TargetField, req.Reference, req.Description)
	rule, _ := h.rules.Get(req.TargetField)
	h.mu.Unlock()

	// Persistenz ist nachgelagert; ein Speicherfehler macht die
	// Laufzeitkorrektur nicht rückgängig
	err := h.store.SaveRuleOverride(store.RuleOverride{
		TargetField: req.TargetField,
		Reference:   req.Reference,
		Description: req.Description,
	})
	if err != nil {
		log.Printf("Regelkorrektur %s konnte nicht gespeichert werden: %v", req.TargetField, err)
	}

	c.JSON(http.StatusOK, gin.H{"rule": rule})
}
