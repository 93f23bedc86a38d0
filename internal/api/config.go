package api

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"eksfiller/internal/advisor"
	"eksfiller/internal/config"
)

// configView nach außen sichtbare Konfiguration. Der API-Schlüssel wird
// nie herausgegeben, nur ob einer hinterlegt ist.
type configView struct {
	AdvisorEnabled     bool   `json:"advisorEnabled"`
	AdvisorBaseURL     string `json:"advisorBaseUrl"`
	AdvisorModel       string `json:"advisorModel"`
	AdvisorKeySet      bool   `json:"advisorKeySet"`
	TemplatePath       string `json:"templatePath"`
	AutoCreateCustomer bool   `json:"autoCreateCustomer"`
}

type configUpdateRequest struct {
	AdvisorEnabled     *bool   `json:"advisorEnabled"`
	AdvisorBaseURL     *string `json:"advisorBaseUrl"`
	AdvisorModel       *string `json:"advisorModel"`
	AdvisorAPIKey      *string `json:"advisorApiKey"`
	TemplatePath       *string `json:"templatePath"`
	AutoCreateCustomer *bool   `json:"autoCreateCustomer"`
}

// configViewLocked baut die Sicht auf die Konfiguration; h.mu muss
// gehalten werden
func (h *Handler) configViewLocked() configView {
	return configView{
		AdvisorEnabled:     h.cfg.Advisor.Enabled,
		AdvisorBaseURL:     h.cfg.Advisor.BaseURL,
		AdvisorModel:       h.cfg.Advisor.Model,
		AdvisorKeySet:      h.cfg.Advisor.APIKey != "",
		TemplatePath:       h.cfg.Excel.TemplatePath,
		AutoCreateCustomer: h.cfg.Data.AutoCreateCustomer,
	}
}

// GetConfig liefert die aktuelle Konfiguration
func (h *Handler) GetConfig(c *gin.Context) {
	h.mu.Lock()
	view := h.configViewLocked()
	h.mu.Unlock()

	c.JSON(http.StatusOK, view)
}

// UpdateConfig übernimmt die angegebenen Felder und schreibt config.toml.
// Änderungen am Vorschlagsdienst werden sofort wirksam. Konfiguration
// und Advisor werden nur unter h.mu verändert, andere Handler lesen
// beides unter demselben Lock.
func (h *Handler) UpdateConfig(c *gin.Context) {
	var req configUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Ungültige Anfrage: " + err.Error()})
		return
	}

	h.mu.Lock()
	if req.AdvisorEnabled != nil {
		h.cfg.Advisor.Enabled = *req.AdvisorEnabled
	}
	if req.AdvisorBaseURL != nil {
		h.cfg.Advisor.BaseURL = *req.AdvisorBaseURL
	}
	if req.AdvisorModel != nil {
		h.cfg.Advisor.Model = *req.AdvisorModel
	}
	if req.AdvisorAPIKey != nil {
		h.cfg.Advisor.APIKey = *req.AdvisorAPIKey
	}
	if req.TemplatePath != nil {
		h.cfg.Excel.TemplatePath = *req.TemplatePath
	}
	if req.AutoCreateCustomer != nil {
		h.cfg.Data.AutoCreateCustomer = *req.AutoCreateCustomer
	}

	h.advisor = advisor.New(h.cfg.Advisor)

	// Kopie für das Schreiben außerhalb des Locks
	snapshot := *h.cfg
	view := h.configViewLocked()
	h.mu.Unlock()

	if err := config.SaveConfig(&snapshot); err != nil {
		log.Printf("Konfiguration konnte nicht gespeichert werden: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Konfiguration konnte nicht gespeichert werden"})
		return
	}

	c.JSON(http.StatusOK, view)
}
