package api

import (
	"sync"

	"github.com/gin-gonic/gin"

	"eksfiller/internal/advisor"
	"eksfiller/internal/config"
	"eksfiller/internal/mapping"
	"eksfiller/internal/model"
	"eksfiller/internal/store"
)

// Handler API-Handler. Hält die geladene BWA-Tabelle, das aktive
// Regelwerk, die Konfiguration und den Advisor; der Zugriff darauf ist
// über mu serialisiert, es läuft also höchstens eine Extraktion
// gleichzeitig auf derselben Tabelle.
type Handler struct {
	store     *store.Store
	downloads *downloadStore

	mu       sync.Mutex
	cfg      *config.AppConfig
	advisor  *advisor.Advisor
	rules    *mapping.RuleSet
	table    *model.NormalizedTable
	fileName string
}

// NewHandler erstellt den API-Handler. Gespeicherte Regelkorrekturen
// werden auf die eingebaute Regeltabelle angewendet, damit Korrekturen
// Neustarts überleben.
func NewHandler(s *store.Store, cfg *config.AppConfig) *Handler {
	rules := mapping.DefaultRules()
	if overrides, err := s.ListRuleOverrides(); err == nil {
		for _, o := range overrides {
			rules.Upsert(o.TargetField, o.Reference, o.Description)
		}
	}

	return &Handler{
		store:     s,
		cfg:       cfg,
		advisor:   advisor.New(cfg.Advisor),
		downloads: newDownloadStore(),
		rules:     rules,
	}
}

// RegisterRoutes registriert die API-Routen
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	// Systemstatus
	router.GET("/status", h.GetStatus)

	// BWA-Import und Monate
	router.POST("/bwa", h.UploadBWA)
	router.GET("/months", h.ListMonths)

	// Extraktion
	router.POST("/extract", h.Extract)

	// Regelwerk
	router.GET("/rules", h.ListRules)
	router.POST("/rules", h.UpsertRule)

	// Nicht zugeordnete Konten + Vorschläge
	router.GET("/unmapped", h.ListUnmapped)
	router.POST("/suggest", h.Suggest)

	// Kundenverwaltung
	router.GET("/customers", h.ListCustomers)
	router.POST("/customers", h.CreateCustomer)
	router.GET("/customers/:code", h.GetCustomer)
	router.GET("/customers/:code/history", h.GetCustomerHistory)

	// EKS-Export
	router.POST("/export", h.Export)
	router.GET("/export/download/:token", h.DownloadExport)

	// Konfiguration
	router.GET("/config", h.GetConfig)
	router.PATCH("/config", h.UpdateConfig)
}
