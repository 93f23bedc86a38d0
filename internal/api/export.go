package api

import (
	"bytes"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"eksfiller/internal/exporter"
	"eksfiller/internal/mapping"
	"eksfiller/internal/model"
)

const downloadTTL = 10 * time.Minute

type exportRequest struct {
	CustomerCode string `json:"customerCode"`
	StartMonth   string `json:"startMonth"`
	EndMonth     string `json:"endMonth"`
	Quick        string `json:"quick"`
}

type exportResponse struct {
	Token             string  `json:"token"`
	FileName          string  `json:"fileName"`
	AverageConfidence float64 `json:"averageConfidence"`
}

// Export extrahiert den angefragten Zeitraum, füllt die EKS-Vorlage
// (oder das generierte Ersatzformular) und stellt das Ergebnis als
// Download bereit. Der Verarbeitungslauf wird in der Kundenhistorie
// vermerkt.
// POST /api/export
func (h *Handler) Export(c *gin.Context) {
	var req exportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ungültiges Anfrageformat"})
		return
	}
	if req.CustomerCode == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "customerCode ist ein Pflichtfeld"})
		return
	}

	customer, err := h.store.GetCustomer(req.CustomerCode)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if customer == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Kunde nicht gefunden"})
		return
	}

	h.mu.Lock()
	if h.table == nil {
		h.mu.Unlock()
		c.JSON(http.StatusConflict, gin.H{"error": "keine BWA geladen"})
		return
	}
	months := h.resolveMonthsLocked(extractRequest{
		StartMonth: req.StartMonth,
		EndMonth:   req.EndMonth,
		Quick:      req.Quick,
	})
	engine := mapping.NewEngine(h.rules)
	results := engine.Extract(h.table, months)
	fileName := h.fileName
	templatePath := h.cfg.Excel.TemplatePath
	h.mu.Unlock()

	wb, err := buildWorkbook(templatePath, results, customer, months)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var buf bytes.Buffer
	if err := wb.Write(&buf); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	avg := mapping.AverageConfidence(results)
	exportName := exportFileName(customer.Code, months)
	token := h.downloads.put(exportName, buf.Bytes(), downloadTTL)

	h.recordHistory(customer.Code, fileName, months, avg)

	c.JSON(http.StatusOK, exportResponse{
		Token:             token,
		FileName:          exportName,
		AverageConfidence: avg,
	})
}

// buildWorkbook füllt die konfigurierte Vorlage; ohne Vorlage wird das
// Ersatzformular generiert
func buildWorkbook(templatePath string, results map[string]model.FieldResult, customer *model.Customer, months []model.Month) (*excelize.File, error) {
	tmpl, err := exporter.OpenTemplate(templatePath)
	if err != nil {
		return exporter.GenerateFallback(results, customer, months)
	}

	e := exporter.NewExporter(tmpl)
	if err := e.Fill(results, customer, months); err != nil {
		return nil, err
	}
	return e.Workbook(), nil
}

// DownloadExport liefert einen bereitgestellten Export aus
// GET /api/export/download/:token
func (h *Handler) DownloadExport(c *gin.Context) {
	item, ok := h.downloads.get(c.Param("token"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Download abgelaufen oder unbekannt"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", item.fileName))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", item.data)
}

func exportFileName(customerCode string, months []model.Month) string {
	period := "leer"
	if len(months) > 0 {
		period = fmt.Sprintf("%s-%s", months[0], months[len(months)-1])
	}
	return fmt.Sprintf("%s_EKS_%s_%s.xlsx", customerCode, period, time.Now().Format("20060102"))
}

func (h *Handler) recordHistory(customerCode, fileName string, months []model.Month, confidence float64) {
	period := ""
	if len(months) > 0 {
		period = fmt.Sprintf("%s-%s", months[0], months[len(months)-1])
	}
	err := h.store.AddHistory(customerCode, model.HistoryEntry{
		FileName:      fileName,
		Period:        period,
		ProcessedDate: time.Now().Format("2006-01-02 15:04:05"),
		Confidence:    confidence,
	})
	if err != nil {
		log.Printf("Historieneintrag für %s fehlgeschlagen: %v", customerCode, err)
	}
}
