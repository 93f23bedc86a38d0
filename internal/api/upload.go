package api

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"eksfiller/internal/model"
	"eksfiller/internal/parser"
)

type uploadResponse struct {
	FileName        string              `json:"fileName"`
	RowCount        int                 `json:"rowCount"`
	AvailableMonths []model.Month       `json:"availableMonths"`
	Customer        *model.CustomerInfo `json:"customer,omitempty"`
}

// UploadBWA lädt eine BWA-Datei (xlsx oder xls) und ersetzt die aktive
// Tabelle vollständig. Strukturfehler lassen die vorherige Tabelle
// unangetastet, damit weiter damit gearbeitet werden kann.
// POST /api/bwa (multipart, Feld "file")
func (h *Handler) UploadBWA(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "keine Datei im Upload gefunden"})
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Upload nicht lesbar"})
		return
	}
	defer f.Close()

	table, err := parser.Load(f)
	if err != nil {
		var loadErr *parser.LoadError
		if errors.As(err, &loadErr) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": loadErr.Reason})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.mu.Lock()
	h.table = table
	h.fileName = fileHeader.Filename
	autoCreate := h.cfg.Data.AutoCreateCustomer
	h.mu.Unlock()

	// Kunde aus der BWA automatisch anlegen, wenn noch unbekannt
	if autoCreate && table.Customer != nil {
		h.autoCreateCustomer(table.Customer)
	}

	c.JSON(http.StatusOK, uploadResponse{
		FileName:        fileHeader.Filename,
		RowCount:        len(table.Rows),
		AvailableMonths: table.AvailableMonths,
		Customer:        table.Customer,
	})
}

func (h *Handler) autoCreateCustomer(info *model.CustomerInfo) {
	existing, err := h.store.GetCustomer(info.Code)
	if err != nil || existing != nil {
		return
	}
	err = h.store.SaveCustomer(model.Customer{
		Code:        info.Code,
		Name:        info.Name,
		CreatedDate: time.Now().Format("2006-01-02"),
	})
	if err != nil {
		log.Printf("Kunde %s konnte nicht angelegt werden: %v", info.Code, err)
	}
}
