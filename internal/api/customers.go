package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"eksfiller/internal/model"
)

// ListCustomers alle Kunden sortiert nach Kundennummer
// GET /api/customers
func (h *Handler) ListCustomers(c *gin.Context) {
	customers, err := h.store.ListCustomers()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"customers": customers})
}

type createCustomerRequest struct {
	Code  string `json:"code"`
	Name  string `json:"name"`
	Notes string `json:"notes"`
}

// CreateCustomer legt einen Kunden an oder aktualisiert ihn
// POST /api/customers
func (h *Handler) CreateCustomer(c *gin.Context) {
	var req createCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ungültiges Anfrageformat"})
		return
	}
	if req.Code == "" || req.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "code und name sind Pflichtfelder"})
		return
	}

	customer := model.Customer{
		Code:        req.Code,
		Name:        req.Name,
		Notes:       req.Notes,
		CreatedDate: time.Now().Format("2006-01-02"),
	}
	if err := h.store.SaveCustomer(customer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"customer": customer})
}

// GetCustomer Kunde über die Kundennummer
// GET /api/customers/:code
func (h *Handler) GetCustomer(c *gin.Context) {
	customer, err := h.store.GetCustomer(c.Param("code"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if customer == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Kunde nicht gefunden"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"customer": customer})
}

// GetCustomerHistory Verarbeitungshistorie eines Kunden, neueste zuerst
// GET /api/customers/:code/history
func (h *Handler) GetCustomerHistory(c *gin.Context) {
	entries, err := h.store.ListHistory(c.Param("code"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": entries})
}
