package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"eksfiller/internal/config"
	"eksfiller/internal/store"
)

func newTestRouter(t *testing.T) (*gin.Engine, *Handler, *store.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dbPath := filepath.Join(t.TempDir(), "eksfiller.db")
	st, err := store.New(dbPath)
	if err != nil {
		t.Fatalf("init store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	h := NewHandler(st, config.DefaultConfig())
	r := gin.New()
	apiGroup := r.Group("/api")
	h.RegisterRoutes(apiGroup)
	return r, h, st
}

// kleine BWA mit Kundenzeile, drei Monaten und gemischten Konten
func sampleBWA(t *testing.T) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	rows := [][]interface{}{
		{"12345 Mustermann GmbH"},
		{},
		{"Konto/Bezeichnung", "Jan", "Feb", "Mrz"},
		{"4400 Summe Erlöse", "1000", "1200", "1100"},
		{"6310 Miete", "800", "800", "800"},
		{"6325 Gas Strom Wasser", "120,50", "", "130"},
		{"6200 Fremdleistungen", "400", "400", "400"},
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return buf.Bytes()
}

func uploadBWA(t *testing.T, r *gin.Engine, data []byte) *httptest.ResponseRecorder {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "bwa_test.xlsx")
	if err != nil {
		t.Fatalf("form file: %v", err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatalf("write part: %v", err)
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/bwa", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func postJSON(r *gin.Engine, path string, payload any) *httptest.ResponseRecorder {
	return sendJSON(r, http.MethodPost, path, payload)
}

func patchJSON(r *gin.Engine, path string, payload any) *httptest.ResponseRecorder {
	return sendJSON(r, http.MethodPatch, path, payload)
}

func sendJSON(r *gin.Engine, method, path string, payload any) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestUploadAndExtractFlow(t *testing.T) {
	r, _, st := newTestRouter(t)

	w := uploadBWA(t, r, sampleBWA(t))
	if w.Code != http.StatusOK {
		t.Fatalf("upload: %d body=%s", w.Code, w.Body.String())
	}

	var up struct {
		FileName        string   `json:"fileName"`
		RowCount        int      `json:"rowCount"`
		AvailableMonths []string `json:"availableMonths"`
		Customer        *struct {
			Code string `json:"code"`
			Name string `json:"name"`
		} `json:"customer"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &up); err != nil {
		t.Fatalf("decode upload: %v", err)
	}
	if up.RowCount != 4 {
		t.Fatalf("rowCount: got %d, want 4", up.RowCount)
	}
	if len(up.AvailableMonths) != 3 || up.AvailableMonths[0] != "JAN" {
		t.Fatalf("months: got %v", up.AvailableMonths)
	}
	if up.Customer == nil || up.Customer.Code != "12345" {
		t.Fatalf("customer: got %+v", up.Customer)
	}

	// Kunde wurde beim Upload automatisch angelegt
	cust, err := st.GetCustomer("12345")
	if err != nil || cust == nil {
		t.Fatalf("auto-create customer: %v / %+v", err, cust)
	}

	// Extraktion über das Monatspaar
	w = postJSON(r, "/api/extract", map[string]string{"startMonth": "JAN", "endMonth": "FEB"})
	if w.Code != http.StatusOK {
		t.Fatalf("extract: %d body=%s", w.Code, w.Body.String())
	}

	var ex struct {
		Months  []string `json:"months"`
		Results map[string]struct {
			Values     []*float64 `json:"values"`
			Confidence int        `json:"confidence"`
			Total      float64    `json:"total"`
		} `json:"results"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &ex); err != nil {
		t.Fatalf("decode extract: %v", err)
	}
	if len(ex.Months) != 2 {
		t.Fatalf("months: got %v", ex.Months)
	}

	a1 := ex.Results["A1"]
	if a1.Values[0] == nil || *a1.Values[0] != 1000 {
		t.Fatalf("A1 JAN: got %v", a1.Values[0])
	}
	if a1.Total != 2200 {
		t.Fatalf("A1 total: got %v", a1.Total)
	}

	// B3 = Miete + Energie; Februar ohne Gaswert ergibt nur die Miete
	b3 := ex.Results["B3"]
	if b3.Values[0] == nil || *b3.Values[0] != 920.5 {
		t.Fatalf("B3 JAN: got %v", b3.Values[0])
	}
	if b3.Values[1] == nil || *b3.Values[1] != 800 {
		t.Fatalf("B3 FEB: got %v", b3.Values[1])
	}

	// B16 trifft nichts und bleibt eine Null-Serie
	b16 := ex.Results["B16"]
	if b16.Confidence != 0 {
		t.Fatalf("B16 confidence: got %d", b16.Confidence)
	}
	for _, v := range b16.Values {
		if v != nil {
			t.Fatalf("B16 muss nil bleiben: %v", *v)
		}
	}
}

func TestExtractAcceptsLowercaseMonths(t *testing.T) {
	r, _, _ := newTestRouter(t)
	uploadBWA(t, r, sampleBWA(t))

	w := postJSON(r, "/api/extract", map[string]string{"startMonth": "jan", "endMonth": "feb"})
	if w.Code != http.StatusOK {
		t.Fatalf("extract: %d body=%s", w.Code, w.Body.String())
	}

	var ex struct {
		Months []string `json:"months"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &ex); err != nil {
		t.Fatalf("decode: %v", err)
	}
	// Kleinschreibung löst das Paar auf, statt still auf die ersten
	// sechs Monate zurückzufallen
	if len(ex.Months) != 2 || ex.Months[0] != "JAN" || ex.Months[1] != "FEB" {
		t.Fatalf("months: got %v, want [JAN FEB]", ex.Months)
	}
}

func TestExtractWithoutUploadConflicts(t *testing.T) {
	r, _, _ := newTestRouter(t)

	w := postJSON(r, "/api/extract", map[string]string{"quick": "Q1"})
	if w.Code != http.StatusConflict {
		t.Fatalf("status: got %d, want 409", w.Code)
	}
}

func TestUploadRejectsBrokenFile(t *testing.T) {
	r, _, _ := newTestRouter(t)

	w := uploadBWA(t, r, []byte("kein excel"))
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status: got %d body=%s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "kein unterstütztes Excel-Format") {
		t.Fatalf("body: %s", w.Body.String())
	}
}

func TestRuleUpsertPersistsAndApplies(t *testing.T) {
	r, _, st := newTestRouter(t)
	uploadBWA(t, r, sampleBWA(t))

	w := postJSON(r, "/api/rules", map[string]string{
		"targetField": "B14h",
		"reference":   "6200",
		"description": "Fremdleistungen",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("upsert: %d body=%s", w.Code, w.Body.String())
	}

	// Korrektur liegt im Store
	overrides, err := st.ListRuleOverrides()
	if err != nil {
		t.Fatalf("list overrides: %v", err)
	}
	if len(overrides) != 1 || overrides[0].Reference != "6200" {
		t.Fatalf("overrides: got %+v", overrides)
	}

	// und wirkt sofort auf die nächste Extraktion
	w = postJSON(r, "/api/extract", map[string]string{"quick": "Q1"})
	if w.Code != http.StatusOK {
		t.Fatalf("extract: %d", w.Code)
	}
	var ex struct {
		Results map[string]struct {
			Total float64 `json:"total"`
		} `json:"results"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &ex); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if ex.Results["B14h"].Total != 1200 {
		t.Fatalf("B14h total: got %v, want 1200", ex.Results["B14h"].Total)
	}

	// ein neuer Handler übernimmt die Korrektur aus dem Store
	h2 := NewHandler(st, config.DefaultConfig())
	rule, ok := h2.rules.Get("B14h")
	if !ok || rule.SourceRefs[0] != "6200" {
		t.Fatalf("Korrektur nicht geladen: %+v", rule)
	}
}

func TestUnmappedAndSuggestWithoutAdvisor(t *testing.T) {
	r, _, _ := newTestRouter(t)
	uploadBWA(t, r, sampleBWA(t))

	req := httptest.NewRequest(http.MethodGet, "/api/unmapped", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("unmapped: %d", w.Code)
	}
	var um struct {
		Accounts []struct {
			AccountCode string `json:"accountCode"`
		} `json:"accounts"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &um); err != nil {
		t.Fatalf("decode: %v", err)
	}
	// 6200 ist von keiner eingebauten Regel beansprucht
	found := false
	for _, acc := range um.Accounts {
		if acc.AccountCode == "6200" {
			found = true
		}
	}
	if !found {
		t.Fatalf("6200 fehlt: %+v", um.Accounts)
	}

	// ohne konfigurierten Vorschlagsdienst kommt ein Statustext, kein Fehler
	w = postJSON(r, "/api/suggest", map[string]string{})
	if w.Code != http.StatusOK {
		t.Fatalf("suggest: %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Vorschlagsdienst nicht konfiguriert") {
		t.Fatalf("body: %s", w.Body.String())
	}
}

func TestExportFlowWithFallbackForm(t *testing.T) {
	r, _, st := newTestRouter(t)
	uploadBWA(t, r, sampleBWA(t))

	w := postJSON(r, "/api/export", map[string]string{
		"customerCode": "12345",
		"quick":        "Q1",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("export: %d body=%s", w.Code, w.Body.String())
	}

	var exp struct {
		Token    string `json:"token"`
		FileName string `json:"fileName"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &exp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if exp.Token == "" {
		t.Fatal("token fehlt")
	}
	if !strings.HasPrefix(exp.FileName, "12345_EKS_JAN-MRZ_") {
		t.Fatalf("fileName: got %q", exp.FileName)
	}

	// Download liefert ein lesbares Arbeitsbuch
	req := httptest.NewRequest(http.MethodGet, "/api/export/download/"+exp.Token, nil)
	dw := httptest.NewRecorder()
	r.ServeHTTP(dw, req)
	if dw.Code != http.StatusOK {
		t.Fatalf("download: %d", dw.Code)
	}
	wb, err := excelize.OpenReader(bytes.NewReader(dw.Body.Bytes()))
	if err != nil {
		t.Fatalf("open export: %v", err)
	}
	t.Cleanup(func() { _ = wb.Close() })
	if wb.GetSheetName(0) != "EKS Formular" {
		t.Fatalf("Blatt: got %q", wb.GetSheetName(0))
	}

	// der Lauf steht in der Kundenhistorie
	history, err := st.ListHistory("12345")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 1 || history[0].Period != "JAN-MRZ" {
		t.Fatalf("history: got %+v", history)
	}

	// unbekannter Kunde wird abgewiesen
	w = postJSON(r, "/api/export", map[string]string{"customerCode": "99999", "quick": "Q1"})
	if w.Code != http.StatusNotFound {
		t.Fatalf("unbekannter Kunde: got %d", w.Code)
	}
}

func TestConfigUpdateConcurrentWithReaders(t *testing.T) {
	r, _, _ := newTestRouter(t)
	uploadBWA(t, r, sampleBWA(t))

	// Konfigurationsänderungen laufen gleichzeitig zu Status-, Export-
	// und Vorschlagsanfragen; unter -race darf hier nichts anschlagen
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		enabled := i%2 == 0
		wg.Add(3)
		go func(enabled bool, i int) {
			defer wg.Done()
			w := patchJSON(r, "/api/config", map[string]any{
				"advisorEnabled": enabled,
				"templatePath":   fmt.Sprintf("/vorlagen/eks_%d.xlsx", i),
			})
			if w.Code != http.StatusOK {
				t.Errorf("config: %d body=%s", w.Code, w.Body.String())
			}
		}(enabled, i)
		go func() {
			defer wg.Done()
			req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != http.StatusOK {
				t.Errorf("status: %d", w.Code)
			}
		}()
		go func() {
			defer wg.Done()
			w := postJSON(r, "/api/suggest", map[string]string{})
			if w.Code != http.StatusOK {
				t.Errorf("suggest: %d", w.Code)
			}
		}()
	}
	wg.Wait()

	// der letzte Stand ist über GET /api/config lesbar
	req := httptest.NewRequest(http.MethodGet, "/api/config", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("config lesen: %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "/vorlagen/eks_") {
		t.Fatalf("templatePath fehlt: %s", w.Body.String())
	}
}

func TestDownloadUnknownToken(t *testing.T) {
	r, _, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/export/download/gibtsnicht", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status: got %d, want 404", w.Code)
	}
}
