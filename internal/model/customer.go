package model

// Customer gespeicherter Kundendatensatz
type Customer struct {
	Code            string `json:"code"`
	Name            string `json:"name"`
	CreatedDate     string `json:"createdDate"`
	DefaultTemplate string `json:"defaultTemplate"`
	Notes           string `json:"notes"`
}

// HistoryEntry Eintrag der BWA-Verarbeitungshistorie eines Kunden
type HistoryEntry struct {
	FileName      string  `json:"fileName"`
	Period        string  `json:"period"`
	ProcessedDate string  `json:"processedDate"`
	Confidence    float64 `json:"confidence"`
}
