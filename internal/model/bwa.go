package model

// CustomerInfo aus den ersten Zeilen der BWA erkannte Kundendaten
type CustomerInfo struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// AccountRow normalisierte BWA-Zeile: kombiniertes Konto/Bezeichnungs-Feld
// plus Monatswerte. Ein nil-Wert bedeutet "kein Wert vorhanden" und ist
// strikt von 0 zu unterscheiden.
type AccountRow struct {
	Label       string             `json:"label"`
	MonthValues map[Month]*float64 `json:"monthValues"`
}

// NormalizedTable Ergebnis eines BWA-Ladevorgangs. Wird bei jedem Laden
// vollständig ersetzt, nie gemischt.
type NormalizedTable struct {
	Rows            []AccountRow  `json:"rows"`
	AvailableMonths []Month       `json:"availableMonths"`
	Customer        *CustomerInfo `json:"customer,omitempty"`
	HeaderRow       int           `json:"headerRow"`
}

// Value Monatswert einer Zeile, nil wenn der Monat fehlt
func (r AccountRow) Value(m Month) *float64 {
	if r.MonthValues == nil {
		return nil
	}
	return r.MonthValues[m]
}
