package parser

import (
	"regexp"
	"strings"

	"eksfiller/internal/model"
)

const (
	// Markertexte der BWA-Kopfzeile
	accountMarker     = "konto"
	descriptionMarker = "bezeichnung"

	headerScanRows   = 15
	customerScanRows = 10
	customerScanCols = 5
)

// Erkennungsmuster für die Kundenzeile: führende Kundennummer mit
// Namensrest oder Nummer in eckigen Klammern. Reale BWA-Exporte nutzen
// beide Varianten.
var (
	customerPlainPattern   = regexp.MustCompile(`^(\d{4,})\s+(\S.*)$`)
	customerBracketPattern = regexp.MustCompile(`^\[(\d+)\]\s*(\S.*)$`)
)

// headerPosition Fundstelle der Kopfzeile im Rohraster
type headerPosition struct {
	Row        int
	AccountCol int
	LabelCol   int // -1 wenn keine eigene Bezeichnungsspalte (kombinierte Spalte)
}

// locateHeader sucht in den ersten Zeilen die Kopfzeile: eine Zeile mit
// Konto-Marker und mindestens einer Monatskennung. Kombinierte und
// getrennte Konto/Bezeichnungs-Spalten werden beide unterstützt.
func locateHeader(grid [][]string) (headerPosition, bool) {
	limit := headerScanRows
	if len(grid) < limit {
		limit = len(grid)
	}

	for i := 0; i < limit; i++ {
		accountCol := -1
		labelCol := -1
		hasMonth := false

		for j, cell := range grid[i] {
			lower := strings.ToLower(strings.TrimSpace(cell))
			if lower == "" {
				continue
			}
			if accountCol < 0 && strings.Contains(lower, accountMarker) {
				accountCol = j
			}
			if labelCol < 0 && strings.Contains(lower, descriptionMarker) {
				labelCol = j
			}
			if _, ok := model.ParseMonth(cell); ok {
				hasMonth = true
			}
		}

		if accountCol >= 0 && hasMonth {
			return headerPosition{Row: i, AccountCol: accountCol, LabelCol: labelCol}, true
		}
	}

	return headerPosition{}, false
}

// locateCustomer sucht zeilenweise in den ersten Zeilen/Spalten nach der
// Kundenkennung. Die erste Fundstelle gewinnt; keine Fundstelle ist kein
// Fehler, die Extraktion läuft dann ohne Kundendaten weiter.
func locateCustomer(grid [][]string) *model.CustomerInfo {
	rowLimit := customerScanRows
	if len(grid) < rowLimit {
		rowLimit = len(grid)
	}

	for i := 0; i < rowLimit; i++ {
		colLimit := customerScanCols
		if len(grid[i]) < colLimit {
			colLimit = len(grid[i])
		}
		for j := 0; j < colLimit; j++ {
			cell := strings.TrimSpace(grid[i][j])
			if cell == "" {
				continue
			}
			if m := customerPlainPattern.FindStringSubmatch(cell); m != nil {
				return &model.CustomerInfo{Code: m[1], Name: strings.TrimSpace(m[2])}
			}
			if m := customerBracketPattern.FindStringSubmatch(cell); m != nil {
				return &model.CustomerInfo{Code: m[1], Name: strings.TrimSpace(m[2])}
			}
		}
	}
	return nil
}
