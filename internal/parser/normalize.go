package parser

import (
	"strconv"
	"strings"

	"eksfiller/internal/model"
)

// normalize baut aus dem Rohraster und der Kopfzeilenposition die
// normalisierte Tabelle: pro Datenzeile ein kombiniertes Konto/Bezeichnungs-
// Feld plus Monatswerte. AvailableMonths folgt der Kalenderreihenfolge,
// unabhängig von der physischen Spaltenreihenfolge im Blatt.
func normalize(grid [][]string, pos headerPosition) *model.NormalizedTable {
	header := grid[pos.Row]

	// Monatskennung → Spaltenindex, erste Fundstelle gewinnt
	monthCols := make(map[model.Month]int)
	for j, cell := range header {
		if m, ok := model.ParseMonth(cell); ok {
			if _, seen := monthCols[m]; !seen {
				monthCols[m] = j
			}
		}
	}

	var available []model.Month
	for _, m := range model.MonthOrder {
		if _, ok := monthCols[m]; ok {
			available = append(available, m)
		}
	}

	table := &model.NormalizedTable{
		AvailableMonths: available,
		HeaderRow:       pos.Row,
	}

	for i := pos.Row + 1; i < len(grid); i++ {
		row := grid[i]
		label := buildLabel(row, pos)

		values := make(map[model.Month]*float64, len(available))
		empty := true
		for _, m := range available {
			v := parseNumber(cellAt(row, monthCols[m]))
			values[m] = v
			if v != nil {
				empty = false
			}
		}

		if label == "" && empty {
			continue
		}
		table.Rows = append(table.Rows, model.AccountRow{Label: label, MonthValues: values})
	}

	return table
}

// buildLabel Konto und Bezeichnung mit einem Leerzeichen verbinden;
// jede Seite darf leer sein. Bei kombinierter Spalte steht alles im Kontofeld.
func buildLabel(row []string, pos headerPosition) string {
	code := strings.TrimSpace(cellAt(row, pos.AccountCol))
	if pos.LabelCol < 0 || pos.LabelCol == pos.AccountCol {
		return code
	}
	desc := strings.TrimSpace(cellAt(row, pos.LabelCol))
	if code == "" {
		return desc
	}
	if desc == "" {
		return code
	}
	return code + " " + desc
}

func cellAt(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return row[col]
}

// parseNumber wandelt einen Zellwert in einen nullbaren Zahlwert.
// Leere Zellen und nichtnumerischer Text werden zu nil, nicht zu 0.
// Deutsche Zahlenformate (1.234,56) werden ebenso akzeptiert wie Punktnotation.
func parseNumber(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" || s == "-" {
		return nil
	}

	norm := strings.ReplaceAll(s, " ", "")
	norm = strings.ReplaceAll(norm, " ", "")
	if strings.Contains(norm, ",") {
		norm = strings.ReplaceAll(norm, ".", "")
		norm = strings.ReplaceAll(norm, ",", ".")
	}

	f, err := strconv.ParseFloat(norm, 64)
	if err != nil {
		return nil
	}
	return &f
}
