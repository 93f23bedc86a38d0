package parser

import (
	"bytes"
	"fmt"
	"io"

	"github.com/shakinm/xlsReader/xls"
	"github.com/xuri/excelize/v2"

	"eksfiller/internal/model"
)

// LoadError struktureller Ladefehler (Datei unlesbar, Kopfzeile fehlt,
// keine Monatsspalten). Datenqualitätsprobleme sind keine LoadErrors.
type LoadError struct {
	Reason string
	Err    error
}

func (e *LoadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Reason, e.Err)
	}
	return e.Reason
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Load liest eine BWA-Datei (xlsx oder altes xls-Binärformat) und liefert
// die normalisierte Tabelle. Kopfzeile und Kundendaten werden heuristisch
// gesucht; fehlende Kundendaten sind kein Fehler.
func Load(r io.Reader) (*model.NormalizedTable, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &LoadError{Reason: "datei nicht lesbar", Err: err}
	}

	grid, err := readGrid(data)
	if err != nil {
		return nil, err
	}

	pos, ok := locateHeader(grid)
	if !ok {
		return nil, &LoadError{Reason: "BWA-Kopfzeile nicht gefunden"}
	}

	table := normalize(grid, pos)
	if len(table.AvailableMonths) == 0 {
		return nil, &LoadError{Reason: "keine Monatsspalten erkannt"}
	}

	table.Customer = locateCustomer(grid)
	return table, nil
}

// readGrid liest die erste Tabelle als rohes Zellraster ohne Schema-Annahme.
// Erst xlsx über excelize, bei Fehlschlag das alte xls-Binärformat.
func readGrid(data []byte) ([][]string, error) {
	wb, xlsxErr := excelize.OpenReader(bytes.NewReader(data))
	if xlsxErr == nil {
		defer wb.Close()
		sheet := wb.GetSheetName(0)
		rows, err := wb.GetRows(sheet)
		if err != nil {
			return nil, &LoadError{Reason: "tabellenblatt nicht lesbar", Err: err}
		}
		return rows, nil
	}

	book, xlsErr := xls.OpenReader(bytes.NewReader(data))
	if xlsErr != nil {
		return nil, &LoadError{Reason: "kein unterstütztes Excel-Format", Err: xlsxErr}
	}

	sheet, err := book.GetSheet(0)
	if err != nil || sheet == nil {
		return nil, &LoadError{Reason: "xls-Tabellenblatt nicht lesbar", Err: err}
	}

	var grid [][]string
	for _, xlsRow := range sheet.GetRows() {
		var cells []string
		for _, col := range xlsRow.GetCols() {
			cells = append(cells, col.GetString())
		}
		grid = append(grid, cells)
	}
	return grid, nil
}
