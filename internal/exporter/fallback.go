package exporter

import (
	"fmt"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"

	"eksfiller/internal/model"
)

// GenerateFallback baut ein EKS-Arbeitsbuch ohne Vorlage auf: Titel,
// Kundenblock, Monatskopf und die Abschnitte A und B mit Summenspalte.
// Wird genutzt, wenn keine Formularvorlage konfiguriert ist.
func GenerateFallback(results map[string]model.FieldResult, customer *model.Customer, months []model.Month) (*excelize.File, error) {
	wb := excelize.NewFile()
	sheet := "EKS Formular"
	wb.SetSheetName("Sheet1", sheet)

	headerStyle, err := wb.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 12}})
	if err != nil {
		return nil, err
	}
	titleStyle, err := wb.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}})
	if err != nil {
		return nil, err
	}
	numFmt := numberFormat
	numStyle, err := wb.NewStyle(&excelize.Style{CustomNumFmt: &numFmt})
	if err != nil {
		return nil, err
	}
	boldNumStyle, err := wb.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}, CustomNumFmt: &numFmt})
	if err != nil {
		return nil, err
	}

	wb.SetCellValue(sheet, "A1", "Angaben zum voraussichtlichen Einkommen aus selbständiger Tätigkeit")
	wb.SetCellStyle(sheet, "A1", "A1", titleStyle)
	wb.MergeCell(sheet, "A1", "H1")

	if customer != nil {
		wb.SetCellValue(sheet, "A3", fmt.Sprintf("Nummer der Bedarfsgemeinschaft: %s", customer.Code))
		wb.SetCellValue(sheet, "A4", fmt.Sprintf("Name, Vorname: %s", customer.Name))
	}
	if len(months) > 0 {
		wb.SetCellValue(sheet, "A5", fmt.Sprintf("Bewilligungszeitraum: %s - %s", months[0], months[len(months)-1]))
	}

	// Kopfzeile
	const headerRowNum = 8
	wb.SetCellValue(sheet, cellRef(1, headerRowNum), "Position")
	wb.SetCellValue(sheet, cellRef(2, headerRowNum), "Beschreibung")
	for i, m := range months {
		wb.SetCellValue(sheet, cellRef(monthsStartCol+i, headerRowNum), string(m))
	}
	sumCol := monthsStartCol + len(months)
	wb.SetCellValue(sheet, cellRef(sumCol, headerRowNum), "Summe")
	wb.SetCellStyle(sheet, cellRef(1, headerRowNum), cellRef(sumCol, headerRowNum), headerStyle)

	row := headerRowNum + 1
	row = writeSection(wb, sheet, "A. Betriebseinnahmen", "A", results, months, row, headerStyle, numStyle, boldNumStyle)
	row++
	writeSection(wb, sheet, "B. Betriebsausgaben", "B", results, months, row, headerStyle, numStyle, boldNumStyle)

	wb.SetColWidth(sheet, "A", "A", 12)
	wb.SetColWidth(sheet, "B", "B", 30)
	startName, _ := excelize.ColumnNumberToName(monthsStartCol)
	endName, _ := excelize.ColumnNumberToName(sumCol)
	wb.SetColWidth(sheet, startName, endName, 15)

	wb.SetActiveSheet(0)
	return wb, nil
}

// writeSection schreibt einen Formularabschnitt und liefert die nächste
// freie Zeile
func writeSection(wb *excelize.File, sheet, title, prefix string, results map[string]model.FieldResult, months []model.Month, row, headerStyle, numStyle, boldNumStyle int) int {
	wb.SetCellValue(sheet, cellRef(1, row), title)
	wb.SetCellStyle(sheet, cellRef(1, row), cellRef(1, row), headerStyle)
	row++

	sumCol := monthsStartCol + len(months)
	for _, field := range sortedFields(results, prefix) {
		data := results[field]
		wb.SetCellValue(sheet, cellRef(1, row), field)
		wb.SetCellValue(sheet, cellRef(2, row), data.Description)

		for i, value := range data.Values {
			if value == nil {
				continue
			}
			cell := cellRef(monthsStartCol+i, row)
			wb.SetCellValue(sheet, cell, *value)
			wb.SetCellStyle(sheet, cell, cell, numStyle)
		}

		totalCell := cellRef(sumCol, row)
		wb.SetCellValue(sheet, totalCell, data.Total)
		wb.SetCellStyle(sheet, totalCell, totalCell, boldNumStyle)
		row++
	}
	return row
}

// sortedFields Feldcodes eines Abschnitts in stabiler Reihenfolge
func sortedFields(results map[string]model.FieldResult, prefix string) []string {
	var fields []string
	for field := range results {
		if strings.HasPrefix(field, prefix) {
			fields = append(fields, field)
		}
	}
	sort.Strings(fields)
	return fields
}

func cellRef(col, row int) string {
	cell, _ := excelize.CoordinatesToCellName(col, row)
	return cell
}
