package exporter

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"eksfiller/internal/model"
)

const numberFormat = "#,##0.00"

// Exporter füllt eine EKS-Formularvorlage mit Extraktionsergebnissen.
// Stile, Formeln und verbundene Zellen der Vorlage bleiben erhalten.
type Exporter struct {
	tmpl *excelize.File
}

// OpenTemplate öffnet die Vorlage von einem Pfad
func OpenTemplate(path string) (*excelize.File, error) {
	if path == "" {
		return nil, errors.New("template path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("template not found: %w", err)
	}
	return excelize.OpenFile(path)
}

// NewExporter erstellt einen Exporter über der geöffneten Vorlage
func NewExporter(tmpl *excelize.File) *Exporter {
	return &Exporter{tmpl: tmpl}
}

// Workbook das gefüllte Arbeitsbuch
func (e *Exporter) Workbook() *excelize.File {
	return e.tmpl
}

// Fill schreibt Monatswerte, Kundendaten und Bewilligungszeitraum in die
// Vorlage. Felder ohne Position in der Vorlage werden übersprungen.
func (e *Exporter) Fill(results map[string]model.FieldResult, customer *model.Customer, months []model.Month) error {
	if e == nil || e.tmpl == nil {
		return errors.New("template workbook is nil")
	}

	sheet := e.tmpl.GetSheetName(0)

	numFmt := numberFormat
	numStyle, err := e.tmpl.NewStyle(&excelize.Style{CustomNumFmt: &numFmt})
	if err != nil {
		return fmt.Errorf("failed to create number style: %w", err)
	}

	for field, data := range results {
		row, ok := fieldRow[field]
		if !ok {
			continue
		}
		for i, value := range data.Values {
			if value == nil || i >= maxExportCols {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(monthsStartCol+i, row)
			if err != nil {
				return err
			}
			if err := e.tmpl.SetCellValue(sheet, cell, *value); err != nil {
				return err
			}
			if err := e.tmpl.SetCellStyle(sheet, cell, cell, numStyle); err != nil {
				return err
			}
		}
	}

	if customer != nil {
		// Bedarfsgemeinschaft und Name stehen im Formular in D2/D3
		if err := e.tmpl.SetCellValue(sheet, "D2", customer.Code); err != nil {
			return err
		}
		if err := e.tmpl.SetCellValue(sheet, "D3", customer.Name); err != nil {
			return err
		}
	}

	e.fillPeriod(sheet, months)
	return nil
}

// fillPeriod ersetzt die Platzhalter der Bewilligungszeitraum-Zeile.
// Die Zelle wird in den ersten Zeilen gesucht; fehlt sie, passiert nichts.
func (e *Exporter) fillPeriod(sheet string, months []model.Month) {
	if len(months) == 0 {
		return
	}

	startNum := model.MonthNumber(months[0])
	endNum := model.MonthNumber(months[len(months)-1])
	year := time.Now().Year()

	for row := 1; row <= 20; row++ {
		for col := 1; col <= 10; col++ {
			cell, err := excelize.CoordinatesToCellName(col, row)
			if err != nil {
				continue
			}
			text, err := e.tmpl.GetCellValue(sheet, cell)
			if err != nil || !strings.Contains(text, "Bewilligungszeitraum vom") {
				continue
			}
			updated := strings.ReplaceAll(text, "_01.0x.200x__", fmt.Sprintf("01.%s.%d", startNum, year))
			updated = strings.ReplaceAll(updated, "_3x.0x.200x__", fmt.Sprintf("30.%s.%d", endNum, year))
			_ = e.tmpl.SetCellValue(sheet, cell, updated)
			return
		}
	}
}
