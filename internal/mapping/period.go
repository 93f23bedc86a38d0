package mapping

import "eksfiller/internal/model"

// fallbackMonths Anzahl der Monate, auf die bei nicht auflösbaren
// Zeitraumangaben zurückgefallen wird
const fallbackMonths = 6

// ResolvePeriod löst ein Monatspaar gegen die verfügbaren Monate auf.
// Unbekannte Kennungen oder ein verdrehter Bereich führen bewusst nicht zum
// Fehler, sondern zum Rückfall auf die ersten sechs verfügbaren Monate.
// Das Ergebnis ist immer die kalendergeordnete Schnittmenge mit den
// verfügbaren Monaten.
func ResolvePeriod(start, end model.Month, available []model.Month) []model.Month {
	startIdx := model.MonthIndex(start)
	endIdx := model.MonthIndex(end)

	var selected []model.Month
	if startIdx >= 0 && endIdx >= 0 && startIdx <= endIdx {
		selected = model.MonthOrder[startIdx : endIdx+1]
	} else {
		limit := fallbackMonths
		if len(available) < limit {
			limit = len(available)
		}
		selected = available[:limit]
	}

	availSet := make(map[model.Month]bool, len(available))
	for _, m := range available {
		availSet[m] = true
	}

	var months []model.Month
	for _, m := range selected {
		if availSet[m] {
			months = append(months, m)
		}
	}
	return months
}

// quickPeriods Schnellauswahl-Kürzel → Monatspaar
var quickPeriods = map[string][2]model.Month{
	"Q1":   {model.Jan, model.Mrz},
	"Q2":   {model.Apr, model.Jun},
	"Q3":   {model.Jul, model.Sep},
	"Q4":   {model.Okt, model.Dez},
	"H1":   {model.Jan, model.Jun},
	"H2":   {model.Jul, model.Dez},
	"FULL": {model.Jan, model.Dez},
}

// ResolveQuick löst ein Schnellauswahl-Kürzel (Q1..Q4, H1, H2, FULL)
// in ein Monatspaar auf
func ResolveQuick(code string) (start, end model.Month, ok bool) {
	p, ok := quickPeriods[code]
	if !ok {
		return "", "", false
	}
	return p[0], p[1], true
}
