package mapping

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"eksfiller/internal/model"
)

const (
	unmappedMonths = 6 // betrachtete Monate je Kandidat
	unmappedLimit  = 5 // maximal gemeldete Konten
)

// Kandidat ist jede Zeile, deren Label mit einem vierstelligen Kontocode
// beginnt (mit optionalem Trenner und Bezeichnung) oder die nur aus dem
// Code besteht. Fünfstellige Nummern sind keine Kontocodes.
var accountCodePattern = regexp.MustCompile(`^(\d{4})(?:[^\d].*)?$`)

// FindUnmapped findet Konten mit Werten, die von keiner Regel beansprucht
// werden: Kandidaten für Zuordnungsvorschläge. Bewertet werden die ersten
// sechs verfügbaren Monate (fehlende Werte als 0); reine Nullzeilen fallen
// heraus. Sortiert nach absteigender Summe der Absolutwerte, maximal fünf.
// Das Ergebnis ist rein beratend; die Extraktion hängt nie davon ab.
func FindUnmapped(table *model.NormalizedTable, rules *RuleSet) []model.UnmappedAccount {
	refs := rules.References()

	months := table.AvailableMonths
	if len(months) > unmappedMonths {
		months = months[:unmappedMonths]
	}

	seen := make(map[string]bool)
	var candidates []model.UnmappedAccount

	for _, row := range table.Rows {
		label := strings.TrimSpace(row.Label)
		m := accountCodePattern.FindStringSubmatch(label)
		if m == nil {
			continue
		}
		code := m[1]
		if refs[code] || seen[code] {
			continue
		}

		values := make([]float64, len(months))
		allZero := true
		for i, month := range months {
			if v := row.Value(month); v != nil {
				values[i] = *v
				if *v != 0 {
					allZero = false
				}
			}
		}
		if allZero {
			continue
		}

		seen[code] = true
		candidates = append(candidates, model.UnmappedAccount{
			AccountCode: code,
			Description: extractDescription(label, code),
			Values:      values,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return absSum(candidates[i].Values) > absSum(candidates[j].Values)
	})

	if len(candidates) > unmappedLimit {
		candidates = candidates[:unmappedLimit]
	}
	return candidates
}

// extractDescription Bezeichnungsteil hinter dem Kontocode, ohne Trenner
func extractDescription(label, code string) string {
	rest := strings.TrimPrefix(label, code)
	rest = strings.TrimLeft(rest, " \t-:.")
	return strings.TrimSpace(rest)
}

func absSum(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += math.Abs(v)
	}
	return sum
}
