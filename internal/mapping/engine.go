package mapping

import (
	"math"
	"strings"

	"eksfiller/internal/model"
)

// Engine wendet eine Regeltabelle auf eine normalisierte BWA-Tabelle an.
// Alle Operationen sind synchron und seiteneffektfrei; der Aufrufer
// serialisiert den Zugriff auf Tabelle und Regelwerk.
type Engine struct {
	rules *RuleSet
}

// NewEngine erstellt eine Engine über dem übergebenen Regelwerk
func NewEngine(rules *RuleSet) *Engine {
	return &Engine{rules: rules}
}

// Extract wertet alle Regeln unabhängig voneinander gegen die Tabelle aus.
// Fehlende Treffer sind keine Fehler, sondern Null-Serien mit Confidence 0.
func (e *Engine) Extract(table *model.NormalizedTable, months []model.Month) map[string]model.FieldResult {
	results := make(map[string]model.FieldResult, e.rules.Len())

	for _, rule := range e.rules.Rules() {
		values := e.extractRule(table, rule, months)
		results[rule.TargetField] = model.FieldResult{
			TargetField: rule.TargetField,
			Values:      values,
			Months:      months,
			Confidence:  confidence(values),
			Total:       total(values),
			Source:      rule.SourceLabel,
			Description: rule.Description,
		}
	}

	return results
}

// extractRule wertet eine einzelne Regel aus. Unbekannte Strategien
// liefern eine Null-Serie statt eines Fehlers.
func (e *Engine) extractRule(table *model.NormalizedTable, rule model.MappingRule, months []model.Month) []*float64 {
	switch rule.Strategy {
	case model.StrategyDirect:
		if len(rule.SourceRefs) == 0 {
			return nullSeries(len(months))
		}
		values, _ := findDirect(table, rule.SourceRefs[0], months)
		return values
	case model.StrategySum:
		return sumAccounts(table, rule.SourceRefs, months)
	default:
		return nullSeries(len(months))
	}
}

// findDirect sucht den Begriff als Teilstring (ohne Groß/Kleinschreibung)
// im kombinierten Zeilenlabel. Die erste Zeile in Tabellenreihenfolge
// gewinnt; so steht die Summenzeile einer Kontogruppe vor ihren Unterzeilen.
func findDirect(table *model.NormalizedTable, term string, months []model.Month) ([]*float64, bool) {
	needle := strings.ToLower(term)

	for _, row := range table.Rows {
		if !strings.Contains(strings.ToLower(row.Label), needle) {
			continue
		}
		values := make([]*float64, len(months))
		for i, m := range months {
			values[i] = row.Value(m)
		}
		return values, true
	}

	return nullSeries(len(months)), false
}

// sumAccounts sucht jede Referenz unabhängig und addiert die Monatswerte
// elementweise. Trifft keine einzige Referenz, bleibt die ganze Serie nil;
// "kein Treffer" darf nie zu einer Nullserie aus echten Nullen werden.
func sumAccounts(table *model.NormalizedTable, refs []string, months []model.Month) []*float64 {
	totals := make([]float64, len(months))
	foundAny := false

	for _, ref := range refs {
		values, found := findDirect(table, ref, months)
		if !found {
			continue
		}
		for i, v := range values {
			if v != nil {
				totals[i] += *v
				foundAny = true
			}
		}
	}

	if !foundAny {
		return nullSeries(len(months))
	}

	values := make([]*float64, len(months))
	for i := range totals {
		v := totals[i]
		values[i] = &v
	}
	return values
}

// confidence Anteil der belegten Monate in Prozent (0-100)
func confidence(values []*float64) int {
	if len(values) == 0 {
		return 0
	}
	nonNull := 0
	for _, v := range values {
		if v != nil {
			nonNull++
		}
	}
	return int(math.Round(float64(nonNull) / float64(len(values)) * 100))
}

// total Summe der belegten Werte; nil zählt als 0 und propagiert nicht
func total(values []*float64) float64 {
	sum := 0.0
	for _, v := range values {
		if v != nil {
			sum += *v
		}
	}
	return sum
}

// AverageConfidence mittlere Confidence über alle Feldergebnisse
func AverageConfidence(results map[string]model.FieldResult) float64 {
	if len(results) == 0 {
		return 0
	}
	sum := 0
	for _, r := range results {
		sum += r.Confidence
	}
	return float64(sum) / float64(len(results))
}

func nullSeries(n int) []*float64 {
	return make([]*float64, n)
}
