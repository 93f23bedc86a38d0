package mapping

import "eksfiller/internal/model"

// defaultRules eingebaute Zuordnungstabelle EKS-Feld → BWA-Quellen.
// Die Feldcodes sind das feste Vokabular des EKS-Formulars und müssen mit
// der Positionstabelle des Exporters übereinstimmen.
var defaultRules = []model.MappingRule{
	// Abschnitt A - Betriebseinnahmen
	{TargetField: "A1", SourceLabel: "Summe Erlöse", SourceRefs: []string{"Summe Erlöse"}, Strategy: model.StrategyDirect, Description: "Betriebseinnahmen"},
	{TargetField: "A5", SourceLabel: "Summe Umsatzsteuer", SourceRefs: []string{"Summe Umsatzsteuer"}, Strategy: model.StrategyDirect, Description: "Vereinnahmte Umsatzsteuer"},
	{TargetField: "A7", SourceLabel: "Ust-Erstattung", SourceRefs: []string{"Ust-Erstattung"}, Strategy: model.StrategyDirect, Description: "vom Finanzamt erstattete Umsatzsteuer"},

	// Abschnitt B - Betriebsausgaben
	{TargetField: "B1", SourceLabel: "Wareneinkauf", SourceRefs: []string{"5400", "Summe Material, Stoffe, Waren"}, Strategy: model.StrategySum, Description: "Wareneinkauf"},
	{TargetField: "B2c", SourceLabel: "6030", SourceRefs: []string{"6030", "6036", "6171"}, Strategy: model.StrategyDirect, Description: "geringfügig Beschäftigte"},
	{TargetField: "B3", SourceLabel: "Miete + Energie", SourceRefs: []string{"6310", "6325"}, Strategy: model.StrategySum, Description: "Raumkosten (Miete und Energiekosten)"},
	{TargetField: "B11", SourceLabel: "6805", SourceRefs: []string{"6805"}, Strategy: model.StrategyDirect, Description: "Telefonkosten"},
	{TargetField: "B14c", SourceLabel: "6855", SourceRefs: []string{"6855"}, Strategy: model.StrategyDirect, Description: "Nebenkosten des Geldverkehrs"},
	{TargetField: "B17", SourceLabel: "Summe Vorsteuer", SourceRefs: []string{"Summe Vorsteuer"}, Strategy: model.StrategyDirect, Description: "gezahlte Vorsteuer"},

	{TargetField: "B10", SourceLabel: "Büromaterial", SourceRefs: []string{"6815", "6800"}, Strategy: model.StrategySum, Description: "Büromaterial plus Porto"},
	{TargetField: "B14e", SourceLabel: "6330", SourceRefs: []string{"6330"}, Strategy: model.StrategyDirect, Description: "Reinigung"},
	{TargetField: "B14f", SourceLabel: "6630", SourceRefs: []string{"6630"}, Strategy: model.StrategyDirect, Description: "Repräsentationskosten"},
	{TargetField: "B14h", SourceLabel: "Sonstige", SourceRefs: []string{"6300", "6850"}, Strategy: model.StrategySum, Description: "sonst. Betriebliche Ausgaben"},

	{TargetField: "B2a", SourceLabel: "Vollzeit", SourceRefs: []string{"6010", "6110", "6120", "6170"}, Strategy: model.StrategySum, Description: "Vollzeitbeschäftigte"},
	{TargetField: "B4", SourceLabel: "Versicherung", SourceRefs: []string{"6400", "6420"}, Strategy: model.StrategySum, Description: "Betriebliche Versicherungen"},
	{TargetField: "B5_1a", SourceLabel: "6570", SourceRefs: []string{"6570"}, Strategy: model.StrategyDirect, Description: "Steuern (Kfz)"},
	{TargetField: "B5_1b", SourceLabel: "6520", SourceRefs: []string{"6520"}, Strategy: model.StrategyDirect, Description: "Versicherung (Kfz)"},
	{TargetField: "B5_1c", SourceLabel: "6530", SourceRefs: []string{"6530"}, Strategy: model.StrategyDirect, Description: "Betriebskosten (Kfz)"},
	{TargetField: "B5_1d", SourceLabel: "6540", SourceRefs: []string{"6540"}, Strategy: model.StrategyDirect, Description: "Reparaturen (Kfz)"},
	{TargetField: "B6", SourceLabel: "6600", SourceRefs: []string{"6600"}, Strategy: model.StrategyDirect, Description: "Maßnahmen"},
	{TargetField: "B7a", SourceLabel: "6670", SourceRefs: []string{"6670"}, Strategy: model.StrategyDirect, Description: "Reisekosten"},
	{TargetField: "B12", SourceLabel: "Beratung", SourceRefs: []string{"6825", "6830"}, Strategy: model.StrategySum, Description: "Beratungskosten"},
	{TargetField: "B14b", SourceLabel: "6835", SourceRefs: []string{"6835"}, Strategy: model.StrategyDirect, Description: "Miete Einrichtung"},
	{TargetField: "B14g", SourceLabel: "6335", SourceRefs: []string{"6335"}, Strategy: model.StrategyDirect, Description: "Instandhaltung betr. Räume"},
	{TargetField: "B14i", SourceLabel: "6640", SourceRefs: []string{"6640"}, Strategy: model.StrategyDirect, Description: "Bewirtungskosten"},
	{TargetField: "B16", SourceLabel: "Tilgung", SourceRefs: []string{"3150", "3160", "3170"}, Strategy: model.StrategySum, Description: "Tilgung Darlehen"},
	{TargetField: "B18", SourceLabel: "3820", SourceRefs: []string{"3820"}, Strategy: model.StrategyDirect, Description: "an Finanzamt gezahlte USt"},
}

// RuleSet geordnete Zuordnungstabelle. Jede Instanz besitzt ihre eigene
// Kopie; Änderungen laufen ausschließlich über Upsert und wirken ab dem
// nächsten Extraktionslauf.
type RuleSet struct {
	rules []model.MappingRule
	index map[string]int
}

// NewRuleSet erstellt eine RuleSet-Kopie aus den übergebenen Regeln
func NewRuleSet(rules []model.MappingRule) *RuleSet {
	rs := &RuleSet{
		rules: make([]model.MappingRule, 0, len(rules)),
		index: make(map[string]int, len(rules)),
	}
	for _, r := range rules {
		rs.put(r)
	}
	return rs
}

// DefaultRules eingebaute Regeltabelle als eigene Kopie
func DefaultRules() *RuleSet {
	return NewRuleSet(defaultRules)
}

func (rs *RuleSet) put(r model.MappingRule) {
	refs := make([]string, len(r.SourceRefs))
	copy(refs, r.SourceRefs)
	r.SourceRefs = refs

	if i, ok := rs.index[r.TargetField]; ok {
		rs.rules[i] = r
		return
	}
	rs.index[r.TargetField] = len(rs.rules)
	rs.rules = append(rs.rules, r)
}

// Rules Regeln in stabiler Reihenfolge (Kopie)
func (rs *RuleSet) Rules() []model.MappingRule {
	out := make([]model.MappingRule, len(rs.rules))
	copy(out, rs.rules)
	return out
}

// Get Regel für ein Zielfeld
func (rs *RuleSet) Get(field string) (model.MappingRule, bool) {
	i, ok := rs.index[field]
	if !ok {
		return model.MappingRule{}, false
	}
	return rs.rules[i], true
}

// Len Anzahl der Regeln
func (rs *RuleSet) Len() int {
	return len(rs.rules)
}

// Upsert ersetzt oder ergänzt die Regel eines Zielfeldes durch eine
// Direktregel mit genau einer Quellreferenz. Löschen ist nicht vorgesehen.
func (rs *RuleSet) Upsert(field, reference, description string) {
	rule := model.MappingRule{
		TargetField: field,
		SourceLabel: reference,
		SourceRefs:  []string{reference},
		Strategy:    model.StrategyDirect,
		Description: description,
	}
	if description == "" {
		if existing, ok := rs.Get(field); ok {
			rule.Description = existing.Description
		}
	}
	rs.put(rule)
}

// References alle Quellreferenzen aller Regeln (inklusive der maßgeblichen
// Direktreferenz), als Menge für den UnmappedAccountFinder
func (rs *RuleSet) References() map[string]bool {
	refs := make(map[string]bool)
	for _, r := range rs.rules {
		for _, ref := range r.SourceRefs {
			refs[ref] = true
		}
		if r.SourceLabel != "" {
			refs[r.SourceLabel] = true
		}
	}
	return refs
}

// TargetFields Feldcodes in Regelreihenfolge (geschlossenes EKS-Vokabular)
func (rs *RuleSet) TargetFields() []string {
	fields := make([]string, 0, len(rs.rules))
	for _, r := range rs.rules {
		fields = append(fields, r.TargetField)
	}
	return fields
}
