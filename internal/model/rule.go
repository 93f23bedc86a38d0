package model

// Strategy Berechnungsart einer Zuordnungsregel
type Strategy string

const (
	StrategyDirect Strategy = "direct" // ein Quellkonto, erste Fundstelle
	StrategySum    Strategy = "sum"    // Summe über mehrere Quellkonten
)

// MappingRule Zuordnung eines EKS-Feldes auf BWA-Quellen.
// Bei StrategyDirect ist SourceRefs[0] der maßgebliche Suchbegriff,
// weitere Einträge bleiben aus historischen Regelständen erhalten.
// Bei StrategySum werden alle SourceRefs unabhängig gesucht und addiert.
type MappingRule struct {
	TargetField string   `json:"targetField"`
	SourceLabel string   `json:"sourceLabel"`
	SourceRefs  []string `json:"sourceRefs"`
	Strategy    Strategy `json:"strategy"`
	Description string   `json:"description"`
}

// FieldResult Extraktionsergebnis für ein EKS-Feld.
// Values ist immer genauso lang wie die aktive Monatsfolge.
type FieldResult struct {
	TargetField string     `json:"targetField"`
	Values      []*float64 `json:"values"`
	Months      []Month    `json:"months"`
	Confidence  int        `json:"confidence"`
	Total       float64    `json:"total"`
	Source      string     `json:"source"`
	Description string     `json:"description"`
}

// UnmappedAccount BWA-Konto mit Werten, das von keiner Regel beansprucht wird.
// Values enthält die ersten sechs verfügbaren Monate, fehlende Werte als 0.
type UnmappedAccount struct {
	AccountCode string    `json:"accountCode"`
	Description string    `json:"description"`
	Values      []float64 `json:"values"`
}
