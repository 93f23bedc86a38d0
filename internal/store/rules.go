package store

// RuleOverride gespeicherte Regelkorrektur: Zielfeld → direkte Quellreferenz.
// Wird beim Start auf die eingebaute Regeltabelle angewendet, damit
// Korrekturen Neustarts überleben.
type RuleOverride struct {
	TargetField string `json:"targetField"`
	Reference   string `json:"reference"`
	Description string `json:"description"`
}

// SaveRuleOverride speichert oder ersetzt die Korrektur eines Zielfeldes
func (s *Store) SaveRuleOverride(o RuleOverride) error {
	_, err := s.db.Exec(`
		INSERT INTO rule_overrides (target_field, reference, description)
		VALUES (?, ?, ?)
		ON CONFLICT(target_field) DO UPDATE SET
			reference = excluded.reference,
			description = excluded.description,
			updated_at = CURRENT_TIMESTAMP
	`, o.TargetField, o.Reference, o.Description)
	return err
}

// ListRuleOverrides alle gespeicherten Korrekturen in Feldreihenfolge
func (s *Store) ListRuleOverrides() ([]RuleOverride, error) {
	rows, err := s.db.Query(`
		SELECT target_field, reference, description
		FROM rule_overrides ORDER BY target_field
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var overrides []RuleOverride
	for rows.Next() {
		var o RuleOverride
		if err := rows.Scan(&o.TargetField, &o.Reference, &o.Description); err != nil {
			return nil, err
		}
		overrides = append(overrides, o)
	}
	return overrides, rows.Err()
}
