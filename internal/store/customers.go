package store

import (
	"database/sql"
	"fmt"

	"eksfiller/internal/model"
)

// SaveCustomer legt einen Kunden an oder aktualisiert ihn
func (s *Store) SaveCustomer(c model.Customer) error {
	if c.Code == "" {
		return fmt.Errorf("customer code is empty")
	}
	if c.DefaultTemplate == "" {
		c.DefaultTemplate = "eks_standard.xlsx"
	}
	_, err := s.db.Exec(`
		INSERT INTO customers (code, name, created_date, default_template, notes)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(code) DO UPDATE SET
			name = excluded.name,
			default_template = excluded.default_template,
			notes = excluded.notes
	`, c.Code, c.Name, c.CreatedDate, c.DefaultTemplate, c.Notes)
	return err
}

// GetCustomer lädt einen Kunden über die Kundennummer
func (s *Store) GetCustomer(code string) (*model.Customer, error) {
	var c model.Customer
	err := s.db.QueryRow(`
		SELECT code, name, created_date, default_template, notes
		FROM customers WHERE code = ?
	`, code).Scan(&c.Code, &c.Name, &c.CreatedDate, &c.DefaultTemplate, &c.Notes)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

// ListCustomers alle Kunden sortiert nach Kundennummer
func (s *Store) ListCustomers() ([]model.Customer, error) {
	rows, err := s.db.Query(`
		SELECT code, name, created_date, default_template, notes
		FROM customers ORDER BY code
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var customers []model.Customer
	for rows.Next() {
		var c model.Customer
		if err := rows.Scan(&c.Code, &c.Name, &c.CreatedDate, &c.DefaultTemplate, &c.Notes); err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

// AddHistory hängt einen Verarbeitungseintrag an die Kundenhistorie an
func (s *Store) AddHistory(customerCode string, entry model.HistoryEntry) error {
	_, err := s.db.Exec(`
		INSERT INTO bwa_history (customer_code, file_name, period, processed_date, confidence)
		VALUES (?, ?, ?, ?, ?)
	`, customerCode, entry.FileName, entry.Period, entry.ProcessedDate, entry.Confidence)
	return err
}

// ListHistory Verarbeitungshistorie eines Kunden, neueste zuerst
func (s *Store) ListHistory(customerCode string) ([]model.HistoryEntry, error) {
	rows, err := s.db.Query(`
		SELECT file_name, period, processed_date, confidence
		FROM bwa_history WHERE customer_code = ?
		ORDER BY id DESC
	`, customerCode)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []model.HistoryEntry
	for rows.Next() {
		var e model.HistoryEntry
		if err := rows.Scan(&e.FileName, &e.Period, &e.ProcessedDate, &e.Confidence); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
