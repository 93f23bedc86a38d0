package advisor

import (
	"strings"
	"testing"

	"eksfiller/internal/config"
	"eksfiller/internal/model"
)

func TestNewDisabledReturnsNil(t *testing.T) {
	if a := New(config.AdvisorConfig{Enabled: false, APIKey: "sk-test"}); a != nil {
		t.Fatal("deaktiviert muss nil liefern")
	}
	if a := New(config.AdvisorConfig{Enabled: true, APIKey: ""}); a != nil {
		t.Fatal("ohne API-Schlüssel muss nil liefern")
	}
	if a := New(config.AdvisorConfig{Enabled: true, APIKey: "sk-test"}); a == nil {
		t.Fatal("konfiguriert darf nicht nil sein")
	}
}

func TestBuildPrompt(t *testing.T) {
	accounts := []model.UnmappedAccount{
		{AccountCode: "6200", Description: "Fremdleistungen", Values: []float64{100, 200}},
		{AccountCode: "4980", Description: "Betriebsbedarf", Values: []float64{-50}},
	}
	fields := []string{"A1", "B1", "B14h"}

	prompt := buildPrompt(accounts, fields)

	if !strings.Contains(prompt, "Konto 6200 (Fremdleistungen), Summe 300.00 EUR") {
		t.Fatalf("Kontozeile fehlt:\n%s", prompt)
	}
	if !strings.Contains(prompt, "Konto 4980 (Betriebsbedarf), Summe -50.00 EUR") {
		t.Fatalf("negative Summe fehlt:\n%s", prompt)
	}
	if !strings.Contains(prompt, "A1, B1, B14h") {
		t.Fatalf("Feldvokabular fehlt:\n%s", prompt)
	}
}

func TestParseSuggestionsRepairsBrokenJSON(t *testing.T) {
	// Markdown-Zaun und fehlende schließende Klammer, wie Sprachmodelle
	// sie tatsächlich liefern
	raw := "```json\n" +
		`[{"accountCode": "6200", "targetField": "B14h", "rationale": "sonstige Ausgaben", "confidence": 0.8}` +
		"\n```"

	got, err := parseSuggestions(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("Anzahl: got %d, want 1", len(got))
	}
	if got[0].AccountCode != "6200" || got[0].TargetField != "B14h" {
		t.Fatalf("got %+v", got[0])
	}
	if got[0].Confidence != 0.8 {
		t.Fatalf("confidence: got %v", got[0].Confidence)
	}
}

func TestParseSuggestionsSingleObject(t *testing.T) {
	raw := `{"accountCode": "4980", "targetField": "B10", "rationale": "Büromaterial", "confidence": 0.6}`

	got, err := parseSuggestions(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(got) != 1 || got[0].AccountCode != "4980" {
		t.Fatalf("got %+v", got)
	}
}

func TestFilterKnownFields(t *testing.T) {
	suggestions := []Suggestion{
		{AccountCode: "6200", TargetField: "B14h"},
		{AccountCode: "4980", TargetField: "Z99"},
		{AccountCode: "", TargetField: "B14h"},
	}

	got := filterKnownFields(suggestions, []string{"A1", "B14h"})
	if len(got) != 1 {
		t.Fatalf("Anzahl: got %d, want 1", len(got))
	}
	if got[0].AccountCode != "6200" {
		t.Fatalf("got %+v", got[0])
	}
}
