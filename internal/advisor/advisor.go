package advisor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
	openai "github.com/sashabaranov/go-openai"

	"eksfiller/internal/config"
	"eksfiller/internal/model"
)

// Suggestion Zuordnungsvorschlag des Sprachmodells für ein nicht
// zugeordnetes Konto
type Suggestion struct {
	AccountCode string  `json:"accountCode"`
	TargetField string  `json:"targetField"`
	Rationale   string  `json:"rationale"`
	Confidence  float64 `json:"confidence"`
}

// Advisor fragt ein OpenAI-kompatibles Sprachmodell nach
// Zuordnungsvorschlägen. Rein beratend: ein Versuch, kurzer Timeout,
// kein Retry. Fehler werden vom Aufrufer zu einem Statustext reduziert
// und erreichen nie den Extraktionspfad.
type Advisor struct {
	client  *openai.Client
	model   string
	timeout time.Duration
}

// New erstellt den Advisor aus der Konfiguration; nil wenn der Dienst
// deaktiviert ist oder kein API-Schlüssel vorliegt
func New(cfg config.AdvisorConfig) *Advisor {
	if !cfg.Enabled || cfg.APIKey == "" {
		return nil
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	return &Advisor{
		client:  openai.NewClientWithConfig(clientCfg),
		model:   cfg.Model,
		timeout: timeout,
	}
}

// Suggest holt Vorschläge für die übergebenen Konten. fields ist das
// geschlossene EKS-Feldvokabular; Vorschläge außerhalb davon werden
// verworfen.
func (a *Advisor) Suggest(ctx context.Context, accounts []model.UnmappedAccount, fields []string) ([]Suggestion, error) {
	if a == nil {
		return nil, errors.New("advisor not configured")
	}
	if len(accounts) == 0 {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       a.model,
		Temperature: 0.1,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleSystem,
				Content: "Du bist Experte für deutsche Buchhaltung (SKR03/SKR04) und das EKS-Formular " +
					"(Einkommenserklärung für Selbständige). Antworte ausschließlich mit einem JSON-Array.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: buildPrompt(accounts, fields),
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("suggestion request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("empty suggestion response")
	}

	suggestions, err := parseSuggestions(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}
	return filterKnownFields(suggestions, fields), nil
}

// buildPrompt baut die Anfrage: Kontenliste mit Summen plus erlaubtes
// Feldvokabular
func buildPrompt(accounts []model.UnmappedAccount, fields []string) string {
	var b strings.Builder
	b.WriteString("Folgende BWA-Konten sind keinem EKS-Feld zugeordnet:\n\n")
	for _, acc := range accounts {
		total := 0.0
		for _, v := range acc.Values {
			total += v
		}
		fmt.Fprintf(&b, "- Konto %s (%s), Summe %.2f EUR\n", acc.AccountCode, acc.Description, total)
	}
	b.WriteString("\nErlaubte EKS-Felder: ")
	b.WriteString(strings.Join(fields, ", "))
	b.WriteString("\n\nSchlage je Konto höchstens ein Feld vor. Antworte als JSON-Array von Objekten mit " +
		`den Schlüsseln "accountCode", "targetField", "rationale" (kurz, deutsch) und "confidence" (0-1). ` +
		"Lass Konten weg, die in kein Feld gehören.")
	return b.String()
}

// parseSuggestions parst die Modellantwort. Sprachmodelle liefern häufig
// leicht defektes JSON (Markdown-Zäune, einfache Anführungszeichen);
// die Antwort wird daher vor dem Unmarshal repariert.
func parseSuggestions(raw string) ([]Suggestion, error) {
	repaired, err := jsonrepair.RepairJSON(raw)
	if err != nil {
		return nil, fmt.Errorf("malformed suggestion response: %w", err)
	}

	var suggestions []Suggestion
	if err := json.Unmarshal([]byte(repaired), &suggestions); err != nil {
		// manche Modelle liefern ein einzelnes Objekt statt eines Arrays
		var single Suggestion
		if err2 := json.Unmarshal([]byte(repaired), &single); err2 == nil && single.AccountCode != "" {
			return []Suggestion{single}, nil
		}
		return nil, fmt.Errorf("unexpected suggestion format: %w", err)
	}
	return suggestions, nil
}

// filterKnownFields verwirft Vorschläge außerhalb des Feldvokabulars
func filterKnownFields(suggestions []Suggestion, fields []string) []Suggestion {
	known := make(map[string]bool, len(fields))
	for _, f := range fields {
		known[f] = true
	}

	var out []Suggestion
	for _, s := range suggestions {
		if s.AccountCode == "" || !known[s.TargetField] {
			continue
		}
		out = append(out, s)
	}
	return out
}
