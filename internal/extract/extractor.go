package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// NotSpecified is the sentinel for a field the message did not provide.
// It is distinct from the empty string: collaborators treat both as "no
// value" but the sentinel is what crosses the extraction boundary.
const NotSpecified = "Not specified"

// Extraction is the structured result of pulling booking data out of one
// free-text message. Each field is either a value or NotSpecified.
type Extraction struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	DatePhrase string `json:"date"`
}

// Completer is the language-completion provider used for the primary
// extraction path.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userMessage string) (string, error)
	IsConfigured() bool
}

// Extractor turns a message plus its detected language into an Extraction.
// The provider path is best-effort: any failure falls through to the
// deterministic fallback, never to the caller.
type Extractor struct {
	completer Completer
	loc       *time.Location
	now       func() time.Time
}

func New(completer Completer, loc *time.Location) *Extractor {
	if loc == nil {
		loc = time.UTC
	}
	return &Extractor{
		completer: completer,
		loc:       loc,
		now:       time.Now,
	}
}

// SetNowFunc overrides the clock, used by tests.
func (e *Extractor) SetNowFunc(now func() time.Time) {
	e.now = now
}

var languageNames = map[string]string{
	"es": "Spanish",
	"en": "English",
	"fr": "French",
	"de": "German",
	"it": "Italian",
	"pt": "Portuguese",
}

// Extract runs the primary provider path with the deterministic fallback.
func (e *Extractor) Extract(ctx context.Context, message, lang string) Extraction {
	if e.completer == nil || !e.completer.IsConfigured() {
		return e.Fallback(message)
	}

	raw, err := e.completer.Complete(ctx, buildSystemPrompt(lang), "User message: "+message)
	if err != nil {
		fmt.Printf("Extraction provider error, using fallback: %v\n", err)
		return e.Fallback(message)
	}

	parsed, err := parseExtraction(raw)
	if err != nil {
		fmt.Printf("Extraction parse error, using fallback: %v\n", err)
		return e.Fallback(message)
	}
	return parsed
}

func buildSystemPrompt(lang string) string {
	langName := languageNames[lang]
	if langName == "" {
		langName = lang
	}

	return fmt.Sprintf(`You are an assistant specialized in extracting appointment booking data.

INSTRUCTIONS:
- Analyze the user's message and extract ONLY data that is clearly provided
- Always respond in %s
- If a piece of data is unclear or absent, answer "Not specified"
- Do NOT invent information
- If the user mentions a specific time (e.g. "12 PM", "3 PM", "14:00"), INCLUDE IT IN THE "date" FIELD

DATA TO EXTRACT:
1. "name": the user's full name (first and last name)
2. "email": a valid email address
3. "date": when they want the appointment (e.g. "tomorrow at 12 PM", "Monday 10 AM", "25 November 2026 14:00")

RESPONSE FORMAT:
Reply ONLY with valid JSON and no additional text:
{
    "name": "extracted_value_or_Not_specified",
    "email": "extracted_value_or_Not_specified",
    "date": "extracted_value_or_Not_specified"
}`, langName)
}

// providerFields accepts both the canonical keys and the legacy
// Spanish-keyed form some prompts produce.
type providerFields struct {
	Name   string `json:"name"`
	Nombre string `json:"nombre"`
	Email  string `json:"email"`
	Date   string `json:"date"`
	Fecha  string `json:"fecha"`
}

func parseExtraction(raw string) (Extraction, error) {
	jsonStr := extractJSON(raw)

	var fields providerFields
	if err := json.Unmarshal([]byte(jsonStr), &fields); err != nil {
		return Extraction{}, fmt.Errorf("failed to parse extraction JSON: %w (response: %s)", err, raw)
	}

	ex := Extraction{
		Name:       firstNonEmpty(fields.Name, fields.Nombre),
		Email:      fields.Email,
		DatePhrase: firstNonEmpty(fields.Date, fields.Fecha),
	}
	if ex.Name == "" {
		ex.Name = NotSpecified
	}
	if ex.Email == "" {
		ex.Email = NotSpecified
	}
	if ex.DatePhrase == "" {
		ex.DatePhrase = NotSpecified
	}
	return ex, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// extractJSON pulls a JSON object out of a response that might be wrapped
// in markdown or surrounding prose.
func extractJSON(text string) string {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return text
	}

	depth := 0
	for i := start; i < len(text); i++ {
		switch text[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1]
			}
		}
	}
	return text[start:]
}

// Clean normalizes an extracted field value: sentinel markers and
// whitespace-only values become the empty string.
func Clean(v string) string {
	trimmed := strings.TrimSpace(v)
	switch strings.ToLower(trimmed) {
	case "", "not specified", "no especificado", "unspecified":
		return ""
	}
	return trimmed
}
