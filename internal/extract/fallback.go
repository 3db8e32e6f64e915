package extract

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/rmateos/bookline/internal/timeutil"
)

var emailPattern = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)

// Fallback extracts booking data with deterministic rules only. It is used
// when the completion provider is unavailable or returns garbage.
func (e *Extractor) Fallback(message string) Extraction {
	ex := Extraction{
		Name:       NotSpecified,
		Email:      NotSpecified,
		DatePhrase: NotSpecified,
	}

	if email := emailPattern.FindString(message); email != "" {
		ex.Email = email
	}

	if name := fallbackName(message); name != "" {
		ex.Name = name
	}

	if phrase := e.fallbackDatePhrase(message); phrase != "" {
		ex.DatePhrase = phrase
	}

	return ex
}

// fallbackName takes the first three capitalized tokens anywhere in the
// message, skipping numbers and email addresses. Sentence-initial words are
// accepted as-is; the provider path is the precise one.
func fallbackName(message string) string {
	var picked []string
	for _, tok := range strings.Fields(message) {
		tok = strings.Trim(tok, ".,!?;:()\"")
		if tok == "" || strings.Contains(tok, "@") {
			continue
		}
		if !looksLikeNameToken(tok) {
			continue
		}
		picked = append(picked, tok)
		if len(picked) == 3 {
			break
		}
	}
	return strings.Join(picked, " ")
}

func looksLikeNameToken(tok string) bool {
	runes := []rune(tok)
	if !unicode.IsUpper(runes[0]) {
		return false
	}
	for _, r := range runes[1:] {
		if !unicode.IsLetter(r) && r != '-' && r != '\'' {
			return false
		}
	}
	return true
}

// fallbackDatePhrase rebuilds a normalized-looking phrase from the message.
// Relative keywords win over absolute dates: "tomorrow at 15:00" survives as
// a phrase the normalizer understands in any of the supported languages.
func (e *Extractor) fallbackDatePhrase(message string) string {
	hour, minute, hasTime := timeutil.ExtractClockTime(message)

	switch {
	case timeutil.HasTomorrowWord(message):
		if hasTime {
			return fmt.Sprintf("tomorrow at %02d:%02d", hour, minute)
		}
		return "tomorrow"
	case timeutil.HasTodayWord(message):
		if hasTime {
			return fmt.Sprintf("today at %02d:%02d", hour, minute)
		}
		return "today"
	}

	if t, err := timeutil.NormalizeTime(message, e.loc, e.now()); err == nil {
		return t.Format("2006-01-02 15:04")
	}
	return ""
}
