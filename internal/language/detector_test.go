package language

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetect_SpanishBookingMessage(t *testing.T) {
	lang := Detect("Hola, quiero una cita mañana a las 3pm, soy Carlos, carlos@x.com")
	assert.Equal(t, "es", lang)
}

func TestDetect_SixLanguages(t *testing.T) {
	cases := map[string]string{
		"hola quisiera agendar una consulta por favor": "es",
		"bonjour je voudrais un rendez vous merci":     "fr",
		"hallo ich möchte einen termin buchen danke":   "de",
		"ciao vorrei prenotare un appuntamento grazie": "it",
		"olá eu gostaria de agendar uma consulta":      "pt",
	}
	for text, want := range cases {
		assert.Equal(t, want, Detect(text), "text: %s", text)
	}
}

func TestDetect_EnglishBookingIntentWins(t *testing.T) {
	// "cita" is Spanish but the English high-priority phrase "appointment"
	// short-circuits the scoring.
	assert.Equal(t, "en", Detect("necesito una cita, I want an appointment"))
}

func TestDetect_NamesOnlyReturnsEnglish(t *testing.T) {
	assert.Equal(t, "en", Detect("Carlos"))
	assert.Equal(t, "en", Detect("Maria Jose"))
	assert.Equal(t, "en", Detect("carlos luis diego mario"))
}

func TestDetect_NamesDoNotBiasScoring(t *testing.T) {
	// Strip names before scoring: "francesco mario antonio" must not push
	// the result toward Italian.
	assert.Equal(t, "es", Detect("hola gracias francesco mario antonio quisiera cita"))
}

func TestDetect_FallbackToEnglish(t *testing.T) {
	assert.Equal(t, "en", Detect(""))
	assert.Equal(t, "en", Detect("   "))
	assert.Equal(t, "en", Detect("zzz"))       // shorter than 5 chars
	assert.Equal(t, "en", Detect("12345 ???")) // zero score
}

func TestDetect_TieBreakIsEnumerationOrder(t *testing.T) {
	// "consulta" appears in both the Spanish and Portuguese lists; Spanish
	// is enumerated first and must win the tie.
	assert.Equal(t, "es", Detect("consulta aaaa"))
}

func TestIsSupported(t *testing.T) {
	for _, code := range Supported {
		assert.True(t, IsSupported(code))
	}
	assert.False(t, IsSupported("ru"))
	assert.False(t, IsSupported(""))
}
