package language

import (
	"strings"
)

// Supported language codes, in scoring enumeration order. The order is part
// of the contract: ties are broken by the first language reaching the
// maximum score.
var Supported = []string{"es", "en", "fr", "de", "it", "pt"}

const Default = "en"

// IsSupported reports whether code is one of the six supported languages.
func IsSupported(code string) bool {
	for _, c := range Supported {
		if c == code {
			return true
		}
	}
	return false
}

// highPriorityEnglish are greeting/booking phrases that force an English
// result before any scoring happens. English booking intent wins over all
// other signals.
var highPriorityEnglish = []string{
	"hi", "hello", "hey", "greetings",
	"my name is", "i am", "i'm", "call me",
	"i would like", "i'd like", "i want",
	"appointment", "schedule", "book", "meeting", "demo", "consultation",
	"call back", "phone", "email", "time",
	"today", "tomorrow",
	"monday", "tuesday", "wednesday", "thursday", "friday", "weekend",
	"morning", "afternoon", "evening",
	"thanks", "please",
	"how are you", "how do you do",
	"good morning", "good afternoon", "good evening",
	"want", "would", "like", "thank",
}

var keywordLists = map[string][]string{
	"es": {
		"hola", "gracias", "por favor", "cómo", "qué", "dónde", "cuándo",
		"por qué", "amigo", "amiga", "bien", "muy", "hasta", "luego", "ahora",
		"mi nombre es", "me llamo", "quisiera", "quiero", "cita", "agendar",
		"reunión", "demo", "consulta", "llamada",
	},
	"en": highPriorityEnglish,
	"fr": {
		"bonjour", "merci", "s'il vous plaît", "comment", "quoi", "où",
		"quand", "pourquoi", "ami", "bien", "très", "à bientôt", "maintenant",
		"mon nom est", "je suis", "je voudrais", "rendez", "rdv",
		"consultation", "appel",
	},
	"de": {
		"hallo", "danke", "bitte", "wie", "was", "wo", "wann", "warum",
		"freund", "gut", "sehr", "bis bald", "jetzt", "mein name ist",
		"ich bin", "ich möchte", "termin", "buchen", "meeting", "beratung",
		"anruf",
	},
	"it": {
		"ciao", "grazie", "per favore", "come", "cosa", "dove", "quando",
		"perché", "amico", "bene", "molto", "a presto", "ora", "mi chiamo",
		"sono", "vorrei", "appuntamento", "prenotare", "incontro", "consulta",
		"chiamata",
	},
	"pt": {
		"olá", "obrigado", "por favor", "como", "o que", "onde", "quando",
		"por que", "amigo", "bem", "muito", "até logo", "agora",
		"meu nome é", "eu sou", "eu gostaria", "encontro", "agendar",
		"consulta", "ligação",
	},
}

// commonNames are personal names that must not bias detection. A message
// consisting solely of these tokens is treated as English.
var commonNames = map[string]struct{}{
	"jackson": {}, "james": {}, "john": {}, "mike": {}, "tom": {}, "sam": {},
	"paul": {}, "mark": {}, "luke": {}, "pete": {}, "jamillet": {},
	"jamilet": {}, "maria": {}, "ana": {}, "anna": {}, "clara": {},
	"marta": {}, "martin": {}, "diego": {}, "carlos": {}, "luis": {},
	"jose": {}, "francesco": {}, "mario": {}, "antonio": {}, "roberto": {},
}

// Detect classifies free text into one of the six supported language codes.
// It never fails: empty input, pure-name messages, and zero-signal text all
// fall back to English.
func Detect(text string) string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Default
	}

	lower := strings.ToLower(trimmed)
	words := strings.Fields(lower)

	// Messages that are nothing but personal names carry no language signal.
	if len(words) <= 4 && allNames(words) {
		return Default
	}

	for _, phrase := range highPriorityEnglish {
		if strings.Contains(lower, phrase) {
			return Default
		}
	}

	// Score languages against the text with name tokens stripped out.
	filtered := make([]string, 0, len(words))
	for _, w := range words {
		if _, isName := commonNames[w]; !isName {
			filtered = append(filtered, w)
		}
	}
	filteredText := strings.Join(filtered, " ")

	bestLang := Default
	bestScore := 0
	for _, lang := range Supported {
		score := 0
		for _, kw := range keywordLists[lang] {
			if strings.Contains(filteredText, kw) {
				score++
			}
		}
		if score > bestScore {
			bestScore = score
			bestLang = lang
		}
	}

	if bestScore == 0 || len(trimmed) < 5 {
		return Default
	}
	return bestLang
}

func allNames(words []string) bool {
	if len(words) == 0 {
		return false
	}
	for _, w := range words {
		if _, ok := commonNames[w]; !ok {
			return false
		}
	}
	return true
}
