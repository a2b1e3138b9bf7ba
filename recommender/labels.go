package recommender

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Language selects which instructions column is shown.
type Language string

const (
	English Language = "English"
	Hindi   Language = "Hindi"
	Telugu  Language = "Telugu"
)

var (
	supportedLanguages = []Language{English, Hindi, Telugu}
	languageTags       = []language.Tag{language.English, language.Hindi, language.Make("te")}
	languageMatcher    = language.NewMatcher(languageTags)
)

// Languages returns the supported languages in selector order.
func Languages() []Language {
	return append([]Language(nil), supportedLanguages...)
}

// Tag returns the BCP 47 tag of the language.
func (l Language) Tag() language.Tag {
	for i, lang := range supportedLanguages {
		if lang == l {
			return languageTags[i]
		}
	}
	return language.Und
}

// NativeName returns the language name written in the language itself.
func (l Language) NativeName() string {
	tag := l.Tag()
	if tag == language.Und {
		return string(l)
	}
	return display.Self.Name(tag)
}

// Valid reports whether l is one of the supported languages.
func (l Language) Valid() bool {
	return l.Tag() != language.Und
}

// ParseLanguage accepts an English name ("Hindi"), a native name ("తెలుగు")
// or a BCP 47 tag ("hi", "te-IN"). Related languages such as Marathi are rejected.
func ParseLanguage(s string) (Language, error) {
	trimmed := NormalizeText(s)
	if trimmed == "" {
		return "", fmt.Errorf("%w: empty selection", ErrUnknownLanguage)
	}
	for _, lang := range supportedLanguages {
		if strings.EqualFold(trimmed, string(lang)) || trimmed == NormalizeText(lang.NativeName()) {
			return lang, nil
		}
	}
	tag, err := language.Parse(trimmed)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrUnknownLanguage, s)
	}
	// Low confidence pairs a neighboring language with one we support,
	// e.g. Marathi with Hindi.
	_, idx, conf := languageMatcher.Match(tag)
	if conf < language.High {
		return "", fmt.Errorf("%w: %q", ErrUnknownLanguage, s)
	}
	return supportedLanguages[idx], nil
}

// FitnessLevel is the user's self-reported level. It is carried through a
// recommendation but does not change which poses are selected.
type FitnessLevel string

const (
	Beginner     FitnessLevel = "Beginner"
	Intermediate FitnessLevel = "Intermediate"
	Advanced     FitnessLevel = "Advanced"
)

var fitnessLevels = []FitnessLevel{Beginner, Intermediate, Advanced}

// FitnessLevels returns the selectable levels in order.
func FitnessLevels() []FitnessLevel {
	return append([]FitnessLevel(nil), fitnessLevels...)
}

// ParseFitnessLevel matches a level name case-insensitively.
func ParseFitnessLevel(s string) (FitnessLevel, error) {
	trimmed := strings.TrimSpace(s)
	for _, lvl := range fitnessLevels {
		if strings.EqualFold(trimmed, string(lvl)) {
			return lvl, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFitness, s)
}

// PainLabelEntry is a canonical pain area with its name in each language.
type PainLabelEntry struct {
	Canonical string
	Names     map[Language]string
}

// DefaultPainLabels returns the built-in dictionary of pain areas.
func DefaultPainLabels() []PainLabelEntry {
	return []PainLabelEntry{
		{Canonical: "Neck", Names: map[Language]string{English: "Neck", Hindi: "गर्दन", Telugu: "మెడ"}},
		{Canonical: "Shoulders", Names: map[Language]string{English: "Shoulders", Hindi: "कंधे", Telugu: "భుజాలు"}},
		{Canonical: "Back", Names: map[Language]string{English: "Back", Hindi: "पीठ", Telugu: "వెనుక భాగం"}},
		{Canonical: "Lower Back", Names: map[Language]string{English: "Lower Back", Hindi: "निचली पीठ", Telugu: "తక్కువ వెన్ను"}},
		{Canonical: "Hips", Names: map[Language]string{English: "Hips", Hindi: "कूल्हे", Telugu: "నితంబాలు"}},
		{Canonical: "Knees", Names: map[Language]string{English: "Knees", Hindi: "घुटने", Telugu: "మోకాళ్లు"}},
		{Canonical: "Legs", Names: map[Language]string{English: "Legs", Hindi: "पैर", Telugu: "కాళ్లు"}},
		{Canonical: "Spine", Names: map[Language]string{English: "Spine", Hindi: "रीढ़", Telugu: "స్పైన్"}},
		{Canonical: "Full Body", Names: map[Language]string{English: "Full Body", Hindi: "पूरा शरीर", Telugu: "పూర్తి శరీరం"}},
	}
}

// labelIndex maps the folded form of every localized name to its canonical label.
var labelIndex = buildLabelIndex(DefaultPainLabels())

func buildLabelIndex(entries []PainLabelEntry) map[string]PainLabelEntry {
	idx := make(map[string]PainLabelEntry, len(entries)*len(supportedLanguages))
	for _, e := range entries {
		idx[foldKey(e.Canonical)] = e
		for _, name := range e.Names {
			idx[foldKey(name)] = e
		}
	}
	return idx
}

// LocalizedPainLabels lists the built-in pain areas as written in lang.
func LocalizedPainLabels(lang Language) []string {
	entries := DefaultPainLabels()
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		if name, ok := e.Names[lang]; ok {
			out = append(out, name)
			continue
		}
		out = append(out, e.Canonical)
	}
	return out
}

// CanonicalLabel maps a pain area written in any supported language back to
// its canonical English label.
func CanonicalLabel(s string) (string, bool) {
	e, ok := labelIndex[foldKey(s)]
	if !ok {
		return "", false
	}
	return e.Canonical, true
}

// LocalizeLabel returns label as written in lang. Unknown labels are returned unchanged.
func LocalizeLabel(label string, lang Language) string {
	e, ok := labelIndex[foldKey(label)]
	if !ok {
		return label
	}
	if name, ok := e.Names[lang]; ok {
		return name
	}
	return e.Canonical
}

// InstructionsHeading is the bold label placed before the instructions.
func InstructionsHeading(lang Language) string {
	switch lang {
	case Hindi:
		return "निर्देश:"
	case Telugu:
		return "సూచనలు:"
	default:
		return "Instructions:"
	}
}
