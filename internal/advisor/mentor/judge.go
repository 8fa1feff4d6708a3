package mentor

import (
	"strings"

	"golang.org/x/text/language"
)

// Judge renders atom selections into mentor-voiced explanation text.
//
// Lookup falls through three layers per atom: the requested mentor's phrase
// for (atom, intensity), the neutral mentor's phrase for the same key, then
// a generic templated sentence. Rendering never mutates state and never
// fails; a Judge is safe for concurrent use.
type Judge struct {
	table   *PhraseTable
	matcher language.Matcher
	locales []string
}

// NewJudge creates a Judge over the embedded phrase catalogs.
func NewJudge() (*Judge, error) {
	table, err := LoadEmbeddedPhrases()
	if err != nil {
		return nil, err
	}
	return NewJudgeWithTable(table), nil
}

// NewJudgeWithTable creates a Judge over an already-loaded phrase table.
func NewJudgeWithTable(table *PhraseTable) *Judge {
	locales := table.Locales()
	tags := make([]language.Tag, 0, len(locales))
	ordered := make([]string, 0, len(locales))

	// The base locale must be the matcher's first tag so unknown requests
	// resolve to it.
	for _, locale := range locales {
		if locale == BaseLocale {
			tags = append(tags, language.Make(locale))
			ordered = append(ordered, locale)
		}
	}
	for _, locale := range locales {
		if locale == BaseLocale {
			continue
		}
		tags = append(tags, language.Make(locale))
		ordered = append(ordered, locale)
	}

	return &Judge{
		table:   table,
		matcher: language.NewMatcher(tags),
		locales: ordered,
	}
}

// ResolveLocale maps a requested locale to the closest loaded catalog
// locale, defaulting to the base locale.
func (j *Judge) ResolveLocale(requested string) string {
	trimmed := strings.TrimSpace(requested)
	if trimmed == "" {
		return BaseLocale
	}
	tag, err := language.Parse(trimmed)
	if err != nil {
		return BaseLocale
	}
	_, index, _ := j.matcher.Match(tag)
	if index < 0 || index >= len(j.locales) {
		return BaseLocale
	}
	return j.locales[index]
}

// BuildExplanation renders the atoms in the base locale.
func (j *Judge) BuildExplanation(atoms []Atom, mentorID string, intensity Intensity) string {
	return j.Explain(BaseLocale, atoms, mentorID, intensity)
}

// Explain renders the atoms in one resolved locale. Atom phrases are
// concatenated in input order with simple punctuation rules.
func (j *Judge) Explain(locale string, atoms []Atom, mentorID string, intensity Intensity) string {
	resolved := j.ResolveLocale(locale)

	var parts []string
	for _, atom := range atoms {
		parts = append(parts, j.phraseFor(resolved, mentorID, atom, intensity))
	}
	return joinSentences(parts)
}

func (j *Judge) phraseFor(locale, mentorID string, atom Atom, intensity Intensity) string {
	if mentorID != "" && mentorID != NeutralMentor {
		if phrase, ok := j.table.Phrase(locale, mentorID, atom, intensity); ok {
			return phrase
		}
	}
	if phrase, ok := j.table.Phrase(locale, NeutralMentor, atom, intensity); ok {
		return phrase
	}
	if locale != BaseLocale {
		if phrase, ok := j.table.Phrase(BaseLocale, NeutralMentor, atom, intensity); ok {
			return phrase
		}
	}
	return genericPhrase(atom)
}

// genericPhrase is the last-resort rendering for an atom with no catalog
// entry anywhere. It templates the atom label into a plain sentence.
func genericPhrase(atom Atom) string {
	label := strings.ReplaceAll(string(atom), "_", " ")
	if label == "" {
		label = "this choice"
	}
	return "This option reflects " + label + "."
}

func joinSentences(parts []string) string {
	var b strings.Builder
	for _, part := range parts {
		sentence := strings.TrimSpace(part)
		if sentence == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(sentence)
		switch sentence[len(sentence)-1] {
		case '.', '!', '?':
		default:
			b.WriteByte('.')
		}
	}
	return b.String()
}
