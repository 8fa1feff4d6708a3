package mentor

import (
	"embed"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// BaseLocale is the canonical source locale for phrase catalogs.
const BaseLocale = "en-US"

// NeutralMentor is the default personality every lookup falls back to.
const NeutralMentor = "neutral"

//go:embed locales/*/*.yaml
var embeddedPhraseFS embed.FS

type phraseFile struct {
	Locale   string
	Mentor   string
	Messages map[string]string
}

// PhraseTable is the immutable (mentor, atom, intensity) phrase lookup for
// all loaded locales. Entries are validated against the closed atom and
// intensity vocabularies at load time.
type PhraseTable struct {
	// locale -> mentor -> "atom.intensity" -> phrase
	locales map[string]map[string]map[string]string
}

// LoadEmbeddedPhrases loads the phrase catalogs embedded in this package.
func LoadEmbeddedPhrases() (*PhraseTable, error) {
	return LoadPhrasesFromFS(embeddedPhraseFS)
}

// LoadPhrasesFromFS loads phrase catalog files from the given filesystem.
func LoadPhrasesFromFS(phraseFS fs.FS) (*PhraseTable, error) {
	paths, err := fs.Glob(phraseFS, "locales/*/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("glob phrase catalogs: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no phrase catalog files found")
	}
	sort.Strings(paths)

	table := &PhraseTable{locales: map[string]map[string]map[string]string{}}
	for _, path := range paths {
		data, err := fs.ReadFile(phraseFS, path)
		if err != nil {
			return nil, fmt.Errorf("read phrase catalog %s: %w", path, err)
		}
		parsed, err := parsePhraseFile(data)
		if err != nil {
			return nil, fmt.Errorf("parse phrase catalog %s: %w", path, err)
		}
		if err := table.addFile(path, parsed); err != nil {
			return nil, err
		}
	}

	if !table.HasLocale(BaseLocale) {
		return nil, fmt.Errorf("base locale %s is not defined in phrase catalogs", BaseLocale)
	}
	if _, ok := table.locales[BaseLocale][NeutralMentor]; !ok {
		return nil, fmt.Errorf("neutral mentor catalog is required for locale %s", BaseLocale)
	}

	return table, nil
}

func (t *PhraseTable) addFile(path string, file phraseFile) error {
	localeFromPath := filepath.Base(filepath.Dir(path))
	mentorFromPath := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	locale := strings.TrimSpace(file.Locale)
	if locale == "" {
		return fmt.Errorf("phrase catalog %s: locale is required", path)
	}
	if locale != localeFromPath {
		return fmt.Errorf("phrase catalog %s: locale %q must match path locale %q", path, locale, localeFromPath)
	}

	mentorID := strings.TrimSpace(file.Mentor)
	if mentorID == "" {
		return fmt.Errorf("phrase catalog %s: mentor is required", path)
	}
	if mentorID != mentorFromPath {
		return fmt.Errorf("phrase catalog %s: mentor %q must match filename mentor %q", path, mentorID, mentorFromPath)
	}

	mentors, ok := t.locales[locale]
	if !ok {
		mentors = map[string]map[string]string{}
		t.locales[locale] = mentors
	}
	if _, exists := mentors[mentorID]; exists {
		return fmt.Errorf("phrase catalog %s: mentor %q already defined for locale %q", path, mentorID, locale)
	}

	phrases := make(map[string]string, len(file.Messages))
	for key, value := range file.Messages {
		atom, intensity, err := splitPhraseKey(key)
		if err != nil {
			return fmt.Errorf("phrase catalog %s: %w", path, err)
		}
		if !ValidAtom(atom) {
			return fmt.Errorf("phrase catalog %s: unknown atom %q", path, atom)
		}
		if !ValidIntensity(intensity) {
			return fmt.Errorf("phrase catalog %s: unknown intensity %q in key %q", path, intensity, key)
		}
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("phrase catalog %s: blank phrase for key %q", path, key)
		}
		phrases[key] = value
	}
	if len(phrases) == 0 {
		return fmt.Errorf("phrase catalog %s: no phrases defined", path)
	}

	mentors[mentorID] = phrases
	return nil
}

func splitPhraseKey(key string) (Atom, Intensity, error) {
	trimmed := strings.TrimSpace(key)
	dot := strings.LastIndex(trimmed, ".")
	if dot <= 0 || dot == len(trimmed)-1 {
		return "", "", fmt.Errorf("phrase key %q must be atom.intensity", key)
	}
	return Atom(trimmed[:dot]), Intensity(trimmed[dot+1:]), nil
}

// HasLocale reports whether the locale exists in the table.
func (t *PhraseTable) HasLocale(locale string) bool {
	if t == nil {
		return false
	}
	_, ok := t.locales[strings.TrimSpace(locale)]
	return ok
}

// Locales returns all loaded locale identifiers, sorted.
func (t *PhraseTable) Locales() []string {
	if t == nil {
		return nil
	}
	out := make([]string, 0, len(t.locales))
	for locale := range t.locales {
		out = append(out, locale)
	}
	sort.Strings(out)
	return out
}

// Phrase returns the phrase for (mentor, atom, intensity) in one locale,
// with no fallback applied.
func (t *PhraseTable) Phrase(locale, mentorID string, atom Atom, intensity Intensity) (string, bool) {
	if t == nil {
		return "", false
	}
	mentors, ok := t.locales[strings.TrimSpace(locale)]
	if !ok {
		return "", false
	}
	phrases, ok := mentors[strings.TrimSpace(mentorID)]
	if !ok {
		return "", false
	}
	value, ok := phrases[string(atom)+"."+string(intensity)]
	return value, ok
}

func parsePhraseFile(data []byte) (phraseFile, error) {
	lines := strings.Split(string(data), "\n")
	out := phraseFile{Messages: map[string]string{}}
	state := ""

	for _, rawLine := range lines {
		line := strings.TrimSpace(rawLine)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		switch {
		case strings.HasPrefix(line, "locale:"):
			value, err := parseQuotedValue(strings.TrimSpace(strings.TrimPrefix(line, "locale:")))
			if err != nil {
				return phraseFile{}, fmt.Errorf("parse locale: %w", err)
			}
			out.Locale = value
		case strings.HasPrefix(line, "mentor:"):
			value, err := parseQuotedValue(strings.TrimSpace(strings.TrimPrefix(line, "mentor:")))
			if err != nil {
				return phraseFile{}, fmt.Errorf("parse mentor: %w", err)
			}
			out.Mentor = value
		case line == "phrases:":
			state = "phrases"
		default:
			if state != "phrases" {
				return phraseFile{}, fmt.Errorf("unexpected line %q", line)
			}
			key, value, err := parsePhraseEntry(line)
			if err != nil {
				return phraseFile{}, fmt.Errorf("parse phrase entry %q: %w", line, err)
			}
			if _, exists := out.Messages[key]; exists {
				return phraseFile{}, fmt.Errorf("duplicate phrase key %q", key)
			}
			out.Messages[key] = value
		}
	}

	if out.Locale == "" {
		return phraseFile{}, fmt.Errorf("missing locale")
	}
	if out.Mentor == "" {
		return phraseFile{}, fmt.Errorf("missing mentor")
	}
	if len(out.Messages) == 0 {
		return phraseFile{}, fmt.Errorf("missing phrases")
	}

	return out, nil
}

func parsePhraseEntry(line string) (string, string, error) {
	keyToken, rest, err := splitQuotedToken(line)
	if err != nil {
		return "", "", err
	}
	key, err := strconv.Unquote(keyToken)
	if err != nil {
		return "", "", fmt.Errorf("unquote key: %w", err)
	}

	rest = strings.TrimSpace(rest)
	if !strings.HasPrefix(rest, ":") {
		return "", "", fmt.Errorf("missing ':' separator")
	}
	valueToken := strings.TrimSpace(strings.TrimPrefix(rest, ":"))
	value, err := parseQuotedValue(valueToken)
	if err != nil {
		return "", "", fmt.Errorf("unquote value: %w", err)
	}
	return key, value, nil
}

func parseQuotedValue(value string) (string, error) {
	trimmed := strings.TrimSpace(value)
	parsed, err := strconv.Unquote(trimmed)
	if err != nil {
		return "", err
	}
	return parsed, nil
}

func splitQuotedToken(line string) (string, string, error) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "\"") {
		return "", "", fmt.Errorf("expected quoted token")
	}
	escaped := false
	for i := 1; i < len(trimmed); i++ {
		ch := trimmed[i]
		if escaped {
			escaped = false
			continue
		}
		if ch == '\\' {
			escaped = true
			continue
		}
		if ch == '"' {
			return trimmed[:i+1], trimmed[i+1:], nil
		}
	}
	return "", "", fmt.Errorf("unterminated quoted token")
}
