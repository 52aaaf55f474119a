// Package localization provides translated strings for API error messages.
// Translations are JSON files named by language code (e.g. "en.json"),
// shipped embedded in the binary.
package localization

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"
	"sync"

	"github.com/golang/glog"
	"github.com/samber/lo"
	"golang.org/x/text/language"
)

const DefaultLanguage = "en"

//go:embed locales/*.json
var embedded embed.FS

// Localizer holds a map of languages, each with its own map of translation
// keys and values.
type Localizer struct {
	translations map[string]map[string]string
	mu           sync.RWMutex

	// supported[i] is the language code behind the i-th matcher tag.
	supported []string
	matcher   language.Matcher
}

// NewDefault loads the translations bundled with the binary.
func NewDefault() (*Localizer, error) {
	sub, err := fs.Sub(embedded, "locales")
	if err != nil {
		return nil, err
	}
	return NewLocalizer(sub)
}

// NewLocalizer loads every *.json file at the root of fsys.
func NewLocalizer(fsys fs.FS) (*Localizer, error) {
	l := &Localizer{
		translations: make(map[string]map[string]string),
	}

	files, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to read localization directory: %w", err)
	}

	for _, file := range files {
		if file.IsDir() || path.Ext(file.Name()) != ".json" {
			continue
		}

		data, err := fs.ReadFile(fsys, file.Name())
		if err != nil {
			return nil, fmt.Errorf("failed to read localization file %s: %w", file.Name(), err)
		}

		var translations map[string]string
		if err := json.Unmarshal(data, &translations); err != nil {
			return nil, fmt.Errorf("failed to parse localization file %s: %w", file.Name(), err)
		}

		l.translations[strings.TrimSuffix(file.Name(), ".json")] = translations
	}

	l.buildMatcher()
	return l, nil
}

// buildMatcher indexes the loaded languages for Accept-Language matching.
// The default language goes first so that it wins when nothing matches.
func (l *Localizer) buildMatcher() {
	codes := l.Languages()
	if i := slices.Index(codes, DefaultLanguage); i > 0 {
		codes = append([]string{DefaultLanguage}, slices.Delete(codes, i, i+1)...)
	}

	tags := make([]language.Tag, 0, len(codes))
	for _, code := range codes {
		tag, err := language.Parse(code)
		if err != nil {
			glog.Warningf("translation file %q is not named by a language tag: %v", code, err)
			continue
		}
		tags = append(tags, tag)
		l.supported = append(l.supported, code)
	}
	if len(tags) > 0 {
		l.matcher = language.NewMatcher(tags)
	}
}

// GetString returns the string for key in lang, falling back to English
// and finally to the key itself.
func (l *Localizer) GetString(lang, key string) string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if value, ok := l.translations[lang][key]; ok {
		return value
	}
	if value, ok := l.translations[DefaultLanguage][key]; ok {
		return value
	}
	return key
}

// Languages lists the loaded language codes in sorted order.
func (l *Localizer) Languages() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := lo.Keys(l.translations)
	slices.Sort(out)
	return out
}

// PickLanguage chooses the loaded language that best serves an
// Accept-Language header, honoring q-weights, or the default one.
func (l *Localizer) PickLanguage(acceptLanguage string) string {
	if l.matcher == nil || strings.TrimSpace(acceptLanguage) == "" {
		return DefaultLanguage
	}

	desired, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(desired) == 0 {
		return DefaultLanguage
	}

	_, index, confidence := l.matcher.Match(desired...)
	if confidence == language.No {
		return DefaultLanguage
	}
	return l.supported[index]
}
