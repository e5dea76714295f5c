// Package i18n resolves localized dashboard messages from embedded YAML catalogs.
package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"agentconsole/pkg/interfaces"

	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

//go:embed locales/*.yaml
var localesFS embed.FS

// Bundle message catalogs for every supported language
type Bundle struct {
	bundle   *goi18n.Bundle
	fallback language.Tag
}

// NewBundle loads the embedded catalogs. defaultLanguage is used when no requested language matches.
func NewBundle(defaultLanguage string) (*Bundle, error) {
	tag, err := language.Parse(defaultLanguage)
	if err != nil {
		return nil, fmt.Errorf("invalid default language %q: %w", defaultLanguage, err)
	}

	b := goi18n.NewBundle(tag)
	b.RegisterUnmarshalFunc("yaml", yaml.Unmarshal)

	entries, err := fs.ReadDir(localesFS, "locales")
	if err != nil {
		return nil, fmt.Errorf("failed to read locales: %w", err)
	}
	for _, entry := range entries {
		name := path.Join("locales", entry.Name())
		data, err := localesFS.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", name, err)
		}
		if _, err := b.ParseMessageFileBytes(data, name); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", name, err)
		}
	}

	return &Bundle{bundle: b, fallback: tag}, nil
}

// Languages returns the languages with a loaded catalog
func (b *Bundle) Languages() []string {
	tags := b.bundle.LanguageTags()
	langs := make([]string, len(tags))
	for i, t := range tags {
		langs[i] = t.String()
	}
	return langs
}

// Localizer returns a localizer for the given preferences.
// Each entry may be a language tag or a full Accept-Language header value.
func (b *Bundle) Localizer(langs ...string) *Localizer {
	return &Localizer{localizer: goi18n.NewLocalizer(b.bundle, append(langs, b.fallback.String())...)}
}

// Localizer resolves messages for one set of language preferences
type Localizer struct {
	localizer *goi18n.Localizer
}

var _ interfaces.Localizer = (*Localizer)(nil)

// Resolve returns the message for id, falling back to defaultText rendered with params
func (l *Localizer) Resolve(id, defaultText string, params map[string]interface{}) string {
	msg, err := l.localizer.Localize(&goi18n.LocalizeConfig{
		DefaultMessage: &goi18n.Message{ID: id, Other: defaultText},
		TemplateData:   params,
	})
	if err != nil && msg == "" {
		return render(defaultText, params)
	}
	return msg
}

// render substitutes {{.key}} placeholders without template evaluation
func render(text string, params map[string]interface{}) string {
	for k, v := range params {
		text = strings.ReplaceAll(text, "{{."+k+"}}", fmt.Sprint(v))
	}
	return text
}
