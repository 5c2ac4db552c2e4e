package locales

import (
	"embed"
	"encoding/json"
	"fmt"
	"log"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed *.json
var files embed.FS

// Supported lists the languages with a message file, in matcher preference order.
var Supported = []language.Tag{language.English, language.Arabic}

// Catalog resolves message keys to localized text.
type Catalog struct {
	bundle   *i18n.Bundle
	matcher  language.Matcher
	fallback string
	raw      map[string]map[string]string
}

// New loads the embedded message files. fallback is used when no requested language matches.
func New(fallback string) (*Catalog, error) {
	fallbackTag, err := language.Parse(fallback)
	if err != nil {
		return nil, fmt.Errorf("invalid default language %q: %w", fallback, err)
	}

	bundle := i18n.NewBundle(fallbackTag)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	raw := make(map[string]map[string]string, len(Supported))
	for _, tag := range Supported {
		name := tag.String() + ".json"
		if _, err := bundle.LoadMessageFileFS(files, name); err != nil {
			return nil, fmt.Errorf("load %s: %w", name, err)
		}
		data, err := files.ReadFile(name)
		if err != nil {
			return nil, err
		}
		messages := map[string]string{}
		if err := json.Unmarshal(data, &messages); err != nil {
			return nil, fmt.Errorf("decode %s: %w", name, err)
		}
		raw[tag.String()] = messages
	}

	base, _ := fallbackTag.Base()
	if _, ok := raw[base.String()]; !ok {
		return nil, fmt.Errorf("default language %q has no message file", fallback)
	}

	return &Catalog{
		bundle:   bundle,
		matcher:  language.NewMatcher(Supported),
		fallback: base.String(),
		raw:      raw,
	}, nil
}

// Negotiate picks a supported language from an Accept-Language header value.
func (c *Catalog) Negotiate(acceptLanguage string) string {
	if acceptLanguage == "" {
		return c.fallback
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return c.fallback
	}
	_, index, confidence := c.matcher.Match(tags...)
	if confidence == language.No {
		return c.fallback
	}
	return Supported[index].String()
}

// Translate returns the message for key in lang, or the key itself when no message exists.
func (c *Catalog) Translate(lang, key string, data map[string]interface{}) string {
	localizer := i18n.NewLocalizer(c.bundle, lang, c.fallback)
	msg, err := localizer.Localize(&i18n.LocalizeConfig{MessageID: key, TemplateData: data})
	if err != nil && msg == "" {
		log.Printf("⚠️ missing translation %q for %s: %v", key, lang, err)
		return key
	}
	return msg
}

// Raw returns the untranslated message table for lang.
func (c *Catalog) Raw(lang string) (map[string]string, bool) {
	messages, ok := c.raw[lang]
	return messages, ok
}

func (c *Catalog) Fallback() string {
	return c.fallback
}
