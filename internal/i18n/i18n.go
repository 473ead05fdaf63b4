// Package i18n localises the portfolio's interface strings.
//
// Messages live in embedded TOML files, one per language. A Localizer is
// picked per request from the Accept-Language header and travels in the
// request context.
package i18n

import (
	"context"
	"embed"
	"fmt"
	"sync"

	"github.com/BurntSushi/toml"
	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed locales/*.toml
var localeFS embed.FS

var localeFiles = []string{
	"locales/active.en.toml",
	"locales/active.fr.toml",
}

// Bundle holds the messages of every supported language.
type Bundle struct {
	bundle  *goi18n.Bundle
	tags    []language.Tag
	matcher language.Matcher
}

// New loads the embedded message files. fallback is the language used when
// nothing in Accept-Language matches.
func New(fallback language.Tag) (*Bundle, error) {
	b := goi18n.NewBundle(fallback)
	b.RegisterUnmarshalFunc("toml", toml.Unmarshal)
	for _, name := range localeFiles {
		if _, err := b.LoadMessageFileFS(localeFS, name); err != nil {
			return nil, fmt.Errorf("i18n: loading %s: %w", name, err)
		}
	}

	// LanguageTags lists the default language first, which makes it the
	// matcher's fallback.
	tags := b.LanguageTags()
	return &Bundle{
		bundle:  b,
		tags:    tags,
		matcher: language.NewMatcher(tags),
	}, nil
}

// Languages returns the supported languages, fallback first.
func (b *Bundle) Languages() []language.Tag {
	out := make([]language.Tag, len(b.tags))
	copy(out, b.tags)
	return out
}

// Match picks the supported language for an Accept-Language header value.
func (b *Bundle) Match(acceptLanguage string) language.Tag {
	prefs, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(prefs) == 0 {
		return b.tags[0]
	}
	_, index, _ := b.matcher.Match(prefs...)
	return b.tags[index]
}

// Localizer returns a localizer for an Accept-Language header value.
func (b *Bundle) Localizer(acceptLanguage string) *Localizer {
	tag := b.Match(acceptLanguage)
	return &Localizer{
		loc:  goi18n.NewLocalizer(b.bundle, tag.String()),
		lang: tag,
	}
}

// Localizer translates message IDs for one language.
type Localizer struct {
	loc  *goi18n.Localizer
	lang language.Tag
}

// Lang returns the BCP 47 tag of the localizer's language.
func (l *Localizer) Lang() string {
	if l == nil {
		return language.English.String()
	}
	return l.lang.String()
}

// T translates id. data fills template fields such as {{.Author}}. A
// missing message yields the id itself so a page never renders blank.
func (l *Localizer) T(id string, data ...map[string]any) string {
	if l == nil {
		return id
	}
	cfg := &goi18n.LocalizeConfig{MessageID: id}
	if len(data) > 0 {
		cfg.TemplateData = data[0]
	}
	s, err := l.loc.Localize(cfg)
	if err != nil {
		return id
	}
	return s
}

type ctxKey struct{}

// WithLocalizer returns a context carrying l.
func WithLocalizer(ctx context.Context, l *Localizer) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

var (
	defaultOnce      sync.Once
	defaultLocalizer *Localizer
)

// FromContext returns the request's localizer, or an English one when the
// context carries none.
func FromContext(ctx context.Context) *Localizer {
	if l, ok := ctx.Value(ctxKey{}).(*Localizer); ok && l != nil {
		return l
	}
	defaultOnce.Do(func() {
		if b, err := New(language.English); err == nil {
			defaultLocalizer = b.Localizer("")
		}
	})
	return defaultLocalizer
}
