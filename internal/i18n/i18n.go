// Package i18n holds the few UI strings the renderers emit (AM/PM markers,
// arrow titles, viewer buttons) in the supported languages.
package i18n

import (
	"embed"
	"sync"

	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	appLog "calevent/internal/log"
)

//go:embed locales/*.yml
var localesFS embed.FS

// Supported lists the languages with embedded translations.
var Supported = []language.Tag{
	language.English,
	language.Korean,
	language.German,
}

var (
	bundle     *goi18n.Bundle
	bundleOnce sync.Once
	matcher    = language.NewMatcher(Supported)

	localizers sync.Map // language.Tag string -> *goi18n.Localizer
)

func loadBundle() {
	bundleOnce.Do(func() {
		bundle = goi18n.NewBundle(language.English)
		bundle.RegisterUnmarshalFunc("yml", yaml.Unmarshal)

		entries, err := localesFS.ReadDir("locales")
		if err != nil {
			appLog.Error("i18n: reading embedded locales failed", err)
			return
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			if _, err := bundle.LoadMessageFileFS(localesFS, "locales/"+entry.Name()); err != nil {
				appLog.Error("i18n: loading locale failed", err, "file", entry.Name())
			}
		}
	})
}

// Match returns the supported language closest to tag.
func Match(tag language.Tag) language.Tag {
	_, idx, _ := matcher.Match(tag)
	return Supported[idx]
}

// T translates id for tag, falling back to English and then to id itself.
// Localizers are cached per matched supported language.
func T(tag language.Tag, id string) string {
	loadBundle()

	key := Match(tag).String()
	l, ok := localizers.Load(key)
	if !ok {
		l, _ = localizers.LoadOrStore(key, goi18n.NewLocalizer(bundle, key, "en"))
	}

	msg, err := l.(*goi18n.Localizer).Localize(&goi18n.LocalizeConfig{MessageID: id})
	if err != nil {
		return id
	}
	return msg
}
