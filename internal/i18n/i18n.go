// Copyright (c) 2026 ToeiRei
// Usercrud - interactive user management console
// This source code is licensed under the MIT license found in the LICENSE file.

// package i18n provides internationalization and localization support for usercrud.
// It uses the go-i18n library to load and manage translation files, allowing the
// shell and the CLI to be displayed in multiple languages.
package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
	"gopkg.in/yaml.v3"
)

// localeFS embeds the YAML translation files from the 'locales' directory
// into the application binary.
//
//go:embed locales/*.yaml
var localeFS embed.FS

var (
	// bundle stores all the loaded translation messages from the locale files.
	bundle *i18n.Bundle
	// localizer is used to translate messages into a specific language.
	localizer *i18n.Localizer
	// currentLang is the language passed to the last Init.
	currentLang string
	// locales lists the tags of all embedded locale files.
	locales []language.Tag
)

// Init initializes the i18n bundle and sets up the localizer for a specific language.
// It parses all embedded YAML files from the 'locales' directory. Unknown
// languages fall back to English.
func Init(lang string) {
	bundle = i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("yaml", yaml.Unmarshal)

	locales = locales[:0]
	files, _ := fs.ReadDir(localeFS, "locales")
	for _, f := range files {
		if f.IsDir() {
			continue
		}
		data, _ := localeFS.ReadFile("locales/" + f.Name())
		mf, err := bundle.ParseMessageFileBytes(data, f.Name())
		if err == nil && mf != nil {
			locales = append(locales, mf.Tag)
		}
	}

	currentLang = lang
	localizer = i18n.NewLocalizer(bundle, lang, language.English.String())
}

// T is a convenience function to translate a message by its ID.
// If the i18n system has not been initialized, it will default to English.
// If a translation for the given ID is not found, it returns the ID itself.
//
// A single map argument is passed to the message template; any other
// arguments are applied to the translated text with fmt.Sprintf.
func T(messageID string, args ...any) string {
	if localizer == nil {
		Init("en")
	}
	cfg := &i18n.LocalizeConfig{MessageID: messageID}
	if len(args) == 1 {
		if data, ok := args[0].(map[string]any); ok {
			cfg.TemplateData = data
			args = nil
		}
	}
	msg, err := localizer.Localize(cfg)
	if err != nil {
		// If the message ID is not found, go-i18n returns an error.
		// In this case, we return the message ID itself as a fallback.
		return messageID
	}
	if len(args) > 0 {
		return fmt.Sprintf(msg, args...)
	}
	return msg
}

// SetLang changes the active language of the localizer.
func SetLang(lang string) {
	Init(lang)
}

// GetLang returns the language the localizer was initialized with.
func GetLang() string {
	return currentLang
}

// GetAvailableLocales maps every embedded locale tag to its display name in
// that language.
func GetAvailableLocales() map[string]string {
	if localizer == nil {
		Init("en")
	}
	out := make(map[string]string, len(locales))
	for _, tag := range locales {
		name := display.Self.Name(tag)
		if name == "" {
			name = tag.String()
		}
		out[tag.String()] = name
	}
	return out
}

// LocaleList returns the available locale tags sorted, for help texts.
func LocaleList() string {
	av := GetAvailableLocales()
	keys := make([]string, 0, len(av))
	for k := range av {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return strings.Join(keys, ", ")
}
