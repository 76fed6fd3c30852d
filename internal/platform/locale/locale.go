package locale

import (
	"strings"

	"golang.org/x/text/language"
)

// Locale is the display language shared by every subscriber of a broker.
type Locale string

const (
	English  Locale = "en"
	Japanese Locale = "ja"
)

// Default is used when nothing better can be negotiated.
const Default = English

var (
	supportedTags = []language.Tag{language.English, language.Japanese}
	matcher       = language.NewMatcher(supportedTags)
)

// Supported lists the locales the catalogs are maintained for.
func Supported() []Locale {
	return []Locale{English, Japanese}
}

// Parse negotiates raw (a tag such as "ja-JP" or an Accept-Language style
// list) down to a supported locale. ok is false when nothing matched with
// at least low confidence.
func Parse(raw string) (Locale, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Default, false
	}

	tags, _, err := language.ParseAcceptLanguage(raw)
	if err != nil || len(tags) == 0 {
		return Default, false
	}

	_, idx, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return Default, false
	}
	return fromTag(supportedTags[idx]), true
}

// Normalize is Parse without the match flag.
func Normalize(raw string) Locale {
	loc, _ := Parse(raw)
	return loc
}

func (l Locale) String() string {
	return string(l)
}

// Tag returns the BCP 47 tag for the locale.
func (l Locale) Tag() language.Tag {
	switch l {
	case Japanese:
		return language.Japanese
	default:
		return language.English
	}
}

func fromTag(tag language.Tag) Locale {
	base, _ := tag.Base()
	switch base.String() {
	case "ja":
		return Japanese
	default:
		return English
	}
}
