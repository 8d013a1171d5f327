package langdetect

import (
	"strings"
	"unicode/utf8"

	"github.com/pemistahl/lingua-go"
)

// Inputs shorter than this are not reliably detectable and short-circuit
// to the configured default without running detection.
const minDetectableRunes = 3

// supported maps the ISO-639-1 codes the engines speak to lingua models.
// Norwegian is detected as Bokmal or Nynorsk and normalized back to "no".
var supported = map[string]lingua.Language{
	"en": lingua.English,
	"de": lingua.German,
	"fr": lingua.French,
	"es": lingua.Spanish,
	"it": lingua.Italian,
	"pt": lingua.Portuguese,
	"ru": lingua.Russian,
	"ja": lingua.Japanese,
	"ko": lingua.Korean,
	"zh": lingua.Chinese,
	"ar": lingua.Arabic,
	"hi": lingua.Hindi,
	"tr": lingua.Turkish,
	"pl": lingua.Polish,
	"nl": lingua.Dutch,
	"sv": lingua.Swedish,
	"da": lingua.Danish,
	"no": lingua.Bokmal,
	"fi": lingua.Finnish,
}

// Detector guesses the ISO-639-1 language of a text, falling back to a
// configured default whenever detection is not possible or not conclusive.
type Detector struct {
	inner    lingua.LanguageDetector
	fallback string
}

func New(defaultLanguage string) *Detector {
	languages := make([]lingua.Language, 0, len(supported))
	for _, l := range supported {
		languages = append(languages, l)
	}

	inner := lingua.NewLanguageDetectorBuilder().
		FromLanguages(languages...).
		Build()

	return &Detector{inner: inner, fallback: defaultLanguage}
}

func (d *Detector) Detect(text string) string {
	trimmed := strings.TrimSpace(text)
	if utf8.RuneCountInString(trimmed) < minDetectableRunes {
		return d.fallback
	}

	language, ok := d.inner.DetectLanguageOf(trimmed)
	if !ok {
		return d.fallback
	}

	code := strings.ToLower(language.IsoCode639_1().String())
	if code == "nb" || code == "nn" {
		code = "no"
	}
	if _, ok := supported[code]; !ok {
		return d.fallback
	}
	return code
}
