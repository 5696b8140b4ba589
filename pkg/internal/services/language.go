package services

import (
	"strings"
	"sync"

	"github.com/pemistahl/lingua-go"
)

var (
	languageDetector     lingua.LanguageDetector
	languageDetectorOnce sync.Once
)

var detectableLanguages = []lingua.Language{
	lingua.English,
	lingua.Spanish,
	lingua.Portuguese,
	lingua.French,
	lingua.German,
	lingua.Italian,
	lingua.Chinese,
	lingua.Japanese,
}

// DetectLanguage returns the lowercase ISO 639-1 code of the text's language, or an empty string.
func DetectLanguage(text string) string {
	languageDetectorOnce.Do(func() {
		languageDetector = lingua.NewLanguageDetectorBuilder().
			FromLanguages(detectableLanguages...).
			Build()
	})

	if language, ok := languageDetector.DetectLanguageOf(text); ok {
		return strings.ToLower(language.IsoCode639_1().String())
	}
	return ""
}
