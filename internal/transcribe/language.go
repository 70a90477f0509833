package transcribe

import (
	"sync"

	"github.com/pemistahl/lingua-go"
)

// LanguageDetector names the language of a piece of text.
type LanguageDetector interface {
	Detect(text string) (string, bool)
}

// detectable are the languages we expect in recorded meetings. Loading every
// lingua model costs several hundred MB, so the set is kept short.
var detectable = []lingua.Language{
	lingua.English,
	lingua.Vietnamese,
	lingua.French,
	lingua.German,
	lingua.Spanish,
	lingua.Portuguese,
	lingua.Italian,
	lingua.Dutch,
	lingua.Japanese,
	lingua.Chinese,
	lingua.Korean,
	lingua.Hindi,
}

type linguaDetector struct {
	once     sync.Once
	detector lingua.LanguageDetector
}

// NewLanguageDetector returns a lingua-backed detector built on first use.
func NewLanguageDetector() LanguageDetector {
	return &linguaDetector{}
}

func (d *linguaDetector) Detect(text string) (string, bool) {
	d.once.Do(func() {
		d.detector = lingua.NewLanguageDetectorBuilder().FromLanguages(detectable...).Build()
	})
	lang, ok := d.detector.DetectLanguageOf(text)
	if !ok {
		return "", false
	}
	return lang.String(), true
}
