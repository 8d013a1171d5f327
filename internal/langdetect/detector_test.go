package langdetect_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/autotts/autotts/internal/langdetect"
)

func TestDetectRecognizesCommonLanguages(t *testing.T) {
	t.Parallel()

	detector := langdetect.New("en")

	cases := []struct {
		text string
		want string
	}{
		{"Hello, how are you doing today my friend?", "en"},
		{"Guten Morgen, wie geht es Ihnen heute?", "de"},
		{"Bonjour, comment allez-vous aujourd'hui ?", "fr"},
		{"Hola, ¿cómo estás hoy? Espero que muy bien.", "es"},
		{"Привет, как у тебя дела сегодня?", "ru"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, detector.Detect(tc.text), "text: %s", tc.text)
	}
}

func TestDetectShortInputReturnsDefault(t *testing.T) {
	t.Parallel()

	detector := langdetect.New("de")

	assert.Equal(t, "de", detector.Detect(""))
	assert.Equal(t, "de", detector.Detect("hi"))
	assert.Equal(t, "de", detector.Detect("  a  "))
}

func TestDetectDefaultIsConfigurable(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "fr", langdetect.New("fr").Detect("ok"))
	assert.Equal(t, "en", langdetect.New("en").Detect("ok"))
}
