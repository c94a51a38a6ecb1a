package ingest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKeywords(t *testing.T) {
	input := "\uFEFFkeyword\nGolang\n  rust  \n\ngolang\nai,extra,columns\n"

	kws, err := ParseKeywords(strings.NewReader(input))

	require.NoError(t, err)
	assert.Equal(t, []string{"golang", "rust", "ai"}, kws)
}

func TestParseKeywords_HeaderOnly(t *testing.T) {
	kws, err := ParseKeywords(strings.NewReader("keyword\n"))

	require.NoError(t, err)
	assert.Empty(t, kws)
}

func TestLoadKeywords_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keywords.csv")
	require.NoError(t, os.WriteFile(path, []byte("keyword\nelection\n"), 0o644))

	kws, err := LoadKeywords(path)

	require.NoError(t, err)
	assert.Equal(t, []string{"election"}, kws)
}

func TestLoadKeywords_MissingFile(t *testing.T) {
	_, err := LoadKeywords(filepath.Join(t.TempDir(), "nope.csv"))
	assert.Error(t, err)
}

func TestParseKeywords_UnicodeAndControlCharacters(t *testing.T) {
	input := "keyword\nCafé\nnaïve take\nbad\u0007bell\n" + strings.Repeat("x", 65) + "\n"

	kws, err := ParseKeywords(strings.NewReader(input))

	require.NoError(t, err)
	assert.Equal(t, []string{"café", "naïve take"}, kws)
}
