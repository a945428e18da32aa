package bubbletea

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapWords(t *testing.T) {
	t.Parallel()

	t.Run("short text is unchanged", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "easy spin", wrapWords("easy spin", 80))
	})

	t.Run("breaks on word boundaries", func(t *testing.T) {
		t.Parallel()
		got := wrapWords("one two three four", 9)
		assert.Equal(t, "one two\nthree\nfour", got)
	})

	t.Run("no line exceeds the width", func(t *testing.T) {
		t.Parallel()
		got := wrapWords("the long run moves to Sunday so the legs recover fully", 12)
		for _, line := range strings.Split(got, "\n") {
			assert.LessOrEqual(t, len([]rune(line)), 12, "line too wide: %q", line)
		}
	})

	t.Run("splits words wider than a line", func(t *testing.T) {
		t.Parallel()
		got := wrapWords("abcdefghij", 4)
		assert.Equal(t, "abcd\nefgh\nij", got)
	})

	t.Run("keeps existing newlines", func(t *testing.T) {
		t.Parallel()
		got := wrapWords("first\nsecond", 80)
		assert.Equal(t, "first\nsecond", got)
	})

	t.Run("wide runes count their display cells", func(t *testing.T) {
		t.Parallel()
		// Each rune is two cells wide, so only two fit per four-cell line.
		got := wrapWords("日本語Go", 4)
		assert.Equal(t, "日本\n語Go", got)
	})

	t.Run("emoji clusters never tear", func(t *testing.T) {
		t.Parallel()
		got := wrapWords("🏃🏃🏃", 4)
		assert.Equal(t, "🏃🏃\n🏃", got)
	})

	t.Run("non-positive width returns input unchanged", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "anything at all", wrapWords("anything at all", 0))
	})
}
