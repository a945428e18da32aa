package bubbletea_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pwalczak/stride"
	bt "github.com/pwalczak/stride/bubbletea"
)

func TestScoreBlock_View(t *testing.T) {
	t.Parallel()

	styles := bt.NewStyles(stride.DefaultTheme())

	t.Run("renders nothing before a score arrives", func(t *testing.T) {
		t.Parallel()
		block := bt.NewScoreBlock(styles)
		assert.Empty(t, block.View(80))
	})

	t.Run("labels the band", func(t *testing.T) {
		t.Parallel()
		cases := []struct {
			score float64
			band  string
		}{
			{20, "low"},
			{55, "moderate"},
			{72, "high"},
		}
		for _, tc := range cases {
			block := bt.NewScoreBlock(styles)
			block.Set(tc.score)
			view := block.View(80)
			assert.Contains(t, view, tc.band)
		}
	})

	t.Run("shows the score as delivered", func(t *testing.T) {
		t.Parallel()
		block := bt.NewScoreBlock(styles)
		block.Set(72)
		assert.Contains(t, block.View(80), "Recovery 72")
	})

	t.Run("later score replaces the earlier one", func(t *testing.T) {
		t.Parallel()
		block := bt.NewScoreBlock(styles)
		block.Set(40)
		block.Set(85)
		view := block.View(80)
		assert.Contains(t, view, "Recovery 85")
		assert.NotContains(t, view, "Recovery 40")
	})

	t.Run("gauge clamps out-of-range scores", func(t *testing.T) {
		t.Parallel()
		block := bt.NewScoreBlock(styles)
		block.Set(140)
		view := block.View(80)
		// The label keeps the raw value; only the gauge clamps.
		assert.Contains(t, view, "Recovery 140")
		assert.NotPanics(t, func() { block.View(80) })

		block.Set(-5)
		assert.NotPanics(t, func() { block.View(80) })
	})

	t.Run("narrow width shortens the gauge", func(t *testing.T) {
		t.Parallel()
		block := bt.NewScoreBlock(styles)
		block.Set(50)
		wide := block.View(80)
		narrow := block.View(20)
		assert.NotEqual(t, wide, narrow)
	})
}
