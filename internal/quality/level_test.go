package quality

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFromInt_OutOfRangeFallsBackToDefault(t *testing.T) {
	for _, n := range []int{-1, -100, 5, 6, 255} {
		require.Equal(t, DefaultLevel, FromInt(n), "ordinal %d", n)
	}
}

func TestFromInt_InRange(t *testing.T) {
	require.Equal(t, LevelLossless, FromInt(0))
	require.Equal(t, LevelNearLossless, FromInt(1))
	require.Equal(t, LevelHigh, FromInt(2))
	require.Equal(t, LevelMedium, FromInt(3))
	require.Equal(t, LevelLow, FromInt(4))
}

func TestVideo_MappingIsTotal(t *testing.T) {
	seen := make(map[int]bool)

	for l := LevelLossless; l <= LevelLow; l++ {
		p := l.Video()
		require.NotEmpty(t, p.Preset)
		require.GreaterOrEqual(t, p.CRF, 0)
		require.LessOrEqual(t, p.CRF, 51)
		seen[p.CRF] = true
	}

	// Each tier maps to a distinct CRF.
	require.Len(t, seen, 5)
}

func TestJPEG_MonotonicallyDecreasing(t *testing.T) {
	prev := 101
	for l := LevelLossless; l <= LevelLow; l++ {
		q := l.JPEG()
		require.Less(t, q, prev)
		prev = q
	}
}

func TestGhostscript_Profiles(t *testing.T) {
	require.Equal(t, "/printer", LevelHigh.Ghostscript())
	require.Equal(t, "/screen", LevelLow.Ghostscript())
	// Out-of-range level values behave like the default tier.
	require.Equal(t, DefaultLevel.Ghostscript(), Level(99).Ghostscript())
}

func TestSizeFactor_Decreasing(t *testing.T) {
	prev := 1.0
	for l := LevelLossless; l <= LevelLow; l++ {
		f := l.SizeFactor()
		require.Less(t, f, prev)
		require.Greater(t, f, 0.0)
		prev = f
	}
}
