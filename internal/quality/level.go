// Package quality maps compression levels to tool-specific encoding
// parameters.
//
// A level is an ordinal quality tier (0 = lossless .. 4 = low). Each mapping
// is total over the five tiers; any out-of-range ordinal falls back to
// LevelHigh rather than failing.
package quality

import "image/png"

// Level is an ordinal compression quality tier.
type Level int

const (
	LevelLossless Level = iota
	LevelNearLossless
	LevelHigh
	LevelMedium
	LevelLow
)

// DefaultLevel is the fallback tier for out-of-range ordinals.
const DefaultLevel = LevelHigh

// FromInt maps an ordinal to a Level. Values outside 0..4 fall back to
// DefaultLevel.
func FromInt(n int) Level {
	if n < int(LevelLossless) || n > int(LevelLow) {
		return DefaultLevel
	}

	return Level(n)
}

// String returns the tier name.
func (l Level) String() string {
	switch l {
	case LevelLossless:
		return "lossless"
	case LevelNearLossless:
		return "near-lossless"
	case LevelHigh:
		return "high"
	case LevelMedium:
		return "medium"
	case LevelLow:
		return "low"
	default:
		return DefaultLevel.String()
	}
}

// VideoParams holds libx264 encoding parameters for a tier.
type VideoParams struct {
	CRF    int
	Preset string
}

// Video returns the CRF value and encoder preset for the tier.
func (l Level) Video() VideoParams {
	switch l {
	case LevelLossless:
		return VideoParams{CRF: 0, Preset: "veryslow"}
	case LevelNearLossless:
		return VideoParams{CRF: 17, Preset: "slow"}
	case LevelHigh:
		return VideoParams{CRF: 23, Preset: "medium"}
	case LevelMedium:
		return VideoParams{CRF: 28, Preset: "medium"}
	case LevelLow:
		return VideoParams{CRF: 35, Preset: "fast"}
	default:
		return DefaultLevel.Video()
	}
}

// JPEG returns the JPEG quality percentage for the tier.
func (l Level) JPEG() int {
	switch l {
	case LevelLossless:
		return 100
	case LevelNearLossless:
		return 95
	case LevelHigh:
		return 85
	case LevelMedium:
		return 70
	case LevelLow:
		return 50
	default:
		return DefaultLevel.JPEG()
	}
}

// PNG returns the PNG encoder compression level for the tier.
func (l Level) PNG() png.CompressionLevel {
	switch l {
	case LevelLossless, LevelHigh:
		return png.DefaultCompression
	case LevelNearLossless:
		return png.BestSpeed
	case LevelMedium, LevelLow:
		return png.BestCompression
	default:
		return png.DefaultCompression
	}
}

// Ghostscript returns the -dPDFSETTINGS profile name for the tier.
func (l Level) Ghostscript() string {
	switch l {
	case LevelLossless:
		return "/default"
	case LevelNearLossless:
		return "/prepress"
	case LevelHigh:
		return "/printer"
	case LevelMedium:
		return "/ebook"
	case LevelLow:
		return "/screen"
	default:
		return DefaultLevel.Ghostscript()
	}
}

// SizeFactor estimates the output/input size ratio for the tier.
func (l Level) SizeFactor() float64 {
	switch l {
	case LevelLossless:
		return 0.95
	case LevelNearLossless:
		return 0.70
	case LevelHigh:
		return 0.50
	case LevelMedium:
		return 0.30
	case LevelLow:
		return 0.15
	default:
		return DefaultLevel.SizeFactor()
	}
}
