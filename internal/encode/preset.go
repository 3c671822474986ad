package encode

import "ctx3d/internal/ctxerr"

// Preset selects the page-geometry defaults an Encoder falls back to when
// the caller's config doesn't override them (spec §4.A presets).
type Preset int

const (
	Reports Preset = iota
	Slides
	News
	Scans
	Custom
)

// dims holds the per-preset (pageWidthPx, pageHeightPx, lineHeightPx, lineGapPx) quad.
type dims struct {
	widthPx, heightPx, lineHeightPx, lineGapPx uint32
}

var presetDims = map[Preset]dims{
	Reports: {1024, 1400, 24, 6},
	Slides:  {1920, 1080, 42, 12},
	News:    {1100, 1600, 28, 8},
	Scans:   {1400, 2000, 30, 8},
	Custom:  {1024, 1400, 24, 6},
}

func (p Preset) String() string {
	switch p {
	case Reports:
		return "reports"
	case Slides:
		return "slides"
	case News:
		return "news"
	case Scans:
		return "scans"
	default:
		return "custom"
	}
}

// ParsePreset maps a config string to a Preset.
func ParsePreset(name string) (Preset, error) {
	switch name {
	case "reports", "":
		return Reports, nil
	case "slides":
		return Slides, nil
	case "news":
		return News, nil
	case "scans":
		return Scans, nil
	case "custom":
		return Custom, nil
	default:
		return Reports, ctxerr.Newf(ctxerr.KindConfiguration, "unknown encoder preset %q", name)
	}
}
