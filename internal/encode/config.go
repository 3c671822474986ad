package encode

import (
	"runtime"

	"ctx3d/internal/normalize"
)

// Config drives a single Encoder run. It's built from the application's
// internal/config.Config plus the chosen Preset's geometry defaults.
type Config struct {
	Preset      Preset
	Grid        string
	Codeset     string
	PageWidthPx uint32
	PageHeightPx uint32
	MarginLeftPx int32
	MarginTopPx  int32
	LineHeightPx uint32
	LineGapPx    uint32

	Budget             int // 0 means unbounded
	DropFooters        bool
	DedupWindowPages    uint32
	Hyphenation        normalize.Hyphenation
	TableColumnTolerancePx int

	EnableOCR bool
	ForceOCR  bool
	OCRLanguages []string

	WorkerPoolSize int
}

// NewConfig builds a Config from a preset name and the caller's overrides.
// Zero-valued override fields fall back to the preset's defaults, mirroring
// the reference EncoderConfig::new cascade.
func NewConfig(presetName string, hyphenation string, budget int, dropFooters bool, dedupWindow int, tolerancePx int, forceOCR bool, workers int) (*Config, error) {
	preset, err := ParsePreset(presetName)
	if err != nil {
		return nil, err
	}
	d := presetDims[preset]
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	tol := tolerancePx
	if tol <= 0 {
		tol = 24
	}
	cfg := &Config{
		Preset:       preset,
		Grid:         "coarse",
		Codeset:      "HASH256",
		PageWidthPx:  d.widthPx,
		PageHeightPx: d.heightPx,
		MarginLeftPx: 64,
		MarginTopPx:  64,
		LineHeightPx: d.lineHeightPx,
		LineGapPx:    d.lineGapPx,
		Budget:       budget,
		DropFooters:  dropFooters,
		DedupWindowPages: uint32(dedupWindow),
		Hyphenation:  normalize.ParseHyphenation(hyphenation),
		TableColumnTolerancePx: tol,
		EnableOCR:    false,
		ForceOCR:     forceOCR,
		OCRLanguages: []string{"eng"},
		WorkerPoolSize: workers,
	}
	return cfg, nil
}
