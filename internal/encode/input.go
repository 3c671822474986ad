package encode

import (
	"os"
	"path/filepath"
	"strings"

	"ctx3d/internal/ctxerr"
	"ctx3d/internal/encode/adapter"
)

// PageBuffer is one page's worth of pre-normalization lines, already
// wrapped to the preset's page width.
type PageBuffer struct {
	Index          uint32
	WidthPx, HeightPx uint32
	Lines          []string
}

// EncodeInput is the page-split form of a source file, ready for the
// per-page encode pipeline.
type EncodeInput struct {
	Pages []PageBuffer
}

// LoadPath reads path, dispatches to the registered adapter by extension
// (or the OCR backend for image extensions), and wraps the resulting
// per-page text into PageBuffers at the config's page geometry.
func LoadPath(path string, cfg *Config, ocr OCRBackend) (*EncodeInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ctxerr.Wrap(ctxerr.KindInput, err, "read input file")
	}
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	return LoadBytes(data, ext, cfg, ocr)
}

// LoadBytes is LoadPath's content-addressable sibling: the caller already
// has the bytes and just needs them classified by extension.
func LoadBytes(data []byte, ext string, cfg *Config, ocr OCRBackend) (*EncodeInput, error) {
	if isImageExt(ext) {
		return loadImage(data, cfg, ocr)
	}

	a, err := adapter.ForExtension(ext)
	if err != nil {
		return nil, err
	}
	rawPages, err := a.Convert(data)
	if err != nil {
		return nil, ctxerr.Wrap(ctxerr.KindInput, err, "convert input")
	}

	var pages []PageBuffer
	for _, raw := range rawPages {
		pages = append(pages, splitFormFeeds(raw, cfg)...)
	}
	for i := range pages {
		pages[i].Index = uint32(i)
	}
	return &EncodeInput{Pages: pages}, nil
}

func loadImage(data []byte, cfg *Config, ocr OCRBackend) (*EncodeInput, error) {
	if !cfg.EnableOCR {
		return nil, ctxerr.ErrOcrSupportDisabled
	}
	if ocr == nil {
		ocr = disabledOCR{}
	}
	text, err := ocr.ImageToText(data, cfg.OCRLanguages)
	if err != nil {
		return nil, ctxerr.Wrap(ctxerr.KindOptionalFeature, err, "ocr image")
	}
	return &EncodeInput{Pages: splitFormFeeds(text, cfg)}, nil
}

// splitFormFeeds splits already-flattened text on form-feed page breaks
// (the convention the txt/md/html/tex adapters share since they have no
// native page concept) and wraps each page's lines to the config's width.
func splitFormFeeds(text string, cfg *Config) []PageBuffer {
	chunks := strings.Split(text, "\f")
	pages := make([]PageBuffer, 0, len(chunks))
	for i, chunk := range chunks {
		p := pageFromText(chunk, cfg)
		p.Index = uint32(i)
		pages = append(pages, p)
	}
	return pages
}

func pageFromText(text string, cfg *Config) PageBuffer {
	wrapWidth := int(cfg.PageWidthPx / 10)
	if wrapWidth < 40 {
		wrapWidth = 40
	}

	var lines []string
	for _, raw := range strings.Split(text, "\n") {
		if strings.TrimSpace(raw) == "" {
			lines = append(lines, "")
			continue
		}
		lines = append(lines, wrapLine(raw, wrapWidth)...)
	}
	if len(lines) == 0 {
		lines = []string{""}
	}
	return PageBuffer{WidthPx: cfg.PageWidthPx, HeightPx: cfg.PageHeightPx, Lines: lines}
}

func wrapLine(line string, width int) []string {
	if len(line) <= width {
		return []string{strings.TrimSpace(line)}
	}
	var out []string
	var current strings.Builder
	for _, word := range strings.Fields(line) {
		if current.Len()+len(word)+1 > width && current.Len() > 0 {
			out = append(out, strings.TrimSpace(current.String()))
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteByte(' ')
		}
		current.WriteString(word)
	}
	if current.Len() > 0 {
		out = append(out, strings.TrimSpace(current.String()))
	}
	if len(out) == 0 {
		out = []string{strings.TrimSpace(line)}
	}
	return out
}
