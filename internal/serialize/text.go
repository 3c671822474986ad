// Package serialize renders a Document back into the compact, human- and
// LLM-readable text framing an encode/decode round-trip produces (spec
// §4.C).
package serialize

import (
	"fmt"
	"strings"

	"ctx3d/internal/docmodel"
)

// TableMode selects how a Table cell's payload is condensed in the text
// preview.
type TableMode int

const (
	Auto TableMode = iota
	Csv
	Dims
)

// ParseTableMode maps a config string to a TableMode, defaulting to Auto.
func ParseTableMode(s string) TableMode {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv":
		return Csv
	case "dims":
		return Dims
	default:
		return Auto
	}
}

// Config controls TextSerializer's output framing.
type Config struct {
	IncludeHeader   bool
	IncludeGrammar  bool
	MaxPreviewChars int
	TableMode       TableMode
	PresetLabel     string
	BudgetLabel     string
}

// DefaultConfig mirrors the reference TextSerializerConfig::default.
func DefaultConfig() Config {
	return Config{
		IncludeHeader:   true,
		IncludeGrammar:  true,
		MaxPreviewChars: 64,
		TableMode:       Auto,
	}
}

// TextSerializer renders a Document as a framed, line-per-cell text
// listing suitable for feeding directly into an LLM prompt.
type TextSerializer struct {
	cfg Config
}

// New builds a TextSerializer from cfg.
func New(cfg Config) *TextSerializer {
	return &TextSerializer{cfg: cfg}
}

// ToString renders document per the §4.C framing: an optional <ctx3d ...>
// open tag, one "(z=...,x=...) \"preview\"" line per ordered cell, an
// optional grammar hint, then the closing tag.
func (s *TextSerializer) ToString(doc *docmodel.Document) string {
	var out strings.Builder

	if s.cfg.IncludeHeader {
		preset := s.cfg.PresetLabel
		if preset == "" {
			preset = "unknown"
		}
		budget := s.cfg.BudgetLabel
		if budget == "" {
			budget = "auto"
		}
		fmt.Fprintf(&out, "<ctx3d grid=%s codeset=%s preset=%s budget=%s>\n", doc.Grid, doc.Codeset, preset, budget)
	}

	ordered := make([]docmodel.Cell, len(doc.Cells))
	copy(ordered, doc.Cells)
	sortCells(ordered)

	for _, cell := range ordered {
		codeHex := cell.CodeID.String()
		codeShort := codeHex[:16]

		preview := "<missing>"
		if payload, ok := doc.Dict.Get(cell.CodeID); ok {
			if cell.CellType == docmodel.Table {
				preview = renderTablePreview(payload, s.cfg)
			} else {
				preview = truncatePreview(payload, s.cfg.MaxPreviewChars)
			}
		}

		fmt.Fprintf(&out, "(z=%d,x=%d,y=%d,w=%d,h=%d,code=%s,rle=%d,imp=%d,type=%s) \"%s\"\n",
			cell.Z, cell.X, cell.Y, cell.W, cell.H, codeShort, cell.RLE, cell.Importance,
			cell.CellType.String(), escapePreview(preview))
	}

	if s.cfg.IncludeGrammar {
		out.WriteString("\ngrammar: --select \"z=0,x=0..1024,y=0..4096\"\n")
	}
	if s.cfg.IncludeHeader {
		out.WriteString("</ctx3d>\n")
	}
	return out.String()
}

func sortCells(cells []docmodel.Cell) {
	// insertion sort is fine at cell-per-page scale and keeps the
	// (z,y,x) tie-break identical to Cell.Less without re-deriving it.
	for i := 1; i < len(cells); i++ {
		for j := i; j > 0 && cells[j].Less(cells[j-1]); j-- {
			cells[j], cells[j-1] = cells[j-1], cells[j]
		}
	}
}

func truncatePreview(payload string, limit int) string {
	runes := []rune(payload)
	if len(runes) <= limit {
		return payload
	}
	return string(runes[:limit]) + "..."
}

func estimateTableColumns(payload string) int {
	row := payload
	for _, line := range strings.Split(payload, "\n") {
		if strings.TrimSpace(line) != "" {
			row = line
			break
		}
	}
	if strings.Contains(row, "|") {
		count := 0
		for _, part := range strings.Split(row, "|") {
			if strings.TrimSpace(part) != "" {
				count++
			}
		}
		if count < 1 {
			return 1
		}
		return count
	}
	count := len(strings.Fields(row))
	if count < 1 {
		return 1
	}
	return count
}

func dimsPreview(payload string) string {
	rows := 0
	for _, line := range strings.Split(payload, "\n") {
		if strings.TrimSpace(line) != "" {
			rows++
		}
	}
	if rows < 1 {
		rows = 1
	}
	return fmt.Sprintf("[table rows=%d cols=%d]", rows, estimateTableColumns(payload))
}

func csvPreview(payload string, limit int) string {
	var rows []string
	for _, line := range strings.Split(payload, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		normalized := strings.NewReplacer("|", ",", "\t", ",").Replace(line)
		var cells []string
		for _, c := range strings.Split(normalized, ",") {
			c = strings.TrimSpace(c)
			if c != "" {
				cells = append(cells, c)
			}
		}
		joined := strings.Join(cells, ", ")
		if joined == "" {
			continue
		}
		rows = append(rows, joined)
		if len(rows) >= 4 {
			break
		}
	}
	combined := strings.Join(rows, " | ")
	if len(combined) > limit {
		combined = combined[:limit] + "..."
	}
	if combined == "" {
		return dimsPreview(payload)
	}
	return fmt.Sprintf("[csv %s]", combined)
}

func renderTablePreview(payload string, cfg Config) string {
	switch cfg.TableMode {
	case Csv:
		return csvPreview(payload, cfg.MaxPreviewChars)
	case Dims:
		return dimsPreview(payload)
	default:
		if len(payload) <= cfg.MaxPreviewChars*2 {
			return csvPreview(payload, cfg.MaxPreviewChars)
		}
		return dimsPreview(payload)
	}
}

func escapePreview(payload string) string {
	return strings.ReplaceAll(payload, "\"", "\\\"")
}
