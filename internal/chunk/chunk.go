// Package chunk splits an encoded Document into retrieval-sized records,
// each with a stable content-derived id (spec §4.F).
package chunk

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"strings"

	"ctx3d/internal/docmodel"
	"ctx3d/internal/tokenstats"
)

// Mode selects the chunk-boundary strategy.
type Mode int

const (
	Cells Mode = iota
	Tokens
	Headings
	TableRows
)

// ParseMode maps a config string to a Mode, defaulting to Cells.
func ParseMode(s string) Mode {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "tokens":
		return Tokens
	case "headings":
		return Headings
	case "table_rows", "tablerows":
		return TableRows
	default:
		return Cells
	}
}

func (m Mode) discriminant() uint32 {
	switch m {
	case Tokens:
		return 1
	case Headings:
		return 2
	case TableRows:
		return 3
	default:
		return 0
	}
}

const chunkVersion uint32 = 1

// Config drives a single Chunker run.
type Config struct {
	Mode          Mode
	CellsPerChunk int
	OverlapCells  int
	MaxTokens     int
	OverlapTokens int
}

// DefaultConfig mirrors the reference ChunkConfig::default.
func DefaultConfig() Config {
	return Config{Mode: Cells, CellsPerChunk: 200, OverlapCells: 20, MaxTokens: 512, OverlapTokens: 64}
}

// Record is one retrieval-sized slice of a document's ordered cells.
type Record struct {
	ChunkID        string
	Doc            string
	ChunkIndex     int
	ZStart, ZEnd   int32
	CellStart, CellEnd int
	Text           string
	TokenCount     int
	DominantType   docmodel.CellType
	ImportanceMean float32
}

// Chunker splits a Document into Records per its Config's Mode.
type Chunker struct {
	cfg Config
	tok *tokenstats.Tokenizer
}

// New builds a Chunker. tok is used for token-budget accounting in Tokens
// mode and for each Record's TokenCount; pass nil to skip token counting
// (TokenCount stays 0 and Tokens mode counts each cell as one token, so a
// chunk holds up to MaxTokens cells).
func New(cfg Config, tok *tokenstats.Tokenizer) *Chunker {
	return &Chunker{cfg: cfg, tok: tok}
}

// ChunkDocument splits doc into Records, tagging each with docID for the
// chunk-id derivation.
func (c *Chunker) ChunkDocument(doc *docmodel.Document, docID string) []Record {
	ordered := make([]docmodel.Cell, len(doc.Cells))
	copy(ordered, doc.Cells)
	sortCells(ordered)
	if len(ordered) == 0 {
		return nil
	}

	switch c.cfg.Mode {
	case Tokens:
		return c.chunkByTokens(doc, docID, ordered)
	case Headings:
		return c.chunkByHeadings(doc, docID, ordered)
	case TableRows:
		return c.chunkTableBlocks(doc, docID, ordered)
	default:
		return c.chunkByCells(doc, docID, ordered)
	}
}

func sortCells(cells []docmodel.Cell) {
	for i := 1; i < len(cells); i++ {
		for j := i; j > 0 && cells[j].Less(cells[j-1]); j-- {
			cells[j], cells[j-1] = cells[j-1], cells[j]
		}
	}
}

func (c *Chunker) chunkByCells(doc *docmodel.Document, docID string, ordered []docmodel.Cell) []Record {
	chunkSize := maxInt(c.cfg.CellsPerChunk, 1)
	overlap := minInt(c.cfg.OverlapCells, chunkSize-1)

	var records []Record
	start, chunkIndex := 0, 0
	for start < len(ordered) {
		end := minInt(start+chunkSize, len(ordered))
		if rec, ok := c.buildChunk(doc, docID, chunkIndex, start, end, ordered); ok {
			records = append(records, rec)
			chunkIndex++
		}
		if end == len(ordered) {
			break
		}
		if overlap == 0 {
			start = end
		} else {
			start = maxInt(end-overlap, 0)
		}
	}
	return records
}

func (c *Chunker) chunkByTokens(doc *docmodel.Document, docID string, ordered []docmodel.Cell) []Record {
	maxTokens := maxInt(c.cfg.MaxTokens, 1)
	overlapTokens := minInt(c.cfg.OverlapTokens, maxTokens-1)
	tokensPerCell := c.tokenCounts(doc, ordered)

	var records []Record
	start, chunkIndex := 0, 0
	for start < len(ordered) {
		end := start
		used := 0
		for end < len(ordered) {
			cellTokens := maxInt(tokensPerCell[end], 1)
			if end > start && used+cellTokens > maxTokens {
				break
			}
			used += cellTokens
			end++
		}
		if end == start {
			end++
		}
		if rec, ok := c.buildChunk(doc, docID, chunkIndex, start, end, ordered); ok {
			records = append(records, rec)
			chunkIndex++
		}
		if end == len(ordered) {
			break
		}
		if overlapTokens == 0 {
			start = end
		} else {
			back := 0
			newStart := end
			for newStart > start {
				newStart--
				back += maxInt(tokensPerCell[newStart], 1)
				if back >= overlapTokens {
					break
				}
			}
			start = newStart
		}
	}
	return records
}

func (c *Chunker) chunkByHeadings(doc *docmodel.Document, docID string, ordered []docmodel.Cell) []Record {
	tokensPerCell := c.tokenCounts(doc, ordered)
	var records []Record
	chunkIndex := 0
	idx := 0
	for idx < len(ordered) {
		if ordered[idx].CellType != docmodel.Header {
			idx++
			continue
		}
		start := idx
		end := idx
		tokens := 0
		for end < len(ordered) {
			if end > start && ordered[end].CellType == docmodel.Header {
				break
			}
			tokens += tokensPerCell[end]
			if c.cfg.MaxTokens > 0 && tokens >= c.cfg.MaxTokens {
				end++
				break
			}
			end++
		}
		if rec, ok := c.buildChunk(doc, docID, chunkIndex, start, end, ordered); ok {
			records = append(records, rec)
			chunkIndex++
		}
		idx = end
	}
	return records
}

func (c *Chunker) chunkTableBlocks(doc *docmodel.Document, docID string, ordered []docmodel.Cell) []Record {
	var records []Record
	chunkIndex := 0
	idx := 0
	for idx < len(ordered) {
		if ordered[idx].CellType != docmodel.Table {
			idx++
			continue
		}
		blockEnd := idx
		for blockEnd < len(ordered) && ordered[blockEnd].CellType == docmodel.Table {
			blockEnd++
		}
		start := idx
		for start < blockEnd {
			end := minInt(start+maxInt(c.cfg.CellsPerChunk, 1), blockEnd)
			if rec, ok := c.buildChunk(doc, docID, chunkIndex, start, end, ordered); ok {
				records = append(records, rec)
				chunkIndex++
			}
			start = end
		}
		idx = blockEnd
	}
	return records
}

func (c *Chunker) buildChunk(doc *docmodel.Document, docID string, chunkIndex, start, end int, ordered []docmodel.Cell) (Record, bool) {
	if start >= end || start >= len(ordered) {
		return Record{}, false
	}
	slice := ordered[start:end]

	var parts []string
	tokenTotal := 0
	importanceSum := 0
	var typeHist [5]int
	for _, cell := range slice {
		if payload, ok := doc.Dict.Get(cell.CodeID); ok {
			if strings.TrimSpace(payload) != "" {
				parts = append(parts, payload)
			}
			tokenTotal += c.countTokens(payload)
		}
		importanceSum += int(cell.Importance)
		typeHist[histIndex(cell.CellType)]++
	}
	text := strings.Join(parts, "\n")
	if strings.TrimSpace(text) == "" {
		return Record{}, false
	}

	zStart := slice[0].Z
	zEnd := slice[len(slice)-1].Z
	cellEnd := end - 1

	return Record{
		ChunkID:        stableChunkID(docID, chunkIndex, start, cellEnd, c.cfg.Mode),
		Doc:            docID,
		ChunkIndex:     chunkIndex,
		ZStart:         zStart,
		ZEnd:           zEnd,
		CellStart:      start,
		CellEnd:        cellEnd,
		Text:           text,
		TokenCount:     tokenTotal,
		DominantType:   dominantCellType(typeHist),
		ImportanceMean: float32(importanceSum) / (float32(len(slice)) * 255.0),
	}, true
}

func histIndex(t docmodel.CellType) int {
	switch t {
	case docmodel.Text:
		return 0
	case docmodel.Table:
		return 1
	case docmodel.Figure:
		return 2
	case docmodel.Footer:
		return 3
	default:
		return 4
	}
}

func dominantCellType(hist [5]int) docmodel.CellType {
	maxIdx, maxVal := 0, 0
	for i, v := range hist {
		if v > maxVal {
			maxVal = v
			maxIdx = i
		}
	}
	switch maxIdx {
	case 0:
		return docmodel.Text
	case 1:
		return docmodel.Table
	case 2:
		return docmodel.Figure
	case 3:
		return docmodel.Footer
	default:
		return docmodel.Header
	}
}

func (c *Chunker) tokenCounts(doc *docmodel.Document, cells []docmodel.Cell) []int {
	counts := make([]int, len(cells))
	for i, cell := range cells {
		if payload, ok := doc.Dict.Get(cell.CodeID); ok {
			counts[i] = c.countTokens(payload)
		}
	}
	return counts
}

func (c *Chunker) countTokens(text string) int {
	if c.tok == nil {
		return 0
	}
	return c.tok.Count(text)
}

func stableChunkID(docID string, chunkIndex, cellStart, cellEnd int, mode Mode) string {
	h := sha256.New()
	h.Write([]byte(docID))
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], chunkVersion)
	h.Write(buf[:])
	binary.BigEndian.PutUint32(buf[:], mode.discriminant())
	h.Write(buf[:])
	var buf8 [8]byte
	binary.BigEndian.PutUint64(buf8[:], uint64(chunkIndex))
	h.Write(buf8[:])
	binary.BigEndian.PutUint64(buf8[:], uint64(cellStart))
	h.Write(buf8[:])
	binary.BigEndian.PutUint64(buf8[:], uint64(cellEnd))
	h.Write(buf8[:])
	return hex.EncodeToString(h.Sum(nil))
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
