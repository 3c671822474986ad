package encode

import (
	"sync"

	"ctx3d/internal/docmodel"
	"ctx3d/internal/normalize"
	"ctx3d/internal/numguard"
)

// Encoder runs the full Stage 1/2 pipeline: per-page normalization,
// classification, importance scoring, dictionary interning, NumGuard
// extraction, then whole-document budget/dedup/RLE post-processing (spec
// §4.A encode()).
type Encoder struct {
	cfg *Config
	ocr OCRBackend
}

// New builds an Encoder from a resolved Config and an optional OCR
// backend (nil disables image input).
func New(cfg *Config, ocr OCRBackend) *Encoder {
	if ocr == nil {
		ocr = disabledOCR{}
	}
	return &Encoder{cfg: cfg, ocr: ocr}
}

// EncodePath loads path through the adapter registry and runs Encode.
func (e *Encoder) EncodePath(path string) (*docmodel.Document, Metrics, error) {
	input, err := LoadPath(path, e.cfg, e.ocr)
	if err != nil {
		return nil, Metrics{}, err
	}
	return e.Encode(input)
}

type pageResult struct {
	cells     []docmodel.Cell
	dict      []docmodel.DictEntry
	numguards []docmodel.NumGuard
	lineCount int
}

// Encode runs the pipeline over an already-paginated input. Pages are
// processed by a bounded worker pool (cfg.WorkerPoolSize workers) but
// reassembled in original page order, so output is deterministic
// regardless of scheduling (spec §4.A determinism invariant).
func (e *Encoder) Encode(input *EncodeInput) (*docmodel.Document, Metrics, error) {
	doc := docmodel.New(e.cfg.Grid, e.cfg.Codeset)
	for _, p := range input.Pages {
		doc.Pages = append(doc.Pages, docmodel.PageInfo{Z: p.Index, WidthPx: p.WidthPx, HeightPx: p.HeightPx})
	}

	results := e.encodePagesParallel(input.Pages)

	var metrics Metrics
	metrics.Pages = uint32(len(input.Pages))
	for _, r := range results {
		metrics.CellsTotal += uint32(len(r.cells))
		metrics.LinesTotal += uint32(r.lineCount)
		doc.Cells = append(doc.Cells, r.cells...)
		for _, g := range r.numguards {
			doc.NumGuards = append(doc.NumGuards, g)
		}
		for _, entry := range r.dict {
			doc.Dict.Put(entry.Payload)
		}
	}

	uniquePayloads := doc.Dict.Len()

	applyBudget(doc, e.cfg.Budget)
	applyPostFilters(doc, e.cfg.DropFooters, e.cfg.DedupWindowPages)
	annotateRLE(doc.Cells)

	metrics.CellsKept = uint32(len(doc.Cells))
	metrics.NumGuardCount = uint32(len(doc.NumGuards))
	if uniquePayloads == 0 {
		metrics.DedupRatio = 0
	} else {
		metrics.DedupRatio = float32(metrics.CellsTotal) / float32(uniquePayloads)
	}

	return doc, metrics, nil
}

// encodePagesParallel fans pages out across a bounded worker pool and
// returns their results in page order.
func (e *Encoder) encodePagesParallel(pages []PageBuffer) []pageResult {
	results := make([]pageResult, len(pages))
	workers := e.cfg.WorkerPoolSize
	if workers <= 0 || workers > len(pages) {
		workers = len(pages)
	}
	if workers == 0 {
		return results
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				results[idx] = e.encodePage(pages[idx])
			}
		}()
	}
	for i := range pages {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	return results
}

func (e *Encoder) encodePage(page PageBuffer) pageResult {
	normalized := normalize.Lines(page.Lines, e.cfg.Hyphenation)

	y := e.cfg.MarginTopPx
	res := pageResult{
		cells: make([]docmodel.Cell, 0, len(normalized)),
	}
	for lineIndex, line := range normalized {
		cellType := normalize.Classify(line, e.cfg.TableColumnTolerancePx)
		importance := normalize.Importance(line, cellType, lineIndex)
		codeID := docmodel.HashPayload(line)

		w := int32(page.WidthPx) - e.cfg.MarginLeftPx*2
		if w < 0 {
			w = 0
		}
		cell := docmodel.Cell{
			Z:          int32(page.Index),
			X:          e.cfg.MarginLeftPx,
			Y:          y,
			W:          uint32(w),
			H:          e.cfg.LineHeightPx,
			CodeID:     codeID,
			RLE:        0,
			CellType:   cellType,
			Importance: importance,
		}
		res.cells = append(res.cells, cell)
		res.dict = append(res.dict, docmodel.DictEntry{CodeID: codeID, Payload: line})
		res.numguards = append(res.numguards, numguard.Extract(line, int32(page.Index), e.cfg.MarginLeftPx, y)...)
		y += int32(e.cfg.LineHeightPx + e.cfg.LineGapPx)
	}
	res.lineCount = len(normalized)
	return res
}
