package bench

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"ctx3d/internal/ctxerr"
	"ctx3d/internal/decode"
	"ctx3d/internal/docmodel"
	"ctx3d/internal/encode"
	"ctx3d/internal/numguard"
	"ctx3d/internal/serialize"
	"ctx3d/internal/tokenstats"
)

// Mode selects which half of the encode/decode cycle a run exercises.
type Mode int

const (
	ModeEncode Mode = iota
	ModeDecode
	ModeFull
)

// ParseMode maps a config string to a Mode, defaulting to ModeEncode.
func ParseMode(s string) Mode {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "decode":
		return ModeDecode
	case "full":
		return ModeFull
	default:
		return ModeEncode
	}
}

func (m Mode) String() string {
	switch m {
	case ModeDecode:
		return "decode"
	case ModeFull:
		return "full"
	default:
		return "encode"
	}
}

// Config drives one Runner.Run call.
type Config struct {
	Mode       Mode
	Root       string
	GoldRoot   string // empty disables gold comparison
	Preset     string
	Hyphenation string
	Tokenizer  tokenstats.Kind
	// Budgets sweeps multiple encode budgets; a single nil-equivalent 0
	// means "unbounded", matching the reference's Vec<Option<usize>>.
	Budgets []int
}

// Result is one document's measured row (row_type "doc" in the
// reference's JSONL output).
type Result struct {
	RowType             string  `json:"row_type"`
	RunID               string  `json:"run_id"`
	Mode                string  `json:"mode"`
	Doc                 string  `json:"doc"`
	Preset              string  `json:"preset"`
	EncodeMs            int64   `json:"encode_ms"`
	DecodeMs            int64   `json:"decode_ms"`
	CER                 *float64 `json:"cer,omitempty"`
	WER                 *float64 `json:"wer,omitempty"`
	NumGuardF1          *float64 `json:"numguard_f1,omitempty"`
	UnitsOK             *float64 `json:"units_ok,omitempty"`
	TokensRaw           int     `json:"tokens_raw"`
	Tokens3DCF          int     `json:"tokens_3dcf"`
	SavingsRatio        float64 `json:"savings_ratio"`
	AvgCellsKeptPerPage float64 `json:"avg_cells_kept_per_page"`
	Pages               int     `json:"pages"`
	Budget              *int    `json:"budget,omitempty"`
	NumGuardMismatches  int     `json:"numguard_mismatches"`
	EncodePagesPerSec   float64 `json:"encode_pages_per_s"`
	DecodePagesPerSec   float64 `json:"decode_pages_per_s"`
	MemPeakMB           float64 `json:"mem_peak_mb"`
}

// PageRow is one gold-compared page's row (row_type "page").
type PageRow struct {
	RowType           string  `json:"row_type"`
	RunID             string  `json:"run_id"`
	Doc               string  `json:"doc"`
	Preset            string  `json:"preset"`
	PageIdx           uint32  `json:"page_idx"`
	CERPage           float64 `json:"cer_page"`
	PrecisionPage     float64 `json:"precision_page"`
	TokensGoldPage    int     `json:"tokens_gold_page"`
	Tokens3DCFPage    int     `json:"tokens_3dcf_page"`
	CompressionRatio  float64 `json:"compression_ratio"`
	Budget            *int    `json:"budget,omitempty"`
}

// CorpusMetrics aggregates every document Result from a single Run.
type CorpusMetrics struct {
	Results                []Result
	MeanSavings            float64
	MedianSavings          float64
	EncodeP50Ms            float64
	EncodeP95Ms            float64
	DecodeP50Ms            float64
	DecodeP95Ms            float64
	MeanEncodePagesPerSec  float64
	MeanDecodePagesPerSec  float64
	MaxMemMB               float64
}

// Runner walks Config.Root and measures every supported document.
type Runner struct {
	cfg       Config
	tokenizer *tokenstats.Tokenizer
	output    string // optional JSONL sink; empty disables row emission
	memPeakMB float64
}

// New builds a Runner. output, if non-empty, receives one JSON line per
// Result/PageRow (append mode), the way the reference streams bench rows
// to disk as they're produced.
func New(cfg Config, output string) (*Runner, error) {
	tok, err := tokenstats.Build(cfg.Tokenizer, "")
	if err != nil {
		return nil, err
	}
	return &Runner{cfg: cfg, tokenizer: tok, output: output}, nil
}

// Run executes the configured mode across the corpus and returns
// corpus-wide aggregates.
func (r *Runner) Run() (CorpusMetrics, error) {
	budgets := r.cfg.Budgets
	if len(budgets) == 0 {
		budgets = []int{0}
	}

	var rows []Result
	switch r.cfg.Mode {
	case ModeEncode:
		for _, b := range budgets {
			cycleRows, err := r.runEncodeCycle(b)
			if err != nil {
				return CorpusMetrics{}, err
			}
			rows = append(rows, cycleRows...)
		}
	case ModeDecode:
		cycleRows, err := r.runDecodeCycle()
		if err != nil {
			return CorpusMetrics{}, err
		}
		rows = append(rows, cycleRows...)
	case ModeFull:
		for _, b := range budgets {
			cycleRows, err := r.runEncodeCycle(b)
			if err != nil {
				return CorpusMetrics{}, err
			}
			rows = append(rows, cycleRows...)
		}
		cycleRows, err := r.runDecodeCycle()
		if err != nil {
			return CorpusMetrics{}, err
		}
		rows = append(rows, cycleRows...)
	}

	return aggregate(rows, r.memPeakMB), nil
}

func aggregate(rows []Result, memPeakMB float64) CorpusMetrics {
	if len(rows) == 0 {
		return CorpusMetrics{MaxMemMB: memPeakMB}
	}
	savings := make([]float64, len(rows))
	encodeMs := make([]float64, len(rows))
	decodeMs := make([]float64, len(rows))
	var sumSavings, sumEncodePages, sumDecodePages float64
	for i, row := range rows {
		savings[i] = row.SavingsRatio
		encodeMs[i] = float64(row.EncodeMs)
		decodeMs[i] = float64(row.DecodeMs)
		sumSavings += row.SavingsRatio
		sumEncodePages += row.EncodePagesPerSec
		sumDecodePages += row.DecodePagesPerSec
	}
	sortedSavings := append([]float64(nil), savings...)
	sort.Float64s(sortedSavings)
	median := sortedSavings[len(sortedSavings)/2]

	return CorpusMetrics{
		Results:               rows,
		MeanSavings:           sumSavings / float64(len(rows)),
		MedianSavings:         median,
		EncodeP50Ms:           Percentile(encodeMs, 0.5),
		EncodeP95Ms:           Percentile(encodeMs, 0.95),
		DecodeP50Ms:           Percentile(decodeMs, 0.5),
		DecodeP95Ms:           Percentile(decodeMs, 0.95),
		MeanEncodePagesPerSec: sumEncodePages / float64(len(rows)),
		MeanDecodePagesPerSec: sumDecodePages / float64(len(rows)),
		MaxMemMB:              memPeakMB,
	}
}

func (r *Runner) runEncodeCycle(budget int) ([]Result, error) {
	cfg, err := encode.NewConfig(r.cfg.Preset, r.cfg.Hyphenation, budget, false, 0, 0, false, 0)
	if err != nil {
		return nil, err
	}
	enc := encode.New(cfg, nil)

	var rows []Result
	err = walkSupported(r.cfg.Root, func(path string) error {
		start := time.Now()
		doc, _, err := enc.EncodePath(path)
		if err != nil {
			return ctxerr.Wrapf(ctxerr.KindInput, err, "encode %q", path)
		}
		encodeMs := time.Since(start).Milliseconds()

		row, pageRows, err := r.measureDoc(path, doc, encodeMs, ModeEncode, budget)
		if err != nil {
			return err
		}
		if err := r.appendRows(row, pageRows); err != nil {
			return err
		}
		rows = append(rows, row)
		return nil
	})
	return rows, err
}

func (r *Runner) runDecodeCycle() ([]Result, error) {
	var rows []Result
	err := filepath.WalkDir(r.cfg.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		if strings.ToLower(filepath.Ext(path)) != ".3dcf" {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return ctxerr.Wrapf(ctxerr.KindInput, err, "read %q", path)
		}
		doc, err := docmodel.FromBytes(data)
		if err != nil {
			return ctxerr.Wrapf(ctxerr.KindCodec, err, "decode %q", path)
		}
		row, pageRows, err := r.measureDoc(path, doc, 0, ModeDecode, 0)
		if err != nil {
			return err
		}
		if err := r.appendRows(row, pageRows); err != nil {
			return err
		}
		rows = append(rows, row)
		return nil
	})
	return rows, err
}

func (r *Runner) measureDoc(path string, doc *docmodel.Document, encodeMs int64, mode Mode, budget int) (Result, []PageRow, error) {
	decodeStart := time.Now()
	decoded := decode.ToText(doc)
	decodeMs := time.Since(decodeStart).Milliseconds()

	stats := tokenstats.Measure(doc, r.tokenizer, serialize.DefaultConfig())
	rel := r.relativePath(path)
	runID := r.runID(mode, budget)

	var cerPtr, werPtr, unitsOKPtr *float64
	var numGuardF1Ptr *float64
	var pageRows []PageRow
	gold, err := r.loadGold(rel, len(doc.Pages))
	if err != nil {
		return Result{}, nil, err
	}
	if gold != nil {
		goldText := gold.text()
		cer := CER(decoded, goldText)
		wer := WER(decoded, goldText)
		num := NumericStats(decoded, goldText)
		cerPtr, werPtr, numGuardF1Ptr, unitsOKPtr = &cer, &wer, &num.F1, &num.UnitsOK
		pageRows = r.pageMetrics(runID, rel, doc, gold, budget)
	}

	avgCells := 0.0
	if len(doc.Pages) > 0 {
		avgCells = float64(len(doc.Cells)) / float64(len(doc.Pages))
	}

	mismatches := numguard.MismatchesWithUnits(doc, nil)

	memMB := r.observeMemoryMB()
	pagesF := float64(len(doc.Pages))
	if pagesF < 1 {
		pagesF = 1
	}

	var budgetPtr *int
	if budget > 0 {
		budgetPtr = &budget
	}

	row := Result{
		RowType:             "doc",
		RunID:               runID,
		Mode:                mode.String(),
		Doc:                 rel,
		Preset:              r.cfg.Preset,
		EncodeMs:            encodeMs,
		DecodeMs:            decodeMs,
		CER:                 cerPtr,
		WER:                 werPtr,
		NumGuardF1:          numGuardF1Ptr,
		UnitsOK:             unitsOKPtr,
		TokensRaw:           stats.TokensRaw,
		Tokens3DCF:          stats.Tokens3DCF,
		SavingsRatio:        float64(stats.SavingsRatio),
		AvgCellsKeptPerPage: avgCells,
		Pages:               len(doc.Pages),
		Budget:              budgetPtr,
		NumGuardMismatches:  len(mismatches),
		EncodePagesPerSec:   ratePerSec(pagesF, encodeMs),
		DecodePagesPerSec:   ratePerSec(pagesF, decodeMs),
		MemPeakMB:           memMB,
	}
	return row, pageRows, nil
}

func ratePerSec(pages float64, ms int64) float64 {
	if ms == 0 {
		return 0
	}
	return pages / (float64(ms) / 1000.0)
}

type goldDoc struct {
	doc   string
	pages []string
}

func (g *goldDoc) text() string {
	if g.doc != "" {
		return g.doc
	}
	return strings.Join(g.pages, "\n")
}

func (r *Runner) loadGold(rel string, pageCount int) (*goldDoc, error) {
	if r.cfg.GoldRoot == "" {
		return nil, nil
	}
	docPath := filepath.Join(r.cfg.GoldRoot, rel)
	docPath = strings.TrimSuffix(docPath, filepath.Ext(docPath)) + ".txt"
	docText, docErr := os.ReadFile(docPath)

	base := strings.TrimSuffix(docPath, ".txt")
	pages := make([]string, pageCount)
	anyPage := false
	for i := 0; i < pageCount; i++ {
		pagePath := filepath.Join(base, fmt.Sprintf("page_%04d.txt", i))
		data, err := os.ReadFile(pagePath)
		if err == nil {
			pages[i] = string(data)
			anyPage = true
		}
	}
	if docErr != nil && !anyPage {
		return nil, nil
	}
	return &goldDoc{doc: string(docText), pages: pages}, nil
}

func (r *Runner) pageMetrics(runID, rel string, doc *docmodel.Document, gold *goldDoc, budget int) []PageRow {
	var rows []PageRow
	var budgetPtr *int
	if budget > 0 {
		budgetPtr = &budget
	}
	for idx, goldText := range gold.pages {
		if goldText == "" {
			continue
		}
		pred := decode.PageToText(doc, int32(idx))
		cerPage := CER(pred, goldText)
		precision := 1 - cerPage
		if precision < 0 {
			precision = 0
		}
		if precision > 1 {
			precision = 1
		}
		tokensGold := r.tokenizer.Count(goldText)
		tokensPred := r.tokenizer.Count(pred)
		compression := 0.0
		if tokensPred > 0 {
			compression = float64(tokensGold) / float64(tokensPred)
		}
		rows = append(rows, PageRow{
			RowType:          "page",
			RunID:            runID,
			Doc:              rel,
			Preset:           r.cfg.Preset,
			PageIdx:          uint32(idx),
			CERPage:          cerPage,
			PrecisionPage:    precision,
			TokensGoldPage:   tokensGold,
			Tokens3DCFPage:   tokensPred,
			CompressionRatio: compression,
			Budget:           budgetPtr,
		})
	}
	return rows
}

func (r *Runner) relativePath(path string) string {
	rel, err := filepath.Rel(r.cfg.Root, path)
	if err != nil {
		return path
	}
	return rel
}

func (r *Runner) runID(mode Mode, budget int) string {
	switch mode {
	case ModeDecode:
		return fmt.Sprintf("%s-decode", r.cfg.Preset)
	default:
		if budget > 0 {
			return fmt.Sprintf("%s-%d", r.cfg.Preset, budget)
		}
		return fmt.Sprintf("%s-auto", r.cfg.Preset)
	}
}

func (r *Runner) appendRows(row Result, pageRows []PageRow) error {
	if r.output == "" {
		return nil
	}
	f, err := os.OpenFile(r.output, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return ctxerr.Wrapf(ctxerr.KindExternal, err, "open bench output %q", r.output)
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	if err := enc.Encode(row); err != nil {
		return ctxerr.Wrap(ctxerr.KindExternal, err, "write bench doc row")
	}
	for _, pr := range pageRows {
		if err := enc.Encode(pr); err != nil {
			return ctxerr.Wrap(ctxerr.KindExternal, err, "write bench page row")
		}
	}
	return nil
}

// observeMemoryMB samples heap usage via runtime.MemStats as a portable,
// cgo-free proxy for resident memory (no process-level RSS sampler
// appears anywhere in the example pack), tracking the run's peak.
func (r *Runner) observeMemoryMB() float64 {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	mb := float64(m.Alloc) / (1024 * 1024)
	if mb > r.memPeakMB {
		r.memPeakMB = mb
	}
	return mb
}

var supportedExtensions = map[string]struct{}{
	"pdf": {}, "txt": {}, "text": {}, "md": {}, "markdown": {},
	"html": {}, "htm": {}, "json": {}, "tex": {}, "bib": {}, "": {},
}

func walkSupported(root string, fn func(path string) error) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
		if _, ok := supportedExtensions[ext]; !ok {
			return nil
		}
		return fn(path)
	})
}
