package bench

import (
	"fmt"
	"strings"

	"ctx3d/internal/ctxerr"
)

// Thresholds gates a CorpusMetrics against configured ceilings; any
// non-nil field enables that check (spec §4.J: "threshold gating...
// produces a nonzero exit when any fails").
type Thresholds struct {
	CERMax        *float64
	WERMax        *float64
	NumGuardMax   *int
	EncodeP95MaxMs *float64
	DecodeP95MaxMs *float64
}

// Enforce returns a ctxerr.KindNumeric error listing every failing
// threshold, or nil if all pass.
func Enforce(metrics CorpusMetrics, t Thresholds) error {
	var failures []string

	if t.CERMax != nil {
		if worst, ok := worstOf(metrics.Results, func(r Result) *float64 { return r.CER }); ok && worst > *t.CERMax {
			failures = append(failures, fmt.Sprintf("CER %.4f > threshold %.4f", worst, *t.CERMax))
		}
	}
	if t.WERMax != nil {
		if worst, ok := worstOf(metrics.Results, func(r Result) *float64 { return r.WER }); ok && worst > *t.WERMax {
			failures = append(failures, fmt.Sprintf("WER %.4f > threshold %.4f", worst, *t.WERMax))
		}
	}
	if t.NumGuardMax != nil {
		worst := 0
		for _, r := range metrics.Results {
			if r.NumGuardMismatches > worst {
				worst = r.NumGuardMismatches
			}
		}
		if worst > *t.NumGuardMax {
			failures = append(failures, fmt.Sprintf("numguard mismatches %d > threshold %d", worst, *t.NumGuardMax))
		}
	}
	if t.EncodeP95MaxMs != nil && metrics.EncodeP95Ms > *t.EncodeP95MaxMs {
		failures = append(failures, fmt.Sprintf("encode p95 %.1fms > threshold %.1fms", metrics.EncodeP95Ms, *t.EncodeP95MaxMs))
	}
	if t.DecodeP95MaxMs != nil && metrics.DecodeP95Ms > *t.DecodeP95MaxMs {
		failures = append(failures, fmt.Sprintf("decode p95 %.1fms > threshold %.1fms", metrics.DecodeP95Ms, *t.DecodeP95MaxMs))
	}

	if len(failures) == 0 {
		return nil
	}
	return ctxerr.Newf(ctxerr.KindNumeric, "bench thresholds failed: %s", strings.Join(failures, ", "))
}

func worstOf(results []Result, get func(Result) *float64) (float64, bool) {
	var worst float64
	found := false
	for _, r := range results {
		v := get(r)
		if v == nil {
			continue
		}
		if !found || *v > worst {
			worst = *v
			found = true
		}
	}
	return worst, found
}
