package docmodel

import "ctx3d/internal/ctxerr"

// Validate checks the Document invariants from spec §3 that don't depend on
// an encoder run: every cell's code_id resolves in the dictionary, and the
// page list is non-decreasing in z with agreeing dimensions on duplicates.
func (d *Document) Validate() error {
	for _, c := range d.Cells {
		if _, ok := d.Dict.Get(c.CodeID); !ok {
			return ctxerr.Newf(ctxerr.KindCodec, "cell code_id %s has no dictionary entry", c.CodeID.ShortHex(16))
		}
	}
	var lastZ uint32
	seen := make(map[uint32]PageInfo)
	for i, p := range d.Pages {
		if i > 0 && p.Z < lastZ {
			return ctxerr.Newf(ctxerr.KindCodec, "page list not non-decreasing in z at index %d", i)
		}
		if prior, ok := seen[p.Z]; ok {
			if prior.WidthPx != p.WidthPx || prior.HeightPx != p.HeightPx {
				return ctxerr.Newf(ctxerr.KindCodec, "duplicate page z=%d with disagreeing dimensions", p.Z)
			}
		}
		seen[p.Z] = p
		lastZ = p.Z
	}
	return nil
}

// Equal compares two documents for deep equality of ordered cells,
// dictionary content/order, pages, and numguards — the round-trip
// invariant spec §8 #1 requires.
func (d *Document) Equal(other *Document) bool {
	if other == nil {
		return false
	}
	if d.Version != other.Version || d.Grid != other.Grid || d.Codeset != other.Codeset {
		return false
	}
	if len(d.Pages) != len(other.Pages) {
		return false
	}
	for i := range d.Pages {
		if d.Pages[i] != other.Pages[i] {
			return false
		}
	}
	if len(d.Cells) != len(other.Cells) {
		return false
	}
	for i := range d.Cells {
		if d.Cells[i] != other.Cells[i] {
			return false
		}
	}
	a, b := d.Dict.Entries(), other.Dict.Entries()
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	if len(d.NumGuards) != len(other.NumGuards) {
		return false
	}
	for i := range d.NumGuards {
		if d.NumGuards[i] != other.NumGuards[i] {
			return false
		}
	}
	return true
}
