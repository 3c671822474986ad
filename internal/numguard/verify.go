package numguard

import (
	"fmt"

	"ctx3d/internal/docmodel"
)

// AlertKind classifies a single mismatch found while re-verifying a
// document's NumGuards against its current cell content.
type AlertKind int

const (
	// UnitNotAllowed fires when a guard's recorded unit isn't present in
	// the caller-supplied whitelist.
	UnitNotAllowed AlertKind = iota
	// MissingCell fires when no cell exists at a guard's (z,x,y).
	MissingCell
	// MissingPayload fires when the cell at a guard's position has a
	// code_id with no resolvable dictionary payload.
	MissingPayload
	// HashMismatch fires when the payload's digit fingerprint no longer
	// matches the guard's recorded SHA-1.
	HashMismatch
)

func (k AlertKind) String() string {
	switch k {
	case UnitNotAllowed:
		return "unit_not_allowed"
	case MissingCell:
		return "missing_cell"
	case MissingPayload:
		return "missing_payload"
	case HashMismatch:
		return "hash_mismatch"
	default:
		return "unknown"
	}
}

// Alert describes one detected mismatch.
type Alert struct {
	Kind    AlertKind
	Guard   docmodel.NumGuard
	Message string
}

// MismatchesWithUnits re-verifies every NumGuard in d against its current
// cell content, flagging any guard whose unit isn't in allowedUnits (when
// allowedUnits is non-nil) and any guard whose recorded SHA-1 no longer
// matches the live payload (spec §4.B verification contract).
func MismatchesWithUnits(d *docmodel.Document, allowedUnits map[string]struct{}) []Alert {
	cellAt := make(map[[3]int32]docmodel.Cell, len(d.Cells))
	for _, c := range d.Cells {
		cellAt[[3]int32{c.Z, c.X, c.Y}] = c
	}

	var alerts []Alert
	for _, g := range d.NumGuards {
		if allowedUnits != nil && g.Units != "" {
			if _, ok := allowedUnits[g.Units]; !ok {
				alerts = append(alerts, Alert{
					Kind:    UnitNotAllowed,
					Guard:   g,
					Message: fmt.Sprintf("unit %q not in allowed set", g.Units),
				})
			}
		}

		cell, ok := cellAt[[3]int32{g.Z, g.X, g.Y}]
		if !ok {
			alerts = append(alerts, Alert{Kind: MissingCell, Guard: g, Message: "no cell at guard position"})
			continue
		}
		payload, ok := d.Dict.Get(cell.CodeID)
		if !ok {
			alerts = append(alerts, Alert{Kind: MissingPayload, Guard: g, Message: "cell code_id has no dictionary payload"})
			continue
		}
		sum, nonEmpty := HashDigitsFromPayload(payload)
		if !nonEmpty || sum != g.SHA1 {
			alerts = append(alerts, Alert{Kind: HashMismatch, Guard: g, Message: "digit fingerprint no longer matches payload"})
		}
	}
	return alerts
}

// Strict reports whether any alert in alerts should be treated as fatal.
// Non-strict callers log and continue; strict callers (spec's
// NumGuardStrict config) turn the first alert into an error.
func Strict(alerts []Alert, strict bool) error {
	if !strict || len(alerts) == 0 {
		return nil
	}
	first := alerts[0]
	return fmt.Errorf("numguard verification failed: %s: %s", first.Kind, first.Message)
}
