package encode

// Metrics reports the counters an Encoder run produces alongside the
// Document (spec §4.A encode() return contract).
type Metrics struct {
	Pages        uint32
	CellsTotal   uint32
	CellsKept    uint32
	LinesTotal   uint32
	NumGuardCount uint32
	DedupRatio   float32
}
