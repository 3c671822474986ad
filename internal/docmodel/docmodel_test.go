package docmodel

import "testing"

func buildSampleDoc() *Document {
	d := New("1024x1400", "ctx3d-v1")
	d.Pages = []PageInfo{{Z: 0, WidthPx: 1024, HeightPx: 1400}}

	h1 := d.Dict.Put("Revenue")
	h2 := d.Dict.Put("Cost")
	h3 := d.Dict.Put("Net Income")

	d.Cells = []Cell{
		{Z: 0, X: 40, Y: 24, W: 944, H: 24, CodeID: h1, CellType: Text, Importance: 100},
		{Z: 0, X: 40, Y: 54, W: 944, H: 24, CodeID: h2, CellType: Text, Importance: 100},
		{Z: 0, X: 40, Y: 84, W: 944, H: 24, CodeID: h3, CellType: Text, Importance: 120},
	}
	return d
}

func TestBinaryRoundTrip(t *testing.T) {
	d := buildSampleDoc()
	if err := d.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}

	bytes1, err := d.ToBytes()
	if err != nil {
		t.Fatalf("ToBytes: %v", err)
	}
	decoded, err := FromBytes(bytes1)
	if err != nil {
		t.Fatalf("FromBytes: %v", err)
	}
	if !d.Equal(decoded) {
		t.Fatalf("decoded document differs from original")
	}

	bytes2, err := decoded.ToBytes()
	if err != nil {
		t.Fatalf("re-encode: %v", err)
	}
	redecoded, err := FromBytes(bytes2)
	if err != nil {
		t.Fatalf("re-decode: %v", err)
	}
	if !d.Equal(redecoded) {
		t.Fatalf("re-serialized document differs from original (round-trip not idempotent)")
	}
}

func TestJSONRoundTrip(t *testing.T) {
	d := buildSampleDoc()
	data, err := d.ToPrettyJSON()
	if err != nil {
		t.Fatalf("ToPrettyJSON: %v", err)
	}
	decoded, err := FromJSON(data)
	if err != nil {
		t.Fatalf("FromJSON: %v", err)
	}
	if !d.Equal(decoded) {
		t.Fatalf("decoded JSON document differs from original")
	}
}

func TestDictionaryFirstWriterWins(t *testing.T) {
	d := NewDictionary()
	h1 := d.Put("same payload")
	h2 := d.Put("same payload")
	if h1 != h2 {
		t.Fatalf("expected identical payloads to resolve to the same hash")
	}
	if d.Len() != 1 {
		t.Fatalf("expected exactly one dictionary entry, got %d", d.Len())
	}
}

func TestDictionaryRetainDropsUnused(t *testing.T) {
	d := NewDictionary()
	h1 := d.Put("keep me")
	h2 := d.Put("drop me")
	d.Retain(map[Hash]struct{}{h1: {}})
	if d.Len() != 1 {
		t.Fatalf("expected 1 entry after retain, got %d", d.Len())
	}
	if _, ok := d.Get(h2); ok {
		t.Fatalf("expected dropped entry to be gone")
	}
}

func TestCellOrderingKey(t *testing.T) {
	a := Cell{Z: 0, Y: 5, X: 10}
	b := Cell{Z: 0, Y: 5, X: 20}
	c := Cell{Z: 0, Y: 10, X: 0}
	e := Cell{Z: 1, Y: 0, X: 0}
	if !a.Less(b) {
		t.Fatalf("expected a < b by x")
	}
	if !b.Less(c) {
		t.Fatalf("expected b < c by y")
	}
	if !c.Less(e) {
		t.Fatalf("expected c < e by z")
	}
}
