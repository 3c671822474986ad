package docmodel

import (
	"encoding/hex"
	"encoding/json"
)

// jsonDoc is the on-the-wire JSON shape: hex-encoded hashes, dictionary
// entries as an ordered list so insertion order survives a round-trip
// through encoding/json (map iteration order is not guaranteed).
type jsonDoc struct {
	Version   uint32         `json:"version"`
	Grid      string         `json:"grid"`
	Codeset   string         `json:"codeset"`
	Pages     []jsonPage     `json:"pages"`
	Cells     []jsonCell     `json:"cells"`
	Dict      []jsonDictEnt  `json:"dict"`
	NumGuards []jsonNumGuard `json:"numguards"`
}

type jsonPage struct {
	Z        uint32 `json:"z"`
	WidthPx  uint32 `json:"width_px"`
	HeightPx uint32 `json:"height_px"`
}

type jsonCell struct {
	Z          int32  `json:"z"`
	X          int32  `json:"x"`
	Y          int32  `json:"y"`
	W          uint32 `json:"w"`
	H          uint32 `json:"h"`
	CodeID     string `json:"code_id"`
	RLE        uint32 `json:"rle"`
	Type       string `json:"type"`
	Importance uint8  `json:"importance"`
}

type jsonDictEnt struct {
	CodeID  string `json:"code_id"`
	Payload string `json:"payload"`
}

type jsonNumGuard struct {
	Z     int32  `json:"z"`
	X     int32  `json:"x"`
	Y     int32  `json:"y"`
	Units string `json:"units"`
	SHA1  string `json:"sha1"`
}

// ToPrettyJSON renders the Document as indented, hex-encoded JSON for
// debugging (spec §4.C).
func (d *Document) ToPrettyJSON() ([]byte, error) {
	jd := jsonDoc{
		Version: d.Version,
		Grid:    d.Grid,
		Codeset: d.Codeset,
	}
	for _, p := range d.Pages {
		jd.Pages = append(jd.Pages, jsonPage{Z: p.Z, WidthPx: p.WidthPx, HeightPx: p.HeightPx})
	}
	for _, c := range d.Cells {
		jd.Cells = append(jd.Cells, jsonCell{
			Z: c.Z, X: c.X, Y: c.Y, W: c.W, H: c.H,
			CodeID:     hex.EncodeToString(c.CodeID[:]),
			RLE:        c.RLE,
			Type:       c.CellType.String(),
			Importance: c.Importance,
		})
	}
	for _, e := range d.Dict.Entries() {
		jd.Dict = append(jd.Dict, jsonDictEnt{CodeID: hex.EncodeToString(e.CodeID[:]), Payload: e.Payload})
	}
	for _, g := range d.NumGuards {
		jd.NumGuards = append(jd.NumGuards, jsonNumGuard{
			Z: g.Z, X: g.X, Y: g.Y, Units: g.Units, SHA1: hex.EncodeToString(g.SHA1[:]),
		})
	}
	return json.MarshalIndent(jd, "", "  ")
}

// FromJSON parses the pretty JSON debug form back into a Document.
func FromJSON(data []byte) (*Document, error) {
	var jd jsonDoc
	if err := json.Unmarshal(data, &jd); err != nil {
		return nil, err
	}
	d := &Document{Version: jd.Version, Grid: jd.Grid, Codeset: jd.Codeset}
	for _, p := range jd.Pages {
		d.Pages = append(d.Pages, PageInfo{Z: p.Z, WidthPx: p.WidthPx, HeightPx: p.HeightPx})
	}
	entries := make([]DictEntry, 0, len(jd.Dict))
	for _, e := range jd.Dict {
		h, err := decodeHash(e.CodeID)
		if err != nil {
			return nil, err
		}
		entries = append(entries, DictEntry{CodeID: h, Payload: e.Payload})
	}
	d.Dict = FromEntries(entries)
	for _, c := range jd.Cells {
		h, err := decodeHash(c.CodeID)
		if err != nil {
			return nil, err
		}
		ct, _ := ParseCellType(c.Type)
		d.Cells = append(d.Cells, Cell{
			Z: c.Z, X: c.X, Y: c.Y, W: c.W, H: c.H,
			CodeID: h, RLE: c.RLE, CellType: ct, Importance: c.Importance,
		})
	}
	for _, g := range jd.NumGuards {
		sha, err := decodeSHA1(g.SHA1)
		if err != nil {
			return nil, err
		}
		d.NumGuards = append(d.NumGuards, NumGuard{Z: g.Z, X: g.X, Y: g.Y, Units: g.Units, SHA1: sha})
	}
	return d, nil
}

func decodeHash(s string) (Hash, error) {
	var h Hash
	b, err := hex.DecodeString(s)
	if err != nil {
		return h, err
	}
	if len(b) != len(h) {
		return h, errInvalidHashLength
	}
	copy(h[:], b)
	return h, nil
}

func decodeSHA1(s string) ([20]byte, error) {
	var out [20]byte
	b, err := hex.DecodeString(s)
	if err != nil {
		return out, err
	}
	if len(b) != len(out) {
		return out, errInvalidHashLength
	}
	copy(out[:], b)
	return out, nil
}
