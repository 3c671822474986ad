package docmodel

import (
	"bytes"
	"encoding/binary"
	"io"
)

// magic identifies the inner record-oriented payload (spec §6). It lets
// downstream tools branch on file magic rather than extension, the same
// way the encrypted-cell JSON sibling format (§4.K, §9 open question 3)
// is told apart from this container by its leading '['.
var magic = [4]byte{'3', 'D', 'C', 'F'}

// encodeInner writes the length-delimited record-oriented payload described
// in spec §6: header, pages, delta-coded cells, order-preserving dictionary
// entries, numguards.
func (d *Document) encodeInner() []byte {
	var buf bytes.Buffer
	buf.Write(magic[:])
	writeU32(&buf, d.Version)
	writeString(&buf, d.Grid)
	writeString(&buf, d.Codeset)

	writeU32(&buf, uint32(len(d.Pages)))
	for _, p := range d.Pages {
		writeU32(&buf, p.Z)
		writeU32(&buf, p.WidthPx)
		writeU32(&buf, p.HeightPx)
	}

	writeU32(&buf, uint32(len(d.Cells)))
	var prevZ, prevX, prevY int32
	for i, c := range d.Cells {
		var dz, dx, dy int32
		if i == 0 {
			dz, dx, dy = c.Z, c.X, c.Y
		} else {
			dz, dx, dy = c.Z-prevZ, c.X-prevX, c.Y-prevY
		}
		prevZ, prevX, prevY = c.Z, c.X, c.Y

		writeI32(&buf, dz)
		writeI32(&buf, dx)
		writeI32(&buf, dy)
		writeU32(&buf, c.W)
		writeU32(&buf, c.H)
		buf.Write(c.CodeID[:])
		writeU32(&buf, c.RLE)
		buf.WriteByte(byte(c.CellType))
		writeU32(&buf, uint32(c.Importance))
	}

	entries := d.Dict.Entries()
	writeU32(&buf, uint32(len(entries)))
	for _, e := range entries {
		buf.Write(e.CodeID[:])
		writeString(&buf, e.Payload)
	}

	writeU32(&buf, uint32(len(d.NumGuards)))
	for _, g := range d.NumGuards {
		writeU32(&buf, uint32(g.Z))
		writeU32(&buf, uint32(g.X))
		writeU32(&buf, uint32(g.Y))
		writeString(&buf, g.Units)
		buf.Write(g.SHA1[:])
	}

	return buf.Bytes()
}

// decodeInner parses the inner record-oriented payload back into a
// Document. Cells are re-derived by running-sum of (dz,dx,dy) starting from
// (0,0,0) (spec §4.C invariant).
func decodeInner(data []byte) (*Document, error) {
	r := bytes.NewReader(data)

	var gotMagic [4]byte
	if _, err := io.ReadFull(r, gotMagic[:]); err != nil {
		return nil, errTruncatedRecord
	}
	if gotMagic != magic {
		return nil, errBadMagic
	}

	version, err := readU32(r)
	if err != nil {
		return nil, err
	}
	grid, err := readString(r)
	if err != nil {
		return nil, err
	}
	codeset, err := readString(r)
	if err != nil {
		return nil, err
	}

	d := &Document{Version: version, Grid: grid, Codeset: codeset}

	pageCount, err := readU32(r)
	if err != nil {
		return nil, err
	}
	d.Pages = make([]PageInfo, 0, pageCount)
	for i := uint32(0); i < pageCount; i++ {
		z, err := readU32(r)
		if err != nil {
			return nil, err
		}
		w, err := readU32(r)
		if err != nil {
			return nil, err
		}
		h, err := readU32(r)
		if err != nil {
			return nil, err
		}
		d.Pages = append(d.Pages, PageInfo{Z: z, WidthPx: w, HeightPx: h})
	}

	cellCount, err := readU32(r)
	if err != nil {
		return nil, err
	}
	d.Cells = make([]Cell, 0, cellCount)
	var z, x, y int32
	for i := uint32(0); i < cellCount; i++ {
		dz, err := readI32(r)
		if err != nil {
			return nil, err
		}
		dx, err := readI32(r)
		if err != nil {
			return nil, err
		}
		dy, err := readI32(r)
		if err != nil {
			return nil, err
		}
		z += dz
		x += dx
		y += dy

		w, err := readU32(r)
		if err != nil {
			return nil, err
		}
		h, err := readU32(r)
		if err != nil {
			return nil, err
		}
		var codeID Hash
		if _, err := io.ReadFull(r, codeID[:]); err != nil {
			return nil, errTruncatedRecord
		}
		rle, err := readU32(r)
		if err != nil {
			return nil, err
		}
		typeByte, err := r.ReadByte()
		if err != nil {
			return nil, errTruncatedRecord
		}
		if typeByte > byte(Header) {
			return nil, errUnknownCellType
		}
		importanceQ, err := readU32(r)
		if err != nil {
			return nil, err
		}

		d.Cells = append(d.Cells, Cell{
			Z: z, X: x, Y: y, W: w, H: h,
			CodeID: codeID, RLE: rle, CellType: CellType(typeByte),
			Importance: uint8(importanceQ),
		})
	}

	dictCount, err := readU32(r)
	if err != nil {
		return nil, err
	}
	entries := make([]DictEntry, 0, dictCount)
	for i := uint32(0); i < dictCount; i++ {
		var codeID Hash
		if _, err := io.ReadFull(r, codeID[:]); err != nil {
			return nil, errTruncatedRecord
		}
		payload, err := readString(r)
		if err != nil {
			return nil, err
		}
		entries = append(entries, DictEntry{CodeID: codeID, Payload: payload})
	}
	d.Dict = FromEntries(entries)

	ngCount, err := readU32(r)
	if err != nil {
		return nil, err
	}
	for i := uint32(0); i < ngCount; i++ {
		gz, err := readU32(r)
		if err != nil {
			return nil, err
		}
		gx, err := readU32(r)
		if err != nil {
			return nil, err
		}
		gy, err := readU32(r)
		if err != nil {
			return nil, err
		}
		units, err := readString(r)
		if err != nil {
			return nil, err
		}
		var sha [20]byte
		if _, err := io.ReadFull(r, sha[:]); err != nil {
			return nil, errTruncatedRecord
		}
		d.NumGuards = append(d.NumGuards, NumGuard{Z: int32(gz), X: int32(gx), Y: int32(gy), Units: units, SHA1: sha})
	}

	return d, nil
}

func writeU32(buf *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	buf.Write(b[:])
}

func writeI32(buf *bytes.Buffer, v int32) {
	writeU32(buf, uint32(v))
}

func writeString(buf *bytes.Buffer, s string) {
	writeU32(buf, uint32(len(s)))
	buf.WriteString(s)
}

func readU32(r *bytes.Reader) (uint32, error) {
	var b [4]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, errTruncatedRecord
	}
	return binary.LittleEndian.Uint32(b[:]), nil
}

func readI32(r *bytes.Reader) (int32, error) {
	v, err := readU32(r)
	return int32(v), err
}

func readString(r *bytes.Reader) (string, error) {
	n, err := readU32(r)
	if err != nil {
		return "", err
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(r, b); err != nil {
		return "", errTruncatedRecord
	}
	return string(b), nil
}
