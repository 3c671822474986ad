package docmodel

import (
	"bytes"
	"io"

	"ctx3d/internal/ctxerr"
	"github.com/klauspost/compress/zstd"
)

// ToBytes serializes the Document to its invariant binary wire format: a
// length-delimited record payload wrapped in a zstd outer container at
// roughly level 3 (spec §6).
func (d *Document) ToBytes() ([]byte, error) {
	inner := d.encodeInner()

	var out bytes.Buffer
	enc, err := zstd.NewWriter(&out, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, ctxerr.Wrap(ctxerr.KindCodec, err, "create zstd writer")
	}
	if _, err := enc.Write(inner); err != nil {
		enc.Close()
		return nil, ctxerr.Wrap(ctxerr.KindCodec, err, "compress document")
	}
	if err := enc.Close(); err != nil {
		return nil, ctxerr.Wrap(ctxerr.KindCodec, err, "finalize zstd frame")
	}
	return out.Bytes(), nil
}

// FromBytes decodes a Document from bytes produced by ToBytes. The decoder
// tolerates concatenated zstd frames, matching spec §6's "decode must
// tolerate concatenated frames" requirement.
func FromBytes(data []byte) (*Document, error) {
	dec, err := zstd.NewReader(bytes.NewReader(data), zstd.WithDecoderConcurrency(1))
	if err != nil {
		return nil, ctxerr.Wrap(ctxerr.KindCodec, err, "create zstd reader")
	}
	defer dec.Close()

	inner, err := io.ReadAll(dec)
	if err != nil {
		return nil, ctxerr.Wrap(ctxerr.KindCodec, err, "decompress document")
	}
	doc, err := decodeInner(inner)
	if err != nil {
		return nil, ctxerr.Wrap(ctxerr.KindCodec, err, "decode document record")
	}
	return doc, nil
}
