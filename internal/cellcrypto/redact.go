package cellcrypto

import (
	"encoding/base64"
	"encoding/json"

	"ctx3d/internal/ctxerr"
	"ctx3d/internal/docmodel"
)

// RedactedCell is one entry of the JSON list a whole-file encrypt path
// produces: cells matching the redact set carry ciphertext instead of
// plaintext (spec §4.K, §9 open question 3: "the encrypted-path serializer
// writes a JSON list rather than the standard binary container").
type RedactedCell struct {
	Z          int32  `json:"z"`
	X          int32  `json:"x"`
	Y          int32  `json:"y"`
	CellType   string `json:"cell_type"`
	Text       string `json:"text,omitempty"`
	Ciphertext string `json:"ciphertext,omitempty"`
	Encrypted  bool   `json:"encrypted"`
}

// RedactDocument renders a document's resolved cell texts as a JSON list,
// encrypting the text of every cell whose type is in redactTypes for the
// given recipient and leaving the rest in plaintext. resolveText supplies
// the plaintext for a cell (typically a dictionary lookup by CodeID).
func RedactDocument(doc *docmodel.Document, redactTypes map[docmodel.CellType]struct{}, recipient Recipient, resolveText func(docmodel.Cell) string) ([]byte, error) {
	out := make([]RedactedCell, 0, len(doc.Cells))
	for _, cell := range doc.Cells {
		plain := resolveText(cell)
		row := RedactedCell{Z: cell.Z, X: cell.X, Y: cell.Y, CellType: cell.CellType.String()}
		if _, redact := redactTypes[cell.CellType]; redact {
			sealed, err := EncryptText(plain, recipient)
			if err != nil {
				return nil, ctxerr.Wrap(ctxerr.KindExternal, err, "redact cell")
			}
			row.Ciphertext = base64.StdEncoding.EncodeToString(sealed)
			row.Encrypted = true
		} else {
			row.Text = plain
		}
		out = append(out, row)
	}
	data, err := json.Marshal(out)
	if err != nil {
		return nil, ctxerr.Wrap(ctxerr.KindCodec, err, "marshal redacted document")
	}
	return data, nil
}

// DecodeRedactedFile parses the JSON list a RedactDocument call produced,
// decrypting any encrypted rows with the given identity. Rows outside the
// redact set pass through unchanged.
func DecodeRedactedFile(data []byte, id Identity) ([]RedactedCell, error) {
	var rows []RedactedCell
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, ctxerr.Wrap(ctxerr.KindCodec, err, "unmarshal redacted document")
	}
	for i, row := range rows {
		if !row.Encrypted {
			continue
		}
		sealed, err := base64.StdEncoding.DecodeString(row.Ciphertext)
		if err != nil {
			return nil, ctxerr.Wrap(ctxerr.KindCodec, err, "decode ciphertext")
		}
		plain, err := DecryptText(sealed, id)
		if err != nil {
			return nil, err
		}
		rows[i].Text = plain
	}
	return rows, nil
}
