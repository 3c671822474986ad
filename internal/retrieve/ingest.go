package retrieve

import (
	"context"

	"ctx3d/internal/ctxerr"
	"ctx3d/internal/docmodel"
	"ctx3d/internal/embed"
)

// IndexDocument embeds and persists every cell of doc under collection,
// one row per cell (spec §4.I: "the store co-indexes finer-grained
// units" rather than whole chunks). sensitivity defaults every cell to
// "public"; callers needing per-cell sensitivity or an encrypted text
// path should use AddCells directly.
func (s *Store) IndexDocument(ctx context.Context, collection string, doc DocumentInsert, d *docmodel.Document, backend embed.Backend) (DocumentRecord, int, error) {
	collectionID, err := s.EnsureCollection(ctx, collection)
	if err != nil {
		return DocumentRecord{}, 0, err
	}
	record, err := s.AddDocument(ctx, collectionID, doc)
	if err != nil {
		return DocumentRecord{}, 0, err
	}

	inserts := make([]CellInsert, 0, len(d.Cells))
	for _, cell := range d.Cells {
		payload, ok := d.Dict.Get(cell.CodeID)
		if !ok || payload == "" {
			continue
		}
		vec, err := backend.Embed(ctx, payload)
		if err != nil {
			return record, 0, ctxerr.Wrap(ctxerr.KindExternal, err, "embed cell payload")
		}
		text := payload
		inserts = append(inserts, CellInsert{
			Page:        uint32(cell.Z),
			Importance:  cell.Importance,
			Sensitivity: "public",
			CellType:    cell.CellType,
			Text:        &text,
			Embedding:   vec,
			BBoxX:       cell.X,
			BBoxY:       cell.Y,
			BBoxW:       cell.W,
			BBoxH:       cell.H,
		})
	}
	n, err := s.AddCells(ctx, record.ID, inserts)
	if err != nil {
		return record, 0, err
	}
	return record, n, nil
}
