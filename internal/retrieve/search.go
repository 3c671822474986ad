package retrieve

import (
	"context"
	"database/sql"
	"sort"

	"ctx3d/internal/ctxerr"
	"ctx3d/internal/docmodel"
	"ctx3d/internal/embed"
)

// Policy governs whether encrypted cells are visible to a caller (spec
// §4.K: "Decryption is only attempted... when policy = Internal").
type Policy int

const (
	// External callers never see encrypted cell text.
	External Policy = iota
	// Internal callers may have encrypted cells decrypted for them when a
	// Decryptor is configured on the SearchFilters.
	Internal
)

// Decryptor recovers plaintext for an encrypted cell, implemented by
// internal/cellcrypto against a configured identity file.
type Decryptor interface {
	Decrypt(ciphertext []byte, encryption string) (string, error)
}

// SearchFilters configures a Search/HybridSearch call (spec §4.I).
type SearchFilters struct {
	TopK                 int
	SensitivityThreshold string
	Policy               Policy
	Predicate            FilterPredicate
	Decryptor            Decryptor
}

// DefaultSearchFilters matches the reference defaults: top_k=10,
// threshold="public", policy=External.
func DefaultSearchFilters() SearchFilters {
	return SearchFilters{TopK: 10, SensitivityThreshold: "public", Policy: External}
}

// ScoredCell is one search hit, joined against its owning document.
type ScoredCell struct {
	CellID         int64
	DocumentID     int64
	DocumentSource string
	Page           int64
	Importance     uint8
	Sensitivity    string
	CellType       docmodel.CellType
	Text           string
	Score          float32
}

type candidateRow struct {
	cellID, documentID int64
	documentSource      string
	page                int64
	importance          uint8
	sensitivity         string
	cellType            docmodel.CellType
	text                sql.NullString
	textEncrypted       []byte
	encryption          sql.NullString
	embeddingBlob       []byte
}

// Search performs plain cosine-similarity retrieval over a collection,
// applying sensitivity/policy filters to the candidate rows and the
// predicate to each scored hit (spec §4.I steps 1-5).
func (s *Store) Search(ctx context.Context, collection string, queryEmbedding []float32, filters SearchFilters) ([]ScoredCell, error) {
	rows, err := s.collectCandidates(ctx, collection, filters)
	if err != nil {
		return nil, err
	}
	hits := make([]ScoredCell, 0, len(rows))
	for _, row := range rows {
		vec, err := blobToEmbedding(row.embeddingBlob)
		if err != nil {
			return nil, ctxerr.Wrap(ctxerr.KindCodec, err, "decode stored embedding")
		}
		score := embed.Cosine(queryEmbedding, vec)
		hit, ok := s.toScoredCell(row, score, filters)
		if !ok {
			continue
		}
		hits = append(hits, hit)
	}
	hits = sortAndTruncate(hits, filters.TopK)
	return hits, nil
}

// HybridSearch fuses cosine similarity with BM25 over the same collection
// as 0.7*cosine + 0.3*bm25 (spec §4.I, §8 invariant 7). The BM25 corpus is
// every candidate row surviving the sensitivity/policy filters; the
// predicate is applied to the fused hits afterwards, so rows it rejects
// still count toward document frequency and average length.
func (s *Store) HybridSearch(ctx context.Context, collection, queryText string, queryEmbedding []float32, filters SearchFilters) ([]ScoredCell, error) {
	rows, err := s.collectCandidates(ctx, collection, filters)
	if err != nil {
		return nil, err
	}

	texts := make([]string, len(rows))
	for i, row := range rows {
		texts[i] = resolveCandidateText(row, filters)
	}
	corpus := make([][]string, len(texts))
	for i, t := range texts {
		corpus[i] = tokenizeBM25(t)
	}
	df := documentFrequency(corpus)
	avgLen := averageLength(corpus)
	queryTokens := tokenizeBM25(queryText)

	hits := make([]ScoredCell, 0, len(rows))
	for i, row := range rows {
		vec, err := blobToEmbedding(row.embeddingBlob)
		if err != nil {
			return nil, ctxerr.Wrap(ctxerr.KindCodec, err, "decode stored embedding")
		}
		dense := embed.Cosine(queryEmbedding, vec)
		sparse := bm25Score(queryTokens, corpus[i], df, avgLen)
		fused := 0.7*dense + 0.3*sparse
		hit, ok := s.toScoredCell(row, fused, filters)
		if !ok {
			continue
		}
		hits = append(hits, hit)
	}
	hits = sortAndTruncate(hits, filters.TopK)
	return hits, nil
}

func (s *Store) collectCandidates(ctx context.Context, collection string, filters SearchFilters) ([]candidateRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT
			cells.id, documents.id, documents.source_path, cells.page,
			cells.importance, cells.sensitivity, cells.cell_type,
			cells.text, cells.text_encrypted, cells.encryption, cells.embedding
		FROM cells
		JOIN documents ON cells.document_id = documents.id
		JOIN collections ON documents.collection_id = collections.id
		WHERE collections.name = ?
	`, collection)
	if err != nil {
		return nil, ctxerr.Wrap(ctxerr.KindExternal, err, "query retrieval candidates")
	}
	defer rows.Close()

	threshold := filters.SensitivityThreshold
	if threshold == "" {
		threshold = "public"
	}

	var out []candidateRow
	for rows.Next() {
		var row candidateRow
		var cellTypeName string
		if err := rows.Scan(&row.cellID, &row.documentID, &row.documentSource, &row.page,
			&row.importance, &row.sensitivity, &cellTypeName,
			&row.text, &row.textEncrypted, &row.encryption, &row.embeddingBlob); err != nil {
			return nil, ctxerr.Wrap(ctxerr.KindExternal, err, "scan retrieval candidate")
		}
		ct, _ := docmodel.ParseCellType(cellTypeName)
		row.cellType = ct

		if !SensitivityAllowed(row.sensitivity, threshold) {
			continue
		}
		if filters.Policy == External && len(row.textEncrypted) > 0 {
			continue
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, ctxerr.Wrap(ctxerr.KindExternal, err, "iterate retrieval candidates")
	}
	return out, nil
}

func (s *Store) toScoredCell(row candidateRow, score float32, filters SearchFilters) (ScoredCell, bool) {
	importanceMean := float32(row.importance) / 255.0
	if !filters.Predicate.Matches(row.documentSource, row.cellType, importanceMean) {
		return ScoredCell{}, false
	}
	return ScoredCell{
		CellID:         row.cellID,
		DocumentID:     row.documentID,
		DocumentSource: row.documentSource,
		Page:           row.page,
		Importance:     row.importance,
		Sensitivity:    row.sensitivity,
		CellType:       row.cellType,
		Text:           resolveCandidateText(row, filters),
		Score:          score,
	}, true
}

// resolveCandidateText returns plaintext when present, or a decrypted
// value when policy=Internal and a Decryptor is configured, else empty.
func resolveCandidateText(row candidateRow, filters SearchFilters) string {
	if row.text.Valid {
		return row.text.String
	}
	if filters.Policy == Internal && filters.Decryptor != nil && len(row.textEncrypted) > 0 {
		plain, err := filters.Decryptor.Decrypt(row.textEncrypted, row.encryption.String)
		if err == nil {
			return plain
		}
	}
	return ""
}

func sortAndTruncate(hits []ScoredCell, topK int) []ScoredCell {
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })
	if topK > 0 && len(hits) > topK {
		return hits[:topK]
	}
	return hits
}
