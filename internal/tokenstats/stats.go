package tokenstats

import (
	"ctx3d/internal/decode"
	"ctx3d/internal/docmodel"
	"ctx3d/internal/serialize"
)

// Stats reports how many tokens a document's raw decoded text costs versus
// its compact 3DCF text framing (spec §4.E).
type Stats struct {
	TokensRaw      int
	Tokens3DCF     int
	Cells          int
	UniquePayloads int
	SavingsRatio   float32
}

// Measure runs Stats against document using a built tokenizer and the
// given text-serializer config for the 3DCF side of the comparison.
func Measure(doc *docmodel.Document, tok *Tokenizer, serializerCfg serialize.Config) Stats {
	rawText := decode.ToText(doc)
	textual := serialize.New(serializerCfg).ToString(doc)

	tokensRaw := tok.Count(rawText)
	tokens3DCF := tok.Count(textual)

	var savings float32
	if tokens3DCF != 0 {
		savings = float32(tokensRaw) / float32(tokens3DCF)
	}

	return Stats{
		TokensRaw:      tokensRaw,
		Tokens3DCF:     tokens3DCF,
		Cells:          len(doc.Cells),
		UniquePayloads: doc.Dict.Len(),
		SavingsRatio:   savings,
	}
}

// EstimateTokens counts tokens in an arbitrary string with tok, for
// callers that just need a quick token estimate outside of a full Stats
// comparison.
func EstimateTokens(text string, tok *Tokenizer) int {
	return tok.Count(text)
}
