// Package tokenstats measures the token-count savings a 3DCF document's
// compact text framing achieves over its raw decoded text (spec §4.E).
package tokenstats

import (
	"encoding/base64"
	"encoding/json"
	"os"
	"strings"

	"github.com/pkoukk/tiktoken-go"

	"ctx3d/internal/ctxerr"
)

// Kind selects which encoding backs a Tokenizer.
type Kind int

const (
	Cl100k Kind = iota
	O200k
	Gpt2
	Anthropic
	Custom
)

// ParseKind maps a config string to a Kind, defaulting to Cl100k.
func ParseKind(s string) Kind {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "o200k":
		return O200k
	case "gpt2":
		return Gpt2
	case "anthropic":
		return Anthropic
	case "custom":
		return Custom
	default:
		return Cl100k
	}
}

// Tokenizer counts tokens in a string using a specific BPE encoding.
type Tokenizer struct {
	enc *tiktoken.Tiktoken
}

// Build constructs a Tokenizer for kind. customPath is only consulted when
// kind is Custom, naming a tiktoken-compatible merges file on disk.
//
// Anthropic has no published standalone BPE vocabulary; ctx3d aliases it
// to cl100k, the same approximation the reference implementation's
// anthropic_base() documents (its own comment: "Anthropic tokenization
// aligns closely with cl100k defaults").
func Build(kind Kind, customPath string) (*Tokenizer, error) {
	switch kind {
	case O200k:
		enc, err := tiktoken.GetEncoding("o200k_base")
		if err != nil {
			return nil, ctxerr.Wrap(ctxerr.KindTokenizer, err, "load o200k_base encoding")
		}
		return &Tokenizer{enc: enc}, nil
	case Gpt2:
		enc, err := tiktoken.GetEncoding("p50k_base")
		if err != nil {
			return nil, ctxerr.Wrap(ctxerr.KindTokenizer, err, "load p50k_base encoding")
		}
		return &Tokenizer{enc: enc}, nil
	case Anthropic, Cl100k:
		enc, err := tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			return nil, ctxerr.Wrap(ctxerr.KindTokenizer, err, "load cl100k_base encoding")
		}
		return &Tokenizer{enc: enc}, nil
	case Custom:
		return buildCustom(customPath)
	default:
		return nil, ctxerr.Newf(ctxerr.KindTokenizer, "unknown tokenizer kind %d", kind)
	}
}

// customSpec mirrors the reference CustomTokenizerSpec json shape:
// a regex split pattern plus a base64-token -> rank merge table and an
// optional set of special tokens.
type customSpec struct {
	PatStr         string         `json:"pat_str"`
	MergeableRanks map[string]int `json:"mergeable_ranks"`
	SpecialTokens  map[string]int `json:"special_tokens"`
}

func buildCustom(path string) (*Tokenizer, error) {
	if path == "" {
		return nil, ctxerr.New(ctxerr.KindTokenizer, "custom tokenizer requires a merges file path")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ctxerr.Wrap(ctxerr.KindTokenizer, err, "read custom tokenizer file")
	}
	var spec customSpec
	if err := json.Unmarshal(data, &spec); err != nil {
		return nil, ctxerr.Wrap(ctxerr.KindTokenizer, err, "parse custom tokenizer json")
	}

	ranks := make(map[string]int, len(spec.MergeableRanks))
	for token, rank := range spec.MergeableRanks {
		ranks[string(decodeTokenKey(token))] = rank
	}

	bpe, err := tiktoken.NewCoreBPE(ranks, spec.SpecialTokens, spec.PatStr)
	if err != nil {
		return nil, ctxerr.Wrap(ctxerr.KindTokenizer, err, "build custom bpe")
	}
	special := make(map[string]bool, len(spec.SpecialTokens))
	for token := range spec.SpecialTokens {
		special[token] = true
	}
	return &Tokenizer{enc: tiktoken.NewTiktoken(bpe, "custom", special)}, nil
}

func decodeTokenKey(key string) []byte {
	decoded, err := base64.StdEncoding.DecodeString(key)
	if err != nil {
		return []byte(key)
	}
	return decoded
}

// Count returns the number of tokens text encodes to, including special
// tokens (matching the reference's encode_with_special_tokens).
func (t *Tokenizer) Count(text string) int {
	return len(t.enc.Encode(text, []string{"all"}, nil))
}
