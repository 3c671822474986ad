package tokenstats

import "testing"

func TestParseKind(t *testing.T) {
	cases := map[string]Kind{
		"":          Cl100k,
		"cl100k":    Cl100k,
		"o200k":     O200k,
		"gpt2":      Gpt2,
		"anthropic": Anthropic,
		"custom":    Custom,
	}
	for in, want := range cases {
		if got := ParseKind(in); got != want {
			t.Fatalf("ParseKind(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestBuildCl100k(t *testing.T) {
	tok, err := Build(Cl100k, "")
	if err != nil {
		t.Skipf("tiktoken-go vocab fetch unavailable in this environment: %v", err)
	}
	if tok.Count("hello world") == 0 {
		t.Fatalf("expected a nonzero token count")
	}
}

func TestBuildCustomRequiresPath(t *testing.T) {
	if _, err := Build(Custom, ""); err == nil {
		t.Fatalf("expected error for missing custom tokenizer path")
	}
}
