package adapter

func init() {
	p := plainAdapter{}
	register("txt", p)
	register("text", p)
	register("tex", p)
	register("json", p)
	register("bib", p)
	register("log", p)
	register("rtf", p)
	register("", p)
}

// plainAdapter passes raw file content through untouched; the caller splits
// on form-feed page breaks, the same convention the markdown and html
// adapters land on once flattened to plaintext.
type plainAdapter struct{}

func (plainAdapter) Convert(data []byte) ([]string, error) {
	return []string{string(data)}, nil
}
