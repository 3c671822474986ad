package adapter

import "github.com/gomarkdown/markdown"

func init() {
	register("md", markdownAdapter{})
	register("markdown", markdownAdapter{})
}

// markdownAdapter renders markdown to HTML via gomarkdown, then flattens
// that HTML the same way the html adapter does — mirroring the reference
// implementation's markdown -> html -> plaintext pipeline.
type markdownAdapter struct{}

func (markdownAdapter) Convert(data []byte) ([]string, error) {
	renderedHTML := markdown.ToHTML(data, nil, nil)
	return []string{FlattenHTML(string(renderedHTML))}, nil
}
