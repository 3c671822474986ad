package adapter

import (
	"bytes"

	"github.com/ledongthuc/pdf"

	"ctx3d/internal/ctxerr"
)

func init() {
	register("pdf", pdfAdapter{})
}

// pdfAdapter extracts plain text per page via ledongthuc/pdf, which is
// sufficient for text-layer PDFs. Scanned, image-only pages come back as
// empty strings; no OCR is applied to PDF pages.
type pdfAdapter struct{}

func (pdfAdapter) Convert(data []byte) ([]string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, ctxerr.Wrap(ctxerr.KindInput, err, "open pdf")
	}

	total := r.NumPage()
	pages := make([]string, 0, total)
	for i := 1; i <= total; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			pages = append(pages, "")
			continue
		}
		pages = append(pages, text)
	}
	return pages, nil
}
