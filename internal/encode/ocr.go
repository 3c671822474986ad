package encode

import "ctx3d/internal/ctxerr"

// OCRBackend converts a rasterized page image into plain text. No backend
// ships by default (spec's OCR Non-goal excludes bundling an engine); a
// caller passes one to New or to LoadPath/LoadBytes, and image input also
// needs Config.EnableOCR, which NewConfig leaves false.
type OCRBackend interface {
	ImageToText(data []byte, languages []string) (string, error)
}

// disabledOCR always reports the feature as unavailable.
type disabledOCR struct{}

func (disabledOCR) ImageToText([]byte, []string) (string, error) {
	return "", ctxerr.ErrOcrSupportDisabled
}

var imageExtensions = map[string]struct{}{
	"png": {}, "jpg": {}, "jpeg": {}, "tif": {}, "tiff": {}, "bmp": {}, "webp": {}, "gif": {},
}

func isImageExt(ext string) bool {
	_, ok := imageExtensions[ext]
	return ok
}
