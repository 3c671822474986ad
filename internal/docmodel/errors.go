package docmodel

import "ctx3d/internal/ctxerr"

var (
	errInvalidHashLength = ctxerr.New(ctxerr.KindCodec, "invalid hash length")
	errTruncatedRecord    = ctxerr.New(ctxerr.KindCodec, "truncated record")
	errUnknownCellType    = ctxerr.New(ctxerr.KindCodec, "unknown cell type discriminant")
	errBadMagic           = ctxerr.New(ctxerr.KindCodec, "bad container magic")
)
