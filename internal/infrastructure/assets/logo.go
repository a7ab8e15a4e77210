package assets

import (
	"encoding/base64"
	"os"

	"go.uber.org/zap"
)

// EncodeLogo reads the letterhead logo and returns it base64-encoded for
// inline embedding in the invoice template. A missing or unreadable file
// is a soft failure: the invoice renders without the image.
func EncodeLogo(path string, logger *zap.Logger) string {
	if logger == nil {
		logger = zap.NewNop()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("logo asset not readable, rendering without it",
			zap.String("path", path),
			zap.Error(err))
		return ""
	}
	return base64.StdEncoding.EncodeToString(data)
}
