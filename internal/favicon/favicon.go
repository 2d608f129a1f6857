// Package favicon decodes the data URI a server's status response
// embeds its 64x64 icon in.
package favicon

import (
	"encoding/base64"
	"fmt"
	"strings"
)

const dataURIPrefix = "data:image/png;base64,"

// ErrNoFavicon is returned when the server reported no favicon at all.
var ErrNoFavicon = fmt.Errorf("favicon: server reported no favicon")

// Decode extracts the raw PNG bytes from a status response's favicon
// field, which is a "data:image/png;base64,..." URI.
func Decode(dataURI string) ([]byte, error) {
	if dataURI == "" {
		return nil, ErrNoFavicon
	}

	encoded, ok := strings.CutPrefix(dataURI, dataURIPrefix)
	if !ok {
		return nil, fmt.Errorf("favicon: unexpected data uri prefix")
	}

	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("favicon: decode base64: %w", err)
	}
	return raw, nil
}
