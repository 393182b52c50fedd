package gallery

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

const defaultMimeType = `application/octet-stream`

var mimeTypes = map[string]string{
	`gif`:  `image/gif`,
	`jpeg`: `image/jpeg`,
	`jpg`:  `image/jpeg`,
	`png`:  `image/png`,
}

// Wand names the content type of a stored file, by extension first and by
// sniffing its leading bytes when the extension is unknown.
type Wand struct {
}

func Magic() Wand {
	return Wand{}
}

func (wand Wand) Zap(name string, data io.ReadSeeker) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), `.`)
	if mimeType, ok := mimeTypes[ext]; ok {
		return mimeType
	}
	if data == nil {
		return defaultMimeType
	}
	mtype, err := mimetype.DetectReader(data)
	if _, seekErr := data.Seek(0, io.SeekStart); seekErr != nil || err != nil {
		return defaultMimeType
	}
	return mtype.String()
}
