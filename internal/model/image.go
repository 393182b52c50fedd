package model

import (
	"io"
	"time"
)

// ImageRecord is derived from the filesystem on every call and never stored.
type ImageRecord struct {
	Name string `json:"name"`
	Path string `json:"path"`
	Url  string `json:"url"`
}

type ImageFile struct {
	Name     string
	Path     string
	Modified time.Time
	MimeType string
	Size     int64
	Data     io.ReadSeekCloser
}

type BulkResult struct {
	Removed []string `json:"eliminadas"`
	Missing []string `json:"no_encontradas"`
}
