package ingestion

import (
	"net/url"
	"path"
	"strings"
)

// mimeByExtension maps file extensions to MIME types for responses whose
// Content-Type header is missing or generic.
var mimeByExtension = map[string]string{
	".pdf":  "application/pdf",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
}

// GuessMimeType determines the MIME type of fetched content: the response
// header wins when present, then the URL's file extension, then the generic
// binary fallback.
func GuessMimeType(rawURL, contentTypeHeader string) string {
	header := strings.ToLower(strings.TrimSpace(strings.Split(contentTypeHeader, ";")[0]))
	if header != "" && header != "application/octet-stream" {
		return header
	}

	if u, err := url.Parse(rawURL); err == nil {
		ext := strings.ToLower(path.Ext(u.Path))
		if mime, ok := mimeByExtension[ext]; ok {
			return mime
		}
	}

	return "application/octet-stream"
}
