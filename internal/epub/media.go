package epub

import (
	"path"
	"strings"
)

const defaultMediaType = "application/octet-stream"

var mediaTypes = map[string]string{
	".css":   "text/css",
	".gif":   "image/gif",
	".htm":   "application/xhtml+xml",
	".html":  "application/xhtml+xml",
	".jpeg":  "image/jpeg",
	".jpg":   "image/jpeg",
	".js":    "application/javascript",
	".mp3":   "audio/mpeg",
	".ncx":   "application/x-dtbncx+xml",
	".otf":   "application/vnd.ms-opentype",
	".png":   "image/png",
	".svg":   "image/svg+xml",
	".ttf":   "application/x-font-ttf",
	".webp":  "image/webp",
	".woff":  "application/font-woff",
	".woff2": "font/woff2",
	".xhtml": "application/xhtml+xml",
	".xml":   "application/xml",
}

// MediaType returns the media type for href's extension, or
// application/octet-stream when the extension is unknown.
func MediaType(href string) string {
	if i := strings.IndexAny(href, "?#"); i >= 0 {
		href = href[:i]
	}
	if mt, ok := mediaTypes[strings.ToLower(path.Ext(href))]; ok {
		return mt
	}
	return defaultMediaType
}
