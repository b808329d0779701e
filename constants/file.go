package constants

import "strings"

// AllowedExtensions holds the upload extensions the HTTP surface accepts.
// Ingest itself does not sniff content; the OCR provider owns that concern.
var AllowedExtensions = map[string]struct{}{
	"jpg":  {},
	"jpeg": {},
	"png":  {},
	"pdf":  {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// IsAllowedExt checks if a file extension is in the allowed upload set.
func IsAllowedExt(ext string) bool {
	_, ok := AllowedExtensions[NormalizeExt(ext)]
	return ok
}
