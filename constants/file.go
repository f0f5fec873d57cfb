package constants

import "strings"

// Source formats the text loader understands.
const (
	PDF  = "PDF"
	TEXT = "TXT"
)

// FileTypes holds the formats recorded for an analyzed document.
var FileTypes = []string{PDF, TEXT}

// AllowedExtensions holds the extensions picked up by directory discovery.
var AllowedExtensions = map[string]struct{}{
	"pdf": {},
}

// DefaultExtension is appended to renamed files without an extension.
const DefaultExtension = ".pdf"

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
}

// MapExtToFormat returns PDF, TEXT or "" for unsupported extensions.
func MapExtToFormat(ext string) string {
	switch NormalizeExt(ext) {
	case "pdf":
		return PDF
	case "txt", "text":
		return TEXT
	default:
		return ""
	}
}
