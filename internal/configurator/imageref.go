package configurator

import "strings"

// FallbackPreviewImage replaces remote image references that fail
// validation, so nothing unexpected ever reaches an <img> sink.
const FallbackPreviewImage = "/images/preview-fallback.png"

// ValidImageRef reports whether a reference is one of the allowed shapes:
// an image data URI, an absolute http(s) URL, or a root-relative path.
func ValidImageRef(ref string) bool {
	if ref == "" {
		return false
	}
	if strings.HasPrefix(ref, "data:image/") {
		return true
	}
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return true
	}
	// root-relative, but not protocol-relative
	if strings.HasPrefix(ref, "/") && !strings.HasPrefix(ref, "//") {
		return true
	}
	return false
}

// SanitizeImageRef returns the reference unchanged when valid, else the
// bundled fallback.
func SanitizeImageRef(ref string) string {
	if ValidImageRef(ref) {
		return ref
	}
	return FallbackPreviewImage
}
