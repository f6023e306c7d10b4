package imaging

import (
	"net/url"
	"strings"
)

// LocalPath converts an image reference to a local file path. A file://
// URI is percent-decoded; anything else is returned unchanged.
func LocalPath(ref string) string {
	if !strings.HasPrefix(ref, "file://") {
		return ref
	}
	if u, err := url.Parse(ref); err == nil && u.Path != "" {
		return u.Path
	}
	return strings.TrimPrefix(ref, "file://")
}
