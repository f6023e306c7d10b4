// Package imaging acquires photo evidence and prepares it for storage.
//
// A Source stands in for the camera or photo library and returns an opaque
// path. A Transformer downsizes and recompresses the photo and returns the
// path of the new file. Records keep only the returned path, never the
// image bytes.
package imaging
