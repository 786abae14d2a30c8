package registry

import "bytes"

// pointerSignature is the leading byte sequence of a large-file-storage
// pointer: a small text reference left in place of the real binary by
// externally-managed LFS tooling. Such a file must never be handed to the
// artifact decoder.
var pointerSignature = []byte("version https://git-lfs")

// isPlaceholder reports whether the given artifact bytes are an LFS pointer
// rather than a genuine binary artifact.
func isPlaceholder(data []byte) bool {
	head := data
	if len(head) > 100 {
		head = head[:100]
	}
	return bytes.HasPrefix(head, pointerSignature)
}
