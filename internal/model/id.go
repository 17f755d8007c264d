package model

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// NewSymbolID derives a stable 128-bit id from (filePath, name, startRow,
// startCol), hex-encoded. The hash function itself is not load-bearing;
// sha256 truncated to 16 bytes mirrors the content-id scheme already
// used elsewhere in internal/index.
func NewSymbolID(filePath, name string, startRow, startCol int) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s\x00%s\x00%d\x00%d", filePath, name, startRow, startCol)))
	return hex.EncodeToString(sum[:16])
}

// IDAllocator hands out Symbol ids within a single file's extraction run
// and perturbs colliding ids deterministically. It is not safe for
// concurrent use; one allocator is owned by one extractor instance,
// consistent with the single-threaded per-file extraction model.
type IDAllocator struct {
	seen map[string]int
}

// NewIDAllocator returns a ready-to-use allocator.
func NewIDAllocator() *IDAllocator {
	return &IDAllocator{seen: make(map[string]int)}
}

// Allocate returns a unique id for (filePath, name, startRow, startCol,
// startByte). On collision with a previously allocated id in this file,
// the id is perturbed by appending the byte offset and a collision
// counter; onCollision, if non-nil, is invoked so the caller can log a
// WARN for the collision.
func (a *IDAllocator) Allocate(filePath, name string, startRow, startCol int, startByte uint, onCollision func(id string)) string {
	id := NewSymbolID(filePath, name, startRow, startCol)
	if n, exists := a.seen[id]; exists {
		n++
		a.seen[id] = n
		perturbed := fmt.Sprintf("%s%02x%02x", id[:30], byte(startByte), byte(n))
		if onCollision != nil {
			onCollision(id)
		}
		a.seen[perturbed] = 0
		return perturbed
	}
	a.seen[id] = 0
	return id
}
