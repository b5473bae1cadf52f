package spider

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// NewID generates a random identifier with the given kind prefix, e.g.
// "spider_a1b2c3d4e5f6a7b8".
func NewID(kind string) string {
	b := make([]byte, 8)
	_, _ = rand.Read(b)
	return fmt.Sprintf("%s_%s", kind, hex.EncodeToString(b))
}
