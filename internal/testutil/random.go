package testutil

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// RandomEmail returns a unique email so tests never collide on the users
// email uniqueness constraint.
func RandomEmail() string {
	b := make([]byte, 6)
	_, _ = rand.Read(b)
	return fmt.Sprintf("user-%s@example.com", hex.EncodeToString(b))
}
