package keygen

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
	"regexp"
	"strconv"
)

// DefaultBits is the random-identifier width used when no bit width is
// configured. 64 bits keeps guessing infeasible while keys stay short;
// uniqueness is probabilistic and collisions are left to the store's
// overwrite semantics.
const DefaultBits = 64

// keyShape matches well-formed store keys. The second group is the expiry as
// hex epoch seconds; 0 means the session never expires.
var keyShape = regexp.MustCompile(`^[0-9a-f]+_([0-9a-f]+)$`)

// Generate mints a store key from bits of randomness read from r and an
// absolute expiry in epoch seconds (0 or negative = never expires).
//
// Both components are rendered as lowercase hex with no padding; the format
// is load-bearing, since Expiry and the cleanup sweep parse it back. A reader
// that cannot supply the requested bits is a fatal configuration problem and
// surfaces as an error here.
func Generate(r io.Reader, expiresAt int64, bits int) (string, error) {
	if r == nil {
		r = rand.Reader
	}
	if bits <= 0 {
		bits = DefaultBits
	}

	buf := make([]byte, (bits+7)/8)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", fmt.Errorf("read %d random bits: %w", bits, err)
	}
	if rem := bits % 8; rem != 0 {
		buf[0] &= byte(1<<rem) - 1
	}

	if expiresAt < 0 {
		expiresAt = 0
	}

	id := new(big.Int).SetBytes(buf)
	return fmt.Sprintf("%x_%x", id, expiresAt), nil
}

// Expiry parses the expiry component of a store key. It returns false for
// anything not matching the <hex>_<hex> shape, which lets the cleanup sweep
// skip unrelated entries sharing the store.
func Expiry(key string) (int64, bool) {
	m := keyShape.FindStringSubmatch(key)
	if m == nil {
		return 0, false
	}

	exp, err := strconv.ParseInt(m[1], 16, 64)
	if err != nil {
		return 0, false
	}
	return exp, true
}
