package keygen

import (
	"bytes"
	"crypto/rand"
	"errors"
	"regexp"
	"strconv"
	"strings"
	"testing"
)

var wellFormed = regexp.MustCompile(`^[0-9a-f]+_[0-9a-f]+$`)

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("entropy exhausted")
}

func TestGenerateFixedSource(t *testing.T) {
	key, err := Generate(bytes.NewReader([]byte{0x1a, 0x2b}), 1000, 16)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if key != "1a2b_3e8" {
		t.Fatalf("expected 1a2b_3e8, got %q", key)
	}
}

func TestGenerateZeroExpiry(t *testing.T) {
	key, err := Generate(rand.Reader, 0, 64)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !strings.HasSuffix(key, "_0") {
		t.Fatalf("expected _0 suffix for non-expiring key, got %q", key)
	}
}

func TestGenerateNegativeExpiryNormalizedToZero(t *testing.T) {
	key, err := Generate(rand.Reader, -5, 64)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !strings.HasSuffix(key, "_0") {
		t.Fatalf("expected _0 suffix, got %q", key)
	}
}

func TestGenerateShape(t *testing.T) {
	for _, bits := range []int{16, 64, 128, 256} {
		for i := 0; i < 50; i++ {
			key, err := Generate(rand.Reader, 1767225600, bits)
			if err != nil {
				t.Fatalf("generate bits=%d: %v", bits, err)
			}
			if !wellFormed.MatchString(key) {
				t.Fatalf("key %q does not match <hex>_<hex>", key)
			}
		}
	}
}

func TestGenerateMasksPartialBits(t *testing.T) {
	// 12 bits from 0xff 0xff must mask the top nibble away.
	key, err := Generate(bytes.NewReader([]byte{0xff, 0xff}), 0, 12)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	idHex := strings.SplitN(key, "_", 2)[0]
	id, err := strconv.ParseUint(idHex, 16, 64)
	if err != nil {
		t.Fatalf("parse id %q: %v", idHex, err)
	}
	if id >= 1<<12 {
		t.Fatalf("id %#x exceeds 12 bits", id)
	}
}

func TestGenerateDefaultsApply(t *testing.T) {
	key, err := Generate(nil, 0, 0)
	if err != nil {
		t.Fatalf("generate with defaults: %v", err)
	}
	if !wellFormed.MatchString(key) {
		t.Fatalf("key %q does not match <hex>_<hex>", key)
	}
}

func TestGenerateReaderFailureSurfaces(t *testing.T) {
	if _, err := Generate(failingReader{}, 0, 64); err == nil {
		t.Fatal("expected error from failing random source")
	}
}

func TestExpiryRoundTrip(t *testing.T) {
	key, err := Generate(rand.Reader, 1000, 64)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	exp, ok := Expiry(key)
	if !ok {
		t.Fatalf("expected %q to parse", key)
	}
	if exp != 1000 {
		t.Fatalf("expected expiry 1000, got %d", exp)
	}
}

func TestExpiryRejectsForeignKeys(t *testing.T) {
	for _, key := range []string{
		"",
		"not_a_valid_key_format",
		"UPPER_3E8",
		"1a2b",
		"1a2b_",
		"_3e8",
		"1a2b_3e8_extra",
	} {
		if _, ok := Expiry(key); ok {
			t.Fatalf("expected %q to be rejected", key)
		}
	}
}

func TestExpiryOverflowRejected(t *testing.T) {
	if _, ok := Expiry("1a2b_ffffffffffffffffff"); ok {
		t.Fatal("expected overflowing expiry to be rejected")
	}
}
