package token

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"hash"
	"strings"
)

// Sign computes the hex MAC over key with the given secret. A nil hash
// constructor falls back to SHA-256. Same key, secret, and hash always yield
// the same MAC; verification depends on that.
func Sign(secret []byte, key string, h func() hash.Hash) string {
	return hex.EncodeToString(digest(secret, key, h))
}

// Verify recomputes the MAC over key and compares it against macHex in
// constant time. Undecodable MACs fail verification rather than erroring.
func Verify(secret []byte, key, macHex string, h func() hash.Hash) bool {
	provided, err := hex.DecodeString(macHex)
	if err != nil {
		return false
	}
	return hmac.Equal(digest(secret, key, h), provided)
}

// Join assembles the client-facing token from a store key and its MAC.
func Join(key, mac string) string {
	return key + "_" + mac
}

// Split separates a token into store key and MAC on the LAST underscore; the
// key itself legitimately contains one. Tokens without a reachable separator,
// or with an empty key or MAC portion, report ok=false.
func Split(tok string) (key, mac string, ok bool) {
	i := strings.LastIndexByte(tok, '_')
	if i <= 0 || i == len(tok)-1 {
		return "", "", false
	}
	return tok[:i], tok[i+1:], true
}

func digest(secret []byte, key string, h func() hash.Hash) []byte {
	if h == nil {
		h = sha256.New
	}
	mac := hmac.New(h, secret)
	mac.Write([]byte(key))
	return mac.Sum(nil)
}
