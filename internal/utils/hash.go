package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"hash"
	"sync"
)

// hasherPool is a package-level pool of reusable HMAC-SHA256 instances.
// Must be initialized via InitHasherPool before Hash is called.
var hasherPool sync.Pool

// InitHasherPool initializes a sync.Pool of HMAC-SHA256 hashers keyed with
// hashKey. Pooling avoids re-allocating hash state on every signed request,
// which matters on the hot request-verification path.
//
// Example usage:
//
//	utils.InitHasherPool(cfg.Server.HashKey)
func InitHasherPool(hashKey string) {
	hasherPool = sync.Pool{
		New: func() any {
			return hmac.New(sha256.New, []byte(hashKey))
		},
	}
}

// Hash computes an HMAC-SHA256 signature over data using a hasher from the
// pool. The hasher is reset before and after use so no request payload
// leaks between calls.
func Hash(data []byte) []byte {
	h := hasherPool.Get().(hash.Hash)
	h.Reset()

	h.Write(data)
	sum := h.Sum(nil)

	h.Reset()
	hasherPool.Put(h)

	return sum
}

// HashString computes an HMAC-SHA256 signature over data with the given key
// and returns it hex-encoded. Unlike [Hash] it builds a fresh HMAC instance
// per call; suitable for one-off signing where the pool is not initialized.
//
// Example usage:
//
//	signature := utils.HashString(body, "my-secret-key")
func HashString(data string, hashKey string) string {
	return hex.EncodeToString(hashString([]byte(data), hashKey))
}

func hashString(data []byte, hashKey string) []byte {
	hasher := hmac.New(sha256.New, []byte(hashKey))
	hasher.Write(data)
	return hasher.Sum(nil)
}
