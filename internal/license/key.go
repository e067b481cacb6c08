package license

import (
	"context"
	"crypto/rand"
	"math/big"
	"strings"
)

const (
	KeyPrefix   = "SAL-"
	keyAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	keyGroups   = 4
	groupLen    = 4
)

// Lookup reports whether a key already exists, so generation can retry
// until it lands on a free one.
type Lookup interface {
	KeyExists(ctx context.Context, key string) (bool, error)
}

// NewKey produces KeyPrefix plus 4 hyphen-joined groups of 4 characters
// from [A-Z0-9].
func NewKey() string {
	var b strings.Builder
	b.WriteString(KeyPrefix)
	for g := 0; g < keyGroups; g++ {
		if g > 0 {
			b.WriteByte('-')
		}
		for i := 0; i < groupLen; i++ {
			b.WriteByte(keyAlphabet[randIndex(len(keyAlphabet))])
		}
	}
	return b.String()
}

// NewUniqueKey retries until the lookup reports a free key. The 36^16
// keyspace makes more than one round exceedingly rare.
func NewUniqueKey(ctx context.Context, lookup Lookup) (string, error) {
	for {
		key := NewKey()
		exists, err := lookup.KeyExists(ctx, key)
		if err != nil {
			return "", err
		}
		if !exists {
			return key, nil
		}
	}
}

// StripPrefix removes the call-site prefix, leaving the raw
// XXXX-XXXX-XXXX-XXXX part.
func StripPrefix(key string) string {
	return strings.TrimPrefix(key, KeyPrefix)
}

func randIndex(n int) int {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		// crypto/rand failing means the platform entropy source is gone.
		panic(err)
	}
	return int(v.Int64())
}
