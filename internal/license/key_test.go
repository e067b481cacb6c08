package license_test

import (
	"context"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agendusalao/salon-api/internal/license"
)

var keyPattern = regexp.MustCompile(`^SAL-[A-Z0-9]{4}-[A-Z0-9]{4}-[A-Z0-9]{4}-[A-Z0-9]{4}$`)

func TestNewKey_Format(t *testing.T) {
	for i := 0; i < 50; i++ {
		key := license.NewKey()
		assert.Regexp(t, keyPattern, key)
	}
}

func TestNewKey_Distinct(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		key := license.NewKey()
		require.False(t, seen[key], "generated duplicate key %s", key)
		seen[key] = true
	}
}

func TestStripPrefix(t *testing.T) {
	assert.Equal(t, "AB12-CD34-EF56-GH78", license.StripPrefix("SAL-AB12-CD34-EF56-GH78"))
	assert.Equal(t, "AB12-CD34-EF56-GH78", license.StripPrefix("AB12-CD34-EF56-GH78"))
}

type fakeLookup struct {
	collisions int
	calls      int
}

func (f *fakeLookup) KeyExists(ctx context.Context, key string) (bool, error) {
	f.calls++
	if f.calls <= f.collisions {
		return true, nil
	}
	return false, nil
}

func TestNewUniqueKey_RetriesOnCollision(t *testing.T) {
	lookup := &fakeLookup{collisions: 2}

	key, err := license.NewUniqueKey(context.Background(), lookup)
	require.NoError(t, err)
	assert.Regexp(t, keyPattern, key)
	assert.Equal(t, 3, lookup.calls)
}
