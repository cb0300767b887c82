package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xavierca1/ligue-crm/internal/entity"
)

type stubLookup struct {
	calls int
	addr  *entity.Address
	err   error
}

func (s *stubLookup) Lookup(ctx context.Context, postalCode string) (*entity.Address, error) {
	s.calls++
	return s.addr, s.err
}

// unreachableRedis points at a closed port so every command fails fast.
func unreachableRedis(t *testing.T) *redis.Client {
	t.Helper()
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		MaxRetries:  -1,
		DialTimeout: 200 * time.Millisecond,
	})
	t.Cleanup(func() { client.Close() })
	return client
}

func TestLookupFallsBackWhenRedisIsDown(t *testing.T) {
	next := &stubLookup{addr: &entity.Address{City: "São Paulo", State: "SP"}}
	c := NewAddressCache(unreachableRedis(t), next, time.Hour, nil)

	addr, err := c.Lookup(context.Background(), "01001000")
	require.NoError(t, err)
	assert.Equal(t, "São Paulo", addr.City)
	assert.Equal(t, 1, next.calls)
}

func TestLookupPropagatesUpstreamError(t *testing.T) {
	upstream := errors.New("cep not found")
	next := &stubLookup{err: upstream}
	c := NewAddressCache(unreachableRedis(t), next, time.Hour, nil)

	_, err := c.Lookup(context.Background(), "99999999")
	assert.ErrorIs(t, err, upstream)
}
