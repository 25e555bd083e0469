package session

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeConn struct {
	id       string
	identity string
}

func (f *fakeConn) ID() string                  { return f.id }
func (f *fakeConn) Identity() string            { return f.identity }
func (f *fakeConn) Send(event interface{}) bool { return true }

func TestRegisterFirstConnection(t *testing.T) {
	r := NewRegistry()

	first := r.Register("alice@example.com", &fakeConn{id: "c1", identity: "alice@example.com"})
	require.True(t, first)
	require.True(t, r.IsOnline("alice@example.com"))

	second := r.Register("alice@example.com", &fakeConn{id: "c2", identity: "alice@example.com"})
	require.False(t, second)
	require.Len(t, r.ConnectionsOf("alice@example.com"), 2)
}

func TestRegisterIsIdempotentPerConnID(t *testing.T) {
	r := NewRegistry()
	c := &fakeConn{id: "c1", identity: "alice@example.com"}

	r.Register("alice@example.com", c)
	r.Register("alice@example.com", c)

	require.Len(t, r.ConnectionsOf("alice@example.com"), 1)
	require.Equal(t, 1, r.Count())
}

func TestUnregisterLastConnectionGoesOffline(t *testing.T) {
	r := NewRegistry()
	r.Register("alice@example.com", &fakeConn{id: "c1", identity: "alice@example.com"})
	r.Register("alice@example.com", &fakeConn{id: "c2", identity: "alice@example.com"})

	offline := r.Unregister("alice@example.com", "c1")
	require.False(t, offline)
	require.True(t, r.IsOnline("alice@example.com"))

	offline = r.Unregister("alice@example.com", "c2")
	require.True(t, offline)
	require.False(t, r.IsOnline("alice@example.com"))
	require.Empty(t, r.Identities())
}

func TestUnregisterUnknownConnection(t *testing.T) {
	r := NewRegistry()
	require.False(t, r.Unregister("ghost@example.com", "c1"))

	r.Register("alice@example.com", &fakeConn{id: "c1", identity: "alice@example.com"})
	require.False(t, r.Unregister("alice@example.com", "nope"))
	require.True(t, r.IsOnline("alice@example.com"))
}

func TestConcurrentRegisterUnregisterSameIdentity(t *testing.T) {
	r := NewRegistry()
	r.Register("alice@example.com", &fakeConn{id: "seed", identity: "alice@example.com"})

	// A re-register racing the last unregister must never be lost: after both
	// complete in either order, the new connection is present.
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			r.Unregister("alice@example.com", "seed")
		}()
		go func() {
			defer wg.Done()
			r.Register("alice@example.com", &fakeConn{id: "fresh", identity: "alice@example.com"})
		}()
		wg.Wait()

		require.True(t, r.IsOnline("alice@example.com"))
		r.Unregister("alice@example.com", "fresh")
		r.Register("alice@example.com", &fakeConn{id: "seed", identity: "alice@example.com"})
	}
}

func TestIdentitiesAndCount(t *testing.T) {
	r := NewRegistry()
	r.Register("alice@example.com", &fakeConn{id: "a1", identity: "alice@example.com"})
	r.Register("alice@example.com", &fakeConn{id: "a2", identity: "alice@example.com"})
	r.Register("bob@example.com", &fakeConn{id: "b1", identity: "bob@example.com"})

	require.ElementsMatch(t, []string{"alice@example.com", "bob@example.com"}, r.Identities())
	require.Equal(t, 3, r.Count())
}
