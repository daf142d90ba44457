package state

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOffered(t *testing.T) {
	m := New(0)
	m.SetOffered(1, []string{"a", "b"})

	id, ok := m.Offered(1, 2)
	assert.True(t, ok)
	assert.Equal(t, "b", id)

	_, ok = m.Offered(1, 0)
	assert.False(t, ok)
	_, ok = m.Offered(1, 3)
	assert.False(t, ok)
	_, ok = m.Offered(2, 1)
	assert.False(t, ok)
}

func TestOfferedExpires(t *testing.T) {
	now := time.Date(2026, 10, 15, 19, 0, 0, 0, time.UTC)
	m := New(time.Minute)
	m.now = func() time.Time { return now }
	m.SetOffered(1, []string{"a"})

	now = now.Add(59 * time.Second)
	_, ok := m.Offered(1, 1)
	assert.True(t, ok)

	now = now.Add(2 * time.Second)
	_, ok = m.Offered(1, 1)
	assert.False(t, ok)
	assert.Empty(t, m.states)
}

func TestClearState(t *testing.T) {
	m := New(0)
	m.SetOffered(1, []string{"a"})
	m.ClearState(1)
	_, ok := m.Offered(1, 1)
	assert.False(t, ok)
}

func TestSetOfferedCopies(t *testing.T) {
	m := New(0)
	ids := []string{"a"}
	m.SetOffered(1, ids)
	ids[0] = "changed"

	id, _ := m.Offered(1, 1)
	assert.Equal(t, "a", id)
}

func TestConcurrentAccess(t *testing.T) {
	m := New(0)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			m.SetOffered(int64(i%5), []string{"x"})
			m.Offered(int64(i%5), 1)
		}(i)
	}
	wg.Wait()
	assert.Len(t, m.states, 5)
}
