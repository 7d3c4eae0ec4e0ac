package auxstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStore_GetMissingKey(t *testing.T) {
	s := New()
	_, ok := s.Get("missing")
	assert.False(t, ok)
}

func TestStore_PutThenGet(t *testing.T) {
	s := New()
	s.Put("k", "v1")
	v, ok := s.Get("k")
	assert.True(t, ok)
	assert.Equal(t, "v1", v)

	s.Put("k", "v2")
	v, ok = s.Get("k")
	assert.True(t, ok)
	assert.Equal(t, "v2", v)
}

func TestStore_ConcurrentAccess(t *testing.T) {
	s := New()
	done := make(chan struct{})
	for i := 0; i < 8; i++ {
		go func(i int) {
			s.Put("k", "v")
			s.Get("k")
			done <- struct{}{}
		}(i)
	}
	for i := 0; i < 8; i++ {
		<-done
	}
}
