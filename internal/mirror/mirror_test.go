package mirror

import (
	"fmt"
	"io"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryBackend records writes for assertions.
type memoryBackend struct {
	mu      sync.Mutex
	sets    map[string][]byte // keyed collection/id
	updates map[string][]byte
	fail    bool
}

func newMemoryBackend() *memoryBackend {
	return &memoryBackend{
		sets:    make(map[string][]byte),
		updates: make(map[string][]byte),
	}
}

func (b *memoryBackend) key(collection, id string) string { return collection + "/" + id }

func (b *memoryBackend) GetAll(collection string) ([][]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.fail {
		return nil, fmt.Errorf("backend unavailable")
	}
	var docs [][]byte
	for k, doc := range b.sets {
		if len(k) > len(collection) && k[:len(collection)] == collection {
			docs = append(docs, doc)
		}
	}
	return docs, nil
}

func (b *memoryBackend) Set(collection, id string, doc []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.fail {
		return fmt.Errorf("backend unavailable")
	}
	b.sets[b.key(collection, id)] = doc
	return nil
}

func (b *memoryBackend) Update(collection, id string, partial []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.updates[b.key(collection, id)] = partial
	return nil
}

func (b *memoryBackend) DeleteAll(string) error { return nil }

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestMirrorSetReachesBackend(t *testing.T) {
	backend := newMemoryBackend()
	m := New(backend, testLogger())

	m.Set("visitors", "12345", map[string]string{"id": "12345"})
	m.Close()

	backend.mu.Lock()
	defer backend.mu.Unlock()
	require.Contains(t, backend.sets, "visitors/12345")
	assert.JSONEq(t, `{"id":"12345"}`, string(backend.sets["visitors/12345"]))
}

func TestMirrorUpdateUsesPartialPath(t *testing.T) {
	backend := newMemoryBackend()
	m := New(backend, testLogger())

	m.Update("vips", "vip-1", map[string]string{"status": "DEACTIVATED"})
	m.Close()

	backend.mu.Lock()
	defer backend.mu.Unlock()
	assert.Contains(t, backend.updates, "vips/vip-1")
	assert.NotContains(t, backend.sets, "vips/vip-1")
}

func TestMirrorBackendFailureIsSwallowed(t *testing.T) {
	backend := newMemoryBackend()
	backend.fail = true
	m := New(backend, testLogger())

	// Must not panic or block the caller
	m.Set("visitors", "12345", map[string]string{"id": "12345"})
	m.Close()
}

func TestMirrorUnmarshalableRecordSkipped(t *testing.T) {
	backend := newMemoryBackend()
	m := New(backend, testLogger())

	m.Set("visitors", "12345", func() {}) // funcs cannot marshal
	m.Close()

	backend.mu.Lock()
	defer backend.mu.Unlock()
	assert.Empty(t, backend.sets)
}

func TestMirrorCloseDrainsQueue(t *testing.T) {
	backend := newMemoryBackend()
	m := New(backend, testLogger())

	for i := 0; i < 100; i++ {
		m.Set("visitors", fmt.Sprintf("%05d", i), map[string]int{"n": i})
	}
	m.Close()

	backend.mu.Lock()
	defer backend.mu.Unlock()
	assert.Len(t, backend.sets, 100)
}

func TestMirrorHydrate(t *testing.T) {
	backend := newMemoryBackend()
	backend.sets["visitors/12345"] = []byte(`{"id":"12345"}`)
	backend.sets["visitors/54321"] = []byte(`{"id":"54321"}`)

	m := New(backend, testLogger())
	defer m.Close()

	var got [][]byte
	m.Hydrate("visitors", func(doc []byte) { got = append(got, doc) })
	assert.Len(t, got, 2)
}

func TestMirrorHydrateBackendFailure(t *testing.T) {
	backend := newMemoryBackend()
	backend.fail = true

	m := New(backend, testLogger())
	defer m.Close()

	called := false
	m.Hydrate("visitors", func([]byte) { called = true })
	assert.False(t, called, "a failing backend hydrates nothing")
}
