// Package mirror trails the in-memory store with best-effort writes to a
// remote key-value document backend. Writes are fire-and-forget: the
// decision path enqueues and moves on, a background worker does the IO,
// and failures only ever produce warnings.
package mirror

import (
	"encoding/json"

	"github.com/sirupsen/logrus"
)

// Backend is a key-value document store addressed by collection name and
// document id.
type Backend interface {
	GetAll(collection string) ([][]byte, error)
	Set(collection, id string, doc []byte) error
	Update(collection, id string, partial []byte) error
	DeleteAll(collection string) error
}

// DefaultQueueSize bounds the pending write queue. A full queue drops the
// write with a warning rather than blocking a decision.
const DefaultQueueSize = 256

type writeOp struct {
	collection string
	id         string
	doc        []byte
	partial    bool
}

// Mirror owns the background worker that applies queued writes to the
// backend.
type Mirror struct {
	backend Backend
	logger  *logrus.Logger
	queue   chan writeOp
	done    chan struct{}
}

// New starts a mirror worker over the given backend.
func New(backend Backend, logger *logrus.Logger) *Mirror {
	m := &Mirror{
		backend: backend,
		logger:  logger,
		queue:   make(chan writeOp, DefaultQueueSize),
		done:    make(chan struct{}),
	}
	go m.run()
	return m
}

func (m *Mirror) run() {
	defer close(m.done)
	for op := range m.queue {
		var err error
		if op.partial {
			err = m.backend.Update(op.collection, op.id, op.doc)
		} else {
			err = m.backend.Set(op.collection, op.id, op.doc)
		}
		if err != nil {
			m.logger.WithFields(logrus.Fields{
				"collection": op.collection,
				"id":         op.id,
			}).Warnf("Mirror write failed: %v", err)
		}
	}
}

func (m *Mirror) enqueue(op writeOp) {
	select {
	case m.queue <- op:
	default:
		m.logger.WithFields(logrus.Fields{
			"collection": op.collection,
			"id":         op.id,
		}).Warn("Mirror queue full, dropping write")
	}
}

// Set queues a full-document write. Marshalling failures are logged and
// the write is skipped; the caller is never affected.
func (m *Mirror) Set(collection, id string, record interface{}) {
	doc, err := json.Marshal(record)
	if err != nil {
		m.logger.Warnf("Mirror marshal failed for %s/%s: %v", collection, id, err)
		return
	}
	m.enqueue(writeOp{collection: collection, id: id, doc: doc})
}

// Update queues a partial-document merge.
func (m *Mirror) Update(collection, id string, partial interface{}) {
	doc, err := json.Marshal(partial)
	if err != nil {
		m.logger.Warnf("Mirror marshal failed for %s/%s: %v", collection, id, err)
		return
	}
	m.enqueue(writeOp{collection: collection, id: id, doc: doc, partial: true})
}

// Hydrate reads every document of a collection and hands each to the
// callback. Used once at boot to warm the in-memory store; a failing
// backend degrades to an empty start, not an error.
func (m *Mirror) Hydrate(collection string, apply func(doc []byte)) {
	docs, err := m.backend.GetAll(collection)
	if err != nil {
		m.logger.Warnf("Mirror hydration failed for %s: %v", collection, err)
		return
	}
	for _, doc := range docs {
		apply(doc)
	}
}

// Close stops accepting writes and waits for the worker to drain the
// queue.
func (m *Mirror) Close() {
	close(m.queue)
	<-m.done
}
