package mirror

// NoopBackend discards every write. Used when no mirror is configured so
// the rest of the system keeps one code path.
type NoopBackend struct{}

// GetAll returns no documents.
func (NoopBackend) GetAll(string) ([][]byte, error) { return nil, nil }

// Set discards the write.
func (NoopBackend) Set(string, string, []byte) error { return nil }

// Update discards the write.
func (NoopBackend) Update(string, string, []byte) error { return nil }

// DeleteAll does nothing.
func (NoopBackend) DeleteAll(string) error { return nil }

// NewNoopBackend creates a backend that discards all writes.
func NewNoopBackend() NoopBackend { return NoopBackend{} }
