// internal/state/mock.go
package state

// Mock is an in-memory test double for Manager.
type Mock struct {
	values map[string]string
	getErr error
	setErr error
}

// NewMock creates a new mock state store.
func NewMock() *Mock {
	return &Mock{values: make(map[string]string)}
}

func (m *Mock) Get(key string) (string, bool, error) {
	if m.getErr != nil {
		return "", false, m.getErr
	}
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *Mock) Set(key, value string) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.values[key] = value
	return nil
}

func (m *Mock) Close() error { return nil }

// Test helpers

func (m *Mock) SetValue(key, value string) { m.values[key] = value }

func (m *Mock) SetGetError(err error) { m.getErr = err }

func (m *Mock) SetSetError(err error) { m.setErr = err }

// Verify Mock implements Interface at compile time.
var _ Interface = (*Mock)(nil)
