// internal/state/interface.go
package state

// Interface defines the state manager contract for dependency injection and
// testing.
type Interface interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Close() error
}

// Verify Manager implements Interface at compile time.
var _ Interface = (*Manager)(nil)
