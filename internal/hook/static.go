package hook

import (
	"fmt"
	"path/filepath"
	"sync"
)

// Serves hooks implemented in Go and registered by script path.
//
// The script file must still exist under the resource root; its content is
// ignored. Safe for concurrent use.
type Static struct {
	mu    sync.RWMutex
	hooks map[string]Func
}

// Creates an empty static provider.
func NewStatic() *Static {
	return &Static{hooks: make(map[string]Func)}
}

// Registers fn for the script at path.
func (s *Static) Register(path string, fn Func) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hooks[filepath.Clean(path)] = fn
}

// Returns the function registered for path. Arguments are ignored.
func (s *Static) Load(path string, args []string) (Func, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn, ok := s.hooks[filepath.Clean(path)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotRegistered, path)
	}
	return fn, nil
}
