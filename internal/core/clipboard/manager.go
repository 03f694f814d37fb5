// Package clipboard holds yanked transcript text in an internal register
// and, when enabled, copies it to the system clipboard.
package clipboard

import (
	"errors"
	"fmt"
	"sync"

	"github.com/atotto/clipboard"
	"github.com/bethropolis/redline/internal/logger"
)

// Manager handles clipboard operations
type Manager struct {
	mu        sync.Mutex
	useSystem bool
	register  string
	write     func(string) error // System clipboard writer
}

// NewManager creates a clipboard manager. With useSystem set, yanks also go
// to the system clipboard.
func NewManager(useSystem bool) *Manager {
	return &Manager{useSystem: useSystem, write: writeSystem}
}

func writeSystem(text string) error {
	if clipboard.Unsupported {
		return errors.New("no clipboard utility available")
	}
	return clipboard.WriteAll(text)
}

// Yank stores text in the register and, when enabled, on the system
// clipboard. The register is updated even when the system copy fails.
func (m *Manager) Yank(text string) (system bool, err error) {
	m.mu.Lock()
	m.register = text
	useSystem := m.useSystem
	m.mu.Unlock()
	logger.Debugf("ClipboardManager: Yanked %d bytes", len(text))

	if !useSystem {
		return false, nil
	}
	if err := m.write(text); err != nil {
		return false, fmt.Errorf("system clipboard: %w", err)
	}
	return true, nil
}

// Contents returns the last yanked text.
func (m *Manager) Contents() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.register
}
