package watchlist

import (
	"fmt"
	"slices"
	"strings"
	"sync"
)

// Manager holds the analyzed ticker set with concurrency safety. The set
// survives restarts via a JSON state file so a scheduled deployment keeps
// analyzing the same securities.
type Manager struct {
	mu       sync.Mutex
	state    *State
	filePath string
}

// NewManager creates a Manager, loading state from disk. A fresh state is
// seeded with the configured tickers.
func NewManager(filePath string, seed []string) (*Manager, error) {
	state, err := LoadState(filePath)
	if err != nil {
		return nil, err
	}
	if len(state.Tickers) == 0 {
		for _, t := range seed {
			state.Tickers = append(state.Tickers, normalize(t))
		}
	}

	m := &Manager{state: state, filePath: filePath}
	if err := m.save(); err != nil {
		return nil, err
	}
	return m, nil
}

// Tickers returns a copy of the current ticker set in selection order.
func (m *Manager) Tickers() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.state.Tickers)
}

// Add appends a ticker to the watchlist. Adding an existing ticker is an
// error so callers notice typos instead of silently double-counting.
func (m *Manager) Add(ticker string) error {
	ticker = normalize(ticker)
	if ticker == "" {
		return fmt.Errorf("empty ticker")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if slices.Contains(m.state.Tickers, ticker) {
		return fmt.Errorf("ticker %s already on watchlist", ticker)
	}
	m.state.Tickers = append(m.state.Tickers, ticker)
	return m.save()
}

// Remove deletes a ticker from the watchlist.
func (m *Manager) Remove(ticker string) error {
	ticker = normalize(ticker)

	m.mu.Lock()
	defer m.mu.Unlock()
	i := slices.Index(m.state.Tickers, ticker)
	if i < 0 {
		return fmt.Errorf("ticker %s not on watchlist", ticker)
	}
	m.state.Tickers = slices.Delete(m.state.Tickers, i, i+1)
	return m.save()
}

func normalize(ticker string) string {
	return strings.ToUpper(strings.TrimSpace(ticker))
}

func (m *Manager) save() error {
	return SaveState(m.filePath, m.state)
}
