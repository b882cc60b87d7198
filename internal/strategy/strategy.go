// Package strategy holds the scoring strategy the scoring service is asked
// to apply, and the selector that tracks the user's current choice.
package strategy

import (
	"fmt"
	"strings"
	"sync"

	"github.com/Iron-Ham/triage/internal/errors"
)

// Strategy names a weighting scheme understood by the scoring service.
type Strategy string

const (
	SmartBalance   Strategy = "smart_balance"
	FastestWins    Strategy = "fastest_wins"
	HighImpact     Strategy = "high_impact"
	DeadlineDriven Strategy = "deadline_driven"
)

// Default is the strategy used when nothing else is configured.
const Default = SmartBalance

var descriptions = map[Strategy]string{
	SmartBalance:   "Balances all factors: urgency, importance, effort, and dependencies.",
	FastestWins:    "Prioritizes low-effort tasks to maximize quick wins and momentum.",
	HighImpact:     "Emphasizes importance over other factors for maximum impact.",
	DeadlineDriven: "Focuses on urgency and due dates to meet deadlines.",
}

// All returns every strategy in display order.
func All() []Strategy {
	return []Strategy{SmartBalance, FastestWins, HighImpact, DeadlineDriven}
}

// Names returns the wire names of every strategy in display order.
func Names() []string {
	all := All()
	names := make([]string, len(all))
	for i, s := range all {
		names[i] = string(s)
	}
	return names
}

// Parse resolves a strategy name. Matching ignores case, surrounding space,
// and accepts dashes in place of underscores.
func Parse(name string) (Strategy, error) {
	normalized := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "_")
	s := Strategy(normalized)
	if s.Valid() {
		return s, nil
	}
	return "", errors.NewValidationError(
		fmt.Sprintf("unknown strategy; valid strategies: %s", strings.Join(Names(), ", ")),
	).WithField("strategy").WithValue(name)
}

// Valid reports whether s is one of the known strategies.
func (s Strategy) Valid() bool {
	_, ok := descriptions[s]
	return ok
}

// String returns the wire name.
func (s Strategy) String() string {
	return string(s)
}

// Description returns a one-sentence summary of what the strategy favours.
func (s Strategy) Description() string {
	return descriptions[s]
}

// Next returns the strategy after s in display order, wrapping around.
func (s Strategy) Next() Strategy {
	all := All()
	for i, candidate := range all {
		if candidate == s {
			return all[(i+1)%len(all)]
		}
	}
	return Default
}

// Selector holds the current strategy. It is safe for concurrent use: the
// analysis command goroutine reads it while the UI loop may change it.
type Selector struct {
	mu      sync.RWMutex
	current Strategy
}

// NewSelector creates a selector starting at initial, or at [Default] when
// initial is not a known strategy.
func NewSelector(initial Strategy) *Selector {
	if !initial.Valid() {
		initial = Default
	}
	return &Selector{current: initial}
}

// Current returns the selected strategy.
func (s *Selector) Current() Strategy {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Set changes the selected strategy. Changing it does not touch any stored
// analysis; the new value applies to the next request.
func (s *Selector) Set(st Strategy) error {
	if !st.Valid() {
		_, err := Parse(string(st))
		return err
	}
	s.mu.Lock()
	s.current = st
	s.mu.Unlock()
	return nil
}

// SetName parses name and selects it.
func (s *Selector) SetName(name string) (Strategy, error) {
	st, err := Parse(name)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	s.current = st
	s.mu.Unlock()
	return st, nil
}

// Cycle advances to the next strategy and returns it.
func (s *Selector) Cycle() Strategy {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = s.current.Next()
	return s.current
}
