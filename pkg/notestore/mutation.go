package notestore

import (
	"context"
)

type phase int

const (
	phasePending phase = iota
	phaseApplied
	phaseCommitted
	phaseCompensated
)

func (p phase) String() string {
	switch p {
	case phaseApplied:
		return "applied"
	case phaseCommitted:
		return "committed"
	case phaseCompensated:
		return "compensated"
	default:
		return "pending"
	}
}

// mutation is one optimistic change: apply locally, commit remotely, then
// confirm or compensate. apply, confirm and compensate see the state current
// at the time they run, never a stale snapshot, so a compensation only undoes
// its own entity and leaves concurrent changes to other entities alone.
type mutation struct {
	name string
	// apply validates and derives the optimistic state. An error here aborts
	// the mutation before any remote call.
	apply func(state) (state, error)
	// commit performs the remote side. It runs without the store lock.
	commit func(ctx context.Context) error
	// confirm folds the remote result into the state.
	confirm func(state) state
	// compensate reverts what apply did.
	compensate func(state) state

	phase phase
}

func (s *Store) run(ctx context.Context, m *mutation) error {
	if m.apply != nil {
		s.mu.Lock()
		next, err := m.apply(s.state)
		if err != nil {
			s.mu.Unlock()
			return err
		}
		s.state = next
		s.mu.Unlock()
	}
	m.phase = phaseApplied

	if err := m.commit(ctx); err != nil {
		if m.compensate != nil {
			s.mu.Lock()
			s.state = m.compensate(s.state)
			s.mu.Unlock()
		}
		m.phase = phaseCompensated
		s.log.Warn(moduleName, "mutation rolled back", map[string]interface{}{
			"mutation": m.name,
			"phase":    m.phase.String(),
			"error":    err.Error(),
		})
		return err
	}

	if m.confirm != nil {
		s.mu.Lock()
		s.state = m.confirm(s.state)
		s.mu.Unlock()
	}
	m.phase = phaseCommitted
	s.log.Debug(moduleName, "mutation committed", map[string]interface{}{
		"mutation": m.name,
	})
	return nil
}
