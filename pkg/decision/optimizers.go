package decision

import (
	"log/slog"
	"sync"

	"github.com/jwebster45206/wolf-agent/pkg/game"
)

// Optimizers hands out one threshold optimizer per role, so that
// adaptation learned playing the witch never loosens the wolf's gates.
// Each role's optimizer is created on first use, seeded from that
// role's profile thresholds, and then shared by every session playing
// the role.
type Optimizers struct {
	mu     sync.Mutex
	byRole map[game.Role]*Optimizer
	logger *slog.Logger
}

// NewOptimizers creates an empty per-role optimizer registry. logger
// may be nil.
func NewOptimizers(logger *slog.Logger) *Optimizers {
	return &Optimizers{
		byRole: make(map[game.Role]*Optimizer),
		logger: logger,
	}
}

// For returns the role's optimizer, creating it from thresholds on
// first use. Later calls ignore thresholds; the optimizer's adapted
// state wins over re-read profile files.
func (s *Optimizers) For(role game.Role, thresholds map[game.Action]Threshold) *Optimizer {
	s.mu.Lock()
	defer s.mu.Unlock()
	if o, ok := s.byRole[role]; ok {
		return o
	}
	o := NewOptimizer(thresholds, s.logger)
	s.byRole[role] = o
	return o
}
