package repository

import (
	"sync"

	"nebify-credit/domain"
)

type SimulationRepository interface {
	Save(simulation domain.LoanSimulation) error
	List() ([]domain.LoanSimulation, error)
}

// SimulationRepositoryMemory keeps the most recent simulations in memory.
type SimulationRepositoryMemory struct {
	mu    sync.RWMutex
	limit int
	data  []domain.LoanSimulation
}

// NewSimulationRepositoryMemory keeps at most limit entries; limit <= 0
// keeps everything.
func NewSimulationRepositoryMemory(limit int) *SimulationRepositoryMemory {
	return &SimulationRepositoryMemory{
		limit: limit,
		data:  []domain.LoanSimulation{},
	}
}

func (r *SimulationRepositoryMemory) Save(simulation domain.LoanSimulation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.data = append(r.data, simulation)
	if r.limit > 0 && len(r.data) > r.limit {
		r.data = r.data[len(r.data)-r.limit:]
	}
	return nil
}

// List returns simulations oldest first.
func (r *SimulationRepositoryMemory) List() ([]domain.LoanSimulation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.LoanSimulation, len(r.data))
	copy(out, r.data)
	return out, nil
}
