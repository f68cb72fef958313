package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"nebify-credit/domain"
	"nebify-credit/repository"
)

var (
	ErrInvalidScenario = errors.New("invalid loan scenario")
	ErrUnknownPreset   = errors.New("unknown preset")
)

const simulationCacheTTL = time.Hour

type LoanSimulatorService struct {
	repo     repository.SimulationRepository
	cache    repository.CacheRepository
	advisor  *AdvisorService
	profile  domain.BorrowerProfile
	validate *validator.Validate
	logger   *logrus.Logger
	now      func() time.Time
}

// NewLoanSimulatorService wires the simulator. advisor may be nil.
func NewLoanSimulatorService(
	repo repository.SimulationRepository,
	cache repository.CacheRepository,
	advisor *AdvisorService,
	profile domain.BorrowerProfile,
	logger *logrus.Logger,
) *LoanSimulatorService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &LoanSimulatorService{
		repo:     repo,
		cache:    cache,
		advisor:  advisor,
		profile:  profile,
		validate: validator.New(),
		logger:   logger,
		now:      time.Now,
	}
}

// Validate checks the scenario the way the simulator form does.
func (s *LoanSimulatorService) Validate(scenario domain.LoanScenario) error {
	if err := s.validate.Struct(scenario); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("%w: %s fails %s", ErrInvalidScenario, fe.Field(), fe.Tag())
		}
		return fmt.Errorf("%w: %v", ErrInvalidScenario, err)
	}
	return nil
}

// Simulate validates the scenario, then computes the schedule, the risk and
// the comparison against the recommended alternative.
func (s *LoanSimulatorService) Simulate(ctx context.Context, scenario domain.LoanScenario) (domain.LoanSimulation, error) {
	if err := s.Validate(scenario); err != nil {
		return domain.LoanSimulation{}, err
	}

	key := s.cacheKey(scenario)
	sim, ok := s.cached(ctx, key)
	if ok {
		s.logger.WithField("cache_key", key).Debug("simulation served from cache")
	} else {
		sim = s.build(scenario)
		if s.advisor.Enabled() {
			sim.Explanation = s.advisor.Explain(ctx, sim)
		}
		s.store(ctx, key, sim)
	}

	// not critical if it fails
	if err := s.repo.Save(sim); err != nil {
		s.logger.WithError(err).Warn("failed to save loan simulation")
	}

	s.logger.WithFields(logrus.Fields{
		"amount":     scenario.Amount,
		"rate":       scenario.InterestRate,
		"term":       scenario.TermYears,
		"risk_score": sim.Risk.Score,
	}).Info("loan simulated")

	return sim, nil
}

func (s *LoanSimulatorService) build(scenario domain.LoanScenario) domain.LoanSimulation {
	calc := ComputeSchedule(scenario)
	risk := AssessRisk(scenario, s.profile.CreditScore, s.profile.DebtToIncome)
	alt := CompareAlternative(scenario)

	sim := domain.LoanSimulation{
		Scenario:        scenario,
		Calculations:    calc,
		Risk:            risk,
		RiskDescription: RiskDescription(risk.Level),
		RiskColor:       RiskColor(risk.Score),
	}
	sim.Comparison.Current.MonthlyPayment = calc.MonthlyPayment
	sim.Comparison.Current.TotalInterest = calc.TotalInterest
	sim.Comparison.Current.RiskLevel = risk.Level
	sim.Comparison.Alternative = alt
	return sim
}

func (s *LoanSimulatorService) cacheKey(scenario domain.LoanScenario) string {
	return fmt.Sprintf("loan_simulation:%g:%g:%d:%g:%g:%g",
		scenario.Amount, scenario.InterestRate, scenario.TermYears, scenario.DownPayment,
		s.profile.CreditScore, s.profile.DebtToIncome)
}

func (s *LoanSimulatorService) store(ctx context.Context, key string, sim domain.LoanSimulation) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(sim)
	if err != nil {
		s.logger.WithError(err).Warn("failed to encode loan simulation")
		return
	}
	if err := s.cache.Set(ctx, key, string(data), simulationCacheTTL); err != nil {
		s.logger.WithError(err).Warn("failed to cache loan simulation")
	}
}

func (s *LoanSimulatorService) cached(ctx context.Context, key string) (domain.LoanSimulation, bool) {
	if s.cache == nil {
		return domain.LoanSimulation{}, false
	}
	raw, ok := s.cache.Get(ctx, key)
	if !ok {
		return domain.LoanSimulation{}, false
	}
	var sim domain.LoanSimulation
	if err := json.Unmarshal([]byte(raw), &sim); err != nil {
		s.logger.WithError(err).Warn("discarding unreadable cached simulation")
		return domain.LoanSimulation{}, false
	}
	return sim, true
}

func Presets() map[string]domain.LoanScenario {
	out := make(map[string]domain.LoanScenario, len(presets))
	for name, p := range presets {
		out[name] = p
	}
	return out
}

func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SimulatePreset runs one of the named preset scenarios.
func (s *LoanSimulatorService) SimulatePreset(ctx context.Context, name string) (domain.LoanSimulation, error) {
	scenario, ok := presets[name]
	if !ok {
		return domain.LoanSimulation{}, fmt.Errorf("%w: %s", ErrUnknownPreset, name)
	}
	s.logger.WithField("preset", name).Info("loading preset scenario")
	return s.Simulate(ctx, scenario)
}

// Export snapshots a simulation and returns it with a dated file name.
func (s *LoanSimulatorService) Export(sim domain.LoanSimulation) (domain.SimulationExport, string) {
	ts := s.now().UTC()
	export := domain.SimulationExport{
		Loan:         sim.Scenario,
		Calculations: sim.Calculations,
		Risk:         sim.Risk,
		Timestamp:    ts,
	}
	return export, fmt.Sprintf("loan_simulation_%s.json", ts.Format("2006-01-02"))
}

func (s *LoanSimulatorService) History() ([]domain.LoanSimulation, error) {
	return s.repo.List()
}
