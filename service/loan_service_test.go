package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"nebify-credit/domain"
	"nebify-credit/repository"
)

type MockSimulationRepository struct {
	SaveCalled int
	ForceError bool
	saved      []domain.LoanSimulation
}

func (m *MockSimulationRepository) Save(simulation domain.LoanSimulation) error {
	m.SaveCalled++
	if m.ForceError {
		return errors.New("save error")
	}
	m.saved = append(m.saved, simulation)
	return nil
}

func (m *MockSimulationRepository) List() ([]domain.LoanSimulation, error) {
	return m.saved, nil
}

var defaultProfile = domain.BorrowerProfile{CreditScore: DefaultCreditScore, DebtToIncome: DefaultDebtToIncome}

func TestSimulate_DefaultScenario(t *testing.T) {
	mockRepo := &MockSimulationRepository{}
	svc := NewLoanSimulatorService(mockRepo, repository.NewMemoryCache(), nil, defaultProfile, nil)

	sim, err := svc.Simulate(context.Background(), DefaultScenario)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !almostEqual(sim.Calculations.MonthlyPayment, 316.03, 0.005) {
		t.Errorf("expected ~316.03, got %.4f", sim.Calculations.MonthlyPayment)
	}
	if sim.Risk.Score != 60 || sim.Risk.Level != domain.RiskMedium {
		t.Errorf("expected Medium/60, got %+v", sim.Risk)
	}
	if sim.RiskDescription != RiskDescription(domain.RiskMedium) {
		t.Errorf("unexpected description %q", sim.RiskDescription)
	}
	if sim.RiskColor != "#f59e0b" {
		t.Errorf("unexpected color %s", sim.RiskColor)
	}
	if sim.Comparison.Current.MonthlyPayment != sim.Calculations.MonthlyPayment {
		t.Errorf("comparison current payment out of sync")
	}
	if sim.Comparison.Alternative.Scenario.TermYears != AlternativeTermYears {
		t.Errorf("expected alternative term %d", AlternativeTermYears)
	}
	if sim.Explanation != "" {
		t.Errorf("expected no explanation without an advisor, got %q", sim.Explanation)
	}
	if mockRepo.SaveCalled != 1 {
		t.Errorf("expected repository Save to be called once, got %d", mockRepo.SaveCalled)
	}
}

func TestSimulate_InvalidScenario(t *testing.T) {
	tests := []struct {
		name     string
		scenario domain.LoanScenario
	}{
		{"zero amount", domain.LoanScenario{Amount: 0, InterestRate: 5, TermYears: 10}},
		{"negative rate", domain.LoanScenario{Amount: 1000, InterestRate: -1, TermYears: 10}},
		{"zero term", domain.LoanScenario{Amount: 1000, InterestRate: 5, TermYears: 0}},
		{"term too long", domain.LoanScenario{Amount: 1000, InterestRate: 5, TermYears: 51}},
		{"negative down payment", domain.LoanScenario{Amount: 1000, InterestRate: 5, TermYears: 10, DownPayment: -1}},
		{"down payment above amount", domain.LoanScenario{Amount: 1000, InterestRate: 5, TermYears: 10, DownPayment: 2000}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := &MockSimulationRepository{}
			svc := NewLoanSimulatorService(mockRepo, nil, nil, defaultProfile, nil)

			_, err := svc.Simulate(context.Background(), tt.scenario)
			if !errors.Is(err, ErrInvalidScenario) {
				t.Fatalf("expected ErrInvalidScenario, got %v", err)
			}
			if mockRepo.SaveCalled != 0 {
				t.Errorf("repository Save should NOT be called")
			}
		})
	}
}

func TestSimulate_SaveFailureIsNotFatal(t *testing.T) {
	mockRepo := &MockSimulationRepository{ForceError: true}
	svc := NewLoanSimulatorService(mockRepo, nil, nil, defaultProfile, nil)

	if _, err := svc.Simulate(context.Background(), DefaultScenario); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSimulate_ServesRepeatFromCache(t *testing.T) {
	cache := repository.NewMemoryCache()
	mockRepo := &MockSimulationRepository{}
	svc := NewLoanSimulatorService(mockRepo, cache, nil, defaultProfile, nil)
	ctx := context.Background()

	first, err := svc.Simulate(ctx, DefaultScenario)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cache.Len() != 1 {
		t.Fatalf("expected one cached entry, got %d", cache.Len())
	}

	second, err := svc.Simulate(ctx, DefaultScenario)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first != second {
		t.Errorf("expected cached simulation to equal the computed one")
	}
	if mockRepo.SaveCalled != 2 {
		t.Errorf("expected both runs recorded, got %d", mockRepo.SaveCalled)
	}
}

func TestSimulate_UsesProfile(t *testing.T) {
	strong := domain.BorrowerProfile{CreditScore: 800, DebtToIncome: 20}
	svc := NewLoanSimulatorService(&MockSimulationRepository{}, nil, nil, strong, nil)

	sim, err := svc.Simulate(context.Background(), DefaultScenario)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 60 with the default profile, plus 20 for credit above 750.
	if sim.Risk.Score != 80 {
		t.Errorf("expected 80, got %d", sim.Risk.Score)
	}
}

func TestSimulatePreset(t *testing.T) {
	svc := NewLoanSimulatorService(&MockSimulationRepository{}, nil, nil, defaultProfile, nil)

	sim, err := svc.SimulatePreset(context.Background(), "refinance")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sim.Scenario != presets["refinance"] {
		t.Errorf("expected refinance scenario, got %+v", sim.Scenario)
	}

	if _, err := svc.SimulatePreset(context.Background(), "yacht"); !errors.Is(err, ErrUnknownPreset) {
		t.Errorf("expected ErrUnknownPreset, got %v", err)
	}
}

func TestPresetsAreCopies(t *testing.T) {
	p := Presets()
	p["refinance"] = domain.LoanScenario{}

	if presets["refinance"].Amount != 250000 {
		t.Error("Presets must not expose the package map")
	}
	if names := PresetNames(); len(names) != 3 || names[0] != "firstTimeBuyer" {
		t.Errorf("unexpected preset names %v", names)
	}
}

func TestExport(t *testing.T) {
	svc := NewLoanSimulatorService(&MockSimulationRepository{}, nil, nil, defaultProfile, nil)
	svc.now = func() time.Time { return time.Date(2026, 3, 9, 15, 4, 5, 0, time.UTC) }

	sim, err := svc.Simulate(context.Background(), DefaultScenario)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	export, filename := svc.Export(sim)
	if filename != "loan_simulation_2026-03-09.json" {
		t.Errorf("unexpected filename %s", filename)
	}
	if export.Loan != DefaultScenario || export.Risk != sim.Risk || export.Calculations != sim.Calculations {
		t.Errorf("export does not match simulation: %+v", export)
	}
	if !export.Timestamp.Equal(svc.now()) {
		t.Errorf("unexpected timestamp %v", export.Timestamp)
	}
}
