package domain

import "time"

// LoanScenario is the set of inputs the simulator works from.
type LoanScenario struct {
	Amount       float64 `json:"amount" validate:"gt=0,lte=1000000000"`
	InterestRate float64 `json:"interestRate" validate:"gte=0,lte=1000"`
	TermYears    int     `json:"term" validate:"gt=0,lte=50"`
	DownPayment  float64 `json:"downPayment" validate:"gte=0,ltefield=Amount"`
}

type LoanCalculationResult struct {
	MonthlyPayment float64 `json:"monthlyPayment"`
	TotalPayment   float64 `json:"totalPayment"`
	TotalInterest  float64 `json:"totalInterest"`
	Principal      float64 `json:"principal"`
	LoanToValuePct float64 `json:"loanToValue"`
}

type RiskLevel string

const (
	RiskLow      RiskLevel = "Low"
	RiskMedium   RiskLevel = "Medium"
	RiskHigh     RiskLevel = "High"
	RiskVeryHigh RiskLevel = "Very High"
)

type RiskAssessment struct {
	Score int       `json:"score"`
	Level RiskLevel `json:"level"`
}

// BorrowerProfile holds the inputs that would come from a profile lookup.
type BorrowerProfile struct {
	CreditScore  float64 `json:"creditScore"`
	DebtToIncome float64 `json:"debtToIncome"`
}

// AlternativeScenario is the recommended 20% down, 15 year variant of a scenario.
type AlternativeScenario struct {
	Scenario       LoanScenario   `json:"scenario"`
	MonthlyPayment float64        `json:"monthlyPayment"`
	TotalPayment   float64        `json:"totalPayment"`
	TotalInterest  float64        `json:"totalInterest"`
	Risk           RiskAssessment `json:"risk"`
}

type ScenarioComparison struct {
	Current struct {
		MonthlyPayment float64   `json:"monthlyPayment"`
		TotalInterest  float64   `json:"totalInterest"`
		RiskLevel      RiskLevel `json:"riskLevel"`
	} `json:"current"`
	Alternative AlternativeScenario `json:"alternative"`
}

type LoanSimulation struct {
	Scenario        LoanScenario          `json:"loan"`
	Calculations    LoanCalculationResult `json:"calculations"`
	Risk            RiskAssessment        `json:"risk"`
	RiskDescription string                `json:"riskDescription"`
	RiskColor       string                `json:"riskColor"`
	Comparison      ScenarioComparison    `json:"comparison"`
	Explanation     string                `json:"explanation,omitempty"`
}

// SimulationExport is the downloadable snapshot of a simulation.
type SimulationExport struct {
	Loan         LoanScenario          `json:"loan"`
	Calculations LoanCalculationResult `json:"calculations"`
	Risk         RiskAssessment        `json:"risk"`
	Timestamp    time.Time             `json:"timestamp"`
}
