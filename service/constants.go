package service

import "nebify-credit/domain"

const (
	MaxLoanAmount   = 1_000_000_000.0
	MaxInterestRate = 1000.0
	MaxTermYears    = 50

	// Alternative scenario policy.
	AlternativeDownPaymentShare = 0.2
	AlternativeTermYears        = 15

	BaseRiskScore = 50

	DefaultCreditScore  = 720
	DefaultDebtToIncome = 35

	MaxSuggestions = 6

	// ChatUserNameKey prefixes the cache key holding a session's user name.
	ChatUserNameKey = "chat_user_name"
)

// DefaultScenario is the scenario the simulator opens with.
var DefaultScenario = domain.LoanScenario{
	Amount:       50000,
	InterestRate: 6.5,
	TermYears:    30,
	DownPayment:  10000,
}

var presets = map[string]domain.LoanScenario{
	"firstTimeBuyer": {Amount: 300000, InterestRate: 6.8, TermYears: 30, DownPayment: 20000},
	"refinance":      {Amount: 250000, InterestRate: 5.5, TermYears: 20, DownPayment: 50000},
	"investment":     {Amount: 150000, InterestRate: 7.2, TermYears: 25, DownPayment: 30000},
}

var riskDescriptions = map[domain.RiskLevel]string{
	domain.RiskLow:      "This loan has a low risk level. You have a strong financial profile and good chances of approval.",
	domain.RiskMedium:   "This loan has a moderate risk level. Consider reducing the loan amount or increasing down payment to improve your risk profile.",
	domain.RiskHigh:     "This loan has a high risk level. You may face challenges getting approved or may receive less favorable terms.",
	domain.RiskVeryHigh: "This loan has a very high risk level. Consider significant changes to improve your loan profile or consult with a financial advisor.",
}
