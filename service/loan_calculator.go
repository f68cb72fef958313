package service

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"nebify-credit/domain"
)

// The functions in this file do not validate their input. NaN and Inf
// pass straight through the arithmetic; LoanSimulatorService validates.

// monthlyPayment applies the fixed-rate amortization formula, falling back
// to straight-line division when the rate is zero.
func monthlyPayment(principal, monthlyRate, numPayments float64) float64 {
	if monthlyRate == 0 {
		return principal / numPayments
	}
	// Log1p/Expm1 keep growth-1 nonzero for rates too small to change 1+r.
	exponent := numPayments * math.Log1p(monthlyRate)
	growth := math.Exp(exponent)
	return principal * (monthlyRate * growth) / math.Expm1(exponent)
}

func loanToValue(s domain.LoanScenario) float64 {
	return (s.Amount - s.DownPayment) / s.Amount * 100
}

// ComputeSchedule amortizes the full amount. The down payment only affects
// the loan-to-value ratio here, unlike CompareAlternative.
func ComputeSchedule(s domain.LoanScenario) domain.LoanCalculationResult {
	monthlyRate := s.InterestRate / 100 / 12
	numPayments := float64(s.TermYears * 12)

	payment := monthlyPayment(s.Amount, monthlyRate, numPayments)
	total := payment * numPayments

	return domain.LoanCalculationResult{
		MonthlyPayment: payment,
		TotalPayment:   total,
		TotalInterest:  total - s.Amount,
		Principal:      s.Amount,
		LoanToValuePct: loanToValue(s),
	}
}

// AssessRisk scores a scenario on an additive scale starting at 50,
// clamped to [0, 100].
func AssessRisk(s domain.LoanScenario, creditScore, dti float64) domain.RiskAssessment {
	ltv := loanToValue(s)
	score := BaseRiskScore

	switch {
	case ltv < 60:
		score += 25
	case ltv < 80:
		score += 10
	case ltv > 95:
		score -= 20
	}

	switch {
	case s.InterestRate < 5:
		score += 15
	case s.InterestRate > 10:
		score -= 15
	}

	switch {
	case s.TermYears <= 15:
		score += 10
	case s.TermYears >= 30:
		score -= 5
	}

	switch {
	case creditScore > 750:
		score += 20
	case creditScore < 650:
		score -= 20
	}

	switch {
	case dti < 36:
		score += 15
	case dti > 50:
		score -= 25
	}

	score = clampScore(score)
	return domain.RiskAssessment{Score: score, Level: RiskLevelFor(score)}
}

func clampScore(score int) int {
	return max(0, min(100, score))
}

func RiskLevelFor(score int) domain.RiskLevel {
	switch {
	case score >= 80:
		return domain.RiskLow
	case score >= 60:
		return domain.RiskMedium
	case score >= 40:
		return domain.RiskHigh
	default:
		return domain.RiskVeryHigh
	}
}

// CompareAlternative recomputes s with 20% down over 15 years at the same
// rate. This path finances amount minus down payment and scores risk from
// LTV and term only, with a three-level mapping.
func CompareAlternative(s domain.LoanScenario) domain.AlternativeScenario {
	alt := s
	alt.DownPayment = s.Amount * AlternativeDownPaymentShare
	alt.TermYears = AlternativeTermYears

	monthlyRate := alt.InterestRate / 100 / 12
	numPayments := float64(alt.TermYears * 12)
	principal := alt.Amount - alt.DownPayment

	payment := monthlyPayment(principal, monthlyRate, numPayments)
	total := payment * numPayments

	ltv := loanToValue(alt)
	score := BaseRiskScore
	switch {
	case ltv < 60:
		score += 25
	case ltv < 80:
		score += 10
	}
	if alt.TermYears <= 15 {
		score += 10
	}
	score = clampScore(score)

	level := domain.RiskMedium
	switch {
	case score >= 80:
		level = domain.RiskLow
	case score < 60:
		level = domain.RiskHigh
	}

	return domain.AlternativeScenario{
		Scenario:       alt,
		MonthlyPayment: payment,
		TotalPayment:   total,
		TotalInterest:  total - principal,
		Risk:           domain.RiskAssessment{Score: score, Level: level},
	}
}

func RiskDescription(level domain.RiskLevel) string {
	if d, ok := riskDescriptions[level]; ok {
		return d
	}
	return "Risk level assessment not available."
}

// RiskColor returns the gauge colour for a score.
func RiskColor(score int) string {
	switch {
	case score >= 80:
		return "#10b981"
	case score >= 60:
		return "#f59e0b"
	case score >= 40:
		return "#f97316"
	default:
		return "#ef4444"
	}
}

var usdPrinter = message.NewPrinter(language.AmericanEnglish)

// FormatCurrency renders an amount as US dollars, e.g. $1,234.56.
func FormatCurrency(amount float64) string {
	if amount < 0 {
		return "-" + usdPrinter.Sprintf("$%.2f", -amount)
	}
	return usdPrinter.Sprintf("$%.2f", amount)
}
