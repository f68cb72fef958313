package service

import (
	"context"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"

	"nebify-credit/domain"
)

const advisorSystemPrompt = "You are a credit advisor for a consumer credit-management site. You explain loan simulations in plain English, two or three sentences, concrete about the numbers, never promising approval."

// ChatCompleter is the part of the OpenAI client the advisor uses.
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// AdvisorService writes a short narrative for a simulation. Without a
// client, or when the call fails, it returns the fixed risk description.
type AdvisorService struct {
	client  ChatCompleter
	model   string
	timeout time.Duration
	logger  *logrus.Logger
}

// NewAdvisorService returns a disabled advisor when apiKey is empty.
func NewAdvisorService(apiKey, model string, timeout time.Duration, logger *logrus.Logger) *AdvisorService {
	var client ChatCompleter
	if apiKey != "" {
		client = openai.NewClient(apiKey)
	}
	return NewAdvisorServiceWithClient(client, model, timeout, logger)
}

func NewAdvisorServiceWithClient(client ChatCompleter, model string, timeout time.Duration, logger *logrus.Logger) *AdvisorService {
	if model == "" {
		model = openai.GPT4oMini
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &AdvisorService{client: client, model: model, timeout: timeout, logger: logger}
}

func (s *AdvisorService) Enabled() bool {
	return s != nil && s.client != nil
}

func (s *AdvisorService) Explain(ctx context.Context, sim domain.LoanSimulation) string {
	fallback := RiskDescription(sim.Risk.Level)
	if !s.Enabled() {
		return fallback
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: advisorSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: buildAdvisorPrompt(sim)},
		},
		MaxTokens: 300,
	})
	if err != nil {
		s.logger.WithError(err).Warn("advisor call failed, using fixed description")
		return fallback
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		s.logger.Warn("advisor returned no content, using fixed description")
		return fallback
	}
	return resp.Choices[0].Message.Content
}

func buildAdvisorPrompt(sim domain.LoanSimulation) string {
	alt := sim.Comparison.Alternative
	return fmt.Sprintf(`Explain this loan simulation to the borrower.

LOAN:
- Amount: %s
- Down payment: %s
- Annual interest rate: %.2f%%
- Term: %d years
- Monthly payment: %s
- Total interest: %s
- Loan-to-value: %.1f%%
- Risk: %s (%d/100)

RECOMMENDED ALTERNATIVE (20%% down, %d years):
- Monthly payment: %s
- Total interest: %s
- Risk: %s

Say whether the alternative is worth considering and why.`,
		FormatCurrency(sim.Scenario.Amount),
		FormatCurrency(sim.Scenario.DownPayment),
		sim.Scenario.InterestRate,
		sim.Scenario.TermYears,
		FormatCurrency(sim.Calculations.MonthlyPayment),
		FormatCurrency(sim.Calculations.TotalInterest),
		sim.Calculations.LoanToValuePct,
		sim.Risk.Level, sim.Risk.Score,
		alt.Scenario.TermYears,
		FormatCurrency(alt.MonthlyPayment),
		FormatCurrency(alt.TotalInterest),
		alt.Risk.Level)
}
