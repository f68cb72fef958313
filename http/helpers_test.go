package http

import (
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"nebify-credit/domain"
	"nebify-credit/repository"
	"nebify-credit/service"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newTestRouter(limiter *RateLimiter) http.Handler {
	logger := quietLogger()
	cache := repository.NewMemoryCache()

	chatSvc := service.NewChatService(service.NewIntentMatcher(), cache, time.Hour, logger)
	loanSvc := service.NewLoanSimulatorService(
		repository.NewSimulationRepositoryMemory(10),
		cache,
		nil,
		domain.BorrowerProfile{CreditScore: service.DefaultCreditScore, DebtToIncome: service.DefaultDebtToIncome},
		logger,
	)

	return NewRouter(
		NewChatHandler(chatSvc, logger),
		NewLoanHandler(loanSvc, logger),
		RouterOptions{Limiter: limiter, Logger: logger},
	)
}
