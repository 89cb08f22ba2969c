package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/segyhp/loan-manager/internal/config"
	"github.com/segyhp/loan-manager/internal/domain"
	"github.com/segyhp/loan-manager/internal/logger"
	"github.com/segyhp/loan-manager/internal/repository"
	customError "github.com/segyhp/loan-manager/pkg/errors"
)

// SummaryCache stores the last computed portfolio summary.
// Get returns (nil, nil) on a miss.
type SummaryCache interface {
	Get(ctx context.Context) (*domain.PortfolioSummary, error)
	Set(ctx context.Context, summary *domain.PortfolioSummary) error
	Invalidate(ctx context.Context) error
}

// Rates are the business parameters of the lifecycle rules.
type Rates struct {
	DefaultInterest decimal.Decimal
	LateFee         decimal.Decimal
	LateDaily       decimal.Decimal
}

// DefaultRates is a 2% flat late fee plus 0.033% per day, no default interest.
func DefaultRates() Rates {
	return Rates{
		DefaultInterest: decimal.Zero,
		LateFee:         decimal.RequireFromString("0.02"),
		LateDaily:       decimal.RequireFromString("0.00033"),
	}
}

// RatesFromConfig reads the business group of the configuration.
func RatesFromConfig(cfg *config.Config) Rates {
	return Rates{
		DefaultInterest: cfg.GetDefaultInterestRate(),
		LateFee:         cfg.GetLateFeeRate(),
		LateDaily:       cfg.GetLateDailyRate(),
	}
}

// LedgerService owns loan origination, the installment lifecycle and
// invoicing. Every operation runs against the unit of work it is given;
// committing is the caller's job.
type LedgerService struct {
	rates Rates
	cache SummaryCache
	now   func() time.Time
	log   zerolog.Logger
}

type Option func(*LedgerService)

// WithClock overrides the source of "today".
func WithClock(now func() time.Time) Option {
	return func(s *LedgerService) {
		s.now = now
	}
}

// WithSummaryCache enables caching of the portfolio summary.
func WithSummaryCache(cache SummaryCache) Option {
	return func(s *LedgerService) {
		s.cache = cache
	}
}

func NewLedgerService(rates Rates, opts ...Option) *LedgerService {
	s := &LedgerService{
		rates: rates,
		now:   time.Now,
		log:   logger.WithComponent("ledger"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *LedgerService) today() domain.Date {
	return domain.NewDate(s.now())
}

// dateOrToday parses an optional YYYY-MM-DD value.
func (s *LedgerService) dateOrToday(value string, field string) (domain.Date, error) {
	if value == "" {
		return s.today(), nil
	}
	d, err := domain.ParseDate(value)
	if err != nil {
		return domain.Date{}, customError.WrapInvalidRequest(field + " must be a YYYY-MM-DD date")
	}
	return d, nil
}

func parseID(value string, field string) (uuid.UUID, error) {
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, customError.WrapInvalidRequest(field + " must be a valid UUID")
	}
	return id, nil
}

// lookupError turns a missing row into the given NotFound error and anything
// else into a database error.
func lookupError(err error, notFound *customError.BusinessError) error {
	if errors.Is(err, sql.ErrNoRows) {
		return notFound
	}
	return customError.WrapDatabaseError(err)
}

// invalidateSummary drops the cached summary once uow commits, so a
// concurrent read cannot cache uncommitted state.
func (s *LedgerService) invalidateSummary(ctx context.Context, uow repository.UnitOfWork) {
	if s.cache == nil {
		return
	}
	uow.AfterCommit(func() {
		if err := s.cache.Invalidate(ctx); err != nil {
			s.log.Warn().Err(err).Msg("failed to invalidate portfolio summary")
		}
	})
}
