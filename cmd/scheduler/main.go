package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/segyhp/loan-manager/internal/cache"
	"github.com/segyhp/loan-manager/internal/config"
	"github.com/segyhp/loan-manager/internal/database"
	"github.com/segyhp/loan-manager/internal/domain"
	"github.com/segyhp/loan-manager/internal/logger"
	"github.com/segyhp/loan-manager/internal/repository"
	"github.com/segyhp/loan-manager/internal/service"
)

const jobTimeout = 5 * time.Minute

type jobs struct {
	service *service.LedgerService
	tx      repository.Transactor
	cfg     *config.Config
	log     zerolog.Logger
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal(err, "Failed to load configuration")
	}

	if err := logger.Setup(cfg.GetLoggerConfig()); err != nil {
		logger.Fatal(err, "Failed to configure logger")
	}
	log := logger.WithComponent("scheduler")
	log.Info().Msg("Starting loan scheduler...")

	db, err := database.Open(cfg.Database)
	if err != nil {
		logger.Fatal(err, "Failed to initialize database")
	}
	defer db.Close()

	// Sweeps invalidate the cached summary
	opts := []service.Option{}
	client, err := cache.NewClient(context.Background(), cfg.Redis)
	if err != nil {
		log.Warn().Err(err).Msg("Redis unavailable, cached summaries will expire on their own")
	} else if client != nil {
		defer client.Close()
		opts = append(opts, service.WithSummaryCache(cache.NewSummaryCache(client, cfg.GetSummaryTTL())))
	}

	j := &jobs{
		service: service.NewLedgerService(service.RatesFromConfig(cfg), opts...),
		tx:      repository.NewTransactor(db),
		cfg:     cfg,
		log:     log,
	}

	c := cron.New(cron.WithSeconds(), cron.WithLocation(cfg.GetLocation()))
	if err := j.schedule(c); err != nil {
		logger.Fatal(err, "Failed to schedule jobs")
	}

	c.Start()
	log.Info().Msg("Scheduler started successfully")

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down scheduler...")
	<-c.Stop().Done()
	log.Info().Msg("Scheduler stopped")
}

func (j *jobs) schedule(c *cron.Cron) error {
	if _, err := c.AddFunc(j.cfg.Scheduler.OverdueSpec, j.refreshLoanStatuses); err != nil {
		return err
	}
	if _, err := c.AddFunc(j.cfg.Scheduler.ReminderSpec, j.sendPaymentReminders); err != nil {
		return err
	}

	j.log.Info().
		Str("overdue_spec", j.cfg.Scheduler.OverdueSpec).
		Str("reminder_spec", j.cfg.Scheduler.ReminderSpec).
		Msg("Cron jobs scheduled successfully")
	return nil
}

func (j *jobs) today() domain.Date {
	return domain.NewDate(time.Now().In(j.cfg.GetLocation()))
}

// refreshLoanStatuses flags loans with overdue installments as late.
func (j *jobs) refreshLoanStatuses() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	var changed int
	err := j.tx.WithinTx(ctx, func(uow repository.UnitOfWork) (err error) {
		changed, err = j.service.RefreshLoanStatuses(ctx, uow, j.today())
		return err
	})
	if err != nil {
		j.log.Error().Err(err).Msg("Loan status refresh failed")
		return
	}

	j.log.Info().Int("changed", changed).Msg("Loan status refresh finished")
}

// sendPaymentReminders logs every pending installment falling due soon.
func (j *jobs) sendPaymentReminders() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	var upcoming []*domain.Installment
	err := j.tx.WithinTx(ctx, func(uow repository.UnitOfWork) (err error) {
		upcoming, err = j.service.UpcomingInstallments(ctx, uow, j.today(), j.cfg.Scheduler.ReminderDays)
		return err
	})
	if err != nil {
		j.log.Error().Err(err).Msg("Payment reminder job failed")
		return
	}

	for _, installment := range upcoming {
		j.log.Info().
			Str("loan_id", installment.LoanID.String()).
			Str("installment_id", installment.ID.String()).
			Int("installment_number", installment.Number).
			Str("due_date", installment.DueDate.String()).
			Str("amount", installment.OriginalAmount.String()).
			Msg("Payment reminder")
	}
	j.log.Info().Int("reminders", len(upcoming)).Msg("Payment reminder job finished")
}
