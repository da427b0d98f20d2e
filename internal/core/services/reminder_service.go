package services

import (
	"context"
	"log"
	"time"

	"lms-loanapi/internal/adapters/persistence/repositories"

	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"
)

// ReminderService runs the daily overdue-installment reminder job.
// Notification delivery is a log sink; a real channel plugs in behind
// notifyOverdueLoan.
type ReminderService struct {
	installmentRepo repositories.InstallmentRepository
	cron            *cron.Cron
}

// NewReminderService creates a new reminder service
func NewReminderService(installmentRepo repositories.InstallmentRepository) *ReminderService {
	return &ReminderService{
		installmentRepo: installmentRepo,
		cron:            cron.New(),
	}
}

// Start schedules the daily reminder run at 08:30
func (s *ReminderService) Start() {
	s.cron.AddFunc("30 8 * * *", s.RemindOverdue)
	s.cron.Start()
	log.Println("ReminderService started (daily 08:30)")
}

// Stop stops the cron scheduler
func (s *ReminderService) Stop() {
	s.cron.Stop()
	log.Println("ReminderService stopped")
}

// RemindOverdue finds unpaid installments past their due date and emits one
// reminder per loan with the count and total overdue amount.
func (s *ReminderService) RemindOverdue() {
	ctx := context.Background()
	today := time.Now()

	overdue, err := s.installmentRepo.FindOverdue(ctx, today)
	if err != nil {
		log.Printf("Overdue reminder query error: %v", err)
		return
	}

	type loanOverdue struct {
		count int
		total decimal.Decimal
	}
	byLoan := make(map[uint]*loanOverdue)
	for _, ins := range overdue {
		entry, ok := byLoan[ins.LoanID]
		if !ok {
			entry = &loanOverdue{total: decimal.Zero}
			byLoan[ins.LoanID] = entry
		}
		entry.count++
		entry.total = entry.total.Add(ins.Amount)
	}

	for loanID, entry := range byLoan {
		s.notifyOverdueLoan(loanID, entry.count, entry.total)
	}

	if len(byLoan) > 0 {
		log.Printf("Overdue reminders sent for %d loan(s)", len(byLoan))
	}
}

func (s *ReminderService) notifyOverdueLoan(loanID uint, count int, total decimal.Decimal) {
	log.Printf("Reminder: loan %d has %d overdue installment(s) totaling %s",
		loanID, count, total.StringFixed(2))
}
