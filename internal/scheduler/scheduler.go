package scheduler

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/stadtlabs/konzeptvergabe/internal/config"
	"github.com/stadtlabs/konzeptvergabe/internal/model"
	"github.com/stadtlabs/konzeptvergabe/internal/service"
)

const (
	sweepLock = "assignment-sweep"
	flushLock = "notification-flush"
)

type LockStore interface {
	TryAcquire(name, owner string, hold time.Duration, now time.Time) (bool, error)
}

type SweepStore interface {
	ActivateDue(now time.Time) (int64, error)
	DeactivateDue(now time.Time) (int64, error)
}

type OutboxStore interface {
	FetchBatch(limit int) ([]model.Notification, error)
	Delete(id uuid.UUID) error
}

type UserReader interface {
	FindByID(id uuid.UUID) (*model.User, error)
}

// Scheduler owns the two background jobs: the assignment sweep and the
// notification flush. Each runs on its own ticker and only executes a
// tick after winning the job's DB lock, so exactly one instance works
// per tick in a multi-instance deployment.
type Scheduler struct {
	cfg      *config.SchedulerConfig
	locks    LockStore
	sweeps   SweepStore
	outbox   OutboxStore
	users    UserReader
	mailer   service.MailServiceInterface
	clock    func() time.Time
	instance string
}

func New(cfg *config.SchedulerConfig, locks LockStore, sweeps SweepStore, outbox OutboxStore, users UserReader, mailer service.MailServiceInterface) *Scheduler {
	return &Scheduler{
		cfg:      cfg,
		locks:    locks,
		sweeps:   sweeps,
		outbox:   outbox,
		users:    users,
		mailer:   mailer,
		clock:    time.Now,
		instance: uuid.NewString(),
	}
}

func (s *Scheduler) Start(ctx context.Context) {
	go s.run(ctx, sweepLock, s.cfg.SweepInterval, s.SweepTick)
	go s.run(ctx, flushLock, s.cfg.FlushInterval, s.FlushTick)
}

func (s *Scheduler) run(ctx context.Context, lockName string, interval time.Duration, tick func() error) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			ok, err := s.locks.TryAcquire(lockName, s.instance, s.cfg.LockHold, s.clock())
			if err != nil {
				log.Printf("job %s: lock error: %v", lockName, err)
				continue
			}
			if !ok {
				continue
			}
			if err := tick(); err != nil {
				log.Printf("job %s: %v", lockName, err)
			}
		}
	}
}

// SweepTick runs one activate pass then one deactivate pass,
// unconditionally. Both are no-ops when nothing is eligible.
func (s *Scheduler) SweepTick() error {
	now := s.clock()
	activated, err := s.sweeps.ActivateDue(now)
	if err != nil {
		return err
	}
	deactivated, err := s.sweeps.DeactivateDue(now)
	if err != nil {
		return err
	}
	if activated > 0 || deactivated > 0 {
		log.Printf("assignment sweep: activated=%d deactivated=%d", activated, deactivated)
	}
	return nil
}

// FlushTick dequeues up to the configured batch and attempts delivery.
// Every row is deleted whether or not the send succeeded: delivery is
// at most once, and the mail client itself already retried.
func (s *Scheduler) FlushTick() error {
	batch, err := s.outbox.FetchBatch(s.cfg.FlushBatch)
	if err != nil {
		return err
	}
	for _, n := range batch {
		if err := s.deliver(n); err != nil {
			log.Printf("notification %s (%s): delivery failed, dropping: %v", n.ID, n.Type, err)
		}
		if err := s.outbox.Delete(n.ID); err != nil {
			return err
		}
	}
	return nil
}

func (s *Scheduler) deliver(n model.Notification) error {
	user, err := s.users.FindByID(n.UserID)
	if err != nil {
		return err
	}
	data := map[string]string{}
	if len(n.Data) > 0 {
		_ = json.Unmarshal(n.Data, &data)
	}
	return s.mailer.Send(user.Email, service.NotificationMail(n.Type, data))
}
