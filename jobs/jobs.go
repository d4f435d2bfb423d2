package jobs

import (
	"context"
	"log"
	"time"

	"CareBridge/repository"
	"CareBridge/services"

	"github.com/robfig/cron/v3"
)

const stalePendingAge = 7 * 24 * time.Hour

// Scheduler runs the background sweeps: republishing prescription documents
// whose upload failed, and reporting bookings no doctor has picked up.
type Scheduler struct {
	cron          *cron.Cron
	prescriptions *services.PrescriptionService
	consultations repository.ConsultationStore
}

func NewScheduler(prescriptions *services.PrescriptionService, consultations repository.ConsultationStore) *Scheduler {
	return &Scheduler{
		cron:          cron.New(),
		prescriptions: prescriptions,
		consultations: consultations,
	}
}

func (s *Scheduler) Start() {
	if _, err := s.cron.AddFunc("@hourly", s.retryFailedUploads); err != nil {
		log.Println("Error scheduling upload retry sweep:", err)
	}
	if _, err := s.cron.AddFunc("@daily", s.reportStalePending); err != nil {
		log.Println("Error scheduling stale consultation report:", err)
	}
	s.cron.Start()
	log.Println("Background jobs started")
}

func (s *Scheduler) Stop() {
	s.cron.Stop()
}

func (s *Scheduler) retryFailedUploads() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	s.prescriptions.RetryFailedUploads(ctx)
}

// reportStalePending logs consultations that sat pending for over a week so
// operators can chase the assigned doctors.
func (s *Scheduler) reportStalePending() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	cutoff := time.Now().Add(-stalePendingAge)
	stale, err := s.consultations.ListStalePending(ctx, cutoff)
	if err != nil {
		log.Println("Error listing stale pending consultations:", err)
		return
	}
	if len(stale) == 0 {
		return
	}
	log.Println(len(stale), "consultations pending for more than a week")
	for _, c := range stale {
		log.Println("Stale pending consultation", c.ID.Hex(), "booked", c.CreatedAt.Format(time.RFC3339))
	}
}
