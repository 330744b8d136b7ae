package cron

import (
	"log"

	"github.com/mwiens91/fooskill/services"

	"github.com/robfig/cron/v3"
)

type Scheduler struct {
	cron          *cron.Cron
	ratingService *services.RatingService
}

func NewScheduler(ratingService *services.RatingService) *Scheduler {
	// Create cron with seconds precision and logging
	c := cron.New(cron.WithSeconds(), cron.WithLogger(cron.VerbosePrintfLogger(log.Default())))

	return &Scheduler{
		cron:          c,
		ratingService: ratingService,
	}
}

// Start initializes and starts all scheduled jobs
func (s *Scheduler) Start() error {
	log.Println("Starting cron scheduler...")

	// Check for closeable rating periods every ten minutes. The job is
	// idempotent, so the cadence only affects how promptly a period
	// closes after its window elapses.
	_, err := s.cron.AddFunc("0 */10 * * * *", s.runRatingProcessing)
	if err != nil {
		log.Printf("Error scheduling rating period job: %v", err)
		return err
	}

	s.cron.Start()
	log.Println("Cron scheduler started successfully")

	return nil
}

// Stop gracefully shuts down the scheduler
func (s *Scheduler) Stop() {
	log.Println("Stopping cron scheduler...")
	s.cron.Stop()
	log.Println("Cron scheduler stopped")
}

// runRatingProcessing is the job function that closes elapsed rating periods
func (s *Scheduler) runRatingProcessing() {
	log.Println("Running rating period job...")

	if err := s.ratingService.ProcessPendingPeriods(); err != nil {
		log.Printf("Error during rating period processing: %v", err)
		return
	}

	log.Println("Rating period job completed")
}

// RunNow manually triggers the rating period job (useful for testing)
func (s *Scheduler) RunNow() {
	log.Println("Manually triggering rating period job...")
	s.runRatingProcessing()
}
