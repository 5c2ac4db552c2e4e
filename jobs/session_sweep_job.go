package jobs

import (
	"fmt"
	"log"

	"github.com/robfig/cron/v3"
)

// SweepSchedule runs the sweep every five minutes.
const SweepSchedule = "*/5 * * * *"

// Sweeper is a revocation store that needs expired entries dropped periodically.
type Sweeper interface {
	Sweep() int
}

func SweepRevokedSessions(store Sweeper) {
	if removed := store.Sweep(); removed > 0 {
		log.Printf("Running job: SweepRevokedSessions... dropped %d expired revocations", removed)
	}
}

// Start schedules the sweep and starts the scheduler. Stop the returned cron on shutdown.
func Start(store Sweeper) (*cron.Cron, error) {
	c := cron.New()
	if _, err := c.AddFunc(SweepSchedule, func() { SweepRevokedSessions(store) }); err != nil {
		return nil, fmt.Errorf("schedule session sweep: %w", err)
	}
	c.Start()
	log.Println("✅ Cron job for session sweeping scheduled successfully.")
	return c, nil
}
