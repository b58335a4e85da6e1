package service

import (
	"time"

	"github.com/rs/zerolog/log"
)

// Scheduler runs the weekly database backup in the background.
type Scheduler struct {
	backupSvc *BackupService
	stopChan  chan struct{}
}

// NewScheduler creates a new Scheduler
func NewScheduler(backupSvc *BackupService) *Scheduler {
	return &Scheduler{
		backupSvc: backupSvc,
		stopChan:  make(chan struct{}),
	}
}

// Start starts the scheduled tasks
func (s *Scheduler) Start() {
	go s.runWeeklyBackupScheduler()
	log.Info().Msg("scheduler started - weekly backup on Sundays at 03:00")
}

// Stop stops the scheduled tasks
func (s *Scheduler) Stop() {
	close(s.stopChan)
}

// runWeeklyBackupScheduler runs the weekly backup loop
func (s *Scheduler) runWeeklyBackupScheduler() {
	for {
		nextRun := s.calculateNextBackupTime()
		duration := time.Until(nextRun)

		log.Info().Time("next_run", nextRun).Msg("next backup scheduled")

		select {
		case <-time.After(duration):
			backupPath, err := s.backupSvc.Backup()
			if err != nil {
				log.Error().Err(err).Msg("failed to create backup")
			} else {
				log.Info().Str("path", backupPath).Msg("backup created")
			}
		case <-s.stopChan:
			return
		}
	}
}

// calculateNextBackupTime calculates the next Sunday at 03:00
func (s *Scheduler) calculateNextBackupTime() time.Time {
	now := time.Now()

	daysUntilSunday := (7 - int(now.Weekday())) % 7
	if daysUntilSunday == 0 {
		backupTime := time.Date(now.Year(), now.Month(), now.Day(), 3, 0, 0, 0, now.Location())
		if now.After(backupTime) {
			daysUntilSunday = 7
		}
	}

	nextSunday := now.AddDate(0, 0, daysUntilSunday)
	return time.Date(nextSunday.Year(), nextSunday.Month(), nextSunday.Day(), 3, 0, 0, 0, now.Location())
}
