// Package monitoring runs background maintenance jobs.
package monitoring

import (
	"os"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// TmpSweeper periodically deletes stale files from the upload temp
// directory. Avatar processing removes its own temp file on success,
// but a crash in between leaves orphans behind.
type TmpSweeper struct {
	dir    string
	maxAge time.Duration
	cron   *cron.Cron
}

// NewTmpSweeper creates a sweeper for dir removing entries older than
// maxAge.
func NewTmpSweeper(dir string, maxAge time.Duration) *TmpSweeper {
	return &TmpSweeper{
		dir:    dir,
		maxAge: maxAge,
		cron:   cron.New(),
	}
}

// Start schedules the hourly sweep and runs one immediately.
func (s *TmpSweeper) Start() error {
	if _, err := s.cron.AddFunc("@hourly", s.Sweep); err != nil {
		return err
	}
	s.cron.Start()
	go s.Sweep()
	return nil
}

// Stop halts the sweep schedule.
func (s *TmpSweeper) Stop() {
	s.cron.Stop()
}

// Sweep removes every file in the temp directory older than maxAge.
func (s *TmpSweeper) Sweep() {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Error().Err(err).Str("dir", s.dir).Msg("Failed to read upload temp directory")
		}
		return
	}

	cutoff := time.Now().Add(-s.maxAge)
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, entry.Name())); err != nil {
			log.Warn().Err(err).Str("file", entry.Name()).Msg("Failed to remove orphaned upload")
			continue
		}
		removed++
	}

	if removed > 0 {
		log.Info().Int("removed", removed).Str("dir", s.dir).Msg("Swept orphaned uploads")
	}
}
