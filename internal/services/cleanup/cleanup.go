package cleanup

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Service sweeps the export directory for leftover temp files. Exports
// write to dot-prefixed .tmp files and rename them into place, so a
// .tmp that outlives its max age belongs to a crashed export and can
// be removed.
type Service struct {
	outputDir     string
	maxAge        time.Duration
	sweepInterval time.Duration
	cancel        context.CancelFunc
}

// NewService creates a new cleanup service
func NewService(outputDir string, maxAge, sweepInterval time.Duration) *Service {
	return &Service{
		outputDir:     outputDir,
		maxAge:        maxAge,
		sweepInterval: sweepInterval,
	}
}

// Start begins periodic sweeping until the context is cancelled
func (s *Service) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.Sweep()

	go func() {
		ticker := time.NewTicker(s.sweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.Sweep()
			case <-ctx.Done():
				log.Println("export cleanup stopped")
				return
			}
		}
	}()

	log.Printf("export cleanup started (interval: %v, max age: %v)", s.sweepInterval, s.maxAge)
}

// Stop stops the cleanup service
func (s *Service) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
}

// Sweep removes stale export temp files and reports how many went
func (s *Service) Sweep() int {
	entries, err := os.ReadDir(s.outputDir)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("export cleanup: reading %s: %v", s.outputDir, err)
		}
		return 0
	}

	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || !isTempFile(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if time.Since(info.ModTime()) <= s.maxAge {
			continue
		}
		path := filepath.Join(s.outputDir, entry.Name())
		if err := os.Remove(path); err != nil {
			log.Printf("export cleanup: removing %s: %v", path, err)
			continue
		}
		log.Printf("export cleanup: removed stale temp file %s", path)
		removed++
	}
	return removed
}

func isTempFile(name string) bool {
	return strings.HasPrefix(name, ".") && strings.HasSuffix(name, ".tmp")
}
