package jobs

import (
	"context"
	"fmt"
	"log"
	"time"

	"CollectPortal/internal/logger"
	"CollectPortal/internal/portal"

	"github.com/robfig/cron/v3"
)

type CronService struct {
	config map[string]interface{}
	portal *portal.Service
	cron   *cron.Cron
}

func NewCronService(cfg map[string]interface{}, svc *portal.Service) *CronService {
	return &CronService{
		config: cfg,
		portal: svc,
	}
}

func (s *CronService) Name() string {
	return "cron"
}

func (s *CronService) snapshotConfig() *SnapshotConfig {
	cfg := NewDefaultSnapshotConfig()
	if s.config == nil {
		return cfg
	}
	if v, ok := s.config["snapshot_schedule"].(string); ok && v != "" {
		cfg.Schedule = v
	}
	if v, ok := s.config["time_zone"].(string); ok && v != "" {
		cfg.TimeZone = v
	}
	if v, ok := s.config["snapshot_folder"].(string); ok && v != "" {
		cfg.Folder = v
	}
	if v, ok := s.config["snapshot_format"].(string); ok && v != "" {
		cfg.Format = v
	}
	return cfg
}

func (s *CronService) Start() error {
	if s.portal == nil {
		return fmt.Errorf("cron: portal service not wired")
	}
	cfg := s.snapshotConfig()

	loc, err := time.LoadLocation(cfg.TimeZone)
	if err != nil {
		loc = time.UTC
	}
	c := cron.New(cron.WithLocation(loc))
	_, err = c.AddFunc(cfg.Schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()
		files, err := RunSnapshot(ctx, s.portal, cfg, time.Now().In(loc))
		if err != nil {
			audit(fmt.Sprintf("Case snapshot failed: %v", err))
			return
		}
		audit(fmt.Sprintf("Case snapshot wrote %d files to %s", len(files), cfg.Folder))
	})
	if err != nil {
		return fmt.Errorf("unable to schedule case snapshot: %v", err)
	}

	c.Start()
	s.cron = c
	audit(fmt.Sprintf("Snapshot scheduler started (%s %s)", cfg.Schedule, loc))
	return nil
}

func (s *CronService) Stop() error {
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
	log.Println("[INFO] cron: stopped")
	return nil
}

func audit(msg string) {
	if logger.GlobalLogger != nil {
		logger.GlobalLogger.LogAudit(msg)
		return
	}
	log.Println("[INFO]", msg)
}
