package service

import (
	"context"
	"fmt"

	"notealog/internal/pkg/logger"

	"github.com/robfig/cron/v3"
)

type ISchedulerService interface {
	Start()
	Stop() context.Context
}

type schedulerService struct {
	cron *cron.Cron
}

// NewSchedulerService queues an auto-categorize job on every tick of the
// five-field cron expression spec.
func NewSchedulerService(spec string, categorizeService ICategorizeService, log logger.ILogger) (ISchedulerService, error) {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	if _, err := parser.Parse(spec); err != nil {
		return nil, fmt.Errorf("invalid cron expression %q: %w", spec, err)
	}

	c := cron.New(cron.WithParser(parser))
	_, err := c.AddFunc(spec, func() {
		res, err := categorizeService.StartAutoCategorize(context.Background(), "cron")
		if err != nil {
			log.Error("SCHEDULER", "failed to queue auto categorize", map[string]interface{}{"error": err.Error()})
			return
		}
		log.Info("SCHEDULER", "auto categorize queued", map[string]interface{}{"job_id": res.JobId})
	})
	if err != nil {
		return nil, err
	}

	return &schedulerService{cron: c}, nil
}

func (s *schedulerService) Start() {
	s.cron.Start()
}

// Stop halts the schedule; the returned context is done once running jobs
// finish.
func (s *schedulerService) Stop() context.Context {
	return s.cron.Stop()
}
