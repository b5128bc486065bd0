package config

import (
	"os"
	"strconv"
	"sync"
	"time"
)

type SchedulerConfig struct {
	SweepInterval time.Duration
	FlushInterval time.Duration
	FlushBatch    int
	LockHold      time.Duration
}

var (
	schedulerConfig *SchedulerConfig
	schedulerOnce   sync.Once
)

func LoadSchedulerConfig() *SchedulerConfig {
	schedulerOnce.Do(func() {
		batch := 20
		if v := os.Getenv("NOTIFICATION_FLUSH_BATCH"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				batch = n
			}
		}
		schedulerConfig = &SchedulerConfig{
			SweepInterval: time.Minute,
			FlushInterval: 30 * time.Second,
			FlushBatch:    batch,
			LockHold:      10 * time.Second,
		}
	})
	return schedulerConfig
}
