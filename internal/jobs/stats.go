package jobs

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"io.winapps.pushrelay/internal/registration"
)

// StatsJob refreshes the cached registration count once a day and logs the
// total, so the diagnostics endpoints stay cheap and operators see growth
// in the logs without querying the database.
type StatsJob struct {
	manager     *registration.Manager
	redisClient *redis.Client
	logger      *zap.SugaredLogger
	cronManager *cron.Cron
}

func NewStatsJob(manager *registration.Manager, redisClient *redis.Client, logger *zap.SugaredLogger) *StatsJob {
	return &StatsJob{
		manager:     manager,
		redisClient: redisClient,
		logger:      logger,
		cronManager: cron.New(cron.WithLocation(time.UTC)),
	}
}

// Start schedules the daily refresh at midnight UTC and runs one refresh
// immediately so the cache is warm from startup.
func (j *StatsJob) Start() error {
	if _, err := j.cronManager.AddFunc("0 0 * * *", j.refreshUserCount); err != nil {
		return err
	}
	j.cronManager.Start()
	go j.refreshUserCount()
	return nil
}

// Stop halts the scheduler; running jobs finish on their own.
func (j *StatsJob) Stop() {
	j.cronManager.Stop()
}

func (j *StatsJob) refreshUserCount() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	count, err := j.manager.Count(ctx)
	if err != nil {
		j.logger.Errorw("failed to refresh user count", "error", err)
		return
	}

	if j.redisClient != nil {
		if err := j.redisClient.Set(ctx, "stats:user_count", count, 0).Err(); err != nil {
			j.logger.Warnw("failed to cache user count", "error", err)
		}
	}

	j.logger.Infow("registration stats refreshed", "user_count", count)
}
