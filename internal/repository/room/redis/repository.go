package redis

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

type repo struct {
	rc               *redis.Client
	logger           *slog.Logger
	expireDuration   time.Duration
	maxScoreScript   string
	setScoreIfMember string
}

func NewRepo(rc *redis.Client, logger *slog.Logger, expireDuration time.Duration) *repo {
	return &repo{
		rc:             rc,
		logger:         logger,
		expireDuration: expireDuration,
		maxScoreScript: rc.ScriptLoad(context.Background(), `
			local maxScore = redis.call('ZREVRANGE', KEYS[1], 0, 0, 'WITHSCORES')
			local nextScore = 0
			if #maxScore > 0 then
				nextScore = tonumber(maxScore[2]) + 1
			end
			redis.call('ZADD', KEYS[1], nextScore, ARGV[1])
			return nextScore
		`).Val(),
		setScoreIfMember: rc.ScriptLoad(context.Background(), `
			local score = redis.call('ZSCORE', KEYS[1], ARGV[1])
			if not score then
				return 0
			end
			redis.call('ZADD', KEYS[1], 'XX', ARGV[2], ARGV[1])
			return 1
		`).Val(),
	}
}
