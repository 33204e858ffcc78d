package redis

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// addWithMaxScore appends the value to the sorted set with score equal to the
// current maximum score + 1 (0 if the set is empty) and returns the assigned
// score.
func (r repo) addWithMaxScore(ctx context.Context, key string, value any) (int, error) {
	res, err := r.rc.EvalSha(ctx, r.maxScoreScript, []string{key}, value).Int()
	if err != nil {
		return 0, err
	}

	return res, nil
}

// setScore reassigns the score of an existing sorted-set member. Returns
// false when the member is not part of the set.
func (r repo) setScore(ctx context.Context, key string, value any, score int) (bool, error) {
	res, err := r.rc.EvalSha(ctx, r.setScoreIfMember, []string{key}, value, score).Int()
	if err != nil {
		return false, err
	}

	return res == 1, nil
}

func (r repo) executePipe(ctx context.Context, pipe redis.Pipeliner) error {
	cmds, err := pipe.Exec(ctx)
	if err != nil {
		for _, cmd := range cmds {
			if err := cmd.Err(); err != nil {
				return err
			}
		}

		return err
	}

	return nil
}
