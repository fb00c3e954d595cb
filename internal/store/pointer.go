package store

import (
	"context"
	"errors"
	"time"

	"github.com/sithumSoft/MockMate/internal/models"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PointerStore remembers which interview each user is currently taking.
type PointerStore interface {
	Set(ctx context.Context, userID, interviewID string) error
	Get(ctx context.Context, userID string) (string, bool, error)
	Clear(ctx context.Context, userID string) error
	// ClearIf clears the pointer only while it still names interviewID.
	ClearIf(ctx context.Context, userID, interviewID string) error
}

// DBPointer keeps the pointer in the session_pointers table.
type DBPointer struct {
	db *gorm.DB
}

func NewDBPointer(db *gorm.DB) *DBPointer {
	return &DBPointer{db: db}
}

func (p *DBPointer) Set(ctx context.Context, userID, interviewID string) error {
	row := models.SessionPointer{UserID: userID, InterviewID: interviewID, UpdatedAt: time.Now()}
	return p.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"interview_id", "updated_at"}),
	}).Create(&row).Error
}

func (p *DBPointer) Get(ctx context.Context, userID string) (string, bool, error) {
	var row models.SessionPointer
	err := p.db.WithContext(ctx).First(&row, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return row.InterviewID, true, nil
}

func (p *DBPointer) Clear(ctx context.Context, userID string) error {
	return p.db.WithContext(ctx).Delete(&models.SessionPointer{}, "user_id = ?", userID).Error
}

func (p *DBPointer) ClearIf(ctx context.Context, userID, interviewID string) error {
	return p.db.WithContext(ctx).
		Delete(&models.SessionPointer{}, "user_id = ? AND interview_id = ?", userID, interviewID).Error
}

const redisPointerPrefix = "mockmate:current_session:"

// compare-and-delete in one round trip
var clearIfScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisPointer keeps the pointer in redis so several API replicas agree on it.
type RedisPointer struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisPointer stores pointers with the given expiry; zero keeps them forever.
func NewRedisPointer(rdb *redis.Client, ttl time.Duration) *RedisPointer {
	return &RedisPointer{rdb: rdb, ttl: ttl}
}

func (p *RedisPointer) Set(ctx context.Context, userID, interviewID string) error {
	return p.rdb.Set(ctx, redisPointerPrefix+userID, interviewID, p.ttl).Err()
}

func (p *RedisPointer) Get(ctx context.Context, userID string) (string, bool, error) {
	id, err := p.rdb.Get(ctx, redisPointerPrefix+userID).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return id, true, nil
}

func (p *RedisPointer) Clear(ctx context.Context, userID string) error {
	return p.rdb.Del(ctx, redisPointerPrefix+userID).Err()
}

func (p *RedisPointer) ClearIf(ctx context.Context, userID, interviewID string) error {
	return clearIfScript.Run(ctx, p.rdb, []string{redisPointerPrefix + userID}, interviewID).Err()
}
