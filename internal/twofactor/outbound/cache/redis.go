package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shandysiswandi/twofa/internal/pkg/instrument"
)

// consumeScript deletes the key only when it still holds the submitted code.
var consumeScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Redis stores email OTP codes in redis, one key per admin.
type Redis struct {
	tracer
	client redis.UniversalClient
}

func NewRedis(client redis.UniversalClient, ins instrument.Instrumentation) *Redis {
	return &Redis{tracer: tracer{ins: ins}, client: client}
}

// TTLEmailOTP returns the remaining lifetime; zero or negative means no code.
func (r *Redis) TTLEmailOTP(ctx context.Context, adminID int64) (ttl time.Duration, err error) {
	ctx, span := r.startSpan(ctx, "TTLEmailOTP")
	defer func() { r.endSpan(span, err) }()

	return r.client.TTL(ctx, emailOTPKey(adminID)).Result()
}

func (r *Redis) SetEmailOTP(ctx context.Context, adminID int64, code string, ttl time.Duration) (err error) {
	ctx, span := r.startSpan(ctx, "SetEmailOTP")
	defer func() { r.endSpan(span, err) }()

	return r.client.Set(ctx, emailOTPKey(adminID), code, ttl).Err()
}

// ConsumeEmailOTP atomically deletes the stored code if it equals code.
func (r *Redis) ConsumeEmailOTP(ctx context.Context, adminID int64, code string) (ok bool, err error) {
	ctx, span := r.startSpan(ctx, "ConsumeEmailOTP")
	defer func() { r.endSpan(span, err) }()

	n, err := consumeScript.Run(ctx, r.client, []string{emailOTPKey(adminID)}, code).Int()
	if err != nil {
		return false, err
	}

	return n == 1, nil
}

func (r *Redis) DelEmailOTP(ctx context.Context, adminID int64) (err error) {
	ctx, span := r.startSpan(ctx, "DelEmailOTP")
	defer func() { r.endSpan(span, err) }()

	return r.client.Del(ctx, emailOTPKey(adminID)).Err()
}
