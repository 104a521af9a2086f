package utils

import (
	"context"
	"time"
)

// Attempt kinds understood by AllowAttempt.
const (
	AttemptLogin          = "login"
	AttemptSignup         = "signup"
	AttemptForgotPassword = "forgot"
	AttemptResendVerify   = "resend"
)

type attemptRule struct {
	max    int
	window time.Duration
}

var attemptRules = map[string]attemptRule{
	AttemptLogin:          {max: 10, window: 15 * time.Minute},
	AttemptSignup:         {max: 5, window: time.Hour},
	AttemptForgotPassword: {max: 3, window: 15 * time.Minute},
	AttemptResendVerify:   {max: 3, window: 15 * time.Minute},
}

// AllowAttempt records one attempt of the given kind for a key (usually the
// client IP or a normalized email) and reports whether the caller is still
// within the window limit. Redis unavailability fails open.
func AllowAttempt(kind, key string) bool {
	rule, ok := attemptRules[kind]
	if !ok {
		return true
	}
	rc := GetRedis()
	if rc == nil {
		return true
	}
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	redisKey := "attempt:" + kind + ":" + key
	n, err := rc.Incr(ctx, redisKey).Result()
	if err != nil {
		return true
	}
	if n == 1 {
		_ = rc.Expire(ctx, redisKey, rule.window).Err()
	}
	return n <= int64(rule.max)
}

// ClearAttempts resets the counter after a successful action, e.g. a correct
// login clears prior failures.
func ClearAttempts(kind, key string) {
	rc := GetRedis()
	if rc == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	_ = rc.Del(ctx, "attempt:"+kind+":"+key).Err()
}
