package ratelimit

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Throttle ограничивает частоту обращений к внешнему провайдеру.
// Wait блокирует до получения разрешения или отмены контекста.
type Throttle interface {
	Wait(ctx context.Context) error
}

type intervalThrottle struct {
	limiter *rate.Limiter
}

// NewIntervalThrottle - не чаще одного вызова за interval (burst 1).
// interval <= 0 отключает ограничение.
func NewIntervalThrottle(interval time.Duration) Throttle {
	if interval <= 0 {
		return Nop()
	}
	return &intervalThrottle{
		limiter: rate.NewLimiter(rate.Every(interval), 1),
	}
}

func (t *intervalThrottle) Wait(ctx context.Context) error {
	return t.limiter.Wait(ctx)
}

type nopThrottle struct{}

// Nop - throttle без ограничений, для тестов
func Nop() Throttle {
	return nopThrottle{}
}

func (nopThrottle) Wait(ctx context.Context) error {
	return ctx.Err()
}
