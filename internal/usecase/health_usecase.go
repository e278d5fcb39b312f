package usecase

import (
	"context"
	"time"

	"kohi-api/pkg/email"
)

// Pinger is satisfied by *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthChecker reports whether an optional dependency is reachable.
type HealthChecker func(ctx context.Context) error

type HealthUsecase interface {
	Check(ctx context.Context) map[string]string
}

type healthUsecase struct {
	db         HealthChecker
	redis      HealthChecker
	dispatcher email.Dispatcher
}

// NewHealthUsecase creates the health check. Nil checkers are reported as
// "disabled".
func NewHealthUsecase(db, redis HealthChecker, dispatcher email.Dispatcher) HealthUsecase {
	return &healthUsecase{db: db, redis: redis, dispatcher: dispatcher}
}

// PingChecker adapts a Pinger, returning nil for a nil pinger.
func PingChecker(p Pinger) HealthChecker {
	if p == nil {
		return nil
	}
	return p.Ping
}

func (u *healthUsecase) Check(ctx context.Context) map[string]string {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	result := map[string]string{
		"status":   "ok",
		"database": checkDependency(ctx, u.db),
		"redis":    checkDependency(ctx, u.redis),
		"email":    "disabled",
	}
	if u.dispatcher != nil && u.dispatcher.IsConfigured() {
		result["email"] = "ok"
	}
	if result["database"] == "down" || result["redis"] == "down" {
		result["status"] = "degraded"
	}
	return result
}

func checkDependency(ctx context.Context, check HealthChecker) string {
	if check == nil {
		return "disabled"
	}
	if err := check(ctx); err != nil {
		return "down"
	}
	return "ok"
}
