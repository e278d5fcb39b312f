package usecase_test

import (
	"context"
	"errors"
	"testing"

	"kohi-api/internal/usecase"

	"github.com/stretchr/testify/assert"
)

func TestHealthCheck(t *testing.T) {
	ok := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("refused") }

	t.Run("Optional dependencies disabled", func(t *testing.T) {
		res := usecase.NewHealthUsecase(nil, nil, nil).Check(context.Background())
		assert.Equal(t, "ok", res["status"])
		assert.Equal(t, "disabled", res["database"])
		assert.Equal(t, "disabled", res["redis"])
		assert.Equal(t, "disabled", res["email"])
	})

	t.Run("Degraded when a dependency is down", func(t *testing.T) {
		res := usecase.NewHealthUsecase(ok, down, &MockDispatcher{configured: true}).Check(context.Background())
		assert.Equal(t, "degraded", res["status"])
		assert.Equal(t, "ok", res["database"])
		assert.Equal(t, "down", res["redis"])
		assert.Equal(t, "ok", res["email"])
	})
}
