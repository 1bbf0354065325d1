package utils

import (
	"context"
	"errors"
	"testing"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
)

func TestRedisHealthCheck(t *testing.T) {
	client, redisMock := redismock.NewClientMock()

	redisMock.ExpectPing().SetVal("PONG")
	assert.NoError(t, RedisHealthCheck(client))

	redisMock.ExpectPing().SetErr(errors.New("connection refused"))
	assert.Error(t, RedisHealthCheck(client))
}

func TestGenerateCode(t *testing.T) {
	code, err := GenerateCode(10)
	assert.NoError(t, err)
	assert.Len(t, code, 20) // hex doubles the byte count
	assert.Regexp(t, "^[0-9A-F]+$", code)

	other, err := GenerateCode(10)
	assert.NoError(t, err)
	assert.NotEqual(t, code, other)
}

func TestCircuitBreakerPassesThrough(t *testing.T) {
	cb := NewCircuitBreaker("test")

	result, err := cb.Execute(context.Background(), func() (any, error) {
		return "ok", nil
	})

	assert.NoError(t, err)
	assert.Equal(t, "ok", result)
}

func TestCircuitBreakerPropagatesError(t *testing.T) {
	cb := NewCircuitBreaker("test")

	_, err := cb.Execute(context.Background(), func() (any, error) {
		return nil, errors.New("publish failed")
	})

	assert.EqualError(t, err, "publish failed")
}

func TestCircuitBreakerHonorsCancelledContext(t *testing.T) {
	cb := NewCircuitBreaker("test")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	_, err := cb.Execute(ctx, func() (any, error) {
		called = true
		return nil, nil
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}
