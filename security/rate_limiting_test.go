package security

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
)

func TestAllowFirstScanStartsWindow(t *testing.T) {
	client, redisMock := redismock.NewClientMock()
	limiter := NewRateLimiter(client, 30)

	redisMock.ExpectIncr("throttle:scan:10.0.0.1").SetVal(1)
	redisMock.ExpectExpire("throttle:scan:10.0.0.1", time.Minute).SetVal(true)

	allowed, err := limiter.Allow(context.Background(), "10.0.0.1")

	assert.NoError(t, err)
	assert.True(t, allowed)
	assert.NoError(t, redisMock.ExpectationsWereMet())
}

func TestAllowUnderLimit(t *testing.T) {
	client, redisMock := redismock.NewClientMock()
	limiter := NewRateLimiter(client, 30)

	redisMock.ExpectIncr("throttle:scan:10.0.0.1").SetVal(30)

	allowed, err := limiter.Allow(context.Background(), "10.0.0.1")

	assert.NoError(t, err)
	assert.True(t, allowed)
}

func TestAllowOverLimit(t *testing.T) {
	client, redisMock := redismock.NewClientMock()
	limiter := NewRateLimiter(client, 30)

	redisMock.ExpectIncr("throttle:scan:10.0.0.1").SetVal(31)

	allowed, err := limiter.Allow(context.Background(), "10.0.0.1")

	assert.NoError(t, err)
	assert.False(t, allowed)
}

func TestAllowFailsOpenOnRedisError(t *testing.T) {
	client, redisMock := redismock.NewClientMock()
	limiter := NewRateLimiter(client, 30)

	redisMock.ExpectIncr("throttle:scan:10.0.0.1").SetErr(errors.New("connection refused"))

	allowed, err := limiter.Allow(context.Background(), "10.0.0.1")

	assert.Error(t, err)
	assert.True(t, allowed)
}
