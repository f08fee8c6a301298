package main

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"carbon-scribe/agro-carbon/agro-carbon-backend/internal/config"
	"carbon-scribe/agro-carbon/agro-carbon-backend/internal/reports/dashboard"
)

func TestExitStatus(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	logger := zap.New(core)

	// Fatal would end the test binary here
	code := exitStatus(logger, errors.New("failed to serve: address in use"))
	assert.Equal(t, 1, code)

	entries := logs.TakeAll()
	require.Len(t, entries, 1)
	assert.Equal(t, zap.ErrorLevel, entries[0].Level)
	assert.Equal(t, "Server failed", entries[0].Message)

	assert.Equal(t, 0, exitStatus(logger, nil))
	entries = logs.TakeAll()
	require.Len(t, entries, 1)
	assert.Equal(t, "Server exiting", entries[0].Message)
}

func TestNewCache_InMemoryWithoutRedis(t *testing.T) {
	defer goleak.VerifyNone(t)

	cache, closeCache, err := newCache(context.Background(), config.CacheConfig{TTL: time.Minute}, zap.NewNop())
	require.NoError(t, err)
	defer closeCache()

	_, ok := cache.(*dashboard.AggregateCache)
	assert.True(t, ok)
}
