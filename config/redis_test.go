package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisOptions(t *testing.T) {
	opt, err := redisOptions("localhost:6379", "", "")
	require.NoError(t, err)
	assert.Equal(t, "localhost:6379", opt.Addr)
	assert.Zero(t, opt.DB)

	opt, err = redisOptions("redis://:secret@cache:6380/2", "", "")
	require.NoError(t, err)
	assert.Equal(t, "cache:6380", opt.Addr)
	assert.Equal(t, "secret", opt.Password)
	assert.Equal(t, 2, opt.DB)

	opt, err = redisOptions("cache:6379", "override", "3")
	require.NoError(t, err)
	assert.Equal(t, "override", opt.Password)
	assert.Equal(t, 3, opt.DB)
}

func TestRedisOptionsErrors(t *testing.T) {
	_, err := redisOptions("", "", "")
	assert.Error(t, err)

	_, err = redisOptions("cache:6379", "", "-1")
	assert.Error(t, err)

	_, err = redisOptions("redis://%zz", "", "")
	assert.Error(t, err)
}
