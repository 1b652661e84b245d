package redisrepo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	redisx "github.com/lessonhub/lessongo/internal/redis"
)

// The limiter is wired with KeyRateLimitPrefix, so every key it touches
// must land inside the versioned namespace.
func TestSlidingWindowLimiter_KeysStayInNamespace(t *testing.T) {
	l := NewSlidingWindowLimiter(nil, redisx.KeyRateLimitPrefix(), 10, time.Minute)

	assert.Equal(t, redisx.KeyRateLimit("ip", "1.2.3.4"), l.key("ip:1.2.3.4"))
}

func TestToInt(t *testing.T) {
	assert.Equal(t, int64(1), toInt(int64(1)))
	assert.Equal(t, int64(2), toInt(2))
	assert.Equal(t, int64(3), toInt(3.0))
	assert.Equal(t, int64(4), toInt("4"))
	assert.Equal(t, int64(0), toInt(nil))
}
