package api

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestUserRateLimiterIsBounded(t *testing.T) {
	l := newUserRateLimiter(1, 1, 3, time.Hour)

	for i := range 10 {
		l.limiter(fmt.Sprintf("user-%d", i))
	}
	assert.Equal(t, 3, l.limiters.Len())
}

func TestUserRateLimiterKeepsActiveUser(t *testing.T) {
	l := newUserRateLimiter(0.001, 1, 2, time.Hour)

	first := l.limiter("u1")
	assert.True(t, first.Allow())
	l.limiter("u2")
	// u1 仍是最近使用的之一，拿到同一个已耗尽的 limiter
	assert.Same(t, first, l.limiter("u1"))
	assert.False(t, l.limiter("u1").Allow())

	l.limiter("u3")
	l.limiter("u4")
	// u1 被淘汰后重新开始计数
	assert.True(t, l.limiter("u1").Allow())
}
