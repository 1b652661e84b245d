package redisx

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

// Key layouts are part of the deployed cache contract; renaming them
// silently orphans live entries.
func TestKeyNaming(t *testing.T) {
	id := uuid.MustParse("6a1f0e6e-9a3b-4a6f-8c90-1c6c64de7a11")

	assert.Equal(t, "lessongo:v1:lessons:all", KeyLessonList())
	assert.Equal(t, "lessongo:v1:lesson:6a1f0e6e-9a3b-4a6f-8c90-1c6c64de7a11", KeyLesson(id))
	assert.Equal(t, "lessongo:v1:rl", KeyRateLimitPrefix())
	assert.Equal(t, "lessongo:v1:rl:ip:1.2.3.4", KeyRateLimit("ip", "1.2.3.4"))
	assert.Equal(t, "lessongo:v1:lessons:changed", ChannelLessonsChanged())
}
