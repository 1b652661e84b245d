package redisx

import (
	"fmt"

	"github.com/google/uuid"
)

const ns = "lessongo:v1"

func KeyLessonList() string {
	return ns + ":lessons:all"
}

func KeyLesson(lessonID uuid.UUID) string {
	return fmt.Sprintf("%s:lesson:%s", ns, lessonID)
}

// KeyRateLimitPrefix is the namespace the sliding-window limiter is
// constructed with; KeyRateLimit spells out the full key it produces for a
// given scope and id.
func KeyRateLimitPrefix() string {
	return ns + ":rl"
}

func KeyRateLimit(scope, id string) string {
	return fmt.Sprintf("%s:%s:%s", KeyRateLimitPrefix(), scope, id)
}

func ChannelLessonsChanged() string {
	return ns + ":lessons:changed"
}
