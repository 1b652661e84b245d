package redisx

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// LessonsPubSub fans out lesson-changed notifications so that other
// instances can drop their cached lesson views.
type LessonsPubSub struct {
	rdb     *redis.Client
	channel string
}

func NewLessonsPubSub(rdb *redis.Client) *LessonsPubSub {
	return &LessonsPubSub{
		rdb:     rdb,
		channel: ChannelLessonsChanged(),
	}
}

type lessonChangedMsg struct {
	Type     string    `json:"type"`
	LessonID uuid.UUID `json:"lesson_id"`
	TsUnix   int64     `json:"ts_unix"`
}

func (p *LessonsPubSub) PublishLessonChanged(ctx context.Context, lessonID uuid.UUID) error {
	msg := lessonChangedMsg{
		Type:     "lesson_changed",
		LessonID: lessonID,
		TsUnix:   time.Now().Unix(),
	}

	b, _ := json.Marshal(msg)

	return p.rdb.Publish(ctx, p.channel, b).Err()
}

func (p *LessonsPubSub) Subscribe(ctx context.Context, handler func(ctx context.Context, lessonID uuid.UUID)) error {
	sub := p.rdb.Subscribe(ctx, p.channel)
	defer sub.Close()

	ch := sub.Channel(redis.WithChannelSize(256))
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case m, ok := <-ch:
			if !ok {
				return nil
			}
			var ev lessonChangedMsg
			if err := json.Unmarshal([]byte(m.Payload), &ev); err == nil &&
				ev.LessonID != uuid.Nil {
				handler(ctx, ev.LessonID)
			}
		}
	}
}
