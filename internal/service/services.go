package service

import (
	redisx "github.com/lessonhub/lessongo/internal/redis"
	postgresrepo "github.com/lessonhub/lessongo/internal/repository/postgres"
	redisrepo "github.com/lessonhub/lessongo/internal/repository/redis"
	"github.com/lessonhub/lessongo/internal/service/lessons"
	"github.com/lessonhub/lessongo/internal/service/orders"
)

type Services struct {
	Lessons *lessons.Service
	Orders  *orders.Service
}

type Config struct {
	Lessons lessons.Config
}

func NewServices(
	store *postgresrepo.Store,
	cache *redisrepo.Cache,
	pubsub *redisx.LessonsPubSub,
	limiter *redisrepo.SlidingWindowLimiter,
	cfg Config,
) *Services {
	return &Services{
		Lessons: lessons.New(store, cache, pubsub, cfg.Lessons),
		Orders:  orders.New(store, limiter),
	}
}
