package httpgin

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lessonhub/lessongo/internal/domain"
	redisrepo "github.com/lessonhub/lessongo/internal/repository/redis"
	"github.com/lessonhub/lessongo/internal/service"
	"github.com/lessonhub/lessongo/internal/service/lessons"
	"github.com/lessonhub/lessongo/internal/service/orders"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func NewRouter(
	svcs *service.Services,
	idem *redisrepo.IdempotencyStore,
	imagesDir string,
	logger *slog.Logger,
	middlewares ...gin.HandlerFunc,
) *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery(), LoggingMiddleware(logger), RequestIDMiddleware(), CORS())
	for _, m := range middlewares {
		if m != nil {
			r.Use(m)
		}
	}

	// Swagger UI
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// health
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		api.GET("/lessons", handleListLessons(svcs))
		api.GET("/lessons/:id", handleGetLesson(svcs))
		api.POST("/lessons", handleCreateLesson(svcs))
		api.PUT("/lessons/:id/space", handleAdjustSpace(svcs))

		api.GET("/orders", handleListOrders(svcs))
		api.POST("/orders", handleCreateOrder(svcs, idem))
		api.GET("/orders/:id", handleGetOrder(svcs))
	}

	r.GET("/images/lessons/*filepath", handleLessonImage(imagesDir))

	return r
}

// --- Handlers with Swagger annotations ---

// @Summary  List lessons
// @Param    q  query  string  false  "substring filter over topic/location"
// @Success  200  {array}  domain.Lesson
// @Router   /api/lessons [get]
func handleListLessons(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := svcs.Lessons.List(c.Request.Context(), strings.TrimSpace(c.Query("q")))
		if err != nil {
			respondErr(c, err)
			return
		}
		if out == nil {
			out = []domain.Lesson{}
		}
		// ETag + Cache-Control 30s
		writeJSONWithCache(c, http.StatusOK, out, "public, max-age=30", true)
	}
}

// @Summary  Get lesson
// @Param    id  path  string  true  "Lesson ID (uuid)"
// @Success  200  {object}  domain.Lesson
// @Failure  404  {object}  ErrorResponse
// @Router   /api/lessons/{id} [get]
func handleGetLesson(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseUUIDParam(c, "id")
		if !ok {
			return
		}
		l, err := svcs.Lessons.Get(c.Request.Context(), id)
		if err != nil {
			respondErr(c, err)
			return
		}
		writeJSONWithCache(c, http.StatusOK, l, "public, max-age=60", true)
	}
}

// @Summary  Create lesson
// @Param    req body  CreateLessonRequest true "payload"
// @Success  201 {object} domain.Lesson
// @Failure  400 {object} ErrorResponse
// @Router   /api/lessons [post]
func handleCreateLesson(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateLessonRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		l, err := svcs.Lessons.Create(
			c.Request.Context(),
			req.Topic,
			req.Location,
			req.Price,
			*req.Space,
		)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, l)
	}
}

// @Summary  Adjust lesson space
// @Description  Applies a signed delta to remaining space, floored at zero.
// @Param    id   path  string  true  "Lesson ID (uuid)"
// @Param    req  body  AdjustSpaceRequest true "payload"
// @Success  200 {object} domain.Lesson
// @Failure  404 {object} ErrorResponse
// @Router   /api/lessons/{id}/space [put]
func handleAdjustSpace(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseUUIDParam(c, "id")
		if !ok {
			return
		}
		var req AdjustSpaceRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		l, err := svcs.Lessons.AdjustSpace(c.Request.Context(), id, *req.Change)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, l)
	}
}

// @Summary  List orders (newest first)
// @Success  200  {array}  domain.Order
// @Router   /api/orders [get]
func handleListOrders(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := svcs.Orders.List(c.Request.Context())
		if err != nil {
			respondErr(c, err)
			return
		}
		if out == nil {
			out = []domain.Order{}
		}
		c.JSON(http.StatusOK, out)
	}
}

// @Summary  Get order
// @Param    id  path  string  true  "Order ID (uuid)"
// @Success  200 {object} domain.Order
// @Failure  404 {object} ErrorResponse
// @Router   /api/orders/{id} [get]
func handleGetOrder(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseUUIDParam(c, "id")
		if !ok {
			return
		}
		o, err := svcs.Orders.Get(c.Request.Context(), id)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, o)
	}
}

// @Summary  Create order (idempotent)
// @Param    req body  CreateOrderRequest true "payload"
// @Header   201 {string} Idempotency-Key "echo"
// @Success  201 {object} domain.Order
// @Failure  400 {object} ErrorResponse
// @Failure  404 {object} ErrorResponse "one or more lesson IDs not found"
// @Failure  409 {object} ErrorResponse "idem in progress"
// @Failure  429 {object} ErrorResponse "rate limited"
// @Router   /api/orders [post]
func handleCreateOrder(
	svcs *service.Services,
	idem *redisrepo.IdempotencyStore,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		idemKey := strings.TrimSpace(c.GetHeader("Idempotency-Key"))
		var idemStorageKey string
		if idem != nil && idemKey != "" {
			idemStorageKey = redisrepo.KeyIdemOrder(idemKey)

			if payload, ok, _ := idem.GetResult(
				c.Request.Context(),
				idemStorageKey,
			); ok {
				c.Header("Idempotency-Key", idemKey)
				c.Data(
					http.StatusCreated,
					"application/json; charset=utf-8",
					[]byte(payload),
				)
				return
			}

			locked, err := idem.AcquireLock(
				c.Request.Context(),
				idemStorageKey,
				60*time.Second,
			)
			if err != nil {
				respondErr(c, err)
				return
			}
			if !locked {
				if payload, ok, _ := idem.GetResult(
					c.Request.Context(),
					idemStorageKey,
				); ok {
					c.Header("Idempotency-Key", idemKey)
					c.Data(
						http.StatusCreated,
						"application/json; charset=utf-8",
						[]byte(payload),
					)
					return
				}
				c.Header("Retry-After", "1")
				c.JSON(
					http.StatusConflict,
					ErrorResponse{Error: "idempotency key in progress"},
				)
				return
			}
		}

		rlKey := "ip:" + c.ClientIP()

		o, err := svcs.Orders.Create(c.Request.Context(), orders.CreateOrderInput{
			Name:           req.Name,
			PhoneNumber:    req.PhoneNumber,
			LessonIDs:      req.LessonIDs,
			NumberOfSpaces: req.NumberOfSpaces,
			Email:          req.Email,
			Notes:          req.Notes,
		}, rlKey)
		if err != nil {
			if idemStorageKey != "" && idem != nil {
				_ = idem.Release(c.Request.Context(), idemStorageKey)
			}
			var rl orders.RateLimitedError
			if errors.As(err, &rl) {
				c.Header("Retry-After", "60")
				c.JSON(
					http.StatusTooManyRequests,
					ErrorResponse{Error: rl.Error()},
				)
				return
			}
			respondErr(c, err)
			return
		}

		if idemStorageKey != "" && idem != nil {
			b, _ := json.Marshal(o)
			_ = idem.SaveResult(c.Request.Context(), idemStorageKey, string(b))
			c.Header("Idempotency-Key", idemKey)
		}

		c.JSON(http.StatusCreated, o)
	}
}

// --- Helpers ---

func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	s := c.Param(name)
	v, err := uuid.Parse(s)
	if err != nil {
		badRequest(c, "invalid "+name)
		return uuid.Nil, false
	}
	return v, true
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: msg})
}

func respondErr(c *gin.Context, err error) {
	if err == nil {
		c.Status(http.StatusNoContent)
		return
	}

	var ve orders.ValidationError
	if errors.As(err, &ve) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: ve.Error()})
		return
	}

	switch {
	// lessons service
	case errors.Is(err, lessons.ErrLessonNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "lesson not found"})
		return
	case errors.Is(err, lessons.ErrLessonConflict):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "lesson conflict"})
		return
	// orders service
	case errors.Is(err, orders.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "order not found"})
		return
	case errors.Is(err, orders.ErrLessonsNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "one or more lesson IDs not found"})
		return
	}

	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
}
