package orders

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lessonhub/lessongo/internal/domain"
	postgresrepo "github.com/lessonhub/lessongo/internal/repository/postgres"
	"github.com/lessonhub/lessongo/internal/testdb"
)

func TestCreate_PersistsOrderWithDerivedTotal(t *testing.T) {
	store := postgresrepo.NewStore(testdb.New(t))
	svc := New(store, nil)
	ctx := context.Background()

	maths, err := store.Lessons().Create(ctx, "Mathematics", "London", 25, 5)
	require.NoError(t, err)
	physics, err := store.Lessons().Create(ctx, "Physics", "Leeds", 35, 5)
	require.NoError(t, err)

	o, err := svc.Create(ctx, CreateOrderInput{
		Name:           "Ada Lovelace",
		PhoneNumber:    "+44 7700 900123",
		LessonIDs:      []string{maths.ID.String(), physics.ID.String()},
		NumberOfSpaces: 2,
	}, "")
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, o.ID)
	assert.Equal(t, 120.0, o.TotalPrice)
	assert.Equal(t, domain.OrderPending, o.Status)
	assert.False(t, o.OrderDate.IsZero())
	require.Len(t, o.LessonDetails, 2)
	assert.Equal(t, "Mathematics", o.LessonDetails[0].Topic)

	got, err := svc.Get(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, o.TotalPrice, got.TotalPrice)
	assert.Len(t, got.LessonDetails, 2)
}

// One unresolved id must abort the transaction; the order row never lands.
func TestCreate_MissingLessonRollsBackOrder(t *testing.T) {
	store := postgresrepo.NewStore(testdb.New(t))
	svc := New(store, nil)
	ctx := context.Background()

	maths, err := store.Lessons().Create(ctx, "Mathematics", "London", 25, 5)
	require.NoError(t, err)

	name := "rollback-" + uuid.New().String()
	_, err = svc.Create(ctx, CreateOrderInput{
		Name:           name,
		PhoneNumber:    "+44 7700 900123",
		LessonIDs:      []string{maths.ID.String(), uuid.New().String()},
		NumberOfSpaces: 1,
	}, "")
	require.ErrorIs(t, err, ErrLessonsNotFound)

	all, err := svc.List(ctx)
	require.NoError(t, err)
	for _, o := range all {
		assert.NotEqual(t, name, o.Name)
	}
}

// The store returns each lesson once, so a duplicated id leaves the
// resolved count short and the order is rejected whole.
func TestCreate_DuplicateLessonIDRejected(t *testing.T) {
	store := postgresrepo.NewStore(testdb.New(t))
	svc := New(store, nil)
	ctx := context.Background()

	maths, err := store.Lessons().Create(ctx, "Mathematics", "London", 25, 5)
	require.NoError(t, err)

	_, err = svc.Create(ctx, CreateOrderInput{
		Name:           "Ada Lovelace",
		PhoneNumber:    "+44 7700 900123",
		LessonIDs:      []string{maths.ID.String(), maths.ID.String()},
		NumberOfSpaces: 1,
	}, "")
	assert.ErrorIs(t, err, ErrLessonsNotFound)
}
