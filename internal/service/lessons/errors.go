package lessons

import (
	"errors"
)

var (
	ErrLessonNotFound = errors.New("lesson not found")
	ErrLessonConflict = errors.New("conflict creating lesson")
)
