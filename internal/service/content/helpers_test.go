package content

import (
	"context"
	"errors"
	"sync"

	"KidLearn/internal/models"
	"KidLearn/internal/storage"
	"KidLearn/internal/storage/inmem"
	"KidLearn/pkg/logger"

	"github.com/google/uuid"
)

type fakeCache struct {
	mu          sync.Mutex
	trees       map[uuid.UUID]*models.CourseTree
	invalidated []uuid.UUID
}

func newFakeCache() *fakeCache {
	return &fakeCache{trees: make(map[uuid.UUID]*models.CourseTree)}
}

func (c *fakeCache) Tree(_ context.Context, id uuid.UUID) (*models.CourseTree, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.trees[id], nil
}

func (c *fakeCache) SetTree(_ context.Context, tree *models.CourseTree) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.trees[tree.Course.ID] = tree
	return nil
}

func (c *fakeCache) Invalidate(_ context.Context, id uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.trees, id)
	c.invalidated = append(c.invalidated, id)
	return nil
}

type fakeSearch struct {
	indexed map[uuid.UUID]models.Course
	deleted []uuid.UUID
	hits    []uuid.UUID
}

func newFakeSearch() *fakeSearch {
	return &fakeSearch{indexed: make(map[uuid.UUID]models.Course)}
}

func (s *fakeSearch) Index(_ context.Context, c models.Course) error {
	s.indexed[c.ID] = c
	return nil
}

func (s *fakeSearch) Delete(_ context.Context, id uuid.UUID) error {
	delete(s.indexed, id)
	s.deleted = append(s.deleted, id)
	return nil
}

func (s *fakeSearch) Search(_ context.Context, _ string, _ int) ([]uuid.UUID, error) {
	return s.hits, nil
}

type fakeMedia struct {
	removed []string
}

func (m *fakeMedia) RemoveByURL(_ context.Context, u string) error {
	m.removed = append(m.removed, u)
	return nil
}

// failingRunner wraps a runner and makes CreateLesson fail after the first
// okLessons successful calls.
type failingRunner struct {
	inner     storage.TxRunner
	okLessons int
}

var errInjected = errors.New("injected failure")

func (r *failingRunner) InTx(ctx context.Context, fn func(ctx context.Context, s storage.Store) error) error {
	return r.inner.InTx(ctx, func(ctx context.Context, s storage.Store) error {
		return fn(ctx, &failingStore{Store: s, left: r.okLessons})
	})
}

type failingStore struct {
	storage.Store
	left int
}

func (s *failingStore) CreateLesson(ctx context.Context, l *models.Lesson) error {
	if s.left == 0 {
		return errInjected
	}
	s.left--
	return s.Store.CreateLesson(ctx, l)
}

type testEnv struct {
	svc    *Service
	db     *inmem.DB
	cache  *fakeCache
	search *fakeSearch
	media  *fakeMedia
}

func newTestEnv() *testEnv {
	db := inmem.New()
	env := &testEnv{db: db, cache: newFakeCache(), search: newFakeSearch(), media: &fakeMedia{}}
	env.svc = NewService(logger.Discard(), db, env.cache, env.search, env.media)
	return env
}

func ptr[T any](v T) *T { return &v }

func quizInput() *models.QuizContent {
	return &models.QuizContent{
		PassingScore: 60,
		MaxAttempts:  3,
		Questions: []models.QuizQuestion{{
			ID:   "q1",
			Text: "How many sides does a triangle have?",
			Type: "single_choice",
			Options: []models.QuizOption{
				{ID: "a", Text: "3", IsCorrect: true},
				{ID: "b", Text: "4"},
			},
		}},
	}
}

// shapesInput is a new course with two modules and three lessons.
func shapesInput() models.CourseTreeInput {
	return models.CourseTreeInput{
		Title:              models.Some("Shapes"),
		Description:        models.Some("Learn shapes"),
		AgeGroup:           models.Some(models.AgeGroupPreschool),
		Tags:               models.Some([]string{"math", "shapes", "math"}),
		LearningObjectives: models.Some([]string{"name shapes"}),
		ThumbnailURL:       models.Some("https://media.example.com/thumbs/shapes.png"),
		IsApproved:         models.Some(true),
		Modules: []models.ModuleInput{
			{
				Title: models.Some("Basics"),
				Lessons: []models.LessonInput{
					{
						Title:        models.Some("Meet the circle"),
						Type:         models.LessonVideo,
						PointsReward: models.Some(10),
						VideoURL:     ptr("https://media.example.com/videos/circle.mp4"),
					},
					{
						Title:        models.Some("Shape quiz"),
						Type:         models.LessonQuiz,
						PointsReward: models.Some(20),
						Quiz:         quizInput(),
					},
				},
			},
			{
				Title: models.Some("Stories"),
				Lessons: []models.LessonInput{
					{
						Title:          models.Some("The square story"),
						Type:           models.LessonReading,
						ReadingContent: ptr("Once upon a time there was a square."),
					},
				},
			},
		},
	}
}

// inputFromTree turns a persisted tree back into a submission that keeps
// every node.
func inputFromTree(tree *models.CourseTree) models.CourseTreeInput {
	in := models.CourseTreeInput{}
	for _, mt := range tree.Modules {
		mi := models.ModuleInput{ID: ptr(mt.Module.ID), Title: models.Some(mt.Module.Title)}
		for _, l := range mt.Lessons {
			li := models.LessonInput{ID: ptr(l.ID), Type: l.Type}
			switch c := l.Content.(type) {
			case *models.VideoContent:
				li.VideoURL = ptr(c.URL)
			case *models.QuizContent:
				li.Quiz = c
			}
			mi.Lessons = append(mi.Lessons, li)
		}
		in.Modules = append(in.Modules, mi)
	}
	return in
}
