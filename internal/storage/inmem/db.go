package inmem

import (
	"context"
	"maps"
	"sync"

	"KidLearn/internal/models"
	"KidLearn/internal/storage"

	"github.com/google/uuid"
)

type tables struct {
	courses     map[uuid.UUID]models.Course
	modules     map[uuid.UUID]models.Module
	lessons     map[uuid.UUID]models.Lesson
	children    map[uuid.UUID]models.Child
	enrollments map[uuid.UUID]models.Enrollment
	progress    map[uuid.UUID]models.ChildProgress
}

func newTables() *tables {
	return &tables{
		courses:     make(map[uuid.UUID]models.Course),
		modules:     make(map[uuid.UUID]models.Module),
		lessons:     make(map[uuid.UUID]models.Lesson),
		children:    make(map[uuid.UUID]models.Child),
		enrollments: make(map[uuid.UUID]models.Enrollment),
		progress:    make(map[uuid.UUID]models.ChildProgress),
	}
}

// clone copies the maps. Rows are already deep-copied on every write, so the
// values can be shared between the snapshot and the working copy.
func (t *tables) clone() *tables {
	return &tables{
		courses:     maps.Clone(t.courses),
		modules:     maps.Clone(t.modules),
		lessons:     maps.Clone(t.lessons),
		children:    maps.Clone(t.children),
		enrollments: maps.Clone(t.enrollments),
		progress:    maps.Clone(t.progress),
	}
}

// DB keeps every table in process memory. Transactions are serialized and
// work on a copy that replaces the live tables only on commit.
type DB struct {
	mutex sync.Mutex
	t     *tables
}

func New() *DB {
	return &DB{t: newTables()}
}

func (db *DB) InTx(ctx context.Context, fn func(ctx context.Context, s storage.Store) error) error {
	db.mutex.Lock()
	defer db.mutex.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	work := db.t.clone()
	if err := fn(ctx, &tx{t: work}); err != nil {
		return err
	}
	db.t = work
	return nil
}

// AddChild registers a child account. Child management lives outside this
// service, so the in-memory driver is seeded with them at startup.
func (db *DB) AddChild(c models.Child) {
	db.mutex.Lock()
	defer db.mutex.Unlock()
	db.t.children[c.ID] = c
}

type tx struct {
	t *tables
}

var _ storage.Store = (*tx)(nil)
