// Package content keeps course trees in sync with what admins submit and
// serves them to learners.
package content

import (
	"context"
	"time"

	"KidLearn/internal/models"
	"KidLearn/internal/storage"
	"KidLearn/pkg/logger"

	"github.com/google/uuid"
)

// TreeCache holds approved course trees for learner reads. Tree returns nil
// and no error on a miss.
type TreeCache interface {
	Tree(ctx context.Context, courseID uuid.UUID) (*models.CourseTree, error)
	SetTree(ctx context.Context, tree *models.CourseTree) error
	Invalidate(ctx context.Context, courseID uuid.UUID) error
}

// SearchIndex holds searchable documents for approved courses.
type SearchIndex interface {
	Index(ctx context.Context, course models.Course) error
	Delete(ctx context.Context, courseID uuid.UUID) error
	Search(ctx context.Context, query string, size int) ([]uuid.UUID, error)
}

// MediaStore removes uploaded objects that a course no longer references.
// URLs that point outside the platform's buckets are ignored.
type MediaStore interface {
	RemoveByURL(ctx context.Context, rawURL string) error
}

type Service struct {
	log    logger.Log
	tx     storage.TxRunner
	cache  TreeCache
	search SearchIndex
	media  MediaStore
	now    func() time.Time
}

// NewService wires the synchronizer. cache, search and media are optional and
// may be nil.
func NewService(log logger.Log, tx storage.TxRunner, cache TreeCache, search SearchIndex, media MediaStore) *Service {
	return &Service{
		log:    log,
		tx:     tx,
		cache:  cache,
		search: search,
		media:  media,
		now:    func() time.Time { return time.Now().UTC() },
	}
}
