package enrollment

import (
	"context"
	"time"

	"KidLearn/internal/app_errors"
	"KidLearn/internal/models"
	"KidLearn/internal/storage"
	"KidLearn/internal/validation"
	"KidLearn/pkg/logger"

	"github.com/google/uuid"
)

type Service struct {
	log logger.Log
	tx  storage.TxRunner
	now func() time.Time
}

func NewService(log logger.Log, tx storage.TxRunner) *Service {
	return &Service{
		log: log,
		tx:  tx,
		now: func() time.Time { return time.Now().UTC() },
	}
}

// Enroll signs a parent's child up for an approved course. prefs may be nil
// to use the defaults.
func (s *Service) Enroll(ctx context.Context, parentID, childID, courseID uuid.UUID, prefs *models.CoursePreferences) (*models.Enrollment, error) {
	p := models.DefaultPreferences()
	if prefs != nil {
		p = *prefs
		if p.Difficulty == "" {
			p.Difficulty = models.DifficultyMedium
		}
	}
	if err := validation.Struct("course_preferences", p); err != nil {
		return nil, err
	}

	var e *models.Enrollment
	err := s.tx.InTx(ctx, func(ctx context.Context, st storage.Store) error {
		if err := checkGuardian(ctx, st, parentID, childID); err != nil {
			return err
		}
		course, err := st.CourseByID(ctx, courseID)
		if err != nil {
			return err
		}
		if !course.IsApproved {
			return app_errors.NotFound("course", courseID)
		}

		now := s.now()
		e = &models.Enrollment{
			ChildID:     childID,
			CourseID:    courseID,
			Preferences: p,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		return st.CreateEnrollment(ctx, e)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("child enrolled", "child_id", childID, "course_id", courseID, "enrollment_id", e.ID)
	return e, nil
}

// ChildEnrollments lists a child's enrollments. callerID is either the child
// itself or the child's parent.
func (s *Service) ChildEnrollments(ctx context.Context, callerID, childID uuid.UUID) ([]models.Enrollment, error) {
	var out []models.Enrollment
	err := s.tx.InTx(ctx, func(ctx context.Context, st storage.Store) error {
		if callerID != childID {
			if err := checkGuardian(ctx, st, callerID, childID); err != nil {
				return err
			}
		}
		var err error
		out, err = st.EnrollmentsByChild(ctx, childID)
		return err
	})
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []models.Enrollment{}
	}
	return out, nil
}

func checkGuardian(ctx context.Context, st storage.Store, parentID, childID uuid.UUID) error {
	child, err := st.ChildByID(ctx, childID)
	if err != nil {
		return err
	}
	if child.ParentID != parentID {
		return app_errors.ErrNotChildGuardian
	}
	return nil
}
