package content

import (
	"fmt"

	"KidLearn/internal/models"

	"github.com/google/uuid"
)

type moduleChange struct {
	index int
	input models.ModuleInput
	// existing is nil when the module is created.
	existing *models.Module
	lessons  []lessonChange
}

type lessonChange struct {
	index    int
	input    models.LessonInput
	existing *models.Lesson
}

// treeDiff is the set of writes that turns the persisted tree into the
// submitted one.
type treeDiff struct {
	modules []moduleChange
	// deleteModules are modules absent from the submission. Their lessons go
	// with them unless the submission moved a lesson elsewhere.
	deleteModules []uuid.UUID
	// deleteLessons are lessons absent from the submission, including those
	// inside deleteModules.
	deleteLessons []models.Lesson
	skipped       []models.SkippedNode
}

// diffTree matches submitted ids against the persisted tree using hash sets.
// A submitted id that the course does not own, or that was already matched
// earlier in the submission, is skipped together with everything below it.
// Persisted lessons listed under a skipped module keep their stored state,
// and so does the module that holds them.
// Lesson ids resolve across the whole course, so a lesson listed under a
// different module is moved rather than deleted and recreated.
func diffTree(current *models.CourseTree, in models.CourseTreeInput) treeDiff {
	var d treeDiff

	modules := make(map[uuid.UUID]*models.Module)
	lessons := make(map[uuid.UUID]*models.Lesson)
	if current != nil {
		for i := range current.Modules {
			mt := &current.Modules[i]
			modules[mt.Module.ID] = &mt.Module
			for j := range mt.Lessons {
				lessons[mt.Lessons[j].ID] = &mt.Lessons[j]
			}
		}
	}
	keptModules := make(map[uuid.UUID]struct{}, len(modules))
	keptLessons := make(map[uuid.UUID]struct{}, len(lessons))
	untouched := make(map[uuid.UUID]struct{})

	for i, mi := range in.Modules {
		path := fmt.Sprintf("modules[%d]", i)
		change := moduleChange{index: i, input: mi}

		if mi.ID != nil {
			existing, ok := modules[*mi.ID]
			_, dup := keptModules[*mi.ID]
			if !ok || dup {
				reason := models.SkipNotFound
				if dup {
					reason = models.SkipDuplicate
				}
				d.skip(models.NodeModule, *mi.ID, path, reason)
				for _, id := range d.skipLessons(path, mi.Lessons) {
					if _, ok := lessons[id]; ok {
						untouched[id] = struct{}{}
					}
				}
				continue
			}
			keptModules[*mi.ID] = struct{}{}
			change.existing = existing
		}

		for j, li := range mi.Lessons {
			lpath := fmt.Sprintf("%s.lessons[%d]", path, j)
			lc := lessonChange{index: j, input: li}
			if li.ID != nil {
				existing, ok := lessons[*li.ID]
				_, dup := keptLessons[*li.ID]
				if !ok || dup {
					reason := models.SkipNotFound
					if dup {
						reason = models.SkipDuplicate
					}
					d.skip(models.NodeLesson, *li.ID, lpath, reason)
					continue
				}
				keptLessons[*li.ID] = struct{}{}
				lc.existing = existing
			}
			change.lessons = append(change.lessons, lc)
		}
		d.modules = append(d.modules, change)
	}

	untouchedModules := make(map[uuid.UUID]struct{})
	for id := range untouched {
		if _, moved := keptLessons[id]; moved {
			delete(untouched, id)
			continue
		}
		untouchedModules[lessons[id].ModuleID] = struct{}{}
	}

	if current != nil {
		for _, mt := range current.Modules {
			_, kept := keptModules[mt.Module.ID]
			_, held := untouchedModules[mt.Module.ID]
			if !kept && !held {
				d.deleteModules = append(d.deleteModules, mt.Module.ID)
			}
			for _, l := range mt.Lessons {
				_, kept := keptLessons[l.ID]
				_, held := untouched[l.ID]
				if !kept && !held {
					d.deleteLessons = append(d.deleteLessons, l)
				}
			}
		}
	}
	return d
}

func (d *treeDiff) skip(kind models.NodeKind, id uuid.UUID, path string, reason models.SkipReason) {
	d.skipped = append(d.skipped, models.SkippedNode{Kind: kind, ID: id, Path: path, Reason: reason})
}

// skipLessons reports the lessons of a skipped module and returns the ids
// they were submitted with.
func (d *treeDiff) skipLessons(path string, lessons []models.LessonInput) []uuid.UUID {
	var ids []uuid.UUID
	for j, li := range lessons {
		var id uuid.UUID
		if li.ID != nil {
			id = *li.ID
			ids = append(ids, id)
		}
		d.skip(models.NodeLesson, id, fmt.Sprintf("%s.lessons[%d]", path, j), models.SkipParent)
	}
	return ids
}
