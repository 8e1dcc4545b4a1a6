package progress

import (
	"time"

	"github.com/vikramkatyani/lmsBox-sub000/internal/app_errors"
	"github.com/vikramkatyani/lmsBox-sub000/internal/models"
)

// videoCompleteFraction is the policy threshold for "watched to the end".
const videoCompleteFraction = 0.95

// completionRule turns one progress signal into a candidate mutation of the
// record. Rules never write; the service serializes writes through the
// versioned store.
type completionRule interface {
	Apply(rec *models.LearnerProgressRecord, lesson models.CatalogLesson, event models.ProgressEvent) error
}

var completionRules = map[models.LessonKind]completionRule{
	models.KindVideo:    videoRule{},
	models.KindDocument: documentRule{},
	models.KindPackage:  packageRule{},
}

// evaluate produces the candidate next state of a record for an inbound event.
// Assessment lessons have no rule here: they are driven by quiz verdicts.
func evaluate(current models.LearnerProgressRecord, lesson models.CatalogLesson, event models.ProgressEvent, now time.Time) (models.LearnerProgressRecord, error) {
	rule, ok := completionRules[lesson.Kind]
	if !ok {
		return models.LearnerProgressRecord{}, app_errors.ErrInvalidEvent
	}

	candidate := cloneRecord(current)
	touch(&candidate, event.TimeSpentSeconds, now)

	if err := rule.Apply(&candidate, lesson, event); err != nil {
		return models.LearnerProgressRecord{}, err
	}

	guard(current, &candidate)
	return candidate, nil
}

// evaluateQuizVerdict maps a graded attempt onto the assessment lesson's
// record: passed completes it, a failed attempt with attempts left keeps it in
// progress, an exhausted fail is terminal.
func evaluateQuizVerdict(current models.LearnerProgressRecord, attempt models.QuizAttempt, attemptsRemaining bool, now time.Time) models.LearnerProgressRecord {
	candidate := cloneRecord(current)
	touch(&candidate, 0, now)

	switch {
	case attempt.Passed:
		complete(&candidate, now)
	case attemptsRemaining:
		candidate.State = models.StateInProgress
		candidate.ProgressPercent = attempt.ScorePercent
	default:
		candidate.State = models.StateFailed
		candidate.ProgressPercent = attempt.ScorePercent
	}

	guard(current, &candidate)
	return candidate
}

// touch applies the bookkeeping every signal carries: the record leaves
// NotStarted, access time advances and spent time accumulates.
func touch(rec *models.LearnerProgressRecord, timeSpentSeconds int64, now time.Time) {
	if rec.State == models.StateNotStarted {
		rec.State = models.StateInProgress
		started := now
		rec.StartedAt = &started
	}
	rec.LastAccessedAt = now
	if timeSpentSeconds > 0 {
		rec.TotalTimeSpentSeconds += timeSpentSeconds
	}
}

func complete(rec *models.LearnerProgressRecord, now time.Time) {
	rec.State = models.StateCompleted
	rec.ProgressPercent = 100
	if rec.CompletedAt == nil {
		completed := now
		rec.CompletedAt = &completed
	}
}

// guard enforces the forward-only invariants against the state the candidate
// was derived from: percent never decreases and Completed is terminal.
func guard(current models.LearnerProgressRecord, candidate *models.LearnerProgressRecord) {
	if candidate.ProgressPercent < current.ProgressPercent {
		candidate.ProgressPercent = current.ProgressPercent
	}
	if candidate.ProgressPercent > 100 {
		candidate.ProgressPercent = 100
	}
	if current.State == models.StateCompleted {
		candidate.State = models.StateCompleted
		candidate.CompletedAt = current.CompletedAt
		candidate.ProgressPercent = 100
	}
}

type videoRule struct{}

func (videoRule) Apply(rec *models.LearnerProgressRecord, lesson models.CatalogLesson, event models.ProgressEvent) error {
	switch event.Type {
	case models.EventMarkComplete:
		complete(rec, rec.LastAccessedAt)
		return nil
	case models.EventPosition:
	default:
		return app_errors.ErrInvalidEvent
	}

	if event.PositionMarker < 0 {
		return app_errors.ErrInvalidEvent
	}
	if rec.Media == nil {
		rec.Media = &models.MediaProgress{}
	}
	if event.PositionMarker > rec.Media.PositionMarker {
		rec.Media.PositionMarker = event.PositionMarker
	}

	if lesson.DurationSeconds <= 0 {
		return nil
	}
	percent := 100 * event.PositionMarker / lesson.DurationSeconds
	if percent > rec.ProgressPercent {
		rec.ProgressPercent = percent
	}
	if float64(event.PositionMarker) >= videoCompleteFraction*float64(lesson.DurationSeconds) {
		complete(rec, rec.LastAccessedAt)
	}
	return nil
}

type documentRule struct{}

func (documentRule) Apply(rec *models.LearnerProgressRecord, lesson models.CatalogLesson, event models.ProgressEvent) error {
	switch event.Type {
	case models.EventMarkComplete:
		complete(rec, rec.LastAccessedAt)
		return nil
	case models.EventPosition:
	default:
		return app_errors.ErrInvalidEvent
	}

	if event.PositionMarker < 0 {
		return app_errors.ErrInvalidEvent
	}
	if rec.Media == nil {
		rec.Media = &models.MediaProgress{}
	}
	if event.PositionMarker > rec.Media.PositionMarker {
		rec.Media.PositionMarker = event.PositionMarker
	}

	if lesson.PageCount <= 0 {
		return nil
	}
	percent := 100 * event.PositionMarker / lesson.PageCount
	if percent > rec.ProgressPercent {
		rec.ProgressPercent = percent
	}
	if event.PositionMarker >= lesson.PageCount {
		complete(rec, rec.LastAccessedAt)
	}
	return nil
}

type packageRule struct{}

// packageRule mirrors the status reported by the package runtime. A failed
// status is not terminal here: the package owns its own retry semantics, so a
// later completed commit still completes the lesson.
func (packageRule) Apply(rec *models.LearnerProgressRecord, _ models.CatalogLesson, event models.ProgressEvent) error {
	if event.Type != models.EventRuntimeCommit {
		return app_errors.ErrInvalidEvent
	}

	if rec.Runtime == nil {
		rec.Runtime = &models.RuntimeProgress{Status: models.RuntimeIncomplete}
	}
	if event.RuntimeState != "" {
		rec.Runtime.State = event.RuntimeState
	}
	if event.RuntimeLocation != "" {
		rec.Runtime.Location = event.RuntimeLocation
	}
	if event.RuntimeScore != nil {
		rec.Runtime.Score = event.RuntimeScore
	}

	status := event.RuntimeStatus
	if status == "" {
		status = models.RuntimeIncomplete
	}
	switch status {
	case models.RuntimeCompleted, models.RuntimePassed:
		rec.Runtime.Status = status
		complete(rec, rec.LastAccessedAt)
	case models.RuntimeFailed:
		rec.Runtime.Status = status
		rec.State = models.StateFailed
	case models.RuntimeIncomplete:
		rec.Runtime.Status = status
		rec.State = models.StateInProgress
	default:
		return app_errors.ErrInvalidEvent
	}
	return nil
}

func cloneRecord(rec models.LearnerProgressRecord) models.LearnerProgressRecord {
	if rec.Media != nil {
		media := *rec.Media
		rec.Media = &media
	}
	if rec.Runtime != nil {
		runtime := *rec.Runtime
		rec.Runtime = &runtime
	}
	return rec
}
