package quiz

import (
	"math"

	"github.com/vikramkatyani/lmsBox-sub000/internal/models"

	"github.com/google/uuid"
)

// Score grades a submitted answer set against a quiz definition. A question
// contributes its points only when the submitted option set exactly equals the
// set of correct options; partial credit is not supported. Grading is fully
// deterministic: identical inputs always produce identical results.
func Score(def models.QuizDefinition, answers []models.AttemptAnswer) (scorePercent int, passed bool) {
	answered := make(map[uuid.UUID][]uuid.UUID, len(answers))
	for _, a := range answers {
		answered[a.QuestionID] = a.OptionIDs
	}

	earned, total := 0, 0
	for _, question := range def.Questions {
		total += question.Points
		if isExactMatch(question, answered[question.ID]) {
			earned += question.Points
		}
	}

	if total > 0 {
		scorePercent = int(math.Round(100 * float64(earned) / float64(total)))
	}
	passed = scorePercent >= def.PassingScorePercent
	return scorePercent, passed
}

func isExactMatch(question models.QuizQuestion, selected []uuid.UUID) bool {
	correct := make(map[uuid.UUID]struct{})
	for _, option := range question.Options {
		if option.IsCorrect {
			correct[option.ID] = struct{}{}
		}
	}

	if question.Type == models.QuestionSingleChoice && len(selected) != 1 {
		return false
	}
	if len(selected) != len(correct) {
		return false
	}

	seen := make(map[uuid.UUID]struct{}, len(selected))
	for _, id := range selected {
		if _, dup := seen[id]; dup {
			return false
		}
		seen[id] = struct{}{}
		if _, ok := correct[id]; !ok {
			return false
		}
	}
	return true
}
