package quiz

import (
	"testing"

	"github.com/vikramkatyani/lmsBox-sub000/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func singleChoice(points int, correct uuid.UUID, wrong ...uuid.UUID) models.QuizQuestion {
	q := models.QuizQuestion{
		ID:     uuid.New(),
		Type:   models.QuestionSingleChoice,
		Points: points,
		Options: []models.QuizOption{
			{ID: correct, IsCorrect: true},
		},
	}
	for _, id := range wrong {
		q.Options = append(q.Options, models.QuizOption{ID: id})
	}
	return q
}

func TestScoreExactSetGrading(t *testing.T) {
	correctA, wrongA := uuid.New(), uuid.New()
	correctB1, correctB2, wrongB := uuid.New(), uuid.New(), uuid.New()

	multi := models.QuizQuestion{
		ID:     uuid.New(),
		Type:   models.QuestionMultiChoice,
		Points: 2,
		Options: []models.QuizOption{
			{ID: correctB1, IsCorrect: true},
			{ID: correctB2, IsCorrect: true},
			{ID: wrongB},
		},
	}
	single := singleChoice(2, correctA, wrongA)
	def := models.QuizDefinition{
		PassingScorePercent: 70,
		Questions:           []models.QuizQuestion{single, multi},
	}

	// Both exact: full marks.
	score, passed := Score(def, []models.AttemptAnswer{
		{QuestionID: single.ID, OptionIDs: []uuid.UUID{correctA}},
		{QuestionID: multi.ID, OptionIDs: []uuid.UUID{correctB2, correctB1}},
	})
	assert.Equal(t, 100, score)
	assert.True(t, passed)

	// A superset of the correct options earns nothing.
	score, passed = Score(def, []models.AttemptAnswer{
		{QuestionID: single.ID, OptionIDs: []uuid.UUID{correctA}},
		{QuestionID: multi.ID, OptionIDs: []uuid.UUID{correctB1, correctB2, wrongB}},
	})
	assert.Equal(t, 50, score)
	assert.False(t, passed)

	// A partial selection earns nothing either.
	score, _ = Score(def, []models.AttemptAnswer{
		{QuestionID: multi.ID, OptionIDs: []uuid.UUID{correctB1}},
	})
	assert.Equal(t, 0, score)
}

func TestScoreSingleChoiceRequiresExactlyOneOption(t *testing.T) {
	correct, wrong := uuid.New(), uuid.New()
	q := singleChoice(1, correct, wrong)
	def := models.QuizDefinition{PassingScorePercent: 100, Questions: []models.QuizQuestion{q}}

	score, _ := Score(def, []models.AttemptAnswer{{QuestionID: q.ID, OptionIDs: []uuid.UUID{correct, wrong}}})
	assert.Equal(t, 0, score)

	score, _ = Score(def, []models.AttemptAnswer{{QuestionID: q.ID, OptionIDs: nil}})
	assert.Equal(t, 0, score)

	score, passed := Score(def, []models.AttemptAnswer{{QuestionID: q.ID, OptionIDs: []uuid.UUID{correct}}})
	assert.Equal(t, 100, score)
	assert.True(t, passed)
}

func TestScorePointsWeightingAndRounding(t *testing.T) {
	a := singleChoice(1, uuid.New())
	b := singleChoice(1, uuid.New())
	c := singleChoice(1, uuid.New())
	def := models.QuizDefinition{PassingScorePercent: 67, Questions: []models.QuizQuestion{a, b, c}}

	// 2 of 3 points: 66.67 rounds to 67 and meets the threshold exactly.
	score, passed := Score(def, []models.AttemptAnswer{
		{QuestionID: a.ID, OptionIDs: []uuid.UUID{a.Options[0].ID}},
		{QuestionID: b.ID, OptionIDs: []uuid.UUID{b.Options[0].ID}},
	})
	assert.Equal(t, 67, score)
	assert.True(t, passed)

	// 1 of 3: 33.33 rounds down.
	score, passed = Score(def, []models.AttemptAnswer{
		{QuestionID: a.ID, OptionIDs: []uuid.UUID{a.Options[0].ID}},
	})
	assert.Equal(t, 33, score)
	assert.False(t, passed)
}

func TestScoreDeterministic(t *testing.T) {
	a := singleChoice(3, uuid.New(), uuid.New())
	b := singleChoice(5, uuid.New(), uuid.New())
	def := models.QuizDefinition{PassingScorePercent: 50, Questions: []models.QuizQuestion{a, b}}
	answers := []models.AttemptAnswer{{QuestionID: b.ID, OptionIDs: []uuid.UUID{b.Options[0].ID}}}

	first, firstPassed := Score(def, answers)
	for i := 0; i < 10; i++ {
		score, passed := Score(def, answers)
		assert.Equal(t, first, score)
		assert.Equal(t, firstPassed, passed)
	}
	assert.Equal(t, 63, first)
}

func TestScoreEmptyQuiz(t *testing.T) {
	def := models.QuizDefinition{PassingScorePercent: 0}
	score, passed := Score(def, nil)
	assert.Equal(t, 0, score)
	assert.True(t, passed)
}
