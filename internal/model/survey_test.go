package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidQuestionWeight(t *testing.T) {
	t.Parallel()

	assert.False(t, ValidQuestionWeight(0))
	assert.True(t, ValidQuestionWeight(1))
	assert.True(t, ValidQuestionWeight(2))
	assert.True(t, ValidQuestionWeight(3))
	assert.False(t, ValidQuestionWeight(4))
}

func TestGeneratedSurvey_Valid(t *testing.T) {
	t.Parallel()

	good := &GeneratedSurvey{
		Title: "설문",
		Questions: []GeneratedQuestion{
			{
				Text:   "질문",
				Weight: 2,
				Options: []GeneratedOption{
					{Text: "보기1", Value: "v1"},
					{Text: "보기2", Value: "v2"},
				},
			},
		},
	}
	assert.True(t, good.Valid())
}

func TestGeneratedSurvey_Invalid(t *testing.T) {
	t.Parallel()

	var nilSurvey *GeneratedSurvey
	assert.False(t, nilSurvey.Valid())

	assert.False(t, (&GeneratedSurvey{Title: "빈 설문"}).Valid())

	missingText := &GeneratedSurvey{
		Questions: []GeneratedQuestion{
			{Options: []GeneratedOption{{Text: "a"}, {Text: "b"}}},
		},
	}
	assert.False(t, missingText.Valid())

	oneOption := &GeneratedSurvey{
		Questions: []GeneratedQuestion{
			{Text: "질문", Options: []GeneratedOption{{Text: "a"}}},
		},
	}
	assert.False(t, oneOption.Valid())
}
