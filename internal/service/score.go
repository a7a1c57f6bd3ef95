package service

import (
	"math"

	"github.com/yusunghyun/Kkondeokji-Capstone-v0-sub000/internal/model"
)

// ScoreResult is the output of the pure scoring pass, before insights.
type ScoreResult struct {
	Score           int
	CommonTags      []string
	CommonResponses []model.CommonResponse
}

// CalculateMatchScore computes the weighted answer overlap between two
// users' response sets against a shared question/option catalog.
//
// The denominator is built from user1's responses only: callers pass the
// canonical first user of the pair, so the same pair always scores against
// the same denominator. Responses whose question is missing from the
// catalog are skipped entirely, contributing to neither side of the ratio.
//
// On an identical option choice the question's weight is earned; the
// option's value joins the common tags only when the question weight meets
// the threshold, while the question/answer text pair is always recorded.
// Tags are deduplicated preserving first occurrence; common responses
// follow user1's response order.
//
// Never errors. A degenerate catalog yields a score of 0.
func CalculateMatchScore(
	user1Responses []*model.UserResponse,
	user2Responses []*model.UserResponse,
	questions map[string]*model.Question,
	options map[string]*model.Option,
) *ScoreResult {
	user2ByQuestion := make(map[string]*model.UserResponse, len(user2Responses))
	for _, r := range user2Responses {
		if r == nil {
			continue
		}
		user2ByQuestion[r.QuestionID] = r
	}

	totalWeight := 0
	matchWeight := 0
	tags := make([]string, 0)
	seenTags := make(map[string]bool)
	commonResponses := make([]model.CommonResponse, 0)

	for _, r := range user1Responses {
		if r == nil {
			continue
		}

		question := questions[r.QuestionID]
		if question == nil {
			continue
		}

		totalWeight += question.Weight

		other := user2ByQuestion[r.QuestionID]
		if other == nil || other.OptionID != r.OptionID {
			continue
		}

		matchWeight += question.Weight

		option := options[r.OptionID]
		if option == nil {
			continue
		}

		if question.Weight >= model.TagWeightThreshold && option.Value != "" && !seenTags[option.Value] {
			seenTags[option.Value] = true
			tags = append(tags, option.Value)
		}

		commonResponses = append(commonResponses, model.CommonResponse{
			Question: question.Text,
			Answer:   option.Text,
		})
	}

	score := 0
	if totalWeight > 0 {
		score = int(math.Round(float64(matchWeight) / float64(totalWeight) * 100))
	}

	return &ScoreResult{
		Score:           score,
		CommonTags:      tags,
		CommonResponses: commonResponses,
	}
}
