package service

import (
	"testing"

	"github.com/yusunghyun/Kkondeokji-Capstone-v0-sub000/internal/model"
)

// ============================================================================
// Helper Functions
// ============================================================================

func makeQuestion(id, text string, weight int) *model.Question {
	return &model.Question{ID: id, Text: text, Weight: weight}
}

func makeOption(id, questionID, text, value string) *model.Option {
	return &model.Option{ID: id, QuestionID: questionID, Text: text, Value: value}
}

func makeResponse(questionID, optionID string) *model.UserResponse {
	return &model.UserResponse{QuestionID: questionID, OptionID: optionID}
}

// buildCatalogMaps indexes questions and options by ID for the scorer.
func buildCatalogMaps(questions []*model.Question, options []*model.Option) (map[string]*model.Question, map[string]*model.Option) {
	qm := make(map[string]*model.Question, len(questions))
	for _, q := range questions {
		qm[q.ID] = q
	}
	om := make(map[string]*model.Option, len(options))
	for _, o := range options {
		om[o.ID] = o
	}
	return qm, om
}

// ============================================================================
// CalculateMatchScore Tests
// ============================================================================

func TestCalculateMatchScore_PartialOverlap(t *testing.T) {
	t.Parallel()

	// Three questions with weights 3, 2, 1. Users agree on the first two
	// and disagree on the third: 5 of 6 weight earned.
	questions := []*model.Question{
		makeQuestion("question:1", "주말에 뭐 하세요?", 3),
		makeQuestion("question:2", "즐겨 보는 콘텐츠는?", 2),
		makeQuestion("question:3", "커피는 어디서?", 1),
	}
	options := []*model.Option{
		makeOption("option:1a", "question:1", "운동", "운동"),
		makeOption("option:2a", "question:2", "드라마", "영상콘텐츠"),
		makeOption("option:3a", "question:3", "카페", "카페"),
		makeOption("option:3b", "question:3", "집", "홈카페"),
	}
	qm, om := buildCatalogMaps(questions, options)

	user1 := []*model.UserResponse{
		makeResponse("question:1", "option:1a"),
		makeResponse("question:2", "option:2a"),
		makeResponse("question:3", "option:3a"),
	}
	user2 := []*model.UserResponse{
		makeResponse("question:1", "option:1a"),
		makeResponse("question:2", "option:2a"),
		makeResponse("question:3", "option:3b"),
	}

	result := CalculateMatchScore(user1, user2, qm, om)

	// round(5/6*100) = 83
	if result.Score != 83 {
		t.Errorf("expected score 83, got %d", result.Score)
	}
	if len(result.CommonResponses) != 2 {
		t.Errorf("expected 2 common responses, got %d", len(result.CommonResponses))
	}
	if len(result.CommonTags) != 2 {
		t.Errorf("expected 2 common tags, got %d", len(result.CommonTags))
	}
}

func TestCalculateMatchScore_FullAgreement(t *testing.T) {
	t.Parallel()

	questions := []*model.Question{
		makeQuestion("question:1", "q1", 2),
		makeQuestion("question:2", "q2", 3),
	}
	options := []*model.Option{
		makeOption("option:1a", "question:1", "a1", "tag1"),
		makeOption("option:2a", "question:2", "a2", "tag2"),
	}
	qm, om := buildCatalogMaps(questions, options)

	responses := []*model.UserResponse{
		makeResponse("question:1", "option:1a"),
		makeResponse("question:2", "option:2a"),
	}

	result := CalculateMatchScore(responses, responses, qm, om)

	if result.Score != 100 {
		t.Errorf("expected score 100, got %d", result.Score)
	}
}

func TestCalculateMatchScore_NoAgreement(t *testing.T) {
	t.Parallel()

	questions := []*model.Question{makeQuestion("question:1", "q1", 3)}
	options := []*model.Option{
		makeOption("option:1a", "question:1", "a", "ta"),
		makeOption("option:1b", "question:1", "b", "tb"),
	}
	qm, om := buildCatalogMaps(questions, options)

	user1 := []*model.UserResponse{makeResponse("question:1", "option:1a")}
	user2 := []*model.UserResponse{makeResponse("question:1", "option:1b")}

	result := CalculateMatchScore(user1, user2, qm, om)

	if result.Score != 0 {
		t.Errorf("expected score 0, got %d", result.Score)
	}
	if len(result.CommonTags) != 0 {
		t.Errorf("expected no tags, got %v", result.CommonTags)
	}
	if len(result.CommonResponses) != 0 {
		t.Errorf("expected no common responses, got %d", len(result.CommonResponses))
	}
}

func TestCalculateMatchScore_EmptyResponses(t *testing.T) {
	t.Parallel()

	result := CalculateMatchScore(nil, nil, map[string]*model.Question{}, map[string]*model.Option{})

	if result.Score != 0 {
		t.Errorf("expected score 0 for empty input, got %d", result.Score)
	}
}

func TestCalculateMatchScore_UnresolvableQuestionSkipped(t *testing.T) {
	t.Parallel()

	// question:ghost is missing from the catalog: it must not count in the
	// denominator, so the remaining full agreement still scores 100.
	questions := []*model.Question{makeQuestion("question:1", "q1", 2)}
	options := []*model.Option{makeOption("option:1a", "question:1", "a", "ta")}
	qm, om := buildCatalogMaps(questions, options)

	user1 := []*model.UserResponse{
		makeResponse("question:ghost", "option:ghost"),
		makeResponse("question:1", "option:1a"),
	}
	user2 := []*model.UserResponse{
		makeResponse("question:1", "option:1a"),
	}

	result := CalculateMatchScore(user1, user2, qm, om)

	if result.Score != 100 {
		t.Errorf("expected score 100 with ghost question skipped, got %d", result.Score)
	}
}

func TestCalculateMatchScore_UnansweredByUser2CountsInDenominator(t *testing.T) {
	t.Parallel()

	// User1 answered two questions, user2 only one. The denominator is
	// user1's full resolvable weight.
	questions := []*model.Question{
		makeQuestion("question:1", "q1", 2),
		makeQuestion("question:2", "q2", 2),
	}
	options := []*model.Option{
		makeOption("option:1a", "question:1", "a", "ta"),
		makeOption("option:2a", "question:2", "b", "tb"),
	}
	qm, om := buildCatalogMaps(questions, options)

	user1 := []*model.UserResponse{
		makeResponse("question:1", "option:1a"),
		makeResponse("question:2", "option:2a"),
	}
	user2 := []*model.UserResponse{
		makeResponse("question:1", "option:1a"),
	}

	result := CalculateMatchScore(user1, user2, qm, om)

	if result.Score != 50 {
		t.Errorf("expected score 50, got %d", result.Score)
	}
}

func TestCalculateMatchScore_WeightOneExcludedFromTags(t *testing.T) {
	t.Parallel()

	questions := []*model.Question{
		makeQuestion("question:1", "minor", 1),
		makeQuestion("question:2", "major", 2),
	}
	options := []*model.Option{
		makeOption("option:1a", "question:1", "minor answer", "minor-tag"),
		makeOption("option:2a", "question:2", "major answer", "major-tag"),
	}
	qm, om := buildCatalogMaps(questions, options)

	responses := []*model.UserResponse{
		makeResponse("question:1", "option:1a"),
		makeResponse("question:2", "option:2a"),
	}

	result := CalculateMatchScore(responses, responses, qm, om)

	if len(result.CommonTags) != 1 || result.CommonTags[0] != "major-tag" {
		t.Errorf("expected only major-tag, got %v", result.CommonTags)
	}
	// The weight-1 match still records a common response.
	if len(result.CommonResponses) != 2 {
		t.Errorf("expected 2 common responses, got %d", len(result.CommonResponses))
	}
}

func TestCalculateMatchScore_TagDeduplication(t *testing.T) {
	t.Parallel()

	// Two different questions whose matched options share a tag value.
	questions := []*model.Question{
		makeQuestion("question:1", "q1", 2),
		makeQuestion("question:2", "q2", 3),
	}
	options := []*model.Option{
		makeOption("option:1a", "question:1", "a", "운동"),
		makeOption("option:2a", "question:2", "b", "운동"),
	}
	qm, om := buildCatalogMaps(questions, options)

	responses := []*model.UserResponse{
		makeResponse("question:1", "option:1a"),
		makeResponse("question:2", "option:2a"),
	}

	result := CalculateMatchScore(responses, responses, qm, om)

	if len(result.CommonTags) != 1 {
		t.Errorf("expected deduplicated single tag, got %v", result.CommonTags)
	}
}

func TestCalculateMatchScore_TagInsertionOrderPreserved(t *testing.T) {
	t.Parallel()

	questions := []*model.Question{
		makeQuestion("question:1", "q1", 3),
		makeQuestion("question:2", "q2", 2),
		makeQuestion("question:3", "q3", 2),
	}
	options := []*model.Option{
		makeOption("option:1a", "question:1", "a", "첫째"),
		makeOption("option:2a", "question:2", "b", "둘째"),
		makeOption("option:3a", "question:3", "c", "첫째"),
	}
	qm, om := buildCatalogMaps(questions, options)

	responses := []*model.UserResponse{
		makeResponse("question:1", "option:1a"),
		makeResponse("question:2", "option:2a"),
		makeResponse("question:3", "option:3a"),
	}

	result := CalculateMatchScore(responses, responses, qm, om)

	want := []string{"첫째", "둘째"}
	if len(result.CommonTags) != len(want) {
		t.Fatalf("expected %d tags, got %v", len(want), result.CommonTags)
	}
	for i, tag := range want {
		if result.CommonTags[i] != tag {
			t.Errorf("tag %d: expected %q, got %q", i, tag, result.CommonTags[i])
		}
	}
}

func TestCalculateMatchScore_Deterministic(t *testing.T) {
	t.Parallel()

	questions := []*model.Question{
		makeQuestion("question:1", "q1", 2),
		makeQuestion("question:2", "q2", 1),
	}
	options := []*model.Option{
		makeOption("option:1a", "question:1", "a", "ta"),
		makeOption("option:2a", "question:2", "b", "tb"),
		makeOption("option:2b", "question:2", "c", "tc"),
	}
	qm, om := buildCatalogMaps(questions, options)

	user1 := []*model.UserResponse{
		makeResponse("question:1", "option:1a"),
		makeResponse("question:2", "option:2a"),
	}
	user2 := []*model.UserResponse{
		makeResponse("question:1", "option:1a"),
		makeResponse("question:2", "option:2b"),
	}

	first := CalculateMatchScore(user1, user2, qm, om)
	for i := 0; i < 10; i++ {
		again := CalculateMatchScore(user1, user2, qm, om)
		if again.Score != first.Score {
			t.Fatalf("run %d: score %d differs from %d", i, again.Score, first.Score)
		}
		if len(again.CommonTags) != len(first.CommonTags) {
			t.Fatalf("run %d: tag count changed", i)
		}
	}
}

func TestCalculateMatchScore_ScoreBounds(t *testing.T) {
	t.Parallel()

	questions := []*model.Question{
		makeQuestion("question:1", "q1", 3),
		makeQuestion("question:2", "q2", 3),
		makeQuestion("question:3", "q3", 1),
	}
	options := []*model.Option{
		makeOption("option:1a", "question:1", "a", "ta"),
		makeOption("option:2a", "question:2", "b", "tb"),
		makeOption("option:2b", "question:2", "b2", "tb2"),
		makeOption("option:3a", "question:3", "c", "tc"),
	}
	qm, om := buildCatalogMaps(questions, options)

	user1 := []*model.UserResponse{
		makeResponse("question:1", "option:1a"),
		makeResponse("question:2", "option:2a"),
		makeResponse("question:3", "option:3a"),
	}
	user2 := []*model.UserResponse{
		makeResponse("question:1", "option:1a"),
		makeResponse("question:2", "option:2b"),
		makeResponse("question:3", "option:3a"),
	}

	result := CalculateMatchScore(user1, user2, qm, om)

	if result.Score < 0 || result.Score > 100 {
		t.Errorf("score out of bounds: %d", result.Score)
	}
	// round(4/7*100) = 57
	if result.Score != 57 {
		t.Errorf("expected score 57, got %d", result.Score)
	}
}
