package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/yusunghyun/Kkondeokji-Capstone-v0-sub000/internal/database"
	"github.com/yusunghyun/Kkondeokji-Capstone-v0-sub000/internal/model"
)

// MatchRepository defines the match data access interface
type MatchRepository interface {
	Create(ctx context.Context, match *model.Match) error
	GetByID(ctx context.Context, id string) (*model.Match, error)
	GetByUserIDs(ctx context.Context, userAID, userBID string) (*model.Match, error)
	GetByUserID(ctx context.Context, userID string) ([]*model.Match, error)
	UpdateAIInsights(ctx context.Context, matchID, insights string) error
	Delete(ctx context.Context, id string) error
}

// UserRepository defines the user data access interface
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
}

// InsightGenerator produces insight text for a scored match.
type InsightGenerator interface {
	GenerateMatchInsights(ctx context.Context, in InsightInput) string
}

// MatchService orchestrates match calculation: survey resolution, scoring,
// insight generation and persistence.
type MatchService struct {
	matchRepo  MatchRepository
	surveyRepo SurveyRepository
	userRepo   UserRepository
	insights   InsightGenerator
	logger     *slog.Logger
}

// MatchServiceConfig holds configuration for the match service
type MatchServiceConfig struct {
	MatchRepo  MatchRepository
	SurveyRepo SurveyRepository
	UserRepo   UserRepository
	Insights   InsightGenerator
	Logger     *slog.Logger
}

// NewMatchService creates a new match service
func NewMatchService(cfg MatchServiceConfig) *MatchService {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &MatchService{
		matchRepo:  cfg.MatchRepo,
		surveyRepo: cfg.SurveyRepo,
		userRepo:   cfg.UserRepo,
		insights:   cfg.Insights,
		logger:     logger,
	}
}

// CalculateMatch computes (or returns) the match between two users. The
// operation is idempotent: an existing match for the pair is returned as
// stored, and a concurrent create racing on the pair's unique index
// resolves to the winner's row.
//
// Precondition failures (ErrSurveyNotCompleted, ErrTemplateMismatch,
// ErrSelfMatch) pass through so callers can surface them; any other
// failure is logged and returned as ErrMatchCalculation.
func (s *MatchService) CalculateMatch(ctx context.Context, userAID, userBID string) (*model.MatchResult, error) {
	if userAID == userBID {
		return nil, ErrSelfMatch
	}
	user1ID, user2ID := model.CanonicalPair(userAID, userBID)

	existing, err := s.matchRepo.GetByUserIDs(ctx, user1ID, user2ID)
	if err != nil {
		s.logger.Error("match lookup failed", "error", err, "user1", user1ID, "user2", user2ID)
		return nil, ErrMatchCalculation
	}
	if existing != nil {
		return matchResultFromStored(existing), nil
	}

	result, err := s.computeMatch(ctx, user1ID, user2ID)
	if err != nil {
		return nil, err
	}

	match := &model.Match{
		User1ID:    user1ID,
		User2ID:    user2ID,
		MatchScore: result.Score,
		CommonInterests: &model.CommonInterests{
			Tags:      result.CommonTags,
			Responses: result.CommonResponses,
		},
		AIInsights: &result.AIInsights,
	}

	if err := s.matchRepo.Create(ctx, match); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			// Lost the create race; the stored row is the result.
			stored, ferr := s.matchRepo.GetByUserIDs(ctx, user1ID, user2ID)
			if ferr == nil && stored != nil {
				return matchResultFromStored(stored), nil
			}
		}
		s.logger.Error("match persistence failed", "error", err, "user1", user1ID, "user2", user2ID)
		return nil, ErrMatchCalculation
	}

	return result, nil
}

// RecalculateMatch recomputes a match from the users' current responses
// and reports what changed. The stored row is deleted and recreated; only
// insight updates go through partial mutation.
func (s *MatchService) RecalculateMatch(ctx context.Context, matchID string) (*model.MatchDiff, error) {
	old, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		s.logger.Error("match lookup failed", "error", err, "match_id", matchID)
		return nil, ErrMatchCalculation
	}
	if old == nil {
		return nil, ErrMatchNotFound
	}

	oldScore := old.MatchScore
	var oldTags []string
	oldResponseCount := 0
	if old.CommonInterests != nil {
		oldTags = old.CommonInterests.Tags
		oldResponseCount = len(old.CommonInterests.Responses)
	}
	oldInsights := ""
	if old.AIInsights != nil {
		oldInsights = *old.AIInsights
	}

	if err := s.matchRepo.Delete(ctx, matchID); err != nil {
		s.logger.Error("match delete failed", "error", err, "match_id", matchID)
		return nil, ErrMatchCalculation
	}

	result, err := s.computeMatch(ctx, old.User1ID, old.User2ID)
	if err != nil {
		return nil, err
	}

	match := &model.Match{
		User1ID:    old.User1ID,
		User2ID:    old.User2ID,
		MatchScore: result.Score,
		CommonInterests: &model.CommonInterests{
			Tags:      result.CommonTags,
			Responses: result.CommonResponses,
		},
		AIInsights: &result.AIInsights,
	}
	if err := s.matchRepo.Create(ctx, match); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			stored, ferr := s.matchRepo.GetByUserIDs(ctx, old.User1ID, old.User2ID)
			if ferr != nil || stored == nil {
				s.logger.Error("match re-fetch after duplicate failed", "error", ferr, "match_id", matchID)
				return nil, ErrMatchCalculation
			}
			result = matchResultFromStored(stored)
		} else {
			s.logger.Error("match persistence failed", "error", err, "match_id", matchID)
			return nil, ErrMatchCalculation
		}
	}

	tagsAdded, tagsRemoved := diffTags(oldTags, result.CommonTags)
	scoreDifference := result.Score - oldScore
	newCommonResponses := len(result.CommonResponses) - oldResponseCount

	diff := &model.MatchDiff{
		ScoreChanged:       scoreDifference != 0,
		ScoreDifference:    scoreDifference,
		TagsAdded:          tagsAdded,
		TagsRemoved:        tagsRemoved,
		NewCommonResponses: newCommonResponses,
		AIInsightsUpdated:  result.AIInsights != oldInsights,
	}
	diff.SignificantChange = abs(scoreDifference) >= model.SignificantScoreDelta ||
		len(tagsAdded) > 0 || len(tagsRemoved) > 0 || newCommonResponses != 0

	return diff, nil
}

// RegenerateInsights re-runs insight generation against the stored match
// data and persists the result. The score and common interests are left
// untouched.
func (s *MatchService) RegenerateInsights(ctx context.Context, matchID string) (string, error) {
	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		s.logger.Error("match lookup failed", "error", err, "match_id", matchID)
		return "", ErrMatchCalculation
	}
	if match == nil {
		return "", ErrMatchNotFound
	}

	in := InsightInput{
		Score:     match.MatchScore,
		User1Name: s.userName(ctx, match.User1ID),
		User2Name: s.userName(ctx, match.User2ID),
	}
	if match.CommonInterests != nil {
		in.CommonTags = match.CommonInterests.Tags
		in.CommonResponses = match.CommonInterests.Responses
	}

	insights := s.insights.GenerateMatchInsights(ctx, in)
	if err := s.matchRepo.UpdateAIInsights(ctx, matchID, insights); err != nil {
		s.logger.Error("insight update failed", "error", err, "match_id", matchID)
		return "", ErrMatchCalculation
	}

	return insights, nil
}

// GetMatch retrieves a match by ID
func (s *MatchService) GetMatch(ctx context.Context, matchID string) (*model.Match, error) {
	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if match == nil {
		return nil, ErrMatchNotFound
	}
	return match, nil
}

// GetUserMatches retrieves a user's matches with the counterpart's display
// profile resolved at read time.
func (s *MatchService) GetUserMatches(ctx context.Context, userID string) ([]*model.MatchWithPartner, error) {
	matches, err := s.matchRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]*model.MatchWithPartner, 0, len(matches))
	for _, m := range matches {
		partnerID := m.User1ID
		if partnerID == userID {
			partnerID = m.User2ID
		}

		// Partner lookup is best-effort; a deleted profile still leaves
		// the match visible.
		partner, err := s.userRepo.GetByID(ctx, partnerID)
		if err != nil {
			s.logger.Warn("partner lookup failed", "error", err, "user_id", partnerID)
			partner = nil
		}

		out = append(out, &model.MatchWithPartner{
			Match:   *m,
			Partner: partner,
		})
	}
	return out, nil
}

// computeMatch resolves both users' surveys, scores them and generates
// insights. user1ID must already be the canonical first of the pair.
func (s *MatchService) computeMatch(ctx context.Context, user1ID, user2ID string) (*model.MatchResult, error) {
	survey1, survey2, err := s.fetchCompletedSurveys(ctx, user1ID, user2ID)
	if err != nil {
		return nil, err
	}
	if survey1 == nil || survey2 == nil {
		return nil, ErrSurveyNotCompleted
	}
	if survey1.SurveyTemplateID != survey2.SurveyTemplateID {
		return nil, ErrTemplateMismatch
	}

	responses1, err := s.surveyRepo.GetResponsesBySurveyID(ctx, survey1.ID)
	if err != nil {
		s.logger.Error("response fetch failed", "error", err, "user_survey", survey1.ID)
		return nil, ErrMatchCalculation
	}
	responses2, err := s.surveyRepo.GetResponsesBySurveyID(ctx, survey2.ID)
	if err != nil {
		s.logger.Error("response fetch failed", "error", err, "user_survey", survey2.ID)
		return nil, ErrMatchCalculation
	}

	questions, options, err := s.buildCatalog(ctx, survey1.SurveyTemplateID)
	if err != nil {
		s.logger.Error("catalog fetch failed", "error", err, "template", survey1.SurveyTemplateID)
		return nil, ErrMatchCalculation
	}

	score := CalculateMatchScore(responses1, responses2, questions, options)

	insights := s.insights.GenerateMatchInsights(ctx, InsightInput{
		Score:           score.Score,
		CommonTags:      score.CommonTags,
		CommonResponses: score.CommonResponses,
		User1Name:       s.userName(ctx, user1ID),
		User2Name:       s.userName(ctx, user2ID),
	})

	return &model.MatchResult{
		Score:           score.Score,
		CommonTags:      score.CommonTags,
		CommonResponses: score.CommonResponses,
		AIInsights:      insights,
	}, nil
}

// fetchCompletedSurveys loads both users' latest completed surveys. The
// two reads are independent so they run concurrently.
func (s *MatchService) fetchCompletedSurveys(ctx context.Context, user1ID, user2ID string) (*model.UserSurvey, *model.UserSurvey, error) {
	var (
		wg               sync.WaitGroup
		survey1, survey2 *model.UserSurvey
		err1, err2       error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		survey1, err1 = s.surveyRepo.GetLatestCompletedSurvey(ctx, user1ID)
	}()
	go func() {
		defer wg.Done()
		survey2, err2 = s.surveyRepo.GetLatestCompletedSurvey(ctx, user2ID)
	}()
	wg.Wait()

	if err1 != nil {
		s.logger.Error("survey fetch failed", "error", err1, "user_id", user1ID)
		return nil, nil, ErrMatchCalculation
	}
	if err2 != nil {
		s.logger.Error("survey fetch failed", "error", err2, "user_id", user2ID)
		return nil, nil, ErrMatchCalculation
	}
	return survey1, survey2, nil
}

// buildCatalog loads a template's questions and options keyed by ID.
func (s *MatchService) buildCatalog(ctx context.Context, templateID string) (map[string]*model.Question, map[string]*model.Option, error) {
	questionList, err := s.surveyRepo.GetQuestionsByTemplateID(ctx, templateID)
	if err != nil {
		return nil, nil, err
	}

	questions := make(map[string]*model.Question, len(questionList))
	options := make(map[string]*model.Option)
	for _, q := range questionList {
		questions[q.ID] = q

		optionList, err := s.surveyRepo.GetOptionsByQuestionID(ctx, q.ID)
		if err != nil {
			return nil, nil, err
		}
		for _, o := range optionList {
			options[o.ID] = o
		}
	}
	return questions, options, nil
}

// userName resolves a display name, best-effort.
func (s *MatchService) userName(ctx context.Context, userID string) string {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil || user == nil {
		return ""
	}
	return user.Name
}

func matchResultFromStored(match *model.Match) *model.MatchResult {
	result := &model.MatchResult{
		Score:           match.MatchScore,
		CommonTags:      []string{},
		CommonResponses: []model.CommonResponse{},
	}
	if match.CommonInterests != nil {
		if match.CommonInterests.Tags != nil {
			result.CommonTags = match.CommonInterests.Tags
		}
		if match.CommonInterests.Responses != nil {
			result.CommonResponses = match.CommonInterests.Responses
		}
	}
	if match.AIInsights != nil {
		result.AIInsights = *match.AIInsights
	}
	return result
}

func diffTags(oldTags, newTags []string) (added, removed []string) {
	oldSet := make(map[string]bool, len(oldTags))
	for _, t := range oldTags {
		oldSet[t] = true
	}
	newSet := make(map[string]bool, len(newTags))
	for _, t := range newTags {
		newSet[t] = true
	}

	added = make([]string, 0)
	removed = make([]string, 0)
	for _, t := range newTags {
		if !oldSet[t] {
			added = append(added, t)
		}
	}
	for _, t := range oldTags {
		if !newSet[t] {
			removed = append(removed, t)
		}
	}
	return added, removed
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
