package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/yusunghyun/Kkondeokji-Capstone-v0-sub000/internal/database"
	"github.com/yusunghyun/Kkondeokji-Capstone-v0-sub000/internal/model"
)

// MatchRepository handles match data access.
//
// Rows are keyed by the canonical user pair (lexicographically smaller id
// first) with a unique index on (user1, user2). Create and GetByUserIDs
// both canonicalize, so either argument order resolves to the same row.
type MatchRepository struct {
	db database.Database
}

// NewMatchRepository creates a new match repository
func NewMatchRepository(db database.Database) *MatchRepository {
	return &MatchRepository{db: db}
}

// Create inserts a match, canonicalizing the user pair first. A concurrent
// insert of the same pair surfaces as database.ErrDuplicate; callers should
// re-fetch and treat the stored row as the result.
func (r *MatchRepository) Create(ctx context.Context, match *model.Match) error {
	u1, u2 := model.CanonicalPair(match.User1ID, match.User2ID)
	match.User1ID = u1
	match.User2ID = u2

	query := `
		CREATE match CONTENT {
			user1: type::record($user1_id),
			user2: type::record($user2_id),
			match_score: $match_score,
			common_interests: $common_interests,
			ai_insights: IF $ai_insights IS NOT NULL THEN $ai_insights ELSE NONE END,
			created_on: time::now()
		}
	`

	vars := map[string]interface{}{
		"user1_id":         u1,
		"user2_id":         u2,
		"match_score":      match.MatchScore,
		"common_interests": commonInterestsToVars(match.CommonInterests),
		"ai_insights":      ptrToNone(match.AIInsights),
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		if isUniqueConstraintError(err) {
			return fmt.Errorf("%w: match already exists for pair", database.ErrDuplicate)
		}
		return err
	}

	created, err := extractCreatedRecord(result)
	if err != nil {
		return err
	}

	match.ID = created.ID
	match.CreatedOn = created.CreatedOn
	return nil
}

// GetByID retrieves a match by ID. Returns nil without error when the
// match does not exist.
func (r *MatchRepository) GetByID(ctx context.Context, id string) (*model.Match, error) {
	query := `SELECT * FROM type::record($id)`
	vars := map[string]interface{}{"id": id}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return parseMatchResult(result)
}

// GetByUserIDs retrieves the match for a user pair in either argument
// order. Returns nil without error when no match exists.
func (r *MatchRepository) GetByUserIDs(ctx context.Context, userAID, userBID string) (*model.Match, error) {
	u1, u2 := model.CanonicalPair(userAID, userBID)

	query := `
		SELECT * FROM match
		WHERE user1 = type::record($user1_id) AND user2 = type::record($user2_id)
		LIMIT 1
	`
	vars := map[string]interface{}{
		"user1_id": u1,
		"user2_id": u2,
	}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return parseMatchResult(result)
}

// GetByUserID retrieves all matches involving a user, newest first
func (r *MatchRepository) GetByUserID(ctx context.Context, userID string) ([]*model.Match, error) {
	query := `
		SELECT * FROM match
		WHERE user1 = type::record($user_id) OR user2 = type::record($user_id)
		ORDER BY created_on DESC
	`
	vars := map[string]interface{}{"user_id": userID}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	matches := make([]*model.Match, 0)
	if items, ok := extractQueryResults(result); ok {
		for _, item := range items {
			m, err := parseMatchResult(item)
			if err != nil {
				continue
			}
			matches = append(matches, m)
		}
	}
	return matches, nil
}

// UpdateAIInsights replaces the insight text on a match. This is the only
// field updated in place; score changes go through delete and re-create.
func (r *MatchRepository) UpdateAIInsights(ctx context.Context, matchID, insights string) error {
	query := `UPDATE type::record($id) SET ai_insights = $ai_insights`
	vars := map[string]interface{}{
		"id":          matchID,
		"ai_insights": insights,
	}

	return r.db.Execute(ctx, query, vars)
}

// Delete removes a match
func (r *MatchRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE type::record($id)`
	vars := map[string]interface{}{"id": id}

	return r.db.Execute(ctx, query, vars)
}

// Parsing helpers

func parseMatchResult(result interface{}) (*model.Match, error) {
	if result == nil {
		return nil, database.ErrNotFound
	}

	if arr, ok := result.([]interface{}); ok {
		if len(arr) == 0 {
			return nil, database.ErrNotFound
		}
		result = arr[0]
	}

	data, ok := result.(map[string]interface{})
	if !ok {
		return nil, errors.New("unexpected result format")
	}

	match := &model.Match{
		ID:         convertSurrealID(data["id"]),
		User1ID:    convertSurrealID(data["user1"]),
		User2ID:    convertSurrealID(data["user2"]),
		MatchScore: getInt(data, "match_score"),
		AIInsights: getStringPtr(data, "ai_insights"),
	}

	if ci, ok := data["common_interests"].(map[string]interface{}); ok {
		match.CommonInterests = parseCommonInterests(ci)
	}

	if t := getTime(data, "created_on"); t != nil {
		match.CreatedOn = *t
	}

	return match, nil
}

func parseCommonInterests(data map[string]interface{}) *model.CommonInterests {
	ci := &model.CommonInterests{
		Tags:      getStringSlice(data, "tags"),
		Responses: make([]model.CommonResponse, 0),
	}
	if ci.Tags == nil {
		ci.Tags = []string{}
	}

	if items, ok := data["responses"].([]interface{}); ok {
		for _, item := range items {
			if m, ok := item.(map[string]interface{}); ok {
				ci.Responses = append(ci.Responses, model.CommonResponse{
					Question: getString(m, "question"),
					Answer:   getString(m, "answer"),
				})
			}
		}
	}

	return ci
}

// commonInterestsToVars converts the nested struct into the loosely typed
// shape the driver serializes cleanly.
func commonInterestsToVars(ci *model.CommonInterests) interface{} {
	if ci == nil {
		return nil
	}

	// Round-trip through JSON keeps the field names aligned with the tags.
	data, err := json.Marshal(ci)
	if err != nil {
		return nil
	}
	var out map[string]interface{}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil
	}
	return out
}
