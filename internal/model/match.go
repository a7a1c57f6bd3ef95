package model

import "time"

// Match is the persisted compatibility result for an unordered pair of
// users. The pair is stored in canonical order (lexicographically smaller
// id first) so lookups by either ordering resolve to the same row, and at
// most one row exists per pair.
//
// AIInsights is the only field that may change after creation; a score
// recomputation deletes the row and creates a new one.
type Match struct {
	ID              string           `json:"id"`
	User1ID         string           `json:"user1_id"`
	User2ID         string           `json:"user2_id"`
	MatchScore      int              `json:"match_score"` // 0-100
	CommonInterests *CommonInterests `json:"common_interests,omitempty"`
	AIInsights      *string          `json:"ai_insights,omitempty"`
	CreatedOn       time.Time        `json:"created_on"`
}

// CommonInterests holds what two matched users answered identically.
type CommonInterests struct {
	Tags      []string         `json:"tags"`
	Responses []CommonResponse `json:"responses"`
}

// CommonResponse is one identically-answered question.
type CommonResponse struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// MatchResult is the transient return shape of the scoring + insight
// pipeline, independent of persistence.
type MatchResult struct {
	Score           int              `json:"score"`
	CommonTags      []string         `json:"common_tags"`
	CommonResponses []CommonResponse `json:"common_responses"`
	AIInsights      string           `json:"ai_insights"`
}

// MatchWithPartner annotates a match with the counterpart's display info,
// resolved at read time (never cached on the match row, since the partner
// can change their profile independently).
type MatchWithPartner struct {
	Match   Match `json:"match"`
	Partner *User `json:"partner,omitempty"`
}

// MatchDiff describes what changed across a full recomputation.
type MatchDiff struct {
	ScoreChanged       bool     `json:"score_changed"`
	ScoreDifference    int      `json:"score_difference"`
	TagsAdded          []string `json:"tags_added"`
	TagsRemoved        []string `json:"tags_removed"`
	NewCommonResponses int      `json:"new_common_responses"`
	AIInsightsUpdated  bool     `json:"ai_insights_updated"`
	SignificantChange  bool     `json:"significant_change"`
}

// SignificantScoreDelta is the minimum absolute score movement that counts
// as a significant change on its own. Smaller movements are rounding
// jitter and should not trigger "your match changed" notifications.
const SignificantScoreDelta = 5

// CanonicalPair returns the two user ids in canonical storage order:
// lexicographically smaller id first. Both Create and lookups order the
// pair this way, which is what makes the unordered-pair invariant hold.
func CanonicalPair(a, b string) (string, string) {
	if b < a {
		return b, a
	}
	return a, b
}

// CalculateMatchRequest asks for a match between two users.
type CalculateMatchRequest struct {
	User1ID string `json:"user1_id"`
	User2ID string `json:"user2_id"`
}
