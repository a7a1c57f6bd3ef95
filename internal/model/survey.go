package model

import "time"

// SurveyTemplate is a reusable set of weighted questions. Templates are
// usually produced by the survey generator (AI or the built-in defaults)
// and never change after creation.
type SurveyTemplate struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"`
	AIGenerated bool      `json:"ai_generated"`
	CreatedOn   time.Time `json:"created_on"`
}

// Question belongs to a survey template. Weight expresses how much the
// question matters for matching: higher-weight questions contribute more
// to the score and qualify their matched option's value as a common tag.
type Question struct {
	ID               string    `json:"id"`
	SurveyTemplateID string    `json:"survey_template_id"`
	Text             string    `json:"text"`
	Weight           int       `json:"weight"` // 1-3
	OrderIndex       int       `json:"order_index"`
	CreatedOn        time.Time `json:"created_on"`
}

// Option is one selectable answer for a question. Value is the canonical
// interest tag attached to the choice; distinct options may share a value.
type Option struct {
	ID         string    `json:"id"`
	QuestionID string    `json:"question_id"`
	Text       string    `json:"text"`
	Value      string    `json:"value"` // interest tag
	Icon       string    `json:"icon,omitempty"`
	OrderIndex int       `json:"order_index"`
	CreatedOn  time.Time `json:"created_on"`
}

// UserSurvey is one user's instantiation of a template. It is marked
// completed once all responses are submitted; only completed surveys are
// eligible for matching.
type UserSurvey struct {
	ID               string     `json:"id"`
	UserID           string     `json:"user_id"`
	SurveyTemplateID string     `json:"survey_template_id"`
	Completed        bool       `json:"completed"`
	CompletedOn      *time.Time `json:"completed_on,omitempty"`
	CreatedOn        time.Time  `json:"created_on"`
}

// UserResponse records one chosen option for one question of a completed
// user survey. Responses are created at submission and never mutated.
type UserResponse struct {
	ID           string    `json:"id"`
	UserSurveyID string    `json:"user_survey_id"`
	QuestionID   string    `json:"question_id"`
	OptionID     string    `json:"option_id"`
	CreatedOn    time.Time `json:"created_on"`
}

// Question weight constraints
const (
	MinQuestionWeight = 1
	MaxQuestionWeight = 3

	// TagWeightThreshold is the minimum question weight for a matched
	// option's value to surface as a common tag. Weight-1 questions are
	// too minor to headline as a shared interest even when matched.
	TagWeightThreshold = 2
)

// ValidQuestionWeight reports whether w is inside the allowed range.
func ValidQuestionWeight(w int) bool {
	return w >= MinQuestionWeight && w <= MaxQuestionWeight
}

// GeneratedSurvey is the strict schema the survey generator expects back
// from the text-generation service. Payloads that do not satisfy Valid()
// are treated as a generation failure, never passed through.
type GeneratedSurvey struct {
	Title     string              `json:"title"`
	Questions []GeneratedQuestion `json:"questions"`
}

// GeneratedQuestion is one question inside a GeneratedSurvey payload.
type GeneratedQuestion struct {
	Text    string            `json:"text"`
	Weight  int               `json:"weight"`
	Options []GeneratedOption `json:"options"`
}

// GeneratedOption is one option inside a GeneratedQuestion.
type GeneratedOption struct {
	Text  string `json:"text"`
	Value string `json:"value"`
	Icon  string `json:"icon,omitempty"`
}

// Valid reports whether the generated payload satisfies the minimal shape
// contract: at least one question, each with text and at least two options.
func (g *GeneratedSurvey) Valid() bool {
	if g == nil || len(g.Questions) == 0 {
		return false
	}
	for _, q := range g.Questions {
		if q.Text == "" || len(q.Options) < 2 {
			return false
		}
	}
	return true
}

// StartSurveyRequest begins a user survey from a template.
type StartSurveyRequest struct {
	UserID string `json:"user_id"`
}

// SubmitResponseRequest records one answer on an in-progress user survey.
type SubmitResponseRequest struct {
	QuestionID string `json:"question_id"`
	OptionID   string `json:"option_id"`
}

// GenerateSurveyRequest asks for a personalized survey template.
type GenerateSurveyRequest struct {
	UserID     string   `json:"user_id,omitempty"`
	Interests  []string `json:"interests,omitempty"`
	Occupation string   `json:"occupation,omitempty"`
	AgeGroup   string   `json:"age_group,omitempty"`
}
