package repository

import (
	"context"
	"errors"

	"github.com/yusunghyun/Kkondeokji-Capstone-v0-sub000/internal/database"
	"github.com/yusunghyun/Kkondeokji-Capstone-v0-sub000/internal/model"
)

// SurveyRepository handles survey template, question, option, user survey
// and response data access
type SurveyRepository struct {
	db database.Database
}

// NewSurveyRepository creates a new survey repository
func NewSurveyRepository(db database.Database) *SurveyRepository {
	return &SurveyRepository{db: db}
}

// CreateTemplate creates a new survey template
func (r *SurveyRepository) CreateTemplate(ctx context.Context, tmpl *model.SurveyTemplate) error {
	query := `
		CREATE survey_template CONTENT {
			title: $title,
			description: IF $description IS NOT NULL THEN $description ELSE NONE END,
			ai_generated: $ai_generated,
			created_on: time::now()
		}
	`

	vars := map[string]interface{}{
		"title":        tmpl.Title,
		"description":  ptrToNone(tmpl.Description),
		"ai_generated": tmpl.AIGenerated,
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return err
	}

	created, err := extractCreatedRecord(result)
	if err != nil {
		return err
	}

	tmpl.ID = created.ID
	tmpl.CreatedOn = created.CreatedOn
	return nil
}

// GetTemplateByID retrieves a survey template by ID. Returns nil without
// error when the template does not exist.
func (r *SurveyRepository) GetTemplateByID(ctx context.Context, id string) (*model.SurveyTemplate, error) {
	query := `SELECT * FROM type::record($id)`
	vars := map[string]interface{}{"id": id}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return parseTemplateResult(result)
}

// ListTemplates retrieves all survey templates, newest first
func (r *SurveyRepository) ListTemplates(ctx context.Context) ([]*model.SurveyTemplate, error) {
	query := `SELECT * FROM survey_template ORDER BY created_on DESC`

	result, err := r.db.Query(ctx, query, nil)
	if err != nil {
		return nil, err
	}

	templates := make([]*model.SurveyTemplate, 0)
	if items, ok := extractQueryResults(result); ok {
		for _, item := range items {
			tmpl, err := parseTemplateResult(item)
			if err != nil {
				continue
			}
			templates = append(templates, tmpl)
		}
	}
	return templates, nil
}

// CreateQuestion creates a question under a template
func (r *SurveyRepository) CreateQuestion(ctx context.Context, question *model.Question) error {
	query := `
		CREATE question CONTENT {
			survey_template: type::record($survey_template_id),
			text: $text,
			weight: $weight,
			order_index: $order_index,
			created_on: time::now()
		}
	`

	vars := map[string]interface{}{
		"survey_template_id": question.SurveyTemplateID,
		"text":               question.Text,
		"weight":             question.Weight,
		"order_index":        question.OrderIndex,
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return err
	}

	created, err := extractCreatedRecord(result)
	if err != nil {
		return err
	}

	question.ID = created.ID
	question.CreatedOn = created.CreatedOn
	return nil
}

// CreateOption creates an option under a question
func (r *SurveyRepository) CreateOption(ctx context.Context, option *model.Option) error {
	query := `
		CREATE option CONTENT {
			question: type::record($question_id),
			text: $text,
			value: $value,
			icon: $icon,
			order_index: $order_index,
			created_on: time::now()
		}
	`

	vars := map[string]interface{}{
		"question_id": option.QuestionID,
		"text":        option.Text,
		"value":       option.Value,
		"icon":        option.Icon,
		"order_index": option.OrderIndex,
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return err
	}

	created, err := extractCreatedRecord(result)
	if err != nil {
		return err
	}

	option.ID = created.ID
	option.CreatedOn = created.CreatedOn
	return nil
}

// GetQuestionsByTemplateID retrieves a template's questions in display order
func (r *SurveyRepository) GetQuestionsByTemplateID(ctx context.Context, templateID string) ([]*model.Question, error) {
	query := `SELECT * FROM question WHERE survey_template = type::record($template_id) ORDER BY order_index`
	vars := map[string]interface{}{"template_id": templateID}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	questions := make([]*model.Question, 0)
	if items, ok := extractQueryResults(result); ok {
		for _, item := range items {
			q, err := parseQuestionResult(item)
			if err != nil {
				continue
			}
			questions = append(questions, q)
		}
	}
	return questions, nil
}

// GetOptionsByQuestionID retrieves a question's options in display order
func (r *SurveyRepository) GetOptionsByQuestionID(ctx context.Context, questionID string) ([]*model.Option, error) {
	query := `SELECT * FROM option WHERE question = type::record($question_id) ORDER BY order_index`
	vars := map[string]interface{}{"question_id": questionID}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	options := make([]*model.Option, 0)
	if items, ok := extractQueryResults(result); ok {
		for _, item := range items {
			o, err := parseOptionResult(item)
			if err != nil {
				continue
			}
			options = append(options, o)
		}
	}
	return options, nil
}

// CreateUserSurvey starts a user survey from a template
func (r *SurveyRepository) CreateUserSurvey(ctx context.Context, us *model.UserSurvey) error {
	query := `
		CREATE user_survey CONTENT {
			user: type::record($user_id),
			survey_template: type::record($survey_template_id),
			completed: false,
			created_on: time::now()
		}
	`

	vars := map[string]interface{}{
		"user_id":            us.UserID,
		"survey_template_id": us.SurveyTemplateID,
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return err
	}

	created, err := extractCreatedRecord(result)
	if err != nil {
		return err
	}

	us.ID = created.ID
	us.Completed = false
	us.CreatedOn = created.CreatedOn
	return nil
}

// GetUserSurveyByID retrieves a user survey by ID. Returns nil without
// error when the survey does not exist.
func (r *SurveyRepository) GetUserSurveyByID(ctx context.Context, id string) (*model.UserSurvey, error) {
	query := `SELECT * FROM type::record($id)`
	vars := map[string]interface{}{"id": id}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return parseUserSurveyResult(result)
}

// CompleteUserSurvey marks a user survey as completed
func (r *SurveyRepository) CompleteUserSurvey(ctx context.Context, id string) error {
	query := `UPDATE type::record($id) SET completed = true, completed_on = time::now()`
	vars := map[string]interface{}{"id": id}

	return r.db.Execute(ctx, query, vars)
}

// GetLatestCompletedSurvey retrieves a user's most recently completed
// survey. Returns nil without error when the user has none.
func (r *SurveyRepository) GetLatestCompletedSurvey(ctx context.Context, userID string) (*model.UserSurvey, error) {
	query := `
		SELECT * FROM user_survey
		WHERE user = type::record($user_id) AND completed = true
		ORDER BY completed_on DESC
		LIMIT 1
	`
	vars := map[string]interface{}{"user_id": userID}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return parseUserSurveyResult(result)
}

// CreateResponse records one answer on a user survey
func (r *SurveyRepository) CreateResponse(ctx context.Context, resp *model.UserResponse) error {
	query := `
		CREATE user_response CONTENT {
			user_survey: type::record($user_survey_id),
			question: type::record($question_id),
			option: type::record($option_id),
			created_on: time::now()
		}
	`

	vars := map[string]interface{}{
		"user_survey_id": resp.UserSurveyID,
		"question_id":    resp.QuestionID,
		"option_id":      resp.OptionID,
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return err
	}

	created, err := extractCreatedRecord(result)
	if err != nil {
		return err
	}

	resp.ID = created.ID
	resp.CreatedOn = created.CreatedOn
	return nil
}

// GetResponsesBySurveyID retrieves a user survey's responses in submission order
func (r *SurveyRepository) GetResponsesBySurveyID(ctx context.Context, userSurveyID string) ([]*model.UserResponse, error) {
	query := `SELECT * FROM user_response WHERE user_survey = type::record($user_survey_id) ORDER BY created_on`
	vars := map[string]interface{}{"user_survey_id": userSurveyID}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	responses := make([]*model.UserResponse, 0)
	if items, ok := extractQueryResults(result); ok {
		for _, item := range items {
			resp, err := parseResponseResult(item)
			if err != nil {
				continue
			}
			responses = append(responses, resp)
		}
	}
	return responses, nil
}

// Parsing helpers

func parseTemplateResult(result interface{}) (*model.SurveyTemplate, error) {
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

	tmpl := &model.SurveyTemplate{
		ID:          convertSurrealID(data["id"]),
		Title:       getString(data, "title"),
		Description: getStringPtr(data, "description"),
		AIGenerated: getBool(data, "ai_generated"),
	}

	if t := getTime(data, "created_on"); t != nil {
		tmpl.CreatedOn = *t
	}

	return tmpl, nil
}

func parseQuestionResult(result interface{}) (*model.Question, error) {
	if result == nil {
		return nil, database.ErrNotFound
	}

	data, ok := result.(map[string]interface{})
	if !ok {
		return nil, errors.New("unexpected result format")
	}

	question := &model.Question{
		ID:               convertSurrealID(data["id"]),
		SurveyTemplateID: convertSurrealID(data["survey_template"]),
		Text:             getString(data, "text"),
		Weight:           getInt(data, "weight"),
		OrderIndex:       getInt(data, "order_index"),
	}

	if t := getTime(data, "created_on"); t != nil {
		question.CreatedOn = *t
	}

	return question, nil
}

func parseOptionResult(result interface{}) (*model.Option, error) {
	if result == nil {
		return nil, database.ErrNotFound
	}

	data, ok := result.(map[string]interface{})
	if !ok {
		return nil, errors.New("unexpected result format")
	}

	option := &model.Option{
		ID:         convertSurrealID(data["id"]),
		QuestionID: convertSurrealID(data["question"]),
		Text:       getString(data, "text"),
		Value:      getString(data, "value"),
		Icon:       getString(data, "icon"),
		OrderIndex: getInt(data, "order_index"),
	}

	if t := getTime(data, "created_on"); t != nil {
		option.CreatedOn = *t
	}

	return option, nil
}

func parseUserSurveyResult(result interface{}) (*model.UserSurvey, error) {
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

	us := &model.UserSurvey{
		ID:               convertSurrealID(data["id"]),
		UserID:           convertSurrealID(data["user"]),
		SurveyTemplateID: convertSurrealID(data["survey_template"]),
		Completed:        getBool(data, "completed"),
		CompletedOn:      getTime(data, "completed_on"),
	}

	if t := getTime(data, "created_on"); t != nil {
		us.CreatedOn = *t
	}

	return us, nil
}

func parseResponseResult(result interface{}) (*model.UserResponse, error) {
	if result == nil {
		return nil, database.ErrNotFound
	}

	data, ok := result.(map[string]interface{})
	if !ok {
		return nil, errors.New("unexpected result format")
	}

	resp := &model.UserResponse{
		ID:           convertSurrealID(data["id"]),
		UserSurveyID: convertSurrealID(data["user_survey"]),
		QuestionID:   convertSurrealID(data["question"]),
		OptionID:     convertSurrealID(data["option"]),
	}

	if t := getTime(data, "created_on"); t != nil {
		resp.CreatedOn = *t
	}

	return resp, nil
}

func ptrToNone(s *string) interface{} {
	if s == nil {
		return nil // Checked with IS NOT NULL in queries
	}
	return *s
}
