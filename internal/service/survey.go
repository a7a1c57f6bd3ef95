package service

import (
	"context"

	"github.com/yusunghyun/Kkondeokji-Capstone-v0-sub000/internal/model"
)

// SurveyRepository defines the survey data access interface
type SurveyRepository interface {
	CreateTemplate(ctx context.Context, tmpl *model.SurveyTemplate) error
	GetTemplateByID(ctx context.Context, id string) (*model.SurveyTemplate, error)
	ListTemplates(ctx context.Context) ([]*model.SurveyTemplate, error)
	CreateQuestion(ctx context.Context, question *model.Question) error
	CreateOption(ctx context.Context, option *model.Option) error
	GetQuestionsByTemplateID(ctx context.Context, templateID string) ([]*model.Question, error)
	GetOptionsByQuestionID(ctx context.Context, questionID string) ([]*model.Option, error)
	CreateUserSurvey(ctx context.Context, us *model.UserSurvey) error
	GetUserSurveyByID(ctx context.Context, id string) (*model.UserSurvey, error)
	CompleteUserSurvey(ctx context.Context, id string) error
	GetLatestCompletedSurvey(ctx context.Context, userID string) (*model.UserSurvey, error)
	CreateResponse(ctx context.Context, resp *model.UserResponse) error
	GetResponsesBySurveyID(ctx context.Context, userSurveyID string) ([]*model.UserResponse, error)
}

// SurveyService handles survey lifecycle: starting a survey from a
// template, recording answers and marking completion.
type SurveyService struct {
	surveyRepo SurveyRepository
}

// SurveyServiceConfig holds configuration for the survey service
type SurveyServiceConfig struct {
	SurveyRepo SurveyRepository
}

// NewSurveyService creates a new survey service
func NewSurveyService(cfg SurveyServiceConfig) *SurveyService {
	return &SurveyService{
		surveyRepo: cfg.SurveyRepo,
	}
}

// TemplateWithQuestions is a template joined with its full question catalog.
type TemplateWithQuestions struct {
	Template  *model.SurveyTemplate   `json:"template"`
	Questions []*QuestionWithOptions  `json:"questions"`
}

// QuestionWithOptions is a question joined with its options.
type QuestionWithOptions struct {
	Question *model.Question `json:"question"`
	Options  []*model.Option `json:"options"`
}

// GetTemplate retrieves a template with its questions and options
func (s *SurveyService) GetTemplate(ctx context.Context, templateID string) (*TemplateWithQuestions, error) {
	tmpl, err := s.surveyRepo.GetTemplateByID(ctx, templateID)
	if err != nil {
		return nil, err
	}
	if tmpl == nil {
		return nil, ErrTemplateNotFound
	}

	questions, err := s.surveyRepo.GetQuestionsByTemplateID(ctx, templateID)
	if err != nil {
		return nil, err
	}

	out := &TemplateWithQuestions{
		Template:  tmpl,
		Questions: make([]*QuestionWithOptions, 0, len(questions)),
	}
	for _, q := range questions {
		options, err := s.surveyRepo.GetOptionsByQuestionID(ctx, q.ID)
		if err != nil {
			return nil, err
		}
		out.Questions = append(out.Questions, &QuestionWithOptions{
			Question: q,
			Options:  options,
		})
	}

	return out, nil
}

// ListTemplates retrieves all survey templates
func (s *SurveyService) ListTemplates(ctx context.Context) ([]*model.SurveyTemplate, error) {
	return s.surveyRepo.ListTemplates(ctx)
}

// StartSurvey begins a user survey from a template
func (s *SurveyService) StartSurvey(ctx context.Context, userID, templateID string) (*model.UserSurvey, error) {
	tmpl, err := s.surveyRepo.GetTemplateByID(ctx, templateID)
	if err != nil {
		return nil, err
	}
	if tmpl == nil {
		return nil, ErrTemplateNotFound
	}

	us := &model.UserSurvey{
		UserID:           userID,
		SurveyTemplateID: templateID,
	}
	if err := s.surveyRepo.CreateUserSurvey(ctx, us); err != nil {
		return nil, err
	}
	return us, nil
}

// SubmitResponse records one answer on an in-progress user survey
func (s *SurveyService) SubmitResponse(ctx context.Context, userSurveyID, questionID, optionID string) (*model.UserResponse, error) {
	us, err := s.surveyRepo.GetUserSurveyByID(ctx, userSurveyID)
	if err != nil {
		return nil, err
	}
	if us == nil {
		return nil, ErrUserSurveyNotFound
	}
	if us.Completed {
		return nil, ErrSurveyAlreadyDone
	}

	resp := &model.UserResponse{
		UserSurveyID: userSurveyID,
		QuestionID:   questionID,
		OptionID:     optionID,
	}
	if err := s.surveyRepo.CreateResponse(ctx, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// CompleteSurvey marks a user survey as completed, making it eligible for
// matching
func (s *SurveyService) CompleteSurvey(ctx context.Context, userSurveyID string) (*model.UserSurvey, error) {
	us, err := s.surveyRepo.GetUserSurveyByID(ctx, userSurveyID)
	if err != nil {
		return nil, err
	}
	if us == nil {
		return nil, ErrUserSurveyNotFound
	}
	if us.Completed {
		return nil, ErrSurveyAlreadyDone
	}

	if err := s.surveyRepo.CompleteUserSurvey(ctx, userSurveyID); err != nil {
		return nil, err
	}

	return s.surveyRepo.GetUserSurveyByID(ctx, userSurveyID)
}
