package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/yusunghyun/Kkondeokji-Capstone-v0-sub000/internal/ai"
	"github.com/yusunghyun/Kkondeokji-Capstone-v0-sub000/internal/model"
)

const (
	surveyGenMaxTokens      = 2000
	surveyGenTemperature    = 0.7
	defaultSurveyGenTimeout = 10 * time.Second
)

// SurveyGenService creates survey templates, preferring AI-personalized
// question sets and degrading to the built-in defaults on any failure.
type SurveyGenService struct {
	surveyRepo SurveyRepository
	generator  ai.TextGenerator
	timeout    time.Duration
	logger     *slog.Logger
}

// SurveyGenServiceConfig holds configuration for the survey generator
type SurveyGenServiceConfig struct {
	SurveyRepo SurveyRepository
	Generator  ai.TextGenerator
	Timeout    time.Duration
	Logger     *slog.Logger
}

// NewSurveyGenService creates a new survey generation service
func NewSurveyGenService(cfg SurveyGenServiceConfig) *SurveyGenService {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultSurveyGenTimeout
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &SurveyGenService{
		surveyRepo: cfg.SurveyRepo,
		generator:  cfg.Generator,
		timeout:    timeout,
		logger:     logger,
	}
}

// GenerateSurvey creates and persists a survey template. The AI path is
// tried first; a call failure, unparseable payload or payload failing the
// shape contract all degrade to the default question set.
func (s *SurveyGenService) GenerateSurvey(ctx context.Context, req model.GenerateSurveyRequest) (*TemplateWithQuestions, error) {
	generated, aiGenerated := s.tryAIGeneration(ctx, req)
	if !aiGenerated {
		generated = defaultSurvey()
	}

	tmpl := &model.SurveyTemplate{
		Title:       generated.Title,
		AIGenerated: aiGenerated,
	}
	if err := s.surveyRepo.CreateTemplate(ctx, tmpl); err != nil {
		return nil, err
	}

	out := &TemplateWithQuestions{
		Template:  tmpl,
		Questions: make([]*QuestionWithOptions, 0, len(generated.Questions)),
	}

	for i, gq := range generated.Questions {
		weight := gq.Weight
		if !model.ValidQuestionWeight(weight) {
			weight = model.MinQuestionWeight
		}

		question := &model.Question{
			SurveyTemplateID: tmpl.ID,
			Text:             gq.Text,
			Weight:           weight,
			OrderIndex:       i,
		}
		if err := s.surveyRepo.CreateQuestion(ctx, question); err != nil {
			return nil, err
		}

		qwo := &QuestionWithOptions{
			Question: question,
			Options:  make([]*model.Option, 0, len(gq.Options)),
		}
		for j, go_ := range gq.Options {
			option := &model.Option{
				QuestionID: question.ID,
				Text:       go_.Text,
				Value:      go_.Value,
				Icon:       go_.Icon,
				OrderIndex: j,
			}
			if err := s.surveyRepo.CreateOption(ctx, option); err != nil {
				return nil, err
			}
			qwo.Options = append(qwo.Options, option)
		}
		out.Questions = append(out.Questions, qwo)
	}

	return out, nil
}

// tryAIGeneration returns the generated survey and whether the AI path
// succeeded.
func (s *SurveyGenService) tryAIGeneration(ctx context.Context, req model.GenerateSurveyRequest) (*model.GeneratedSurvey, bool) {
	if s.generator == nil {
		return nil, false
	}

	genCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	text, err := s.generator.Generate(genCtx, ai.GenerateRequest{
		System:      surveyGenSystemPrompt,
		Prompt:      buildSurveyGenPrompt(req),
		MaxTokens:   surveyGenMaxTokens,
		Temperature: surveyGenTemperature,
	})
	if err != nil {
		s.logger.Warn("ai survey generation failed, using defaults", "error", err)
		return nil, false
	}

	var generated model.GeneratedSurvey
	if err := json.Unmarshal([]byte(stripCodeFences(text)), &generated); err != nil {
		s.logger.Warn("ai survey payload unparseable, using defaults", "error", err)
		return nil, false
	}
	if !generated.Valid() {
		s.logger.Warn("ai survey payload failed shape check, using defaults")
		return nil, false
	}

	return &generated, true
}

const surveyGenSystemPrompt = "당신은 두 사람의 공통점을 찾기 위한 설문을 설계하는 도우미입니다. " +
	"반드시 JSON 객체만 반환하세요. 형식: {\"title\": string, \"questions\": [{\"text\": string, " +
	"\"weight\": 1-3, \"options\": [{\"text\": string, \"value\": string, \"icon\": string}]}]}"

func buildSurveyGenPrompt(req model.GenerateSurveyRequest) string {
	var b strings.Builder
	b.WriteString("다음 사용자를 위한 관심사 설문을 만들어 주세요.\n")
	if len(req.Interests) > 0 {
		fmt.Fprintf(&b, "관심사: %s\n", strings.Join(req.Interests, ", "))
	}
	if req.Occupation != "" {
		fmt.Fprintf(&b, "직업: %s\n", req.Occupation)
	}
	if req.AgeGroup != "" {
		fmt.Fprintf(&b, "연령대: %s\n", req.AgeGroup)
	}
	b.WriteString("질문은 5~10개, 각 질문에 보기 3~4개를 만들어 주세요. value는 짧은 한국어 태그입니다.")
	return b.String()
}

// stripCodeFences removes a markdown code fence wrapper if the model
// returned one around the JSON payload.
func stripCodeFences(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}

// defaultSurvey is the fixed question set used when AI generation is
// unavailable or returns an unusable payload.
func defaultSurvey() *model.GeneratedSurvey {
	return &model.GeneratedSurvey{
		Title: "기본 관심사 설문",
		Questions: []model.GeneratedQuestion{
			{
				Text:   "주말에 주로 무엇을 하며 시간을 보내세요?",
				Weight: 3,
				Options: []model.GeneratedOption{
					{Text: "집에서 휴식", Value: "집순이", Icon: "🏠"},
					{Text: "친구들과 약속", Value: "사교활동", Icon: "🎉"},
					{Text: "운동이나 야외활동", Value: "운동", Icon: "⚽"},
					{Text: "전시나 공연 관람", Value: "문화생활", Icon: "🎭"},
				},
			},
			{
				Text:   "요즘 가장 즐겨 보는 콘텐츠는 무엇인가요?",
				Weight: 2,
				Options: []model.GeneratedOption{
					{Text: "드라마/영화", Value: "영상콘텐츠", Icon: "🎬"},
					{Text: "유튜브/쇼츠", Value: "유튜브", Icon: "📱"},
					{Text: "책/웹툰", Value: "독서", Icon: "📚"},
					{Text: "게임 방송", Value: "게임", Icon: "🎮"},
				},
			},
			{
				Text:   "처음 만난 사람과 대화할 때 어떤 주제가 편한가요?",
				Weight: 2,
				Options: []model.GeneratedOption{
					{Text: "음식과 맛집", Value: "맛집탐방", Icon: "🍜"},
					{Text: "여행 경험", Value: "여행", Icon: "✈️"},
					{Text: "음악과 공연", Value: "음악", Icon: "🎵"},
					{Text: "일과 커리어", Value: "커리어", Icon: "💼"},
				},
			},
			{
				Text:   "커피를 마신다면 어디서 마시는 편인가요?",
				Weight: 1,
				Options: []model.GeneratedOption{
					{Text: "조용한 동네 카페", Value: "카페", Icon: "☕"},
					{Text: "프랜차이즈 매장", Value: "카페", Icon: "🥤"},
					{Text: "집에서 내려 마심", Value: "홈카페", Icon: "🏠"},
					{Text: "커피를 잘 안 마심", Value: "논커피", Icon: "🍵"},
				},
			},
			{
				Text:   "운동은 얼마나 자주 하세요?",
				Weight: 2,
				Options: []model.GeneratedOption{
					{Text: "거의 매일", Value: "운동", Icon: "💪"},
					{Text: "주 1~2회", Value: "가벼운운동", Icon: "🚶"},
					{Text: "가끔 생각날 때", Value: "가벼운운동", Icon: "🧘"},
					{Text: "거의 안 함", Value: "실내파", Icon: "🛋️"},
				},
			},
		},
	}
}
