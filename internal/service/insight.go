package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/yusunghyun/Kkondeokji-Capstone-v0-sub000/internal/ai"
	"github.com/yusunghyun/Kkondeokji-Capstone-v0-sub000/internal/model"
)

const (
	insightMaxTokens      = 500
	insightTemperature    = 0.7
	defaultInsightTimeout = 5 * time.Second

	// Shown when a user has no display name set.
	fallbackName = "새로운 친구"
)

// InsightService produces the natural-language summary attached to a match.
// Generation is best-effort: the external call is attempted once with a
// bounded timeout and any failure degrades to a deterministic template, so
// insight text is always available and never blocks a match.
type InsightService struct {
	generator ai.TextGenerator
	timeout   time.Duration
	logger    *slog.Logger
}

// InsightServiceConfig holds configuration for the insight service
type InsightServiceConfig struct {
	Generator ai.TextGenerator
	Timeout   time.Duration
	Logger    *slog.Logger
}

// NewInsightService creates a new insight service
func NewInsightService(cfg InsightServiceConfig) *InsightService {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultInsightTimeout
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &InsightService{
		generator: cfg.Generator,
		timeout:   timeout,
		logger:    logger,
	}
}

// InsightInput carries everything the generator may reference.
type InsightInput struct {
	Score           int
	CommonTags      []string
	CommonResponses []model.CommonResponse
	User1Name       string
	User2Name       string
}

// GenerateMatchInsights returns insight text for a match. The AI path is
// tried first; any failure (transport, credentials, blank output) falls
// back to the template. Never returns an error.
func (s *InsightService) GenerateMatchInsights(ctx context.Context, in InsightInput) string {
	if s.generator != nil {
		genCtx, cancel := context.WithTimeout(ctx, s.timeout)
		defer cancel()

		text, err := s.generator.Generate(genCtx, ai.GenerateRequest{
			System:      insightSystemPrompt,
			Prompt:      buildInsightPrompt(in),
			MaxTokens:   insightMaxTokens,
			Temperature: insightTemperature,
		})
		if err == nil && strings.TrimSpace(text) != "" {
			return strings.TrimSpace(text)
		}
		if err != nil {
			s.logger.Warn("ai insight generation failed, using template",
				"error", err,
				"score", in.Score,
			)
		}
	}

	return templateInsights(in)
}

const insightSystemPrompt = "당신은 두 사람의 공통점을 바탕으로 친근한 대화 거리를 제안하는 도우미입니다. " +
	"두 사람이 처음 만났을 때 자연스럽게 대화를 시작할 수 있도록 짧고 따뜻한 한국어 문단을 작성하세요."

func buildInsightPrompt(in InsightInput) string {
	var b strings.Builder

	name1 := in.User1Name
	if name1 == "" {
		name1 = fallbackName
	}
	name2 := in.User2Name
	if name2 == "" {
		name2 = fallbackName
	}

	fmt.Fprintf(&b, "%s님과 %s님의 궁합 점수는 %d점입니다.\n", name1, name2, in.Score)

	if len(in.CommonTags) > 0 {
		fmt.Fprintf(&b, "공통 관심사: %s\n", strings.Join(in.CommonTags, ", "))
	}
	if len(in.CommonResponses) > 0 {
		b.WriteString("같은 답을 고른 질문:\n")
		for _, cr := range in.CommonResponses {
			fmt.Fprintf(&b, "- %s: %s\n", cr.Question, cr.Answer)
		}
	}

	b.WriteString("위 정보를 바탕으로 두 사람의 공통점을 짚어주고 대화 주제를 한두 가지 제안해 주세요.")
	return b.String()
}

// templateInsights builds the deterministic fallback text. It is a pure
// function of its input so repeated fallbacks for the same match produce
// identical text.
func templateInsights(in InsightInput) string {
	var first string
	if len(in.CommonResponses) > 0 {
		first = in.CommonResponses[0].Answer
	}

	switch {
	case in.Score >= 80:
		if first != "" {
			return fmt.Sprintf("두 분은 정말 잘 맞아요! 특히 \"%s\"에 대한 생각이 같네요. 이 이야기로 대화를 시작해 보세요.", first)
		}
		return "두 분은 정말 잘 맞아요! 서로 통하는 부분이 많으니 편하게 대화를 시작해 보세요."
	case in.Score >= 60:
		if first != "" {
			return fmt.Sprintf("공통점이 꽤 많으시네요. \"%s\"처럼 같은 답을 고른 주제부터 이야기해 보면 어떨까요?", first)
		}
		return "공통점이 꽤 많으시네요. 서로의 관심사를 나누다 보면 금방 가까워질 거예요."
	case in.Score >= 40:
		if first != "" {
			return fmt.Sprintf("서로 다른 점도 있지만 \"%s\"라는 공통분모가 있어요. 거기서부터 시작해 보세요.", first)
		}
		return "서로 다른 점도 있지만 그만큼 새로 알아갈 것이 많다는 뜻이에요. 가볍게 질문을 주고받아 보세요."
	default:
		return "아직 겹치는 부분은 적지만, 다른 취향을 가진 사람에게서 배울 점이 가장 많은 법이에요. 열린 마음으로 대화해 보세요."
	}
}
