// Package service 处理中继的业务逻辑。
package service

import (
	"context"
	"encoding/json"
	"fmt"

	"snnoop-triage/internal/config"
	"snnoop-triage/internal/model"
	"snnoop-triage/pkg/llm"
	"snnoop-triage/pkg/log"
)

// RelayService 定义了转发聊天消息到上游模型的操作。
type RelayService interface {
	// Ask 将消息转发给上游并原样返回响应体；未配置凭证时返回演示响应。
	Ask(ctx context.Context, messages []model.ChatMessage) ([]byte, error)
	DemoMode() bool
}

type relayService struct {
	llmClient  llm.Client
	generation *llm.GenerationParams
	demo       bool
}

// NewRelayService 创建一个新的 RelayService 实例。
// 未配置 API Key 时不会调用 llmClient。
func NewRelayService(cfg config.LLMConfig, llmClient llm.Client) RelayService {
	return &relayService{
		llmClient:  llmClient,
		generation: llm.NewGenerationParams(cfg.Generation),
		demo:       cfg.DemoMode(),
	}
}

func (s *relayService) DemoMode() bool {
	return s.demo
}

func (s *relayService) Ask(ctx context.Context, messages []model.ChatMessage) ([]byte, error) {
	if s.demo {
		log.Infow("未配置上游凭证，返回演示响应", "messages", len(messages))
		return DemoEnvelope()
	}

	forward := make([]llm.Message, 0, len(messages))
	for _, m := range messages {
		forward = append(forward, llm.Message{Role: m.Role, Content: m.Content})
	}
	return s.llmClient.ChatCompletion(ctx, forward, s.generation)
}

// CompletionEnvelope mirrors the subset of the chat-completions response the client reads.
type CompletionEnvelope struct {
	Choices []CompletionChoice `json:"choices"`
}

type CompletionChoice struct {
	Message CompletionMessage `json:"message"`
}

type CompletionMessage struct {
	Content string `json:"content"`
}

// DemoResult 是演示模式下的固定分析结果。
func DemoResult() model.AnalysisResult {
	return model.AnalysisResult{
		Analysis: model.Analysis{
			Category:    model.CategoryLow,
			RiskLevel:   model.RiskLow,
			Explanation: "Based on the provided information, this appears to be a routine headache without significant red flags. However, please note that this is a demo response as the upstream AI API is not configured.",
			Recommendations: []string{
				"Configure upstream API credentials for proper analysis",
				"Consider over-the-counter pain relief if appropriate",
				"Monitor symptoms and seek medical attention if they worsen",
				"Consult with a healthcare provider for persistent headaches",
			},
			Urgency: model.UrgencyRoutine,
		},
		Reasoning: "This is a demonstration response. To get proper medical analysis, configure the upstream API credentials (CORTI_API_KEY).",
	}
}

// DemoEnvelope 将演示结果包装成与上游相同的响应结构，客户端解析逻辑无需区分。
func DemoEnvelope() ([]byte, error) {
	content, err := json.Marshal(DemoResult())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal demo result: %w", err)
	}
	env := CompletionEnvelope{
		Choices: []CompletionChoice{{Message: CompletionMessage{Content: string(content)}}},
	}
	body, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal demo envelope: %w", err)
	}
	return body, nil
}
