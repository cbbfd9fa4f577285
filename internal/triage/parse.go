package triage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"snnoop-triage/internal/model"
)

var (
	// ErrNoContent 表示响应中没有 choices[0].message.content。
	ErrNoContent = errors.New("no response from AI model")
	// ErrInvalidAnalysis 表示 content 不是合法的分析结果。
	ErrInvalidAnalysis = errors.New("invalid analysis in AI response")
)

type completionEnvelope struct {
	Choices []struct {
		Message struct {
			Content *string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// ExtractContent 取出第一个 choice 的消息内容。
func ExtractContent(body []byte) (string, error) {
	var env completionEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return "", fmt.Errorf("%w: malformed envelope: %v", ErrNoContent, err)
	}
	if len(env.Choices) == 0 || env.Choices[0].Message.Content == nil {
		return "", ErrNoContent
	}
	content := *env.Choices[0].Message.Content
	if strings.TrimSpace(content) == "" {
		return "", ErrNoContent
	}
	return content, nil
}

// ParseResponse 解析中继响应并按封闭枚举校验分析结果。
func ParseResponse(body []byte) (*model.AnalysisResult, error) {
	content, err := ExtractContent(body)
	if err != nil {
		return nil, err
	}
	return ParseContent(content)
}

// ParseContent 严格解码模型输出的 JSON，允许外层包裹 markdown 代码块。
func ParseContent(content string) (*model.AnalysisResult, error) {
	raw := stripCodeFence(content)

	var probe map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &probe); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAnalysis, err)
	}
	if a, ok := probe["analysis"]; !ok || bytes.Equal(bytes.TrimSpace(a), []byte("null")) {
		return nil, fmt.Errorf("%w: missing analysis object", ErrInvalidAnalysis)
	}

	var result model.AnalysisResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAnalysis, err)
	}
	if err := result.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAnalysis, err)
	}
	return &result, nil
}

func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```JSON")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// FallbackResult 是 AI 服务不可用或输出无法解析时展示的静态结果。
func FallbackResult() *model.AnalysisResult {
	return &model.AnalysisResult{
		Analysis: model.Analysis{
			Category:    model.CategoryLow,
			RiskLevel:   model.RiskLow,
			Explanation: "Unable to connect to AI service. This is a demo response.",
			Recommendations: []string{
				"Check that the triage relay service is reachable",
				"Consult healthcare provider",
			},
			Urgency: model.UrgencyRoutine,
		},
		Reasoning: "AI service unavailable - demo mode active",
	}
}
