// Package triage 是问卷客户端的核心：构造提示词、调用中继、解析并展示分析结果。
package triage

import (
	"fmt"
	"strings"

	"snnoop-triage/internal/model"
)

// SystemPrompt 描述 SNNOOP10 标准和要求的 JSON 输出结构，不随请求变化。
const SystemPrompt = `You are a medical AI assistant specialized in headache triage using the SNNOOP10 criteria for identifying red flags in headache patients. 

SNNOOP10 Red Flags:
- S: Systemic symptoms (fever, weight loss, etc.)
- N: Neurological symptoms or signs
- N: Neoplasm in history
- O: Onset sudden or split-second
- O: Older age (>50 years) with new headache
- P: Pattern change or recent onset of new headache
- P: Papilledema, pulsatile tinnitus, or visual changes
- 1: Immunocompromised
- 0: Other concerning features

Based on the patient questionnaire data, analyze the headache presentation and:
1. Identify which SNNOOP10 category best fits (if any)
2. Determine risk level (high/medium/low)
3. Provide clear explanation
4. Give specific recommendations
5. Assign urgency level

Respond in JSON format with the following structure:
{
  "analysis": {
    "category": "systemic|neurological|neoplasm|onset|older|pattern|papilledema|low",
    "riskLevel": "high|medium|low",
    "explanation": "Clear explanation of findings",
    "recommendations": ["recommendation1", "recommendation2"],
    "urgency": "immediate|urgent|routine"
  },
  "reasoning": "Detailed medical reasoning"
}`

const none = "None"

// BuildMessages 将问卷转换为 system 与 user 两条消息。
// 对任意输入都不会失败，空列表和空字符串渲染为 "None"。
func BuildMessages(a model.QuestionnaireAnswers) []model.ChatMessage {
	return []model.ChatMessage{
		{Role: model.RoleSystem, Content: SystemPrompt},
		{Role: model.RoleUser, Content: UserPrompt(a)},
	}
}

// UserPrompt 把每个问卷字段插入带标签的纯文本块。
func UserPrompt(a model.QuestionnaireAnswers) string {
	var b strings.Builder
	b.WriteString("Patient Information:\n")
	fmt.Fprintf(&b, "- Age: %d\n", a.Age)
	fmt.Fprintf(&b, "- Gender: %s\n", a.Gender)
	fmt.Fprintf(&b, "- Headache Onset: %s\n", a.HeadacheOnset)
	fmt.Fprintf(&b, "- Location: %s\n", a.HeadacheLocation)
	fmt.Fprintf(&b, "- Severity (1-10): %d\n", a.HeadacheSeverity)
	fmt.Fprintf(&b, "- Associated Symptoms: %s\n", joinOrNone(a.AssociatedSymptoms))
	fmt.Fprintf(&b, "- Neurological Symptoms: %s\n", joinOrNone(a.NeurologicalSymptoms))
	fmt.Fprintf(&b, "- Systemic Symptoms: %s\n", joinOrNone(a.SystemicSymptoms))
	fmt.Fprintf(&b, "- Previous Headaches: %s\n", a.PreviousHeadaches)
	fmt.Fprintf(&b, "- Current Medications: %s\n", orNone(a.Medications))
	fmt.Fprintf(&b, "- Recent Trauma: %s\n", a.RecentTrauma)
	fmt.Fprintf(&b, "- Vision Changes: %s\n", a.VisionChanges)
	fmt.Fprintf(&b, "- Fever Present: %s\n", a.FeverPresent)
	b.WriteString("\nPlease analyze this headache presentation using SNNOOP10 criteria.\n")
	return b.String()
}

func joinOrNone(items []string) string {
	return orNone(strings.Join(items, ", "))
}

func orNone(s string) string {
	if s == "" {
		return none
	}
	return s
}
