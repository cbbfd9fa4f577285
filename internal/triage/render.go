package triage

import (
	"fmt"
	"io"
	"strings"

	"snnoop-triage/internal/model"
)

// Render 以文本形式输出分析结果。fallback 为 true 时附加演示提示。
func Render(w io.Writer, r *model.AnalysisResult, fallback bool) error {
	var b strings.Builder
	b.WriteString("SNNOOP10 Headache Analysis\n")
	b.WriteString("==========================\n")
	if fallback {
		b.WriteString("[DEMO] The AI service could not be reached; showing a fallback result.\n")
	}
	a := r.Analysis
	fmt.Fprintf(&b, "Category:    %s\n", a.Category.Label())
	fmt.Fprintf(&b, "Risk level:  %s\n", strings.ToUpper(string(a.RiskLevel)))
	fmt.Fprintf(&b, "Urgency:     %s\n", strings.ToUpper(string(a.Urgency)))
	b.WriteString("\nExplanation\n")
	fmt.Fprintf(&b, "  %s\n", a.Explanation)
	if len(a.Recommendations) > 0 {
		b.WriteString("\nRecommendations\n")
		for i, rec := range a.Recommendations {
			fmt.Fprintf(&b, "  %d. %s\n", i+1, rec)
		}
	}
	if r.Reasoning != "" {
		b.WriteString("\nReasoning\n")
		fmt.Fprintf(&b, "  %s\n", r.Reasoning)
	}
	b.WriteString("\nThis tool does not replace professional medical advice.\n")

	_, err := io.WriteString(w, b.String())
	return err
}
