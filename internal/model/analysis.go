// Package model 定义问卷、聊天消息与 SNNOOP10 分析结果的数据结构。
package model

type Category string

// SNNOOP10 红旗类别；low 表示未发现红旗。
const (
	CategorySystemic     Category = "systemic"
	CategoryNeurological Category = "neurological"
	CategoryNeoplasm     Category = "neoplasm"
	CategoryOnset        Category = "onset"
	CategoryOlder        Category = "older"
	CategoryPattern      Category = "pattern"
	CategoryPapilledema  Category = "papilledema"
	CategoryLow          Category = "low"
)

var categoryLabels = map[Category]string{
	CategorySystemic:     "Systemic Symptoms",
	CategoryNeurological: "Neurological Signs",
	CategoryNeoplasm:     "Neoplasm History",
	CategoryOnset:        "Sudden Onset",
	CategoryOlder:        "Older Age New Headache",
	CategoryPattern:      "Pattern Change",
	CategoryPapilledema:  "Papilledema/Visual Changes",
	CategoryLow:          "Low Risk",
}

// Label 返回类别的展示名称，未知类别原样返回。
func (c Category) Label() string {
	if l, ok := categoryLabels[c]; ok {
		return l
	}
	return string(c)
}

type RiskLevel string

const (
	RiskHigh   RiskLevel = "high"
	RiskMedium RiskLevel = "medium"
	RiskLow    RiskLevel = "low"
)

type Urgency string

const (
	UrgencyImmediate Urgency = "immediate"
	UrgencyUrgent    Urgency = "urgent"
	UrgencyRoutine   Urgency = "routine"
)

// Analysis 是模型给出的 SNNOOP10 分诊结论。
type Analysis struct {
	Category        Category  `json:"category" validate:"oneof=systemic neurological neoplasm onset older pattern papilledema low"`
	RiskLevel       RiskLevel `json:"riskLevel" validate:"oneof=high medium low"`
	Explanation     string    `json:"explanation"`
	Recommendations []string  `json:"recommendations"`
	Urgency         Urgency   `json:"urgency" validate:"oneof=immediate urgent routine"`
}

// AnalysisResult 是一次分诊请求的最终产物，也是模型回复 content 的 JSON 结构。
type AnalysisResult struct {
	Analysis  Analysis `json:"analysis"`
	Reasoning string   `json:"reasoning"`
}

// Validate 拒绝任何超出封闭枚举的取值。
func (r AnalysisResult) Validate() error {
	return validationError("analysis", structValidator().Struct(r))
}
