package model

import (
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

type Onset string

const (
	OnsetSudden  Onset = "sudden"
	OnsetGradual Onset = "gradual"
	OnsetChronic Onset = "chronic"
)

type Location string

const (
	LocationUnilateral Location = "unilateral"
	LocationBilateral  Location = "bilateral"
	LocationFrontal    Location = "frontal"
	LocationOccipital  Location = "occipital"
	LocationTemporal   Location = "temporal"
)

// YesNo 是问卷中的是/否选项。
type YesNo string

const (
	Yes YesNo = "yes"
	No  YesNo = "no"
)

// QuestionnaireAnswers 是用户提交的头痛问卷，只在一次请求内存活。
type QuestionnaireAnswers struct {
	Age                  int      `json:"age" yaml:"age" validate:"gte=0,lte=130"`
	Gender               Gender   `json:"gender" yaml:"gender" validate:"oneof=male female other"`
	HeadacheOnset        Onset    `json:"headacheOnset" yaml:"headacheOnset" validate:"oneof=sudden gradual chronic"`
	HeadacheLocation     Location `json:"headacheLocation" yaml:"headacheLocation" validate:"oneof=unilateral bilateral frontal occipital temporal"`
	HeadacheSeverity     int      `json:"headacheSeverity" yaml:"headacheSeverity" validate:"gte=1,lte=10"`
	AssociatedSymptoms   []string `json:"associatedSymptoms" yaml:"associatedSymptoms"`
	NeurologicalSymptoms []string `json:"neurologicalSymptoms" yaml:"neurologicalSymptoms"`
	SystemicSymptoms     []string `json:"systemicSymptoms" yaml:"systemicSymptoms"`
	PreviousHeadaches    YesNo    `json:"previousHeadaches" yaml:"previousHeadaches" validate:"oneof=yes no"`
	Medications          string   `json:"medications" yaml:"medications"`
	RecentTrauma         YesNo    `json:"recentTrauma" yaml:"recentTrauma" validate:"oneof=yes no"`
	VisionChanges        YesNo    `json:"visionChanges" yaml:"visionChanges" validate:"oneof=yes no"`
	FeverPresent         YesNo    `json:"feverPresent" yaml:"feverPresent" validate:"oneof=yes no"`
}

// Symptom options offered by the questionnaire form.
var (
	AssociatedSymptomOptions = []string{
		"Nausea", "Vomiting", "Light sensitivity", "Sound sensitivity",
		"Dizziness", "Fatigue", "Neck stiffness", "Confusion",
	}
	NeurologicalSymptomOptions = []string{
		"Weakness", "Numbness", "Speech difficulties", "Memory problems",
		"Coordination issues", "Seizures", "Loss of consciousness", "Tremor",
	}
	SystemicSymptomOptions = []string{
		"Fever", "Weight loss", "Night sweats", "Fatigue",
		"Joint pain", "Rash", "Jaw claudication", "Scalp tenderness",
	}
)

// DefaultAnswers 返回表单的初始值。
func DefaultAnswers() QuestionnaireAnswers {
	return QuestionnaireAnswers{
		Gender:            GenderMale,
		HeadacheOnset:     OnsetGradual,
		HeadacheLocation:  LocationBilateral,
		HeadacheSeverity:  5,
		PreviousHeadaches: No,
		RecentTrauma:      No,
		VisionChanges:     No,
		FeverPresent:      No,
	}
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func structValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// Validate 校验问卷是否落在表单允许的取值范围内。
func (a QuestionnaireAnswers) Validate() error {
	return validationError("questionnaire", structValidator().Struct(a))
}

// validationError flattens validator errors into one readable message.
func validationError(subject string, err error) error {
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return fmt.Errorf("invalid %s: %w", subject, err)
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fmt.Sprintf("%s (%s=%v)", fe.Namespace(), fe.Tag(), fe.Value()))
	}
	return fmt.Errorf("invalid %s: %s", subject, strings.Join(fields, ", "))
}
