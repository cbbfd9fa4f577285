package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"snnoop-triage/internal/model"
	"snnoop-triage/internal/triage"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"
)

var (
	answersFile string
	jsonOutput  bool
	strict      bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Submit a questionnaire (YAML or JSON) for analysis",
	Example: `  triage analyze -f answers.yaml
  cat answers.json | triage analyze -f - --json`,
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVarP(&answersFile, "file", "f", "", "questionnaire file, - for stdin")
	analyzeCmd.Flags().BoolVar(&jsonOutput, "json", false, "print the result as JSON")
	analyzeCmd.Flags().BoolVar(&strict, "strict", false, "fail instead of showing the fallback result")
	_ = analyzeCmd.MarkFlagRequired("file")
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	answers, err := loadAnswers(answersFile)
	if err != nil {
		return err
	}
	if err := answers.Validate(); err != nil {
		return err
	}

	client := newClient()
	var (
		result   *model.AnalysisResult
		fallback bool
	)
	if strict {
		result, err = client.Analyze(cmd.Context(), answers)
		if err != nil {
			return err
		}
	} else {
		result, fallback = client.AnalyzeWithFallback(cmd.Context(), answers)
	}

	if jsonOutput {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			*model.AnalysisResult
			Fallback bool `json:"fallback"`
		}{result, fallback})
	}
	return triage.Render(cmd.OutOrStdout(), result, fallback)
}

// loadAnswers 读取问卷文件，未填写的字段取表单默认值。
func loadAnswers(path string) (model.QuestionnaireAnswers, error) {
	answers := model.DefaultAnswers()

	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return answers, fmt.Errorf("failed to read questionnaire: %w", err)
	}

	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = json.Unmarshal(data, &answers)
	} else {
		// YAML 是 JSON 的超集，stdin 也按 YAML 解析
		err = yaml.Unmarshal(data, &answers)
	}
	if err != nil {
		return answers, fmt.Errorf("failed to parse questionnaire: %w", err)
	}
	return answers, nil
}
