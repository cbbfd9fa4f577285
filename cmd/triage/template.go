package main

import (
	"fmt"
	"io"
	"strings"

	"snnoop-triage/internal/model"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"
)

var templateCmd = &cobra.Command{
	Use:   "template",
	Short: "Print a questionnaire template to fill in",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return writeTemplate(cmd.OutOrStdout())
	},
}

func writeTemplate(w io.Writer) error {
	answers := model.DefaultAnswers()
	answers.AssociatedSymptoms = []string{}
	answers.NeurologicalSymptoms = []string{}
	answers.SystemicSymptoms = []string{}

	body, err := yaml.Marshal(answers)
	if err != nil {
		return fmt.Errorf("failed to render template: %w", err)
	}

	var b strings.Builder
	b.WriteString("# gender: male | female | other\n")
	b.WriteString("# headacheOnset: sudden | gradual | chronic\n")
	b.WriteString("# headacheLocation: unilateral | bilateral | frontal | occipital | temporal\n")
	b.WriteString("# headacheSeverity: 1-10\n")
	fmt.Fprintf(&b, "# associatedSymptoms: %s\n", strings.Join(model.AssociatedSymptomOptions, ", "))
	fmt.Fprintf(&b, "# neurologicalSymptoms: %s\n", strings.Join(model.NeurologicalSymptomOptions, ", "))
	fmt.Fprintf(&b, "# systemicSymptoms: %s\n", strings.Join(model.SystemicSymptomOptions, ", "))
	b.Write(body)

	_, err = io.WriteString(w, b.String())
	return err
}
