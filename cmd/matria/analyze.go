package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sandevgo/matria/internal/core"
	"github.com/sandevgo/matria/internal/explain"
	"github.com/sandevgo/matria/internal/reasoner"
	"github.com/sandevgo/matria/internal/service/ui"
)

var (
	analyzeSymptoms string
	analyzeWeek     int
	analyzeBP       string
	analyzeTemp     float64
	analyzeHR       float64
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run a one-shot clinical assessment from the command line",
	Long:  `Runs the diagnostic engine over the given symptoms and vitals and prints the clinical view, without starting any services.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := buildInput()
		if err != nil {
			return err
		}

		res := reasoner.New().Analyze(in)
		cv := explain.Clinical(&res)
		printClinical(cv)
		return nil
	},
}

func buildInput() (core.DiagnosticInput, error) {
	var in core.DiagnosticInput

	for _, raw := range strings.Split(analyzeSymptoms, ",") {
		name := strings.TrimSpace(raw)
		if name == "" {
			continue
		}
		severity := core.SeverityModerate
		if strings.HasPrefix(name, "severe ") {
			severity = core.SeveritySevere
		}
		in.Symptoms = append(in.Symptoms, core.SymptomInput{Name: name, Severity: severity})
	}

	if analyzeWeek > 0 {
		in.Stage = core.PregnancyStage{Week: analyzeWeek, Trimester: core.Trimester(analyzeWeek)}
	}

	vitals := &core.VitalSigns{Temperature: analyzeTemp, HeartRate: analyzeHR}
	hasVitals := analyzeTemp > 0 || analyzeHR > 0
	if analyzeBP != "" {
		parts := strings.SplitN(analyzeBP, "/", 2)
		if len(parts) != 2 {
			return in, fmt.Errorf("invalid --bp %q, expected systolic/diastolic", analyzeBP)
		}
		sys, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		if err != nil {
			return in, fmt.Errorf("invalid systolic value: %w", err)
		}
		dia, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil {
			return in, fmt.Errorf("invalid diastolic value: %w", err)
		}
		vitals.SystolicBP, vitals.DiastolicBP = sys, dia
		hasVitals = true
	}
	if hasVitals {
		in.Vitals = vitals
	}

	if len(in.Symptoms) == 0 && in.Vitals == nil {
		return in, fmt.Errorf("nothing to analyze, pass --symptoms or vitals")
	}
	return in, nil
}

func printClinical(cv explain.ClinicalView) {
	fmt.Println(ui.TitleStyle.Render("ASSESSMENT"))
	fmt.Println("  " + cv.Summary)

	fmt.Println(ui.TitleStyle.Render("REASONING"))
	for _, step := range cv.ReasoningChain {
		fmt.Printf("  %d. %s (%.2f)\n     %s\n", step.Number, step.Name, step.Confidence, ui.DescStyle.Render(step.Detail))
		for _, ev := range step.Evidence {
			fmt.Printf("       - %s\n", ui.DescStyle.Render(ev))
		}
	}

	if len(cv.Differentials) > 0 {
		fmt.Println(ui.TitleStyle.Render("DIFFERENTIAL"))
		for _, d := range cv.Differentials {
			fmt.Printf("  %-40s %s\n", fmt.Sprintf("%s (%s)", d.Name, d.Code), ui.UsageStyle.Render(d.Probability))
		}
	}

	if len(cv.Features) > 0 {
		fmt.Println(ui.TitleStyle.Render("FEATURES"))
		for _, f := range cv.Features {
			fmt.Printf("  %-45s %.2f %s\n", f.Feature, f.Weight, ui.DescStyle.Render(string(f.Impact)))
		}
	}

	fmt.Println(ui.TitleStyle.Render("CONFIDENCE"))
	for _, f := range cv.ConfidenceFactors {
		fmt.Printf("  %-25s weight %.1f  score %.2f\n", f.Name, f.Weight, f.Score)
	}
	fmt.Printf("  overall %.2f (%s)\n", cv.OverallConfidence, ui.DescStyle.Render(cv.Reliability))

	fmt.Println(ui.TitleStyle.Render("MODEL"))
	fmt.Printf("  %s v%s\n  %s\n", cv.Model.Name, cv.Model.Version, ui.DescStyle.Render(cv.Model.Validation))
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeSymptoms, "symptoms", "", "comma-separated symptom list")
	analyzeCmd.Flags().IntVar(&analyzeWeek, "week", 0, "gestational week")
	analyzeCmd.Flags().StringVar(&analyzeBP, "bp", "", "blood pressure as systolic/diastolic, e.g. 140/90")
	analyzeCmd.Flags().Float64Var(&analyzeTemp, "temp", 0, "temperature in celsius")
	analyzeCmd.Flags().Float64Var(&analyzeHR, "hr", 0, "heart rate in bpm")
	rootCmd.AddCommand(analyzeCmd)
}
