package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"covnorm/internal/config"
	"covnorm/internal/model"
	"covnorm/internal/parser"
	"covnorm/internal/processor"
)

var (
	reportFlag     string
	sourceFlag     string
	formatFlag     string
	bulkFlag       bool
	diffReportFlag string
	sinceFlag      int64
	jsonFlag       bool
)

// parseCmd represents the parse command.
var parseCmd = &cobra.Command{
	Use:   "parse",
	Short: "Parse a coverage report and print normalized line coverage",
	Long: `Parse verifies that the coverage report exists and was produced after
the test run, then extracts the covered lines, missed lines and coverage
ratio for the target source file.

Examples:
  # Cobertura report, single file
  covnorm parse --report coverage.xml --source src/app/mod.py

  # Every file in a Cobertura report
  covnorm parse --report coverage.xml --bulk

  # LCOV report
  covnorm parse --report lcov.info --source foo.c --format lcov

  # JaCoCo CSV report
  covnorm parse --report jacoco.csv --source src/main/java/App.java --format jacoco
`,
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)
	parseCmd.Flags().StringVarP(&reportFlag, "report", "r", "", "Coverage report file path")
	parseCmd.Flags().StringVarP(&sourceFlag, "source", "s", "", "Target source file path")
	parseCmd.Flags().StringVarP(&formatFlag, "format", "f", "", "Report format (cobertura, lcov, jacoco, diff_cover_json)")
	parseCmd.Flags().BoolVar(&bulkFlag, "bulk", false, "Return per-file results for every file in the report (Cobertura only)")
	parseCmd.Flags().StringVar(&diffReportFlag, "diff-report", "", "Diff-cover JSON report path (diff_cover_json format)")
	parseCmd.Flags().Int64Var(&sinceFlag, "since", 0, "Test command start time in milliseconds since epoch, for the freshness check")
	parseCmd.Flags().BoolVar(&jsonFlag, "json", false, "Print the result as JSON")
}

func runParse(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(".")
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("report") {
		cfg.ReportPath = reportFlag
	}
	if cmd.Flags().Changed("format") {
		cfg.CoverageType = formatFlag
	}
	if cmd.Flags().Changed("bulk") {
		cfg.UseReportCoverage = bulkFlag
	}
	if cmd.Flags().Changed("diff-report") {
		cfg.DiffCoverageReportPath = diffReportFlag
	}
	if sourceFlag == "" && !cfg.UseReportCoverage {
		return fmt.Errorf("--source is required unless --bulk is set")
	}

	desc := parser.ReportDescriptor{
		ReportPath:             cfg.ReportPath,
		SourceFilePath:         sourceFlag,
		Format:                 parser.CoverageType(cfg.CoverageType),
		UseReportCoverage:      cfg.UseReportCoverage,
		DiffCoverageReportPath: cfg.DiffCoverageReportPath,
	}
	outcome, err := processor.New(desc, nil, nil).ProcessReport(sinceFlag)
	if err != nil {
		return err
	}

	if jsonFlag {
		return printJSON(outcome)
	}
	printText(outcome)
	return nil
}

func printJSON(outcome *parser.Outcome) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if outcome.Bulk != nil {
		return enc.Encode(outcome.Bulk)
	}
	return enc.Encode(outcome.Result)
}

func printText(outcome *parser.Outcome) {
	if outcome.Bulk != nil {
		files := make([]string, 0, len(outcome.Bulk))
		for file := range outcome.Bulk {
			files = append(files, file)
		}
		sort.Strings(files)
		for _, file := range files {
			result := outcome.Bulk[file]
			fmt.Printf("%s: covered=%d missed=%d coverage=%.1f%%\n",
				file, len(result.CoveredLines), len(result.MissedLines), result.Ratio*100)
		}
		return
	}
	printResult(*outcome.Result)
}

func printResult(result model.CoverageResult) {
	fmt.Printf("Covered lines: %v\n", result.CoveredLines)
	fmt.Printf("Missed lines:  %v\n", result.MissedLines)
	fmt.Printf("Line coverage: %.1f%%\n", result.Ratio*100)
}
