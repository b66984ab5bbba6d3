package config

// Config holds the settings that shape one coverage extraction. Values
// come from defaults, an optional .covnorm.yaml file and COVNORM_*
// environment variables; command-line flags override all three.
type Config struct {
	// CoverageType is the declared report format: cobertura, lcov,
	// jacoco or diff_cover_json.
	CoverageType string `mapstructure:"coverage_type"`
	// UseReportCoverage enables Cobertura bulk mode and disables the
	// diff_cover_json format.
	UseReportCoverage bool `mapstructure:"use_report_coverage"`
	// DiffCoverageReportPath points at the diff-cover JSON report when
	// CoverageType is diff_cover_json.
	DiffCoverageReportPath string `mapstructure:"diff_coverage_report_path"`
	// ReportPath is the coverage report file.
	ReportPath string `mapstructure:"report_path"`
}
