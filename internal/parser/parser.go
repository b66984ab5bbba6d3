package parser

import "covnorm/internal/model"

// CoverageType identifies a supported coverage report format.
type CoverageType string

const (
	Cobertura     CoverageType = "cobertura"
	LCOV          CoverageType = "lcov"
	JaCoCo        CoverageType = "jacoco"
	DiffCoverJSON CoverageType = "diff_cover_json"
)

// ReportDescriptor carries everything one parse call needs. It is
// immutable for the lifetime of the call; parsers never retain it.
type ReportDescriptor struct {
	// ReportPath is the coverage report file on disk.
	ReportPath string
	// SourceFilePath is the source file whose coverage is requested.
	SourceFilePath string
	// Format selects the parser.
	Format CoverageType
	// UseReportCoverage switches Cobertura into bulk mode (per-file
	// results for every file in the report) and disables the
	// diff_cover_json format.
	UseReportCoverage bool
	// DiffCoverageReportPath is only read by the diff_cover_json parser.
	DiffCoverageReportPath string
}

// Outcome is the result of one parse call. Exactly one field is set:
// Result for single-file modes, Bulk for Cobertura bulk mode.
type Outcome struct {
	Result *model.CoverageResult
	Bulk   model.BulkCoverage
}

// Parser is the contract every format parser implements.
type Parser interface {
	Name() string
	Format() CoverageType
	Parse(desc ReportDescriptor) (*Outcome, error)
}
