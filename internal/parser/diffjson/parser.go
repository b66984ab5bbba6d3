package diffjson

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"covnorm/internal/filesystem"
	"covnorm/internal/model"
	"covnorm/internal/parser"
	"covnorm/internal/utils"
)

// DiffJSONParser implements the parser.Parser interface for diff-cover
// JSON reports. Entries are matched against the target source file by
// comparing trailing path components, which tolerates differing path
// roots between the report and the caller's filesystem view.
type DiffJSONParser struct {
	fs filesystem.Filesystem
}

// New creates a new DiffJSONParser resolving paths through the given
// Filesystem.
func New(fs filesystem.Filesystem) parser.Parser {
	return &DiffJSONParser{fs: fs}
}

func init() {
	parser.RegisterParser(New(filesystem.DefaultFS{}))
}

type diffCoverReport struct {
	SrcStats map[string]srcStats `json:"src_stats"`
}

type srcStats struct {
	CoveredLines   []int   `json:"covered_lines"`
	ViolationLines []int   `json:"violation_lines"`
	PercentCovered float64 `json:"percent_covered"`
}

func (dp *DiffJSONParser) Name() string {
	return "DiffCoverJSON"
}

func (dp *DiffJSONParser) Format() parser.CoverageType {
	return parser.DiffCoverJSON
}

func (dp *DiffJSONParser) Parse(desc parser.ReportDescriptor) (*parser.Outcome, error) {
	data, err := os.ReadFile(desc.DiffCoverageReportPath)
	if err != nil {
		return nil, fmt.Errorf("reading diff coverage report %s: %w", desc.DiffCoverageReportPath, err)
	}
	var report diffCoverReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, &parser.MalformedReportError{Path: desc.DiffCoverageReportPath, Reason: "invalid JSON", Err: err}
	}
	if report.SrcStats == nil {
		return nil, &parser.MalformedReportError{Path: desc.DiffCoverageReportPath, Reason: "missing src_stats object"}
	}

	target, err := dp.relativeComponents(desc.SourceFilePath)
	if err != nil {
		return nil, err
	}

	// Map order is not document order, so walk keys sorted to keep the
	// first-match-wins rule deterministic.
	keys := make([]string, 0, len(report.SrcStats))
	for key := range report.SrcStats {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if !utils.PathEndsWithComponents(key, target) {
			continue
		}
		stats := report.SrcStats[key]
		result := model.CoverageResult{
			CoveredLines: stats.CoveredLines,
			MissedLines:  stats.ViolationLines,
			// percent_covered is stored 0-100 in the report.
			Ratio: stats.PercentCovered / 100,
		}
		return &parser.Outcome{Result: &result}, nil
	}

	// No entry for the target file is a designed empty result, not an
	// error.
	return &parser.Outcome{Result: &model.CoverageResult{}}, nil
}

// relativeComponents expresses the target source path relative to the
// working directory and splits it into path components.
func (dp *DiffJSONParser) relativeComponents(sourcePath string) ([]string, error) {
	wd, err := dp.fs.Getwd()
	if err != nil {
		return nil, fmt.Errorf("resolving working directory: %w", err)
	}
	abs, err := dp.fs.Abs(sourcePath)
	if err != nil {
		return nil, fmt.Errorf("resolving source path %s: %w", sourcePath, err)
	}
	rel, err := filepath.Rel(wd, abs)
	if err != nil {
		rel = filepath.Clean(sourcePath)
	}
	return utils.SplitPathComponents(rel), nil
}
