package model

import "sort"

// CoverageResult is the normalized view of one source file's coverage:
// the line numbers that were executed, the line numbers that were not,
// and the resulting line-coverage ratio in [0,1].
//
// CoveredLines and MissedLines are sorted ascending and disjoint.
// Aggregate-only report formats (JaCoCo CSV) cannot enumerate individual
// lines; for those the slices are nil and only Ratio is meaningful.
type CoverageResult struct {
	CoveredLines []int
	MissedLines  []int
	Ratio        float64
}

// BulkCoverage maps a file identifier, exactly as it appears in the
// report, to that file's CoverageResult.
type BulkCoverage map[string]CoverageResult

// SourceIdentity holds the package and primary type name extracted from a
// source file. Either field may be empty when no declaration matched.
type SourceIdentity struct {
	Package  string
	TypeName string
}

// NewResult reconciles raw covered/missed line sets into a CoverageResult.
// A line reported covered by any record wins over a missed report of the
// same line, so reports with overlapping entries for one physical line
// (e.g. Cobertura emitting several <class> fragments per file) still
// produce disjoint sets.
func NewResult(covered, missed map[int]struct{}) CoverageResult {
	var missedLines []int
	for ln := range missed {
		if _, ok := covered[ln]; ok {
			continue
		}
		missedLines = append(missedLines, ln)
	}
	coveredLines := make([]int, 0, len(covered))
	for ln := range covered {
		coveredLines = append(coveredLines, ln)
	}
	sort.Ints(coveredLines)
	sort.Ints(missedLines)

	result := CoverageResult{
		CoveredLines: coveredLines,
		MissedLines:  missedLines,
	}
	if total := len(coveredLines) + len(missedLines); total > 0 {
		result.Ratio = float64(len(coveredLines)) / float64(total)
	}
	return result
}

// NewAggregateResult builds a CoverageResult from covered/missed line
// counts alone, for formats that only report totals. The line slices stay
// nil because no per-line identity exists.
func NewAggregateResult(coveredCount, missedCount int) CoverageResult {
	var result CoverageResult
	if total := coveredCount + missedCount; total > 0 {
		result.Ratio = float64(coveredCount) / float64(total)
	}
	return result
}
