package lcov

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"covnorm/internal/filereader"
	"covnorm/internal/model"
	"covnorm/internal/parser"
)

// LcovParser implements the parser.Parser interface for LCOV tracefiles.
// Only the first SF: block matching the target filename is read; later
// blocks for the same file are ignored.
type LcovParser struct {
	reader filereader.Reader
}

// New creates a new LcovParser reading through the given Reader.
func New(reader filereader.Reader) parser.Parser {
	return &LcovParser{reader: reader}
}

func init() {
	parser.RegisterParser(New(filereader.DiskReader{}))
}

func (lp *LcovParser) Name() string {
	return "LCOV"
}

func (lp *LcovParser) Format() parser.CoverageType {
	return parser.LCOV
}

func (lp *LcovParser) Parse(desc parser.ReportDescriptor) (*parser.Outcome, error) {
	lines, err := lp.reader.ReadFile(desc.ReportPath)
	if err != nil {
		slog.Error("error reading LCOV report", "path", desc.ReportPath, "error", err)
		return nil, fmt.Errorf("reading LCOV report %s: %w", desc.ReportPath, err)
	}

	filename := filepath.Base(desc.SourceFilePath)
	covered := make(map[int]struct{})
	missed := make(map[int]struct{})

	for i := 0; i < len(lines); i++ {
		record := strings.TrimSpace(lines[i])
		if !strings.HasPrefix(record, "SF:") || !strings.HasSuffix(record, filename) {
			continue
		}
		for i++; i < len(lines); i++ {
			record = strings.TrimSpace(lines[i])
			if strings.HasPrefix(record, "end_of_record") {
				break
			}
			if !strings.HasPrefix(record, "DA:") {
				continue
			}
			fields := strings.Split(strings.TrimPrefix(record, "DA:"), ",")
			if len(fields) < 2 {
				return nil, &parser.MalformedReportError{Path: desc.ReportPath, Reason: fmt.Sprintf("invalid DA record %q", record)}
			}
			number, errNum := strconv.Atoi(fields[0])
			hits, errHits := strconv.Atoi(fields[1])
			if errNum != nil || errHits != nil {
				return nil, &parser.MalformedReportError{Path: desc.ReportPath, Reason: fmt.Sprintf("invalid DA record %q", record)}
			}
			if hits > 0 {
				covered[number] = struct{}{}
			} else {
				missed[number] = struct{}{}
			}
		}
		// Only the first matching SF block counts.
		break
	}

	result := model.NewResult(covered, missed)
	return &parser.Outcome{Result: &result}, nil
}
