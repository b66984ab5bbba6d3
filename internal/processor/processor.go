// Package processor orchestrates one coverage extraction: it verifies
// the report file exists and is fresh, then dispatches to the parser for
// the declared format.
package processor

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"covnorm/internal/filesystem"
	"covnorm/internal/parser"

	// Register the format parsers.
	_ "covnorm/internal/parser/cobertura"
	_ "covnorm/internal/parser/diffjson"
	_ "covnorm/internal/parser/jacoco"
	_ "covnorm/internal/parser/lcov"
)

// Processor runs the freshness guard and dispatch for one report
// descriptor. Each instance is a pure function of the report bytes and
// its descriptor; instances share no state and are safe to use from
// independent goroutines.
type Processor struct {
	desc   parser.ReportDescriptor
	fs     filesystem.Filesystem
	logger *slog.Logger
}

// New creates a Processor for one descriptor. A nil fs or logger falls
// back to the real filesystem and slog.Default().
func New(desc parser.ReportDescriptor, fsys filesystem.Filesystem, logger *slog.Logger) *Processor {
	if fsys == nil {
		fsys = filesystem.DefaultFS{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{desc: desc, fs: fsys, logger: logger}
}

// ProcessReport verifies the report's existence and update time, then
// parses it. timeOfTestCommandMs is when the test command producing the
// report started, in milliseconds since the epoch.
func (p *Processor) ProcessReport(timeOfTestCommandMs int64) (*parser.Outcome, error) {
	if err := p.VerifyReportUpdate(timeOfTestCommandMs); err != nil {
		return nil, err
	}
	return p.ParseReport()
}

// VerifyReportUpdate fails when the report file is absent. A report not
// modified after the test command is only logged: staleness is a soft
// check and parsing proceeds.
func (p *Processor) VerifyReportUpdate(timeOfTestCommandMs int64) error {
	info, err := p.fs.Stat(p.desc.ReportPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", parser.ErrReportMissing, p.desc.ReportPath)
		}
		return fmt.Errorf("stat coverage report %s: %w", p.desc.ReportPath, err)
	}
	if modMs := info.ModTime().UnixMilli(); modMs <= timeOfTestCommandMs {
		p.logger.Warn("coverage report was not updated after the test command",
			"report", p.desc.ReportPath,
			"file_mod_time_ms", modMs,
			"time_of_test_command_ms", timeOfTestCommandMs)
	}
	return nil
}

// ParseReport selects the parser for the descriptor's format and runs it.
func (p *Processor) ParseReport() (*parser.Outcome, error) {
	selected, err := parser.FindParser(p.desc.Format, p.desc.UseReportCoverage)
	if err != nil {
		return nil, err
	}
	return selected.Parse(p.desc)
}
