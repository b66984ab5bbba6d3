package cobertura

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"covnorm/internal/inputxml"
	"covnorm/internal/model"
	"covnorm/internal/parser"
)

// CoberturaParser implements the parser.Parser interface for Cobertura
// XML reports. In single-file mode it extracts coverage for the target
// source file; with the report-coverage feature flag enabled it returns
// per-file results for every file in the report.
type CoberturaParser struct{}

// New creates a new CoberturaParser.
func New() parser.Parser {
	return &CoberturaParser{}
}

func init() {
	parser.RegisterParser(New())
}

func (cp *CoberturaParser) Name() string {
	return "Cobertura"
}

func (cp *CoberturaParser) Format() parser.CoverageType {
	return parser.Cobertura
}

func (cp *CoberturaParser) Parse(desc parser.ReportDescriptor) (*parser.Outcome, error) {
	root, err := cp.loadAndUnmarshal(desc.ReportPath)
	if err != nil {
		return nil, err
	}
	if desc.UseReportCoverage {
		return &parser.Outcome{Bulk: cp.collectAllFiles(root)}, nil
	}
	result := cp.collectFile(root, filepath.Base(desc.SourceFilePath))
	return &parser.Outcome{Result: &result}, nil
}

// collectFile aggregates coverage for every <class> whose filename
// attribute ends with the given filename. The suffix match tolerates
// path-prefix mismatches between the report and the caller.
func (cp *CoberturaParser) collectFile(root *inputxml.CoberturaRoot, filename string) model.CoverageResult {
	covered := make(map[int]struct{})
	missed := make(map[int]struct{})
	for _, cls := range root.AllClasses() {
		if cls.Filename == "" || !strings.HasSuffix(cls.Filename, filename) {
			continue
		}
		cp.classifyClassLines(cls, covered, missed)
	}
	return model.NewResult(covered, missed)
}

// collectAllFiles groups classes by their own filename attribute and
// reconciles each file's sets independently.
func (cp *CoberturaParser) collectAllFiles(root *inputxml.CoberturaRoot) model.BulkCoverage {
	type lineSets struct {
		covered map[int]struct{}
		missed  map[int]struct{}
	}
	fileMap := make(map[string]*lineSets)
	for _, cls := range root.AllClasses() {
		if cls.Filename == "" {
			continue
		}
		sets, ok := fileMap[cls.Filename]
		if !ok {
			sets = &lineSets{covered: make(map[int]struct{}), missed: make(map[int]struct{})}
			fileMap[cls.Filename] = sets
		}
		cp.classifyClassLines(cls, sets.covered, sets.missed)
	}

	bulk := make(model.BulkCoverage, len(fileMap))
	for filename, sets := range fileMap {
		bulk[filename] = model.NewResult(sets.covered, sets.missed)
	}
	return bulk
}

// classifyClassLines sorts every <line> under a class, including lines
// nested under its methods, into the covered or missed set based on the
// hits attribute.
func (cp *CoberturaParser) classifyClassLines(cls inputxml.ClassXML, covered, missed map[int]struct{}) {
	classify := func(lines []inputxml.LineXML) {
		for _, line := range lines {
			number, err := strconv.Atoi(line.Number)
			if err != nil || number <= 0 {
				continue
			}
			if hits, _ := strconv.Atoi(line.Hits); hits > 0 {
				covered[number] = struct{}{}
			} else {
				missed[number] = struct{}{}
			}
		}
	}
	classify(cls.Lines.Line)
	for _, method := range cls.Methods.Method {
		classify(method.Lines.Line)
	}
}

func (cp *CoberturaParser) loadAndUnmarshal(path string) (*inputxml.CoberturaRoot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening Cobertura report %s: %w", path, err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("reading Cobertura report %s: %w", path, err)
	}
	var root inputxml.CoberturaRoot
	if err := xml.Unmarshal(data, &root); err != nil {
		return nil, &parser.MalformedReportError{Path: path, Reason: "invalid XML", Err: err}
	}
	return &root, nil
}
