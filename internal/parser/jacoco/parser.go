package jacoco

import (
	"encoding/csv"
	"encoding/xml"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"covnorm/internal/filereader"
	"covnorm/internal/inputxml"
	"covnorm/internal/model"
	"covnorm/internal/parser"
	"covnorm/internal/sourceid"
	"covnorm/internal/utils"
)

// JacocoParser implements the parser.Parser interface for JaCoCo
// reports. JaCoCo aggregates at the class level, so the parser first
// extracts the package and type name from the source file, then resolves
// coverage from either the XML or the CSV rendering of the report.
type JacocoParser struct {
	reader filereader.Reader
}

// New creates a new JacocoParser reading source files through the given
// Reader.
func New(reader filereader.Reader) parser.Parser {
	return &JacocoParser{reader: reader}
}

func init() {
	parser.RegisterParser(New(filereader.DiskReader{}))
}

func (jp *JacocoParser) Name() string {
	return "JaCoCo"
}

func (jp *JacocoParser) Format() parser.CoverageType {
	return parser.JaCoCo
}

func (jp *JacocoParser) Parse(desc parser.ReportDescriptor) (*parser.Outcome, error) {
	identity, err := jp.extractIdentity(desc.SourceFilePath)
	if err != nil {
		return nil, err
	}

	switch ext := utils.FileExtension(desc.ReportPath); ext {
	case "xml":
		covered, missed, err := jp.parseXMLLines(desc.ReportPath, identity.TypeName)
		if err != nil {
			return nil, err
		}
		result := model.NewResult(covered, missed)
		return &parser.Outcome{Result: &result}, nil
	case "csv":
		missedCount, coveredCount, err := jp.parseCSVCounts(desc.ReportPath, identity.Package, identity.TypeName)
		if err != nil {
			return nil, err
		}
		// CSV carries totals only; no per-line detail exists in this mode.
		result := model.NewAggregateResult(coveredCount, missedCount)
		return &parser.Outcome{Result: &result}, nil
	default:
		return nil, &parser.UnsupportedFormatError{Value: ext}
	}
}

// extractIdentity picks the pattern set by source language. Unknown
// extensions fall back to the Java patterns with a warning.
func (jp *JacocoParser) extractIdentity(sourcePath string) (model.SourceIdentity, error) {
	switch ext := utils.FileExtension(sourcePath); ext {
	case "java":
		return sourceid.ExtractJava(sourcePath, jp.reader)
	case "kt":
		return sourceid.ExtractKotlin(sourcePath, jp.reader)
	default:
		slog.Warn("unsupported bytecode language, using Java extraction", "extension", ext, "path", sourcePath)
		return sourceid.ExtractJava(sourcePath, jp.reader)
	}
}

// parseXMLLines locates the sourcefile element named after the extracted
// type (trying the .java then the .kt suffix) and classifies its lines:
// zero missed instructions (mi="0") means the line is covered. A report
// without a matching sourcefile yields empty sets, not an error.
func (jp *JacocoParser) parseXMLLines(path, typeName string) (map[int]struct{}, map[int]struct{}, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening JaCoCo report %s: %w", path, err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, nil, fmt.Errorf("reading JaCoCo report %s: %w", path, err)
	}
	var root inputxml.JacocoRoot
	if err := xml.Unmarshal(data, &root); err != nil {
		return nil, nil, &parser.MalformedReportError{Path: path, Reason: "invalid XML", Err: err}
	}

	sourceFile := findSourceFile(&root, typeName+".java")
	if sourceFile == nil {
		sourceFile = findSourceFile(&root, typeName+".kt")
	}
	covered := make(map[int]struct{})
	missed := make(map[int]struct{})
	if sourceFile == nil {
		return covered, missed, nil
	}

	for _, line := range sourceFile.Lines {
		number, err := strconv.Atoi(line.Nr)
		if err != nil || number <= 0 {
			continue
		}
		if line.Mi == "0" {
			covered[number] = struct{}{}
		} else {
			missed[number] = struct{}{}
		}
	}
	return covered, missed, nil
}

func findSourceFile(root *inputxml.JacocoRoot, name string) *inputxml.JacocoSourceFile {
	for _, sf := range root.AllSourceFiles() {
		if sf.Name == name {
			return &sf
		}
	}
	return nil
}

// parseCSVCounts scans the CSV rendering for the first row whose PACKAGE
// and CLASS columns match exactly, and returns its LINE_MISSED and
// LINE_COVERED totals.
func (jp *JacocoParser) parseCSVCounts(path, packageName, className string) (int, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, fmt.Errorf("opening JaCoCo report %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err == io.EOF {
		return 0, 0, nil
	}
	if err != nil {
		return 0, 0, &parser.MalformedReportError{Path: path, Reason: "invalid CSV header", Err: err}
	}
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[name] = i
	}
	for _, required := range []string{"PACKAGE", "CLASS", "LINE_MISSED", "LINE_COVERED"} {
		if _, ok := columns[required]; !ok {
			return 0, 0, &parser.MalformedReportError{Path: path, Reason: fmt.Sprintf("missing expected column %s", required)}
		}
	}

	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, 0, &parser.MalformedReportError{Path: path, Reason: "invalid CSV row", Err: err}
		}
		if len(row) < len(header) {
			continue
		}
		if row[columns["PACKAGE"]] != packageName || row[columns["CLASS"]] != className {
			continue
		}
		missedCount, errMissed := strconv.Atoi(row[columns["LINE_MISSED"]])
		coveredCount, errCovered := strconv.Atoi(row[columns["LINE_COVERED"]])
		if errMissed != nil || errCovered != nil {
			return 0, 0, &parser.MalformedReportError{Path: path, Reason: fmt.Sprintf("invalid line counts for %s.%s", packageName, className)}
		}
		return missedCount, coveredCount, nil
	}
	return 0, 0, nil
}
