package parser

var registeredParsers = map[CoverageType]Parser{}

// RegisterParser adds a parser to the set of available parsers.
// Each parser implementation calls this from its init() function.
func RegisterParser(p Parser) {
	registeredParsers[p.Format()] = p
}

// FindParser selects the parser for the declared format. The
// diff_cover_json format is only reachable when the report-coverage
// feature flag is disabled; everything else behaves identically under
// both flag states.
func FindParser(format CoverageType, useReportCoverage bool) (Parser, error) {
	if useReportCoverage && format == DiffCoverJSON {
		return nil, &UnsupportedFormatError{Value: string(format)}
	}
	p, ok := registeredParsers[format]
	if !ok {
		return nil, &UnsupportedFormatError{Value: string(format)}
	}
	return p, nil
}
