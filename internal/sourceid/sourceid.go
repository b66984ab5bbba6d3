// Package sourceid extracts a package name and primary type name from
// Java or Kotlin source text via line-pattern matching. This is a
// best-effort scan, not a grammar: multi-line declarations, keywords
// inside comments and nested types are unsupported.
package sourceid

import (
	"fmt"
	"log/slog"
	"regexp"

	"covnorm/internal/filereader"
	"covnorm/internal/model"
)

var (
	javaPackageRegex = regexp.MustCompile(`^\s*package\s+([\w\.]+)\s*;.*$`)
	javaTypeRegex    = regexp.MustCompile(`^\s*(?:(?:public|private|protected|static|final|abstract)\s+)*(?:class|interface|record)\s+(\w+)(?:(?:<|\().*?(?:>|\)|$))?(?:\s+extends|\s+implements|\s*\{|$)`)

	kotlinPackageRegex = regexp.MustCompile(`^\s*package\s+([\w.]+)\s*(?:;)?\s*(?://.*)?$`)
	kotlinTypeRegex    = regexp.MustCompile(`^\s*(?:public|internal|abstract|data|sealed|enum|open|final|private|protected)*\s*class\s+(\w+).*`)
)

// ExtractJava scans a Java source file for its package declaration and
// first class, interface or record declaration.
func ExtractJava(path string, reader filereader.Reader) (model.SourceIdentity, error) {
	return extract(path, reader, javaPackageRegex, javaTypeRegex)
}

// ExtractKotlin scans a Kotlin source file for its package declaration
// and first class declaration.
func ExtractKotlin(path string, reader filereader.Reader) (model.SourceIdentity, error) {
	return extract(path, reader, kotlinPackageRegex, kotlinTypeRegex)
}

// extract scans top to bottom; for each field the first matching line
// wins, and scanning stops once both fields are found.
func extract(path string, reader filereader.Reader, packageRegex, typeRegex *regexp.Regexp) (model.SourceIdentity, error) {
	lines, err := reader.ReadFile(path)
	if err != nil {
		slog.Error("error reading source file", "path", path, "error", err)
		return model.SourceIdentity{}, fmt.Errorf("reading source file %s: %w", path, err)
	}

	var identity model.SourceIdentity
	for _, line := range lines {
		if identity.Package == "" {
			if m := packageRegex.FindStringSubmatch(line); m != nil {
				identity.Package = m[1]
			}
		}
		if identity.TypeName == "" {
			if m := typeRegex.FindStringSubmatch(line); m != nil {
				identity.TypeName = m[1]
			}
		}
		if identity.Package != "" && identity.TypeName != "" {
			break
		}
	}
	return identity, nil
}
