// Package inputxml defines the raw unmarshal targets for the XML report
// formats. These structs mirror the documents on the wire; all attribute
// values stay strings and are converted by the parsers.
package inputxml

import "encoding/xml"

// CoberturaRoot is the root <coverage> element of a Cobertura report.
type CoberturaRoot struct {
	XMLName  xml.Name    `xml:"coverage"`
	Packages PackagesXML `xml:"packages"`
	Sources  SourcesXML  `xml:"sources"`
}

type SourcesXML struct {
	Source []string `xml:"source"`
}

type PackagesXML struct {
	Package []PackageXML `xml:"package"`
}

type PackageXML struct {
	Name    string     `xml:"name,attr"`
	Classes ClassesXML `xml:"classes"`
}

type ClassesXML struct {
	Class []ClassXML `xml:"class"`
}

type ClassXML struct {
	Name     string     `xml:"name,attr"`
	Filename string     `xml:"filename,attr"`
	Lines    LinesXML   `xml:"lines"`
	Methods  MethodsXML `xml:"methods"`
}

type MethodsXML struct {
	Method []MethodXML `xml:"method"`
}

type MethodXML struct {
	Name  string   `xml:"name,attr"`
	Lines LinesXML `xml:"lines"`
}

type LinesXML struct {
	Line []LineXML `xml:"line"`
}

type LineXML struct {
	Number string `xml:"number,attr"`
	Hits   string `xml:"hits,attr"`
}

// AllClasses flattens the package hierarchy into one class list, in
// document order.
func (r *CoberturaRoot) AllClasses() []ClassXML {
	var classes []ClassXML
	for _, pkg := range r.Packages.Package {
		classes = append(classes, pkg.Classes.Class...)
	}
	return classes
}

// JacocoRoot is the root <report> element of a JaCoCo XML report. Grouped
// aggregate reports nest packages one level deeper under <group>.
type JacocoRoot struct {
	XMLName  xml.Name           `xml:"report"`
	Groups   []JacocoGroupXML   `xml:"group"`
	Packages []JacocoPackageXML `xml:"package"`
}

type JacocoGroupXML struct {
	Name     string             `xml:"name,attr"`
	Packages []JacocoPackageXML `xml:"package"`
}

type JacocoPackageXML struct {
	Name        string             `xml:"name,attr"`
	SourceFiles []JacocoSourceFile `xml:"sourcefile"`
}

type JacocoSourceFile struct {
	Name  string          `xml:"name,attr"`
	Lines []JacocoLineXML `xml:"line"`
}

type JacocoLineXML struct {
	Nr string `xml:"nr,attr"`
	Mi string `xml:"mi,attr"`
	Ci string `xml:"ci,attr"`
}

// AllSourceFiles flattens groups and packages into one sourcefile list.
func (r *JacocoRoot) AllSourceFiles() []JacocoSourceFile {
	var files []JacocoSourceFile
	for _, grp := range r.Groups {
		for _, pkg := range grp.Packages {
			files = append(files, pkg.SourceFiles...)
		}
	}
	for _, pkg := range r.Packages {
		files = append(files, pkg.SourceFiles...)
	}
	return files
}
