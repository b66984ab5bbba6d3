package filereader

import (
	"bufio"
	"bytes"
	"io"
	"os"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Reader reads text files line by line. The abstraction exists for
// dependency injection: parsing logic is unit-tested against in-memory
// readers while production code reads from disk.
type Reader interface {
	// ReadFile reads all lines from the file at the given path.
	ReadFile(path string) ([]string, error)
}

// DiskReader is the production Reader. It sniffs a byte-order mark to
// handle reports and source files written by toolchains that emit UTF-8
// BOM or UTF-16 output, and decodes through x/text when one is found.
type DiskReader struct{}

func (DiskReader) ReadFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	bom := make([]byte, 3)
	n, err := f.Read(bom)
	if err != nil && err != io.EOF {
		return nil, err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	var reader io.Reader = f
	if enc := detectEncoding(bom[:n]); enc != nil {
		reader = transform.NewReader(f, enc.NewDecoder())
	}

	var lines []string
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	return lines, scanner.Err()
}

// detectEncoding inspects the first bytes of a file for a BOM. A nil
// return means no BOM was found and the content is treated as UTF-8.
func detectEncoding(bom []byte) encoding.Encoding {
	switch {
	case len(bom) >= 3 && bytes.Equal(bom[:3], []byte{0xEF, 0xBB, 0xBF}):
		return unicode.UTF8BOM
	case len(bom) >= 2 && bom[0] == 0xFF && bom[1] == 0xFE:
		return unicode.UTF16(unicode.LittleEndian, unicode.UseBOM)
	case len(bom) >= 2 && bom[0] == 0xFE && bom[1] == 0xFF:
		return unicode.UTF16(unicode.BigEndian, unicode.UseBOM)
	}
	return nil
}
