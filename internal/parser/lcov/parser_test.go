package lcov

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"covnorm/internal/parser"
)

// mockReader serves file contents from memory.
type mockReader struct {
	files map[string]string
}

func (m *mockReader) ReadFile(path string) ([]string, error) {
	content, ok := m.files[path]
	if !ok {
		return nil, errors.New("file not found: " + path)
	}
	return strings.Split(content, "\n"), nil
}

func TestParse(t *testing.T) {
	t.Run("ClassifiesDALinesByHits", func(t *testing.T) {
		reader := &mockReader{files: map[string]string{
			"lcov.info": "SF:foo.c\nDA:10,0\nDA:11,3\nend_of_record\n",
		}}
		p := New(reader)

		outcome, err := p.Parse(parser.ReportDescriptor{
			ReportPath:     "lcov.info",
			SourceFilePath: "/src/foo.c",
			Format:         parser.LCOV,
		})

		require.NoError(t, err)
		assert.Equal(t, []int{11}, outcome.Result.CoveredLines)
		assert.Equal(t, []int{10}, outcome.Result.MissedLines)
		assert.InDelta(t, 0.5, outcome.Result.Ratio, 1e-9)
	})

	t.Run("OnlyFirstMatchingSFBlockIsUsed", func(t *testing.T) {
		reader := &mockReader{files: map[string]string{
			"lcov.info": strings.Join([]string{
				"SF:foo.c",
				"DA:1,1",
				"DA:2,0",
				"end_of_record",
				"SF:foo.c",
				"DA:1,0",
				"DA:2,1",
				"DA:3,1",
				"end_of_record",
			}, "\n"),
		}}
		p := New(reader)

		outcome, err := p.Parse(parser.ReportDescriptor{
			ReportPath:     "lcov.info",
			SourceFilePath: "foo.c",
			Format:         parser.LCOV,
		})

		require.NoError(t, err)
		assert.Equal(t, []int{1}, outcome.Result.CoveredLines)
		assert.Equal(t, []int{2}, outcome.Result.MissedLines)
	})

	t.Run("SFSuffixMatchToleratesPathPrefix", func(t *testing.T) {
		reader := &mockReader{files: map[string]string{
			"lcov.info": "SF:/home/ci/build/src/foo.c\nDA:4,1\nend_of_record\n",
		}}
		p := New(reader)

		outcome, err := p.Parse(parser.ReportDescriptor{
			ReportPath:     "lcov.info",
			SourceFilePath: "foo.c",
			Format:         parser.LCOV,
		})

		require.NoError(t, err)
		assert.Equal(t, []int{4}, outcome.Result.CoveredLines)
	})

	t.Run("NonMatchingBlocksAreSkipped", func(t *testing.T) {
		reader := &mockReader{files: map[string]string{
			"lcov.info": strings.Join([]string{
				"SF:bar.c",
				"DA:1,1",
				"end_of_record",
				"SF:foo.c",
				"DA:2,1",
				"end_of_record",
			}, "\n"),
		}}
		p := New(reader)

		outcome, err := p.Parse(parser.ReportDescriptor{
			ReportPath:     "lcov.info",
			SourceFilePath: "foo.c",
			Format:         parser.LCOV,
		})

		require.NoError(t, err)
		assert.Equal(t, []int{2}, outcome.Result.CoveredLines)
		assert.Empty(t, outcome.Result.MissedLines)
	})

	t.Run("ExtraDAFieldsAreTolerated", func(t *testing.T) {
		// Some lcov writers emit DA:<line>,<hits>,<checksum>.
		reader := &mockReader{files: map[string]string{
			"lcov.info": "SF:foo.c\nDA:8,5,abc123\nend_of_record\n",
		}}
		p := New(reader)

		outcome, err := p.Parse(parser.ReportDescriptor{
			ReportPath:     "lcov.info",
			SourceFilePath: "foo.c",
			Format:         parser.LCOV,
		})

		require.NoError(t, err)
		assert.Equal(t, []int{8}, outcome.Result.CoveredLines)
	})

	t.Run("NoMatchingBlockYieldsEmptyResult", func(t *testing.T) {
		reader := &mockReader{files: map[string]string{
			"lcov.info": "SF:bar.c\nDA:1,1\nend_of_record\n",
		}}
		p := New(reader)

		outcome, err := p.Parse(parser.ReportDescriptor{
			ReportPath:     "lcov.info",
			SourceFilePath: "foo.c",
			Format:         parser.LCOV,
		})

		require.NoError(t, err)
		assert.Empty(t, outcome.Result.CoveredLines)
		assert.Empty(t, outcome.Result.MissedLines)
		assert.Zero(t, outcome.Result.Ratio)
	})

	t.Run("ReadErrorPropagates", func(t *testing.T) {
		p := New(&mockReader{files: map[string]string{}})

		_, err := p.Parse(parser.ReportDescriptor{
			ReportPath:     "missing.info",
			SourceFilePath: "foo.c",
			Format:         parser.LCOV,
		})

		assert.Error(t, err)
	})

	t.Run("MalformedDARecord", func(t *testing.T) {
		reader := &mockReader{files: map[string]string{
			"lcov.info": "SF:foo.c\nDA:notanumber,1\nend_of_record\n",
		}}
		p := New(reader)

		_, err := p.Parse(parser.ReportDescriptor{
			ReportPath:     "lcov.info",
			SourceFilePath: "foo.c",
			Format:         parser.LCOV,
		})

		var malformed *parser.MalformedReportError
		assert.True(t, errors.As(err, &malformed))
	})
}
