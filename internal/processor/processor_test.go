package processor

import (
	"bytes"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"covnorm/internal/parser"
)

// mockFileInfo implements fs.FileInfo with a fixed mtime.
type mockFileInfo struct {
	name    string
	modTime time.Time
}

func (m mockFileInfo) Name() string       { return m.name }
func (m mockFileInfo) Size() int64        { return 0 }
func (m mockFileInfo) Mode() fs.FileMode  { return 0 }
func (m mockFileInfo) ModTime() time.Time { return m.modTime }
func (m mockFileInfo) IsDir() bool        { return false }
func (m mockFileInfo) Sys() interface{}   { return nil }

// mockFS simulates report files with arbitrary mtimes.
type mockFS struct {
	files map[string]time.Time
}

func (m *mockFS) Stat(name string) (fs.FileInfo, error) {
	modTime, ok := m.files[name]
	if !ok {
		return nil, os.ErrNotExist
	}
	return mockFileInfo{name: filepath.Base(name), modTime: modTime}, nil
}

func (m *mockFS) Getwd() (string, error) {
	return "/work", nil
}

func (m *mockFS) Abs(path string) (string, error) {
	if filepath.IsAbs(path) {
		return path, nil
	}
	return filepath.Join("/work", path), nil
}

func TestVerifyReportUpdate(t *testing.T) {
	desc := parser.ReportDescriptor{
		ReportPath: "coverage.xml",
		Format:     parser.Cobertura,
	}

	t.Run("MissingReportIsFatal", func(t *testing.T) {
		p := New(desc, &mockFS{files: map[string]time.Time{}}, nil)

		err := p.VerifyReportUpdate(0)

		assert.ErrorIs(t, err, parser.ErrReportMissing)
	})

	t.Run("StaleReportWarnsButPasses", func(t *testing.T) {
		reportTime := time.UnixMilli(1000)
		fsys := &mockFS{files: map[string]time.Time{"coverage.xml": reportTime}}
		var logBuf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&logBuf, nil))
		p := New(desc, fsys, logger)

		err := p.VerifyReportUpdate(2000)

		require.NoError(t, err)
		assert.Contains(t, logBuf.String(), "not updated after the test command")
	})

	t.Run("FreshReportIsSilent", func(t *testing.T) {
		reportTime := time.UnixMilli(3000)
		fsys := &mockFS{files: map[string]time.Time{"coverage.xml": reportTime}}
		var logBuf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&logBuf, nil))
		p := New(desc, fsys, logger)

		err := p.VerifyReportUpdate(2000)

		require.NoError(t, err)
		assert.Empty(t, logBuf.String())
	})

	t.Run("EqualTimestampsStillWarn", func(t *testing.T) {
		// Freshness requires strictly greater mtime.
		reportTime := time.UnixMilli(2000)
		fsys := &mockFS{files: map[string]time.Time{"coverage.xml": reportTime}}
		var logBuf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&logBuf, nil))
		p := New(desc, fsys, logger)

		err := p.VerifyReportUpdate(2000)

		require.NoError(t, err)
		assert.Contains(t, logBuf.String(), "not updated after the test command")
	})
}

func TestParseReport_Dispatch(t *testing.T) {
	t.Run("UnknownFormat", func(t *testing.T) {
		p := New(parser.ReportDescriptor{Format: "unknown"}, nil, nil)

		_, err := p.ParseReport()

		var unsupported *parser.UnsupportedFormatError
		require.True(t, errors.As(err, &unsupported))
		assert.Contains(t, unsupported.Error(), "unknown")
	})

	t.Run("DiffCoverJSONUnreachableInBulkMode", func(t *testing.T) {
		p := New(parser.ReportDescriptor{
			Format:            parser.DiffCoverJSON,
			UseReportCoverage: true,
		}, nil, nil)

		_, err := p.ParseReport()

		var unsupported *parser.UnsupportedFormatError
		assert.True(t, errors.As(err, &unsupported))
	})
}

func TestProcessReport_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	reportPath := filepath.Join(dir, "coverage.xml")
	report := `<?xml version="1.0"?>
<coverage>
  <packages><package name="app"><classes>
    <class name="mod" filename="app/a.py">
      <lines>
        <line number="1" hits="1"/>
        <line number="2" hits="0"/>
        <line number="3" hits="1"/>
      </lines>
    </class>
  </classes></package></packages>
</coverage>`
	require.NoError(t, os.WriteFile(reportPath, []byte(report), 0o644))

	t.Run("SingleFile", func(t *testing.T) {
		p := New(parser.ReportDescriptor{
			ReportPath:     reportPath,
			SourceFilePath: "/repo/app/a.py",
			Format:         parser.Cobertura,
		}, nil, nil)

		outcome, err := p.ProcessReport(0)

		require.NoError(t, err)
		require.NotNil(t, outcome.Result)
		assert.Equal(t, []int{1, 3}, outcome.Result.CoveredLines)
		assert.Equal(t, []int{2}, outcome.Result.MissedLines)
		assert.InDelta(t, 2.0/3.0, outcome.Result.Ratio, 1e-9)
	})

	t.Run("Bulk", func(t *testing.T) {
		p := New(parser.ReportDescriptor{
			ReportPath:        reportPath,
			Format:            parser.Cobertura,
			UseReportCoverage: true,
		}, nil, nil)

		outcome, err := p.ProcessReport(0)

		require.NoError(t, err)
		require.NotNil(t, outcome.Bulk)
		assert.Contains(t, outcome.Bulk, "app/a.py")
	})

	t.Run("MissingReport", func(t *testing.T) {
		p := New(parser.ReportDescriptor{
			ReportPath:     filepath.Join(dir, "absent.xml"),
			SourceFilePath: "a.py",
			Format:         parser.Cobertura,
		}, nil, nil)

		_, err := p.ProcessReport(0)

		assert.ErrorIs(t, err, parser.ErrReportMissing)
	})
}
