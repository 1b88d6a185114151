package csvfile

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/couchcryptid/turkey-weather-etl/internal/domain"
	"github.com/google/renameio/v2"
)

// ReportFile stores the latest run report as indented JSON.
type ReportFile struct {
	path string
}

func NewReportFile(path string) *ReportFile {
	return &ReportFile{path: path}
}

func (f *ReportFile) PublishReport(_ context.Context, report domain.RunReport) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	data = append(data, '\n')
	if err := renameio.WriteFile(f.path, data, 0o644, renameio.WithTempDir(filepath.Dir(f.path))); err != nil {
		return fmt.Errorf("write report %s: %w", f.path, err)
	}
	return nil
}
