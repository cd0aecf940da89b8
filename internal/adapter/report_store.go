package adapter

import (
	"encoding/json"
	"os"
	"path/filepath"

	m "github.com/droidmod/gatepatch/internal/model"
)

// ReportStore persists and retrieves patch reports.
type ReportStore interface {
	Save(path m.Path, report m.PatchReport) error
	Load(path m.Path) (m.PatchReport, error)
}

type jsonReportStore struct{}

// NewReportStore constructs a JSON-file backed ReportStore.
func NewReportStore() ReportStore {
	return &jsonReportStore{}
}

func (s *jsonReportStore) Save(path m.Path, report m.PatchReport) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(string(path)), 0o755); err != nil {
		return err
	}

	return os.WriteFile(string(path), data, 0o644)
}

func (s *jsonReportStore) Load(path m.Path) (m.PatchReport, error) {
	data, err := os.ReadFile(string(path))
	if err != nil {
		return m.PatchReport{}, err
	}

	var report m.PatchReport

	if err := json.Unmarshal(data, &report); err != nil {
		return m.PatchReport{}, err
	}

	return report, nil
}
