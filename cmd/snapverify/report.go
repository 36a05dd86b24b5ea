package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ochairo/snapverify/internal/domain/entities"
)

// reportFile is the JSON form of a verification report
type reportFile struct {
	*entities.VerificationReport
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

func writeReport(path string, report *entities.VerificationReport) error {
	out := reportFile{
		VerificationReport: report,
		Success:            report.Success(),
	}
	if report.Error != nil {
		out.Error = report.Error.Error()
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0600); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
