package digest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/artistritesh/Job-Alerts/internal/models"
)

// Archive writes the digest as job-alerts-YYYY-MM-DD.json under dir and
// returns the file path.
func Archive(dir string, d models.Digest) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create archive dir: %w", err)
	}

	filename := fmt.Sprintf("job-alerts-%s.json", d.GeneratedAt.Format("2006-01-02"))
	filePath := filepath.Join(dir, filename)

	data, err := json.MarshalIndent(d, "", " ")
	if err != nil {
		return "", fmt.Errorf("marshal digest: %w", err)
	}
	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return "", fmt.Errorf("write archive: %w", err)
	}
	return filePath, nil
}
