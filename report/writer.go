package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

type Writer struct {
	baseDir string
}

func NewWriter(baseDir string) (*Writer, error) {
	err := os.MkdirAll(baseDir, 0755)
	if err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	return &Writer{
		baseDir: baseDir,
	}, nil
}

// WriteEntries writes the entries to name as CSV and returns the file path.
func (w *Writer) WriteEntries(name string, entries []Entry) (string, error) {
	path := filepath.Join(w.baseDir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create report file: %w", err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)

	header := []string{"seq", "turn", "phase", "faction", "text"}
	err = writer.Write(header)
	if err != nil {
		return "", fmt.Errorf("failed to write report header: %w", err)
	}

	for _, e := range entries {
		row := []string{
			strconv.Itoa(e.Seq),
			strconv.Itoa(e.Turn),
			e.Phase,
			e.Faction,
			e.Text,
		}
		err = writer.Write(row)
		if err != nil {
			return "", fmt.Errorf("failed to write report row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", fmt.Errorf("failed to flush report: %w", err)
	}
	return path, nil
}
