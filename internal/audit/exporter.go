package audit

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/shruthikaa3007/secure-document-vault/internal/domain"
	"github.com/shruthikaa3007/secure-document-vault/internal/storage"
	"github.com/shruthikaa3007/secure-document-vault/internal/store"
)

// exportBatchSize is how many entries one store round trip fetches during an
// export.
const exportBatchSize = 500

// Exporter writes audit entries as CSV files into the log-exports container.
type Exporter struct {
	store   store.AuditStore
	locator *storage.Locator
}

// NewExporter creates an Exporter over the given store and container layout.
func NewExporter(auditStore store.AuditStore, locator *storage.Locator) *Exporter {
	return &Exporter{store: auditStore, locator: locator}
}

// Export streams every entry matching the filter into a timestamped CSV file
// and returns its path. The file is removed again if the export fails
// midway.
func (e *Exporter) Export(ctx context.Context, filter store.AuditFilter) (string, error) {
	if err := e.locator.EnsureContainer(storage.ContainerLogExports); err != nil {
		return "", err
	}

	path := e.locator.ExportPath(fmt.Sprintf("audit-logs-%s.csv", time.Now().UTC().Format("2006-01-02T15-04-05")))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create export file: %w", err)
	}

	if err := e.writeAll(ctx, f, filter); err != nil {
		f.Close()
		os.Remove(path)
		return "", err
	}

	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to finalize export file: %w", err)
	}
	return path, nil
}

func (e *Exporter) writeAll(ctx context.Context, f *os.File, filter store.AuditFilter) error {
	w := csv.NewWriter(f)
	if err := w.Write([]string{"timestamp", "userId", "action", "details", "ipAddress", "userAgent"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for page := int64(1); ; page++ {
		entries, pagination, err := e.store.List(ctx, filter, store.ListOptions{Page: page, Limit: exportBatchSize})
		if err != nil {
			return fmt.Errorf("failed to fetch audit entries: %w", err)
		}
		for _, entry := range entries {
			if err := w.Write(csvRecord(entry)); err != nil {
				return fmt.Errorf("failed to write CSV record: %w", err)
			}
		}
		if !pagination.HasNextPage {
			break
		}
	}

	w.Flush()
	return w.Error()
}

func csvRecord(entry *domain.AuditEntry) []string {
	userID := ""
	if entry.UserID != nil {
		userID = entry.UserID.Hex()
	}
	details := ""
	if len(entry.Details) > 0 {
		if data, err := json.Marshal(entry.Details); err == nil {
			details = string(data)
		}
	}
	return []string{
		entry.CreatedAt.UTC().Format(time.RFC3339),
		userID,
		string(entry.Action),
		details,
		entry.IPAddress,
		entry.UserAgent,
	}
}
