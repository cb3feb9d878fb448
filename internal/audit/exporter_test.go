package audit

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/shruthikaa3007/secure-document-vault/internal/domain"
	"github.com/shruthikaa3007/secure-document-vault/internal/storage"
	"github.com/shruthikaa3007/secure-document-vault/internal/store"
)

func newExportLocator(t *testing.T) (*storage.Locator, string) {
	t.Helper()
	base := t.TempDir()
	exports := filepath.Join(base, "log_exports")
	return storage.NewLocator(filepath.Join(base, "uploads"), filepath.Join(base, "temp"), exports), exports
}

func TestExportWritesCSV(t *testing.T) {
	auditStore := new(mockAuditStore)
	locator, exportDir := newExportLocator(t)
	exporter := NewExporter(auditStore, locator)

	userID := bson.NewObjectID()
	entries := []*domain.AuditEntry{
		{
			UserID:    &userID,
			Action:    domain.ActionDocumentUploaded,
			Details:   bson.M{"fileName": "a.txt"},
			IPAddress: "10.0.0.1",
			UserAgent: "curl/8",
			CreatedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		},
		{
			Action:    domain.ActionHashVerificationFailed,
			CreatedAt: time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC),
		},
	}
	auditStore.On("List", mock.Anything, mock.Anything, mock.Anything).
		Return(entries, store.Pagination{Total: 2, HasNextPage: false}, nil)

	path, err := exporter.Export(context.Background(), store.AuditFilter{})
	require.NoError(t, err)
	assert.Equal(t, exportDir, filepath.Dir(path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)

	require.Len(t, records, 3)
	assert.Equal(t, []string{"timestamp", "userId", "action", "details", "ipAddress", "userAgent"}, records[0])
	assert.Equal(t, "2026-03-01T12:00:00Z", records[1][0])
	assert.Equal(t, userID.Hex(), records[1][1])
	assert.Equal(t, "DOCUMENT_UPLOADED", records[1][2])
	assert.Contains(t, records[1][3], `"fileName":"a.txt"`)
	assert.Equal(t, "10.0.0.1", records[1][4])

	// System entry: no user, no details.
	assert.Equal(t, "", records[2][1])
	assert.Equal(t, "", records[2][3])
	assert.Equal(t, "DOCUMENT_HASH_VERIFICATION_FAILED", records[2][2])
}

func TestExportPagesThroughResults(t *testing.T) {
	auditStore := new(mockAuditStore)
	locator, _ := newExportLocator(t)
	exporter := NewExporter(auditStore, locator)

	first := []*domain.AuditEntry{{Action: domain.ActionDocumentDeleted, CreatedAt: time.Now()}}
	second := []*domain.AuditEntry{{Action: domain.ActionDocumentShared, CreatedAt: time.Now()}}

	auditStore.On("List", mock.Anything, mock.Anything, store.ListOptions{Page: 1, Limit: exportBatchSize}).
		Return(first, store.Pagination{HasNextPage: true}, nil).Once()
	auditStore.On("List", mock.Anything, mock.Anything, store.ListOptions{Page: 2, Limit: exportBatchSize}).
		Return(second, store.Pagination{HasNextPage: false}, nil).Once()

	path, err := exporter.Export(context.Background(), store.AuditFilter{})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "DOCUMENT_DELETED")
	assert.Contains(t, string(data), "DOCUMENT_SHARED")
	auditStore.AssertExpectations(t)
}

func TestExportRemovesFileOnFailure(t *testing.T) {
	auditStore := new(mockAuditStore)
	locator, exportDir := newExportLocator(t)
	exporter := NewExporter(auditStore, locator)

	auditStore.On("List", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, store.Pagination{}, assert.AnError)

	_, err := exporter.Export(context.Background(), store.AuditFilter{})
	require.Error(t, err)

	files, readErr := os.ReadDir(exportDir)
	require.NoError(t, readErr)
	assert.Empty(t, files, "a failed export must not leave a partial file behind")
}
