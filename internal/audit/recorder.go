// Package audit records security-relevant events to the append-only trail
// and exports them for offline review.
package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/shruthikaa3007/secure-document-vault/internal/domain"
	"github.com/shruthikaa3007/secure-document-vault/internal/errs"
	"github.com/shruthikaa3007/secure-document-vault/internal/store"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.uber.org/zap"
)

// RequestMeta carries the transport-level context of an action. System
// events leave it empty.
type RequestMeta struct {
	IPAddress string
	UserAgent string
}

// Recorder is the write and query surface over the audit trail.
type Recorder struct {
	store store.AuditStore
	log   *zap.Logger
}

// NewRecorder creates a Recorder over the given audit store.
func NewRecorder(auditStore store.AuditStore, log *zap.Logger) *Recorder {
	return &Recorder{store: auditStore, log: log}
}

// Record appends one entry. userID is nil for system-generated events.
func (r *Recorder) Record(ctx context.Context, userID *bson.ObjectID, action domain.AuditAction, details bson.M, meta RequestMeta) error {
	entry := &domain.AuditEntry{
		UserID:    userID,
		Action:    action,
		Details:   details,
		IPAddress: meta.IPAddress,
		UserAgent: meta.UserAgent,
		CreatedAt: time.Now().UTC(),
	}
	if err := r.store.Insert(ctx, entry); err != nil {
		return fmt.Errorf("failed to record audit entry %s: %w", action, err)
	}
	return nil
}

// List queries the trail with filters and pagination, newest first by
// default. Requires the view-logs permission or an elevated role.
func (r *Recorder) List(ctx context.Context, p *domain.Principal, filter store.AuditFilter, opts store.ListOptions) ([]*domain.AuditEntry, store.Pagination, error) {
	if !p.Elevated() && !p.HasPermission(domain.PermViewLogs) {
		return nil, store.Pagination{}, errs.Forbidden("You do not have permission to view audit logs")
	}
	entries, page, err := r.store.List(ctx, filter, opts)
	if err != nil {
		return nil, store.Pagination{}, errs.FromStoreError(err)
	}
	return entries, page, nil
}

// Clear is the distinct privileged bulk operation: it wipes the whole trail.
// Individual entries are never deleted.
func (r *Recorder) Clear(ctx context.Context, p *domain.Principal) (int64, error) {
	if !p.HasPermission(domain.PermManageLogs) && p.Role != domain.RoleSuperadmin {
		return 0, errs.Forbidden("You do not have permission to clear audit logs")
	}
	removed, err := r.store.DeleteAll(ctx)
	if err != nil {
		return 0, errs.FromStoreError(err)
	}
	r.log.Info("audit trail cleared",
		zap.String("clearedBy", p.ID.Hex()),
		zap.Int64("removed", removed))
	return removed, nil
}
