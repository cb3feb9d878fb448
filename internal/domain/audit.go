package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// AuditAction enumerates the security-relevant events the vault core emits.
type AuditAction string

const (
	ActionDocumentUploaded       AuditAction = "DOCUMENT_UPLOADED"
	ActionDocumentDownloaded     AuditAction = "DOCUMENT_DOWNLOADED"
	ActionDocumentUpdated        AuditAction = "DOCUMENT_UPDATED"
	ActionDocumentDeleted        AuditAction = "DOCUMENT_DELETED"
	ActionDocumentShared         AuditAction = "DOCUMENT_SHARED"
	ActionDocumentAccessRevoked  AuditAction = "DOCUMENT_ACCESS_REVOKED"
	ActionHashVerificationFailed AuditAction = "DOCUMENT_HASH_VERIFICATION_FAILED"
)

// AuditEntry is one append-only record of a security-relevant action.
// Entries are never mutated or deleted individually; bulk clear is a distinct
// privileged operation.
type AuditEntry struct {
	ID        bson.ObjectID  `bson:"_id,omitempty" json:"id"`
	UserID    *bson.ObjectID `bson:"userId,omitempty" json:"userId,omitempty"` // nil for system-generated entries
	Action    AuditAction    `bson:"action" json:"action"`
	Details   bson.M         `bson:"details" json:"details"`
	IPAddress string         `bson:"ipAddress,omitempty" json:"ipAddress,omitempty"`
	UserAgent string         `bson:"userAgent,omitempty" json:"userAgent,omitempty"`
	CreatedAt time.Time      `bson:"createdAt" json:"createdAt"`
}
