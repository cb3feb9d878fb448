package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Classification is a handling label attached to a document. It drives the
// access UI only; the core never enforces it as a confidentiality tier.
type Classification string

const (
	ClassificationPublic       Classification = "Public"
	ClassificationInternal     Classification = "Internal"
	ClassificationConfidential Classification = "Confidential"
	ClassificationRestricted   Classification = "Restricted"
)

// ValidClassification reports whether c is one of the four allowed labels.
func ValidClassification(c Classification) bool {
	switch c {
	case ClassificationPublic, ClassificationInternal, ClassificationConfidential, ClassificationRestricted:
		return true
	}
	return false
}

// AccessEntry grants a specific principal capabilities on one document,
// independent of ownership or role. A document never holds two entries for
// the same user; sharing twice replaces the existing entry.
type AccessEntry struct {
	User      bson.ObjectID `bson:"user" json:"user"`
	CanView   bool          `bson:"canView" json:"canView"`
	CanEdit   bool          `bson:"canEdit" json:"canEdit"`
	CanDelete bool          `bson:"canDelete" json:"canDelete"`
}

// Document represents one stored file. The plaintext never persists; only the
// encrypted blob exists on disk, under an opaque locator that is excluded from
// every client-facing serialization.
type Document struct {
	ID             bson.ObjectID  `bson:"_id,omitempty" json:"id"`
	FileName       string         `bson:"fileName" json:"fileName"`         // User-supplied display name
	FileType       string         `bson:"fileType" json:"fileType"`         // Detected MIME type
	MimeType       string         `bson:"mimeType" json:"mimeType"`         // MIME type as declared at upload
	OriginalName   string         `bson:"originalName" json:"originalName"` // Name of the uploaded file
	Tags           []string       `bson:"tags" json:"tags"`
	AutoTags       []string       `bson:"autoTags" json:"autoTags"` // AI-derived; kept separate from Tags
	Description    string         `bson:"description" json:"description"`
	Department     string         `bson:"department" json:"department"`
	Classification Classification `bson:"classification" json:"classification"`
	Owner          bson.ObjectID  `bson:"owner" json:"owner"`
	EncryptedPath  string         `bson:"encryptedPath" json:"-"` // Opaque storage locator. Never exposed to clients.
	Size           int64          `bson:"size" json:"size"`
	SummaryPreview string         `bson:"summaryPreview" json:"summaryPreview"`
	FileHash       string         `bson:"fileHash" json:"fileHash"` // sha256 of the plaintext; empty skips verification
	AccessControl  []AccessEntry  `bson:"accessControl" json:"accessControl"`
	CreatedAt      time.Time      `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time      `bson:"updatedAt" json:"updatedAt"`
}

// AccessEntryFor returns the ACL entry for the given user, if any.
func (d *Document) AccessEntryFor(userID bson.ObjectID) (AccessEntry, bool) {
	for _, entry := range d.AccessControl {
		if entry.User == userID {
			return entry, true
		}
	}
	return AccessEntry{}, false
}

// Grant adds or replaces the ACL entry for entry.User, preserving the
// one-entry-per-principal invariant. It reports whether an existing entry
// was replaced.
func (d *Document) Grant(entry AccessEntry) bool {
	for i := range d.AccessControl {
		if d.AccessControl[i].User == entry.User {
			d.AccessControl[i] = entry
			return true
		}
	}
	d.AccessControl = append(d.AccessControl, entry)
	return false
}

// Revoke removes the ACL entry for the given user and reports whether an
// entry existed.
func (d *Document) Revoke(userID bson.ObjectID) bool {
	for i := range d.AccessControl {
		if d.AccessControl[i].User == userID {
			d.AccessControl = append(d.AccessControl[:i], d.AccessControl[i+1:]...)
			return true
		}
	}
	return false
}
