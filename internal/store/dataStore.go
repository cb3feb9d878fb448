package store

import (
	"context"
	"errors"
	"time"

	"github.com/shruthikaa3007/secure-document-vault/internal/domain"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Standard errors returned by the store layer. This allows the service layer
// to handle specific database errors without being coupled to the database
// implementation
var (
	ErrNotFound = errors.New("requested item not found")
	ErrConflict = errors.New("item already exists")
)

// ListOptions contains options for listing items, such as sorting and pagination.
// Sort uses the "-field" convention for descending order.
type ListOptions struct {
	Sort  string
	Page  int64
	Limit int64
}

// Pagination describes the slice of a result set a List call returned.
type Pagination struct {
	Total       int64 `json:"total"`
	Page        int64 `json:"page"`
	Limit       int64 `json:"limit"`
	TotalPages  int64 `json:"totalPages"`
	HasNextPage bool  `json:"hasNextPage"`
	HasPrevPage bool  `json:"hasPrevPage"`
}

// Paginate normalizes page/limit and computes the pagination summary for a
// total count.
func Paginate(opts ListOptions, total int64) Pagination {
	page := opts.Page
	if page < 1 {
		page = 1
	}
	limit := opts.Limit
	if limit < 1 {
		limit = 20
	}
	totalPages := (total + limit - 1) / limit
	return Pagination{
		Total:       total,
		Page:        page,
		Limit:       limit,
		TotalPages:  totalPages,
		HasNextPage: page < totalPages,
		HasPrevPage: page > 1,
	}
}

// DocumentFilter narrows a document listing. Zero values mean "no filter".
type DocumentFilter struct {
	Tags           []string
	Department     string
	Classification string
	// Query is a free-text search term matched against fileName, description
	// and tags.
	Query string
	// CreatedAfter/CreatedBefore bound the creation timestamp, inclusive.
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
	// AccessibleTo restricts results to documents the given user owns or
	// appears in the ACL of. This is the coarse pre-filter applied for
	// non-privileged principals: any ACL entry qualifies, not specifically
	// canView.
	AccessibleTo *bson.ObjectID
}

// DocumentStore defines the interface for document metadata operations. Any
// struct that implements these methods can back the vault core.
type DocumentStore interface {
	// Create inserts a new document record and populates its ID and timestamps.
	Create(ctx context.Context, doc *domain.Document) error

	// FindByID retrieves a document by its unique ID. It returns
	// store.ErrNotFound if no document exists.
	FindByID(ctx context.Context, id bson.ObjectID) (*domain.Document, error)

	// Update persists mutable fields of an existing document and refreshes
	// its updated timestamp.
	Update(ctx context.Context, doc *domain.Document) error

	// Delete removes the document record. It returns store.ErrNotFound if no
	// document exists.
	Delete(ctx context.Context, id bson.ObjectID) error

	// List retrieves documents matching the filter, paginated.
	List(ctx context.Context, filter DocumentFilter, opts ListOptions) ([]*domain.Document, Pagination, error)
}

// AuditFilter narrows an audit log listing.
type AuditFilter struct {
	Action    string
	UserID    *bson.ObjectID
	StartDate *time.Time
	EndDate   *time.Time
}

// AuditStore defines the interface for the append-only audit trail. There is
// deliberately no per-entry update or delete; clearing the trail is a single
// privileged bulk operation.
type AuditStore interface {
	Insert(ctx context.Context, entry *domain.AuditEntry) error
	List(ctx context.Context, filter AuditFilter, opts ListOptions) ([]*domain.AuditEntry, Pagination, error)
	// DeleteAll clears the trail and returns the number of removed entries.
	DeleteAll(ctx context.Context) (int64, error)
}

// DocumentCache is an advisory metadata cache in front of DocumentStore.
// Implementations return (nil, nil) on a miss; errors are logged by callers
// and never fail the underlying operation.
type DocumentCache interface {
	GetDocument(ctx context.Context, id bson.ObjectID) (*domain.Document, error)
	SetDocument(ctx context.Context, doc *domain.Document) error
	DeleteDocument(ctx context.Context, id bson.ObjectID) error
}
