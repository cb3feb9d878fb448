package mongo

import (
	"context"
	"time"

	"github.com/shruthikaa3007/secure-document-vault/internal/domain"
	"github.com/shruthikaa3007/secure-document-vault/internal/store"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// AuditStore is the MongoDB implementation of store.AuditStore. Entries are
// append-only; the only mutation the collection ever sees is the privileged
// bulk clear.
type AuditStore struct {
	collection *mongo.Collection
}

// NewAuditStore returns an AuditStore backed by the "auditlogs" collection.
func NewAuditStore(db *mongo.Database) *AuditStore {
	return &AuditStore{collection: db.Collection("auditlogs")}
}

// Insert appends one entry to the trail.
func (s *AuditStore) Insert(ctx context.Context, entry *domain.AuditEntry) error {
	if entry.ID.IsZero() {
		entry.ID = bson.NewObjectID()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	_, err := s.collection.InsertOne(ctx, entry)
	return err
}

// List retrieves entries matching the filter, newest first by default.
func (s *AuditStore) List(ctx context.Context, filter store.AuditFilter, opts store.ListOptions) ([]*domain.AuditEntry, store.Pagination, error) {
	query := bson.M{}
	if filter.Action != "" {
		query["action"] = filter.Action
	}
	if filter.UserID != nil {
		query["userId"] = *filter.UserID
	}
	if filter.StartDate != nil || filter.EndDate != nil {
		createdAt := bson.M{}
		if filter.StartDate != nil {
			createdAt["$gte"] = *filter.StartDate
		}
		if filter.EndDate != nil {
			createdAt["$lte"] = *filter.EndDate
		}
		query["createdAt"] = createdAt
	}

	total, err := s.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, store.Pagination{}, err
	}
	page := store.Paginate(opts, total)

	findOptions := options.Find().
		SetSort(parseSort(opts.Sort)).
		SetSkip((page.Page - 1) * page.Limit).
		SetLimit(page.Limit)

	cursor, err := s.collection.Find(ctx, query, findOptions)
	if err != nil {
		return nil, store.Pagination{}, err
	}
	defer cursor.Close(ctx)

	var entries []*domain.AuditEntry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, store.Pagination{}, err
	}

	return entries, page, nil
}

// DeleteAll clears the trail and returns the number of removed entries.
func (s *AuditStore) DeleteAll(ctx context.Context) (int64, error) {
	res, err := s.collection.DeleteMany(ctx, bson.M{})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
