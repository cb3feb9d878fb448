package mongo

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shruthikaa3007/secure-document-vault/internal/domain"
	"github.com/shruthikaa3007/secure-document-vault/internal/store"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// DocumentStore is the MongoDB implementation of store.DocumentStore.
type DocumentStore struct {
	collection *mongo.Collection
}

// NewDocumentStore returns a DocumentStore backed by the "documents" collection.
func NewDocumentStore(db *mongo.Database) *DocumentStore {
	return &DocumentStore{collection: db.Collection("documents")}
}

// Create inserts a new document record, assigning its ID and timestamps.
func (s *DocumentStore) Create(ctx context.Context, doc *domain.Document) error {
	now := time.Now().UTC()
	if doc.ID.IsZero() {
		doc.ID = bson.NewObjectID()
	}
	doc.CreatedAt = now
	doc.UpdatedAt = now

	if _, err := s.collection.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return store.ErrConflict
		}
		return err
	}
	return nil
}

// FindByID retrieves a single document by its ID.
func (s *DocumentStore) FindByID(ctx context.Context, id bson.ObjectID) (*domain.Document, error) {
	res := s.collection.FindOne(ctx, bson.M{"_id": id})
	if err := res.Err(); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}

	var doc domain.Document
	if err := res.Decode(&doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Update replaces the stored record with doc, refreshing its updated timestamp.
func (s *DocumentStore) Update(ctx context.Context, doc *domain.Document) error {
	doc.UpdatedAt = time.Now().UTC()

	res, err := s.collection.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

// Delete removes the document record.
func (s *DocumentStore) Delete(ctx context.Context, id bson.ObjectID) error {
	res, err := s.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

// List retrieves documents matching the filter, paginated and sorted.
func (s *DocumentStore) List(ctx context.Context, filter store.DocumentFilter, opts store.ListOptions) ([]*domain.Document, store.Pagination, error) {
	query := buildDocumentQuery(filter)

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

	var docs []*domain.Document
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, store.Pagination{}, err
	}

	return docs, page, nil
}

// buildDocumentQuery translates a store.DocumentFilter into a Mongo filter.
// Both the search term and the access pre-filter expand to $or clauses, so
// they are combined under $and to keep their semantics independent.
func buildDocumentQuery(filter store.DocumentFilter) bson.M {
	query := bson.M{}
	var and []bson.M

	if len(filter.Tags) > 0 {
		query["tags"] = bson.M{"$in": filter.Tags}
	}
	if filter.Department != "" {
		query["department"] = filter.Department
	}
	if filter.Classification != "" {
		query["classification"] = filter.Classification
	}

	if filter.CreatedAfter != nil || filter.CreatedBefore != nil {
		createdAt := bson.M{}
		if filter.CreatedAfter != nil {
			createdAt["$gte"] = *filter.CreatedAfter
		}
		if filter.CreatedBefore != nil {
			createdAt["$lte"] = *filter.CreatedBefore
		}
		query["createdAt"] = createdAt
	}

	if filter.Query != "" {
		and = append(and, bson.M{"$or": []bson.M{
			{"fileName": bson.M{"$regex": filter.Query, "$options": "i"}},
			{"tags": bson.M{"$in": []string{filter.Query}}},
			{"description": bson.M{"$regex": filter.Query, "$options": "i"}},
		}})
	}

	if filter.AccessibleTo != nil {
		// Deliberately coarse: presence of any ACL entry qualifies,
		// regardless of the canView flag.
		and = append(and, bson.M{"$or": []bson.M{
			{"owner": *filter.AccessibleTo},
			{"accessControl.user": *filter.AccessibleTo},
		}})
	}

	if len(and) > 0 {
		and = append(and, query)
		return bson.M{"$and": and}
	}
	return query
}

// parseSort turns a "-field" style sort expression into a Mongo sort document.
func parseSort(sort string) bson.D {
	if sort == "" {
		sort = "-createdAt"
	}
	order := 1
	field := sort
	if strings.HasPrefix(sort, "-") {
		order = -1
		field = strings.TrimPrefix(sort, "-")
	}
	return bson.D{{Key: field, Value: order}}
}
