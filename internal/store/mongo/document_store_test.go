package mongo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/shruthikaa3007/secure-document-vault/internal/store"
)

func TestBuildDocumentQueryEmpty(t *testing.T) {
	assert.Equal(t, bson.M{}, buildDocumentQuery(store.DocumentFilter{}))
}

func TestBuildDocumentQuerySimpleFilters(t *testing.T) {
	after := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	before := time.Date(2026, 6, 30, 23, 59, 59, 0, time.UTC)

	query := buildDocumentQuery(store.DocumentFilter{
		Tags:           []string{"finance", "q3"},
		Department:     "accounting",
		Classification: "Confidential",
		CreatedAfter:   &after,
		CreatedBefore:  &before,
	})

	assert.Equal(t, bson.M{"$in": []string{"finance", "q3"}}, query["tags"])
	assert.Equal(t, "accounting", query["department"])
	assert.Equal(t, "Confidential", query["classification"])
	assert.Equal(t, bson.M{"$gte": after, "$lte": before}, query["createdAt"])
}

func TestBuildDocumentQueryCombinesOrClausesUnderAnd(t *testing.T) {
	// The search term and the access pre-filter each produce an $or; merging
	// them into one map would overwrite one clause with the other.
	userID := bson.NewObjectID()
	query := buildDocumentQuery(store.DocumentFilter{
		Query:        "report",
		AccessibleTo: &userID,
	})

	and, ok := query["$and"].([]bson.M)
	require.True(t, ok, "expected an $and wrapper, got %v", query)
	require.Len(t, and, 3) // search $or, access $or, base filter

	search := and[0]["$or"].([]bson.M)
	assert.Equal(t, bson.M{"$regex": "report", "$options": "i"}, search[0]["fileName"])

	accessOr := and[1]["$or"].([]bson.M)
	assert.Equal(t, userID, accessOr[0]["owner"])
	assert.Equal(t, userID, accessOr[1]["accessControl.user"])
}

func TestBuildDocumentQueryAccessFilterAlone(t *testing.T) {
	userID := bson.NewObjectID()
	query := buildDocumentQuery(store.DocumentFilter{AccessibleTo: &userID})

	and, ok := query["$and"].([]bson.M)
	require.True(t, ok)
	accessOr := and[0]["$or"].([]bson.M)
	assert.Equal(t, userID, accessOr[0]["owner"])
}

func TestParseSort(t *testing.T) {
	tests := []struct {
		sort string
		want bson.D
	}{
		{"", bson.D{{Key: "createdAt", Value: -1}}},
		{"-createdAt", bson.D{{Key: "createdAt", Value: -1}}},
		{"fileName", bson.D{{Key: "fileName", Value: 1}}},
		{"-size", bson.D{{Key: "size", Value: -1}}},
	}

	for _, tt := range tests {
		t.Run(tt.sort, func(t *testing.T) {
			assert.Equal(t, tt.want, parseSort(tt.sort))
		})
	}
}
