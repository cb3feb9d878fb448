package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func TestGrantReplacesExistingEntry(t *testing.T) {
	user := bson.NewObjectID()
	doc := &Document{}

	replaced := doc.Grant(AccessEntry{User: user, CanView: true})
	assert.False(t, replaced)
	require.Len(t, doc.AccessControl, 1)

	replaced = doc.Grant(AccessEntry{User: user, CanView: true, CanEdit: true})
	assert.True(t, replaced)
	require.Len(t, doc.AccessControl, 1, "one entry per principal")
	assert.True(t, doc.AccessControl[0].CanEdit)
}

func TestRevoke(t *testing.T) {
	user := bson.NewObjectID()
	other := bson.NewObjectID()
	doc := &Document{AccessControl: []AccessEntry{{User: user}, {User: other}}}

	assert.True(t, doc.Revoke(user))
	assert.Len(t, doc.AccessControl, 1)
	assert.False(t, doc.Revoke(user), "revoking twice reports no entry")

	_, found := doc.AccessEntryFor(other)
	assert.True(t, found)
}

func TestValidClassification(t *testing.T) {
	for _, c := range []Classification{ClassificationPublic, ClassificationInternal, ClassificationConfidential, ClassificationRestricted} {
		assert.True(t, ValidClassification(c))
	}
	assert.False(t, ValidClassification("TopSecret"))
	assert.False(t, ValidClassification(""))
}

func TestEncryptedPathNeverSerializedToClients(t *testing.T) {
	doc := Document{FileName: "a.txt", EncryptedPath: "3f2a9c"}

	data, err := json.Marshal(doc)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "3f2a9c")
	assert.NotContains(t, string(data), "encryptedPath")
}
