package access

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/shruthikaa3007/secure-document-vault/internal/domain"
	"github.com/shruthikaa3007/secure-document-vault/internal/store"
)

func principal(id bson.ObjectID, role domain.Role) *domain.Principal {
	return &domain.Principal{ID: id, Role: role}
}

// Exercises the full decision matrix for a document owned by one user, shared
// view-only with a second, and untouched by a third.
func TestCanMatrix(t *testing.T) {
	owner := bson.NewObjectID()
	viewer := bson.NewObjectID()
	stranger := bson.NewObjectID()

	doc := &domain.Document{
		Owner: owner,
		AccessControl: []domain.AccessEntry{
			{User: viewer, CanView: true},
		},
	}

	tests := []struct {
		name string
		p    *domain.Principal
		cap  Capability
		want bool
	}{
		{"owner view", principal(owner, domain.RoleUser), CapabilityView, true},
		{"owner edit", principal(owner, domain.RoleUser), CapabilityEdit, true},
		{"owner delete", principal(owner, domain.RoleUser), CapabilityDelete, true},
		{"owner share", principal(owner, domain.RoleUser), CapabilityShare, true},

		{"viewer view", principal(viewer, domain.RoleUser), CapabilityView, true},
		{"viewer edit", principal(viewer, domain.RoleUser), CapabilityEdit, false},
		{"viewer delete", principal(viewer, domain.RoleUser), CapabilityDelete, false},
		{"viewer share", principal(viewer, domain.RoleUser), CapabilityShare, false},

		{"stranger view", principal(stranger, domain.RoleUser), CapabilityView, false},
		{"stranger edit", principal(stranger, domain.RoleUser), CapabilityEdit, false},
		{"stranger delete", principal(stranger, domain.RoleUser), CapabilityDelete, false},
		{"stranger share", principal(stranger, domain.RoleUser), CapabilityShare, false},

		{"admin view", principal(stranger, domain.RoleAdmin), CapabilityView, true},
		{"admin delete", principal(stranger, domain.RoleAdmin), CapabilityDelete, true},
		{"superadmin delete", principal(stranger, domain.RoleSuperadmin), CapabilityDelete, true},

		{"manager view", principal(stranger, domain.RoleManager), CapabilityView, true},
		{"manager edit", principal(stranger, domain.RoleManager), CapabilityEdit, true},
		{"manager share", principal(stranger, domain.RoleManager), CapabilityShare, true},
		{"manager delete unrelated", principal(stranger, domain.RoleManager), CapabilityDelete, false},
		{"manager delete own", principal(owner, domain.RoleManager), CapabilityDelete, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Can(tt.p, doc, tt.cap))
		})
	}
}

func TestManagerDeleteViaACLGrant(t *testing.T) {
	manager := bson.NewObjectID()
	doc := &domain.Document{
		Owner: bson.NewObjectID(),
		AccessControl: []domain.AccessEntry{
			{User: manager, CanDelete: true},
		},
	}
	assert.True(t, Can(principal(manager, domain.RoleManager), doc, CapabilityDelete))
}

func TestShareNeverGrantableThroughACL(t *testing.T) {
	user := bson.NewObjectID()
	doc := &domain.Document{
		Owner: bson.NewObjectID(),
		AccessControl: []domain.AccessEntry{
			{User: user, CanView: true, CanEdit: true, CanDelete: true},
		},
	}
	assert.False(t, Can(principal(user, domain.RoleUser), doc, CapabilityShare))
}

func TestListFilter(t *testing.T) {
	t.Run("user is scoped", func(t *testing.T) {
		p := principal(bson.NewObjectID(), domain.RoleUser)
		var filter store.DocumentFilter
		ListFilter(p, &filter)
		if assert.NotNil(t, filter.AccessibleTo) {
			assert.Equal(t, p.ID, *filter.AccessibleTo)
		}
	})

	for _, role := range []domain.Role{domain.RoleManager, domain.RoleAdmin, domain.RoleSuperadmin} {
		t.Run(string(role)+" sees everything", func(t *testing.T) {
			var filter store.DocumentFilter
			ListFilter(principal(bson.NewObjectID(), role), &filter)
			assert.Nil(t, filter.AccessibleTo)
		})
	}
}
