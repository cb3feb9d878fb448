// Package access centralizes every authorization decision over documents.
// Evaluation is state-free: a principal, a document's ownership and ACL, and
// the requested capability fully determine the outcome.
package access

import (
	"github.com/shruthikaa3007/secure-document-vault/internal/domain"
	"github.com/shruthikaa3007/secure-document-vault/internal/store"
)

// Capability is an operation a principal may request on a document.
type Capability string

const (
	CapabilityView   Capability = "view"
	CapabilityEdit   Capability = "edit"
	CapabilityDelete Capability = "delete"
	CapabilityShare  Capability = "share"
)

// Can evaluates whether the principal may perform the capability on the
// document. Rules apply in precedence order; the first match wins:
//
//  1. admin and superadmin are always permitted.
//  2. manager is permitted view/edit/share on any document; delete still
//     requires ownership or an ACL canDelete grant.
//  3. the owner is permitted everything.
//  4. otherwise the ACL entry for the principal decides, and share is never
//     grantable through the ACL.
func Can(p *domain.Principal, doc *domain.Document, cap Capability) bool {
	if p.Elevated() {
		return true
	}

	if p.Role == domain.RoleManager && cap != CapabilityDelete {
		return true
	}

	if doc.Owner == p.ID {
		return true
	}

	entry, ok := doc.AccessEntryFor(p.ID)
	if !ok {
		return false
	}

	switch cap {
	case CapabilityView:
		return entry.CanView
	case CapabilityEdit:
		return entry.CanEdit
	case CapabilityDelete:
		return entry.CanDelete
	case CapabilityShare:
		return false
	}
	return false
}

// ListFilter applies the query-level pre-filter for listing and search: a
// non-privileged principal only sees documents they own or appear in the ACL
// of. The check is deliberately coarse: any ACL entry qualifies, not
// specifically canView. Admin, superadmin and manager see everything.
func ListFilter(p *domain.Principal, filter *store.DocumentFilter) {
	if p.Elevated() || p.Role == domain.RoleManager {
		return
	}
	id := p.ID
	filter.AccessibleTo = &id
}
