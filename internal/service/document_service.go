package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/shruthikaa3007/secure-document-vault/internal/access"
	"github.com/shruthikaa3007/secure-document-vault/internal/audit"
	"github.com/shruthikaa3007/secure-document-vault/internal/domain"
	"github.com/shruthikaa3007/secure-document-vault/internal/errs"
	"github.com/shruthikaa3007/secure-document-vault/internal/extract"
	"github.com/shruthikaa3007/secure-document-vault/internal/platform/crypto"
	"github.com/shruthikaa3007/secure-document-vault/internal/storage"
	"github.com/shruthikaa3007/secure-document-vault/internal/store"
	"github.com/shruthikaa3007/secure-document-vault/internal/tagging"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.uber.org/zap"
)

// Tagger is the outbound contract to the auto-tagging service.
type Tagger interface {
	Tag(ctx context.Context, text string) (*tagging.Result, error)
}

// AuditSink receives the security-relevant events the lifecycle emits.
// audit.Recorder is the production implementation.
type AuditSink interface {
	Record(ctx context.Context, userID *bson.ObjectID, action domain.AuditAction, details bson.M, meta audit.RequestMeta) error
}

// DocumentService orchestrates the encrypted document lifecycle: upload,
// download, metadata updates, deletion, and sharing. It is the single entry
// point the transport layer invokes after authentication.
type DocumentService struct {
	docs    store.DocumentStore
	cache   store.DocumentCache // nil disables caching
	engine  *crypto.Engine
	locator *storage.Locator
	tagger  Tagger
	audit   AuditSink
	log     *zap.Logger
}

// NewDocumentService wires the lifecycle together. cache may be nil.
func NewDocumentService(
	docs store.DocumentStore,
	cache store.DocumentCache,
	engine *crypto.Engine,
	locator *storage.Locator,
	tagger Tagger,
	auditSink AuditSink,
	log *zap.Logger,
) *DocumentService {
	return &DocumentService{
		docs:    docs,
		cache:   cache,
		engine:  engine,
		locator: locator,
		tagger:  tagger,
		audit:   auditSink,
		log:     log,
	}
}

// UploadInput describes one received file plus its declared metadata. The
// transport layer has already written the payload to TempPath inside the
// temp container.
type UploadInput struct {
	TempPath     string
	OriginalName string
	MimeType     string // MIME type as declared by the client
	// DetectedType is resolved from the file extension during validation,
	// falling back to MimeType.
	DetectedType   string
	FileName       string // display name; defaults to OriginalName
	Tags           []string
	Description    string
	Department     string
	Classification string
	Size           int64
}

// Upload runs the full ingest pipeline: validate, extract, tag, encrypt,
// persist, audit. Extraction and tagging failures are swallowed; encryption
// and persistence failures abort the upload. On every failure path the
// plaintext temp file is removed so no unencrypted copy survives on disk.
func (s *DocumentService) Upload(ctx context.Context, p *domain.Principal, input UploadInput, meta audit.RequestMeta) (*domain.Document, error) {
	// The temp file is the only plaintext copy. Until encryption consumes
	// it, every exit removes it.
	plaintextOnDisk := true
	defer func() {
		if plaintextOnDisk {
			if err := s.locator.RemoveTemp(input.TempPath); err != nil {
				s.log.Warn("failed to remove plaintext temp file", zap.Error(err))
			}
		}
	}()

	if err := validateUpload(&input); err != nil {
		return nil, err
	}

	// Best-effort plaintext extraction; a failure only costs auto-tags.
	text, err := extract.Text(input.TempPath, input.OriginalName)
	if err != nil {
		s.log.Warn("text extraction failed", zap.String("file", input.OriginalName), zap.Error(err))
		text = ""
	}

	var autoTags []string
	var summary string
	if strings.TrimSpace(text) != "" {
		if result, err := s.tagger.Tag(ctx, text); err != nil {
			// Never fail the upload because tagging failed.
			s.log.Warn("auto-tagging failed", zap.String("file", input.OriginalName), zap.Error(err))
		} else {
			autoTags = result.AutoTags
			summary = result.Summary
		}
	}

	// Fingerprint the plaintext before it is consumed. The hash is optional
	// on a document, so failing to compute it degrades to no verification.
	fileHash, err := crypto.ComputeFileHash(input.TempPath)
	if err != nil {
		s.log.Warn("failed to compute content hash", zap.String("file", input.OriginalName), zap.Error(err))
		fileHash = ""
	}

	if err := s.locator.EnsureContainer(storage.ContainerUploads); err != nil {
		return nil, errs.Internal(err)
	}

	blobName := s.locator.Allocate(input.TempPath)
	if err := s.engine.EncryptFile(input.TempPath, s.locator.Path(blobName)); err != nil {
		return nil, err
	}
	// EncryptFile removed the plaintext source.
	plaintextOnDisk = false

	doc := &domain.Document{
		FileName:       input.FileName,
		FileType:       input.DetectedType,
		MimeType:       input.MimeType,
		OriginalName:   input.OriginalName,
		Tags:           input.Tags,
		AutoTags:       autoTags,
		Description:    input.Description,
		Department:     input.Department,
		Classification: domain.Classification(input.Classification),
		Owner:          p.ID,
		EncryptedPath:  blobName,
		Size:           input.Size,
		SummaryPreview: summary,
		FileHash:       fileHash,
	}

	if err := s.docs.Create(ctx, doc); err != nil {
		// The record never existed, so the ciphertext blob is an orphan.
		// Remove it instead of leaking undeletable storage.
		if rmErr := s.locator.Remove(blobName); rmErr != nil {
			s.log.Error("failed to remove orphaned blob after persistence failure", zap.Error(rmErr))
		}
		return nil, errs.FromStoreError(err)
	}

	s.recordAudit(ctx, &p.ID, domain.ActionDocumentUploaded, bson.M{
		"documentId":     doc.ID,
		"fileName":       doc.FileName,
		"fileType":       doc.FileType,
		"classification": doc.Classification,
	}, meta)

	s.cacheSet(ctx, doc)

	return doc, nil
}

// Download holds a decrypted document ready to stream. Closing the Content
// reader removes the backing temp file; callers must close it on every path,
// including client disconnects.
type Download struct {
	Content  io.ReadCloser
	FileName string
	MimeType string
	Size     int64
}

// DownloadDocument decrypts a document for an authorized principal, verifies
// its integrity when a content hash is on record, and returns a self-cleaning
// stream of the plaintext.
func (s *DocumentService) DownloadDocument(ctx context.Context, p *domain.Principal, id bson.ObjectID, meta audit.RequestMeta) (*Download, error) {
	doc, err := s.getDocument(ctx, id)
	if err != nil {
		return nil, err
	}

	if !access.Can(p, doc, access.CapabilityView) {
		return nil, errs.Forbidden("Access denied")
	}

	if err := s.locator.EnsureContainer(storage.ContainerTemp); err != nil {
		return nil, errs.Internal(err)
	}

	tempPath := s.locator.TempPath(doc.ID.Hex())
	if err := s.engine.DecryptFile(s.locator.Path(doc.EncryptedPath), tempPath); err != nil {
		s.cleanupTemp(tempPath)
		return nil, err
	}

	if doc.FileHash != "" {
		if err := crypto.VerifyFileHash(tempPath, doc.FileHash); err != nil {
			s.cleanupTemp(tempPath)
			var e *errs.Error
			if errors.As(err, &e) && e.Code == errs.CodeIntegrity {
				s.recordAudit(ctx, &p.ID, domain.ActionHashVerificationFailed, bson.M{
					"documentId": doc.ID,
					"fileName":   doc.FileName,
				}, meta)
				return nil, err
			}
			return nil, errs.Internal(err)
		}
	}

	f, err := os.Open(tempPath)
	if err != nil {
		s.cleanupTemp(tempPath)
		return nil, errs.Internal(fmt.Errorf("failed to open decrypted file: %w", err))
	}

	s.recordAudit(ctx, &p.ID, domain.ActionDocumentDownloaded, bson.M{
		"documentId": doc.ID,
		"fileName":   doc.FileName,
	}, meta)

	return &Download{
		Content:  &tempFileReader{File: f, locator: s.locator, path: tempPath},
		FileName: downloadFileName(doc),
		MimeType: responseMimeType(doc),
		Size:     doc.Size,
	}, nil
}

// GetDocument resolves a document for a principal holding view rights.
// Missing documents surface as not-found before the permission check so
// clients can distinguish the two.
func (s *DocumentService) GetDocument(ctx context.Context, p *domain.Principal, id bson.ObjectID) (*domain.Document, error) {
	doc, err := s.getDocument(ctx, id)
	if err != nil {
		return nil, err
	}
	if !access.Can(p, doc, access.CapabilityView) {
		return nil, errs.Forbidden("Access denied")
	}
	return doc, nil
}

// ListParams narrow and paginate a document listing.
type ListParams struct {
	Tags           []string
	Department     string
	Classification string
	Sort           string
	Page           int64
	Limit          int64
}

// ListDocuments returns documents visible to the principal. Non-privileged
// principals are restricted at the query level to documents they own or
// appear in the ACL of.
func (s *DocumentService) ListDocuments(ctx context.Context, p *domain.Principal, params ListParams) ([]*domain.Document, store.Pagination, error) {
	filter := store.DocumentFilter{
		Tags:           params.Tags,
		Department:     params.Department,
		Classification: params.Classification,
	}
	access.ListFilter(p, &filter)

	docs, page, err := s.docs.List(ctx, filter, store.ListOptions{Sort: params.Sort, Page: params.Page, Limit: params.Limit})
	if err != nil {
		return nil, store.Pagination{}, errs.FromStoreError(err)
	}
	return docs, page, nil
}

// SearchParams describe a free-text search with filters.
type SearchParams struct {
	Query          string
	Tags           []string
	Department     string
	Classification string
	StartDate      *time.Time
	EndDate        *time.Time
	Page           int64
	Limit          int64
}

// SearchDocuments matches the query term against file names, descriptions
// and tags, subject to the same visibility pre-filter as listing. The end
// date is inclusive of the whole day.
func (s *DocumentService) SearchDocuments(ctx context.Context, p *domain.Principal, params SearchParams) ([]*domain.Document, store.Pagination, error) {
	if params.Query == "" {
		return nil, store.Pagination{}, errs.Validation("Search query is required")
	}

	filter := store.DocumentFilter{
		Query:          params.Query,
		Tags:           params.Tags,
		Department:     params.Department,
		Classification: params.Classification,
		CreatedAfter:   params.StartDate,
	}
	if params.EndDate != nil {
		end := endOfDay(*params.EndDate)
		filter.CreatedBefore = &end
	}
	access.ListFilter(p, &filter)

	docs, page, err := s.docs.List(ctx, filter, store.ListOptions{Sort: "-createdAt", Page: params.Page, Limit: params.Limit})
	if err != nil {
		return nil, store.Pagination{}, errs.FromStoreError(err)
	}
	return docs, page, nil
}

// UpdateInput carries the mutable metadata fields. Nil pointers mean "leave
// unchanged"; Tags replaces the whole user tag set when non-nil.
type UpdateInput struct {
	FileName       *string
	Tags           []string
	Description    *string
	Department     *string
	Classification *string
}

// UpdateDocument mutates metadata for a principal holding edit rights and
// audits which fields changed. Auto-tags are system-owned and not reachable
// from here.
func (s *DocumentService) UpdateDocument(ctx context.Context, p *domain.Principal, id bson.ObjectID, input UpdateInput, meta audit.RequestMeta) (*domain.Document, error) {
	doc, err := s.getDocument(ctx, id)
	if err != nil {
		return nil, err
	}
	if !access.Can(p, doc, access.CapabilityEdit) {
		return nil, errs.Forbidden("Access denied")
	}
	if err := validateUpdate(input); err != nil {
		return nil, err
	}

	var changed []string
	if input.FileName != nil {
		doc.FileName = *input.FileName
		changed = append(changed, "fileName")
	}
	if input.Tags != nil {
		doc.Tags = input.Tags
		changed = append(changed, "tags")
	}
	if input.Description != nil {
		doc.Description = *input.Description
		changed = append(changed, "description")
	}
	if input.Department != nil {
		doc.Department = *input.Department
		changed = append(changed, "department")
	}
	if input.Classification != nil {
		doc.Classification = domain.Classification(*input.Classification)
		changed = append(changed, "classification")
	}

	if err := s.docs.Update(ctx, doc); err != nil {
		return nil, errs.FromStoreError(err)
	}

	s.recordAudit(ctx, &p.ID, domain.ActionDocumentUpdated, bson.M{
		"documentId": doc.ID,
		"fileName":   doc.FileName,
		"updates":    strings.Join(changed, ", "),
	}, meta)

	s.cacheInvalidate(ctx, doc.ID)

	return doc, nil
}

// DeleteDocument removes the encrypted blob and then the record. A blob that
// is already gone never blocks record deletion; the document would otherwise
// be stuck in an inconsistent state forever.
func (s *DocumentService) DeleteDocument(ctx context.Context, p *domain.Principal, id bson.ObjectID, meta audit.RequestMeta) error {
	doc, err := s.getDocument(ctx, id)
	if err != nil {
		return err
	}
	if !access.Can(p, doc, access.CapabilityDelete) {
		return errs.Forbidden("Access denied")
	}

	if err := s.locator.Remove(doc.EncryptedPath); err != nil {
		s.log.Warn("failed to remove encrypted blob, proceeding with record deletion",
			zap.String("documentId", doc.ID.Hex()), zap.Error(err))
	}

	if err := s.docs.Delete(ctx, doc.ID); err != nil {
		return errs.FromStoreError(err)
	}

	s.recordAudit(ctx, &p.ID, domain.ActionDocumentDeleted, bson.M{
		"documentId": doc.ID,
		"fileName":   doc.FileName,
	}, meta)

	s.cacheInvalidate(ctx, doc.ID)

	return nil
}

// SharePermissions are the capability flags granted to the target principal.
// Nil flags take the defaults: view allowed, edit and delete denied.
type SharePermissions struct {
	CanView   *bool
	CanEdit   *bool
	CanDelete *bool
}

// ShareDocument grants or replaces the target's ACL entry. A document holds
// at most one entry per principal; sharing twice updates in place.
func (s *DocumentService) ShareDocument(ctx context.Context, p *domain.Principal, id, targetUserID bson.ObjectID, perms SharePermissions, meta audit.RequestMeta) (*domain.Document, error) {
	doc, err := s.getDocument(ctx, id)
	if err != nil {
		return nil, err
	}
	if !access.Can(p, doc, access.CapabilityShare) {
		return nil, errs.Forbidden("Access denied: You do not have permission to share this document")
	}

	entry := domain.AccessEntry{
		User:      targetUserID,
		CanView:   boolOrDefault(perms.CanView, true),
		CanEdit:   boolOrDefault(perms.CanEdit, false),
		CanDelete: boolOrDefault(perms.CanDelete, false),
	}
	doc.Grant(entry)

	if err := s.docs.Update(ctx, doc); err != nil {
		return nil, errs.FromStoreError(err)
	}

	s.recordAudit(ctx, &p.ID, domain.ActionDocumentShared, bson.M{
		"documentId":       doc.ID,
		"sharedWithUserId": targetUserID,
		"permissions": bson.M{
			"canView":   entry.CanView,
			"canEdit":   entry.CanEdit,
			"canDelete": entry.CanDelete,
		},
	}, meta)

	s.cacheInvalidate(ctx, doc.ID)

	return doc, nil
}

// RevokeAccess removes the target's ACL entry.
func (s *DocumentService) RevokeAccess(ctx context.Context, p *domain.Principal, id, targetUserID bson.ObjectID, meta audit.RequestMeta) (*domain.Document, error) {
	doc, err := s.getDocument(ctx, id)
	if err != nil {
		return nil, err
	}
	if !access.Can(p, doc, access.CapabilityShare) {
		return nil, errs.Forbidden("Access denied: You do not have permission to modify sharing for this document")
	}

	if !doc.Revoke(targetUserID) {
		return nil, errs.NotFound("This document is not shared with the specified user")
	}

	if err := s.docs.Update(ctx, doc); err != nil {
		return nil, errs.FromStoreError(err)
	}

	s.recordAudit(ctx, &p.ID, domain.ActionDocumentAccessRevoked, bson.M{
		"documentId":        doc.ID,
		"revokedFromUserId": targetUserID,
	}, meta)

	s.cacheInvalidate(ctx, doc.ID)

	return doc, nil
}

// --- helpers ---

// getDocument resolves by ID through the cache when one is configured.
func (s *DocumentService) getDocument(ctx context.Context, id bson.ObjectID) (*domain.Document, error) {
	if s.cache != nil {
		doc, err := s.cache.GetDocument(ctx, id)
		if err != nil {
			s.log.Warn("document cache read failed", zap.Error(err))
		} else if doc != nil {
			return doc, nil
		}
	}

	doc, err := s.docs.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, errs.NotFound("Document not found")
		}
		return nil, errs.Internal(err)
	}

	s.cacheSet(ctx, doc)
	return doc, nil
}

func (s *DocumentService) cacheSet(ctx context.Context, doc *domain.Document) {
	if s.cache == nil {
		return
	}
	if err := s.cache.SetDocument(ctx, doc); err != nil {
		s.log.Warn("document cache write failed", zap.Error(err))
	}
}

func (s *DocumentService) cacheInvalidate(ctx context.Context, id bson.ObjectID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteDocument(ctx, id); err != nil {
		s.log.Warn("document cache invalidation failed", zap.Error(err))
	}
}

// recordAudit logs and continues on sink failures: the user-facing operation
// has already succeeded or failed on its own terms.
func (s *DocumentService) recordAudit(ctx context.Context, userID *bson.ObjectID, action domain.AuditAction, details bson.M, meta audit.RequestMeta) {
	if err := s.audit.Record(ctx, userID, action, details, meta); err != nil {
		s.log.Error("failed to record audit event", zap.String("action", string(action)), zap.Error(err))
	}
}

func (s *DocumentService) cleanupTemp(path string) {
	if err := s.locator.RemoveTemp(path); err != nil {
		s.log.Warn("failed to remove download temp file", zap.Error(err))
	}
}

func boolOrDefault(v *bool, fallback bool) bool {
	if v == nil {
		return fallback
	}
	return *v
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}

// tempFileReader streams a decrypted temp file and removes it on Close. The
// removal runs on every exit path of a download, including client
// disconnects and partial reads.
type tempFileReader struct {
	*os.File
	locator *storage.Locator
	path    string
}

func (r *tempFileReader) Close() error {
	err := r.File.Close()
	if rmErr := r.locator.RemoveTemp(r.path); rmErr != nil && err == nil {
		err = rmErr
	}
	return err
}
