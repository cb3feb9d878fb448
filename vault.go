// Package vault assembles the encrypted document core from configuration:
// stores, crypto, storage layout, tagging, auditing and the document service.
// Embedding processes build a Vault once at startup and hang their transport
// of choice off its services.
package vault

import (
	"context"
	"fmt"
	"time"

	"github.com/shruthikaa3007/secure-document-vault/internal/audit"
	"github.com/shruthikaa3007/secure-document-vault/internal/config"
	"github.com/shruthikaa3007/secure-document-vault/internal/platform/crypto"
	"github.com/shruthikaa3007/secure-document-vault/internal/platform/logger"
	"github.com/shruthikaa3007/secure-document-vault/internal/service"
	"github.com/shruthikaa3007/secure-document-vault/internal/storage"
	"github.com/shruthikaa3007/secure-document-vault/internal/store"
	storemongo "github.com/shruthikaa3007/secure-document-vault/internal/store/mongo"
	"github.com/shruthikaa3007/secure-document-vault/internal/store/rediscache"
	"github.com/shruthikaa3007/secure-document-vault/internal/tagging"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.uber.org/zap"
)

// tokenTTL bounds principal tokens the vault issues itself, for tooling.
// Tokens arriving from the identity subsystem carry their own expiry.
const tokenTTL = 24 * time.Hour

// Vault is the wired document core plus the resources it owns.
type Vault struct {
	Documents *service.DocumentService
	Audit     *audit.Recorder
	Exporter  *audit.Exporter
	Verifier  crypto.PrincipalVerifier
	Log       *zap.Logger

	db    *mongo.Client
	cache *rediscache.DocumentCache
}

// New builds a Vault from configuration. The encryption key is validated up
// front; a bad key must stop the process before any document is accepted.
// Redis is optional: an empty address runs the vault without a cache.
func New(ctx context.Context, cfg *config.Config) (*Vault, error) {
	log, err := logger.New(cfg.Environment)
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	keys, err := crypto.NewStaticKeyProvider(cfg.EncryptionKey)
	if err != nil {
		return nil, err
	}
	engine := crypto.NewEngine(keys)

	locator := storage.NewLocator(cfg.Storage.UploadDir, cfg.Storage.TempDir, cfg.Storage.LogExportDir)
	for _, kind := range []storage.ContainerKind{storage.ContainerUploads, storage.ContainerTemp, storage.ContainerLogExports} {
		if err := locator.EnsureContainer(kind); err != nil {
			return nil, err
		}
	}

	dbClient, err := storemongo.NewClient(ctx, cfg.Mongo)
	if err != nil {
		return nil, fmt.Errorf("could not connect to database: %w", err)
	}
	db := dbClient.Database(cfg.Mongo.Database)
	documentStore := storemongo.NewDocumentStore(db)
	auditStore := storemongo.NewAuditStore(db)

	var documentCache *rediscache.DocumentCache
	var cacheIface store.DocumentCache
	if cfg.Cache.Addr != "" {
		documentCache, err = rediscache.New(ctx, cfg.Cache.Addr, cfg.Cache.TTL)
		if err != nil {
			dbClient.Disconnect(context.Background())
			return nil, fmt.Errorf("could not connect to cache: %w", err)
		}
		cacheIface = documentCache
		log.Info("document metadata cache enabled", zap.String("addr", cfg.Cache.Addr))
	}

	recorder := audit.NewRecorder(auditStore, log)
	tagger := tagging.NewClient(cfg.Tagger.URL, cfg.Tagger.Timeout)

	return &Vault{
		Documents: service.NewDocumentService(documentStore, cacheIface, engine, locator, tagger, recorder, log),
		Audit:     recorder,
		Exporter:  audit.NewExporter(auditStore, locator),
		Verifier:  crypto.NewJWTCodec(cfg.JWTSecret, tokenTTL),
		Log:       log,
		db:        dbClient,
		cache:     documentCache,
	}, nil
}

// Close releases the vault's database and cache connections.
func (v *Vault) Close(ctx context.Context) error {
	var first error
	if v.cache != nil {
		if err := v.cache.Close(); err != nil {
			first = err
		}
	}
	if err := v.db.Disconnect(ctx); err != nil && first == nil {
		first = err
	}
	return first
}
