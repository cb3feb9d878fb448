// Command exportlogs dumps the audit trail to a CSV file in the log-exports
// container, optionally filtered by action, user and date range.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/shruthikaa3007/secure-document-vault/internal/audit"
	"github.com/shruthikaa3007/secure-document-vault/internal/config"
	"github.com/shruthikaa3007/secure-document-vault/internal/storage"
	"github.com/shruthikaa3007/secure-document-vault/internal/store"
	storemongo "github.com/shruthikaa3007/secure-document-vault/internal/store/mongo"

	"go.mongodb.org/mongo-driver/v2/bson"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("failed to export logs: %v", err)
	}
}

func run() error {
	action := flag.String("action", "", "only export entries with this action")
	user := flag.String("user", "", "only export entries for this user id (hex)")
	start := flag.String("start", "", "only export entries on or after this date (YYYY-MM-DD)")
	end := flag.String("end", "", "only export entries on or before this date (YYYY-MM-DD)")
	flag.Parse()

	filter, err := buildFilter(*action, *user, *start, *end)
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbClient, err := storemongo.NewClient(ctx, cfg.Mongo)
	if err != nil {
		return fmt.Errorf("could not connect to database: %w", err)
	}
	defer dbClient.Disconnect(context.Background())

	locator := storage.NewLocator(cfg.Storage.UploadDir, cfg.Storage.TempDir, cfg.Storage.LogExportDir)
	auditStore := storemongo.NewAuditStore(dbClient.Database(cfg.Mongo.Database))
	exporter := audit.NewExporter(auditStore, locator)

	path, err := exporter.Export(context.Background(), filter)
	if err != nil {
		return err
	}

	fmt.Printf("Audit logs exported to %s\n", path)
	return nil
}

func buildFilter(action, user, start, end string) (store.AuditFilter, error) {
	filter := store.AuditFilter{Action: action}

	if user != "" {
		id, err := bson.ObjectIDFromHex(user)
		if err != nil {
			return store.AuditFilter{}, fmt.Errorf("invalid user id %q: %w", user, err)
		}
		filter.UserID = &id
	}
	if start != "" {
		t, err := time.Parse("2006-01-02", start)
		if err != nil {
			return store.AuditFilter{}, fmt.Errorf("invalid start date %q: %w", start, err)
		}
		filter.StartDate = &t
	}
	if end != "" {
		t, err := time.Parse("2006-01-02", end)
		if err != nil {
			return store.AuditFilter{}, fmt.Errorf("invalid end date %q: %w", end, err)
		}
		// Include the whole closing day.
		t = t.Add(24*time.Hour - time.Nanosecond)
		filter.EndDate = &t
	}
	return filter, nil
}
