// One-shot ingestion: detect the export type, upload it, print the result.
//
//	ingest -file /path/to/export.csv [-type sales|customer] [-source manual]
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/lavpop/pos-uploader/internal/config"
	"github.com/lavpop/pos-uploader/internal/csvfile"
	"github.com/lavpop/pos-uploader/internal/database"
	"github.com/lavpop/pos-uploader/internal/events"
	"github.com/lavpop/pos-uploader/internal/ingest"
	"github.com/lavpop/pos-uploader/internal/models"
	"github.com/lavpop/pos-uploader/internal/settings"
)

func main() {
	var (
		file     = flag.String("file", "", "path to the CSV export")
		fileType = flag.String("type", "", "sales or customer (default: auto-detect)")
		source   = flag.String("source", "", "provenance tag for the upload")
	)
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	if *file == "" {
		fmt.Fprintln(os.Stderr, "usage: ingest -file export.csv [-type sales|customer] [-source tag]")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if *source == "" {
		*source = cfg.Ingest.Source
	}

	ctx := context.Background()

	db, err := database.New(ctx, database.Config{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		Database: cfg.Database.DBName,
		SSLMode:  cfg.Database.SSLMode,
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	detected := csvfile.FileType(*fileType)
	if detected == "" {
		detected = csvfile.DetectFileType(*file)
		logger.Info("detected file type", "file", *file, "type", detected)
	}

	publisher := events.NewPublisher(nil, logger)
	cache := settings.New(db, logger, settings.WithTTL(cfg.Ingest.SettingsTTL))
	svc := ingest.NewService(db, cache, publisher, logger, ingest.WithBatchSize(cfg.Ingest.BatchSize))

	var result models.UploadResult
	switch detected {
	case csvfile.FileTypeSales:
		result = svc.UploadSales(ctx, *file, *source)
	case csvfile.FileTypeCustomer:
		result = svc.UploadCustomers(ctx, *file, *source)
	default:
		logger.Error("could not determine file type", "file", *file)
		os.Exit(2)
	}

	out, _ := json.MarshalIndent(result, "", "  ")
	fmt.Println(string(out))

	if !result.Success {
		os.Exit(1)
	}
}
