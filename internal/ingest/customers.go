package ingest

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/lavpop/pos-uploader/internal/brformat"
	"github.com/lavpop/pos-uploader/internal/csvfile"
	"github.com/lavpop/pos-uploader/internal/database"
	"github.com/lavpop/pos-uploader/internal/models"
)

// UploadCustomers ingests one customer export. Rows are deduplicated by
// document within the run (last occurrence wins), then upserted in batches
// through the backend's smart merge, which never regresses visit dates or
// purchase counters. If the smart merge function is missing, the run
// permanently falls back to a plain overwrite upsert.
func (s *Service) UploadCustomers(ctx context.Context, path, source string) (result models.UploadResult) {
	start := time.Now()
	result.Errors = []string{}

	defer func() {
		if r := recover(); r != nil {
			result.Success = false
			result.Errors = append(result.Errors, fmt.Sprintf("upload failed: %v", r))
			s.logger.Error("customer upload panicked", "path", path, "panic", r)
		}
		s.logHistory(ctx, "customers", filepath.Base(path), result, time.Since(start), source)
	}()

	if s.store == nil {
		result.Errors = append(result.Errors, "backend not configured")
		return result
	}

	rows, err := csvfile.ReadRows(path)
	if err != nil {
		result.Errors = append(result.Errors, err.Error())
		return result
	}

	result.Total = len(rows)
	if len(rows) == 0 {
		result.Success = true
		return result
	}

	// Exports normally list each customer once, but duplicates are
	// tolerated: the last occurrence of a document wins.
	byDoc := make(map[string]models.Customer, len(rows))
	order := make([]string, 0, len(rows))

	for _, row := range rows {
		doc := brformat.NormalizeCPF(row["Documento"])
		if doc == "" {
			result.Skipped++
			continue
		}

		if _, exists := byDoc[doc]; !exists {
			order = append(order, doc)
		}
		byDoc[doc] = buildCustomer(doc, row, source)
	}

	customers := make([]models.Customer, 0, len(order))
	for _, doc := range order {
		customers = append(customers, byDoc[doc])
	}

	// Once the smart merge is found missing it is not retried this run.
	useSmart := true

	for i := 0; i < len(customers); i += s.batchSize {
		end := i + s.batchSize
		if end > len(customers) {
			end = len(customers)
		}
		batch := customers[i:end]

		if useSmart {
			inserted, updated, err := s.store.UpsertCustomersSmart(ctx, batch)
			if err == nil {
				result.Inserted += inserted
				result.Updated += updated
				continue
			}
			if errors.Is(err, database.ErrSmartUpsertUnavailable) {
				s.logger.Info("smart customer upsert unavailable, using simple upsert")
				useSmart = false
			} else {
				result.Errors = append(result.Errors, fmt.Sprintf("batch %d: %v", i/s.batchSize, err))
				continue
			}
		}

		if err := s.store.UpsertCustomersSimple(ctx, batch); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("batch %d: %v", i/s.batchSize, err))
			continue
		}
		result.Inserted += len(batch)
	}

	result.Success = len(result.Errors) == 0
	return result
}

func buildCustomer(doc string, row csvfile.Row, source string) models.Customer {
	c := models.Customer{
		Doc:           doc,
		Nome:          models.Nullable(row["Nome"]),
		Telefone:      models.Nullable(row["Telefone"]),
		Email:         models.Nullable(row["Email"]),
		SaldoCarteira: brformat.ParseNumber(row["Saldo_Carteira"]),
		TotalSpent:    brformat.ParseNumber(row["Total_Compras"]),
		Source:        source,
	}

	if ts, ok := brformat.ParseDateTime(row["Data_Cadastro"]); ok {
		c.DataCadastro = &ts
	}
	if d, ok := brformat.ParseDateOnly(row["Data_Cadastro"]); ok {
		c.FirstVisit = &d
	}
	if d, ok := brformat.ParseDateOnly(row["Data_Ultima_Compra"]); ok {
		c.LastVisit = &d
	}

	if n, err := strconv.Atoi(strings.TrimSpace(row["Quantidade_Compras"])); err == nil {
		c.TransactionCount = n
	}

	return c
}
