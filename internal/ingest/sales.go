package ingest

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/lavpop/pos-uploader/internal/brformat"
	"github.com/lavpop/pos-uploader/internal/classify"
	"github.com/lavpop/pos-uploader/internal/csvfile"
	"github.com/lavpop/pos-uploader/internal/models"
)

// couponNotApplicable is the export's literal marker for "no coupon".
const couponNotApplicable = "n/d"

// UploadSales ingests one sales export: every row is parsed, classified,
// enriched with monetary fields and hashed for deduplication, then written
// in batches keyed by import_hash. Rows with an unparseable date or no valid
// document are skipped; batch failures are recorded without aborting the
// run. An audit entry is always written on exit.
func (s *Service) UploadSales(ctx context.Context, path, source string) (result models.UploadResult) {
	start := time.Now()
	result.Errors = []string{}

	defer func() {
		if r := recover(); r != nil {
			result.Success = false
			result.Errors = append(result.Errors, fmt.Sprintf("upload failed: %v", r))
			s.logger.Error("sales upload panicked", "path", path, "panic", r)
		}
		s.logHistory(ctx, "sales", filepath.Base(path), result, time.Since(start), source)
	}()

	if s.store == nil {
		result.Errors = append(result.Errors, "backend not configured")
		return result
	}

	settings := s.settings.Get(ctx)
	cashbackRate := settings.CashbackPercent / 100
	cashbackStart, err := time.Parse("2006-01-02", settings.CashbackStartDate)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("invalid cashback start date %q: %v", settings.CashbackStartDate, err))
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

	transactions := make([]models.Transaction, 0, len(rows))
	seenHashes := make(map[string]struct{}, len(rows))

	for _, row := range rows {
		rawDate := row["Data_Hora"]
		dataHora, ok := brformat.ParseDateTime(rawDate)
		if !ok {
			result.Skipped++
			continue
		}

		docCliente := brformat.NormalizeCPF(row["Doc_Cliente"])
		if docCliente == "" {
			result.Skipped++
			continue
		}

		machines := row["Maquinas"]

		// The hash covers the raw source fields, not the normalized
		// values, so the dedup key is tied to the exact export content.
		hash := classify.ImportHash(rawDate, row["Doc_Cliente"], row["Valor_Venda"], machines)
		if _, dup := seenHashes[hash]; dup {
			result.Skipped++
			continue
		}
		seenHashes[hash] = struct{}{}

		gross := brformat.ParseNumber(row["Valor_Venda"])
		paid := brformat.ParseNumber(row["Valor_Pago"])
		counts := classify.CountMachines(machines)

		cashback := 0.0
		net := paid
		if txDate, perr := time.Parse("2006-01-02", dataHora[:10]); perr == nil {
			if !txDate.Before(cashbackStart) && gross > 0 {
				cashback = round2(gross * cashbackRate)
				net = round2(paid - cashback)
			}
		}

		transactions = append(transactions, models.Transaction{
			DataHora:          dataHora,
			ValorVenda:        gross,
			ValorPago:         paid,
			MeioDePagamento:   models.Nullable(row["Meio_de_Pagamento"]),
			ComprovanteCartao: models.Nullable(row["Comprovante_cartao"]),
			BandeiraCartao:    models.Nullable(row["Bandeira_Cartao"]),
			Loja:              models.Nullable(row["Loja"]),
			NomeCliente:       models.Nullable(row["Nome_Cliente"]),
			DocCliente:        docCliente,
			Telefone:          models.Nullable(row["Telefone"]),
			Maquinas:          models.Nullable(machines),
			UsouCupom:         strings.EqualFold(strings.TrimSpace(row["Usou_Cupom"]), "sim"),
			CodigoCupom:       normalizeCoupon(row["Codigo_Cupom"]),
			TransactionType:   classify.Classify(machines, row["Meio_de_Pagamento"], gross),
			IsRecarga:         classify.IsRecharge(machines),
			WashCount:         counts.Wash,
			DryCount:          counts.Dry,
			TotalServices:     counts.Total,
			NetValue:          net,
			CashbackAmount:    cashback,
			ImportHash:        hash,
			SourceFile:        source,
		})
	}

	for i := 0; i < len(transactions); i += s.batchSize {
		end := i + s.batchSize
		if end > len(transactions) {
			end = len(transactions)
		}
		batch := transactions[i:end]

		if err := s.store.UpsertTransactions(ctx, batch); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("batch %d: %v", i/s.batchSize, err))
			continue
		}
		result.Inserted += len(batch)
	}

	result.Success = len(result.Errors) == 0
	return result
}

// normalizeCoupon trims and uppercases a coupon code, treating blanks and
// the export's "n/d" marker as absent.
func normalizeCoupon(code string) *string {
	code = strings.TrimSpace(code)
	if code == "" || strings.EqualFold(code, couponNotApplicable) {
		return nil
	}
	upper := strings.ToUpper(code)
	return &upper
}
