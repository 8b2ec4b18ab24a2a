package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/lavpop/pos-uploader/internal/models"
)

// ErrSmartUpsertUnavailable signals that the backend does not have the
// smart-merge function installed. Callers degrade to the simple upsert
// for the rest of the run.
var ErrSmartUpsertUnavailable = errors.New("smart customer upsert not available")

// pgUndefinedFunction is SQLSTATE 42883, raised when a called function does
// not exist. Detecting the capability by code rather than message text keeps
// the probe stable across backend versions.
const pgUndefinedFunction = "42883"

// UpsertCustomersSmart merges one batch through the backend's
// upsert_customer_profiles_batch function: profile fields are overwritten,
// visit dates and purchase counters only ever move forward.
func (db *DB) UpsertCustomersSmart(ctx context.Context, batch []models.Customer) (inserted, updated int, err error) {
	if len(batch) == 0 {
		return 0, 0, nil
	}

	payload, err := json.Marshal(batch)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to marshal customer batch: %w", err)
	}

	query := `SELECT inserted, updated FROM upsert_customer_profiles_batch($1::jsonb)`
	err = db.pool.QueryRow(ctx, query, payload).Scan(&inserted, &updated)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUndefinedFunction {
			return 0, 0, ErrSmartUpsertUnavailable
		}
		return 0, 0, fmt.Errorf("failed to smart upsert customers: %w", err)
	}

	return inserted, updated, nil
}

const upsertCustomerQuery = `
	INSERT INTO customers (
		doc, nome, telefone, email, data_cadastro, saldo_carteira,
		first_visit, last_visit, transaction_count, total_spent, source
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11
	)
	ON CONFLICT (doc) DO UPDATE SET
		nome = EXCLUDED.nome,
		telefone = EXCLUDED.telefone,
		email = EXCLUDED.email,
		data_cadastro = EXCLUDED.data_cadastro,
		saldo_carteira = EXCLUDED.saldo_carteira,
		first_visit = EXCLUDED.first_visit,
		last_visit = EXCLUDED.last_visit,
		transaction_count = EXCLUDED.transaction_count,
		total_spent = EXCLUDED.total_spent,
		source = EXCLUDED.source,
		updated_at = CURRENT_TIMESTAMP`

// UpsertCustomersSimple is the fallback path: a plain overwrite upsert keyed
// by document, with none of the monotonic merge guarantees.
func (db *DB) UpsertCustomersSimple(ctx context.Context, batch []models.Customer) error {
	if len(batch) == 0 {
		return nil
	}

	err := db.WithTx(ctx, func(tx pgx.Tx) error {
		for _, c := range batch {
			_, err := tx.Exec(ctx, upsertCustomerQuery,
				c.Doc, c.Nome, c.Telefone, c.Email, c.DataCadastro, c.SaldoCarteira,
				c.FirstVisit, c.LastVisit, c.TransactionCount, c.TotalSpent, c.Source,
			)
			if err != nil {
				return fmt.Errorf("failed to upsert customer %s: %w", c.Doc, err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to upsert customer batch: %w", err)
	}

	return nil
}
