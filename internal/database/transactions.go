package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/lavpop/pos-uploader/internal/models"
)

const upsertTransactionQuery = `
	INSERT INTO transactions (
		data_hora, valor_venda, valor_pago, meio_de_pagamento,
		comprovante_cartao, bandeira_cartao, loja, nome_cliente,
		doc_cliente, telefone, maquinas, usou_cupom, codigo_cupom,
		transaction_type, is_recarga, wash_count, dry_count,
		total_services, net_value, cashback_amount, import_hash, source_file
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11,
		$12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22
	)
	ON CONFLICT (import_hash) DO UPDATE SET
		data_hora = EXCLUDED.data_hora,
		valor_venda = EXCLUDED.valor_venda,
		valor_pago = EXCLUDED.valor_pago,
		meio_de_pagamento = EXCLUDED.meio_de_pagamento,
		comprovante_cartao = EXCLUDED.comprovante_cartao,
		bandeira_cartao = EXCLUDED.bandeira_cartao,
		loja = EXCLUDED.loja,
		nome_cliente = EXCLUDED.nome_cliente,
		doc_cliente = EXCLUDED.doc_cliente,
		telefone = EXCLUDED.telefone,
		maquinas = EXCLUDED.maquinas,
		usou_cupom = EXCLUDED.usou_cupom,
		codigo_cupom = EXCLUDED.codigo_cupom,
		transaction_type = EXCLUDED.transaction_type,
		is_recarga = EXCLUDED.is_recarga,
		wash_count = EXCLUDED.wash_count,
		dry_count = EXCLUDED.dry_count,
		total_services = EXCLUDED.total_services,
		net_value = EXCLUDED.net_value,
		cashback_amount = EXCLUDED.cashback_amount,
		source_file = EXCLUDED.source_file,
		updated_at = CURRENT_TIMESTAMP`

// UpsertTransactions writes one batch of transactions keyed by import_hash.
// Re-importing an identical row is an overwrite, never a duplicate insert.
func (db *DB) UpsertTransactions(ctx context.Context, batch []models.Transaction) error {
	if len(batch) == 0 {
		return nil
	}

	err := db.WithTx(ctx, func(tx pgx.Tx) error {
		for _, t := range batch {
			_, err := tx.Exec(ctx, upsertTransactionQuery,
				t.DataHora, t.ValorVenda, t.ValorPago, t.MeioDePagamento,
				t.ComprovanteCartao, t.BandeiraCartao, t.Loja, t.NomeCliente,
				t.DocCliente, t.Telefone, t.Maquinas, t.UsouCupom, t.CodigoCupom,
				t.TransactionType, t.IsRecarga, t.WashCount, t.DryCount,
				t.TotalServices, t.NetValue, t.CashbackAmount, t.ImportHash, t.SourceFile,
			)
			if err != nil {
				return fmt.Errorf("failed to upsert transaction %s: %w", t.ImportHash, err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to upsert transaction batch: %w", err)
	}

	return nil
}
