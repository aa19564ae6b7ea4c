package postgres

import (
	"context"
	"errors"

	"coursemarket/internal/models"
	"coursemarket/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type transactionsRepo struct{ pool *pgxpool.Pool }

func (r *transactionsRepo) Create(ctx context.Context, tx models.Transaction) (models.Transaction, error) {
	if tx.ID == "" {
		tx.ID = uuid.NewString()
	}
	err := r.pool.QueryRow(ctx,
		`INSERT INTO transactions(id, from_user_id, to_user_id, amount, memo, status)
		 VALUES($1,$2,$3,$4,$5,$6)
		 RETURNING created_at`,
		tx.ID, tx.FromUserID, tx.ToUserID, tx.Amount, tx.Memo, tx.Status,
	).Scan(&tx.CreatedAt)
	return tx, err
}

func (r *transactionsRepo) GetByID(ctx context.Context, id string) (models.Transaction, error) {
	var tx models.Transaction
	err := r.pool.QueryRow(ctx,
		`SELECT id, from_user_id, to_user_id, amount, memo, status, created_at
		   FROM transactions
		  WHERE id=$1`,
		id,
	).Scan(&tx.ID, &tx.FromUserID, &tx.ToUserID, &tx.Amount, &tx.Memo, &tx.Status, &tx.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Transaction{}, repository.ErrNotFound
	}
	return tx, err
}

func (r *transactionsRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]models.Transaction, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, from_user_id, to_user_id, amount, memo, status, created_at
		   FROM transactions
		  WHERE from_user_id=$1 OR to_user_id=$1
		  ORDER BY created_at DESC
		  LIMIT $2 OFFSET $3`,
		userID, limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Transaction
	for rows.Next() {
		var tx models.Transaction
		if err := rows.Scan(&tx.ID, &tx.FromUserID, &tx.ToUserID, &tx.Amount, &tx.Memo, &tx.Status, &tx.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, tx)
	}
	return out, rows.Err()
}
