package storage

import (
	"context"
	"database/sql"
)

// Queries is a thin query layer over the transactions schema. Each
// method maps to one statement.
type Queries struct {
	db *sql.DB
}

func NewQueries(db *sql.DB) *Queries {
	return &Queries{db: db}
}

// Transaction mirrors one row of the transactions table.
type Transaction struct {
	ID          string
	UserID      string
	AccountID   string
	CategoryID  sql.NullString
	AmountPaise int64
	Type        string
	Description sql.NullString
	Date        string
	SourceID    sql.NullString
	CreatedAt   string
}

// TransactionRow is a transaction joined with its category and account
// names. Either name is null when the referenced row is gone.
type TransactionRow struct {
	Transaction
	CategoryName sql.NullString
	AccountName  sql.NullString
}

type CreateTransactionParams struct {
	ID          string
	UserID      string
	AccountID   string
	CategoryID  sql.NullString
	AmountPaise int64
	Type        string
	Description sql.NullString
	Date        string
	SourceID    sql.NullString
	CreatedAt   string
}

const createTransaction = `
INSERT INTO transactions (id, user_id, account_id, category_id, amount_paise, type, description, date, source_id, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
RETURNING id, user_id, account_id, category_id, amount_paise, type, description, date, source_id, created_at
`

func (q *Queries) CreateTransaction(ctx context.Context, arg CreateTransactionParams) (Transaction, error) {
	row := q.db.QueryRowContext(ctx, createTransaction,
		arg.ID,
		arg.UserID,
		arg.AccountID,
		arg.CategoryID,
		arg.AmountPaise,
		arg.Type,
		arg.Description,
		arg.Date,
		arg.SourceID,
		arg.CreatedAt,
	)
	var t Transaction
	err := row.Scan(
		&t.ID,
		&t.UserID,
		&t.AccountID,
		&t.CategoryID,
		&t.AmountPaise,
		&t.Type,
		&t.Description,
		&t.Date,
		&t.SourceID,
		&t.CreatedAt,
	)
	return t, err
}

const listRecentTransactions = `
SELECT t.id, t.user_id, t.account_id, t.category_id, t.amount_paise, t.type, t.description, t.date, t.source_id, t.created_at,
       c.name AS category_name,
       a.name AS account_name
FROM transactions t
LEFT JOIN categories c ON c.id = t.category_id
LEFT JOIN accounts a ON a.id = t.account_id
WHERE t.user_id = ?
ORDER BY t.date DESC, t.created_at DESC
LIMIT ?
`

func (q *Queries) ListRecentTransactions(ctx context.Context, userID string, limit int64) ([]TransactionRow, error) {
	rows, err := q.db.QueryContext(ctx, listRecentTransactions, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []TransactionRow
	for rows.Next() {
		var r TransactionRow
		if err := rows.Scan(
			&r.ID,
			&r.UserID,
			&r.AccountID,
			&r.CategoryID,
			&r.AmountPaise,
			&r.Type,
			&r.Description,
			&r.Date,
			&r.SourceID,
			&r.CreatedAt,
			&r.CategoryName,
			&r.AccountName,
		); err != nil {
			return nil, err
		}
		items = append(items, r)
	}
	return items, rows.Err()
}

const getAccount = `
SELECT id, user_id, name FROM accounts WHERE id = ? AND user_id = ?
`

// Account mirrors one row of the accounts table.
type Account struct {
	ID     string
	UserID string
	Name   string
}

func (q *Queries) GetAccount(ctx context.Context, id, userID string) (Account, error) {
	var a Account
	err := q.db.QueryRowContext(ctx, getAccount, id, userID).Scan(&a.ID, &a.UserID, &a.Name)
	return a, err
}

const getCategoryByName = `
SELECT id FROM categories WHERE name = ?
`

func (q *Queries) GetCategoryIDByName(ctx context.Context, name string) (string, error) {
	var id string
	err := q.db.QueryRowContext(ctx, getCategoryByName, name).Scan(&id)
	return id, err
}

const countBySource = `
SELECT COUNT(1) FROM transactions WHERE source_id = ?
`

func (q *Queries) CountTransactionsBySource(ctx context.Context, sourceID string) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, countBySource, sourceID).Scan(&n)
	return n, err
}

const deleteBySource = `
DELETE FROM transactions WHERE source_id = ?
`

func (q *Queries) DeleteTransactionBySource(ctx context.Context, sourceID string) (int64, error) {
	res, err := q.db.ExecContext(ctx, deleteBySource, sourceID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
