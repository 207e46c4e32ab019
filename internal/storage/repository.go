package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"kharcha/internal/core"
)

// Transaction types.
const (
	TypeExpense = "expense"
	TypeIncome  = "income"
)

// DefaultAccountID is the seeded demo account used when a request
// does not name one.
const DefaultAccountID = "acc-demo-cash"

// recentLimit caps ListRecent result size.
const recentLimit = 50

var (
	ErrUnknownAccount = errors.New("unknown account")
	ErrInvalidType    = errors.New("transaction type must be expense or income")
)

// ValidTransactionType reports whether t is an accepted transaction type.
func ValidTransactionType(t string) bool {
	return t == TypeExpense || t == TypeIncome
}

// TransactionRepository persists the transaction history in SQLite.
type TransactionRepository struct {
	db *sql.DB
	q  *Queries
}

// NewTransactionRepository opens (creating if needed) the database at
// dbPath and applies pending migrations.
func NewTransactionRepository(dbPath string) (*TransactionRepository, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, err
	}

	return &TransactionRepository{db: db, q: NewQueries(db)}, nil
}

func (r *TransactionRepository) Close() error {
	return r.db.Close()
}

// NewTransaction is the input for CreateTransaction. Zero-value
// AccountID means the seeded demo account; an empty Category stores a
// null category reference, as does a category name the registry table
// does not know.
type NewTransaction struct {
	UserID      string
	AccountID   string
	Category    string
	Amount      core.Money
	Type        string
	Description string
	Date        core.Date

	// SourceID marks rows mirrored from another store, for idempotent
	// sync. Empty for rows created through the API.
	SourceID string
}

// TransactionRecord is the API-facing shape of a stored transaction.
type TransactionRecord struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	AccountID    string    `json:"account_id"`
	AccountName  string    `json:"account_name,omitempty"`
	CategoryName string    `json:"category_name,omitempty"`
	Amount       int64     `json:"amount"`
	Type         string    `json:"type"`
	Description  string    `json:"description,omitempty"`
	Date         core.Date `json:"date"`
	CreatedAt    time.Time `json:"created_at"`
}

// CreateTransaction stores one transaction and returns the persisted
// record.
func (r *TransactionRepository) CreateTransaction(ctx context.Context, in NewTransaction) (TransactionRecord, error) {
	if !ValidTransactionType(in.Type) {
		return TransactionRecord{}, ErrInvalidType
	}

	accountID := in.AccountID
	if accountID == "" {
		accountID = DefaultAccountID
	}
	account, err := r.q.GetAccount(ctx, accountID, in.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// The demo account is seeded per user id "demo-user" only;
			// other users fall back to it as a shared bucket.
			account, err = r.q.GetAccount(ctx, accountID, "demo-user")
		}
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return TransactionRecord{}, ErrUnknownAccount
			}
			return TransactionRecord{}, fmt.Errorf("look up account: %w", err)
		}
	}

	var categoryID sql.NullString
	if in.Category != "" {
		id, err := r.q.GetCategoryIDByName(ctx, in.Category)
		switch {
		case err == nil:
			categoryID = sql.NullString{String: id, Valid: true}
		case errors.Is(err, sql.ErrNoRows):
			// Unknown categories are stored as uncategorised.
		default:
			return TransactionRecord{}, fmt.Errorf("look up category: %w", err)
		}
	}

	var description sql.NullString
	if in.Description != "" {
		description = sql.NullString{String: in.Description, Valid: true}
	}
	var sourceID sql.NullString
	if in.SourceID != "" {
		sourceID = sql.NullString{String: in.SourceID, Valid: true}
	}

	row, err := r.q.CreateTransaction(ctx, CreateTransactionParams{
		ID:          uuid.NewString(),
		UserID:      in.UserID,
		AccountID:   account.ID,
		CategoryID:  categoryID,
		AmountPaise: in.Amount.Paise,
		Type:        in.Type,
		Description: description,
		Date:        in.Date.String(),
		SourceID:    sourceID,
		CreatedAt:   time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return TransactionRecord{}, fmt.Errorf("insert transaction: %w", err)
	}

	return r.toRecord(TransactionRow{
		Transaction:  row,
		CategoryName: sql.NullString{String: in.Category, Valid: categoryID.Valid},
		AccountName:  sql.NullString{String: account.Name, Valid: true},
	})
}

// ListRecent returns the user's most recent transactions, newest first,
// capped at 50.
func (r *TransactionRepository) ListRecent(ctx context.Context, userID string) ([]TransactionRecord, error) {
	rows, err := r.q.ListRecentTransactions(ctx, userID, recentLimit)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	records := make([]TransactionRecord, 0, len(rows))
	for _, row := range rows {
		rec, err := r.toRecord(row)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// HasSource reports whether a mirrored row for sourceID exists.
func (r *TransactionRepository) HasSource(ctx context.Context, sourceID string) (bool, error) {
	n, err := r.q.CountTransactionsBySource(ctx, sourceID)
	if err != nil {
		return false, fmt.Errorf("count by source: %w", err)
	}
	return n > 0, nil
}

// RemoveBySource deletes the mirrored row for sourceID, if any.
func (r *TransactionRepository) RemoveBySource(ctx context.Context, sourceID string) error {
	if _, err := r.q.DeleteTransactionBySource(ctx, sourceID); err != nil {
		return fmt.Errorf("delete by source: %w", err)
	}
	return nil
}

func (r *TransactionRepository) toRecord(row TransactionRow) (TransactionRecord, error) {
	date, err := core.ParseDate(row.Date)
	if err != nil {
		return TransactionRecord{}, fmt.Errorf("stored date %q: %w", row.Date, err)
	}
	createdAt, err := time.Parse(time.RFC3339, row.CreatedAt)
	if err != nil {
		return TransactionRecord{}, fmt.Errorf("stored created_at %q: %w", row.CreatedAt, err)
	}
	return TransactionRecord{
		ID:           row.ID,
		UserID:       row.UserID,
		AccountID:    row.AccountID,
		AccountName:  row.AccountName.String,
		CategoryName: row.CategoryName.String,
		Amount:       row.AmountPaise,
		Type:         row.Type,
		Description:  row.Description.String,
		Date:         date,
		CreatedAt:    createdAt,
	}, nil
}
