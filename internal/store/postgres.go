package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/ruralpay/ledger/internal/models"
	"github.com/shopspring/decimal"
)

const uniqueViolation = "23505"

const accountSelect = `
	SELECT a.id, a.user_id, a.name, a.account_number, a.iban, a.balance, a.created_at, a.updated_at,
		u.id, u.email, u.first_name, u.last_name, u.created_at
	FROM accounts a
	JOIN users u ON u.id = a.user_id`

// Postgres implements Store on top of database/sql with the lib/pq driver.
type Postgres struct {
	db  *sql.DB
	now func() time.Time
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db, now: time.Now}
}

func (s *Postgres) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (*models.Account, error) {
	var a models.Account
	var u models.User
	err := row.Scan(&a.ID, &a.OwnerID, &a.Name, &a.AccountNumber, &a.IBAN, &a.Balance, &a.CreatedAt, &a.UpdatedAt,
		&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	a.Owner = &u
	return &a, nil
}

func (s *Postgres) GetAccountByID(ctx context.Context, id int64) (*models.Account, error) {
	return scanAccount(s.db.QueryRowContext(ctx, accountSelect+` WHERE a.id = $1`, id))
}

func (s *Postgres) GetAccountByIBAN(ctx context.Context, iban string) (*models.Account, error) {
	return scanAccount(s.db.QueryRowContext(ctx, accountSelect+` WHERE a.iban = $1`, iban))
}

func (s *Postgres) ListAccountsByOwner(ctx context.Context, ownerID int64) ([]models.Account, error) {
	rows, err := s.db.QueryContext(ctx, accountSelect+` WHERE a.user_id = $1 ORDER BY a.created_at DESC, a.id DESC`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("query accounts: %w", err)
	}
	defer rows.Close()

	accounts := []models.Account{}
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		accounts = append(accounts, *a)
	}
	return accounts, rows.Err()
}

func (s *Postgres) CreateAccount(ctx context.Context, account *models.Account) error {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO accounts (user_id, name, account_number, iban, balance, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
		RETURNING id, created_at, updated_at`,
		account.OwnerID, account.Name, account.AccountNumber, account.IBAN, account.Balance, s.now(),
	).Scan(&account.ID, &account.CreatedAt, &account.UpdatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

func (s *Postgres) DeleteAccount(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM accounts WHERE id = $1 AND balance = 0`, id)
	if err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected > 0 {
		return nil
	}

	var exists bool
	if err := s.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM accounts WHERE id = $1)`, id).Scan(&exists); err != nil {
		return fmt.Errorf("check account: %w", err)
	}
	if exists {
		return ErrAccountNotEmpty
	}
	return ErrNotFound
}

func (s *Postgres) CreateUser(ctx context.Context, user *models.User) error {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO users (email, password, first_name, last_name, phone_number, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`,
		user.Email, user.PasswordHash, user.FirstName, user.LastName, user.PhoneNumber, s.now(),
	).Scan(&user.ID, &user.CreatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

func (s *Postgres) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	return s.getUser(ctx, `WHERE id = $1`, id)
}

func (s *Postgres) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getUser(ctx, `WHERE email = $1`, email)
}

func (s *Postgres) getUser(ctx context.Context, where string, arg any) (*models.User, error) {
	var u models.User
	err := s.db.QueryRowContext(ctx, `SELECT id, email, password, first_name, last_name, phone_number, created_at FROM users `+where, arg).
		Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName, &u.PhoneNumber, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Postgres) ListTransactionsByAccount(ctx context.Context, accountID int64) ([]models.TransactionRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT t.id, t.reference, t.account_id, t.type, t.amount, t.related_account_id, t.description, t.created_at,
			ra.iban, ru.first_name, ru.last_name
		FROM transactions t
		LEFT JOIN accounts ra ON ra.id = t.related_account_id
		LEFT JOIN users ru ON ru.id = ra.user_id
		WHERE t.account_id = $1
		ORDER BY t.created_at DESC, t.id DESC`, accountID)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	records := []models.TransactionRecord{}
	for rows.Next() {
		var rec models.TransactionRecord
		var related sql.NullInt64
		var iban, first, last sql.NullString
		if err := rows.Scan(&rec.ID, &rec.Reference, &rec.AccountID, &rec.Type, &rec.Amount, &related, &rec.Description, &rec.CreatedAt,
			&iban, &first, &last); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		if related.Valid {
			id := related.Int64
			rec.RelatedAccountID = &id
		}
		rec.RelatedIBAN = iban.String
		if first.Valid {
			rec.RelatedName = first.String + " " + last.String
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// WithinTx opens a database transaction, locks the accounts with SELECT ... FOR UPDATE
// in ascending id order and hands fn a pgTx. Any error rolls everything back.
func (s *Postgres) WithinTx(ctx context.Context, accountIDs []int64, fn func(ctx context.Context, tx Tx) error) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer dbTx.Rollback()

	tx := &pgTx{tx: dbTx, now: s.now, locked: make(map[int64]*models.Account, len(accountIDs))}
	for _, id := range lockOrder(accountIDs) {
		account, err := tx.lockAccount(ctx, id)
		if err != nil {
			return err
		}
		tx.locked[id] = account
	}

	if err := fn(ctx, tx); err != nil {
		return err
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

type pgTx struct {
	tx     *sql.Tx
	now    func() time.Time
	locked map[int64]*models.Account
}

func (t *pgTx) lockAccount(ctx context.Context, id int64) (*models.Account, error) {
	var a models.Account
	err := t.tx.QueryRowContext(ctx, `
		SELECT id, user_id, name, account_number, iban, balance, created_at, updated_at
		FROM accounts
		WHERE id = $1
		FOR UPDATE`, id).Scan(&a.ID, &a.OwnerID, &a.Name, &a.AccountNumber, &a.IBAN, &a.Balance, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("lock account %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("lock account %d: %w", id, err)
	}
	return &a, nil
}

func (t *pgTx) LockedAccount(_ context.Context, id int64) (*models.Account, error) {
	a, ok := t.locked[id]
	if !ok {
		return nil, fmt.Errorf("account %d: %w", id, ErrNotLocked)
	}
	cp := *a
	return &cp, nil
}

func (t *pgTx) ApplyDelta(ctx context.Context, id int64, delta decimal.Decimal) (*models.Account, error) {
	a, ok := t.locked[id]
	if !ok {
		return nil, fmt.Errorf("account %d: %w", id, ErrNotLocked)
	}

	var balance decimal.Decimal
	var updatedAt time.Time
	err := t.tx.QueryRowContext(ctx, `
		UPDATE accounts
		SET balance = balance + $1, updated_at = $2
		WHERE id = $3 AND balance + $1 >= 0
		RETURNING balance, updated_at`,
		delta, t.now(), id).Scan(&balance, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("account %d: %w", id, ErrConflict)
	}
	if err != nil {
		return nil, fmt.Errorf("update balance of account %d: %w", id, err)
	}

	a.Balance = balance
	a.UpdatedAt = updatedAt
	cp := *a
	return &cp, nil
}

func (t *pgTx) AppendTransaction(ctx context.Context, rec *models.TransactionRecord) error {
	if _, ok := t.locked[rec.AccountID]; !ok {
		return fmt.Errorf("account %d: %w", rec.AccountID, ErrNotLocked)
	}
	err := t.tx.QueryRowContext(ctx, `
		INSERT INTO transactions (reference, account_id, type, amount, related_account_id, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`,
		rec.Reference, rec.AccountID, string(rec.Type), rec.Amount, rec.RelatedAccountID, rec.Description, rec.CreatedAt,
	).Scan(&rec.ID)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
