package auth

import (
	"context"
	"database/sql"
	stderrors "errors"
	"strings"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Accounts is the bun backed AccountStore
type Accounts struct {
	db  *bun.DB
	now func() time.Time
}

var _ AccountStore = (*Accounts)(nil)

// NewAccountsRepository creates the repository
func NewAccountsRepository(db *bun.DB) *Accounts {
	return &Accounts{db: db, now: time.Now}
}

// DB returns the underlying bun database
func (a *Accounts) DB() *bun.DB {
	return a.db
}

// CreateSchema creates the accounts table when missing
func (a *Accounts) CreateSchema(ctx context.Context) error {
	_, err := a.db.NewCreateTable().
		Model((*Account)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to create accounts table")
	}
	return nil
}

// FindUnique looks up the account registered with email through provider
func (a *Accounts) FindUnique(ctx context.Context, email string, provider Provider) (*Account, error) {
	return a.FindUniqueTx(ctx, a.db, email, provider)
}

func (a *Accounts) FindUniqueTx(ctx context.Context, tx bun.IDB, email string, provider Provider) (*Account, error) {
	record := &Account{}
	err := tx.NewSelect().
		Model(record).
		Where("?TableAlias.email = ?", normalizeEmail(email)).
		Where("?TableAlias.provider = ?", provider).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, ExternalStoreError(err, "failed to find account")
	}

	return record, nil
}

// GetByEmail returns the account for email regardless of provider.
// Register uses it for the conflict check.
func (a *Accounts) GetByEmail(ctx context.Context, email string) (*Account, error) {
	return a.getByEmailTx(ctx, a.db, email)
}

func (a *Accounts) getByEmailTx(ctx context.Context, tx bun.IDB, email string) (*Account, error) {
	record := &Account{}
	err := tx.NewSelect().
		Model(record).
		Where("?TableAlias.email = ?", normalizeEmail(email)).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, ExternalStoreError(err, "failed to find account")
	}

	return record, nil
}

// Upsert creates the account keyed by email or updates its name. The
// provider is only written on create.
func (a *Accounts) Upsert(ctx context.Context, email string, fields AccountFields) (*Account, error) {
	var out *Account
	err := a.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		record, err := a.UpsertTx(ctx, tx, email, fields)
		if err != nil {
			return err
		}
		out = record
		return nil
	})

	if err != nil {
		return nil, err
	}

	return out, nil
}

func (a *Accounts) UpsertTx(ctx context.Context, tx bun.IDB, email string, fields AccountFields) (*Account, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, errors.New("account email is required", errors.CategoryBadInput)
	}

	now := a.now().UTC()

	existing, err := a.getByEmailTx(ctx, tx, email)
	if err == nil {
		existing.Name = fields.Name
		existing.UpdatedAt = now

		_, err = tx.NewUpdate().
			Model(existing).
			Column("name", "updated_at").
			WherePK().
			Exec(ctx)
		if err != nil {
			return nil, ExternalStoreError(err, "failed to update account")
		}
		return existing, nil
	}

	if !IsAccountNotFoundError(err) {
		return nil, err
	}

	record := &Account{
		ID:        accountID(email),
		Email:     email,
		Name:      fields.Name,
		Provider:  fields.Provider,
		Token:     fields.Token,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := tx.NewInsert().Model(record).Exec(ctx); err != nil {
		return nil, ExternalStoreError(err, "failed to create account")
	}

	return record, nil
}

// Register creates an account for the credentials provider, failing when
// the email is taken. No route creates credentials accounts: Register is the
// seeding hook for them, and the guest provider sign in only accepts emails
// registered through it.
func (a *Accounts) Register(ctx context.Context, email, name string) (*Account, error) {
	email = normalizeEmail(email)
	if _, err := a.GetByEmail(ctx, email); err == nil {
		return nil, errors.New("account already exists", errors.CategoryConflict).
			WithCode(errors.CodeConflict).
			WithMetadata(map[string]any{"email": email})
	} else if !IsAccountNotFoundError(err) {
		return nil, err
	}

	return a.Upsert(ctx, email, AccountFields{Name: name, Provider: ProviderGuest})
}

// accountID is derived from the email so the same address maps to the
// same id across environments.
func accountID(email string) uuid.UUID {
	if id, err := hashid.NewUUID(email); err == nil {
		return id
	}
	return uuid.New()
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
