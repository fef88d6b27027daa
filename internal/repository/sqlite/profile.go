package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/garnizeh/gigpay/pkg/models"
)

func (r *SQLiteRepo) CreateProfile(ctx context.Context, p *models.Profile) (int64, error) {
	if p == nil {
		return 0, fmt.Errorf("profile is nil")
	}

	var email, passwordHash any
	if p.Email != "" {
		email = p.Email
	}
	if p.PasswordHash != "" {
		passwordHash = p.PasswordHash
	}

	ts := now()
	res, err := r.q.Exec(ctx,
		`INSERT INTO profiles (first_name, last_name, profession, balance, type, email, password_hash, created, updated) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.FirstName, p.LastName, p.Profession, p.Balance, string(p.Type), email, passwordHash, ts, ts)
	if err != nil {
		return 0, err
	}

	return res.LastInsertId()
}

func (r *SQLiteRepo) GetProfileByID(ctx context.Context, id int64) (*models.Profile, error) {
	row := r.q.QueryRow(ctx, `SELECT id, first_name, last_name, profession, balance, type, email, password_hash, created, updated FROM profiles WHERE id = ?`, id)
	return scanProfile(row)
}

func (r *SQLiteRepo) GetProfileByEmail(ctx context.Context, email string) (*models.Profile, error) {
	row := r.q.QueryRow(ctx, `SELECT id, first_name, last_name, profession, balance, type, email, password_hash, created, updated FROM profiles WHERE email = ?`, email)
	return scanProfile(row)
}

func (r *SQLiteRepo) UpdateBalance(ctx context.Context, id int64, balance decimal.Decimal) error {
	res, err := r.q.Exec(ctx, `UPDATE profiles SET balance = ?, updated = ? WHERE id = ?`, balance, now(), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("profile %d not found", id)
	}

	return nil
}

func scanProfile(row *sql.Row) (*models.Profile, error) {
	var (
		p            models.Profile
		typ          string
		email        sql.NullString
		passwordHash sql.NullString
	)
	if err := row.Scan(&p.ID, &p.FirstName, &p.LastName, &p.Profession, &p.Balance, &typ, &email, &passwordHash, &p.Created, &p.Updated); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, err
	}
	p.Type = models.ProfileType(typ)
	p.Email = email.String
	p.PasswordHash = passwordHash.String

	return &p, nil
}
