package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/garnizeh/gigpay/pkg/models"
)

func (r *SQLiteRepo) CreateJob(ctx context.Context, j *models.Job) (int64, error) {
	if j == nil {
		return 0, fmt.Errorf("job is nil")
	}

	var paid any
	var paymentDate any
	if j.Paid {
		paid = 1
		if j.PaymentDate != nil {
			paymentDate = j.PaymentDate.UTC().UnixMilli()
		}
	}

	ts := now()
	res, err := r.q.Exec(ctx,
		`INSERT INTO jobs (description, price, paid, payment_date, contract_id, created, updated) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		j.Description, j.Price, paid, paymentDate, j.ContractID, ts, ts)
	if err != nil {
		return 0, err
	}

	return res.LastInsertId()
}

func (r *SQLiteRepo) GetJobByID(ctx context.Context, id int64) (*models.Job, error) {
	row := r.q.QueryRow(ctx, `SELECT id, description, price, paid, payment_date, contract_id, created, updated FROM jobs WHERE id = ?`, id)
	j, err := scanJob(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}

	return j, err
}

func (r *SQLiteRepo) ListUnpaidJobsByContracts(ctx context.Context, contractIDs []int64) ([]models.Job, error) {
	if len(contractIDs) == 0 {
		return nil, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(contractIDs)), ",")
	args := make([]any, 0, len(contractIDs))
	for _, id := range contractIDs {
		args = append(args, id)
	}

	q := `SELECT id, description, price, paid, payment_date, contract_id, created, updated FROM jobs WHERE (paid IS NULL OR paid = 0) AND contract_id IN (` + placeholders + `) ORDER BY id`
	rows, err := r.q.QueryRows(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Job
	for rows.Next() {
		j, err := scanJob(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, *j)
	}

	return out, rows.Err()
}

// MarkJobPaid flips paid/payment_date exactly once. The paid guard in the
// WHERE clause makes the transition one-way even if a caller raced past the
// already-paid check.
func (r *SQLiteRepo) MarkJobPaid(ctx context.Context, id int64, paymentDate time.Time) (bool, error) {
	res, err := r.q.Exec(ctx,
		`UPDATE jobs SET paid = 1, payment_date = ?, updated = ? WHERE id = ? AND (paid IS NULL OR paid = 0)`,
		paymentDate.UTC().UnixMilli(), now(), id)
	if err != nil {
		return false, fmt.Errorf("mark job paid: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return n == 1, nil
}

func (r *SQLiteRepo) ListPaidJobsBetween(ctx context.Context, start, end *time.Time) ([]models.PaidJobRecord, error) {
	q := `SELECT j.id, j.price, j.payment_date, j.contract_id, c.client_id, cl.first_name, cl.last_name, c.contractor_id, co.profession
FROM jobs j
JOIN contracts c ON c.id = j.contract_id
JOIN profiles cl ON cl.id = c.client_id
JOIN profiles co ON co.id = c.contractor_id
WHERE j.paid = 1`
	var args []any
	if start != nil {
		q += ` AND j.payment_date >= ?`
		args = append(args, start.UTC().UnixMilli())
	}
	if end != nil {
		q += ` AND j.payment_date <= ?`
		args = append(args, end.UTC().UnixMilli())
	}
	q += ` ORDER BY j.payment_date, j.id`

	rows, err := r.q.QueryRows(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.PaidJobRecord
	for rows.Next() {
		var rec models.PaidJobRecord
		var paidAt int64
		if err := rows.Scan(&rec.JobID, &rec.Price, &paidAt, &rec.ContractID, &rec.ClientID, &rec.ClientFirstName, &rec.ClientLastName, &rec.ContractorID, &rec.Profession); err != nil {
			return nil, err
		}
		rec.PaymentDate = time.UnixMilli(paidAt).UTC()
		out = append(out, rec)
	}

	return out, rows.Err()
}

func scanJob(scan func(dest ...any) error) (*models.Job, error) {
	var (
		j           models.Job
		paid        sql.NullInt64
		paymentDate sql.NullInt64
	)
	if err := scan(&j.ID, &j.Description, &j.Price, &paid, &paymentDate, &j.ContractID, &j.Created, &j.Updated); err != nil {
		return nil, err
	}
	j.Paid = paid.Valid && paid.Int64 != 0
	if paymentDate.Valid {
		t := time.UnixMilli(paymentDate.Int64).UTC()
		j.PaymentDate = &t
	}

	return &j, nil
}
