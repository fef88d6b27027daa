package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/garnizeh/gigpay/pkg/models"
)

const contractColumns = `id, terms, status, client_id, contractor_id, created, updated`

func (r *SQLiteRepo) CreateContract(ctx context.Context, c *models.Contract) (int64, error) {
	if c == nil {
		return 0, fmt.Errorf("contract is nil")
	}
	if c.Status == "" {
		c.Status = models.ContractStatusNew
	}

	ts := now()
	res, err := r.q.Exec(ctx,
		`INSERT INTO contracts (terms, status, client_id, contractor_id, created, updated) VALUES (?, ?, ?, ?, ?, ?)`,
		c.Terms, string(c.Status), c.ClientID, c.ContractorID, ts, ts)
	if err != nil {
		return 0, err
	}

	return res.LastInsertId()
}

func (r *SQLiteRepo) GetContractByID(ctx context.Context, id int64) (*models.Contract, error) {
	row := r.q.QueryRow(ctx, `SELECT `+contractColumns+` FROM contracts WHERE id = ?`, id)
	var c models.Contract
	var status string
	if err := row.Scan(&c.ID, &c.Terms, &status, &c.ClientID, &c.ContractorID, &c.Created, &c.Updated); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, err
	}
	c.Status = models.ContractStatus(status)

	return &c, nil
}

func (r *SQLiteRepo) ListContractsByClient(ctx context.Context, clientID int64) ([]models.Contract, error) {
	return r.listContracts(ctx, `SELECT `+contractColumns+` FROM contracts WHERE client_id = ? ORDER BY id`, clientID)
}

func (r *SQLiteRepo) ListActiveContractsByProfile(ctx context.Context, profileID int64) ([]models.Contract, error) {
	return r.listContracts(ctx,
		`SELECT `+contractColumns+` FROM contracts WHERE status != ? AND (client_id = ? OR contractor_id = ?) ORDER BY id`,
		string(models.ContractStatusTerminated), profileID, profileID)
}

func (r *SQLiteRepo) listContracts(ctx context.Context, query string, args ...any) ([]models.Contract, error) {
	rows, err := r.q.QueryRows(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Contract
	for rows.Next() {
		var c models.Contract
		var status string
		if err := rows.Scan(&c.ID, &c.Terms, &status, &c.ClientID, &c.ContractorID, &c.Created, &c.Updated); err != nil {
			return nil, err
		}
		c.Status = models.ContractStatus(status)
		out = append(out, c)
	}

	return out, rows.Err()
}
