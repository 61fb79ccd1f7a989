package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Personal-Hub-Backend/internal/apperrors"
	"github.com/ndewijer/Personal-Hub-Backend/internal/model"
)

// InvestmentRepository provides data access methods for the investments table.
type InvestmentRepository struct {
	db *sql.DB
}

// NewInvestmentRepository creates a new InvestmentRepository with the provided database connection.
func NewInvestmentRepository(db *sql.DB) *InvestmentRepository {
	return &InvestmentRepository{db: db}
}

const investmentColumns = `id, name, amount, profit_loss, created_at`

// ListInvestments retrieves every investment ordered by name.
func (r *InvestmentRepository) ListInvestments(ctx context.Context) ([]model.Investment, error) {
	query := `
		SELECT ` + investmentColumns + `
		FROM investments
		ORDER BY name ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query investments table: %w", err)
	}
	defer rows.Close()

	investments := []model.Investment{}
	for rows.Next() {
		inv, err := scanInvestment(rows)
		if err != nil {
			return nil, err
		}
		investments = append(investments, inv)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating investments table: %w", err)
	}

	return investments, nil
}

// GetInvestment retrieves a single investment by ID.
// Returns apperrors.ErrInvestmentNotFound when no row matches.
func (r *InvestmentRepository) GetInvestment(ctx context.Context, investmentID string) (model.Investment, error) {
	query := `
		SELECT ` + investmentColumns + `
		FROM investments
		WHERE id = ?
	`

	inv, err := scanInvestment(r.db.QueryRowContext(ctx, query, investmentID))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Investment{}, apperrors.ErrInvestmentNotFound
	}
	return inv, err
}

// InsertInvestment stores a new investment.
func (r *InvestmentRepository) InsertInvestment(ctx context.Context, inv *model.Investment) error {
	query := `
		INSERT INTO investments (` + investmentColumns + `)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		inv.ID,
		inv.Name,
		inv.Amount.String(),
		nullableDecimal(inv.ProfitLoss),
		formatTimestamp(inv.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert investment: %w", err)
	}
	return nil
}

// UpdateProfitLoss sets or clears (Valid == false) the profit/loss of an investment.
// Returns apperrors.ErrInvestmentNotFound when no row matches.
func (r *InvestmentRepository) UpdateProfitLoss(ctx context.Context, investmentID string, profitLoss decimal.NullDecimal) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE investments SET profit_loss = ? WHERE id = ?`,
		nullableDecimal(profitLoss),
		investmentID,
	)
	if err != nil {
		return fmt.Errorf("failed to update investment: %w", err)
	}
	return requireAffected(result, apperrors.ErrInvestmentNotFound)
}

// DeleteInvestment removes an investment.
// Returns apperrors.ErrInvestmentNotFound when no row matches.
func (r *InvestmentRepository) DeleteInvestment(ctx context.Context, investmentID string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM investments WHERE id = ?`, investmentID)
	if err != nil {
		return fmt.Errorf("failed to delete investment: %w", err)
	}
	return requireAffected(result, apperrors.ErrInvestmentNotFound)
}

func scanInvestment(row rowScanner) (model.Investment, error) {
	var (
		inv                model.Investment
		amountStr, created string
		profitLossStr      sql.NullString
	)

	err := row.Scan(&inv.ID, &inv.Name, &amountStr, &profitLossStr, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return inv, err
	}
	if err != nil {
		return inv, fmt.Errorf("failed to scan investments table results: %w", err)
	}

	if inv.Amount, err = parseAmount("investment", inv.ID, "amount", amountStr); err != nil {
		return inv, err
	}

	// profit_loss is optional; NULL decodes to an invalid NullDecimal.
	if profitLossStr.Valid {
		pl, err := parseAmount("investment", inv.ID, "profit_loss", profitLossStr.String)
		if err != nil {
			return inv, err
		}
		inv.ProfitLoss = decimal.NewNullDecimal(pl)
	}

	inv.CreatedAt, err = ParseTime(created)
	if err != nil {
		return inv, err
	}

	return inv, nil
}

func nullableDecimal(d decimal.NullDecimal) sql.NullString {
	if !d.Valid {
		return sql.NullString{}
	}
	return sql.NullString{String: d.Decimal.String(), Valid: true}
}

func requireAffected(result sql.Result, notFound error) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return notFound
	}
	return nil
}
