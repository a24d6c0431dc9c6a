package repository

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/mverhagen/Tax-Lot-Optimizer-Backend/internal/apperrors"
	"github.com/mverhagen/Tax-Lot-Optimizer-Backend/internal/model"
)

// CatalogRepository provides data access methods for the fund_catalog
// table: the static fund reference data behind similarity scoring and
// alternative ranking.
type CatalogRepository struct {
	db *sql.DB
}

// NewCatalogRepository creates a new CatalogRepository with the provided database connection.
func NewCatalogRepository(db *sql.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

const catalogColumns = `id, symbol, name, issuer, asset_class, style_category,
	management_style, tracked_index, expense_ratio, aum, avg_volume`

// GetAll retrieves every fund record, ordered by symbol.
// Returns an empty slice if the catalog is empty.
func (r *CatalogRepository) GetAll() ([]model.FundRecord, error) {
	query := `SELECT ` + catalogColumns + ` FROM fund_catalog ORDER BY symbol`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query fund_catalog: %w", err)
	}
	defer rows.Close()

	funds := []model.FundRecord{}

	for rows.Next() {
		f, err := scanFundRecord(rows)
		if err != nil {
			return nil, err
		}
		funds = append(funds, f)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating fund_catalog: %w", err)
	}

	return funds, nil
}

// GetBySymbol retrieves a single fund record by ticker symbol.
func (r *CatalogRepository) GetBySymbol(symbol string) (model.FundRecord, error) {
	query := `SELECT ` + catalogColumns + ` FROM fund_catalog WHERE symbol = ?`

	row := r.db.QueryRow(query, symbol)

	f, err := scanFundRecord(row)
	if err == sql.ErrNoRows {
		return model.FundRecord{}, fmt.Errorf("%w: %s", apperrors.ErrFundNotFound, symbol)
	}
	if err != nil {
		return model.FundRecord{}, err
	}

	return f, nil
}

// Create inserts a new fund record, assigning it a fresh ID.
func (r *CatalogRepository) Create(fund model.FundRecord) (model.FundRecord, error) {
	fund.ID = uuid.New().String()

	query := `
		INSERT INTO fund_catalog (` + catalogColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query,
		fund.ID,
		fund.Symbol,
		fund.Name,
		fund.Issuer,
		fund.AssetClass,
		fund.StyleCategory,
		string(fund.ManagementStyle),
		fund.TrackedIndex,
		fund.ExpenseRatio,
		fund.AUM,
		fund.AvgVolume,
	)
	if err != nil {
		return model.FundRecord{}, fmt.Errorf("failed to insert fund record: %w", err)
	}

	return fund, nil
}

// Update replaces the attributes of an existing fund record.
func (r *CatalogRepository) Update(fund model.FundRecord) error {
	query := `
		UPDATE fund_catalog
		SET name = ?, issuer = ?, asset_class = ?, style_category = ?,
		    management_style = ?, tracked_index = ?, expense_ratio = ?,
		    aum = ?, avg_volume = ?
		WHERE symbol = ?
	`

	result, err := r.db.Exec(query,
		fund.Name,
		fund.Issuer,
		fund.AssetClass,
		fund.StyleCategory,
		string(fund.ManagementStyle),
		fund.TrackedIndex,
		fund.ExpenseRatio,
		fund.AUM,
		fund.AvgVolume,
		fund.Symbol,
	)
	if err != nil {
		return fmt.Errorf("failed to update fund record: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", apperrors.ErrFundNotFound, fund.Symbol)
	}

	return nil
}

// Delete removes a fund record by symbol.
func (r *CatalogRepository) Delete(symbol string) error {
	result, err := r.db.Exec(`DELETE FROM fund_catalog WHERE symbol = ?`, symbol)
	if err != nil {
		return fmt.Errorf("failed to delete fund record: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", apperrors.ErrFundNotFound, symbol)
	}

	return nil
}

// scanner abstracts *sql.Row and *sql.Rows for scanFundRecord.
type scanner interface {
	Scan(dest ...any) error
}

func scanFundRecord(s scanner) (model.FundRecord, error) {
	var f model.FundRecord
	var mgmt string

	err := s.Scan(
		&f.ID,
		&f.Symbol,
		&f.Name,
		&f.Issuer,
		&f.AssetClass,
		&f.StyleCategory,
		&mgmt,
		&f.TrackedIndex,
		&f.ExpenseRatio,
		&f.AUM,
		&f.AvgVolume,
	)
	if err == sql.ErrNoRows {
		return model.FundRecord{}, err
	}
	if err != nil {
		return model.FundRecord{}, fmt.Errorf("failed to scan fund_catalog row: %w", err)
	}

	f.ManagementStyle = model.ManagementStyle(mgmt)
	return f, nil
}
