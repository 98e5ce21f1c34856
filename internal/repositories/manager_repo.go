package repositories

import (
	"context"
	"errors"

	"stockaudit/internal/common"
	"stockaudit/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type ManagerRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Manager, error)
	GetByEmail(ctx context.Context, email string) (*models.Manager, error)
}

type managerRepo struct {
	db DB
}

func NewManagerRepository(db DB) ManagerRepository {
	return &managerRepo{db: db}
}

const managerColumns = "id, company_id, warehouse_id, email, name, password_hash, active, created_at, updated_at"

func scanManager(row pgx.Row) (*models.Manager, error) {
	m := &models.Manager{}
	err := row.Scan(&m.ID, &m.CompanyID, &m.WarehouseID, &m.Email, &m.Name, &m.PasswordHash, &m.Active, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (r *managerRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Manager, error) {
	query := `
		SELECT ` + managerColumns + `
		FROM managers
		WHERE id = $1
	`
	m, err := scanManager(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, err
	}
	return m, nil
}

func (r *managerRepo) GetByEmail(ctx context.Context, email string) (*models.Manager, error) {
	query := `
		SELECT ` + managerColumns + `
		FROM managers
		WHERE email = $1
	`
	m, err := scanManager(r.db.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, err
	}
	return m, nil
}
