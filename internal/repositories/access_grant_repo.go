package repositories

import (
	"context"
	"errors"

	"stockaudit/internal/common"
	"stockaudit/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// AccessGrantRepository manages both grant variants. Creation relies on the
// unique (grantee, company) constraints so a concurrent duplicate request
// cannot insert a second edge; zero affected rows maps to ErrDuplicateGrant.
type AccessGrantRepository interface {
	CreateManagerGrant(ctx context.Context, grant *models.ManagerCompanyAccess) error
	DeleteManagerGrant(ctx context.Context, id uuid.UUID) error
	ManagerGrantExists(ctx context.Context, managerID, companyID uuid.UUID) (bool, error)
	ListManagerGrants(ctx context.Context, limit, offset int) ([]*models.ManagerCompanyAccess, error)

	CreateCounterGrant(ctx context.Context, grant *models.CounterCompanyAccess) error
	DeleteCounterGrant(ctx context.Context, id uuid.UUID) error
	CounterGrantExists(ctx context.Context, email string, companyID uuid.UUID) (bool, error)
	ListCounterGrants(ctx context.Context, limit, offset int) ([]*models.CounterCompanyAccess, error)
}

type accessGrantRepo struct {
	db DB
}

func NewAccessGrantRepository(db DB) AccessGrantRepository {
	return &accessGrantRepo{db: db}
}

func (r *accessGrantRepo) CreateManagerGrant(ctx context.Context, grant *models.ManagerCompanyAccess) error {
	query := `
		INSERT INTO manager_company_access (id, manager_id, company_id, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		ON CONFLICT (manager_id, company_id) DO NOTHING
	`
	tag, err := r.db.Exec(ctx, query, grant.ID, grant.ManagerID, grant.CompanyID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return common.ErrDuplicateGrant
	}
	return nil
}

func (r *accessGrantRepo) DeleteManagerGrant(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM manager_company_access WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *accessGrantRepo) ManagerGrantExists(ctx context.Context, managerID, companyID uuid.UUID) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM manager_company_access WHERE manager_id = $1 AND company_id = $2)`
	err := r.db.QueryRow(ctx, query, managerID, companyID).Scan(&exists)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return false, err
	}
	return exists, nil
}

func (r *accessGrantRepo) ListManagerGrants(ctx context.Context, limit, offset int) ([]*models.ManagerCompanyAccess, error) {
	query := `
		SELECT id, manager_id, company_id, created_at, updated_at
		FROM manager_company_access
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var grants []*models.ManagerCompanyAccess
	for rows.Next() {
		g := &models.ManagerCompanyAccess{}
		if err := rows.Scan(&g.ID, &g.ManagerID, &g.CompanyID, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, err
		}
		grants = append(grants, g)
	}
	return grants, rows.Err()
}

func (r *accessGrantRepo) CreateCounterGrant(ctx context.Context, grant *models.CounterCompanyAccess) error {
	query := `
		INSERT INTO counter_company_access (id, email, company_id, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		ON CONFLICT (email, company_id) DO NOTHING
	`
	tag, err := r.db.Exec(ctx, query, grant.ID, grant.Email, grant.CompanyID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return common.ErrDuplicateGrant
	}
	return nil
}

func (r *accessGrantRepo) DeleteCounterGrant(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM counter_company_access WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *accessGrantRepo) CounterGrantExists(ctx context.Context, email string, companyID uuid.UUID) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM counter_company_access WHERE email = $1 AND company_id = $2)`
	err := r.db.QueryRow(ctx, query, email, companyID).Scan(&exists)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return false, err
	}
	return exists, nil
}

func (r *accessGrantRepo) ListCounterGrants(ctx context.Context, limit, offset int) ([]*models.CounterCompanyAccess, error) {
	query := `
		SELECT id, email, company_id, created_at, updated_at
		FROM counter_company_access
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var grants []*models.CounterCompanyAccess
	for rows.Next() {
		g := &models.CounterCompanyAccess{}
		if err := rows.Scan(&g.ID, &g.Email, &g.CompanyID, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, err
		}
		grants = append(grants, g)
	}
	return grants, rows.Err()
}
