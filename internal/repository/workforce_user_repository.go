package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/workforce-console/internal/domain"
)

// WorkforceUserRepository handles persistence for the users an admin manages.
type WorkforceUserRepository interface {
	Create(ctx context.Context, user *domain.WorkforceUser) error
	GetByID(ctx context.Context, id int64) (*domain.WorkforceUser, error)
	GetByEmail(ctx context.Context, email string) (*domain.WorkforceUser, error)
	List(ctx context.Context, filter UserFilter) ([]domain.WorkforceUser, error)
	CountByAdmin(ctx context.Context, adminID int64) (int, error)
	SetActive(ctx context.Context, id int64, active bool) error
	Delete(ctx context.Context, id int64) error
}

// UserFilter defines query params for user listing. Search matches name or email.
type UserFilter struct {
	AdminID int64
	Search  string
	Active  *bool
	Limit   int
	Offset  int
}

type workforceUserRepository struct {
	pool *pgxpool.Pool
}

// NewWorkforceUserRepository returns a Postgres-backed implementation.
func NewWorkforceUserRepository(pool *pgxpool.Pool) WorkforceUserRepository {
	return &workforceUserRepository{pool: pool}
}

const userColumns = `id, admin_id, name, email, password_hash, phone, is_active, last_sync, created_at`

func (r *workforceUserRepository) Create(ctx context.Context, user *domain.WorkforceUser) error {
	const query = `
        INSERT INTO workforce_users (admin_id, name, email, password_hash, phone, is_active)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at`

	err := r.pool.QueryRow(ctx, query,
		user.AdminID,
		user.Name,
		strings.ToLower(user.Email),
		user.PasswordHash,
		user.Phone,
		user.IsActive,
	).Scan(&user.ID, &user.CreatedAt)
	return mapUniqueViolation(err)
}

func (r *workforceUserRepository) GetByID(ctx context.Context, id int64) (*domain.WorkforceUser, error) {
	query := `SELECT ` + userColumns + ` FROM workforce_users WHERE id=$1`
	return scanUser(r.pool.QueryRow(ctx, query, id))
}

func (r *workforceUserRepository) GetByEmail(ctx context.Context, email string) (*domain.WorkforceUser, error) {
	query := `SELECT ` + userColumns + ` FROM workforce_users WHERE email=$1`
	return scanUser(r.pool.QueryRow(ctx, query, strings.ToLower(email)))
}

func (r *workforceUserRepository) List(ctx context.Context, filter UserFilter) ([]domain.WorkforceUser, error) {
	query := `SELECT ` + userColumns + ` FROM workforce_users`
	args := []any{}
	clauses := []string{}

	if filter.AdminID != 0 {
		args = append(args, filter.AdminID)
		clauses = append(clauses, fmt.Sprintf("admin_id=$%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		clauses = append(clauses, fmt.Sprintf("(name ILIKE $%d OR email ILIKE $%d)", len(args), len(args)))
	}
	if filter.Active != nil {
		args = append(args, *filter.Active)
		clauses = append(clauses, fmt.Sprintf("is_active=$%d", len(args)))
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY created_at DESC, id DESC" + pageClause(filter.Limit, filter.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.WorkforceUser
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *user)
	}
	return result, rows.Err()
}

func (r *workforceUserRepository) CountByAdmin(ctx context.Context, adminID int64) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM workforce_users WHERE admin_id=$1`, adminID).Scan(&count)
	return count, err
}

func (r *workforceUserRepository) SetActive(ctx context.Context, id int64, active bool) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE workforce_users SET is_active=$1 WHERE id=$2`, active, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *workforceUserRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM workforce_users WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanUser(row pgx.Row) (*domain.WorkforceUser, error) {
	var user domain.WorkforceUser
	var phone *string
	if err := row.Scan(
		&user.ID,
		&user.AdminID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&phone,
		&user.IsActive,
		&user.LastSyncAt,
		&user.CreatedAt,
	); err != nil {
		return nil, err
	}
	if phone != nil {
		user.Phone = *phone
	}
	return &user, nil
}
