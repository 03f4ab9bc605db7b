package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/workforce-console/internal/domain"
)

// ErrDuplicateEmail is returned when an email is already registered.
var ErrDuplicateEmail = errors.New("email already registered")

// AdminRepository handles persistence for console accounts.
type AdminRepository interface {
	Create(ctx context.Context, admin *domain.Admin) error
	Update(ctx context.Context, admin *domain.Admin) error
	GetByID(ctx context.Context, id int64) (*domain.Admin, error)
	GetByEmail(ctx context.Context, email string) (*domain.Admin, error)
	List(ctx context.Context, filter AdminFilter) ([]domain.Admin, error)
	TouchLogin(ctx context.Context, id int64, at time.Time) error
}

// AdminFilter defines query params for account listing.
type AdminFilter struct {
	Role   *string
	Active *bool
	Limit  int
	Offset int
}

type adminRepository struct {
	pool *pgxpool.Pool
}

// NewAdminRepository returns a Postgres-backed implementation.
func NewAdminRepository(pool *pgxpool.Pool) AdminRepository {
	return &adminRepository{pool: pool}
}

const adminColumns = `id, name, email, password_hash, role, user_limit, active_flag, last_login, created_at`

func (r *adminRepository) Create(ctx context.Context, admin *domain.Admin) error {
	const query = `
        INSERT INTO console_admins (name, email, password_hash, role, user_limit, active_flag)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at`

	err := r.pool.QueryRow(ctx, query,
		admin.Name,
		strings.ToLower(admin.Email),
		admin.PasswordHash,
		admin.Role,
		admin.UserLimit,
		admin.Active,
	).Scan(&admin.ID, &admin.CreatedAt)
	return mapUniqueViolation(err)
}

func (r *adminRepository) Update(ctx context.Context, admin *domain.Admin) error {
	const query = `
        UPDATE console_admins
        SET name=$1, email=$2, password_hash=$3, role=$4, user_limit=$5, active_flag=$6
        WHERE id=$7`

	cmd, err := r.pool.Exec(ctx, query,
		admin.Name,
		strings.ToLower(admin.Email),
		admin.PasswordHash,
		admin.Role,
		admin.UserLimit,
		admin.Active,
		admin.ID,
	)
	if err != nil {
		return mapUniqueViolation(err)
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *adminRepository) GetByID(ctx context.Context, id int64) (*domain.Admin, error) {
	query := `SELECT ` + adminColumns + ` FROM console_admins WHERE id=$1`
	return scanAdmin(r.pool.QueryRow(ctx, query, id))
}

func (r *adminRepository) GetByEmail(ctx context.Context, email string) (*domain.Admin, error) {
	query := `SELECT ` + adminColumns + ` FROM console_admins WHERE email=$1`
	return scanAdmin(r.pool.QueryRow(ctx, query, strings.ToLower(email)))
}

func (r *adminRepository) List(ctx context.Context, filter AdminFilter) ([]domain.Admin, error) {
	query := `SELECT ` + adminColumns + ` FROM console_admins`
	args := []any{}
	clauses := []string{}

	if filter.Role != nil {
		args = append(args, *filter.Role)
		clauses = append(clauses, fmt.Sprintf("role=$%d", len(args)))
	}
	if filter.Active != nil {
		args = append(args, *filter.Active)
		clauses = append(clauses, fmt.Sprintf("active_flag=$%d", len(args)))
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

	var result []domain.Admin
	for rows.Next() {
		admin, err := scanAdmin(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *admin)
	}
	return result, rows.Err()
}

func (r *adminRepository) TouchLogin(ctx context.Context, id int64, at time.Time) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE console_admins SET last_login=$1 WHERE id=$2`, at, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanAdmin(row pgx.Row) (*domain.Admin, error) {
	var admin domain.Admin
	if err := row.Scan(
		&admin.ID,
		&admin.Name,
		&admin.Email,
		&admin.PasswordHash,
		&admin.Role,
		&admin.UserLimit,
		&admin.Active,
		&admin.LastLogin,
		&admin.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &admin, nil
}

func pageClause(limit, offset int) string {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return fmt.Sprintf(" LIMIT %d OFFSET %d", limit, offset)
}

func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrDuplicateEmail
	}
	return err
}
