package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/mail"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/workforce-console/internal/auth"
	"github.com/spec-kit/workforce-console/internal/domain"
	"github.com/spec-kit/workforce-console/internal/repository"
	apperrors "github.com/spec-kit/workforce-console/pkg/util"
)

const statsPageSize = 500

// CreateUserInput is the payload for adding a workforce user.
type CreateUserInput struct {
	Name     string
	Email    string
	Phone    string
	Password string
}

// ConsoleService implements the admin and super admin console operations.
type ConsoleService struct {
	admins     repository.AdminRepository
	users      repository.WorkforceUserRepository
	bcryptCost int
	logger     *zap.Logger
	activity   *ActivityLog
	now        func() time.Time
}

// NewConsoleService builds the service.
func NewConsoleService(admins repository.AdminRepository, users repository.WorkforceUserRepository, bcryptCost int, logger *zap.Logger) *ConsoleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConsoleService{
		admins:     admins,
		users:      users,
		bcryptCost: bcryptCost,
		logger:     logger,
		activity:   NewActivityLog(0),
		now:        time.Now,
	}
}

// DashboardStats aggregates the workforce owned by admin.
func (s *ConsoleService) DashboardStats(ctx context.Context, admin *domain.Admin) (domain.DashboardStats, error) {
	var stats domain.DashboardStats
	for offset := 0; ; offset += statsPageSize {
		batch, err := s.users.List(ctx, repository.UserFilter{AdminID: admin.ID, Limit: statsPageSize, Offset: offset})
		if err != nil {
			return domain.DashboardStats{}, err
		}
		for _, u := range batch {
			stats.TotalUsers++
			if u.IsActive {
				stats.ActiveUsers++
			}
			if u.LastSyncAt != nil {
				stats.UsersWithSync++
			}
		}
		if len(batch) < statsPageSize {
			break
		}
	}

	if admin.UserLimit != nil {
		limit := *admin.UserLimit
		remaining := limit - stats.TotalUsers
		stats.UserLimit = &limit
		stats.RemainingSlots = &remaining
	}
	if stats.TotalUsers > 0 {
		stats.SyncRate = math.Round(float64(stats.UsersWithSync)/float64(stats.TotalUsers)*10000) / 100
	}
	return stats, nil
}

// ListUsers returns the admin's users, newest first.
func (s *ConsoleService) ListUsers(ctx context.Context, adminID int64, filter repository.UserFilter) ([]domain.WorkforceUser, error) {
	filter.AdminID = adminID
	users, err := s.users.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []domain.WorkforceUser{}
	}
	return users, nil
}

// CreateUser adds a user under admin, enforcing the admin's user limit.
func (s *ConsoleService) CreateUser(ctx context.Context, admin *domain.Admin, in CreateUserInput) (*domain.WorkforceUser, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if in.Name == "" || in.Email == "" || in.Password == "" {
		return nil, apperrors.NewValidationError("name, email and password are required", nil)
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return nil, apperrors.NewValidationError("Invalid email address", nil)
	}

	if admin.UserLimit != nil {
		count, err := s.users.CountByAdmin(ctx, admin.ID)
		if err != nil {
			return nil, err
		}
		if count >= *admin.UserLimit {
			return nil, apperrors.NewValidationError("User limit reached", map[string]any{"user_limit": *admin.UserLimit})
		}
	}

	hash, err := auth.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	user := &domain.WorkforceUser{
		AdminID:      admin.ID,
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Phone:        strings.TrimSpace(in.Phone),
		IsActive:     true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, apperrors.NewValidationError("Email already taken", nil)
		}
		return nil, err
	}
	s.logger.Info("user created", zap.Int64("admin_id", admin.ID), zap.Int64("user_id", user.ID))
	s.record(admin.ID, domain.RoleAdmin, fmt.Sprintf("Created user %s", user.Email))
	return user, nil
}

// ToggleUser flips a user's active flag and returns the new value.
func (s *ConsoleService) ToggleUser(ctx context.Context, adminID, userID int64) (bool, error) {
	user, err := s.ownedUser(ctx, adminID, userID)
	if err != nil {
		return false, err
	}
	active := !user.IsActive
	if err := s.users.SetActive(ctx, user.ID, active); err != nil {
		return false, err
	}
	s.record(adminID, domain.RoleAdmin, fmt.Sprintf("%s user %s", verb(active), user.Email))
	return active, nil
}

// DeleteUser removes a user the admin owns.
func (s *ConsoleService) DeleteUser(ctx context.Context, adminID, userID int64) error {
	user, err := s.ownedUser(ctx, adminID, userID)
	if err != nil {
		return err
	}
	if err := s.users.Delete(ctx, user.ID); err != nil {
		return err
	}
	s.record(adminID, domain.RoleAdmin, fmt.Sprintf("Deleted user %s", user.Email))
	return nil
}

// Users owned by another admin are reported as missing.
func (s *ConsoleService) ownedUser(ctx context.Context, adminID, userID int64) (*domain.WorkforceUser, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if apperrors.ToDomainError(err).Code == apperrors.CodeNotFound {
			return nil, apperrors.NewNotFound("user")
		}
		return nil, err
	}
	if user.AdminID != adminID {
		return nil, apperrors.NewNotFound("user")
	}
	return user, nil
}

// ListAdmins returns every admin account with its user count.
func (s *ConsoleService) ListAdmins(ctx context.Context) ([]domain.AdminSummary, error) {
	role := domain.RoleAdmin
	admins, err := s.admins.List(ctx, repository.AdminFilter{Role: &role, Limit: statsPageSize})
	if err != nil {
		return nil, err
	}
	out := make([]domain.AdminSummary, 0, len(admins))
	for _, a := range admins {
		count, err := s.users.CountByAdmin(ctx, a.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, domain.AdminSummary{
			ID:        a.ID,
			Name:      a.Name,
			Email:     a.Email,
			UserLimit: a.UserLimit,
			UserCount: count,
			IsActive:  a.Active,
			CreatedAt: a.CreatedAt,
			LastLogin: a.LastLogin,
		})
	}
	return out, nil
}

// ToggleAdmin blocks or unblocks an admin account on behalf of actorID and returns the
// new state.
func (s *ConsoleService) ToggleAdmin(ctx context.Context, actorID, adminID int64) (bool, error) {
	admin, err := s.admins.GetByID(ctx, adminID)
	if err != nil {
		if apperrors.ToDomainError(err).Code == apperrors.CodeNotFound {
			return false, apperrors.NewNotFound("admin")
		}
		return false, err
	}
	if admin.Role != domain.RoleAdmin {
		return false, apperrors.NewNotFound("admin")
	}
	admin.Active = !admin.Active
	if err := s.admins.Update(ctx, admin); err != nil {
		return false, err
	}
	s.logger.Info("admin status changed", zap.Int64("admin_id", admin.ID), zap.Bool("active", admin.Active))
	s.record(actorID, domain.RoleSuperAdmin, fmt.Sprintf("%s admin %s", verb(admin.Active), admin.Email))
	return admin.Active, nil
}

// ActivityLogs returns recent actions with actor names resolved.
func (s *ConsoleService) ActivityLogs(ctx context.Context) ([]domain.ActivityEntry, error) {
	entries := s.activity.Recent()
	names := make(map[int64]string)
	for i := range entries {
		e := &entries[i]
		if e.Role == domain.RoleSuperAdmin {
			e.ActorName = "Super Admin"
			continue
		}
		name, ok := names[e.ActorID]
		if !ok {
			actor, err := s.admins.GetByID(ctx, e.ActorID)
			switch {
			case err == nil:
				name = actor.Name
			case apperrors.ToDomainError(err).Code == apperrors.CodeNotFound:
				name = fmt.Sprintf("Admin #%d (Deleted)", e.ActorID)
			default:
				return nil, err
			}
			names[e.ActorID] = name
		}
		e.ActorName = name
	}
	return entries, nil
}

// ClearActivity empties the feed, leaving a single entry recording the purge.
func (s *ConsoleService) ClearActivity(actorID int64) int {
	n := s.activity.Clear()
	s.record(actorID, domain.RoleSuperAdmin, "Deleted all activity logs")
	return n
}

func (s *ConsoleService) record(actorID int64, role, action string) {
	s.activity.Record(actorID, role, action, s.now().UTC())
}

func verb(active bool) string {
	if active {
		return "Unblocked"
	}
	return "Blocked"
}
