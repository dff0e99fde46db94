package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/hotelbooking/backend/internal/models"
	"go.uber.org/zap"
)

// mysqlDuplicateEntry is the MySQL error number for unique key violations
const mysqlDuplicateEntry = 1062

type userRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sql.DB, logger *zap.Logger) *userRepository {
	return &userRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new user and sets its ID
func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (username, email, password_hash, is_admin, is_moderator, is_worker)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query, user.Username, user.Email, user.PasswordHash, user.IsAdmin, user.IsModerator, user.IsWorker)
	if err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry {
			return fmt.Errorf("user %w", models.ErrAlreadyExists)
		}
		r.logger.Error("failed to insert user", zap.Error(err))
		return fmt.Errorf("failed to create user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get user id: %w", err)
	}
	user.ID = int(id)

	return nil
}

// GetByLogin retrieves a user by username or email
func (r *userRepository) GetByLogin(ctx context.Context, login string) (*models.User, error) {
	query := `
		SELECT id, username, email, password_hash, is_admin, is_moderator, is_worker
		FROM users
		WHERE username = ? OR email = ?
		LIMIT 1
	`
	return r.scanOne(r.db.QueryRowContext(ctx, query, login, strings.ToLower(login)))
}

// GetByID retrieves a user by ID
func (r *userRepository) GetByID(ctx context.Context, id int) (*models.User, error) {
	query := `
		SELECT id, username, email, password_hash, is_admin, is_moderator, is_worker
		FROM users
		WHERE id = ?
	`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *userRepository) scanOne(row *sql.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.IsAdmin, &user.IsModerator, &user.IsWorker)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user %w", models.ErrNotFound)
		}
		r.logger.Error("failed to query user", zap.Error(err))
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	return &user, nil
}

// List retrieves all users ordered by ID
func (r *userRepository) List(ctx context.Context) ([]models.User, error) {
	query := `
		SELECT id, username, email, is_admin, is_moderator, is_worker
		FROM users
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		r.logger.Error("failed to query users", zap.Error(err))
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var user models.User
		if err := rows.Scan(&user.ID, &user.Username, &user.Email, &user.IsAdmin, &user.IsModerator, &user.IsWorker); err != nil {
			r.logger.Error("failed to scan user", zap.Error(err))
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("error iterating rows", zap.Error(err))
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return users, nil
}

// UpdateRoles sets the given role flags of a user. Nil fields are left unchanged.
func (r *userRepository) UpdateRoles(ctx context.Context, id int, req *models.UpdateRolesRequest) error {
	setClauses := []string{}
	args := []any{}
	if req.IsAdmin != nil {
		setClauses = append(setClauses, "is_admin = ?")
		args = append(args, *req.IsAdmin)
	}
	if req.IsModerator != nil {
		setClauses = append(setClauses, "is_moderator = ?")
		args = append(args, *req.IsModerator)
	}
	if req.IsWorker != nil {
		setClauses = append(setClauses, "is_worker = ?")
		args = append(args, *req.IsWorker)
	}
	if len(setClauses) == 0 {
		return fmt.Errorf("%w: no fields to update", models.ErrInvalidInput)
	}

	args = append(args, id)
	query := fmt.Sprintf(`
		UPDATE users
		SET %s
		WHERE id = ?
	`, strings.Join(setClauses, ", "))

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("failed to update user roles", zap.Error(err), zap.Int("id", id))
		return fmt.Errorf("failed to update user roles: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		// MySQL reports 0 for unchanged rows too, so confirm the user exists
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
	}

	return nil
}
