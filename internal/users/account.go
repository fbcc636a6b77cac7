package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/dstu-guide/guide-api/internal/apperr"
	"github.com/dstu-guide/guide-api/internal/db"
)

func ValidRole(role string) bool {
	return role == RoleStudent || role == RoleTeacher || role == RoleAdmin
}

// ChangePassword replaces the password after checking the current one.
func (s *Store) ChangePassword(ctx context.Context, id int64, oldPassword, newPassword string) error {
	ctx, cancel := s.h.Op(ctx)
	defer cancel()

	var hash string
	err := s.h.QueryRowContext(ctx, s.h.Rebind(`SELECT password_hash FROM users WHERE user_id=$1`), id).Scan(&hash)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: user %d", apperr.ErrNotFound, id)
	}
	if err != nil {
		return db.Classify(err)
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(oldPassword)) != nil {
		return fmt.Errorf("%w: incorrect current password", apperr.ErrUnauthorized)
	}
	next, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return err
	}
	_, err = s.h.ExecContext(ctx, s.h.Rebind(`UPDATE users SET password_hash=$1 WHERE user_id=$2`), string(next), id)
	return db.Classify(err)
}

// SetRole changes a user's role. The last admin cannot be demoted.
func (s *Store) SetRole(ctx context.Context, id int64, role string) (User, error) {
	if !ValidRole(role) {
		return User{}, fmt.Errorf("%w: unknown role %q", apperr.ErrInvalid, role)
	}
	ctx, cancel := s.h.Op(ctx)
	defer cancel()

	err := s.h.WithTx(ctx, func(tx *sql.Tx) error {
		var current string
		err := tx.QueryRowContext(ctx, s.h.Rebind(`SELECT role FROM users WHERE user_id=$1`+s.h.ForUpdate()), id).Scan(&current)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: user %d", apperr.ErrNotFound, id)
		}
		if err != nil {
			return db.Classify(err)
		}
		if current == RoleAdmin && role != RoleAdmin {
			var admins int
			if err := tx.QueryRowContext(ctx, `SELECT COUNT(1) FROM users WHERE role='admin'`).Scan(&admins); err != nil {
				return db.Classify(err)
			}
			if admins <= 1 {
				return fmt.Errorf("%w: cannot demote the last admin", apperr.ErrConflict)
			}
		}
		_, err = tx.ExecContext(ctx, s.h.Rebind(`UPDATE users SET role=$1 WHERE user_id=$2`), role, id)
		return db.Classify(err)
	})
	if err != nil {
		return User{}, err
	}
	return s.get(ctx, id)
}

// PromoteByEmail gives the account registered under email the given role.
// It is how the first admin appears when self-registration only makes
// students.
func (s *Store) PromoteByEmail(ctx context.Context, email, role string) (User, error) {
	opCtx, cancel := s.h.Op(ctx)
	var id int64
	err := s.h.QueryRowContext(opCtx, s.h.Rebind(`SELECT user_id FROM users WHERE email=$1`),
		strings.ToLower(strings.TrimSpace(email))).Scan(&id)
	cancel()
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, fmt.Errorf("%w: no user with email %s", apperr.ErrNotFound, email)
	}
	if err != nil {
		return User{}, db.Classify(err)
	}
	return s.SetRole(ctx, id, role)
}
