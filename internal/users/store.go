package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/dstu-guide/guide-api/internal/apperr"
	"github.com/dstu-guide/guide-api/internal/db"
)

const bcryptCost = 10

type Store struct {
	h *db.Handle
}

func NewStore(h *db.Handle) *Store { return &Store{h: h} }

const userColumns = `user_id, full_name, email, phone, faculty, user_group, avatar_url, role, registration_date`

func (s *Store) Register(ctx context.Context, in NewUser) (User, error) {
	ctx, cancel := s.h.Op(ctx)
	defer cancel()

	role := in.Role
	if role == "" {
		role = RoleStudent
	}
	email := strings.ToLower(strings.TrimSpace(in.Email))

	var exists int
	err := s.h.QueryRowContext(ctx, s.h.Rebind(`SELECT 1 FROM users WHERE email=$1`), email).Scan(&exists)
	switch {
	case err == nil:
		return User{}, fmt.Errorf("%w: user with this email already exists", apperr.ErrConflict)
	case !errors.Is(err, sql.ErrNoRows):
		return User{}, db.Classify(err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		return User{}, err
	}
	id, err := s.h.InsertID(ctx, s.h,
		`INSERT INTO users (full_name, email, password_hash, phone, faculty, user_group, role, registration_date)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`, "user_id",
		strings.TrimSpace(in.FullName), email, string(hash),
		nullIfEmpty(in.Phone), nullIfEmpty(in.Faculty), nullIfEmpty(in.UserGroup), role, time.Now().Unix())
	if err != nil {
		if db.IsUniqueViolation(err) {
			return User{}, fmt.Errorf("%w: user with this email already exists", apperr.ErrConflict)
		}
		return User{}, err
	}
	return s.get(ctx, id)
}

// Authenticate checks credentials. Unknown email and wrong password are
// indistinguishable to the caller.
func (s *Store) Authenticate(ctx context.Context, email, password string) (User, error) {
	ctx, cancel := s.h.Op(ctx)
	defer cancel()

	var id int64
	var hash string
	err := s.h.QueryRowContext(ctx, s.h.Rebind(`SELECT user_id, password_hash FROM users WHERE email=$1`),
		strings.ToLower(strings.TrimSpace(email))).Scan(&id, &hash)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, fmt.Errorf("%w: invalid email or password", apperr.ErrUnauthorized)
	}
	if err != nil {
		return User{}, db.Classify(err)
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return User{}, fmt.Errorf("%w: invalid email or password", apperr.ErrUnauthorized)
	}
	return s.get(ctx, id)
}

func (s *Store) Get(ctx context.Context, id int64) (User, error) {
	ctx, cancel := s.h.Op(ctx)
	defer cancel()
	return s.get(ctx, id)
}

// Role is used by the auth middleware to make the database authoritative.
func (s *Store) Role(ctx context.Context, id int64) (string, error) {
	var role string
	err := s.h.QueryRowContext(ctx, s.h.Rebind(`SELECT role FROM users WHERE user_id=$1`), id).Scan(&role)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%w: user %d", apperr.ErrNotFound, id)
	}
	return role, db.Classify(err)
}

func (s *Store) get(ctx context.Context, id int64) (User, error) {
	row := s.h.QueryRowContext(ctx, s.h.Rebind(`SELECT `+userColumns+` FROM users WHERE user_id=$1`), id)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, fmt.Errorf("%w: user %d", apperr.ErrNotFound, id)
	}
	return u, db.Classify(err)
}

func scanUser(row *sql.Row) (User, error) {
	var u User
	var phone, faculty, group, avatar sql.NullString
	var registered int64
	if err := row.Scan(&u.ID, &u.FullName, &u.Email, &phone, &faculty, &group, &avatar, &u.Role, &registered); err != nil {
		return User{}, err
	}
	u.Phone = strPtr(phone)
	u.Faculty = strPtr(faculty)
	u.UserGroup = strPtr(group)
	u.AvatarURL = strPtr(avatar)
	u.RegistrationDate = time.Unix(registered, 0).UTC()
	return u, nil
}

func nullIfEmpty(s string) any {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return strings.TrimSpace(s)
}

func strPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	v := ns.String
	return &v
}
