package repository

import (
	"context"
	"crypto/subtle"
	"database/sql"
	"errors"
	"fmt"

	"github.com/atinyakov/GreenFacade/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// DefaultGuests lists the accounts that only get the guest role.
var DefaultGuests = []string{"demo", "praktikant"}

// DefaultUsers is the built-in login/password table.
var DefaultUsers = map[string]string{
	"admin":      "admin123",
	"demo":       "gast",
	"architekt":  "planer2024",
	"praktikant": "lern123",
}

// StaticCredentialRepository authenticates against an in-memory table of
// plain-text passwords.
type StaticCredentialRepository struct {
	users map[string]models.Credential
}

// NewStaticCredentialRepository builds the table from users; logins listed
// in guests get models.RoleGuest, all others models.RoleFull.
func NewStaticCredentialRepository(users map[string]string, guests []string) *StaticCredentialRepository {
	guestSet := make(map[string]bool, len(guests))
	for _, g := range guests {
		guestSet[g] = true
	}
	creds := make(map[string]models.Credential, len(users))
	for login, password := range users {
		role := models.RoleFull
		if guestSet[login] {
			role = models.RoleGuest
		}
		creds[login] = models.Credential{Login: login, Secret: []byte(password), Role: role}
	}
	return &StaticCredentialRepository{users: creds}
}

// NewDefaultCredentialRepository returns the built-in account table.
func NewDefaultCredentialRepository() *StaticCredentialRepository {
	return NewStaticCredentialRepository(DefaultUsers, DefaultGuests)
}

// Authenticate returns the role for login when password matches exactly.
func (s *StaticCredentialRepository) Authenticate(_ context.Context, login, password string) (models.Role, error) {
	cred, ok := s.users[login]
	if !ok || subtle.ConstantTimeCompare(cred.Secret, []byte(password)) != 1 {
		return "", models.ErrInvalidCredentials
	}
	return cred.Role, nil
}

// PostgresCredentialRepository authenticates against bcrypt hashes stored in
// a PostgreSQL users table.
type PostgresCredentialRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresCredentialRepository creates a new PostgresCredentialRepository with the given database connection.
// db must be a valid *sql.DB connected to a PostgreSQL instance.
func NewPostgresCredentialRepository(db *sql.DB) *PostgresCredentialRepository {
	return &PostgresCredentialRepository{DB: db}
}

// UserExists checks whether a user with the specified login exists in the database.
func (s *PostgresCredentialRepository) UserExists(ctx context.Context, login string) (bool, error) {
	var exists bool
	err := s.DB.QueryRowContext(
		ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE login = $1)`,
		login,
	).Scan(&exists)
	return exists, err
}

// RegisterUser stores login with a bcrypt hash of password and the given role.
// An existing user gets its hash and role replaced.
func (s *PostgresCredentialRepository) RegisterUser(ctx context.Context, login, password string, role models.Role) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	_, err = s.DB.ExecContext(
		ctx,
		`INSERT INTO users (login, password_hash, role) VALUES ($1, $2, $3)
		 ON CONFLICT (login) DO UPDATE SET password_hash = EXCLUDED.password_hash, role = EXCLUDED.role`,
		login, hash, string(role),
	)
	if err != nil {
		return fmt.Errorf("register user: %w", err)
	}
	return nil
}

// Authenticate looks up login and verifies password against its hash.
func (s *PostgresCredentialRepository) Authenticate(ctx context.Context, login, password string) (models.Role, error) {
	var (
		hash []byte
		role string
	)
	err := s.DB.QueryRowContext(
		ctx,
		`SELECT password_hash, role FROM users WHERE login = $1`,
		login,
	).Scan(&hash, &role)
	if errors.Is(err, sql.ErrNoRows) {
		return "", models.ErrInvalidCredentials
	}
	if err != nil {
		return "", fmt.Errorf("lookup user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword(hash, []byte(password)); err != nil {
		return "", models.ErrInvalidCredentials
	}
	if models.Role(role) == models.RoleGuest {
		return models.RoleGuest, nil
	}
	return models.RoleFull, nil
}
