package entity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrEmailAlreadyExists = errors.New("email already registered")
	ErrNotFound           = errors.New("record not found")
)

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleManager  Role = "manager"
	RoleSalesRep Role = "sales_rep"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleSalesRep:
		return true
	}
	return false
}

// User is an authenticated identity. Email is unique and compared case-sensitively.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	FullName     string    `json:"full_name"`
	Role         Role      `json:"role"`
	PasswordHash string    `json:"-"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

func NewUser(email, fullName string, role Role, passwordHash string) *User {
	if role == "" {
		role = RoleSalesRep
	}
	return &User{
		ID:           uuid.New().String(),
		Email:        email,
		FullName:     fullName,
		Role:         role,
		PasswordHash: passwordHash,
		IsActive:     true,
		CreatedAt:    time.Now().UTC(),
	}
}

// UserRepositoryInterface must reject a second user with the same email
// atomically, returning ErrEmailAlreadyExists.
type UserRepositoryInterface interface {
	Create(ctx context.Context, u *User) error
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id string) (*User, error)
	List(ctx context.Context, limit int) ([]*User, error)
}
