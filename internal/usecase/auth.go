package usecase

import (
	"context"
	"errors"
	"log"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/infra/security"
)

type AuthUseCase struct {
	Users  entity.UserRepositoryInterface
	Hasher PasswordHasher
	Tokens TokenService
}

func NewAuthUseCase(users entity.UserRepositoryInterface, hasher PasswordHasher, tokens TokenService) *AuthUseCase {
	return &AuthUseCase{
		Users:  users,
		Hasher: hasher,
		Tokens: tokens,
	}
}

// Register creates a new identity. Uniqueness of the email is enforced by the
// repository; the lookup here only avoids hashing for an obvious duplicate.
func (uc *AuthUseCase) Register(ctx context.Context, input RegisterInput) (*entity.User, error) {
	if err := validationFailed(ValidateRegisterInput(input)); err != nil {
		return nil, err
	}

	if _, err := uc.Users.FindByEmail(ctx, input.Email); err == nil {
		return nil, ErrDuplicateIdentity
	} else if !errors.Is(err, entity.ErrNotFound) {
		return nil, databaseError("look up user", err)
	}

	hash, err := uc.Hasher.Hash(input.Password)
	if err != nil {
		return nil, &TechnicalError{Code: CodeSecurity, Message: "failed to hash password", Err: err}
	}

	user := entity.NewUser(input.Email, input.FullName, input.Role, hash)
	if err := uc.Users.Create(ctx, user); err != nil {
		if errors.Is(err, entity.ErrEmailAlreadyExists) {
			return nil, ErrDuplicateIdentity
		}
		return nil, databaseError("create user", err)
	}

	log.Printf("👤 Registered user %s (%s)", user.ID, user.Role)
	return user, nil
}

// Login never reveals whether the email or the password was wrong.
func (uc *AuthUseCase) Login(ctx context.Context, input LoginInput) (*LoginOutput, error) {
	if err := validationFailed(ValidateLoginInput(input)); err != nil {
		return nil, err
	}

	user, err := uc.Users.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			uc.Hasher.VerifyMissing(input.Password)
			return nil, ErrInvalidCredentials
		}
		return nil, databaseError("look up user", err)
	}

	if !uc.Hasher.Verify(input.Password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := uc.Tokens.Issue(user.Email, uc.Tokens.TTL())
	if err != nil {
		return nil, &TechnicalError{Code: CodeSecurity, Message: "failed to issue token", Err: err}
	}

	return &LoginOutput{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresAt:   expiresAt,
		User:        user,
	}, nil
}

// Authenticate resolves a bearer token to the identity it was issued for.
func (uc *AuthUseCase) Authenticate(ctx context.Context, token string) (*entity.User, error) {
	email, err := uc.Tokens.Validate(token)
	if err != nil {
		if errors.Is(err, security.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	user, err := uc.Users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return nil, ErrIdentityNotFound
		}
		return nil, databaseError("look up user", err)
	}
	return user, nil
}
