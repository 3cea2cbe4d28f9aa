package user

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

type UserServiceImpl struct {
	tx database.Transactor
	user.UserRepository
}

func NewUserService(tx database.Transactor, userRepository user.UserRepository) user.UserService {
	return &UserServiceImpl{
		tx:             tx,
		UserRepository: userRepository,
	}
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// Me implements user.UserService.
func (s *UserServiceImpl) Me(ctx context.Context) (user.UserResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return user.UserResponse{}, err
	}

	u, err := s.UserRepository.GetByID(ctx, claims.UserID)
	if err != nil {
		return user.UserResponse{}, err
	}
	return u.ToResponse(), nil
}

// UpdateMe implements user.UserService.
func (s *UserServiceImpl) UpdateMe(ctx context.Context, req user.UpdateMeRequest) (user.UserResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return user.UserResponse{}, err
	}

	if err := req.Validate(); err != nil {
		return user.UserResponse{}, err
	}

	var updated user.User
	err = s.tx.InTx(ctx, func(txCtx context.Context) error {
		current, err := s.UserRepository.GetByID(txCtx, claims.UserID)
		if err != nil {
			return err
		}

		if req.Name != nil {
			current.Name = *req.Name
		}

		if req.Email != nil && *req.Email != current.Email {
			exists, err := s.UserRepository.ExistsByEmail(txCtx, *req.Email)
			if err != nil {
				return fmt.Errorf("failed to check email: %w", err)
			}
			if exists {
				return user.ErrUserEmailExists
			}
			current.Email = *req.Email
		}

		if req.Password != nil {
			if err := bcrypt.CompareHashAndPassword([]byte(current.PasswordHash), []byte(req.CurrentPassword)); err != nil {
				return user.ErrCurrentPasswordMismatch
			}
			hashed, err := hashPassword(*req.Password)
			if err != nil {
				return err
			}
			current.PasswordHash = hashed
		}

		updated, err = s.UserRepository.Update(txCtx, current)
		return err
	})
	if err != nil {
		return user.UserResponse{}, err
	}

	slog.Info("User profile updated", "user_id", updated.ID, "password_changed", req.Password != nil)
	return updated.ToResponse(), nil
}

// List implements user.UserService.
func (s *UserServiceImpl) List(ctx context.Context) ([]user.UserResponse, error) {
	users, err := s.UserRepository.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	responses := make([]user.UserResponse, 0, len(users))
	for _, u := range users {
		responses = append(responses, u.ToResponse())
	}
	return responses, nil
}

// Create implements user.UserService.
func (s *UserServiceImpl) Create(ctx context.Context, req user.CreateUserRequest) (user.UserResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return user.UserResponse{}, err
	}

	if err := req.Validate(); err != nil {
		return user.UserResponse{}, err
	}

	hashed, err := hashPassword(req.Password)
	if err != nil {
		return user.UserResponse{}, err
	}

	var created user.User
	err = s.tx.InTx(ctx, func(txCtx context.Context) error {
		exists, err := s.UserRepository.ExistsByEmail(txCtx, req.Email)
		if err != nil {
			return fmt.Errorf("failed to check email: %w", err)
		}
		if exists {
			return user.ErrUserEmailExists
		}

		created, err = s.UserRepository.Create(txCtx, user.User{
			Name:         req.Name,
			Email:        req.Email,
			PasswordHash: hashed,
			Role:         user.Role(req.Role),
		})
		return err
	})
	if err != nil {
		return user.UserResponse{}, err
	}

	slog.Info("User created", "user_id", created.ID, "role", created.Role, "created_by", claims.UserID)
	return created.ToResponse(), nil
}
