package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/yungbote/driveline-backend/internal/data/repos"
	types "github.com/yungbote/driveline-backend/internal/domain"
	"github.com/yungbote/driveline-backend/internal/platform/dbctx"
	"github.com/yungbote/driveline-backend/internal/platform/logger"
)

type RegisterUserInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

type UserService interface {
	Register(ctx context.Context, in RegisterUserInput) (*types.User, error)
	Authenticate(ctx context.Context, email, password string) (*types.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*types.User, error)
}

type userService struct {
	db       *gorm.DB
	log      *logger.Logger
	userRepo repos.UserRepo
}

func NewUserService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo) UserService {
	return &userService{
		db:       db,
		log:      log.With("service", "UserService"),
		userRepo: userRepo,
	}
}

func (us *userService) Register(ctx context.Context, in RegisterUserInput) (*types.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("valid email required")
	}
	if len(in.Password) < 8 {
		return nil, fmt.Errorf("password must be at least 8 characters")
	}
	firstName := strings.TrimSpace(in.FirstName)
	lastName := strings.TrimSpace(in.LastName)
	if firstName == "" || lastName == "" {
		return nil, fmt.Errorf("first_name and last_name required")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	var out *types.User
	if err := us.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		exists, err := us.userRepo.EmailExists(dbc, email)
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("email already registered")
		}
		created, err := us.userRepo.Create(dbc, []*types.User{{
			ID:        uuid.New(),
			Email:     email,
			Password:  string(hashed),
			FirstName: firstName,
			LastName:  lastName,
		}})
		if err != nil {
			return err
		}
		out = created[0]
		return nil
	}); err != nil {
		us.log.Warn("Register transaction error", "error", err)
		return nil, err
	}
	return out, nil
}

func (us *userService) Authenticate(ctx context.Context, email, password string) (*types.User, error) {
	dbc := dbctx.Context{Ctx: ctx}
	u, err := us.userRepo.GetByEmail(dbc, email)
	if err != nil {
		return nil, fmt.Errorf("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return nil, fmt.Errorf("invalid credentials")
	}
	return u, nil
}

func (us *userService) GetByID(ctx context.Context, id uuid.UUID) (*types.User, error) {
	return us.userRepo.GetByID(dbctx.Context{Ctx: ctx}, id)
}
