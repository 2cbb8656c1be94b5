// service.go

package user

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/mkraiem/facture-saas/internal/auth"
	"github.com/mkraiem/facture-saas/internal/company"
	"github.com/mkraiem/facture-saas/internal/core"
	"github.com/mkraiem/facture-saas/internal/plan"
	"github.com/mkraiem/facture-saas/internal/subscription"
)

type Service struct {
	db    *sqlx.DB
	repo  Repository
	plans plan.Repository
}

func NewService(db *sqlx.DB, repo Repository, plans plan.Repository) *Service {
	return &Service{db: db, repo: repo, plans: plans}
}

func (s *Service) GetByID(
	ctx context.Context,
	id string,
) (*auth.UserInfo, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

func (s *Service) GetByEmail(
	ctx context.Context,
	email string,
) (*auth.UserInfo, error) {
	user, err := s.repo.GetByEmail(ctx, strings.ToLower(email))
	if err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

// Register provisions the whole account in one transaction: the
// tenant's company row, the user and a subscription on the default
// plan. A failure at any step leaves no partial account behind.
func (s *Service) Register(
	ctx context.Context,
	input auth.RegisterInput,
) (*auth.UserInfo, error) {
	defaultPlan, err := s.plans.GetByName(ctx, plan.DefaultPlanName)
	if err != nil {
		return nil, fmt.Errorf("default plan: %w", err)
	}

	verificationToken, err := core.GenerateSecureToken(32)
	if err != nil {
		return nil, fmt.Errorf("verification token: %w", err)
	}

	newUser := &User{
		ID:                uuid.New().String(),
		Email:             strings.ToLower(input.Email),
		PasswordHash:      input.PasswordHash,
		Name:              input.Name,
		Role:              RoleUser,
		EmailVerified:     false,
		VerificationToken: &verificationToken,
	}

	err = core.InTx(ctx, s.db, func(tx *sqlx.Tx) error {
		companies := company.NewRepository(tx)
		companyID, upsertErr := companies.UpsertByName(ctx, company.Upsert{
			Name: input.CompanyName,
			Type: company.TypeClient,
		})
		if upsertErr != nil {
			return upsertErr
		}

		newUser.CompanyID = &companyID

		users := NewRepository(tx)
		if createErr := users.Create(ctx, newUser); createErr != nil {
			return createErr
		}

		_, subErr := subscription.CreateTx(
			ctx, tx, newUser.ID, defaultPlan.ID,
			defaultPlan.TokensPerMonth, defaultPlan.DurationDays,
		)
		return subErr
	})
	if err != nil {
		return nil, err
	}

	return toUserInfo(newUser), nil
}

func (s *Service) VerifyEmail(ctx context.Context, token string) error {
	return s.repo.VerifyEmailByToken(ctx, token)
}

func (s *Service) IncrementTokenVersion(
	ctx context.Context,
	userID string,
) error {
	return s.repo.IncrementTokenVersion(ctx, userID)
}

func (s *Service) UpdatePassword(
	ctx context.Context,
	userID, passwordHash string,
) error {
	return s.repo.UpdatePassword(ctx, userID, passwordHash)
}

func (s *Service) GetUser(ctx context.Context, id string) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) UpdateUser(
	ctx context.Context,
	id string,
	req UpdateUserRequest,
) (*User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		user.Name = *req.Name
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *Service) UpdateUserRole(
	ctx context.Context,
	id, role string,
) (*User, error) {
	if role != RoleUser && role != RoleManager && role != RoleAdmin {
		return nil, fmt.Errorf(
			"update role: invalid role %q: %w",
			role,
			core.ErrInvalidInput,
		)
	}

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	user.Role = role

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *Service) DeleteUser(ctx context.Context, id string) error {
	return s.repo.SoftDelete(ctx, id)
}

func (s *Service) ListUsers(
	ctx context.Context,
	params ListUsersParams,
) ([]User, int, error) {
	return s.repo.List(ctx, params)
}

func (s *Service) GetMe(ctx context.Context, userID string) (*User, error) {
	if userID == "" {
		return nil, fmt.Errorf("get me: %w", core.ErrUnauthorized)
	}

	return s.repo.GetByID(ctx, userID)
}

func (s *Service) UpdateMe(
	ctx context.Context,
	userID string,
	req UpdateUserRequest,
) (*User, error) {
	if userID == "" {
		return nil, fmt.Errorf("update me: %w", core.ErrUnauthorized)
	}

	return s.UpdateUser(ctx, userID, req)
}

func (s *Service) CanDeleteUser(
	ctx context.Context,
	requesterID, targetID string,
) error {
	if requesterID == targetID {
		return nil
	}

	requester, err := s.repo.GetByID(ctx, requesterID)
	if err != nil {
		return err
	}

	if !requester.IsAdmin() {
		return fmt.Errorf("delete user: %w", core.ErrForbidden)
	}

	target, err := s.repo.GetByID(ctx, targetID)
	if err != nil {
		return err
	}

	if target.IsAdmin() {
		return fmt.Errorf("cannot delete admin users: %w", core.ErrForbidden)
	}

	return nil
}

func toUserInfo(u *User) *auth.UserInfo {
	return &auth.UserInfo{
		ID:            u.ID,
		Email:         u.Email,
		Name:          u.Name,
		PasswordHash:  u.PasswordHash,
		Role:          u.Role,
		CompanyID:     u.CompanyID,
		EmailVerified: u.EmailVerified,
		TokenVersion:  u.TokenVersion,
		CreatedAt:     u.CreatedAt,
	}
}

var _ auth.UserProvider = (*Service)(nil)
