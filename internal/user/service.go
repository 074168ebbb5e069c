package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/SlawCzech/dev-me-up/internal/apperrors"
)

const bcryptCost = 14

// AccountService orchestrates the account lifecycle: registration,
// activation, deactivation, password reset, profile access and anonymous
// sessions. It holds no state between requests.
type AccountService struct {
	repo    UserRepository
	tokens  TokenService
	mailer  Mailer
	baseURL string
}

func NewAccountService(repo UserRepository, tokens TokenService, mailer Mailer, baseURL string) *AccountService {
	return &AccountService{
		repo:    repo,
		tokens:  tokens,
		mailer:  mailer,
		baseURL: baseURL,
	}
}

// CreateUser creates an inactive account without sending an activation
// mail. Registration with activation is Register.
func (s *AccountService) CreateUser(ctx context.Context, req RegisterRequest) (*UserDetailResponse, error) {
	return s.createUser(ctx, req)
}

// Register creates an inactive account and mails an activation link. The
// user record is committed before the mail is sent, so a failed dispatch
// fails the request but leaves the account in place awaiting activation.
func (s *AccountService) Register(ctx context.Context, req RegisterRequest) (*UserDetailResponse, error) {
	resp, err := s.createUser(ctx, req)
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.Issue(ctx, PurposeActivation, resp.ID)
	if err != nil {
		return nil, err
	}

	link := fmt.Sprintf("%s/api/v1/activate/%s/%s", s.baseURL, EncodeUID(resp.ID), token)
	err = s.mailer.Send(
		req.Email,
		"Account Activation",
		fmt.Sprintf("Please click the following link to activate your account: %s", link),
	)
	if err != nil {
		return nil, apperrors.NewAppError(500, "error sending activation email", err)
	}

	return resp, nil
}

func (s *AccountService) createUser(ctx context.Context, req RegisterRequest) (*UserDetailResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, apperrors.NewAppError(400, err.Error(), err)
	}

	existing, err := s.repo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.NewAppError(400, "user with this email already exists", nil)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, apperrors.NewAppError(500, "error hashing password", err)
	}

	newUser := &User{
		Email:     req.Email,
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  string(hashed),
		IsActive:  false,
	}

	var profile *UserProfile
	if req.Profile != nil {
		profile = &UserProfile{
			Rank:            req.Profile.Rank,
			GamesPlayed:     req.Profile.GamesPlayed,
			GamesWon:        req.Profile.GamesWon,
			GamesLost:       req.Profile.GamesLost,
			IsBot:           req.Profile.IsBot,
			IsSearchVisible: req.Profile.IsSearchVisible,
			IsRankVisible:   req.Profile.IsRankVisible,
		}
	}

	if err := s.repo.CreateUser(ctx, newUser, profile); err != nil {
		// Concurrent registrations race to the unique index; the loser
		// gets the same validation error as a plain duplicate.
		if errors.Is(err, ErrDuplicateEmail) {
			return nil, apperrors.NewAppError(400, "user with this email already exists", err)
		}
		return nil, apperrors.NewAppError(500, "error creating user", err)
	}

	return NewUserDetailResponse(newUser, profile), nil
}

// Activate flips an account to active when the link token checks out. An
// unknown id and a bad token produce the same response so the endpoint
// cannot be used to probe which accounts exist.
func (s *AccountService) Activate(ctx context.Context, uid, token string) (string, error) {
	invalidLink := apperrors.NewAppError(400, "Invalid activation link.", nil)

	id, err := DecodeUID(uid)
	if err != nil {
		return "", invalidLink
	}

	target, err := s.repo.GetUser(ctx, id)
	if err != nil {
		return "", err
	}
	if target == nil {
		return "", invalidLink
	}

	ok, err := s.tokens.Verify(ctx, PurposeActivation, id, token)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", invalidLink
	}

	if !target.IsActive {
		target.IsActive = true
		if err := s.repo.UpdateUser(ctx, target); err != nil {
			return "", err
		}
	}

	return "Account activated successfully.", nil
}

// Deactivate sets the active flag to false. It is idempotent; repeating it
// reports that the account was already deactivated.
func (s *AccountService) Deactivate(ctx context.Context, principal *User, targetID uint) (string, error) {
	if !IsAdminOrSelf(principal, targetID) {
		return "", apperrors.NewAppError(403, "you do not have permission to perform this action", nil)
	}

	target, err := s.repo.GetUser(ctx, targetID)
	if err != nil {
		return "", err
	}
	if target == nil {
		return "", apperrors.NewAppError(404, "User not found.", nil)
	}

	if !target.IsActive {
		return fmt.Sprintf("%s is already deactivated.", target.Username), nil
	}

	target.IsActive = false
	if err := s.repo.UpdateUser(ctx, target); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s has been deactivated.", target.Username), nil
}

// RequestPasswordReset mails a reset link. Unknown emails are rejected
// outright, which openly reveals whether an address is registered; the
// activation flow deliberately does not. Both behaviors are kept as-is.
func (s *AccountService) RequestPasswordReset(ctx context.Context, req PasswordReminderRequest) (string, error) {
	if err := req.Validate(); err != nil {
		return "", apperrors.NewAppError(400, err.Error(), err)
	}

	target, err := s.repo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return "", err
	}
	if target == nil {
		return "", apperrors.NewAppError(400, "User with this email does not exist.", nil)
	}

	token, err := s.tokens.Issue(ctx, PurposePasswordReset, target.ID)
	if err != nil {
		return "", err
	}

	link := fmt.Sprintf("%s/api/v1/users/password-reset/%s/%s", s.baseURL, EncodeUID(target.ID), token)
	err = s.mailer.Send(
		target.Email,
		"Password Reset",
		fmt.Sprintf("Please click the following link to reset your password: %s", link),
	)
	if err != nil {
		return "", apperrors.NewAppError(500, "error sending password reset email", err)
	}

	return "Password reset link sent to your email.", nil
}

// ConfirmPasswordReset validates the new password, then the link, then
// persists the new hash. Password policy failures are reported even when
// the link is garbage; link failures are uniform across causes.
func (s *AccountService) ConfirmPasswordReset(ctx context.Context, uid, token string, req PasswordResetRequest) (string, error) {
	if err := req.Validate(); err != nil {
		return "", apperrors.NewAppError(400, err.Error(), err)
	}
	if req.Password != req.ConfirmPassword {
		return "", apperrors.NewAppError(400, "Passwords do not match.", nil)
	}

	invalidLink := apperrors.NewAppError(400, "Invalid password reset link.", nil)

	id, err := DecodeUID(uid)
	if err != nil {
		return "", invalidLink
	}

	target, err := s.repo.GetUser(ctx, id)
	if err != nil {
		return "", err
	}
	if target == nil {
		return "", invalidLink
	}

	ok, err := s.tokens.Verify(ctx, PurposePasswordReset, id, token)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", invalidLink
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return "", apperrors.NewAppError(500, "error hashing password", err)
	}
	target.Password = string(hashed)
	if err := s.repo.UpdateUser(ctx, target); err != nil {
		return "", err
	}

	return "Password has been successfully reset.", nil
}

// GetUser returns the rich representation, joined with the first profile
// when one exists.
func (s *AccountService) GetUser(ctx context.Context, principal *User, targetID uint) (*UserDetailResponse, error) {
	if !IsAdminOrSelf(principal, targetID) {
		return nil, apperrors.NewAppError(403, "you do not have permission to perform this action", nil)
	}

	target, err := s.repo.GetUser(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, apperrors.NewAppError(404, "user not found", nil)
	}

	profile, err := s.repo.FirstProfile(ctx, targetID)
	if err != nil {
		return nil, err
	}

	return NewUserDetailResponse(target, profile), nil
}

// UpdateUser updates the principal's own identity fields.
func (s *AccountService) UpdateUser(ctx context.Context, principal *User, req UpdateUserRequest) (*UserDetailResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, apperrors.NewAppError(400, err.Error(), err)
	}

	principal.Username = req.Username
	principal.FirstName = req.FirstName
	principal.LastName = req.LastName
	if err := s.repo.UpdateUser(ctx, principal); err != nil {
		return nil, err
	}

	profile, err := s.repo.FirstProfile(ctx, principal.ID)
	if err != nil {
		return nil, err
	}
	return NewUserDetailResponse(principal, profile), nil
}

// DeleteUser removes the account and its profiles. Deletion has no
// active-state precondition.
func (s *AccountService) DeleteUser(ctx context.Context, principal *User, targetID uint) error {
	if !IsAdminOrSelf(principal, targetID) {
		return apperrors.NewAppError(403, "you do not have permission to perform this action", nil)
	}

	target, err := s.repo.GetUser(ctx, targetID)
	if err != nil {
		return err
	}
	if target == nil {
		return apperrors.NewAppError(404, "user not found", nil)
	}

	return s.repo.DeleteUser(ctx, targetID)
}

// CreateAnonymousUser mints a guest identity with no credentials.
func (s *AccountService) CreateAnonymousUser(ctx context.Context) (*AnonymousUser, error) {
	return s.repo.CreateAnonymousUser(ctx)
}

// UpdateProfile replaces the principal's profile fields, creating the
// profile when the account has none yet. IsOnline is owned by the presence
// layer and left alone here.
func (s *AccountService) UpdateProfile(ctx context.Context, principal *User, req ProfileRequest) (*UserProfile, error) {
	profile, err := s.repo.FirstProfile(ctx, principal.ID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		profile = &UserProfile{UserID: principal.ID}
	}

	profile.Rank = req.Rank
	profile.GamesPlayed = req.GamesPlayed
	profile.GamesWon = req.GamesWon
	profile.GamesLost = req.GamesLost
	profile.IsBot = req.IsBot
	profile.IsSearchVisible = req.IsSearchVisible
	profile.IsRankVisible = req.IsRankVisible

	if err := s.repo.SaveProfile(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// RecordGameResult is the gameplay-side mutation of profile statistics.
func (s *AccountService) RecordGameResult(ctx context.Context, userID uint, won bool) error {
	profile, err := s.repo.FirstProfile(ctx, userID)
	if err != nil {
		return err
	}
	if profile == nil {
		profile = &UserProfile{UserID: userID}
	}

	profile.GamesPlayed++
	if won {
		profile.GamesWon++
	} else {
		profile.GamesLost++
	}

	if err := s.repo.SaveProfile(ctx, profile); err != nil {
		return apperrors.NewAppError(500, "error updating user stats", err)
	}
	return nil
}

// SetOnline flips the presence flag on the principal's profile. Accounts
// without a profile are left untouched.
func (s *AccountService) SetOnline(ctx context.Context, userID uint, online bool) error {
	profile, err := s.repo.FirstProfile(ctx, userID)
	if err != nil {
		return err
	}
	if profile == nil {
		return nil
	}
	if profile.IsOnline == online {
		return nil
	}
	profile.IsOnline = online
	return s.repo.SaveProfile(ctx, profile)
}

// ListUsers is the staff-only reporting query, ordered by most recent
// login like the old admin panel.
func (s *AccountService) ListUsers(ctx context.Context, principal *User, filter ListFilter) ([]UserDetailResponse, error) {
	if principal == nil || !principal.IsAdmin() {
		return nil, apperrors.NewAppError(403, "you do not have permission to perform this action", nil)
	}

	users, err := s.repo.ListUsers(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]UserDetailResponse, 0, len(users))
	for i := range users {
		profile, err := s.repo.FirstProfile(ctx, users[i].ID)
		if err != nil {
			return nil, err
		}
		responses = append(responses, *NewUserDetailResponse(&users[i], profile))
	}
	return responses, nil
}

// Login verifies credentials against the stored hash and issues an
// access/refresh token pair. Inactive accounts cannot authenticate.
func (s *AccountService) Login(ctx context.Context, email, password string) (string, string, error) {
	invalidCredentials := apperrors.NewAppError(401, "No active account found with the given credentials", nil)

	target, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return "", "", err
	}
	if target == nil || !target.IsActive {
		return "", "", invalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(target.Password), []byte(password)); err != nil {
		return "", "", invalidCredentials
	}

	now := time.Now()
	target.LastLogin = &now
	if err := s.repo.UpdateUser(ctx, target); err != nil {
		return "", "", err
	}

	access, err := GenerateJWT(target.ID)
	if err != nil {
		return "", "", apperrors.NewAppError(500, "error creating jwt token", err)
	}
	refresh, err := GenerateRefreshJWT(target.ID)
	if err != nil {
		return "", "", apperrors.NewAppError(500, "error creating jwt token", err)
	}
	return access, refresh, nil
}

// Refresh exchanges a valid refresh token for a new access token.
func (s *AccountService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	id, err := ValidateRefreshJWT(refreshToken)
	if err != nil {
		return "", apperrors.NewAppError(401, "Token is invalid or expired", err)
	}

	target, err := s.repo.GetUser(ctx, id)
	if err != nil {
		return "", err
	}
	if target == nil || !target.IsActive {
		return "", apperrors.NewAppError(401, "Token is invalid or expired", nil)
	}

	access, err := GenerateJWT(id)
	if err != nil {
		return "", apperrors.NewAppError(500, "error creating jwt token", err)
	}
	return access, nil
}

// GetUserSummary resolves a user into the minimal shape other systems use
// to cross-reference accounts. Any authenticated caller may look up any
// user; the shape carries nothing beyond id and display name.
func (s *AccountService) GetUserSummary(ctx context.Context, targetID uint) (*UserResponse, error) {
	target, err := s.repo.GetUser(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, apperrors.NewAppError(404, "user not found", nil)
	}
	return NewUserResponse(target), nil
}

// GetByID loads a raw user record, mainly for resolving the authenticated
// principal from JWT claims.
func (s *AccountService) GetByID(ctx context.Context, id uint) (*User, error) {
	return s.repo.GetUser(ctx, id)
}
