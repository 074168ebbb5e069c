package user

import (
	"time"

	"github.com/google/uuid"
)

// User is the account record. Email is the authentication key and must be
// unique; usernames are display names and may repeat.
type User struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Email       string     `gorm:"uniqueIndex;not null" json:"email"`
	Username    string     `gorm:"not null" json:"username"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	Password    string     `gorm:"not null" json:"-"`
	IsActive    bool       `gorm:"default:false" json:"is_active"`
	IsStaff     bool       `gorm:"default:false" json:"-"`
	IsSuperuser bool       `gorm:"default:false" json:"-"`
	DateJoined  time.Time  `gorm:"autoCreateTime" json:"date_joined"`
	LastLogin   *time.Time `json:"-"`
}

// IsAdmin reports whether the user may act on records other than their own.
func (u *User) IsAdmin() bool {
	return u.IsStaff || u.IsSuperuser
}

// AnonymousUser is an ephemeral guest identity with no credentials.
type AnonymousUser struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// UserProfile extends a User with gameplay statistics. Storage allows many
// profiles per user but the service only ever reads the first one.
type UserProfile struct {
	ID              uint `gorm:"primaryKey" json:"id"`
	UserID          uint `gorm:"not null;index" json:"user_id"`
	User            User `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Rank            int  `gorm:"default:0" json:"rank"`
	GamesPlayed     int  `gorm:"default:0" json:"games_played"`
	GamesWon        int  `gorm:"default:0" json:"games_won"`
	GamesLost       int  `gorm:"default:0" json:"games_lost"`
	IsOnline        bool `gorm:"default:false" json:"is_online"`
	IsBot           bool `gorm:"default:false" json:"is_bot"`
	IsSearchVisible bool `gorm:"default:false" json:"is_search_visible"`
	IsRankVisible   bool `gorm:"default:false" json:"is_rank_visible"`
}

// RegisterRequest is the write shape for user creation and registration.
// Password is accepted here and never emitted on reads.
type RegisterRequest struct {
	Email     string          `json:"email"`
	Password  string          `json:"password"`
	Username  string          `json:"username"`
	FirstName string          `json:"first_name"`
	LastName  string          `json:"last_name"`
	Profile   *ProfileRequest `json:"profile,omitempty"`
}

// ProfileRequest is the embedded profile payload on registration and the
// body of explicit profile updates.
type ProfileRequest struct {
	Rank            int  `json:"rank"`
	GamesPlayed     int  `json:"games_played"`
	GamesWon        int  `json:"games_won"`
	GamesLost       int  `json:"games_lost"`
	IsBot           bool `json:"is_bot"`
	IsSearchVisible bool `json:"is_search_visible"`
	IsRankVisible   bool `json:"is_rank_visible"`
}

// UpdateUserRequest carries the mutable identity fields for self updates.
type UpdateUserRequest struct {
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// PasswordReminderRequest asks for a reset link to be mailed.
type PasswordReminderRequest struct {
	Email string `json:"email"`
}

// PasswordResetRequest carries the new password on reset confirmation.
type PasswordResetRequest struct {
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// UserResponse is the minimal shape used for cross-referencing from other
// systems.
type UserResponse struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}

// UserDetailResponse is the rich shape. Profile-derived fields are pointers
// and stay null when the user has no profile.
type UserDetailResponse struct {
	ID              uint      `json:"id"`
	Email           string    `json:"email"`
	Username        string    `json:"username"`
	FirstName       string    `json:"first_name"`
	LastName        string    `json:"last_name"`
	DateJoined      time.Time `json:"date_joined"`
	Rank            *int      `json:"rank"`
	GamesPlayed     *int      `json:"games_played"`
	GamesWon        *int      `json:"games_won"`
	GamesLost       *int      `json:"games_lost"`
	IsSearchVisible *bool     `json:"is_search_visible"`
	IsRankVisible   *bool     `json:"is_rank_visible"`
}

func NewUserResponse(u *User) *UserResponse {
	return &UserResponse{
		ID:       u.ID,
		Username: u.Username,
	}
}

// NewUserDetailResponse builds the rich shape. A nil profile leaves every
// profile-derived field null.
func NewUserDetailResponse(u *User, p *UserProfile) *UserDetailResponse {
	resp := &UserDetailResponse{
		ID:         u.ID,
		Email:      u.Email,
		Username:   u.Username,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		DateJoined: u.DateJoined,
	}

	if p != nil {
		resp.Rank = &p.Rank
		resp.GamesPlayed = &p.GamesPlayed
		resp.GamesWon = &p.GamesWon
		resp.GamesLost = &p.GamesLost
		resp.IsSearchVisible = &p.IsSearchVisible
		resp.IsRankVisible = &p.IsRankVisible
	}

	return resp
}
