package models

import (
	"net/mail"
	"strings"
	"time"
)

// Profile is the stored user record, keyed by the auth identity.
type Profile struct {
	UID         string    `json:"uid" gorm:"primaryKey" firestore:"uid"`
	FirstName   string    `json:"firstName" firestore:"firstName"`
	LastName    string    `json:"lastName" firestore:"lastName"`
	Email       string    `json:"email" gorm:"index" firestore:"email"`
	Plan        string    `json:"plan" firestore:"plan,omitempty"`
	Provider    string    `json:"provider" gorm:"default:password" firestore:"provider"`
	DisplayName string    `json:"displayName" firestore:"displayName"`
	PhotoURL    string    `json:"photoURL" firestore:"photoURL"`
	Streak      int       `json:"streak" gorm:"default:0" firestore:"streak"`
	DeviceToken string    `json:"-" firestore:"deviceToken,omitempty"`
	CreatedAt   time.Time `json:"createdAt" firestore:"createdAt,serverTimestamp"`
	UpdatedAt   time.Time `json:"updatedAt" firestore:"updatedAt,serverTimestamp"`
}

func (Profile) TableName() string {
	return "users"
}

func (p Profile) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// Auth providers
const (
	ProviderPassword = "password"
	ProviderGoogle   = "google.com"
	ProviderFacebook = "facebook.com"
)

func IsSocialProvider(p string) bool {
	return p == ProviderGoogle || p == ProviderFacebook
}

// Identity is the authenticated principal of a request.
type Identity struct {
	UID         string `json:"uid"`
	Email       string `json:"email"`
	Provider    string `json:"provider"`
	DisplayName string `json:"displayName,omitempty"`
	PhotoURL    string `json:"photoURL,omitempty"`
}

// NewProfile is the record written the first time an identity is seen.
func NewProfile(id Identity) Profile {
	p := Profile{
		UID:         id.UID,
		Email:       id.Email,
		Provider:    id.Provider,
		DisplayName: id.DisplayName,
		PhotoURL:    id.PhotoURL,
	}
	if first, last, ok := strings.Cut(strings.TrimSpace(id.DisplayName), " "); ok {
		p.FirstName, p.LastName = first, strings.TrimSpace(last)
	} else {
		p.FirstName = first
	}
	return p
}

// Credential holds the password login state of an identity.
type Credential struct {
	UID          string     `json:"-" gorm:"primaryKey" firestore:"uid"`
	Email        string     `json:"-" gorm:"uniqueIndex;not null" firestore:"email"`
	PasswordHash string     `json:"-" gorm:"not null" firestore:"passwordHash"`
	Disabled     bool       `json:"-" gorm:"default:false" firestore:"disabled"`
	FailedLogins int        `json:"-" gorm:"default:0" firestore:"failedLogins"`
	LockedUntil  *time.Time `json:"-" firestore:"lockedUntil"`
	CreatedAt    time.Time  `json:"-" firestore:"createdAt,serverTimestamp"`
	UpdatedAt    time.Time  `json:"-" firestore:"updatedAt,serverTimestamp"`
}

func (c Credential) Locked(now time.Time) bool {
	return c.LockedUntil != nil && now.Before(*c.LockedUntil)
}

// PasswordReset is a single-use reset token, stored as a hash.
type PasswordReset struct {
	TokenHash string    `gorm:"primaryKey" firestore:"-"`
	UID       string    `gorm:"index;not null" firestore:"uid"`
	ExpiresAt time.Time `firestore:"expiresAt"`
	CreatedAt time.Time `firestore:"createdAt,serverTimestamp"`
}

// RevokedToken blocks a session token id until it would expire anyway.
type RevokedToken struct {
	JTI       string    `gorm:"primaryKey" firestore:"-"`
	ExpiresAt time.Time `gorm:"index" firestore:"expiresAt"`
}

// Plan is a subscription tier shown on the pricing page.
type Plan struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	PriceMonthly string   `json:"priceMonthly"`
	Description  string   `json:"description"`
	Features     []string `json:"features"`
	Featured     bool     `json:"featured"`
}

var Plans = []Plan{
	{
		ID:           "starter",
		Name:         "Starter",
		PriceMonthly: "$19",
		Description:  "Perfect for beginners building their first habits",
		Features: []string{
			"Daily habit reminders",
			"3 active goals at a time",
			"Basic progress analytics",
			"Standard support (48h response)",
			"Mobile app access",
		},
	},
	{
		ID:           "pro",
		Name:         "Pro",
		PriceMonthly: "$49",
		Description:  "For serious goal achievers needing advanced tools",
		Features: []string{
			"Unlimited goals & habits",
			"AI-generated goal plans",
			"Advanced analytics dashboard",
			"Priority support (24h response)",
			"Weekly progress reports",
			"Voice check-in support",
			"Accountability partner matching",
		},
		Featured: true,
	},
	{
		ID:           "team",
		Name:         "Team",
		PriceMonthly: "$99",
		Description:  "For groups and organizations",
		Features: []string{
			"Everything in Pro",
			"Up to 5 team members",
			"Team progress tracking",
			"Admin dashboard",
			"Dedicated success manager",
			"Custom reporting",
			"API access",
		},
	},
}

func IsValidPlan(id string) bool {
	for _, p := range Plans {
		if p.ID == id {
			return true
		}
	}
	return false
}

const MinPasswordLength = 8

// Auth DTOs
type RegisterRequest struct {
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	Plan            string `json:"plan"`
	AcceptTerms     bool   `json:"acceptTerms"`
}

func (r *RegisterRequest) Normalize() {
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	r.Email = NormalizeEmail(r.Email)
}

func (r RegisterRequest) Validate() error {
	var v Validation
	if r.FirstName == "" || r.LastName == "" {
		v.Add("name", "Please enter your full name")
	}
	if !ValidEmail(r.Email) {
		v.Add("email", "Please enter a valid email address")
	}
	if len(r.Password) < MinPasswordLength {
		v.Add("password", "Password must be at least 8 characters")
	}
	if r.Password != r.ConfirmPassword {
		v.Add("confirmPassword", "Passwords do not match")
	}
	if r.Plan == "" || !IsValidPlan(r.Plan) {
		v.Add("plan", "Please select a pricing plan")
	}
	if !r.AcceptTerms {
		v.Add("acceptTerms", "You must accept the terms and conditions")
	}
	return v.Err()
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func ValidEmail(email string) bool {
	if !strings.Contains(email, "@") {
		return false
	}
	_, err := mail.ParseAddress(email)
	return err == nil
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SocialAuthRequest carries a token issued by Firebase, Google or Facebook.
type SocialAuthRequest struct {
	Provider string `json:"provider"`
	Token    string `json:"token"`
}

type PasswordResetRequest struct {
	Email string `json:"email"`
}

type PasswordResetConfirmRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

type UpdateProfileRequest struct {
	FirstName   *string `json:"firstName"`
	LastName    *string `json:"lastName"`
	DisplayName *string `json:"displayName"`
	PhotoURL    *string `json:"photoURL"`
	Plan        *string `json:"plan"`
}

func (r UpdateProfileRequest) Validate() error {
	var v Validation
	if r.FirstName != nil && strings.TrimSpace(*r.FirstName) == "" {
		v.Add("firstName", "First name cannot be empty")
	}
	if r.LastName != nil && strings.TrimSpace(*r.LastName) == "" {
		v.Add("lastName", "Last name cannot be empty")
	}
	if r.Plan != nil && !IsValidPlan(*r.Plan) {
		v.Add("plan", "Please select a pricing plan")
	}
	return v.Err()
}

type DeviceTokenRequest struct {
	Token string `json:"token"`
}

type AuthResponse struct {
	Token   string  `json:"token"`
	User    Profile `json:"user"`
	Created bool    `json:"created,omitempty"`
}
