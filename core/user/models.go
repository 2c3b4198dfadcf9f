package user

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/phoenixdev100/tap/core"
)

// Account roles. A user carries exactly one.
const (
	RoleStudent = "student"
	RoleTeacher = "teacher"
	RoleAdmin   = "college_admin"
)

var AllRoles = []string{RoleStudent, RoleTeacher, RoleAdmin}

type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	IsActive     bool      `json:"is_active"`
	PasswordHash []byte    `json:"-"`
	CreatedAt    time.Time `json:"created_at"` // UTC
	UpdatedAt    time.Time `json:"updated_at"` // UTC
	LastLogin    time.Time `json:"last_login"` // UTC
}

func (u *User) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

func (u *User) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(pwd))
}

func (u *User) IsAdmin() bool   { return u.Role == RoleAdmin }
func (u *User) IsTeacher() bool { return u.Role == RoleTeacher }
func (u *User) IsStudent() bool { return u.Role == RoleStudent }

// NewUser contains information needed to create a new User.
type NewUser struct {
	Username string `json:"username" validate:"required,min=3,max=30,alphanum_"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"required,arole"`
}

func (nu *NewUser) Validate(ctx context.Context, validate *validator.Validate, svc Service) error {
	nu.Username = core.CleanString(nu.Username, true /* lower */)
	nu.Email = core.CleanString(nu.Email, true /* lower */)

	if err := validate.Struct(nu); err != nil {
		return err
	}
	return svc.CheckUniqueness(ctx, nu.Username, nu.Email)
}

// UpdateProfile defines what information a user may change on their own account.
type UpdateProfile struct {
	Username string `json:"username" validate:"omitempty,min=3,max=30,alphanum_"`
	Email    string `json:"email" validate:"omitempty,email,max=255"`
}

func (up *UpdateProfile) Validate(ctx context.Context, origUsr User, validate *validator.Validate, svc Service) error {
	uname := core.CleanString(up.Username, true /* lower */)
	if uname != "" {
		up.Username = uname
	} else {
		up.Username = origUsr.Username
	}

	email := core.CleanString(up.Email, true /* lower */)
	if email != "" {
		up.Email = email
	} else {
		up.Email = origUsr.Email
	}

	if err := validate.Struct(up); err != nil {
		return err
	}
	return svc.CheckUniqueness(ctx, up.Username, up.Email, origUsr)
}

// ChangePassword requires the current password before setting a new one.
type ChangePassword struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required"`
}

func (cp ChangePassword) Validate(validate *validator.Validate) error {
	return validate.Struct(cp)
}

type ResetUserPassword struct {
	Token           string `json:"token,omitempty" validate:"required"`
	UID             string `json:"uid,omitempty" validate:"required"`
	Password        string `json:"password,omitempty" validate:"required"`
	PasswordConfirm string `json:"password_confirm,omitempty" validate:"required,eqfield=Password"`
}

func (rp ResetUserPassword) Validate(validate *validator.Validate) error {
	return validate.Struct(rp)
}
