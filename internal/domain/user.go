package domain

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// User is a dashboard account. The password is kept only as a bcrypt hash;
// there is no readable plaintext field.
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	Verified     bool
	IsAdmin      bool
	CreatedOn    time.Time
}

// NewUser builds a user with a hashed password and a creation timestamp.
func NewUser(name, email, password string, isAdmin bool, bcryptCost int) (*User, error) {
	u := &User{
		Name:      name,
		Email:     email,
		IsAdmin:   isAdmin,
		CreatedOn: time.Now().UTC(),
	}
	if err := u.SetPassword(password, bcryptCost); err != nil {
		return nil, err
	}
	return u, nil
}

// SetPassword replaces the stored hash with a salted bcrypt hash of password.
func (u *User) SetPassword(password string, cost int) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashed)
	return nil
}

// CheckPassword reports whether candidate matches the stored hash.
func (u *User) CheckPassword(candidate string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(candidate)) == nil
}

// MarkVerified flags the account as verified.
func (u *User) MarkVerified() {
	u.Verified = true
}
