package models

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"socialfeed/utils"
)

// CreateUser registers a new account. The avatar URL is derived
// deterministically from the email and the password is bcrypt hashed before
// anything touches the database.
func CreateUser(db *gorm.DB, name, email, password string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var existing User
	if err := db.Where("email = ?", email).First(&existing).Error; err == nil {
		return nil, ErrDuplicateEmail
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Avatar:       utils.GravatarURL(email),
	}
	if err := db.Create(&user).Error; err != nil {
		// Concurrent registration can slip past the pre-check; the unique
		// index on email is the authority.
		if isDuplicateKey(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}
	return &user, nil
}

// GetUserByID returns the user record without ever exposing the password hash
// through serialization.
func GetUserByID(db *gorm.DB, id uint) (*User, error) {
	var user User
	if err := db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetUserByEmail looks a user up by email for credential verification.
func GetUserByEmail(db *gorm.DB, email string) (*User, error) {
	var user User
	if err := db.Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// isDuplicateKey recognizes unique constraint violations across the MySQL
// production driver and the sqlite driver used in tests.
func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") || strings.Contains(msg, "UNIQUE constraint failed")
}
