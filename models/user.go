package models

import (
	"errors"
	"fmt"

	goval "github.com/go-passwd/validator"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/leebenson/conform"
	"golang.org/x/crypto/bcrypt"
)

// User represents a user of the application
type User struct {
	Model
	Fullname       string `json:"fullname" binding:"required,min=2"`
	Username       string `json:"username" gorm:"unique;not null" binding:"required,min=2" conform:"trim,lower"`
	Email          string `json:"email" gorm:"unique;not null" binding:"required,email" conform:"trim,email"`
	Bio            string `json:"bio" gorm:"type:text"`
	Password       string `json:"password,omitempty" gorm:"-" validate:"omitempty,min=6"`
	HashedPassword string `json:"-"`
	AvatarURL      string `json:"avatar_url"`
	ThumbNailURL   string `json:"thumbnail_url,omitempty"`
	AccessToken    string `json:"-" gorm:"-"`
	IsBlocked      bool   `json:"is_blocked" gorm:"default:false"`
}

// UserResponse is the public projection of a user.
type UserResponse struct {
	ID        uint   `json:"id"`
	Fullname  string `json:"fullname"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatar_url"`
}

func (u *User) Response() UserResponse {
	return UserResponse{
		ID:        u.ID,
		Fullname:  u.Fullname,
		Username:  u.Username,
		AvatarURL: u.AvatarURL,
	}
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	UserResponse
	AccessToken string `json:"access_token"`
}

type EditProfileRequest struct {
	Fullname string `json:"fullname" conform:"trim"`
	Username string `json:"username" binding:"required,min=2" conform:"trim,lower"`
	Bio      string `json:"bio" conform:"trim"`
}

// ProfileResponse is the public profile page payload.
type ProfileResponse struct {
	UserResponse
	Bio            string `json:"bio"`
	FollowerCount  int64  `json:"follower_count"`
	FollowingCount int64  `json:"following_count"`
	IsFollowing    bool   `json:"is_following"`
}

func ValidatePassword(password string) error {
	passwordValidator := goval.New(goval.MinLength(6, errors.New("password cant be less than 6 characters")),
		goval.MaxLength(64, errors.New("password cant be more than 64 characters")))
	err := passwordValidator.Validate(password)
	return err
}

// NormalizeInput trims and lowercases tagged fields in place.
func NormalizeInput(data interface{}) error {
	return conform.Strings(data)
}

func translateError(err error, trans ut.Translator) (errs []error) {
	if err == nil {
		return nil
	}
	validatorErrs := err.(validator.ValidationErrors)
	for _, e := range validatorErrs {
		translatedErr := fmt.Errorf(e.Translate(trans) + "; ")
		errs = append(errs, translatedErr)
	}
	return errs
}

// VerifyPassword verifies the collected password with the user's hashed password
func (u *User) VerifyPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.HashedPassword), []byte(password))
}
