package db

import (
	"github.com/flexoffhq/flexoff/models"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type AuthRepository interface {
	CreateUser(user *models.User) (*models.User, error)
	IsEmailExist(email string) error
	IsUsernameExist(username string) error
	FindUserByEmail(email string) (*models.User, error)
	FindUserByUsername(username string) (*models.User, error)
	FindUserByID(id uint) (*models.User, error)
	IsUsernameTakenByOther(username string, userID uint) (bool, error)
	UpdateUserProfile(userID uint, details *models.EditProfileRequest) error
	UpdateUserAvatar(userID uint, avatarURL, thumbnailURL string) error
	AddToBlackList(blacklist *models.Blacklist) error
	IsTokenInBlacklist(token string) bool
}

type authRepo struct {
	DB *gorm.DB
}

func NewAuthRepo(db *GormDB) AuthRepository {
	return &authRepo{db.DB}
}

func (a *authRepo) CreateUser(user *models.User) (*models.User, error) {
	if user == nil {
		return nil, errors.New("user is nil")
	}
	result := a.DB.Create(user)
	if result.Error != nil {
		logrus.Errorf("CreateUser error: %v", result.Error)
		return nil, result.Error
	}
	return user, nil
}

func (a *authRepo) IsEmailExist(email string) error {
	var count int64
	err := a.DB.Model(&models.User{}).Where("email = ?", email).Count(&count).Error
	if err != nil {
		return errors.Wrap(err, "gorm count error")
	}
	if count > 0 {
		return errors.New("email already in use")
	}
	return nil
}

func (a *authRepo) IsUsernameExist(username string) error {
	var count int64
	err := a.DB.Model(&models.User{}).Where("username = ?", username).Count(&count).Error
	if err != nil {
		return errors.Wrap(err, "gorm count error")
	}
	if count > 0 {
		return errors.New("username already in use")
	}
	return nil
}

func (a *authRepo) FindUserByEmail(email string) (*models.User, error) {
	user := &models.User{}
	err := a.DB.Where("email = ?", email).First(user).Error
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (a *authRepo) FindUserByUsername(username string) (*models.User, error) {
	user := &models.User{}
	err := a.DB.Where("username = ?", username).First(user).Error
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (a *authRepo) FindUserByID(id uint) (*models.User, error) {
	user := &models.User{}
	err := a.DB.First(user, id).Error
	if err != nil {
		return nil, err
	}
	if user.IsBlocked {
		return nil, errors.New("user is blocked")
	}
	return user, nil
}

// IsUsernameTakenByOther reports whether any user other than userID
// already holds username.
func (a *authRepo) IsUsernameTakenByOther(username string, userID uint) (bool, error) {
	var count int64
	err := a.DB.Model(&models.User{}).
		Where("username = ? AND id <> ?", username, userID).
		Count(&count).Error
	if err != nil {
		return false, errors.Wrap(err, "gorm count error")
	}
	return count > 0, nil
}

func (a *authRepo) UpdateUserProfile(userID uint, details *models.EditProfileRequest) error {
	result := a.DB.Model(&models.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"fullname": details.Fullname,
		"username": details.Username,
		"bio":      details.Bio,
	})
	if result.Error != nil {
		logrus.Errorf("UpdateUserProfile error: %v", result.Error)
		return errors.Wrap(result.Error, "could not update profile")
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (a *authRepo) UpdateUserAvatar(userID uint, avatarURL, thumbnailURL string) error {
	err := a.DB.Model(&models.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"avatar_url":     avatarURL,
		"thumb_nail_url": thumbnailURL,
	}).Error
	if err != nil {
		logrus.Errorf("UpdateUserAvatar error: %v", err)
		return errors.Wrap(err, "could not update avatar")
	}
	return nil
}

func (a *authRepo) AddToBlackList(blacklist *models.Blacklist) error {
	result := a.DB.Create(blacklist)
	return result.Error
}

func (a *authRepo) IsTokenInBlacklist(token string) bool {
	var count int64
	a.DB.Model(&models.Blacklist{}).Where("token = ?", token).Count(&count)
	return count > 0
}
