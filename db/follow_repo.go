package db

import (
	"github.com/flexoffhq/flexoff/models"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FollowRepository interface {
	ToggleFollow(followerID, followingID uint) (following bool, err error)
	GetFollowerCount(userID uint) (int64, error)
	GetFollowingCount(userID uint) (int64, error)
	IsFollowing(followerID, followingID uint) (bool, error)
}

type followRepo struct {
	DB *gorm.DB
}

func NewFollowRepo(db *GormDB) FollowRepository {
	return &followRepo{db.DB}
}

// ToggleFollow follows when not following and unfollows otherwise,
// using the unique (follower_id, following_id) pair the same way the
// like toggle does.
func (r *followRepo) ToggleFollow(followerID, followingID uint) (bool, error) {
	follow := models.Follow{
		FollowerID:  followerID,
		FollowingID: followingID,
	}
	res := r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "follower_id"}, {Name: "following_id"}},
		DoNothing: true,
	}).Create(&follow)
	if res.Error != nil {
		return false, errors.Wrap(res.Error, "could not follow user")
	}
	if res.RowsAffected == 0 {
		err := r.DB.Where("follower_id = ? AND following_id = ?", followerID, followingID).
			Delete(&models.Follow{}).Error
		if err != nil {
			return false, errors.Wrap(err, "could not unfollow user")
		}
		return false, nil
	}
	return true, nil
}

func (r *followRepo) GetFollowerCount(userID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&models.Follow{}).Where("following_id = ?", userID).Count(&count).Error
	if err != nil {
		return 0, errors.Wrap(err, "could not count followers")
	}
	return count, nil
}

func (r *followRepo) GetFollowingCount(userID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&models.Follow{}).Where("follower_id = ?", userID).Count(&count).Error
	if err != nil {
		return 0, errors.Wrap(err, "could not count following")
	}
	return count, nil
}

func (r *followRepo) IsFollowing(followerID, followingID uint) (bool, error) {
	var count int64
	err := r.DB.Model(&models.Follow{}).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Count(&count).Error
	if err != nil {
		return false, errors.Wrap(err, "could not check follow state")
	}
	return count > 0, nil
}
