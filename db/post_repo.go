package db

import (
	"time"

	"github.com/flexoffhq/flexoff/models"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PostRepository interface {
	CreatePost(post *models.Post) error
	GetLatestPosts(limit int) ([]models.Post, error)
	GetPostsByUserID(userID uint) ([]models.Post, error)
	FindPostByID(id uuid.UUID) (*models.Post, error)
	ToggleLike(postID uuid.UUID, userID uint) (liked bool, err error)
	CreateComment(comment *models.Comment) error
	GetRecentPostContents(limit int) ([]string, error)
	GetExpiredImagePosts(now time.Time) ([]models.Post, error)
	ClearPostImage(postID uuid.UUID) error
}

type postRepo struct {
	DB *gorm.DB
}

func NewPostRepo(db *GormDB) PostRepository {
	return &postRepo{db.DB}
}

func (r *postRepo) CreatePost(post *models.Post) error {
	if err := r.DB.Create(post).Error; err != nil {
		logrus.Errorf("CreatePost error: %v", err)
		return errors.Wrap(err, "could not create post")
	}
	return nil
}

func (r *postRepo) GetLatestPosts(limit int) ([]models.Post, error) {
	var posts []models.Post
	err := r.DB.Preload("User").Preload("Likes").Preload("Comments").
		Order("created_at DESC").
		Limit(limit).
		Find(&posts).Error
	if err != nil {
		return nil, errors.Wrap(err, "could not fetch posts")
	}
	return posts, nil
}

func (r *postRepo) GetPostsByUserID(userID uint) ([]models.Post, error) {
	var posts []models.Post
	err := r.DB.Preload("User").Preload("Likes").Preload("Comments").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&posts).Error
	if err != nil {
		return nil, errors.Wrap(err, "could not fetch user posts")
	}
	return posts, nil
}

func (r *postRepo) FindPostByID(id uuid.UUID) (*models.Post, error) {
	post := &models.Post{}
	err := r.DB.Preload("User").First(post, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return post, nil
}

// ToggleLike inserts a like; when the (post_id, user_id) pair already
// exists the conflicting insert is a no-op and the existing row is
// deleted instead. Returns whether the post ends up liked.
func (r *postRepo) ToggleLike(postID uuid.UUID, userID uint) (bool, error) {
	like := models.Like{
		ID:     uuid.New(),
		PostID: postID,
		UserID: userID,
	}
	res := r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "post_id"}, {Name: "user_id"}},
		DoNothing: true,
	}).Create(&like)
	if res.Error != nil {
		logrus.Errorf("ToggleLike error: %v", res.Error)
		return false, errors.Wrap(res.Error, "could not like post")
	}
	if res.RowsAffected == 0 {
		// Already liked: unlike.
		err := r.DB.Where("post_id = ? AND user_id = ?", postID, userID).
			Delete(&models.Like{}).Error
		if err != nil {
			return false, errors.Wrap(err, "could not unlike post")
		}
		return false, nil
	}
	return true, nil
}

func (r *postRepo) CreateComment(comment *models.Comment) error {
	if err := r.DB.Create(comment).Error; err != nil {
		logrus.Errorf("CreateComment error: %v", err)
		return errors.Wrap(err, "could not create comment")
	}
	return nil
}

// GetRecentPostContents feeds the trending-hashtag scan.
func (r *postRepo) GetRecentPostContents(limit int) ([]string, error) {
	var contents []string
	err := r.DB.Model(&models.Post{}).
		Order("created_at DESC").
		Limit(limit).
		Pluck("content", &contents).Error
	if err != nil {
		return nil, errors.Wrap(err, "could not fetch post contents")
	}
	return contents, nil
}

func (r *postRepo) GetExpiredImagePosts(now time.Time) ([]models.Post, error) {
	var posts []models.Post
	err := r.DB.
		Where("image_url IS NOT NULL").
		Where("image_expires_at IS NOT NULL").
		Where("image_expires_at < ?", now).
		Find(&posts).Error
	if err != nil {
		return nil, errors.Wrap(err, "could not fetch expired image posts")
	}
	return posts, nil
}

func (r *postRepo) ClearPostImage(postID uuid.UUID) error {
	err := r.DB.Model(&models.Post{}).Where("id = ?", postID).Updates(map[string]interface{}{
		"image_url":        nil,
		"image_expires_at": nil,
	}).Error
	if err != nil {
		return errors.Wrap(err, "could not clear post image")
	}
	return nil
}
