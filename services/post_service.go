package services

import (
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/flexoffhq/flexoff/config"
	"github.com/flexoffhq/flexoff/db"
	apiError "github.com/flexoffhq/flexoff/errors"
	"github.com/flexoffhq/flexoff/models"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// PostService interface
type PostService interface {
	CreatePost(userID uint, req *models.CreatePostRequest) (*models.Post, *apiError.Error)
	// GetFeed returns the latest posts. callerID 0 means anonymous:
	// liked_by_user is false everywhere.
	GetFeed(callerID uint) ([]models.PostResponse, *apiError.Error)
	GetPostsByUser(userID uint, callerID uint) ([]models.PostResponse, *apiError.Error)
	LikePost(userID uint, postID uuid.UUID) (bool, *apiError.Error)
	CommentOnPost(userID uint, postID uuid.UUID, content string) (*models.Comment, *apiError.Error)
	GetTrendingTopics() ([]models.TrendingTopic, *apiError.Error)
	// SweepExpiredImages deletes stored objects for posts whose image
	// expiry has passed and clears their image columns. Returns how
	// many posts were swept. Per-post failures are logged and skipped.
	SweepExpiredImages() (int, error)
}

const (
	feedLimit          = 10
	trendingScanLimit  = 100
	trendingTopicCount = 5
)

var hashtagPattern = regexp.MustCompile(`#[\w\x{0590}-\x{05FF}]+`)

// postService struct
type postService struct {
	Config       *config.Config
	postRepo     db.PostRepository
	mediaService MediaService
}

func NewPostService(postRepo db.PostRepository, mediaService MediaService, conf *config.Config) PostService {
	return &postService{
		Config:       conf,
		postRepo:     postRepo,
		mediaService: mediaService,
	}
}

func (p *postService) CreatePost(userID uint, req *models.CreatePostRequest) (*models.Post, *apiError.Error) {
	if userID == 0 {
		return nil, apiError.ErrUnauthorized
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, apiError.New("post content cannot be empty", 400)
	}

	post := &models.Post{
		ID:             uuid.New(),
		UserID:         userID,
		Content:        content,
		ImageURL:       req.ImageURL,
		ImageExpiresAt: req.ImageExpiresAt,
	}
	if err := p.postRepo.CreatePost(post); err != nil {
		logrus.Errorf("CreatePost: %v", err)
		return nil, apiError.ErrInternalServerError
	}
	return post, nil
}

func (p *postService) GetFeed(callerID uint) ([]models.PostResponse, *apiError.Error) {
	posts, err := p.postRepo.GetLatestPosts(feedLimit)
	if err != nil {
		logrus.Errorf("GetFeed: %v", err)
		return nil, apiError.ErrInternalServerError
	}
	return buildPostResponses(posts, callerID), nil
}

func (p *postService) GetPostsByUser(userID uint, callerID uint) ([]models.PostResponse, *apiError.Error) {
	posts, err := p.postRepo.GetPostsByUserID(userID)
	if err != nil {
		logrus.Errorf("GetPostsByUser: %v", err)
		return nil, apiError.ErrInternalServerError
	}
	return buildPostResponses(posts, callerID), nil
}

func buildPostResponses(posts []models.Post, callerID uint) []models.PostResponse {
	out := make([]models.PostResponse, 0, len(posts))
	for _, post := range posts {
		liked := false
		if callerID != 0 {
			for _, like := range post.Likes {
				if like.UserID == callerID {
					liked = true
					break
				}
			}
		}
		out = append(out, models.PostResponse{
			ID:             post.ID,
			Content:        post.Content,
			ImageURL:       post.ImageURL,
			ImageExpiresAt: post.ImageExpiresAt,
			CreatedAt:      post.CreatedAt,
			User:           post.User.Response(),
			LikesCount:     len(post.Likes),
			CommentsCount:  len(post.Comments),
			LikedByUser:    liked,
		})
	}
	return out
}

func (p *postService) LikePost(userID uint, postID uuid.UUID) (bool, *apiError.Error) {
	if userID == 0 {
		return false, apiError.ErrUnauthorized
	}
	liked, err := p.postRepo.ToggleLike(postID, userID)
	if err != nil {
		logrus.Errorf("LikePost: %v", err)
		return false, apiError.ErrInternalServerError
	}
	return liked, nil
}

func (p *postService) CommentOnPost(userID uint, postID uuid.UUID, content string) (*models.Comment, *apiError.Error) {
	if userID == 0 {
		return nil, apiError.ErrUnauthorized
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apiError.New("comment cannot be empty", 400)
	}
	comment := &models.Comment{
		ID:      uuid.New(),
		PostID:  postID,
		UserID:  userID,
		Content: content,
	}
	if err := p.postRepo.CreateComment(comment); err != nil {
		logrus.Errorf("CommentOnPost: %v", err)
		return nil, apiError.ErrInternalServerError
	}
	return comment, nil
}

// GetTrendingTopics scans the content of the most recent posts for
// hashtags and returns the five most frequent, descending.
func (p *postService) GetTrendingTopics() ([]models.TrendingTopic, *apiError.Error) {
	contents, err := p.postRepo.GetRecentPostContents(trendingScanLimit)
	if err != nil {
		logrus.Errorf("GetTrendingTopics: %v", err)
		return nil, apiError.ErrInternalServerError
	}

	counts := make(map[string]int)
	for _, content := range contents {
		for _, tag := range hashtagPattern.FindAllString(content, -1) {
			counts[tag]++
		}
	}

	topics := make([]models.TrendingTopic, 0, len(counts))
	for tag, count := range counts {
		topics = append(topics, models.TrendingTopic{Tag: tag, Count: count})
	}
	sort.Slice(topics, func(i, j int) bool {
		if topics[i].Count != topics[j].Count {
			return topics[i].Count > topics[j].Count
		}
		return topics[i].Tag < topics[j].Tag
	})
	if len(topics) > trendingTopicCount {
		topics = topics[:trendingTopicCount]
	}
	return topics, nil
}

func (p *postService) SweepExpiredImages() (int, error) {
	posts, err := p.postRepo.GetExpiredImagePosts(time.Now())
	if err != nil {
		return 0, err
	}

	swept := 0
	for _, post := range posts {
		if post.ImageURL != nil && p.mediaService != nil {
			key := ObjectKeyFromURL(*post.ImageURL)
			if key != "" {
				if err := p.mediaService.DeleteObject(key); err != nil {
					logrus.Errorf("SweepExpiredImages delete %s: %v", key, err)
				}
			}
		}
		if err := p.postRepo.ClearPostImage(post.ID); err != nil {
			logrus.Errorf("SweepExpiredImages clear post %s: %v", post.ID, err)
			continue
		}
		swept++
	}
	if swept > 0 {
		logrus.Infof("image sweep removed %d expired image(s)", swept)
	}
	return swept, nil
}
