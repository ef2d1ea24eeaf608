package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/jpeg"
	"io"
	"mime/multipart"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	fig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/disintegration/imaging"
	"github.com/flexoffhq/flexoff/config"
	"github.com/google/uuid"
	"github.com/nfnt/resize"
	"github.com/sirupsen/logrus"
)

// MediaService uploads avatar and post images to S3 and removes
// expired objects for the image sweep.
type MediaService interface {
	// UploadAvatar stores the full-size image and a jpeg thumbnail,
	// returning both public URLs.
	UploadAvatar(fileHeader *multipart.FileHeader, userID uint) (avatarURL string, thumbnailURL string, err error)
	UploadPostImage(fileHeader *multipart.FileHeader, userID uint) (string, error)
	DeleteObject(key string) error
	// EnsureBucket creates the configured bucket when it does not
	// exist yet; an already-owned bucket is not an error.
	EnsureBucket() error
}

type mediaService struct {
	Config *config.Config
}

func NewMediaService(conf *config.Config) MediaService {
	return &mediaService{Config: conf}
}

const (
	MaxImageFileSize = 5 * 1024 * 1024 // 5 MB
	thumbnailMaxSize = 128
)

func CheckSupportedImage(filename string) (bool, string) {
	supported := map[string]bool{
		".png":  true,
		".jpeg": true,
		".jpg":  true,
		".gif":  true,
	}
	ext := strings.ToLower(filepath.Ext(filename))
	return supported[ext], ext
}

func generateUniqueFilename(extension string) string {
	timestamp := time.Now().UnixNano()
	randomUUID := uuid.New()
	return fmt.Sprintf("%d_%s%s", timestamp, randomUUID, extension)
}

func (m *mediaService) createS3Client() (*s3.Client, error) {
	cfg, err := fig.LoadDefaultConfig(context.Background(),
		fig.WithRegion(m.Config.AwsRegion),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config, %v", err)
	}
	return s3.NewFromConfig(cfg), nil
}

func (m *mediaService) objectURL(key string) string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", m.Config.AwsBucket, m.Config.AwsRegion, key)
}

// ObjectKeyFromURL recovers the object key from a public object URL.
func ObjectKeyFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(u.Path, "/")
}

func (m *mediaService) uploadBytes(client *s3.Client, key string, body []byte, contentType string) (string, error) {
	_, err := client.PutObject(context.TODO(), &s3.PutObjectInput{
		Bucket:      aws.String(m.Config.AwsBucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
		ACL:         types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload object %s: %v", key, err)
	}
	return m.objectURL(key), nil
}

func readUpload(fileHeader *multipart.FileHeader) ([]byte, error) {
	if fileHeader.Size > MaxImageFileSize {
		return nil, errors.New("file size exceeds the maximum allowed size")
	}
	if ok, _ := CheckSupportedImage(fileHeader.Filename); !ok {
		return nil, errors.New("unsupported file type")
	}
	file, err := fileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %v", err)
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read file content: %v", err)
	}
	return content, nil
}

func (m *mediaService) UploadAvatar(fileHeader *multipart.FileHeader, userID uint) (string, string, error) {
	content, err := readUpload(fileHeader)
	if err != nil {
		return "", "", err
	}
	client, err := m.createS3Client()
	if err != nil {
		return "", "", err
	}

	_, ext := CheckSupportedImage(fileHeader.Filename)
	key := fmt.Sprintf("avatars/%d/%s", userID, generateUniqueFilename(ext))
	avatarURL, err := m.uploadBytes(client, key, content, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		return "", "", err
	}

	thumb, err := makeJpegThumbnail(content)
	if err != nil {
		// The avatar itself made it; a missing thumbnail is not fatal.
		logrus.Warnf("avatar thumbnail for user %d: %v", userID, err)
		return avatarURL, avatarURL, nil
	}
	thumbKey := fmt.Sprintf("avatars/%d/%s", userID, generateUniqueFilename(".jpg"))
	thumbnailURL, err := m.uploadBytes(client, thumbKey, thumb, "image/jpeg")
	if err != nil {
		return "", "", err
	}
	return avatarURL, thumbnailURL, nil
}

func (m *mediaService) UploadPostImage(fileHeader *multipart.FileHeader, userID uint) (string, error) {
	content, err := readUpload(fileHeader)
	if err != nil {
		return "", err
	}
	client, err := m.createS3Client()
	if err != nil {
		return "", err
	}
	_, ext := CheckSupportedImage(fileHeader.Filename)
	key := fmt.Sprintf("post-images/%d/%s", userID, generateUniqueFilename(ext))
	return m.uploadBytes(client, key, content, fileHeader.Header.Get("Content-Type"))
}

func makeJpegThumbnail(content []byte) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %v", err)
	}
	thumb := resize.Thumbnail(thumbnailMaxSize, thumbnailMaxSize, img, resize.Lanczos3)
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, thumb, &jpeg.Options{Quality: 85}); err != nil {
		return nil, fmt.Errorf("failed to encode thumbnail: %v", err)
	}
	return buf.Bytes(), nil
}

func (m *mediaService) DeleteObject(key string) error {
	client, err := m.createS3Client()
	if err != nil {
		return err
	}
	_, err = client.DeleteObject(context.TODO(), &s3.DeleteObjectInput{
		Bucket: aws.String(m.Config.AwsBucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object %s: %v", key, err)
	}
	return nil
}

func (m *mediaService) EnsureBucket() error {
	if m.Config.AwsBucket == "" {
		return errors.New("aws bucket is not configured")
	}
	client, err := m.createS3Client()
	if err != nil {
		return err
	}
	_, err = client.CreateBucket(context.TODO(), &s3.CreateBucketInput{
		Bucket: aws.String(m.Config.AwsBucket),
	})
	if err != nil {
		var owned *types.BucketAlreadyOwnedByYou
		var exists *types.BucketAlreadyExists
		if errors.As(err, &owned) || errors.As(err, &exists) {
			return nil
		}
		return fmt.Errorf("failed to create bucket %s: %v", m.Config.AwsBucket, err)
	}
	logrus.Infof("created bucket %s", m.Config.AwsBucket)
	return nil
}
