package services

import (
	"github.com/flexoffhq/flexoff/config"
	"github.com/flexoffhq/flexoff/db"
	apiError "github.com/flexoffhq/flexoff/errors"
	"github.com/flexoffhq/flexoff/models"
	"github.com/flexoffhq/flexoff/services/jwt"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// AuthService interface
type AuthService interface {
	SignupUser(user *models.User) (*models.User, *apiError.Error)
	LoginUser(loginRequest *models.LoginRequest) (*models.LoginResponse, *apiError.Error)
	LogoutUser(userEmail, accessToken string) *apiError.Error
	GetUserProfile(userID uint) (*models.User, *apiError.Error)
	EditUserProfile(userID uint, details *models.EditProfileRequest) *apiError.Error
}

// authService struct
type authService struct {
	Config   *config.Config
	authRepo db.AuthRepository
}

// NewAuthService instantiate an authService
func NewAuthService(authRepo db.AuthRepository, conf *config.Config) AuthService {
	return &authService{
		Config:   conf,
		authRepo: authRepo,
	}
}

func (s *authService) SignupUser(user *models.User) (*models.User, *apiError.Error) {
	if user == nil {
		return nil, apiError.ErrBadRequest
	}
	if err := models.NormalizeInput(user); err != nil {
		logrus.Errorf("SignupUser normalize: %v", err)
		return nil, apiError.ErrBadRequest
	}
	if err := models.ValidatePassword(user.Password); err != nil {
		return nil, apiError.New(err.Error(), 400)
	}

	if err := s.authRepo.IsEmailExist(user.Email); err != nil {
		logrus.Errorf("SignupUser: %v", err)
		return nil, apiError.New("email already in use", 400)
	}
	if err := s.authRepo.IsUsernameExist(user.Username); err != nil {
		logrus.Errorf("SignupUser: %v", err)
		return nil, apiError.New("username is already taken", 400)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		logrus.Errorf("SignupUser error hashing password: %v", err)
		return nil, apiError.ErrInternalServerError
	}
	user.HashedPassword = string(hashedPassword)
	user.Password = ""

	created, err := s.authRepo.CreateUser(user)
	if err != nil {
		logrus.Errorf("SignupUser error creating user: %v", err)
		return nil, apiError.GetUniqueContraintError(err)
	}
	return created, nil
}

func (s *authService) LoginUser(loginRequest *models.LoginRequest) (*models.LoginResponse, *apiError.Error) {
	user, err := s.authRepo.FindUserByEmail(loginRequest.Email)
	if err != nil {
		logrus.Errorf("LoginUser: %v", err)
		return nil, apiError.New("invalid email or password", 401)
	}
	if err := user.VerifyPassword(loginRequest.Password); err != nil {
		return nil, apiError.New("invalid email or password", 401)
	}

	accessToken, err := jwt.GenerateToken(user.ID, s.Config.JWTSecret)
	if err != nil {
		logrus.Errorf("LoginUser token: %v", err)
		return nil, apiError.ErrInternalServerError
	}

	return &models.LoginResponse{
		UserResponse: user.Response(),
		AccessToken:  accessToken,
	}, nil
}

func (s *authService) LogoutUser(userEmail, accessToken string) *apiError.Error {
	blacklist := &models.Blacklist{
		Email: userEmail,
		Token: accessToken,
	}
	if err := s.authRepo.AddToBlackList(blacklist); err != nil {
		logrus.Errorf("LogoutUser: %v", err)
		return apiError.ErrInternalServerError
	}
	return nil
}

func (s *authService) GetUserProfile(userID uint) (*models.User, *apiError.Error) {
	user, err := s.authRepo.FindUserByID(userID)
	if err != nil {
		logrus.Errorf("GetUserProfile: %v", err)
		return nil, apiError.ErrNotFound
	}
	return user, nil
}

func (s *authService) EditUserProfile(userID uint, details *models.EditProfileRequest) *apiError.Error {
	if err := models.NormalizeInput(details); err != nil {
		logrus.Errorf("EditUserProfile normalize: %v", err)
		return apiError.ErrBadRequest
	}
	taken, err := s.authRepo.IsUsernameTakenByOther(details.Username, userID)
	if err != nil {
		logrus.Errorf("EditUserProfile: %v", err)
		return apiError.ErrInternalServerError
	}
	if taken {
		return apiError.New("username is already taken", 400)
	}
	if err := s.authRepo.UpdateUserProfile(userID, details); err != nil {
		logrus.Errorf("EditUserProfile: %v", err)
		return apiError.ErrInternalServerError
	}
	return nil
}
