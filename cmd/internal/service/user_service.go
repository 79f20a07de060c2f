package service

import (
	"clientschedule/cmd/internal/domain/entity"
	"clientschedule/cmd/internal/utils"
	"clientschedule/cmd/internal/utils/apierror"
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
	"golang.org/x/crypto/bcrypt"
)

// UpcomingWindow is how far ahead login looks for the user's next appointments.
const UpcomingWindow = 15 * time.Minute

type UserRepository interface {
	FindByID(ctx context.Context, id int) (*entity.User, error)
	FindByUsername(ctx context.Context, username string) (*entity.User, error)
	FindAll(ctx context.Context) ([]*entity.User, error)
}

type LoginRecorder interface {
	LogAttempt(username string, success bool)
}

type UpcomingAppointments interface {
	UpcomingForUser(ctx context.Context, userID int, window time.Duration) ([]*AppointmentResponse, apierror.ErrorResponse)
}

type UserLoginRequest struct {
	Username string `json:"username" validate:"required,max=50,nospaces"`
	Password string `json:"password" validate:"required,max=72"`
}

type UserResponse struct {
	ID        int    `json:"id"`
	Username  string `json:"username"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
	CreatedBy string `json:"created_by"`
	UpdatedBy string `json:"updated_by"`
}

type UserLoginResponse struct {
	AccessToken string                 `json:"access_token"`
	User        *UserResponse          `json:"user"`
	Upcoming    []*AppointmentResponse `json:"upcoming_appointments"`
}

type TokenIssuer struct {
	Secret []byte
	TTL    time.Duration
}

type DefaultUserService struct {
	UserRepo UserRepository
	Validate *validator.Validate
	Logins   LoginRecorder
	Upcoming UpcomingAppointments
	Tokens   TokenIssuer
}

func NewUserService(userRepo UserRepository, validate *validator.Validate, logins LoginRecorder, upcoming UpcomingAppointments, tokens TokenIssuer) *DefaultUserService {
	return &DefaultUserService{UserRepo: userRepo, Validate: validate, Logins: logins, Upcoming: upcoming, Tokens: tokens}
}

func (u *DefaultUserService) GetUsers(ctx context.Context) ([]*UserResponse, apierror.ErrorResponse) {
	users, err := u.UserRepo.FindAll(ctx)
	if err != nil {
		log.Errorf("failed to fetch all users: %v", err)
		return nil, apierror.InternalServerError
	}

	resp := make([]*UserResponse, len(users))
	for i, user := range users {
		resp[i] = toUserResponse(user)
	}
	return resp, nil
}

// GetUser accepts a numeric id or "@me" for the user owning the token.
func (u *DefaultUserService) GetUser(ctx context.Context, rawId, subId string) (*UserResponse, apierror.ErrorResponse) {
	if rawId == "@me" {
		rawId = subId
	}

	userId, err := strconv.Atoi(rawId)
	if err != nil {
		return nil, apierror.NewInvalidParamTypeError("id", "int32")
	}

	user, err := u.UserRepo.FindByID(ctx, userId)
	if err != nil {
		log.Errorf("failed to find user (%s) by id: %v", rawId, err)
		return nil, apierror.InternalServerError
	}

	if user == nil {
		return nil, apierror.NotFoundError
	}
	return toUserResponse(user), nil
}

// Login checks the credentials, records the attempt and returns a token along
// with the user's appointments starting within UpcomingWindow.
func (u *DefaultUserService) Login(ctx context.Context, req *UserLoginRequest) (*UserLoginResponse, apierror.ErrorResponse) {
	req.Username = strings.TrimSpace(req.Username)
	if err := u.Validate.Struct(req); err != nil {
		u.Logins.LogAttempt(req.Username, false)
		return nil, apierror.FromValidationError(err)
	}

	user, err := u.UserRepo.FindByUsername(ctx, req.Username)
	if err != nil {
		log.Errorf("failed to fetch user from database: %v", err)
		return nil, apierror.InternalServerError
	}

	if user == nil {
		u.Logins.LogAttempt(req.Username, false)
		return nil, apierror.InvalidLoginError
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		u.Logins.LogAttempt(req.Username, false)
		return nil, apierror.InvalidLoginError
	}
	if err != nil {
		log.Errorf("failed to compare password hash for user (%d): %v", user.ID, err)
		return nil, apierror.InternalServerError
	}
	u.Logins.LogAttempt(req.Username, true)

	token, err := utils.IssueToken(u.Tokens.Secret, user.ID, user.Username, u.Tokens.TTL)
	if err != nil {
		log.Errorf("failed to issue token for user (%d): %v", user.ID, err)
		return nil, apierror.InternalServerError
	}

	upcoming, apierr := u.Upcoming.UpcomingForUser(ctx, user.ID, UpcomingWindow)
	if apierr != nil {
		return nil, apierr
	}

	return &UserLoginResponse{AccessToken: token, User: toUserResponse(user), Upcoming: upcoming}, nil
}

func toUserResponse(user *entity.User) *UserResponse {
	return &UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		CreatedAt: utils.FormatEpoch(user.CreatedAt),
		UpdatedAt: utils.FormatEpoch(user.UpdatedAt),
		CreatedBy: user.CreatedBy,
		UpdatedBy: user.UpdatedBy,
	}
}
