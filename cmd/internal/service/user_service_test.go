package service

import (
	"clientschedule/cmd/internal/domain/entity"
	"clientschedule/cmd/internal/utils"
	"clientschedule/cmd/internal/utils/apierror"
	"clientschedule/cmd/internal/utils/validators"
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var tokenSecret = []byte("0123456789abcdef0123")

type fakeUserRepo struct {
	users []*entity.User
}

func (r *fakeUserRepo) FindByID(_ context.Context, id int) (*entity.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindByUsername(_ context.Context, username string) (*entity.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindAll(_ context.Context) ([]*entity.User, error) {
	return r.users, nil
}

type attempt struct {
	username string
	success  bool
}

type recordingLogins struct {
	attempts []attempt
}

func (r *recordingLogins) LogAttempt(username string, success bool) {
	r.attempts = append(r.attempts, attempt{username, success})
}

type stubUpcoming struct {
	userID int
	window time.Duration
	appts  []*AppointmentResponse
}

func (s *stubUpcoming) UpcomingForUser(_ context.Context, userID int, window time.Duration) ([]*AppointmentResponse, apierror.ErrorResponse) {
	s.userID, s.window = userID, window
	return s.appts, nil
}

func newTestUserService(t *testing.T) (*DefaultUserService, *recordingLogins, *stubUpcoming) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("test"), bcrypt.MinCost)
	require.NoError(t, err)

	repo := &fakeUserRepo{users: []*entity.User{
		{ID: 1, Username: "test", PasswordHash: string(hash), CreatedBy: "script", UpdatedBy: "script"},
		{ID: 2, Username: "admin", PasswordHash: string(hash), CreatedBy: "script", UpdatedBy: "script"},
	}}
	validate := validator.New()
	validators.Register(validate)

	logins := &recordingLogins{}
	upcoming := &stubUpcoming{appts: []*AppointmentResponse{{ID: 5, Title: "Sync"}}}
	svc := NewUserService(repo, validate, logins, upcoming, TokenIssuer{Secret: tokenSecret, TTL: time.Hour})
	return svc, logins, upcoming
}

func TestLogin_Success(t *testing.T) {
	svc, logins, upcoming := newTestUserService(t)

	resp, apierr := svc.Login(context.Background(), &UserLoginRequest{Username: " test ", Password: "test"})

	require.Nil(t, apierr)
	assert.Equal(t, "test", resp.User.Username)
	require.Len(t, resp.Upcoming, 1)
	assert.Equal(t, 5, resp.Upcoming[0].ID)
	assert.Equal(t, 1, upcoming.userID)
	assert.Equal(t, 15*time.Minute, upcoming.window)
	assert.Equal(t, []attempt{{"test", true}}, logins.attempts)

	data, err := utils.ParseToken(tokenSecret, resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "1", data.Sub)
	assert.Equal(t, "test", data.Username)
}

func TestLogin_Failures(t *testing.T) {
	tests := []struct {
		name     string
		req      UserLoginRequest
		status   int
		recorded []attempt
	}{
		{"wrong password", UserLoginRequest{Username: "test", Password: "nope"}, http.StatusUnauthorized, []attempt{{"test", false}}},
		{"unknown user", UserLoginRequest{Username: "ghost", Password: "test"}, http.StatusUnauthorized, []attempt{{"ghost", false}}},
		{"blank username", UserLoginRequest{Username: "  ", Password: "test"}, http.StatusBadRequest, []attempt{{"", false}}},
		{"username with spaces", UserLoginRequest{Username: "te st", Password: "test"}, http.StatusBadRequest, []attempt{{"te st", false}}},
		{"blank password", UserLoginRequest{Username: "test", Password: ""}, http.StatusBadRequest, []attempt{{"test", false}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, logins, _ := newTestUserService(t)

			resp, apierr := svc.Login(context.Background(), &tt.req)

			assert.Nil(t, resp)
			require.NotNil(t, apierr)
			assert.Equal(t, tt.status, apierr.Code())
			assert.Equal(t, tt.recorded, logins.attempts)
		})
	}
}

func TestGetUser(t *testing.T) {
	svc, _, _ := newTestUserService(t)
	ctx := context.Background()

	me, apierr := svc.GetUser(ctx, "@me", "2")
	require.Nil(t, apierr)
	assert.Equal(t, "admin", me.Username)

	byID, apierr := svc.GetUser(ctx, "1", "2")
	require.Nil(t, apierr)
	assert.Equal(t, "test", byID.Username)

	_, apierr = svc.GetUser(ctx, "abc", "2")
	require.NotNil(t, apierr)
	assert.Equal(t, http.StatusBadRequest, apierr.Code())

	_, apierr = svc.GetUser(ctx, "99", "2")
	require.NotNil(t, apierr)
	assert.Equal(t, http.StatusNotFound, apierr.Code())
}

func TestGetUsers(t *testing.T) {
	svc, _, _ := newTestUserService(t)

	users, apierr := svc.GetUsers(context.Background())

	require.Nil(t, apierr)
	require.Len(t, users, 2)
	assert.Equal(t, "script", users[0].CreatedBy)
}
