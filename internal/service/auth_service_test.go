package service

import (
	"context"
	"sort"
	"testing"

	"kitchenops/internal/config"
	"kitchenops/internal/dto"
	"kitchenops/internal/model"
	"kitchenops/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type stubUserRepo struct {
	users map[uuid.UUID]*model.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[uuid.UUID]*model.User)}
}

func (r *stubUserRepo) Create(_ context.Context, u *model.User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	cloned := *u
	r.users[u.ID] = &cloned
	return nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

// FindByUsername mirrors the SQL implementation: inactive users are invisible.
func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range r.users {
		if u.Username == username && u.Active {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUserRepo) List(_ context.Context, includeInactive bool) ([]model.User, error) {
	var out []model.User
	for _, u := range r.users {
		if u.Active || includeInactive {
			out = append(out, *u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (r *stubUserRepo) Update(_ context.Context, u *model.User) error {
	cloned := *u
	r.users[u.ID] = &cloned
	return nil
}

func (r *stubUserRepo) SetActive(_ context.Context, id uuid.UUID, active bool) error {
	u, ok := r.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.Active = active
	return nil
}

var _ repository.UserRepository = (*stubUserRepo)(nil)

func authTestConfig() *config.Config {
	return &config.Config{
		JWTSecret:          "test-secret",
		JWTExpirationHours: 8,
		JWTRefreshHours:    168,
	}
}

func seedUser(t *testing.T, repo *stubUserRepo, username, password, role string, active bool) *model.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	u := &model.User{
		Username:     username,
		Name:         username,
		PasswordHash: string(hash),
		Role:         role,
		Active:       active,
	}
	require.NoError(t, repo.Create(context.Background(), u))
	return u
}

func TestLogin_Success(t *testing.T) {
	repo := newStubUserRepo()
	seedUser(t, repo, "chef", "secret123", "manager", true)
	svc := NewAuthService(repo, authTestConfig())

	resp, err := svc.Login(context.Background(), dto.LoginRequest{Username: "chef", Password: "secret123"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, 8*3600, resp.ExpiresIn)
	assert.Equal(t, "manager", resp.User.Role)
}

func TestLogin_WrongPassword(t *testing.T) {
	repo := newStubUserRepo()
	seedUser(t, repo, "chef", "secret123", "manager", true)
	svc := NewAuthService(repo, authTestConfig())

	_, err := svc.Login(context.Background(), dto.LoginRequest{Username: "chef", Password: "nope"})
	assert.EqualError(t, err, "invalid credentials")
}

func TestLogin_InactiveUserRejected(t *testing.T) {
	repo := newStubUserRepo()
	seedUser(t, repo, "chef", "secret123", "manager", false)
	svc := NewAuthService(repo, authTestConfig())

	_, err := svc.Login(context.Background(), dto.LoginRequest{Username: "chef", Password: "secret123"})
	assert.EqualError(t, err, "invalid credentials")
}

func TestRefresh_IssuesNewTokenPair(t *testing.T) {
	repo := newStubUserRepo()
	seedUser(t, repo, "chef", "secret123", "manager", true)
	svc := NewAuthService(repo, authTestConfig())

	login, err := svc.Login(context.Background(), dto.LoginRequest{Username: "chef", Password: "secret123"})
	require.NoError(t, err)

	refreshed, err := svc.Refresh(context.Background(), login.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
	assert.Equal(t, login.User.ID, refreshed.User.ID)
}

func TestRefresh_GarbageTokenRejected(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(repo, authTestConfig())

	_, err := svc.Refresh(context.Background(), "not-a-jwt")
	assert.Error(t, err)
}

func TestCreateUser_DuplicateUsername(t *testing.T) {
	repo := newStubUserRepo()
	seedUser(t, repo, "chef", "secret123", "manager", true)
	svc := NewAuthService(repo, authTestConfig())

	_, err := svc.CreateUser(context.Background(), dto.CreateUserRequest{
		Username: "chef",
		Name:     "Another Chef",
		Password: "secret456",
		Role:     "staff",
	})
	assert.EqualError(t, err, "username already taken")
}
