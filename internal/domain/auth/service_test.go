package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"psi/internal/core/apperror"
	appctx "psi/internal/core/context"
	"psi/internal/core/id"
)

type inlineTx struct{}

func (inlineTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type memUsers struct {
	byLogin map[string]*User
	updates int
}

func newMemUsers() *memUsers { return &memUsers{byLogin: map[string]*User{}} }

func (m *memUsers) Create(_ context.Context, u *User) error {
	m.byLogin[u.Login] = u
	return nil
}

func (m *memUsers) GetByID(_ context.Context, userID id.ID) (*User, error) {
	for _, u := range m.byLogin {
		if u.ID == userID {
			return u, nil
		}
	}
	return nil, apperror.NewNotFound("user", userID.String())
}

func (m *memUsers) GetByLogin(_ context.Context, login string) (*User, error) {
	if u, ok := m.byLogin[login]; ok {
		return u, nil
	}
	return nil, apperror.NewNotFound("user", login)
}

func (m *memUsers) UpdateLoginState(context.Context, *User) error {
	m.updates++
	return nil
}

func (m *memUsers) Exists(_ context.Context, login string) (bool, error) {
	_, ok := m.byLogin[login]
	return ok, nil
}

func newTestService(users *memUsers) *Service {
	cfg := DefaultServiceConfig()
	cfg.BcryptCost = bcrypt.MinCost
	cfg.MaxLoginAttempts = 2
	return NewService(users, inlineTx{}, NewJWTService(DefaultJWTConfig("test-secret")), cfg)
}

func TestService_CreateUserAndLogin(t *testing.T) {
	users := newMemUsers()
	svc := newTestService(users)
	orgID := id.New()

	created, err := svc.CreateUser(context.Background(), NewUserRequest{
		Login:          " buyer ",
		Password:       "correct horse",
		OrganizationID: orgID,
		Roles:          []string{"sales_report"},
	})
	require.NoError(t, err)
	assert.Equal(t, "buyer", created.Login)
	assert.NotEqual(t, "correct horse", created.PasswordHash)

	token, user, err := svc.Login(context.Background(), Credentials{Login: "buyer", Password: "correct horse"})
	require.NoError(t, err)
	assert.Equal(t, "Bearer", token.TokenType)
	assert.Equal(t, created.ID, user.ID)
	assert.NotNil(t, user.LastLoginAt)

	uc, err := svc.ValidateToken(token.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, created.ID.String(), uc.UserID)
	assert.Equal(t, orgID, uc.OrganizationID)
	assert.Equal(t, []string{"sales_report"}, uc.Roles)
}

func TestService_CreateUser_Validation(t *testing.T) {
	svc := newTestService(newMemUsers())

	_, err := svc.CreateUser(context.Background(), NewUserRequest{Login: "a", Password: "short", OrganizationID: id.New()})
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)

	_, err = svc.CreateUser(context.Background(), NewUserRequest{Login: "a", Password: "long enough"})
	appErr, ok = apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestService_CreateUser_DuplicateLogin(t *testing.T) {
	svc := newTestService(newMemUsers())
	req := NewUserRequest{Login: "buyer", Password: "long enough", OrganizationID: id.New()}

	_, err := svc.CreateUser(context.Background(), req)
	require.NoError(t, err)
	_, err = svc.CreateUser(context.Background(), req)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeConflict, appErr.Code)
}

func TestService_Login_WrongPasswordLocksAccount(t *testing.T) {
	users := newMemUsers()
	svc := newTestService(users)
	_, err := svc.CreateUser(context.Background(), NewUserRequest{Login: "buyer", Password: "long enough", OrganizationID: id.New()})
	require.NoError(t, err)

	for range 2 {
		_, _, err = svc.Login(context.Background(), Credentials{Login: "buyer", Password: "wrong"})
		appErr, ok := apperror.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperror.CodeUnauthorized, appErr.Code)
	}
	assert.Equal(t, 2, users.updates)

	_, _, err = svc.Login(context.Background(), Credentials{Login: "buyer", Password: "long enough"})
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeForbidden, appErr.Code)
}

func TestService_Login_UnknownUser(t *testing.T) {
	_, _, err := newTestService(newMemUsers()).Login(context.Background(), Credentials{Login: "ghost", Password: "x"})

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeUnauthorized, appErr.Code)
}

func TestService_Me(t *testing.T) {
	users := newMemUsers()
	svc := newTestService(users)
	created, err := svc.CreateUser(context.Background(), NewUserRequest{Login: "buyer", Password: "long enough", OrganizationID: id.New()})
	require.NoError(t, err)

	_, err = svc.Me(context.Background())
	assert.Error(t, err)

	ctx := appctx.WithUser(context.Background(), &appctx.UserContext{UserID: created.ID.String()})
	me, err := svc.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, "buyer", me.Login)
}

func TestJWTService_RejectsForeignSecret(t *testing.T) {
	user := NewUser("buyer", "", id.New())
	token, _, err := NewJWTService(DefaultJWTConfig("one")).GenerateAccessToken(user)
	require.NoError(t, err)

	_, err = NewJWTService(DefaultJWTConfig("two")).ValidateToken(token)
	assert.Error(t, err)
}

func TestJWTService_RejectsExpired(t *testing.T) {
	cfg := DefaultJWTConfig("secret")
	cfg.AccessTokenTTL = -time.Minute
	svc := NewJWTService(cfg)

	token, _, err := svc.GenerateAccessToken(NewUser("buyer", "", id.New()))
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.Error(t, err)
}

func TestJWTService_RejectsOtherAlgorithm(t *testing.T) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "psi",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		OrganizationID: id.New().String(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = NewJWTService(DefaultJWTConfig("secret")).ValidateToken(token)
	assert.Error(t, err)
}

func TestUser_HasRole(t *testing.T) {
	u := NewUser("buyer", "", id.New())
	u.Roles = []string{"sales_report"}
	assert.True(t, u.HasRole("sales_report"))
	assert.False(t, u.HasRole("purchase_officer"))

	u.IsAdmin = true
	assert.True(t, u.HasRole("purchase_officer"))
}
