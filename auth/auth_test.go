package auth_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"storefront/auth"
	"storefront/models"
	"storefront/store/memstore"
	"storefront/tasks"
	"storefront/utils"
)

type sentMail struct {
	email string
	token string
}

type fakeVerifier struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (f *fakeVerifier) SendVerification(_ context.Context, email, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentMail{email, token})
	return f.err
}

func (f *fakeVerifier) last(t *testing.T) sentMail {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.sent)
	return f.sent[len(f.sent)-1]
}

type fixture struct {
	svc      *auth.Service
	users    *memstore.Users
	verifier *fakeVerifier
	runner   *tasks.Runner
	tokens   *utils.TokenIssuer
}

func newFixture() fixture {
	users := memstore.New().Users()
	verifier := &fakeVerifier{}
	runner := tasks.NewRunner(nil, time.Second)
	tokens := utils.NewTokenIssuer("test-secret")
	svc := auth.NewService(users, tokens, verifier, runner, nil, auth.Options{
		AdminEmail: "Owner@Shop.test",
		HashCost:   bcrypt.MinCost,
	})
	return fixture{svc: svc, users: users, verifier: verifier, runner: runner, tokens: tokens}
}

func (f fixture) signUp(t *testing.T, email string) string {
	t.Helper()
	err := f.svc.SignUp(context.Background(), models.SignUpInput{Name: "Sam", Email: email, Password: "hunter22"})
	require.NoError(t, err)
	f.runner.Wait()
	return f.verifier.last(t).token
}

func TestSignUp_StoresHashAndRole(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.signUp(t, "owner@shop.test")
	f.signUp(t, "someone@shop.test")

	admin, err := f.users.FindByEmail(ctx, "owner@shop.test")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, admin.Role)
	assert.False(t, admin.Verified)
	assert.NotEqual(t, "hunter22", admin.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte("hunter22")))

	user, err := f.users.FindByEmail(ctx, "someone@shop.test")
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.Len(t, user.VerifyToken, 64)
	assert.NotEqual(t, admin.VerifyToken, user.VerifyToken)
}

func TestSignUp_Conflict(t *testing.T) {
	f := newFixture()
	f.signUp(t, "dup@shop.test")

	err := f.svc.SignUp(context.Background(), models.SignUpInput{Name: "Other", Email: " DUP@shop.test", Password: "x"})
	assert.ErrorIs(t, err, auth.ErrConflict)
}

func TestSignUp_Validation(t *testing.T) {
	f := newFixture()
	for _, in := range []models.SignUpInput{
		{Email: "a@b.test", Password: "pw"},
		{Name: "A", Password: "pw"},
		{Name: "A", Email: "not-an-email", Password: "pw"},
		{Name: "A", Email: "a@b.test"},
	} {
		err := f.svc.SignUp(context.Background(), in)
		assert.ErrorIs(t, err, models.ErrValidation, "%+v", in)
	}
}

func TestSignUp_VerifierFailureDoesNotFailSignup(t *testing.T) {
	f := newFixture()
	f.verifier.err = assert.AnError

	err := f.svc.SignUp(context.Background(), models.SignUpInput{Name: "A", Email: "a@b.test", Password: "pw"})
	require.NoError(t, err)
	f.runner.Wait()

	_, err = f.users.FindByEmail(context.Background(), "a@b.test")
	assert.NoError(t, err)
}

func TestSignIn_UnverifiedBeforeToken(t *testing.T) {
	f := newFixture()
	f.signUp(t, "new@shop.test")

	_, err := f.svc.SignIn(context.Background(), models.SignInInput{Email: "new@shop.test", Password: "hunter22"})
	assert.ErrorIs(t, err, auth.ErrUnverified)

	_, err = f.svc.SignIn(context.Background(), models.SignInInput{Email: "new@shop.test", Password: "wrong"})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestSignIn_AfterVerify(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	token := f.signUp(t, "owner@shop.test")

	require.NoError(t, f.svc.VerifyEmail(ctx, token))

	resp, err := f.svc.SignIn(ctx, models.SignInInput{Email: "OWNER@shop.test", Password: "hunter22"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, resp.User.Role)
	assert.Equal(t, "owner@shop.test", resp.User.Email)

	claims, err := f.tokens.ParseJWTToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.ID)
	assert.Equal(t, "admin", claims.Role)
	assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), claims.ExpiresAt.Time, time.Minute)

	session, err := f.svc.Authenticate(resp.Token)
	require.NoError(t, err)
	assert.NoError(t, auth.RequireAdmin(session))
}

func TestSignIn_UnknownEmail(t *testing.T) {
	f := newFixture()
	_, err := f.svc.SignIn(context.Background(), models.SignInInput{Email: "ghost@shop.test", Password: "pw"})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestVerifyEmail_SingleUse(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	token := f.signUp(t, "v@shop.test")

	require.NoError(t, f.svc.VerifyEmail(ctx, token))

	user, err := f.users.FindByEmail(ctx, "v@shop.test")
	require.NoError(t, err)
	assert.True(t, user.Verified)
	assert.Empty(t, user.VerifyToken)

	assert.ErrorIs(t, f.svc.VerifyEmail(ctx, token), auth.ErrInvalidLink)
	assert.ErrorIs(t, f.svc.VerifyEmail(ctx, ""), auth.ErrInvalidLink)
	assert.ErrorIs(t, f.svc.VerifyEmail(ctx, "deadbeef"), auth.ErrInvalidLink)
}

func TestAuthenticate(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Authenticate("")
	assert.ErrorIs(t, err, auth.ErrUnauthorized)

	_, err = f.svc.Authenticate("garbage")
	assert.ErrorIs(t, err, auth.ErrUnauthorized)

	forged, err := utils.NewTokenIssuer("other").GenerateJWTToken("u1", "x@y.test", "admin")
	require.NoError(t, err)
	_, err = f.svc.Authenticate(forged)
	assert.ErrorIs(t, err, auth.ErrUnauthorized)

	userToken, err := f.tokens.GenerateJWTToken("u2", "u@y.test", "user")
	require.NoError(t, err)
	session, err := f.svc.Authenticate(userToken)
	require.NoError(t, err)
	assert.Equal(t, "u2", session.UserID)
	assert.ErrorIs(t, auth.RequireAdmin(session), auth.ErrForbidden)
}
