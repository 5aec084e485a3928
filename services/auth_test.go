package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"restaurant/models"
	"restaurant/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// brokenStore fails every call the way an unreachable database would.
type brokenStore struct{ err error }

func (b brokenStore) CreateUser(context.Context, string, string, string) (int64, error) {
	return 0, b.err
}
func (b brokenStore) GetUserByUsername(context.Context, string) (*models.User, error) {
	return nil, b.err
}
func (b brokenStore) ListAvailableMenu(context.Context, string) ([]models.MenuItem, error) {
	return nil, b.err
}
func (b brokenStore) GetMenuItem(context.Context, int64) (*models.MenuItem, error) {
	return nil, b.err
}
func (b brokenStore) SeedMenu(context.Context, []models.MenuItem) error { return b.err }
func (b brokenStore) CreateOrder(context.Context, models.CreateOrderInput) (int64, error) {
	return 0, b.err
}
func (b brokenStore) GetOrder(context.Context, int64) (*models.Order, error) { return nil, b.err }

var errConnRefused = errors.New("dial tcp 127.0.0.1:5432: connect: connection refused")

func TestRegisterThenAuthenticate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	users := []struct{ username, email, password string }{
		{"ali", "ali@example.com", "p@ss"},
		{"sara", "sara@example.com", "another one"},
		{"UPPER", "upper@example.com", "x"},
	}
	for _, u := range users {
		id, err := f.auth.Register(ctx, u.username, u.email, u.password)
		require.NoError(t, err)

		got, err := f.auth.Authenticate(ctx, u.username, u.password)
		require.NoError(t, err)
		assert.Equal(t, id, got.ID)
		assert.Equal(t, u.email, got.Email)
		assert.NotEqual(t, u.password, got.PasswordHash)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(got.PasswordHash), []byte(u.password)))
		assert.False(t, got.CreatedAt.IsZero())
	}
}

func TestRegisterDuplicate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.auth.Register(ctx, "ali", "ali@example.com", "pw")
	require.NoError(t, err)

	tests := []struct {
		name, username, email string
	}{
		{"same username", "ali", "other@example.com"},
		{"same email", "other", "ali@example.com"},
		{"both", "ali", "ali@example.com"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.auth.Register(ctx, tt.username, tt.email, "pw")
			assert.ErrorIs(t, err, models.ErrDuplicateCredential)
			assert.Equal(t, 1, countRows(t, f.store.DB(), `SELECT COUNT(*) FROM users`))
		})
	}
}

func TestAuthenticateFailuresAreIndistinguishable(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "ali")

	u1, wrongPassword := f.auth.Authenticate(ctx, "ali", "wrong")
	u2, unknownUser := f.auth.Authenticate(ctx, "nobody", "wrong")

	assert.Nil(t, u1)
	assert.Nil(t, u2)
	assert.ErrorIs(t, wrongPassword, models.ErrAuthenticationFailed)
	assert.ErrorIs(t, unknownUser, models.ErrAuthenticationFailed)
	assert.Equal(t, wrongPassword.Error(), unknownUser.Error())
}

func TestSignUpValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		form    SignupForm
		message string
		fields  []string
	}{
		{
			name:    "missing fields",
			form:    SignupForm{Username: "ali", Password: "pw"},
			message: "please fill in all fields",
			fields:  []string{"email", "confirm password"},
		},
		{
			name:    "blank username",
			form:    SignupForm{Username: "   ", Email: "a@example.com", Password: "pw", ConfirmPassword: "pw"},
			message: "please fill in all fields",
			fields:  []string{"username"},
		},
		{
			name:    "passwords differ",
			form:    SignupForm{Username: "ali", Email: "a@example.com", Password: "pw", ConfirmPassword: "pw2"},
			message: "passwords do not match",
			fields:  []string{"confirm password"},
		},
		{
			name:    "bad email",
			form:    SignupForm{Username: "ali", Email: "not-an-email", Password: "pw", ConfirmPassword: "pw"},
			message: "invalid value",
			fields:  []string{"email"},
		},
		{
			name:    "password too long",
			form:    SignupForm{Username: "ali", Email: "a@example.com", Password: strings.Repeat("a", 80), ConfirmPassword: strings.Repeat("a", 80)},
			message: "too long",
			fields:  []string{"password"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.auth.SignUp(ctx, tt.form)
			var ve *models.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.message, ve.Message)
			assert.Equal(t, tt.fields, ve.Fields)
		})
	}
	assert.Equal(t, 0, countRows(t, f.store.DB(), `SELECT COUNT(*) FROM users`))
}

func TestSignUpAndLogIn(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	id, err := f.auth.SignUp(ctx, SignupForm{
		Username: " ali ", Email: "ali@example.com", Password: "pw", ConfirmPassword: "pw",
	})
	require.NoError(t, err)

	sess := NewSession(fixedNow)
	_, err = f.auth.LogIn(ctx, sess, LoginForm{Username: "ali"})
	assert.True(t, models.IsValidation(err))
	assert.False(t, sess.LoggedIn())

	_, err = f.auth.LogIn(ctx, sess, LoginForm{Username: "ali", Password: "nope"})
	assert.ErrorIs(t, err, models.ErrAuthenticationFailed)
	assert.False(t, sess.LoggedIn())

	u, err := f.auth.LogIn(ctx, sess, LoginForm{Username: "ali", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, id, u.ID)
	assert.True(t, sess.LoggedIn())
	assert.Equal(t, "ali", sess.User().Username)
}

func TestAuthStorageUnavailable(t *testing.T) {
	auth := NewAuth(brokenStore{err: errConnRefused}, quietLogger(), bcrypt.MinCost)
	ctx := context.Background()

	_, err := auth.Register(ctx, "ali", "ali@example.com", "pw")
	assert.ErrorIs(t, err, models.ErrStorageUnavailable)
	assert.ErrorIs(t, err, errConnRefused)

	_, err = auth.Authenticate(ctx, "ali", "pw")
	assert.ErrorIs(t, err, models.ErrStorageUnavailable)
	assert.NotErrorIs(t, err, models.ErrAuthenticationFailed)
}

func TestRegisterRequiresFields(t *testing.T) {
	auth := NewAuth(brokenStore{err: storage.ErrDuplicate}, quietLogger(), bcrypt.MinCost)
	_, err := auth.Register(context.Background(), "", "", "")
	var ve *models.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, []string{"username", "email", "password"}, ve.Fields)
}

func TestRegisterRejectsOverlongPassword(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// 40 two-byte runes pass a length check on characters but exceed bcrypt's 72 bytes.
	for _, pw := range []string{strings.Repeat("a", 80), strings.Repeat("é", 40)} {
		_, err := f.auth.Register(ctx, "ali", "ali@example.com", pw)
		var ve *models.ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "password is too long", ve.Message)
		assert.Equal(t, []string{"password"}, ve.Fields)
	}
	assert.Equal(t, 0, countRows(t, f.store.DB(), `SELECT COUNT(*) FROM users`))

	_, err := f.auth.Register(ctx, "ali", "ali@example.com", strings.Repeat("a", 72))
	require.NoError(t, err)
}
