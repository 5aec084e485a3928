package services

import (
	"context"
	"errors"
	"strings"
	"sync"

	"restaurant/models"
	"restaurant/storage"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// SignupForm is the sign-up screen's input.
type SignupForm struct {
	Username        string `label:"username" validate:"required"`
	Email           string `label:"email" validate:"required,email"`
	Password        string `label:"password" validate:"required,max=72"`
	ConfirmPassword string `label:"confirm password" validate:"required,eqfield=Password"`
}

// LoginForm is the login screen's input.
type LoginForm struct {
	Username string `label:"username" validate:"required"`
	Password string `label:"password" validate:"required"`
}

// Auth registers and authenticates users.
type Auth struct {
	store storage.UserStore
	log   logrus.FieldLogger
	cost  int

	dummyOnce sync.Once
	dummyHash []byte
}

// NewAuth returns an Auth hashing with the given bcrypt cost
// (bcrypt.DefaultCost when cost is 0).
func NewAuth(store storage.UserStore, log logrus.FieldLogger, cost int) *Auth {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &Auth{store: store, log: log, cost: cost}
}

// Register stores a new user with a bcrypt hash of password and returns its id.
func (a *Auth) Register(ctx context.Context, username, email, password string) (int64, error) {
	var missing []string
	if username == "" {
		missing = append(missing, "username")
	}
	if email == "" {
		missing = append(missing, "email")
	}
	if password == "" {
		missing = append(missing, "password")
	}
	if len(missing) > 0 {
		return 0, &models.ValidationError{Fields: missing, Message: "please fill in all fields"}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), a.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return 0, &models.ValidationError{Fields: []string{"password"}, Message: "password is too long"}
		}
		return 0, err
	}
	id, err := a.store.CreateUser(ctx, username, email, string(hash))
	if err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			return 0, models.ErrDuplicateCredential
		}
		return 0, storageErr("register", err)
	}
	a.log.WithFields(logrus.Fields{"user_id": id, "username": username}).Info("user registered")
	return id, nil
}

// Authenticate returns the user when password matches. Unknown usernames and
// wrong passwords both yield ErrAuthenticationFailed after a bcrypt compare.
func (a *Auth) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	u, err := a.store.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			_ = bcrypt.CompareHashAndPassword(a.dummy(), []byte(password))
			return nil, models.ErrAuthenticationFailed
		}
		return nil, storageErr("authenticate", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, models.ErrAuthenticationFailed
	}
	return u, nil
}

// SignUp validates the sign-up form and registers the user.
func (a *Auth) SignUp(ctx context.Context, form SignupForm) (int64, error) {
	form.Username = strings.TrimSpace(form.Username)
	form.Email = strings.TrimSpace(form.Email)
	if err := validateForm(form); err != nil {
		return 0, err
	}
	return a.Register(ctx, form.Username, form.Email, form.Password)
}

// LogIn validates the login form, authenticates and attaches the user to sess.
func (a *Auth) LogIn(ctx context.Context, sess *Session, form LoginForm) (*models.User, error) {
	form.Username = strings.TrimSpace(form.Username)
	if err := validateForm(form); err != nil {
		return nil, err
	}
	u, err := a.Authenticate(ctx, form.Username, form.Password)
	if err != nil {
		if errors.Is(err, models.ErrAuthenticationFailed) {
			a.log.WithField("username", form.Username).Debug("login failed")
		}
		return nil, err
	}
	sess.LogIn(u)
	return u, nil
}

func (a *Auth) dummy() []byte {
	a.dummyOnce.Do(func() {
		a.dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), a.cost)
	})
	return a.dummyHash
}
