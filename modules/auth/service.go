// Package auth implements the session lifecycle: registration, login,
// refresh-token rotation, logout and password change, plus the request
// middleware that gates protected routes.
//
// A user holds at most one valid refresh token. Login and Refresh
// overwrite it, Logout clears it, and any presented refresh token that
// does not exactly match the stored value is rejected. Concurrent
// logins race last-write-wins on that field, which is the intended
// behavior: the newest session invalidates older refresh tokens.
//
// Known limitation: access tokens are not revoked by logout or password
// change and remain valid until their natural expiry. Revocation would
// require a server-side denylist this data model does not keep.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"strings"

	"github.com/streamvault/streamvault/modules/user"
	"github.com/streamvault/streamvault/pkg/jwt"
	"github.com/streamvault/streamvault/pkg/logger"
	"github.com/streamvault/streamvault/pkg/media"
	"github.com/streamvault/streamvault/pkg/password"
)

// Store is the credential persistence the service needs, implemented by
// user.Repository.
type Store interface {
	Create(ctx context.Context, u *user.User) error
	FindByID(ctx context.Context, id string) (*user.User, error)
	FindByUsernameOrEmail(ctx context.Context, username, email string) (*user.User, error)
	ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error)
	SetRefreshToken(ctx context.Context, id, token string) error
	ClearRefreshToken(ctx context.Context, id string) error
	SetPasswordHash(ctx context.Context, id, hash string) error
}

// TokenPair is the ephemeral result of login and refresh. Only the
// refresh token's value is persisted, on the user document.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Service orchestrates the session lifecycle.
type Service struct {
	store    Store
	hasher   *password.Hasher
	issuer   *jwt.Issuer
	uploader media.Uploader
	log      *slog.Logger
}

// NewService wires the service from explicit collaborators. Secrets and
// TTLs live in cfg; there is no global state.
func NewService(cfg Config, store Store, uploader media.Uploader, log *slog.Logger) (*Service, error) {
	hasher, err := password.New(cfg.BcryptCost)
	if err != nil {
		return nil, err
	}

	issuer, err := jwt.NewIssuer(
		[]byte(cfg.AccessTokenSecret),
		[]byte(cfg.RefreshTokenSecret),
		cfg.AccessTokenTTL,
		cfg.RefreshTokenTTL,
	)
	if err != nil {
		return nil, err
	}

	return &Service{
		store:    store,
		hasher:   hasher,
		issuer:   issuer,
		uploader: uploader,
		log:      log,
	}, nil
}

// RegisterInput carries the multipart registration form. Avatar is
// required, cover image is optional.
type RegisterInput struct {
	FullName   string
	Email      string
	Username   string
	Password   string
	Avatar     *multipart.FileHeader
	CoverImage *multipart.FileHeader
}

// Register validates the input, uploads the images, hashes the password
// and creates the user. The password is hashed before anything is
// persisted; the plaintext never reaches the store. Returns the
// sanitized user.
func (s *Service) Register(ctx context.Context, in RegisterInput) (user.Public, error) {
	in.FullName = strings.TrimSpace(in.FullName)
	in.Email = normalize(in.Email)
	in.Username = normalize(in.Username)

	var fields []string
	if in.FullName == "" {
		fields = append(fields, "fullName: must not be blank")
	}
	if in.Email == "" {
		fields = append(fields, "email: must not be blank")
	} else if !strings.Contains(in.Email[1:], "@") || strings.HasSuffix(in.Email, "@") {
		fields = append(fields, "email: malformed address")
	}
	if in.Username == "" {
		fields = append(fields, "username: must not be blank")
	}
	if in.Password == "" {
		fields = append(fields, "password: must not be blank")
	}
	if in.Avatar == nil {
		fields = append(fields, "avatar: file is required")
	}
	if len(fields) > 0 {
		return user.Public{}, ValidationError{Fields: fields}
	}

	taken, err := s.store.ExistsByUsernameOrEmail(ctx, in.Username, in.Email)
	if err != nil {
		return user.Public{}, fmt.Errorf("check existing user: %w", err)
	}
	if taken {
		return user.Public{}, ErrDuplicateIdentity
	}

	avatarURL, err := s.uploader.UploadImage(ctx, in.Avatar, "avatars")
	if err != nil {
		return user.Public{}, fmt.Errorf("upload avatar: %w", err)
	}

	var coverURL string
	if in.CoverImage != nil {
		coverURL, err = s.uploader.UploadImage(ctx, in.CoverImage, "covers")
		if err != nil {
			return user.Public{}, fmt.Errorf("upload cover image: %w", err)
		}
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return user.Public{}, fmt.Errorf("hash password: %w", err)
	}

	u := &user.User{
		Username:     in.Username,
		Email:        in.Email,
		FullName:     in.FullName,
		Avatar:       avatarURL,
		CoverImage:   coverURL,
		PasswordHash: hash,
	}
	if err := s.store.Create(ctx, u); err != nil {
		if errors.Is(err, user.ErrDuplicate) {
			// Lost the race with a concurrent registration; the unique
			// index is the authority.
			return user.Public{}, ErrDuplicateIdentity
		}
		return user.Public{}, fmt.Errorf("create user: %w", err)
	}

	s.log.InfoContext(ctx, "user registered",
		logger.Component("auth"),
		logger.UserID(u.ID.Hex()),
	)
	return u.Public(), nil
}

// Login authenticates by username or email and mints a token pair. The
// refresh token is persisted before the pair is returned, so a client
// never holds tokens the store does not recognize.
func (s *Service) Login(ctx context.Context, username, email, pass string) (user.Public, TokenPair, error) {
	username = normalize(username)
	email = normalize(email)
	if username == "" && email == "" {
		return user.Public{}, TokenPair{}, ValidationError{Fields: []string{"username or email is required"}}
	}
	if pass == "" {
		return user.Public{}, TokenPair{}, ValidationError{Fields: []string{"password: must not be blank"}}
	}

	u, err := s.store.FindByUsernameOrEmail(ctx, username, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			// Same answer as a wrong password; see ErrInvalidCredentials.
			return user.Public{}, TokenPair{}, ErrInvalidCredentials
		}
		return user.Public{}, TokenPair{}, fmt.Errorf("find user: %w", err)
	}

	if !s.hasher.Verify(pass, u.PasswordHash) {
		return user.Public{}, TokenPair{}, ErrInvalidCredentials
	}

	pair, err := s.issuePair(ctx, u)
	if err != nil {
		return user.Public{}, TokenPair{}, err
	}

	s.log.InfoContext(ctx, "user logged in",
		logger.Component("auth"),
		logger.UserID(u.ID.Hex()),
	)
	return u.Public(), pair, nil
}

// Refresh exchanges a refresh token for a new pair, rotating the stored
// token in the process. Presenting a token that does not exactly match
// the stored one fails: it was either rotated away already, cleared by
// a logout or superseded by a newer login.
func (s *Service) Refresh(ctx context.Context, presented string) (TokenPair, error) {
	if presented == "" {
		return TokenPair{}, ErrInvalidCredentials
	}

	claims, err := s.issuer.Verify(presented, jwt.KindRefresh)
	if err != nil {
		s.log.WarnContext(ctx, "refresh token rejected",
			logger.Component("auth"),
			logger.Error(err),
		)
		return TokenPair{}, ErrInvalidCredentials
	}

	u, err := s.store.FindByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) || errors.Is(err, user.ErrInvalidID) {
			return TokenPair{}, ErrInvalidCredentials
		}
		return TokenPair{}, fmt.Errorf("find user: %w", err)
	}

	if u.RefreshToken == "" || u.RefreshToken != presented {
		// Reuse of a rotated or cleared token.
		s.log.WarnContext(ctx, "stale refresh token presented",
			logger.Component("auth"),
			logger.UserID(u.ID.Hex()),
		)
		return TokenPair{}, ErrInvalidCredentials
	}

	return s.issuePair(ctx, u)
}

// Logout clears the stored refresh token. Previously issued refresh
// tokens stop working immediately; outstanding access tokens keep
// working until expiry (see the package comment).
func (s *Service) Logout(ctx context.Context, userID string) error {
	if err := s.store.ClearRefreshToken(ctx, userID); err != nil {
		if errors.Is(err, user.ErrNotFound) || errors.Is(err, user.ErrInvalidID) {
			return ErrUserNotFound
		}
		return fmt.Errorf("clear refresh token: %w", err)
	}

	s.log.InfoContext(ctx, "user logged out",
		logger.Component("auth"),
		logger.UserID(userID),
	)
	return nil
}

// ChangePassword re-verifies the old password before storing the hash
// of the new one. The hash is computed before the store is touched.
func (s *Service) ChangePassword(ctx context.Context, userID, oldPass, newPass string) error {
	if newPass == "" {
		return ValidationError{Fields: []string{"newPassword: must not be blank"}}
	}

	u, err := s.store.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) || errors.Is(err, user.ErrInvalidID) {
			return ErrUserNotFound
		}
		return fmt.Errorf("find user: %w", err)
	}

	if !s.hasher.Verify(oldPass, u.PasswordHash) {
		return ErrInvalidCredentials
	}

	hash, err := s.hasher.Hash(newPass)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.store.SetPasswordHash(ctx, userID, hash); err != nil {
		return fmt.Errorf("store password hash: %w", err)
	}

	s.log.InfoContext(ctx, "password changed",
		logger.Component("auth"),
		logger.UserID(userID),
	)
	return nil
}

// CurrentUser returns the sanitized user for an already-verified
// subject id.
func (s *Service) CurrentUser(ctx context.Context, userID string) (user.Public, error) {
	u, err := s.store.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) || errors.Is(err, user.ErrInvalidID) {
			return user.Public{}, ErrUserNotFound
		}
		return user.Public{}, fmt.Errorf("find user: %w", err)
	}
	return u.Public(), nil
}

// VerifyAccess validates an access token and confirms its subject still
// exists. Used by the middleware; every failure collapses into
// ErrUnauthenticated.
func (s *Service) VerifyAccess(ctx context.Context, token string) (user.Public, error) {
	claims, err := s.issuer.Verify(token, jwt.KindAccess)
	if err != nil {
		s.log.WarnContext(ctx, "access token rejected",
			logger.Component("auth"),
			logger.Error(err),
		)
		return user.Public{}, ErrUnauthenticated
	}

	u, err := s.store.FindByID(ctx, claims.Subject)
	if err != nil {
		return user.Public{}, ErrUnauthenticated
	}
	return u.Public(), nil
}

// issuePair mints a fresh token pair and persists the refresh token
// before handing the pair out.
func (s *Service) issuePair(ctx context.Context, u *user.User) (TokenPair, error) {
	access, err := s.issuer.IssueAccess(u.ID.Hex(), u.Username, u.Email)
	if err != nil {
		return TokenPair{}, fmt.Errorf("issue access token: %w", err)
	}
	refresh, err := s.issuer.IssueRefresh(u.ID.Hex())
	if err != nil {
		return TokenPair{}, fmt.Errorf("issue refresh token: %w", err)
	}

	if err := s.store.SetRefreshToken(ctx, u.ID.Hex(), refresh); err != nil {
		return TokenPair{}, fmt.Errorf("store refresh token: %w", err)
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
