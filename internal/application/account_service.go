package application

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/okadio/microblog/config"
	"github.com/okadio/microblog/internal/domain/entity"
	repo "github.com/okadio/microblog/internal/domain/repository"
	"github.com/okadio/microblog/pkg/helpers"
	"github.com/okadio/microblog/pkg/mailer"
	tpl "github.com/okadio/microblog/pkg/mailer/templates"
)

const activationTokenBytes = 32

// AccountService orchestrates the account lifecycle: registration with
// email confirmation, login/logout, profile mutation and deletion. It does
// not hash or persist itself; those live in helpers and the repositories.
type AccountService struct {
	Users        repo.UserRepository
	Sessions     SessionStore
	JWT          *helpers.JWTManager
	Mail         MailDispatcher
	Cfg          *config.Config
	Logger       *logrus.Logger
	GCS          *storage.Client
	GCSBucket    string
	ES           *elasticsearch.Client
	ESUsersIndex string
}

func NewAccountService(users repo.UserRepository, sessions SessionStore, jwt *helpers.JWTManager, mail MailDispatcher, cfg *config.Config, logger *logrus.Logger, gcs *storage.Client, gcsBucket string, es *elasticsearch.Client, esUsersIndex string) *AccountService {
	return &AccountService{
		Users:        users,
		Sessions:     sessions,
		JWT:          jwt,
		Mail:         mail,
		Cfg:          cfg,
		Logger:       logger,
		GCS:          gcs,
		GCSBucket:    gcsBucket,
		ES:           es,
		ESUsersIndex: esUsersIndex,
	}
}

// TokenPair is the cookie-bound JWT pair for an established session.
type TokenPair struct {
	AccessToken        string
	AccessTokenExpiry  time.Time
	RefreshToken       string
	RefreshTokenExpiry time.Time
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

func mapStoreErr(err error) error {
	switch {
	case errors.Is(err, repo.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, repo.ErrDuplicateEmail):
		return ErrDuplicateEmail
	default:
		return err
	}
}

// Register creates an unactivated user with a fresh activation token and
// enqueues the confirmation email. No session is established here; the user
// is told to check their inbox.
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (*entity.User, error) {
	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	token, err := helpers.NewOpaqueToken(activationTokenBytes)
	if err != nil {
		return nil, err
	}
	u := &entity.User{
		Name:            in.Name,
		Email:           strings.ToLower(in.Email),
		PasswordHash:    hash,
		Activated:       false,
		ActivationToken: token,
	}
	if err := s.Users.Create(ctx, u); err != nil {
		return nil, mapStoreErr(err)
	}

	s.sendConfirmationEmail(ctx, u)
	s.indexUser(ctx, u)
	return u, nil
}

func (s *AccountService) sendConfirmationEmail(ctx context.Context, u *entity.User) {
	if s.Mail == nil || !s.Cfg.MailSendEnabled {
		return
	}
	link := s.Cfg.ConfirmEmailURL + "?token=" + u.ActivationToken
	job := mailer.EmailJob{
		To:       u.Email,
		Template: tpl.ConfirmEmail,
		Data:     tpl.NewConfirmEmailData(s.Cfg, u.Name, u.Email, link),
	}
	if err := s.Mail.PublishJSON(ctx, job); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("failed to enqueue confirmation email")
	}
}

// Confirm consumes the activation token and logs the user in. A token can
// only succeed once; the second attempt is ErrNotFound.
func (s *AccountService) Confirm(ctx context.Context, token string) (*entity.User, TokenPair, error) {
	u, err := s.Users.ConsumeActivationToken(ctx, token)
	if err != nil {
		return nil, TokenPair{}, mapStoreErr(err)
	}
	pair, err := s.issueTokens(ctx, u, false)
	if err != nil {
		return nil, TokenPair{}, err
	}
	s.indexUser(ctx, u)
	return u, pair, nil
}

// Authenticate validates email/password and returns the user without
// establishing a session. The failure reason is never differentiated.
func (s *AccountService) Authenticate(ctx context.Context, email, password string) (*entity.User, error) {
	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil || u == nil {
		return nil, ErrInvalidCredentials
	}
	if !helpers.CompareHashAndPassword(u.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// Login authenticates and establishes a session. With remember set, the
// session and refresh token live for the configured remember lifetime.
func (s *AccountService) Login(ctx context.Context, email, password string, remember bool) (*entity.User, TokenPair, error) {
	u, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return nil, TokenPair{}, err
	}
	pair, err := s.issueTokens(ctx, u, remember)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return u, pair, nil
}

// RedirectAfterLogin resolves the intended destination captured before
// authentication, consuming it, or falls back to def.
func (s *AccountService) RedirectAfterLogin(ctx context.Context, visitorID, def string) string {
	return s.Sessions.IntendedOrDefault(ctx, visitorID, def)
}

func (s *AccountService) issueTokens(ctx context.Context, u *entity.User, remember bool) (TokenPair, error) {
	sid, err := s.Sessions.Start(ctx, u, remember)
	if err != nil {
		return TokenPair{}, err
	}
	access, aexp, err := s.JWT.GenerateAccessToken(u.ID, sid)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, rexp, err := s.JWT.GenerateRefreshToken(u.ID, sid, s.Sessions.TTLFor(remember))
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, AccessTokenExpiry: aexp, RefreshToken: refresh, RefreshTokenExpiry: rexp}, nil
}

// Refresh rotates the session id and issues a new token pair. The refresh
// token must carry the live session's sid; a token issued before the last
// rotation (or superseded by a newer login) is rejected.
func (s *AccountService) Refresh(ctx context.Context, refreshToken string) (*entity.User, TokenPair, error) {
	claims, err := s.JWT.ParseRefreshToken(refreshToken)
	if err != nil {
		return nil, TokenPair{}, ErrInvalidCredentials
	}
	u, err := s.Users.GetByID(ctx, claims.UserID)
	if err != nil || u == nil {
		return nil, TokenPair{}, ErrInvalidCredentials
	}
	sid, remember, err := s.Sessions.Rotate(ctx, u.ID, claims.SessionID)
	if err != nil {
		return nil, TokenPair{}, ErrInvalidCredentials
	}
	access, aexp, err := s.JWT.GenerateAccessToken(u.ID, sid)
	if err != nil {
		return nil, TokenPair{}, err
	}
	refresh, rexp, err := s.JWT.GenerateRefreshToken(u.ID, sid, s.Sessions.TTLFor(remember))
	if err != nil {
		return nil, TokenPair{}, err
	}
	return u, TokenPair{AccessToken: access, AccessTokenExpiry: aexp, RefreshToken: refresh, RefreshTokenExpiry: rexp}, nil
}

// Logout destroys the session. Succeeds even when no session exists.
func (s *AccountService) Logout(ctx context.Context, userID string) error {
	return s.Sessions.Destroy(ctx, userID)
}

func (s *AccountService) GetUser(ctx context.Context, id string) (*entity.User, error) {
	u, err := s.Users.GetByID(ctx, id)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	return u, nil
}

func (s *AccountService) ListUsers(ctx context.Context, limit, offset int) ([]*entity.User, int, error) {
	return s.Users.List(ctx, limit, offset)
}

type UpdateProfileInput struct {
	Name     string
	Password string // optional; empty leaves the stored hash untouched
}

// UpdateProfile applies the ownership policy, then a name and/or password
// change. An absent password keeps the existing hash.
func (s *AccountService) UpdateProfile(ctx context.Context, actorID, targetID string, in UpdateProfileInput) (*entity.User, error) {
	if !CanUpdateUser(actorID, targetID) {
		return nil, ErrForbidden
	}
	u, err := s.Users.GetByID(ctx, targetID)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	if in.Name != "" {
		u.Name = in.Name
	}
	if in.Password != "" {
		hash, err := helpers.HashPassword(in.Password)
		if err != nil {
			return nil, err
		}
		u.PasswordHash = hash
	}
	if err := s.Users.Update(ctx, u); err != nil {
		return nil, mapStoreErr(err)
	}
	s.indexUser(ctx, u)
	return u, nil
}

// DeleteAccount applies the ownership policy and removes the account. The
// store cascades statuses and follow edges; the session dies with it.
func (s *AccountService) DeleteAccount(ctx context.Context, actorID, targetID string) error {
	if !CanDeleteUser(actorID, targetID) {
		return ErrForbidden
	}
	if err := s.Users.Delete(ctx, targetID); err != nil {
		return mapStoreErr(err)
	}
	if err := s.Sessions.Destroy(ctx, targetID); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", targetID).Warn("failed to destroy session")
	}
	s.removeUserDoc(ctx, targetID)
	return nil
}

// UploadAvatar stores the image in GCS and records its public URL.
func (s *AccountService) UploadAvatar(ctx context.Context, userID string, r io.Reader, filename, contentType string) (string, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return "", mapStoreErr(err)
	}
	if s.GCS == nil || s.GCSBucket == "" {
		return "", errors.New("gcs not configured")
	}
	ext := strings.ToLower(filepath.Ext(filename))
	objectPath := filepath.ToSlash(filepath.Join("avatars", userID, uuid.NewString()+ext))
	url, err := helpers.UploadObject(ctx, s.GCS, s.GCSBucket, objectPath, contentType, r)
	if err != nil {
		return "", err
	}
	u.AvatarURL = url
	if err := s.Users.Update(ctx, u); err != nil {
		return "", mapStoreErr(err)
	}
	s.indexUser(ctx, u)
	return url, nil
}

func (s *AccountService) indexUser(ctx context.Context, u *entity.User) {
	if s.ES == nil || s.ESUsersIndex == "" {
		return
	}
	doc := map[string]any{
		"id":         u.ID,
		"email":      u.Email,
		"name":       u.Name,
		"avatar_url": u.AvatarURL,
		"activated":  u.Activated,
		"created_at": u.CreatedAt.Format(time.RFC3339Nano),
		"updated_at": u.UpdatedAt.Format(time.RFC3339Nano),
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: s.ESUsersIndex, DocumentID: u.ID, Body: strings.NewReader(string(b)), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Warn("es index failed")
		}
		return
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && s.Logger != nil {
		s.Logger.WithField("status", res.Status()).WithField("user_id", u.ID).Warn("es index response error")
	}
}

func (s *AccountService) removeUserDoc(ctx context.Context, id string) {
	if s.ES == nil || s.ESUsersIndex == "" {
		return
	}
	req := esapi.DeleteRequest{Index: s.ESUsersIndex, DocumentID: id}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", id).Warn("es delete failed")
		}
		return
	}
	_ = res.Body.Close()
}

// SearchUsers performs a simple multi_match search on email and name.
func (s *AccountService) SearchUsers(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if s.ES == nil || s.ESUsersIndex == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"email^2", "name"},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(
		s.ES.Search.WithContext(c),
		s.ES.Search.WithIndex(s.ESUsersIndex),
		s.ES.Search.WithBody(strings.NewReader(string(b))),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}
