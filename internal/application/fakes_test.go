package application

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/okadio/microblog/internal/domain/entity"
	repo "github.com/okadio/microblog/internal/domain/repository"
	"github.com/okadio/microblog/pkg/mailer"
)

// In-memory stand-ins for the Postgres repositories and the Redis-backed
// session manager, matching the same error contracts.

type fakeUserRepo struct {
	seq   int
	users map[string]*entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*entity.User{}}
}

func (r *fakeUserRepo) Create(_ context.Context, u *entity.User) error {
	for _, ex := range r.users {
		if strings.EqualFold(ex.Email, u.Email) {
			return repo.ErrDuplicateEmail
		}
	}
	r.seq++
	u.ID = fmt.Sprintf("user-%d", r.seq)
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (r *fakeUserRepo) ConsumeActivationToken(_ context.Context, token string) (*entity.User, error) {
	if token == "" {
		return nil, repo.ErrNotFound
	}
	for _, u := range r.users {
		if u.ActivationToken == token {
			u.Activated = true
			u.ActivationToken = ""
			u.UpdatedAt = time.Now()
			cp := *u
			return &cp, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (r *fakeUserRepo) Update(_ context.Context, u *entity.User) error {
	if _, ok := r.users[u.ID]; !ok {
		return repo.ErrNotFound
	}
	u.UpdatedAt = time.Now()
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.users[id]; !ok {
		return repo.ErrNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) List(_ context.Context, limit, offset int) ([]*entity.User, int, error) {
	ids := make([]string, 0, len(r.users))
	for id := range r.users {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]*entity.User, 0, len(ids))
	for i, id := range ids {
		if i < offset {
			continue
		}
		if limit > 0 && len(out) >= limit {
			break
		}
		cp := *r.users[id]
		out = append(out, &cp)
	}
	return out, len(r.users), nil
}

type fakeSession struct {
	sid      string
	remember bool
}

type fakeSessions struct {
	seq      int
	active   map[string]fakeSession // keyed by user id
	intended map[string]string      // keyed by visitor id
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{active: map[string]fakeSession{}, intended: map[string]string{}}
}

func (s *fakeSessions) Start(_ context.Context, u *entity.User, remember bool) (string, error) {
	s.seq++
	sid := fmt.Sprintf("sid-%d", s.seq)
	s.active[u.ID] = fakeSession{sid: sid, remember: remember}
	return sid, nil
}

func (s *fakeSessions) Rotate(_ context.Context, userID, currentSID string) (string, bool, error) {
	sess, ok := s.active[userID]
	if !ok {
		return "", false, errors.New("no session")
	}
	if sess.sid != currentSID {
		return "", false, errors.New("no session")
	}
	s.seq++
	sess.sid = fmt.Sprintf("sid-%d", s.seq)
	s.active[userID] = sess
	return sess.sid, sess.remember, nil
}

func (s *fakeSessions) Destroy(_ context.Context, userID string) error {
	delete(s.active, userID)
	return nil
}

func (s *fakeSessions) TTLFor(remember bool) time.Duration {
	if remember {
		return 720 * time.Hour
	}
	return 24 * time.Hour
}

func (s *fakeSessions) IntendedOrDefault(_ context.Context, visitorID, def string) string {
	if url, ok := s.intended[visitorID]; ok {
		delete(s.intended, visitorID)
		return url
	}
	return def
}

type fakeMail struct {
	jobs []mailer.EmailJob
}

func (m *fakeMail) PublishJSON(_ context.Context, body any) error {
	if job, ok := body.(mailer.EmailJob); ok {
		m.jobs = append(m.jobs, job)
	}
	return nil
}

type fakeStatusRepo struct {
	seq      int
	statuses map[string]*entity.Status
	follows  *fakeFollowRepo // feed visibility source; may be nil
}

func newFakeStatusRepo(follows *fakeFollowRepo) *fakeStatusRepo {
	return &fakeStatusRepo{statuses: map[string]*entity.Status{}, follows: follows}
}

func (r *fakeStatusRepo) Create(_ context.Context, st *entity.Status) error {
	r.seq++
	st.ID = fmt.Sprintf("status-%d", r.seq)
	st.CreatedAt = time.Now().Add(time.Duration(r.seq) * time.Millisecond)
	cp := *st
	r.statuses[st.ID] = &cp
	return nil
}

func (r *fakeStatusRepo) GetByID(_ context.Context, id string) (*entity.Status, error) {
	st, ok := r.statuses[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	cp := *st
	return &cp, nil
}

func (r *fakeStatusRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.statuses[id]; !ok {
		return repo.ErrNotFound
	}
	delete(r.statuses, id)
	return nil
}

func (r *fakeStatusRepo) ListByUser(_ context.Context, userID string, limit, offset int) ([]*entity.Status, int, error) {
	return r.collect(func(st *entity.Status) bool { return st.UserID == userID }, limit, offset)
}

func (r *fakeStatusRepo) Feed(_ context.Context, userID string, limit, offset int) ([]*entity.Status, int, error) {
	visible := map[string]bool{userID: true}
	if r.follows != nil {
		for _, e := range r.follows.edges {
			if e.followerID == userID {
				visible[e.followedID] = true
			}
		}
	}
	return r.collect(func(st *entity.Status) bool { return visible[st.UserID] }, limit, offset)
}

func (r *fakeStatusRepo) collect(keep func(*entity.Status) bool, limit, offset int) ([]*entity.Status, int, error) {
	all := make([]*entity.Status, 0, len(r.statuses))
	for _, st := range r.statuses {
		if keep(st) {
			cp := *st
			all = append(all, &cp)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	total := len(all)
	if offset >= len(all) {
		return []*entity.Status{}, total, nil
	}
	all = all[offset:]
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	return all, total, nil
}

type followEdge struct {
	followerID string
	followedID string
}

type fakeFollowRepo struct {
	users *fakeUserRepo
	edges []followEdge
}

func newFakeFollowRepo(users *fakeUserRepo) *fakeFollowRepo {
	return &fakeFollowRepo{users: users}
}

func (r *fakeFollowRepo) Follow(_ context.Context, followerID, followedID string) error {
	for _, e := range r.edges {
		if e.followerID == followerID && e.followedID == followedID {
			return nil
		}
	}
	r.edges = append(r.edges, followEdge{followerID: followerID, followedID: followedID})
	return nil
}

func (r *fakeFollowRepo) Unfollow(_ context.Context, followerID, followedID string) error {
	for i, e := range r.edges {
		if e.followerID == followerID && e.followedID == followedID {
			r.edges = append(r.edges[:i], r.edges[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *fakeFollowRepo) IsFollowing(_ context.Context, followerID, followedID string) (bool, error) {
	for _, e := range r.edges {
		if e.followerID == followerID && e.followedID == followedID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeFollowRepo) Followers(ctx context.Context, userID string, limit, offset int) ([]*entity.User, int, error) {
	var ids []string
	for _, e := range r.edges {
		if e.followedID == userID {
			ids = append(ids, e.followerID)
		}
	}
	return r.resolve(ctx, ids, limit, offset)
}

func (r *fakeFollowRepo) Following(ctx context.Context, userID string, limit, offset int) ([]*entity.User, int, error) {
	var ids []string
	for _, e := range r.edges {
		if e.followerID == userID {
			ids = append(ids, e.followedID)
		}
	}
	return r.resolve(ctx, ids, limit, offset)
}

func (r *fakeFollowRepo) resolve(ctx context.Context, ids []string, limit, offset int) ([]*entity.User, int, error) {
	total := len(ids)
	if offset >= len(ids) {
		return []*entity.User{}, total, nil
	}
	ids = ids[offset:]
	if limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}
	out := make([]*entity.User, 0, len(ids))
	for _, id := range ids {
		u, err := r.users.GetByID(ctx, id)
		if err != nil {
			continue
		}
		out = append(out, u)
	}
	return out, total, nil
}

func (r *fakeFollowRepo) Counts(_ context.Context, userID string) (int, int, error) {
	var followers, following int
	for _, e := range r.edges {
		if e.followedID == userID {
			followers++
		}
		if e.followerID == userID {
			following++
		}
	}
	return followers, following, nil
}
