package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"go.uber.org/zap"
)

const (
	defaultBio       = "New member of KALASA family."
	avatarURLPattern = "https://api.dicebear.com/7.x/avataaars/svg?seed=%s"
)

// CurrentUser returns the session holder, or nil when nobody is signed in.
func (s *DocumentStore) CurrentUser(ctx context.Context) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session(ctx)
}

func (s *DocumentStore) session(ctx context.Context) (*User, error) {
	raw, ok, err := s.kv.Get(ctx, KeySession)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	var user User
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&user); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, KeySession, err)
	}
	if err := user.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, KeySession, err)
	}
	return &user, nil
}

func (s *DocumentStore) setSession(ctx context.Context, user User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	return s.kv.Put(ctx, KeySession, data)
}

// refreshSession rewrites the session copy when current, the session read
// before the users write, belongs to one of users.
func (s *DocumentStore) refreshSession(ctx context.Context, current *User, users ...User) error {
	if current == nil {
		return nil
	}
	for _, u := range users {
		if u.ID == current.ID {
			return s.setSession(ctx, u)
		}
	}
	return nil
}

// Login looks the user up by email and makes them the session holder. There
// is no credential check: this is an identity lookup, not authentication.
func (s *DocumentStore) Login(ctx context.Context, email string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.users(ctx)
	if err != nil {
		return nil, err
	}
	i := indexOf(users, func(u User) bool { return sameEmail(u.Email, email) })
	if i < 0 {
		return nil, ErrUserNotFound
	}
	if err := s.setSession(ctx, users[i]); err != nil {
		return nil, err
	}
	s.logger.Info("user signed in", zap.String("user_id", users[i].ID))
	return &users[i], nil
}

func (s *DocumentStore) Register(ctx context.Context, name, email string) (*User, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)

	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.users(ctx)
	if err != nil {
		return nil, err
	}
	if indexOf(users, func(u User) bool { return sameEmail(u.Email, email) }) >= 0 {
		return nil, ErrDuplicateEmail
	}

	user := User{
		ID:        "user-" + s.newID(),
		Name:      name,
		Email:     email,
		Avatar:    fmt.Sprintf(avatarURLPattern, url.QueryEscape(name)),
		Bio:       defaultBio,
		Following: []string{},
		Followers: []string{},
	}
	if err := user.Validate(); err != nil {
		return nil, err
	}

	if err := s.writeCollection(ctx, KeyUsers, append(users, user)); err != nil {
		return nil, fmt.Errorf("failed to store new user: %w", err)
	}
	if err := s.setSession(ctx, user); err != nil {
		return nil, err
	}
	s.logger.Info("user registered", zap.String("user_id", user.ID))
	return &user, nil
}

func (s *DocumentStore) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.kv.Delete(ctx, KeySession)
}

func (s *DocumentStore) ListUsers(ctx context.Context) ([]User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.users(ctx)
}

func (s *DocumentStore) GetUserByID(ctx context.Context, id string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.users(ctx)
	if err != nil {
		return nil, err
	}
	i := indexOf(users, func(u User) bool { return u.ID == id })
	if i < 0 {
		return nil, nil
	}
	return &users[i], nil
}

// UpdateUser merges the non-nil fields of upd into the stored user and keeps
// the session copy in step. It returns nil when id is unknown.
func (s *DocumentStore) UpdateUser(ctx context.Context, id string, upd UserUpdate) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.users(ctx)
	if err != nil {
		return nil, err
	}
	i := indexOf(users, func(u User) bool { return u.ID == id })
	if i < 0 {
		return nil, nil
	}

	user := users[i]
	if upd.Name != nil {
		user.Name = strings.TrimSpace(*upd.Name)
	}
	if upd.Email != nil {
		email := strings.TrimSpace(*upd.Email)
		taken := indexOf(users, func(u User) bool { return u.ID != id && sameEmail(u.Email, email) })
		if taken >= 0 {
			return nil, ErrDuplicateEmail
		}
		user.Email = email
	}
	if upd.Avatar != nil {
		user.Avatar = *upd.Avatar
	}
	if upd.Bio != nil {
		user.Bio = *upd.Bio
	}
	if err := user.Validate(); err != nil {
		return nil, err
	}

	current, err := s.session(ctx)
	if err != nil {
		return nil, err
	}

	users[i] = user
	if err := s.writeCollection(ctx, KeyUsers, users); err != nil {
		return nil, fmt.Errorf("failed to store user %s: %w", id, err)
	}
	if err := s.refreshSession(ctx, current, user); err != nil {
		return nil, fmt.Errorf("failed to refresh session: %w", err)
	}
	return &user, nil
}

// ToggleFollow flips followerID's membership in followeeID's followers and
// the mirrored entry in followerID's following list. It returns nil when
// either user is unknown.
func (s *DocumentStore) ToggleFollow(ctx context.Context, followerID, followeeID string) (*FollowStatus, error) {
	if followerID == followeeID {
		return nil, fmt.Errorf("%w: user %s cannot follow themselves", ErrInvalidRecord, followerID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.users(ctx)
	if err != nil {
		return nil, err
	}
	fi := indexOf(users, func(u User) bool { return u.ID == followerID })
	ti := indexOf(users, func(u User) bool { return u.ID == followeeID })
	if fi < 0 || ti < 0 {
		return nil, nil
	}

	current, err := s.session(ctx)
	if err != nil {
		return nil, err
	}

	var following bool
	users[fi].Following, following = toggleMembership(users[fi].Following, followeeID)
	if following {
		users[ti].Followers = addMember(users[ti].Followers, followerID)
	} else {
		users[ti].Followers = removeMember(users[ti].Followers, followerID)
	}

	if err := s.writeCollection(ctx, KeyUsers, users); err != nil {
		return nil, fmt.Errorf("failed to store follow: %w", err)
	}
	if err := s.refreshSession(ctx, current, users[fi], users[ti]); err != nil {
		return nil, fmt.Errorf("failed to refresh session: %w", err)
	}
	return &FollowStatus{Following: following, Followers: len(users[ti].Followers)}, nil
}

func sameEmail(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
