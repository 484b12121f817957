package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"gorm.io/gorm"

	"nightline/passhub/internal/model"
	"nightline/passhub/internal/repository"
)

const defaultPageLimit = 25

// UserPage is one page of directory users plus the cursor for the next.
type UserPage struct {
	Users     []model.DirectoryUser `json:"users"`
	NextToken string                `json:"token,omitempty"`
}

// DirectoryService is the stand-in for the external user pool behind
// the admin routes. In the hosted deployment these calls proxy the
// identity provider; locally they run against the directory table.
type DirectoryService interface {
	GetUser(ctx context.Context, username string) (*model.DirectoryUser, error)
	ListUsers(ctx context.Context, limit int, token string) (*UserPage, error)
	ListGroups(ctx context.Context) ([]string, error)
	ListGroupsForUser(ctx context.Context, username string) ([]string, error)
	ListUsersInGroup(ctx context.Context, group string, limit int, token string) (*UserPage, error)
	AddUserToGroup(ctx context.Context, username, group string) error
	RemoveUserFromGroup(ctx context.Context, username, group string) error
	ConfirmUserSignUp(ctx context.Context, username string) error
	DisableUser(ctx context.Context, username string) error
	EnableUser(ctx context.Context, username string) error
	// SignUserOut requires callers to sign out only themselves.
	SignUserOut(ctx context.Context, callerUsername, username string) error
}

type directoryService struct {
	userRepo   repository.DirectoryUserRepository
	stateStore repository.StateStore
	signOutTTL time.Duration
}

func NewDirectoryService(
	userRepo repository.DirectoryUserRepository,
	stateStore repository.StateStore,
	signOutTTL time.Duration,
) DirectoryService {
	return &directoryService{
		userRepo:   userRepo,
		stateStore: stateStore,
		signOutTTL: signOutTTL,
	}
}

func (s *directoryService) GetUser(ctx context.Context, username string) (*model.DirectoryUser, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDirectoryUserNotFound
		}
		return nil, fmt.Errorf("look up user: %w", err)
	}
	return user, nil
}

func (s *directoryService) ListUsers(ctx context.Context, limit int, token string) (*UserPage, error) {
	limit, offset, err := pageBounds(limit, token)
	if err != nil {
		return nil, err
	}
	users, err := s.userRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return buildPage(users, limit, offset), nil
}

func (s *directoryService) ListGroups(ctx context.Context) ([]string, error) {
	// The pool keeps a handful of authorization groups; collecting them
	// from the user rows avoids a separate table for a passthrough.
	seen := make(map[string]bool)
	offset := 0
	for {
		users, err := s.userRepo.List(ctx, 500, offset)
		if err != nil {
			return nil, fmt.Errorf("list users: %w", err)
		}
		for _, user := range users {
			for _, group := range user.Groups {
				seen[group] = true
			}
		}
		if len(users) < 500 {
			break
		}
		offset += 500
	}

	groups := make([]string, 0, len(seen))
	for group := range seen {
		groups = append(groups, group)
	}
	sort.Strings(groups)
	return groups, nil
}

func (s *directoryService) ListGroupsForUser(ctx context.Context, username string) ([]string, error) {
	user, err := s.GetUser(ctx, username)
	if err != nil {
		return nil, err
	}
	if user.Groups == nil {
		return []string{}, nil
	}
	return user.Groups, nil
}

func (s *directoryService) ListUsersInGroup(ctx context.Context, group string, limit int, token string) (*UserPage, error) {
	limit, offset, err := pageBounds(limit, token)
	if err != nil {
		return nil, err
	}
	users, err := s.userRepo.ListByGroup(ctx, group, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list users in group: %w", err)
	}
	return buildPage(users, limit, offset), nil
}

func (s *directoryService) AddUserToGroup(ctx context.Context, username, group string) error {
	user, err := s.GetUser(ctx, username)
	if err != nil {
		return err
	}
	for _, g := range user.Groups {
		if g == group {
			return nil
		}
	}
	user.Groups = append(user.Groups, group)
	return s.userRepo.Update(ctx, user)
}

func (s *directoryService) RemoveUserFromGroup(ctx context.Context, username, group string) error {
	user, err := s.GetUser(ctx, username)
	if err != nil {
		return err
	}
	kept := user.Groups[:0]
	for _, g := range user.Groups {
		if g != group {
			kept = append(kept, g)
		}
	}
	user.Groups = kept
	return s.userRepo.Update(ctx, user)
}

func (s *directoryService) ConfirmUserSignUp(ctx context.Context, username string) error {
	return s.setFlag(ctx, username, func(u *model.DirectoryUser) { u.Confirmed = true })
}

func (s *directoryService) DisableUser(ctx context.Context, username string) error {
	return s.setFlag(ctx, username, func(u *model.DirectoryUser) { u.Enabled = false })
}

func (s *directoryService) EnableUser(ctx context.Context, username string) error {
	return s.setFlag(ctx, username, func(u *model.DirectoryUser) { u.Enabled = true })
}

func (s *directoryService) SignUserOut(ctx context.Context, callerUsername, username string) error {
	if callerUsername != username {
		return ErrSignOutMismatch
	}
	if _, err := s.GetUser(ctx, username); err != nil {
		return err
	}
	// The auth middleware rejects tokens issued at or before this
	// timestamp; the TTL only needs to outlive the access-token TTL.
	stamp := strconv.FormatInt(time.Now().Unix(), 10)
	return s.stateStore.Set(ctx, repository.SignOutKey(username), []byte(stamp), s.signOutTTL)
}

func (s *directoryService) setFlag(ctx context.Context, username string, mutate func(*model.DirectoryUser)) error {
	user, err := s.GetUser(ctx, username)
	if err != nil {
		return err
	}
	mutate(user)
	return s.userRepo.Update(ctx, user)
}

// pageBounds resolves the limit default and decodes the opaque cursor.
func pageBounds(limit int, token string) (int, int, error) {
	if limit <= 0 {
		limit = defaultPageLimit
	}
	offset := 0
	if token != "" {
		decoded, err := base64.StdEncoding.DecodeString(token)
		if err != nil {
			return 0, 0, fmt.Errorf("invalid pagination token")
		}
		offset, err = strconv.Atoi(string(decoded))
		if err != nil || offset < 0 {
			return 0, 0, fmt.Errorf("invalid pagination token")
		}
	}
	return limit, offset, nil
}

func buildPage(users []model.DirectoryUser, limit, offset int) *UserPage {
	page := &UserPage{Users: users}
	if len(users) == limit {
		page.NextToken = base64.StdEncoding.EncodeToString(
			[]byte(strconv.Itoa(offset + limit)))
	}
	return page
}

var _ DirectoryService = (*directoryService)(nil)
