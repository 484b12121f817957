package service

import "errors"

var (
	ErrMembershipNotFound    = errors.New("membership not found")
	ErrGroupNotFound         = errors.New("group not found")
	ErrInviteNotFound        = errors.New("no active invite for group")
	ErrInviteExhausted       = errors.New("invite has reached its maximum uses")
	ErrNoStripeCustomer      = errors.New("membership has no stripe customer id")
	ErrDirectoryUserNotFound = errors.New("user not found")
	ErrSignOutMismatch       = errors.New("caller may only sign out their own account")
)
