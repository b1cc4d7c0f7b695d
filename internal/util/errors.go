package util

import "errors"

var (
	ErrEmailRegistered    = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrSkillNotFound      = errors.New("skill not found")
	ErrUserSkillNotFound  = errors.New("user skill not found")
	ErrRequestNotFound    = errors.New("request not found")
	ErrSelfRequest        = errors.New("you cannot send a mentorship request to yourself")
	ErrSkillNotOffered    = errors.New("receiver does not offer this skill")
	ErrDuplicateRequest   = errors.New("duplicate pending request")
	ErrDuplicateUserSkill = errors.New("skill already added with this type")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrInvalidInput       = errors.New("invalid input")
)
