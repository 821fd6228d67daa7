package service

import "errors"

// Sentinel errors returned by services. Handlers map these onto HTTP
// status codes.
var (
	ErrChildNotFound       = errors.New("child not found")
	ErrFamilyNotFound      = errors.New("family not found")
	ErrTemplateNotFound    = errors.New("challenge template not found")
	ErrInstanceNotFound    = errors.New("challenge instance not found")
	ErrNoEligibleChallenge = errors.New("no eligible challenge for this child")
	ErrChildMismatch       = errors.New("challenge instance belongs to a different child")
	ErrInvalidArgument     = errors.New("invalid argument")
)
