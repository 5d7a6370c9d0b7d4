package model

import (
	"errors"
	"fmt"
)

// Error categories. Specific errors below wrap one of these so callers can
// match either level with errors.Is.
var (
	ErrPermissionDenied   = errors.New("permission denied")
	ErrNotFound           = errors.New("not found")
	ErrAlreadyExists      = errors.New("already exists")
	ErrInvalidArguments   = errors.New("invalid arguments")
	ErrInvariantViolation = errors.New("invariant violation")
	ErrUnknownCommand     = errors.New("unknown command")
	ErrHandlerFault       = errors.New("command handler fault")
)

var (
	// Authority errors
	ErrWrongPassword = fmt.Errorf("%w: wrong owner password", ErrPermissionDenied)
	ErrNotCaptain    = fmt.Errorf("%w: not a club captain", ErrPermissionDenied)
	ErrTargetIsOwner = fmt.Errorf("%w: the owner's rank cannot be changed", ErrInvariantViolation)

	// Lookup errors
	ErrPlayerNotFound = fmt.Errorf("%w: player not found", ErrNotFound)
	ErrClubNotFound   = fmt.Errorf("%w: club not found", ErrNotFound)

	// Club errors
	ErrClubAlreadyExists   = fmt.Errorf("%w: club already exists", ErrAlreadyExists)
	ErrAlreadyMember       = fmt.Errorf("%w: player is already a member", ErrAlreadyExists)
	ErrPlayerAlreadyInClub = fmt.Errorf("%w: player already belongs to a club", ErrAlreadyExists)
	ErrNotInClub           = fmt.Errorf("%w: player is not in the club", ErrNotFound)
	ErrCannotRemoveCaptain = fmt.Errorf("%w: the captain cannot be removed", ErrInvariantViolation)
	ErrInvalidClubName     = fmt.Errorf("%w: club name must be 2-20 letters, digits or spaces", ErrInvalidArguments)
	ErrInvalidPlayerName   = fmt.Errorf("%w: player name must be 1-25 characters", ErrInvalidArguments)

	// Team errors
	ErrNotOnTeam = fmt.Errorf("%w: player is not on a team", ErrInvalidArguments)
)
