package domain

import "errors"

var (
	ErrItemNotFound      = errors.New("item not found")
	ErrPhaseNotFound     = errors.New("phase not found")
	ErrPhaseNotEmpty     = errors.New("phase still has items")
	ErrMaxDepth          = errors.New("maximum subtask depth reached")
	ErrLockedColumn      = errors.New("column is locked")
	ErrUnknownColumn     = errors.New("unknown column")
	ErrDuplicateColumn   = errors.New("duplicate column key")
	ErrInvalidColumnType = errors.New("invalid column type")
	ErrInvalidStatus     = errors.New("invalid status value")
	ErrTitleRequired     = errors.New("item title is required")
)
