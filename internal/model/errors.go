package model

import "errors"

var (
	ErrNotYourTurn   = errors.New("not your turn")
	ErrInvalidAction = errors.New("invalid action")
	ErrInvalidDuck   = errors.New("invalid duck placement")
	ErrUnknownType   = errors.New("unknown game type")
)
