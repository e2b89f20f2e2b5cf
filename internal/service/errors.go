package service

import "errors"

var (
	ErrGameNotFound  = errors.New("game not found")
	ErrStaleRecord   = errors.New("record was modified concurrently")
	ErrNotJoinable   = errors.New("game is not open for joining")
	ErrOwnGame       = errors.New("cannot join your own game")
	ErrNotStarted    = errors.New("game has not started")
	ErrGameOver      = errors.New("game is over")
	ErrAlreadyQueued = errors.New("player already in queue")
)
