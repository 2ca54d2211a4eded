package monopoly

import "errors"

var (
	ErrGameNotFound       = errors.New("game not found")
	ErrGameAlreadyStarted = errors.New("game already started")
	ErrGameNotStarted     = errors.New("game not started")
	ErrGameFinished       = errors.New("game finished")
	ErrGameInvalidAction  = errors.New("invalid action for the pending game state")
	ErrMaxPlayers         = errors.New("game is full")
	ErrAlreadyJoined      = errors.New("player already joined")
	ErrPlayerNotFound     = errors.New("player not found")
	ErrNotYourTurn        = errors.New("not your turn")
	ErrFieldNotFound      = errors.New("field not found")
	ErrInvalidFieldType   = errors.New("invalid field type")
	ErrFieldAlreadyOwned  = errors.New("field already owned")
	ErrFieldNotOwned      = errors.New("field not owned")
	ErrNotEnoughBalance   = errors.New("not enough balance")
)
