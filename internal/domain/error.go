package domain

import "errors"

var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrChatIDRequired  = errors.New("chat_id is required")
)
