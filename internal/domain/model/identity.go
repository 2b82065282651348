package model

import (
	"strings"

	"telegram-account-binding/internal/domain"
)

// Identity is who pressed what, taken from a single inbound Telegram event.
// It is never stored.
type Identity struct {
	UserID      int64
	ChatID      int64
	DisplayName string
}

func NewIdentity(userID, chatID int64, displayName string) (Identity, error) {
	if userID == 0 || chatID == 0 {
		return Identity{}, domain.ErrInvalidArgument
	}
	return Identity{
		UserID:      userID,
		ChatID:      chatID,
		DisplayName: strings.TrimSpace(displayName),
	}, nil
}
