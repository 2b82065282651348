package model

import "strings"

// BindingEvent is the site's report that the account linked from ChatID was bound.
type BindingEvent struct {
	ChatID   int64
	UserName string
}

// NameOr returns the reported user name, or fallback when the site sent none.
func (e BindingEvent) NameOr(fallback string) string {
	if n := strings.TrimSpace(e.UserName); n != "" {
		return n
	}
	return fallback
}
