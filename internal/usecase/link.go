package usecase

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"telegram-account-binding/internal/config"
	"telegram-account-binding/internal/domain"
)

const (
	ParamUserID = "tg_user_id"
	ParamChatID = "tg_chat_id"
)

// DeepLinkBuilder turns a Telegram identity into a link to the site's signup or login page.
type DeepLinkBuilder struct {
	base *url.URL
	mode string
}

func NewDeepLinkBuilder(siteBase, mode string) (*DeepLinkBuilder, error) {
	if mode != config.LinkModeSignup && mode != config.LinkModeLogin {
		return nil, fmt.Errorf("%w: link mode %q", domain.ErrInvalidArgument, mode)
	}
	u, err := url.Parse(strings.TrimRight(strings.TrimSpace(siteBase), "/"))
	if err != nil {
		return nil, fmt.Errorf("%w: site base: %v", domain.ErrInvalidArgument, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: site base %q is not absolute", domain.ErrInvalidArgument, siteBase)
	}
	u.RawQuery = ""
	u.Fragment = ""
	return &DeepLinkBuilder{base: u, mode: mode}, nil
}

func (b *DeepLinkBuilder) Mode() string { return b.mode }

// Build returns {base}/{mode}?tg_user_id={userID}&tg_chat_id={chatID}.
func (b *DeepLinkBuilder) Build(userID, chatID int64) string {
	u := b.base.JoinPath(b.mode)
	u.RawQuery = ParamUserID + "=" + url.QueryEscape(strconv.FormatInt(userID, 10)) +
		"&" + ParamChatID + "=" + url.QueryEscape(strconv.FormatInt(chatID, 10))
	return u.String()
}
