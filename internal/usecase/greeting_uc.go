package usecase

import (
	"telegram-account-binding/internal/config"
	"telegram-account-binding/internal/domain/model"
	"telegram-account-binding/internal/domain/ports/adapter"
	"telegram-account-binding/internal/infra/i18n"
)

// Callback actions carried in inline button data.
const (
	ActionBackToMain        = "back_to_main"
	ActionAlreadyRegistered = "already_registered"
)

// Screen is a message body plus its inline keyboard.
type Screen struct {
	Text string
	Rows [][]adapter.InlineButton
}

// Compile-time check
var _ GreetingUseCase = (*greetingUC)(nil)

type GreetingUseCase interface {
	// RenderGreeting builds the main menu for id. It has no side effects, so /start
	// and the back-to-menu button produce the same screen.
	RenderGreeting(id model.Identity) Screen
	// RenderWelcomeBack is shown after "I'm already registered".
	RenderWelcomeBack() Screen
	Help() string
	DefaultUserName() string
}

type greetingUC struct {
	links *DeepLinkBuilder
	tr    *i18n.Translator
}

func NewGreetingUseCase(links *DeepLinkBuilder, tr *i18n.Translator) *greetingUC {
	return &greetingUC{links: links, tr: tr}
}

func (g *greetingUC) RenderGreeting(id model.Identity) Screen {
	name := id.DisplayName
	if name == "" {
		name = g.DefaultUserName()
	}
	link := g.links.Build(id.UserID, id.ChatID)

	var row []adapter.InlineButton
	if g.links.Mode() == config.LinkModeLogin {
		row = []adapter.InlineButton{{Text: g.tr.T("btn_login"), URL: link}}
	} else {
		row = []adapter.InlineButton{
			{Text: g.tr.T("btn_signup"), URL: link},
			{Text: g.tr.T("btn_already_registered"), Data: ActionAlreadyRegistered},
		}
	}
	return Screen{
		Text: g.tr.T("greeting", name),
		Rows: [][]adapter.InlineButton{row},
	}
}

func (g *greetingUC) RenderWelcomeBack() Screen {
	return Screen{
		Text: g.tr.T("welcome_back"),
		Rows: [][]adapter.InlineButton{{{Text: g.tr.T("btn_back_to_main"), Data: ActionBackToMain}}},
	}
}

func (g *greetingUC) Help() string { return g.tr.T("help") }

func (g *greetingUC) DefaultUserName() string { return g.tr.T("default_user_name") }
