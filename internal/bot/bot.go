package bot

import (
	"fmt"
	"log/slog"

	telebot "gopkg.in/telebot.v3"

	"github.com/Proton-105/juniorsaver-bot/internal/bot/handlers"
	"github.com/Proton-105/juniorsaver-bot/internal/bot/keyboard"
	errors "github.com/Proton-105/juniorsaver-bot/internal/errors"
	"github.com/Proton-105/juniorsaver-bot/internal/middleware"
	"github.com/Proton-105/juniorsaver-bot/internal/state"
	"github.com/Proton-105/juniorsaver-bot/pkg/config"
)

// Bot wraps telebot.Bot with application dependencies required for handling updates.
type Bot struct {
	telebot    *telebot.Bot
	log        *slog.Logger
	cfg        config.Config
	fsm        state.StateMachine
	router     *Router
	keyboard   *keyboard.Builder
	errHandler *errors.Handler
}

// routerDeps is everything the conversation needs apart from the Telegram client.
type routerDeps struct {
	fsm         state.StateMachine
	admins      handlers.AdminChecker
	keyboard    *keyboard.Builder
	errHandler  *errors.Handler
	botUsername func() string
	log         *slog.Logger
}

// New builds a telegram bot instance configured according to the application settings.
// updateMiddlewares run on every raw update before routing, in the given order.
func New(
	cfg config.Config,
	log *slog.Logger,
	fsm state.StateMachine,
	admins handlers.AdminChecker,
	updateMiddlewares ...telebot.MiddlewareFunc,
) (*Bot, error) {
	if log == nil {
		log = slog.Default()
	}

	settings := telebot.Settings{
		Token: cfg.Bot.Token,
		OnError: func(err error, c telebot.Context) {
			attrs := []any{slog.Any("error", err)}
			if c != nil && c.Sender() != nil {
				attrs = append(attrs, slog.Int64("user_id", c.Sender().ID))
			}
			log.Error("telebot error", attrs...)
		},
	}

	if cfg.Bot.Mode == "webhook" {
		webhook := &telebot.Webhook{Listen: cfg.Bot.WebhookListen}
		if cfg.Bot.WebhookURL != "" {
			webhook.Endpoint = &telebot.WebhookEndpoint{PublicURL: cfg.Bot.WebhookURL}
		}
		settings.Poller = webhook
	} else {
		settings.Poller = &telebot.LongPoller{
			Timeout: cfg.Bot.Timeout,
		}
	}

	tb, err := telebot.NewBot(settings)
	if err != nil {
		return nil, fmt.Errorf("initialize telebot: %w", err)
	}

	kb := keyboard.NewBuilder(log, cfg.Bot.CallbackPrefix)
	errHandler := errors.NewHandler(log, cfg.Sentry.Enabled)

	b := &Bot{
		telebot:    tb,
		log:        log,
		cfg:        cfg,
		fsm:        fsm,
		keyboard:   kb,
		errHandler: errHandler,
	}

	b.router = buildRouter(routerDeps{
		fsm:         fsm,
		admins:      admins,
		keyboard:    kb,
		errHandler:  errHandler,
		botUsername: b.username,
		log:         log,
	})

	for _, mw := range updateMiddlewares {
		if mw != nil {
			b.telebot.Use(mw)
		}
	}

	b.registerTelebotHandlers()

	return b, nil
}

// buildRouter wires the admin conversation:
//
//	/start                          -> choosing_action
//	"Add new Junior Saver" callback -> awaiting_name
//	name text                       -> choosing_action
//	/cancel                         -> no conversation
func buildRouter(deps routerDeps) *Router {
	dispatcher := NewDispatcher(deps.fsm, deps.keyboard.Prefix(), deps.log)
	router := NewRouter(dispatcher, deps.botUsername, deps.log)

	router.Use(RecoveryMiddleware(deps.log, deps.errHandler))
	router.Use(CorrelationMiddleware())
	router.Use(ErrorHandlingMiddleware(deps.errHandler))
	router.Use(LoggingMiddleware(deps.log))
	router.Use(middleware.Metrics)

	router.RegisterCommand(CommandStart, handlers.NewStartHandler(deps.fsm, deps.admins, deps.keyboard, deps.log))
	router.RegisterCommand(CommandCancel, handlers.NewCancelHandler(deps.fsm, deps.keyboard, deps.log))

	dispatcher.RegisterCallbackHandler(state.StateChoosingAction, keyboard.AddJunior.String(),
		handlers.NewAddJuniorHandler(deps.fsm, deps.log))
	dispatcher.RegisterTextHandler(state.StateAwaitingName,
		handlers.NewJuniorNameHandler(deps.fsm, deps.botUsername, deps.log))

	return router
}

// Start publishes the command list and runs the telegram bot event loop.
func (b *Bot) Start() {
	if b.telebot == nil {
		return
	}

	if err := b.telebot.SetCommands(menuCommands); err != nil {
		b.log.Warn("failed to publish bot commands", slog.Any("error", err))
	}

	b.log.Info("telegram bot started",
		slog.String("username", b.username()),
		slog.String("mode", b.cfg.Bot.Mode),
	)
	b.telebot.Start()
}

// Stop gracefully stops the telegram bot.
func (b *Bot) Stop() {
	if b.telebot == nil {
		return
	}

	b.log.Info("stopping telegram bot...")
	b.telebot.Stop()
}

// Telebot exposes the underlying telebot.Bot instance for integrations such as health checks.
func (b *Bot) Telebot() *telebot.Bot {
	return b.telebot
}

func (b *Bot) username() string {
	if b.telebot == nil || b.telebot.Me == nil {
		return ""
	}
	return b.telebot.Me.Username
}

func (b *Bot) registerTelebotHandlers() {
	if b.telebot == nil || b.router == nil {
		return
	}

	b.telebot.Handle(telebot.OnText, b.router.Route)
	b.telebot.Handle(telebot.OnCallback, b.router.Route)
}
