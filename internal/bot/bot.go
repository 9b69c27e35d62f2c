package bot

import (
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/user/reminder-bot/internal/commands"
)

const (
	draftIdleTTL  = 30 * time.Minute
	janitorPeriod = 5 * time.Minute
)

type Bot struct {
	api             *tgbotapi.BotAPI
	commandRegistry *commands.Registry
	flowHandler     *commands.FlowHandler
	callbackHandler *commands.CallbackHandler
	sessions        *commands.Sessions
	log             *zap.Logger
	wg              sync.WaitGroup
	stopCh          chan struct{}
}

func New(token string, store commands.Store, log *zap.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	sessions := commands.NewSessions()

	// Initialize command registry
	registry := commands.NewRegistry()
	registry.Register(commands.NewStartCommand(store, sessions, log))
	registry.Register(commands.NewAddCommand(store, sessions, log))
	registry.Register(commands.NewListCommand(store, log))
	registry.Register(commands.NewStopCommand(store, log))
	registry.Register(commands.NewHelpCommand(store, log))
	registry.Register(commands.NewCancelCommand(sessions))

	return &Bot{
		api:             api,
		commandRegistry: registry,
		flowHandler:     commands.NewFlowHandler(store, sessions, log),
		callbackHandler: commands.NewCallbackHandler(store, sessions, log),
		sessions:        sessions,
		log:             log,
		stopCh:          make(chan struct{}),
	}, nil
}

// Start begins listening for updates from Telegram and starts the session
// janitor.
func (b *Bot) Start() error {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60

	updates := b.api.GetUpdatesChan(updateConfig)

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		b.handleUpdates(updates)
	}()

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		b.runJanitor()
	}()

	return nil
}

// Stop gracefully shuts down the bot
func (b *Bot) Stop() {
	close(b.stopCh)
	b.api.StopReceivingUpdates()
	b.wg.Wait()
}

// runJanitor periodically evicts conversation drafts abandoned mid-flow.
func (b *Bot) runJanitor() {
	ticker := time.NewTicker(janitorPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-b.stopCh:
			return
		case <-ticker.C:
			if n := b.sessions.SweepIdle(draftIdleTTL); n > 0 {
				b.log.Info("evicted idle conversation drafts", zap.Int("count", n))
			}
		}
	}
}

// handleUpdates processes incoming updates from Telegram
func (b *Bot) handleUpdates(updates tgbotapi.UpdatesChannel) {
	for {
		select {
		case <-b.stopCh:
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			b.handleUpdate(update)
		}
	}
}

// handleUpdate processes a single update from Telegram. A panic in any
// handler is caught here so one bad update cannot take the loop down.
func (b *Bot) handleUpdate(update tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Error("panic while handling update",
				zap.Any("panic", r),
				zap.Int("update_id", update.UpdateID),
			)
			if update.Message != nil {
				b.sendText(update.Message.Chat.ID, "Sorry, something went wrong. Please try again.")
			}
		}
	}()

	if update.Message != nil {
		b.handleMessage(update.Message)
		return
	}

	if update.CallbackQuery != nil {
		b.handleCallback(update.CallbackQuery)
		return
	}
}

// handleCallback processes callback queries from inline buttons
func (b *Bot) handleCallback(callback *tgbotapi.CallbackQuery) {
	b.log.Debug("callback received",
		zap.Int64("chat_id", callback.Message.Chat.ID),
		zap.String("data", callback.Data),
	)

	resp := b.callbackHandler.HandleCallback(callback)
	if resp == nil {
		return
	}

	if resp.CallbackConfig != nil {
		if _, err := b.api.Request(resp.CallbackConfig); err != nil {
			b.log.Error("failed to answer callback", zap.Error(err))
		}
	}

	// Replace the origin message, retiring its keyboard, so a choice can
	// only be made once.
	if resp.EditText != "" {
		edit := tgbotapi.NewEditMessageText(callback.Message.Chat.ID, callback.Message.MessageID, resp.EditText)
		if _, err := b.api.Send(edit); err != nil {
			b.log.Error("failed to edit message", zap.Error(err))
		}
	}

	if resp.ResponseMessage != nil {
		b.sendResponse(resp.ResponseMessage)
	}
}

// handleMessage processes a single message from a user
func (b *Bot) handleMessage(message *tgbotapi.Message) {
	if message.IsCommand() {
		commandName := message.Command()
		b.log.Debug("command received",
			zap.Int64("chat_id", message.Chat.ID),
			zap.String("command", commandName),
		)

		command, exists := b.commandRegistry.Get(commandName)
		if !exists {
			b.sendText(message.Chat.ID, "Unknown command. Use /help to see available commands.")
			return
		}

		b.sendResponse(command.Execute(message))
		return
	}

	// Free-form text advances the chat's active flow, if any.
	if message.Text != "" {
		b.sendResponse(b.flowHandler.HandleText(message))
	}
}

// SendMarkdown sends a Markdown-styled message to the given chat. The
// reminder dispatcher uses it as its Sender.
func (b *Bot) SendMarkdown(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "Markdown"
	_, err := b.api.Send(&msg)
	return err
}

// sendResponse sends a prepared message config, logging failures
func (b *Bot) sendResponse(msgConfig *tgbotapi.MessageConfig) {
	if msgConfig == nil {
		return
	}

	if _, err := b.api.Send(msgConfig); err != nil {
		b.log.Error("failed to send message",
			zap.Int64("chat_id", msgConfig.ChatID),
			zap.Error(err),
		)
	}
}

// sendText simplified method for sending plain text messages
func (b *Bot) sendText(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	b.sendResponse(&msg)
}
