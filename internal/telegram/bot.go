package telegram

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"meal-grocer/internal/config"
	"meal-grocer/internal/inventory"
	"meal-grocer/internal/metrics"
	"meal-grocer/internal/shopping"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"
)

const expiringWindow = 72 * time.Hour

// Service is the part of the application the bot talks to.
type Service interface {
	Today() time.Time
	GenerateShoppingList(ctx context.Context, userID string, from, to time.Time) (shopping.CategorizedList, error)
	MarkPurchased(ctx context.Context, userID, itemID string, purchased bool) error
	ClearPurchased(ctx context.Context, userID string) (int64, error)
	ListPantry(ctx context.Context, userID string) ([]inventory.Item, error)
	ExpiringPantry(ctx context.Context, userID string, within time.Duration) ([]inventory.Item, error)
	DailyUsage(ctx context.Context, days int) ([]metrics.DailyUsage, error)
	SysHealth() metrics.SysHealth
}

type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Bot wraps the Telegram API and the shopping list service.
type Bot struct {
	api     sender
	handler func(r *http.Request) (*tgbotapi.Update, error)
	svc     Service
	cfg     *config.Config
	allowed map[int64]bool
}

// NewBot initializes the Telegram Bot and sets the Webhook.
func NewBot(cfg *config.Config, svc Service) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram api: %w", err)
	}
	log.Info().Str("account", api.Self.UserName).Msg("Authorized on Telegram")

	wh, err := tgbotapi.NewWebhook(cfg.TelegramWebhookURL)
	if err != nil {
		return nil, fmt.Errorf("failed to build webhook for %s: %w", cfg.TelegramWebhookURL, err)
	}
	resp, err := api.Request(wh)
	if err != nil {
		return nil, fmt.Errorf("failed to set webhook to %s: %w", cfg.TelegramWebhookURL, err)
	}
	log.Info().Str("description", resp.Description).Msg("Webhook set")

	b := newBot(api, cfg, svc)
	b.handler = api.HandleUpdate
	return b, nil
}

func newBot(api sender, cfg *config.Config, svc Service) *Bot {
	allowed := make(map[int64]bool, len(cfg.TelegramAllowedUserIDs))
	for _, id := range cfg.TelegramAllowedUserIDs {
		allowed[id] = true
	}
	return &Bot{api: api, svc: svc, cfg: cfg, allowed: allowed}
}

// RegisterHandlers registers the webhook and health handlers on mux.
func (b *Bot) RegisterHandlers(mux *http.ServeMux) {
	mux.HandleFunc("/webhook", b.handleWebhook)
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
}

func (b *Bot) handleWebhook(w http.ResponseWriter, r *http.Request) {
	update, err := b.handler(r)
	if err != nil {
		log.Warn().Err(err).Msg("Error parsing update")
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	if update.CallbackQuery != nil {
		if b.isAllowed(update.CallbackQuery.From) {
			go b.handleCallbackQuery(context.Background(), update.CallbackQuery)
		}
		return
	}

	if update.Message == nil || !b.isAllowed(update.Message.From) {
		return
	}

	go b.processMessage(context.Background(), update.Message)
}

func (b *Bot) isAllowed(user *tgbotapi.User) bool {
	if user == nil {
		return false
	}
	if !b.allowed[user.ID] {
		log.Warn().Int64("telegram_id", user.ID).Str("username", user.UserName).Msg("Unauthorized access attempt")
		return false
	}
	return true
}

func (b *Bot) processMessage(ctx context.Context, msg *tgbotapi.Message) {
	userID := strconv.FormatInt(msg.From.ID, 10)

	switch msg.Command() {
	case "list":
		b.handleListCommand(ctx, userID, msg.Chat.ID, msg.CommandArguments())
	case "pantry":
		b.handlePantryCommand(ctx, userID, msg.Chat.ID)
	case "expiring":
		b.handleExpiringCommand(ctx, userID, msg.Chat.ID)
	case "clear":
		b.handleClearCommand(ctx, userID, msg.Chat.ID)
	case "metrics":
		if msg.From.ID != b.cfg.AdminTelegramID {
			b.sendMarkdown(msg.Chat.ID, "⛔ *Access Denied*: Admin only.")
			return
		}
		b.handleMetricsCommand(ctx, msg.Chat.ID)
	default:
		b.sendMarkdown(msg.Chat.ID, usageText)
	}
}

func (b *Bot) handleListCommand(ctx context.Context, userID string, chatID int64, args string) {
	days := b.cfg.DefaultPlanDays
	if args = strings.TrimSpace(args); args != "" {
		n, err := strconv.Atoi(args)
		if err != nil || n < 1 || n > maxListDays {
			b.sendMarkdown(chatID, fmt.Sprintf("Usage: `/list [days]` with days between 1 and %d.", maxListDays))
			return
		}
		days = n
	}

	from := b.svc.Today()
	text, keyboard, err := b.renderList(ctx, userID, from, days)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to generate shopping list")
		b.sendMarkdown(chatID, "❌ Error generating your shopping list.")
		return
	}

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if keyboard != nil {
		msg.ReplyMarkup = *keyboard
	}
	if _, err := b.api.Send(msg); err != nil {
		log.Warn().Err(err).Msg("Failed to send shopping list")
	}
}

func (b *Bot) renderList(ctx context.Context, userID string, from time.Time, days int) (string, *tgbotapi.InlineKeyboardMarkup, error) {
	to := from.AddDate(0, 0, days-1)
	list, err := b.svc.GenerateShoppingList(ctx, userID, from, to)
	if err != nil {
		return "", nil, err
	}
	return formatShoppingListMarkdown(list, from, to), listKeyboard(list, from, days), nil
}

func (b *Bot) handleCallbackQuery(ctx context.Context, query *tgbotapi.CallbackQuery) {
	userID := strconv.FormatInt(query.From.ID, 10)

	// Answer callback to remove spinner
	b.api.Request(tgbotapi.NewCallback(query.ID, ""))

	toggle, err := parseToggleData(query.Data)
	if err != nil {
		log.Warn().Err(err).Str("data", query.Data).Msg("Ignoring malformed callback")
		return
	}
	if query.Message == nil {
		return
	}

	if err := b.svc.MarkPurchased(ctx, userID, toggle.itemID, toggle.purchased); err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to save purchase mark")
		return
	}

	text, keyboard, err := b.renderList(ctx, userID, toggle.from, toggle.days)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to refresh shopping list")
		return
	}

	var edit tgbotapi.EditMessageTextConfig
	if keyboard != nil {
		edit = tgbotapi.NewEditMessageTextAndMarkup(query.Message.Chat.ID, query.Message.MessageID, text, *keyboard)
	} else {
		edit = tgbotapi.NewEditMessageText(query.Message.Chat.ID, query.Message.MessageID, text)
	}
	edit.ParseMode = tgbotapi.ModeMarkdown
	b.api.Send(edit)
}

func (b *Bot) handlePantryCommand(ctx context.Context, userID string, chatID int64) {
	items, err := b.svc.ListPantry(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to list pantry")
		b.sendMarkdown(chatID, "❌ Error fetching your pantry.")
		return
	}
	b.sendMarkdown(chatID, formatPantryMarkdown("🥫 *Pantry*", items, time.Now()))
}

func (b *Bot) handleExpiringCommand(ctx context.Context, userID string, chatID int64) {
	items, err := b.svc.ExpiringPantry(ctx, userID, expiringWindow)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to list expiring items")
		b.sendMarkdown(chatID, "❌ Error fetching your pantry.")
		return
	}
	b.sendMarkdown(chatID, formatPantryMarkdown("⏳ *Expiring soon*", items, time.Now()))
}

func (b *Bot) handleClearCommand(ctx context.Context, userID string, chatID int64) {
	n, err := b.svc.ClearPurchased(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to clear purchase marks")
		b.sendMarkdown(chatID, "❌ Error clearing your checked items.")
		return
	}
	b.sendMarkdown(chatID, fmt.Sprintf("🧹 Cleared %d checked item(s).", n))
}

func (b *Bot) handleMetricsCommand(ctx context.Context, chatID int64) {
	usage, err := b.svc.DailyUsage(ctx, 7)
	if err != nil {
		b.sendMarkdown(chatID, "❌ Error fetching metrics.")
		return
	}
	b.sendMarkdown(chatID, formatMetricsMarkdown(usage, b.svc.SysHealth()))
}

func (b *Bot) sendMarkdown(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := b.api.Send(msg); err != nil {
		log.Warn().Err(err).Int64("chat_id", chatID).Msg("Failed to send message")
	}
}
