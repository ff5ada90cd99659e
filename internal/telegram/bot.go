package telegram

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"diet-planner/internal/app"
	"diet-planner/internal/config"
	"diet-planner/internal/planner"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

const (
	metricsDays     = 7
	planTimeout     = 30 * time.Second
	maxMessageRunes = 4000
)

// Service is the application surface the bot needs.
type Service interface {
	GenerateWeeklyPlan(ctx context.Context, req app.PlanRequest) (*app.Generation, error)
	Metrics(ctx context.Context, days int) (*app.MetricsReport, error)
}

// Sender delivers messages to Telegram.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Bot answers /plan and /metrics commands from allowed users.
type Bot struct {
	sender       Sender
	service      Service
	allowedUsers []int64
	adminID      int64
	logger       *zap.Logger
}

// NewBot initializes the Telegram Bot and sets the Webhook.
func NewBot(cfg *config.Config, service Service, logger *zap.Logger) (*Bot, error) {
	if err := cfg.ValidateTelegram(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	api, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram api: %w", err)
	}
	logger.Info("telegram bot authorized", zap.String("account", api.Self.UserName))

	wh, err := tgbotapi.NewWebhook(cfg.TelegramWebhookURL)
	if err != nil {
		return nil, fmt.Errorf("invalid webhook url %s: %w", cfg.TelegramWebhookURL, err)
	}
	resp, err := api.Request(wh)
	if err != nil {
		return nil, fmt.Errorf("failed to set webhook to %s: %w", cfg.TelegramWebhookURL, err)
	}
	logger.Info("telegram webhook set", zap.String("description", resp.Description))

	return newBot(api, service, cfg.TelegramAllowedUserIDs, cfg.TelegramAdminID, logger), nil
}

func newBot(sender Sender, service Service, allowed []int64, adminID int64, logger *zap.Logger) *Bot {
	return &Bot{
		sender:       sender,
		service:      service,
		allowedUsers: allowed,
		adminID:      adminID,
		logger:       logger,
	}
}

// RegisterHandlers registers the webhook handler on mux.
func (b *Bot) RegisterHandlers(mux *http.ServeMux) {
	mux.HandleFunc("/webhook", b.handleWebhook)
}

func (b *Bot) handleWebhook(w http.ResponseWriter, r *http.Request) {
	var update tgbotapi.Update
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		b.logger.Warn("failed to parse telegram update", zap.Error(err))
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusOK)

	msg := update.Message
	if msg == nil || msg.From == nil {
		return
	}
	if !b.allowed(msg.From.ID) {
		b.logger.Warn("unauthorized telegram user",
			zap.Int64("user_id", msg.From.ID),
			zap.String("username", msg.From.UserName))
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), planTimeout)
		defer cancel()
		b.processMessage(ctx, msg)
	}()
}

func (b *Bot) allowed(userID int64) bool {
	return slices.Contains(b.allowedUsers, userID)
}

func (b *Bot) processMessage(ctx context.Context, msg *tgbotapi.Message) {
	command, args := splitCommand(msg.Text)
	switch command {
	case "/plan":
		b.handlePlanCommand(ctx, msg.Chat.ID, args)
	case "/metrics":
		if msg.From.ID != b.adminID {
			b.send(msg.Chat.ID, "⛔ *Access Denied*: Admin only.")
			return
		}
		b.handleMetricsCommand(ctx, msg.Chat.ID)
	default:
		b.send(msg.Chat.ID, helpText)
	}
}

const helpText = "🥗 *Diet Planner*\n\n" +
	"`/plan [calories] [diet] [cuisines]`\n" +
	"Diet: any, vegetarian, vegan, non-vegetarian\n" +
	"Example: `/plan 1800 vegan indian,thai`"

// splitCommand returns the lower-cased command (without any @bot suffix) and its arguments.
func splitCommand(text string) (string, []string) {
	fields := strings.Fields(text)
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") {
		return "", nil
	}
	command, _, _ := strings.Cut(strings.ToLower(fields[0]), "@")
	return command, fields[1:]
}

// parsePlanArgs reads an optional calorie target, diet preference and
// cuisine list, in any order.
func parsePlanArgs(args []string) (app.PlanRequest, error) {
	var req app.PlanRequest
	var cuisines []string
	for _, arg := range args {
		if n, err := strconv.Atoi(arg); err == nil {
			if req.TargetDailyCalories != 0 {
				return req, fmt.Errorf("calorie target given twice")
			}
			if n <= 0 {
				return req, fmt.Errorf("calorie target must be positive")
			}
			req.TargetDailyCalories = n
			continue
		}
		if diet, ok := planner.ParseDietPreference(arg); ok && req.DietPreference == "" {
			req.DietPreference = string(diet)
			continue
		}
		cuisines = append(cuisines, arg)
	}
	req.PreferredCuisines = strings.Join(cuisines, ",")
	return req, nil
}

func (b *Bot) handlePlanCommand(ctx context.Context, chatID int64, args []string) {
	req, err := parsePlanArgs(args)
	if err != nil {
		b.send(chatID, "❌ "+escapeMarkdown(err.Error())+"\n\n"+helpText)
		return
	}

	gen, err := b.service.GenerateWeeklyPlan(ctx, req)
	if err != nil {
		b.logger.Info("plan request failed", zap.Int64("chat_id", chatID), zap.Error(err))
		b.send(chatID, "❌ *Could not build your plan:*\n"+escapeMarkdown(errorText(err)))
		return
	}

	for _, part := range formatPlanMarkdownParts(gen.Plan, gen.Report.TargetCalories) {
		b.send(chatID, part)
	}
}

func errorText(err error) string {
	if errors.Is(err, app.ErrInvalidRequest) {
		return err.Error()
	}
	return planner.ErrorMessage(err)
}

var slotIcons = map[planner.MealSlot]string{
	planner.Breakfast: "🍳",
	planner.Lunch:     "🥗",
	planner.Dinner:    "🍲",
}

// formatPlanMarkdownParts renders the plan as Markdown messages, packing whole
// days into each message while staying under Telegram's length limit.
func formatPlanMarkdownParts(plan *planner.WeeklyPlan, targetCalories int) []string {
	var parts []string
	var cur strings.Builder
	fmt.Fprintf(&cur, "📅 *Weekly Diet Plan* (%d kcal/day)\n\n", targetCalories)

	for _, day := range plan.Days {
		block := formatDay(day)
		if len([]rune(cur.String()))+len([]rune(block)) > maxMessageRunes && cur.Len() > 0 {
			parts = append(parts, strings.TrimRight(cur.String(), "\n"))
			cur.Reset()
		}
		cur.WriteString(block)
	}
	if cur.Len() > 0 {
		parts = append(parts, strings.TrimRight(cur.String(), "\n"))
	}
	return parts
}

func formatDay(day planner.DayEntry) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "*Day %d* · %d kcal\n", day.Day, day.Summary.TotalCalories)
	for _, s := range planner.Slots {
		options := day.Summary.Meals[s.Slot]
		for i, o := range options {
			label := slotIcons[s.Slot] + " " + slotLabel(s.Slot)
			if i > 0 {
				label = "   or"
			}
			if o.IsSentinel() {
				fmt.Fprintf(&sb, "%s: _%s_\n", label, escapeMarkdown(o.Name))
				continue
			}
			fmt.Fprintf(&sb, "%s: %s (%d kcal, %s)\n", label, escapeMarkdown(o.Name), o.Calories, escapeMarkdown(o.Cuisine))
		}
	}
	sb.WriteString("\n")
	return sb.String()
}

func slotLabel(slot planner.MealSlot) string {
	s := string(slot)
	return strings.ToUpper(s[:1]) + s[1:]
}

var markdownEscaper = strings.NewReplacer("_", "\\_", "*", "\\*", "`", "\\`", "[", "\\[")

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}

func (b *Bot) handleMetricsCommand(ctx context.Context, chatID int64) {
	report, err := b.service.Metrics(ctx, metricsDays)
	if err != nil {
		b.logger.Warn("failed to fetch metrics", zap.Error(err))
		b.send(chatID, "❌ Error fetching metrics.")
		return
	}
	b.send(chatID, formatMetrics(report))
}

func formatMetrics(report *app.MetricsReport) string {
	var sb strings.Builder
	sb.WriteString("📊 *Usage & Health Report*\n\n")

	sb.WriteString("🗓 *Recent Plan Generations*\n")
	if len(report.Daily) == 0 {
		sb.WriteString("_No data yet_\n")
	}
	for _, d := range report.Daily {
		fmt.Fprintf(&sb, "• *%s*: %d plans (%d ok, %d failed), avg %dms, %d placeholders\n",
			d.Date, d.Total, d.Succeeded, d.Failed, d.AvgLatencyMS, d.Sentinels)
	}

	health := report.Health
	sb.WriteString("\n🧠 *System Health*\n")
	fmt.Fprintf(&sb, "• Catalog: %d recipes\n", health.CatalogRecipes)
	fmt.Fprintf(&sb, "• Uptime: %s\n", health.Uptime)
	fmt.Fprintf(&sb, "• RAM: %dMB (Heap) / %dMB (Sys)\n", health.HeapMB, health.SysMB)
	fmt.Fprintf(&sb, "• Goroutines: %d\n", health.Goroutines)
	fmt.Fprintf(&sb, "• Disk Data: %s\n", health.DataDiskSize)
	return sb.String()
}

func (b *Bot) send(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := b.sender.Send(msg); err != nil {
		b.logger.Warn("failed to send telegram message", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}
