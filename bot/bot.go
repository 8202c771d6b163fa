package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"tamo-orders/catalog"
	"tamo-orders/config"
	"tamo-orders/lang"
	"tamo-orders/logger"
	"tamo-orders/models"
	"tamo-orders/services"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Telegram rejects messages longer than 4096 characters.
const maxMessageLen = 4000

// sender is the part of *tgbotapi.BotAPI the handlers use.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

type Bot struct {
	tg       *tgbotapi.BotAPI // nil in tests
	api      sender
	cfg      *config.Config
	catalog  *catalog.Catalog
	ledger   *services.Ledger
	sessions *sessions
}

func New(cfg *config.Config, c *catalog.Catalog, ledger *services.Ledger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		return nil, err
	}
	b := newBot(api, cfg, c, ledger)
	b.tg = api
	return b, nil
}

func newBot(api sender, cfg *config.Config, c *catalog.Catalog, ledger *services.Ledger) *Bot {
	return &Bot{
		api:      api,
		cfg:      cfg,
		catalog:  c,
		ledger:   ledger,
		sessions: newSessions(c.Keys(), cfg.App.DefaultLang),
	}
}

func (b *Bot) setBotCommands() error {
	l := b.sessions.defaultLang
	cfg := tgbotapi.SetMyCommandsConfig{
		Commands: []tgbotapi.BotCommand{
			{Command: "start", Description: lang.T(l, "cmd_start")},
			{Command: "summary", Description: lang.T(l, "cmd_summary")},
			{Command: "orders", Description: lang.T(l, "cmd_orders")},
			{Command: "clear", Description: lang.T(l, "cmd_clear")},
			{Command: "export", Description: lang.T(l, "cmd_export")},
			{Command: "language", Description: lang.T(l, "cmd_language")},
		},
	}
	_, err := b.api.Request(cfg)
	return err
}

// Start long-polls Telegram and handles updates one at a time until ctx is done.
func (b *Bot) Start(ctx context.Context) {
	if err := b.setBotCommands(); err != nil {
		logger.L().Warnw("set bot commands", "error", err)
	}
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.tg.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.tg.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			b.HandleUpdate(ctx, update)
		}
	}
}

// HandleUpdate dispatches one Telegram update.
func (b *Bot) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		b.handleCallback(ctx, update.CallbackQuery)
		return
	}
	if update.Message == nil || update.Message.From == nil {
		return
	}
	b.handleMessage(ctx, update.Message)
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	userID := msg.From.ID
	text := strings.TrimSpace(msg.Text)
	sess := b.sessions.get(userID)

	cmd, args := splitCommand(text)
	switch cmd {
	case "/start":
		sess.awaitingName = false
		b.sendMenuImage(chatID)
		b.send(chatID, lang.T(sess.lang, "welcome"))
		b.sendCategories(chatID, sess)
	case "/menu":
		sess.awaitingName = false
		b.sendCategories(chatID, sess)
	case "/summary":
		b.sendDraft(chatID, sess)
	case "/clear":
		sess.draft.Reset()
		sess.awaitingName = false
		b.send(chatID, lang.T(sess.lang, "draft_cleared"))
	case "/orders":
		b.sendLedger(ctx, chatID, sess)
	case "/delete":
		b.handleDeleteCommand(ctx, chatID, sess, args)
	case "/export":
		b.handleExport(ctx, chatID, sess)
	case "/language":
		b.sendLanguageChoice(chatID)
	default:
		if sess.awaitingName && cmd == "" {
			b.submit(ctx, chatID, sess, text)
		}
	}
}

func (b *Bot) handleCallback(ctx context.Context, cq *tgbotapi.CallbackQuery) {
	if cq.Message == nil || cq.From == nil {
		return
	}
	chatID := cq.Message.Chat.ID
	msgID := cq.Message.MessageID
	sess := b.sessions.get(cq.From.ID)
	data := cq.Data

	if _, err := b.api.Request(tgbotapi.NewCallback(cq.ID, "")); err != nil {
		logger.L().Debugw("answer callback", "error", err)
	}

	action, arg, _ := strings.Cut(data, ":")
	switch action {
	case "noop":
	case "cats":
		b.editCard(chatID, msgID, services.BuildCategoriesCard(sess.lang, b.catalog, b.draftSummary(sess)))
	case "cat":
		i, err := strconv.Atoi(arg)
		if err != nil {
			return
		}
		if card, ok := services.BuildCategoryCard(sess.lang, b.catalog, i, sess.draft); ok {
			b.editCard(chatID, msgID, card)
		}
	case "inc", "dec":
		b.changeQuantity(chatID, msgID, sess, action, arg)
	case "summary":
		b.sendDraft(chatID, sess)
	case "submit":
		b.askName(chatID, sess)
	case "clear":
		sess.draft.Reset()
		sess.awaitingName = false
		b.editCard(chatID, msgID, services.BuildDraftCard(sess.lang, b.draftSummary(sess)))
	case "orders":
		b.sendLedger(ctx, chatID, sess)
	case "ask", "askp":
		b.confirmDelete(ctx, chatID, sess, action == "askp", arg)
	case "del", "delp":
		b.deleteRecord(ctx, chatID, sess, action == "delp", arg)
	case "lang":
		if lang.Valid(arg) {
			sess.lang = arg
			b.send(chatID, lang.T(arg, "language_changed"))
		}
	}
}

func (b *Bot) changeQuantity(chatID int64, msgID int, sess *session, action, arg string) {
	ci, ii, err := parseIndexPair(arg)
	if err != nil {
		return
	}
	item, ok := b.catalog.Item(ci, ii)
	if !ok {
		b.send(chatID, lang.T(sess.lang, "unknown_item"))
		return
	}
	qty := sess.draft.Quantity(item.Key())
	if action == "inc" {
		qty++
	} else {
		if qty == 0 {
			return
		}
		qty--
	}
	if err := sess.draft.SetQuantity(item.Key(), qty); err != nil {
		b.send(chatID, lang.T(sess.lang, "invalid_quantity"))
		return
	}
	if card, ok := services.BuildCategoryCard(sess.lang, b.catalog, ci, sess.draft); ok {
		b.editCard(chatID, msgID, card)
	}
}

func (b *Bot) draftSummary(sess *session) models.DraftSummary {
	s, err := services.SummarizeDraft(sess.draft)
	if err != nil {
		logger.L().Errorw("summarize draft", "error", err)
	}
	return s
}

func (b *Bot) sendCategories(chatID int64, sess *session) {
	b.sendCard(chatID, services.BuildCategoriesCard(sess.lang, b.catalog, b.draftSummary(sess)))
}

func (b *Bot) sendDraft(chatID int64, sess *session) {
	b.sendCard(chatID, services.BuildDraftCard(sess.lang, b.draftSummary(sess)))
}

func (b *Bot) askName(chatID int64, sess *session) {
	if sess.draft.IsEmpty() {
		b.send(chatID, lang.T(sess.lang, "summary_empty"))
		return
	}
	sess.awaitingName = true
	msg := tgbotapi.NewMessage(chatID, lang.T(sess.lang, "ask_name"))
	msg.ReplyMarkup = tgbotapi.ForceReply{ForceReply: true, Selective: true}
	if _, err := b.api.Send(msg); err != nil {
		logger.L().Errorw("send error", "chat", chatID, "error", err)
	}
}

func (b *Bot) submit(ctx context.Context, chatID int64, sess *session, name string) {
	summary := b.draftSummary(sess)
	written, err := b.ledger.Append(ctx, name, sess.draft)
	if err != nil {
		if errors.Is(err, services.ErrValidation) {
			b.send(chatID, lang.T(sess.lang, "name_required"))
			return
		}
		logger.L().Errorw("submit order", "chat", chatID, "error", err)
		b.send(chatID, lang.T(sess.lang, "save_failed"))
		return
	}
	sess.awaitingName = false
	sess.draft.Reset()
	if len(written) == 0 {
		b.send(chatID, lang.T(sess.lang, "summary_empty"))
		return
	}
	b.send(chatID, fmt.Sprintf(lang.T(sess.lang, "order_saved"), services.EscapeMarkdown(written[0].CustomerName), len(written), services.FormatEuro(summary.Total)))
}

func (b *Bot) sendLanguageChoice(chatID int64) {
	kb := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Italiano", "lang:"+lang.It),
			tgbotapi.NewInlineKeyboardButtonData("English", "lang:"+lang.En),
		),
	)
	msg := tgbotapi.NewMessage(chatID, lang.T(lang.It, "choose_lang"))
	msg.ReplyMarkup = kb
	if _, err := b.api.Send(msg); err != nil {
		logger.L().Errorw("send error", "chat", chatID, "error", err)
	}
}

// sendMenuImage is decorative: any failure is ignored.
func (b *Bot) sendMenuImage(chatID int64) {
	if b.cfg.App.MenuImageURL == "" {
		return
	}
	_, _ = b.api.Send(tgbotapi.NewPhoto(chatID, tgbotapi.FileURL(b.cfg.App.MenuImageURL)))
}

func (b *Bot) send(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := b.api.Send(msg); err != nil {
		logger.L().Errorw("send error", "chat", chatID, "error", err)
	}
}

// cardMarkup converts OrderCardContent.Buttons to a Telegram inline keyboard.
func cardMarkup(c services.OrderCardContent) *tgbotapi.InlineKeyboardMarkup {
	if len(c.Buttons) == 0 {
		return nil
	}
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, row := range c.Buttons {
		var btns []tgbotapi.InlineKeyboardButton
		for _, btn := range row {
			btns = append(btns, tgbotapi.NewInlineKeyboardButtonData(btn.Text, btn.CallbackData))
		}
		rows = append(rows, btns)
	}
	kb := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &kb
}

// sendCard sends a card as new messages; long text is split on line breaks
// and the keyboard goes with the last part.
func (b *Bot) sendCard(chatID int64, c services.OrderCardContent) {
	parts := splitMessage(c.Text, maxMessageLen)
	for i, part := range parts {
		msg := tgbotapi.NewMessage(chatID, part)
		msg.ParseMode = tgbotapi.ModeMarkdown
		if i == len(parts)-1 {
			if kb := cardMarkup(c); kb != nil {
				msg.ReplyMarkup = *kb
			}
		}
		if _, err := b.api.Send(msg); err != nil {
			logger.L().Errorw("send error", "chat", chatID, "error", err)
		}
	}
}

// editCard replaces a card in place, falling back to a new message when the
// original cannot be edited.
func (b *Bot) editCard(chatID int64, msgID int, c services.OrderCardContent) {
	kb := cardMarkup(c)
	if kb == nil || len(c.Text) > maxMessageLen {
		b.sendCard(chatID, c)
		return
	}
	edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, msgID, c.Text, *kb)
	edit.ParseMode = tgbotapi.ModeMarkdown
	if _, err := b.api.Send(edit); err != nil {
		if strings.Contains(err.Error(), "message is not modified") {
			return
		}
		logger.L().Warnw("edit failed, sending new card", "chat", chatID, "error", err)
		b.sendCard(chatID, c)
	}
}

// splitCommand returns "/cmd" (bot mention stripped) and the rest of the
// text. Plain text yields an empty command.
func splitCommand(text string) (cmd, args string) {
	if !strings.HasPrefix(text, "/") {
		return "", text
	}
	cmd, args, _ = strings.Cut(text, " ")
	if at := strings.Index(cmd, "@"); at >= 0 {
		cmd = cmd[:at]
	}
	return strings.ToLower(cmd), strings.TrimSpace(args)
}

func parseIndexPair(s string) (int, int, error) {
	a, c, ok := strings.Cut(s, ":")
	if !ok {
		return 0, 0, fmt.Errorf("malformed index pair %q", s)
	}
	i, err := strconv.Atoi(a)
	if err != nil {
		return 0, 0, err
	}
	j, err := strconv.Atoi(c)
	if err != nil {
		return 0, 0, err
	}
	return i, j, nil
}

func splitMessage(text string, limit int) []string {
	if len(text) <= limit {
		return []string{text}
	}
	var parts []string
	var cur strings.Builder
	for _, line := range strings.SplitAfter(text, "\n") {
		for len(line) > limit {
			if cur.Len() > 0 {
				parts = append(parts, cur.String())
				cur.Reset()
			}
			cut := limit
			for cut > 0 && !utf8.RuneStart(line[cut]) {
				cut--
			}
			parts = append(parts, line[:cut])
			line = line[cut:]
		}
		if cur.Len()+len(line) > limit {
			parts = append(parts, cur.String())
			cur.Reset()
		}
		cur.WriteString(line)
	}
	if cur.Len() > 0 {
		parts = append(parts, cur.String())
	}
	return parts
}
