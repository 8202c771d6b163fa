package bot

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"

	"tamo-orders/lang"
	"tamo-orders/logger"
	"tamo-orders/models"
	"tamo-orders/services"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// loadLedger reads the ledger fresh. An unreadable store is reported to the
// user as information and shown as empty.
func (b *Bot) loadLedger(ctx context.Context, chatID int64, sess *session) []models.LedgerRecord {
	records, err := b.ledger.LoadAll(ctx)
	if err != nil {
		b.send(chatID, lang.T(sess.lang, "ledger_unavailable"))
	}
	return records
}

func (b *Bot) sendLedger(ctx context.Context, chatID int64, sess *session) {
	records := b.loadLedger(ctx, chatID, sess)
	b.sendCard(chatID, services.BuildLedgerCard(sess.lang, records, services.SummarizeLedger(records)))
}

// confirmDelete looks the record up in the current ledger before asking, so
// the confirmation always shows what will actually be removed.
func (b *Bot) confirmDelete(ctx context.Context, chatID int64, sess *session, positional bool, arg string) {
	records := b.loadLedger(ctx, chatID, sess)
	pos, ok := findRecord(records, positional, arg)
	if !ok {
		b.send(chatID, lang.T(sess.lang, "not_found"))
		return
	}
	b.sendCard(chatID, services.BuildDeleteConfirmCard(sess.lang, pos, records[pos]))
}

func (b *Bot) deleteRecord(ctx context.Context, chatID int64, sess *session, positional bool, arg string) {
	var rec models.LedgerRecord
	var err error
	if positional {
		pos, convErr := strconv.Atoi(arg)
		if convErr != nil {
			b.send(chatID, lang.T(sess.lang, "not_found"))
			return
		}
		rec, err = b.ledger.DeleteAt(ctx, pos)
	} else {
		rec, err = b.ledger.DeleteByID(ctx, arg)
	}
	b.afterDelete(ctx, chatID, sess, rec, err)
}

// handleDeleteCommand handles /delete <n>, n being the 1-based row number
// shown by /orders.
func (b *Bot) handleDeleteCommand(ctx context.Context, chatID int64, sess *session, args string) {
	n, err := strconv.Atoi(args)
	if err != nil || n < 1 {
		b.send(chatID, lang.T(sess.lang, "delete_usage"))
		return
	}
	rec, err := b.ledger.DeleteAt(ctx, n-1)
	b.afterDelete(ctx, chatID, sess, rec, err)
}

func (b *Bot) afterDelete(ctx context.Context, chatID int64, sess *session, rec models.LedgerRecord, err error) {
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			b.send(chatID, lang.T(sess.lang, "not_found"))
			return
		}
		logger.L().Errorw("delete ledger record", "chat", chatID, "error", err)
		b.send(chatID, lang.T(sess.lang, "delete_failed"))
		return
	}
	b.send(chatID, fmt.Sprintf(lang.T(sess.lang, "deleted"),
		services.EscapeMarkdown(rec.CustomerName), services.EscapeMarkdown(rec.Item), rec.Quantity))
	b.sendLedger(ctx, chatID, sess)
}

func (b *Bot) handleExport(ctx context.Context, chatID int64, sess *session) {
	records := b.loadLedger(ctx, chatID, sess)
	var buf bytes.Buffer
	if err := services.EncodeLedgerCSV(&buf, records); err != nil {
		logger.L().Errorw("export ledger", "error", err)
		b.send(chatID, lang.T(sess.lang, "export_failed"))
		return
	}
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: "orders.csv", Bytes: buf.Bytes()})
	doc.Caption = fmt.Sprintf(lang.T(sess.lang, "export_caption"), len(records))
	if _, err := b.api.Send(doc); err != nil {
		logger.L().Errorw("send export", "chat", chatID, "error", err)
		b.send(chatID, lang.T(sess.lang, "export_failed"))
	}
}

// findRecord resolves a callback argument (id, or position for rows without
// an id) against the current records.
func findRecord(records []models.LedgerRecord, positional bool, arg string) (int, bool) {
	if positional {
		pos, err := strconv.Atoi(arg)
		if err != nil || pos < 0 || pos >= len(records) {
			return 0, false
		}
		return pos, true
	}
	for i, r := range records {
		if r.ID != "" && r.ID == arg {
			return i, true
		}
	}
	return 0, false
}
