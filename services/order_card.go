package services

import (
	"fmt"
	"strconv"
	"strings"

	"tamo-orders/catalog"
	"tamo-orders/lang"
	"tamo-orders/models"
)

// MaxDeleteButtons caps the per-row delete buttons on the ledger card; rows
// past it are still deletable with /delete <n>.
const MaxDeleteButtons = 50

// OrderCardButton is one inline button (text + callback_data).
type OrderCardButton struct {
	Text         string
	CallbackData string
}

// OrderCardContent is the Markdown text and inline keyboard of one screen.
type OrderCardContent struct {
	Text    string
	Buttons [][]OrderCardButton
}

// BuildCategoriesCard lists the catalog categories, two per row.
func BuildCategoriesCard(l string, c *catalog.Catalog, summary models.DraftSummary) OrderCardContent {
	text := lang.T(l, "choose_category")
	if len(summary.Lines) > 0 {
		text += "\n\n" + fmt.Sprintf(lang.T(l, "subtotal"), FormatEuro(summary.Total))
	}

	var buttons [][]OrderCardButton
	var row []OrderCardButton
	for i, cat := range c.Categories() {
		row = append(row, OrderCardButton{Text: cat.Name, CallbackData: "cat:" + strconv.Itoa(i)})
		if len(row) == 2 {
			buttons = append(buttons, row)
			row = nil
		}
	}
	if len(row) > 0 {
		buttons = append(buttons, row)
	}
	buttons = append(buttons, []OrderCardButton{
		{Text: lang.T(l, "view_summary"), CallbackData: "summary"},
		{Text: lang.T(l, "view_orders"), CallbackData: "orders"},
	})
	return OrderCardContent{Text: text, Buttons: buttons}
}

// BuildCategoryCard shows the items of category i with −/+ buttons and the
// quantity currently in the draft. ok is false for an unknown category.
func BuildCategoryCard(l string, c *catalog.Catalog, i int, d *Draft) (card OrderCardContent, ok bool) {
	cat, ok := c.Category(i)
	if !ok {
		return OrderCardContent{}, false
	}
	summary, err := SummarizeDraft(d)
	if err != nil {
		return OrderCardContent{}, false
	}

	text := fmt.Sprintf(lang.T(l, "category_header"), EscapeMarkdown(cat.Name))
	text += "\n\n" + fmt.Sprintf(lang.T(l, "subtotal"), FormatEuro(summary.Total))

	var buttons [][]OrderCardButton
	for j, item := range cat.Items {
		label := fmt.Sprintf("%s – %s", item.Name, FormatEuro(item.Price))
		if q := d.Quantity(item.Key()); q > 0 {
			label = fmt.Sprintf("%d× %s", q, label)
		}
		idx := strconv.Itoa(i) + ":" + strconv.Itoa(j)
		buttons = append(buttons, []OrderCardButton{
			{Text: "−", CallbackData: "dec:" + idx},
			{Text: label, CallbackData: "noop"},
			{Text: "+", CallbackData: "inc:" + idx},
		})
	}
	buttons = append(buttons, []OrderCardButton{
		{Text: lang.T(l, "back_cats"), CallbackData: "cats"},
		{Text: lang.T(l, "view_summary"), CallbackData: "summary"},
	})
	return OrderCardContent{Text: text, Buttons: buttons}, true
}

// BuildDraftCard renders the draft summary with submit and clear actions.
func BuildDraftCard(l string, summary models.DraftSummary) OrderCardContent {
	if len(summary.Lines) == 0 {
		return OrderCardContent{
			Text:    lang.T(l, "summary_empty"),
			Buttons: [][]OrderCardButton{{{Text: lang.T(l, "back_cats"), CallbackData: "cats"}}},
		}
	}
	var sb strings.Builder
	sb.WriteString(lang.T(l, "summary_header"))
	sb.WriteString("\n\n")
	for _, line := range summary.Lines {
		fmt.Fprintf(&sb, "%s × %d → %s\n", EscapeMarkdown(line.ItemName), line.Quantity, FormatEuro(line.LineTotal))
	}
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf(lang.T(l, "total"), FormatEuro(summary.Total)))

	return OrderCardContent{
		Text: sb.String(),
		Buttons: [][]OrderCardButton{
			{{Text: lang.T(l, "submit"), CallbackData: "submit"}, {Text: lang.T(l, "clear"), CallbackData: "clear"}},
			{{Text: lang.T(l, "back_cats"), CallbackData: "cats"}},
		},
	}
}

// BuildLedgerCard renders every record, the per-item totals and the grand
// total. Row numbers are 1-based positions in records.
func BuildLedgerCard(l string, records []models.LedgerRecord, summary models.LedgerSummary) OrderCardContent {
	if len(records) == 0 {
		return OrderCardContent{
			Text:    lang.T(l, "ledger_empty"),
			Buttons: [][]OrderCardButton{{{Text: lang.T(l, "back_cats"), CallbackData: "cats"}}},
		}
	}

	var sb strings.Builder
	sb.WriteString(lang.T(l, "ledger_header"))
	sb.WriteString("\n\n")
	for i, r := range records {
		fmt.Fprintf(&sb, "%d. %s – %s × %d (%s) → %s · %s\n",
			i+1, EscapeMarkdown(r.CustomerName), EscapeMarkdown(r.Item), r.Quantity,
			FormatEuro(r.UnitPrice), FormatEuro(r.LineTotal), r.SubmittedAt.UTC().Format("2006-01-02 15:04"))
	}
	sb.WriteString("\n")
	sb.WriteString(lang.T(l, "per_item_header"))
	sb.WriteString("\n")
	for _, it := range summary.PerItem {
		fmt.Fprintf(&sb, "%s × %d → %s\n", EscapeMarkdown(it.Item), it.TotalQuantity, FormatEuro(it.TotalRevenue))
	}
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf(lang.T(l, "grand_total"), FormatEuro(summary.GrandTotal), summary.Customers))

	var buttons [][]OrderCardButton
	for i, r := range records {
		if i == MaxDeleteButtons {
			break
		}
		buttons = append(buttons, []OrderCardButton{{
			Text:         fmt.Sprintf(lang.T(l, "delete_row"), i+1, r.CustomerName, r.Item),
			CallbackData: recordCallback("ask", i, r),
		}})
	}
	buttons = append(buttons, []OrderCardButton{{Text: lang.T(l, "back_cats"), CallbackData: "cats"}})
	return OrderCardContent{Text: sb.String(), Buttons: buttons}
}

// BuildDeleteConfirmCard asks before deleting record r shown at position.
func BuildDeleteConfirmCard(l string, position int, r models.LedgerRecord) OrderCardContent {
	text := fmt.Sprintf(lang.T(l, "confirm_delete"), position+1,
		EscapeMarkdown(r.CustomerName), EscapeMarkdown(r.Item), r.Quantity, FormatEuro(r.LineTotal))
	return OrderCardContent{
		Text: text,
		Buttons: [][]OrderCardButton{{
			{Text: lang.T(l, "yes_delete"), CallbackData: recordCallback("del", position, r)},
			{Text: lang.T(l, "no_keep"), CallbackData: "orders"},
		}},
	}
}

// recordCallback addresses a record by its stable id, or by position for
// rows that were stored without one.
func recordCallback(action string, position int, r models.LedgerRecord) string {
	if r.ID != "" {
		return action + ":" + r.ID
	}
	return action + "p:" + strconv.Itoa(position)
}

var markdownEscaper = strings.NewReplacer("_", "\\_", "*", "\\*", "`", "\\`", "[", "\\[")

// EscapeMarkdown escapes user and catalog text for Telegram legacy Markdown.
func EscapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}
