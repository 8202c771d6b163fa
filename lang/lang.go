package lang

import "fmt"

const (
	It = "it"
	En = "en"
)

// Valid reports whether code is a supported language.
func Valid(code string) bool {
	return code == It || code == En
}

// T returns the message for key in the given language, formatted with args.
// Unknown languages fall back to Italian; unknown keys return the key.
func T(code, key string, args ...interface{}) string {
	m, ok := messages[code]
	if !ok {
		m = messages[It]
	}
	s, ok := m[key]
	if !ok {
		s, ok = messages[It][key]
		if !ok {
			return key
		}
	}
	if len(args) > 0 {
		return fmt.Sprintf(s, args...)
	}
	return s
}

var messages = map[string]map[string]string{
	It: {
		"welcome":            "🍽️ *Mister TAMO – gestore ordini*\n\nSeleziona le quantità per ogni prodotto desiderato. I prezzi sono in euro e comprendono il servizio al tavolo.",
		"choose_category":    "Scegli una categoria:",
		"category_header":    "📋 *%s*",
		"subtotal":           "Subtotale: *%s*",
		"view_summary":       "🧾 Riepilogo ordine",
		"view_orders":        "📊 Tutti gli ordini",
		"back_cats":          "⬅️ Categorie",
		"summary_header":     "🧾 *Riepilogo ordine*",
		"summary_empty":      "Nessun prodotto selezionato. Usa i menu per aggiungere articoli al tuo ordine.",
		"total":              "*Totale:* %s",
		"submit":             "✅ Invia ordine",
		"clear":              "🗑 Svuota",
		"draft_cleared":      "Ordine svuotato.",
		"ask_name":           "Scrivi il tuo nome per inviare l'ordine:",
		"name_required":      "Il nome non può essere vuoto. Scrivi il tuo nome:",
		"order_saved":        "✅ Grazie %s! Ordine registrato: %d righe, totale %s.",
		"save_failed":        "❌ Non è stato possibile salvare l'ordine. Riprova.",
		"invalid_quantity":   "Quantità non valida.",
		"unknown_item":       "Prodotto non trovato.",
		"ledger_header":      "📊 *Tutti gli ordini*",
		"ledger_empty":       "Ancora nessun ordine.",
		"ledger_unavailable": "ℹ️ L'archivio ordini non è leggibile al momento: viene mostrato vuoto. I nuovi ordini funzionano normalmente.",
		"per_item_header":    "*Totali per prodotto*",
		"grand_total":        "*Totale complessivo:* %s (%d persone)",
		"delete_row":         "🗑 %d. %s – %s",
		"confirm_delete":     "Eliminare la riga %d?\n%s – %s × %d → %s",
		"yes_delete":         "Sì, elimina",
		"no_keep":            "No",
		"deleted":            "Riga eliminata: %s – %s × %d.",
		"not_found":          "⚠️ La riga non esiste più. Aggiorna l'elenco con /orders e riprova.",
		"delete_usage":       "Uso: /delete <numero riga>",
		"delete_failed":      "❌ Eliminazione non riuscita. Riprova.",
		"export_caption":     "Ordini esportati: %d righe.",
		"export_failed":      "❌ Esportazione non riuscita.",
		"choose_lang":        "Scegli la lingua / Choose language:",
		"language_changed":   "Lingua impostata: italiano.",
		"cmd_start":          "Menu e nuovo ordine",
		"cmd_summary":        "Riepilogo del mio ordine",
		"cmd_orders":         "Tutti gli ordini",
		"cmd_clear":          "Svuota il mio ordine",
		"cmd_export":         "Esporta ordini in CSV",
		"cmd_language":       "Cambia lingua",
	},
	En: {
		"welcome":            "🍽️ *Mister TAMO – order manager*\n\nPick a quantity for each product you want. Prices are in euros and include table service.",
		"choose_category":    "Choose a category:",
		"category_header":    "📋 *%s*",
		"subtotal":           "Subtotal: *%s*",
		"view_summary":       "🧾 Order summary",
		"view_orders":        "📊 All orders",
		"back_cats":          "⬅️ Categories",
		"summary_header":     "🧾 *Order summary*",
		"summary_empty":      "No products selected. Use the menu to add items to your order.",
		"total":              "*Total:* %s",
		"submit":             "✅ Submit order",
		"clear":              "🗑 Clear",
		"draft_cleared":      "Order cleared.",
		"ask_name":           "Type your name to submit the order:",
		"name_required":      "Name cannot be empty. Type your name:",
		"order_saved":        "✅ Thanks %s! Order saved: %d lines, total %s.",
		"save_failed":        "❌ Could not save the order. Please try again.",
		"invalid_quantity":   "Invalid quantity.",
		"unknown_item":       "Product not found.",
		"ledger_header":      "📊 *All orders*",
		"ledger_empty":       "No orders yet.",
		"ledger_unavailable": "ℹ️ The order store cannot be read right now, so it is shown as empty. New orders still work.",
		"per_item_header":    "*Totals per product*",
		"grand_total":        "*Grand total:* %s (%d people)",
		"delete_row":         "🗑 %d. %s – %s",
		"confirm_delete":     "Delete row %d?\n%s – %s × %d → %s",
		"yes_delete":         "Yes, delete",
		"no_keep":            "No",
		"deleted":            "Row deleted: %s – %s × %d.",
		"not_found":          "⚠️ That row no longer exists. Refresh the list with /orders and try again.",
		"delete_usage":       "Usage: /delete <row number>",
		"delete_failed":      "❌ Delete failed. Please try again.",
		"export_caption":     "Exported orders: %d lines.",
		"export_failed":      "❌ Export failed.",
		"choose_lang":        "Scegli la lingua / Choose language:",
		"language_changed":   "Language set: English.",
		"cmd_start":          "Menu and new order",
		"cmd_summary":        "My order summary",
		"cmd_orders":         "All orders",
		"cmd_clear":          "Clear my order",
		"cmd_export":         "Export orders as CSV",
		"cmd_language":       "Change language",
	},
}
