// utils/money.go
package utils

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var gbpPrinter = message.NewPrinter(language.BritishEnglish)

// FormatGBP renders an amount as £x.xx for Discord messages and ledger notes.
func FormatGBP(amount float64) string {
	return gbpPrinter.Sprintf("£%.2f", amount)
}
