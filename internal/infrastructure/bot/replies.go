package bot

import (
	"errors"
	"fmt"
	"strings"

	"github.com/damon-houk/exchange-quotes-bot/internal/domain/entity"
	"github.com/damon-houk/exchange-quotes-bot/internal/metrics"
)

const (
	msgInvalidAmount = "Invalid amount for exchange."
	msgInvalidDays   = "Invalid amount of days."
	msgNoData        = "No exchange rate data is available for the selected currency."
	msgUnavailable   = "The exchange rate service is unavailable right now. Please try again later."
	msgInternal      = "Something went wrong. Please try again later."

	usageExchange = "Usage: /exchange <amount> <currency> to <currency>\nExample: /exchange 10 USD to CAD"
	usageHistory  = "Usage: /history <currency>/<currency> over <days> days\nExample: /history USD/CAD over 7 days"

	chartFileName = "chart.png"
)

var helpText = strings.Join([]string{
	"Available commands:",
	"/list - latest exchange rates against " + entity.BaseCurrency,
	"/exchange <amount> <currency> to <currency> - convert an amount",
	"/history <currency>/<currency> over <days> days - chart of recent rates",
}, "\n")

var usageByCommand = map[string]string{
	"exchange": usageExchange,
	"history":  usageHistory,
}

// Reply is what the bot sends back for a command
type Reply struct {
	Text      string
	Photo     []byte
	PhotoName string
}

func textReply(text string) *Reply {
	return &Reply{Text: text}
}

func photoReply(name string, png []byte) *Reply {
	return &Reply{Photo: png, PhotoName: name}
}

// errorReply maps a command error to the user-facing reply and metrics outcome
func errorReply(command string, err error) (*Reply, string) {
	var currencyErr *entity.InvalidCurrencyError

	switch {
	case errors.As(err, &currencyErr):
		return textReply(fmt.Sprintf("Invalid currency: %s", currencyErr.Code)), metrics.OutcomeRejected
	case errors.Is(err, entity.ErrInvalidAmount):
		return textReply(msgInvalidAmount), metrics.OutcomeRejected
	case errors.Is(err, entity.ErrInvalidDayCount):
		return textReply(msgInvalidDays), metrics.OutcomeRejected
	case errors.Is(err, entity.ErrNoDataAvailable):
		return textReply(msgNoData), metrics.OutcomeRejected
	case errors.Is(err, entity.ErrUsage):
		if usage, ok := usageByCommand[command]; ok {
			return textReply(usage), metrics.OutcomeRejected
		}
		return textReply(helpText), metrics.OutcomeRejected
	case errors.Is(err, entity.ErrUpstreamFetch):
		return textReply(msgUnavailable), metrics.OutcomeFailed
	default:
		return textReply(msgInternal), metrics.OutcomeFailed
	}
}

// formatRates renders one "CODE: 0.00" line per rate
func formatRates(rates []entity.Rate) string {
	var b strings.Builder
	for _, rate := range rates {
		fmt.Fprintf(&b, "%s: %.2f\n", rate.Currency, rate.Value)
	}
	return b.String()
}

// formatConversion renders a conversion as "112.50 EUR"
func formatConversion(conversion *entity.Conversion) string {
	return fmt.Sprintf("%.2f %s", conversion.Result, conversion.To)
}
