package bot

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/damon-houk/exchange-quotes-bot/internal/application/service"
	"github.com/damon-houk/exchange-quotes-bot/internal/domain/entity"
	"github.com/damon-houk/exchange-quotes-bot/internal/infrastructure/logger"
	"github.com/damon-houk/exchange-quotes-bot/internal/infrastructure/middleware"
	"github.com/damon-houk/exchange-quotes-bot/internal/metrics"
)

// Replier delivers replies to a chat
type Replier interface {
	SendText(ctx context.Context, chatID int64, text string) error
	SendPhoto(ctx context.Context, chatID int64, name string, png []byte) error
}

// ChartRenderer draws a rate history as a PNG image
type ChartRenderer interface {
	Render(title string, points []entity.RatePoint) ([]byte, error)
}

// HandlerFunc answers one command
type HandlerFunc func(ctx context.Context, args []string) (*Reply, error)

var digitsOnly = regexp.MustCompile(`^[0-9]+$`)

// Dispatcher routes chat commands to their handlers and sends the replies
type Dispatcher struct {
	rates    *service.RateService
	history  *service.HistoryService
	charts   ChartRenderer
	replier  Replier
	logger   logger.Logger
	metrics  *metrics.Metrics
	handlers map[string]HandlerFunc
}

// NewDispatcher creates a dispatcher for the list, exchange and history commands
func NewDispatcher(rates *service.RateService, history *service.HistoryService, charts ChartRenderer,
	replier Replier, log logger.Logger, m *metrics.Metrics) *Dispatcher {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	d := &Dispatcher{
		rates:   rates,
		history: history,
		charts:  charts,
		replier: replier,
		logger:  log,
		metrics: m,
	}

	d.handlers = map[string]HandlerFunc{
		"start":    d.help,
		"help":     d.help,
		"list":     d.withFreshRates(d.listRates),
		"exchange": d.withFreshRates(d.exchange),
		"history":  d.withFreshRates(d.rateHistory),
	}
	return d
}

// Dispatch handles one incoming message. Messages that are not commands are
// ignored. Only failures to deliver the reply are returned.
func (d *Dispatcher) Dispatch(ctx context.Context, req Request) error {
	// Plain chat messages get no reply
	cmd, ok := ParseCommand(req.Text)
	if !ok {
		return nil
	}

	// Give the command a request ID if the transport did not
	if middleware.GetRequestID(ctx) == "unknown" {
		ctx = middleware.WithRequestID(ctx, middleware.NewRequestID())
	}
	requestID := middleware.GetRequestID(ctx)

	// Unknown commands get the help text
	handler, known := d.handlers[cmd.Name]
	if !known {
		cmd.Name = "unknown"
		handler = d.help
	}

	d.logger.Debug("Handling command", map[string]interface{}{
		"request_id": requestID,
		"chat_id":    req.ChatID,
		"command":    cmd.Name,
		"args":       cmd.Args,
	})

	// Run the command and turn any error into a user reply
	reply, err := handler(ctx, cmd.Args)
	outcome := metrics.OutcomeOK
	if err != nil {
		reply, outcome = errorReply(cmd.Name, err)

		fields := map[string]interface{}{
			"request_id": requestID,
			"chat_id":    req.ChatID,
			"command":    cmd.Name,
			"error":      err.Error(),
		}
		if outcome == metrics.OutcomeFailed {
			d.logger.Warn("Command failed", fields)
		} else {
			d.logger.Info("Command rejected", fields)
		}
	}
	d.metrics.ObserveCommand(cmd.Name, outcome)

	// Send reply
	if err := d.send(ctx, req.ChatID, reply); err != nil {
		d.logger.Error("Failed to send reply", map[string]interface{}{
			"request_id": requestID,
			"chat_id":    req.ChatID,
			"command":    cmd.Name,
			"error":      err.Error(),
		})
		return fmt.Errorf("failed to send reply: %w", err)
	}
	return nil
}

func (d *Dispatcher) send(ctx context.Context, chatID int64, reply *Reply) error {
	if reply.Photo != nil {
		return d.replier.SendPhoto(ctx, chatID, reply.PhotoName, reply.Photo)
	}
	return d.replier.SendText(ctx, chatID, reply.Text)
}

// withFreshRates refreshes a stale rates cache before running next
func (d *Dispatcher) withFreshRates(next HandlerFunc) HandlerFunc {
	return func(ctx context.Context, args []string) (*Reply, error) {
		if err := d.rates.RefreshRates(ctx); err != nil {
			return nil, err
		}
		return next(ctx, args)
	}
}

func (d *Dispatcher) help(ctx context.Context, args []string) (*Reply, error) {
	return textReply(helpText), nil
}

// listRates answers /list
func (d *Dispatcher) listRates(ctx context.Context, args []string) (*Reply, error) {
	return textReply(formatRates(d.rates.ListRates())), nil
}

// exchange answers /exchange <amount> <cur1> to <cur2>
func (d *Dispatcher) exchange(ctx context.Context, args []string) (*Reply, error) {
	if len(args) != 4 || !strings.EqualFold(args[2], "to") {
		return nil, entity.ErrUsage
	}

	// Parse amount
	amount, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", entity.ErrInvalidAmount, args[0])
	}

	conversion, err := d.rates.Convert(ctx, amount, args[1], args[3])
	if err != nil {
		return nil, err
	}
	return textReply(formatConversion(conversion)), nil
}

// rateHistory answers /history <cur1>/<cur2> over <days> [days]
func (d *Dispatcher) rateHistory(ctx context.Context, args []string) (*Reply, error) {
	if len(args) < 3 {
		return nil, entity.ErrUsage
	}

	// Split the pair on its last slash
	pair := args[0]
	slash := strings.LastIndexByte(pair, '/')
	if slash < 0 {
		return nil, entity.ErrUsage
	}
	symbol, base := pair[:slash], pair[slash+1:]

	// Days must be plain digits
	if !digitsOnly.MatchString(args[2]) {
		return nil, fmt.Errorf("%w: %q", entity.ErrInvalidDayCount, args[2])
	}
	days, err := strconv.Atoi(args[2])
	if err != nil {
		return nil, fmt.Errorf("%w: %q", entity.ErrInvalidDayCount, args[2])
	}

	history, err := d.history.History(ctx, symbol, base, days)
	if err != nil {
		return nil, err
	}

	// Render chart
	png, err := d.charts.Render(history.Query.Title(), history.Points)
	if err != nil {
		return nil, fmt.Errorf("failed to render chart: %w", err)
	}
	return photoReply(chartFileName, png), nil
}
