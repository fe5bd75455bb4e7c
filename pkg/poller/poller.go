package poller

import (
	"context"
	"errors"
	"fmt"
	"time"

	"aup/pkg/logging"
	"aup/pkg/models"
)

// Poll timing. Fixed rather than adaptive: processing latency is
// unknown up front, so a fixed interval trades promptness against
// request volume, bounded by MaxWait.
const (
	DefaultInterval = 10 * time.Second
	DefaultMaxWait  = 10 * time.Minute
)

// StatusGetter queries the current status body of a production.
type StatusGetter interface {
	GetProduction(uuid string) (*models.Production, error)
}

// TerminalError reports a production that ended in an error state,
// including the locally declared timeout.
type TerminalError struct {
	State   models.State
	Message string
}

func (e *TerminalError) Error() string {
	return fmt.Sprintf("production %s: %s", e.State, e.Message)
}

// IsTimeout returns true if err is a poll deadline expiry.
func IsTimeout(err error) bool {
	var te *TerminalError
	return errors.As(err, &te) && te.State == models.StateTimedOut
}

// Poller repeatedly queries a production until it reaches a terminal
// state or the wall-clock deadline expires. Transport failures during
// polling are transient: the deadline bounds them.
type Poller struct {
	Client   StatusGetter
	Interval time.Duration
	MaxWait  time.Duration
	Sleep    func(time.Duration)
	Logger   *logging.Logger
}

// New creates a poller with the default interval and deadline.
func New(client StatusGetter, logger *logging.Logger) *Poller {
	return &Poller{
		Client:   client,
		Interval: DefaultInterval,
		MaxWait:  DefaultMaxWait,
		Sleep:    time.Sleep,
		Logger:   logger,
	}
}

// Wait blocks until the production reaches a terminal state. On
// success it returns the full terminal status body. Error terminals
// and deadline expiry come back as *TerminalError.
func (p *Poller) Wait(ctx context.Context, uuid string) (*models.Production, error) {
	log := p.Logger.WithField("production", uuid)

	var elapsed time.Duration
	for elapsed < p.MaxWait {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("polling canceled: %w", ctx.Err())
		default:
		}

		p.Sleep(p.Interval)
		elapsed += p.Interval

		prod, err := p.Client.GetProduction(uuid)
		if err != nil {
			log.Warn("Status check failed, retrying", map[string]interface{}{
				"error":   err.Error(),
				"elapsed": elapsed.String(),
			})
			continue
		}

		state := prod.State()
		log.Info(fmt.Sprintf("Status: %s", prod.StatusString), map[string]interface{}{
			"elapsed": elapsed.String(),
		})

		if state == models.StateSucceeded {
			return prod, nil
		}
		if state.IsError() {
			msg := prod.ErrorMessage
			if msg == "" {
				msg = "unknown error"
			}
			return nil, &TerminalError{State: state, Message: msg}
		}
	}

	return nil, &TerminalError{
		State:   models.StateTimedOut,
		Message: fmt.Sprintf("no terminal state after %s", p.MaxWait),
	}
}
