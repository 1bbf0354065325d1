package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	pubnub "github.com/pubnub/go"

	"ticket-scanner/models"
	"ticket-scanner/utils"
)

// CheckInNotifier pushes successful check-ins to the event's realtime
// channel so dashboards update without polling. Publishing is best effort;
// a broken notifier must never fail a scan, so calls go through a circuit
// breaker and errors are only logged.
type CheckInNotifier struct {
	pubnub  *pubnub.PubNub
	breaker *utils.CircuitBreaker
}

func NewCheckInNotifier(pn *pubnub.PubNub) *CheckInNotifier {
	return &CheckInNotifier{
		pubnub:  pn,
		breaker: utils.NewCircuitBreaker("pubnub-checkin"),
	}
}

func (n *CheckInNotifier) PublishCheckIn(ctx context.Context, eventID string, ticket models.ScanTicket) {
	if n == nil || n.pubnub == nil {
		return
	}

	channel := fmt.Sprintf("event-%s", eventID)
	_, err := n.breaker.Execute(ctx, func() (any, error) {
		_, _, err := n.pubnub.Publish().
			Channel(channel).
			Message(map[string]any{
				"type":       "check_in",
				"ticketId":   ticket.ID,
				"name":       ticket.Name,
				"ticketType": ticket.Type,
				"timestamp":  time.Now().UTC().Format(time.RFC3339),
			}).
			Execute()
		return nil, err
	})
	if err != nil {
		slog.Error("failed to publish check-in", "error", err, "channel", channel)
	}
}
