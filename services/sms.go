package services

import (
	"context"
	"log"

	"hoa-server/entities"
)

// LogSMS is the SMS sender; no gateway is wired, so messages are logged.
type LogSMS struct{}

func (LogSMS) Send(_ context.Context, n entities.Notification) error {
	log.Printf("[sms] To: %s - %s", n.To, n.Body)
	return nil
}
