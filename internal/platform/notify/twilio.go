package notify

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/twilio/twilio-go"
	twilioapi "github.com/twilio/twilio-go/rest/api/v2010"
)

// TwilioSender sends SMS through the Twilio messaging API.
type TwilioSender struct {
	client *twilio.RestClient
	from   string
	logger zerolog.Logger
}

func NewTwilioSender(accountSID, authToken, from string, logger zerolog.Logger) *TwilioSender {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	return &TwilioSender{client: client, from: from, logger: logger}
}

// SendSMS implements SMSSender.
func (s *TwilioSender) SendSMS(_ context.Context, to, body string) error {
	params := &twilioapi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(s.from)
	params.SetBody(body)

	msg, err := s.client.Api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("send sms to %s: %w", to, err)
	}
	sid := ""
	if msg.Sid != nil {
		sid = *msg.Sid
	}
	s.logger.Info().Str("to", to).Str("sid", sid).Msg("sms sent")
	return nil
}

// NotifyAll sends body to every configured operator phone, logging failures
// and continuing.
func NotifyAll(ctx context.Context, sender SMSSender, logger zerolog.Logger, phones []string, body string) {
	for _, phone := range phones {
		if err := sender.SendSMS(ctx, phone, body); err != nil {
			logger.Error().Err(err).Str("to", phone).Msg("completion sms failed")
		}
	}
}
