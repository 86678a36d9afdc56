package message

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/twilio/twilio-go"
	api "github.com/twilio/twilio-go/rest/api/v2010"
)

// TwilioConfig holds credentials and routing for the SMS sink.
type TwilioConfig struct {
	AccountSID string
	AuthToken  string
	From       string
	// Recipients maps user names to E.164 phone numbers.
	Recipients map[string]string
	Timeout    time.Duration
}

// TwilioSink delivers messages as SMS through the Twilio REST API.
type TwilioSink struct {
	client *twilio.RestClient
	from   string
	book   map[string]string
}

// NewTwilioSink creates an SMS sink. Recipients not present in the
// directory are rejected at delivery time.
func NewTwilioSink(cfg TwilioConfig) (*TwilioSink, error) {
	if cfg.AccountSID == "" || cfg.AuthToken == "" {
		return nil, errors.New("missing twilio credentials")
	}
	if cfg.From == "" {
		return nil, errors.New("missing twilio sender number")
	}
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.AccountSID,
		Password: cfg.AuthToken,
	})
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	client.Client.SetTimeout(timeout)
	return &TwilioSink{client: client, from: cfg.From, book: cfg.Recipients}, nil
}

// Deliver implements Sink.
func (s *TwilioSink) Deliver(_ context.Context, userName, content string) error {
	to, ok := s.book[userName]
	if !ok {
		return fmt.Errorf("no phone number on record for %s", userName)
	}
	params := &api.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(s.from)
	params.SetBody(content)
	resp, err := s.client.Api.CreateMessage(params)
	if err != nil {
		return err
	}
	if resp.Sid == nil {
		return errors.New("missing message sid")
	}
	return nil
}
