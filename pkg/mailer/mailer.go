package mailer

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
)

type Message struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
}

type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// HTTPMailer posts messages as JSON to a transactional mail API.
type HTTPMailer struct {
	client *resty.Client
	url    string
	from   string
}

func NewHTTPMailer(url, apiKey, from string) *HTTPMailer {
	client := resty.New().
		SetTimeout(10 * time.Second).
		SetRetryCount(2).
		SetAuthToken(apiKey).
		SetHeader("Content-Type", "application/json")
	return &HTTPMailer{client: client, url: url, from: from}
}

func (m *HTTPMailer) Send(ctx context.Context, msg Message) error {
	resp, err := m.client.R().
		SetContext(ctx).
		SetBody(map[string]string{
			"from":    m.from,
			"to":      msg.To,
			"subject": msg.Subject,
			"text":    msg.Text,
		}).
		Post(m.url)
	if err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("send mail: status %d: %s", resp.StatusCode(), resp.String())
	}
	return nil
}

// LogMailer writes messages to the log instead of delivering them. Used when no mail
// API is configured.
type LogMailer struct {
	log logrus.FieldLogger
}

func NewLogMailer(log logrus.FieldLogger) *LogMailer {
	return &LogMailer{log: log}
}

func (m *LogMailer) Send(_ context.Context, msg Message) error {
	m.log.WithFields(logrus.Fields{
		"to":      msg.To,
		"subject": msg.Subject,
	}).Info(msg.Text)
	return nil
}
