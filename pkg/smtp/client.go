package smtp

import (
	"context"
	"fmt"
	"html"
	"regexp"
	"strings"
	"time"

	"github.com/yummyhouse/waitlist-api/pkg/circuitbreaker"
	"github.com/wneessen/go-mail"
)

// Encryption modes accepted by Config.Encryption. "none" is the default and
// matches a local MailDev relay; "starttls" and "ssl" cover real providers.
const (
	EncryptionNone     = "none"
	EncryptionStartTLS = "starttls"
	EncryptionSSL      = "ssl"
)

type Config struct {
	Host        string
	Port        int
	Auth        bool
	Username    string
	Password    string
	Encryption  string
	FromAddress string
	FromName    string
	ReplyTo     string
	Timeout     time.Duration
}

// Message is a single outbound email. PlainText is derived from HTMLBody
// when empty, so every message carries a text/plain alternative.
type Message struct {
	To        string
	Subject   string
	HTMLBody  string
	PlainText string
}

// Transport is the delivery surface the rest of the application depends
// on. Client is the production implementation; tests substitute fakes.
type Transport interface {
	Send(ctx context.Context, msg *Message) error
	Probe(ctx context.Context) error
}

// Client delivers mail over one configured SMTP relay. Each Send builds a
// fresh message, so no recipient or attachment state leaks between sends.
// A circuit breaker guards the relay: once it trips, sends fail fast until
// the relay recovers, which keeps a long bulk loop from stalling on a dead
// upstream.
type Client struct {
	cfg     *Config
	breaker circuitbreaker.CircuitBreaker
}

func NewClient(cfg *Config) (*Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("smtp: config is nil")
	}
	if strings.TrimSpace(cfg.Host) == "" {
		return nil, fmt.Errorf("smtp: host is not configured")
	}
	if cfg.Port <= 0 {
		return nil, fmt.Errorf("smtp: invalid port %d", cfg.Port)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}

	return &Client{
		cfg:     cfg,
		breaker: circuitbreaker.NewCircuitBreaker(nil),
	}, nil
}

func (c *Client) newMailClient() (*mail.Client, error) {
	opts := []mail.Option{
		mail.WithPort(c.cfg.Port),
		mail.WithTimeout(c.cfg.Timeout),
	}

	if c.cfg.Auth {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(c.cfg.Username),
			mail.WithPassword(c.cfg.Password),
		)
	}

	switch strings.ToLower(strings.TrimSpace(c.cfg.Encryption)) {
	case EncryptionSSL:
		opts = append(opts, mail.WithSSL())
	case EncryptionStartTLS:
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
	default:
		// Plaintext relay (MailDev and friends).
		opts = append(opts, mail.WithTLSPolicy(mail.NoTLS))
	}

	return mail.NewClient(c.cfg.Host, opts...)
}

func (c *Client) buildMessage(msg *Message) (*mail.Msg, error) {
	m := mail.NewMsg()

	if err := m.FromFormat(c.cfg.FromName, c.cfg.FromAddress); err != nil {
		return nil, fmt.Errorf("smtp: set from: %w", err)
	}
	if err := m.To(msg.To); err != nil {
		return nil, fmt.Errorf("smtp: set recipient: %w", err)
	}
	if c.cfg.ReplyTo != "" {
		if err := m.ReplyToFormat(c.cfg.FromName, c.cfg.ReplyTo); err != nil {
			return nil, fmt.Errorf("smtp: set reply-to: %w", err)
		}
	}

	m.Subject(msg.Subject)
	m.SetBodyString(mail.TypeTextHTML, msg.HTMLBody)

	alt := msg.PlainText
	if alt == "" {
		alt = StripTags(msg.HTMLBody)
	}
	m.AddAlternativeString(mail.TypeTextPlain, alt)

	return m, nil
}

// Send delivers one message through the shared relay configuration.
func (c *Client) Send(ctx context.Context, msg *Message) error {
	m, err := c.buildMessage(msg)
	if err != nil {
		return err
	}

	return c.breaker.Call(func() error {
		client, err := c.newMailClient()
		if err != nil {
			return fmt.Errorf("smtp: create client: %w", err)
		}
		if err := client.DialAndSendWithContext(ctx, m); err != nil {
			return fmt.Errorf("smtp: deliver to %s: %w", msg.To, err)
		}
		return nil
	})
}

// Probe opens and immediately closes a transient connection to the relay.
// It never touches the breaker or shared sender state, so a failing probe
// cannot poison subsequent sends.
func (c *Client) Probe(ctx context.Context) error {
	client, err := c.newMailClient()
	if err != nil {
		return fmt.Errorf("smtp: create client: %w", err)
	}

	if err := client.DialWithContext(ctx); err != nil {
		return fmt.Errorf("smtp: dial %s:%d: %w", c.cfg.Host, c.cfg.Port, err)
	}

	if err := client.Close(); err != nil {
		return fmt.Errorf("smtp: close: %w", err)
	}

	return nil
}

var (
	tagPattern        = regexp.MustCompile(`(?s)<(script|style)\b[^>]*>.*?</(script|style)>|<[^>]*>`)
	whitespacePattern = regexp.MustCompile(`[ \t]*\n[ \t\n]*`)
)

// StripTags converts an HTML body into a rough plain-text fallback by
// dropping tags and collapsing the leftover whitespace.
func StripTags(s string) string {
	text := tagPattern.ReplaceAllString(s, "")
	text = html.UnescapeString(text)
	text = whitespacePattern.ReplaceAllString(text, "\n")
	return strings.TrimSpace(text)
}
