package notification

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"text/template"
	"time"

	"github.com/shopspring/decimal"
)

type MailerConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	AppName  string
	AppURL   string
}

// SendFunc matches smtp.SendMail.
type SendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// Mailer sends order confirmation emails over SMTP.
type Mailer struct {
	cfg  MailerConfig
	send SendFunc
}

func NewMailer(cfg MailerConfig) *Mailer {
	return &Mailer{cfg: cfg, send: smtp.SendMail}
}

// WithSender replaces the SMTP transport.
func (m *Mailer) WithSender(send SendFunc) *Mailer {
	m.send = send
	return m
}

var confirmationTmpl = template.Must(template.New("confirmation").Funcs(template.FuncMap{
	"money": func(d decimal.Decimal) string { return d.StringFixed(2) },
	"line": func(price decimal.Decimal, qty int) string {
		return price.Mul(decimal.NewFromInt(int64(qty))).StringFixed(2)
	},
}).Parse(`Hi {{.UserName}},

Thanks for your order #{{.Order.ID}} placed on {{.Order.CreatedAt.Format "02 Jan 2006"}}.

Order Summary:
{{range .Order.Items}}- {{if .Product}}{{.Product.Name}}{{else}}Deleted product{{end}} x {{.Quantity}} - {{line .Price .Quantity}} EUR
{{end}}
Total: {{money .Order.Total}} EUR

View your order: {{.OrderURL}}

Thanks,
{{.AppName}}
`))

type confirmationData struct {
	*OrderPlaced
	OrderURL string
	AppName  string
}

// Render builds the full RFC 5322 message for n.
func (m *Mailer) Render(n *OrderPlaced) ([]byte, error) {
	var body bytes.Buffer
	err := confirmationTmpl.Execute(&body, confirmationData{
		OrderPlaced: n,
		OrderURL:    strings.TrimRight(m.cfg.AppURL, "/") + "/api/orders/" + n.Order.ID,
		AppName:     m.cfg.AppName,
	})
	if err != nil {
		return nil, fmt.Errorf("render confirmation: %w", err)
	}

	var msg bytes.Buffer
	fmt.Fprintf(&msg, "From: %s\r\n", m.cfg.From)
	fmt.Fprintf(&msg, "To: %s\r\n", n.UserEmail)
	fmt.Fprintf(&msg, "Subject: Order Confirmation #%s\r\n", n.Order.ID)
	fmt.Fprintf(&msg, "Date: %s\r\n", time.Now().Format(time.RFC1123Z))
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=UTF-8\r\n\r\n")
	msg.WriteString(strings.ReplaceAll(body.String(), "\n", "\r\n"))
	return msg.Bytes(), nil
}

func (m *Mailer) NotifyOrderPlaced(ctx context.Context, n *OrderPlaced) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg, err := m.Render(n)
	if err != nil {
		return err
	}

	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}
	addr := net.JoinHostPort(m.cfg.Host, strconv.Itoa(m.cfg.Port))
	if err := m.send(addr, auth, m.cfg.From, []string{n.UserEmail}, msg); err != nil {
		return fmt.Errorf("send confirmation to %s: %w", n.UserEmail, err)
	}
	return nil
}
