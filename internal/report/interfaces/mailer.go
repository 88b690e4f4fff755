package interfaces

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"mime"
	"net/smtp"
	"os"
	"path/filepath"
	"strings"

	"solar-dgr/internal/observability/metrics"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Mailer sends report artifacts over SMTP.
type Mailer struct {
	addr string
	from string
}

// NewMailer constructs a mailer for the given SMTP address.
func NewMailer(addr, from string) (*Mailer, error) {
	if addr == "" {
		return nil, errors.New("mailer: empty smtp address")
	}
	if from == "" {
		return nil, errors.New("mailer: empty sender")
	}
	return &Mailer{addr: addr, from: from}, nil
}

// SendReport mails the workbook at path as an attachment.
func (m *Mailer) SendReport(to []string, subject, body, attachment string) error {
	err := m.send(to, subject, body, attachment)
	if err != nil {
		metrics.IncMailSend(metrics.ResultError)
		return err
	}
	metrics.IncMailSend(metrics.ResultSuccess)
	return nil
}

func (m *Mailer) send(to []string, subject, body, attachment string) error {
	if len(to) == 0 {
		return errors.New("mailer: no recipients")
	}
	payload, err := os.ReadFile(attachment)
	if err != nil {
		return fmt.Errorf("mailer: read attachment: %w", err)
	}
	message := buildMessage(m.from, to, subject, body, filepath.Base(attachment), payload)
	return smtp.SendMail(m.addr, nil, m.from, to, message)
}

func buildMessage(from string, to []string, subject, body, filename string, payload []byte) []byte {
	const boundary = "dgr-report-boundary"
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "From: %s\r\n", from)
	fmt.Fprintf(&buf, "To: %s\r\n", strings.Join(to, ", "))
	fmt.Fprintf(&buf, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", subject))
	buf.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&buf, "Content-Type: multipart/mixed; boundary=%q\r\n", boundary)
	buf.WriteString("\r\n")

	fmt.Fprintf(&buf, "--%s\r\n", boundary)
	buf.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
	buf.WriteString(body)
	buf.WriteString("\r\n")

	fmt.Fprintf(&buf, "--%s\r\n", boundary)
	fmt.Fprintf(&buf, "Content-Type: %s\r\n", xlsxContentType)
	buf.WriteString("Content-Transfer-Encoding: base64\r\n")
	fmt.Fprintf(&buf, "Content-Disposition: attachment; filename=%q\r\n\r\n", filename)

	encoded := base64.StdEncoding.EncodeToString(payload)
	for len(encoded) > 0 {
		line := encoded
		if len(line) > 76 {
			line = line[:76]
		}
		buf.WriteString(line)
		buf.WriteString("\r\n")
		encoded = encoded[len(line):]
	}
	fmt.Fprintf(&buf, "--%s--\r\n", boundary)

	return buf.Bytes()
}
