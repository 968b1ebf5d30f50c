package courier

import (
	"context"
	"os"
	"strconv"

	"github.com/go-gomail/gomail"

	log "github.com/kmatton/speech-feature-io/logger"
	"github.com/kmatton/speech-feature-io/utility/zip"
)

// SendEmail mails the run result, zipping any attachments and skipping
// the archive when it would be too large to send.
func SendEmail(ctx context.Context, recipients []string, subject string, msg string,
	attachments []string) *log.Status {
	if len(recipients) == 0 {
		return nil
	}
	senderEmail := os.Getenv(`SMTP_SENDER_EMAIL`)
	password := os.Getenv(`SMTP_PASSWORD`)
	smtpHost := os.Getenv(`SMTP_HOST_NAME`)
	smtpPort, _ := strconv.Atoi(os.Getenv(`SMTP_HOST_PORT`))
	m := gomail.NewMessage()
	m.SetHeader(`From`, senderEmail)
	m.SetHeader(`To`, recipients...)
	m.SetHeader(`Subject`, subject)
	m.SetBody(`text/plain`, msg)
	if len(attachments) > 0 {
		zipFile, zipSize, status := zip.ZipFiles(ctx, attachments)
		if status != nil {
			log.Warn(ctx, `Failed to create zip for attachment`, status)
		} else if zipSize < 2000000 {
			m.Attach(zipFile)
		}
	}
	d := gomail.NewDialer(smtpHost, smtpPort, senderEmail, password)
	err := d.DialAndSend(m)
	if err != nil {
		return log.Error(ctx, 500, err, `Error sending email`)
	}
	log.Info(ctx, `Email sent`, smtpHost, smtpPort, subject, recipients)
	return nil
}
