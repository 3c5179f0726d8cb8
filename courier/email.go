package courier

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	log "github.com/entn-at/ts-asr/logger"
	"github.com/entn-at/ts-asr/utility/zip"
	"github.com/go-gomail/gomail"
)

// maxAttachmentSize keeps the zipped reports under common smtp limits.
const maxAttachmentSize = 2000000

func SendEmail(ctx context.Context, recipients []string, subject string, msg string,
	attachments []string) *log.Status {
	if len(recipients) == 0 {
		return nil
	}
	senderEmail := os.Getenv("SMTP_SENDER_EMAIL")
	password := os.Getenv("SMTP_PASSWORD")
	smtpHost := os.Getenv("SMTP_HOST_NAME")
	smtpPort, _ := strconv.Atoi(os.Getenv("SMTP_HOST_PORT"))

	m := gomail.NewMessage()
	m.SetHeader("From", senderEmail)
	m.SetHeader("To", recipients...)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", msg)
	if len(attachments) > 0 {
		target := strings.TrimSuffix(attachments[0], filepath.Ext(attachments[0])) + ".zip"
		zipSize, err := zip.ZipFiles(target, attachments)
		if err != nil {
			_ = log.Error(ctx, 500, err, "Failed to create zip for attachment")
		} else if zipSize < maxAttachmentSize {
			m.Attach(target)
		}
	}
	d := gomail.NewDialer(smtpHost, smtpPort, senderEmail, password)
	err := d.DialAndSend(m)
	if err != nil {
		return log.Error(ctx, 500, err, "Error sending email")
	}
	log.Info(ctx, "Email sent", smtpHost, smtpPort, subject, recipients)
	return nil
}
