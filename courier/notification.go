package courier

import (
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	log "github.com/entn-at/ts-asr/logger"
)

// Notification reports the outcome of a job to the addresses given in the
// request. Phone numbers get an SMS, email addresses get the full message
// with the report files attached.
func (b *Courier) Notification(status *log.Status, duration time.Duration) *log.Status {
	var st *log.Status
	if !testing.Testing() || b.IsUnitTest {
		var subject string
		var message string
		var recipients []string
		if status == nil {
			subject = "SUCCESS: " + b.dataset
			message = b.successMsg(duration)
			recipients = b.notifyOk
		} else {
			subject = "FAILED: " + b.dataset
			message = b.failureMsg(status, duration)
			recipients = b.notifyErr
		}
		st = SendMessage(b.ctx, phones(recipients), subject, message)
		st = SendEmail(b.ctx, emails(recipients), subject, message, b.outputs)
	}
	return st
}

func (b *Courier) failureMsg(status *log.Status, duration time.Duration) string {
	var message []string
	message = append(message, "FAILED: "+b.dataset)
	message = append(message, status.Message)
	message = append(message, "Duration: "+duration.String())
	message = append(message, status.Trace)
	message = append(message, status.Request)
	return strings.Join(message, "\n")
}

func (b *Courier) successMsg(duration time.Duration) string {
	var message []string
	message = append(message, "SUCCESS: "+b.dataset)
	message = append(message, "Duration: "+duration.String())
	s3Client, status := b.presignedURLClient()
	if status == nil {
		for i, output := range b.outputs {
			message = append(message, output)
			if i < len(b.outputKeys) {
				signedURL := b.genLongPresignedURL(s3Client, b.outputKeys[i])
				message = append(message, signedURL)
			}
		}
	}
	return strings.Join(message, "\n")
}

func phones(addresses []string) []string {
	var result []string
	for _, a := range addresses {
		if strings.HasPrefix(a, "+") {
			result = append(result, a)
		}
	}
	return result
}

func emails(addresses []string) []string {
	var result []string
	for _, a := range addresses {
		if strings.Contains(a, "@") {
			result = append(result, a)
		}
	}
	return result
}

func (b *Courier) presignedURLClient() (*s3.S3, *log.Status) {
	sess, err := session.NewSession(&aws.Config{
		Region:           aws.String("us-west-2"),
		S3ForcePathStyle: aws.Bool(true),
	})
	if err != nil {
		return nil, log.Error(b.ctx, 500, err, "unable to create S3 presigned URL session")
	}
	return s3.New(sess), nil
}

func (b *Courier) genLongPresignedURL(client *s3.S3, key string) string {
	// V2 signing allows the longer expiration
	var input s3.GetObjectInput
	input.Bucket = aws.String(b.bucket)
	input.Key = aws.String(key)
	req, _ := client.GetObjectRequest(&input)
	req.Config.S3ForcePathStyle = aws.Bool(true)
	req.Handlers.Sign.PushBack(func(r *request.Request) {
		r.ExpireTime = time.Hour * 24 * 30 // 30 days
	})
	url, err := req.Presign(30 * 24 * time.Hour)
	if err != nil {
		log.Warn(b.ctx, err, "unable to sign URL for", key)
	}
	return url
}
