// Package notify queues driver e-mails in Redis and delivers them over SMTP.
package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/smtp"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/abakymuk/DriverOS/internal/logger"
	"github.com/abakymuk/DriverOS/internal/metrics"
)

const (
	queueKey    = "driveros:mail"
	failedKey   = "driveros:mail:failed"
	maxAttempts = 3
)

type Job struct {
	Kind     string    `json:"kind"`
	To       string    `json:"to"`
	Name     string    `json:"name"`
	Subject  string    `json:"subject"`
	Body     string    `json:"body"`
	Attempts int       `json:"attempts"`
	QueuedAt time.Time `json:"queuedAt"`
}

type SMTPConfig struct {
	Host     string
	Port     string
	User     string
	Pass     string
	From     string
	FromName string
}

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

type Service struct {
	redis   *redis.Client
	smtp    SMTPConfig
	send    sendFunc
	backoff time.Duration
}

func New(rdb *redis.Client, cfg SMTPConfig) *Service {
	return &Service{
		redis:   rdb,
		smtp:    cfg,
		send:    smtp.SendMail,
		backoff: 5 * time.Second,
	}
}

func (s *Service) enqueue(ctx context.Context, job Job) error {
	job.QueuedAt = time.Now().UTC()

	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal mail job: %w", err)
	}

	if err := s.redis.LPush(ctx, queueKey, string(data)).Err(); err != nil {
		metrics.RecordEmail(job.Kind, "queue_failed")
		return fmt.Errorf("queue mail to %s: %w", job.To, err)
	}

	metrics.RecordEmail(job.Kind, "queued")
	logger.Debug("mail queued", "kind", job.Kind, "to", job.To)
	return nil
}

// Run drains the queue until ctx is cancelled.
func (s *Service) Run(ctx context.Context) {
	logger.Info("mail worker started")
	for {
		select {
		case <-ctx.Done():
			logger.Info("mail worker stopped")
			return
		default:
			s.processNext(ctx)
		}
	}
}

func (s *Service) processNext(ctx context.Context) {
	result, err := s.redis.BRPop(ctx, 2*time.Second, queueKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) || ctx.Err() != nil {
			return
		}
		logger.Warn("mail queue unavailable", "error", err.Error())
		s.pause(ctx)
		return
	}

	var job Job
	if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
		logger.Error("dropping malformed mail job", "error", err.Error())
		return
	}

	job.Attempts++
	if err := s.deliver(job); err != nil {
		logger.Warn("mail delivery failed", "to", job.To, "attempt", job.Attempts, "error", err.Error())
		s.requeueOrFail(ctx, job, err)
		return
	}

	metrics.RecordEmail(job.Kind, "sent")
	logger.Info("mail sent", "kind", job.Kind, "to", job.To)
}

func (s *Service) requeueOrFail(ctx context.Context, job Job, cause error) {
	if job.Attempts >= maxAttempts {
		metrics.RecordEmail(job.Kind, "failed")
		data, _ := json.Marshal(map[string]any{
			"job":      job,
			"error":    cause.Error(),
			"failedAt": time.Now().UTC(),
		})
		if err := s.redis.LPush(context.WithoutCancel(ctx), failedKey, string(data)).Err(); err != nil {
			logger.Error("could not park failed mail", "to", job.To, "error", err.Error())
		}
		return
	}

	s.pause(ctx)

	data, _ := json.Marshal(job)
	if err := s.redis.LPush(context.WithoutCancel(ctx), queueKey, string(data)).Err(); err != nil {
		logger.Error("could not requeue mail", "to", job.To, "error", err.Error())
	}
}

func (s *Service) pause(ctx context.Context) {
	select {
	case <-ctx.Done():
	case <-time.After(s.backoff):
	}
}

func (s *Service) deliver(job Job) error {
	msg := fmt.Sprintf("From: %s <%s>\r\n", s.smtp.FromName, s.smtp.From)
	msg += fmt.Sprintf("To: %s\r\n", job.To)
	msg += fmt.Sprintf("Subject: %s\r\n", job.Subject)
	msg += "Content-Type: text/plain; charset=UTF-8\r\n"
	msg += "\r\n" + job.Body

	var auth smtp.Auth
	if s.smtp.User != "" && s.smtp.Pass != "" {
		auth = smtp.PlainAuth("", s.smtp.User, s.smtp.Pass, s.smtp.Host)
	}

	return s.send(s.smtp.Host+":"+s.smtp.Port, auth, s.smtp.From, []string{job.To}, []byte(msg))
}

// QueueLength reports pending jobs and updates the gauge.
func (s *Service) QueueLength(ctx context.Context) int64 {
	n, err := s.redis.LLen(ctx, queueKey).Result()
	if err != nil {
		return 0
	}
	metrics.EmailQueueLength.Set(float64(n))
	return n
}
