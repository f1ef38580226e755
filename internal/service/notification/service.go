package notification

import (
	"context"
	"fmt"

	gomail "gopkg.in/gomail.v2"

	"github.com/clinicdesk/clinic-api/internal/model"
)

// Service sends appointment emails to patients. Consumed by the
// worker, which reacts to appointment events off the broker.
type Service interface {
	SendBookingConfirmation(ctx context.Context, to string, apt *model.Appointment) error
	SendReschedule(ctx context.Context, to string, apt *model.Appointment) error
	SendCancellation(ctx context.Context, to string, apt *model.Appointment) error
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type service struct {
	dialer *gomail.Dialer
	from   string
}

func NewService(cfg SMTPConfig) Service {
	return &service{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

func (s *service) SendBookingConfirmation(ctx context.Context, to string, apt *model.Appointment) error {
	subject := "Appointment confirmed"
	body := fmt.Sprintf("Your appointment on %s at %s has been booked.", apt.Date, apt.StartTime)
	return s.send(to, subject, body)
}

func (s *service) SendReschedule(ctx context.Context, to string, apt *model.Appointment) error {
	subject := "Appointment rescheduled"
	body := fmt.Sprintf("Your appointment has been moved to %s at %s.", apt.Date, apt.StartTime)
	return s.send(to, subject, body)
}

func (s *service) SendCancellation(ctx context.Context, to string, apt *model.Appointment) error {
	subject := "Appointment cancelled"
	body := fmt.Sprintf("Your appointment on %s at %s has been cancelled.", apt.Date, apt.StartTime)
	return s.send(to, subject, body)
}

func (s *service) send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
