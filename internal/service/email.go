package service

import (
	"context"
	"fmt"
	"time"

	"gopkg.in/gomail.v2"
)

type emailService struct {
	host     string
	port     int
	username string
	password string
	from     string
}

func NewEmailService(host string, port int, username, password, from string) EmailService {
	return &emailService{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
	}
}

func (s *emailService) SendDueReminder(ctx context.Context, email, username, bookTitle string, dueDate time.Time) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", email)
	m.SetHeader("Subject", fmt.Sprintf("Reminder: \"%s\" is due today", bookTitle))

	body := fmt.Sprintf("Hello %s,\n\nYour borrowed book \"%s\" is due on %s. Please return or renew it to avoid late fines.\n\nBest regards,\nThe Library Team",
		username, bookTitle, dueDate.Format("2006-01-02"))
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(s.host, s.port, s.username, s.password)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send due reminder: %w", err)
	}

	return nil
}

func (s *emailService) SendOverdueNotice(ctx context.Context, email, username, bookTitle string, overdueDays int, fine float64) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", email)
	m.SetHeader("Subject", fmt.Sprintf("Overdue: \"%s\"", bookTitle))

	body := fmt.Sprintf("Hello %s,\n\nYour borrowed book \"%s\" is %d day(s) overdue. The accrued fine is currently %.2f.\n\nPlease return the book as soon as possible.\n\nBest regards,\nThe Library Team",
		username, bookTitle, overdueDays, fine)
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(s.host, s.port, s.username, s.password)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send overdue notice: %w", err)
	}

	return nil
}
