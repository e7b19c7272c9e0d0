package service

import (
	"context"
	"fmt"
	"strings"

	"gopkg.in/gomail.v2"

	"selfstore-backend/internal/domain"
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

func (s *emailService) SendInvoiceReceipt(ctx context.Context, email, name string, invoice *domain.InvoiceData) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", email)
	m.SetHeader("Subject", fmt.Sprintf("Booking confirmed — %s", invoice.Header.InvoiceRef))

	var b strings.Builder
	fmt.Fprintf(&b, "Hello %s,\n\nYour storage booking is confirmed.\n\n", name)
	fmt.Fprintf(&b, "Invoice: %s\nDates: %s to %s (%d days)\n\n",
		invoice.Header.InvoiceRef, invoice.Header.StartDate, invoice.Header.EndDate, invoice.Header.Days)
	for _, booking := range invoice.Bookings {
		fmt.Fprintf(&b, "  - Listing #%d x%d @ $%.2f/day: $%.2f\n",
			booking.ListingID, booking.Quantity,
			float64(booking.UnitPriceCents)/100, float64(booking.SubtotalCents)/100)
	}
	fmt.Fprintf(&b, "\nTotal paid: $%.2f (%s)\n\nBest regards,\nThe SelfStore Team",
		float64(invoice.Header.TotalCents)/100, invoice.Header.PaymentMethod)
	m.SetBody("text/plain", b.String())

	d := gomail.NewDialer(s.host, s.port, s.username, s.password)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send receipt email: %w", err)
	}
	return nil
}

func (s *emailService) SendRefundNotification(ctx context.Context, email, name string, amountCents int64, invoiceRef string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", email)
	m.SetHeader("Subject", fmt.Sprintf("Refund processed — %s", invoiceRef))

	body := fmt.Sprintf("Hello %s,\n\nA refund of $%.2f has been processed for your booking %s.\n\nBest regards,\nThe SelfStore Team",
		name, float64(amountCents)/100, invoiceRef)
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(s.host, s.port, s.username, s.password)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send refund notification: %w", err)
	}
	return nil
}

func (s *emailService) SendTopupReceipt(ctx context.Context, email, name string, amountCents int64) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", email)
	m.SetHeader("Subject", "Wallet top-up received")

	body := fmt.Sprintf("Hello %s,\n\nYour wallet has been credited with $%.2f.\n\nBest regards,\nThe SelfStore Team",
		name, float64(amountCents)/100)
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(s.host, s.port, s.username, s.password)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send topup receipt: %w", err)
	}
	return nil
}
