package worker

// email_worker.go
// Processes jobs from QueueEmail: verification codes, employee
// invitations, low-stock alerts and receipt delivery.

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/StockSmart-AI/stock-smart-backend/internal/infra"

	"github.com/rs/zerolog/log"
)

// OTPJobPayload carries a verification code to a freshly registered user.
type OTPJobPayload struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Code  string `json:"code"`
}

// InvitationJobPayload carries an employee invitation link.
type InvitationJobPayload struct {
	Email    string `json:"email"`
	ShopName string `json:"shop_name"`
	Link     string `json:"link"`
}

// LowStockJobPayload alerts the shop owner that a product crossed its
// reorder threshold.
type LowStockJobPayload struct {
	Email     string `json:"email"`
	ProductID string `json:"product_id"`
	ShopID    string `json:"shop_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	Threshold int    `json:"threshold"`
}

// ReceiptJobPayload carries a generated receipt PDF to a recipient.
type ReceiptJobPayload struct {
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
	PDFPath string `json:"pdf_path"`
}

// EmailWorker renders and sends each job type via SMTP. A returned
// error sends the job to the DLQ.
type EmailWorker struct {
	mailer *infra.Mailer
	// alertTo receives low-stock alerts when the payload has no email.
	alertTo string
}

func NewEmailWorker(mailer *infra.Mailer, alertTo string) *EmailWorker {
	return &EmailWorker{mailer: mailer, alertTo: alertTo}
}

func (w *EmailWorker) Process(_ context.Context, jobType string, raw json.RawMessage) error {
	switch jobType {
	case JobOTP:
		return w.sendOTP(raw)
	case JobInvitation:
		return w.sendInvitation(raw)
	case JobLowStock:
		return w.sendLowStock(raw)
	case JobReceipt:
		return w.sendReceipt(raw)
	default:
		log.Warn().Str("type", jobType).Msg("email_worker: unknown job type — skipping")
		return nil
	}
}

func (w *EmailWorker) sendOTP(raw json.RawMessage) error {
	var p OTPJobPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return fmt.Errorf("email_worker: invalid otp payload: %w", err)
	}
	body := fmt.Sprintf("Hi %s,\n\nYour verification code is %s. It expires shortly.\n", p.Name, p.Code)
	return w.mailer.Send(p.Email, "Your verification code", body, "")
}

func (w *EmailWorker) sendInvitation(raw json.RawMessage) error {
	var p InvitationJobPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return fmt.Errorf("email_worker: invalid invitation payload: %w", err)
	}
	body := fmt.Sprintf("You have been invited to join %s.\n\nAccept here: %s\n", p.ShopName, p.Link)
	return w.mailer.Send(p.Email, "You're invited to "+p.ShopName, body, "")
}

func (w *EmailWorker) sendLowStock(raw json.RawMessage) error {
	var p LowStockJobPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return fmt.Errorf("email_worker: invalid low-stock payload: %w", err)
	}
	to := p.Email
	if to == "" {
		to = w.alertTo
	}
	if to == "" {
		log.Warn().Str("product", p.Name).Msg("email_worker: no recipient for low-stock alert — skipping")
		return nil
	}
	body := fmt.Sprintf("%s is low on stock: %d left (threshold %d).\n", p.Name, p.Quantity, p.Threshold)
	return w.mailer.Send(to, "Low stock: "+p.Name, body, "")
}

func (w *EmailWorker) sendReceipt(raw json.RawMessage) error {
	var p ReceiptJobPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return fmt.Errorf("email_worker: invalid receipt payload: %w", err)
	}
	if p.Email == "" {
		log.Warn().Msg("email_worker: empty recipient — skipping")
		return nil
	}
	return w.mailer.Send(p.Email, p.Subject, p.Body, p.PDFPath)
}
