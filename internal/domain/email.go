package domain

import "context"

// EmailTemplateFile is the file name the transaction email template is read
// from, inside the configured templates directory.
const EmailTemplateFile = "email.html"

// Template context keys available to email.html.
const (
	TemplateKeyMessageText     = "messageText"
	TemplateKeyTransactionHash = "transactionHash"
)

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(ctx context.Context, to, subject, html, text string) error
}

// TransactionEmailRenderer renders the transaction notification body from the
// email.html template.
type TransactionEmailRenderer interface {
	Render(ctx context.Context, messageText, transactionHash string) (string, error)
}
