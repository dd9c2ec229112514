package domain

import "errors"

// Sentinel errors shared across layers. Wrap with fmt.Errorf("...: %w") and
// match with errors.Is.
var (
	ErrNotFound = errors.New("not found")

	// ErrConfigurationMissing means a component was used before its
	// configuration was set. It is a startup ordering bug, not a transient fault.
	ErrConfigurationMissing = errors.New("configuration missing")

	// ErrTemplateIO means the template file could not be read as text.
	ErrTemplateIO = errors.New("template io error")

	// ErrTemplateRender means the template is malformed or failed to execute.
	ErrTemplateRender = errors.New("template render error")

	ErrInvalidRecipient   = errors.New("invalid recipient email")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrMailDelivery       = errors.New("mail delivery failed")
)
