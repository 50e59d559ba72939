package mail

import (
	"context"
	"io"
)

// Message is a provider-agnostic email. A message carrying both bodies is
// sent as multipart/alternative.
type Message struct {
	To []string
	// ReplyTo sets the Reply-To header when not empty.
	ReplyTo  string
	Subject  string
	TextBody string
	HTMLBody string
}

// Mail delivers messages through an email provider.
type Mail interface {
	io.Closer
	Send(ctx context.Context, msg Message) error
}
