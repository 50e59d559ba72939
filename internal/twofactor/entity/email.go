package entity

// Email is an outgoing message for the delivery channel.
type Email struct {
	To       string
	Subject  string
	HTMLBody string
	TextBody string
	// ReplyToOrContext is used as the Reply-To address when it is one,
	// otherwise it only identifies the sender context in logs and traces.
	ReplyToOrContext string
}
