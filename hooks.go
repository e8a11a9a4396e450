package chromawire

// Hooks lightweight callbacks for high-signal link events.
// Implementations MUST be cheap and non-blocking.
// Sessions call them while the channel is live.
type Hooks interface {
	// A complete message left the sender. bytes is the encoded payload size.
	MessageSent(bytes int)

	// A complete message arrived and decoded. bytes is the payload size.
	MessageReceived(bytes int)

	// The channel went dark mid-byte. partialBits is how many payload bits
	// had accumulated; the partial byte was discarded.
	ChannelDown(partialBits int)

	// A byte found no marker within the transition budget.
	FramingError(transitions int)

	// The decoder skipped ahead to the next marker after an error.
	// discarded is the number of non-idle transitions thrown away.
	Resynced(discarded int)

	// The payload codec rejected a fully received message.
	DecodeError(err error)

	// A message exceeded the receiver's size limit and was discarded.
	MessageOversize(limit, got int)
}

// NopHooks is the default no-op
type NopHooks struct{}

func (NopHooks) MessageSent(int)          {}
func (NopHooks) MessageReceived(int)      {}
func (NopHooks) ChannelDown(int)          {}
func (NopHooks) FramingError(int)         {}
func (NopHooks) Resynced(int)             {}
func (NopHooks) DecodeError(error)        {}
func (NopHooks) MessageOversize(int, int) {}
