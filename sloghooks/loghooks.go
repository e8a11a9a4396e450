package sloghooks

import (
	"log/slog"
	"sync/atomic"

	"github.com/unkn0wn-root/chromawire"
)

type Options struct {
	// Sampling to avoid floods on busy links; 0/1 = log all. Message
	// events fire once per message, which on a fast loopback channel is
	// still thousands per second.
	MessageSentEvery     uint64
	MessageReceivedEvery uint64
}

type Hooks struct {
	l    *slog.Logger
	opts Options

	sentCtr atomic.Uint64
	recvCtr atomic.Uint64
}

var _ chromawire.Hooks = (*Hooks)(nil)

func New(l *slog.Logger, opts Options) *Hooks {
	return &Hooks{l: l, opts: opts}
}

func sample(n uint64, ctr *atomic.Uint64) bool {
	if n == 0 || n == 1 {
		return true
	}
	return ctr.Add(1)%n == 0
}

func (h *Hooks) MessageSent(bytes int) {
	if h.l == nil || !sample(h.opts.MessageSentEvery, &h.sentCtr) {
		return
	}
	h.l.Debug("chromawire.message_sent",
		"bytes", bytes)
}

func (h *Hooks) MessageReceived(bytes int) {
	if h.l == nil || !sample(h.opts.MessageReceivedEvery, &h.recvCtr) {
		return
	}
	h.l.Debug("chromawire.message_received",
		"bytes", bytes)
}

func (h *Hooks) ChannelDown(partialBits int) {
	if h.l == nil {
		return
	}
	h.l.Warn("chromawire.channel_down_mid_byte",
		"partial_bits", partialBits)
}

func (h *Hooks) FramingError(transitions int) {
	if h.l == nil {
		return
	}
	h.l.Warn("chromawire.framing_error",
		"transitions", transitions)
}

func (h *Hooks) Resynced(discarded int) {
	if h.l == nil {
		return
	}
	h.l.Info("chromawire.resynced",
		"discarded", discarded)
}

func (h *Hooks) DecodeError(err error) {
	if h.l == nil {
		return
	}
	h.l.Warn("chromawire.decode_error",
		"err", err)
}

func (h *Hooks) MessageOversize(limit, got int) {
	if h.l == nil {
		return
	}
	h.l.Error("chromawire.message_oversize",
		"limit", limit,
		"got", got)
}
