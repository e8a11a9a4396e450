// usage:
//
// import (
//
//	"log/slog"
//
//	"github.com/unkn0wn-root/chromawire"
//	"github.com/unkn0wn-root/chromawire/hooks/async"
//	"github.com/unkn0wn-root/chromawire/sloghooks"
//
// )
//
//	raw := sloghooks.New(slog.Default(), sloghooks.Options{
//	    MessageSentEvery:     10, // sample: ~every 10th message
//	    MessageReceivedEvery: 10,
//	})
//
// hooks := asynchook.New(raw, 1, 1000) // 1 worker; queue 1000 events
// defer hooks.Close()
//
//	recv, _ := chromawire.NewReceiver[string](chromawire.ReceiverOptions[string]{
//	    Sensor: sensor,
//	    Codec:  codec.String{},
//	    Hooks:  hooks, // or `raw` if you don't want async
//	})
package asynchook

import (
	"sync"

	"github.com/unkn0wn-root/chromawire"
)

type Hooks struct {
	inner chromawire.Hooks
	q     chan func()
	wg    sync.WaitGroup
	once  sync.Once
}

var _ chromawire.Hooks = (*Hooks)(nil)

func New(inner chromawire.Hooks, workers, qlen int) *Hooks {
	if workers <= 0 {
		workers = 1
	}
	if qlen <= 0 {
		qlen = 1024
	}

	h := &Hooks{inner: inner, q: make(chan func(), qlen)}
	h.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer h.wg.Done()
			for f := range h.q {
				f()
			}
		}()
	}
	return h
}

func (h *Hooks) Close() {
	h.once.Do(func() {
		close(h.q)
		h.wg.Wait()
	})
}

func (h *Hooks) try(f func()) {
	select {
	case h.q <- f:
	default: // drop
	}
}

func (h *Hooks) MessageSent(n int)       { h.try(func() { h.inner.MessageSent(n) }) }
func (h *Hooks) MessageReceived(n int)   { h.try(func() { h.inner.MessageReceived(n) }) }
func (h *Hooks) ChannelDown(bits int)    { h.try(func() { h.inner.ChannelDown(bits) }) }
func (h *Hooks) FramingError(n int)      { h.try(func() { h.inner.FramingError(n) }) }
func (h *Hooks) Resynced(n int)          { h.try(func() { h.inner.Resynced(n) }) }
func (h *Hooks) DecodeError(err error)   { h.try(func() { h.inner.DecodeError(err) }) }
func (h *Hooks) MessageOversize(l, g int) {
	h.try(func() { h.inner.MessageOversize(l, g) })
}
