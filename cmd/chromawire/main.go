// chromawire is a demo harness for the transition code.
//
// Subcommands:
//
//	selftest    exhaustively checks the half-nibble round trip over
//	            every previous symbol and every 2-bit value
//	send        encodes text and prints the symbol sequence
//	roundtrip   encodes text, pushes it through an oversampling
//	            in-memory channel, and prints what came back
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/unkn0wn-root/chromawire"
	"github.com/unkn0wn-root/chromawire/channel"
	"github.com/unkn0wn-root/chromawire/codec"
	"github.com/unkn0wn-root/chromawire/wire"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) == 0 {
		usage()
		return fmt.Errorf("a subcommand is required")
	}
	switch args[0] {
	case "selftest":
		return selftest()
	case "send":
		return send(args[1:])
	case "roundtrip":
		return roundtrip(args[1:])
	case "help", "--help", "-h":
		usage()
		return nil
	default:
		usage()
		return fmt.Errorf("unknown subcommand %q", args[0])
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: chromawire <selftest|send|roundtrip> [flags]")
}

// selftest walks every (previous symbol, 2-bit value) pair through emit
// and observe, printing one row per pair. Any mismatch or repeated
// symbol fails the run.
func selftest() error {
	failures := 0
	fmt.Println("prev      v  emitted   decoded  ok")
	for prev := wire.Closed; prev <= wire.White; prev++ {
		for v := byte(0); v < 4; v++ {
			emitted := wire.EmitHalfNibble(v, prev)
			outcome, got := wire.Observe(emitted, prev)
			ok := outcome == wire.Data && got == v && emitted != prev
			if !ok {
				failures++
			}
			fmt.Printf("%-8s %2d  %-8s %7d  %v\n", prev, v, emitted, got, ok)
		}
	}
	if failures > 0 {
		return fmt.Errorf("selftest: %d failing transitions", failures)
	}
	fmt.Println("all transitions check out")
	return nil
}

func send(args []string) error {
	fs := pflag.NewFlagSet("send", pflag.ContinueOnError)
	text := fs.String("text", "HELLO WORLD... ", "text to encode")
	render := fs.String("render", "full", "sequence rendering: full|compact|marked")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var seq wire.Sequence
	previous := wire.Closed
	for i := 0; i < len(*text); i++ {
		seq, previous = wire.AppendByte(seq, previous, (*text)[i])
	}

	switch *render {
	case "full":
		fmt.Println(seq.String())
	case "compact":
		fmt.Println(seq.Compact())
	case "marked":
		fmt.Println(seq.Marked())
	default:
		return fmt.Errorf("unknown rendering %q", *render)
	}
	return nil
}

func roundtrip(args []string) error {
	fs := pflag.NewFlagSet("roundtrip", pflag.ContinueOnError)
	text := fs.String("text", "HELLO WORLD... ", "text to transmit")
	oversample := fs.Int("oversample", 3, "deliver each symbol this many times")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx := context.Background()
	pipe := channel.NewPipe(channel.PipeConfig{
		Buffer:     5 * (len(*text) + 2) * *oversample,
		Oversample: *oversample,
	})

	snd, err := chromawire.NewSender[string](chromawire.SenderOptions[string]{
		Emitter: pipe,
		Codec:   codec.String{},
	})
	if err != nil {
		return err
	}
	rcv, err := chromawire.NewReceiver[string](chromawire.ReceiverOptions[string]{
		Sensor: pipe,
		Codec:  codec.String{},
	})
	if err != nil {
		return err
	}

	if err := snd.Send(ctx, *text); err != nil {
		return err
	}
	if err := snd.Close(ctx); err != nil {
		return err
	}

	got, err := rcv.Receive(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("sent:     %q\n", *text)
	fmt.Printf("received: %q\n", got)
	fmt.Println("END OF TRANSMISSION")
	return rcv.Close(ctx)
}
