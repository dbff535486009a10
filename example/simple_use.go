package main

import (
	"fmt"
	"os"
	"time"

	"github.com/midilink-io/midilink/internal/logger"
	"github.com/midilink-io/midilink/sdk/contracts"
	"github.com/midilink-io/midilink/sdk/midilink"
)

func main() {
	log := logger.NewZapLogger()

	client, err := midilink.New(
		contracts.WithLogger(log),
		contracts.WithLogLevel(contracts.InfoLevel),
		contracts.WithMessageFilter(contracts.MessageFilter{
			StatusBytes: []byte{0x90, 0x80}, // note on / note off, channel 1
		}),
	)
	if err != nil {
		log.Error("Failed to initialize MIDI client", log.Field().Error("error", err))
		return
	}
	defer client.Close()

	// Optionally inspect an SMF passed on the command line.
	if len(os.Args) > 1 {
		fh, err := client.OpenFile(os.Args[1])
		if err != nil {
			log.Error("Failed to open MIDI file", log.Field().Error("error", err))
			return
		}
		file, _ := client.File(fh)
		fmt.Printf("%s: format %d, %d tracks, %.1f ms\n",
			os.Args[1], file.Format, file.TrackCount(), file.DurationMs())
		client.CloseHandle(fh)
	}

	ports, err := client.ListPorts(contracts.DirectionInput)
	if err != nil || len(ports) == 0 {
		log.Error("No MIDI input ports found", log.Field().Error("error", err))
		return
	}
	for _, p := range ports {
		fmt.Printf("input %d: %s\n", p.Index, p.Name)
	}

	handle, err := client.OpenPort(contracts.DirectionInput, 0)
	if err != nil {
		log.Error("Failed to open MIDI input port", log.Field().Error("error", err))
		return
	}
	defer client.CloseHandle(handle)

	fmt.Println("Capturing MIDI messages... Press Ctrl+C to exit.")
	for {
		msg, ok, err := client.Poll(handle)
		if err != nil {
			log.Error("Poll failed", log.Field().Error("error", err))
			return
		}
		if !ok {
			time.Sleep(time.Millisecond)
			continue
		}
		parsed, err := midilink.ParseMessage(msg.Data)
		if err != nil {
			continue
		}
		log.Info("MIDI message",
			log.Field().Uint64("timestamp", msg.Timestamp),
			log.Field().String("type", midilink.MessageTypeName(parsed.Type)),
			log.Field().Int("channel", int(parsed.Channel)),
			log.Field().Int("data1", int(parsed.Data1)),
			log.Field().Int("data2", int(parsed.Data2)),
		)
	}
}
