package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"go-midistream/config"
	"go-midistream/debug"
	"go-midistream/smf"
	"go-midistream/theme"
	"go-midistream/tui"
)

func main() {
	configPath := flag.String("config", "", "config file (default ~/.config/go-midistream/config.json)")
	strict := flag.Bool("strict", false, "stop a track at its first decode error")
	zeroVel := flag.Bool("zero-velocity", false, "keep NoteOn with velocity 0 instead of turning it into NoteOff")
	encoding := flag.String("encoding", "", "text event encoding: utf-8, shift_jis, latin1, windows-1252")
	prefetch := flag.Int("prefetch", -1, "decode each track ahead on its own goroutine with this buffer size")
	debugLog := flag.Bool("debug", false, "write a debug log to ~/.config/go-midistream/debug.log")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] file.mid\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	path := flag.Arg(0)

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	if *strict {
		cfg.Decode.Tolerant = false
	}
	if *zeroVel {
		cfg.Decode.ZeroVelocityNoteOns = true
	}
	if *encoding != "" {
		cfg.Decode.TextEncoding = *encoding
	}
	if *prefetch >= 0 {
		cfg.Decode.Prefetch = *prefetch
	}

	if *debugLog {
		if err := debug.Enable(debug.DefaultPath()); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		defer debug.Disable()
	}

	f, err := smf.Open(path, cfg.Decode.Options())
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	palette, err := theme.LoadOrDefault(cfg.Viewer.PalettePath)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	th := theme.New(palette)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events, errs := f.Merge(ctx, cfg.Decode.MergeOptions())

	info := tui.FileInfo{
		Path:           path,
		Format:         f.Format(),
		PPQ:            f.PPQ(),
		Tracks:         f.TrackCount(),
		DeclaredTracks: f.DeclaredTracks(),
	}
	m := tui.NewModel(info, events, th, cfg.Viewer.PageSize, cfg.Decode.TextEncoding)
	defer m.Close()

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	if err := errs.Err(); err != nil {
		fmt.Printf("decode stopped early: %v\n", err)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Load()
	}
	return config.LoadFile(path)
}
