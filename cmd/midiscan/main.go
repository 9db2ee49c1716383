package main

import (
	"cmp"
	"context"
	"flag"
	"fmt"
	"iter"
	"os"
	"slices"
	"strconv"

	"go-midistream/config"
	"go-midistream/debug"
	"go-midistream/event"
	"go-midistream/merge"
	"go-midistream/notes"
	"go-midistream/smf"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}

	var err error
	switch os.Args[1] {
	case "info":
		err = info(os.Args[2:])
	case "tracks":
		err = tracks(os.Args[2:])
	case "dump":
		err = dump(os.Args[2:])
	case "merge":
		err = mergeCmd(os.Args[2:])
	case "notes":
		err = notesCmd(os.Args[2:])
	default:
		usage()
		return
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("midiscan - inspect Standard MIDI Files")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  info   <file>          - Header fields and chunk table")
	fmt.Println("  tracks <file>          - Event count, length and name per track")
	fmt.Println("  dump   <file> <track>  - Every event of one track")
	fmt.Println("  merge  <file>          - All tracks merged in time order")
	fmt.Println("  notes  <file>          - Paired notes of all tracks in start order")
	fmt.Println("")
	fmt.Println("Run 'midiscan <command> -h' for the flags of a command.")
}

// common holds the flags every command shares. Values left unset on the
// command line fall back to the config file.
type common struct {
	configPath string
	strict     bool
	zeroVel    bool
	encoding   string
	debug      bool
}

func (c *common) register(fs *flag.FlagSet) {
	fs.StringVar(&c.configPath, "config", "", "config file (default ~/.config/go-midistream/config.json)")
	fs.BoolVar(&c.strict, "strict", false, "stop a track at its first decode error")
	fs.BoolVar(&c.zeroVel, "zero-velocity", false, "keep NoteOn with velocity 0")
	fs.StringVar(&c.encoding, "encoding", "", "text event encoding")
	fs.BoolVar(&c.debug, "debug", false, "write a debug log")
}

// setup loads the config, applies the flags and opens the file named by the
// first positional argument.
func (c *common) setup(fs *flag.FlagSet) (*config.Config, *smf.File, error) {
	if fs.NArg() < 1 {
		fs.Usage()
		return nil, nil, fmt.Errorf("missing file argument")
	}

	var cfg *config.Config
	var err error
	if c.configPath != "" {
		cfg, err = config.LoadFile(c.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}
	if c.strict {
		cfg.Decode.Tolerant = false
	}
	if c.zeroVel {
		cfg.Decode.ZeroVelocityNoteOns = true
	}
	if c.encoding != "" {
		cfg.Decode.TextEncoding = c.encoding
	}

	if c.debug {
		if err := debug.Enable(debug.DefaultPath()); err != nil {
			return nil, nil, err
		}
	}

	path := fs.Arg(0)
	f, err := smf.Open(path, cfg.Decode.Options())
	if err != nil {
		return nil, nil, err
	}
	debug.Log("midiscan", "opened %s: %d tracks", path, f.TrackCount())
	return cfg, f, nil
}

func info(args []string) error {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	var c common
	c.register(fs)
	fs.Parse(args)

	_, f, err := c.setup(fs)
	if err != nil {
		return err
	}
	defer f.Close()

	fmt.Printf("format:   %d\n", f.Format())
	if fps, tpf, ok := f.SMPTE(); ok {
		fmt.Printf("division: SMPTE %d fps, %d ticks/frame\n", fps, tpf)
	} else {
		fmt.Printf("division: %d ticks/quarter\n", f.PPQ())
	}
	fmt.Printf("tracks:   %d found, %d declared\n", f.TrackCount(), f.DeclaredTracks())
	if int(f.DeclaredTracks()) != f.TrackCount() {
		fmt.Println("          (header track count ignored)")
	}
	fmt.Println("")
	for i := range f.TrackCount() {
		cp := f.Chunk(i)
		fmt.Printf("  %3d: offset %8d  length %8d\n", i, cp.Offset, cp.Length)
	}
	return nil
}

func tracks(args []string) error {
	fs := flag.NewFlagSet("tracks", flag.ExitOnError)
	var c common
	c.register(fs)
	fs.Parse(args)

	cfg, f, err := c.setup(fs)
	if err != nil {
		return err
	}
	defer f.Close()

	for i := range f.TrackCount() {
		var count, sentinels int
		var ticks uint64
		var name string
		var trackErr error

		for ev, err := range trackEvents(f, i, cfg.Decode.Tolerant) {
			if err != nil {
				trackErr = err
				break
			}
			count++
			ticks += ev.Delta()
			switch e := ev.(type) {
			case *event.Undefined:
				if e.Command == 0 {
					sentinels++
				}
			case *event.Text:
				if e.Type == event.MetaTrackName && name == "" {
					name, _ = e.Decode(cfg.Decode.TextEncoding)
				}
			}
			f.Return(ev)
		}

		fmt.Printf("  %3d: %7d events  %9d ticks  %q", i, count, ticks, name)
		if sentinels > 0 {
			fmt.Printf("  %d malformed", sentinels)
		}
		if trackErr != nil {
			fmt.Printf("  error: %v", trackErr)
		}
		fmt.Println()
	}
	return nil
}

// trackEvents yields one track in strict or tolerant form behind a single
// shape, so callers can loop over both the same way.
func trackEvents(f *smf.File, i int, tolerant bool) iter.Seq2[event.Event, error] {
	if !tolerant {
		return f.Track(i)
	}
	return func(yield func(event.Event, error) bool) {
		for ev := range f.TolerantTrack(i) {
			if !yield(ev, nil) {
				return
			}
		}
	}
}

func dump(args []string) error {
	fs := flag.NewFlagSet("dump", flag.ExitOnError)
	var c common
	c.register(fs)
	fs.Parse(args)

	cfg, f, err := c.setup(fs)
	if err != nil {
		return err
	}
	defer f.Close()

	if fs.NArg() < 2 {
		return fmt.Errorf("missing track argument")
	}
	i, err := strconv.Atoi(fs.Arg(1))
	if err != nil || i < 0 || i >= f.TrackCount() {
		return fmt.Errorf("track must be 0..%d, got %q", f.TrackCount()-1, fs.Arg(1))
	}

	var abs uint64
	for ev, err := range trackEvents(f, i, cfg.Decode.Tolerant) {
		if err != nil {
			return err
		}
		abs += ev.Delta()
		printEvent(abs, ev, cfg.Decode.TextEncoding)
		f.Return(ev)
	}
	return nil
}

func mergeCmd(args []string) error {
	fs := flag.NewFlagSet("merge", flag.ExitOnError)
	var c common
	c.register(fs)
	prefetch := fs.Int("prefetch", -1, "decode each track ahead with this buffer size")
	limit := fs.Int("limit", 0, "stop after this many events (0 = all)")
	fs.Parse(args)

	cfg, f, err := c.setup(fs)
	if err != nil {
		return err
	}
	defer f.Close()
	if *prefetch >= 0 {
		cfg.Decode.Prefetch = *prefetch
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events, errs := f.Merge(ctx, cfg.Decode.MergeOptions())

	var abs uint64
	n := 0
	for ev := range events {
		abs += ev.Delta()
		printEvent(abs, ev, cfg.Decode.TextEncoding)
		n++
		if *limit > 0 && n >= *limit {
			break
		}
	}
	return errs.Err()
}

func notesCmd(args []string) error {
	fs := flag.NewFlagSet("notes", flag.ExitOnError)
	var c common
	c.register(fs)
	limit := fs.Int("limit", 0, "stop after this many notes (0 = all)")
	fs.Parse(args)

	cfg, f, err := c.setup(fs)
	if err != nil {
		return err
	}
	defer f.Close()

	errs := &smf.Errors{}
	trackNotes := func(i int) iter.Seq[event.Note] {
		if cfg.Decode.Tolerant {
			return notes.FromEvents(f.TolerantTrack(i))
		}
		return notes.FromEvents(errs.Events(f.Track(i)))
	}

	// Only the first note of each track is decoded up front. ManyNotes
	// wants its sub-sequences ordered by that note, and opens each track
	// again from its chunk when it is needed.
	type head struct {
		track int
		start uint64
	}
	var heads []head
	for i := range f.TrackCount() {
		if first, ok := notes.First(trackNotes(i)); ok {
			heads = append(heads, head{track: i, start: first.Start})
		}
	}
	if err := errs.Err(); err != nil {
		return err
	}
	slices.SortStableFunc(heads, func(a, b head) int {
		return cmp.Compare(a.start, b.start)
	})
	debug.Log("midiscan", "%d of %d tracks have notes", len(heads), f.TrackCount())

	outer := func(yield func(iter.Seq[event.Note]) bool) {
		for _, h := range heads {
			if !yield(trackNotes(h.track)) {
				return
			}
		}
	}

	n := 0
	for note := range merge.ManyNotes(outer) {
		fmt.Printf("%10d %8d  ch %2d  key %3d  vel %3d\n",
			note.Start, note.Length, note.Channel+1, note.Key, note.Velocity)
		n++
		if *limit > 0 && n >= *limit {
			break
		}
	}
	return errs.Err()
}

func printEvent(abs uint64, ev event.Event, enc string) {
	fmt.Printf("%10d %8d  %-22s %s\n", abs, ev.Delta(), ev.Kind(), event.Describe(ev, enc))
}
