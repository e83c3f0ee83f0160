// Command tinypack compresses and inspects tiny streams, and compares tiny
// with general-purpose compressors on a file cut into frames.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/wcharczuk/go-chart/v2"

	"github.com/tinyframe/pack"
	"github.com/tinyframe/pack/internal/baseline"
	"github.com/tinyframe/pack/tiny"
)

type CliCommand struct {
	fn       func(args []string) error
	flagset  *flag.FlagSet
	argsdesc string // argument description
	desc     string
}

// PrintCmdUsage describes how to use a given command.
func PrintCmdUsage(name string, cmd CliCommand) {
	fmt.Printf("%s %s - %s\n", name, cmd.argsdesc, cmd.desc)
	count := 0
	cmd.flagset.VisitAll(func(_ *flag.Flag) {
		count++
	})
	if count != 0 {
		cmd.flagset.PrintDefaults()
	}
}

func PrintUsage(commands map[string]CliCommand) {
	fmt.Println()
	fmt.Println("Usage: tinypack <command> [arguments]")
	fmt.Println("Commands available:")

	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		fmt.Printf("    %-10s %s\n", name, commands[name].desc)
	}
}

func main() {
	log.SetFlags(0)
	log.SetPrefix("tinypack: ")

	compressFlags := flag.NewFlagSet("compress", flag.ExitOnError)
	decompressFlags := flag.NewFlagSet("decompress", flag.ExitOnError)
	peekFlags := flag.NewFlagSet("peek", flag.ExitOnError)
	dumpFlags := flag.NewFlagSet("dump", flag.ExitOnError)
	compareFlags := flag.NewFlagSet("compare", flag.ExitOnError)
	sweepFlags := flag.NewFlagSet("sweep", flag.ExitOnError)
	helpFlags := flag.NewFlagSet("help", flag.ExitOnError)

	compressDict := compressFlags.Uint("dict", tiny.DefaultDictSize, "dictionary size in bytes")
	compressNoLines := compressFlags.Bool("nolines", false, "send every literal as a DATA token")
	compressSegment := compressFlags.Int("segment", 0, "cut the input into segments of this many bytes (0 = one segment)")
	compressSearch := compressFlags.Int("search", 0, "candidates to try per position (0 = all)")
	compressVerbose := compressFlags.Bool("v", false, "log encoder statistics")
	decompressCap := decompressFlags.Int("cap", 1<<20, "largest decompressed size accepted")
	dumpParse := dumpFlags.Bool("parse", false, "show the match finder's parse of an uncompressed file instead")
	compareFrame := compareFlags.Int("frame", 0, "frame size in bytes (0 = whole file)")
	sweepFrame := sweepFlags.Int("frame", 0, "frame size in bytes (0 = whole file)")
	sweepMin := sweepFlags.Uint("min", 16, "smallest dictionary size")
	sweepMax := sweepFlags.Uint("max", 4096, "largest dictionary size")
	sweepStep := sweepFlags.Uint("step", 16, "dictionary size increment")
	sweepSVG := sweepFlags.String("svg", "", "write a chart of the sweep to this SVG file")

	var commands map[string]CliCommand

	expect := func(fs *flag.FlagSet, args []string, n int) ([]string, error) {
		fs.Parse(args)
		files := fs.Args()
		if len(files) != n {
			return nil, fmt.Errorf("'%s' command: expected %d file arguments, got %d", fs.Name(), n, len(files))
		}
		return files, nil
	}

	cmdCompress := func(args []string) error {
		files, err := expect(compressFlags, args, 2)
		if err != nil {
			return err
		}
		opts := &tiny.CompressOptions{
			DictSize:       uint32(*compressDict),
			NoLiteralLines: *compressNoLines,
			SearchLimit:    *compressSearch,
		}
		return CommandCompress(files[0], files[1], opts, *compressSegment, *compressVerbose)
	}

	cmdDecompress := func(args []string) error {
		files, err := expect(decompressFlags, args, 2)
		if err != nil {
			return err
		}
		return CommandDecompress(files[0], files[1], *decompressCap)
	}

	cmdPeek := func(args []string) error {
		files, err := expect(peekFlags, args, 1)
		if err != nil {
			return err
		}
		return CommandPeek(os.Stdout, files[0])
	}

	cmdDump := func(args []string) error {
		files, err := expect(dumpFlags, args, 1)
		if err != nil {
			return err
		}
		return CommandDump(os.Stdout, files[0], *dumpParse)
	}

	cmdCompare := func(args []string) error {
		files, err := expect(compareFlags, args, 1)
		if err != nil {
			return err
		}
		return CommandCompare(os.Stdout, files[0], *compareFrame)
	}

	cmdSweep := func(args []string) error {
		files, err := expect(sweepFlags, args, 1)
		if err != nil {
			return err
		}
		cfg := SweepConfig{
			FrameSize: *sweepFrame,
			Min:       uint32(*sweepMin),
			Max:       uint32(*sweepMax),
			Step:      uint32(*sweepStep),
			SVG:       *sweepSVG,
		}
		return CommandSweep(os.Stdout, files[0], cfg)
	}

	cmdHelp := func(args []string) error {
		helpFlags.Parse(args)
		names := helpFlags.Args()
		if len(names) == 0 {
			PrintUsage(commands)
			return nil
		}
		cmd, ok := commands[names[0]]
		if !ok {
			PrintUsage(commands)
			return fmt.Errorf("unknown command %q", names[0])
		}
		PrintCmdUsage(names[0], cmd)
		return nil
	}

	commands = map[string]CliCommand{
		"compress":   {cmdCompress, compressFlags, "<input> <output>", "compress a file to a tiny stream"},
		"decompress": {cmdDecompress, decompressFlags, "<input> <output>", "decompress a tiny stream"},
		"peek":       {cmdPeek, peekFlags, "<input>", "print the dictionary size of a tiny stream"},
		"dump":       {cmdDump, dumpFlags, "<input>", "list the tokens of a tiny stream"},
		"compare":    {cmdCompare, compareFlags, "<input>", "compare tiny with other compressors, frame by frame"},
		"sweep":      {cmdSweep, sweepFlags, "<input>", "compressed size for a range of dictionary sizes"},
		"help":       {cmdHelp, helpFlags, "[command]", "list commands or describe a single command"},
	}

	if len(os.Args) < 2 {
		PrintUsage(commands)
		log.Fatal("expected a command")
	}
	cmd, ok := commands[os.Args[1]]
	if !ok {
		PrintUsage(commands)
		log.Fatalf("unknown command %q", os.Args[1])
	}
	if err := cmd.fn(os.Args[2:]); err != nil {
		log.Fatal(err)
	}
}

func CommandCompress(in, out string, opts *tiny.CompressOptions, segment int, verbose bool) error {
	data, err := os.ReadFile(in)
	if err != nil {
		return err
	}

	var enc []byte
	var st tiny.Stats
	if segment > 0 {
		buf := new(bytes.Buffer)
		w, err := tiny.NewWriter(buf, segment, opts)
		if err != nil {
			return err
		}
		if _, err := w.Write(data); err != nil {
			return err
		}
		if err := w.Close(); err != nil {
			return err
		}
		enc = buf.Bytes()
		st = w.Encoder.(*tiny.Encoder).Stats()
	} else {
		enc, st, err = tiny.CompressWithStats(data, opts)
		if err != nil {
			return err
		}
	}
	if verbose {
		log.Printf("%s: %d -> %d bytes in %d segments", in, len(data), len(enc), st.Segments)
		log.Printf("literals %d, literal lines %d (%d bytes), matches %d (%d bytes, %d reused), max distance %d",
			st.Literals, st.LiteralLines, st.LiteralLineBytes, st.Matches, st.MatchBytes, st.ReusedDistances, st.MaxDistance)
	}
	return os.WriteFile(out, enc, 0o644)
}

func CommandDecompress(in, out string, capacity int) error {
	f, err := os.Open(in)
	if err != nil {
		return err
	}
	defer f.Close()
	dec, err := tiny.DecompressFromReader(f, capacity)
	if err != nil {
		return fmt.Errorf("%s: %w", in, err)
	}
	return os.WriteFile(out, dec, 0o644)
}

func CommandPeek(w io.Writer, in string) error {
	data, err := os.ReadFile(in)
	if err != nil {
		return err
	}
	d, err := tiny.PeekDictSize(data)
	if err != nil {
		return fmt.Errorf("%s: %w", in, err)
	}
	fmt.Fprintln(w, d)
	return nil
}

// CommandDump lists the tokens of a compressed file, one per line. With
// parse set, the file is uncompressed data, and the match finder's parse of
// it is printed in <length,distance> notation instead.
func CommandDump(w io.Writer, in string, parse bool) error {
	data, err := os.ReadFile(in)
	if err != nil {
		return err
	}
	if parse {
		text := pack.Compress(nil, data, tiny.DefaultCompressOptions().MatchFinder(), pack.TextEncoder{Hex: true})
		_, err := fmt.Fprintf(w, "%s\n", text)
		return err
	}

	tokens, err := tiny.ParseTokens(data)
	if err != nil {
		return fmt.Errorf("%s: %w", in, err)
	}
	for _, t := range tokens {
		fmt.Fprintln(w, t)
	}
	return nil
}

func CommandCompare(w io.Writer, in string, frameSize int) error {
	data, err := os.ReadFile(in)
	if err != nil {
		return err
	}
	codecs, done, err := baseline.Default()
	if err != nil {
		return err
	}
	defer done()

	results, err := baseline.Compare(baseline.Split(data, frameSize), codecs)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "codec\tframes\tin\tout\tratio\tverified\t")
	for _, r := range results {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%.2f\t%v\t\n", r.Codec, r.Frames, r.InputBytes, r.OutputBytes, r.Ratio(), r.Verified)
	}
	return tw.Flush()
}

type SweepConfig struct {
	FrameSize int
	Min, Max  uint32
	Step      uint32
	SVG       string // chart output path; empty for none
}

func CommandSweep(w io.Writer, in string, cfg SweepConfig) error {
	data, err := os.ReadFile(in)
	if err != nil {
		return err
	}
	points, err := baseline.Sweep(baseline.Split(data, cfg.FrameSize), cfg.Min, cfg.Max, cfg.Step)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "dict\tout\tmax distance\t")
	for _, p := range points {
		fmt.Fprintf(tw, "%d\t%d\t%d\t\n", p.DictSize, p.OutputBytes, p.MaxDistance)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if cfg.SVG == "" {
		return nil
	}
	fh, err := os.Create(cfg.SVG)
	if err != nil {
		return err
	}
	if err := renderSweep(fh, points); err != nil {
		fh.Close()
		return err
	}
	return fh.Close()
}

// renderSweep draws output size against dictionary size.
func renderSweep(w io.Writer, points []baseline.SweepPoint) error {
	if len(points) < 2 {
		return fmt.Errorf("a chart needs at least 2 dictionary sizes, have %d", len(points))
	}
	xvals := make([]float64, 0, len(points))
	yvals := make([]float64, 0, len(points))
	for _, p := range points {
		xvals = append(xvals, float64(p.DictSize))
		yvals = append(yvals, float64(p.OutputBytes))
	}
	graph := chart.Chart{
		XAxis: chart.XAxis{Name: "dictionary size"},
		YAxis: chart.YAxis{Name: "compressed bytes"},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Style: chart.Style{
					DotWidth: 3,
				},
				XValues: xvals,
				YValues: yvals,
			},
		},
	}
	return graph.Render(chart.SVG, w)
}
