package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gdamore/tcell/v2"
	"golang.org/x/term"

	"git.sr.ht/~taiite/ircstyle"
	"git.sr.ht/~taiite/ircstyle/diag"
	"git.sr.ht/~taiite/ircstyle/ui"
)

func main() {
	var configPath string
	var plain bool
	var styled bool
	var width int
	var only string
	flag.StringVar(&configPath, "config", "", "path to the configuration file")
	flag.BoolVar(&plain, "plain", false, "print lines as they are, without wrapping them")
	flag.BoolVar(&styled, "styled", false, "print lines with terminal colours and hyperlinks, without wrapping them")
	flag.IntVar(&width, "width", 0, "wrap lines to this many cells (default: width of the terminal)")
	flag.StringVar(&only, "window", "", "only print the window with this name")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [options] [file]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	reporter := diag.NewReporter(logger)

	if configPath == "" {
		configDir, err := os.UserConfigDir()
		if err != nil {
			panic(err)
		}
		configPath = filepath.Join(configDir, "ircstyle", "ircstyle.scfg")
	}

	cfg, err := ircstyle.LoadConfigFile(configPath)
	if errors.Is(err, os.ErrNotExist) {
		logger.Debug("no configuration file, using defaults", "path", configPath)
	} else if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load the configuration file at %q: %s\n", configPath, err)
		os.Exit(1)
	}

	app, err := ircstyle.NewApp(cfg, reporter)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	var in io.Reader = os.Stdin
	if path := flag.Arg(0); path != "" && path != "-" {
		f, err := os.Open(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to open %q: %s\n", path, err)
			os.Exit(1)
		}
		defer f.Close()
		in = f
	}

	if err := feed(app, in); err != nil {
		fmt.Fprintf(os.Stderr, "failed to read input: %s\n", err)
		os.Exit(1)
	}

	if width == 0 && !plain && !styled {
		width = 80
		if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && 0 < w {
			width = w
		}
	}

	out := bufio.NewWriter(os.Stdout)
	for _, w := range app.Windows() {
		if only != "" && !strings.EqualFold(only, w.Name()) {
			continue
		}
		if styled {
			printStyledWindow(out, w)
		} else {
			printWindow(out, w, plain, width)
		}
	}
	out.Flush()

	if n := reporter.Count(); 0 < n {
		logger.Warn("some lines could not be rendered as expected", "diagnostics", n)
	}
}

// feed hands every line of in to app. Lines of the form "> window text" are
// typed in window, every other line is a raw IRC message.
func feed(app *ircstyle.App, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 4096), 1<<20)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		if input, ok := strings.CutPrefix(line, "> "); ok {
			window, text, _ := strings.Cut(input, " ")
			app.HandleInput(window, text)
			continue
		}
		app.HandleLine(line)
	}
	return scanner.Err()
}

func windowHeader(w *ircstyle.Window) string {
	return "== " + w.Name() + " =="
}

func printWindow(out io.Writer, w *ircstyle.Window, plain bool, width int) {
	fmt.Fprintln(out, windowHeader(w))
	for _, line := range w.Document().Lines() {
		if plain {
			fmt.Fprintln(out, line.Text())
			continue
		}
		for _, row := range line.Rows(width) {
			fmt.Fprintln(out, row)
		}
	}
}

func printStyledWindow(out io.Writer, w *ircstyle.Window) {
	fmt.Fprintln(out, ui.Styled(windowHeader(w), tcell.StyleDefault.Bold(true)).ANSI())
	doc := w.Document()
	for i := 0; i < doc.NumLines(); i++ {
		fmt.Fprintln(out, doc.StyledLine(i).ANSI())
	}
}
