package ircstyle

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"git.sr.ht/~emersion/go-scfg"
)

type UIConfig struct {
	StyleLinks      bool
	StyleChannels   bool
	LinkColour      string
	ChannelColour   string
	LinkBareDomains bool
	NickColours     bool
	MaxLinkPasses   int

	FrameBufferSize int
	FontName        string
	FontSize        int
}

type Config struct {
	Nick string
	UI   UIConfig

	// Colours overrides entries of the palette, by IRC colour code.
	Colours map[int]string
	Smilies []string
	// Formats overrides printf formats, by message type.
	Formats map[string]string
	// Templates is the path of a file overriding event templates.
	Templates string
}

func Defaults() Config {
	return Config{
		Nick: "ircstyle",
		UI: UIConfig{
			StyleLinks:      true,
			StyleChannels:   true,
			NickColours:     true,
			FrameBufferSize: 1000,
			FontName:        "Monospace",
			FontSize:        12,
		},
		Colours: map[int]string{},
		Formats: map[string]string{},
	}
}

func ParseConfig(r io.Reader) (cfg Config, err error) {
	cfg = Defaults()

	cfgBlock, err := scfg.Read(r)
	if err != nil {
		return cfg, err
	}

	for _, d := range cfgBlock {
		switch d.Name {
		case "nick":
			if err := parseParams(d, &cfg.Nick); err != nil {
				return cfg, err
			}
		case "ui":
			if err := parseUI(&cfg.UI, d.Children); err != nil {
				return cfg, err
			}
		case "colour", "color":
			var code, spec string
			if err := parseParams(d, &code, &spec); err != nil {
				return cfg, err
			}
			n, err := strconv.Atoi(code)
			if err != nil || n < 0 {
				return cfg, fmt.Errorf("directive %q: invalid colour code %q", d.Name, code)
			}
			cfg.Colours[n] = spec
		case "smilie":
			if len(d.Params) == 0 {
				return cfg, fmt.Errorf("directive %q: expected at least 1 parameter", d.Name)
			}
			cfg.Smilies = append(cfg.Smilies, d.Params...)
		case "format":
			var name, format string
			if err := parseParams(d, &name, &format); err != nil {
				return cfg, err
			}
			cfg.Formats[name] = format
		case "templates":
			if err := parseParams(d, &cfg.Templates); err != nil {
				return cfg, err
			}
		default:
			return cfg, fmt.Errorf("unknown directive %q", d.Name)
		}
	}

	return
}

func parseUI(ui *UIConfig, block scfg.Block) error {
	for _, d := range block {
		var err error
		switch d.Name {
		case "style-links":
			err = parseBool(d, &ui.StyleLinks)
		case "style-channels":
			err = parseBool(d, &ui.StyleChannels)
		case "link-colour", "link-color":
			err = parseParams(d, &ui.LinkColour)
		case "channel-colour", "channel-color":
			err = parseParams(d, &ui.ChannelColour)
		case "link-bare-domains":
			err = parseBool(d, &ui.LinkBareDomains)
		case "nick-colours", "nick-colors":
			err = parseBool(d, &ui.NickColours)
		case "max-link-passes":
			err = parseInt(d, &ui.MaxLinkPasses)
		case "frame-buffer-size":
			err = parseInt(d, &ui.FrameBufferSize)
		case "font-name":
			err = parseParams(d, &ui.FontName)
		case "font-size":
			err = parseInt(d, &ui.FontSize)
		default:
			err = fmt.Errorf("unknown directive %q", d.Name)
		}
		if err != nil {
			return fmt.Errorf("ui: %w", err)
		}
	}
	return nil
}

func parseParams(d *scfg.Directive, params ...*string) error {
	if len(d.Params) < len(params) {
		return fmt.Errorf("directive %q: expected %d parameters, got %d", d.Name, len(params), len(d.Params))
	}
	for i, p := range params {
		*p = d.Params[i]
	}
	return nil
}

func parseBool(d *scfg.Directive, b *bool) error {
	var s string
	if err := parseParams(d, &s); err != nil {
		return err
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return fmt.Errorf("directive %q: %w", d.Name, err)
	}
	*b = v
	return nil
}

func parseInt(d *scfg.Directive, n *int) error {
	var s string
	if err := parseParams(d, &s); err != nil {
		return err
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("directive %q: %w", d.Name, err)
	}
	if v < 0 {
		return fmt.Errorf("directive %q: must be positive, got %d", d.Name, v)
	}
	*n = v
	return nil
}

// LoadConfigFile reads the configuration at filename. A relative templates
// path is resolved against the directory of filename.
func LoadConfigFile(filename string) (cfg Config, err error) {
	f, err := os.Open(filename)
	if errors.Is(err, os.ErrNotExist) {
		return Defaults(), err
	} else if err != nil {
		return cfg, fmt.Errorf("failed to open config: %w", err)
	}
	defer f.Close()

	cfg, err = ParseConfig(f)
	if err != nil {
		return cfg, fmt.Errorf("%s: %w", filename, err)
	}

	if cfg.Templates != "" && !filepath.IsAbs(cfg.Templates) {
		cfg.Templates = filepath.Join(filepath.Dir(filename), cfg.Templates)
	}
	return
}
