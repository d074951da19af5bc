package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"

	"github.com/baron-chain/bc-cargo-contract/contract"
	"github.com/baron-chain/bc-cargo-contract/diagnostics"
	"github.com/baron-chain/bc-cargo-contract/errors"
	"github.com/baron-chain/bc-cargo-contract/literal"
	"github.com/baron-chain/bc-cargo-contract/metadata"
	"github.com/baron-chain/bc-cargo-contract/registry"
	"github.com/baron-chain/bc-cargo-contract/selector"
	"github.com/baron-chain/bc-cargo-contract/value"
)

const usage = `Usage: transcode [flags] <command> [args...]

Commands:
  encode <message> [args...]          encode a message call
  instantiate <constructor> [args...] encode a constructor call
  decode <hex>                        decode a message call
  decode-constructor <hex>            decode a constructor call
  decode-event [<event>] <hex>        decode an event, by label or leading index byte
  decode-return <message> <hex>       decode a message return value
  list                                list constructors, messages and events
  encode-value <type> <literal>       encode one value of a registry type
  decode-value <type> <hex>           decode one value of a registry type
  types                               list registry types

Types are named by id, by path (a::b::C) or, with -wit, by WIT name.
Either -metadata or -wit is required; the contract commands need -metadata.

Flags:
`

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// cli carries the resolved configuration of one invocation.
type cli struct {
	meta *metadata.Metadata
	tc   *contract.Transcoder
	// values serves the value commands: over the WIT registry when -wit is
	// set, otherwise over the metadata registry.
	values   *contract.Transcoder
	reg      *registry.Registry
	witNames map[string]registry.TypeID
	stdout   io.Writer
	stderr   io.Writer
	cfg      Config
	color    bool
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("transcode", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprint(stderr, usage)
		fs.PrintDefaults()
	}
	var (
		metaFile    = fs.String("metadata", "", "Path to contract metadata JSON or .contract bundle")
		witFile     = fs.String("wit", "", "Path to a WIT document in JSON form (wasm-tools component wit -j)")
		configFile  = fs.String("config", "", "Path to TOML config (default ./"+defaultConfigFile+" if present)")
		format      = fs.String("format", "", "Output format for decoded values: text, json or cbor")
		strict      = fs.Bool("strict", false, "Fail when input bytes are left over")
		suggestions = fs.Int("suggestions", 0, "Maximum near-miss suggestions in errors")
		logLevel    = fs.String("log-level", "", "Log level: debug, info, warn or error")
		color       = fs.String("color", "", "Colour errors: auto, always or never")
		interactive = fs.Bool("i", false, "Interactive mode with TUI")
	)
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 1
	}

	cfg, err := resolveConfig(*configFile)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "metadata":
			cfg.Metadata = *metaFile
		case "wit":
			cfg.WIT = *witFile
		case "format":
			cfg.Format = *format
		case "strict":
			cfg.Strict = *strict
		case "suggestions":
			cfg.Suggestions = *suggestions
		case "log-level":
			cfg.LogLevel = *logLevel
		case "color":
			cfg.Color = *color
		}
	})
	if err := cfg.validate(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	c := &cli{stdout: stdout, stderr: stderr, cfg: cfg, color: useColor(cfg.Color, stderr)}

	logger, err := newLogger(cfg.LogLevel, stderr)
	if err != nil {
		c.fail(err)
		return 1
	}
	defer func() { _ = logger.Sync() }()
	contract.SetLogger(logger.Named("contract"))
	metadata.SetLogger(logger.Named("metadata"))

	if cfg.Metadata == "" && cfg.WIT == "" {
		fs.Usage()
		return 1
	}
	if err := c.load(logger); err != nil {
		c.fail(err)
		return 1
	}

	if *interactive {
		if c.meta == nil {
			c.fail(errNoMetadata("-i"))
			return 1
		}
		if err := runInteractive(c.meta, c.tc); err != nil {
			c.fail(err)
			return 1
		}
		return 0
	}

	if fs.NArg() == 0 {
		fs.Usage()
		return 1
	}
	if err := c.dispatch(fs.Arg(0), fs.Args()[1:]); err != nil {
		c.fail(err)
		return 1
	}
	return 0
}

// load reads the metadata and WIT inputs named by the config.
func (c *cli) load(logger *zap.Logger) error {
	opts := []contract.Option{
		contract.WithMaxSuggestions(c.cfg.Suggestions),
		contract.WithStrict(c.cfg.Strict),
	}
	if c.cfg.Metadata != "" {
		meta, err := metadata.LoadFile(c.cfg.Metadata)
		if err != nil {
			return err
		}
		c.meta, c.reg = meta, meta.Registry
		c.tc = meta.Transcoder(opts...)
		c.values = c.tc
	}
	if c.cfg.WIT == "" {
		return nil
	}

	imp, err := registry.LoadWIT(c.cfg.WIT)
	if err != nil {
		return err
	}
	if len(imp.Skipped) > 0 {
		logger.Named("wit").Warn("skipped WIT types with no SCALE form",
			zap.String("path", c.cfg.WIT),
			zap.Strings("types", imp.Skipped))
	}
	empty, err := contract.NewCatalog(nil, nil, nil)
	if err != nil {
		return err
	}
	c.reg, c.witNames = imp.Registry, imp.Names
	c.values = contract.NewTranscoder(imp.Registry, empty, opts...)
	return nil
}

func errNoMetadata(cmd string) error {
	return fmt.Errorf("%s: needs -metadata", cmd)
}

// resolveType finds a type by WIT name, numeric id or "::" path.
func (c *cli) resolveType(ref string) (registry.TypeID, error) {
	if id, ok := c.witNames[ref]; ok {
		return id, nil
	}
	if n, err := strconv.ParseUint(ref, 10, 32); err == nil {
		if _, ok := c.reg.Lookup(registry.TypeID(n)); ok {
			return registry.TypeID(n), nil
		}
	}
	if t, ok := c.reg.FindByPath(strings.Split(ref, "::")...); ok {
		return t.ID, nil
	}

	candidates := make([]string, 0, len(c.witNames))
	for name := range c.witNames {
		candidates = append(candidates, name)
	}
	for _, id := range c.reg.IDs() {
		if t, _ := c.reg.Lookup(id); len(t.Path) > 0 {
			candidates = append(candidates, t.QualifiedPath())
		}
	}
	sort.Strings(candidates)
	return 0, errors.New(errors.PhaseResolve, errors.KindUnknownTypeID).
		Name(ref).
		Detail("type %q not found", ref).
		Suggestions(diagnostics.Suggest(ref, candidates, c.cfg.Suggestions)).
		Build()
}

func resolveConfig(path string) (Config, error) {
	if path != "" {
		return LoadConfig(path)
	}
	if _, err := os.Stat(defaultConfigFile); err == nil {
		return LoadConfig(defaultConfigFile)
	}
	return defaultConfig(), nil
}

// newLogger builds a development console logger writing to w.
func newLogger(level string, w io.Writer) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	cfg := zap.NewDevelopmentConfig()
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(cfg.EncoderConfig),
		zapcore.AddSync(w),
		zap.NewAtomicLevelAt(lvl),
	)
	return zap.New(core), nil
}

func useColor(mode string, w io.Writer) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func (c *cli) dispatch(cmd string, args []string) error {
	switch cmd {
	case "encode", "instantiate", "decode", "decode-constructor", "decode-event", "decode-return", "list":
		if c.meta == nil {
			return errNoMetadata(cmd)
		}
	}

	switch cmd {
	case "encode", "instantiate":
		if len(args) == 0 {
			return fmt.Errorf("%s: missing name", cmd)
		}
		encode := c.tc.EncodeCall
		if cmd == "instantiate" {
			encode = c.tc.EncodeConstructor
		}
		data, err := encode(args[0], args[1:])
		if err != nil {
			return err
		}
		fmt.Fprintln(c.stdout, hexutil.Encode(data))
		return nil

	case "decode":
		data, err := hexArg(cmd, args)
		if err != nil {
			return err
		}
		call, err := c.tc.DecodeCall(data)
		if err != nil {
			return err
		}
		c.warnTrailing(call.Result.Trailing)
		return c.print(call.Value())

	case "decode-constructor":
		data, err := hexArg(cmd, args)
		if err != nil {
			return err
		}
		call, err := c.tc.DecodeConstructor(data)
		if err != nil {
			return err
		}
		c.warnTrailing(call.Result.Trailing)
		return c.print(call.Value())

	case "decode-event":
		if len(args) == 1 {
			data, err := hexArg(cmd, args)
			if err != nil {
				return err
			}
			ev, err := c.tc.DecodeEventByIndex(data)
			if err != nil {
				return err
			}
			c.warnTrailing(ev.Result.Trailing)
			return c.print(ev.Value())
		}
		if len(args) != 2 {
			return fmt.Errorf("%s: want [<event>] <hex>", cmd)
		}
		data, err := hexArg(cmd, args[1:])
		if err != nil {
			return err
		}
		ev, err := c.tc.DecodeEvent(data, args[0])
		if err != nil {
			return err
		}
		c.warnTrailing(ev.Result.Trailing)
		return c.print(ev.Value())

	case "decode-return":
		if len(args) != 2 {
			return fmt.Errorf("%s: want <message> <hex>", cmd)
		}
		data, err := hexArg(cmd, args[1:])
		if err != nil {
			return err
		}
		v, res, err := c.tc.DecodeReturn(data, args[0])
		if err != nil {
			return err
		}
		c.warnTrailing(res.Trailing)
		return c.print(v)

	case "list":
		c.list()
		return nil

	case "encode-value":
		if len(args) != 2 {
			return fmt.Errorf("%s: want <type> <literal>", cmd)
		}
		id, err := c.resolveType(args[0])
		if err != nil {
			return err
		}
		v, err := literal.Parse(args[1])
		if err != nil {
			return err
		}
		data, err := c.values.EncodeValue(v, id)
		if err != nil {
			return err
		}
		fmt.Fprintln(c.stdout, hexutil.Encode(data))
		return nil

	case "decode-value":
		if len(args) != 2 {
			return fmt.Errorf("%s: want <type> <hex>", cmd)
		}
		id, err := c.resolveType(args[0])
		if err != nil {
			return err
		}
		data, err := hexArg(cmd, args[1:])
		if err != nil {
			return err
		}
		v, res, err := c.values.DecodeValue(data, id)
		if err != nil {
			return err
		}
		c.warnTrailing(res.Trailing)
		return c.print(v)

	case "types":
		c.types()
		return nil
	}
	return fmt.Errorf("unknown command %q", cmd)
}

// hexArg decodes the single hex argument, with or without a 0x prefix.
func hexArg(cmd string, args []string) ([]byte, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("%s: want one hex argument, got %d", cmd, len(args))
	}
	return parseHex(args[0])
}

func parseHex(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		s = "0x" + s
	}
	b, err := hexutil.Decode(s)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseDecode, errors.KindInvalidInput, err, "invalid hex input")
	}
	return b, nil
}

func (c *cli) warnTrailing(n int) {
	if n > 0 {
		fmt.Fprintf(c.stderr, "warning: %d trailing byte(s) ignored\n", n)
	}
}

func (c *cli) print(v value.Value) error {
	switch c.cfg.Format {
	case "json":
		out, err := value.MarshalIndentJSON(v, "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(c.stdout, string(out))
	case "cbor":
		out, err := value.MarshalCBOR(v)
		if err != nil {
			return err
		}
		fmt.Fprintln(c.stdout, hexutil.Encode(out))
	default:
		fmt.Fprintln(c.stdout, value.FormatIndent(v, "  "))
	}
	return nil
}

func (c *cli) list() {
	reg := c.meta.Registry
	signature := func(label string, sel [selector.Size]byte, args []contract.Arg) string {
		parts := make([]string, len(args))
		for i, a := range args {
			parts[i] = a.Label + ": " + reg.TypeName(a.Type)
		}
		return fmt.Sprintf("  %s %s(%s)", selector.String(sel), label, strings.Join(parts, ", "))
	}

	if c.meta.Name != "" {
		fmt.Fprintf(c.stdout, "%s %s\n\n", c.meta.Name, c.meta.Version)
	}
	fmt.Fprintln(c.stdout, "Constructors:")
	for _, k := range c.meta.Catalog.Constructors() {
		fmt.Fprintln(c.stdout, signature(k.Label, k.Selector, k.Args))
	}
	fmt.Fprintln(c.stdout, "\nMessages:")
	for _, m := range c.meta.Catalog.Messages() {
		line := signature(m.Label, m.Selector, m.Args)
		if m.ReturnType != nil {
			line += " -> " + reg.TypeName(*m.ReturnType)
		}
		if m.Mutates {
			line += " [mut]"
		}
		if m.Payable {
			line += " [payable]"
		}
		fmt.Fprintln(c.stdout, line)
	}
	fmt.Fprintln(c.stdout, "\nEvents:")
	for i, e := range c.meta.Catalog.Events() {
		parts := make([]string, len(e.Fields))
		for j, f := range e.Fields {
			parts[j] = f.Label + ": " + reg.TypeName(f.Type)
			if f.Indexed {
				parts[j] += " (indexed)"
			}
		}
		fmt.Fprintf(c.stdout, "  %d %s { %s }\n", i, e.Label, strings.Join(parts, ", "))
	}
}

// types prints every registry type, with its WIT names when -wit is set.
func (c *cli) types() {
	aliases := make(map[registry.TypeID][]string)
	for name, id := range c.witNames {
		if !strings.Contains(name, ".") {
			aliases[id] = append(aliases[id], name)
		}
	}
	for _, id := range c.reg.IDs() {
		line := fmt.Sprintf("  %d %s", id, c.reg.TypeName(id))
		if names := aliases[id]; len(names) > 0 {
			sort.Strings(names)
			line += " (" + strings.Join(names, ", ") + ")"
		}
		fmt.Fprintln(c.stdout, line)
	}
}

var (
	errorTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B"))

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))
)

// fail prints err, and any suggestions it carries on their own line.
func (c *cli) fail(err error) {
	fmt.Fprintln(c.stderr, renderError(err, c.color))
}

func renderError(err error, color bool) string {
	title, hint := "Error: "+err.Error(), ""
	if e, ok := errors.As(err); ok && len(e.Suggestions) > 0 {
		hint = "hint: did you mean " + strings.Join(e.Suggestions, ", ") + "?"
	}
	if color {
		title = errorTitleStyle.Render(title)
		if hint != "" {
			hint = hintStyle.Render(hint)
		}
	}
	if hint == "" {
		return title
	}
	return title + "\n" + hint
}
