package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/joho/godotenv"

	"github.com/hasbyte1/go-prism/chaindef"
	"github.com/hasbyte1/go-prism/modes"
	"github.com/hasbyte1/go-prism/prism"
)

const (
	suffix         = ".prism"
	passwordEnv    = "PRISM_PASSWORD"
	chainsEnv      = "PRISM_CHAINS"
	defaultChainDB = "chains.yaml"
)

var errUsage = errors.New("usage")

var engine = prism.New()

func main() {
	// A missing .env is fine; the environment may already be set.
	_ = godotenv.Load()

	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, errUsage) {
			usage(os.Stderr)
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	if len(args) < 1 {
		return errUsage
	}

	switch args[0] {
	case "encrypt":
		return cmdEncrypt(args[1:], stdout, stderr)
	case "decrypt":
		return cmdDecrypt(args[1:], stdout, stderr)
	case "redact":
		return cmdRedact(args[1:], stdin, stdout)
	case "modes":
		return cmdModes(stdout)
	case "chains":
		return cmdChains(args[1:], stdout)
	case "help", "-h", "--help":
		usage(stdout)
		return nil
	default:
		return errUsage
	}
}

// ============ Helper Functions ============

func usage(w io.Writer) {
	fmt.Fprint(w, `prism commands:

  encrypt [--mode slug | --chain name] [--force] (--text "..." [--mask-pan] | file...)
  decrypt [--mode slug | --chain name] [--force] (--text base64 | file...)
  redact  [--text "..."]            (reads stdin when --text is absent)
  modes
  chains  list | add --name n --modes a,b[,c] [--desc d] | remove --name n

The password is taken from --password or $PRISM_PASSWORD (a .env file is
loaded when present). Chain definitions live in --chains or $PRISM_CHAINS,
default ./chains.yaml.

Examples:
  prism encrypt --mode aes-256-gcm report.pdf        # writes report.pdf.prism
  prism decrypt --mode aes-256-gcm report.pdf.prism  # writes report.pdf
  prism encrypt --mask-pan --text "Card: 4111 1111 1111 1111"
  prism chains add --name archive --modes aes-256-gcm-siv,xchacha20-poly1305
`)
}

// selector holds the flags shared by encrypt and decrypt.
type selector struct {
	mode     *string
	chain    *string
	chains   *string
	password *string
	text     *string
	force    *bool
	quiet    *bool
}

func addSelectorFlags(fs *flag.FlagSet) selector {
	return selector{
		mode:     fs.String("mode", modes.UnifiedPrism.String(), "mode slug, display name or numeric id"),
		chain:    fs.String("chain", "", "name or id of a saved chain (overrides --mode)"),
		chains:   fs.String("chains", envOr(chainsEnv, defaultChainDB), "chain library file"),
		password: fs.String("password", "", "password (default $"+passwordEnv+")"),
		text:     fs.String("text", "", "operate on this text instead of files"),
		force:    fs.Bool("force", false, "overwrite existing output files"),
		quiet:    fs.Bool("q", false, "do not report layer progress"),
	}
}

func (s selector) selection() (prism.Selection, error) {
	if *s.chain != "" {
		lib, err := chaindef.Load(*s.chains)
		if err != nil {
			return nil, err
		}
		def, err := lib.Find(*s.chain)
		if err != nil {
			return nil, err
		}
		return def.Selection(), nil
	}
	m, err := modes.Parse(*s.mode)
	if err != nil {
		return nil, err
	}
	return prism.Primitive(m), nil
}

func (s selector) secret() ([]byte, error) {
	pw := *s.password
	if pw == "" {
		pw = os.Getenv(passwordEnv)
	}
	if pw == "" {
		return nil, fmt.Errorf("no password: set --password or $%s", passwordEnv)
	}
	return []byte(pw), nil
}

// withSecret hands fn the password bytes and wipes them when fn returns.
func (s selector) withSecret(fn func(pw []byte) error) error {
	pw, err := s.secret()
	if err != nil {
		return err
	}
	defer zero(pw)
	return fn(pw)
}

func announce(stderr io.Writer, quiet bool) prism.ItemFunc {
	if quiet {
		return nil
	}
	return func(_ int, name string) {
		fmt.Fprintln(stderr, name)
	}
}

func (s selector) progress(stderr io.Writer, verb string) prism.LayerFunc {
	if *s.quiet {
		return nil
	}
	return func(m modes.Mode) {
		fmt.Fprintf(stderr, "  %s %s\n", verb, m.DisplayName())
	}
}

func cmdEncrypt(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("encrypt", flag.ContinueOnError)
	fs.SetOutput(stderr)
	sel := addSelectorFlags(fs)
	maskPAN := fs.Bool("mask-pan", false, "mask card numbers before encrypting text input")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	selection, err := sel.selection()
	if err != nil {
		return err
	}
	return sel.withSecret(func(pw []byte) error {
		return encryptInputs(fs, sel, selection, pw, *maskPAN, stdout, stderr)
	})
}

func encryptInputs(fs *flag.FlagSet, sel selector, selection prism.Selection, pw []byte, maskPAN bool, stdout, stderr io.Writer) error {
	if *sel.text != "" {
		out, err := engine.EncryptText(*sel.text, pw, selection, maskPAN, sel.progress(stderr, "encrypt"))
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, out)
		return nil
	}
	if fs.NArg() == 0 {
		return errors.New("--text or at least one file required")
	}

	if maskPAN {
		return errors.New("--mask-pan applies to --text input only")
	}

	items, err := readItems(fs.Args())
	if err != nil {
		return err
	}
	results := engine.EncryptBatch(items, pw, selection, announce(stderr, *sel.quiet), sel.progress(stderr, "encrypt"))
	for _, r := range results {
		if r.Err != nil {
			continue
		}
		out := r.Name + suffix
		if err := writeFile(out, r.Data, *sel.force); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "%s -> %s (%s)\n", r.Name, out, selection)
	}
	return prism.BatchErr(results)
}

func cmdDecrypt(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("decrypt", flag.ContinueOnError)
	fs.SetOutput(stderr)
	sel := addSelectorFlags(fs)
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	selection, err := sel.selection()
	if err != nil {
		return err
	}
	return sel.withSecret(func(pw []byte) error {
		return decryptInputs(fs, sel, selection, pw, stdout, stderr)
	})
}

func decryptInputs(fs *flag.FlagSet, sel selector, selection prism.Selection, pw []byte, stdout, stderr io.Writer) error {
	if *sel.text != "" {
		out, err := engine.DecryptText(*sel.text, pw, selection, sel.progress(stderr, "decrypt"))
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, out)
		return nil
	}
	if fs.NArg() == 0 {
		return errors.New("--text or at least one file required")
	}

	for _, in := range fs.Args() {
		if out, ok := strings.CutSuffix(in, suffix); !ok || out == "" {
			return fmt.Errorf("%s: expected a %s file", in, suffix)
		}
	}
	items, err := readItems(fs.Args())
	if err != nil {
		return err
	}
	results := engine.DecryptBatch(items, pw, selection, announce(stderr, *sel.quiet), sel.progress(stderr, "decrypt"))
	for _, r := range results {
		if r.Err != nil {
			continue
		}
		out := strings.TrimSuffix(r.Name, suffix)
		if err := writeFile(out, r.Data, *sel.force); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "%s -> %s\n", r.Name, out)
	}
	return prism.BatchErr(results)
}

func cmdRedact(args []string, stdin io.Reader, stdout io.Writer) error {
	fs := flag.NewFlagSet("redact", flag.ContinueOnError)
	text := fs.String("text", "", "text to mask (default: read stdin)")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	in := *text
	if in == "" {
		b, err := io.ReadAll(stdin)
		if err != nil {
			return err
		}
		in = string(b)
	}
	_, err := io.WriteString(stdout, prism.Redact(in, true))
	if err == nil && *text != "" {
		_, err = io.WriteString(stdout, "\n")
	}
	return err
}

func cmdModes(stdout io.Writer) error {
	tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSLUG\tNAME\tNONCE\tTAG\tKIND")
	for _, m := range append(modes.All(), modes.UnifiedPrism) {
		md, err := modes.Lookup(m)
		if err != nil {
			return err
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%d\t%s\n", int(m), md.Slug, md.Name, md.NonceSize, md.TagSize, md.Category)
	}
	return tw.Flush()
}

func cmdChains(args []string, stdout io.Writer) error {
	if len(args) < 1 {
		return errUsage
	}
	fs := flag.NewFlagSet("chains "+args[0], flag.ContinueOnError)
	path := fs.String("chains", envOr(chainsEnv, defaultChainDB), "chain library file")
	name := fs.String("name", "", "chain name")
	desc := fs.String("desc", "", "chain description")
	list := fs.String("modes", "", "comma-separated modes, first applied first")
	if err := fs.Parse(args[1:]); err != nil {
		return errUsage
	}

	lib, err := chaindef.Load(*path)
	if err != nil {
		return err
	}

	switch args[0] {
	case "list":
		tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tNAME\tMODES\tCREATED")
		for _, d := range lib.Chains {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", d.ID, d.Name, d.Modes, d.CreatedAt.Format("2006-01-02 15:04"))
		}
		return tw.Flush()

	case "add":
		chain, err := parseChain(*list)
		if err != nil {
			return err
		}
		def, err := chaindef.New(*name, *desc, chain)
		if err != nil {
			return err
		}
		if err := lib.Add(def); err != nil {
			return err
		}
		if err := lib.Save(*path); err != nil {
			return err
		}
		fmt.Fprintln(stdout, "Added chain id:", def.ID)
		return nil

	case "remove":
		if *name == "" {
			return errors.New("--name required")
		}
		if !lib.Remove(*name) {
			return fmt.Errorf("%w: %q", chaindef.ErrNotFound, *name)
		}
		return lib.Save(*path)

	default:
		return errUsage
	}
}

// ============ Utilities ============

func parseChain(list string) (modes.Chain, error) {
	var chain modes.Chain
	for _, part := range strings.Split(list, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		m, err := modes.Parse(part)
		if err != nil {
			return nil, err
		}
		chain = append(chain, m)
	}
	return chain, nil
}

func readItems(paths []string) ([]prism.Item, error) {
	items := make([]prism.Item, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, err
		}
		items = append(items, prism.Item{Name: p, Data: data})
	}
	return items, nil
}

func writeFile(path string, data []byte, force bool) error {
	flags := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	if !force {
		flags |= os.O_EXCL
	}
	f, err := os.OpenFile(path, flags, 0o600)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
