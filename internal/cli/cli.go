package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/alexflint/go-arg"
	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/woozymasta/texthumb"
)

// Version is reported by --version.
var Version = "dev"

type (
	Args struct {
		Info    *InfoCmd    `arg:"subcommand:info" help:"print .tex header details"`
		DDS     *DDSCmd     `arg:"subcommand:dds" help:"write the synthesized DDS container"`
		Thumb   *ThumbCmd   `arg:"subcommand:thumb" help:"render a thumbnail to BMP or PNG"`
		Formats *FormatsCmd `arg:"subcommand:formats" help:"list recognized .tex formats"`
		Verbose bool        `arg:"-v,--verbose" help:"enable debug logging"`
	}
	InfoCmd struct {
		Files []string `arg:"positional,required" help:"source files" placeholder:"FILE.tex"`
	}
	DDSCmd struct {
		From  string `arg:"positional,required" help:"source file" placeholder:"FILE.tex"`
		To    string `arg:"-o,--out" help:"destination file, defaults to the source name with .dds" placeholder:"FILE.dds"`
		LZ4   bool   `arg:"--lz4" help:"wrap the output in an LZ4 frame"`
		Force bool   `help:"overwrite the destination file"`
	}
	FormatsCmd struct{}
	ThumbCmd   struct {
		From   string `arg:"positional,required" help:"source file" placeholder:"FILE.tex"`
		To     string `arg:"-o,--out" help:"destination .bmp or .png, defaults to the source name with .png" placeholder:"FILE.png"`
		Size   int    `arg:"-s,--size" default:"256" help:"requested thumbnail edge"`
		Filter string `arg:"--filter" default:"default" help:"resize filter: default, point, linear, cubic"`
		Force  bool   `help:"overwrite the destination file"`
	}
)

func (Args) Description() string {
	return "Render previews of .tex textures and extract their DDS payload.\n"
}

func (Args) Version() string {
	return "texthumb " + Version
}

// Run parses args and executes the selected subcommand.
func Run(argv []string, stdout, stderr io.Writer) error {
	var args Args
	p, err := arg.NewParser(arg.Config{Program: "texthumb"}, &args)
	if err != nil {
		return errors.Wrap(err, "build argument parser")
	}

	switch err := p.Parse(argv); {
	case errors.Is(err, arg.ErrHelp):
		p.WriteHelp(stdout)
		return nil
	case errors.Is(err, arg.ErrVersion):
		_, _ = fmt.Fprintln(stdout, args.Version())
		return nil
	case err != nil:
		p.WriteUsage(stderr)
		return err
	}

	opts := texthumb.DefaultOptions()
	opts.Logger = newLogger(stderr, args.Verbose)

	switch {
	case args.Info != nil:
		return runInfo(stdout, args.Info, opts)
	case args.DDS != nil:
		return runDDS(stdout, args.DDS, opts)
	case args.Thumb != nil:
		return runThumb(stdout, args.Thumb, opts)
	case args.Formats != nil:
		return runFormats(stdout)
	default:
		p.WriteHelp(stdout)
		return nil
	}
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// CheckExistence reports whether path exists.
func CheckExistence(path string) bool {
	_, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return false
	}

	return err == nil
}

func destination(from, to, ext string) string {
	if to != "" {
		return to
	}

	return strings.TrimSuffix(from, filepath.Ext(from)) + ext
}

func runInfo(w io.Writer, cmd *InfoCmd, opts *texthumb.Options) error {
	for _, path := range cmd.Files {
		c, err := texthumb.TranslateFile(path, opts)
		if err != nil {
			return errors.Wrapf(err, "read %s", path)
		}

		h := c.Source()
		levels := lo.Map(h.MipLevels(), func(l texthumb.MipLevel, _ int) string {
			return fmt.Sprintf("%dx%d", l.Width, l.Height)
		})

		_, _ = fmt.Fprintf(w, "%s\n", path)
		_, _ = fmt.Fprintf(w, "  magic:       %q\n", string(h.Magic[:]))
		_, _ = fmt.Fprintf(w, "  version:     %d\n", h.Version)
		_, _ = fmt.Fprintf(w, "  size:        %dx%d\n", h.Width, h.Height)
		_, _ = fmt.Fprintf(w, "  format:      %s (%d)\n", h.Format, uint32(h.Format))
		_, _ = fmt.Fprintf(w, "  fourcc:      %s\n", h.Format.FourCC())
		_, _ = fmt.Fprintf(w, "  dxgi:        %s\n", h.Format.DXGI())
		_, _ = fmt.Fprintf(w, "  mips:        %d [%s]\n", h.MipCount, strings.Join(levels, " "))
		_, _ = fmt.Fprintf(w, "  data offset: 0x%X\n", c.DataOffset())
		_, _ = fmt.Fprintf(w, "  payload:     %d bytes\n", len(c.Payload()))
	}

	return nil
}

func runDDS(w io.Writer, cmd *DDSCmd, opts *texthumb.Options) error {
	ext := ".dds"
	if cmd.LZ4 {
		ext = ".dds.lz4"
	}
	to := destination(cmd.From, cmd.To, ext)
	if CheckExistence(to) && !cmd.Force {
		return errors.Errorf("destination %s exists, use --force to overwrite", to)
	}

	c, err := texthumb.TranslateFile(cmd.From, opts)
	if err != nil {
		return errors.Wrapf(err, "translate %s", cmd.From)
	}

	f, err := os.Create(to)
	if err != nil {
		return errors.Wrapf(err, "create %s", to)
	}
	defer func() { _ = f.Close() }()

	if cmd.LZ4 {
		err = c.WriteLZ4(f)
	} else {
		_, err = c.WriteTo(f)
	}
	if err != nil {
		return errors.Wrapf(err, "write %s", to)
	}
	if err := f.Close(); err != nil {
		return errors.Wrapf(err, "close %s", to)
	}

	_, _ = fmt.Fprintf(w, "Wrote %s\n", to)
	return nil
}

func runThumb(w io.Writer, cmd *ThumbCmd, opts *texthumb.Options) error {
	to := destination(cmd.From, cmd.To, ".png")
	ext := strings.ToLower(filepath.Ext(to))
	if ext != ".png" && ext != ".bmp" {
		return errors.Errorf("unsupported output type %q, want .png or .bmp", ext)
	}
	if CheckExistence(to) && !cmd.Force {
		return errors.Errorf("destination %s exists, use --force to overwrite", to)
	}

	filter, err := texthumb.ParseFilter(cmd.Filter)
	if err != nil {
		return err
	}
	opts.Filter = filter

	src, err := os.Open(cmd.From)
	if err != nil {
		return errors.Wrapf(err, "open %s", cmd.From)
	}
	defer func() { _ = src.Close() }()

	provider := texthumb.NewProvider(opts)
	defer provider.Release()

	if err := provider.Initialize(src); err != nil {
		return errors.Wrap(err, "initialize provider")
	}
	bmp, alpha, err := provider.GetThumbnail(cmd.Size)
	if err != nil {
		return errors.Wrapf(err, "render %s", cmd.From)
	}

	out, err := os.Create(to)
	if err != nil {
		return errors.Wrapf(err, "create %s", to)
	}
	defer func() { _ = out.Close() }()

	if ext == ".bmp" {
		err = bmp.EncodeBMP(out)
	} else {
		err = bmp.EncodePNG(out)
	}
	if err != nil {
		return errors.Wrapf(err, "encode %s", to)
	}
	if err := out.Close(); err != nil {
		return errors.Wrapf(err, "close %s", to)
	}

	_, _ = fmt.Fprintf(w, "Wrote %s (%dx%d, alpha %s)\n", to, bmp.Width, bmp.Height, alpha)
	return nil
}

func runFormats(w io.Writer) error {
	for _, f := range texthumb.SupportedFormats() {
		_, _ = fmt.Fprintf(w, "%3d  %-20s %-5s %s\n", uint32(f), f, f.FourCC(), f.DXGI())
	}

	return nil
}
