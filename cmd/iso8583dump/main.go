package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	iso8583 "github.com/mkadit/iso8583codec"
	"github.com/mkadit/iso8583codec/internal/observability"
)

type options struct {
	specPath  string
	inPath    string
	hexInput  bool
	header    iso8583.HeaderType
	tlvFields string
	verbose   bool
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("iso8583dump", flag.ContinueOnError)
	fs.SetOutput(stderr)

	opts := &options{}
	fs.StringVar(&opts.specPath, "spec", "", "field table (.toml or .json); default ISO 8583:1987")
	fs.StringVar(&opts.inPath, "in", "-", "input file, - for stdin")
	fs.BoolVar(&opts.hexInput, "hex", false, "input is hex text")
	fs.TextVar(&opts.header, "header", iso8583.HeaderNone, "length header: none, binary, ascii or hex")
	fs.StringVar(&opts.tlvFields, "tlv", "55", "comma separated fields to expand as TLV")
	fs.BoolVar(&opts.verbose, "v", false, "debug logging")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return opts, nil
}

func parseFieldList(s string) ([]int, error) {
	var out []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("bad field number %q", part)
		}
		out = append(out, n)
	}
	return out, nil
}

func readInput(opts *options, stdin io.Reader) ([]byte, error) {
	var data []byte
	var err error
	if opts.inPath == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(opts.inPath)
	}
	if err != nil {
		return nil, err
	}
	if opts.hexInput {
		return hex.DecodeString(strings.Join(strings.Fields(string(data)), ""))
	}
	return data, nil
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}
	logger := observability.InitLogger("iso8583dump", stderr, opts.verbose)

	spec := iso8583.DefaultSpec()
	if opts.specPath != "" {
		if spec, err = iso8583.LoadSpecFile(opts.specPath); err != nil {
			return err
		}
		logger.Debug().Str("path", opts.specPath).Msg("loaded field table")
	}

	tlvFields, err := parseFieldList(opts.tlvFields)
	if err != nil {
		return err
	}

	data, err := readInput(opts, stdin)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	msg, err := iso8583.NewMessage(spec, iso8583.WithLogger(logger))
	if err != nil {
		return err
	}

	for count := 1; len(data) > 0; count++ {
		raw, rest, err := iso8583.Unframe(data, opts.header)
		if err != nil {
			return fmt.Errorf("message %d: %w", count, err)
		}
		data = rest

		if err := msg.Parse(raw); err != nil {
			return fmt.Errorf("message %d: %w", count, err)
		}
		logger.Info().Int("message", count).Str("mti", msg.MTI()).Int("fields", len(msg.Fields())).Msg("parsed")

		dump(stdout, msg, tlvFields, logger)
	}
	return nil
}

func dump(w io.Writer, msg *iso8583.Message, tlvFields []int, logger zerolog.Logger) {
	fmt.Fprint(w, msg.String())
	for _, i := range tlvFields {
		if !msg.HasField(i) {
			continue
		}
		t, err := msg.GetTLV(i)
		if err != nil {
			logger.Warn().Err(err).Int("field", i).Msg("TLV expansion failed")
			continue
		}
		fmt.Fprintf(w, "\tTLV field %d:\n", i)
		for _, line := range strings.Split(strings.TrimRight(t.String(), "\n"), "\n") {
			fmt.Fprintf(w, "\t\t%s\n", line)
		}
	}
	fmt.Fprintln(w)
}

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, "iso8583dump:", err)
		os.Exit(1)
	}
}
