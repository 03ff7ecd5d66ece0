package main

import (
	"flag"
	"fmt"
	"io"
	"net/url"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

type cliParams struct {
	Help            bool   `flag:"help"`
	ClientConfigURL string `flag:"client-config-url" validate:"omitempty,url,source_scheme"`
	Verbose         bool   `flag:"verbose"`
	Format          string `flag:"format" validate:"oneof=json yaml"`
	AWSRegion       string `flag:"aws-region" validate:"required"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("flag")
	})
	// Registration only fails for an empty tag or a nil func.
	_ = v.RegisterValidation("source_scheme", func(fl validator.FieldLevel) bool {
		u, err := url.Parse(fl.Field().String())
		return err == nil && supportedScheme(u.Scheme)
	})
	return v
}

func newFlagSet(params *cliParams, out io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet("hadoop-client-params-importer", flag.ContinueOnError)
	fs.SetOutput(out)

	fs.BoolVar(&params.Help, "h", false, "Display this help information.")
	fs.BoolVar(&params.Help, "help", false, "Display this help information.")
	fs.StringVar(&params.ClientConfigURL, "cu", "", "URL of the client configuration zip. Reads stdin when empty.")
	fs.StringVar(&params.ClientConfigURL, "client-config-url", "", "URL of the client configuration zip. Reads stdin when empty.")
	fs.BoolVar(&params.Verbose, "v", false, "Print full diagnostics on failure.")
	fs.BoolVar(&params.Verbose, "verbose", false, "Print full diagnostics on failure.")
	fs.StringVar(&params.Format, "format", formatJSON, "Output format: 'json' or 'yaml'.")
	fs.StringVar(&params.AWSRegion, "aws-region", "us-east-1", "AWS region used for s3:// urls.")

	fs.Usage = func() {
		fmt.Fprint(out, `
Hadoop client configuration importer

Reads a zip of *-site.xml files and prints their properties as
{"HADOOP_CONFIG_KEY": {...}}.

Usage:
  hadoop-client-params-importer [options] < client-config.zip
  hadoop-client-params-importer -cu <url>

Supported url schemes: file, http, https, s3, hdfs.

Options:
`)
		fs.PrintDefaults()
	}
	return fs
}

// validateArgs parses args into params. It returns false when the import
// should be skipped, either because help was requested or because the
// arguments are invalid; usage has been written to out in both cases.
func validateArgs(args []string, params *cliParams, out io.Writer) bool {
	fs := newFlagSet(params, out)

	// The flag set prints its own error and usage on a parse failure.
	if err := fs.Parse(args); err != nil {
		return false
	}

	if params.Help {
		fs.Usage()
		return false
	}

	if fs.NArg() > 0 {
		fmt.Fprintf(out, "unexpected arguments: %s\n", strings.Join(fs.Args(), " "))
		fs.Usage()
		return false
	}

	if err := validate.Struct(params); err != nil {
		for _, msg := range validationMessages(err) {
			fmt.Fprintln(out, msg)
		}
		fs.Usage()
		return false
	}

	return true
}

func validationMessages(err error) []string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []string{err.Error()}
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("invalid value %q for -%s (%s)", fe.Value(), fe.Field(), fe.Tag()))
	}
	return msgs
}
