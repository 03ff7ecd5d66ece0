package main

import (
	"io"
	"os"

	"github.com/colinmarc/hdfs/v2/hadoopconf"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/trustedanalytics/hadoop-admin-tools/logger"
)

func main() {
	log := logger.New(os.Stdout)

	if err := run(os.Args[1:], os.Stdin, os.Stdout, log); err != nil {
		log.Failure(err)
		os.Exit(1)
	}
}

// run parses args and, unless help was requested or the arguments are
// invalid, performs the import. Any returned error is fatal.
func run(args []string, stdin io.Reader, usageOut io.Writer, log *logger.Logger) error {
	params := &cliParams{}
	if !validateArgs(args, params, usageOut) {
		return nil
	}
	log.SetVerbose(params.Verbose)

	return performAction(params, stdin, log)
}

// performAction resolves the source stream, scans the archive and logs the
// rendered document. Nothing is logged at info level unless every stage
// succeeded.
func performAction(params *cliParams, stdin io.Reader, log logrus.FieldLogger) error {
	resolver := newSourceResolver(stdin, params.AWSRegion, log)

	source, err := resolver.getSourceInputStream(params.ClientConfigURL)
	if err != nil {
		return err
	}
	defer source.Close()

	props, err := scanConfigZipArchive(source, log)
	if err != nil {
		return errors.Wrap(err, "scanning client configuration archive")
	}

	if nns := clientNamenodes(props); len(nns) > 0 {
		log.WithField("namenodes", nns).Debug("client configuration points at namenodes")
	}

	doc, err := render(params.Format, props)
	if err != nil {
		return err
	}

	log.Info(doc)
	return nil
}

// clientNamenodes lists the namenode addresses the merged configuration
// resolves to.
func clientNamenodes(props map[string]string) []string {
	return hadoopconf.HadoopConf(props).Namenodes()
}
