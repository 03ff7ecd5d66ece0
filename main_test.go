package main

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trustedanalytics/hadoop-admin-tools/logger"
)

const fixtureJSON = `{"HADOOP_CONFIG_KEY":{` +
	`"dfs.nameservices":"nameservice1",` +
	`"fs.defaultFS":"hdfs://nameservice1",` +
	`"hadoop.rpc.protection":"authentication",` +
	`"hadoop.security.authentication":"simple",` +
	`"hadoop.security.authorization":"false",` +
	`"hadoop.security.group.mapping":"org.apache.hadoop.security.ShellBasedUnixGroupsMapping"}}`

// untouchedReader fails the test if anything reads from it.
type untouchedReader struct {
	t *testing.T
}

func (r untouchedReader) Read(p []byte) (int, error) {
	r.t.Error("stdin should not be read")
	return 0, os.ErrClosed
}

func openFixture(t *testing.T) *os.File {
	f, err := os.Open(configArchivePath)
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

func TestRunFromStdin(t *testing.T) {
	var logs, usage bytes.Buffer

	err := run(nil, openFixture(t), &usage, logger.New(&logs))

	require.NoError(t, err)
	assert.Equal(t, fixtureJSON+"\n", logs.String(), "the document should be the only output")
	assert.Empty(t, usage.String())
}

func TestRunFromFileURL(t *testing.T) {
	var logs bytes.Buffer

	err := run([]string{"-cu", fileURL(t, configArchivePath)}, untouchedReader{t}, &bytes.Buffer{}, logger.New(&logs))

	require.NoError(t, err)
	assert.JSONEq(t, fixtureJSON, strings.TrimSpace(logs.String()))
}

func TestRunYAML(t *testing.T) {
	var logs bytes.Buffer

	err := run([]string{"--format", "yaml"}, openFixture(t), &bytes.Buffer{}, logger.New(&logs))

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(logs.String(), "HADOOP_CONFIG_KEY:\n"))
	assert.Contains(t, logs.String(), "  fs.defaultFS: hdfs://nameservice1\n")
}

func TestRunHelpSkipsImport(t *testing.T) {
	var logs, usage bytes.Buffer

	err := run([]string{"-h"}, untouchedReader{t}, &usage, logger.New(&logs))

	assert.NoError(t, err, "help is not a failure")
	assert.Contains(t, usage.String(), "Usage:")
	assert.Empty(t, logs.String(), "nothing should be imported")
}

func TestRunInvalidURLSkipsImport(t *testing.T) {
	var logs, usage bytes.Buffer

	err := run([]string{"-cu", "sldasd"}, untouchedReader{t}, &usage, logger.New(&logs))

	assert.NoError(t, err, "invalid arguments are not a failure")
	assert.Contains(t, usage.String(), "Usage:")
	assert.Empty(t, logs.String())
}

func TestRunUnsupportedSchemeSkipsImport(t *testing.T) {
	var logs, usage bytes.Buffer

	err := run([]string{"-cu", "ftp://files.example.com/conf.zip"}, untouchedReader{t}, &usage, logger.New(&logs))

	assert.NoError(t, err, "an unsupported scheme is an argument error")
	assert.Contains(t, usage.String(), "(source_scheme)")
	assert.Empty(t, logs.String())
}

func TestRunFailureProducesNoDocument(t *testing.T) {
	archive := buildZip(t,
		zipEntry{"core-site.xml", siteXML("fs.defaultFS", "hdfs://nn:8020")},
		zipEntry{"hdfs-site.xml", "<configuration>"},
	)
	var logs bytes.Buffer

	err := run(nil, archive, &bytes.Buffer{}, logger.New(&logs))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "hdfs-site.xml")
	assert.Empty(t, logs.String(), "a failed import should not print a partial document")
}

func TestRunVerboseLogsStages(t *testing.T) {
	var logs bytes.Buffer

	err := run([]string{"-v"}, openFixture(t), &bytes.Buffer{}, logger.New(&logs))

	require.NoError(t, err)
	out := logs.String()
	assert.Contains(t, out, "reading archive from stdin")
	assert.Contains(t, out, "entry=hadoop-conf/log4j.properties")
	assert.Contains(t, out, "entry=hadoop-conf/core-site.xml")
	assert.True(t, strings.HasSuffix(out, fixtureJSON+"\n"), "the document should still be printed last")
}

func TestClientNamenodes(t *testing.T) {
	assert.Empty(t, clientNamenodes(map[string]string{}))

	assert.Equal(t, []string{"nn1:8020"}, clientNamenodes(map[string]string{
		"fs.defaultFS": "hdfs://nn1:8020",
	}))

	ha := map[string]string{
		"fs.defaultFS":                              "hdfs://nameservice1",
		"dfs.nameservices":                          "nameservice1",
		"dfs.ha.namenodes.nameservice1":             "nn1,nn2",
		"dfs.namenode.rpc-address.nameservice1.nn1": "host1:8020",
		"dfs.namenode.rpc-address.nameservice1.nn2": "host2:8020",
	}
	assert.Equal(t, []string{"host1:8020", "host2:8020"}, clientNamenodes(ha))
}
