package main

import (
	"bytes"
	"io"
	"strings"

	"github.com/klauspost/compress/zip"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	// Only entries with this suffix are read for properties.
	siteXMLSuffix = "-site.xml"

	// Client configuration bundles are a handful of small xml files. The whole
	// archive is held in memory, so refuse anything unreasonably large.
	maxArchiveSize = 64 << 20
)

var errArchiveTooLarge = errors.New("archive exceeds size limit")

// scanConfigZipArchive reads a zip archive from source and merges the
// properties of every -site.xml entry into one map. Entries are visited in
// archive order, so a later entry overrides an earlier one for the same key.
func scanConfigZipArchive(source io.Reader, log logrus.FieldLogger) (map[string]string, error) {
	data, err := io.ReadAll(io.LimitReader(source, maxArchiveSize+1))
	if err != nil {
		return nil, errors.Wrap(err, "reading archive")
	}
	if len(data) > maxArchiveSize {
		return nil, errors.Wrapf(errArchiveTooLarge, "more than %d bytes", maxArchiveSize)
	}

	archive, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, errors.Wrap(err, "opening archive")
	}

	props := make(map[string]string)
	for _, entry := range archive.File {
		if !strings.HasSuffix(entry.Name, siteXMLSuffix) {
			log.WithField("entry", entry.Name).Debug("skipping entry")
			continue
		}

		conf, err := readSiteEntry(entry)
		if err != nil {
			return nil, errors.Wrapf(err, "entry %s", entry.Name)
		}
		log.WithFields(logrus.Fields{
			"entry":      entry.Name,
			"properties": len(conf),
		}).Debug("read entry")

		for key, value := range conf {
			props[key] = value
		}
	}

	return props, nil
}

func readSiteEntry(entry *zip.File) (map[string]string, error) {
	rc, err := entry.Open()
	if err != nil {
		return nil, errors.Wrap(err, "opening entry")
	}
	defer rc.Close()

	raw, err := io.ReadAll(rc)
	if err != nil {
		return nil, errors.Wrap(err, "reading entry")
	}

	conf, err := loadConf(bytes.NewReader(raw))
	if err != nil {
		return nil, errors.Wrap(err, "parsing xml")
	}
	return conf, nil
}
