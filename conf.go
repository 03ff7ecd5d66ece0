package main

import (
	"bytes"
	"encoding/xml"
	"io"

	"github.com/pkg/errors"
	"golang.org/x/net/html/charset"
)

const confRootElement = "configuration"

type confProperty struct {
	Name  string `xml:"name"`
	Value string `xml:"value"`
}

type parsedConf struct {
	XMLName    xml.Name
	Properties []confProperty `xml:"property"`
}

// loadConf loads the properties of one hadoop -site.xml document represented
// by r. Properties are only taken from a root <configuration> element; a
// property missing its name or value yields an empty string for it.
func loadConf(r io.Reader) (map[string]string, error) {
	decoder := xml.NewDecoder(r)
	decoder.CharsetReader = charset.NewReaderLabel

	parsed := parsedConf{}
	err := decoder.Decode(&parsed)
	if err == io.EOF {
		return nil, errors.New("no root element")
	} else if err != nil {
		return nil, errors.WithStack(err)
	}

	if err := expectEnd(decoder); err != nil {
		return nil, err
	}

	conf := make(map[string]string, len(parsed.Properties))
	if parsed.XMLName.Local != confRootElement {
		return conf, nil
	}

	for _, prop := range parsed.Properties {
		conf[prop.Name] = prop.Value
	}

	return conf, nil
}

// expectEnd drains the decoder, failing on anything but whitespace, comments
// and processing instructions after the root element.
func expectEnd(decoder *xml.Decoder) error {
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			return nil
		} else if err != nil {
			return errors.WithStack(err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			return errors.Errorf("unexpected element <%s> after root element", t.Name.Local)
		case xml.CharData:
			if len(bytes.TrimSpace(t)) != 0 {
				return errors.New("unexpected text after root element")
			}
		}
	}
}
