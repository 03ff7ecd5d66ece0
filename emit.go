package main

import (
	"bytes"
	"strings"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
	yaml "gopkg.in/yaml.v2"
)

// hadoopConfigKey labels the property map in the emitted document. Consumers
// of the client configuration look the properties up under this key.
const hadoopConfigKey = "HADOOP_CONFIG_KEY"

const (
	formatJSON = "json"
	formatYAML = "yaml"
)

func configDocument(props map[string]string) map[string]map[string]string {
	if props == nil {
		props = map[string]string{}
	}
	return map[string]map[string]string{hadoopConfigKey: props}
}

// returnJSON renders props as {"HADOOP_CONFIG_KEY": {...}} on a single line.
// Values keep &, < and > as literal characters.
func returnJSON(props map[string]string) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(configDocument(props)); err != nil {
		return "", errors.Wrap(err, "encoding json")
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// returnYAML renders the same document as returnJSON in yaml.
func returnYAML(props map[string]string) (string, error) {
	b, err := yaml.Marshal(configDocument(props))
	if err != nil {
		return "", errors.Wrap(err, "encoding yaml")
	}
	return strings.TrimSuffix(string(b), "\n"), nil
}

func render(format string, props map[string]string) (string, error) {
	switch format {
	case formatJSON, "":
		return returnJSON(props)
	case formatYAML:
		return returnYAML(props)
	}
	return "", errors.Errorf("unknown output format %q", format)
}
