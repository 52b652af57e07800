/*
Package config reads the configuration of the inspector from a YAML file.

A configuration file looks like this:

	listen: localhost:9222
	document: testdata/page.html
	stylesheets:
	  - testdata/extra.css
	query_timeout: 2s
	trace_level: Info
	tracing:
	  inspector.dom: Debug

Command line flags override the values of the file.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/npillmayer/schuko"
	"github.com/npillmayer/schuko/tracing"
	"gopkg.in/yaml.v3"
)

// DefaultListen is the address the DevTools protocol is usually served on.
const DefaultListen = "localhost:9222"

// ErrNoDocument is returned by Validate if no document is configured.
var ErrNoDocument = errors.New("no document configured")

// Config is the configuration of the inspector.
type Config struct {
	Listen       string            `yaml:"listen"`
	Document     string            `yaml:"document"`
	Stylesheets  []string          `yaml:"stylesheets"`
	QueryTimeout time.Duration     `yaml:"query_timeout"`
	TraceLevel   string            `yaml:"trace_level"`
	Tracing      map[string]string `yaml:"tracing"` // trace levels per tracer key
}

// Default returns a configuration with default values.
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// LoadFile reads a YAML configuration file. Missing values are set to their
// defaults.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading configuration: %w", err)
	}
	return Load(data)
}

// Load reads a YAML configuration. Unknown fields are an error.
func Load(data []byte) (*Config, error) {
	c := &Config{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing configuration: %w", err)
	}
	c.applyDefaults()
	return c, nil
}

func (c *Config) applyDefaults() {
	if c.Listen == "" {
		c.Listen = DefaultListen
	}
	if c.TraceLevel == "" {
		c.TraceLevel = "Error"
	}
	if c.QueryTimeout < 0 {
		c.QueryTimeout = 0
	}
}

// Validate checks if a configuration is complete.
func (c *Config) Validate() error {
	if c.Document == "" {
		return ErrNoDocument
	}
	return nil
}

// --- Tracing ---------------------------------------------------------------

// TracePrefix is the key prefix of trace levels in TraceConfiguration.
const TracePrefix = "trace"

// TraceKeys are the tracer keys used by the packages of this module.
var TraceKeys = []string{"inspector.dom", "inspector.protocol", "inspector.server"}

// TraceConfiguration exposes the tracing part of a configuration as a
// schuko.Configuration, as expected by the schuko tracing setup. Keys are
//
//	tracing.adapter           → "go"
//	trace.root                → TraceLevel
//	trace.<tracer key>        → Tracing[key], or TraceLevel
func (c *Config) TraceConfiguration() schuko.Configuration {
	return traceConf{c}
}

// TraceLevelFor returns the trace level configured for a tracer key.
func (c *Config) TraceLevelFor(key string) tracing.TraceLevel {
	if l, ok := c.Tracing[key]; ok {
		return tracing.TraceLevelFromString(l)
	}
	return tracing.TraceLevelFromString(c.TraceLevel)
}

type traceConf struct {
	c *Config
}

var _ schuko.Configuration = traceConf{}

func (tc traceConf) InitDefaults() {
	tc.c.applyDefaults()
}

func (tc traceConf) IsSet(key string) bool {
	_, ok := tc.lookup(key)
	return ok
}

func (tc traceConf) GetString(key string) string {
	s, _ := tc.lookup(key)
	return s
}

func (tc traceConf) GetInt(key string) int {
	return 0
}

func (tc traceConf) GetBool(key string) bool {
	return false
}

func (tc traceConf) IsInteractive() bool {
	return false
}

func (tc traceConf) lookup(key string) (string, bool) {
	switch key {
	case "tracing.adapter":
		return "go", true
	case TracePrefix + ".root":
		return tc.c.TraceLevel, true
	}
	k, ok := strings.CutPrefix(key, TracePrefix+".")
	if !ok {
		return "", false
	}
	if l, ok := tc.c.Tracing[k]; ok {
		return l, true
	}
	for _, tk := range TraceKeys {
		if tk == k {
			return tc.c.TraceLevel, true
		}
	}
	return "", false
}
