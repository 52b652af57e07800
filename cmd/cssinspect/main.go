/*
Command cssinspect serves the CSS domain of the DevTools protocol for a
static HTML document.

Usage:

	cssinspect [flags] -document page.html

The document is loaded, styled with its embedded stylesheets and the
stylesheets given with -stylesheet, and made inspectable for remote
inspector clients on the -listen address. Point a DevTools client to
http://<listen>/json to find the page's websocket URL.

With -dump or -graphviz, cssinspect prints the styled tree and exits.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/npillmayer/inspector/config"
	"github.com/npillmayer/inspector/dom"
	"github.com/npillmayer/inspector/dom/domdbg"
	"github.com/npillmayer/inspector/dom/styledtree"
	"github.com/npillmayer/inspector/protocol"
	"github.com/npillmayer/inspector/protocol/css"
	"github.com/npillmayer/inspector/server"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
)

// tracer traces with key 'inspector.server'.
func tracer() tracing.Trace {
	return tracing.Select("inspector.server")
}

// stringList is a repeatable string flag.
type stringList []string

func (l *stringList) String() string {
	return strings.Join(*l, ",")
}

func (l *stringList) Set(s string) error {
	*l = append(*l, s)
	return nil
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "cssinspect: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	conf, flags, err := configure(args)
	if err != nil {
		return err
	}
	if err := setupTracing(conf); err != nil {
		return err
	}
	doc, err := loadDocument(conf)
	if err != nil {
		return err
	}
	defer doc.Close()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if flags.dump {
		return doc.Dump(ctx, os.Stdout)
	}
	if flags.graphviz != "" {
		return writeGraphViz(ctx, doc, flags.graphviz)
	}
	disp := protocol.NewDispatcher()
	if err := disp.Register(css.ForDocument(doc, css.WithQueryTimeout(conf.QueryTimeout))); err != nil {
		return err
	}
	tracer().Infof("domains: %v", disp.Domains())
	srv := server.New(disp, server.WithPage(conf.Document, "file://"+conf.Document))
	return srv.ListenAndServe(ctx, conf.Listen)
}

type cmdFlags struct {
	dump     bool
	graphviz string
}

// configure reads the configuration file, if any, and applies the command
// line flags on top of it.
func configure(args []string) (*config.Config, cmdFlags, error) {
	fs := flag.NewFlagSet("cssinspect", flag.ContinueOnError)
	var (
		confFile     = fs.String("config", "", "YAML configuration file")
		document     = fs.String("document", "", "HTML document to inspect")
		listen       = fs.String("listen", "", "address to serve the protocol on (default "+config.DefaultListen+")")
		queryTimeout = fs.Duration("query-timeout", 0, "maximum time to wait for the document, 0 for no limit")
		traceLevel   = fs.String("trace-level", "", "trace level (Debug, Info, Error)")
		sheets       stringList
		flags        cmdFlags
	)
	fs.Var(&sheets, "stylesheet", "additional CSS stylesheet (repeatable)")
	fs.BoolVar(&flags.dump, "dump", false, "print the styled tree and exit")
	fs.StringVar(&flags.graphviz, "graphviz", "", "write the styled tree as a GraphViz file and exit")
	if err := fs.Parse(args); err != nil {
		return nil, flags, err
	}
	conf := config.Default()
	if *confFile != "" {
		var err error
		if conf, err = config.LoadFile(*confFile); err != nil {
			return nil, flags, err
		}
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "document":
			conf.Document = *document
		case "listen":
			conf.Listen = *listen
		case "query-timeout":
			conf.QueryTimeout = *queryTimeout
		case "trace-level":
			conf.TraceLevel = *traceLevel
		}
	})
	conf.Stylesheets = append(conf.Stylesheets, sheets...)
	if conf.Document == "" && fs.NArg() > 0 {
		conf.Document = fs.Arg(0)
	}
	return conf, flags, conf.Validate()
}

func setupTracing(conf *config.Config) error {
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	if err := trace2go.ConfigureRoot(conf.TraceConfiguration(), config.TracePrefix,
		trace2go.ReplaceTracers(true)); err != nil {
		return fmt.Errorf("cannot configure tracing: %w", err)
	}
	tracing.SetTraceSelector(trace2go.Selector())
	for _, key := range config.TraceKeys {
		tracing.Select(key).SetTraceLevel(conf.TraceLevelFor(key))
	}
	return nil
}

func loadDocument(conf *config.Config) (*dom.Document, error) {
	var opts []dom.Option
	for _, path := range conf.Stylesheets {
		text, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading stylesheet: %w", err)
		}
		opts = append(opts, dom.WithStyleSheet(string(text)))
	}
	f, err := os.Open(conf.Document)
	if err != nil {
		return nil, fmt.Errorf("reading document: %w", err)
	}
	defer f.Close()
	start := time.Now()
	doc, err := dom.Parse(f, opts...)
	if err != nil {
		return nil, err
	}
	tracer().Infof("loaded %s in %v", conf.Document, time.Since(start))
	return doc, nil
}

func writeGraphViz(ctx context.Context, doc *dom.Document, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	var gverr error
	err = doc.Inspect(ctx, func(root *styledtree.StyNode) {
		gverr = domdbg.ToGraphViz(root, f, nil)
	})
	if err != nil {
		return err
	}
	return gverr
}
