// Command ggedit applies filters and presets to an image from the command
// line.
//
//	ggedit -preset vintage -filter brightness=0.1 photo.jpg out.png
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gogpu/ggedit"
	"github.com/gogpu/ggedit/filter"
	"github.com/gogpu/ggedit/loader"
)

func main() {
	var (
		config  = flag.String("config", "", "YAML config file")
		backend = flag.String("backend", "", "surface backend (default: highest priority)")
		preset  = flag.String("preset", "", "preset id to apply")
		filters = flag.String("filter", "", "comma-separated type=value filters, e.g. brightness=0.2,blur=3")
		format  = flag.String("format", "", "output format (default: from the output extension)")
		quality = flag.Float64("quality", -1, "lossy quality in [0,1] (default: from config)")
		verbose = flag.Bool("v", false, "log to stderr")
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: ggedit [flags] <input> <output>\n")
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 2 {
		flag.Usage()
		os.Exit(2)
	}
	in, out := flag.Arg(0), flag.Arg(1)

	if *verbose {
		ggedit.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	cfg := ggedit.DefaultConfig()
	if *config != "" {
		var err error
		if cfg, err = ggedit.LoadConfig(*config); err != nil {
			log.Fatal(err)
		}
	}
	if *backend != "" {
		cfg.Canvas.Backend = *backend
	}

	ds, err := parseFilters(*filters)
	if err != nil {
		log.Fatal(err)
	}

	ed, err := ggedit.New(ggedit.WithConfig(cfg))
	if err != nil {
		log.Fatal(err)
	}
	defer ed.Close()

	if err := ed.LoadImage(context.Background(), source(in)); err != nil {
		log.Fatalf("load %s: %v", in, err)
	}
	id := ed.ActiveLayer().ID
	if *preset != "" {
		if err := ed.ApplyPreset(id, *preset); err != nil {
			log.Fatal(err)
		}
	}
	if len(ds) > 0 {
		if err := ed.ApplyFilters(id, ds); err != nil {
			log.Fatal(err)
		}
	}

	f := *format
	if f == "" {
		f = strings.TrimPrefix(filepath.Ext(out), ".")
	}
	data, err := ed.Export(f, *quality)
	if err != nil {
		log.Fatal(err)
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		log.Fatalf("write %s: %v", out, err)
	}

	sz := ed.CanvasSize()
	log.Printf("Saved %s (%.0fx%.0f, %d bytes)\n", out, sz.Width, sz.Height, len(data))
}

// source picks a loader source for a command line argument.
func source(arg string) loader.Source {
	switch {
	case strings.HasPrefix(arg, "http://"), strings.HasPrefix(arg, "https://"), strings.HasPrefix(arg, "data:"):
		return loader.URL(arg)
	default:
		return loader.File(arg)
	}
}

// parseFilters parses "type=value,type=value". A bare type means value 1.
func parseFilters(s string) ([]filter.Descriptor, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var ds []filter.Descriptor
	for _, part := range strings.Split(s, ",") {
		name, val, ok := strings.Cut(strings.TrimSpace(part), "=")
		v := 1.0
		if ok {
			var err error
			if v, err = strconv.ParseFloat(val, 64); err != nil {
				return nil, fmt.Errorf("filter %q: %w", part, err)
			}
		}
		ds = append(ds, filter.D(filter.Type(name), v))
	}
	return ds, nil
}
