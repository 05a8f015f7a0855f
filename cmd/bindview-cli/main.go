package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/goliatone/go-bindview"
)

func main() {
	templatePath := flag.String("template", "", "HTML template with a single root element")
	modelPath := flag.String("model", "", "YAML model file (empty model if unset)")
	scriptPath := flag.String("script", "", "YAML script of set/dispatch steps to replay after rendering")
	interactive := flag.Bool("interactive", false, "prompt for further steps after the script")
	output := flag.String("output", "", "output file (stdout if empty)")
	verbose := flag.Bool("v", false, "log binding activity to stderr")
	flag.Parse()

	ctx := context.Background()

	if *templatePath == "" {
		log.Fatalf("missing -template")
	}
	markup, err := os.ReadFile(*templatePath)
	if err != nil {
		log.Fatalf("Failed to read template: %v", err)
	}
	model, err := loadModel(*modelPath)
	if err != nil {
		log.Fatalf("Failed to load model: %v", err)
	}
	script, err := loadScript(*scriptPath)
	if err != nil {
		log.Fatalf("Failed to load script: %v", err)
	}

	s := &session{out: os.Stdout}
	v, err := bindview.NewWithDefaults(model,
		bindview.WithLogger(newLogger(*verbose)),
		bindview.WithDelegate(s.delegate(script.Handlers)),
	)
	if err != nil {
		log.Fatalf("Failed to create view: %v", err)
	}
	s.view = v

	if _, err := v.RenderHTML(string(markup)); err != nil {
		log.Fatalf("Failed to render: %v", err)
	}
	if err := s.run(script.Steps); err != nil {
		log.Fatalf("Script failed: %v", err)
	}
	if *interactive {
		if err := s.interact(ctx, newSurveyPrompter()); err != nil {
			log.Fatalf("Interactive session failed: %v", err)
		}
	}

	outputHTML, err := v.HTML()
	if err != nil {
		log.Fatalf("Failed to serialise: %v", err)
	}
	if *output != "" {
		if err := os.WriteFile(*output, []byte(outputHTML+"\n"), 0o644); err != nil {
			log.Fatalf("Failed to write output: %v", err)
		}
		fmt.Printf("HTML written to %s\n", *output)
	} else {
		fmt.Println(outputHTML)
	}
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
