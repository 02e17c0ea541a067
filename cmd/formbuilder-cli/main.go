package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/goliatone/go-formbuilder/pkg/document"
	"github.com/goliatone/go-formbuilder/pkg/field"
	"github.com/goliatone/go-formbuilder/pkg/render"
	"github.com/goliatone/go-formbuilder/pkg/renderers/tui"
)

func main() {
	source := flag.String("source", "form.json", "form document path or URL")
	format := flag.String("format", "json", "output format: json, form, or pretty")
	output := flag.String("output", "", "output file (stdout if empty)")
	submit := flag.String("submit", "", "share submit URL to POST the answers to")
	flag.Parse()

	ctx := context.Background()

	payload, err := loadDocument(ctx, *source)
	if err != nil {
		log.Fatalf("Failed to load form document: %v", err)
	}

	fields := field.NewRegistry()
	doc, err := document.Deserialize(payload, fields)
	if err != nil {
		log.Fatalf("Failed to parse form document: %v", err)
	}

	outputFormat := tui.OutputFormat(*format)
	if *submit != "" {
		// the server only accepts form-urlencoded submissions
		outputFormat = tui.OutputFormatFormURLEncoded
	}

	renderer, err := tui.New(fields, tui.WithOutputFormat(outputFormat))
	if err != nil {
		log.Fatalf("Failed to build prompt session: %v", err)
	}

	answers, err := renderer.Render(ctx, doc, render.Options{Role: render.RoleLiveInput})
	if err != nil {
		if errors.Is(err, tui.ErrAborted) {
			fmt.Fprintln(os.Stderr, "Aborted.")
			os.Exit(1)
		}
		log.Fatalf("Prompt session failed: %v", err)
	}

	if *submit != "" {
		if err := postAnswers(ctx, *submit, answers); err != nil {
			log.Fatalf("Failed to submit: %v", err)
		}
		fmt.Println("Submitted.")
		return
	}

	if *output != "" {
		if err := os.WriteFile(*output, answers, 0o644); err != nil {
			log.Fatalf("Failed to write output: %v", err)
		}
		fmt.Printf("Answers written to %s\n", *output)
	} else {
		fmt.Println(string(answers))
	}
}

func loadDocument(ctx context.Context, source string) (string, error) {
	path := strings.TrimSpace(source)
	if path == "" {
		return "", fmt.Errorf("empty source")
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, path, nil)
		if err != nil {
			return "", err
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			return "", err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return "", fmt.Errorf("fetch %s: %s", path, resp.Status)
		}
		raw, err := io.ReadAll(resp.Body)
		if err != nil {
			return "", err
		}
		return string(raw), nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func postAnswers(ctx context.Context, target string, answers []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(answers))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("%s: %s", resp.Status, strings.TrimSpace(string(body)))
	}
	return nil
}
