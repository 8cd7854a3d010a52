package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"resume-builder/internal/model"
	"resume-builder/internal/usecase"
)

func main() {
	in := flag.String("in", "document.json", "document JSON to render")
	out := flag.String("out", filepath.Join("resume-data", "generated", "preview.html"), "output file")
	text := flag.Bool("text", false, "write the plain-text rendering instead of html")
	flag.Parse()

	b, err := os.ReadFile(*in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read document: %v\n", err)
		os.Exit(2)
	}
	doc, err := model.DecodeDocument(b)
	if err != nil {
		fmt.Fprintf(os.Stderr, "decode: %v\n", err)
		os.Exit(2)
	}

	layout := usecase.Project(doc)
	rendered := layout.Text()
	if !*text {
		rendered, err = usecase.RenderHTML(layout, 1)
		if err != nil {
			fmt.Fprintf(os.Stderr, "render: %v\n", err)
			os.Exit(2)
		}
	}

	if err := os.MkdirAll(filepath.Dir(*out), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "create out dir: %v\n", err)
		os.Exit(2)
	}
	if err := os.WriteFile(*out, []byte(rendered), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "write out: %v\n", err)
		os.Exit(2)
	}
	fmt.Printf("wrote %s\n", *out)
}
