package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"ptrwatch/internal/export"
	"ptrwatch/internal/logger"
	"ptrwatch/internal/models"
	"ptrwatch/internal/pdftext"
	"ptrwatch/internal/ptr"
)

func main() {
	format := flag.String("format", "json", "output format: json or csv")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: ptrparse [-format json|csv] <report.pdf>\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	if err := run(flag.Arg(0), *format); err != nil {
		fmt.Fprintf(os.Stderr, "ptrparse: %v\n", err)
		os.Exit(1)
	}
}

func run(path, format string) error {
	if format != "json" && format != "csv" {
		return fmt.Errorf("unknown format %q", format)
	}

	doc := ptr.NewParser(pdftext.NewExtractor()).ParseFile(path)
	report, err := doc.Unwrap()
	if err != nil {
		return err
	}

	if format == "csv" {
		return export.WriteReportCSV(os.Stdout, models.NewReport(report, path, ptr.Today()))
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
