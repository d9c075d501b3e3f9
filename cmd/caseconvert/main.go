// Command caseconvert turns a case spreadsheet into the portal's case
// records without touching any store.
//
//	caseconvert -in cases.xlsx -client client-001 -format json > cases.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"CollectPortal/internal/caseexport"
	"CollectPortal/internal/caseimport"
	"CollectPortal/internal/models"
	"CollectPortal/internal/reconcile"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		log.SetFlags(0)
		log.Fatal("caseconvert: ", err)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("caseconvert", flag.ContinueOnError)
	fs.SetOutput(stderr)
	in := fs.String("in", "", "input spreadsheet (.csv, .xlsx, .xls)")
	out := fs.String("out", "", "output file, stdout when empty")
	clientID := fs.String("client", "", "client id stamped on every case")
	format := fs.String("format", "json", "output format: json, csv or xlsx")
	aliasPath := fs.String("aliases", "", "YAML file with extra column aliases")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *in == "" {
		fs.Usage()
		return fmt.Errorf("-in is required")
	}

	var aliases caseimport.AliasTable
	if *aliasPath != "" {
		t, err := caseimport.LoadAliasTable(*aliasPath)
		if err != nil {
			return err
		}
		aliases = t
	}

	data, err := os.ReadFile(*in)
	if err != nil {
		return err
	}
	rows, err := caseimport.ParseFile(filepath.Base(*in), data)
	if err != nil {
		return err
	}
	n := caseimport.NewNormalizer(aliases)
	normalized := make([]models.CaseRecord, 0, len(rows))
	for _, row := range rows {
		normalized = append(normalized, n.Normalize(row))
	}
	res := reconcile.Merge(nil, normalized, *clientID)
	fmt.Fprintf(stderr, "%d rows, %d cases, %d skipped\n", len(rows), len(res.Cases), res.Skipped)

	w := stdout
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	return write(w, strings.ToLower(*format), res.Cases)
}

func write(w io.Writer, format string, cases []models.CaseRecord) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(cases)
	case "csv":
		return caseexport.WriteCasesCSV(w, cases)
	case "xlsx":
		return caseexport.WriteCasesXLSX(w, cases)
	}
	return fmt.Errorf("unknown format %q", format)
}
