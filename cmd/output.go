package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/TFMV/burrow/internal/record"
	"github.com/TFMV/burrow/internal/search"
	"github.com/spf13/viper"
)

// formatRecord replaces placeholders in a template with values from the record
func formatRecord(template string, r record.Record) string {
	str := template

	// Replace basic placeholders
	str = strings.ReplaceAll(str, "{}", r.Path)
	str = strings.ReplaceAll(str, "{path}", r.Path)
	str = strings.ReplaceAll(str, "{name}", r.Name)
	str = strings.ReplaceAll(str, "{ext}", r.Ext)
	str = strings.ReplaceAll(str, "{icon}", r.Icon)
	str = strings.ReplaceAll(str, "{dir}", filepath.Dir(r.Path))
	str = strings.ReplaceAll(str, "{type}", entryType(r))

	// Replace quoted versions
	str = strings.ReplaceAll(str, `{""}`, strconv.Quote(r.Path))
	str = strings.ReplaceAll(str, `{"name"}`, strconv.Quote(r.Name))
	str = strings.ReplaceAll(str, `{"dir"}`, strconv.Quote(filepath.Dir(r.Path)))

	return str
}

func entryType(r record.Record) string {
	if r.IsDirectory {
		return "dir"
	}
	return "file"
}

// writeRecords prints records in the configured output format.
func writeRecords(w io.Writer, records []record.Record) error {
	if tmpl := viper.GetString("template"); tmpl != "" {
		for _, r := range records {
			fmt.Fprintln(w, formatRecord(tmpl, r))
		}
		return nil
	}

	switch format := viper.GetString("format"); format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	case "text", "":
		for _, r := range records {
			if r.IsDirectory {
				fmt.Fprintf(w, "%s%c\n", r.Path, filepath.Separator)
			} else {
				fmt.Fprintln(w, r.Path)
			}
		}
		return nil
	default:
		return fmt.Errorf("invalid format: %s", format)
	}
}

// reportResult prints records and turns branch failures into warnings on
// stderr. Any other error is returned.
func reportResult(records []record.Record, err error) error {
	if err != nil && !search.IsPartial(err) {
		return err
	}
	if werr := writeRecords(os.Stdout, records); werr != nil {
		return werr
	}
	if err != nil && !viper.GetBool("silent") {
		var partial *search.PartialError
		if errors.As(err, &partial) {
			for _, failure := range partial.Failures {
				fmt.Fprintf(os.Stderr, "warning: %v\n", failure)
			}
		}
	}
	return nil
}
