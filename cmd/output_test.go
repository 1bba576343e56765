package cmd

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/TFMV/burrow/internal/record"
	"github.com/spf13/viper"
)

func TestFormatRecord(t *testing.T) {
	r := record.Record{
		Name: "report",
		Path: filepath.Join("home", "user", "report.txt"),
		Ext:  "txt",
		Icon: record.FileIcon,
	}
	dir := filepath.Join("home", "user")

	tests := []struct {
		name     string
		template string
		expected string
	}{
		{"Basic path", "{}", r.Path},
		{"Path alias", "{path}", r.Path},
		{"Name and extension", "{name}.{ext}", "report.txt"},
		{"Directory", "{dir}", dir},
		{"Type", "{type}", "file"},
		{"Icon", "{icon}", record.FileIcon},
		{"Quoted name", `{"name"}`, `"report"`},
		{"Quoted path", `{""}`, `"` + r.Path + `"`},
		{"No placeholders", "plain text", "plain text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatRecord(tt.template, r); got != tt.expected {
				t.Errorf("formatRecord(%q) = %q, want %q", tt.template, got, tt.expected)
			}
		})
	}
}

func TestWriteRecordsFormats(t *testing.T) {
	records := []record.Record{
		{Name: "docs", Path: "docs", IsDirectory: true, Ext: "dir"},
		{Name: "a", Path: "a.txt", Ext: "txt"},
	}
	defer viper.Reset()

	viper.Set("format", "text")
	var buf bytes.Buffer
	if err := writeRecords(&buf, records); err != nil {
		t.Fatalf("text: %v", err)
	}
	want := "docs" + string(filepath.Separator) + "\na.txt\n"
	if buf.String() != want {
		t.Errorf("text output = %q, want %q", buf.String(), want)
	}

	viper.Set("format", "json")
	buf.Reset()
	if err := writeRecords(&buf, records); err != nil {
		t.Fatalf("json: %v", err)
	}
	var decoded []record.Record
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid json %q: %v", buf.String(), err)
	}
	if len(decoded) != 2 || !decoded[0].IsDirectory || decoded[1].Name != "a" {
		t.Errorf("Unexpected decoded records: %+v", decoded)
	}

	viper.Set("template", "{type}:{name}")
	buf.Reset()
	if err := writeRecords(&buf, records); err != nil {
		t.Fatalf("template: %v", err)
	}
	if buf.String() != "dir:docs\nfile:a\n" {
		t.Errorf("template output = %q", buf.String())
	}

	viper.Set("template", "")
	viper.Set("format", "xml")
	if err := writeRecords(&buf, records); err == nil {
		t.Error("Expected an error for an unknown format")
	}
}
