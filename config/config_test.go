package config

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vmihailenco/msgpack/v5"

	toycodec "github.com/llehouerou/go-toycodec"
	"github.com/llehouerou/go-toycodec/internal/huffman"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want Config
	}{
		{
			name: "empty document",
			doc:  "",
			want: *Default(),
		},
		{
			name: "full preset",
			doc: `
log_level: DEBUG
encoder:
  frame_width: 512
  ratio: 8
  quality: 12.5
  lowpass: 16000
  huffman_tables: tuned.msgpack
`,
			want: Config{
				LogLevel: "DEBUG",
				Encoder: EncoderSection{
					FrameWidth:    512,
					Ratio:         8,
					Quality:       12.5,
					Lowpass:       16000,
					HuffmanTables: "tuned.msgpack",
				},
			},
		},
		{
			name: "partial preset keeps defaults",
			doc: `
encoder:
  quality: 3
`,
			want: Config{
				LogLevel: "WARN",
				Encoder: EncoderSection{
					FrameWidth: 256,
					Ratio:      6,
					Quality:    3,
					Lowpass:    20000,
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(strings.NewReader(tt.doc))
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			if *got != tt.want {
				t.Errorf("Parse = %+v, want %+v", *got, tt.want)
			}
		})
	}
}

func TestParse_Errors(t *testing.T) {
	docs := map[string]string{
		"unknown field": "encoder:\n  frame_size: 256\n",
		"wrong type":    "encoder:\n  ratio: lots\n",
		"not a map":     "- 1\n- 2\n",
	}
	for name, doc := range docs {
		t.Run(name, func(t *testing.T) {
			if _, err := Parse(strings.NewReader(doc)); err == nil {
				t.Error("Parse succeeded")
			}
		})
	}
}

func TestEncoderConfig(t *testing.T) {
	cfg := Default()
	cfg.LogLevel = "ERROR"
	cfg.Encoder.Quality = 4
	cfg.Encoder.FrameWidth = 128

	ec, err := cfg.EncoderConfig()
	if err != nil {
		t.Fatalf("EncoderConfig: %v", err)
	}
	if ec.FrameWidth != 128 || ec.Quality != 4 || ec.Ratio != 6 || ec.Lowpass != 20000 {
		t.Errorf("EncoderConfig = %+v", ec)
	}
	if ec.LogLevel != "ERROR" {
		t.Errorf("LogLevel = %q, want ERROR", ec.LogLevel)
	}
	if ec.HuffmanLengths != nil {
		t.Error("HuffmanLengths set without a table file")
	}
}

func TestLoad_WithTables(t *testing.T) {
	dir := t.TempDir()
	tables := toycodec.DefaultHuffmanTables()
	// Lengthening codes keeps the table valid.
	tables[0][0] = 16
	tables[1][0] = 16
	if err := SaveTablesFile(filepath.Join(dir, "tuned.msgpack"), tables); err != nil {
		t.Fatalf("SaveTablesFile: %v", err)
	}

	preset := "encoder:\n  huffman_tables: tuned.msgpack\n"
	path := filepath.Join(dir, "preset.yaml")
	if err := os.WriteFile(path, []byte(preset), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.TablesPath() != filepath.Join(dir, "tuned.msgpack") {
		t.Errorf("TablesPath = %q", cfg.TablesPath())
	}
	ec, err := cfg.EncoderConfig()
	if err != nil {
		t.Fatalf("EncoderConfig: %v", err)
	}
	if ec.HuffmanLengths == nil || *ec.HuffmanLengths != tables {
		t.Error("loaded tables differ from saved tables")
	}
}

func TestLoad_Missing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Load of a missing file succeeded")
	}

	cfg := Default()
	cfg.Encoder.HuffmanTables = filepath.Join(t.TempDir(), "nope.msgpack")
	if _, err := cfg.EncoderConfig(); err == nil {
		t.Error("EncoderConfig with a missing table file succeeded")
	}
}

func TestTables_RoundTrip(t *testing.T) {
	want := toycodec.DefaultHuffmanTables()
	var buf bytes.Buffer
	if err := SaveTables(&buf, want); err != nil {
		t.Fatalf("SaveTables: %v", err)
	}
	got, err := LoadTables(&buf)
	if err != nil {
		t.Fatalf("LoadTables: %v", err)
	}
	if got != want {
		t.Error("round trip changed the tables")
	}
}

func encodeFile(t *testing.T, file tablesFile) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	if err := msgpack.NewEncoder(&buf).Encode(&file); err != nil {
		t.Fatal(err)
	}
	return &buf
}

func flat(n int, l uint8) []uint8 {
	s := make([]uint8, n)
	for i := range s {
		s[i] = l
	}
	return s
}

func TestLoadTables_Errors(t *testing.T) {
	good := flat(huffman.NumSymbols, 9)

	tests := []struct {
		name string
		file tablesFile
		want error
	}{
		{"version", tablesFile{Version: 2, Lengths: [][]uint8{good, good}}, ErrTablesVersion},
		{"one context", tablesFile{Version: 1, Lengths: [][]uint8{good}}, ErrTablesShape},
		{"short context", tablesFile{Version: 1, Lengths: [][]uint8{good, flat(10, 9)}}, ErrTablesShape},
		{"zero length", tablesFile{Version: 1, Lengths: [][]uint8{good, flat(huffman.NumSymbols, 0)}}, huffman.ErrLengthRange},
		{"oversubscribed", tablesFile{Version: 1, Lengths: [][]uint8{flat(huffman.NumSymbols, 8), good}}, huffman.ErrOversubscribed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadTables(encodeFile(t, tt.file))
			if !errors.Is(err, tt.want) {
				t.Errorf("LoadTables error = %v, want %v", err, tt.want)
			}
		})
	}

	if _, err := LoadTables(strings.NewReader("garbage")); err == nil {
		t.Error("LoadTables accepted garbage")
	}
}
