package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/vmihailenco/msgpack/v5"

	toycodec "github.com/llehouerou/go-toycodec"
	"github.com/llehouerou/go-toycodec/internal/huffman"
)

// tablesVersion is the current table file version.
const tablesVersion = 1

// Table file errors.
var (
	ErrTablesVersion = errors.New("config: unsupported Huffman table file version")
	ErrTablesShape   = errors.New("config: Huffman table file has wrong dimensions")
)

type tablesFile struct {
	Version int       `msgpack:"version"`
	Lengths [][]uint8 `msgpack:"lengths"`
}

// SaveTables writes t to w as msgpack.
func SaveTables(w io.Writer, t toycodec.HuffmanTables) error {
	file := tablesFile{Version: tablesVersion, Lengths: make([][]uint8, len(t))}
	for ctx := range t {
		file.Lengths[ctx] = t[ctx][:]
	}
	if err := msgpack.NewEncoder(w).Encode(&file); err != nil {
		return fmt.Errorf("config: encode tables: %w", err)
	}
	return nil
}

// LoadTables reads and validates tables written by SaveTables. Every
// length must lie in [1, 16] and neither context may be oversubscribed.
func LoadTables(r io.Reader) (toycodec.HuffmanTables, error) {
	var t toycodec.HuffmanTables
	var file tablesFile
	if err := msgpack.NewDecoder(r).Decode(&file); err != nil {
		return t, fmt.Errorf("config: decode tables: %w", err)
	}
	if file.Version != tablesVersion {
		return t, fmt.Errorf("%w: %d", ErrTablesVersion, file.Version)
	}
	if len(file.Lengths) != huffman.NumContexts {
		return t, ErrTablesShape
	}
	for ctx, l := range file.Lengths {
		if len(l) != huffman.NumSymbols {
			return t, ErrTablesShape
		}
		if _, err := huffman.NewCodebook(l); err != nil {
			return t, fmt.Errorf("config: context %d: %w", ctx, err)
		}
		copy(t[ctx][:], l)
	}
	return t, nil
}

// SaveTablesFile writes t to the file at path.
func SaveTablesFile(path string, t toycodec.HuffmanTables) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := SaveTables(f, t); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// LoadTablesFile reads tables from the file at path.
func LoadTablesFile(path string) (toycodec.HuffmanTables, error) {
	f, err := os.Open(path)
	if err != nil {
		return toycodec.HuffmanTables{}, fmt.Errorf("config: %w", err)
	}
	defer func(f *os.File) {
		_ = f.Close()
	}(f)
	return LoadTables(f)
}
