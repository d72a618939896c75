package main

import (
	"os"

	"github.com/bytedance/sonic"

	toycodec "github.com/llehouerou/go-toycodec"
)

// report is the JSON document written by -stats.
type report struct {
	Mode      string                `json:"mode"`
	Input     string                `json:"input"`
	Output    string                `json:"output"`
	ElapsedMs int64                 `json:"elapsed_ms"`
	Encode    *toycodec.EncodeStats `json:"encode,omitempty"`
	Decode    *toycodec.DecodeStats `json:"decode,omitempty"`
}

func writeReport(path string, rep *report) error {
	data, err := sonic.Marshal(rep)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
