package toycodec_test

import (
	"fmt"
	"io"
	"math"
	"os"

	toycodec "github.com/llehouerou/go-toycodec"
)

func Example() {
	// One channel of a 440 Hz tone.
	const rate = 44100
	tone := make([]float32, 1000)
	for i := range tone {
		tone[i] = float32(0.5 * math.Sin(2*math.Pi*440*float64(i)/rate))
	}
	src := toycodec.NewMemoryPCM(rate, [][]float32{tone})

	f, err := os.CreateTemp("", "example-*.toy")
	if err != nil {
		fmt.Println(err)
		return
	}
	defer func(name string) {
		_ = os.Remove(name)
	}(f.Name())
	defer func(f *os.File) {
		_ = f.Close()
	}(f)

	// A file is seekable, so Close records the total sample count.
	stats, err := toycodec.Encode(src, f, toycodec.DefaultEncoderConfig())
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println("frames:", stats.Frames)

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		fmt.Println(err)
		return
	}
	dec, err := toycodec.NewDecoder(f)
	if err != nil {
		fmt.Println(err)
		return
	}
	info := dec.Info()
	fmt.Println("rate:", info.SampleRate, "channels:", info.Channels, "total:", info.TotalSamples)

	out := toycodec.NewMemoryPCM(rate, make([][]float32, 1))
	if _, err := dec.WriteTo(out); err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println("decoded:", out.Len())

	// Output:
	// frames: 5
	// rate: 44100 channels: 1 total: 1000
	// decoded: 1000
}
