// Command toycodec encodes 16-bit WAV files to TOY1 streams and decodes
// them back.
//
// Usage:
//
//	toycodec -i in.wav -o out.toy
//	toycodec -i in.wav -o out.toy -q 4 -save-tables tuned.msgpack
//	toycodec -i in.wav -o out.toy -config preset.yaml -stats stats.json
//	toycodec -d -i in.toy -o out.wav
package main

import (
	"errors"
	"flag"
	"os"
	"time"

	toycodec "github.com/llehouerou/go-toycodec"
	"github.com/llehouerou/go-toycodec/config"
	"github.com/llehouerou/go-toycodec/internal/logger"
	"github.com/llehouerou/go-toycodec/internal/wavio"
)

type options struct {
	decode     bool
	input      string
	output     string
	quality    float64
	ratio      float64
	lowpass    float64
	preset     string
	saveTables string
	stats      string
	logLevel   string

	// set holds the names of flags given on the command line.
	set map[string]bool
}

func main() {
	var opts options
	flag.BoolVar(&opts.decode, "d", false, "Decode a TOY1 stream to WAV instead of encoding")
	flag.StringVar(&opts.input, "i", "", "Input file")
	flag.StringVar(&opts.output, "o", "", "Output file")
	flag.Float64Var(&opts.quality, "q", toycodec.DefaultQuality, "Quality: negative for average bit rate, otherwise variable bit rate")
	flag.Float64Var(&opts.ratio, "r", toycodec.DefaultRatio, "Target compression ratio in average bit rate mode")
	flag.Float64Var(&opts.lowpass, "l", toycodec.DefaultLowpass, "Lowpass frequency in Hz")
	flag.StringVar(&opts.preset, "config", "", "YAML encoder preset")
	flag.StringVar(&opts.saveTables, "save-tables", "", "Write tuned Huffman tables to this msgpack file")
	flag.StringVar(&opts.stats, "stats", "", "Write run statistics as JSON to this file")
	flag.StringVar(&opts.logLevel, "log-level", "", "Log level: DEBUG, INFO, WARN or ERROR")
	flag.Parse()

	opts.set = make(map[string]bool)
	flag.Visit(func(f *flag.Flag) {
		opts.set[f.Name] = true
	})

	if opts.input == "" || opts.output == "" {
		flag.Usage()
		os.Exit(2)
	}

	if err := run(opts); err != nil {
		os.Exit(1)
	}
}

// run performs one encode or decode and logs any failure.
func run(opts options) error {
	cfg := config.Default()
	if opts.preset != "" {
		var err error
		cfg, err = config.Load(opts.preset)
		if err != nil {
			logger.NewLogger("Main", levelOf(opts, cfg), os.Stderr).Errorf("failed to load preset: %v", err)
			return err
		}
	}
	mainLogger := logger.NewLogger("Main", levelOf(opts, cfg), os.Stderr)

	start := time.Now()
	rep := report{Input: opts.input, Output: opts.output}
	var err error
	if opts.decode {
		rep.Mode = "decode"
		rep.Decode, err = decodeFile(opts, mainLogger)
	} else {
		rep.Mode = "encode"
		rep.Encode, err = encodeFile(opts, cfg, mainLogger)
	}
	if err != nil {
		mainLogger.Errorf("%s failed: %v", rep.Mode, err)
		return err
	}
	rep.ElapsedMs = time.Since(start).Milliseconds()
	mainLogger.Infof("%s of %s finished in %d ms", rep.Mode, opts.input, rep.ElapsedMs)

	if opts.stats != "" {
		if err := writeReport(opts.stats, &rep); err != nil {
			mainLogger.Errorf("failed to write statistics: %v", err)
			return err
		}
	}
	return nil
}

func levelOf(opts options, cfg *config.Config) string {
	if opts.logLevel != "" {
		return opts.logLevel
	}
	return cfg.LogLevel
}

// encoderConfig merges the preset with flags given on the command line.
func encoderConfig(opts options, cfg *config.Config) (toycodec.EncoderConfig, error) {
	if opts.set["q"] {
		cfg.Encoder.Quality = opts.quality
	}
	if opts.set["r"] {
		cfg.Encoder.Ratio = opts.ratio
	}
	if opts.set["l"] {
		cfg.Encoder.Lowpass = opts.lowpass
	}
	if opts.logLevel != "" {
		cfg.LogLevel = opts.logLevel
	}
	return cfg.EncoderConfig()
}

func encodeFile(opts options, cfg *config.Config, log *logger.Logger) (*toycodec.EncodeStats, error) {
	ec, err := encoderConfig(opts, cfg)
	if err != nil {
		return nil, err
	}
	ec.LogOutput = os.Stderr

	in, err := os.Open(opts.input)
	if err != nil {
		return nil, err
	}
	defer func(f *os.File) {
		_ = f.Close()
	}(in)

	src, err := wavio.NewSource(in)
	if err != nil {
		return nil, err
	}
	log.Infof("encoding %s: %d Hz, %d channels", opts.input, src.SampleRate(), src.Channels())

	out, err := os.Create(opts.output)
	if err != nil {
		return nil, err
	}
	stats, err := toycodec.Encode(src, out, ec)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return nil, err
	}

	if opts.saveTables != "" {
		if stats.TunedLengths == nil {
			return nil, errors.New("no tuned Huffman tables were derived")
		}
		if err := config.SaveTablesFile(opts.saveTables, *stats.TunedLengths); err != nil {
			return nil, err
		}
		log.Infof("tuned Huffman tables written to %s", opts.saveTables)
	}
	return &stats, nil
}

func decodeFile(opts options, log *logger.Logger) (*toycodec.DecodeStats, error) {
	in, err := os.Open(opts.input)
	if err != nil {
		return nil, err
	}
	defer func(f *os.File) {
		_ = f.Close()
	}(in)

	level := opts.logLevel
	if level == "" {
		level = toycodec.DefaultLogLevel
	}
	dec, err := toycodec.NewDecoderConfig(in, toycodec.DecoderConfig{LogLevel: level, LogOutput: os.Stderr})
	if err != nil {
		return nil, err
	}
	info := dec.Info()
	if info.TotalSamples == toycodec.UnknownTotalSamples {
		log.Infof("decoding %s: %d Hz, %d channels, unknown length", opts.input, info.SampleRate, info.Channels)
	} else {
		log.Infof("decoding %s: %d Hz, %d channels, %d samples", opts.input, info.SampleRate, info.Channels, info.TotalSamples)
	}

	out, err := os.Create(opts.output)
	if err != nil {
		return nil, err
	}
	defer func(f *os.File) {
		_ = f.Close()
	}(out)

	sink := wavio.NewSink(out, info.SampleRate, info.Channels)
	stats, err := dec.WriteTo(sink)
	if err != nil {
		return nil, err
	}
	if err := sink.Close(); err != nil {
		return nil, err
	}
	if err := out.Sync(); err != nil {
		return nil, err
	}
	return &stats, nil
}
