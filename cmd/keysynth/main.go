package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"github.com/lixenwraith/keysynth/audio"
	"github.com/lixenwraith/keysynth/config"
	"github.com/lixenwraith/keysynth/input"
	"github.com/lixenwraith/keysynth/service"
	"github.com/lixenwraith/keysynth/status"
	"github.com/lixenwraith/keysynth/synth"
	"github.com/lixenwraith/keysynth/terminal"
)

// options are the command-line overrides, applied after file and environment
type options struct {
	configPath    string
	driver        string
	device        string
	ui            string
	wave          string
	requireDevice bool
	debug         bool
	dumpConfig    bool
}

func parseFlags() options {
	var o options
	flag.StringVar(&o.configPath, "config", "", "YAML configuration file")
	flag.StringVar(&o.driver, "driver", "", "Audio driver: auto, speaker, oto, pipe, null")
	flag.StringVar(&o.device, "device", "", "Audio device for pipe backends")
	flag.StringVar(&o.ui, "ui", "", "Key input: raw, tcell")
	flag.StringVar(&o.wave, "wave", "", "Waveform: "+fmt.Sprint(synth.WaveformNames()))
	flag.BoolVar(&o.requireDevice, "require-device", false, "Fail instead of running silent when no device opens")
	flag.BoolVar(&o.debug, "debug", false, "Write debug log to logs/keysynth.log")
	flag.BoolVar(&o.dumpConfig, "dump-config", false, "Print the effective configuration and exit")
	flag.Parse()
	return o
}

// apply overlays flags onto cfg and revalidates
func (o options) apply(cfg *config.Config) error {
	if o.driver != "" {
		cfg.Audio.Driver = o.driver
	}
	if o.device != "" {
		cfg.Audio.Device = o.device
	}
	if o.ui != "" {
		cfg.Input.UI = o.ui
	}
	if o.wave != "" {
		cfg.Synth.Waveform = o.wave
	}
	if o.requireDevice {
		cfg.Audio.AllowSilent = false
	}
	return cfg.Validate()
}

func main() {
	os.Exit(run(parseFlags()))
}

func run(opts options) (code int) {
	// Panic Recovery: Ensure terminal is reset even if the synth crashes
	defer func() {
		if r := recover(); r != nil {
			terminal.EmergencyReset(os.Stdout)
			fmt.Fprintf(os.Stderr, "\n\x1b[31mKEYSYNTH CRASHED: %v\x1b[0m\n", r)
			fmt.Fprintf(os.Stderr, "Stack Trace:\n%s\n", debug.Stack())
			code = 1
		}
	}()

	if logFile := setupLogging(opts.debug); logFile != nil {
		defer logFile.Close()
	}

	cfg, err := config.Load(opts.configPath)
	if err == nil {
		err = opts.apply(cfg)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "keysynth: %v\n", err)
		return 2
	}

	if opts.dumpConfig {
		data, err := cfg.Marshal()
		if err != nil {
			fmt.Fprintf(os.Stderr, "keysynth: %v\n", err)
			return 1
		}
		os.Stdout.Write(data)
		return 0
	}

	metrics := status.NewRegistry()
	registry := synth.NewRegistry()
	mixer, err := synth.NewMixer(registry, cfg.Synth)
	if err != nil {
		fmt.Fprintf(os.Stderr, "keysynth: %v\n", err)
		return 2
	}
	keys, err := input.NewKeyTable(cfg.Input.Keys)
	if err != nil {
		fmt.Fprintf(os.Stderr, "keysynth: %v\n", err)
		return 2
	}

	audioSvc := audio.NewService(&cfg.Audio, mixer.Sample, metrics)
	inputSvc := input.NewService(&cfg.Input, registry, audioSvc, sourceFactory(cfg.Input.UI, keys), metrics)

	hub := service.NewHub()
	hub.Register(audioSvc)
	hub.Register(inputSvc)

	if err := hub.InitAll(); err != nil {
		fmt.Fprintf(os.Stderr, "keysynth: %v\n", err)
		return 2
	}
	if err := hub.StartAll(); err != nil {
		fmt.Fprintf(os.Stderr, "keysynth: %v\n", err)
		return 1
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	var fatal error
	select {
	case err := <-inputSvc.Done():
		fatal = err
	case err := <-audioSvc.Err():
		fatal = err
	case sig := <-sigCh:
		log.Printf("received %v", sig)
	}

	// Terminal must be restored before anything is printed
	hub.StopAll()

	for _, line := range metrics.Lines() {
		log.Print(line)
	}

	if fatal != nil {
		log.Printf("fatal: %v", fatal)
		fmt.Fprintf(os.Stderr, "keysynth: %v\n", fatal)
		return 1
	}
	return 0
}

// sourceFactory opens the configured key source with its header lines
func sourceFactory(ui string, keys *input.KeyTable) input.SourceFactory {
	const title = "keysynth"
	help := fmt.Sprintf("keys: %s   quit: q", keys.Legend())

	return func() (input.Source, error) {
		if ui == input.UITcell {
			tc, err := terminal.NewTcellScreen(title, help)
			if err != nil {
				return nil, err
			}
			return tc, nil
		}

		raw, err := terminal.NewRaw(os.Stdin, os.Stdout)
		if err != nil {
			return nil, err
		}
		fmt.Fprintf(os.Stdout, "%s\r\n%s\r\n", title, help)
		return raw, nil
	}
}
