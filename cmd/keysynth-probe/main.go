// keysynth-probe lists the audio backends found on this host and plays a test tone
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/lixenwraith/keysynth/audio"
	"github.com/lixenwraith/keysynth/config"
	"github.com/lixenwraith/keysynth/status"
	"github.com/lixenwraith/keysynth/synth"
)

func main() {
	configPath := flag.String("config", "", "YAML configuration file")
	driver := flag.String("driver", "", "Audio driver: auto, speaker, oto, pipe, null")
	freq := flag.Float64("freq", 440, "Tone frequency in Hz")
	hold := flag.Duration("hold", time.Second, "Tone duration before release")
	list := flag.Bool("list", false, "List backends only")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err == nil && *driver != "" {
		cfg.Audio.Driver = *driver
		err = cfg.Validate()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "probe: %v\n", err)
		os.Exit(2)
	}

	listBackends(os.Stdout, &cfg.Audio)
	if *list {
		return
	}

	if err := playTone(cfg, *freq, *hold); err != nil {
		fmt.Fprintf(os.Stderr, "probe: %v\n", err)
		os.Exit(1)
	}
}

func listBackends(w io.Writer, cfg *audio.Config) {
	backends := audio.DetectBackends(cfg.SinkConfig())
	if len(backends) == 0 {
		fmt.Fprintln(w, "pipe backends: none")
		return
	}
	fmt.Fprintln(w, "pipe backends:")
	for _, b := range backends {
		fmt.Fprintf(w, "  %-8s %s %v\n", b.Name, b.Path, b.Args)
	}
}

// playTone sounds one note through the full synth and engine path
func playTone(cfg *config.Config, freq float64, hold time.Duration) error {
	registry := synth.NewRegistry()
	mixer, err := synth.NewMixer(registry, cfg.Synth)
	if err != nil {
		return err
	}

	sink, err := audio.NewSink(&cfg.Audio)
	if err != nil {
		return err
	}
	engine, err := audio.NewEngine(&cfg.Audio, sink)
	if err != nil {
		return err
	}
	metrics := status.NewRegistry()
	engine.SetStatus(metrics)
	if err := engine.SetSampleFunc(mixer.Sample); err != nil {
		return err
	}

	if err := engine.Start(); err != nil {
		return err
	}
	defer engine.Stop()

	fmt.Printf("output: %s at %d Hz\n", engine.SinkName(), engine.SampleRate())

	registry.Trigger('a', freq, cfg.Input.Velocity, engine.Time())
	tail := time.Duration(mixer.Envelope().Release*float64(time.Second)) + 100*time.Millisecond

	select {
	case err := <-engine.Err():
		return err
	case <-time.After(hold):
	}
	registry.Release('a', engine.Time())

	select {
	case err := <-engine.Err():
		return err
	case <-time.After(tail):
	}

	st := engine.Stats()
	fmt.Printf("blocks %d, underruns %d, recoveries %d\n", st.Blocks, st.Underruns, st.Recoveries)
	for _, line := range metrics.Lines() {
		fmt.Println(line)
	}
	return nil
}
