// This file is part of Mixdown.
//
// Mixdown is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Mixdown is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Mixdown.  If not, see <https://www.gnu.org/licenses/>.

package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/davvoz/mixdown/effects"
	"github.com/davvoz/mixdown/engine"
	"github.com/davvoz/mixdown/importer"
	"github.com/davvoz/mixdown/logger"
	"github.com/davvoz/mixdown/midiclip"
	"github.com/davvoz/mixdown/mixer"
	"github.com/davvoz/mixdown/modalflag"
	"github.com/davvoz/mixdown/player"
	"github.com/davvoz/mixdown/prefs"
	"github.com/davvoz/mixdown/project"
	"github.com/davvoz/mixdown/synth"
	"github.com/davvoz/mixdown/timeline"
	"github.com/davvoz/mixdown/version"
	"github.com/davvoz/mixdown/wavwriter"
)

func main() {
	md := &modalflag.Modes{Output: os.Stdout}
	md.NewArgs(os.Args[1:])
	md.AddSubModes("RUN", "PLAY", "EXPORT", "VERSION")

	p, err := md.Parse()
	switch p {
	case modalflag.ParseHelp:
		os.Exit(0)
	case modalflag.ParseError:
		fmt.Printf("* error: %v\n", err)
		os.Exit(10)
	}

	switch md.Mode() {
	case "RUN":
		fallthrough
	case "PLAY":
		err = play(md)
	case "EXPORT":
		err = export(md)
	case "VERSION":
		err = showVersion(md)
	}

	if err != nil {
		fmt.Printf("* error in %s mode: %s\n", md.String(), err)
		os.Exit(20)
	}
}

// enginePrefs are the on-disk defaults for the audio engine. command line
// flags take their default values from here.
type enginePrefs struct {
	sampleRate prefs.Int
	blockSize  prefs.Int
	master     prefs.Float
}

func loadEnginePrefs() enginePrefs {
	ep := enginePrefs{
		sampleRate: prefs.Int{Value: 44100},
		blockSize:  prefs.Int{Value: 512},
		master:     prefs.Float{Value: 1.0},
	}

	path, err := prefs.DefaultPath()
	if err != nil {
		logger.Logf("prefs", "%v", err)
		return ep
	}

	dsk := prefs.NewDisk(path)
	_ = dsk.Add("engine.samplerate", &ep.sampleRate)
	_ = dsk.Add("engine.blocksize", &ep.blockSize)
	_ = dsk.Add("engine.mastervolume", &ep.master)
	if err := dsk.Load(); err != nil {
		logger.Logf("prefs", "%v", err)
	}

	return ep
}

// session is everything needed to render or play the files named on the
// command line. every file gets its own track, starting at time zero.
type session struct {
	timeline *timeline.Timeline
	mixer    *mixer.Mixer
	project  *project.Project
}

func buildSession(files []string, sampleRate int, withDelay bool) (*session, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("at least one WAV, MP3 or MIDI file required")
	}

	s := &session{
		timeline: timeline.NewTimeline(),
		mixer:    mixer.NewMixer(),
		project:  project.NewProject("untitled"),
	}

	for i, path := range files {
		var c timeline.Clip
		var err error

		switch strings.ToLower(filepath.Ext(path)) {
		case ".mid", ".midi":
			mc, merr := midiclip.LoadSMF(path, sampleRate, 0.0)
			if merr == nil {
				mc.Instrument = synth.NewSynthesizer()
			}
			c, err = mc, merr
		default:
			c, err = importer.LoadClip(path, 0.0)
		}

		if err != nil {
			return nil, err
		}

		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		s.mixer.AddTrack(name, 1.0, 0.0, "")
		trk := s.project.AddTrack(name)

		if withDelay {
			d := effects.NewEffect(effects.KindDelay, sampleRate)
			d.SetParameters(effects.Params{
				"delay_time_ms": 300,
				"feedback":      0.4,
				"mix":           0.3,
			})
			trk.Effects.Add(d, "", 1.0)
		}

		s.timeline.AddClip(i, c)
	}

	return s, nil
}

func play(md *modalflag.Modes) error {
	ep := loadEnginePrefs()

	md.NewMode()
	rate := md.AddInt("rate", ep.sampleRate.Value, "sample rate in Hz")
	block := md.AddInt("block", ep.blockSize.Value, "callback block size in frames")
	master := md.AddFloat64("master", ep.master.Value, "master volume [0,1]")
	loop := md.AddBool("loop", false, "loop over the timeline extent")
	delay := md.AddBool("delay", false, "add a delay effect to every track")
	log := md.AddBool("log", false, "echo debugging log to stdout")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	if *log {
		logger.SetEcho(os.Stdout)
	} else {
		logger.SetEcho(nil)
	}

	s, err := buildSession(md.RemainingArgs(), *rate, *delay)
	if err != nil {
		return err
	}
	s.mixer.SetMasterVolume(*master)

	extent := s.timeline.Extent()
	if extent <= 0 {
		return fmt.Errorf("nothing to play")
	}

	ply := player.NewPlayer(s.timeline, *rate, *block, s.mixer, s.project)
	if *loop {
		ply.SetLoop(true, 0.0, extent)
	}

	if err := ply.Start(0.0); err != nil {
		return err
	}
	defer func() {
		if err := ply.Stop(); err != nil {
			logger.Logf("play", "%v", err)
		}
	}()

	intChan := make(chan os.Signal, 1)
	signal.Notify(intChan, os.Interrupt)

	fmt.Printf("playing %.2fs (ctrl-c to stop)\n", extent)

	// without looping the player keeps running past the extent, producing
	// silence, so watch the transport ourselves
	tick := time.NewTicker(100 * time.Millisecond)
	defer tick.Stop()

	for {
		select {
		case <-intChan:
			fmt.Println("\r")
			return nil
		case <-tick.C:
			if !*loop && ply.CurrentTime() >= extent {
				return nil
			}
		}
	}
}

func export(md *modalflag.Modes) error {
	ep := loadEnginePrefs()

	md.NewMode()
	output := md.AddString("o", "mixdown.wav", "output WAV file")
	rate := md.AddInt("rate", ep.sampleRate.Value, "sample rate in Hz")
	tail := md.AddFloat64("tail", 0.0, "extra seconds rendered after the last clip")
	delay := md.AddBool("delay", false, "add a delay effect to every track")
	log := md.AddBool("log", false, "echo debugging log to stdout")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	if *log {
		logger.SetEcho(os.Stdout)
	} else {
		logger.SetEcho(nil)
	}

	s, err := buildSession(md.RemainingArgs(), *rate, *delay)
	if err != nil {
		return err
	}

	duration := s.timeline.Extent() + *tail
	if duration <= 0 {
		return fmt.Errorf("nothing to export")
	}

	buf := engine.RenderRange(s.timeline, 0.0, duration, *rate, engine.Options{
		Mixer:   s.mixer,
		Project: s.project,
	})

	if err := wavwriter.WriteMono(*output, buf, *rate); err != nil {
		return err
	}

	fmt.Printf("wrote %s: %.2fs at %dHz\n", *output, duration, *rate)

	return nil
}

func showVersion(md *modalflag.Modes) error {
	md.NewMode()

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	v := version.Version
	if v == "" {
		v = "development build"
	}
	fmt.Printf("%s (%s)\n", version.ApplicationName, v)

	return nil
}
