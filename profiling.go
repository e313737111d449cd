package main

import (
	"log"
	"os"
	"runtime/pprof"
	"sync"
)

// startProfiledOrbit begins writing a CPU profile to path and schedules the
// scripted camera orbit that generates representative load while it runs.
// The profile stops when the orbit deadline passes; the stop is idempotent
// in case the game shuts down first.
func (g *Game) startProfiledOrbit(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		f.Close()
		return err
	}
	var once sync.Once
	g.stopProfile = func() {
		once.Do(func() {
			pprof.StopCPUProfile()
			_ = f.Close()
			log.Printf("CPU profile written to %s", path)
		})
	}
	g.enableAutoOrbit(profileOrbitDuration)
	return nil
}
