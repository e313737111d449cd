package main

import (
	"flag"
	"log"
	"runtime"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	flag.Parse()
	runtime.GOMAXPROCS(runtime.NumCPU())

	seed := *seedFlag
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	var sky *skybox
	if *skyboxFlag != "" {
		s, err := loadSkybox(*skyboxFlag)
		if err != nil {
			log.Printf("Skybox load failed: %v; using procedural sky", err)
		} else {
			sky = s
		}
	}
	if sky == nil {
		sky = proceduralSkybox()
	}

	g := newGame(sky, seed)
	defer g.kernel.Close()

	if *profileFlag != "" {
		if err := g.startProfiledOrbit(*profileFlag); err != nil {
			log.Fatalf("CPU profile start failed: %v", err)
		}
		log.Printf("Recording CPU profile to %s for %s", *profileFlag, profileOrbitDuration)
	}

	ebiten.SetWindowSize(defaultWindowW, defaultWindowH)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowTitle("Progressive Sphere Tracer")
	if err := ebiten.RunGame(g); err != nil {
		log.Fatal(err)
	}
}
