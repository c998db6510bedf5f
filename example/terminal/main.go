// Command terminal runs the tower scene in a terminal: click to throw balls,
// the panel on the right edits the tunables.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/akmonengine/shatter/config"
	"github.com/akmonengine/shatter/demo"
	"github.com/akmonengine/shatter/termview"
	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl64"
)

var configPath = flag.String("config", "shatter.toml", "tunables file")

func main() {
	flag.Parse()

	tunables, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v, using defaults\n", err)
	}

	logFile, err := config.SetupLogging(tunables.Log)
	if err != nil {
		log.Fatalf("logging: %v", err)
	}
	if logFile != nil {
		defer logFile.Close()
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		log.Fatalf("screen: %v", err)
	}
	if err := screen.Init(); err != nil {
		log.Fatalf("screen init: %v", err)
	}
	defer screen.Fini()
	screen.EnableMouse()

	d := demo.New(&tunables, 1)
	view := termview.New(screen, d.Scene, d.Camera, d.Controls, config.Bindings(&tunables))
	view.OnClick = func(ndc mgl64.Vec2) {
		ball := d.Throw(ndc)
		log.Printf("Spawn: ball at %v, velocity %v", ball.Transform.Position, ball.Velocity)
	}

	view.Run(func(dt float64) {
		d.Frame(dt, view.TakeInput())
		view.Status = d.Status()
	})
}
