package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"hatchctl/controller"
	"hatchctl/hw"
)

func init() {
	InitializeLogger()
}

// Populated by ldflags (ugh)
var (
	version            string
	buildUnixTimestamp string
	commitHash         string
)

// NoEmbed switches the index template to live filesystem reads, for
// hacking on the panel page without rebuilding.
var NoEmbed bool

func main() {
	ts, _ := strconv.ParseInt(buildUnixTimestamp, 10, 64)
	buildTime := time.Unix(ts, 0)

	versionFlag := flag.Bool("version", false, "Print version")
	systemdFlag := flag.Bool("systemd", false, "Print systemd service file")
	configFlag := flag.String("config", "hatchctl.toml", "Path to config file")
	flag.BoolVar(&NoEmbed, "noembed", false, "Read panel files from disk instead of the embedded copies")
	flag.Parse()

	if *versionFlag {
		fmt.Println("Hatchctl version:", version)
		fmt.Println("Built on:", buildTime)
		fmt.Println("Commit hash:", commitHash)
		return
	}

	if *systemdFlag {
		SystemdServiceFile()
		return
	}

	log.Info().
		Str("version", version).
		Str("build_timestamp", buildTime.Format(time.RFC3339)).
		Str("commit_hash", commitHash).
		Msg("Initializing Hatchctl")

	fs := NewHatchOSFS()

	config, err := NewConfig(fs, *configFlag, os.Getenv)
	if err != nil {
		log.Fatal().Err(err).Msg("Config initialization failed")
	}
	SetDebugLogging(config.Debug())

	regs, sim, err := hw.Open(config.Pinout())
	if err != nil {
		log.Fatal().Err(err).Msg("Hardware initialization failed")
	}
	defer hw.Close()

	ctrl := controller.New(regs, controller.WallClock{})

	ctx := context.Background()

	panel := NewPanel(regs, sim, ctrl)
	go panel.Watch(ctx)

	recorder := NewRecorder(fs, config.DataDir())
	unsub, events := ctrl.Subscribe()
	defer unsub()
	go recorder.Run(ctx, events)

	go func() {
		if err := StartServer(config, panel); err != nil {
			log.Err(err).Msg("Front panel closed with error")
		}
	}()

	// The control loop owns the main goroutine and never returns.
	ctrl.Run(ctx)
}
