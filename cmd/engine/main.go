package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/kestrel-engine/kestrel/internal/config"
	"github.com/kestrel-engine/kestrel/internal/core/engine"
	"github.com/kestrel-engine/kestrel/internal/core/loadqueue"
	"github.com/kestrel-engine/kestrel/internal/core/observability/log"
	"github.com/kestrel-engine/kestrel/internal/core/platform"
	"github.com/kestrel-engine/kestrel/internal/core/resource"
	"github.com/kestrel-engine/kestrel/internal/core/resource/embedded"
)

func main() {
	cfg, err := config.LoadFile("kestrel.yaml")
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}
	logger := log.New(log.ParseLevel(cfg.LogLevel))

	index := resource.NewIndex(logger)
	scanner := resource.NewScanner(index, resource.ScannerOptions{
		EngineFS:          embedded.FS,
		AssetsRoot:        cfg.AssetsRoot,
		ManifestExtension: cfg.ManifestExtension,
		Platform:          resource.CurrentPlatform(resource.GraphicsRestriction(cfg.GraphicsBackend)),
	}, logger)

	queue := loadqueue.New(logger)
	loader, err := loadqueue.NewLoader(queue, index, cfg.LoaderWorkers,
		func(_ context.Context, d resource.Descriptor) error {
			logger.Debug("loading resource",
				log.String("key", d.Key),
				log.String("path", d.RelativePath))
			return nil
		}, logger)
	if err != nil {
		fmt.Println("Error building loader:", err)
		os.Exit(1)
	}

	app := &demoApp{index: index, queue: queue, loader: loader, log: logger}

	machine, err := engine.NewMachine(engine.Options{
		App:     app,
		Scanner: scanner,
		Window:  platform.HeadlessWindow{},
		Input:   platform.HeadlessInput{},
		Clock:   platform.NewFixedStepClock(cfg.FrameDuration()),
		Log:     logger,
	})
	if err != nil {
		fmt.Println("Error building engine:", err)
		os.Exit(1)
	}

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		<-stopCh
		machine.RequestExit()
	}()

	ok := machine.Run()
	machine.Close()
	if !ok {
		os.Exit(1)
	}
}
