package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"

	debugui_ebiten "github.com/plus3/stagecs/ecs/debugui/ebiten"
	"github.com/plus3/stagecs/ecs/ebitenhost"
	"github.com/plus3/stagecs/internal/config"
	"github.com/plus3/stagecs/internal/logging"
)

func main() {
	configPath := flag.String("config", "", "Path to a TOML configuration file.")
	entityCount := flag.Int("entities", -1, "The number of drones to spawn when no prototypes are loaded.")
	flag.Parse()

	cfg := config.Default()
	cfg.Simulation.Entities = 40
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}
	if *entityCount >= 0 {
		cfg.Simulation.Entities = *entityCount
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowTitle(cfg.Window.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	backend := debugui_ebiten.NewImguiBackend(cfg.Window.Title, cfg.Window.Width, cfg.Window.Height)

	stack, err := newDemo(cfg, logger)
	if err != nil {
		logger.Fatal("demo setup failed", zap.Error(err))
	}

	game := ebitenhost.NewGame(stack,
		ebitenhost.WithOverlay(backend),
		ebitenhost.WithLogger(logger))
	if err := ebiten.RunGame(game); err != nil {
		logger.Fatal("game stopped", zap.Error(err))
	}
}
