package main

import (
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"spatialgrid/internal/api"
	"spatialgrid/internal/config"
	"spatialgrid/internal/spatialhash"

	"github.com/joho/godotenv"
)

// gridItem is the minimal spatialhash.Item type the diagnostics server's
// grid is built over; gridserver adds no items itself. It exists to
// exercise the query/raycast HTTP surface, not to model any particular
// domain's entities.
type gridItem struct {
	id     spatialhash.ItemId
	center spatialhash.Float3
	size   spatialhash.Float3
}

func (it *gridItem) Center() spatialhash.Float3                  { return it.center }
func (it *gridItem) Size() spatialhash.Float3                    { return it.size }
func (it *gridItem) SpatialHashingIndex() spatialhash.ItemId      { return it.id }
func (it *gridItem) SetSpatialHashingIndex(id spatialhash.ItemId) { it.id = id }

func main() {
	if err := godotenv.Load("../.env"); err != nil {
		if err := godotenv.Load(".env"); err != nil {
			log.Println("no .env file found, using environment variables only")
		}
	} else {
		log.Println("loaded environment from ../.env")
	}

	log.Println("================================")
	log.Println(" SPATIALGRID - DIAGNOSTICS SERVER")
	log.Println("================================")

	appConfig := config.Load()
	gridCfg := appConfig.Grid
	serverCfg := appConfig.Server

	world := spatialhash.NewAABBFromCenterSize(
		spatialhash.Float3{},
		spatialhash.Float3{X: gridCfg.WorldSizeX, Y: gridCfg.WorldSizeY, Z: gridCfg.WorldSizeZ},
	)
	cellSize := spatialhash.Float3{X: gridCfg.CellSizeX, Y: gridCfg.CellSizeY, Z: gridCfg.CellSizeZ}

	grid, err := spatialhash.New[*gridItem](world, cellSize, gridCfg.InitialItems)
	if err != nil {
		log.Fatalf("failed to construct grid: %v", err)
	}

	log.Printf("grid: world %v cell %v initial capacity %d", world.Size(), cellSize, gridCfg.InitialItems)

	server := api.NewServer(grid)

	port := strconv.Itoa(serverCfg.Port)
	go func() {
		addr := ":" + port
		log.Printf("diagnostics server on http://localhost%s", addr)
		log.Printf("  stats:   http://localhost%s/api/grid/stats", addr)
		log.Printf("  metrics: http://localhost%s/metrics", addr)

		if err := server.Start(addr); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	log.Println("server ready, press Ctrl+C to stop")
	<-quit

	log.Println("shutting down...")
	server.Stop()
	log.Println("goodbye")
}
