// Command gridbench is a standalone load generator: it inserts N random
// items into a grid, runs a mixed query workload, and prints timings.
// It exists to sanity-check "interactive rate" behaviour for real-sized
// worlds without going through `go test -bench`.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"time"

	"spatialgrid/internal/spatialhash"
)

type benchItem struct {
	id     spatialhash.ItemId
	center spatialhash.Float3
	size   spatialhash.Float3
}

func (it *benchItem) Center() spatialhash.Float3                  { return it.center }
func (it *benchItem) Size() spatialhash.Float3                    { return it.size }
func (it *benchItem) SpatialHashingIndex() spatialhash.ItemId      { return it.id }
func (it *benchItem) SetSpatialHashingIndex(id spatialhash.ItemId) { it.id = id }

func main() {
	itemCount := flag.Int("items", 50_000, "number of items to insert")
	worldSize := flag.Float64("world", 2000, "world cube size (centred at the origin)")
	cellSize := flag.Float64("cell", 8, "grid cell size")
	queries := flag.Int("queries", 1000, "number of AABB queries to run")
	rays := flag.Int("rays", 1000, "number of ray casts to run")
	flag.Parse()

	world := spatialhash.NewAABBFromCenterSize(
		spatialhash.Float3{},
		spatialhash.Float3{X: *worldSize, Y: *worldSize, Z: *worldSize},
	)
	cell := spatialhash.Float3{X: *cellSize, Y: *cellSize, Z: *cellSize}

	grid, err := spatialhash.New[*benchItem](world, cell, *itemCount)
	if err != nil {
		fmt.Printf("failed to construct grid: %v\n", err)
		return
	}

	rng := rand.New(rand.NewSource(1))
	half := *worldSize / 2

	insertStart := time.Now()
	for i := 0; i < *itemCount; i++ {
		item := &benchItem{
			center: spatialhash.Float3{
				X: rng.Float64()*(*worldSize) - half,
				Y: rng.Float64()*(*worldSize) - half,
				Z: rng.Float64()*(*worldSize) - half,
			},
			size: spatialhash.Float3{X: 1, Y: 1, Z: 1},
		}
		grid.Add(item)
	}
	insertElapsed := time.Since(insertStart)

	fmt.Printf("inserted %d items in %v (%.0f items/sec)\n",
		*itemCount, insertElapsed, float64(*itemCount)/insertElapsed.Seconds())
	fmt.Printf("bucket entries: %d, cells: %v\n", grid.BucketItemCount(), grid.CellCount())

	queryStart := time.Now()
	for i := 0; i < *queries; i++ {
		center := spatialhash.Float3{
			X: rng.Float64()*(*worldSize) - half,
			Y: rng.Float64()*(*worldSize) - half,
			Z: rng.Float64()*(*worldSize) - half,
		}
		query := spatialhash.NewAABBFromCenterSize(center, spatialhash.Float3{X: 20, Y: 20, Z: 20})
		grid.QueryAABB(query)
	}
	queryElapsed := time.Since(queryStart)
	fmt.Printf("ran %d AABB queries in %v (%.2f us/query)\n",
		*queries, queryElapsed, float64(queryElapsed.Microseconds())/float64(*queries))

	rayStart := time.Now()
	for i := 0; i < *rays; i++ {
		origin := spatialhash.Float3{X: -half, Y: rng.Float64()*(*worldSize) - half, Z: rng.Float64()*(*worldSize) - half}
		grid.RayCast(origin, spatialhash.Float3{X: 1, Y: 0, Z: 0}, *worldSize)
	}
	rayElapsed := time.Since(rayStart)
	fmt.Printf("ran %d ray casts in %v (%.2f us/ray)\n",
		*rays, rayElapsed, float64(rayElapsed.Microseconds())/float64(*rays))
}
