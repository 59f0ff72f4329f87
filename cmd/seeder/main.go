// Seeder loads a JSON fixture of hotels and their rooms into the
// catalogue, inserting hotels concurrently with a bounded worker pool.
package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"sync"

	_ "github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"staybook/internal/adapters/observability"
	"staybook/internal/app"
	"staybook/internal/shared"
	mysqlrepo "staybook/internal/storage/mysql"
)

type seedRoom struct {
	RoomType     string   `json:"roomType"`
	Description  string   `json:"description"`
	Capacity     int      `json:"capacity"`
	NightlyPrice float64  `json:"price"`
	TotalRooms   int      `json:"totalRooms"`
	Amenities    []string `json:"amenities"`
	Images       []string `json:"images"`
}

type seedHotel struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Address     string     `json:"address"`
	City        string     `json:"city"`
	Email       string     `json:"email"`
	Phone       string     `json:"phone"`
	Images      []string   `json:"images"`
	Rooms       []seedRoom `json:"rooms"`
}

func main() {
	_ = godotenv.Load()
	ctx := context.Background()
	cfg := shared.Load()

	log.Logger = observability.NewLogger(cfg.AppEnv)

	log.Info().
		Str("file", cfg.SeedFile).
		Int("workers", cfg.SeedWorkers).
		Msg("seeder starting")

	raw, err := os.ReadFile(cfg.SeedFile)
	if err != nil {
		log.Fatal().Err(err).Msg("read seed file failed")
	}
	var hotels []seedHotel
	if err := json.Unmarshal(raw, &hotels); err != nil {
		log.Fatal().Err(err).Msg("parse seed file failed")
	}

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("db ping ok")

	repo := mysqlrepo.New(db)
	catalog := app.NewCatalogService(repo, repo, nil)

	sem := semaphore.NewWeighted(int64(cfg.SeedWorkers))
	var wg sync.WaitGroup

	for _, sh := range hotels {
		sh := sh

		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, int64(1)); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}

		wg.Add(1)
		go func(sh seedHotel) {
			defer wg.Done()
			defer sem.Release(int64(1))

			hotel, err := catalog.CreateHotel(ctx, app.CreateHotelInput{
				Name:        sh.Name,
				Description: sh.Description,
				Address:     sh.Address,
				City:        sh.City,
				Email:       sh.Email,
				Phone:       sh.Phone,
				Images:      sh.Images,
			})
			if err != nil {
				log.Warn().Str("hotel", sh.Name).Err(err).Msg("seed hotel failed")
				return
			}
			for _, sr := range sh.Rooms {
				if _, err := catalog.AddRoom(ctx, hotel.ID, app.AddRoomInput{
					RoomType:     sr.RoomType,
					Description:  sr.Description,
					Capacity:     sr.Capacity,
					NightlyPrice: sr.NightlyPrice,
					TotalRooms:   sr.TotalRooms,
					Amenities:    sr.Amenities,
					Images:       sr.Images,
				}); err != nil {
					log.Warn().Str("hotel", sh.Name).Str("room", sr.RoomType).Err(err).Msg("seed room failed")
				}
			}
			log.Info().Int64("id", hotel.ID).Str("hotel", sh.Name).Msg("seed ok")
		}(sh)
	}

	wg.Wait()
	log.Info().Msg("seeding completed")
}
