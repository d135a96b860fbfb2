package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pageza/mealsnap/backend/config"
	"github.com/pageza/mealsnap/backend/internal/database"
	"github.com/pageza/mealsnap/backend/internal/service"
)

func main() {
	file := flag.String("file", "", "YAML file of per-unit custom foods")
	flag.Parse()

	if err := run(*file); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
}

func run(file string) error {
	if file == "" {
		return errors.New("-file is required")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if cfg.CustomFoodStore == config.StoreMemory {
		return errors.New("CUSTOM_FOOD_STORE is memory; seeding would be lost on exit")
	}

	rows, err := service.ReadFoodRows(file)
	if err != nil {
		return err
	}

	var client *redis.Client
	if cfg.RedisEnabled() {
		client, err = database.NewRedisClient(cfg)
		if err != nil {
			return err
		}
		defer client.Close()
	}

	store, _, err := database.OpenCustomFoodStore(cfg, client)
	if err != nil {
		return fmt.Errorf("failed to open custom food store: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	names := make([]string, 0, len(rows))
	for name := range rows {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if _, err := store.Put(ctx, name, rows[name]); err != nil {
			return fmt.Errorf("failed to save %q: %w", name, err)
		}
		log.Printf("Seeded custom food %q", name)
	}
	log.Printf("Seeded %d custom foods into the %s store", len(names), cfg.CustomFoodStore)
	return nil
}
