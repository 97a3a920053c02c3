// Command createuser inserts a user directly into the store:
//
//	createuser <username> <password> <email>
//
// Intended for seeding accounts before the HTTP API is reachable.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"userhub/internal/app"
	"userhub/internal/config"
	mongoClient "userhub/internal/platform/mongodb"
	"userhub/internal/repository"
)

func main() {
	if len(os.Args) != 4 {
		fmt.Fprintln(os.Stderr, "usage: createuser <username> <password> <email>")
		os.Exit(1)
	}
	username, password, email := os.Args[1], os.Args[2], os.Args[3]

	if err := run(username, password, email); err != nil {
		log.Fatalf("createuser: %v", err)
	}
	fmt.Printf("created user %s\n", username)
}

func run(username, password, email string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongoClient.New(ctx, cfg.Mongo.URI)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Disconnect(context.Background())
	}()

	userRepo := repository.NewUserRepository(client.Database(cfg.Mongo.DB))
	if err := userRepo.EnsureIndexes(ctx); err != nil {
		return err
	}

	// Registration path minus the token; same validation and hashing.
	svc := app.NewAuthService(userRepo, nil, cfg.Auth.JWTSecret, time.Duration(cfg.Auth.JWTExpireMinute)*time.Minute)
	_, err = svc.Register(ctx, app.RegisterInput{
		Username: username,
		Password: password,
		Email:    email,
	})
	if errors.Is(err, app.ErrUsernameExists) || errors.Is(err, app.ErrEmailExists) {
		return fmt.Errorf("user already exists: %w", err)
	}
	return err
}
