package bootstrap

import (
	"context"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"userhub/internal/config"
	mongoClient "userhub/internal/platform/mongodb"
	rabbitmqClient "userhub/internal/platform/rabbitmq"
	redisClient "userhub/internal/platform/redis"
	"userhub/internal/repository"
	"userhub/internal/worker"
)

type App struct {
	Config       *config.Config
	Mongo        *mongo.Client
	DB           *mongo.Database
	Redis        *redis.Client
	MQConn       *amqp.Connection
	SignupWorker *worker.SignupAuditWorker

	StartedAt time.Time
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config failed: %w", err)
	}

	mongoCli, err := mongoClient.New(ctx, cfg.Mongo.URI)
	if err != nil {
		return nil, err
	}
	db := mongoCli.Database(cfg.Mongo.DB)

	userRepo := repository.NewUserRepository(db)
	if err := userRepo.EnsureIndexes(ctx); err != nil {
		return nil, err
	}

	redisCli, err := redisClient.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config:    cfg,
		Mongo:     mongoCli,
		DB:        db,
		Redis:     redisCli,
		StartedAt: time.Now(),
	}

	if cfg.RabbitMQ.Enabled {
		mqConn, err := rabbitmqClient.New(cfg.RabbitMQ.URL)
		if err != nil {
			return nil, err
		}
		app.MQConn = mqConn

		auditRepo := repository.NewAuditRepository(db)
		app.SignupWorker = worker.NewSignupAuditWorker(mqConn, auditRepo, cfg.RabbitMQ.SignupQueue)
		if err := app.SignupWorker.Start(ctx); err != nil {
			return nil, fmt.Errorf("start signup audit worker failed: %w", err)
		}
	}

	return app, nil
}

func (a *App) Close() error {
	var closeErr error
	if a.SignupWorker != nil {
		a.SignupWorker.Close()
	}
	if a.MQConn != nil {
		if err := a.MQConn.Close(); err != nil {
			closeErr = err
		}
	}
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			closeErr = err
		}
	}
	if a.Mongo != nil {
		if err := a.Mongo.Disconnect(context.Background()); err != nil {
			closeErr = err
		}
	}
	return closeErr
}
