package bootstrap

import (
	"context"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	appsvc "github.com/Kirthidass/Care-Bridge/internal/app"
	"github.com/Kirthidass/Care-Bridge/internal/cache"
	"github.com/Kirthidass/Care-Bridge/internal/config"
	"github.com/Kirthidass/Care-Bridge/internal/model"
	mysqlClient "github.com/Kirthidass/Care-Bridge/internal/platform/mysql"
	rabbitmqClient "github.com/Kirthidass/Care-Bridge/internal/platform/rabbitmq"
	redisClient "github.com/Kirthidass/Care-Bridge/internal/platform/redis"
	"github.com/Kirthidass/Care-Bridge/internal/reportapi"
	"github.com/Kirthidass/Care-Bridge/internal/repository"
	"github.com/Kirthidass/Care-Bridge/internal/worker"
)

type App struct {
	Config           *config.Config
	MySQL            *gorm.DB
	Redis            *redis.Client
	MQConn           *amqp.Connection
	ReportAPI        *reportapi.Client
	Registry         *appsvc.Registry
	TranscriptRepo   *repository.TranscriptRepository
	TranscriptWorker *worker.TranscriptPersistWorker

	StartedAt time.Time
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config failed: %w", err)
	}

	mysqlDB, err := mysqlClient.New(ctx, cfg.MySQLDSN())
	if err != nil {
		return nil, err
	}
	if err := mysqlDB.AutoMigrate(&model.TranscriptEntry{}); err != nil {
		return nil, fmt.Errorf("auto migrate tables failed: %w", err)
	}

	redisCli, err := redisClient.New(
		ctx,
		cfg.Redis.Addr,
		cfg.Redis.Password,
		cfg.Redis.DB,
		time.Duration(cfg.Redis.DialTimeoutSec)*time.Second,
		time.Duration(cfg.Redis.ReadTimeoutSec)*time.Second,
	)
	if err != nil {
		return nil, err
	}

	mqConn, err := rabbitmqClient.New(ctx, cfg.RabbitMQ.URL)
	if err != nil {
		return nil, err
	}

	transcriptRepo := repository.NewTranscriptRepository(mysqlDB)
	transcriptWorker := worker.NewTranscriptPersistWorker(mqConn, transcriptRepo, cfg.RabbitMQ.TranscriptQueue)
	if err := transcriptWorker.Start(ctx); err != nil {
		return nil, fmt.Errorf("start transcript worker failed: %w", err)
	}

	api := reportapi.New(cfg.Collaborator.BaseURL)
	flags := cache.NewFlagStore(redisCli)
	publisher := rabbitmqClient.NewTranscriptPublisher(mqConn, cfg.RabbitMQ.TranscriptQueue)
	registry := appsvc.NewRegistry(
		func(id string) *appsvc.SessionController {
			return appsvc.NewSessionController(id, api, flags, publisher)
		},
		func(ctx context.Context, id string) bool {
			value, ok, err := flags.Get(ctx, id, appsvc.FlagLoggedIn)
			return err == nil && ok && value == "true"
		},
	)

	return &App{
		Config:           cfg,
		MySQL:            mysqlDB,
		Redis:            redisCli,
		MQConn:           mqConn,
		ReportAPI:        api,
		Registry:         registry,
		TranscriptRepo:   transcriptRepo,
		TranscriptWorker: transcriptWorker,
		StartedAt:        time.Now(),
	}, nil
}

func (a *App) Close() error {
	var closeErr error
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			closeErr = err
		}
	}
	if a.TranscriptWorker != nil {
		a.TranscriptWorker.Close()
	}
	if a.MQConn != nil {
		if err := a.MQConn.Close(); err != nil {
			closeErr = err
		}
	}
	if a.MySQL != nil {
		sqlDB, err := a.MySQL.DB()
		if err == nil {
			if err := sqlDB.Close(); err != nil {
				closeErr = err
			}
		}
	}
	return closeErr
}
