package app

import (
	"context"
	"database/sql"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/go-sql-driver/mysql"
	"github.com/legolas182/NatureGlow/configs"
	"github.com/legolas182/NatureGlow/internal/adapter/cache"
	httpadapter "github.com/legolas182/NatureGlow/internal/adapter/http"
	"github.com/legolas182/NatureGlow/internal/adapter/http/middleware"
	"github.com/legolas182/NatureGlow/internal/adapter/queue"
	"github.com/legolas182/NatureGlow/internal/adapter/repo"
	"github.com/legolas182/NatureGlow/internal/logging"
	"github.com/legolas182/NatureGlow/internal/security"
	"github.com/legolas182/NatureGlow/internal/usecase"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
)

type App struct {
	Router *gin.Engine
}

func InitWithConfig(cfg configs.Config) (*App, func(), error) {
	logging.Init(cfg.App.Name, cfg.App.LogFile)
	l := logging.New("app")

	// database
	db, err := sql.Open("mysql", cfg.MySQL.DSN)
	if err != nil {
		return nil, nil, err
	}
	db.SetConnMaxLifetime(cfg.MySQL.ConnMaxLifetime)
	db.SetMaxOpenConns(cfg.MySQL.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MySQL.MaxIdleConns)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, nil, err
	}

	// redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       0,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, nil, err
	}

	// rabbitmq is optional: no URL means order events are dropped
	var events usecase.OrderEvents = queue.NopOrderEvents{}
	var amqpConn *amqp.Connection
	if cfg.Rabbit.URL != "" {
		amqpConn, err = amqp.Dial(cfg.Rabbit.URL)
		if err != nil {
			return nil, nil, err
		}
		ch, err := amqpConn.Channel()
		if err != nil {
			return nil, nil, err
		}
		events, err = queue.NewRabbitOrderEvents(ch)
		if err != nil {
			return nil, nil, err
		}
	} else {
		l.Warn("rabbitmq url not set, order events disabled")
	}

	// infra
	uow := repo.NewSQLUnitOfWork(db)
	orderRepo := repo.NewMySQLOrderRepo(db)
	productRepo := repo.NewMySQLProductRepo(db)
	categoryRepo := repo.NewMySQLCategoryRepo(db)
	userRepo := repo.NewMySQLUserRepo(db)
	productCache := cache.NewRedisProductCache(rdb, cfg.Cache.TTL)
	idem := cache.NewRedisOrderKeys(rdb, cfg.Idempotency.TTL)
	tokens := security.NewTokenIssuer(cfg.Security.JWTSecret, cfg.Security.Issuer,
		cfg.Security.Audience, cfg.Security.TTL)

	// usecases
	orders := usecase.NewOrders(uow, orderRepo, idem, events)
	catalog := usecase.NewCatalog(productRepo, categoryRepo, productCache)
	accounts := usecase.NewAccounts(userRepo, tokens)

	if err := accounts.EnsureAdmin(ctx, cfg.Admin.Name, cfg.Admin.Email, cfg.Admin.Password); err != nil {
		l.Error("admin seeding failed", "err", err)
	}

	// handlers + router
	auth := middleware.NewAuth(tokens, userRepo)
	router := httpadapter.NewRouter(httpadapter.Handlers{
		Orders:     httpadapter.NewOrderHandler(orders),
		Products:   httpadapter.NewProductHandler(catalog),
		Categories: httpadapter.NewCategoryHandler(catalog),
		Users:      httpadapter.NewUserHandler(accounts),
	}, auth)

	cleanup := func() {
		_ = db.Close()
		_ = rdb.Close()
		if amqpConn != nil {
			_ = amqpConn.Close()
		}
	}
	return &App{Router: router}, cleanup, nil
}
