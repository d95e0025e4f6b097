package app

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	"github.com/shandysiswandi/assetexpiry/docs"
	"github.com/shandysiswandi/assetexpiry/internal/pkg/chat"
	"github.com/shandysiswandi/assetexpiry/internal/pkg/clock"
	"github.com/shandysiswandi/assetexpiry/internal/pkg/config"
	"github.com/shandysiswandi/assetexpiry/internal/pkg/goroutine"
	"github.com/shandysiswandi/assetexpiry/internal/pkg/instrument"
	"github.com/shandysiswandi/assetexpiry/internal/pkg/mail"
	"github.com/shandysiswandi/assetexpiry/internal/pkg/messaging"
	"github.com/shandysiswandi/assetexpiry/internal/pkg/router"
	"github.com/shandysiswandi/assetexpiry/internal/pkg/storage"
	"github.com/shandysiswandi/assetexpiry/internal/pkg/uid"
	"github.com/shandysiswandi/assetexpiry/internal/pkg/validator"
	"google.golang.org/api/option"
)

const (
	driverPostgres = "postgres"
	driverSQLite   = "sqlite"

	mailDriverResend = "resend"
	mailDriverSMTP   = "smtp"

	chatDriverPushPlus = "pushplus"
)

func (a *App) initConfig() {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "/config/config.yaml"
		if os.Getenv("LOCAL") == "true" {
			path = "./config/config.yaml"
			if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
				slog.Warn("failed to load .env file", "error", err)
			}
		}
	}

	cfg, err := config.NewViper(path)
	if err != nil {
		slog.Error("failed to init config", "error", err)
		os.Exit(1)
	}

	//nolint:errcheck,gosec // ignore error
	os.Setenv("TZ", cfg.GetString("app.tz"))

	a.config = cfg
}

func (a *App) initInstrument() {
	ins, err := instrument.New(context.Background(), &instrument.Config{
		Enabled:          a.config.GetBool("instrument.enabled"),
		ServiceName:      a.config.GetString("instrument.service_name"),
		ServiceVersion:   a.config.GetString("instrument.service_version"),
		Environment:      a.config.GetString("instrument.env"),
		OTLPEndpoint:     a.config.GetString("instrument.otlp_endpoint"),
		OTLPSecure:       a.config.GetBool("instrument.otlp_secure"),
		TraceSampleRatio: a.config.GetFloat64("instrument.trace_sample_ratio"),
		MetricsInterval:  a.config.GetSecond("instrument.metric_interval_seconds"),
		LogLevel:         a.config.GetString("instrument.log_level"),
		MaskFields:       a.config.GetArray("instrument.log_mask_fields"),
	})
	if err != nil {
		slog.Error("failed to init instrumentation", "error", err)
		os.Exit(1)
	}
	a.ins = ins
}

func (a *App) initLibraries() {
	a.clock = clock.New()
	if tz := strings.TrimSpace(a.config.GetString("app.tz")); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			slog.Error("failed to load app timezone", "tz", tz, "error", err)
			os.Exit(1)
		}
		a.clock = clock.NewIn(loc)
	}

	a.uuid = uid.NewUUID()
	a.goroutine = goroutine.NewManager(a.config.GetInt("app.server.max_goroutine"))

	validator, err := validator.NewV10Validator()
	if err != nil {
		slog.Error("failed to init validation v10 validator", "error", err)
		os.Exit(1)
	}
	a.validator = validator

	snow, err := uid.NewSnowflake(a.config.GetInt64("app.node_id"))
	if err != nil {
		slog.Error("failed to init uid number snowflake", "error", err)
		os.Exit(1)
	}
	a.uid = snow
}

func (a *App) initDatabase() {
	driver := strings.ToLower(strings.TrimSpace(a.config.GetString("database.driver")))
	switch driver {
	case "", driverPostgres:
		a.initPostgres()
	case driverSQLite:
		a.initSQLite()
	default:
		slog.Error("failed to init database, unknown driver", "driver", driver)
		os.Exit(1)
	}
}

func (a *App) initPostgres() {
	config, err := pgxpool.ParseConfig(a.config.GetString("database.url"))
	if err != nil {
		slog.Error("failed to parse DB connection string.", "error", err)
		os.Exit(1)
	}

	config.MaxConns = a.config.GetInt32("database.pool.max_conns")
	config.MinConns = a.config.GetInt32("database.pool.min_conns")
	config.MaxConnLifetime = a.config.GetSecond("database.pool.max_conn_lifetime_seconds")
	config.MaxConnIdleTime = a.config.GetSecond("database.pool.max_conn_idle_seconds")
	config.HealthCheckPeriod = a.config.GetSecond("database.pool.health_check_period_seconds")

	pool, err := pgxpool.NewWithConfig(a.ctx, config)
	if err != nil {
		slog.Error("failed to create DB connection pool", "error", err)
		os.Exit(1)
	}

	pingCtx, cancel := context.WithTimeout(a.ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		slog.Error("failed to ping DB", "error", err)
		os.Exit(1)
	}

	a.dbConn = pool
}

func (a *App) initSQLite() {
	path := a.config.GetString("database.sqlite.path")
	if path == "" {
		path = "assetexpiry.db"
	}

	conn, err := sqlx.Open("sqlite", path)
	if err != nil {
		slog.Error("failed to open sqlite DB", "path", path, "error", err)
		os.Exit(1)
	}

	pingCtx, cancel := context.WithTimeout(a.ctx, 5*time.Second)
	defer cancel()
	if err := conn.PingContext(pingCtx); err != nil {
		slog.Error("failed to ping sqlite DB", "path", path, "error", err)
		os.Exit(1)
	}

	a.sqliteConn = conn
}

// initCache connects redis when redis.url is set. Without it the dispatch
// ledger stays off.
func (a *App) initCache() {
	url := strings.TrimSpace(a.config.GetString("redis.url"))
	if url == "" {
		slog.Info("redis url is empty, cache disabled")
		return
	}

	opt, err := redis.ParseURL(url)
	if err != nil {
		slog.Error("failed to parse redis url", "error", err)
		os.Exit(1)
	}

	rdb := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(a.ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		slog.Error("failed to init redis", "error", err)
		os.Exit(1)
	}

	a.cacheConn = rdb
}

func (a *App) cacheOrNil() redis.UniversalClient {
	if a.cacheConn == nil {
		return nil
	}
	return a.cacheConn
}

func (a *App) initMail() {
	driver := strings.ToLower(strings.TrimSpace(a.config.GetString("mail.driver")))
	switch driver {
	case mailDriverResend:
		m, err := mail.NewResend(mail.ResendConfig{
			APIKey:  a.config.GetString("mail.resend.api_key"),
			From:    a.config.GetString("mail.from"),
			URL:     a.config.GetString("mail.resend.url"),
			Timeout: a.config.GetSecond("mail.resend.timeout_seconds"),
		})
		if err != nil {
			// a missing key only turns the email channel off
			slog.Warn("email channel disabled", "driver", driver, "error", err)
			return
		}
		a.mail = m
	case mailDriverSMTP:
		m, err := mail.NewSMTP(mail.SMTPConfig{
			Host:               a.config.GetString("mail.smtp.host"),
			Port:               a.config.GetInt("mail.smtp.port"),
			Username:           a.config.GetString("mail.smtp.username"),
			Password:           a.config.GetString("mail.smtp.password"),
			From:               a.config.GetString("mail.from"),
			InsecureSkipVerify: a.config.GetBool("mail.smtp.insecure_skip_verify"),
		})
		if err != nil {
			slog.Error("failed to init mail", "driver", driver, "error", err)
			os.Exit(1)
		}
		a.mail = m
	case "", "none":
		slog.Info("email channel disabled", "driver", driver)
	default:
		slog.Error("failed to init mail, unknown driver", "driver", driver)
		os.Exit(1)
	}
}

func (a *App) initChat() {
	driver := strings.ToLower(strings.TrimSpace(a.config.GetString("chat.driver")))
	switch driver {
	case chatDriverPushPlus:
		a.chat = chat.NewPushPlus(chat.PushPlusConfig{
			URL:      a.config.GetString("chat.pushplus.url"),
			Template: a.config.GetString("chat.pushplus.template"),
			Timeout:  a.config.GetSecond("chat.pushplus.timeout_seconds"),
		})
	case "", "none":
		slog.Info("chat channel disabled", "driver", driver)
	default:
		slog.Error("failed to init chat, unknown driver", "driver", driver)
		os.Exit(1)
	}
}

func (a *App) initStorage() {
	driver := strings.TrimSpace(a.config.GetString("storage.driver"))

	gcsCreds := a.config.GetBinary("storage.gcs.credentials_json")
	if v := strings.TrimSpace(a.config.GetString("storage.gcs.credentials_file")); v != "" && len(gcsCreds) == 0 {
		// #nosec G304 -- path is from trusted config file.
		b, err := os.ReadFile(v)
		if err != nil {
			slog.Error("failed to read gcs credentials file", "error", err)
			os.Exit(1)
		}
		gcsCreds = b
	}

	stg, err := storage.NewFromDriver(a.ctx, driver, storage.FactoryOptions{
		S3: storage.S3Options{
			Region:       strings.TrimSpace(a.config.GetString("storage.s3.region")),
			Endpoint:     strings.TrimSpace(a.config.GetString("storage.s3.endpoint")),
			AccessKey:    strings.TrimSpace(a.config.GetString("storage.s3.access_key")),
			SecretKey:    strings.TrimSpace(a.config.GetString("storage.s3.secret_key")),
			SessionToken: strings.TrimSpace(a.config.GetString("storage.s3.session_token")),
			UsePathStyle: a.config.GetBool("storage.s3.use_path_style"),
		},
		GCS: storage.GCSOptions{
			CredentialsJSON: gcsCreds,
			Endpoint:        strings.TrimSpace(a.config.GetString("storage.gcs.endpoint")),
		},
		MinIO: storage.MinIOOptions{
			Region:       strings.TrimSpace(a.config.GetString("storage.minio.region")),
			Endpoint:     strings.TrimSpace(a.config.GetString("storage.minio.endpoint")),
			AccessKey:    strings.TrimSpace(a.config.GetString("storage.minio.access_key")),
			SecretKey:    strings.TrimSpace(a.config.GetString("storage.minio.secret_key")),
			SessionToken: strings.TrimSpace(a.config.GetString("storage.minio.session_token")),
			UseSSL:       a.config.GetBool("storage.minio.use_ssl"),
		},
	})
	if err != nil {
		slog.Error("failed to init storage", "error", err)
		os.Exit(1)
	}

	a.storage = stg
}

func (a *App) initMessaging() {
	var pubsubOpts []option.ClientOption
	if v := strings.TrimSpace(a.config.GetString("messaging.pubsub.endpoint")); v != "" {
		pubsubOpts = append(pubsubOpts, option.WithEndpoint(v))
	}
	if a.config.GetBool("messaging.pubsub.without_auth") {
		pubsubOpts = append(pubsubOpts, option.WithoutAuthentication())
	}

	driver := a.config.GetString("messaging.driver")
	client, err := messaging.NewFromDriver(a.ctx, driver, messaging.FactoryOptions{
		NSQ: messaging.NSQConfig{
			ProducerAddr:         a.config.GetString("messaging.nsq.producer_addr"),
			ConsumerNSQDAddrs:    a.config.GetArray("messaging.nsq.consumer_nsqd_addrs"),
			ConsumerLookupdAddrs: a.config.GetArray("messaging.nsq.consumer_lookupd_addrs"),
		},
		Kafka: messaging.KafkaConfig{
			Brokers: a.config.GetArray("messaging.kafka.brokers"),
		},
		NATS: messaging.NATSConfig{
			URL: a.config.GetString("messaging.nats.url"),
			Options: []nats.Option{
				nats.Name(a.config.GetString("messaging.nats.name")),
				nats.MaxReconnects(a.config.GetInt("messaging.nats.max_reconnects")),
				nats.Timeout(a.config.GetSecond("messaging.nats.timeout_seconds")),
				nats.ReconnectWait(a.config.GetSecond("messaging.nats.reconnect_wait_seconds")),
				nats.PingInterval(a.config.GetSecond("messaging.nats.ping_interval_seconds")),
				nats.MaxPingsOutstanding(a.config.GetInt("messaging.nats.max_pings_outstanding")),
				nats.RetryOnFailedConnect(a.config.GetBool("messaging.nats.retry_on_failed_connect")),
			},
		},
		PubSub: messaging.PubSubConfig{
			ProjectID:     a.config.GetString("messaging.pubsub.project_id"),
			ClientOptions: pubsubOpts,
		},
		RabbitMQ: messaging.RabbitMQConfig{
			URL: a.config.GetString("messaging.rabbitmq.url"),
		},
	})
	if err != nil {
		slog.Error("failed to init messaging", "error", err, "driver", driver)
		os.Exit(1)
	}

	a.messaging = client
}

func (a *App) initHTTPServer() {
	a.router = router.NewRouter(router.Config{
		Config:     a.config,
		UUID:       a.uuid,
		Instrument: a.ins,
	})

	a.router.Raw(http.MethodGet, "/swagger/doc.json", http.HandlerFunc(serveSwaggerDoc))

	routerWithCORS := cors.New(cors.Options{
		AllowedOrigins: a.config.GetArray("app.server.cors"),
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodOptions,
		},
		AllowedHeaders:       []string{"authorization", "x-client-info", "apikey", "content-type"},
		OptionsPassthrough:   true,
		OptionsSuccessStatus: http.StatusOK,
	}).Handler(a.router)

	a.httpServer = &http.Server{
		Addr:              a.config.GetString("app.server.http.address"),
		Handler:           routerWithCORS,
		ReadTimeout:       a.config.GetSecond("app.server.http.read_timeout_seconds"),
		ReadHeaderTimeout: a.config.GetSecond("app.server.http.read_header_timeout_seconds"),
		WriteTimeout:      a.config.GetSecond("app.server.http.write_timeout_seconds"),
		IdleTimeout:       a.config.GetSecond("app.server.http.idle_timeout_seconds"),
	}
}

func (a *App) initClosers() {
	a.closers = []struct {
		name string
		fn   func(context.Context) error
	}{
		{
			name: "Instrument",
			fn: func(ctx context.Context) error {
				return a.ins.Shutdown(ctx)
			},
		},
		{
			name: "Messaging",
			fn: func(context.Context) error {
				if a.messaging == nil {
					return nil
				}
				return a.messaging.Close()
			},
		},
		{
			name: "Mail",
			fn: func(context.Context) error {
				if a.mail == nil {
					return nil
				}
				return a.mail.Close()
			},
		},
		{
			name: "Redis",
			fn: func(context.Context) error {
				if a.cacheConn == nil {
					return nil
				}
				return a.cacheConn.Close()
			},
		},
		{
			name: "Database",
			fn: func(context.Context) error {
				if a.dbConn != nil {
					a.dbConn.Close()
				}
				if a.sqliteConn != nil {
					return a.sqliteConn.Close()
				}

				return nil
			},
		},
		{
			name: "Storage",
			fn: func(context.Context) error {
				if a.storage == nil {
					return nil
				}
				return a.storage.Close()
			},
		},
		{
			name: "Config",
			fn: func(context.Context) error {
				return a.config.Close()
			},
		},
	}
}

func serveSwaggerDoc(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(docs.SwaggerInfo.ReadDoc()))
}
