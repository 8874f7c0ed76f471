package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/soaringjerry/formdrop/internal/api"
	"github.com/soaringjerry/formdrop/internal/config"
	"github.com/soaringjerry/formdrop/internal/middleware"
	"github.com/soaringjerry/formdrop/internal/services"
	"github.com/soaringjerry/formdrop/internal/store"
	"github.com/soaringjerry/formdrop/internal/uploads"
	"github.com/soaringjerry/formdrop/internal/utils"
)

var cli struct {
	Config    string `help:"Path to optional YAML config file." env:"FORMDROP_CONFIG" default:""`
	Addr      string `help:"Listen address, e.g. :8080." env:"FORMDROP_ADDR" default:""`
	DataFile  string `help:"Path of the responses collection file." env:"FORMDROP_DATA_FILE" default:""`
	UploadDir string `help:"Directory where uploaded files are stored." env:"FORMDROP_UPLOAD_DIR" default:""`
	Debug     bool   `help:"Enable debug logging." env:"FORMDROP_DEBUG"`
}

func main() {
	_ = kong.Parse(&cli)

	cfg, err := config.Load(cli.Config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	if cli.Addr != "" {
		cfg.Addr = cli.Addr
	}
	if cli.DataFile != "" {
		cfg.DataFile = cli.DataFile
	}
	if cli.UploadDir != "" {
		cfg.UploadDir = cli.UploadDir
	}
	if cli.Debug {
		cfg.Debug = true
	}

	zcfg := zap.NewProductionConfig()
	if cfg.Debug {
		zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := zcfg.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "build logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	coord := uploads.NewCoordinator(cfg.UploadDir, logger)
	if err := coord.EnsureDir(); err != nil {
		logger.Fatal("create upload dir", zap.String("dir", cfg.UploadDir), zap.Error(err))
	}
	if dir := filepath.Dir(cfg.DataFile); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			logger.Fatal("create data dir", zap.String("dir", dir), zap.Error(err))
		}
	}
	st := store.New(cfg.DataFile, coord, logger)
	if err := st.Init(); err != nil {
		logger.Fatal("init collection file", zap.String("path", cfg.DataFile), zap.Error(err))
	}
	svc := services.NewCollectorService(st, coord)

	rt, err := api.NewRouter(svc, cfg.UploadDir, logger)
	if err != nil {
		logger.Fatal("build router", zap.Error(err))
	}
	r := mux.NewRouter()
	rt.Register(r)

	commit := os.Getenv("FORMDROP_COMMIT")
	buildTime := os.Getenv("FORMDROP_BUILD_TIME")
	r.HandleFunc("/health", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		locale := middleware.LocaleFrom(req.Context())
		_ = json.NewEncoder(w).Encode(map[string]any{
			"ok":         true,
			"name":       "formdrop",
			"locale":     locale,
			"msg":        utils.T(locale, "health.ok"),
			"commit":     commit,
			"build_time": buildTime,
		})
	}).Methods(http.MethodGet)

	handler := middleware.RequestLog(logger)(
		middleware.NoStore(middleware.SecureHeaders(middleware.Locale(r))),
	)

	logger.Info("formdrop listening",
		zap.String("addr", cfg.Addr),
		zap.String("data_file", cfg.DataFile),
		zap.String("upload_dir", cfg.UploadDir),
	)
	if err := http.ListenAndServe(cfg.Addr, handler); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}
