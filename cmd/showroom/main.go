package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/iwvelando/showroom/internal/config"
	"github.com/iwvelando/showroom/internal/server"
	"github.com/iwvelando/showroom/pkg/constants"
	"github.com/iwvelando/showroom/pkg/emi"
	"github.com/iwvelando/showroom/pkg/eventprice"
	"github.com/iwvelando/showroom/pkg/output"
	"github.com/iwvelando/showroom/pkg/validation"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var version = "dev"

// initializeLogger creates a zap logger based on configuration and CLI override
func initializeLogger(loggingConfig config.LoggingConfig, logLevelOverride string) (*zap.Logger, error) {
	// Determine log level (CLI override takes precedence)
	level := loggingConfig.Level
	if logLevelOverride != "" {
		level = logLevelOverride
	}
	if level == "" {
		level = "info"
	}

	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn", "warning":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		return nil, fmt.Errorf("invalid log level: %s", level)
	}

	format := loggingConfig.Format
	if format == "" {
		format = "json"
	}

	var config zap.Config
	switch format {
	case "console":
		config = zap.NewDevelopmentConfig()
		config.Level = zap.NewAtomicLevelAt(zapLevel)
	case "json":
		config = zap.NewProductionConfig()
		config.Level = zap.NewAtomicLevelAt(zapLevel)
	default:
		return nil, fmt.Errorf("invalid log format: %s", format)
	}

	// Quotes go to stdout, so logs default to stderr.
	config.OutputPaths = []string{"stderr"}

	if loggingConfig.OutputFile != "" {
		if dir := filepath.Dir(loggingConfig.OutputFile); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create log directory %s: %v", dir, err)
			}
		}

		if file, err := os.OpenFile(loggingConfig.OutputFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644); err != nil {
			return nil, fmt.Errorf("failed to open log file %s: %v", loggingConfig.OutputFile, err)
		} else {
			_ = file.Close()
		}

		config.OutputPaths = []string{loggingConfig.OutputFile}
		config.ErrorOutputPaths = []string{loggingConfig.OutputFile}
	}

	return config.Build()
}

// loadConfiguration reads path, falling back to built-in defaults when the
// default file is absent. An explicitly named file must exist.
func loadConfiguration(path string, explicit bool) (*config.Configuration, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) && !explicit {
			return config.Default()
		}
		return nil, err
	}
	return config.LoadConfiguration(path)
}

func main() {
	// A missing .env is normal outside development.
	_ = godotenv.Load()

	configLocation := flag.String("config", constants.DefaultConfigFile, "path to configuration file")
	serverConfigLocation := flag.String("server-config", constants.DefaultServerConfigFile, "path to server configuration file")
	outputFormatFlag := flag.String("output-format", "", "type of output override: pretty, csv")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	serve := flag.Bool("serve", false, "run the web server instead of printing a quote")
	maxBodySize := flag.String("max-body-size", "", "request body limit override for -serve (e.g. 64K, 1M)")

	loanAmount := flag.Float64("loan-amount", 0, "loan amount override")
	downPayment := flag.Float64("down-payment", 0, "down payment override")
	rate := flag.Float64("rate", 0, "annual interest rate override in percent")
	tenure := flag.Int("tenure", 0, "loan tenure override in months")
	invites := flag.Int("invites", 0, "event invite count override")
	duration := flag.Int("duration", 0, "event duration override in days")
	withSchedule := flag.Bool("schedule", false, "include the month-by-month amortization schedule")
	flag.Parse()

	setFlags := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) {
		setFlags[f.Name] = true
	})

	conf, err := loadConfiguration(*configLocation, setFlags["config"])
	if err != nil {
		fmt.Fprintf(os.Stderr, "{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		os.Exit(1)
	}

	if *serve {
		runServer(conf, *serverConfigLocation, *maxBodySize, *logLevel)
		return
	}

	logger, err := initializeLogger(conf.Logging, *logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	// Determine output format (CLI override takes precedence over config)
	outputFormat := conf.Output.Format
	if *outputFormatFlag != "" {
		outputFormat = *outputFormatFlag
	}
	if outputFormat == "" {
		outputFormat = constants.OutputFormatPretty
	}

	err = validation.New().OutputFormat(outputFormat)
	if err != nil {
		logger.Fatal(err.Error(),
			zap.String("op", "main"),
		)
	}

	warnings := conf.ValidateConfiguration()
	for _, warning := range warnings {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}

	loanForm := conf.LoanForm()
	if setFlags["loan-amount"] {
		loanForm.LoanAmount = *loanAmount
	}
	if setFlags["down-payment"] {
		loanForm.DownPayment = *downPayment
	}
	if setFlags["rate"] {
		loanForm.AnnualRatePercent = *rate
	}
	if setFlags["tenure"] {
		loanForm.TenureMonths = *tenure
	}

	eventForm := conf.EventForm()
	if setFlags["invites"] {
		eventForm.Invites = *invites
	}
	if setFlags["duration"] {
		eventForm.DurationDays = *duration
	}

	report, err := buildReport(logger, conf, loanForm, eventForm, *withSchedule)
	if err != nil {
		logger.Fatal("failed to compute quote",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	switch outputFormat {
	case constants.OutputFormatPretty:
		err = output.PrettyFormat(os.Stdout, report)
	case constants.OutputFormatCSV:
		err = output.CsvFormat(os.Stdout, report)
	}
	if err != nil {
		logger.Fatal("failed to write output",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
}

func buildReport(logger *zap.Logger, conf *config.Configuration, loanForm validation.LoanForm, eventForm validation.EventForm, withSchedule bool) (output.Report, error) {
	v := validation.New()

	loanInputs, err := v.Loan(loanForm)
	if err != nil {
		return output.Report{}, err
	}
	loanResult, err := emi.Quote(loanInputs)
	if err != nil {
		return output.Report{}, err
	}

	report := output.Report{
		Loan:       loanInputs,
		LoanResult: loanResult,
	}
	if withSchedule {
		report.Schedule, err = emi.NewScheduleGenerator(logger).Generate(loanInputs)
		if err != nil {
			return output.Report{}, err
		}
	}

	eventInputs, err := v.Event(eventForm)
	if err != nil {
		return output.Report{}, err
	}
	schedule, err := conf.EventSchedule()
	if err != nil {
		return output.Report{}, err
	}
	calculator, err := eventprice.NewCalculator(schedule)
	if err != nil {
		return output.Report{}, err
	}
	eventResult, err := calculator.Compute(eventInputs)
	if err != nil {
		return output.Report{}, err
	}

	report.Event = eventInputs
	report.EventResult = eventResult
	report.Pricing = schedule.Name
	return report, nil
}

func runServer(conf *config.Configuration, serverConfigPath, maxBodySize, logLevel string) {
	serverConfig, err := server.LoadConfig(serverConfigPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load server configuration at %s\", \"error\": \"%v\"}\n", serverConfigPath, err)
		os.Exit(1)
	}

	if maxBodySize != "" {
		size, err := server.ParseSize(maxBodySize)
		if err != nil {
			fmt.Fprintf(os.Stderr, "{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"invalid -max-body-size\", \"error\": \"%v\"}\n", err)
			os.Exit(1)
		}
		serverConfig.SetBodySizeBytes(size)
	}

	// Server logging settings win over the calculator config when present.
	loggingConfig := conf.Logging
	if serverConfig.Logging != (config.LoggingConfig{}) {
		loggingConfig = serverConfig.Logging
	}

	logger, err := initializeLogger(loggingConfig, logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	for _, warning := range conf.ValidateConfiguration() {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}

	handler, err := server.NewHandler(logger, conf, server.Options{
		MaxBodySize: serverConfig.BodySizeBytes(),
		RateLimit:   serverConfig.RateLimit,
		Version:     version,
	})
	if err != nil {
		logger.Fatal("failed to build web handler",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.Run(ctx, logger, serverConfig, handler); err != nil {
		logger.Fatal("web server stopped",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
}
