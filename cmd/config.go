package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"

	m "github.com/AlexandreBurel/RawFinder/internal/model"
)

const (
	configVersionKey     = "version"
	currentConfigVersion = 1

	configBaseName   = "rawfinder"
	configFileName   = configBaseName + ".yaml"
	configFolderPath = "."
	dotEnvFileName   = ".env"

	outputFlagName    = "output"
	rawFlagName       = "raw"
	archiveFlagName   = "archive"
	modeFlagName      = "mode"
	templateFlagName  = "template"
	workersFlagName   = "workers"
	verboseFlagName   = "verbose"
	logFileFlagName   = "log-file"
	timezoneFlagName  = "timezone"
	noReportsFlagName = "no-reports"

	reportsConfigKey          = "paths.reports"
	rawConfigKey              = "paths.raw"
	archiveConfigKey          = "paths.archive"
	modeConfigKey             = "rawdata.mode"
	folderTemplatesConfigKey  = "rawdata.folder_templates"
	folderExtensionsConfigKey = "rawdata.folder_extensions"
	fileTemplatesConfigKey    = "rawdata.file_templates"
	monthNamesConfigKey       = "archive.month_names"
	timezoneConfigKey         = "archive.timezone"
	workersConfigKey          = "scan.workers"
	progressStepConfigKey     = "scan.progress_step"

	defaultReportsDir     = "RawFinder-reports"
	defaultMode           = string(m.ModeFolderLike)
	defaultFolderTemplate = `.+\.d`
	defaultFileTemplate   = `.+\.raw`
	defaultTimezone       = "Local"
	defaultWorkers        = 1

	envPrefix = "RAWFINDER"

	logFilenameKey   = "log.filename"
	logLevelKey      = "log.level"
	logVerboseKey    = "log.verbose"
	logMaxSizeKey    = "log.max_size"
	logMaxBackupsKey = "log.max_backups"
	logMaxAgeKey     = "log.max_age"
	logCompressKey   = "log.compress"

	defaultLogFilename   = ".rawfinder.log"
	defaultLogLevel      = int(slog.LevelInfo)
	defaultLogVerbose    = false
	defaultLogMaxSize    = 10
	defaultLogMaxBackups = 3
	defaultLogMaxAge     = 28
	defaultLogCompress   = true
)

// defaultFolderExtensions are the files expected inside a folder-like unit.
var defaultFolderExtensions = []string{".tdf", ".tdf_bin"}

var globalLogger *slog.Logger

func init() {
	// A missing .env is the common case.
	_ = godotenv.Load(filepath.Join(configFolderPath, dotEnvFileName))

	viper.SetConfigName(configBaseName)
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configFolderPath)
	viper.SetConfigFile(filepath.Join(configFolderPath, configFileName))
	viper.AutomaticEnv()
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	viper.SetDefault(configVersionKey, currentConfigVersion)
	viper.SetDefault(reportsConfigKey, defaultReportsDir)
	viper.SetDefault(rawConfigKey, "")
	viper.SetDefault(archiveConfigKey, "")
	viper.SetDefault(modeConfigKey, defaultMode)
	viper.SetDefault(folderTemplatesConfigKey, []string{defaultFolderTemplate})
	viper.SetDefault(folderExtensionsConfigKey, defaultFolderExtensions)
	viper.SetDefault(fileTemplatesConfigKey, []string{defaultFileTemplate})
	viper.SetDefault(monthNamesConfigKey, m.DefaultMonthNames)
	viper.SetDefault(timezoneConfigKey, defaultTimezone)
	viper.SetDefault(workersConfigKey, defaultWorkers)
	viper.SetDefault(progressStepConfigKey, m.DefaultProgressStep)

	// Logging defaults (used by config/env and as fallbacks for flags).
	viper.SetDefault(logFilenameKey, defaultLogFilename)
	viper.SetDefault(logLevelKey, defaultLogLevel)
	viper.SetDefault(logVerboseKey, defaultLogVerbose)
	viper.SetDefault(logMaxSizeKey, defaultLogMaxSize)
	viper.SetDefault(logMaxBackupsKey, defaultLogMaxBackups)
	viper.SetDefault(logMaxAgeKey, defaultLogMaxAge)
	viper.SetDefault(logCompressKey, defaultLogCompress)

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist) {
			return
		}

		_, _ = fmt.Fprintf(os.Stderr, "warning: cannot read %s: %v\n", configFileName, err)
	}
}

// scanConfigFromViper builds the scan configuration from the config file,
// the environment and the command-line flags, in increasing priority.
func scanConfigFromViper(templatesOverride []string) (m.ScanConfig, error) {
	mode, err := m.ParseMode(viper.GetString(modeConfigKey))
	if err != nil {
		return m.ScanConfig{}, err
	}

	templates := templatesOverride
	if len(templates) == 0 {
		templates = templatesForMode(mode)
	}

	location, err := time.LoadLocation(viper.GetString(timezoneConfigKey))
	if err != nil {
		return m.ScanConfig{}, fmt.Errorf("timezone %q: %w", viper.GetString(timezoneConfigKey), err)
	}

	cfg := m.ScanConfig{
		RawRoot:      m.Path(viper.GetString(rawConfigKey)),
		ArchiveRoot:  m.Path(viper.GetString(archiveConfigKey)),
		Mode:         mode,
		Templates:    templates,
		MonthNames:   viper.GetStringSlice(monthNamesConfigKey),
		Location:     location,
		Workers:      viper.GetInt(workersConfigKey),
		ProgressStep: viper.GetInt(progressStepConfigKey),
	}

	if mode == m.ModeFolderLike {
		cfg.Extensions = viper.GetStringSlice(folderExtensionsConfigKey)
	}

	return cfg, nil
}

func templatesForMode(mode m.Mode) []string {
	if mode == m.ModeFileLike {
		return viper.GetStringSlice(fileTemplatesConfigKey)
	}

	return viper.GetStringSlice(folderTemplatesConfigKey)
}

// resolveReportsDir makes sure dir exists. When it cannot be created the
// reports go to the home directory.
func resolveReportsDir(dir string) m.Path {
	if strings.TrimSpace(dir) == "" {
		dir = defaultReportsDir
	}

	if err := os.MkdirAll(dir, 0o750); err == nil {
		return m.Path(dir)
	} else if home, homeErr := os.UserHomeDir(); homeErr == nil {
		slog.Warn("Report directory is not available, using the home directory", "path", dir, "error", err)
		return m.Path(home)
	}

	return m.Path(dir)
}

func parseSlogLevel(value string, defaultLevel slog.Level) slog.Level {
	level := strings.ToLower(strings.TrimSpace(value))
	if level == "" {
		return defaultLevel
	}

	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}

	// Allow numeric slog levels as well (e.g. -4 for debug).
	if n, err := strconv.Atoi(level); err == nil {
		return slog.Level(n)
	}

	return defaultLevel
}

// configureLogger configures the global slog logger.
//
// By default it logs at Info; if verbose is true it logs at Debug.
func configureLogger(logPath string, verbose bool) {
	if strings.TrimSpace(logPath) == "" {
		logPath = viper.GetString(logFilenameKey)
	}

	if strings.TrimSpace(logPath) == "" {
		logPath = defaultLogFilename
	}

	var logLevel slog.Level
	if verbose {
		logLevel = slog.LevelDebug
	} else {
		logLevel = parseSlogLevel(viper.GetString(logLevelKey), slog.LevelInfo)
	}

	logWriter := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    viper.GetInt(logMaxSizeKey),
		MaxBackups: viper.GetInt(logMaxBackupsKey),
		MaxAge:     viper.GetInt(logMaxAgeKey),
		Compress:   viper.GetBool(logCompressKey),
	}

	handler := slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		AddSource: true,
		Level:     logLevel,
	})

	globalLogger = slog.New(handler)
	slog.SetDefault(globalLogger)
}
