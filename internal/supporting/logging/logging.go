/*
 * Licensed to the Apache Software Foundation (ASF) under one or more
 * contributor license agreements. See the NOTICE file distributed with
 * this work for additional information regarding copyright ownership.
 * The ASF licenses this file to You under the Apache License, Version 2.0
 * (the "License"); you may not use this file except in compliance with
 * the License. You may obtain a copy of the License at
 *
 *    http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package logging

import (
	"github.com/gookit/color"
	"github.com/gookit/slog"
	"github.com/gookit/slog/handler"
	"github.com/noctarius/document-relationalizer/internal/supporting"
	spiconfig "github.com/noctarius/document-relationalizer/spi/config"
	"os"
	"strings"
	"sync"
)

var WithVerbose = false
var WithCaller = false

// VerboseLevel sits between info and debug. Verbose messages are
// emitted when the logger's level allows it or the --verbose flag
// is set.
const VerboseLevel slog.Level = 650

var (
	loggingConfig                spiconfig.LoggerConfig
	defaultLevel                 = slog.InfoLevel
	defaultConsoleHandler        slog.Handler
	defaultFileHandler           *handler.SyncCloseHandler
	defaultConsoleHandlerEnabled = true
	fileHandlers                 = make(map[string]*handler.SyncCloseHandler)
	fileHandlersMutex            sync.Mutex
)

func init() {
	registerVerboseLevel()
	defaultConsoleHandler = newConsoleHandler(false)
}

// InitializeLogging applies the logging configuration. Loggers
// created before are not reconfigured. The level can be overridden
// by the LOGGING_LEVEL environment variable.
func InitializeLogging(
	config *spiconfig.Config, logToStdErr bool,
) error {

	loggingConfig = config.Logging
	defaultLevel = Name2Level(spiconfig.GetOrDefault(config, spiconfig.PropertyLoggingLevel, "info"))
	defaultConsoleHandler = newConsoleHandler(logToStdErr)
	defaultConsoleHandlerEnabled = isEnabled(loggingConfig.Outputs.Console.Enabled, true)

	_, fileHandler, err := newFileHandler(loggingConfig.Outputs.File)
	if err != nil {
		return supporting.AdaptError(err, supporting.ExitCodeConfiguration)
	}
	defaultFileHandler = fileHandler
	return nil
}

// ShutdownLogging flushes and closes all log files. Buffered
// messages are lost if the process exits without calling it.
func ShutdownLogging() error {
	fileHandlersMutex.Lock()
	defer fileHandlersMutex.Unlock()

	var firstErr error
	for path, fileHandler := range fileHandlers {
		if err := fileHandler.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(fileHandlers, path)
	}
	defaultFileHandler = nil
	return firstErr
}

func registerVerboseLevel() {
	slog.LevelNames[VerboseLevel] = "VERBOSE"
	slog.AllLevels = slog.Levels{
		slog.PanicLevel,
		slog.FatalLevel,
		slog.ErrorLevel,
		slog.WarnLevel,
		slog.NoticeLevel,
		slog.InfoLevel,
		VerboseLevel,
		slog.DebugLevel,
		slog.TraceLevel,
	}
	slog.NormalLevels = slog.Levels{
		slog.InfoLevel,
		slog.NoticeLevel,
		VerboseLevel,
		slog.DebugLevel,
		slog.TraceLevel,
	}
	slog.ColorTheme[VerboseLevel] = color.FgLightGreen
}

func newConsoleHandler(
	logToStdErr bool,
) slog.Handler {

	template := "[{{datetime}}] [{{level}}] {{message}} {{data}} {{extra}}\n"
	if WithCaller {
		template = "[{{datetime}}] [{{level}}] [{{caller}}] {{message}} {{data}} {{extra}}\n"
	}

	consoleHandler := handler.NewConsoleHandler(slog.AllLevels)
	consoleHandler.TextFormatter().SetTemplate(template)
	if logToStdErr {
		consoleHandler.IOWriterHandler = *handler.NewIOWriterHandler(os.Stderr, slog.AllLevels)
	}
	return &consoleHandlerSyncAdapter{ConsoleHandler: consoleHandler}
}

// the console handler isn't safe for concurrent use
type consoleHandlerSyncAdapter struct {
	*handler.ConsoleHandler
	mutex sync.Mutex
}

func (h *consoleHandlerSyncAdapter) Handle(
	record *slog.Record,
) error {

	h.mutex.Lock()
	defer h.mutex.Unlock()
	return h.ConsoleHandler.Handle(record)
}

func Name2Level(
	ln string,
) slog.Level {

	switch strings.ToLower(strings.TrimSpace(ln)) {
	case "panic":
		return slog.PanicLevel
	case "fatal":
		return slog.FatalLevel
	case "err", "error":
		return slog.ErrorLevel
	case "warn", "warning":
		return slog.WarnLevel
	case "notice":
		return slog.NoticeLevel
	case "verbose":
		return VerboseLevel
	case "debug":
		return slog.DebugLevel
	case "trace":
		return slog.TraceLevel
	default:
		return slog.InfoLevel
	}
}

func isEnabled(
	flag *bool, defaultValue bool,
) bool {

	if flag == nil {
		return defaultValue
	}
	return *flag
}
