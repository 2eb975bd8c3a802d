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

package main

import (
	"context"
	"fmt"
	"github.com/go-errors/errors"
	"github.com/noctarius/document-relationalizer/internal"
	"github.com/noctarius/document-relationalizer/internal/relationalizing"
	"github.com/noctarius/document-relationalizer/internal/supporting"
	"github.com/noctarius/document-relationalizer/internal/supporting/logging"
	spiconfig "github.com/noctarius/document-relationalizer/spi/config"
	"github.com/noctarius/document-relationalizer/spi/version"
	"github.com/urfave/cli"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	_ "github.com/noctarius/document-relationalizer/internal/sinks/file"
	_ "github.com/noctarius/document-relationalizer/internal/sinks/kafka"
	_ "github.com/noctarius/document-relationalizer/internal/sinks/memory"
	_ "github.com/noctarius/document-relationalizer/internal/sinks/nats"
	_ "github.com/noctarius/document-relationalizer/internal/sinks/postgres"
	_ "github.com/noctarius/document-relationalizer/internal/sinks/redis"
	_ "github.com/noctarius/document-relationalizer/internal/sinks/s3"
	_ "github.com/noctarius/document-relationalizer/internal/sinks/sqlite"
	_ "github.com/noctarius/document-relationalizer/internal/sinks/stdout"
	_ "github.com/noctarius/document-relationalizer/internal/sources/bsonfile"
	_ "github.com/noctarius/document-relationalizer/internal/sources/jsonfile"
	_ "github.com/noctarius/document-relationalizer/internal/sources/mongodb"
)

var (
	configurationFile string
	verbose           bool
	withCaller        bool
	logToStdErr       bool
	versionOnly       bool
	rootTable         string
	input             string
)

func main() {
	app := &cli.App{
		Name:  version.BinName,
		Usage: "Relationalizes nested documents into flat, typed tables",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config,c",
				Value:       "",
				Usage:       "Load configuration from `FILE`",
				Destination: &configurationFile,
			},
			&cli.StringFlag{
				Name:        "root,r",
				Value:       "",
				Usage:       "Name of the root `TABLE`, derived from the source if not set",
				Destination: &rootTable,
			},
			&cli.StringFlag{
				Name:        "input,i",
				Value:       "",
				Usage:       "Read documents from `FILE` (JSON, JSON Lines or .bson)",
				Destination: &input,
			},
			&cli.BoolFlag{
				Name:        "verbose",
				Usage:       "Show verbose output",
				Destination: &verbose,
			},
			&cli.BoolFlag{
				Name:        "caller",
				Usage:       "Collect caller information for log messages",
				Destination: &withCaller,
			},
			&cli.BoolFlag{
				Name:        "log-to-stderr",
				Usage:       "Redirects logging output to stderr, necessary when using StdOut as the sink",
				Destination: &logToStdErr,
			},
			&cli.BoolFlag{
				Name:        "version",
				Usage:       "Prints the version and exits",
				Destination: &versionOnly,
			},
		},
		Action: start,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func start(*cli.Context) error {
	fmt.Fprintf(os.Stderr, "%s version %s (git revision %s; branch %s)\n",
		version.BinName, version.Version, version.CommitHash, version.Branch,
	)

	if versionOnly {
		return nil
	}

	logging.WithCaller = withCaller
	logging.WithVerbose = verbose

	config := &spiconfig.Config{}

	// No configuration file set? Try env variable!
	if configurationFile == "" {
		if cf, present := os.LookupEnv("DOCUMENT_RELATIONALIZER_CONFIG"); present {
			fmt.Fprintf(os.Stderr, "Using configuration file from environment variable\n")
			configurationFile = cf
		}
	}

	if configurationFile != "" {
		fmt.Fprintf(os.Stderr, "Loading configuration file: %s\n", configurationFile)
		if err := spiconfig.UnmarshallFile(configurationFile, config); err != nil {
			return supporting.AdaptError(err, supporting.ExitCodeConfiguration)
		}
	}

	applyFlags(config)

	if err := logging.InitializeLogging(config, logToStdErr); err != nil {
		return err
	}
	defer func() {
		if err := logging.ShutdownLogging(); err != nil {
			fmt.Fprintf(os.Stderr, "Log files couldn't be closed: %v\n", err)
		}
	}()

	session, err := internal.NewSession(config)
	if err != nil {
		return supporting.AdaptError(err, supporting.ExitCodeSetup)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer cancel()

	if err := session.Run(ctx); err != nil {
		if errors.Is(err, relationalizing.ErrMalformedDocument) {
			return supporting.AdaptError(err, supporting.ExitCodeMalformed)
		}
		return supporting.AdaptError(err, supporting.ExitCodeProcessing)
	}
	return nil
}

// applyFlags overrides the configuration with the command line
// flags, the input file selects the matching file source.
func applyFlags(
	config *spiconfig.Config,
) {

	if rootTable != "" {
		config.Relationalize.Root = rootTable
	}

	if input != "" {
		if strings.ToLower(filepath.Ext(input)) == ".bson" {
			config.Source.Type = spiconfig.BsonFile
			config.Source.BsonFile.Path = input
		} else {
			config.Source.Type = spiconfig.JsonFile
			config.Source.JsonFile.Path = input
		}
	}
}
