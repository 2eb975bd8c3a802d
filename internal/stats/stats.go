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

package stats

import (
	"context"
	"github.com/go-errors/errors"
	"github.com/noctarius/document-relationalizer/internal/supporting/logging"
	"github.com/noctarius/document-relationalizer/spi/config"
	"github.com/noctarius/document-relationalizer/spi/version"
	"github.com/segmentio/stats/v4"
	"github.com/segmentio/stats/v4/procstats"
	"github.com/segmentio/stats/v4/prometheus"
	"io"
	"net/http"
	"time"
)

const shutdownTimeout = 5 * time.Second

type Service struct {
	statsEnabled   bool
	runtimeEnabled bool
	engine         *stats.Engine
	server         *http.Server
	collector      io.Closer
	logger         *logging.Logger
}

func NewStatsService(
	c *config.Config,
) (*Service, error) {

	statsHandler := &prometheus.Handler{
		TrimPrefix: version.BinName,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/metrics", statsHandler.ServeHTTP)

	service, err := newStatsServiceWithHandler(
		config.GetOrDefault(c, config.PropertyStatsEnabled, false),
		config.GetOrDefault(c, config.PropertyRuntimeStatsEnabled, true),
		statsHandler,
	)
	if err != nil {
		return nil, err
	}

	service.server = &http.Server{
		Addr:    config.GetOrDefault(c, config.PropertyStatsAddress, ":8081"),
		Handler: mux,
	}
	return service, nil
}

func newStatsServiceWithHandler(
	statsEnabled, runtimeEnabled bool, handler stats.Handler,
) (*Service, error) {

	logger, err := logging.NewLogger("StatsService")
	if err != nil {
		return nil, err
	}

	return &Service{
		statsEnabled:   statsEnabled,
		runtimeEnabled: runtimeEnabled,
		engine:         stats.NewEngine(version.BinName, handler),
		logger:         logger,
	}, nil
}

func (s *Service) Start() error {
	if !s.statsEnabled {
		return nil
	}

	if s.runtimeEnabled {
		s.collector = procstats.StartCollector(procstats.NewGoMetricsWith(s.engine))
	}

	if s.server != nil {
		s.logger.Infof("Serving metrics on %s/metrics", s.server.Addr)
		go func() {
			err := s.server.ListenAndServe()
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				s.logger.Errorf("Metrics endpoint failed: %s", err)
			}
		}()
	}
	return nil
}

func (s *Service) Stop() error {
	if !s.statsEnabled {
		return nil
	}

	s.engine.Flush()
	if s.collector != nil {
		s.collector.Close()
	}
	if s.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return s.server.Shutdown(ctx)
}

func (s *Service) NewReporter(
	prefix string,
) *Reporter {

	return &Reporter{
		statsEnabled: s.statsEnabled,
		engine:       s.engine.WithPrefix(prefix),
	}
}
