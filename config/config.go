// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/ava-labs/avalanchego/utils/profiler"
	"gopkg.in/yaml.v2"

	"github.com/solimare/boatvm/consts"
	"github.com/solimare/boatvm/pebble"
	"github.com/solimare/boatvm/pubsub"
	"github.com/solimare/boatvm/trace"
)

const (
	defaultRPCAddress                  = "127.0.0.1:9650"
	defaultLogLevel                    = "info"
	defaultLogMaxSize                  = 100 // MB
	defaultLogMaxBackups               = 5
	defaultStreamingBacklogSize        = 1_024
	defaultWebSocketWorkers            = 4
	defaultContinuousProfilerFrequency = 1 * time.Minute
	defaultContinuousProfilerMaxFiles  = 10
)

type Config struct {
	// Storage. An empty directory keeps state in memory.
	DatabaseDir string        `json:"databaseDir" yaml:"databaseDir"`
	Pebble      pebble.Config `json:"pebble"      yaml:"pebble"`

	// Genesis
	GenesisFile string `json:"genesisFile" yaml:"genesisFile"`

	// Logging
	LogLevel      string `json:"logLevel"      yaml:"logLevel"`
	LogFile       string `json:"logFile"       yaml:"logFile"`
	LogMaxSize    int    `json:"logMaxSize"    yaml:"logMaxSize"`
	LogMaxBackups int    `json:"logMaxBackups" yaml:"logMaxBackups"`

	// API
	RPCAddress           string   `json:"rpcAddress"           yaml:"rpcAddress"`
	CORSOrigins          []string `json:"corsOrigins"          yaml:"corsOrigins"`
	StreamingBacklogSize int      `json:"streamingBacklogSize" yaml:"streamingBacklogSize"`

	// Event stream
	WebSocket        pubsub.ServerConfig `json:"webSocket"        yaml:"webSocket"`
	WebSocketWorkers int                 `json:"webSocketWorkers" yaml:"webSocketWorkers"`

	// Tracing
	TraceEnabled    bool    `json:"traceEnabled"    yaml:"traceEnabled"`
	TraceSampleRate float64 `json:"traceSampleRate" yaml:"traceSampleRate"`
	TraceEndpoint   string  `json:"traceEndpoint"   yaml:"traceEndpoint"`

	// Profiling
	ContinuousProfilerDir string `json:"continuousProfilerDir" yaml:"continuousProfilerDir"`

	// NodeID names this node in traces and logs.
	NodeID string `json:"nodeID" yaml:"nodeID"`

	logLevel logging.Level
}

// New parses a JSON config. Fields missing from [b] keep their defaults.
func New(b []byte) (*Config, error) {
	c := &Config{}
	c.setDefault()
	if len(b) > 0 {
		if err := json.Unmarshal(b, c); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config %s: %w", string(b), err)
		}
	}
	return c, c.parse()
}

// NewYAML is [New] for YAML documents.
func NewYAML(b []byte) (*Config, error) {
	c := &Config{}
	c.setDefault()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return c, c.parse()
}

// Load reads the config at [path]. Files ending in .yaml or .yml are read
// as YAML, anything else as JSON. An empty path gives the defaults.
func Load(path string) (*Config, error) {
	if len(path) == 0 {
		return New(nil)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return NewYAML(b)
	default:
		return New(b)
	}
}

func (c *Config) setDefault() {
	c.Pebble = pebble.NewDefaultConfig()
	c.LogLevel = defaultLogLevel
	c.LogMaxSize = defaultLogMaxSize
	c.LogMaxBackups = defaultLogMaxBackups
	c.RPCAddress = defaultRPCAddress
	c.CORSOrigins = []string{"*"}
	c.StreamingBacklogSize = defaultStreamingBacklogSize
	c.WebSocket = pubsub.NewDefaultServerConfig()
	c.WebSocketWorkers = defaultWebSocketWorkers
	c.TraceSampleRate = 1
	c.TraceEndpoint = trace.DefaultEndpoint
	c.NodeID = consts.Name
}

func (c *Config) parse() error {
	level, err := logging.ToLevel(c.LogLevel)
	if err != nil {
		return fmt.Errorf("%w: logLevel=%q", err, c.LogLevel)
	}
	c.logLevel = level
	return nil
}

func (c *Config) GetLogLevel() logging.Level   { return c.logLevel }
func (c *Config) GetStreamingBacklogSize() int { return c.StreamingBacklogSize }
func (c *Config) GetTraceConfig() *trace.Config {
	return &trace.Config{
		Enabled:         c.TraceEnabled,
		TraceSampleRate: c.TraceSampleRate,
		Endpoint:        c.TraceEndpoint,
		AppName:         consts.Name,
		Agent:           c.NodeID,
		Version:         consts.Version.String(),
	}
}

func (c *Config) GetContinuousProfilerConfig() *profiler.Config {
	if len(c.ContinuousProfilerDir) == 0 {
		return &profiler.Config{Enabled: false}
	}
	// Replace all instances of "*" with the node ID. This is useful when
	// running multiple nodes on the same machine.
	return &profiler.Config{
		Enabled:     true,
		Dir:         strings.ReplaceAll(c.ContinuousProfilerDir, "*", c.NodeID),
		Freq:        defaultContinuousProfilerFrequency,
		MaxNumFiles: defaultContinuousProfilerMaxFiles,
	}
}
