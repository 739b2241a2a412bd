// Copyright 2025 go-highway Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"os"
	"strconv"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"

	"github.com/ajroetker/go-matbench/matbench"
	"github.com/ajroetker/go-matbench/matbench/contrib/energy"
	"github.com/ajroetker/go-matbench/matbench/contrib/multiply"
)

// SeedEnv makes operand generation reproducible when set.
const SeedEnv = "MATBENCH_SEED"

const (
	flagSeed             = "seed"
	flagCPUWatt          = "cpu-watt-per-core"
	flagMemoryWatt       = "memory-watt-per-gib"
	flagAsyncParallelism = "async-parallelism"
	flagJSON             = "json"
)

// config is resolved from defaults, then environment, then flags.
type config struct {
	seed             uint64
	seeded           bool
	energy           energy.Model
	asyncParallelism int
	json             bool
}

func addConfigFlags(fs *pflag.FlagSet) {
	fs.Uint64(flagSeed, 0, "Seed for operand generation (default: random, or $"+SeedEnv+")")
	fs.Float64(flagCPUWatt, energy.DefaultCPUWattPerCore,
		"Energy model: watts drawn per busy core (or $"+energy.CPUWattPerCoreEnv+")")
	fs.Float64(flagMemoryWatt, energy.DefaultMemoryWattPerGiB,
		"Energy model: watts drawn per GiB of matrices (or $"+energy.MemoryWattPerGiBEnv+")")
	fs.Int(flagAsyncParallelism, 0,
		"Chunks used by async_parallel; 0 uses the hardware parallelism (or $"+matbench.ParallelismEnv+")")
	fs.Bool(flagJSON, false, "Print results as JSON")
}

func loadConfig(fs *pflag.FlagSet) (*config, error) {
	cfg := &config{}
	var err error

	if cfg.energy, err = energy.FromEnv(); err != nil {
		return nil, err
	}
	if val := os.Getenv(SeedEnv); val != "" {
		if cfg.seed, err = strconv.ParseUint(val, 10, 64); err != nil {
			return nil, errors.Wrapf(err, "parsing %s", SeedEnv)
		}
		cfg.seeded = true
	}

	if fs.Changed(flagSeed) {
		if cfg.seed, err = fs.GetUint64(flagSeed); err != nil {
			return nil, err
		}
		cfg.seeded = true
	}
	if fs.Changed(flagCPUWatt) {
		if cfg.energy.CPUWattPerCore, err = fs.GetFloat64(flagCPUWatt); err != nil {
			return nil, err
		}
	}
	if fs.Changed(flagMemoryWatt) {
		if cfg.energy.MemoryWattPerGiB, err = fs.GetFloat64(flagMemoryWatt); err != nil {
			return nil, err
		}
	}
	if err = cfg.energy.Validate(); err != nil {
		return nil, err
	}
	if cfg.asyncParallelism, err = fs.GetInt(flagAsyncParallelism); err != nil {
		return nil, err
	}
	if cfg.asyncParallelism < 0 {
		return nil, errors.Errorf("--%s must be >= 0, got %d", flagAsyncParallelism, cfg.asyncParallelism)
	}
	if cfg.json, err = fs.GetBool(flagJSON); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (cfg *config) newEngine() *multiply.Engine {
	opts := []multiply.Option{
		multiply.WithEnergyModel(cfg.energy),
		multiply.WithAsyncParallelism(cfg.asyncParallelism),
	}
	if cfg.seeded {
		opts = append(opts, multiply.WithSeed(cfg.seed))
	}
	return multiply.NewEngine(opts...)
}
