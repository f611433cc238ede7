// Package config loads simulation workloads: machine geometry, scheduler
// settings and the programs of the processes to run.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"mmusim/mmu"
	"mmusim/process"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("config: invalid")

// Process describes one process of the workload.
type Process struct {
	Name     string   `yaml:"name"`
	Priority int      `yaml:"priority"`
	Code     []string `yaml:"code"`
}

// Config is the content of a workload file.
type Config struct {
	Geometry        mmu.Geometry `yaml:"geometry"`
	CPUs            int          `yaml:"cpus"`
	TimeSlot        int          `yaml:"time_slot"`
	QueueSize       int          `yaml:"queue_size"`
	FreePolicy      string       `yaml:"free_policy"`
	SerializeAccess bool         `yaml:"serialize_access"`
	Processes       []Process    `yaml:"processes"`
}

// Default returns the configuration used for missing fields.
func Default() *Config {
	return &Config{
		Geometry:   mmu.DefaultGeometry,
		CPUs:       2,
		TimeSlot:   2,
		QueueSize:  process.DefaultQueueSize,
		FreePolicy: mmu.FreeUnmap.String(),
	}
}

// Load reads and validates the workload file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes a YAML workload on top of Default and validates it.
// A geometry given in the file replaces the default one as a whole.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	cfg.Geometry = mmu.Geometry{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	if cfg.Geometry == (mmu.Geometry{}) {
		cfg.Geometry = mmu.DefaultGeometry
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks cfg for values the simulator cannot run with.
func (c *Config) Validate() error {
	if err := c.Geometry.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if c.CPUs < 1 {
		return fmt.Errorf("%w: cpus must be at least 1, got %d", ErrInvalid, c.CPUs)
	}
	if c.TimeSlot < 1 {
		return fmt.Errorf("%w: time_slot must be at least 1, got %d", ErrInvalid, c.TimeSlot)
	}
	if c.QueueSize < 1 {
		return fmt.Errorf("%w: queue_size must be at least 1, got %d", ErrInvalid, c.QueueSize)
	}
	if len(c.Processes) > c.QueueSize {
		return fmt.Errorf("%w: %d processes do not fit a ready queue of %d",
			ErrInvalid, len(c.Processes), c.QueueSize)
	}
	if _, err := c.Policy(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	for i, p := range c.Processes {
		if _, err := process.ParseProgram(p.Code); err != nil {
			return fmt.Errorf("%w: process %d (%s): %v", ErrInvalid, i, p.Name, err)
		}
	}
	return nil
}

// Policy returns the parsed free policy.
func (c *Config) Policy() (mmu.FreePolicy, error) {
	return mmu.ParseFreePolicy(c.FreePolicy)
}

// MMUOptions returns the memory manager options described by c.
func (c *Config) MMUOptions() mmu.Options {
	policy, _ := c.Policy()
	return mmu.Options{FreePolicy: policy, SerializeAccess: c.SerializeAccess}
}

// PCBs builds the process control blocks of the workload. Pids are
// assigned from 1 in file order; unnamed processes are called p<pid>.
func (c *Config) PCBs() ([]*process.PCB, error) {
	pcbs := make([]*process.PCB, 0, len(c.Processes))
	for i, p := range c.Processes {
		code, err := process.ParseProgram(p.Code)
		if err != nil {
			return nil, fmt.Errorf("process %d: %w", i, err)
		}
		pid := uint32(i + 1)
		name := p.Name
		if name == "" {
			name = fmt.Sprintf("p%d", pid)
		}
		pcb, err := process.New(pid, name, p.Priority, code, c.Geometry)
		if err != nil {
			return nil, err
		}
		pcbs = append(pcbs, pcb)
	}
	return pcbs, nil
}
