package main

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/afero"

	"hatchctl/board"
)

// Hardware addresses and loop timings are compile-time constants; config
// covers only the host side: where the panel listens, where events are
// recorded, and which Pi pins the gpio build drives.
type tomlConfig struct {
	Host    string `toml:"host"`
	Port    string `toml:"port"`
	DataDir string `toml:"data_dir"`
	Pinout  []int  `toml:"pinout"`
	Debug   bool   `toml:"debug"`
}

type Config struct {
	toml tomlConfig
}

// Default pinout for the gpio build: BCM numbers for the inputs in
// board.Inputs order, then the outputs in board.Outputs order.
var defaultPinout = []int{
	4, 17, 27, 22, 5, 6, 13, // door, ps1..ps3, cancel, accept, sensor
	26, 16, 20, 21, 19, 12, 25, // led_a..led_d, motor, direction, latch
}

// NewConfig reads path from the given FS, falling back to defaults if the
// file does not exist. HOST and PORT env vars override the file.
func NewConfig(fsys afero.Fs, path string, getenv func(string) string) (*Config, error) {
	c := &Config{
		toml: tomlConfig{
			Host:    "127.0.0.1",
			Port:    "8888",
			DataDir: "data",
		},
	}

	data, err := afero.ReadFile(fsys, path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("read config %q: %w", path, err)
	}
	if err == nil {
		if err := toml.Unmarshal(data, &c.toml); err != nil {
			return nil, fmt.Errorf("parse config %q: %w", path, err)
		}
	}

	if h := getenv("HOST"); h != "" {
		c.toml.Host = h
	}
	if p := getenv("PORT"); p != "" {
		c.toml.Port = p
	}

	if len(c.toml.Pinout) == 0 {
		c.toml.Pinout = defaultPinout
	}
	if want := len(board.Inputs) + len(board.Outputs); len(c.toml.Pinout) != want {
		return nil, fmt.Errorf("pinout needs %d pins, got %d", want, len(c.toml.Pinout))
	}

	return c, nil
}

func (c *Config) Addr() string {
	return c.toml.Host + ":" + c.toml.Port
}

func (c *Config) DataDir() string {
	return c.toml.DataDir
}

func (c *Config) Pinout() []int {
	return c.toml.Pinout
}

func (c *Config) Debug() bool {
	return c.toml.Debug
}
