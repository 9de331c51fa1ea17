package gconf

import (
	"encoding/json"
	"fmt"

	"jigsaw/ui/gui/gbase/gos"
)

const DefaultFile = "jigsaw.json"

type Config struct {
	Theme     string `json:"theme"`      // light/dark
	Scheme    string `json:"scheme"`     // classic/totem
	Tiers     string `json:"tiers"`      // path to YAML tier table, wins over scheme
	Backend   string `json:"backend"`    // puzzle service URL, offline when empty
	Puzzle    string `json:"puzzle"`     // backend puzzle id to play
	Player    string `json:"player"`     // name sent with scores
	LastImage string `json:"last_image"` // picture opened last time
	WindowH   int    `json:"window_h"`   //
	WindowW   int    `json:"window_w"`   //
	BoardDrag bool   `json:"board_drag"` // placed pieces may be moved
	Debug     bool   `json:"debug"`      // true/false

	path string
}

func defaultConfig() Config {
	return Config{
		Theme:   "light",
		Scheme:  "classic",
		WindowH: 700,
		WindowW: 1000,
		path:    DefaultFile,
	}
}

func NewGUIConfig() (*Config, error) {
	return Load(DefaultFile)
}

// Load reads file; a missing file yields the defaults.
func Load(file string) (*Config, error) {
	data, err := gos.ReadFile(file)
	if gos.IsNotExist(err) {
		def := defaultConfig()
		def.path = file
		return &def, nil
	} else if err != nil {
		return nil, err
	}

	var c Config
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("error decode config: %s", err)
	}
	correctableConfig(&c)
	c.path = file

	return &c, nil
}

func (c *Config) Save() error {
	jsonData, err := json.MarshalIndent(c, "", "    ")
	if err != nil {
		return err
	}
	return gos.WriteFile(c.file(), jsonData)
}

// Reset drops the saved file and restores the defaults in place.
func (c *Config) Reset() error {
	file := c.file()
	*c = defaultConfig()
	c.path = file
	return gos.Remove(file)
}

func (c *Config) file() string {
	if c.path == "" {
		return DefaultFile
	}
	return c.path
}

func correctableConfig(c *Config) {
	def := defaultConfig()
	if c.Theme != "light" && c.Theme != "dark" {
		c.Theme = def.Theme
	}
	if c.Scheme != "classic" && c.Scheme != "totem" {
		c.Scheme = def.Scheme
	}
	if c.WindowH < def.WindowH || c.WindowW < def.WindowW {
		c.WindowH = def.WindowH
		c.WindowW = def.WindowW
	}
}
