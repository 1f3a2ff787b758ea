package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
	toml "github.com/pelletier/go-toml/v2"
)

const (
	AppName = "tagdo"

	EnvFile   = "TAGDO_FILE"
	EnvConfig = "TAGDO_CONFIG"
)

// Keys holds key names per action. A value may list alternatives
// separated by commas, e.g. "k,up".
type Keys struct {
	Quit         string `toml:"quit"`
	Save         string `toml:"save"`
	Help         string `toml:"help"`
	Up           string `toml:"up"`
	Down         string `toml:"down"`
	First        string `toml:"first"`
	Last         string `toml:"last"`
	Add          string `toml:"add"`
	Edit         string `toml:"edit"`
	Tags         string `toml:"tags"`
	Toggle       string `toml:"toggle"`
	Delete       string `toml:"delete"`
	MoveUp       string `toml:"move_up"`
	MoveDown     string `toml:"move_down"`
	Search       string `toml:"search"`
	SearchNext   string `toml:"search_next"`
	RenameTag    string `toml:"rename_tag"`
	TabNext      string `toml:"tab_next"`
	TabPrev      string `toml:"tab_prev"`
	FocusTabs    string `toml:"focus_tabs"`
	FocusList    string `toml:"focus_list"`
	TabNew       string `toml:"tab_new"`
	TabRename    string `toml:"tab_rename"`
	TabQuery     string `toml:"tab_query"`
	TabDelete    string `toml:"tab_delete"`
	TabMoveLeft  string `toml:"tab_move_left"`
	TabMoveRight string `toml:"tab_move_right"`
	Confirm      string `toml:"confirm"`
	Cancel       string `toml:"cancel"`
}

type StorageConfig struct {
	Path     string `toml:"path"`
	Autosave bool   `toml:"autosave"`
}

type LogConfig struct {
	Level string `toml:"level"`
	Path  string `toml:"path"`
}

type TabsConfig struct {
	DefaultName string `toml:"default_name"`
}

// Config holds the application configuration.
type Config struct {
	Storage StorageConfig `toml:"storage"`
	Log     LogConfig     `toml:"log"`
	Tabs    TabsConfig    `toml:"tabs"`
	Keys    Keys          `toml:"keys"`

	// Path is the config file the values were read from.
	Path string `toml:"-"`

	// storagePath is Storage.Path before flag and env overrides.
	storagePath string
}

// CLIFlags holds parsed CLI flags.
type CLIFlags struct {
	File       string
	ConfigPath string
}

func DefaultKeys() Keys {
	return Keys{
		Quit:         "q",
		Save:         "w",
		Help:         "?",
		Up:           "k,up",
		Down:         "j,down",
		First:        "g,home",
		Last:         "G,end",
		Add:          "a",
		Edit:         "e,enter",
		Tags:         "t",
		Toggle:       "x,space",
		Delete:       "d",
		MoveUp:       "K",
		MoveDown:     "J",
		Search:       "/",
		SearchNext:   "n",
		RenameTag:    "R",
		TabNext:      "l,right",
		TabPrev:      "h,left",
		FocusTabs:    "tab",
		FocusList:    "tab,esc,j,down",
		TabNew:       "a",
		TabRename:    "r",
		TabQuery:     "f",
		TabDelete:    "d",
		TabMoveLeft:  "H",
		TabMoveRight: "L",
		Confirm:      "y,enter",
		Cancel:       "n,esc",
	}
}

func Default(paths Paths) Config {
	return Config{
		Storage: StorageConfig{Path: paths.StoragePath},
		Log:     LogConfig{Level: "info", Path: paths.LogPath},
		Tabs:    TabsConfig{DefaultName: "all"},
		Keys:    DefaultKeys(),
		Path:    paths.ConfigPath,
	}
}

// Load loads configuration with priority: CLI flags > env vars > config file > default
func Load(flags CLIFlags) (*Config, error) {
	paths, err := DefaultPaths()
	if err != nil {
		return nil, err
	}
	return LoadWithPaths(flags, paths)
}

func LoadWithPaths(flags CLIFlags, paths Paths) (*Config, error) {
	cfg := Default(paths)

	cfgPath := paths.ConfigPath
	if v := os.Getenv(EnvConfig); v != "" {
		cfgPath = v
	}
	if flags.ConfigPath != "" {
		cfgPath = flags.ConfigPath
	}
	cfg.Path = expandPath(cfgPath)

	if err := loadFile(cfg.Path, &cfg); err != nil {
		return nil, err
	}

	cfg.storagePath = expandPath(cfg.Storage.Path)
	if v := os.Getenv(EnvFile); v != "" {
		cfg.Storage.Path = v
	}
	if flags.File != "" {
		cfg.Storage.Path = flags.File
	}

	cfg.Storage.Path = expandPath(cfg.Storage.Path)
	cfg.Log.Path = expandPath(cfg.Log.Path)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// loadFile decodes path over cfg. A missing file leaves cfg unchanged;
// keys absent from the file keep their defaults.
func loadFile(path string, cfg *Config) error {
	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := toml.Unmarshal(content, cfg); err != nil {
		return fmt.Errorf("decode toml %s: %w", path, err)
	}
	return nil
}

// Validate checks the loaded values.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Storage.Path) == "" {
		return errors.New("storage.path must not be empty")
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}

	keys := reflect.ValueOf(c.Keys)
	for i := 0; i < keys.NumField(); i++ {
		if len(ParseCommaSeparated(keys.Field(i).String())) == 0 {
			name := keys.Type().Field(i).Tag.Get("toml")
			return fmt.Errorf("keys.%s must not be empty", name)
		}
	}
	return c.Keys.checkScreens()
}

// Screens lists, per screen, the key actions that are live at the same
// time. A key may appear only once within a screen.
var Screens = map[string][]string{
	"list": {
		"quit", "save", "help", "up", "down", "first", "last", "add", "edit",
		"tags", "toggle", "delete", "move_up", "move_down", "search",
		"search_next", "rename_tag", "focus_tabs",
	},
	"tabs": {
		"quit", "save", "help", "tab_next", "tab_prev", "focus_list", "tab_new",
		"tab_rename", "tab_query", "tab_delete", "tab_move_left", "tab_move_right",
	},
	"confirm": {"confirm", "cancel"},
}

// Get returns the raw key string for the action with the given toml name.
func (k Keys) Get(action string) string {
	v := reflect.ValueOf(k)
	for i := 0; i < v.NumField(); i++ {
		if v.Type().Field(i).Tag.Get("toml") == action {
			return v.Field(i).String()
		}
	}
	return ""
}

func (k Keys) checkScreens() error {
	screens := make([]string, 0, len(Screens))
	for name := range Screens {
		screens = append(screens, name)
	}
	slices.Sort(screens)

	for _, screen := range screens {
		seen := make(map[string]string)
		for _, action := range Screens[screen] {
			for _, key := range ParseCommaSeparated(k.Get(action)) {
				key = NormalizeKey(key)
				if prev, ok := seen[key]; ok {
					return fmt.Errorf("keys: %q bound to both %s and %s on the %s screen", key, prev, action, screen)
				}
				seen[key] = action
			}
		}
	}
	return nil
}

// NormalizeKey maps config key names onto the strings bubbletea reports.
func NormalizeKey(k string) string {
	if strings.EqualFold(k, "space") {
		return " "
	}
	return k
}

// Persistable returns the configuration as it should be written to disk:
// one-off storage overrides from flags and the environment are dropped.
func (c Config) Persistable() Config {
	if c.storagePath != "" {
		c.Storage.Path = c.storagePath
	}
	return c
}

// EnsureFile writes cfg to path if no file exists there yet.
func EnsureFile(path string, cfg Config) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	content, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, content, 0644)
}

// ParseCommaSeparated splits a comma-separated string into a slice
func ParseCommaSeparated(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	var result []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
