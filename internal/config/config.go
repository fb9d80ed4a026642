package config

import (
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	log "github.com/sirupsen/logrus"
)

type Application struct {
	Host     string   `koanf:"host"`
	Frontend Frontend `koanf:"frontend"`
	Database Database `koanf:"db"`
	Calendar Calendar `koanf:"calendar"`
	Events   Events   `koanf:"events"`
	ICal     ICal     `koanf:"ical"`
}

type Frontend struct {
	Enabled bool `koanf:"enabled"`
}

type Database struct {
	Host   string `koanf:"host"`
	Port   int    `koanf:"port"`
	User   string `koanf:"user"`
	Pass   string `koanf:"pass"`
	Name   string `koanf:"name"`
	Schema string `koanf:"schema"`
}

// Calendar controls the week grid geometry served by the schedule API.
type Calendar struct {
	DayStartHour     int `koanf:"daystarthour"`
	DayEndHour       int `koanf:"dayendhour"`
	HourHeightPx     int `koanf:"hourheightpx"`
	MinEventHeightPx int `koanf:"mineventheightpx"`
	// SessionTTLMinutes is how long an idle view session survives before
	// the sweeper evicts it.
	SessionTTLMinutes int `koanf:"sessionttlminutes"`
}

// Events selects where the schedule engine reads events from. When
// UpstreamURL is set the engine fetches from a remote EduFlex API instead
// of the local store.
type Events struct {
	UpstreamURL string `koanf:"upstreamurl"`
}

type ICal struct {
	Secret string `koanf:"secret"`
}

func Load(path string) (Application, error) {
	var k = koanf.New(".")

	err := k.Load(structs.Provider(Application{
		Host: "http://localhost:3000",
		Frontend: Frontend{
			Enabled: true,
		},
		Database: Database{
			Host:   "localhost",
			Port:   5432,
			User:   "eduflex",
			Pass:   "",
			Name:   "eduflex",
			Schema: "eduflex",
		},
		Calendar: Calendar{
			DayStartHour:      8,
			DayEndHour:        18,
			HourHeightPx:      80,
			MinEventHeightPx:  20,
			SessionTTLMinutes: 60,
		},
		ICal: ICal{
			Secret: "eduflex-ical-secret",
		},
	}, "koanf"), nil)
	if err != nil {
		log.Errorf("error loading config from structs: %v", err)
		return Application{}, err
	}

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		if os.IsNotExist(err) {
			log.Infof("Config file not found at %s, using defaults and environment variables", path)
		} else {
			log.Errorf("error loading config from YAML: %v", err)
			return Application{}, err
		}
	} else {
		log.Infof("Loaded configuration from file: %s", path)
	}

	err = k.Load(env.Provider(".", env.Opt{
		Prefix: "EDUFLEX_",
		TransformFunc: func(k, v string) (string, any) {
			// Transform the key.
			k = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(k, "EDUFLEX_")), "_", ".")
			return k, v
		},
	}), nil)
	if err != nil {
		log.Errorf("error loading config from envs: %v", err)
		return Application{}, err
	}

	var app Application
	if err := k.Unmarshal("", &app); err != nil {
		return Application{}, err
	}

	return app, nil
}
