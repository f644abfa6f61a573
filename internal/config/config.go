// Package config loads the application configuration from defaults, an
// optional YAML file and EP_ prefixed environment variables, in that
// order of precedence.
package config

import (
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	"github.com/rs/zerolog/log"
)

type Application struct {
	Port      int       `koanf:"port"`
	JWTSecret string    `koanf:"jwtsecret"`
	CORS      CORS      `koanf:"cors"`
	Database  Database  `koanf:"db"`
	Transfers Transfers `koanf:"transfers"`
	Pprof     bool      `koanf:"pprof"`
}

type CORS struct {
	AllowOrigins string `koanf:"alloworigins"`
}

type Database struct {
	// Path of the SQLite database file. Ignored when a host is set.
	Path string `koanf:"path"`

	// When Host is set, PostgreSQL is used instead of SQLite.
	Host string `koanf:"host"`
	Port int    `koanf:"port"`
	User string `koanf:"user"`
	Pass string `koanf:"pass"`
	Name string `koanf:"name"`
}

type Transfers struct {
	// How many days back the transfer candidate scan looks
	ScanDays int `koanf:"scandays"`
}

// Load reads the configuration, layering the YAML file at path and the
// environment over the defaults.
func Load(path string) (Application, error) {
	var k = koanf.New(".")

	err := k.Load(structs.Provider(Application{
		Port: 8080,
		Database: Database{
			Path: "data/envelopay.db",
			Port: 5432,
		},
		Transfers: Transfers{
			ScanDays: 30,
		},
	}, "koanf"), nil)
	if err != nil {
		return Application{}, err
	}

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		if os.IsNotExist(err) {
			log.Debug().Str("path", path).Msg("no config file, using defaults and environment")
		} else {
			return Application{}, err
		}
	} else {
		log.Info().Str("path", path).Msg("loaded configuration file")
	}

	err = k.Load(env.Provider(".", env.Opt{
		Prefix: "EP_",
		TransformFunc: func(k, v string) (string, any) {
			k = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(k, "EP_")), "_", ".")
			return k, v
		},
	}), nil)
	if err != nil {
		return Application{}, err
	}

	var app Application
	if err := k.Unmarshal("", &app); err != nil {
		return Application{}, err
	}

	return app, nil
}
