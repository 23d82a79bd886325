package base

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// EnvPrefix prefixes environment overrides, db.dsn is read from COUNTRIES_DB_DSN.
const EnvPrefix = "COUNTRIES_"

type Config struct {
	Addr string `config:"addr" default:":8080"`

	DSN string `config:"db.dsn"`

	UpstreamBase    string        `config:"upstream.base" default:"https://restcountries.com/v3.1"`
	UpstreamTimeout time.Duration `config:"upstream.timeout" default:"10s"`

	CacheSize int           `config:"cache.size" default:"256"`
	CacheTTL  time.Duration `config:"cache.ttl" default:"30m"`

	Workers int `config:"worker.count" default:"4"`

	LogLevel  string `config:"log.level" default:"info"`
	LogFormat string `config:"log.format" default:"json"`

	MinClientVersion string `config:"client.min_version" default:"v0.1.0"`
}

// Load reads a JSON config file. A missing file is not an error, the
// defaults and environment still apply.
func Load(path string) (Config, error) {
	file, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return LoadBytes(file)
}

// LoadBytes fills a Config from JSON, environment and defaults, in that
// order of precedence from lowest to highest: default, file, environment.
func LoadBytes(data []byte) (Config, error) {
	if len(data) > 0 && !gjson.ValidBytes(data) {
		return Config{}, fmt.Errorf("config is not valid JSON")
	}
	g := gjson.ParseBytes(data)

	var (
		cfg          Config
		v            = reflect.ValueOf(&cfg).Elem()
		t            = v.Type()
		stringType   = reflect.TypeOf("")
		intType      = reflect.TypeOf(0)
		boolType     = reflect.TypeOf(false)
		durationType = reflect.TypeOf(time.Duration(0))
	)
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		name := field.Tag.Get("config")
		if name == "" {
			continue
		}

		raw, ok := lookup(g, name, field.Tag)
		if !ok {
			continue
		}

		switch field.Type {
		case stringType:
			v.Field(i).SetString(raw)
		case intType:
			n, err := strconv.Atoi(raw)
			if err != nil {
				return Config{}, fmt.Errorf("config %s: %w", name, err)
			}
			v.Field(i).SetInt(int64(n))
		case boolType:
			b, err := strconv.ParseBool(raw)
			if err != nil {
				return Config{}, fmt.Errorf("config %s: %w", name, err)
			}
			v.Field(i).SetBool(b)
		case durationType:
			d, err := time.ParseDuration(raw)
			if err != nil {
				return Config{}, fmt.Errorf("config %s: %w", name, err)
			}
			v.Field(i).SetInt(int64(d))
		default:
			return Config{}, fmt.Errorf("config %s: unsupported type %s", name, field.Type)
		}
	}
	return cfg, nil
}

func lookup(g gjson.Result, name string, tag reflect.StructTag) (string, bool) {
	if env, ok := os.LookupEnv(EnvName(name)); ok {
		return env, true
	}
	if r := g.Get(name); r.Exists() {
		return r.String(), true
	}
	return tag.Lookup("default")
}

// EnvName maps a dotted key to its environment variable.
func EnvName(key string) string {
	return EnvPrefix + strings.ToUpper(strings.NewReplacer(".", "_", "-", "_").Replace(key))
}
