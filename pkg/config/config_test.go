package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/discograph/pkg/errors"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
}

func TestDecode(t *testing.T) {
	cfg, err := Decode(`
[server]
addr = ":9000"
request_timeout = "5s"

[layout]
engine = "neato"
jitter = 0

[render]
font_size_topic = 12

[cache]
backend = "redis"
ttl = "90m"

[palette]
Astronomy = "#ffeb3b"
Physics = "#ffffff"
`)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Addr != ":9000" || cfg.Server.RequestTimeout.D() != 5*time.Second {
		t.Errorf("server = %+v", cfg.Server)
	}
	if cfg.Server.ReadTimeout.D() != 10*time.Second {
		t.Errorf("unset read_timeout = %v, want default", cfg.Server.ReadTimeout.D())
	}
	if cfg.Layout.Engine != "neato" || cfg.Layout.Jitter != 0 || cfg.Layout.BaseRadius != 80 {
		t.Errorf("layout = %+v", cfg.Layout)
	}
	if cfg.Render.FontSizeTopic != 12 || cfg.Render.FontSizeDiscovery != 6 {
		t.Errorf("render fonts = %v/%v", cfg.Render.FontSizeTopic, cfg.Render.FontSizeDiscovery)
	}
	if cfg.Cache.Backend != CacheRedis || cfg.Cache.TTL.D() != 90*time.Minute {
		t.Errorf("cache = %+v", cfg.Cache)
	}

	pal := cfg.RenderConfig().Palette
	if pal.Color("Astronomy") != "#ffeb3b" || pal.Color("Physics") != "#ffffff" || pal.Color("Biology") != "#4caf50" {
		t.Errorf("palette = %v", pal)
	}
}

func TestDecodeInvalid(t *testing.T) {
	tests := []struct {
		name string
		toml string
	}{
		{"syntax", `[server`},
		{"bad duration", "[cache]\nttl = \"soon\""},
		{"engine", "[layout]\nengine = \"dot\""},
		{"catalog backend", "[catalog]\nbackend = \"neo4j\""},
		{"cache backend", "[cache]\nbackend = \"memcached\""},
		{"retries", "[client]\nretries = 0"},
		{"render size", "[render]\nhex_size_topic = 0"},
		{"negative jitter", "[layout]\njitter = -1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.toml)
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("err = %v, want INVALID_CONFIG", err)
			}
		})
	}
}

func TestLoadMissingDefaultPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Addr != ":8000" {
		t.Errorf("addr = %q", cfg.Server.Addr)
	}
}

func TestLoadExplicitMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("err = %v, want INVALID_CONFIG", err)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	data := "[catalog]\nmongo_uri = \"mongodb://file:27017\"\n[cache]\nredis_addr = \"file:6379\"\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvMongoURI, "mongodb://env:27017")
	t.Setenv(EnvRedisAddr, "")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Catalog.MongoURI != "mongodb://env:27017" {
		t.Errorf("mongo uri = %q", cfg.Catalog.MongoURI)
	}
	if cfg.Cache.RedisAddr != "file:6379" {
		t.Errorf("redis addr = %q", cfg.Cache.RedisAddr)
	}
}

func TestDefaultPathXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	if got := DefaultPath(); got != "/tmp/xdg/discograph/config.toml" {
		t.Errorf("DefaultPath = %q", got)
	}
}

func TestPlacer(t *testing.T) {
	cfg := Default()
	cfg.Layout.BaseRadius = 100
	p := cfg.Placer()
	if p.Radius(4) != 100+20*2 {
		t.Errorf("Radius(4) = %v", p.Radius(4))
	}
}

func TestDurationText(t *testing.T) {
	var d Duration
	if err := d.UnmarshalText([]byte("1m30s")); err != nil {
		t.Fatal(err)
	}
	b, _ := d.MarshalText()
	if string(b) != "1m30s" {
		t.Errorf("MarshalText = %s", b)
	}
}
