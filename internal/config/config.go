package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"route-optimizer-service/internal/domain"
)

// Get returns the environment value for key, or fallback when unset or empty.
func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func GetInt(key string, fallback int) (int, error) {
	v := Get(key, "")
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config %s: %q is not an integer", key, v)
	}
	return n, nil
}

func GetFloat(key string, fallback float64) (float64, error) {
	v := Get(key, "")
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("config %s: %q is not a number", key, v)
	}
	return n, nil
}

func GetDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := Get(key, "")
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("config %s: %q is not a duration", key, v)
	}
	return d, nil
}

// Config is the full runtime configuration of the server.
type Config struct {
	Port      string
	LogLevel  string
	LogFormat string

	Depot            domain.Coordinates
	Fleet            domain.Fleet
	SpeedKmh         float64
	ServiceMinutes   int
	DispatchStart    int
	ClusterRadiusKm  float64
	TwoOptIterations int
	OptimizeTimeout  time.Duration

	DBDriver string
	DBDSN    string

	CacheBackend string
	CacheTTL     time.Duration
	RedisURL     string

	ORSAPIKey  string
	ORSProfile string

	CORSOrigins []string
}

// Load reads the configuration from the environment. Callers load .env first.
func Load() (*Config, error) {
	c := &Config{
		Port:         Get("PORT", "8000"),
		LogLevel:     Get("LOG_LEVEL", "info"),
		LogFormat:    Get("LOG_FORMAT", "text"),
		DBDriver:     Get("DB_DRIVER", "sqlite"),
		DBDSN:        Get("DATABASE_URL", ""),
		CacheBackend: strings.ToLower(Get("CACHE_BACKEND", "none")),
		RedisURL:     Get("REDIS_URL", "redis://localhost:6379/0"),
		ORSAPIKey:    os.Getenv("ORS_API_KEY"),
		ORSProfile:   Get("ORS_PROFILE", "driving-car"),
	}

	if c.DBDSN == "" && c.DBDriver == "sqlite" {
		c.DBDSN = Get("DB_PATH", "data/app.db")
	}

	var err error
	if c.Depot.Lat, err = GetFloat("DEPOT_LAT", 19.075887); err != nil {
		return nil, err
	}
	if c.Depot.Lon, err = GetFloat("DEPOT_LON", 72.877911); err != nil {
		return nil, err
	}
	if err := c.Depot.Validate(); err != nil {
		return nil, fmt.Errorf("config depot: %w", err)
	}

	if c.Fleet, err = domain.ParseFleet(Get("FLEET", "3W:50:5:15,4W-EV:25:8:20,4W:0:25:0")); err != nil {
		return nil, fmt.Errorf("config FLEET: %w", err)
	}

	if c.SpeedKmh, err = GetFloat("SPEED_KMH", 12); err != nil {
		return nil, err
	}
	if c.SpeedKmh <= 0 {
		return nil, fmt.Errorf("config SPEED_KMH: must be positive, got %v", c.SpeedKmh)
	}

	if c.ServiceMinutes, err = GetInt("SERVICE_MINUTES", 10); err != nil {
		return nil, err
	}
	if c.ServiceMinutes < 0 {
		return nil, fmt.Errorf("config SERVICE_MINUTES: must not be negative")
	}

	if c.DispatchStart, err = domain.ParseClock(Get("DISPATCH_START", "00:00")); err != nil {
		return nil, fmt.Errorf("config DISPATCH_START: %w", err)
	}

	if c.ClusterRadiusKm, err = GetFloat("CLUSTER_RADIUS_KM", 3); err != nil {
		return nil, err
	}
	if c.TwoOptIterations, err = GetInt("TWO_OPT_ITERATIONS", 50); err != nil {
		return nil, err
	}
	if c.OptimizeTimeout, err = GetDuration("OPTIMIZE_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	if c.CacheTTL, err = GetDuration("CACHE_TTL", 24*time.Hour); err != nil {
		return nil, err
	}

	switch c.CacheBackend {
	case "none", "sql", "redis":
	default:
		return nil, fmt.Errorf("config CACHE_BACKEND: unknown backend %q", c.CacheBackend)
	}

	for _, o := range strings.Split(Get("CORS_ORIGINS", "*"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			c.CORSOrigins = append(c.CORSOrigins, o)
		}
	}

	return c, nil
}
