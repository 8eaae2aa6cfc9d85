// internal/config/model.go
//
// Typed configuration model.
//
// Context
// -------
// These structs define the shape of the configuration tree that
// `internal/config/loader.go` builds from three overlay layers:
//
//   • optional `conf/.env`                        – dotenv values,
//   • `conf/friendlyurls.yaml`                    – primary static file,
//   • `FRIENDLY_`-prefixed environment overrides  – highest precedence.
//
// Any value whose string begins with the prefix `vault:` is resolved
// through the Vault client after unmarshalling, so consumers only ever
// see plain strings.
//
// Validation happens immediately after unmarshal; the service fails fast
// if required fields are missing.
//
// Notes
// -----
//   • Struct tags use `koanf:"…"`, not `yaml:"…"`—Koanf ignores `yaml` tags
//     unless configured otherwise.
//   • The `Paths` block is filled at runtime; YAML must not try to set it.
//   • Oxford commas, two spaces after periods.

package config

import "time"

//
// HTTP section
//

// HTTP holds web-server tunables.
type HTTP struct {
	ListenAddr string `koanf:"listen_addr" validate:"required,hostname_port"`
}

//
// Board section
//

// Board describes the forum this service rewrites URLs for.  The static
// MaxSlugLength and UnicodifyLinks values act as fallbacks; when a
// database DSN is configured, the live values in the board's config table
// take precedence (see internal/boardconfig).
type Board struct {
	BaseURL        string        `koanf:"base_url" validate:"required,url"`
	MaxSlugLength  int           `koanf:"max_slug_length"`
	UnicodifyLinks bool          `koanf:"unicodify_links"`
	TablePrefix    string        `koanf:"table_prefix"`
	ConfigTTL      time.Duration `koanf:"config_ttl"`
}

//
// Database section (optional)
//

// Database holds the DSN template and its secret.
//
// The *template* (`DSN`) is kept in YAML so operators can tweak host,
// port, or flags without touching Vault; a `%s` verb marks where the
// password goes.  The *secret* (`Password`) may be a literal or a
// `vault:` reference resolved at load time.  An empty DSN disables the
// live board-config reader entirely.
type Database struct {
	DSN      string `koanf:"dsn"`
	Password string `koanf:"password"`
}

//
// GeoIP section (optional)
//

// GeoIP points at a MaxMind database used for request enrichment.  An
// empty path disables lookups.
type GeoIP struct {
	DBPath string `koanf:"db_path"`
}

//
// Log section
//

// Log controls where the rotating JSON log lands.
type Log struct {
	Dir string `koanf:"dir"`
}

//
// Paths section (runtime only)
//

// Paths is resolved at runtime—never set in YAML or env.  The loader
// discovers `Root` (repo root or FRIENDLY_ROOT override) so later code
// can build absolute file paths.
type Paths struct {
	Root string // FRIENDLY_ROOT or discovered parent
}

//
// Root aggregate
//

// Config is the immutable aggregate returned by Load() and cached in an
// atomic.Pointer for lock-free reads throughout the app lifetime.
type Config struct {
	HTTP     HTTP     `koanf:"http"`
	Board    Board    `koanf:"board"`
	Database Database `koanf:"database"`
	GeoIP    GeoIP    `koanf:"geoip"`
	Log      Log      `koanf:"log"`
	Paths    Paths    `koanf:"-"` // not loaded from config files
}
