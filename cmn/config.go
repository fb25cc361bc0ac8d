// Package cmn holds the configuration model, context identifiers, and
// other cross-cutting pieces (errors, logging glue, fair locking)
// shared by every other package in this module.
package cmn

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config is the root of the YAML configuration document (spec §3,
// §6). Every sum-typed field ("one of") is modeled as a struct of
// optional pointers, exactly one of which should be non-nil; Variant
// methods enforce that and name the active case, which keeps dispatch
// closed (spec §9: "tagged union over collectors/adapters").
type Config struct {
	Executor ExecutorConfig          `yaml:"executor"`
	Database DatabaseConfig          `yaml:"database"`
	Ingest   map[string]IngestConfig `yaml:"ingest"`
	Tests    map[string]TestSetConfig `yaml:"tests"`
	Solvers  map[string]SolverConfig `yaml:"solvers"`
}

type (
	ExecutorConfig struct {
		Local       *LocalExecutorConfig       `yaml:"local,omitempty"`
		Distributed *DistributedExecutorConfig `yaml:"distributed,omitempty"`
	}
	LocalExecutorConfig struct {
		Threads int  `yaml:"threads"`
		Pinned  bool `yaml:"pinned"`
	}
	DistributedExecutorConfig struct {
		Synchronization SyncConfig `yaml:"synchronization"`
	}
	SyncConfig struct {
		Coordinated *CoordinatedSyncConfig `yaml:"coordinated,omitempty"`
		FileSystem  *FileSystemSyncConfig  `yaml:"filesystem,omitempty"`
	}
	CoordinatedSyncConfig struct{}
	FileSystemSyncConfig  struct {
		Path string `yaml:"path"`
	}
)

// Variant returns the active executor variant's discriminant, or an
// error if zero or more than one is set.
func (c *ExecutorConfig) Variant() (string, error) {
	switch {
	case c.Local != nil && c.Distributed == nil:
		return "local", nil
	case c.Local == nil && c.Distributed != nil:
		return "distributed", nil
	default:
		return "", errors.New("executor: exactly one of local/distributed must be set")
	}
}

func (c *SyncConfig) Variant() (string, error) {
	switch {
	case c.Coordinated != nil && c.FileSystem == nil:
		return "coordinated", nil
	case c.Coordinated == nil && c.FileSystem != nil:
		return "filesystem", nil
	default:
		return "", errors.New("synchronization: exactly one of coordinated/filesystem must be set")
	}
}

type (
	DatabaseConfig struct {
		Connection ConnectionConfig `yaml:"connection"`
		Batched    *BatchedConfig   `yaml:"batched,omitempty"`
		Delayed    bool             `yaml:"delayed,omitempty"`
	}
	ConnectionConfig struct {
		SQLite     *SQLiteConfig     `yaml:"sqlite,omitempty"`
		DuckDB     *DuckDBConfig     `yaml:"duckdb,omitempty"`
		ClickHouse *ClickHouseConfig `yaml:"clickhouse,omitempty"`
	}
	SQLiteConfig struct {
		Path string `yaml:"path"`
	}
	DuckDBConfig struct {
		Path string `yaml:"path"`
	}
	ClickHouseConfig struct {
		Server   string `yaml:"server"`
		DB       string `yaml:"db"`
		User     string `yaml:"user,omitempty"`
		Password string `yaml:"password,omitempty"`
		LZ4      bool   `yaml:"lz4,omitempty"`
		LZ4HC    bool   `yaml:"lz4hc,omitempty"`
	}
	BatchedConfig struct {
		Size      int `yaml:"size"`
		TimeoutMS int `yaml:"timeout,omitempty"`
	}
)

func (c *ConnectionConfig) Variant() (string, error) {
	n := 0
	var v string
	if c.SQLite != nil {
		n++
		v = "sqlite"
	}
	if c.DuckDB != nil {
		n++
		v = "duckdb"
	}
	if c.ClickHouse != nil {
		n++
		v = "clickhouse"
	}
	if n != 1 {
		return "", errors.New("database.connection: exactly one of sqlite/duckdb/clickhouse must be set")
	}
	return v, nil
}

type (
	IngestConfig struct {
		Exec *ExecIngestConfig `yaml:"exec,omitempty"`
		Null *NullIngestConfig `yaml:"null,omitempty"`
	}
	ExecIngestConfig struct {
		Executable string   `yaml:"executable"`
		Params     []string `yaml:"params,omitempty"`
		TimeoutMS  int64    `yaml:"timeout_ms"`
	}
	NullIngestConfig struct{}
)

func (c *IngestConfig) Variant() (string, error) {
	switch {
	case c.Exec != nil && c.Null == nil:
		return "exec", nil
	case c.Exec == nil && c.Null != nil:
		return "null", nil
	default:
		return "", errors.New("ingest: exactly one of exec/null must be set")
	}
}

type (
	TestSetConfig struct {
		TimeoutMS  int64           `yaml:"timeout_ms"`
		Iterations int             `yaml:"iterations"`
		Solvers    []string        `yaml:"solvers,omitempty"`
		Params     []string        `yaml:"params,omitempty"`
		Collector  CollectorConfig `yaml:"collector"`
	}
	CollectorConfig struct {
		Glob    *GlobCollectorConfig    `yaml:"glob,omitempty"`
		Grouped *GroupedCollectorConfig `yaml:"grouped,omitempty"`
		GDB     *GDBCollectorConfig     `yaml:"gdb,omitempty"`
	}
	GlobCollectorConfig struct {
		Paths []string `yaml:"paths,omitempty"`
		Glob  string   `yaml:"glob"`
		Path  string   `yaml:"path,omitempty"`
	}
	GroupedCollectorConfig struct {
		Collectors []string `yaml:"collectors"`
	}
	GDBCollectorConfig struct {
		Server string `yaml:"server"`
		TmpDir string `yaml:"tmp_dir,omitempty"`
	}
)

func (c *CollectorConfig) Variant() (string, error) {
	n := 0
	var v string
	if c.Glob != nil {
		n++
		v = "glob"
	}
	if c.Grouped != nil {
		n++
		v = "grouped"
	}
	if c.GDB != nil {
		n++
		v = "gdb"
	}
	if n != 1 {
		return "", errors.New("collector: exactly one of glob/grouped/gdb must be set")
	}
	return v, nil
}

type SolverConfig struct {
	Exec   string   `yaml:"exec"`
	Params []string `yaml:"params,omitempty"`
	Ingest string   `yaml:"ingest"`
}

// LoadConfig reads and strictly decodes the YAML document at path.
// Unknown fields are rejected (spec §6: "Unknown fields are rejected").
func LoadConfig(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open config %q", path)
	}
	defer f.Close()

	var cfg Config
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, errors.Wrapf(err, "parse config %q", path)
	}
	return &cfg, nil
}
