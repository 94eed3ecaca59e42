package raptordb

import (
	"log/slog"
	"strings"

	"github.com/spf13/afero"

	"github.com/tuannm99/raptordb/internal"
	"github.com/tuannm99/raptordb/internal/dberr"
	"github.com/tuannm99/raptordb/internal/engine"
	"github.com/tuannm99/raptordb/internal/sql/executor"
	"github.com/tuannm99/raptordb/internal/storage"
)

// Engine ties a session to an executor. It is the single boundary where
// statement errors are turned into messages.
type Engine struct {
	exec *executor.Executor
}

// Open starts an engine on the local filesystem as configured.
func Open(cfg *internal.RaptorConfig) (*Engine, error) {
	return OpenFS(storage.OSFS(), cfg.Storage.Root, cfg.Storage.DefaultDatabase, cfg.Storage.Degree)
}

// OpenFS starts an engine on fs; tests pass afero.NewMemMapFs().
func OpenFS(fs afero.Fs, root, defaultDB string, degree int) (*Engine, error) {
	sess, err := engine.NewSession(fs, root, defaultDB)
	if err != nil {
		return nil, err
	}
	return &Engine{exec: executor.NewExecutor(sess, degree)}, nil
}

// Exec runs one statement and returns the typed result or error.
func (e *Engine) Exec(sql string) (*Result, error) {
	return e.exec.ExecSQL(sql)
}

// Process runs one statement and always returns text: the rendered result,
// or "[<Kind>] <detail>" on failure. Blank input gives "".
func (e *Engine) Process(sql string) string {
	if strings.TrimSpace(strings.TrimRight(strings.TrimSpace(sql), ";")) == "" {
		return ""
	}
	res, err := e.exec.ExecSQL(sql)
	if err != nil {
		slog.Debug("engine.process.failed", "sql", sql, "kind", dberr.Kind(err), "err", err)
		return dberr.Message(err)
	}
	return res.String()
}

// Close releases background resources held by the engine.
func (e *Engine) Close() { e.exec.Close() }

func (e *Engine) ActiveDatabase() string { return e.exec.Session().ActiveDatabase() }
