package executor

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/tuannm99/raptordb/internal/btree"
	"github.com/tuannm99/raptordb/internal/catalog"
	"github.com/tuannm99/raptordb/internal/dberr"
	"github.com/tuannm99/raptordb/internal/engine"
	"github.com/tuannm99/raptordb/internal/heap"
	"github.com/tuannm99/raptordb/internal/index"
	locking "github.com/tuannm99/raptordb/internal/lock"
	"github.com/tuannm99/raptordb/internal/record"
	"github.com/tuannm99/raptordb/internal/sql/parser"
	"github.com/tuannm99/raptordb/internal/storage"
	"github.com/tuannm99/raptordb/internal/wal"
)

// Executor runs statements against the active database of a session.
// Every command resolves its files from the session on each call, so a USE
// takes effect immediately.
type Executor struct {
	sess   *engine.Session
	locks  *locking.TableLocks
	degree int
	now    func() time.Time
	cache  *catalog.SchemaCache

	// for unit-test: inject index insert behavior
	indexAddFn func(ix *index.Manager, table string, pk record.Column, value string, off int64) error
}

func NewExecutor(sess *engine.Session, degree int) *Executor {
	if degree < 2 {
		degree = btree.DefaultDegree
	}
	cache, err := catalog.NewSchemaCache(0)
	if err != nil {
		// schemas are then read from disk on every statement
		slog.Warn("executor.cache.disabled", "err", err)
	}
	return &Executor{
		sess:   sess,
		locks:  locking.NewTableLocks(),
		degree: degree,
		now:    time.Now,
		cache:  cache,
		indexAddFn: func(ix *index.Manager, table string, pk record.Column, value string, off int64) error {
			return ix.Add(table, pk, value, off)
		},
	}
}

// WithClock sets the journal timestamp source.
func (e *Executor) WithClock(now func() time.Time) *Executor {
	e.now = now
	return e
}

func (e *Executor) Session() *engine.Session { return e.sess }

// Close stops the schema cache workers.
func (e *Executor) Close() { e.cache.Close() }

// per-database components, bound to the active database path
func (e *Executor) schemas() *catalog.Store {
	return catalog.NewStore(e.sess.FS(), e.sess.ActivePath()).WithCache(e.cache)
}
func (e *Executor) indexes() *index.Manager {
	return index.NewManager(e.sess.FS(), e.sess.ActivePath(), e.degree)
}
func (e *Executor) journal() *wal.Manager {
	return wal.Open(e.sess.FS(), e.sess.ActivePath()).WithClock(e.now)
}
func (e *Executor) rows(table string) *heap.Table {
	return heap.NewTable(storage.LocalFileSet{FS: e.sess.FS(), Dir: e.sess.ActivePath(), Base: table})
}

func (e *Executor) lock(table string) func() {
	return e.locks.Lock(e.sess.ActiveDatabase(), table)
}

// ExecSQL is the top-level entry: SQL string -> Result.
func (e *Executor) ExecSQL(sql string) (*Result, error) {
	stmt, err := parser.Parse(sql)
	if err != nil {
		return nil, err
	}
	return e.Execute(stmt)
}

// Execute dispatches on the statement kind.
func (e *Executor) Execute(stmt parser.Statement) (*Result, error) {
	switch s := stmt.(type) {
	case *parser.CreateDatabaseStmt:
		return e.execCreateDatabase(s)
	case *parser.DropDatabaseStmt:
		return e.execDropDatabase(s)
	case *parser.UseDatabaseStmt:
		return e.execUseDatabase(s)
	case *parser.CurrentDatabaseStmt:
		return e.execCurrentDatabase()
	case *parser.ListDatabasesStmt:
		return e.execListDatabases()

	case *parser.CreateTableStmt:
		return e.execCreateTable(s)
	case *parser.DropTableStmt:
		return e.execDropTable(s)
	case *parser.ListTablesStmt:
		return e.execListTables()

	case *parser.InsertStmt:
		return e.execInsert(s)
	case *parser.SelectStmt:
		return e.execSelect(s)
	case *parser.DeleteStmt:
		return e.execDelete(s)
	case *parser.UpdateStmt:
		return e.execUpdate(s)

	default:
		return nil, fmt.Errorf("%w: unsupported statement %T", dberr.ErrExecution, stmt)
	}
}

// ----- database -----

func (e *Executor) execCreateDatabase(s *parser.CreateDatabaseStmt) (*Result, error) {
	name, err := e.sess.CreateDatabase(s.Name)
	if err != nil {
		return nil, err
	}
	return message("Database '%s' created.", name), nil
}

func (e *Executor) execDropDatabase(s *parser.DropDatabaseStmt) (*Result, error) {
	name, err := e.sess.DropDatabase(s.Name)
	if err != nil {
		return nil, err
	}
	e.cache.Clear()
	// the dropped directory is gone, so the record goes to the active journal
	if err := e.journal().LogDropDatabase(name); err != nil {
		return nil, err
	}
	return message("Database '%s' dropped.", name), nil
}

func (e *Executor) execUseDatabase(s *parser.UseDatabaseStmt) (*Result, error) {
	name, err := e.sess.UseDatabase(s.Name)
	if err != nil {
		return nil, err
	}
	return message("Switched to database '%s'.", name), nil
}

func (e *Executor) execCurrentDatabase() (*Result, error) {
	name := e.sess.ActiveDatabase()
	return &Result{
		Message: fmt.Sprintf("Current database: %s", name),
		Columns: []string{"database"},
		Rows:    []record.Row{{"database": name}},
	}, nil
}

func (e *Executor) execListDatabases() (*Result, error) {
	names, err := e.sess.ListDatabases()
	if err != nil {
		return nil, err
	}
	return listResult("database", names), nil
}

func listResult(col string, names []string) *Result {
	res := &Result{Columns: []string{col}, Rows: make([]record.Row, 0, len(names))}
	for _, n := range names {
		res.Rows = append(res.Rows, record.Row{col: n})
	}
	res.Message = fmt.Sprintf("%d %s(s)", len(names), col)
	return res
}

// ----- tables -----

func (e *Executor) execCreateTable(s *parser.CreateTableStmt) (*Result, error) {
	cols := make([]record.Column, 0, len(s.Columns))
	for _, def := range s.Columns {
		typ, err := record.ParseColumnType(def.Type)
		if err != nil {
			return nil, err
		}
		cols = append(cols, record.Column{Name: def.Name, Type: typ, PrimaryKey: def.PrimaryKey})
	}

	table := catalog.Normalize(s.TableName)
	defer e.lock(table)()

	if _, err := e.schemas().Create(table, cols); err != nil {
		return nil, err
	}
	return message("Table '%s' created.", table), nil
}

func (e *Executor) execDropTable(s *parser.DropTableStmt) (*Result, error) {
	table := catalog.Normalize(s.TableName)
	defer e.lock(table)()

	cat := e.schemas()
	ok, err := cat.Exists(table)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", dberr.ErrStorage, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %q", catalog.ErrTableNotFound, table)
	}

	if err := e.journal().LogDropTable(table); err != nil {
		return nil, err
	}
	if err := cat.Delete(table); err != nil {
		return nil, err
	}
	if err := e.rows(table).Drop(); err != nil {
		return nil, err
	}
	if err := e.indexes().DropTable(table); err != nil {
		return nil, fmt.Errorf("%w: %v", dberr.ErrStorage, err)
	}
	slog.Info("executor.drop_table", "database", e.sess.ActiveDatabase(), "table", table)
	return message("Table '%s' dropped.", table), nil
}

func (e *Executor) execListTables() (*Result, error) {
	names, err := e.schemas().List()
	if err != nil {
		return nil, err
	}
	return listResult("table", names), nil
}

// ----- DML -----

// buildRow maps the statement values onto schema columns and converts each
// one to its stored form.
func buildRow(sch record.Schema, s *parser.InsertStmt) (record.Row, error) {
	names := s.Columns
	if names == nil {
		if len(s.Values) != sch.NumCols() {
			return nil, fmt.Errorf(
				"%w: table %q has %d columns but %d values were given",
				dberr.ErrSchema, sch.Table, sch.NumCols(), len(s.Values),
			)
		}
		names = sch.ColumnNames()
	}
	if len(names) != len(s.Values) {
		return nil, fmt.Errorf(
			"%w: %d columns named but %d values were given",
			dberr.ErrSchema, len(names), len(s.Values),
		)
	}

	row := make(record.Row, len(names))
	for i, n := range names {
		col, err := sch.MustColumn(catalog.Normalize(n))
		if err != nil {
			return nil, err
		}
		if _, dup := row[col.Name]; dup {
			return nil, fmt.Errorf("%w: column %q given twice", dberr.ErrSchema, col.Name)
		}
		v, err := record.Convert(col, s.Values[i])
		if err != nil {
			return nil, err
		}
		row[col.Name] = v
	}
	return row, nil
}

// execInsert: validate, check the key, append to the heap, index, journal.
// The heap append comes before the index insert; if the index insert fails
// the row stays in the heap without an index entry.
func (e *Executor) execInsert(s *parser.InsertStmt) (*Result, error) {
	table := catalog.Normalize(s.TableName)
	defer e.lock(table)()

	sch, err := e.schemas().Load(table)
	if err != nil {
		return nil, err
	}
	row, err := buildRow(sch, s)
	if err != nil {
		return nil, err
	}

	pk, err := sch.PrimaryKey()
	if err != nil {
		return nil, err
	}
	key, ok := row[pk.Name]
	if !ok {
		return nil, fmt.Errorf("%w: primary key column %q requires a value", dberr.ErrConstraint, pk.Name)
	}
	if err := index.CheckKey(pk, key); err != nil {
		return nil, err
	}

	ix := e.indexes()
	if _, found, err := ix.Lookup(table, pk, key); err != nil {
		return nil, err
	} else if found {
		return nil, fmt.Errorf("%w: %s=%s already exists in %q", btree.ErrDuplicateKey, pk.Name, key, table)
	}

	tid, err := e.rows(table).Append(row)
	if err != nil {
		return nil, err
	}
	if err := e.indexAddFn(ix, table, pk, key, int64(tid)); err != nil {
		slog.Warn("executor.insert.unindexed", "table", table, "key", key, "tid", tid, "err", err)
		return nil, err
	}
	if err := e.journal().Log(wal.ActionInsert, table, key); err != nil {
		return nil, err
	}
	return &Result{Message: "1 row inserted.", Affected: 1}, nil
}

func (e *Executor) execSelect(s *parser.SelectStmt) (*Result, error) {
	table := catalog.Normalize(s.TableName)

	sch, err := e.schemas().Load(table)
	if err != nil {
		return nil, err
	}
	conds, err := bindWhere(sch, s.Where)
	if err != nil {
		return nil, err
	}

	cols := sch.ColumnNames()
	if s.Columns != nil {
		cols = make([]string, 0, len(s.Columns))
		for _, c := range s.Columns {
			col, err := sch.MustColumn(catalog.Normalize(c))
			if err != nil {
				return nil, err
			}
			cols = append(cols, col.Name)
		}
	}

	rows, err := e.rows(table).ReadAll()
	if err != nil {
		return nil, err
	}

	out := make([]record.Row, 0, len(rows))
	for _, r := range rows {
		if !matchAll(r, conds) {
			continue
		}
		if s.Columns == nil {
			out = append(out, r)
			continue
		}
		p := make(record.Row, len(cols))
		for _, c := range cols {
			if v, ok := r[c]; ok {
				p[c] = v
			}
		}
		out = append(out, p)
	}
	return &Result{
		Message: fmt.Sprintf("%d row(s) selected.", len(out)),
		Columns: cols,
		Rows:    out,
	}, nil
}

// execDelete rewrites the heap without the matching rows. Index entries of
// deleted rows are left in place.
func (e *Executor) execDelete(s *parser.DeleteStmt) (*Result, error) {
	table := catalog.Normalize(s.TableName)
	defer e.lock(table)()

	sch, err := e.schemas().Load(table)
	if err != nil {
		return nil, err
	}
	conds, err := bindWhere(sch, s.Where)
	if err != nil {
		return nil, err
	}

	h := e.rows(table)
	rows, err := h.ReadAll()
	if err != nil {
		return nil, err
	}
	keep := make([]record.Row, 0, len(rows))
	for _, r := range rows {
		if !matchAll(r, conds) {
			keep = append(keep, r)
		}
	}
	deleted := int64(len(rows) - len(keep))

	if err := h.Rewrite(keep); err != nil {
		return nil, err
	}
	if err := e.journal().Log(wal.ActionDelete, table, describeWhere(s.Where)); err != nil {
		return nil, err
	}
	return &Result{Message: fmt.Sprintf("%d row(s) deleted.", deleted), Affected: deleted}, nil
}

// execUpdate validates every SET value first, then rewrites the heap with
// the matching rows changed. The index is not touched.
func (e *Executor) execUpdate(s *parser.UpdateStmt) (*Result, error) {
	table := catalog.Normalize(s.TableName)
	defer e.lock(table)()

	sch, err := e.schemas().Load(table)
	if err != nil {
		return nil, err
	}

	set := make(record.Row, len(s.Assignments))
	details := make([]string, 0, len(s.Assignments))
	for _, a := range s.Assignments {
		col, err := sch.MustColumn(catalog.Normalize(a.Column))
		if err != nil {
			return nil, err
		}
		v, err := record.Convert(col, a.Value)
		if err != nil {
			return nil, err
		}
		if col.PrimaryKey {
			slog.Warn("executor.update.primary_key", "table", table, "column", col.Name,
				"note", "index entries keep the old key")
		}
		set[col.Name] = v
		details = append(details, col.Name+"="+a.Value)
	}

	conds, err := bindWhere(sch, s.Where)
	if err != nil {
		return nil, err
	}

	h := e.rows(table)
	rows, err := h.ReadAll()
	if err != nil {
		return nil, err
	}
	var updated int64
	for _, r := range rows {
		if !matchAll(r, conds) {
			continue
		}
		for k, v := range set {
			r[k] = v
		}
		updated++
	}

	if err := h.Rewrite(rows); err != nil {
		return nil, err
	}
	if err := e.journal().Log(wal.ActionUpdate, table, strings.Join(details, ",")); err != nil {
		return nil, err
	}
	return &Result{Message: fmt.Sprintf("%d row(s) updated.", updated), Affected: updated}, nil
}

// IndexKeys lists the primary-key index of table in key order.
func (e *Executor) IndexKeys(table string) ([]index.Entry, error) {
	table = catalog.Normalize(table)
	sch, err := e.schemas().Load(table)
	if err != nil {
		return nil, err
	}
	pk, err := sch.PrimaryKey()
	if err != nil {
		return nil, err
	}
	return e.indexes().Scan(table, pk)
}
