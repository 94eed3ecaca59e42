package parser

// Statement is the root interface for all statements. The set of
// implementations is closed: only this package can add one.
type Statement interface {
	stmtNode()
}

// ----- DATABASE -----
type CreateDatabaseStmt struct{ Name string }
type DropDatabaseStmt struct{ Name string }
type UseDatabaseStmt struct{ Name string }
type ListDatabasesStmt struct{}
type CurrentDatabaseStmt struct{}

func (*CreateDatabaseStmt) stmtNode()  {}
func (*DropDatabaseStmt) stmtNode()    {}
func (*UseDatabaseStmt) stmtNode()     {}
func (*ListDatabasesStmt) stmtNode()   {}
func (*CurrentDatabaseStmt) stmtNode() {}

// ----- CREATE / DROP TABLE -----
type ColumnDef struct {
	Name       string
	Type       string // upper-cased type name, checked by the executor
	PrimaryKey bool
}

type CreateTableStmt struct {
	TableName string
	Columns   []ColumnDef
}

type DropTableStmt struct{ TableName string }
type ListTablesStmt struct{}

func (*CreateTableStmt) stmtNode() {}
func (*DropTableStmt) stmtNode()   {}
func (*ListTablesStmt) stmtNode()  {}

// ----- DML -----

// Literals are kept as written (quotes included); the executor converts them
// against the column type.

type InsertStmt struct {
	TableName string
	Columns   []string // nil: values map to schema columns by position
	Values    []string
}

type SelectStmt struct {
	TableName string
	Columns   []string // nil means *
	Where     []Condition
}

type Assignment struct {
	Column string
	Value  string
}

type UpdateStmt struct {
	TableName   string
	Assignments []Assignment
	Where       []Condition
}

type DeleteStmt struct {
	TableName string
	Where     []Condition
}

func (*InsertStmt) stmtNode() {}
func (*SelectStmt) stmtNode() {}
func (*UpdateStmt) stmtNode() {}
func (*DeleteStmt) stmtNode() {}

// Condition is one "column op literal" term; a WHERE clause is the AND of
// its conditions.
type Condition struct {
	Column string
	Op     Op
	Value  string
}

type Op string

const (
	OpEq Op = "="
	OpNe Op = "!="
	OpLt Op = "<"
	OpLe Op = "<="
	OpGt Op = ">"
	OpGe Op = ">="
)

func parseOp(s string) (Op, bool) {
	switch s {
	case "=":
		return OpEq, true
	case "!=", "<>":
		return OpNe, true
	case "<":
		return OpLt, true
	case "<=":
		return OpLe, true
	case ">":
		return OpGt, true
	case ">=":
		return OpGe, true
	}
	return "", false
}
