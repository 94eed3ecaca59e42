package parser

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/tuannm99/raptordb/internal/dberr"
)

var (
	ErrSyntax      = fmt.Errorf("%w: syntax error", dberr.ErrExecution)
	ErrUnsupported = fmt.Errorf("%w: unrecognized command", dberr.ErrExecution)
)

// parseIdent validates an identifier (db/table/column name).
// Rules (simple):
//   - first char: letter or '_'
//   - rest: letter/digit/'_'
func parseIdent(s string) (string, error) {
	if s == "" {
		return "", fmt.Errorf("%w: missing identifier", ErrSyntax)
	}
	for i, r := range s {
		if unicode.IsLetter(r) || r == '_' || (i > 0 && unicode.IsDigit(r)) {
			continue
		}
		return "", fmt.Errorf("%w: invalid identifier %q", ErrSyntax, s)
	}
	return s, nil
}

// Parse parses a single statement into an AST. Keywords are
// case-insensitive and a trailing ';' is optional.
func Parse(sql string) (Statement, error) {
	s := strings.TrimSpace(sql)
	for strings.HasSuffix(s, ";") {
		s = strings.TrimSpace(strings.TrimSuffix(s, ";"))
	}
	if s == "" {
		return nil, fmt.Errorf("%w: empty statement", ErrSyntax)
	}

	toks, err := tokenize(s)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}

	var stmt Statement
	switch {
	// database
	case p.peekSeq("CREATE", "DATABASE"):
		stmt, err = p.parseCreateDatabase()
	case p.peekSeq("DROP", "DATABASE"):
		stmt, err = p.parseDropDatabase()
	case p.peekSeq("USE"):
		stmt, err = p.parseUseDatabase()
	case p.peekSeq("CURRENT", "DATABASE"):
		p.pos += 2
		stmt = &CurrentDatabaseStmt{}
	case p.peekSeq("LIST", "DATABASES"):
		p.pos += 2
		stmt = &ListDatabasesStmt{}

	// table
	case p.peekSeq("CREATE", "TABLE"):
		stmt, err = p.parseCreateTable()
	case p.peekSeq("DROP", "TABLE"):
		stmt, err = p.parseDropTable()
	case p.peekSeq("LIST", "TABLES"):
		p.pos += 2
		stmt = &ListTablesStmt{}

	case p.peekSeq("INSERT", "INTO"):
		stmt, err = p.parseInsert()
	case p.peekSeq("SELECT"):
		stmt, err = p.parseSelect()
	case p.peekSeq("UPDATE"):
		stmt, err = p.parseUpdate()
	case p.peekSeq("DELETE", "FROM"):
		stmt, err = p.parseDelete()

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupported, sql)
	}
	if err != nil {
		return nil, err
	}
	if !p.done() {
		return nil, fmt.Errorf("%w: unexpected %q", ErrSyntax, p.peek().text)
	}
	return stmt, nil
}

type parser struct {
	toks []token
	pos  int
}

func (p *parser) done() bool { return p.pos >= len(p.toks) }

func (p *parser) peek() token {
	if p.done() {
		return token{}
	}
	return p.toks[p.pos]
}

func (p *parser) next() token {
	t := p.peek()
	if !p.done() {
		p.pos++
	}
	return t
}

// peekSeq reports whether the next tokens are the given keywords.
func (p *parser) peekSeq(kws ...string) bool {
	if p.pos+len(kws) > len(p.toks) {
		return false
	}
	for i, kw := range kws {
		if !p.toks[p.pos+i].is(kw) {
			return false
		}
	}
	return true
}

func (p *parser) keyword(kws ...string) error {
	for _, kw := range kws {
		t := p.next()
		if !t.is(kw) {
			return fmt.Errorf("%w: expected %s, got %q", ErrSyntax, kw, t.text)
		}
	}
	return nil
}

func (p *parser) symbol(sym string) error {
	t := p.next()
	if t.kind != tokSymbol || t.text != sym {
		return fmt.Errorf("%w: expected %q, got %q", ErrSyntax, sym, t.text)
	}
	return nil
}

func (p *parser) acceptSymbol(sym string) bool {
	t := p.peek()
	if t.kind == tokSymbol && t.text == sym {
		p.pos++
		return true
	}
	return false
}

func (p *parser) ident() (string, error) {
	t := p.next()
	if t.kind != tokWord {
		return "", fmt.Errorf("%w: expected identifier, got %q", ErrSyntax, t.text)
	}
	return parseIdent(t.text)
}

func (p *parser) literal() (string, error) {
	t := p.next()
	if t.kind == tokWord || t.kind == tokString {
		return t.text, nil
	}
	if t.text == "" {
		return "", fmt.Errorf("%w: missing value", ErrSyntax)
	}
	return "", fmt.Errorf("%w: expected value, got %q", ErrSyntax, t.text)
}

// list parses "( item, item, ... )".
func (p *parser) list(item func() (string, error)) ([]string, error) {
	if err := p.symbol("("); err != nil {
		return nil, err
	}
	var out []string
	for {
		v, err := item()
		if err != nil {
			return nil, err
		}
		out = append(out, v)
		if p.acceptSymbol(",") {
			continue
		}
		if err := p.symbol(")"); err != nil {
			return nil, err
		}
		return out, nil
	}
}

func (p *parser) parseCreateDatabase() (Statement, error) {
	p.pos += 2
	name, err := p.ident()
	if err != nil {
		return nil, fmt.Errorf("invalid CREATE DATABASE syntax: %w", err)
	}
	return &CreateDatabaseStmt{Name: name}, nil
}

func (p *parser) parseDropDatabase() (Statement, error) {
	p.pos += 2
	name, err := p.ident()
	if err != nil {
		return nil, fmt.Errorf("invalid DROP DATABASE syntax: %w", err)
	}
	return &DropDatabaseStmt{Name: name}, nil
}

func (p *parser) parseUseDatabase() (Statement, error) {
	p.pos++
	name, err := p.ident()
	if err != nil {
		return nil, fmt.Errorf("invalid USE syntax: %w", err)
	}
	return &UseDatabaseStmt{Name: name}, nil
}

func (p *parser) parseCreateTable() (Statement, error) {
	// CREATE TABLE users (id INT PK, name STR, born DATE)
	p.pos += 2
	table, err := p.ident()
	if err != nil {
		return nil, fmt.Errorf("invalid CREATE TABLE syntax: %w", err)
	}
	if err := p.symbol("("); err != nil {
		return nil, fmt.Errorf("invalid CREATE TABLE syntax: %w", err)
	}

	var cols []ColumnDef
	for {
		name, err := p.ident()
		if err != nil {
			return nil, fmt.Errorf("invalid column name: %w", err)
		}
		typ := p.next()
		if typ.kind != tokWord {
			return nil, fmt.Errorf("%w: column %q needs a type", ErrSyntax, name)
		}
		def := ColumnDef{Name: name, Type: strings.ToUpper(typ.text)}

		switch {
		case p.peekSeq("PK"):
			p.pos++
			def.PrimaryKey = true
		case p.peekSeq("PRIMARY", "KEY"):
			p.pos += 2
			def.PrimaryKey = true
		}
		cols = append(cols, def)

		if p.acceptSymbol(",") {
			continue
		}
		if err := p.symbol(")"); err != nil {
			return nil, fmt.Errorf("invalid CREATE TABLE syntax: %w", err)
		}
		break
	}
	return &CreateTableStmt{TableName: table, Columns: cols}, nil
}

func (p *parser) parseDropTable() (Statement, error) {
	p.pos += 2
	name, err := p.ident()
	if err != nil {
		return nil, fmt.Errorf("invalid DROP TABLE syntax: %w", err)
	}
	return &DropTableStmt{TableName: name}, nil
}

func (p *parser) parseInsert() (Statement, error) {
	// INSERT INTO users [(id, name)] VALUES (1, 'Ann')
	p.pos += 2
	table, err := p.ident()
	if err != nil {
		return nil, fmt.Errorf("invalid INSERT syntax: %w", err)
	}

	stmt := &InsertStmt{TableName: table}
	if t := p.peek(); t.kind == tokSymbol && t.text == "(" {
		if stmt.Columns, err = p.list(p.ident); err != nil {
			return nil, fmt.Errorf("invalid INSERT column list: %w", err)
		}
	}
	if err := p.keyword("VALUES"); err != nil {
		return nil, fmt.Errorf("invalid INSERT syntax: %w", err)
	}
	if stmt.Values, err = p.list(p.literal); err != nil {
		return nil, fmt.Errorf("invalid INSERT values syntax: %w", err)
	}
	if stmt.Columns != nil && len(stmt.Columns) != len(stmt.Values) {
		return nil, fmt.Errorf("%w: %d columns but %d values", ErrSyntax, len(stmt.Columns), len(stmt.Values))
	}
	return stmt, nil
}

func (p *parser) parseSelect() (Statement, error) {
	// SELECT * | a, b FROM users [WHERE ...]
	p.pos++
	stmt := &SelectStmt{}
	if !p.acceptSymbol("*") {
		for {
			col, err := p.ident()
			if err != nil {
				return nil, fmt.Errorf("invalid SELECT column list: %w", err)
			}
			stmt.Columns = append(stmt.Columns, col)
			if !p.acceptSymbol(",") {
				break
			}
		}
	}
	if err := p.keyword("FROM"); err != nil {
		return nil, fmt.Errorf("invalid SELECT syntax: %w", err)
	}
	table, err := p.ident()
	if err != nil {
		return nil, fmt.Errorf("invalid SELECT syntax: %w", err)
	}
	stmt.TableName = table
	if stmt.Where, err = p.parseWhere(); err != nil {
		return nil, err
	}
	return stmt, nil
}

func (p *parser) parseUpdate() (Statement, error) {
	// UPDATE t SET a=1, b='x' [WHERE id=1]
	p.pos++
	table, err := p.ident()
	if err != nil {
		return nil, fmt.Errorf("invalid UPDATE syntax: %w", err)
	}
	if err := p.keyword("SET"); err != nil {
		return nil, fmt.Errorf("invalid UPDATE syntax: %w", err)
	}

	stmt := &UpdateStmt{TableName: table}
	for {
		col, err := p.ident()
		if err != nil {
			return nil, fmt.Errorf("invalid assignment column: %w", err)
		}
		if err := p.symbol("="); err != nil {
			return nil, fmt.Errorf("invalid assignment: %w", err)
		}
		val, err := p.literal()
		if err != nil {
			return nil, fmt.Errorf("invalid assignment: %w", err)
		}
		stmt.Assignments = append(stmt.Assignments, Assignment{Column: col, Value: val})
		if !p.acceptSymbol(",") {
			break
		}
	}
	if stmt.Where, err = p.parseWhere(); err != nil {
		return nil, err
	}
	return stmt, nil
}

func (p *parser) parseDelete() (Statement, error) {
	// DELETE FROM t [WHERE ...]
	p.pos += 2
	table, err := p.ident()
	if err != nil {
		return nil, fmt.Errorf("invalid DELETE syntax: %w", err)
	}
	stmt := &DeleteStmt{TableName: table}
	if stmt.Where, err = p.parseWhere(); err != nil {
		return nil, err
	}
	return stmt, nil
}

// parseWhere parses an optional "WHERE cond [AND cond]..." clause.
// "col BETWEEN lo AND hi" becomes col >= lo AND col <= hi.
func (p *parser) parseWhere() ([]Condition, error) {
	if !p.peekSeq("WHERE") {
		return nil, nil
	}
	p.pos++

	var conds []Condition
	for {
		col, err := p.ident()
		if err != nil {
			return nil, fmt.Errorf("invalid WHERE column: %w", err)
		}

		if p.peekSeq("BETWEEN") {
			p.pos++
			lo, err := p.literal()
			if err != nil {
				return nil, fmt.Errorf("invalid BETWEEN: %w", err)
			}
			if err := p.keyword("AND"); err != nil {
				return nil, fmt.Errorf("invalid BETWEEN: %w", err)
			}
			hi, err := p.literal()
			if err != nil {
				return nil, fmt.Errorf("invalid BETWEEN: %w", err)
			}
			conds = append(conds,
				Condition{Column: col, Op: OpGe, Value: lo},
				Condition{Column: col, Op: OpLe, Value: hi},
			)
		} else {
			t := p.next()
			op, ok := parseOp(t.text)
			if t.kind != tokSymbol || !ok {
				return nil, fmt.Errorf("%w: expected comparison operator after %q, got %q", ErrSyntax, col, t.text)
			}
			val, err := p.literal()
			if err != nil {
				return nil, fmt.Errorf("invalid WHERE value: %w", err)
			}
			conds = append(conds, Condition{Column: col, Op: op, Value: val})
		}

		if !p.peekSeq("AND") {
			return conds, nil
		}
		p.pos++
	}
}
