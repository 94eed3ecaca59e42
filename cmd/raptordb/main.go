package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"

	"github.com/tuannm99/raptordb"
	"github.com/tuannm99/raptordb/internal"
)

func defaultHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ".raptordb_history"
	}
	return filepath.Join(home, ".raptordb_history")
}

func prompt(db string) string { return fmt.Sprintf("raptordb [%s]> ", db) }

// needsConfirm reports whether stmt drops a table or a database.
func needsConfirm(stmt string) bool {
	f := strings.Fields(strings.ToUpper(stmt))
	return len(f) >= 2 && f[0] == "DROP" && (f[1] == "TABLE" || f[1] == "DATABASE")
}

func confirm(rl *readline.Instance, stmt string) bool {
	rl.SetPrompt(fmt.Sprintf("really run %q? (yes/no) ", strings.TrimSpace(stmt)))
	ans, err := rl.Readline()
	if err != nil {
		return false
	}
	ans = strings.ToLower(strings.TrimSpace(ans))
	return ans == "y" || ans == "yes"
}

func main() {
	var (
		cfgPath    = flag.String("config", "", "path to a YAML config file")
		histPath   = flag.String("history", defaultHistoryPath(), "history file path")
		oneShotSQL = flag.String("c", "", "execute one statement and exit")
	)
	flag.Parse()

	cfg, err := internal.LoadConfig(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	eng, err := raptordb.Open(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open: %v\n", err)
		os.Exit(1)
	}
	defer eng.Close()
	slog.Info("raptordb.start", "app", cfg.AppName, "root", cfg.Storage.Root, "database", eng.ActiveDatabase())

	// one-shot mode
	if strings.TrimSpace(*oneShotSQL) != "" {
		fmt.Println(eng.Process(*oneShotSQL))
		return
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          prompt(eng.ActiveDatabase()),
		HistoryFile:     *histPath,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "readline: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = rl.Close() }()

	fmt.Println("RaptorDB shell. Type 'help' for commands, 'exit' to quit.")

	for {
		rl.SetPrompt(prompt(eng.ActiveDatabase()))
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) || err != nil {
			fmt.Println()
			return
		}

		line = strings.TrimSpace(line)
		switch strings.ToLower(strings.TrimRight(line, ";")) {
		case "":
			continue
		case "exit", "quit", `\q`:
			return
		case "help", `\help`:
			fmt.Println(`commands (trailing ';' optional):
  CREATE DATABASE name | DROP DATABASE name | USE name
  CURRENT DATABASE | LIST DATABASES | LIST TABLES
  CREATE TABLE t (col TYPE [PK], ...)     types: INT LONG STR BOOL FLOAT DATE DATETIME
  DROP TABLE t
  INSERT INTO t [(cols)] VALUES (vals)
  SELECT * | cols FROM t [WHERE c op v [AND ...] | c BETWEEN lo AND hi]
  UPDATE t SET c = v [, ...] [WHERE ...]
  DELETE FROM t [WHERE ...]`)
			continue
		}

		if needsConfirm(line) && !confirm(rl, line) {
			fmt.Println("cancelled")
			continue
		}
		fmt.Println(eng.Process(line))
	}
}
