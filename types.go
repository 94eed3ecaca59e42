package raptordb

import (
	"github.com/tuannm99/raptordb/internal/record"
	"github.com/tuannm99/raptordb/internal/sql/executor"
)

// Package raptordb is the top-level facade for the RaptorDB engine.
type (
	Result = executor.Result
	Row    = record.Row
)
