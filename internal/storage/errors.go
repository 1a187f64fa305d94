package storage

import "fmt"

// DataSourceError wraps a transport or query failure against the backing
// store. It propagates unchanged through the aggregation layer; retry
// policy belongs to the caller.
type DataSourceError struct {
	Op    string
	Table string
	Err   error
}

func (e *DataSourceError) Error() string {
	return fmt.Sprintf("%s on %s failed: %v", e.Op, e.Table, e.Err)
}

func (e *DataSourceError) Unwrap() error { return e.Err }

func dataSourceErr(op, table string, err error) error {
	return &DataSourceError{Op: op, Table: table, Err: err}
}
