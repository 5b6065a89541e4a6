//go:build !cgo

package provider

// Without cgo no driver is registered under this name and Open fails with
// the database/sql "unknown driver" error.
const oracleDriverName = "godror"
