//go:build cgo

package provider

import (
	_ "github.com/godror/godror"
)

const oracleDriverName = "godror"

func init() {
	registerBuiltin(Oracle{}, "godror")
}
