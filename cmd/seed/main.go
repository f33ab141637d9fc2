// Command seed creates the projects table and fills it with the embedded
// catalog. It is safe to run repeatedly: a populated table is left alone.
//
//	seed                       # seed the store named by STORE_DRIVER / DB_PATH
//	seed --db /tmp/catalog.db  # seed a specific SQLite file
//	seed count                 # print the number of stored projects
//	seed validate              # check the embedded list without a store
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
