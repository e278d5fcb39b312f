//go:build ignore

// genhash prints a bcrypt hash to use as ADMIN_PASS.
//
//	go run scripts/genhash.go 'my admin password'
package main

import (
	"fmt"
	"os"

	"kohi-api/pkg/security"
)

func main() {
	if len(os.Args) != 2 || os.Args[1] == "" {
		fmt.Fprintln(os.Stderr, "usage: go run scripts/genhash.go <password>")
		os.Exit(2)
	}

	hash, err := security.HashPassword(os.Args[1])
	if err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}
	fmt.Printf("ADMIN_PASS=%s\n", hash)
}
