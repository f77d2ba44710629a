package main

import "github.com/mythmon/mdbook-rust-doc/internal/cli"

func main() {
	cli.Execute()
}
