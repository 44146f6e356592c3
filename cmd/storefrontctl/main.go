package main

import "github.com/Pesokrava/storefront/internal/cli"

func main() {
	cli.Execute()
}
