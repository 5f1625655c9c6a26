package main

import (
	"github.com/fred-dns/cdnskey-scanner/cmd"
)

func main() {
	cmd.Execute()
}
