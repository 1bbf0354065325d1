package main

import (
	"log"

	"ticket-scanner/cmd"
)

func main() {
	if err := cmd.Start(); err != nil {
		log.Fatal(err)
	}
}
