package main

import (
	_ "time/tzdata"

	"github.com/BrunoTulio/mongopher/cmd"
)

func main() {
	cmd.Execute()
}
