package main

import "github.com/mcoot/highscores-go/internal/cli"

func main() {
	cli.Execute()
}
