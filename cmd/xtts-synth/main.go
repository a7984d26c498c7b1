// Команда xtts-synth синтезирует речь голосом из референсной записи.
package main

import (
	"os"

	"voice-synth/internal/cli"
)

func main() {
	os.Exit(cli.Run(cli.BackendXTTS, os.Args[1:]))
}
