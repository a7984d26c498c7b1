// Команда vibevoice-synth синтезирует монологи и диалоги несколькими голосами.
package main

import (
	"os"

	"voice-synth/internal/cli"
)

func main() {
	os.Exit(cli.Run(cli.BackendVibeVoice, os.Args[1:]))
}
