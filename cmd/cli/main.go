// chatlens - Chat Export Analytics
//
// chatlens parses exported chat transcripts and reports who talked, when,
// and with which words and emojis.
package main

import (
	"os"

	"github.com/ccollicutt/chatlens/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
