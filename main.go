// main.go
package main

import (
	"context"

	"github.com/clearglobal/hdx-scraper/commands"
)

func main() {
	commands.ExecuteContext(context.Background())
}
