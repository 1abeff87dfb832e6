// Ratectl is the operator CLI for ratelens.
//
// It shares the server's configuration, so the same .env selects the
// feedback store and the LLM provider.
//
// Usage:
//
//	ratectl predict "The food was cold and the waiter ignored us."
//	ratectl feedback add --review "Great food!" --predicted 5 --user 3
//	ratectl feedback list --corrected
//	ratectl export --out feedback.csv
//	ratectl stats
//	ratectl version
package main

import (
	"os"

	"github.com/Harshitk-cp/ratelens/internal/cli"
)

func main() {
	os.Exit(cli.Run())
}
