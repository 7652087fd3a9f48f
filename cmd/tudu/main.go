package main

import (
	"flag"
	"os"

	"github.com/yberkay/tudu/internal/cli"
)

func main() {
	// Root flags (apply to every subcommand)
	group := flag.Bool("group", false, "group fetch output by pending/done")
	filter := flag.String("filter", "all", "restrict output: all|active|done")
	sortBy := flag.String("sort", "recent", "order output: recent|id")
	flag.Parse()

	// Hand the remaining args to the CLI runner.
	code := cli.Run(flag.Args(), cli.Options{
		Group:  *group,
		Filter: *filter,
		Sort:   *sortBy,
	})
	os.Exit(code)
}
