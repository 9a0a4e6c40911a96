package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/vphantom/repomapper/internal/app"
)

var flagListAll bool

var listCmd = &cobra.Command{
	Use:   "list [dir]",
	Short: "List files that would be included in the map",
	Long:  "Resolves ignore rules and prints the in-scope files, one per line. With --all, excluded files are shown too, prefixed with their status.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runList,
}

func init() {
	listCmd.Flags().BoolVar(&flagListAll, "all", false, "also show excluded files")
}

func runList(cmd *cobra.Command, args []string) error {
	listing, err := app.ListFiles(buildOptions(targetDir(args)), flagListAll)
	if err != nil {
		return err
	}

	if !flagListAll {
		for _, f := range listing.Included {
			fmt.Println(f.Rel)
		}
		return nil
	}

	type row struct {
		status string
		path   string
	}
	rows := make([]row, 0, len(listing.Included)+len(listing.Excluded))
	for _, f := range listing.Included {
		rows = append(rows, row{"I", f.Rel})
	}
	for _, p := range listing.Excluded {
		rows = append(rows, row{".", p})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].path < rows[j].path })
	for _, r := range rows {
		fmt.Printf("%s %s\n", r.status, r.path)
	}
	return nil
}
