package main

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/evilstubb/dgenrs/internal/asset"
	"github.com/evilstubb/dgenrs/internal/utils"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List every asset the search path can resolve",
	Long: `List prints every name a registered source carries, with the source it
would resolve from. For archive entries the compression method and sizes
from the entry's local file header are shown.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		sp, err := buildSearchPath()
		if err != nil {
			return err
		}
		defer sp.Close()

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tSOURCE\tMETHOD\tSIZE")

		for _, name := range allNames(sp) {
			reg, ok := winningSource(sp, name)
			if !ok {
				continue
			}

			method := "-"
			size := "-"
			if z, isZip := reg.Source.(*asset.ZipSource); isZip {
				info, err := z.Entry(name)
				if err != nil {
					return fmt.Errorf("reading entry %q: %w", name, err)
				}
				method = methodName(info.Method)
				size = utils.Bytes(int64(info.UncompressedSize))
			}

			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", name, reg.Source.Origin(), method, size)
		}

		return w.Flush()
	},
}

// allNames collects the union of every source's names, sorted.
func allNames(sp *asset.SearchPath) []string {
	seen := make(map[string]bool)
	var names []string
	for _, reg := range sp.Sources() {
		for _, name := range reg.Source.Names() {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	sort.Strings(names)
	return names
}

// winningSource returns the source that resolution would pick for name.
func winningSource(sp *asset.SearchPath, name string) (asset.Registered, bool) {
	for _, reg := range sp.Sources() {
		for _, candidate := range reg.Source.Names() {
			if candidate == name {
				return reg, true
			}
		}
	}
	return asset.Registered{}, false
}

func methodName(method uint16) string {
	switch method {
	case 0:
		return "stored"
	case 8:
		return "deflate"
	default:
		return fmt.Sprintf("method %d", method)
	}
}

func init() {
	rootCmd.AddCommand(listCmd)
}
