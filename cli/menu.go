package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/feraszen/keytop-fresh/menu"

	"github.com/spf13/cobra"
)

func newMenuCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "menu",
		Short: "Print the product catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := menu.Load(opts.cfg.MenuPath)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "PRODUCT\tPRICE\tADDONS")
			for _, p := range m.Products() {
				addons := make([]string, 0, len(p.Addons))
				for _, a := range p.Addons {
					addons = append(addons, fmt.Sprintf("%s (+%s)", a.Name, a.Price))
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\n", p.Name, p.Price, strings.Join(addons, ", "))
			}
			return tw.Flush()
		},
	}
}
