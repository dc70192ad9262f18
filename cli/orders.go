package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/feraszen/keytop-fresh/invoice"

	"github.com/spf13/cobra"
)

func newOrdersCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "Inspect recorded orders",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List orders, oldest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd.Context(), opts.cfg, opts.log)
			if err != nil {
				return err
			}
			defer a.Close()

			orders := a.finalizer.Orders(cmd.Context())
			if len(orders) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No orders yet.")
				return nil
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "INVOICE\tDATE\tCUSTOMER\tITEMS\tTOTAL")
			for _, o := range orders {
				count := 0
				for _, it := range o.Items {
					count += it.Quantity
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n", o.Invoice, o.Date, o.Customer.Name, count, o.Total)
			}
			return tw.Flush()
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "show <invoice>",
		Short: "Print the invoice of one order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), opts.cfg, opts.log)
			if err != nil {
				return err
			}
			defer a.Close()

			order, err := a.finalizer.Order(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return invoice.Render(cmd.OutOrStdout(), *order)
		},
	})
	return cmd
}
