package commands

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/goliatone/go-backoffice-cache/backoffice"
)

type CustomersCmd struct {
	flags *Flags
}

// NewCustomersCmd creates the customers command group
func NewCustomersCmd(flags *Flags) *CustomersCmd {
	return &CustomersCmd{flags: flags}
}

// Register adds the customers command to the application
func (cmd *CustomersCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "customers",
		Usage: "List and show customers",
		Commands: []*cli.Command{
			{
				Name:      "list",
				Usage:     "List customers",
				UsageText: "backoffice customers list [--page N] [--limit N] [--q TEXT] [--status STATUS]",
				Flags: append(pageFlags(),
					&cli.StringFlag{Name: "status", Usage: "filter by account status"},
					&cli.StringFlag{Name: "service-type", Usage: "filter by service type"},
				),
				Action: cmd.list,
			},
			{
				Name:      "show",
				Usage:     "Show a customer",
				UsageText: "backoffice customers show ID",
				Action:    cmd.show,
			},
		},
	})

	return app
}

func (cmd *CustomersCmd) list(ctx context.Context, c *cli.Command) error {
	res := cmd.flags.Container.Backoffice().Customers.Find(ctx, backoffice.CustomerFilter{
		Page:        int(c.Int("page")),
		Limit:       int(c.Int("limit")),
		Query:       c.String("q"),
		Status:      c.String("status"),
		ServiceType: c.String("service-type"),
	})
	if res.Err != nil {
		return fmt.Errorf("list customers: %w", res.Err)
	}

	out := c.Root().Writer
	if len(res.Data.Items) == 0 {
		_, _ = fmt.Fprintln(out, "No customers found")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tNAME\tTYPE\tSTATUS\tSERVICE\tSERVICE STATUS")
	for _, cu := range res.Data.Items {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", cu.ID, cu.Name, cu.Type, cu.Status, cu.ServiceType, cu.ServiceStatus)
	}
	_ = w.Flush()

	printPagination(out, res.Data.Pagination)
	return nil
}

func (cmd *CustomersCmd) show(ctx context.Context, c *cli.Command) error {
	id, err := requireID(c)
	if err != nil {
		return err
	}

	res := cmd.flags.Container.Backoffice().Customers.Get(ctx, id)
	if res.Err != nil {
		return fmt.Errorf("show customer %s: %w", id, res.Err)
	}

	cu := res.Data
	printFields(c.Root().Writer, [][2]string{
		{"ID", cu.ID},
		{"Name", cu.Name},
		{"Email", cu.Email},
		{"Phone", cu.Phone},
		{"Type", cu.Type},
		{"Status", cu.Status},
		{"Service", cu.ServiceType},
		{"Service status", cu.ServiceStatus},
	})
	return nil
}
