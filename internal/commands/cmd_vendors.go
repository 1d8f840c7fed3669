package commands

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/goliatone/go-backoffice-cache/backoffice"
)

type VendorsCmd struct {
	flags *Flags
}

// NewVendorsCmd creates the vendors command group
func NewVendorsCmd(flags *Flags) *VendorsCmd {
	return &VendorsCmd{flags: flags}
}

// Register adds the vendors command to the application
func (cmd *VendorsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "vendors",
		Usage: "List and show vendors",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List vendors",
				Flags:  append(pageFlags(), &cli.StringFlag{Name: "service-type", Usage: "filter by service type"}),
				Action: cmd.list,
			},
			{
				Name:      "show",
				Usage:     "Show a vendor",
				UsageText: "backoffice vendors show ID",
				Action:    cmd.show,
			},
		},
	})

	return app
}

func (cmd *VendorsCmd) list(ctx context.Context, c *cli.Command) error {
	res := cmd.flags.Container.Backoffice().Vendors.Find(ctx, backoffice.VendorFilter{
		Page:        int(c.Int("page")),
		Limit:       int(c.Int("limit")),
		Query:       c.String("q"),
		ServiceType: c.String("service-type"),
	})
	if res.Err != nil {
		return fmt.Errorf("list vendors: %w", res.Err)
	}

	out := c.Root().Writer
	if len(res.Data.Items) == 0 {
		_, _ = fmt.Fprintln(out, "No vendors found")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tNAME\tSERVICE\tSTATUS")
	for _, v := range res.Data.Items {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", v.ID, v.Name, v.ServiceType, v.Status)
	}
	_ = w.Flush()

	printPagination(out, res.Data.Pagination)
	return nil
}

func (cmd *VendorsCmd) show(ctx context.Context, c *cli.Command) error {
	id, err := requireID(c)
	if err != nil {
		return err
	}

	res := cmd.flags.Container.Backoffice().Vendors.Get(ctx, id)
	if res.Err != nil {
		return fmt.Errorf("show vendor %s: %w", id, res.Err)
	}

	v := res.Data
	printFields(c.Root().Writer, [][2]string{
		{"ID", v.ID},
		{"Name", v.Name},
		{"Email", v.Email},
		{"Phone", v.Phone},
		{"Service", v.ServiceType},
		{"Address", v.Address},
		{"Status", v.Status},
	})
	return nil
}
