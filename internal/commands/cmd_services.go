package commands

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/goliatone/go-backoffice-cache/resource"
)

type ServicesCmd struct {
	flags *Flags
}

// NewServicesCmd creates the services command group
func NewServicesCmd(flags *Flags) *ServicesCmd {
	return &ServicesCmd{flags: flags}
}

// Register adds the services command to the application
func (cmd *ServicesCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "services",
		Usage: "Browse the service catalog",
		Commands: []*cli.Command{
			{
				Name:   "types",
				Usage:  "List service types",
				Action: cmd.types,
			},
			{
				Name:      "statuses",
				Usage:     "List the statuses of a service type",
				UsageText: "backoffice services statuses TYPE",
				Action:    cmd.statuses,
			},
		},
	})

	return app
}

func (cmd *ServicesCmd) types(ctx context.Context, c *cli.Command) error {
	res := cmd.flags.Container.Backoffice().Services.ServiceTypes(ctx)
	printList(c.Root().Writer, "No service types available", res.Data)
	return nil
}

func (cmd *ServicesCmd) statuses(ctx context.Context, c *cli.Command) error {
	serviceType := c.Args().First()
	if serviceType == "" {
		return fmt.Errorf("missing service type. Run '%s --help' for usage", c.FullName())
	}

	res := cmd.flags.Container.Backoffice().Services.Statuses(ctx, serviceType)
	printList(c.Root().Writer, fmt.Sprintf("No statuses available for %s", serviceType), res.Data)
	return nil
}

func printList(out io.Writer, empty string, items []string) {
	if len(items) == 0 {
		_, _ = fmt.Fprintln(out, empty)
		return
	}
	for _, item := range items {
		_, _ = fmt.Fprintln(out, item)
	}
}

func printFields(out io.Writer, fields [][2]string) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, f := range fields {
		if f[1] == "" {
			continue
		}
		_, _ = fmt.Fprintf(w, "%s:\t%s\n", f[0], f[1])
	}
	_ = w.Flush()
}

func printPagination(out io.Writer, p resource.Pagination) {
	_, _ = fmt.Fprintf(out, "\npage %d of %d (%d total)\n", p.Page, max(p.Pages, 1), p.Total)
}
