package commands

import (
	"context"
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/goliatone/go-backoffice-cache/backoffice"
)

type AgentsCmd struct {
	flags *Flags
}

// NewAgentsCmd creates the agents command group
func NewAgentsCmd(flags *Flags) *AgentsCmd {
	return &AgentsCmd{flags: flags}
}

// Register adds the agents command to the application
func (cmd *AgentsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "agents",
		Usage: "List and show B2B air-ticketing agents",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List agents",
				Flags:  append(pageFlags(), &cli.StringFlag{Name: "status", Usage: "filter by status"}),
				Action: cmd.list,
			},
			{
				Name:      "show",
				Usage:     "Show an agent",
				UsageText: "backoffice agents show ID",
				Action:    cmd.show,
			},
		},
	})

	return app
}

func (cmd *AgentsCmd) list(ctx context.Context, c *cli.Command) error {
	res := cmd.flags.Container.Backoffice().AirAgents.Find(ctx, backoffice.AirAgentFilter{
		Page:   int(c.Int("page")),
		Limit:  int(c.Int("limit")),
		Query:  c.String("q"),
		Status: c.String("status"),
	})
	if res.Err != nil {
		return fmt.Errorf("list agents: %w", res.Err)
	}

	out := c.Root().Writer
	if len(res.Data.Items) == 0 {
		_, _ = fmt.Fprintln(out, "No agents found")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tNAME\tCOMPANY\tIATA\tCOMMISSION\tSTATUS")
	for _, a := range res.Data.Items {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s%%\t%s\n", a.ID, a.Name, a.Company, a.IATACode, formatFloat(a.Commission), a.Status)
	}
	_ = w.Flush()

	printPagination(out, res.Data.Pagination)
	return nil
}

func (cmd *AgentsCmd) show(ctx context.Context, c *cli.Command) error {
	id, err := requireID(c)
	if err != nil {
		return err
	}

	res := cmd.flags.Container.Backoffice().AirAgents.Get(ctx, id)
	if res.Err != nil {
		return fmt.Errorf("show agent %s: %w", id, res.Err)
	}

	a := res.Data
	printFields(c.Root().Writer, [][2]string{
		{"ID", a.ID},
		{"Name", a.Name},
		{"Company", a.Company},
		{"Email", a.Email},
		{"IATA", a.IATACode},
		{"Commission", formatFloat(a.Commission) + "%"},
		{"Balance", formatFloat(a.Balance)},
		{"Status", a.Status},
	})
	return nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
