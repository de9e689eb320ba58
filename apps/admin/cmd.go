package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/trezcool/masomo-records/apps/shared"
	"github.com/trezcool/masomo-records/core"
	"github.com/trezcool/masomo-records/core/student"
	"github.com/trezcool/masomo-records/core/table"
)

var errHelp = errors.New("help provided")

type commandLine struct {
	conf   *core.Config
	logger core.Logger
	db     *sql.DB // nil in demo mode
	svc    *student.Service
	out    io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  migrate up|up-by-one|down|reset|version|force VERSION - manage the database schema")
	fmt.Fprintln(cli.out, "  seed -n COUNT - add demo students")
	fmt.Fprintln(cli.out, "  token -id ID -username USERNAME [-email EMAIL] [-roles staff,admin] - issue an API access token")
	fmt.Fprintln(cli.out, "  query [-metric VIEW] [-search TEXT] [-ordering [-]COLUMN] [-page N] [-per_page N] [-college C] [-program P] - print a masterlist or metric page")
}

func (cli *commandLine) flagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(cli.out)
	return fs
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	switch args[1] {
	case "migrate":
		return cli.migrate(args[2:])

	case "seed":
		seedCmd := cli.flagSet("seed")
		n := seedCmd.Int("n", shared.DemoRows, "Number of students to add.")
		if err := seedCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if *n <= 0 {
			seedCmd.Usage()
			return errHelp
		}
		return cli.seed(*n)

	case "token":
		tokenCmd := cli.flagSet("token")
		id := tokenCmd.String("id", "", "Subject of the token: the staff member's ID in the auth service.")
		username := tokenCmd.String("username", "", "The staff member's username.")
		email := tokenCmd.String("email", "", "The staff member's email.")
		roles := tokenCmd.String("roles", core.RoleStaff, "Comma separated roles.")
		if err := tokenCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if *id == "" || *username == "" {
			tokenCmd.Usage()
			return errHelp
		}
		identity := core.Identity{
			ID:       *id,
			Username: core.CleanString(*username),
			Email:    core.CleanString(*email),
		}
		for _, r := range strings.Split(*roles, ",") {
			if r = strings.TrimSpace(r); r != "" {
				identity.Roles = append(identity.Roles, r)
			}
		}
		return cli.token(identity)

	case "query":
		queryCmd := cli.flagSet("query")
		q := table.NewQuery(cli.conf.Table.DefaultPageSize)
		var f student.Filter
		queryCmd.StringVar(&q.Search, "search", "", "Keep rows having a value containing TEXT.")
		metric := queryCmd.String("metric", "", "Metric view to print instead of the masterlist (gwa, attendance, ...).")
		ordering := queryCmd.String("ordering", "", "Column to sort by; prefix with - for descending.")
		queryCmd.IntVar(&q.Page, "page", 1, "Page to print.")
		queryCmd.IntVar(&q.PageSize, "per_page", q.PageSize, "Rows per page.")
		queryCmd.StringVar(&f.College, "college", "", "College code.")
		queryCmd.StringVar(&f.Program, "program", "", "Program code.")
		queryCmd.StringVar(&f.YearLevel, "year_level", "", "Year level.")
		queryCmd.StringVar(&f.Section, "section", "", "Section.")
		if err := queryCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		q.Search = core.CleanString(q.Search)
		q.ApplyOrderings(core.ParseOrderings(*ordering))
		return cli.query(*metric, f, q)

	default:
		cli.printUsage()
		return errHelp
	}
}
