package main

import (
	"context"
	"fmt"

	"github.com/olekukonko/tablewriter"

	"github.com/trezcool/masomo-records/core/student"
	"github.com/trezcool/masomo-records/core/table"
)

// query prints a page of the masterlist, or of the metric view when one is named, as a text table.
func (cli *commandLine) query(metric string, f student.Filter, q table.Query) error {
	if err := q.Validate(cli.conf.Table.MaxPageSize); err != nil {
		return err
	}
	var res table.PageResult
	var defs []table.ColumnDef
	var err error
	if metric == "" {
		res, defs, err = cli.svc.Query(context.Background(), f, q)
	} else {
		res, defs, err = cli.svc.QueryMetric(context.Background(), metric, f, q)
	}
	if err != nil {
		return err
	}

	w := tablewriter.NewWriter(cli.out)
	w.SetAutoFormatHeaders(false)
	header := make([]string, 0, len(defs))
	for _, col := range table.Columns(q, defs...) {
		label := col.Label
		if col.Active {
			label += " (" + string(col.Direction) + ")"
		}
		header = append(header, label)
	}
	w.SetHeader(header)

	for _, row := range res.Rows {
		cells := make([]string, 0, len(defs))
		for _, def := range defs {
			cells = append(cells, cell(row, def.Key))
		}
		w.Append(cells)
	}
	w.Render()

	if res.Total == 0 {
		fmt.Fprintln(cli.out, "No students found.")
		return nil
	}
	fmt.Fprintf(cli.out, "Showing %d to %d of %d results (page %d of %d)\n", res.From, res.To, res.Total, res.CurrentPage, res.LastPage)
	return nil
}

func cell(row table.Row, key string) string {
	v, ok := row.Value(key)
	if !ok {
		return "-"
	}
	if s, ok := table.Text(v); ok {
		return s
	}
	return "-"
}
