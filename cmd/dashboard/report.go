package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-market-dashboard/components/dashboard"
)

// Output formats.
const (
	formatText = "text"
	formatYAML = "yaml"
	formatJSON = "json"
)

type snapshotCmd struct {
	Format string `enum:"text,yaml,json" default:"text" help:"Output format (text, yaml, json)."`
	Filter string `help:"Only show rows containing this text."`
	Limit  int    `default:"10" help:"Rows per table (0 shows all)."`
}

type tableReport struct {
	Title   string     `json:"title" yaml:"title"`
	Columns []string   `json:"columns" yaml:"columns"`
	Total   int        `json:"total" yaml:"total"`
	Rows    [][]string `json:"rows" yaml:"rows"`
}

type snapshotReport struct {
	DataTimestamp string        `json:"data_timestamp,omitempty" yaml:"data_timestamp,omitempty"`
	DataAge       string        `json:"data_age,omitempty" yaml:"data_age,omitempty"`
	Tables        []tableReport `json:"tables" yaml:"tables"`
}

func (cmd *snapshotCmd) Run(rt *runtime) error {
	client, err := rt.client()
	if err != nil {
		return err
	}
	controller, err := dashboard.NewController(dashboard.ControllerOptions{
		Client:    client,
		Logger:    rt.Logger,
		ChaosIcon: rt.Config.Charts.ChaosIcon,
	})
	if err != nil {
		return err
	}
	defer controller.Stop()

	if err := controller.PollOpportunities(rt.Context); err != nil {
		return err
	}
	report, err := buildSnapshotReport(controller, cmd.Filter, cmd.Limit)
	if err != nil {
		return err
	}
	return writeSnapshot(rt.Out, cmd.Format, report)
}

func buildSnapshotReport(controller *dashboard.Controller, filter string, limit int) (snapshotReport, error) {
	view := controller.View()
	report := snapshotReport{
		DataTimestamp: view.DataTimestamp,
		DataAge:       view.DataAge,
	}
	for _, grid := range view.Grids {
		page, err := controller.GridPage(grid.Definition.ID, filter, 1)
		if err != nil {
			return snapshotReport{}, err
		}
		rows := filteredRows(grid.Rows, filter)
		table := tableReport{
			Title:   grid.Definition.Title,
			Columns: grid.Definition.Columns,
			Total:   page.Filtered,
		}
		for i, row := range rows {
			if limit > 0 && i >= limit {
				break
			}
			cells := make([]string, len(row))
			for j, cell := range row {
				cells[j] = cell.Text
			}
			table.Rows = append(table.Rows, cells)
		}
		report.Tables = append(report.Tables, table)
	}
	return report, nil
}

func filteredRows(rows []dashboard.Row, filter string) []dashboard.Row {
	needle := strings.TrimSpace(filter)
	if needle == "" {
		return rows
	}
	out := make([]dashboard.Row, 0, len(rows))
	for _, row := range rows {
		if row.Matches(needle) {
			out = append(out, row)
		}
	}
	return out
}

func writeSnapshot(out io.Writer, format string, report snapshotReport) error {
	switch format {
	case formatYAML:
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(report); err != nil {
			return err
		}
		return enc.Close()
	case formatJSON:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	if report.DataTimestamp != "" {
		fmt.Fprintf(out, "Data from %s (%s)\n", report.DataTimestamp, report.DataAge)
	}
	for _, table := range report.Tables {
		fmt.Fprintf(out, "\n%s (%s)\n", table.Title, humanize.Comma(int64(table.Total)))
		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, strings.Join(table.Columns, "\t"))
		if len(table.Rows) == 0 {
			fmt.Fprintln(tw, dashboard.DefaultGridLanguage().EmptyTable)
		}
		for _, row := range table.Rows {
			fmt.Fprintln(tw, strings.Join(row, "\t"))
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}
	return nil
}

type statusCmd struct{}

func (cmd *statusCmd) Run(rt *runtime) error {
	client, err := rt.client()
	if err != nil {
		return err
	}
	info, err := client.FetchStatus(rt.Context)
	if err != nil {
		return err
	}
	writeStatus(rt.Out, info, time.Now())
	return nil
}

func writeStatus(out io.Writer, info dashboard.StatusInfo, now time.Time) {
	fmt.Fprintf(out, "Status:       %s\n", info.Status)
	if info.LastUpdate != nil {
		fmt.Fprintf(out, "Last update:  %s (%s)\n",
			dashboard.FormatDateTime(*info.LastUpdate, time.Local),
			humanize.RelTime(*info.LastUpdate, now, "ago", "from now"))
	} else {
		fmt.Fprintf(out, "Last update:  %s\n", dashboard.StatusTextNever)
	}
	if info.NextUpdate != nil {
		fmt.Fprintf(out, "Next update:  %s\n", dashboard.FormatTimeRemaining(*info.NextUpdate))
	} else {
		fmt.Fprintf(out, "Next update:  %s\n", dashboard.StatusTextUnknown)
	}
	if info.UpdateInterval > 0 {
		fmt.Fprintf(out, "Interval:     %s\n", time.Duration(info.UpdateInterval)*time.Second)
	}
}

type updateCmd struct{}

func (cmd *updateCmd) Run(rt *runtime) error {
	client, err := rt.client()
	if err != nil {
		return err
	}
	result, err := client.TriggerUpdate(rt.Context)
	if err != nil {
		return fmt.Errorf("%s%w", dashboard.MessageUpdateFailed, err)
	}
	if !result.Succeeded() {
		message := result.Message
		if message == "" {
			message = dashboard.MessageUnknownError
		}
		return fmt.Errorf("%s%s", dashboard.MessageUpdateFailed, message)
	}
	fmt.Fprintln(rt.Out, dashboard.MessageUpdateSuccess)
	return nil
}

type leaguesCmd struct{}

func (cmd *leaguesCmd) Run(rt *runtime) error {
	client, err := rt.client()
	if err != nil {
		return err
	}
	leagues, err := client.FetchLeagues(rt.Context)
	if err != nil {
		return err
	}
	for _, league := range leagues.Leagues {
		marker := " "
		if league == leagues.Primary {
			marker = "*"
		}
		fmt.Fprintf(rt.Out, "%s %s\n", marker, league)
	}
	return nil
}
