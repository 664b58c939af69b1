package main

import (
	"errors"
	"fmt"
	"strconv"
	"text/tabwriter"
	"time"

	"api-relay-go/internal/history"
)

type historyCmd struct {
	List   historyListCmd   `cmd:"" default:"1" help:"List history, newest first."`
	Clear  historyClearCmd  `cmd:"" help:"Delete all unstarred items."`
	Star   historyStarCmd   `cmd:"" help:"Toggle the star on an item."`
	Rm     historyRmCmd     `cmd:"" help:"Delete one item."`
	Rename historyRenameCmd `cmd:"" help:"Name an item."`
}

type historyListCmd struct {
	Starred bool `help:"Only starred items."`
}

func (c *historyListCmd) Run(a *app) error {
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	for _, it := range a.history.List() {
		if c.Starred && !it.Starred {
			continue
		}
		star := " "
		if it.Starred {
			star = "*"
		}
		status := "-"
		if it.Response != nil {
			status = statusColor(it.Response.Status).Sprint(strconv.Itoa(it.Response.Status))
		}
		label := it.URL
		if it.Name != "" {
			label = it.Name + "  " + dim.Sprint(it.URL)
		}
		_, _ = fmt.Fprintf(tw, "%s %s\t%s\t%s\t%s\t%s\n",
			star, it.ID, it.Method, status, it.Time().Format(time.DateTime), label)
	}
	return tw.Flush()
}

type historyClearCmd struct{}

func (c *historyClearCmd) Run(a *app) error {
	before := len(a.history.List())
	if err := a.history.Clear(); err != nil {
		return err
	}
	a.logger.Info("history cleared", "removed", before-len(a.history.List()))
	return nil
}

type historyStarCmd struct {
	ID string `arg:"" help:"Item id."`
}

func (c *historyStarCmd) Run(a *app) error {
	starred, err := a.history.ToggleStar(c.ID)
	if err != nil {
		return historyErr(c.ID, err)
	}
	a.logger.Info("star toggled", "id", c.ID, "starred", starred)
	return nil
}

type historyRmCmd struct {
	ID string `arg:"" help:"Item id."`
}

func (c *historyRmCmd) Run(a *app) error {
	return historyErr(c.ID, a.history.Remove(c.ID))
}

type historyRenameCmd struct {
	ID   string `arg:"" help:"Item id."`
	Name string `arg:"" help:"New name."`
}

func (c *historyRenameCmd) Run(a *app) error {
	return historyErr(c.ID, a.history.Rename(c.ID, c.Name))
}

func historyErr(id string, err error) error {
	if errors.Is(err, history.ErrNotFound) {
		return fmt.Errorf("no history item %q", id)
	}
	return err
}
