// Package rrd feeds interface octet counters into one round-robin database per
// interface through the rrdtool command.
package rrd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"network-rrd/bin"
	model_entry "network-rrd/models/if_entry"
	model_device "network-rrd/models/network_device"
	"network-rrd/pkg/config"
	"network-rrd/util"
)

// Runner executes the rrd command. bin.RunCommand in production.
type Runner func(ctx context.Context, filename string, args ...string) ([]byte, error)

type Updater struct {
	Dir     string
	Command string
	Step    int
	run     Runner
}

func NewUpdater(cfg config.RRD) *Updater {
	return NewUpdaterWithRunner(cfg, bin.RunCommand)
}

func NewUpdaterWithRunner(cfg config.RRD, run Runner) *Updater {
	step := cfg.Step
	if step <= 0 {
		step = 300
	}
	command := cfg.Command
	if command == "" {
		command = "rrdtool"
	}
	return &Updater{
		Dir:     cfg.Dir,
		Command: command,
		Step:    step,
		run:     run,
	}
}

func (u *Updater) Name() string {
	return "rrd"
}

func (u *Updater) Path(hostname, index string) string {
	return filepath.Join(u.Dir, util.SanitizeFileName(hostname)+"_if"+index+".rrd")
}

// CreateArgs keeps five-minute averages for a week and hourly averages and
// maxima for two months at the default step.
func (u *Updater) CreateArgs(path string) []string {
	heartbeat := strconv.Itoa(2 * u.Step)
	return []string{
		"create", path,
		"--step", strconv.Itoa(u.Step),
		"DS:in:COUNTER:" + heartbeat + ":0:U",
		"DS:out:COUNTER:" + heartbeat + ":0:U",
		"RRA:AVERAGE:0.5:1:2016",
		"RRA:AVERAGE:0.5:12:1488",
		"RRA:MAX:0.5:12:1488",
	}
}

func (u *Updater) UpdateArgs(path string, r model_entry.InterfaceRecord, at int64) []string {
	return []string{
		"update", path,
		fmt.Sprintf("%d:%s:%s", at, counter(r.InOctets), counter(r.OutOctets)),
	}
}

// counter passes a value through when it is an unsigned integer and marks it
// unknown otherwise.
func counter(v string) string {
	if _, err := strconv.ParseUint(v, 10, 64); err != nil {
		return "U"
	}
	return v
}

// Write creates missing databases and records one sample per interface.
func (u *Updater) Write(ctx context.Context, device *model_device.NetworkDevice) error {
	if err := os.MkdirAll(u.Dir, 0o755); err != nil {
		return fmt.Errorf("create rrd dir %s: %w", u.Dir, err)
	}

	at := device.Time.Unix()
	for _, r := range device.Interfaces {
		path := u.Path(device.Hostname, r.Index)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			if out, err := u.run(ctx, u.Command, u.CreateArgs(path)...); err != nil {
				return fmt.Errorf("rrd create %s: %w: %s", path, err, out)
			}
		}
		if out, err := u.run(ctx, u.Command, u.UpdateArgs(path, r, at)...); err != nil {
			return fmt.Errorf("rrd update %s: %w: %s", path, err, out)
		}
	}
	return nil
}
