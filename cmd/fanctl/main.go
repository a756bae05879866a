// Package main is a maintenance CLI for the fan CPLD.
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"platformagent/internal/hal"
	"platformagent/internal/logger"
	"platformagent/internal/sysfs"
)

var version = "dev"

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: fanctl [flags] <command> [args]

Commands:
  status              Show presence, fault and speed of every fan tray
  duty                Print the current duty cycle percentage
  set-duty <percent>  Set the duty cycle of all fan trays

Flags:
`)
	flag.PrintDefaults()
}

func main() {
	var (
		platformName = flag.String("platform", "as9736-64d", "Platform identifier")
		showVersion  = flag.Bool("version", false, "Show version information")
	)
	flag.Usage = usage
	flag.Parse()

	if *showVersion {
		fmt.Printf("fanctl %s\n", version)
		os.Exit(0)
	}

	// Keep log noise off the CLI output.
	_ = logger.Init(logger.Config{Level: "warn", Console: true})

	if flag.NArg() < 1 {
		usage()
		os.Exit(2)
	}

	profile, err := hal.ProfileByName(*platformName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "fanctl: %v\n", err)
		os.Exit(1)
	}
	if profile.FanTrays == 0 {
		fmt.Fprintf(os.Stderr, "fanctl: platform %s has no controllable fans\n", profile.Name)
		os.Exit(1)
	}
	util := hal.NewFanUtil(sysfs.New(), profile)

	var cmdErr error
	switch cmd := flag.Arg(0); cmd {
	case "status":
		cmdErr = runStatus(util)
	case "duty":
		cmdErr = runDuty(util)
	case "set-duty":
		if flag.NArg() != 2 {
			usage()
			os.Exit(2)
		}
		cmdErr = runSetDuty(util, flag.Arg(1))
	default:
		fmt.Fprintf(os.Stderr, "fanctl: unknown command %q\n", cmd)
		usage()
		os.Exit(2)
	}

	if cmdErr != nil {
		fmt.Fprintf(os.Stderr, "fanctl: %v\n", cmdErr)
		os.Exit(1)
	}
}

func runStatus(util *hal.FanUtil) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "FAN\tPRESENT\tFAULT\tFRONT RPM\tREAR RPM\tSTATUS")

	for fan := 1; fan <= util.NumFans(); fan++ {
		present, err := util.Present(fan)
		if err != nil {
			return err
		}
		if !present {
			fmt.Fprintf(w, "%d\tno\t-\t-\t-\t-\n", fan)
			continue
		}

		fault := "no"
		if f, err := util.Fault(fan); err != nil {
			fault = "?"
		} else if f {
			fault = "yes"
		}
		front := rpmString(util.FrontSpeedRPM(fan))
		rear := rpmString(util.RearSpeedRPM(fan))

		status := "NOT OK"
		if ok, err := util.Status(fan); err == nil && ok {
			status = "OK"
		}

		fmt.Fprintf(w, "%d\tyes\t%s\t%s\t%s\t%s\n", fan, fault, front, rear, status)
	}
	return w.Flush()
}

func rpmString(rpm int, err error) string {
	if err != nil {
		return "?"
	}
	return strconv.Itoa(rpm)
}

func runDuty(util *hal.FanUtil) error {
	duty, err := util.DutyCycle()
	if err != nil {
		return err
	}
	fmt.Printf("%d%%\n", duty)
	return nil
}

func runSetDuty(util *hal.FanUtil, arg string) error {
	percent, err := strconv.Atoi(arg)
	if err != nil {
		return fmt.Errorf("invalid duty cycle %q", arg)
	}
	if err := util.SetDutyCycle(percent); err != nil {
		return err
	}
	fmt.Printf("duty cycle set to %d%%\n", percent)
	return nil
}
