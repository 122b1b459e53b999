package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pvzzle/chainlens/internal/catalog"
	"github.com/pvzzle/chainlens/internal/dashboard"
	"github.com/pvzzle/chainlens/internal/logger"
)

const usage = `usage: chainlens [flags] <command>

commands:
  catalog               list skills and prices
  health                check that the gateway answers
  call <skill> [param]  call one skill, the placeholder is used when param is empty

flags:
`

func main() {
	var (
		api     = flag.String("api", envOr("CHAINLENS_API_URL", dashboard.DefaultBaseURL), "gateway base URL")
		animate = flag.Bool("animate", true, "narrate the x402 payment flow around calls")
		level   = flag.String("log-level", "warn", "log level")
	)
	flag.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	log, err := logger.New(*level, "text")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	client := dashboard.New(*api)
	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	switch args[0] {
	case "catalog":
		err = runCatalog(ctx, client)
	case "health":
		err = runHealth(ctx, client)
	case "call":
		if len(args) < 2 {
			flag.Usage()
			os.Exit(2)
		}
		param := ""
		if len(args) > 2 {
			param = args[2]
		}
		err = runCall(ctx, client, args[1], param, *animate)
	default:
		flag.Usage()
		os.Exit(2)
	}

	if err != nil {
		log.WithError(err).WithField("command", args[0]).Debug("command failed")
		if errors.Is(err, dashboard.ErrRequestFailed) {
			fmt.Fprintf(os.Stderr, "Request failed: is the server running at %s?\n", client.BaseURL())
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func runCatalog(ctx context.Context, client *dashboard.Client) error {
	cat, err := client.Catalog(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("network: %s\n\n", cat.Network)
	for _, s := range cat.Skills {
		fmt.Printf("%-10s %-6s %-22s %s %s\n", s.Name, s.Method, s.Endpoint, s.Price, s.Currency)
		fmt.Printf("           %s\n", s.Description)
	}
	return nil
}

func runHealth(ctx context.Context, client *dashboard.Client) error {
	if client.Healthy(ctx) {
		fmt.Printf("Server Live - %s\n", client.BaseURL())
		return nil
	}
	fmt.Println("Server Offline")
	return fmt.Errorf("%w: %s did not answer", dashboard.ErrRequestFailed, client.BaseURL())
}

func runCall(ctx context.Context, client *dashboard.Client, name, param string, animate bool) error {
	skill, ok := catalog.Default("base").Find(name)
	if !ok {
		// the gateway may expose a different catalog than the compiled default
		cat, err := client.Catalog(ctx)
		if err != nil {
			return err
		}
		if skill, ok = cat.Find(name); !ok {
			return fmt.Errorf("unknown skill %q", name)
		}
	}
	endpoint := dashboard.ExpandEndpoint(skill, param)

	steps := dashboard.FlowSteps(skill, 0)
	if animate {
		for i := 0; i < 3; i++ {
			printStep(i, steps[i])
			if i < len(dashboard.StepDelays) {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-time.After(dashboard.StepDelays[i]):
				}
			}
		}
	}

	res, err := client.Call(ctx, endpoint)
	if err != nil {
		return err
	}

	if animate {
		printStep(3, dashboard.FlowSteps(skill, res.Duration)[3])
		fmt.Println()
	}

	fmt.Printf("GET %s -> %d (%dms)\n", endpoint, res.Status, res.Duration.Milliseconds())
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, res.Data, "", "  "); err != nil {
		return fmt.Errorf("format response: %w", err)
	}
	fmt.Println(pretty.String())
	return nil
}

func printStep(i int, s dashboard.Step) {
	fmt.Printf("[%d] %-12s %s\n", i+1, s.Label, s.Desc)
}
