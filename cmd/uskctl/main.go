// uskctl is a small operator client for the backup service. It drives the
// HTTP surface from the command line, e.g.:
//
//	uskctl -server http://localhost:8000 status example.com
//	uskctl -password secret backup < payload.json
//	uskctl -password secret restore example.com
//	uskctl delete example.com
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"
)

func main() {
	var (
		serverURL string
		password  string
		timeout   time.Duration
	)

	flag.StringVar(&serverURL, "server", "http://localhost:8000", "Backup service base URL")
	flag.StringVar(&password, "password", "", "Encryption password sent via the X-USK-Password header")
	flag.DurationVar(&timeout, "timeout", 15*time.Second, "Request timeout")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(2)
	}

	cli := newClient(serverURL, password, timeout)
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	out, err := run(ctx, cli, args)
	if err != nil {
		fmt.Fprintln(os.Stderr, "uskctl:", err)
		os.Exit(1)
	}

	fmt.Println(out)
}

func run(ctx context.Context, cli *client, args []string) (string, error) {
	command := args[0]

	switch command {
	case "health":
		return cli.health(ctx)
	case "init":
		return cli.initSchema(ctx)
	case "status":
		domain, err := domainArg(args)
		if err != nil {
			return "", err
		}
		return cli.status(ctx, domain)
	case "backup":
		// the request body (domain, cookies, local_storage) comes from stdin
		body, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read payload from stdin: %w", err)
		}
		return cli.backup(ctx, body)
	case "restore":
		domain, err := domainArg(args)
		if err != nil {
			return "", err
		}
		return cli.restore(ctx, domain)
	case "delete":
		domain, err := domainArg(args)
		if err != nil {
			return "", err
		}
		return cli.delete(ctx, domain)
	default:
		return "", fmt.Errorf("unknown command %q", command)
	}
}

func domainArg(args []string) (string, error) {
	if len(args) < 2 || args[1] == "" {
		return "", fmt.Errorf("command %q requires a domain argument", args[0])
	}
	return args[1], nil
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: uskctl [flags] <command> [domain]

commands:
  health            check the service is up
  init              re-run schema initialization on the active backend
  status <domain>   show backup existence and last update time
  backup            save a backup; JSON payload is read from stdin
  restore <domain>  fetch a backup (use -password for encrypted ones)
  delete <domain>   remove a backup

flags:`)
	flag.PrintDefaults()
}
