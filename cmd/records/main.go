// records inspects the player records table.
//
// Usage:
//
//	go run ./cmd/records <command> [-config path] [-n count]
//
// Commands: top, show <code_name>, migrate
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/flappyball/core/internal/config"
	"github.com/flappyball/core/internal/persist"
	"go.uber.org/zap"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	cmd := os.Args[1]

	fs := flag.NewFlagSet(cmd, flag.ExitOnError)
	cfgPath := fs.String("config", "config/flappy.toml", "config file")
	n := fs.Int("n", 10, "rows for top")
	fs.Parse(os.Args[2:])

	if err := run(cmd, *cfgPath, *n, fs.Args()); err != nil {
		fmt.Fprintf(os.Stderr, "records: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: records <top|show|migrate> [-config path] [-n count] [code_name]")
}

func run(cmd, cfgPath string, n int, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Open applies migrations, which is all migrate needs.
	db, err := persist.Open(ctx, cfg.Database, zap.NewNop())
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer db.Close()
	players := persist.NewPlayerRepo(db)

	switch cmd {
	case "migrate":
		fmt.Println("migrations applied")
	case "top":
		rows, err := players.Top(ctx, n)
		if err != nil {
			return fmt.Errorf("top: %w", err)
		}
		fmt.Printf("%-4s %-20s %8s %8s %6s\n", "#", "player", "record", "gold", "games")
		for i, p := range rows {
			fmt.Printf("%-4d %-20s %8d %8d %6d\n", i+1, p.CodeName, p.Record, p.Gold, p.Games)
		}
	case "show":
		if len(args) != 1 {
			return fmt.Errorf("show needs exactly one code name")
		}
		p, err := players.Load(ctx, args[0])
		if err != nil {
			return fmt.Errorf("load %s: %w", args[0], err)
		}
		if p == nil {
			return fmt.Errorf("no player %q", args[0])
		}
		fmt.Printf("player   %s\nrecord   %d\ngold     %d\ngames    %d\njoined   %s\n",
			p.CodeName, p.Record, p.Gold, p.Games, p.CreatedAt.Format(time.DateOnly))
		if p.LastPlayed != nil {
			fmt.Printf("played   %s\n", p.LastPlayed.Format(time.DateTime))
		}
	default:
		usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
	return nil
}
