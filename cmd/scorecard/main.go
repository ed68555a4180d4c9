// Command scorecard is a terminal front end for the scorecard edit view.
//
//	scorecard courses [search]
//	scorecard show <scorecard-id>
//	scorecard set <scorecard-id> <player> <hole> <score>
//	scorecard delete <scorecard-id> [-yes]
//
// courses lists the catalog (optionally filtered by a name, city or state prefix) so a
// new round can be started against a course id. <player> is a player reference or a
// 1-based column number; <hole> is the 1-based hole position on the card. The API address and token come from -api / -token, or from
// SCORECARD_API / SCORECARD_TOKEN.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/trentd187/golf-scorecards/internal/client"
	"github.com/trentd187/golf-scorecards/internal/editor"
)

func main() {
	apiURL := flag.String("api", envOr("SCORECARD_API", "http://localhost:8080"), "Scorecard API base URL")
	token := flag.String("token", os.Getenv("SCORECARD_TOKEN"), "Bearer token")
	timeout := flag.Duration("timeout", client.DefaultTimeout, "Per-request timeout")
	flag.Usage = usage
	flag.Parse()

	args := flag.Args()
	if len(args) < 1 {
		usage()
		os.Exit(2)
	}
	if *token == "" {
		logger.Error.Fatalf("No token: pass -token or set SCORECARD_TOKEN")
	}

	c := client.New(*apiURL, *token)
	c.Timeout = *timeout
	ctx := context.Background()

	// courses works on the catalog, not on one scorecard, so it skips the edit view.
	if args[0] == "courses" {
		if err := listCourses(ctx, c, strings.Join(args[1:], " "), os.Stdout); err != nil {
			logger.Error.Fatalf("Failed to list courses: %v", err)
		}
		return
	}
	if len(args) < 2 {
		usage()
		os.Exit(2)
	}

	view := editor.New(c)
	cmd, id := args[0], args[1]

	state := view.Open(ctx, *token, id)
	switch state.Phase {
	case editor.NotFound:
		fmt.Println("Scorecard does not exist")
		os.Exit(1)
	case editor.Failed:
		logger.Error.Fatalf("Failed to load scorecard %s: %v", id, state.Err)
	}

	switch cmd {
	case "show":
		render(os.Stdout, view)
	case "set":
		if err := set(ctx, view, args[2:]); err != nil {
			logger.Error.Fatalf("%v", err)
		}
		render(os.Stdout, view)
	case "delete":
		fs := flag.NewFlagSet("delete", flag.ExitOnError)
		yes := fs.Bool("yes", false, "Do not ask for confirmation")
		_ = fs.Parse(args[2:])
		if err := remove(ctx, view, *yes); err != nil {
			logger.Error.Fatalf("%v", err)
		}
	default:
		usage()
		os.Exit(2)
	}
}

func set(ctx context.Context, view *editor.View, args []string) error {
	if len(args) != 3 {
		return fmt.Errorf("usage: scorecard set <scorecard-id> <player> <hole> <score>")
	}
	ref, err := playerRef(view.State(), args[0])
	if err != nil {
		return err
	}
	hole, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("hole must be a number: %q", args[1])
	}
	if holes := view.State().Matrix.Holes(); hole < 1 || hole > holes {
		return fmt.Errorf("hole %d out of range, the card has %d holes", hole, holes)
	}

	if err := view.Edit(ref, hole-1, args[2]); err != nil {
		return err
	}
	if err := view.Save(ctx); err != nil {
		return fmt.Errorf("save failed: %s", view.State().SaveError)
	}
	return nil
}

// playerRef accepts a reference as is, or a 1-based column number.
func playerRef(s editor.State, arg string) (string, error) {
	refs := s.Matrix.References()
	if n, err := strconv.Atoi(arg); err == nil {
		if n < 1 || n > len(refs) {
			return "", fmt.Errorf("player %d out of range, the card has %d players", n, len(refs))
		}
		return refs[n-1], nil
	}
	return arg, nil
}

func remove(ctx context.Context, view *editor.View, yes bool) error {
	if err := view.RequestDelete(); err != nil {
		return err
	}
	dialog := view.State().Dialog

	if !yes {
		fmt.Printf("%s\n%s\n[%s/%s] ", dialog.Title, dialog.Message, strings.ToLower(dialog.Confirm), strings.ToLower(dialog.Cancel))
		line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
		if !strings.EqualFold(strings.TrimSpace(line), dialog.Confirm) {
			view.Dismiss(editor.DismissCancel)
			fmt.Println("Kept.")
			return nil
		}
	}

	start := time.Now()
	if err := view.ConfirmDelete(ctx); err != nil {
		return fmt.Errorf("delete failed: %s", view.State().DeleteError)
	}
	logger.Debug.Printf("Deleted in %s", time.Since(start))
	fmt.Printf("Deleted. %d friend(s) updated.\n", view.State().FriendsUpdated)
	return nil
}

func usage() {
	fmt.Fprint(flag.CommandLine.Output(), `Usage:
  scorecard [flags] courses [search]
  scorecard [flags] show <scorecard-id>
  scorecard [flags] set <scorecard-id> <player> <hole> <score>
  scorecard [flags] delete <scorecard-id> [-yes]

Flags:
`)
	flag.PrintDefaults()
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
