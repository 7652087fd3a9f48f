package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/yberkay/tudu/internal/auth"
	"github.com/yberkay/tudu/internal/config"
	"github.com/yberkay/tudu/internal/logging"
	"github.com/yberkay/tudu/internal/model"
	"github.com/yberkay/tudu/internal/remote"
	"github.com/yberkay/tudu/internal/store"
	"github.com/yberkay/tudu/internal/tui"
	"github.com/yberkay/tudu/internal/ui"
)

// Options tune output behavior from root flags.
type Options struct {
	Group  bool   // group non-interactive output by pending/done
	Filter string // all | active | done
	Sort   string // recent | id
}

// Run dispatches subcommands and returns an exit code (0 ok, 1 error, 2 usage).
func Run(args []string, opt Options) int {
	if len(args) > 0 {
		switch args[0] {
		case "help", "-h", "--help":
			PrintHelp()
			return 0
		}
	}

	cfg, err := config.Load()
	if err != nil {
		ui.Fail("config: " + err.Error())
		return 1
	}
	ui.SetTheme(cfg.UI.Theme)

	log, closeLog, err := logging.Open(cfg.LogFile)
	if err != nil {
		ui.Fail("logging: " + err.Error())
		return 1
	}
	if closeLog != nil {
		defer closeLog()
	}

	if len(args) == 0 {
		args = []string{"ls"}
	}
	cmd, a := args[0], args[1:]
	log.Debug().Str("cmd", cmd).Msg("dispatch")

	switch cmd {
	case "ls":
		return doList(cfg, log, opt)

	case "fetch":
		return doFetch(cfg, log, opt)

	case "config":
		return doConfig(cfg)

	case "auth":
		if len(a) == 0 {
			ui.Fail("usage: tudu auth <login|logout|status|whoami>")
			return 2
		}
		switch a[0] {
		case "login":
			return doAuthLogin()
		case "logout":
			return doAuthLogout()
		case "status":
			return doAuthStatus()
		case "whoami":
			return doAuthWhoAmI()
		default:
			ui.Fail("usage: tudu auth <login|logout|status|whoami>")
			return 2
		}
	}

	ui.Fail("unknown subcommand: " + cmd)
	fmt.Fprintln(os.Stderr)
	PrintHelp()
	return 2
}

func PrintHelp() {
	fmt.Printf(`tudu - todos in your terminal, seeded from a placeholder API

Usage:
  tudu [flags] <subcommand> [args]

Subcommands:
  ls                 Interactive list (default). Fetches on startup; add,
                     edit, toggle, delete, filter and sort from the keyboard.
  fetch              Fetch once and print the list, honoring -filter/-sort
  config             Show the resolved configuration
  auth <login|logout|status|whoami>   Bearer token management
  help               This text

Flags:
  -filter all|active|done   restrict fetch output
  -sort recent|id           order fetch output
  -group                    group fetch output by pending/done

Config: ~/.tudu/config.yaml, overridden by TUDU_API_URL, TUDU_USER_ID,
TUDU_TIMEOUT, TUDU_THEME, TUDU_LOG_FILE and TUDU_TOKEN.
`)
}

// newClient wires the remote loader from config plus the stored token.
func newClient(cfg config.Config, log zerolog.Logger) (*remote.Client, error) {
	timeout, err := cfg.FetchTimeout()
	if err != nil {
		return nil, err
	}
	opts := []remote.Option{
		remote.WithTimeout(timeout),
		remote.WithUserID(cfg.API.UserID),
		remote.WithLogger(log),
	}
	if ti, err := auth.Get(); err == nil && ti != nil {
		opts = append(opts, remote.WithToken(ti.Token))
	}
	return remote.New(cfg.API.URL, opts...), nil
}

func parseView(opt Options) (model.Filter, model.SortBy, error) {
	f, err := model.ParseFilter(opt.Filter)
	if err != nil {
		return f, 0, err
	}
	s, err := model.ParseSortBy(opt.Sort)
	return f, s, err
}

// ---------------------------------------------------
// Subcommands
// ---------------------------------------------------

func doList(cfg config.Config, log zerolog.Logger, opt Options) int {
	client, err := newClient(cfg, log)
	if err != nil {
		ui.Fail(err.Error())
		return 2
	}
	f, s, err := parseView(opt)
	if err != nil {
		ui.Fail(err.Error())
		return 2
	}

	st := store.New(store.WithLogger(log))
	st.SetFilter(f)
	st.SetSortBy(s)

	if err := tui.Run(st, client); err != nil {
		ui.Fail("tui: " + err.Error())
		return 1
	}
	return 0
}

func doFetch(cfg config.Config, log zerolog.Logger, opt Options) int {
	client, err := newClient(cfg, log)
	if err != nil {
		ui.Fail(err.Error())
		return 2
	}
	f, s, err := parseView(opt)
	if err != nil {
		ui.Fail(err.Error())
		return 2
	}

	st := store.New(store.WithLogger(log))
	st.SetFilter(f)
	st.SetSortBy(s)

	if err := st.Load(context.Background(), client); err != nil {
		ui.Fail(err.Error())
		return 1
	}

	printList(st, opt.Group)
	return 0
}

func printList(st *store.Store, group bool) {
	t := ui.Current()
	items := st.Visible()
	done, pending := model.Stats(st.Items())

	header := fmt.Sprintf("%s  %s  %s",
		t.Title.Render("Todos"),
		ui.ProgressBar(done, done+pending, 24),
		t.Muted.Render(fmt.Sprintf("filter:%s sort:%s", st.Filter(), st.SortBy())),
	)
	lines := []string{header, ""}
	switch {
	case len(items) == 0:
		lines = append(lines, t.Muted.Render("(nothing to show)"))
	case group:
		lines = append(lines, groupedLines(t, items)...)
	default:
		for _, it := range items {
			lines = append(lines, renderLine(t, it))
		}
	}
	fmt.Println(ui.Panel(lines))
}

// groupedLines splits the visible set into pending and done sections,
// keeping the active sort within each.
func groupedLines(t ui.Theme, items []model.Todo) []string {
	var lines []string
	lines = append(lines, t.Pending.Render(t.SymPending+" Pending"))
	for _, it := range items {
		if !it.Completed {
			lines = append(lines, "  "+renderLine(t, it))
		}
	}
	lines = append(lines, "", t.Success.Render(t.SymDone+" Done"))
	for _, it := range items {
		if it.Completed {
			lines = append(lines, "  "+renderLine(t, it))
		}
	}
	return lines
}

func renderLine(t ui.Theme, it model.Todo) string {
	box := t.Muted.Render(t.BoxUnchecked)
	title := it.Title
	if it.Completed {
		box = t.Success.Render(t.BoxChecked)
		title = t.Done.Render(title)
	}
	return fmt.Sprintf("%s %s %s", box, title, t.Muted.Render(fmt.Sprintf("#%d", it.ID)))
}

func doConfig(cfg config.Config) int {
	p, err := config.Path()
	if err != nil {
		ui.Fail(err.Error())
		return 1
	}
	timeout, _ := cfg.FetchTimeout()
	t := ui.Current()
	fmt.Println(ui.Panel([]string{
		t.Title.Render("Config") + "  " + t.Muted.Render(p),
		"",
		"api.url:     " + cfg.API.URL,
		"api.user_id: " + fmt.Sprint(cfg.API.UserID),
		"api.timeout: " + timeout.String(),
		"ui.theme:    " + cfg.UI.Theme,
		"log_file:    " + orDash(cfg.LogFile),
	}))
	return 0
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// ---------------------------------------------------
// Auth subcommands
// ---------------------------------------------------

func doAuthLogin() int {
	fmt.Print("Paste your token: ")
	var token string
	if _, err := fmt.Scanln(&token); err != nil {
		ui.Fail("read token: " + err.Error())
		return 1
	}
	if err := auth.Set(token, nil); err != nil {
		ui.Fail("save token: " + err.Error())
		return 1
	}
	ui.OK("logged in")
	return 0
}

func doAuthLogout() int {
	ti, _ := auth.Get()
	if ti != nil && ti.Source == "env" {
		ui.OK("token is provided by " + auth.EnvToken + " (nothing to delete)")
		return 0
	}
	if err := auth.Delete(); err != nil {
		ui.Fail("logout: " + err.Error())
		return 1
	}
	ui.OK("logged out")
	return 0
}

func doAuthStatus() int {
	ti, _ := auth.Get()
	t := ui.Current()
	if ti == nil {
		fmt.Println(t.Muted.Render("not logged in"))
		fmt.Println("Run: tudu auth login")
		return 0
	}
	fmt.Printf("source: %s\n", ti.Source)
	if ti.ExpiresAt != nil {
		fmt.Printf("expires: %s\n", ti.ExpiresAt.UTC().Format(time.RFC3339))
	} else {
		fmt.Println("expires: (unknown)")
	}
	fmt.Println("env override: " + auth.EnvToken)
	return 0
}

func doAuthWhoAmI() int {
	ti, _ := auth.Get()
	if ti == nil {
		ui.Fail("not logged in. Run: tudu auth login")
		return 2
	}
	if payload, ok := auth.Introspect(ti.Token); ok {
		fmt.Println("JWT payload:")
		fmt.Println(payload)
		return 0
	}
	fmt.Println("Opaque token (cannot introspect locally).")
	fmt.Println("source:", ti.Source)
	return 0
}
