package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/raborimet/crm-api/internal/apiclient"
	"github.com/raborimet/crm-api/internal/bootstrap"
)

// runtime bundles the session, client and guard shared by all commands. It is
// built once per invocation, after flag parsing.
type runtime struct {
	sessions *apiclient.SessionManager
	client   *apiclient.Client
	guard    *apiclient.Guard
}

var sharedRuntime *runtime

func getRuntime() (*runtime, error) {
	if sharedRuntime != nil {
		return sharedRuntime, nil
	}

	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		return nil, err
	}

	statePath := cfg.Client.StateFile
	if statePath == "" {
		configDir, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("resolve user config dir: %w", err)
		}
		statePath = filepath.Join(configDir, "raborimet", "session.json")
	}

	store, err := apiclient.NewFileStore(statePath)
	if err != nil {
		return nil, fmt.Errorf("open session store: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))

	sessions, err := apiclient.NewSessionManager(apiclient.SessionManagerOptions{
		Store:  store,
		Logger: logger,
		Navigate: func(target string) {
			if target == apiclient.LoginTarget {
				fmt.Fprintln(os.Stderr, "session ended; run 'raborimet login' to sign in again")
			}
		},
	})
	if err != nil {
		return nil, err
	}

	client, err := apiclient.New(apiclient.Options{
		BaseURL:  cfg.Client.APIURL,
		Sessions: sessions,
	})
	if err != nil {
		return nil, err
	}

	if err := sessions.Initialize(); err != nil {
		return nil, fmt.Errorf("restore session: %w", err)
	}

	sharedRuntime = &runtime{
		sessions: sessions,
		client:   client,
		guard:    apiclient.NewGuard(sessions),
	}
	return sharedRuntime, nil
}

// requireAccess builds the runtime and evaluates the route access decision
// for the given policy. Denials become errors carrying the redirect target.
func requireAccess(ctx context.Context, policy apiclient.Policy) (*runtime, error) {
	rt, err := getRuntime()
	if err != nil {
		return nil, err
	}
	decision := rt.guard.Evaluate(ctx, policy)
	if decision.Allowed {
		return rt, nil
	}
	if decision.RedirectTo == apiclient.LoginTarget {
		return nil, fmt.Errorf("access denied (redirect %s): run 'raborimet login' first", decision.RedirectTo)
	}
	return nil, fmt.Errorf("access denied (redirect %s): %s privileges required", decision.RedirectTo, policy)
}

// printResult renders v as indented JSON when --json is set and returns true.
func printResult(v any) (bool, error) {
	if !outputJSON {
		return false, nil
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return true, err
	}
	return true, nil
}

func newTable() *tabwriter.Writer {
	return tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
}
