package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"ridetrail/internal/config"
	"ridetrail/internal/geolocation"
	"ridetrail/internal/maptheme"
	"ridetrail/internal/navshell"
	"ridetrail/internal/recorder"
	"ridetrail/internal/remote"
	"ridetrail/internal/review"
	"ridetrail/internal/session"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// consoleNotifier surfaces the in-app notices on the terminal.
type consoleNotifier struct{}

func (consoleNotifier) Notify(title, message string) {
	fmt.Printf("[%s] %s\n", title, message)
}

type trackerApp struct {
	cfg      config.TrackerConfig
	session  *session.Store
	remote   remote.Store
	caps     geolocation.Capabilities
	notifier geolocation.Notifier
}

// newApp assembles the client core from the environment config and restores
// the persisted session. Capabilities are requested eagerly so a denial
// surfaces one notice up front; the app stays usable either way.
func newApp(ctx context.Context) *trackerApp {
	cfg := config.LoadTracker()
	store := remote.NewHTTPStore(cfg.APIBaseURL)
	notifier := consoleNotifier{}

	var caps geolocation.Capabilities
	if cfg.Platform == "ios" {
		caps = &geolocation.AdvisoryCapabilities{Notifier: notifier}
	} else {
		caps = &geolocation.StrictCapabilities{
			Granter: geolocation.AlwaysGrant{Deny: !cfg.LocationGrant},
		}
	}
	if err := caps.Request(ctx); err != nil {
		notifier.Notify("Permission Denied",
			"Location permissions are required to track your ride.")
	}

	sess := session.NewStore(store, cfg.StateDir)
	sess.Restore()

	return &trackerApp{
		cfg:      cfg,
		session:  sess,
		remote:   store,
		caps:     caps,
		notifier: notifier,
	}
}

func (a *trackerApp) requireUser() error {
	if a.session.User() == nil {
		return errors.New("not signed in, run `tracker login` first")
	}
	return nil
}

func (a *trackerApp) provider() geolocation.Provider {
	if a.cfg.GpsdAddr == "demo" {
		return geolocation.NewReplayProvider(demoTrail(), 500*time.Millisecond)
	}
	return geolocation.NewGPSDProvider(a.cfg.GpsdAddr)
}

// demoTrail is a short loop around Merbabu used when no gpsd is reachable.
func demoTrail() []geolocation.Position {
	base := time.Now().UnixMilli()
	return []geolocation.Position{
		{Latitude: -7.4550, Longitude: 110.4400, Timestamp: base},
		{Latitude: -7.4545, Longitude: 110.4412, Timestamp: base + 2000},
		{Latitude: -7.4538, Longitude: 110.4425, Timestamp: base + 4000},
		{Latitude: -7.4531, Longitude: 110.4421, Timestamp: base + 6000},
		{Latitude: -7.4527, Longitude: 110.4408, Timestamp: base + 8000},
	}
}

func promptCredentials() (string, string, error) {
	reader := bufio.NewReader(os.Stdin)
	fmt.Print("Email: ")
	email, err := reader.ReadString('\n')
	if err != nil {
		return "", "", err
	}
	fmt.Print("Password: ")
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", "", err
	}
	return strings.TrimSpace(email), string(password), nil
}

var rootCmd = &cobra.Command{
	Use:   "tracker",
	Short: "Record and review GPS ride trails",
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and persist the session",
	RunE: func(cmd *cobra.Command, args []string) error {
		a := newApp(cmd.Context())

		email, password, err := promptCredentials()
		if err != nil {
			return err
		}
		if err := a.session.SignIn(cmd.Context(), email, password); err != nil {
			return err
		}
		fmt.Printf("Signed in as %s\n", a.session.User().Email)
		return nil
	},
}

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create an account and sign in",
	RunE: func(cmd *cobra.Command, args []string) error {
		a := newApp(cmd.Context())

		email, password, err := promptCredentials()
		if err != nil {
			return err
		}
		if err := a.session.SignUp(cmd.Context(), email, password); err != nil {
			return err
		}
		fmt.Printf("Account created for %s\n", a.session.User().Email)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and clear the persisted session",
	RunE: func(cmd *cobra.Command, args []string) error {
		a := newApp(cmd.Context())
		if err := a.session.SignOut(cmd.Context()); err != nil {
			return err
		}
		fmt.Println("Signed out.")
		return nil
	},
}

var ridesCmd = &cobra.Command{
	Use:   "rides",
	Short: "List your saved rides",
	RunE: func(cmd *cobra.Command, args []string) error {
		a := newApp(cmd.Context())
		if err := a.requireUser(); err != nil {
			return err
		}

		rides, err := a.remote.ListRides(cmd.Context(), a.session.AccessToken(), a.session.UserID())
		if err != nil {
			return err
		}
		if len(rides) == 0 {
			fmt.Println("No rides yet.")
			return nil
		}
		for _, r := range rides {
			title := r.Title
			if title == "" {
				title = "(untitled)"
			}
			fmt.Printf("%s  %s  %s  %d point(s)\n",
				r.ID,
				r.StartTime.Format("2006-01-02 15:04"),
				title,
				len(r.RouteData.Geometry.Coordinates),
			)
		}
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:   "show RIDE_ID",
	Short: "Review one ride's route",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a := newApp(cmd.Context())
		if err := a.requireUser(); err != nil {
			return err
		}

		ride := review.Load(cmd.Context(), a.remote, a.session.AccessToken(), args[0])
		if ride == nil {
			fmt.Println("Ride not found.")
			return nil
		}

		coords := review.Coordinates(ride)
		fmt.Printf("Ride %s  %s -> %s\n", ride.ID,
			ride.StartTime.Format("2006-01-02 15:04:05"),
			ride.EndTime.Format("15:04:05"))
		fmt.Printf("Tiles: %s\n", maptheme.TileURL(a.cfg.Theme))
		for _, c := range coords {
			fmt.Printf("  %.6f, %.6f\n", c.Latitude, c.Longitude)
		}
		return nil
	},
}

var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Record a ride until `end` is entered",
	Long: `Starts capturing positions and reads lifecycle commands from stdin:
  bg   simulate the app moving to the background
  fg   simulate the app returning to the foreground
  end  stop recording and submit the ride`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a := newApp(cmd.Context())
		if err := a.requireUser(); err != nil {
			return err
		}

		rec := recorder.New(a.provider(), a.caps, a.remote, a.session, a.notifier)
		if err := rec.Start(cmd.Context()); err != nil {
			return err
		}
		fmt.Println("Recording. Commands: bg, fg, end")

		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			switch strings.TrimSpace(scanner.Text()) {
			case "bg":
				rec.AppStateChange(recorder.AppStateBackground)
			case "fg":
				rec.AppStateChange(recorder.AppStateActive)
			case "end":
				rideID, err := rec.End(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Printf("Ride saved: %s\n", rideID)
				return nil
			case "":
			default:
				fmt.Println("Unknown command. Commands: bg, fg, end")
			}
		}
		// stdin closed mid-ride, submit what we have
		if rec.State() != recorder.StateIdle {
			rideID, err := rec.End(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("Ride saved: %s\n", rideID)
		}
		return scanner.Err()
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current screen set and session",
	RunE: func(cmd *cobra.Command, args []string) error {
		a := newApp(cmd.Context())
		shell := navshell.New(a.session)

		fmt.Printf("Screen set: %s\n", shell.Current())
		if u := a.session.User(); u != nil {
			fmt.Printf("Signed in:  %s\n", u.Email)
		}
		for _, screen := range shell.Screens() {
			fmt.Printf("  - %s\n", screen)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(signupCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(ridesCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(recordCmd)
	rootCmd.AddCommand(statusCmd)
}
