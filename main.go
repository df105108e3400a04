package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/go-openapi/strfmt"
	"github.com/jedib0t/go-pretty/text"
	"github.com/mrnavastar/modlaunch/api"
	"github.com/mrnavastar/modlaunch/installer"
	"github.com/mrnavastar/modlaunch/launcher"
	"github.com/mrnavastar/modlaunch/process"
	"github.com/mrnavastar/modlaunch/services"
	"github.com/mrnavastar/modlaunch/util"
	"github.com/mrnavastar/modlaunch/util/fileutils"
	"github.com/pterm/pterm"
	"github.com/urfave/cli/v2"
)

func defaultHome() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".modlaunch"
	}
	return filepath.Join(dir, "modlaunch")
}

func loadState(c *cli.Context) (fileutils.State, error) {
	return fileutils.LoadAppState(c.String("home"))
}

// profileArg returns the profile named by the first argument, or the active
// one.
func profileArg(c *cli.Context, state fileutils.State) (util.Profile, error) {
	if name := c.Args().First(); name != "" {
		return services.GetProfile(state, name)
	}
	return services.GetActiveProfile(state)
}

func newLauncher(c *cli.Context, state fileutils.State, profile util.Profile) (*launcher.Launcher, error) {
	cfg, err := services.Configuration(profile)
	if err != nil {
		return nil, err
	}
	l := launcher.New(c.App.Name,
		launcher.WithUpdater(&installer.Installer{
			Java:   c.String("java"),
			Jar:    state.InstallerPath(),
			Output: os.Stdout,
		}),
		launcher.WithProcessLauncher(&process.Spawner{
			Java:   c.String("java"),
			Brand:  c.App.Name,
			Stdout: os.Stdout,
			Stderr: os.Stderr,
		}),
	)
	l.SetConfig(cfg)
	return l, nil
}

func printTable(headers []string, rows [][]string) {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	fmt.Println()
	for i, h := range headers {
		fmt.Print(text.AlignDefault.Apply(h, widths[i]+2))
	}
	fmt.Println()
	for _, row := range rows {
		for i, cell := range row {
			if i == 0 {
				cell = text.Bold.Sprint(text.AlignDefault.Apply(cell, widths[i]+2))
			} else {
				cell = text.AlignDefault.Apply(cell, widths[i]+2)
			}
			fmt.Print(cell)
		}
		fmt.Println()
	}
	fmt.Println()
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "modlaunch",
		Usage: "Install, mod and launch Minecraft profiles",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "home",
				Usage:   "directory holding profiles and launcher state",
				EnvVars: []string{"MODLAUNCH_HOME"},
				Value:   defaultHome(),
			},
			&cli.StringFlag{
				Name:    "java",
				Usage:   "java binary used for the installer and the game",
				EnvVars: []string{"MODLAUNCH_JAVA"},
				Value:   "java",
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "init",
				Usage: "Set up modlaunch and fetch the installer",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "installer-meta",
						Usage:   "URL listing installer releases",
						EnvVars: []string{"MODLAUNCH_INSTALLER_META"},
					},
				},
				Action: func(c *cli.Context) error {
					home := c.String("home")
					if err := fileutils.Setup(home); err != nil {
						return err
					}
					state, err := fileutils.LoadAppState(home)
					if err != nil {
						return err
					}

					meta := c.String("installer-meta")
					if meta == "" {
						pterm.Warning.Println("No installer source given, skipping installer download. " +
							"update will not work until init is run again with --installer-meta")
						return nil
					}
					latest, err := api.GetLatestInstaller(c.Context, meta)
					if err != nil {
						return err
					}
					if !installer.NeedsUpdate(state.InstallerVersion, latest.Version) {
						pterm.Success.Println("Installer is up to date")
						return nil
					}

					progress := &progressPrinter{}
					err = installer.Fetch(c.Context, latest.Url, state.InstallerPath(), progress)
					progress.stop()
					if err != nil {
						return err
					}
					state.InstallerVersion = latest.Version
					if err := fileutils.SaveAppState(state); err != nil {
						return err
					}
					pterm.Success.Println("Installed installer v" + latest.Version)
					return nil
				},
			},
			{
				Name:    "ls",
				Aliases: []string{"list"},
				Usage:   "List all profiles",
				Action: func(c *cli.Context) error {
					state, err := loadState(c)
					if err != nil {
						return err
					}

					var rows [][]string
					for _, profile := range state.Profiles {
						loader := "vanilla"
						if profile.Loader != "" {
							loader = profile.Loader + " " + profile.LoaderVersion
						}
						name := profile.Name
						if name == state.ActiveProfile {
							name += " *"
						}
						rows = append(rows, []string{name, profile.Version, loader, fmt.Sprint(len(profile.Mods))})
					}
					printTable([]string{"NAME:", "VERSION:", "LOADER:", "MODS:"}, rows)
					return nil
				},
			},
			{
				Name:      "make",
				Usage:     "Create a new profile",
				ArgsUsage: "<name> [version]",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "loader", Usage: "forge, neoforge, fabric or quilt"},
					&cli.StringFlag{Name: "loader-version", Value: api.Latest},
				},
				Action: func(c *cli.Context) error {
					name := c.Args().Get(0)
					if name == "" {
						return errors.New("a profile name is required")
					}
					version := c.Args().Get(1)
					if version == "" {
						version = api.Latest
					}

					state, err := loadState(c)
					if err != nil {
						return err
					}

					pterm.Info.Println("Creating " + name)
					profile, err := services.CreateProfile(c.Context, &state, name, version, c.String("loader"), c.String("loader-version"))
					if err != nil {
						return err
					}
					pterm.Success.Printfln("Created %s (%s)", profile.Name, profile.Version)
					return services.SetActiveProfile(&state, profile.Name)
				},
			},
			{
				Name:      "use",
				Usage:     "Make a profile the active one",
				ArgsUsage: "<name>",
				Action: func(c *cli.Context) error {
					state, err := loadState(c)
					if err != nil {
						return err
					}
					if err := services.SetActiveProfile(&state, c.Args().First()); err != nil {
						return err
					}
					pterm.Info.Println("Now modifying " + state.ActiveProfile)
					return nil
				},
			},
			{
				Name:      "rm",
				Aliases:   []string{"remove"},
				Usage:     "Remove a profile",
				ArgsUsage: "<name>",
				Action: func(c *cli.Context) error {
					state, err := loadState(c)
					if err != nil {
						return err
					}
					name := c.Args().First()
					if err := services.DeleteProfile(&state, name); err != nil {
						if errors.Is(err, services.ErrProfileNotFound) {
							pterm.Warning.Println("Failed to find a profile with that name")
							return nil
						}
						return err
					}
					pterm.Success.Println("Removed " + name)
					return nil
				},
			},
			{
				Name:      "install",
				Usage:     "Add mods to the active profile",
				ArgsUsage: "<slug|query|file.jar>...",
				Action: func(c *cli.Context) error {
					state, err := loadState(c)
					if err != nil {
						return err
					}
					profile, err := services.GetActiveProfile(state)
					if err != nil {
						return err
					}

					for _, arg := range c.Args().Slice() {
						mod, err := services.AddMod(c.Context, &profile, arg)
						switch {
						case errors.Is(err, services.ErrModAlreadyAdded):
							pterm.Warning.Println(arg + " has already been added")
						case errors.Is(err, services.ErrModNotFound), errors.Is(err, api.ErrVersionNotFound):
							pterm.Warning.Println("Could not find mod under " + arg)
						case err != nil:
							return err
						default:
							pterm.Success.Printfln("Added %s %s", mod.Name, mod.Version)
						}
					}
					return services.SaveProfile(&state, profile)
				},
			},
			{
				Name:      "uninstall",
				Usage:     "Remove mods from the active profile",
				ArgsUsage: "<mod>...",
				Action: func(c *cli.Context) error {
					state, err := loadState(c)
					if err != nil {
						return err
					}
					profile, err := services.GetActiveProfile(state)
					if err != nil {
						return err
					}

					for _, arg := range c.Args().Slice() {
						mod, err := services.RemoveMod(&profile, arg)
						if errors.Is(err, services.ErrModNotFound) {
							pterm.Warning.Println("No mod named " + arg)
							continue
						}
						if err != nil {
							return err
						}
						pterm.Success.Println("Uninstalled " + mod.Name)
					}
					return services.SaveProfile(&state, profile)
				},
			},
			{
				Name:  "lsmod",
				Usage: "List mods of the active profile",
				Action: func(c *cli.Context) error {
					state, err := loadState(c)
					if err != nil {
						return err
					}
					profile, err := services.GetActiveProfile(state)
					if err != nil {
						return err
					}

					rows := make([][]string, 0, len(profile.Mods))
					for _, mod := range profile.Mods {
						rows = append(rows, []string{mod.Name, mod.Version, mod.Platform, mod.Filename})
					}
					printTable([]string{"NAME:", "VERSION:", "SOURCE:", "FILENAME:"}, rows)
					return nil
				},
			},
			{
				Name:      "upgrade",
				Usage:     "Move a profile's loader and mods to their newest builds",
				ArgsUsage: "[name]",
				Action: func(c *cli.Context) error {
					state, err := loadState(c)
					if err != nil {
						return err
					}
					profile, err := profileArg(c, state)
					if err != nil {
						return err
					}

					changes, err := services.UpdateProfile(c.Context, &state, profile.Name)
					if err != nil {
						return err
					}
					if len(changes) == 0 {
						pterm.Success.Println(profile.Name + " is up to date")
						return nil
					}
					for _, change := range changes {
						pterm.Success.Println(change)
					}
					return nil
				},
			},
			{
				Name:      "update",
				Usage:     "Install or repair the game files of a profile",
				ArgsUsage: "[name]",
				Action: func(c *cli.Context) error {
					state, err := loadState(c)
					if err != nil {
						return err
					}
					profile, err := profileArg(c, state)
					if err != nil {
						return err
					}
					l, err := newLauncher(c, state, profile)
					if err != nil {
						return err
					}

					progress := &progressPrinter{}
					err = l.Update(c.Context, progress)
					progress.stop()
					if errors.Is(err, installer.ErrNoInstaller) {
						return fmt.Errorf("%w, run init with --installer-meta to fetch it", err)
					}
					if err != nil {
						return err
					}
					pterm.Success.Println(profile.Name + " is installed")
					return nil
				},
			},
			{
				Name:      "launch",
				Usage:     "Start a profile",
				ArgsUsage: "[name]",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "offline", Usage: "play offline with this username", Required: true},
					&cli.StringFlag{Name: "uuid", Usage: "offline player uuid, derived from the username when empty"},
				},
				Action: func(c *cli.Context) error {
					state, err := loadState(c)
					if err != nil {
						return err
					}
					profile, err := profileArg(c, state)
					if err != nil {
						return err
					}
					l, err := newLauncher(c, state, profile)
					if err != nil {
						return err
					}

					username := c.String("offline")
					id := c.String("uuid")
					if id == "" {
						id = services.OfflineUUID(username)
					} else if !strfmt.IsUUID(id) {
						return fmt.Errorf("invalid uuid %q", id)
					}
					if err := l.AuthenticateOffline(username, id); err != nil {
						return err
					}

					game, err := l.StartGame(c.Context)
					if err != nil {
						return err
					}
					profile.LastUsed = time.Now().Format(time.RFC3339)
					if err := services.SaveProfile(&state, profile); err != nil {
						pterm.Warning.Println("Could not record last use: " + err.Error())
					}

					select {
					case code := <-game.Exited():
						if code != 0 {
							return cli.Exit(fmt.Sprintf("game exited with code %d", code), code)
						}
					case <-c.Context.Done():
						_ = game.Process().Kill()
						<-game.Exited()
					}
					return nil
				},
			},
			{
				Name:        "logout",
				Usage:       "Forget the refresh token an embedding application stored for an account",
				Description: "modlaunch itself only plays offline and never stores tokens; applications that inject an authenticator do.",
				ArgsUsage:   "<account>",
				Action: func(c *cli.Context) error {
					if err := services.ForgetRefreshToken(c.Args().First()); err != nil {
						return err
					}
					pterm.Success.Println("Logged out " + c.Args().First())
					return nil
				},
			},
		},
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	util.Fatal(newApp().RunContext(ctx, os.Args))
}
