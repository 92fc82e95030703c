package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"skillget/internal/app"
	"skillget/internal/config"
	"skillget/internal/selfupdate"
)

type ExitCoder interface {
	ExitCode() int
}

type exitError struct {
	code int
	msg  string
}

func (e *exitError) Error() string { return e.msg }
func (e *exitError) ExitCode() int { return e.code }

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if ex, ok := err.(ExitCoder); ok {
			os.Exit(ex.ExitCode())
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string
	var jsonOutput bool

	newSvc := func() (*app.Service, error) {
		return app.New(app.Options{ConfigPath: configPath, Version: config.Version})
	}

	cmd := &cobra.Command{
		Use:           "skillget",
		Short:         "Install skills from git repositories into your coding agents",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")
	cmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output JSON")

	cmd.AddCommand(newInstallCmd(newSvc, &jsonOutput))
	cmd.AddCommand(newSearchCmd(newSvc, &jsonOutput))
	cmd.AddCommand(newAgentsCmd(newSvc, &jsonOutput))
	cmd.AddCommand(newFavCmd(newSvc, &jsonOutput))
	cmd.AddCommand(newDoctorCmd(newSvc, &jsonOutput))
	cmd.AddCommand(newUpgradeCmd(newSvc, &jsonOutput))
	cmd.AddCommand(newVersionCmd(&jsonOutput))

	return cmd
}

func newInstallCmd(newSvc func() (*app.Service, error), jsonOutput *bool) *cobra.Command {
	var global bool
	var listOnly bool
	var yes bool
	var agents []string
	var skills []string

	cmd := &cobra.Command{
		Use:     "install <source>",
		Aliases: []string{"add", "get"},
		Short:   "Discover and install skills from a repository or local path",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newSvc()
			if err != nil {
				return err
			}
			plan, cleanup, err := svc.Plan(cmd.Context(), args[0], skills, agents)
			defer cleanup()
			if err != nil {
				return err
			}

			if listOnly {
				return printCatalog(cmd.OutOrStdout(), *jsonOutput, plan)
			}

			if !yes {
				ok, err := confirm(cmd.InOrStdin(), cmd.OutOrStdout(), plan)
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "aborted")
					return nil
				}
			}

			outcomes := svc.Execute(plan, global)
			if *jsonOutput {
				return printJSON(outcomes)
			}
			failed := 0
			for _, o := range outcomes {
				if o.Success {
					fmt.Fprintf(cmd.OutOrStdout(), "%s installed %s -> %s (%s)\n", color.GreenString("ok"), o.Skill, o.Path, o.Agent)
				} else {
					failed++
					fmt.Fprintf(cmd.OutOrStdout(), "%s %s -> %s: %s\n", color.RedString("failed"), o.Skill, o.Agent, o.Error)
				}
			}
			if failed > 0 {
				return &exitError{code: 1, msg: fmt.Sprintf("%d of %d installations failed", failed, len(outcomes))}
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&global, "global", "g", false, "install to global agent directories")
	cmd.Flags().BoolVar(&listOnly, "list", false, "list discovered skills without installing")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	cmd.Flags().StringSliceVar(&agents, "agent", nil, "target agent (repeatable; default: detected agents)")
	cmd.Flags().StringSliceVar(&skills, "skill", nil, "skill name to install (repeatable; default: all discovered)")
	return cmd
}

func printCatalog(w io.Writer, jsonOutput bool, plan *app.Plan) error {
	if jsonOutput {
		blob, err := json.MarshalIndent(plan.Skills, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(w, string(blob))
		return nil
	}
	for _, sk := range plan.Skills {
		fmt.Fprintf(w, "- %s: %s\n  %s\n", color.CyanString(plan.Display[sk.Path]), sk.Description, sk.Path)
	}
	return nil
}

func confirm(in io.Reader, out io.Writer, plan *app.Plan) (bool, error) {
	agentNames := make([]string, 0, len(plan.Agents))
	for _, a := range plan.Agents {
		agentNames = append(agentNames, a.Name)
	}
	fmt.Fprintf(out, "installing %d skill(s) into %s\n", len(plan.Skills), strings.Join(agentNames, ", "))
	for _, sk := range plan.Skills {
		fmt.Fprintf(out, "  - %s: %s\n", plan.Display[sk.Path], sk.Description)
	}
	fmt.Fprint(out, "proceed? [y/N] ")
	reader := bufio.NewReader(in)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return false, nil
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}

func newSearchCmd(newSvc func() (*app.Service, error), jsonOutput *bool) *cobra.Command {
	var page int
	cmd := &cobra.Command{
		Use:     "search <query>",
		Aliases: []string{"find"},
		Short:   "Search the remote skill catalog",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newSvc()
			if err != nil {
				return err
			}
			results, err := svc.Search(cmd.Context(), args[0], page)
			if err != nil {
				return err
			}
			if *jsonOutput {
				return printJSON(results)
			}
			if len(results.Items) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no results")
				return nil
			}
			for _, item := range results.Items {
				fmt.Fprintf(cmd.OutOrStdout(), "- %s (%s): %s\n", color.CyanString(item.Name), item.Repo, item.Description)
			}
			if results.NextPage > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "more results: --page %d\n", results.NextPage)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "result page")
	return cmd
}

func newAgentsCmd(newSvc func() (*app.Service, error), jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "agents",
		Short: "List supported and detected coding agents",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := newSvc(); err != nil {
				return err
			}
			summary := agentSummary()
			if *jsonOutput {
				return printJSON(summary)
			}
			for _, a := range summary {
				mark := " "
				if a.Detected {
					mark = color.GreenString("*")
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %-10s %s (%d skill(s) installed)\n", mark, a.Name, a.DisplayName, len(a.InstalledSkills))
			}
			fmt.Fprintln(cmd.OutOrStdout(), "* detected on this machine")
			return nil
		},
	}
}

func newFavCmd(newSvc func() (*app.Service, error), jsonOutput *bool) *cobra.Command {
	var description string

	favCmd := &cobra.Command{Use: "fav", Aliases: []string{"favourites", "favorites"}, Short: "Manage favourite skill repositories"}

	addCmd := &cobra.Command{
		Use:   "add <id> <repo>",
		Short: "Save a repository as a favourite",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newSvc()
			if err != nil {
				return err
			}
			fav, err := svc.Favourites.Add(args[0], args[1], description)
			if err != nil {
				return err
			}
			if *jsonOutput {
				return printJSON(fav)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "saved %s -> %s\n", fav.ID, fav.Repo)
			return nil
		},
	}
	addCmd.Flags().StringVar(&description, "desc", "", "favourite description")

	removeCmd := &cobra.Command{
		Use:     "remove <id>",
		Aliases: []string{"rm"},
		Short:   "Remove a favourite",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newSvc()
			if err != nil {
				return err
			}
			removed, err := svc.Favourites.Remove(args[0])
			if err != nil {
				return err
			}
			if !removed {
				return fmt.Errorf("FAV_NOT_FOUND: no favourite %q", args[0])
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", args[0])
			return nil
		},
	}

	listCmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List favourites",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newSvc()
			if err != nil {
				return err
			}
			favs, err := svc.Favourites.List()
			if err != nil {
				return err
			}
			if *jsonOutput {
				return printJSON(favs)
			}
			if len(favs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no favourites saved")
				return nil
			}
			for _, f := range favs {
				fmt.Fprintf(cmd.OutOrStdout(), "- %s: %s %s\n", f.ID, f.Repo, f.Description)
			}
			return nil
		},
	}

	favCmd.AddCommand(addCmd, removeCmd, listCmd)
	return favCmd
}

func newDoctorCmd(newSvc func() (*app.Service, error), jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check the local environment",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newSvc()
			if err != nil {
				return err
			}
			report := svc.Doctor()
			if *jsonOutput {
				return printJSON(report)
			}
			for _, f := range report.Findings {
				fmt.Fprintf(cmd.OutOrStdout(), "[%s] %s: %s\n", f.Level, f.Code, f.Message)
			}
			if report.Healthy {
				fmt.Fprintf(cmd.OutOrStdout(), "%s environment looks good (agents: %s)\n", color.GreenString("ok"), strings.Join(report.DetectedAgents, ", "))
				return nil
			}
			return &exitError{code: 1, msg: "environment has problems"}
		},
	}
}

func newUpgradeCmd(newSvc func() (*app.Service, error), jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "upgrade",
		Short: "Update skillget to the latest release",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := newSvc(); err != nil {
				return err
			}
			res, err := selfupdate.New(nil, config.Version).Update(cmd.Context())
			if err != nil {
				return err
			}
			if *jsonOutput {
				return printJSON(res)
			}
			if res.Updated {
				fmt.Fprintf(cmd.OutOrStdout(), "updated to %s\n", res.Version)
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "already up to date")
			}
			return nil
		},
	}
}

func printJSON(payload any) error {
	blob, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(blob))
	return nil
}
