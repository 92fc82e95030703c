// Package app wires the resolver, cloner, discovery engine, and
// installer into the flows the CLI exposes.
package app

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"skillget/internal/agent"
	"skillget/internal/audit"
	"skillget/internal/config"
	"skillget/internal/discovery"
	"skillget/internal/doctor"
	"skillget/internal/favourites"
	"skillget/internal/gitrepo"
	"skillget/internal/installer"
	"skillget/internal/logging"
	"skillget/internal/resolver"
	"skillget/internal/search"
)

type Options struct {
	ConfigPath  string
	ProjectRoot string
	Version     string
}

type Service struct {
	ConfigPath  string
	Config      config.Config
	ProjectRoot string
	Version     string

	Cloner     *gitrepo.Cloner
	Installer  *installer.Service
	Favourites *favourites.Store
	Audit      *audit.Logger
}

func New(opts Options) (*Service, error) {
	configPath := opts.ConfigPath
	if configPath == "" {
		configPath = config.DefaultConfigPath()
	}
	cfg, err := config.Ensure(configPath)
	if err != nil {
		return nil, err
	}
	logging.Setup(cfg.Logging)

	projectRoot := opts.ProjectRoot
	if projectRoot == "" {
		if cwd, err := os.Getwd(); err == nil {
			projectRoot = cwd
		} else {
			projectRoot = "."
		}
	}

	return &Service{
		ConfigPath:  configPath,
		Config:      cfg,
		ProjectRoot: projectRoot,
		Version:     opts.Version,
		Cloner:      gitrepo.NewCloner(),
		Installer:   &installer.Service{ProjectRoot: projectRoot},
		Favourites:  &favourites.Store{Path: config.DefaultFavouritesPath()},
		Audit:       audit.New(audit.DefaultPath()),
	}, nil
}

// Plan is the resolved install work: what to install, where from, and
// into which agents.
type Plan struct {
	Source   resolver.ParsedSource
	Skills   []discovery.Skill
	Display  map[string]string
	Agents   []agent.Config
	CloneDir string
}

// Plan resolves a source, fetches it if needed, and discovers the
// skills selected for installation. The returned cleanup func removes
// any clone directory and must always be called.
func (s *Service) Plan(ctx context.Context, source string, skillNames, agentNames []string) (*Plan, func(), error) {
	cleanup := func() {}

	parsed, err := resolver.Parse(source)
	if err != nil {
		return nil, cleanup, err
	}

	root := parsed.Path
	cloneDir := ""
	if parsed.Kind != resolver.KindLocal {
		dir, err := s.Cloner.Clone(ctx, parsed.URL)
		if err != nil {
			return nil, cleanup, err
		}
		cloneDir = dir
		root = dir
		cleanup = func() { s.Cloner.Cleanup(dir) }
	} else if strings.HasPrefix(root, "~") {
		expanded, err := config.ExpandPath(root)
		if err != nil {
			return nil, cleanup, fmt.Errorf("SRC_PARSE: %w", err)
		}
		root = expanded
	}

	catalog, err := discovery.Discover(root, parsed.Subpath)
	if err != nil {
		return nil, cleanup, err
	}
	catalog, err = filterSkills(catalog, skillNames)
	if err != nil {
		return nil, cleanup, err
	}
	if len(catalog) == 0 {
		return nil, cleanup, fmt.Errorf("SKL_NONE: no skills found in %s", source)
	}

	agents, err := s.targetAgents(agentNames)
	if err != nil {
		return nil, cleanup, err
	}

	return &Plan{
		Source:   parsed,
		Skills:   catalog,
		Display:  discovery.DisplayNames(catalog),
		Agents:   agents,
		CloneDir: cloneDir,
	}, cleanup, nil
}

// Execute installs every planned skill into every target agent and
// returns the full outcome list. Individual failures never abort
// sibling pairs.
func (s *Service) Execute(plan *Plan, global bool) []installer.Outcome {
	outcomes := s.Installer.InstallAll(plan.Skills, plan.Agents, global)
	for _, o := range outcomes {
		status := "ok"
		if !o.Success {
			status = "failed"
		}
		_ = s.Audit.Log(audit.Event{
			Operation: "install",
			Source:    plan.Source.URL,
			Skill:     o.Skill,
			Agent:     o.Agent,
			Status:    status,
			Message:   o.Error,
		})
	}
	return outcomes
}

// filterSkills narrows the catalog to the requested manifest names.
// Requesting a name discovery did not produce is a hard failure.
func filterSkills(catalog []discovery.Skill, names []string) ([]discovery.Skill, error) {
	if len(names) == 0 {
		return catalog, nil
	}
	wanted := map[string]bool{}
	for _, n := range names {
		wanted[strings.TrimSpace(n)] = false
	}
	var out []discovery.Skill
	for _, sk := range catalog {
		if _, ok := wanted[sk.Name]; ok {
			wanted[sk.Name] = true
			out = append(out, sk)
		}
	}
	var missing []string
	for n, found := range wanted {
		if !found {
			missing = append(missing, n)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, fmt.Errorf("SKL_UNKNOWN: skill(s) not found: %s", strings.Join(missing, ", "))
	}
	return out, nil
}

// targetAgents validates explicit agent names, or falls back to the
// detected-and-enabled set.
func (s *Service) targetAgents(names []string) ([]agent.Config, error) {
	if len(names) > 0 {
		out := make([]agent.Config, 0, len(names))
		for _, n := range names {
			cfg, ok := agent.Lookup(n)
			if !ok {
				return nil, fmt.Errorf("AGT_UNKNOWN: unsupported agent %q", n)
			}
			out = append(out, cfg)
		}
		return out, nil
	}
	detected := agent.DetectInstalled()
	out := make([]agent.Config, 0, len(detected))
	for _, cfg := range detected {
		if config.AgentEnabled(s.Config, cfg.Name) {
			out = append(out, cfg)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("AGT_NONE: no coding agents detected; pass --agent explicitly")
	}
	return out, nil
}

// Search queries the remote catalog with the configured endpoint and
// credentials.
func (s *Service) Search(ctx context.Context, query string, page int) (search.Page, error) {
	token := ""
	if env := s.Config.Search.TokenEnv; env != "" {
		token = os.Getenv(env)
	}
	client := search.New(s.Config.Search.Endpoint, token, s.Version)
	return client.Search(ctx, query, page)
}

// Doctor runs environment diagnostics.
func (s *Service) Doctor() doctor.Report {
	svc := &doctor.Service{ConfigPath: s.ConfigPath, FavouritesPath: s.Favourites.Path}
	return svc.Run()
}
