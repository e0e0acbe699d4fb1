package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/vinayprograms/vogsphere/errors"
	"github.com/vinayprograms/vogsphere/llm"
	"github.com/vinayprograms/vogsphere/profiles"
)

const profileUsage = `Usage: vogsphere profile <command>

Commands:
  list                        list profiles, * marks the active one
  show [profile]              show a profile (default: active)
  new <name>                  create a profile with OpenAI defaults and select it
  use <profile>               select the active profile
  set [-profile p] key=value  edit fields: name, provider, base_url, api_key,
                              model, deployment, api_version, language
  delete <profile>            delete a profile
`

func runProfile(ctx context.Context, e *env, args []string) error {
	if len(args) == 0 {
		fmt.Fprint(e.stderr, profileUsage)
		return errors.InvalidInput("profile needs a command")
	}

	m, err := e.manager(ctx)
	if err != nil {
		return err
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "list", "ls":
		return listProfiles(e.stdout, m)

	case "show":
		p, err := selectProfile(m, strings.Join(rest, " "))
		if err != nil {
			return err
		}
		showProfile(e.stdout, p)
		return nil

	case "new", "create":
		p, err := m.Create(ctx, strings.Join(rest, " "))
		if err != nil {
			return err
		}
		fmt.Fprintf(e.stdout, "Created %s (%s)\n", p.Name, p.ID)
		return nil

	case "use", "select":
		p, err := m.Find(strings.Join(rest, " "))
		if err != nil {
			return err
		}
		if err := m.Select(ctx, p.ID); err != nil {
			return err
		}
		fmt.Fprintf(e.stdout, "Active profile: %s\n", p.Name)
		return nil

	case "set":
		return setProfile(ctx, e, m, rest)

	case "delete", "rm":
		p, err := m.Find(strings.Join(rest, " "))
		if err != nil {
			return err
		}
		if err := m.Delete(ctx, p.ID); err != nil {
			return err
		}
		fmt.Fprintf(e.stdout, "Deleted %s\n", p.Name)
		return nil
	}

	fmt.Fprint(e.stderr, profileUsage)
	return errors.InvalidInput(fmt.Sprintf("unknown profile command %q", cmd))
}

func listProfiles(w io.Writer, m *profiles.Manager) error {
	active, err := m.Active()
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "\tNAME\tPROVIDER\tMODEL\tID")
	for _, p := range m.Profiles() {
		mark := ""
		if p.ID == active.ID {
			mark = "*"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", mark, p.Name, p.Provider, p.Fields.Model, p.ID)
	}
	return tw.Flush()
}

func showProfile(w io.Writer, p profiles.Profile) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "id\t%s\n", p.ID)
	fmt.Fprintf(tw, "name\t%s\n", p.Name)
	fmt.Fprintf(tw, "provider\t%s\n", p.Provider)
	for _, field := range p.Provider.Fields() {
		value := p.Fields.Get(field)
		if field == llm.FieldAPIKey {
			value = maskKey(value)
		}
		fmt.Fprintf(tw, "%s\t%s\n", field, value)
	}
	fmt.Fprintf(tw, "language\t%s\n", p.Language)
	tw.Flush()
}

// maskKey keeps the last four characters of a key.
func maskKey(key string) string {
	if key == "" {
		return "(not set)"
	}
	if len(key) <= 4 {
		return "****"
	}
	return "****" + key[len(key)-4:]
}

func setProfile(ctx context.Context, e *env, m *profiles.Manager, args []string) error {
	fs := flag.NewFlagSet("profile set", flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	ref := fs.String("profile", "", "Profile id or name (default: active profile)")
	if err := fs.Parse(args); err != nil {
		return errors.InvalidInput(err.Error())
	}
	if fs.NArg() == 0 {
		return errors.InvalidInput("set needs at least one key=value")
	}

	p, err := selectProfile(m, *ref)
	if err != nil {
		return err
	}
	for _, kv := range fs.Args() {
		key, value, ok := strings.Cut(kv, "=")
		if !ok {
			return errors.InvalidInput(fmt.Sprintf("expected key=value, got %q", kv))
		}
		if err := applySetting(&p, key, value); err != nil {
			return err
		}
	}
	if err := m.Update(ctx, p); err != nil {
		return err
	}
	showProfile(e.stdout, p)
	return nil
}

// applySetting sets one field. Changing the provider fills that provider's
// defaults first, so a later model= in the same call wins.
func applySetting(p *profiles.Profile, key, value string) error {
	switch strings.ToLower(strings.ReplaceAll(key, "-", "_")) {
	case "name":
		p.Name = value
	case "provider":
		kind, ok := llm.ParseKind(value)
		if !ok {
			return errors.InvalidInput(fmt.Sprintf("unknown provider %q", value),
				errors.WithMetadata("known", kindList()),
			)
		}
		profiles.ApplyProviderDefaults(p, kind)
	case "base_url", "baseurl":
		p.Fields.BaseURL = value
	case "api_key", "apikey":
		p.Fields.APIKey = value
	case "model", "model_name":
		p.Fields.Model = value
	case "deployment":
		p.Fields.Deployment = value
	case "api_version", "apiversion":
		p.Fields.APIVersion = value
	case "language", "lang":
		p.Language = value
	default:
		return errors.InvalidInput(fmt.Sprintf("unknown profile field %q", key))
	}
	return nil
}

func kindList() string {
	names := make([]string, len(llm.Kinds))
	for i, k := range llm.Kinds {
		names[i] = k.String()
	}
	return strings.Join(names, ",")
}
