package cli

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"text/tabwriter"

	flag "github.com/spf13/pflag"

	"github.com/appdna/devtrack/internal/pageguess"
	"github.com/appdna/devtrack/internal/sidecar"
	"github.com/appdna/devtrack/internal/view"
)

func cmdMapping() *Command {
	flags := flag.NewFlagSet("mapping", flag.ContinueOnError)
	limit := flags.Int("limit", 5, "Maximum suggestions per story")

	return &Command{
		Flags: flags,
		Usage: "mapping <ls|set|suggest> [args] [flags]",
		Short: "Manage story-to-page mappings",
		Long: "Manage the page-mapping document.\n\n" +
			"  mapping ls                          list current mappings\n" +
			"  mapping set <story-number> <pages>  store a comma-separated page list\n" +
			"  mapping suggest [story-id]          rank model pages against story text",
		Exec: func(a *App, o *IO, args []string) error {
			if len(args) == 0 {
				return errors.New("expected a subcommand: ls, set, suggest")
			}

			env, err := a.Env()
			if err != nil {
				return err
			}

			sub, rest := args[0], args[1:]

			switch sub {
			case "ls":
				return mappingLs(env, o)
			case "set":
				return mappingSet(env, o, rest)
			case "suggest":
				return mappingSuggest(env, o, rest, *limit)
			default:
				return fmt.Errorf("unknown subcommand: %s", sub)
			}
		},
	}
}

// loadMappings tolerates a malformed document: reads degrade to an empty
// map, the store already logged the warning. Saving later starts fresh.
func loadMappings(env *Env) (map[string]sidecar.PageMapping, error) {
	mappings, err := env.Store.LoadPageMappings()
	if err != nil {
		if errors.Is(err, sidecar.ErrParse) {
			return map[string]sidecar.PageMapping{}, nil
		}

		return nil, err
	}

	return mappings, nil
}

func mappingLs(env *Env, o *IO) error {
	mappings, err := loadMappings(env)
	if err != nil {
		return err
	}

	numbers := slices.Sorted(maps.Keys(mappings))

	w := tabwriter.NewWriter(o.out, 2, 4, 2, ' ', 0)

	_, _ = w.Write([]byte("STORY\tPAGES\tIGNORED\n"))

	for _, num := range numbers {
		pm := mappings[num]

		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n",
			num, strings.Join(pm.PageMapping, ", "), strings.Join(pm.IgnorePages, ", "))
	}

	return w.Flush()
}

func mappingSet(env *Env, o *IO, args []string) error {
	if len(args) != 2 {
		return errors.New("expected a story number and a comma-separated page list")
	}

	storyNumber, pageList := args[0], args[1]

	mappings, err := loadMappings(env)
	if err != nil {
		return err
	}

	names := []string{}

	for _, name := range strings.Split(pageList, ",") {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}

	if _, unknown := pageguess.ValidatePages(names, env.Source.AllObjects()); len(unknown) > 0 {
		o.ErrPrintf("warning: pages not found in the model: %s\n", strings.Join(unknown, ", "))
	}

	entry := mappings[storyNumber]
	entry.PageMapping = names

	if entry.IgnorePages == nil {
		entry.IgnorePages = []string{}
	}

	mappings[storyNumber] = entry

	err = env.Store.SavePageMappings(mappings)
	if err != nil {
		return err
	}

	o.Println("mapped story", storyNumber)

	return nil
}

func mappingSuggest(env *Env, o *IO, args []string, limit int) error {
	m := env.Source.CurrentModel()
	if m == nil {
		return errors.New("the model file could not be read")
	}

	stories := view.VisibleStories(m)

	if len(args) == 1 {
		story, ok := m.StoryByID(args[0])
		if !ok {
			return fmt.Errorf("unknown story: %s", args[0])
		}

		stories = stories[:0]
		stories = append(stories, story)
	}

	objects := env.Source.AllObjects()

	w := tabwriter.NewWriter(o.out, 2, 4, 2, ' ', 0)

	_, _ = w.Write([]byte("#\tSTORY\tSUGGESTED PAGES\n"))

	for _, story := range stories {
		names := pageguess.Suggest(story, objects)
		if len(names) > limit {
			names = names[:limit]
		}

		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n",
			story.StoryNumber, truncate(story.Name, 48), strings.Join(names, ", "))
	}

	return w.Flush()
}
