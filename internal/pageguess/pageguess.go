// Package pageguess suggests page mappings for user stories.
//
// The heuristic reads the "As a [role], I want to [action] [object]" shape
// of story text, matches the extracted phrases against the model's page
// surface (reports and workflows flagged as pages), and walks parent
// objects when the matched object exposes no pages of its own. Suggestions
// are ranked hints, never authoritative.
package pageguess

import (
	"regexp"
	"slices"
	"strings"

	"github.com/appdna/devtrack/internal/model"
)

// Page is one user-visible page collected from the object graph.
type Page struct {
	Name              string
	ObjectName        string
	Role              string
	TargetChildObject string
	IsStart           bool

	// Form is true for workflow pages, false for report pages.
	Form bool
}

// StoryParts are the phrases extracted from story text.
type StoryParts struct {
	Role   string
	Action string
	Object string
}

var (
	roleRe = regexp.MustCompile(`(?i)\bas an?\s+\[?([a-z0-9 _-]+?)\]?\s*,`)

	actionRe = regexp.MustCompile(
		`(?i)\bi want to\s+\[?(view all|view|see|add|create|update|edit|delete|remove|manage)\]?` +
			`\s+(?:(?:all|an|a|the|my)\s+)?\[?([a-z0-9 _-]+?)\]?\s*\.?\s*$`)
)

// ExtractStoryParts pulls role, action, and object phrases out of story
// text. Missing pieces come back empty; the caller decides how much of a
// guess is still worth making.
func ExtractStoryParts(text string) StoryParts {
	var parts StoryParts

	if m := roleRe.FindStringSubmatch(text); m != nil {
		parts.Role = strings.TrimSpace(m[1])
	}

	if m := actionRe.FindStringSubmatch(text); m != nil {
		parts.Action = strings.ToLower(strings.TrimSpace(m[1]))
		parts.Object = strings.TrimSpace(m[2])
	}

	return parts
}

// CollectPages flattens the object graph into its page surface.
func CollectPages(objects []model.ModelObject) []Page {
	var pages []Page

	for _, obj := range objects {
		for _, rep := range obj.Report {
			if !rep.PageReport() {
				continue
			}

			pages = append(pages, Page{
				Name:              rep.Name,
				ObjectName:        obj.Name,
				Role:              rep.RoleRequired,
				TargetChildObject: rep.TargetChildObject,
			})
		}

		for _, wf := range obj.ObjectWorkflow {
			if !wf.PageWorkflow() {
				continue
			}

			pages = append(pages, Page{
				Name:       wf.Name,
				ObjectName: obj.Name,
				Role:       wf.RoleRequired,
				IsStart:    wf.IsStartPage == "true",
				Form:       true,
			})
		}
	}

	return pages
}

// ValidatePages splits candidate page names into those present in the
// model and those that are not.
func ValidatePages(names []string, objects []model.ModelObject) (known, unknown []string) {
	pages := CollectPages(objects)

	valid := make(map[string]bool, len(pages))
	for _, p := range pages {
		valid[p.Name] = true
	}

	for _, name := range names {
		if valid[name] {
			known = append(known, name)
		} else {
			unknown = append(unknown, name)
		}
	}

	return known, unknown
}

const maxParentHops = 10

// Suggest returns ranked page-name candidates for a story. An empty result
// means the heuristic found nothing to anchor on.
func Suggest(story model.UserStory, objects []model.ModelObject) []string {
	parts := ExtractStoryParts(story.StoryText)
	if parts.Object == "" {
		return nil
	}

	pages := CollectPages(objects)

	candidates := pagesForPhrase(pages, parts.Object)

	// Hierarchical fallback: a matched object with no pages of its own
	// borrows its nearest ancestor's pages.
	if len(candidates) == 0 {
		obj, ok := objectByPhrase(objects, parts.Object)
		for hops := 0; ok && len(candidates) == 0 && hops < maxParentHops; hops++ {
			obj, ok = objectByName(objects, obj.ParentObjectName)
			if ok {
				candidates = pagesForObject(pages, obj.Name)
			}
		}
	}

	// Last resort: pages whose name contains the object phrase.
	if len(candidates) == 0 {
		phrase := normalize(parts.Object)
		for _, p := range pages {
			if phrase != "" && strings.Contains(normalize(p.Name), phrase) {
				candidates = append(candidates, p)
			}
		}
	}

	return rank(candidates, parts)
}

func rank(candidates []Page, parts StoryParts) []string {
	type scored struct {
		page  Page
		score int
	}

	role := normalize(parts.Role)
	ranked := make([]scored, 0, len(candidates))

	for _, p := range candidates {
		score := 1

		// A page open to everyone fits any role; a role-locked page
		// only scores when the roles agree.
		switch {
		case p.Role == "":
			score++
		case role != "" && normalize(p.Role) == role:
			score += 2
		case role != "":
			score -= 1
		}

		if actionMatchesPage(parts.Action, p) {
			score += 2
		}

		ranked = append(ranked, scored{page: p, score: score})
	}

	slices.SortStableFunc(ranked, func(a, b scored) int {
		return b.score - a.score
	})

	names := make([]string, 0, len(ranked))
	for _, s := range ranked {
		if s.score > 0 {
			names = append(names, s.page.Name)
		}
	}

	return names
}

// actionMatchesPage pairs story verbs with page kinds: list-style actions
// point at reports, mutation verbs at workflow forms.
func actionMatchesPage(action string, p Page) bool {
	switch action {
	case "view all", "view", "see":
		return !p.Form
	case "add", "create", "update", "edit", "delete", "remove":
		return p.Form
	default:
		return false
	}
}

func pagesForPhrase(pages []Page, phrase string) []Page {
	var matched []Page

	for _, p := range pages {
		if phraseMatches(p.ObjectName, phrase) || phraseMatches(p.TargetChildObject, phrase) {
			matched = append(matched, p)
		}
	}

	return matched
}

func pagesForObject(pages []Page, objectName string) []Page {
	var matched []Page

	for _, p := range pages {
		if p.ObjectName == objectName {
			matched = append(matched, p)
		}
	}

	return matched
}

func objectByPhrase(objects []model.ModelObject, phrase string) (model.ModelObject, bool) {
	for _, obj := range objects {
		if phraseMatches(obj.Name, phrase) {
			return obj, true
		}
	}

	return model.ModelObject{}, false
}

func objectByName(objects []model.ModelObject, name string) (model.ModelObject, bool) {
	if name == "" {
		return model.ModelObject{}, false
	}

	for _, obj := range objects {
		if obj.Name == name {
			return obj, true
		}
	}

	return model.ModelObject{}, false
}

// phraseMatches compares an object name against a story phrase ignoring
// case, separators, and a trailing plural "s".
func phraseMatches(name, phrase string) bool {
	n := normalize(name)
	p := normalize(phrase)

	if n == "" || p == "" {
		return false
	}

	return n == p || n == singular(p) || singular(n) == singular(p)
}

func singular(s string) string {
	if len(s) > 3 && strings.HasSuffix(s, "s") {
		return strings.TrimSuffix(s, "s")
	}

	return s
}

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

func normalize(s string) string {
	return nonAlnum.ReplaceAllString(strings.ToLower(s), "")
}
