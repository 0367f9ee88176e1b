// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"cmp"
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/slices"
)

// Id identifies an issue page.
type Id int

const (
	ConfigLoadFailedId Id = iota + 1
	ScriptsDirNotFoundId
	ScriptNotFoundId
	NoScriptsId
	ScriptNotDescribableId
	SelectionRejectedId
	SelectionIncompleteId
	ServeFailedId
)

type (
	// MarkdownMsg is the Markdown body of an issue page.
	MarkdownMsg string

	// HttpLink is a documentation URL shown under an issue page.
	HttpLink string

	// Issue is a guidance page for a class of user-facing errors.
	Issue struct {
		id       Id          // ID used to lookup the issue
		mdMsg    MarkdownMsg // Markdown text that will be rendered
		docLinks []HttpLink
		extLinks []HttpLink // external links that might be useful for the user
	}
)

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

// Render renders the page with the given glamour style ("dark", "light",
// "notty", "auto" or a path to a JSON style file).
func (i *Issue) Render(stylePath string) (string, error) {
	var md strings.Builder
	md.WriteString(string(i.mdMsg))
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		md.WriteString("\n\n## See also\n")
		for _, link := range i.docLinks {
			md.WriteString("- <" + string(link) + ">\n")
		}
		for _, link := range i.extLinks {
			md.WriteString("- <" + string(link) + ">\n")
		}
	}
	return render(md.String(), stylePath)
}

var (
	render = glamour.Render

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

The configuration file could not be read or does not match the schema.

## Things you can try:
- Print the configuration scriptdeck would use without your file:
~~~
$ scriptdeck config show
~~~
- Check which file is being loaded:
~~~
$ scriptdeck config path
~~~
- Regenerate a valid file with every default spelled out:
~~~
$ scriptdeck config init --force
~~~

## Example config.cue
~~~cue
scripts: {
	dir: "~/recipes/scripts"
	help_timeout: "5s"
	interpreters: {py: "python3"}
}
ui: theme: "charm"
~~~`,
		extLinks: []HttpLink{"https://cuelang.org/docs/"},
	}

	scriptsDirNotFoundIssue = &Issue{
		id: ScriptsDirNotFoundId,
		mdMsg: `
# Scripts directory not found!

scriptdeck looks for helper scripts in one directory, by default ` + "`./scripts`" + `.

## Things you can try:
- Point scriptdeck at your scripts for one run:
~~~
$ scriptdeck --scripts-dir ~/recipes/scripts list
~~~
- Or set it permanently with ` + "`SCRIPTDECK_SCRIPTS_DIR`" + ` or ` + "`scripts.dir`" + ` in config.cue`,
	}

	scriptNotFoundIssue = &Issue{
		id: ScriptNotFoundId,
		mdMsg: `
# Script not found!

Scripts can be referred to by their path relative to the scripts directory
(` + "`tools/cleanup.sh`" + `), by file name without extension (` + "`cleanup`" + `) or by the
name in their help title, ignoring case.

## Things you can try:
- List what was cataloged:
~~~
$ scriptdeck list
~~~
- Run with ` + "`--log-level debug`" + ` to see which scripts were skipped and why`,
	}

	noScriptsIssue = &Issue{
		id: NoScriptsId,
		mdMsg: `
# No scripts found!

The scripts directory exists but nothing in it matched ` + "`scripts.patterns`" + `.

## Things you can try:
- Check the patterns (doublestar syntax, relative to the scripts directory):
~~~
$ scriptdeck config show
~~~
- Make sure describable scripts print a title such as
` + "`Recipe Conveyor (v1.0.0), maintained by LT.`" + ` in their help output`,
		extLinks: []HttpLink{"https://github.com/bmatcuk/doublestar#patterns"},
	}

	scriptNotDescribableIssue = &Issue{
		id: ScriptNotDescribableId,
		mdMsg: `
# Script has no argument grammar!

The script was cataloged by name only because its help output has no title line
of the form ` + "`NAME (VERSION), maintained by AUTHOR.`" + `

## Things you can try:
- Add the title line to the script's help description
- Check that the script is matched by ` + "`scripts.probe`" + ` so it is asked for help`,
	}

	selectionRejectedIssue = &Issue{
		id: SelectionRejectedId,
		mdMsg: `
# Argument rejected!

Each argument can be chosen once. Flags inside ` + "`( ... | ... )`" + ` are alternatives:
choosing one locks the others. Flags shown with a placeholder need ` + "`--set name=value`" + `,
flags without one must be passed bare.

## Things you can try:
- Inspect the argument statuses after your choices:
~~~
$ scriptdeck status <script> --set --from-ip=10.0.0.1
~~~`,
	}

	selectionIncompleteIssue = &Issue{
		id: SelectionIncompleteId,
		mdMsg: `
# Selection is incomplete!

Some required arguments have not been chosen yet, or an alternative group has no
alternative selected.

## Things you can try:
- Add the missing arguments with ` + "`--set`" + `
- Compile anyway with ` + "`--allow-incomplete`" + ` to get a partial command line`,
	}

	serveFailedIssue = &Issue{
		id: ServeFailedId,
		mdMsg: `
# SSH server failed!

The selector server could not listen or could not load its host key.

## Things you can try:
- Pick another port:
~~~
$ scriptdeck serve --port 2222
~~~
- Check that ` + "`serve.host_key_path`" + ` points to a writable location`,
	}

	issues = map[Id]*Issue{
		configLoadFailedIssue.Id():     configLoadFailedIssue,
		scriptsDirNotFoundIssue.Id():   scriptsDirNotFoundIssue,
		scriptNotFoundIssue.Id():       scriptNotFoundIssue,
		noScriptsIssue.Id():            noScriptsIssue,
		scriptNotDescribableIssue.Id(): scriptNotDescribableIssue,
		selectionRejectedIssue.Id():    selectionRejectedIssue,
		selectionIncompleteIssue.Id():  selectionIncompleteIssue,
		serveFailedIssue.Id():          serveFailedIssue,
	}
)

// Values returns every issue ordered by Id.
func Values() []*Issue {
	out := make([]*Issue, 0, len(issues))
	for _, i := range issues {
		out = append(out, i)
	}
	slices.SortFunc(out, func(a, b *Issue) int { return cmp.Compare(a.id, b.id) })
	return out
}

func Get(id Id) *Issue {
	return issues[id]
}
