// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"maps"
	"slices"
	"strings"

	"github.com/charmbracelet/glamour"
)

type Id int

const (
	CookbookNotFoundId Id = iota + 1
	EmptyCookbookId
	MetadataParseFailedId
	InvalidMetadataSourceId
	InvalidChefignoreId
	ConfigLoadFailedId
	CookbookPathMissingId
	ReadmeNotFoundId
)

type MarkdownMsg string

type HttpLink string

type Renderer interface {
	Render(in string, stylePath string) (string, error)
}

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink
	extLinks []HttpLink // external links that might be useful for the user
}

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

func (i *Issue) Render(stylePath string) (string, error) {
	var extra strings.Builder
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		extra.WriteString("\n\n## See also\n")
		for _, link := range i.docLinks {
			extra.WriteString("- <" + string(link) + ">\n")
		}
		for _, link := range i.extLinks {
			extra.WriteString("- <" + string(link) + ">\n")
		}
	}
	return render(string(i.mdMsg)+extra.String(), stylePath)
}

var (
	render = glamour.Render

	cookbookNotFoundIssue = &Issue{
		id: CookbookNotFoundId,
		mdMsg: `
# Cookbook not found!

None of the searched directories holds a cookbook with that name.

## Things you can try:
- List the cookbooks visible from your cookbook path:
~~~
$ cookbook list
~~~

- Add the repository that holds the cookbook:
~~~
$ cookbook list --cookbook-path ./cookbooks --cookbook-path ./site-cookbooks
~~~

- Check the ` + "`cookbook_path`" + ` entry of your configuration:
~~~
$ cookbook config show
~~~`,
		docLinks: []HttpLink{"https://docs.chef.io/cookbook_repo/"},
	}

	emptyCookbookIssue = &Issue{
		id: EmptyCookbookId,
		mdMsg: `
# Directory does not look like a cookbook

The directory has no recipes, attributes, templates or other cookbook files,
and no ` + "`metadata.rb`" + `, ` + "`metadata.json`" + ` or uploaded version descriptor.

## Things you can try:
- Make sure you pointed at the cookbook directory and not the repository
  holding it.
- Check your ` + "`chefignore`" + ` file: a broad pattern such as ` + "`*`" + ` hides
  every file of the cookbook.`,
	}

	metadataParseFailedIssue = &Issue{
		id: MetadataParseFailedId,
		mdMsg: `
# Failed to read cookbook metadata

The metadata file of the cookbook could not be parsed. No partial metadata is
used.

## Things you can try:
- Check that ` + "`metadata.json`" + ` is valid JSON with string values for
  ` + "`name`" + `, ` + "`version`" + ` and the dependency maps.
- Only plain declarations are read from ` + "`metadata.rb`" + `, for example:
~~~ruby
name 'apache2'
version '5.0.1'
depends 'yum', '>= 3.0'
supports 'ubuntu'
~~~

- Versions must look like ` + "`1.2.3`" + ` and constraints like ` + "`~> 1.2`" + `.`,
		docLinks: []HttpLink{"https://docs.chef.io/config_rb_metadata/"},
	}

	invalidMetadataSourceIssue = &Issue{
		id: InvalidMetadataSourceId,
		mdMsg: `
# Invalid metadata file for this cookbook

The file is not a metadata script, a metadata document or an uploaded
version descriptor.

## Things you can try:
- Point the command at ` + "`metadata.rb`" + `, ` + "`metadata.json`" + ` or
  ` + "`.uploaded-cookbook-version.json`" + `.`,
	}

	invalidChefignoreIssue = &Issue{
		id: InvalidChefignoreId,
		mdMsg: `
# Invalid chefignore pattern

One line of the ignore file is not a valid glob pattern.

## Things you can try:
- Patterns use ` + "`*`" + `, ` + "`?`" + `, ` + "`[...]`" + ` and ` + "`**`" + `. An unbalanced
  bracket such as ` + "`[abc`" + ` is rejected.
- Lines starting with ` + "`#`" + ` are comments.`,
		docLinks: []HttpLink{"https://docs.chef.io/chef_repo/#chefignore-files"},
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

The configuration file could not be read or does not match the schema.

## Things you can try:
- Show where the configuration is read from:
~~~
$ cookbook config path
~~~

- Write a fresh default file and compare:
~~~
$ cookbook config init
~~~

## Example configuration:
~~~cue
cookbook_path: ["./cookbooks", "./site-cookbooks"]
chefignore:    "chefignore"
parallelism:   4
log: level: "info"
~~~`,
		extLinks: []HttpLink{"https://cuelang.org/docs/"},
	}

	cookbookPathMissingIssue = &Issue{
		id: CookbookPathMissingId,
		mdMsg: `
# No cookbook path configured

There is nowhere to look for cookbooks.

## Things you can try:
- Pass one or more repositories on the command line:
~~~
$ cookbook list --cookbook-path ./cookbooks
~~~

- Or set it once in the configuration, or with the environment:
~~~
$ export COOKBOOK_COOKBOOK_PATH=./cookbooks,./site-cookbooks
~~~`,
	}

	readmeNotFoundIssue = &Issue{
		id: ReadmeNotFoundId,
		mdMsg: `
# No README.md in this cookbook

None of the overlay roots carries a ` + "`README.md`" + ` at the cookbook root.

## Things you can try:
- Check that the file is not matched by ` + "`chefignore`" + `.
- Show the files the cookbook resolves to:
~~~
$ cookbook show ./cookbooks/apache2
~~~`,
	}

	issues = map[Id]*Issue{
		cookbookNotFoundIssue.Id():      cookbookNotFoundIssue,
		emptyCookbookIssue.Id():         emptyCookbookIssue,
		metadataParseFailedIssue.Id():   metadataParseFailedIssue,
		invalidMetadataSourceIssue.Id(): invalidMetadataSourceIssue,
		invalidChefignoreIssue.Id():     invalidChefignoreIssue,
		configLoadFailedIssue.Id():      configLoadFailedIssue,
		cookbookPathMissingIssue.Id():   cookbookPathMissingIssue,
		readmeNotFoundIssue.Id():        readmeNotFoundIssue,
	}
)

// Values returns every known issue ordered by id.
func Values() []*Issue {
	out := slices.Collect(maps.Values(issues))
	slices.SortFunc(out, func(a, b *Issue) int { return int(a.id) - int(b.id) })
	return out
}

func Get(id Id) *Issue {
	return issues[id]
}
