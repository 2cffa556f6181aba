// SPDX-License-Identifier: MPL-2.0

package issue

import "github.com/charmbracelet/glamour"

const (
	ModuleNotFoundId Id = iota + 1
	AliasPathNotFoundId
	InvalidAliasNameId
	ManifestParseErrorId
	ConfigLoadFailedId
)

type (
	Id int

	MarkdownMsg string

	Issue struct {
		id    Id          // ID used to lookup the issue
		mdMsg MarkdownMsg // Markdown text that will be rendered
	}
)

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

// Render renders the issue markdown with the named glamour style ("dark", "light", "notty").
func (i *Issue) Render(stylePath string) (string, error) {
	return render(string(i.mdMsg), stylePath)
}

var (
	render = glamour.Render

	moduleNotFoundIssue = &Issue{
		id: ModuleNotFoundId,
		mdMsg: `
# Module not found!

The import request did not resolve to a file.

## How requests are resolved:
1. If the first path segment is a registered name, it is replaced by the registered directory
2. The request is tried as a file, then with each configured extension, then as a directory with an index file

## Things you can try:
- List the registered names and their directories:
~~~
$ kraeve alias list
~~~

- Check what a request turns into:
~~~
$ kraeve resolve my-app/lib/util
~~~

- Relative requests must start with ` + "`./`" + ` or ` + "`../`" + `; bare names only work when registered`,
	}

	aliasPathNotFoundIssue = &Issue{
		id: AliasPathNotFoundId,
		mdMsg: `
# Alias target does not exist!

An alias can only point at a path that exists when it is registered.

## Things you can try:
- Check the spelling of the path, relative paths are taken from the current directory
- Register the path relative to another module instead:
~~~
$ kraeve alias set assets ./assets --relative-to my-plugin
~~~`,
	}

	invalidAliasNameIssue = &Issue{
		id: InvalidAliasNameId,
		mdMsg: `
# Invalid alias name!

Only the first segment of an import request is matched against aliases, so
a name must be non-empty and must not contain ` + "`/`" + ` or ` + "`\\`" + `.

## Example:
~~~
$ kraeve alias set shared ../shared
~~~`,
	}

	manifestParseErrorIssue = &Issue{
		id: ManifestParseErrorId,
		mdMsg: `
# Failed to parse package manifest!

A manifest was found while looking for the application root but could not be decoded.

## Common issues:
- Invalid JSON (trailing commas, missing quotes, unbalanced braces)
- A ` + "`name`" + ` field that is not a string

## Things you can try:
- Run discovery with verbose output to see which manifest was read:
~~~
$ kraeve --verbose discover
~~~`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

## Things you can try:
- Show the configuration kraeve would use:
~~~
$ kraeve config show
~~~

- Create a default configuration file:
~~~
$ kraeve config init
~~~

## Example config.cue:
~~~cue
default_name:  "app"
manifest_file: "package.json"
extensions: [".js", ".json"]
aliases: {
	shared: "$HOME/src/shared"
}
~~~`,
	}

	issues = map[Id]*Issue{
		moduleNotFoundIssue.Id():     moduleNotFoundIssue,
		aliasPathNotFoundIssue.Id():  aliasPathNotFoundIssue,
		invalidAliasNameIssue.Id():   invalidAliasNameIssue,
		manifestParseErrorIssue.Id(): manifestParseErrorIssue,
		configLoadFailedIssue.Id():   configLoadFailedIssue,
	}
)

func Get(id Id) *Issue {
	return issues[id]
}
