// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
)

type Id int

const (
	DocumentsDirNotFoundId Id = iota + 1
	DocumentParseErrorId
	DuplicateNamespaceId
	RequiredDocumentMissingId
	RenderFailedId
	BackupFailedId
	SettingsLoadFailedId
)

type MarkdownMsg string

type Issue struct {
	id    Id          // ID used to lookup the issue
	mdMsg MarkdownMsg // Markdown text that will be rendered
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) Render(stylePath string) (string, error) {
	return render(string(i.mdMsg), stylePath)
}

var (
	render = glamour.Render

	documentsDirNotFoundIssue = &Issue{
		id: DocumentsDirNotFoundId,
		mdMsg: `
# No configuration documents found!

We searched for the configuration directory but couldn't find it.

## Expected layout:
~~~
<dotfiles root>/
├── config/
│   ├── shared.json
│   ├── aliases.json
│   ├── functions.json
│   ├── advanced_functions.json
│   └── integration.json
└── generated/
~~~

## Things you can try:
- Point the generator at your documents directory:
~~~
$ dotsmith generate --documents-dir ~/dotfiles/config
~~~

- Or set it in your settings file (~/.config/dotsmith/settings.cue):
~~~cue
documents_dir: "~/dotfiles/config"
~~~`,
	}

	documentParseErrorIssue = &Issue{
		id: DocumentParseErrorId,
		mdMsg: `
# Failed to parse a configuration document!

One of your JSON documents contains a syntax error.

## Common issues:
- Trailing commas (JSON does not allow them)
- Unquoted keys
- Single quotes instead of double quotes
- Truncated files from interrupted edits

## Things you can try:
- Check the error message above for the offending document
- Run the strict validator for a full report:
~~~
$ dotsmith validate
~~~`,
	}

	duplicateNamespaceIssue = &Issue{
		id: DuplicateNamespaceId,
		mdMsg: `
# Duplicate document namespace!

Two configuration documents declare the same top-level name, so the merge
would silently drop one of them. dotsmith refuses to guess which one wins.

## Things you can try:
- Rename one of the conflicting documents
- Remove the duplicate entry from the documents list in your settings file`,
	}

	requiredDocumentMissingIssue = &Issue{
		id: RequiredDocumentMissingId,
		mdMsg: `
# Required document missing!

The generator needs at least the 'shared' and 'aliases' documents to
produce a usable profile.

## Things you can try:
- Create the missing document under <root>/config/
- A minimal shared.json:
~~~json
{
  "environment": {"EDITOR": "vim"},
  "features": {"banner": true}
}
~~~`,
	}

	renderFailedIssue = &Issue{
		id: RenderFailedId,
		mdMsg: `
# Failed to render a profile!

Strict mode found an entry whose data is incomplete for the target dialect.

## Things you can try:
- Check the path named in the error message
- Add the missing per-dialect value, or a shared value
- Re-run in lenient mode to skip incomplete entries:
~~~
$ dotsmith generate
~~~`,
	}

	backupFailedIssue = &Issue{
		id: BackupFailedId,
		mdMsg: `
# Failed to back up the previous profile!

The existing generated file could not be moved aside, so the write was
aborted. Your previous profile is untouched.

## Things you can try:
- Check permissions on the generated/ and backups/ directories
- Check free disk space
- Remove stale backups if the backup directory is full`,
	}

	settingsLoadFailedIssue = &Issue{
		id: SettingsLoadFailedId,
		mdMsg: `
# Failed to load generator settings!

Could not load the dotsmith settings file.

## Settings file locations:
- Linux: ~/.config/dotsmith/settings.cue
- macOS: ~/Library/Application Support/dotsmith/settings.cue
- Windows: %APPDATA%\dotsmith\settings.cue

## Things you can try:
- Check the settings syntax
- Remove the settings file to use defaults

## Example settings:
~~~cue
documents_dir: "~/dotfiles/config"
strict: false
backup_retention: 5
~~~`,
	}

	issues = map[Id]*Issue{
		documentsDirNotFoundIssue.Id():    documentsDirNotFoundIssue,
		documentParseErrorIssue.Id():      documentParseErrorIssue,
		duplicateNamespaceIssue.Id():      duplicateNamespaceIssue,
		requiredDocumentMissingIssue.Id(): requiredDocumentMissingIssue,
		renderFailedIssue.Id():            renderFailedIssue,
		backupFailedIssue.Id():            backupFailedIssue,
		settingsLoadFailedIssue.Id():      settingsLoadFailedIssue,
	}
)

func Values() []*Issue {
	return maps.Values(issues)
}

func Get(id Id) *Issue {
	return issues[id]
}
