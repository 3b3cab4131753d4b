package mcp

// Search scopes, relation kinds and write modes understood by the vault API.
var (
	searchScopes  = []string{"content", "filename", "tags"}
	relationKinds = []string{"tags", "links"}
	writeModes    = []string{"overwrite", "append", "prepend"}
)

// Options adjusts catalog behaviour that depends on configuration.
type Options struct {
	// SplitFrontMatter moves a leading YAML block in create_or_update_note
	// content into front_matter before sending.
	SplitFrontMatter bool
}

// Catalog returns the ordered tool list. Every entry carries its own
// translator so the advertised set and the dispatch table cannot drift.
func Catalog(opts Options) []Tool {
	return []Tool{
		defineTool("list_directory",
			"List files and folders in a vault directory with pagination.",
			objectSchema(
				stringProp("path", "Directory path relative to the vault root.").withDefault("."),
				boolProp("recursive", "Include nested directories.").withDefault(false),
				intProp("limit", "Maximum number of entries to return.", 1).withDefault(50),
				intProp("offset", "Number of entries to skip.", 0).withDefault(0),
			),
			listDirectory),

		defineTool("read_file",
			"Read a file from the vault.",
			objectSchema(pathProp("path", "File path relative to the vault root.").require()),
			readFile),

		defineTool("write_file",
			"Write content to a file, replacing it or adding to either end.",
			objectSchema(
				pathProp("path", "File path relative to the vault root.").require(),
				stringProp("content", "Content to write.").require(),
				enumProp("mode", "How content is combined with an existing file.", writeModes...).withDefault("overwrite"),
			),
			writeFile),

		defineTool("delete_item",
			"Delete a file or folder from the vault.",
			objectSchema(pathProp("path", "Path of the file or folder to delete.").require()),
			deleteItem),

		defineTool("create_or_update_note",
			"Create a note, or replace it if it already exists, with optional front matter.",
			objectSchema(
				pathProp("path", "Note path relative to the vault root.").require(),
				stringProp("content", "Markdown body of the note.").require(),
				objectProp("front_matter", "Front matter key/value pairs.").withDefault(map[string]any{}),
			),
			upsertNote(opts)),

		defineTool("get_daily_note",
			"Get the daily note for a date. Relative dates such as \"today\" or \"yesterday\" are resolved by the vault.",
			objectSchema(stringProp("date", "Date (YYYY-MM-DD) or relative date.").withDefault("today")),
			dailyNote),

		defineTool("get_recent_notes",
			"List the most recently modified notes.",
			objectSchema(intProp("limit", "Maximum number of notes to return.", 1).withDefault(5)),
			recentNotes),

		defineTool("search_vault",
			"Search the vault by content, filename and tags.",
			objectSchema(
				stringProp("query", "Search text.").require(),
				setProp("scope", "Fields to search.", searchScopes...).withDefault(searchScopes),
				stringProp("path_filter", "Only match notes under this path."),
			),
			searchVault),

		defineTool("get_related_notes",
			"Find notes related to a note through shared tags or links.",
			objectSchema(
				pathProp("path", "Note path relative to the vault root.").require(),
				setProp("on", "Relationship kinds to follow.", relationKinds...).withDefault(relationKinds),
			),
			relatedNotes),

		// Older endpoints kept for existing clients.

		defineTool("list_files",
			"List all files in the vault.",
			objectSchema(),
			listFiles),

		defineTool("get_file",
			"Get a file's content.",
			objectSchema(pathProp("path", "File path relative to the vault root.").require()),
			getFile),

		defineTool("create_file",
			"Create a new file.",
			objectSchema(
				pathProp("path", "File path relative to the vault root.").require(),
				stringProp("content", "File content.").require(),
			),
			createFile),

		defineTool("update_file",
			"Replace the content of an existing file.",
			objectSchema(
				pathProp("path", "File path relative to the vault root.").require(),
				stringProp("content", "New file content.").require(),
			),
			updateFile),

		defineTool("delete_file",
			"Delete a file.",
			objectSchema(pathProp("path", "File path relative to the vault root.").require()),
			deleteFile),

		defineTool("list_notes",
			"List notes, optionally filtered by a search string across content, filename and tags.",
			objectSchema(stringProp("search", "Optional search text.")),
			listNotes),

		defineTool("get_note",
			"Get a note with its front matter.",
			objectSchema(pathProp("path", "Note path relative to the vault root.").require()),
			getNote),

		defineTool("create_note",
			"Create a new note.",
			objectSchema(
				pathProp("path", "Note path relative to the vault root.").require(),
				stringProp("content", "Markdown body of the note."),
				objectProp("front_matter", "Front matter key/value pairs."),
			),
			createNote),

		defineTool("update_note",
			"Update a note's content and/or front matter. Omitted fields are left unchanged.",
			objectSchema(
				pathProp("path", "Note path relative to the vault root.").require(),
				stringProp("content", "New markdown body."),
				objectProp("front_matter", "New front matter key/value pairs."),
			),
			updateNote),

		defineTool("delete_note",
			"Delete a note.",
			objectSchema(pathProp("path", "Note path relative to the vault root.").require()),
			deleteNote),

		defineTool("list_metadata_keys",
			"List all front matter keys used across the vault.",
			objectSchema(),
			listMetadataKeys),

		defineTool("list_metadata_values",
			"List the distinct values used for a front matter key.",
			objectSchema(pathProp("key", "Front matter key.").require()),
			listMetadataValues),
	}
}
