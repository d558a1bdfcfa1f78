package archive

// EntryPath is exported for testing.
var EntryPath = entryPath
