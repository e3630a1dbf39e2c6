package domain

// Group is a directory group with its member uids in directory order.
type Group struct {
	DN      string
	Name    string
	Members []string
}

// DirectoryEntry is a raw search result: distinguished name plus attributes.
type DirectoryEntry struct {
	DN         string
	Attributes map[string][]string
}
